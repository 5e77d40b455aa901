package fdp_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/fdpharvest/fdp"
	"github.com/c360studio/fdpharvest/identifier"
	"github.com/c360studio/fdpharvest/rdfgraph"
	vocab "github.com/c360studio/fdpharvest/vocabulary/fdp"
)

var crawlDocs = map[string]string{
	"/": prefixes + `<{{base}}/> ldp:contains <{{base}}/catalog/1> .`,
	"/catalog/1": prefixes + `<{{base}}/catalog/1> a dcat:Catalog ;
    dct:title "Catalog" ;
    ldp:contains <{{base}}/dataset/1>, <{{base}}/> .`,
	"/dataset/1": prefixes + `<{{base}}/dataset/1> a dcat:Dataset ;
    dct:title "Dataset one" ;
    ldp:contains <{{base}}/catalog/1> .`,
}

func newProvider(t *testing.T, root string, cfg fdp.ProviderConfig) *fdp.RecordProvider {
	t.Helper()
	p, err := fdp.NewRecordProvider(root, fdp.NewClient(5*time.Second), cfg, nil)
	require.NoError(t, err)
	return p
}

func guids(ids []identifier.Identifier) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func TestRecordIDs(t *testing.T) {
	tests := []struct {
		name            string
		harvestCatalogs bool
		want            func(base string) []string
	}{
		{
			name: "datasets only",
			want: func(base string) []string {
				return []string{"dataset=" + base + "/dataset/1"}
			},
		},
		{
			name:            "with catalogs",
			harvestCatalogs: true,
			want: func(base string) []string {
				return []string{"catalog=" + base + "/catalog/1", "dataset=" + base + "/dataset/1"}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFDPServer(t, crawlDocs)
			p := newProvider(t, srv.URL+"/", fdp.ProviderConfig{HarvestCatalogs: tt.harvestCatalogs})

			ids, err := p.RecordIDs(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want(srv.URL), guids(ids))

			// Containment cycles never cause a second fetch.
			for _, path := range []string{"/", "/catalog/1", "/dataset/1"} {
				assert.Equal(t, 1, srv.hitCount(path), path)
			}
		})
	}
}

func TestRecordIDsTrailingSlashIsSameNode(t *testing.T) {
	srv := newFDPServer(t, map[string]string{
		"/": prefixes + `<{{base}}> ldp:contains <{{base}}/catalog/1> .`,
		"/catalog/1": prefixes + `<{{base}}/catalog/1> a dcat:Catalog ;
    ldp:contains <{{base}}/>, <{{base}}/dataset/1>, <{{base}}/dataset/1/> .`,
		"/dataset/1": prefixes + `<{{base}}/dataset/1> a dcat:Dataset .`,
	})
	p := newProvider(t, srv.URL, fdp.ProviderConfig{})

	ids, err := p.RecordIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"dataset=" + srv.URL + "/dataset/1"}, guids(ids))
	assert.Equal(t, 1, srv.hitCount("/"))
	assert.Equal(t, 1, srv.hitCount("/dataset/1"))
	assert.Equal(t, 0, srv.hitCount("/dataset/1/"))
}

func TestRecordIDsDataSeriesAndUntyped(t *testing.T) {
	srv := newFDPServer(t, map[string]string{
		"/": prefixes + `<{{base}}/> ldp:contains <{{base}}/series/1>, <{{base}}/folder>, <{{base}}/missing> .`,
		"/series/1": prefixes + `<{{base}}/series/1> a dcat:DatasetSeries ;
    ldp:contains <{{base}}/dataset/9> .`,
		"/folder":    prefixes + `<{{base}}/folder> dct:title "Just a container" .`,
		"/dataset/9": prefixes + `<{{base}}/dataset/9> a dcat:Dataset .`,
	})
	p := newProvider(t, srv.URL+"/", fdp.ProviderConfig{})

	ids, err := p.RecordIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"dataseries=" + srv.URL + "/series/1",
		"dataset=" + srv.URL + "/dataset/9",
	}, guids(ids))
}

func TestRecordIDsExcludePaths(t *testing.T) {
	srv := newFDPServer(t, crawlDocs)
	p := newProvider(t, srv.URL+"/", fdp.ProviderConfig{
		HarvestCatalogs: true,
		ExcludePaths:    []string{"/dataset/**"},
	})

	ids, err := p.RecordIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"catalog=" + srv.URL + "/catalog/1"}, guids(ids))
	assert.Equal(t, 0, srv.hitCount("/dataset/1"))
}

func TestRecordIDsMaxRecords(t *testing.T) {
	srv := newFDPServer(t, crawlDocs)
	p := newProvider(t, srv.URL+"/", fdp.ProviderConfig{HarvestCatalogs: true, MaxRecords: 2})

	ids, err := p.RecordIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"catalog=" + srv.URL + "/catalog/1"}, guids(ids))
}

func TestNewRecordProviderInvalidPattern(t *testing.T) {
	_, err := fdp.NewRecordProvider("http://x/", fdp.NewClient(time.Second), fdp.ProviderConfig{
		ExcludePaths: []string{"[unclosed"},
	}, nil)
	assert.Error(t, err)
}

type nilSource struct{}

func (nilSource) GetGraph(context.Context, string) *rdfgraph.Graph { return nil }
func (nilSource) GetJSON(context.Context, string, any) error      { return nil }

func TestRecordIDsNilGraph(t *testing.T) {
	p, err := fdp.NewRecordProvider("http://fdp.example.org/", nilSource{}, fdp.ProviderConfig{}, nil)
	require.NoError(t, err)

	_, err = p.RecordIDs(context.Background())
	assert.ErrorIs(t, err, fdp.ErrNilGraph)
}

func TestRecordIDsCancelled(t *testing.T) {
	srv := newFDPServer(t, crawlDocs)
	p := newProvider(t, srv.URL+"/", fdp.ProviderConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.RecordIDs(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

var recordDocs = map[string]string{
	"/dataset/1": prefixes + `<{{base}}/dataset/1> a dcat:Dataset ;
    dct:title "Dataset one"@en ;
    dct:accessRights <{{base}}/dataset/1#accessRights> ;
    dct:conformsTo <{{base}}/Profile/2f08228e>, <https://other.org/x> ;
    dcat:distribution <{{base}}/distribution/1> ;
    dcat:contactPoint <{{base}}/orcid/0000-0002-1825-0097> .

<{{base}}/dataset/1#accessRights> a dct:RightsStatement ;
    dct:description "This resource has no access restriction" .
`,
	"/distribution/1": prefixes + `<{{base}}/distribution/1> a dcat:Distribution ;
    dct:title "CSV" ;
    dcat:accessURL <https://data.example.org/file.csv> ;
    dct:accessRights <{{base}}/distribution/1#accessRights> ;
    dcat:accessService _:svc .

<{{base}}/distribution/1#accessRights> dct:description "default" .

_:svc a dcat:DataService ;
    dct:title "API" ;
    dcat:endpointURL <https://api.example.org> ;
    dct:creator _:agent .

_:agent foaf:name "Agent" ;
    dct:relation _:svc .
`,
	"/orcid/0000-0002-1825-0097/public-record.json": `{"displayName": "Josiah Carberry"}`,
}

func TestRecordByID(t *testing.T) {
	srv := newFDPServer(t, recordDocs)
	p := newProvider(t, srv.URL+"/", fdp.ProviderConfig{})
	base := srv.URL

	turtle, err := p.RecordByID(context.Background(), identifier.Of(identifier.TypeDataset, base+"/dataset/1"))
	require.NoError(t, err)

	g, err := rdfgraph.ParseString(turtle)
	require.NoError(t, err)

	dataset := rdfgraph.IRI(base + "/dataset/1")
	dist := rdfgraph.IRI(base + "/distribution/1")

	t.Run("defaults stripped", func(t *testing.T) {
		assert.False(t, g.Has(dataset, rdfgraph.IRI(vocab.DCTAccessRights), rdfgraph.Term{}))
		assert.False(t, g.Has(rdfgraph.IRI(base+"/dataset/1#accessRights"), rdfgraph.Term{}, rdfgraph.Term{}))
		assert.False(t, g.Has(dist, rdfgraph.IRI(vocab.DCTAccessRights), rdfgraph.Term{}))
		assert.Equal(t, []rdfgraph.Term{rdfgraph.IRI("https://other.org/x")},
			g.Objects(dataset, rdfgraph.IRI(vocab.DCTConformsTo)))
	})

	t.Run("distribution merged", func(t *testing.T) {
		assert.True(t, g.Has(dist, rdfgraph.IRI(vocab.DCTTitle), rdfgraph.Literal("CSV")))
		assert.True(t, g.Has(dist, rdfgraph.IRI(vocab.DCATAccessURL), rdfgraph.IRI("https://data.example.org/file.csv")))
		assert.True(t, g.Has(dist, rdfgraph.IRI(vocab.RDFType), rdfgraph.IRI(vocab.ClassDistribution)))

		svc, ok := g.Object(dist, rdfgraph.IRI(vocab.DCATAccessService))
		require.True(t, ok)
		assert.True(t, g.Has(svc, rdfgraph.IRI(vocab.DCTTitle), rdfgraph.Literal("API")))

		agent, ok := g.Object(svc, rdfgraph.IRI(vocab.DCTCreator))
		require.True(t, ok)
		assert.True(t, g.Has(agent, rdfgraph.IRI(vocab.FOAFName), rdfgraph.Literal("Agent")))
		assert.True(t, g.Has(agent, rdfgraph.IRI(vocab.DCTRelation), svc))
	})

	t.Run("orcid contact point becomes vcard", func(t *testing.T) {
		cps := g.Objects(dataset, rdfgraph.IRI(vocab.DCATContactPoint))
		require.Len(t, cps, 1)
		cp := cps[0]
		assert.True(t, cp.IsBlank())
		assert.True(t, g.Has(cp, rdfgraph.IRI(vocab.RDFType), rdfgraph.IRI(vocab.VCARDKind)))
		assert.True(t, g.Has(cp, rdfgraph.IRI(vocab.VCARDHasUID), rdfgraph.IRI(base+"/orcid/0000-0002-1825-0097")))
		assert.True(t, g.Has(cp, rdfgraph.IRI(vocab.VCARDFn), rdfgraph.Literal("Josiah Carberry")))
	})
}

func TestRecordByIDOrcidFailure(t *testing.T) {
	docs := map[string]string{"/dataset/1": recordDocs["/dataset/1"]}
	srv := newFDPServer(t, docs)
	p := newProvider(t, srv.URL+"/", fdp.ProviderConfig{})

	turtle, err := p.RecordByID(context.Background(), identifier.Of(identifier.TypeDataset, srv.URL+"/dataset/1"))
	require.NoError(t, err)

	g, err := rdfgraph.ParseString(turtle)
	require.NoError(t, err)

	cp, ok := g.Object(rdfgraph.IRI(srv.URL+"/dataset/1"), rdfgraph.IRI(vocab.DCATContactPoint))
	require.True(t, ok)
	assert.True(t, g.Has(cp, rdfgraph.IRI(vocab.VCARDHasUID), rdfgraph.IRI(srv.URL+"/orcid/0000-0002-1825-0097")))
	assert.False(t, g.Has(cp, rdfgraph.IRI(vocab.VCARDFn), rdfgraph.Term{}))
}

func TestRecordByIDNonOrcidContactUntouched(t *testing.T) {
	srv := newFDPServer(t, map[string]string{
		"/dataset/2": prefixes + `<{{base}}/dataset/2> a dcat:Dataset ;
    dcat:contactPoint <mailto:data@example.org> .`,
	})
	p := newProvider(t, srv.URL+"/", fdp.ProviderConfig{})

	turtle, err := p.RecordByID(context.Background(), identifier.Of(identifier.TypeDataset, srv.URL+"/dataset/2"))
	require.NoError(t, err)

	g, err := rdfgraph.ParseString(turtle)
	require.NoError(t, err)
	assert.True(t, g.Has(rdfgraph.IRI(srv.URL+"/dataset/2"), rdfgraph.IRI(vocab.DCATContactPoint), rdfgraph.IRI("mailto:data@example.org")))
}

func TestRecordByIDBadIdentifier(t *testing.T) {
	p := newProvider(t, "http://fdp.example.org/", fdp.ProviderConfig{})
	_, err := p.RecordByID(context.Background(), identifier.New("no-separator"))
	assert.ErrorIs(t, err, identifier.ErrFormat)
}

func TestCopyNodeTerminatesOnCycles(t *testing.T) {
	src := rdfgraph.New()
	a, b := rdfgraph.NewBlank(), rdfgraph.NewBlank()
	rel := rdfgraph.IRI(vocab.DCTRelation)
	src.Add(a, rel, b)
	src.Add(b, rel, a)
	src.Add(a, rel, a)

	dst := rdfgraph.New()
	fdp.CopyNode(dst, src, a)
	assert.Equal(t, 3, dst.Len())
}

func TestIsProfileURI(t *testing.T) {
	assert.True(t, fdp.IsProfileURI("https://fdp.example.org/profile/abc"))
	assert.True(t, fdp.IsProfileURI("https://fdp.example.org/PROFILE/abc"))
	assert.False(t, fdp.IsProfileURI("https://other.org/x"))
	assert.False(t, fdp.IsProfileURI("https://other.org/x?next=/profile/"))
}
