package profile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/fdpharvest/profile"
	"github.com/c360studio/fdpharvest/rdfgraph"
)

var (
	datasetRef = rdfgraph.IRI("https://fdp.example.org/dataset/d1")
	catalogRef = rdfgraph.IRI("https://fdp.example.org/catalog/c1")
)

func loadGraph(t *testing.T, name string) *rdfgraph.Graph {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	g, err := rdfgraph.ParseString(string(data))
	require.NoError(t, err)
	return g
}

func newProfile(t *testing.T, name profile.Name) *profile.Profile {
	t.Helper()
	p, err := profile.New(string(name))
	require.NoError(t, err)
	return p
}

func TestLookup(t *testing.T) {
	for _, name := range profile.Names() {
		cfg, err := profile.Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, string(cfg.Name))
		assert.NotEmpty(t, cfg.Description)
	}

	_, err := profile.Lookup("euro_dcat_ap_9")
	assert.ErrorIs(t, err, profile.ErrUnknownProfile)

	_, err = profile.New("")
	assert.ErrorIs(t, err, profile.ErrUnknownProfile)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{
		"fairdatapoint_dcat_ap",
		"fairdatapoint_dcat_ap_3",
		"fairdatapoint_health_dcat_ap",
	}, profile.Names())
}

func TestParseDataset(t *testing.T) {
	g := loadGraph(t, "dataset.ttl")
	p := newProfile(t, profile.ProfileFDPDCATAP)

	pkg, err := p.ParseDataset(g, datasetRef, nil)
	require.NoError(t, err)

	assert.Equal(t, "Low-Grade Gliomas", pkg["title"])
	assert.Equal(t, map[string]string{
		"en": "Low-Grade Gliomas",
		"nl": "Laaggradige gliomen",
	}, pkg["title_translated"])
	assert.Equal(t, "https://fdp.example.org/dataset/d1", pkg["uri"])
	assert.Equal(t, "https://cbioportal.example.org/study?id=lgg", pkg["url"])
	assert.Equal(t, "lgg_ucsf_2014", pkg["identifier"])
	assert.Equal(t, "", pkg["license_id"])
	assert.Equal(t, "2019-10-30 23:00:00", pkg["issued"])
	assert.Equal(t, "2019-10-30 23:00:00", pkg["modified"])
	assert.Equal(t, []string{"http://id.loc.gov/vocabulary/iso639-1/en"}, pkg["language"])
	assert.Equal(t, []string{"https://pubmed.ncbi.nlm.nih.gov/24336570"}, pkg["is_referenced_by"])

	notes, ok := pkg["notes"].(string)
	require.True(t, ok)
	assert.Contains(t, notes, "**23**")
	assert.NotContains(t, notes, "<p>")

	assert.Equal(t, []map[string]any{{"name": "CNS Brain"}, {"name": "Glioma"}}, pkg["tags"])
	assert.Equal(t, map[string][]string{
		"en": {"CNS Brain", "Glioma"},
		"nl": {"Glioom"},
	}, pkg["tags_translated"])

	assert.Equal(t, []string{
		"http://www.wikidata.org/entity/Q1485",
		"https://www.wikidata.org/wiki/notanid",
	}, pkg["theme"])
	assert.Equal(t, []string{"https://other.org/x"}, pkg["conforms_to"])

	assert.Equal(t, []map[string]any{{
		"uri":        "https://www.health-ri.nl",
		"name":       "",
		"email":      "",
		"url":        "",
		"type":       "",
		"identifier": "",
	}}, pkg["publisher"])
	assert.Equal(t, []map[string]any{{
		"uri":   "https://orcid.org/0000-0002-0000-0002",
		"name":  "Jane Doe",
		"email": "jane@example.org",
		"phone": "",
	}}, pkg["contact"])
	assert.Equal(t, []map[string]any{{
		"creator_identifier": "https://orcid.org/0000-0001-0000-0001",
		"creator_name":       "https://orcid.org/0000-0001-0000-0001",
	}}, pkg["creator"])

	// DCAT-AP 3 and health fields belong to the newer profiles.
	assert.NotContains(t, pkg, "in_series")
	assert.NotContains(t, pkg, "applicable_legislation")
	assert.NotContains(t, pkg, "health_theme")

	resources, ok := pkg["resources"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, resources, 1)
	res := resources[0]
	assert.Equal(t, "Clinical data", res["name"])
	assert.Equal(t, "https://fdp.example.org/distribution/931e", res["uri"])
	assert.Equal(t, "https://fdp.example.org/distribution/931e", res["distribution_ref"])
	assert.Equal(t, "https://cbioportal.example.org/clinical", res["access_url"])
	assert.Equal(t, "https://cbioportal.example.org/clinical", res["url"])
	assert.Equal(t, "http://rdflicense.appspot.com/rdflicense/cc-by-nc-nd3.0", res["license"])
	assert.Equal(t, "https://www.iana.org/assignments/media-types/text/csv", res["mimetype"])
	assert.Equal(t, "2020-01-01 00:00:00", res["issued"])
	assert.NotContains(t, res, "conforms_to")

	services, ok := res["access_services"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, services, 1)
	assert.Equal(t, "Clinical API", services[0]["title"])
	assert.Equal(t, []string{"https://api.example.org"}, services[0]["endpoint_url"])
	assert.Equal(t, []string{"https://www.w3.org/TR/sparql11-protocol/"}, services[0]["conforms_to"])
}

func TestParseDatasetHealth(t *testing.T) {
	g := loadGraph(t, "dataset.ttl")
	p := newProfile(t, profile.ProfileHealthDCATAP)

	series := profile.SeriesMapping{"https://fdp.example.org/series/s1": "pkg-s1"}
	pkg, err := p.ParseDataset(g, datasetRef, series)
	require.NoError(t, err)

	assert.Equal(t, []string{"pkg-s1"}, pkg["in_series"])
	assert.Equal(t, []string{"http://data.europa.eu/eli/reg/2025/327/oj"}, pkg["applicable_legislation"])
	assert.Equal(t, []string{"http://www.wikidata.org/entity/Q12136"}, pkg["health_theme"])
	assert.Equal(t, 1200, pkg["number_of_records"])
	assert.Equal(t, 18, pkg["min_typical_age"])

	// Agent-shaped creators replace the identifier/name pairs.
	assert.Equal(t, []map[string]any{{
		"uri":        "https://orcid.org/0000-0001-0000-0001",
		"name":       "",
		"email":      "",
		"url":        "",
		"type":       "",
		"identifier": "",
	}}, pkg["creator"])
}

func TestParseDatasetRejectsLiteralSubject(t *testing.T) {
	p := newProfile(t, profile.ProfileFDPDCATAP)
	_, err := p.ParseDataset(rdfgraph.New(), rdfgraph.Literal("x"), nil)
	assert.ErrorIs(t, err, profile.ErrNoSubject)

	_, err = p.ParseCatalog(nil, catalogRef)
	assert.ErrorIs(t, err, profile.ErrNoSubject)
}

func TestParseCatalog(t *testing.T) {
	g := loadGraph(t, "catalog.ttl")
	p := newProfile(t, profile.ProfileFDPDCATAP)

	pkg, err := p.ParseCatalog(g, catalogRef)
	require.NoError(t, err)

	assert.Equal(t, "Example catalog", pkg["title"])
	assert.Equal(t, "Plain description without markup.", pkg["notes"])
	assert.Equal(t, "https://example.org", pkg["url"])
	assert.Equal(t, []map[string]any{}, pkg["resources"])
	assert.Equal(t, []map[string]any{}, pkg["tags"])
	assert.NotContains(t, pkg, "conforms_to")

	publishers, ok := pkg["publisher"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, publishers, 1)
	assert.Equal(t, "", publishers[0]["uri"])
	assert.Equal(t, "Example Org", publishers[0]["name"])
	assert.Equal(t, "info@example.org", publishers[0]["email"])
}

func TestParseDatasetTagFallback(t *testing.T) {
	g, err := rdfgraph.ParseString(`@prefix dcat: <http://www.w3.org/ns/dcat#> .
<http://example.com/dataset> a dcat:Dataset ;
    dcat:keyword "tag1_nl"@nl, "tag2_nl"@nl, "tag1_de"@de .
`)
	require.NoError(t, err)

	p := newProfile(t, profile.ProfileFDPDCATAP)
	pkg, err := p.ParseDataset(g, rdfgraph.IRI("http://example.com/dataset"), nil)
	require.NoError(t, err)

	// nl appears first in the graph.
	assert.Equal(t, []map[string]any{{"name": "tag1_nl"}, {"name": "tag2_nl"}}, pkg["tags"])
}

func TestDefaultLanguageOption(t *testing.T) {
	g := loadGraph(t, "dataset.ttl")
	p, err := profile.New(string(profile.ProfileFDPDCATAP), profile.WithDefaultLanguage("nl"))
	require.NoError(t, err)

	pkg, err := p.ParseDataset(g, datasetRef, nil)
	require.NoError(t, err)

	assert.Equal(t, "Laaggradige gliomen", pkg["title"])
	assert.Equal(t, []map[string]any{{"name": "Glioom"}}, pkg["tags"])
}
