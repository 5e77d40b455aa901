package rdfgraph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/fdpharvest/rdfgraph"
	"github.com/c360studio/fdpharvest/vocabulary/fdp"
)

func TestTurtleRoundTrip(t *testing.T) {
	g := rdfgraph.New()
	contact := rdfgraph.NewBlank()
	g.Add(dataset, rdfType, rdfgraph.IRI(fdp.ClassDataset))
	g.Add(dataset, title, rdfgraph.LangLiteral("Line one\nline \"two\"", "en"))
	g.Add(dataset, rdfgraph.IRI(fdp.DCTIssued), rdfgraph.TypedLiteral("2024-01-02T10:00:00Z", fdp.XSDDateTime))
	g.Add(dataset, rdfgraph.IRI(fdp.DCATContactPoint), contact)
	g.Add(contact, rdfType, rdfgraph.IRI(fdp.VCARDKind))
	g.Add(contact, rdfgraph.IRI(fdp.VCARDHasUID), rdfgraph.IRI("https://orcid.org/0000-0002-1825-0097"))

	out := rdfgraph.Turtle(g)
	assert.Contains(t, out, "@prefix dcat:\t<http://www.w3.org/ns/dcat#> .")
	assert.Contains(t, out, "a\tdcat:Dataset")
	assert.Contains(t, out, "^^xsd:dateTime")

	parsed, err := rdfgraph.ParseString(out)
	require.NoError(t, err)
	assert.Equal(t, g.Len(), parsed.Len())

	got, ok := parsed.Object(dataset, title)
	require.True(t, ok)
	assert.Equal(t, "Line one\nline \"two\"", got.Value)

	cp, ok := parsed.Object(dataset, rdfgraph.IRI(fdp.DCATContactPoint))
	require.True(t, ok)
	assert.True(t, parsed.Has(cp, rdfgraph.IRI(fdp.VCARDHasUID), rdfgraph.IRI("https://orcid.org/0000-0002-1825-0097")))
}

func TestTurtleSubjectBlocksFollowInsertionOrder(t *testing.T) {
	g := rdfgraph.New()
	first := rdfgraph.IRI("http://ex.org/first")
	second := rdfgraph.IRI("http://ex.org/second")
	g.Add(second, title, rdfgraph.Literal("2"))
	g.Add(first, title, rdfgraph.Literal("1"))

	out := rdfgraph.Turtle(g)
	assert.Less(t, strings.Index(out, "<http://ex.org/second>"), strings.Index(out, "<http://ex.org/first>"))
}

func TestNTriples(t *testing.T) {
	g := rdfgraph.New()
	g.Add(dataset, title, rdfgraph.Literal("One"))

	assert.Equal(t, "<https://fdp.example.org/dataset/1> <http://purl.org/dc/terms/title> \"One\" .\n", rdfgraph.NTriples(g))
}

func TestTurtleTypedLiteralsReadBackWithTheirDatatype(t *testing.T) {
	g := rdfgraph.New()
	g.Add(dataset, rdfgraph.IRI("http://ex.org/count"), rdfgraph.TypedLiteral("42", fdp.XSDInteger))
	g.Add(dataset, rdfgraph.IRI("http://ex.org/size"), rdfgraph.TypedLiteral("1", fdp.XSDDecimal))
	g.Add(dataset, rdfgraph.IRI("http://ex.org/ratio"), rdfgraph.TypedLiteral("1", fdp.XSDDouble))
	g.Add(dataset, rdfgraph.IRI("http://ex.org/open"), rdfgraph.TypedLiteral("1", fdp.XSDBoolean))

	parsed, err := rdfgraph.ParseString(rdfgraph.Turtle(g))
	require.NoError(t, err)

	cases := map[string]string{
		"http://ex.org/count": fdp.XSDInteger,
		"http://ex.org/size":  fdp.XSDDecimal,
		"http://ex.org/ratio": fdp.XSDDouble,
		"http://ex.org/open":  fdp.XSDBoolean,
	}
	for pred, dt := range cases {
		got, ok := parsed.Object(dataset, rdfgraph.IRI(pred))
		require.True(t, ok, pred)
		assert.Equal(t, dt, got.Datatype, pred)
	}
	open, _ := parsed.Object(dataset, rdfgraph.IRI("http://ex.org/open"))
	assert.Equal(t, "true", open.Value)
}

func TestTurtleInvalidNumberIsWrittenAsString(t *testing.T) {
	g := rdfgraph.New()
	g.Add(dataset, rdfgraph.IRI(fdp.DCATByteSize), rdfgraph.TypedLiteral("12 kB", fdp.XSDInteger))

	parsed, err := rdfgraph.ParseString(rdfgraph.Turtle(g))
	require.NoError(t, err)

	got, ok := parsed.Object(dataset, rdfgraph.IRI(fdp.DCATByteSize))
	require.True(t, ok)
	assert.Equal(t, "12 kB", got.Value)
	assert.Empty(t, got.Datatype)
}

func TestTurtleEscapesValuesOfPrefixedDatatypes(t *testing.T) {
	g := rdfgraph.New()
	g.Add(dataset, rdfgraph.IRI(fdp.DCTSpatial), rdfgraph.TypedLiteral(`POINT "a"\b`, fdp.NamespaceDCT+"Location"))
	g.Add(dataset, rdfgraph.IRI(fdp.DCTIssued), rdfgraph.TypedLiteral("2024-01-02\"", fdp.XSDDateTime))

	parsed, err := rdfgraph.ParseString(rdfgraph.Turtle(g))
	require.NoError(t, err)

	got, ok := parsed.Object(dataset, rdfgraph.IRI(fdp.DCTSpatial))
	require.True(t, ok)
	assert.Equal(t, `POINT "a"\b`, got.Value)
	assert.Equal(t, fdp.NamespaceDCT+"Location", got.Datatype)

	issued, ok := parsed.Object(dataset, rdfgraph.IRI(fdp.DCTIssued))
	require.True(t, ok)
	assert.Equal(t, "2024-01-02\"", issued.Value)
}

func TestTurtleLongLanguageTagIsShortened(t *testing.T) {
	g := rdfgraph.New()
	g.Add(dataset, title, rdfgraph.LangLiteral("Titel", "de-Latn-DE"))

	parsed, err := rdfgraph.ParseString(rdfgraph.Turtle(g))
	require.NoError(t, err)

	got, ok := parsed.Object(dataset, title)
	require.True(t, ok)
	assert.Equal(t, "Titel", got.Value)
	assert.Equal(t, "de-Latn", got.Lang)
}

func TestTurtleWritesUnsafeLocalNamesAsFullIRIs(t *testing.T) {
	odd := rdfgraph.IRI(fdp.NamespaceDCT + "a(b)")
	g := rdfgraph.New()
	g.Add(dataset, odd, rdfgraph.Literal("x"))
	g.Add(dataset, title, rdfgraph.Literal("y"))

	out := rdfgraph.Turtle(g)
	assert.Contains(t, out, "<"+fdp.NamespaceDCT+"a(b)>")
	assert.NotContains(t, out, "dct:")

	parsed, err := rdfgraph.ParseString(out)
	require.NoError(t, err)
	assert.True(t, parsed.Has(dataset, odd, rdfgraph.Literal("x")))
}

func TestNTriplesTypedLiteralKeepsLexicalForm(t *testing.T) {
	g := rdfgraph.New()
	g.Add(dataset, rdfgraph.IRI(fdp.DCTIssued), rdfgraph.TypedLiteral(`2024"`, fdp.XSDDateTime))

	assert.Equal(t,
		"<https://fdp.example.org/dataset/1> <http://purl.org/dc/terms/issued> \"2024\\\"\"^^<http://www.w3.org/2001/XMLSchema#dateTime> .\n",
		rdfgraph.NTriples(g))
}
