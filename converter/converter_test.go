package converter_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/fdpharvest/converter"
	"github.com/c360studio/fdpharvest/identifier"
	"github.com/c360studio/fdpharvest/profile"
)

const record = `@prefix dcat: <http://www.w3.org/ns/dcat#> .
@prefix dct: <http://purl.org/dc/terms/> .

<https://fdp.example.org/catalog/c1> a dcat:Catalog ;
    dct:title "Catalog" ;
    dcat:dataset <https://fdp.example.org/dataset/d1> .

<https://fdp.example.org/dataset/d0> a dcat:Dataset ;
    dct:title "Other dataset" .

<https://fdp.example.org/dataset/d1> a dcat:Dataset ;
    dct:title "Dataset one" ;
    dcat:inSeries <https://fdp.example.org/series/s1> .

<https://fdp.example.org/series/s1> a dcat:DatasetSeries ;
    dct:title "Series one" .
`

func newConverter(t *testing.T, name profile.Name) *converter.Converter {
	t.Helper()
	c, err := converter.New(string(name), nil)
	require.NoError(t, err)
	return c
}

func TestConvertBranches(t *testing.T) {
	c := newConverter(t, profile.ProfileDCATAP3)

	tests := []struct {
		name  string
		guid  string
		title string
	}{
		{"catalog leaf", "catalog=https://fdp.example.org/catalog/c1", "Catalog"},
		{"dataset leaf prefers matching subject", "catalog=https://fdp.example.org/catalog/c1;dataset=https://fdp.example.org/dataset/d1", "Dataset one"},
		{"dataset leaf falls back to first subject", "dataset=https://fdp.example.org/dataset/unknown", "Other dataset"},
		{"dataseries leaf", "dataseries=https://fdp.example.org/series/s1", "Series one"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, err := c.Convert(tt.guid, record, nil)
			require.NoError(t, err)
			require.NotNil(t, pkg)
			assert.Equal(t, tt.title, pkg["title"])
		})
	}
}

func TestConvertSeriesMapping(t *testing.T) {
	c := newConverter(t, profile.ProfileDCATAP3)

	pkg, err := c.Convert("dataset=https://fdp.example.org/dataset/d1", record,
		profile.SeriesMapping{"https://fdp.example.org/series/s1": "series-pkg"})
	require.NoError(t, err)
	assert.Equal(t, []string{"series-pkg"}, pkg["in_series"])
}

func TestConvertNoMatchingSubject(t *testing.T) {
	c := newConverter(t, profile.ProfileFDPDCATAP)

	pkg, err := c.Convert("dataset=https://fdp.example.org/dataset/d1",
		`<https://fdp.example.org/x> <http://purl.org/dc/terms/title> "x" .`, nil)
	assert.NoError(t, err)
	assert.Nil(t, pkg)
}

func TestConvertErrors(t *testing.T) {
	c := newConverter(t, profile.ProfileFDPDCATAP)

	t.Run("bad turtle", func(t *testing.T) {
		bad := "this is <not turtle"
		_, err := c.Convert("dataset=https://fdp.example.org/dataset/d1", bad, nil)
		require.Error(t, err)

		var convErr *converter.ConversionError
		require.True(t, errors.As(err, &convErr))
		assert.Equal(t, bad, convErr.Record)
		assert.Equal(t, "dataset=https://fdp.example.org/dataset/d1", convErr.GUID)
	})

	t.Run("bad identifier", func(t *testing.T) {
		_, err := c.Convert("no-separator", record, nil)
		require.Error(t, err)

		var convErr *converter.ConversionError
		require.True(t, errors.As(err, &convErr))
		assert.Equal(t, record, convErr.Record)
		assert.ErrorIs(t, err, identifier.ErrFormat)
	})
}

func TestNewUnknownProfile(t *testing.T) {
	_, err := converter.New("nope", nil)
	assert.ErrorIs(t, err, profile.ErrUnknownProfile)
}
