package harvest_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/fdpharvest/harvest"
	"github.com/c360studio/fdpharvest/profile"
)

func TestAsBool(t *testing.T) {
	tests := []struct {
		in      any
		want    bool
		wantErr bool
	}{
		{true, true, false},
		{false, false, false},
		{"true", true, false},
		{" Yes ", true, false},
		{"on", true, false},
		{"1", true, false},
		{float64(1), true, false},
		{"false", false, false},
		{"OFF", false, false},
		{"n", false, false},
		{"0", false, false},
		{"maybe", false, true},
		{float64(2), false, true},
	}

	for _, tt := range tests {
		got, err := harvest.AsBool(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, harvest.ErrInvalidSetting, "%v", tt.in)
			continue
		}
		require.NoError(t, err, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}

func TestAsInt(t *testing.T) {
	tests := []struct {
		in      any
		want    int
		wantErr bool
	}{
		{42, 42, false},
		{int64(7), 7, false},
		{float64(30), 30, false},
		{" 12 ", 12, false},
		{float64(1.5), 0, true},
		{"ten", 0, true},
		{true, 0, true},
	}

	for _, tt := range tests {
		got, err := harvest.AsInt(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, harvest.ErrInvalidSetting, "%v", tt.in)
			continue
		}
		require.NoError(t, err, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}

func TestParseSourceConfig(t *testing.T) {
	cfg, err := harvest.ParseSourceConfig(nil)
	require.NoError(t, err)
	assert.Empty(t, cfg)

	cfg, err = harvest.ParseSourceConfig([]byte(`{"profile": "fairdatapoint_dcat_ap", "request_timeout": 20}`))
	require.NoError(t, err)
	assert.Equal(t, "fairdatapoint_dcat_ap", cfg["profile"])
	assert.Equal(t, float64(20), cfg["request_timeout"])

	_, err = harvest.ParseSourceConfig([]byte(`{"profile":`))
	assert.Error(t, err)
}

func TestResolveSettingsPrecedence(t *testing.T) {
	global := map[string]any{
		"profile":          string(profile.ProfileDCATAP3),
		"request_timeout":  60,
		"harvest_catalogs": "yes",
		"exclude_paths":    "/a/** /b/*",
	}

	s, err := harvest.ResolveSettings(nil, global)
	require.NoError(t, err)
	assert.Equal(t, harvest.Settings{
		HarvestCatalogs: true,
		RequestTimeout:  60 * time.Second,
		Profile:         string(profile.ProfileDCATAP3),
		ExcludePaths:    []string{"/a/**", "/b/*"},
	}, s)

	local, err := harvest.ParseSourceConfig([]byte(`{
		"profile": "fairdatapoint_dcat_ap",
		"request_timeout": 5,
		"harvest_catalogs": false,
		"exclude_paths": ["/c/*"],
		"max_records": 100
	}`))
	require.NoError(t, err)

	s, err = harvest.ResolveSettings(local, global)
	require.NoError(t, err)
	assert.Equal(t, harvest.Settings{
		HarvestCatalogs: false,
		RequestTimeout:  5 * time.Second,
		Profile:         string(profile.ProfileFDPDCATAP),
		ExcludePaths:    []string{"/c/*"},
		MaxRecords:      100,
	}, s)
}

func TestResolveSettingsDefaults(t *testing.T) {
	s, err := harvest.ResolveSettings(map[string]any{"profile": string(profile.ProfileFDPDCATAP), "max_records": nil}, nil)
	require.NoError(t, err)
	assert.False(t, s.HarvestCatalogs)
	assert.Equal(t, harvest.DefaultRequestTimeout, s.RequestTimeout)
	assert.Nil(t, s.ExcludePaths)
	assert.Zero(t, s.MaxRecords)
}

func TestResolveSettingsErrors(t *testing.T) {
	tests := []struct {
		name  string
		local map[string]any
		want  error
	}{
		{"no profile", map[string]any{}, harvest.ErrProfileRequired},
		{"blank profile", map[string]any{"profile": "  "}, harvest.ErrProfileRequired},
		{"unknown profile", map[string]any{"profile": "ckan"}, profile.ErrUnknownProfile},
		{"profile not a string", map[string]any{"profile": 3}, harvest.ErrInvalidSetting},
		{"zero timeout", map[string]any{"profile": "fairdatapoint_dcat_ap", "request_timeout": 0}, harvest.ErrInvalidSetting},
		{"negative max records", map[string]any{"profile": "fairdatapoint_dcat_ap", "max_records": -1}, harvest.ErrInvalidSetting},
		{"bad bool", map[string]any{"profile": "fairdatapoint_dcat_ap", "harvest_catalogs": "sometimes"}, harvest.ErrInvalidSetting},
		{"bad list item", map[string]any{"profile": "fairdatapoint_dcat_ap", "exclude_paths": []any{1}}, harvest.ErrInvalidSetting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := harvest.ResolveSettings(tt.local, nil)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
