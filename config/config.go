// Package config provides configuration loading and management for fdpharvest.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/fdpharvest/profile"
)

// Config represents the complete fdpharvest configuration
type Config struct {
	Harvest HarvestConfig `yaml:"harvest"`
	Labels  LabelsConfig  `yaml:"labels"`
	Redis   RedisConfig   `yaml:"redis"`
	NATS    NATSConfig    `yaml:"nats"`
	CKAN    CKANConfig    `yaml:"ckan"`
	Output  OutputConfig  `yaml:"output"`
}

// HarvestConfig holds the global defaults of per-harvester settings. Every
// field can be overridden by the harvester's own JSON configuration.
type HarvestConfig struct {
	// HarvestCatalogs emits catalogs as records (nil = not set)
	HarvestCatalogs *bool `yaml:"harvest_catalogs,omitempty"`
	// RequestTimeout bounds each HTTP call to an FDP
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// Profile is the RDF profile used to build packages
	Profile string `yaml:"profile"`
	// ExcludePaths are glob patterns of FDP paths that are not crawled
	ExcludePaths []string `yaml:"exclude_paths"`
	// MaxRecords caps the number of crawled nodes (0 = unlimited)
	MaxRecords int `yaml:"max_records"`
	// UserAgent is sent with every request
	UserAgent string `yaml:"user_agent"`
}

// LabelsConfig configures label resolution for vocabulary URIs
type LabelsConfig struct {
	// Languages is the allow-list of label languages
	Languages []string `yaml:"languages"`
	// DefaultLanguage is assigned to untagged labels
	DefaultLanguage string `yaml:"default_language"`
	// BioOntologyAPIKey authenticates BioPortal lookups (secret)
	BioOntologyAPIKey string `yaml:"bioontology_api_key"`
	// CacheSize bounds the number of cached URIs
	CacheSize int `yaml:"cache_size"`
}

// RedisConfig configures the Redis translation store
type RedisConfig struct {
	// URL is the Redis URL, e.g. redis://localhost:6379/0
	URL string `yaml:"url"`
	// KeyPrefix namespaces translation keys
	KeyPrefix string `yaml:"key_prefix"`
}

// NATSConfig configures the JetStream package sink
type NATSConfig struct {
	// URL is the NATS server URL
	URL string `yaml:"url"`
	// SubjectPrefix is prepended to package names
	SubjectPrefix string `yaml:"subject_prefix"`
}

// CKANConfig configures the CKAN action API
type CKANConfig struct {
	// URL is the CKAN site URL
	URL string `yaml:"url"`
	// APIKey is sent as Authorization header (secret)
	APIKey string `yaml:"api_key"`
	// OwnerOrg is the organization of created packages
	OwnerOrg string `yaml:"owner_org"`
}

// OutputConfig configures the directory sink
type OutputConfig struct {
	// Dir receives one JSON file per package
	Dir string `yaml:"dir"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Harvest: HarvestConfig{
			RequestTimeout: 100 * time.Second,
			UserAgent:      "fdpharvest/1.0",
		},
		Labels: LabelsConfig{
			Languages:       []string{"en", "nl"},
			DefaultLanguage: "en",
			CacheSize:       10000,
		},
		Redis: RedisConfig{
			KeyPrefix: "fdp:translation:",
		},
		NATS: NATSConfig{
			SubjectPrefix: "fdp.package",
		},
		Output: OutputConfig{
			Dir: "packages",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Harvest.RequestTimeout <= 0 {
		return fmt.Errorf("harvest.request_timeout must be positive")
	}
	if c.Harvest.MaxRecords < 0 {
		return fmt.Errorf("harvest.max_records must be non-negative")
	}
	if c.Harvest.Profile != "" {
		if _, err := profile.Lookup(c.Harvest.Profile); err != nil {
			return fmt.Errorf("harvest.profile: %w", err)
		}
	}
	if len(c.Labels.Languages) == 0 {
		return fmt.Errorf("labels.languages is required")
	}
	if c.Labels.DefaultLanguage == "" {
		return fmt.Errorf("labels.default_language is required")
	}
	if c.Labels.CacheSize < 0 {
		return fmt.Errorf("labels.cache_size must be non-negative")
	}
	return nil
}

// HarvestSettings returns the harvest defaults that are set, keyed by their
// harvester JSON names.
func (c *Config) HarvestSettings() map[string]any {
	out := map[string]any{
		"request_timeout": int(c.Harvest.RequestTimeout / time.Second),
	}
	if c.Harvest.HarvestCatalogs != nil {
		out["harvest_catalogs"] = *c.Harvest.HarvestCatalogs
	}
	if c.Harvest.Profile != "" {
		out["profile"] = c.Harvest.Profile
	}
	if len(c.Harvest.ExcludePaths) > 0 {
		out["exclude_paths"] = c.Harvest.ExcludePaths
	}
	if c.Harvest.MaxRecords > 0 {
		out["max_records"] = c.Harvest.MaxRecords
	}
	return out
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Secrets may live here.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Harvest
	if other.Harvest.HarvestCatalogs != nil {
		v := *other.Harvest.HarvestCatalogs
		c.Harvest.HarvestCatalogs = &v
	}
	if other.Harvest.RequestTimeout != 0 {
		c.Harvest.RequestTimeout = other.Harvest.RequestTimeout
	}
	if other.Harvest.Profile != "" {
		c.Harvest.Profile = other.Harvest.Profile
	}
	if len(other.Harvest.ExcludePaths) > 0 {
		c.Harvest.ExcludePaths = other.Harvest.ExcludePaths
	}
	if other.Harvest.MaxRecords != 0 {
		c.Harvest.MaxRecords = other.Harvest.MaxRecords
	}
	if other.Harvest.UserAgent != "" {
		c.Harvest.UserAgent = other.Harvest.UserAgent
	}

	// Labels
	if len(other.Labels.Languages) > 0 {
		c.Labels.Languages = other.Labels.Languages
	}
	if other.Labels.DefaultLanguage != "" {
		c.Labels.DefaultLanguage = other.Labels.DefaultLanguage
	}
	if other.Labels.BioOntologyAPIKey != "" {
		c.Labels.BioOntologyAPIKey = other.Labels.BioOntologyAPIKey
	}
	if other.Labels.CacheSize != 0 {
		c.Labels.CacheSize = other.Labels.CacheSize
	}

	// Redis
	if other.Redis.URL != "" {
		c.Redis.URL = other.Redis.URL
	}
	if other.Redis.KeyPrefix != "" {
		c.Redis.KeyPrefix = other.Redis.KeyPrefix
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.SubjectPrefix != "" {
		c.NATS.SubjectPrefix = other.NATS.SubjectPrefix
	}

	// CKAN
	if other.CKAN.URL != "" {
		c.CKAN.URL = other.CKAN.URL
	}
	if other.CKAN.APIKey != "" {
		c.CKAN.APIKey = other.CKAN.APIKey
	}
	if other.CKAN.OwnerOrg != "" {
		c.CKAN.OwnerOrg = other.CKAN.OwnerOrg
	}

	// Output
	if other.Output.Dir != "" {
		c.Output.Dir = other.Output.Dir
	}
}

// ApplyEnv overrides fields from FDPHARVEST_* variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	str("PROFILE", &c.Harvest.Profile)
	str("USER_AGENT", &c.Harvest.UserAgent)
	str("BIOONTOLOGY_API_KEY", &c.Labels.BioOntologyAPIKey)
	str("DEFAULT_LANGUAGE", &c.Labels.DefaultLanguage)
	str("REDIS_URL", &c.Redis.URL)
	str("NATS_URL", &c.NATS.URL)
	str("CKAN_URL", &c.CKAN.URL)
	str("CKAN_API_KEY", &c.CKAN.APIKey)
	str("OUTPUT_DIR", &c.Output.Dir)

	if v, ok := lookup(EnvPrefix + "HARVEST_CATALOGS"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sHARVEST_CATALOGS: %w", EnvPrefix, err)
		}
		c.Harvest.HarvestCatalogs = &b
	}
	if v, ok := lookup(EnvPrefix + "REQUEST_TIMEOUT"); ok && v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("%sREQUEST_TIMEOUT: %w", EnvPrefix, err)
		}
		c.Harvest.RequestTimeout = d
	}
	if v, ok := lookup(EnvPrefix + "LANGUAGES"); ok && v != "" {
		var langs []string
		for _, l := range strings.Split(v, ",") {
			if l = strings.TrimSpace(l); l != "" {
				langs = append(langs, l)
			}
		}
		c.Labels.Languages = langs
	}
	return nil
}

// parseTimeout accepts a Go duration or a number of seconds.
func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}
