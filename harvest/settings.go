package harvest

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/c360studio/fdpharvest/profile"
)

// Setting keys of the harvester JSON configuration.
const (
	KeyHarvestCatalogs = "harvest_catalogs"
	KeyRequestTimeout  = "request_timeout"
	KeyProfile         = "profile"
	KeyExcludePaths    = "exclude_paths"
	KeyMaxRecords      = "max_records"
)

// DefaultRequestTimeout applies when neither the source nor the global
// configuration sets request_timeout.
const DefaultRequestTimeout = 100 * time.Second

// ErrProfileRequired is returned when no profile is configured.
var ErrProfileRequired = errors.New("harvester profile is required")

// ErrInvalidSetting is wrapped by every coercion failure.
var ErrInvalidSetting = errors.New("invalid setting")

// SourceConfig is the per-harvester JSON configuration.
type SourceConfig map[string]any

// ParseSourceConfig decodes a harvester JSON configuration. Empty input
// yields an empty config.
func ParseSourceConfig(data []byte) (SourceConfig, error) {
	cfg := SourceConfig{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse source config: %w", err)
	}
	return cfg, nil
}

// Settings are the resolved options of one harvester.
type Settings struct {
	HarvestCatalogs bool
	RequestTimeout  time.Duration
	Profile         string
	ExcludePaths    []string
	MaxRecords      int
}

// ResolveSettings reads every setting from local, then global, then the
// built-in default. The profile is required and must be registered.
func ResolveSettings(local, global map[string]any) (Settings, error) {
	var s Settings
	var err error

	if s.HarvestCatalogs, err = SettingBool(local, global, KeyHarvestCatalogs, false); err != nil {
		return Settings{}, err
	}
	secs, err := SettingInt(local, global, KeyRequestTimeout, int(DefaultRequestTimeout/time.Second))
	if err != nil {
		return Settings{}, err
	}
	if secs <= 0 {
		return Settings{}, fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidSetting, KeyRequestTimeout, secs)
	}
	s.RequestTimeout = time.Duration(secs) * time.Second

	if s.ExcludePaths, err = SettingStrings(local, global, KeyExcludePaths, nil); err != nil {
		return Settings{}, err
	}
	if s.MaxRecords, err = SettingInt(local, global, KeyMaxRecords, 0); err != nil {
		return Settings{}, err
	}
	if s.MaxRecords < 0 {
		return Settings{}, fmt.Errorf("%w: %s must be non-negative, got %d", ErrInvalidSetting, KeyMaxRecords, s.MaxRecords)
	}

	if s.Profile, err = SettingString(local, global, KeyProfile, ""); err != nil {
		return Settings{}, err
	}
	if s.Profile == "" {
		return Settings{}, ErrProfileRequired
	}
	if _, err := profile.Lookup(s.Profile); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// lookup returns the first non-nil value for key.
func lookup(local, global map[string]any, key string) (any, bool) {
	if v, ok := local[key]; ok && v != nil {
		return v, true
	}
	if v, ok := global[key]; ok && v != nil {
		return v, true
	}
	return nil, false
}

// SettingBool resolves a boolean setting with CKAN asbool coercion.
func SettingBool(local, global map[string]any, key string, def bool) (bool, error) {
	v, ok := lookup(local, global, key)
	if !ok {
		return def, nil
	}
	b, err := AsBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

// SettingInt resolves an integer setting with CKAN asint coercion.
func SettingInt(local, global map[string]any, key string, def int) (int, error) {
	v, ok := lookup(local, global, key)
	if !ok {
		return def, nil
	}
	n, err := AsInt(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// SettingString resolves a string setting.
func SettingString(local, global map[string]any, key, def string) (string, error) {
	v, ok := lookup(local, global, key)
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: %w: expected string, got %T", key, ErrInvalidSetting, v)
	}
	return strings.TrimSpace(s), nil
}

// SettingStrings resolves a list setting. A single string is split on
// whitespace, as CKAN aslist does.
func SettingStrings(local, global map[string]any, key string, def []string) ([]string, error) {
	v, ok := lookup(local, global, key)
	if !ok {
		return def, nil
	}
	switch t := v.(type) {
	case []string:
		return t, nil
	case string:
		return strings.Fields(t), nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s: %w: expected string item, got %T", key, ErrInvalidSetting, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s: %w: expected list, got %T", key, ErrInvalidSetting, v)
	}
}

// AsBool converts v the way CKAN asbool does.
func AsBool(v any) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	switch strings.ToLower(strings.TrimSpace(fmt.Sprint(v))) {
	case "true", "yes", "on", "y", "t", "1":
		return true, nil
	case "false", "no", "off", "n", "f", "0":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidSetting, fmt.Sprint(v))
}

// AsInt converts v the way CKAN asint does. JSON numbers must be whole.
func AsInt(v any) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		if t != math.Trunc(t) {
			return 0, fmt.Errorf("%w: %v is not an integer", ErrInvalidSetting, t)
		}
		return int(t), nil
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidSetting, err)
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidSetting, t)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: %T is not an integer", ErrInvalidSetting, v)
}
