package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Config file locations and the environment prefix.
const (
	ProjectConfigFile = "fdpharvest.yaml"
	UserConfigDir     = ".config/fdpharvest"
	UserConfigFile    = "config.yaml"
	EnvPrefix         = "FDPHARVEST_"
)

// Loader assembles a Config from files and the environment.
type Loader struct {
	logger   *slog.Logger
	startDir string
	homeDir  string
	lookup   func(string) (string, bool)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithStartDir sets the directory the project config search starts from.
func WithStartDir(dir string) LoaderOption {
	return func(l *Loader) { l.startDir = dir }
}

// WithHomeDir overrides the user home directory.
func WithHomeDir(dir string) LoaderOption {
	return func(l *Loader) { l.homeDir = dir }
}

// WithEnvLookup replaces os.LookupEnv.
func WithEnvLookup(lookup func(string) (string, bool)) LoaderOption {
	return func(l *Loader) { l.lookup = lookup }
}

// NewLoader returns a loader reading the real home directory, working
// directory and environment unless overridden by opts.
func NewLoader(logger *slog.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{logger: logger, lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load builds the effective configuration. Later layers win:
//
//	defaults < ~/.config/fdpharvest/config.yaml < project file < FDPHARVEST_* env
//
// The project file is explicitPath when given, otherwise the nearest
// fdpharvest.yaml found walking up from the start directory. An explicit
// path that cannot be read is an error; the other files are optional.
func (l *Loader) Load(explicitPath string) (*Config, error) {
	cfg := DefaultConfig()

	if path := l.userConfigPath(); path != "" {
		l.mergeOptional(cfg, "user", path)
	}

	switch {
	case explicitPath != "":
		fileCfg, err := LoadFromFile(explicitPath)
		if err != nil {
			return nil, err
		}
		cfg.Merge(fileCfg)
		l.logger.Debug("Config layer applied", "layer", "explicit", "path", explicitPath)
	default:
		if path := l.findProjectConfig(); path != "" {
			l.mergeOptional(cfg, "project", path)
		}
	}

	if err := cfg.ApplyEnv(l.lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// mergeOptional merges the file at path into cfg. A missing file is skipped
// silently, an unreadable one with a warning.
func (l *Loader) mergeOptional(cfg *Config, layer, path string) {
	fileCfg, err := LoadFromFile(path)
	switch {
	case err == nil:
		cfg.Merge(fileCfg)
		l.logger.Debug("Config layer applied", "layer", layer, "path", path)
	case errors.Is(err, fs.ErrNotExist):
	default:
		l.logger.Warn("Skipping config layer", "layer", layer, "path", path, "error", err)
	}
}

// EnsureUserConfig writes the default config to the user config path
// unless a file is already there.
func (l *Loader) EnsureUserConfig() error {
	path := l.userConfigPath()
	if path == "" {
		return errors.New("cannot determine home directory")
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := DefaultConfig().SaveToFile(path); err != nil {
		return err
	}
	l.logger.Info("Wrote default config", "path", path)
	return nil
}

func (l *Loader) userConfigPath() string {
	home := l.homeDir
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig returns the nearest ProjectConfigFile at or above the
// start directory, or "".
func (l *Loader) findProjectConfig() string {
	dir := l.startDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = wd
	}
	for {
		candidate := filepath.Join(dir, ProjectConfigFile)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
