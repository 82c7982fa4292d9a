package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configDir  = ".config/notehub"
	configFile = "config.json"
)

// Environment variables consulted after the config file.
const (
	EnvToken       = "NOTEHUB_TOKEN"
	EnvPublicToken = "NEXT_PUBLIC_NOTEHUB_TOKEN"
	EnvBaseURL     = "NOTEHUB_BASE_URL"
)

// rawConfig is the unmarshaling intermediary. Pointers distinguish "unset"
// from zero and durations are strings such as "300ms".
type rawConfig struct {
	API    rawAPIConfig   `json:"api" yaml:"api"`
	Notes  rawNotesConfig `json:"notes" yaml:"notes"`
	Keymap KeymapConfig   `json:"keymap" yaml:"keymap"`
	UI     rawUIConfig    `json:"ui" yaml:"ui"`
}

type rawAPIConfig struct {
	BaseURL string `json:"baseURL" yaml:"baseURL"`
	Token   string `json:"token" yaml:"token"`
	Timeout string `json:"timeout" yaml:"timeout"`
}

type rawNotesConfig struct {
	PerPage       *int   `json:"perPage" yaml:"perPage"`
	Debounce      string `json:"debounce" yaml:"debounce"`
	StaleTime     string `json:"staleTime" yaml:"staleTime"`
	GCTime        string `json:"gcTime" yaml:"gcTime"`
	RetryAttempts *int   `json:"retryAttempts" yaml:"retryAttempts"`
}

type rawUIConfig struct {
	ShowFooter *bool `json:"showFooter" yaml:"showFooter"`
	Markdown   *bool `json:"markdown" yaml:"markdown"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path, then applies
// environment overrides. If path is empty, uses ~/.config/notehub/config.json.
// A missing file yields the defaults. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = ConfigPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			var raw rawConfig
			if err := unmarshal(path, data, &raw); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
			if err := mergeConfig(cfg, &raw); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, err
		}
	}

	applyEnv(cfg, os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func unmarshal(path string, data []byte, v any) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

// mergeConfig merges raw config values into the config.
func mergeConfig(cfg *Config, raw *rawConfig) error {
	// API
	if raw.API.BaseURL != "" {
		cfg.API.BaseURL = strings.TrimRight(raw.API.BaseURL, "/")
	}
	if raw.API.Token != "" {
		cfg.API.Token = raw.API.Token
	}
	if err := mergeDuration(&cfg.API.Timeout, raw.API.Timeout, "api.timeout"); err != nil {
		return err
	}

	// Notes
	if raw.Notes.PerPage != nil {
		cfg.Notes.PerPage = *raw.Notes.PerPage
	}
	if raw.Notes.RetryAttempts != nil {
		cfg.Notes.RetryAttempts = *raw.Notes.RetryAttempts
	}
	for _, d := range []struct {
		dst  *time.Duration
		src  string
		name string
	}{
		{&cfg.Notes.Debounce, raw.Notes.Debounce, "notes.debounce"},
		{&cfg.Notes.StaleTime, raw.Notes.StaleTime, "notes.staleTime"},
		{&cfg.Notes.GCTime, raw.Notes.GCTime, "notes.gcTime"},
	} {
		if err := mergeDuration(d.dst, d.src, d.name); err != nil {
			return err
		}
	}

	// Keymap
	for k, v := range raw.Keymap.Overrides {
		cfg.Keymap.Overrides[k] = v
	}

	// UI
	if raw.UI.ShowFooter != nil {
		cfg.UI.ShowFooter = *raw.UI.ShowFooter
	}
	if raw.UI.Markdown != nil {
		cfg.UI.Markdown = *raw.UI.Markdown
	}
	return nil
}

func mergeDuration(dst *time.Duration, s, name string) error {
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = d
	return nil
}

// applyEnv overlays environment variables on cfg.
func applyEnv(cfg *Config, getenv func(string) string) {
	if tok := getenv(EnvToken); tok != "" {
		cfg.API.Token = tok
	} else if tok := getenv(EnvPublicToken); tok != "" {
		cfg.API.Token = tok
	}
	if u := getenv(EnvBaseURL); u != "" {
		cfg.API.BaseURL = strings.TrimRight(u, "/")
	}
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	if testConfigPath != "" {
		return testConfigPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir, configFile)
}

// Dir returns the directory holding the config, state and log files.
func Dir() string {
	if p := ConfigPath(); p != "" {
		return filepath.Dir(p)
	}
	return ""
}
