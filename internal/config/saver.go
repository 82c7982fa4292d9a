package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var testConfigPath string

// SetTestConfigPath redirects ConfigPath, Load and Save to path.
func SetTestConfigPath(path string) { testConfigPath = path }

// ResetTestConfigPath undoes SetTestConfigPath.
func ResetTestConfigPath() { testConfigPath = "" }

// saveConfig is the marshaling intermediary that uses string durations.
// The API token is deliberately absent.
type saveConfig struct {
	API    saveAPIConfig   `json:"api" yaml:"api"`
	Notes  saveNotesConfig `json:"notes" yaml:"notes"`
	Keymap KeymapConfig    `json:"keymap" yaml:"keymap"`
	UI     UIConfig        `json:"ui" yaml:"ui"`
}

type saveAPIConfig struct {
	BaseURL string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

type saveNotesConfig struct {
	PerPage       int    `json:"perPage" yaml:"perPage"`
	Debounce      string `json:"debounce" yaml:"debounce"`
	StaleTime     string `json:"staleTime" yaml:"staleTime"`
	GCTime        string `json:"gcTime" yaml:"gcTime"`
	RetryAttempts int    `json:"retryAttempts" yaml:"retryAttempts"`
}

func toSaveConfig(cfg *Config) saveConfig {
	return saveConfig{
		API: saveAPIConfig{
			BaseURL: cfg.API.BaseURL,
			Timeout: cfg.API.Timeout.String(),
		},
		Notes: saveNotesConfig{
			PerPage:       cfg.Notes.PerPage,
			Debounce:      cfg.Notes.Debounce.String(),
			StaleTime:     cfg.Notes.StaleTime.String(),
			GCTime:        cfg.Notes.GCTime.String(),
			RetryAttempts: cfg.Notes.RetryAttempts,
		},
		Keymap: cfg.Keymap,
		UI:     cfg.UI,
	}
}

// Save writes the config to ConfigPath.
func Save(cfg *Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path. Top-level keys in an existing file that
// Config does not manage are preserved.
func SaveTo(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if isYAML(path) {
		return saveYAML(path, cfg)
	}
	return saveJSON(path, cfg)
}

func saveJSON(path string, cfg *Config) error {
	merged := map[string]json.RawMessage{}
	if existing, err := os.ReadFile(path); err == nil {
		// An unparseable file is replaced rather than merged.
		_ = json.Unmarshal(existing, &merged)
	}
	// A file holding null decodes to a nil map.
	if merged == nil {
		merged = map[string]json.RawMessage{}
	}

	managed, err := json.Marshal(toSaveConfig(cfg))
	if err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(managed, &fields); err != nil {
		return err
	}
	for k, v := range fields {
		merged[k] = v
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func saveYAML(path string, cfg *Config) error {
	merged := map[string]any{}
	if existing, err := os.ReadFile(path); err == nil {
		_ = yaml.Unmarshal(existing, &merged)
	}
	if merged == nil {
		merged = map[string]any{}
	}

	managed, err := yaml.Marshal(toSaveConfig(cfg))
	if err != nil {
		return err
	}
	var fields map[string]any
	if err := yaml.Unmarshal(managed, &fields); err != nil {
		return err
	}
	for k, v := range fields {
		merged[k] = v
	}

	data, err := yaml.Marshal(merged)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
