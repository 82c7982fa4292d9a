package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// DefaultBaseURL is the public NoteHub API.
const DefaultBaseURL = "https://notehub-public.goit.study/api"

// ErrMissingToken is returned when no API token is configured.
var ErrMissingToken = errors.New("notehub token not set: export NOTEHUB_TOKEN or set api.token in the config file")

// Config is the root configuration structure.
type Config struct {
	API    APIConfig    `json:"api" yaml:"api"`
	Notes  NotesConfig  `json:"notes" yaml:"notes"`
	Keymap KeymapConfig `json:"keymap" yaml:"keymap"`
	UI     UIConfig     `json:"ui" yaml:"ui"`
}

// APIConfig configures the remote notes service.
type APIConfig struct {
	BaseURL string        `json:"baseURL" yaml:"baseURL"`
	Token   string        `json:"-" yaml:"-"` // never written back
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// NotesConfig configures list paging and the query cache.
type NotesConfig struct {
	PerPage       int           `json:"perPage" yaml:"perPage"`
	Debounce      time.Duration `json:"debounce" yaml:"debounce"`
	StaleTime     time.Duration `json:"staleTime" yaml:"staleTime"`
	GCTime        time.Duration `json:"gcTime" yaml:"gcTime"`
	RetryAttempts int           `json:"retryAttempts" yaml:"retryAttempts"` // loader calls per fetch, first included
}

// KeymapConfig holds key binding overrides.
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides" yaml:"overrides"`
}

// UIConfig configures UI appearance.
type UIConfig struct {
	ShowFooter bool `json:"showFooter" yaml:"showFooter"`
	Markdown   bool `json:"markdown" yaml:"markdown"` // render note content with glamour
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: 15 * time.Second,
		},
		Notes: NotesConfig{
			PerPage:       12,
			Debounce:      300 * time.Millisecond,
			StaleTime:     time.Minute,
			GCTime:        5 * time.Minute,
			RetryAttempts: 3,
		},
		Keymap: KeymapConfig{
			Overrides: make(map[string]string),
		},
		UI: UIConfig{
			ShowFooter: true,
			Markdown:   true,
		},
	}
}

// Validate checks the configuration for errors. Out-of-range numbers are
// reset to their defaults; a malformed base URL is an error.
func (c *Config) Validate() error {
	d := Default()
	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.baseURL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("api.baseURL: %q is not an http(s) URL", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = d.API.Timeout
	}
	if c.Notes.PerPage <= 0 {
		c.Notes.PerPage = d.Notes.PerPage
	}
	if c.Notes.Debounce < 0 {
		c.Notes.Debounce = d.Notes.Debounce
	}
	if c.Notes.StaleTime < 0 {
		c.Notes.StaleTime = d.Notes.StaleTime
	}
	if c.Notes.GCTime <= 0 {
		c.Notes.GCTime = d.Notes.GCTime
	}
	if c.Notes.RetryAttempts <= 0 {
		c.Notes.RetryAttempts = d.Notes.RetryAttempts
	}
	if c.Keymap.Overrides == nil {
		c.Keymap.Overrides = make(map[string]string)
	}
	return nil
}

// CheckCredentials reports ErrMissingToken when no token is configured.
func (c *Config) CheckCredentials() error {
	if c.API.Token == "" {
		return ErrMissingToken
	}
	return nil
}
