// Package config provides scout's sectioned configuration.
//
// Configuration is stored as a single YAML file (default
// ~/.scout/config.yaml) with one block per section: browser, search, fetch,
// and logging. Missing file or missing keys fall back to defaults, so a
// fresh installation runs without any configuration at all.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// globalConfig is the singleton configuration instance
	globalConfig *Config
	globalMu     sync.Mutex
)

// BrowserSection configures the shared browser process lifecycle.
type BrowserSection struct {
	// ExecutablePath overrides browser binary discovery when set
	ExecutablePath string `yaml:"executable_path"`

	// Headless controls whether Chrome runs with a visible window.
	// The launcher suppresses window visibility by platform means even
	// when this is false, so false is only useful for local debugging.
	Headless bool `yaml:"headless"`

	// HandshakeAttempts bounds the debug-endpoint readiness polling
	HandshakeAttempts int `yaml:"handshake_attempts"`

	// HandshakeInterval is the pause between readiness polls
	HandshakeInterval time.Duration `yaml:"handshake_interval"`

	// HandshakeProbeTimeout bounds each individual readiness poll
	HandshakeProbeTimeout time.Duration `yaml:"handshake_probe_timeout"`

	// LivenessTimeout bounds the health check before a session is reused
	LivenessTimeout time.Duration `yaml:"liveness_timeout"`

	// NavigationTimeout bounds a single page navigation
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`

	// ShutdownTimeout bounds the graceful protocol-level close before
	// teardown falls back to killing the process tree
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// SearchSection configures the search tool.
type SearchSection struct {
	// DefaultEngine is used when a search call names no engine
	DefaultEngine string `yaml:"default_engine"`

	// MaxResults caps results returned per search
	MaxResults int `yaml:"max_results"`

	// RequestsPerMinute rate-limits queries per engine
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// FetchSection configures the fetch tool.
type FetchSection struct {
	// MaxLength caps extracted article text (characters)
	MaxLength int `yaml:"max_length"`

	// BlockedDomains lists glob patterns for hosts fetch refuses to visit
	BlockedDomains []string `yaml:"blocked_domains"`
}

// LoggingSection configures log output.
type LoggingSection struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
}

// Config is the root configuration document.
type Config struct {
	Browser BrowserSection `yaml:"browser"`
	Search  SearchSection  `yaml:"search"`
	Fetch   FetchSection   `yaml:"fetch"`
	Logging LoggingSection `yaml:"logging"`
}

// Default returns a Config populated with defaults for every section.
func Default() *Config {
	return &Config{
		Browser: BrowserSection{
			Headless:              true,
			HandshakeAttempts:     50,
			HandshakeInterval:     200 * time.Millisecond,
			HandshakeProbeTimeout: 2 * time.Second,
			LivenessTimeout:       3 * time.Second,
			NavigationTimeout:     30 * time.Second,
			ShutdownTimeout:       5 * time.Second,
		},
		Search: SearchSection{
			DefaultEngine:     "bing",
			MaxResults:        10,
			RequestsPerMinute: 20,
		},
		Fetch: FetchSection{
			MaxLength: 20000,
		},
		Logging: LoggingSection{
			Level: "info",
		},
	}
}

// DefaultPath returns the default configuration file location.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".scout", "config.yaml"), nil
}

// Load reads the YAML file at path on top of defaults. A missing file is not
// an error: the defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// validate rejects values the rest of the system cannot operate with.
func (c *Config) validate() error {
	if c.Browser.HandshakeAttempts < 1 {
		return fmt.Errorf("browser.handshake_attempts must be at least 1")
	}
	if c.Browser.HandshakeProbeTimeout <= 0 {
		return fmt.Errorf("browser.handshake_probe_timeout must be positive")
	}
	if c.Search.MaxResults < 1 {
		return fmt.Errorf("search.max_results must be at least 1")
	}
	if c.Search.RequestsPerMinute < 1 {
		return fmt.Errorf("search.requests_per_minute must be at least 1")
	}
	return nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// Initialize loads the global configuration from path (or the default
// location when path is empty). It should be called once at startup.
func Initialize(path string) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	cfg, err := Load(path)
	if err != nil {
		return err
	}

	globalConfig = cfg
	return nil
}

// Global returns the global configuration.
// Panics if Initialize has not been called.
func Global() *Config {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalConfig == nil {
		panic("config not initialized: call config.Initialize first")
	}
	return globalConfig
}

// IsInitialized returns true if the global configuration has been loaded.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalConfig != nil
}
