package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 50, cfg.Browser.HandshakeAttempts)
	assert.Equal(t, 200*time.Millisecond, cfg.Browser.HandshakeInterval)
	assert.Equal(t, "bing", cfg.Search.DefaultEngine)
	assert.Equal(t, 10, cfg.Search.MaxResults)
	assert.Equal(t, 20000, cfg.Fetch.MaxLength)
	assert.Equal(t, "info", cfg.Logging.Level)

	require.NoError(t, cfg.validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
browser:
  executable_path: /opt/chrome/chrome
  headless: false
  handshake_attempts: 10
search:
  default_engine: duckduckgo
fetch:
  blocked_domains:
    - "*.internal.example.com"
    - "localhost"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Explicit values win.
	assert.Equal(t, "/opt/chrome/chrome", cfg.Browser.ExecutablePath)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 10, cfg.Browser.HandshakeAttempts)
	assert.Equal(t, "duckduckgo", cfg.Search.DefaultEngine)
	assert.Equal(t, []string{"*.internal.example.com", "localhost"}, cfg.Fetch.BlockedDomains)

	// Untouched keys keep defaults.
	assert.Equal(t, 2*time.Second, cfg.Browser.HandshakeProbeTimeout)
	assert.Equal(t, 10, cfg.Search.MaxResults)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
browser:
  handshake_attempts: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handshake_attempts")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("browser: [not a map"), 0600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Search.DefaultEngine = "brave"
	cfg.Fetch.BlockedDomains = []string{"*.corp"}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestInitializeAndGlobal(t *testing.T) {
	// Reset global state around the test.
	globalMu.Lock()
	orig := globalConfig
	globalConfig = nil
	globalMu.Unlock()
	defer func() {
		globalMu.Lock()
		globalConfig = orig
		globalMu.Unlock()
	}()

	assert.False(t, IsInitialized())
	assert.Panics(t, func() { Global() })

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Initialize(path))
	assert.True(t, IsInitialized())
	assert.Equal(t, "bing", Global().Search.DefaultEngine)
}
