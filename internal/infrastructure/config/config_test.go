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

	assert.Equal(t, "8600", cfg.Server.Port)
	assert.Equal(t, "sim", cfg.Driver.Name)
	assert.Equal(t, 500*time.Millisecond, cfg.PiP.StartRetryInterval)
	assert.Greater(t, cfg.PiP.StartRetryMax, 0, "start retries must be bounded")
	assert.Greater(t, cfg.PiP.AnchorRetryMax, 0, "anchor retries must be bounded")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PIP_START_RETRY_MAX", "3")
	t.Setenv("PIP_START_RETRY_INTERVAL", "25ms")
	t.Setenv("PIP_DRIVER", "sim")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.PiP.StartRetryMax)
	assert.Equal(t, 25*time.Millisecond, cfg.PiP.StartRetryInterval)
}

func TestLoadPresets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presets.yaml")
	data := `content:
  - id: call-overlay
    blueprint:
      kind: remote
      url: https://example.test/overlay
  - id: placeholder
    blueprint:
      kind: empty
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	p, err := LoadPresets(path)
	require.NoError(t, err)
	require.Len(t, p.Content, 2)

	assert.Equal(t, "call-overlay", p.Content[0].ID)
	assert.Equal(t, "remote", p.Content[0].Blueprint["kind"])
}

func TestLoadPresetsMissingFile(t *testing.T) {
	_, err := LoadPresets("/nonexistent/presets.yaml")
	assert.Error(t, err)
}
