package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glasswing/pipcore/internal/infrastructure/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.RateLimit.Enabled = false

	srv, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv
}

func TestNewWiresAllRoutes(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/", "/health", "/pip", "/views", "/content", "/metrics"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Router().ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Driver.Name = "carplay"

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestRegisterPresets(t *testing.T) {
	srv := newTestServer(t)

	err := srv.RegisterPresets(&config.Presets{
		Content: []config.ContentPreset{
			{ID: "now-playing", Blueprint: map[string]interface{}{"kind": "audio"}},
		},
	})
	require.NoError(t, err)

	_, ok := srv.contents.Get("now-playing")
	assert.True(t, ok)
}

func TestMetricsEndpointExposesRegistry(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pipd_uptime_seconds")
}
