package sources

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"widget-gateway/internal/config"
)

func newTestConfig(baseURL string) *config.Config {
	cfg := config.Default()
	cfg.Sources.Activity.BaseURL = baseURL
	cfg.Sources.Weather.BaseURL = baseURL
	cfg.Sources.Headlines.BaseURL = baseURL
	cfg.Sources.Prices.BaseURL = baseURL
	cfg.Sources.UpstreamTimeout = 2000
	cfg.Sources.Probe.Timeout = 200
	return cfg
}

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *config.Config, *UpstreamClient) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := newTestConfig(server.URL)
	return server, cfg, NewUpstreamClient(cfg, zaptest.NewLogger(t))
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}
