package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"widget-gateway/internal/apperr"
	"widget-gateway/internal/models"
)

func TestProbeSource_Fetch_PartialTimeout(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer up.Close()

	missing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer missing.Close()

	hanging := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer hanging.Close()

	cfg := newTestConfig("http://unused")
	source := NewProbeSource(cfg, NewUpstreamClient(cfg, nopLogger()), nopLogger())

	urls := []string{up.URL, missing.URL, hanging.URL}
	params, err := source.Normalize(models.Params{{Name: ParamURLs, Value: strings.Join(urls, ",")}})
	require.NoError(t, err)

	start := time.Now()
	record, err := source.Fetch(context.Background(), params)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)

	results := record.(models.ProbeResultList)
	require.Len(t, results, 3)

	byURL := make(map[string]models.ProbeResult)
	for _, r := range results {
		byURL[r.URL] = r
	}

	assert.Equal(t, models.ProbeStatusUp, byURL[up.URL].Status)
	require.NotNil(t, byURL[up.URL].Code)
	assert.Equal(t, http.StatusOK, *byURL[up.URL].Code)
	assert.NotNil(t, byURL[up.URL].LatencyMS)

	assert.Equal(t, models.ProbeStatusUp, byURL[missing.URL].Status)
	assert.Equal(t, http.StatusNotFound, *byURL[missing.URL].Code)

	assert.Equal(t, models.ProbeStatusDown, byURL[hanging.URL].Status)
	assert.Nil(t, byURL[hanging.URL].Code)
	assert.NotEmpty(t, byURL[hanging.URL].Error)
}

func TestProbeSource_Fetch_Unreachable(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := dead.URL
	dead.Close()

	cfg := newTestConfig("http://unused")
	source := NewProbeSource(cfg, NewUpstreamClient(cfg, nopLogger()), nopLogger())

	record, err := source.Fetch(context.Background(), models.Params{{Name: ParamURLs, Value: deadURL}})

	require.NoError(t, err)
	results := record.(models.ProbeResultList)
	require.Len(t, results, 1)
	assert.Equal(t, models.ProbeStatusDown, results[0].Status)
	assert.NotEmpty(t, results[0].Error)
}

func TestProbeSource_Fetch_CallerCancelled(t *testing.T) {
	cfg := newTestConfig("http://unused")
	source := NewProbeSource(cfg, NewUpstreamClient(cfg, nopLogger()), nopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := source.Fetch(ctx, models.Params{{Name: ParamURLs, Value: "http://127.0.0.1:1"}})

	assert.Error(t, err)
}

func TestProbeSource_Normalize(t *testing.T) {
	cfg := newTestConfig("http://unused")
	cfg.Sources.Probe.MaxURLs = 2
	source := NewProbeSource(cfg, nil, nopLogger())

	params, err := source.Normalize(models.Params{{Name: ParamURLs, Value: "https://b.example.com, https://a.example.com,https://b.example.com"}})
	require.NoError(t, err)
	assert.Equal(t, models.Params{{Name: ParamURLs, Value: "https://a.example.com,https://b.example.com"}}, params)

	_, err = source.Normalize(models.Params{{Name: ParamURLs, Value: "ftp://example.com"}})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = source.Normalize(models.Params{{Name: ParamURLs, Value: "not a url"}})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = source.Normalize(models.Params{{Name: ParamURLs, Value: "https://a.com,https://b.com,https://c.com"}})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
