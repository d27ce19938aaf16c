package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"widget-gateway/internal/apperr"
	"widget-gateway/internal/auth"
	"widget-gateway/internal/cache"
	"widget-gateway/internal/config"
	"widget-gateway/internal/gateway"
	"widget-gateway/internal/interfaces/mock"
	"widget-gateway/internal/models"
	"widget-gateway/internal/sources"
)

const testSecret = "test-secret"

type testEnv struct {
	router http.Handler
	source *mock.MockSource
	cache  *mock.MockCache
}

func newTestEnv(t *testing.T) *testEnv {
	ctrl := gomock.NewController(t)

	source := mock.NewMockSource(ctrl)
	source.EXPECT().Kind().Return(models.WidgetKindWeather).AnyTimes()
	source.EXPECT().RequiredParams().Return([]string{"place"}).AnyTimes()
	source.EXPECT().TTL().Return(sources.WeatherTTL).AnyTimes()

	mockCache := mock.NewMockCache(ctrl)
	logger := zaptest.NewLogger(t)

	validator, err := auth.NewValidator(testSecret)
	require.NoError(t, err)

	service := gateway.NewService(sources.NewRegistry(source), mockCache, cache.NewKeyBuilder(), logger)
	server := NewServer(service, validator, mockCache, config.Default().Server, logger)

	return &testEnv{router: server.createRouter(), source: source, cache: mockCache}
}

func validToken(t *testing.T) string {
	token, _, err := auth.Generate(testSecret, uuid.New(), "dev@example.com", time.Hour)
	require.NoError(t, err)
	return token
}

func (e *testEnv) get(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestWidget_Unauthorized(t *testing.T) {
	expired, _, err := auth.Generate(testSecret, uuid.New(), "dev@example.com", -time.Minute)
	require.NoError(t, err)
	forged, _, err := auth.Generate("other-secret", uuid.New(), "dev@example.com", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"malformed token", "Bearer not-a-jwt"},
		{"expired token", "Bearer " + expired},
		{"forged token", "Bearer " + forged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// strict mocks: any source or cache call fails the test
			env := newTestEnv(t)

			req := httptest.NewRequest(http.MethodGet, "/data/weather?place=lisbon", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			env.router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.NotEmpty(t, decodeError(t, rec))
		})
	}
}

func TestWidget_UnknownKind(t *testing.T) {
	// strict mocks: an unknown kind never reaches the cache
	env := newTestEnv(t)

	rec := env.get("/data/calendar?month=5", validToken(t))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "unknown widget kind: calendar", decodeError(t, rec))

	rec = env.get("/data/calendar?month=5", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWidget_MissThenHit(t *testing.T) {
	env := newTestEnv(t)
	token := validToken(t)

	params := models.Params{{Name: "place", Value: "lisbon"}}
	reading := models.WeatherReading{Place: "Lisbon", Temp: 21.5, Humidity: 60, Description: "clear sky", Icon: "01d"}
	payload, _ := json.Marshal(reading)

	env.source.EXPECT().Normalize(params).Return(params, nil).Times(2)
	gomock.InOrder(
		env.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, nil),
		env.source.EXPECT().Fetch(gomock.Any(), params).Return(reading, nil),
		env.cache.EXPECT().Set(gomock.Any(), gomock.Any(), payload, sources.WeatherTTL).Return(nil),
		env.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(payload, true, nil),
		env.source.EXPECT().Decode(payload).Return(reading, nil),
	)

	rec := env.get("/data/weather?place=lisbon", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.JSONEq(t, string(payload), rec.Body.String())

	rec = env.get("/data/weather?place=lisbon", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.JSONEq(t, string(payload), rec.Body.String())
}

func TestWidget_ErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		fetchErr    error
		wantStatus  int
		wantMessage string
	}{
		{"upstream", apperr.Upstream("openweather returned status 503", nil), http.StatusBadGateway, "openweather returned status 503"},
		{"upstream timeout", apperr.Upstream("openweather request timed out", context.DeadlineExceeded), http.StatusGatewayTimeout, "openweather request timed out"},
		{"internal", errors.New("secret detail"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			params := models.Params{{Name: "place", Value: "lisbon"}}

			env.source.EXPECT().Normalize(params).Return(params, nil)
			env.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, nil)
			env.source.EXPECT().Fetch(gomock.Any(), params).Return(nil, tt.fetchErr)

			rec := env.get("/data/weather?place=lisbon", validToken(t))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMessage, decodeError(t, rec))
		})
	}
}

func TestWidget_Validation(t *testing.T) {
	env := newTestEnv(t)
	token := validToken(t)

	rec := env.get("/data/weather", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing required parameter: place", decodeError(t, rec))

	rec = env.get("/data/calendar?day=today", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.get("/data/weather?place=%zz", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	env.cache.EXPECT().Ping(gomock.Any()).Return(nil)
	rec := env.get("/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "widget-gateway", body.Service)
	assert.Equal(t, "up", body.Cache)

	env.cache.EXPECT().Ping(gomock.Any()).Return(cache.ErrUnavailable)
	rec = env.get("/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "down", body.Cache)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestParamsFromQuery(t *testing.T) {
	params, err := paramsFromQuery("urls=https%3A%2F%2Fa.com%2Chttps%3A%2F%2Fb.com&b=2&a=1&flag")
	require.NoError(t, err)
	assert.Equal(t, models.Params{
		{Name: "urls", Value: "https://a.com,https://b.com"},
		{Name: "b", Value: "2"},
		{Name: "a", Value: "1"},
		{Name: "flag", Value: ""},
	}, params)

	params, err = paramsFromQuery("")
	require.NoError(t, err)
	assert.Empty(t, params)

	_, err = paramsFromQuery("place=%zz")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestAuthMiddleware_StoresIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	validator := mock.NewMockTokenValidator(ctrl)
	identity := models.Identity{Subject: uuid.New(), Email: "dev@example.com"}

	validator.EXPECT().Validate("opaque-token").Return(identity, nil)

	server := NewServer(nil, validator, nil, config.Default().Server, zaptest.NewLogger(t))

	var got models.Identity
	handler := server.authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/data/activity", nil)
	req.Header.Set("Authorization", "Bearer opaque-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, identity, got)
}

func TestAuthMiddleware_RejectsInvalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	validator := mock.NewMockTokenValidator(ctrl)

	validator.EXPECT().Validate("bad").Return(models.Identity{}, apperr.Auth("invalid token", nil))

	server := NewServer(nil, validator, nil, config.Default().Server, zaptest.NewLogger(t))
	handler := server.authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/data/activity", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid token", decodeError(t, rec))
}
