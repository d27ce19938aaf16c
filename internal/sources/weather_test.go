package sources

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"widget-gateway/internal/apperr"
	"widget-gateway/internal/models"
)

func TestWeatherSource_Fetch(t *testing.T) {
	var gotQuery map[string]string
	_, cfg, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		q := r.URL.Query()
		gotQuery = map[string]string{"q": q.Get("q"), "appid": q.Get("appid"), "units": q.Get("units")}
		_, _ = w.Write([]byte(`{
			"name": "Lisbon",
			"main": {"temp": 21.5, "feels_like": 20.9, "humidity": 64, "pressure": 1015},
			"weather": [{"id": 800, "main": "Clear", "description": "clear sky", "icon": "01d"}]
		}`))
	})

	source := NewWeatherSource(cfg, client, "ow-key")
	record, err := source.Fetch(context.Background(), models.Params{{Name: ParamPlace, Value: "lisbon"}})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"q": "lisbon", "appid": "ow-key", "units": "metric"}, gotQuery)
	assert.Equal(t, models.WeatherReading{
		Place:       "Lisbon",
		Temp:        21.5,
		FeelsLike:   20.9,
		Humidity:    64,
		Description: "clear sky",
		Icon:        "01d",
	}, record)
}

func TestWeatherSource_Fetch_UnknownPlace(t *testing.T) {
	_, cfg, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"cod":"404","message":"city not found"}`, http.StatusNotFound)
	})

	_, err := NewWeatherSource(cfg, client, "ow-key").Fetch(context.Background(), models.Params{{Name: ParamPlace, Value: "atlantis"}})

	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
	assert.Equal(t, "weather source could not resolve place", apperr.PublicMessage(err))
}

func TestWeatherSource_Fetch_MissingKey(t *testing.T) {
	called := false
	_, cfg, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := NewWeatherSource(cfg, client, "").Fetch(context.Background(), models.Params{{Name: ParamPlace, Value: "lisbon"}})

	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.False(t, called)
}

func TestWeatherSource_Normalize(t *testing.T) {
	source := NewWeatherSource(newTestConfig("http://unused"), nil, "")

	params, err := source.Normalize(models.Params{{Name: ParamPlace, Value: "  New   York "}})
	require.NoError(t, err)
	assert.Equal(t, models.Params{{Name: ParamPlace, Value: "new york"}}, params)

	_, err = source.Normalize(models.Params{{Name: ParamPlace, Value: ""}})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
