package sources

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"widget-gateway/internal/apperr"
	"widget-gateway/internal/config"
	"widget-gateway/internal/interfaces"
	"widget-gateway/internal/models"
)

const (
	WeatherTTL    = models.TTL(600 * time.Second)
	ParamPlace    = "place"
	weatherSource = "openweather"
)

// Ensure WeatherSource implements interfaces.Source
var _ interfaces.Source = (*WeatherSource)(nil)

// WeatherSource fetches current conditions from OpenWeather
type WeatherSource struct {
	client  *UpstreamClient
	baseURL string
	units   string
	apiKey  string
}

// NewWeatherSource creates the weather adapter. An empty apiKey makes every
// fetch fail with an internal error.
func NewWeatherSource(cfg *config.Config, client *UpstreamClient, apiKey string) *WeatherSource {
	return &WeatherSource{
		client:  client,
		baseURL: strings.TrimRight(cfg.Sources.Weather.BaseURL, "/"),
		units:   cfg.Sources.Weather.Units,
		apiKey:  apiKey,
	}
}

func (s *WeatherSource) Kind() models.WidgetKind {
	return models.WidgetKindWeather
}

func (s *WeatherSource) TTL() models.TTL {
	return WeatherTTL
}

func (s *WeatherSource) RequiredParams() []string {
	return []string{ParamPlace}
}

// Normalize collapses whitespace and lowercases the place name
func (s *WeatherSource) Normalize(params models.Params) (models.Params, error) {
	place, err := requireParam(params, ParamPlace)
	if err != nil {
		return nil, err
	}
	if err := checkParam(ParamPlace, place, "max=100"); err != nil {
		return nil, err
	}
	place = strings.ToLower(strings.Join(strings.Fields(place), " "))
	return models.Params{{Name: ParamPlace, Value: place}}, nil
}

type openWeatherResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

// Fetch retrieves the current weather for the place
func (s *WeatherSource) Fetch(ctx context.Context, params models.Params) (models.Record, error) {
	if s.apiKey == "" {
		return nil, apperr.Internal("OpenWeather API key not configured", nil)
	}

	place, _ := params.Get(ParamPlace)
	query := url.Values{}
	query.Set("q", place)
	query.Set("appid", s.apiKey)
	query.Set("units", s.units)

	var resp openWeatherResponse
	err := s.client.GetJSON(ctx, weatherSource, s.baseURL+"/data/2.5/weather?"+query.Encode(), nil, &resp)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return nil, apperr.Upstream("weather source could not resolve place", err)
		}
		return nil, err
	}

	reading := models.WeatherReading{
		Place:     resp.Name,
		Temp:      resp.Main.Temp,
		FeelsLike: resp.Main.FeelsLike,
		Humidity:  resp.Main.Humidity,
	}
	if len(resp.Weather) > 0 {
		reading.Description = resp.Weather[0].Description
		reading.Icon = resp.Weather[0].Icon
	}
	return reading, nil
}

func (s *WeatherSource) Decode(data []byte) (models.Record, error) {
	var reading models.WeatherReading
	if err := json.Unmarshal(data, &reading); err != nil {
		return nil, err
	}
	return reading, nil
}
