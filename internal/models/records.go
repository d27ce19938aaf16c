package models

// Record is the normalized result of one widget fetch. It is the unit
// serialized into the cache and returned to the caller.
type Record interface {
	WidgetKind() WidgetKind
}

// ActivityEvent is one public event from a source-control account
type ActivityEvent struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Repo      string `json:"repo"`
	CreatedAt string `json:"created_at"`
}

// ActivityFeed is the activity widget record
type ActivityFeed []ActivityEvent

func (ActivityFeed) WidgetKind() WidgetKind { return WidgetKindActivity }

// WeatherReading is the weather widget record
type WeatherReading struct {
	Place       string  `json:"place"`
	Temp        float64 `json:"temp"`
	FeelsLike   float64 `json:"feels_like"`
	Humidity    int     `json:"humidity"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

func (WeatherReading) WidgetKind() WidgetKind { return WidgetKindWeather }

// Headline is a single news article summary
type Headline struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	URL         string  `json:"url"`
	Source      string  `json:"source"`
	PublishedAt string  `json:"published_at"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// HeadlineList is the headlines widget record
type HeadlineList []Headline

func (HeadlineList) WidgetKind() WidgetKind { return WidgetKindHeadlines }

// PriceSnapshot is the current USD price of one asset
type PriceSnapshot struct {
	Symbol              string  `json:"symbol"`
	Name                string  `json:"name"`
	Price               float64 `json:"price"`
	Change24h           float64 `json:"change_24h"`
	ChangePercentage24h float64 `json:"change_percentage_24h"`
}

// PriceSnapshotList is the prices widget record
type PriceSnapshotList []PriceSnapshot

func (PriceSnapshotList) WidgetKind() WidgetKind { return WidgetKindPrices }

// ProbeStatus is the outcome of a single URL probe
type ProbeStatus string

const (
	ProbeStatusUp   ProbeStatus = "up"
	ProbeStatusDown ProbeStatus = "down"
)

// ProbeResult is the outcome of probing one URL
type ProbeResult struct {
	URL       string      `json:"url"`
	Status    ProbeStatus `json:"status"`
	Code      *int        `json:"code,omitempty"`
	LatencyMS *int64      `json:"latency_ms,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// ProbeResultList is the probe widget record
type ProbeResultList []ProbeResult

func (ProbeResultList) WidgetKind() WidgetKind { return WidgetKindProbe }
