package models

import "time"

// WidgetKind identifies one of the supported dashboard widget data sources
type WidgetKind string

const (
	WidgetKindActivity  WidgetKind = "activity"
	WidgetKindWeather   WidgetKind = "weather"
	WidgetKindHeadlines WidgetKind = "headlines"
	WidgetKindPrices    WidgetKind = "prices"
	WidgetKindProbe     WidgetKind = "probe"
)

// AllWidgetKinds lists every supported kind in a stable order
var AllWidgetKinds = []WidgetKind{
	WidgetKindActivity,
	WidgetKindWeather,
	WidgetKindHeadlines,
	WidgetKindPrices,
	WidgetKindProbe,
}

// IsValid reports whether k is one of the supported kinds
func (k WidgetKind) IsValid() bool {
	for _, known := range AllWidgetKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Param is a single named request parameter
type Param struct {
	Name  string
	Value string
}

// Params is an ordered parameter bag. Order is preserved as received;
// canonical ordering is applied by the key builder.
type Params []Param

// Get returns the value of the first parameter with the given name
func (p Params) Get(name string) (string, bool) {
	for _, param := range p {
		if param.Name == name {
			return param.Value, true
		}
	}
	return "", false
}

// TTL is the lifetime given to a cache entry for a widget kind.
// It is applied in whole seconds.
type TTL time.Duration

// Seconds returns the TTL in whole seconds
func (t TTL) Seconds() int64 {
	return int64(time.Duration(t) / time.Second)
}

// Duration returns the TTL as a time.Duration truncated to whole seconds
func (t TTL) Duration() time.Duration {
	return time.Duration(t.Seconds()) * time.Second
}
