package httpserver

import "time"

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status  string    `json:"status"`
	Service string    `json:"service"`
	Cache   string    `json:"cache"`
	Time    time.Time `json:"time"`
}

// Cache status header values
const (
	cacheHeader     = "X-Cache"
	cacheStatusHit  = "HIT"
	cacheStatusMiss = "MISS"
)
