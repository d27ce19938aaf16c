package interfaces

import (
	"context"

	"widget-gateway/internal/models"
)

//go:generate mockgen -package=mock -source=cache.go -destination=mock/cache.go

// Cache is the contract of the widget Cache Store. Implementations report
// connectivity problems as cache.ErrUnavailable; callers treat those as a miss.
type Cache interface {
	// Get returns the payload and a found flag
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores the payload; expiry is owned by the store once written
	Set(ctx context.Context, key string, val []byte, ttl models.TTL) error
	// Ping checks that the store is reachable
	Ping(ctx context.Context) error
}
