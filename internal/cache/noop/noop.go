package noop

import (
	"context"

	"widget-gateway/internal/interfaces"
	"widget-gateway/internal/models"
)

// Ensure NoOpCache implements interfaces.Cache
var _ interfaces.Cache = (*NoOpCache)(nil)

// NoOpCache is a no-operation cache used when every store is disabled.
// Every lookup is a miss.
type NoOpCache struct{}

// NewNoOpCache creates a new no-operation cache instance
func NewNoOpCache() interfaces.Cache {
	return &NoOpCache{}
}

// Get always returns cache miss
func (n *NoOpCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set does nothing
func (n *NoOpCache) Set(context.Context, string, []byte, models.TTL) error {
	return nil
}

// Ping always succeeds
func (n *NoOpCache) Ping(context.Context) error {
	return nil
}
