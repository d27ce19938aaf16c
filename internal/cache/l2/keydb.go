package l2

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"widget-gateway/internal/cache"
	"widget-gateway/internal/config"
	"widget-gateway/internal/interfaces"
	"widget-gateway/internal/metrics"
	"widget-gateway/internal/models"
)

// Ensure KeyDBCache implements interfaces.Cache
var _ interfaces.Cache = (*KeyDBCache)(nil)

// KeyDBCache is the remote Cache Store backed by KeyDB/Redis.
// Payloads are stored as-is; expiry is delegated to KeyDB via SET EX.
type KeyDBCache struct {
	client interfaces.KeyDbClient
	config *config.Config
	logger *zap.Logger
}

// NewKeyDBCache creates a new KeyDBCache instance with provided client
func NewKeyDBCache(cfg *config.Config, client interfaces.KeyDbClient, logger *zap.Logger) interfaces.Cache {
	return &KeyDBCache{
		client: client,
		config: cfg,
		logger: logger,
	}
}

// Get retrieves a payload. A missing key is a clean miss; any other failure
// is reported as cache.ErrUnavailable.
func (kc *KeyDBCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	defer metrics.TimeCacheGetOperation("l2")()

	ctx, cancel := context.WithTimeout(ctx, kc.config.GetReadTimeout())
	defer cancel()

	data, err := kc.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		kc.logger.Warn("L2 cache get error", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("l2", "get")
		return nil, false, fmt.Errorf("%w: %v", cache.ErrUnavailable, err)
	}

	return data, true, nil
}

// Set stores a payload with the given TTL
func (kc *KeyDBCache) Set(ctx context.Context, key string, val []byte, ttl models.TTL) error {
	if ttl.Seconds() <= 0 {
		return fmt.Errorf("ttl must be at least one second, got %v", ttl.Duration())
	}

	ctx, cancel := context.WithTimeout(ctx, kc.config.GetSendTimeout())
	defer cancel()

	if err := kc.client.Set(ctx, key, val, ttl.Duration()).Err(); err != nil {
		kc.logger.Warn("Failed to set L2 cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("l2", "set")
		return fmt.Errorf("%w: %v", cache.ErrUnavailable, err)
	}

	return nil
}

// Ping checks KeyDB connectivity
func (kc *KeyDBCache) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, kc.config.GetReadTimeout())
	defer cancel()

	if err := kc.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", cache.ErrUnavailable, err)
	}
	return nil
}

// Close closes the KeyDB connection
func (kc *KeyDBCache) Close() error {
	return kc.client.Close()
}
