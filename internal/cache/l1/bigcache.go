package l1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
	"go.uber.org/zap"

	"widget-gateway/internal/config"
	"widget-gateway/internal/interfaces"
	"widget-gateway/internal/metrics"
	"widget-gateway/internal/models"
)

const statsInterval = 30 * time.Second

// Ensure BigCache implements interfaces.Cache
var _ interfaces.Cache = (*BigCache)(nil)

// entry wraps a payload with its absolute expiry, since bigcache only
// supports a single global eviction window.
type entry struct {
	Data      []byte `json:"data"`
	ExpiresAt int64  `json:"expires_at"`
}

// BigCache is an in-process Cache Store used when KeyDB is disabled.
// Entries are private to one replica.
type BigCache struct {
	cache  *bigcache.BigCache
	logger *zap.Logger
	now    func() time.Time
	stop   chan struct{}
}

// NewBigCache creates a new BigCache instance
func NewBigCache(memCfg *config.MemoryCacheConfig, logger *zap.Logger) (interfaces.Cache, error) {
	cfg := bigcache.DefaultConfig(time.Hour) // Longest widget TTL is well below this
	cfg.HardMaxCacheSize = memCfg.Size       // Size in MB
	cfg.Verbose = false
	cfg.MaxEntrySize = 1024 * 1024 // 1MB max entry size

	cache, err := bigcache.New(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	bc := &BigCache{
		cache:  cache,
		logger: logger,
		now:    time.Now,
		stop:   make(chan struct{}),
	}

	go bc.collectStats()

	return bc, nil
}

// Get retrieves a payload if present and not expired
func (bc *BigCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	defer metrics.TimeCacheGetOperation("memory")()

	data, err := bc.cache.Get(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		bc.logger.Warn("Failed to unmarshal memory cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("memory", "decode")
		_ = bc.cache.Delete(key) // Remove corrupted entry
		return nil, false, nil
	}

	if bc.now().Unix() >= e.ExpiresAt {
		_ = bc.cache.Delete(key)
		return nil, false, nil
	}

	return e.Data, true, nil
}

// Set stores a payload with the given TTL
func (bc *BigCache) Set(_ context.Context, key string, val []byte, ttl models.TTL) error {
	if ttl.Seconds() <= 0 {
		return fmt.Errorf("ttl must be at least one second, got %v", ttl.Duration())
	}

	data, err := json.Marshal(entry{
		Data:      val,
		ExpiresAt: bc.now().Unix() + ttl.Seconds(),
	})
	if err != nil {
		metrics.RecordCacheError("memory", "encode")
		return err
	}

	if err := bc.cache.Set(key, data); err != nil {
		bc.logger.Error("Failed to set memory cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("memory", "set")
		return err
	}

	return nil
}

// Ping always succeeds for the in-process store
func (bc *BigCache) Ping(context.Context) error {
	return nil
}

// Close stops stats collection and releases the cache
func (bc *BigCache) Close() error {
	close(bc.stop)
	return bc.cache.Close()
}

func (bc *BigCache) collectStats() {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	bc.updateMetrics()
	for {
		select {
		case <-ticker.C:
			bc.updateMetrics()
		case <-bc.stop:
			return
		}
	}
}

func (bc *BigCache) updateMetrics() {
	metrics.UpdateMemoryCacheStats(int64(bc.cache.Capacity()), int64(bc.cache.Len()))
}
