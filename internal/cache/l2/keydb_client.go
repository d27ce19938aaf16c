package l2

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"widget-gateway/internal/config"
	"widget-gateway/internal/interfaces"
)

// Ensure RedisKeyDbClient implements interfaces.KeyDbClient
var _ interfaces.KeyDbClient = (*RedisKeyDbClient)(nil)

// RedisKeyDbClient wraps redis.Client to implement KeyDbClient interface.
// The underlying pool is safe for concurrent use.
type RedisKeyDbClient struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisKeyDbClient creates a new RedisKeyDbClient instance. An unreachable
// server at startup is logged and the client is kept: connections are dialled
// lazily and every later call reports its own failure.
func NewRedisKeyDbClient(cfg *config.Config, keydbURL string, logger *zap.Logger) (interfaces.KeyDbClient, error) {
	opts, err := redisOptions(cfg, keydbURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), cfg.GetConnectTimeout())
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("KeyDB not reachable yet, requests fall through to sources until it recovers",
			zap.String("address", opts.Addr),
			zap.Error(err))
	} else {
		logger.Info("Connected to KeyDB",
			zap.String("address", opts.Addr),
			zap.Bool("tls", opts.TLSConfig != nil),
			zap.Duration("connect_timeout", cfg.GetConnectTimeout()),
			zap.Int("pool_size", cfg.KeyDB.Keepalive.PoolSize))
	}

	return &RedisKeyDbClient{
		client: client,
		logger: logger,
	}, nil
}

// redisOptions parses a redis:// or rediss:// URL and overlays the pool and
// timeout settings from config
func redisOptions(cfg *config.Config, keydbURL string) (*redis.Options, error) {
	opts, err := redis.ParseURL(keydbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse KeyDB URL: %w", err)
	}

	opts.DialTimeout = cfg.GetConnectTimeout()
	opts.ReadTimeout = cfg.GetReadTimeout()
	opts.WriteTimeout = cfg.GetSendTimeout()
	opts.PoolSize = cfg.KeyDB.Keepalive.PoolSize
	opts.IdleTimeout = cfg.GetMaxIdleTimeout()

	return opts, nil
}

// Get retrieves a value by key
func (r *RedisKeyDbClient) Get(ctx context.Context, key string) *redis.StringCmd {
	return r.client.Get(ctx, key)
}

// Set stores a value with expiration
func (r *RedisKeyDbClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	return r.client.Set(ctx, key, value, expiration)
}

// Ping tests connectivity
func (r *RedisKeyDbClient) Ping(ctx context.Context) *redis.StatusCmd {
	return r.client.Ping(ctx)
}

// Close closes the client connection
func (r *RedisKeyDbClient) Close() error {
	return r.client.Close()
}
