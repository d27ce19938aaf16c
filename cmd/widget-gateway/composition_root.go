package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"widget-gateway/internal/auth"
	"widget-gateway/internal/cache"
	"widget-gateway/internal/cache/l1"
	"widget-gateway/internal/cache/l2"
	"widget-gateway/internal/cache/noop"
	"widget-gateway/internal/config"
	"widget-gateway/internal/gateway"
	"widget-gateway/internal/httpserver"
	"widget-gateway/internal/interfaces"
	"widget-gateway/internal/sources"
)

// CompositionRoot holds all application dependencies and provides a centralized
// place for dependency injection and service initialization.
type CompositionRoot struct {
	// Configuration
	Config *config.Config
	Logger *zap.Logger

	// Cache components
	Cache      interfaces.Cache
	KeyBuilder interfaces.KeyBuilder

	// Sources and auth
	Registry  *sources.Registry
	Validator interfaces.TokenValidator

	// Services
	Gateway    *gateway.Service
	HTTPServer *httpserver.Server
}

// NewCompositionRoot creates and initializes all application dependencies.
//
// Initialization order:
// 1. Logger (needed by all other components)
// 2. Configuration (defines how components should be configured)
// 3. Cache store (KeyDB, in-process, or none)
// 4. Token validator
// 5. Source adapters
// 6. Gateway service and HTTP server
func NewCompositionRoot() (*CompositionRoot, error) {
	root := &CompositionRoot{}

	// Initialize logger first
	if err := root.initLogger(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Load configuration
	if err := root.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize cache components
	if err := root.initCache(); err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	if err := root.initAuth(); err != nil {
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}

	root.initSources()
	root.initServices()

	return root, nil
}

// initLogger initializes the application logger
func (r *CompositionRoot) initLogger() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	r.Logger = logger
	return nil
}

// loadConfig loads the application configuration
func (r *CompositionRoot) loadConfig() error {
	configPath := os.Getenv("GATEWAY_CONFIG_FILE")
	if configPath == "" {
		configPath = "/app/gateway_config.yaml"
	}

	cfg, err := config.LoadConfig(configPath, r.Logger)
	if err != nil {
		return err
	}
	r.Config = cfg

	if cfg.Log.Development {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		_ = r.Logger.Sync()
		r.Logger = logger
	}
	return nil
}

// initCache picks the cache store. KeyDB wins when enabled and stays in place
// even when it is unreachable at startup, so caching resumes once it recovers.
func (r *CompositionRoot) initCache() error {
	r.KeyBuilder = cache.NewKeyBuilder()

	if r.Config.KeyDB.Enabled {
		keydbURL := GetKeyDBURL(r.Logger)

		keydbClient, err := l2.NewRedisKeyDbClient(r.Config, keydbURL, r.Logger)
		if err != nil {
			return err
		}

		r.Cache = l2.NewKeyDBCache(r.Config, keydbClient, r.Logger)
		r.Logger.Info("KeyDB cache initialized")
		return nil
	}

	if r.Config.MemoryCache.Enabled {
		memCache, err := l1.NewBigCache(&r.Config.MemoryCache, r.Logger)
		if err != nil {
			return err
		}
		r.Cache = memCache
		r.Logger.Info("In-process cache initialized", zap.Int("size_mb", r.Config.MemoryCache.Size))
		return nil
	}

	r.Cache = noop.NewNoOpCache()
	r.Logger.Info("Caching disabled")
	return nil
}

// initAuth creates the bearer token validator
func (r *CompositionRoot) initAuth() error {
	secret, err := GetJWTSecret(r.Logger)
	if err != nil {
		return err
	}

	validator, err := auth.NewValidator(secret)
	if err != nil {
		return err
	}
	r.Validator = validator
	return nil
}

// initSources registers one adapter per widget kind
func (r *CompositionRoot) initSources() {
	keys := GetAPIKeys(r.Logger)
	client := sources.NewUpstreamClient(r.Config, r.Logger)

	r.Registry = sources.NewRegistry(
		sources.NewActivitySource(r.Config, client, keys.GitHubToken),
		sources.NewWeatherSource(r.Config, client, keys.OpenWeather),
		sources.NewHeadlinesSource(r.Config, client, keys.NewsAPI),
		sources.NewPricesSource(r.Config, client, r.Logger),
		sources.NewProbeSource(r.Config, client, r.Logger),
	)
}

// initServices initializes the gateway and the HTTP server
func (r *CompositionRoot) initServices() {
	r.Gateway = gateway.NewService(r.Registry, r.Cache, r.KeyBuilder, r.Logger)
	r.HTTPServer = httpserver.NewServer(r.Gateway, r.Validator, r.Cache, r.Config.Server, r.Logger)
}

// Cleanup performs cleanup of all resources
func (r *CompositionRoot) Cleanup() error {
	var errors []error

	// Close cache store
	if closer, ok := r.Cache.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			errors = append(errors, fmt.Errorf("failed to close cache: %w", err))
		}
	}

	// Sync logger
	if r.Logger != nil {
		_ = r.Logger.Sync()
	}

	// Return first error if any
	if len(errors) > 0 {
		return errors[0]
	}

	return nil
}
