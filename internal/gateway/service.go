package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"widget-gateway/internal/apperr"
	"widget-gateway/internal/interfaces"
	"widget-gateway/internal/metrics"
	"widget-gateway/internal/models"
	"widget-gateway/internal/sources"
)

// Service is the cache-aside orchestrator in front of the source adapters.
// It keeps no per-request state; concurrent misses for the same key each
// fetch and each write, and the last write wins.
type Service struct {
	registry   *sources.Registry
	cache      interfaces.Cache
	keyBuilder interfaces.KeyBuilder
	logger     *zap.Logger
}

// NewService creates a new orchestrator
func NewService(registry *sources.Registry, cache interfaces.Cache, keyBuilder interfaces.KeyBuilder, logger *zap.Logger) *Service {
	return &Service{
		registry:   registry,
		cache:      cache,
		keyBuilder: keyBuilder,
		logger:     logger,
	}
}

// Fetch returns the record for kind and params, reading through the cache.
// The boolean reports whether the record was served from cache. Returned
// errors are always *apperr.Error; cache failures are never among them.
func (s *Service) Fetch(ctx context.Context, kind models.WidgetKind, params models.Params) (models.Record, bool, error) {
	source, ok := s.registry.Get(kind)
	if !ok {
		return nil, false, apperr.NotFound("unknown widget kind: "+string(kind), nil)
	}

	for _, name := range source.RequiredParams() {
		if value, ok := params.Get(name); !ok || strings.TrimSpace(value) == "" {
			return nil, false, apperr.Validation("missing required parameter: "+name, nil)
		}
	}

	normalized, err := source.Normalize(params)
	if err != nil {
		return nil, false, apperr.From(err)
	}

	key, err := s.keyBuilder.Build(kind, normalized)
	if err != nil {
		return nil, false, apperr.Internal("failed to build cache key", err)
	}

	if record, ok := s.lookup(ctx, source, key); ok {
		metrics.RecordCacheHit(string(kind))
		return record, true, nil
	}
	metrics.RecordCacheMiss(string(kind))

	record, err := s.fetchUpstream(ctx, source, normalized)
	if err != nil {
		return nil, false, err
	}

	s.store(ctx, source, key, record)
	return record, false, nil
}

// lookup reads key from the cache. Unavailable cache and undecodable
// payloads both count as a miss.
func (s *Service) lookup(ctx context.Context, source interfaces.Source, key string) (models.Record, bool) {
	data, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Cache read failed, treating as miss", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !found {
		return nil, false
	}

	record, err := source.Decode(data)
	if err != nil {
		s.logger.Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("gateway", "decode")
		return nil, false
	}
	return record, true
}

func (s *Service) fetchUpstream(ctx context.Context, source interfaces.Source, params models.Params) (models.Record, error) {
	kind := string(source.Kind())
	defer metrics.TimeUpstreamFetch(kind)()

	record, err := source.Fetch(ctx, params)
	if err != nil && errors.Is(err, context.Canceled) && ctx.Err() != nil {
		s.logger.Debug("Source fetch aborted by caller", zap.String("kind", kind))
		return nil, apperr.From(err)
	}
	if err != nil {
		metrics.RecordUpstreamFailure(kind)
		mapped := apperr.From(err)
		if mapped.Kind == apperr.KindInternal {
			s.logger.Error("Source fetch failed", zap.String("kind", kind), zap.Error(err))
		} else {
			s.logger.Warn("Source fetch failed", zap.String("kind", kind), zap.Error(err))
		}
		return nil, mapped
	}
	return record, nil
}

// store writes record under key with the source's TTL. Failures are logged
// and swallowed.
func (s *Service) store(ctx context.Context, source interfaces.Source, key string, record models.Record) {
	payload, err := json.Marshal(record)
	if err != nil {
		s.logger.Error("Failed to encode record for cache", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("gateway", "encode")
		return
	}

	if err := s.cache.Set(context.WithoutCancel(ctx), key, payload, source.TTL()); err != nil {
		s.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}
