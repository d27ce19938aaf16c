package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"widget-gateway/internal/apperr"
	"widget-gateway/internal/config"
	"widget-gateway/internal/interfaces"
	"widget-gateway/internal/models"
)

const (
	ProbeTTL  = models.TTL(120 * time.Second)
	ParamURLs = "urls"
)

// Ensure ProbeSource implements interfaces.Source
var _ interfaces.Source = (*ProbeSource)(nil)

// ProbeSource checks reachability of a list of URLs
type ProbeSource struct {
	client  *UpstreamClient
	timeout time.Duration
	maxURLs int
	logger  *zap.Logger
}

// NewProbeSource creates the URL probe adapter
func NewProbeSource(cfg *config.Config, client *UpstreamClient, logger *zap.Logger) *ProbeSource {
	return &ProbeSource{
		client:  client,
		timeout: cfg.GetProbeTimeout(),
		maxURLs: cfg.Sources.Probe.MaxURLs,
		logger:  logger,
	}
}

func (s *ProbeSource) Kind() models.WidgetKind {
	return models.WidgetKindProbe
}

func (s *ProbeSource) TTL() models.TTL {
	return ProbeTTL
}

func (s *ProbeSource) RequiredParams() []string {
	return []string{ParamURLs}
}

// Normalize de-duplicates and sorts the URLs and requires http(s) schemes
func (s *ProbeSource) Normalize(params models.Params) (models.Params, error) {
	raw, err := requireParam(params, ParamURLs)
	if err != nil {
		return nil, err
	}

	urls := splitList(raw, nil)
	if len(urls) == 0 {
		return nil, apperr.Validation("urls must list at least one url", nil)
	}
	if len(urls) > s.maxURLs {
		return nil, apperr.Validation(fmt.Sprintf("too many urls: at most %d allowed", s.maxURLs), nil)
	}
	for _, u := range urls {
		if err := checkParam(ParamURLs, u, "http_url"); err != nil {
			return nil, apperr.Validation("invalid url: "+u, err)
		}
	}

	return models.Params{{Name: ParamURLs, Value: strings.Join(urls, ",")}}, nil
}

// Fetch probes every URL concurrently. A failing probe yields a down result;
// the batch itself only fails when the caller goes away.
func (s *ProbeSource) Fetch(ctx context.Context, params models.Params) (models.Record, error) {
	raw, _ := params.Get(ParamURLs)
	urls := strings.Split(raw, ",")

	results := fanOut(ctx, urls, s.timeout, s.probeOne, func(u string, err error) models.ProbeResult {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s", s.timeout)
		}
		return down(u, err)
	})

	if err := ctx.Err(); err != nil {
		return nil, apperr.From(err)
	}
	return models.ProbeResultList(results), nil
}

func (s *ProbeSource) probeOne(ctx context.Context, target string) models.ProbeResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return down(target, err)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Debug("Probe failed", zap.String("url", target), zap.Error(err))
		return down(target, err)
	}
	_ = resp.Body.Close()

	code := resp.StatusCode
	latency := time.Since(start).Milliseconds()
	return models.ProbeResult{
		URL:       target,
		Status:    models.ProbeStatusUp,
		Code:      &code,
		LatencyMS: &latency,
	}
}

func down(target string, err error) models.ProbeResult {
	return models.ProbeResult{
		URL:    target,
		Status: models.ProbeStatusDown,
		Error:  err.Error(),
	}
}

func (s *ProbeSource) Decode(data []byte) (models.Record, error) {
	var list models.ProbeResultList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}
