package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"widget-gateway/internal/apperr"
	"widget-gateway/internal/config"
)

// StatusError is returned when an upstream answers with a non-2xx status
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Code)
}

// UpstreamClient performs requests against third-party APIs.
// The underlying http.Client is shared by every source and safe for concurrent use.
type UpstreamClient struct {
	httpClient      *http.Client
	userAgent       string
	timeout         time.Duration
	maxResponseSize int64
	logger          *zap.Logger
}

// NewUpstreamClient creates an upstream client from the sources config
func NewUpstreamClient(cfg *config.Config, logger *zap.Logger) *UpstreamClient {
	return &UpstreamClient{
		// Deadlines come from the request context, not Client.Timeout
		httpClient:      &http.Client{},
		userAgent:       cfg.Sources.UserAgent,
		timeout:         cfg.GetUpstreamTimeout(),
		maxResponseSize: cfg.Sources.MaxResponseSize,
		logger:          logger,
	}
}

// Do sends req with the gateway User-Agent. The caller closes the body.
func (u *UpstreamClient) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", u.userAgent)
	return u.httpClient.Do(req)
}

// GetJSON fetches rawURL and decodes a JSON body into out.
// Every failure is returned as an apperr upstream error naming source.
func (u *UpstreamClient) GetJSON(ctx context.Context, source, rawURL string, headers map[string]string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return apperr.Internal("failed to create upstream request", err)
	}
	req.Header.Set("Accept", "application/json")
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	resp, err := u.Do(req)
	if err != nil {
		u.logger.Warn("Upstream request failed", zap.String("source", source), zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) {
			return apperr.Upstream(source+" request timed out", err)
		}
		return apperr.Upstream(source+" request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		u.logger.Warn("Upstream returned error status",
			zap.String("source", source),
			zap.Int("status", resp.StatusCode))
		return apperr.Upstream(fmt.Sprintf("%s returned status %d", source, resp.StatusCode), &StatusError{Code: resp.StatusCode})
	}

	// Limit response size to prevent memory exhaustion
	body, err := io.ReadAll(io.LimitReader(resp.Body, u.maxResponseSize))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return apperr.Upstream(source+" request timed out", err)
		}
		return apperr.Upstream("failed to read "+source+" response", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return apperr.Upstream("failed to parse "+source+" response", err)
	}
	return nil
}
