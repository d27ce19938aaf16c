package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"widget-gateway/internal/apperr"
	"widget-gateway/internal/auth"
	"widget-gateway/internal/metrics"
	"widget-gateway/internal/models"
)

// handleWidget serves GET /data/{kind}
func (s *Server) handleWidget(w http.ResponseWriter, r *http.Request) {
	kind := models.WidgetKind(mux.Vars(r)["kind"])

	params, err := paramsFromQuery(r.URL.RawQuery)
	if err != nil {
		s.finishWidget(w, r, kind, err)
		return
	}

	record, hit, err := s.service.Fetch(r.Context(), kind, params)
	if err != nil {
		s.finishWidget(w, r, kind, err)
		return
	}

	if hit {
		w.Header().Set(cacheHeader, cacheStatusHit)
	} else {
		w.Header().Set(cacheHeader, cacheStatusMiss)
	}
	s.writeResponse(w, record)
	metrics.RecordWidgetRequest(string(kind), http.StatusOK)
}

func (s *Server) finishWidget(w http.ResponseWriter, r *http.Request, kind models.WidgetKind, err error) {
	fields := []zap.Field{zap.String("kind", string(kind)), zap.Error(err)}
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		fields = append(fields, zap.String("subject", id.Subject.String()))
	}

	status := s.writeError(w, err)
	switch {
	case errors.Is(err, context.Canceled) && r.Context().Err() != nil:
		s.logger.Debug("Widget request canceled by client", fields...)
	case status >= http.StatusInternalServerError:
		s.logger.Error("Widget request failed", fields...)
	default:
		s.logger.Debug("Widget request rejected", fields...)
	}

	if kind.IsValid() {
		metrics.RecordWidgetRequest(string(kind), status)
	}
}

// paramsFromQuery decodes a raw query string keeping parameter order
func paramsFromQuery(rawQuery string) (models.Params, error) {
	var params models.Params
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		name, err := url.QueryUnescape(name)
		if err != nil {
			return nil, apperr.Validation("malformed query string", err)
		}
		value, err = url.QueryUnescape(value)
		if err != nil {
			return nil, apperr.Validation("malformed query string", err)
		}
		params = append(params, models.Param{Name: name, Value: value})
	}
	return params, nil
}
