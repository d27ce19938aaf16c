package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"widget-gateway/internal/apperr"
	"widget-gateway/internal/config"
	"widget-gateway/internal/gateway"
	"widget-gateway/internal/interfaces"
)

const (
	serviceName   = "widget-gateway"
	healthTimeout = time.Second
)

// Server is the public HTTP surface of the gateway
type Server struct {
	service   *gateway.Service
	validator interfaces.TokenValidator
	cache     interfaces.Cache
	config    config.ServerConfig
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates a new gateway HTTP server
func NewServer(service *gateway.Service, validator interfaces.TokenValidator, cache interfaces.Cache, cfg config.ServerConfig, logger *zap.Logger) *Server {
	return &Server{
		service:   service,
		validator: validator,
		cache:     cache,
		config:    cfg,
		logger:    logger,
	}
}

// Start listens on the configured address and blocks until the server stops
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.config.Address,
		Handler:      s.createRouter(),
		ReadTimeout:  s.config.GetReadTimeout(),
		WriteTimeout: s.config.GetWriteTimeout(),
		IdleTimeout:  s.config.GetIdleTimeout(),
	}

	s.logger.Info("Starting widget gateway HTTP server", zap.String("address", s.config.Address))
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping widget gateway HTTP server")
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// createRouter creates and configures the HTTP router
func (s *Server) createRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.accessLogMiddleware)

	// Widget data, bearer token required
	data := router.PathPrefix("/data").Subrouter()
	data.Use(s.authMiddleware)
	data.HandleFunc("/{kind}", s.handleWidget).Methods("GET")

	// Health check
	router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return router
}

// handleHealth reports liveness and whether the cache store answers
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	cacheStatus := "up"
	if err := s.cache.Ping(ctx); err != nil {
		s.logger.Warn("Cache health check failed", zap.Error(err))
		cacheStatus = "down"
	}

	s.writeResponse(w, &HealthResponse{
		Status:  "ok",
		Service: serviceName,
		Cache:   cacheStatus,
		Time:    time.Now().UTC(),
	})
}

// writeResponse writes JSON response
func (s *Server) writeResponse(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeError maps err to its status and writes the error body
func (s *Server) writeError(w http.ResponseWriter, err error) int {
	status := apperr.StatusCode(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(&ErrorResponse{Error: apperr.PublicMessage(err)}); err != nil {
		s.logger.Error("Failed to write error response", zap.Error(err))
	}
	return status
}
