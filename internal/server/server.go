// Package server is the JSON façade in front of the article backend.
package server

import (
	"context"
	"net/http"
	"time"

	"articlehub/internal/backend"
	"articlehub/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type Server struct {
	svc      backend.Service
	mode     backend.Mode
	logger   *zap.Logger
	metrics  metrics.Recorder
	gatherer prometheus.Gatherer
	router   *mux.Router
	server   *http.Server
}

// NewServer wires the routes. rec may be nil; /metrics is only mounted when
// gatherer is non-nil.
func NewServer(svc backend.Service, mode backend.Mode, logger *zap.Logger, rec metrics.Recorder, gatherer prometheus.Gatherer) *Server {
	if rec == nil {
		rec = metrics.Nop{}
	}
	s := &Server{
		svc:      svc,
		mode:     mode,
		logger:   logger,
		metrics:  rec,
		gatherer: gatherer,
		router:   mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.requestID, s.accessLog, s.recoverer)
	// mux skips Use middleware when nothing matches.
	s.router.NotFoundHandler = s.withMiddleware(http.HandlerFunc(handleNotFound))
	s.router.MethodNotAllowedHandler = s.withMiddleware(http.HandlerFunc(handleMethodNotAllowed))

	s.router.HandleFunc("/api/articles", s.handleList).Methods(http.MethodGet)
	s.router.HandleFunc("/api/articles", s.handleCreate).Methods(http.MethodPost)
	s.router.HandleFunc("/api/articles", s.handleUpdate).Methods(http.MethodPut)
	s.router.HandleFunc("/api/articles", s.handleDelete).Methods(http.MethodDelete)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	if s.gatherer != nil {
		s.router.Handle("/metrics", metrics.Handler(s.gatherer)).Methods(http.MethodGet)
	}
}

func (s *Server) withMiddleware(h http.Handler) http.Handler {
	return s.requestID(s.accessLog(s.recoverer(h)))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start launches the HTTP server and blocks until it stops.
func (s *Server) Start(port string) error {
	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
	}

	s.logger.Info("Web server listening", zap.String("addr", port), zap.String("mode", string(s.mode)))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
