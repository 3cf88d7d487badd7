// Package service exposes the optional healthz/metrics HTTP endpoint that
// atest serves while a long test invocation is being aggregated.
package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/TinkerBoard2-Android/tools-asuite/metrics"
)

// Service serves /healthz and /metrics on a single listener.
type Service struct {
	addr   string
	server *http.Server
}

// New creates a Service bound to addr (e.g. "127.0.0.1:7300").
func New(addr string) *Service {
	return &Service{addr: addr}
}

// Start begins serving in a background goroutine and returns immediately.
func (s *Service) Start(ctx context.Context) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handleHealthz)
	mux.Handle("/metrics", promhttp.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
	})
	s.server = &http.Server{
		Handler:           c.Handler(mux),
		Addr:              s.addr,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting metrics server", "addr", s.addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("error starting metrics server", "err", err)
			metrics.RecordErrorDetails("error starting metrics server", err)
		}
	}()
}

// Shutdown stops the listener, waiting for in-flight requests.
func (s *Service) Shutdown(ctx context.Context) {
	if s.server == nil {
		return
	}
	if err := s.server.Shutdown(ctx); err != nil {
		log.Error("error shutting down metrics server", "err", err)
	}
	log.Info("metrics server stopped")
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	log.Debug("Received health check request", "path", r.URL.Path)
	w.Write([]byte("OK")) //nolint:errcheck
}
