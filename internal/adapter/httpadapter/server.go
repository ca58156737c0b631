// Package httpadapter exposes the ingest service's operational endpoints:
// liveness, readiness, and the Prometheus scrape target. Readiness is wired
// to the pipeline and stays 503 until the first batch of summaries has been
// published, so a scheduler won't route to an instance that hasn't reached
// the archive yet.
package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wraps the operational HTTP endpoints for one ingest run.
type Server struct {
	inner  *http.Server
	logger *slog.Logger
}

// NewServer builds the operational server on addr. The ready checker is
// normally the pipeline itself.
func NewServer(addr string, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		// Surface gather errors in the scrape body instead of a bare 500;
		// a half-broken scrape is more useful than none during an ingest.
		ErrorHandling: promhttp.ContinueOnError,
	}))

	return &Server{
		inner: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			// The /metrics payload grows with the parse-error label space.
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Start listens until Shutdown; it returns http.ErrServerClosed after a
// graceful stop.
func (s *Server) Start() error {
	s.logger.Info("operational endpoints up", "addr", s.inner.Addr)
	return s.inner.ListenAndServe()
}

// Shutdown drains in-flight requests. The ingest run is finite, so this also
// fires when the pipeline completes on its own, not just on a signal.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("operational endpoints draining")
	return s.inner.Shutdown(ctx)
}

// ServeHTTP routes a request through the server's mux without a listener,
// which is how the tests exercise the endpoints.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.inner.Handler.ServeHTTP(w, r)
}
