package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

// Router mounts a group of routes on the shared mux.
type Router interface {
	Register(mux *http.ServeMux)
}

// Dependency is an upstream checked by /v1/ping.
type Dependency struct {
	Name string
	Ping func(ctx context.Context) error
}

// NewHTTPServer wraps NewHandler in an http.Server bound to cfg.HTTPAddr.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, deps []Dependency, routers ...Router) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewHandler(cfg, logger, deps, routers...),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// NewHandler wires base routes (health, metrics, ping), the given routers and
// the middleware chain: otelhttp -> CORS -> access log -> metrics -> mux.
func NewHandler(cfg *config.App, logger zerolog.Logger, deps []Dependency, routers ...Router) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), deps); err != nil {
			logger := logging.FromContext(r.Context())
			logger.Error().Err(err).Msg("dependency ping failed")
			httperrors.RespondUpstreamError(w, httperrors.MsgUpstreamError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	for _, router := range routers {
		router.Register(mux)
	}

	// Anything unmatched gets the JSON envelope instead of the mux's plain text.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondNotFound(w, httperrors.MsgNotFound)
	})

	var h http.Handler = mux
	h = metricsMiddleware(h)
	h = logging.Middleware(logger)(h)
	h = newCORS(cfg.CORS).Handler(h)
	return otelhttp.NewHandler(h, cfg.Name)
}

func newCORS(c config.CORS) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: c.AllowedOrigins,
		AllowedMethods: c.AllowedMethods,
		AllowedHeaders: c.AllowedHeaders,
		ExposedHeaders: []string{logging.RequestIDHeader},
		MaxAge:         c.MaxAge,
	})
}

func pingDependencies(ctx context.Context, deps []Dependency) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	for _, dep := range deps {
		if err := dep.Ping(ctx); err != nil {
			return &pingError{name: dep.Name, err: err}
		}
	}
	return nil
}

type pingError struct {
	name string
	err  error
}

func (e *pingError) Error() string { return e.name + ": " + e.err.Error() }
func (e *pingError) Unwrap() error { return e.err }
