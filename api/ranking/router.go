// Package ranking exposes planning cycles over HTTP.
package ranking

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kilianp07/induction/core/logger"
	"github.com/kilianp07/induction/core/model"
	"github.com/kilianp07/induction/core/snapshot"
	"github.com/kilianp07/induction/core/source"
)

// Planner runs planning cycles and serves their results.
type Planner interface {
	RunCycle(ctx context.Context, t *source.Tables, planningTime time.Time, requireMandatory bool) (snapshot.Snapshot, error)
	RunLocal(ctx context.Context, planningTime time.Time) (snapshot.Snapshot, error)
	Top(ctx context.Context, n int) ([]model.RankedRow, error)
}

// Options configures the router.
type Options struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	MaxUploadBytes int64
	// DefaultLimit is the row count served when no limit is given.
	DefaultLimit int
	Logger       logger.Logger
}

func (o *Options) setDefaults() {
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 60 * time.Second
	}
	if o.MaxUploadBytes <= 0 {
		o.MaxUploadBytes = 32 << 20
	}
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = snapshot.DefaultTopN
	}
	if o.Logger == nil {
		o.Logger = logger.NopLogger{}
	}
}

// NewRouter returns the HTTP API backed by p.
func NewRouter(p Planner, opts Options) http.Handler {
	opts.setDefaults()
	h := &handler{planner: p, maxUpload: opts.MaxUploadBytes, limit: opts.DefaultLimit, log: opts.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	r.Get("/healthz", h.health)
	r.Route("/api", func(r chi.Router) {
		r.Post("/run-optimization", h.runUpload)
		r.Get("/run-optimization", h.ranked)
		r.Post("/run-optimization/local", h.runLocal)
		r.Get("/ranked", h.ranked)
	})
	return r
}
