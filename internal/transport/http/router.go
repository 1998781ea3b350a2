package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"fraudscreen/internal/platform/metrics"
	"fraudscreen/internal/platform/middleware"
	"fraudscreen/internal/screening/handler"
	"fraudscreen/pkg/platform/middleware/metadata"
	"fraudscreen/pkg/platform/middleware/requesttime"
)

// RouterConfig carries everything the router mounts. Optional parts are
// skipped when nil.
type RouterConfig struct {
	Screening      *handler.Handler
	Logger         *slog.Logger
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler
	// Auth enables bearer auth on /api routes.
	Auth           middleware.AuditorValidator
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewRouter wires the public endpoints. /health and /metrics stay outside
// auth so health checks and scrapers need no token.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(chimw.Recoverer)
	if cfg.HTTPMetrics != nil {
		r.Use(cfg.HTTPMetrics.Middleware)
	}
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{handler.ReportIDHeader, handler.ProcessedAtHeader},
			MaxAge:         300,
		}))
	}

	r.Get("/health", handler.HandleHealth)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Group(func(api chi.Router) {
		if cfg.RequestTimeout > 0 {
			api.Use(chimw.Timeout(cfg.RequestTimeout))
		}
		if cfg.Auth != nil {
			api.Use(middleware.RequireAuditor(cfg.Auth, cfg.Logger))
		}
		cfg.Screening.Register(api)
	})
	return r
}
