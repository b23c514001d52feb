package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/dmitrymomot/truthapi/core/handler"
	"github.com/dmitrymomot/truthapi/core/health"
	"github.com/dmitrymomot/truthapi/core/logger"
	"github.com/dmitrymomot/truthapi/core/router"
	"github.com/dmitrymomot/truthapi/internal/settings"
	"github.com/dmitrymomot/truthapi/internal/truth"
	"github.com/dmitrymomot/truthapi/middleware"
	"github.com/dmitrymomot/truthapi/pkg/ratelimiter"
	"github.com/dmitrymomot/truthapi/pkg/selection"
)

// Service wires the truth store, the selection engine and the rate limiter
// into the HTTP API.
type Service struct {
	cfg      *settings.Settings
	store    *truth.Store
	engine   *selection.Engine[truth.Truth]
	limiter  *ratelimiter.SlidingWindow
	strategy ratelimiter.KeyStrategy
	reloads  *rate.Limiter
	checks   []health.Check
	logger   *slog.Logger
	served   atomic.Int64
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger for request logs and service events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithReadinessCheck adds a dependency probe to the readiness endpoint.
func WithReadinessCheck(name string, probe func(context.Context) error) Option {
	return func(s *Service) {
		s.checks = append(s.checks, health.Check{Name: name, Probe: probe})
	}
}

// New creates the service. The store should already be loaded; until it is,
// truth endpoints answer with the no_candidates error.
func New(cfg *settings.Settings, store *truth.Store, engine *selection.Engine[truth.Truth], limiter *ratelimiter.SlidingWindow, opts ...Option) (*Service, error) {
	if cfg == nil || store == nil || engine == nil || limiter == nil {
		return nil, fmt.Errorf("api: settings, store, engine and limiter are required")
	}
	strategy, err := cfg.KeyStrategy()
	if err != nil {
		return nil, err
	}

	every := rate.Inf
	if interval := cfg.ReloadInterval(); interval > 0 {
		every = rate.Every(interval)
	}

	s := &Service{
		cfg:      cfg,
		store:    store,
		engine:   engine,
		limiter:  limiter,
		strategy: strategy,
		reloads:  rate.NewLimiter(every, 1),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.checks = append([]health.Check{{Name: "truths", Probe: store.Healthcheck}}, s.checks...)
	return s, nil
}

// Served is the number of truths returned since start.
func (s *Service) Served() int64 {
	return s.served.Load()
}

// Reload refreshes the truth collection from its source. Calls closer
// together than api.admin_reload_interval_seconds fail with
// *ReloadThrottledError; a failed reload keeps the current collection.
func (s *Service) Reload(ctx context.Context) (*truth.Snapshot, error) {
	now := s.now()
	res := s.reloads.ReserveN(now, 1)
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return nil, &ReloadThrottledError{RetryAfterSeconds: max(1, int(math.Ceil(delay.Seconds())))}
	}

	snap, err := s.store.Reload(ctx)
	if err != nil {
		// Cancelling at the reservation time hands the token back.
		res.CancelAt(now)
		return nil, fmt.Errorf("reload truths: %w", err)
	}
	s.logger.InfoContext(ctx, "truths reloaded",
		logger.Component("api"), logger.Event("reload"), logger.Count("truth_count", snap.Len()))
	return snap, nil
}

// Handler builds the HTTP handler with the full request pipeline.
func (s *Service) Handler() http.Handler {
	cfg := s.cfg

	mws := []handler.Middleware[*Context]{
		middleware.RequestID[*Context](),
		middleware.LoggingWithConfig[*Context](middleware.LoggingConfig{
			Logger:    s.logger,
			Component: "api",
		}),
		middleware.ResponseHeaders[*Context](middleware.HeadersConfig{
			CacheControl: cfg.Headers.CacheControl,
			Vary:         cfg.Headers.Vary,
			Security:     cfg.Headers.Security,
		}),
		middleware.Boundary[*Context](s.renderError),
	}
	if cfg.CORS.Enabled {
		mws = append(mws, middleware.CORSWithConfig[*Context](middleware.CORSConfig{
			AllowOrigins:     cfg.CORS.AllowOrigins,
			AllowMethods:     cfg.CORS.AllowMethods,
			AllowHeaders:     cfg.CORS.AllowHeaders,
			ExposeHeaders:    cfg.CORS.ExposeHeaders,
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAgeSeconds,
		}))
	}
	mws = append(mws,
		middleware.ClientIPWithConfig[*Context](middleware.ClientIPConfig{
			TrustProxyHeaders: cfg.RateLimit.TrustProxyHeaders,
		}),
		middleware.RateLimit[*Context](middleware.RateLimitConfig{
			Limiter:     s.limiter,
			Strategy:    s.strategy,
			ExemptPaths: cfg.RateLimit.ExemptRoutes,
			SetHeaders:  true,
		}),
	)

	r := router.New[*Context](
		router.WithContextFactory(newContext),
		router.WithErrorHandler(s.handleError),
		router.WithLogger[*Context](s.logger),
		router.WithMiddleware(mws...),
	)

	ep := cfg.API.Endpoints
	r.Get(ep.Root, s.index)
	r.Get(ep.Truth, s.randomTruth)
	r.Get(ep.Truth+"/{id}", s.truthByID)
	r.Get(ep.Truth+"/{id}/qr", s.truthQR)
	r.Method(ep.Health, s.health, http.MethodGet, http.MethodHead)
	r.Get(ep.Health+"/live", health.Liveness[*Context])
	r.Get(ep.Health+"/ready", health.Readiness[*Context](s.logger, s.checks...))
	r.Get("/categories", s.categories)
	r.Get("/stats", s.stats)
	r.Post("/admin/reload", s.reload)

	return r
}
