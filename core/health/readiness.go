package health

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/truthapi/core/handler"
	"github.com/dmitrymomot/truthapi/core/logger"
	"github.com/dmitrymomot/truthapi/core/response"
)

// Check is a named dependency probe.
type Check struct {
	Name  string
	Probe func(context.Context) error
}

// DefaultCheckTimeout bounds each probe run by Readiness.
const DefaultCheckTimeout = 2 * time.Second

// Readiness runs every check in order and answers "READY" when all pass. The
// first failure is logged and answered with 503 Service Unavailable.
//
//	r.Get("/health/ready", health.Readiness[*api.Context](log,
//		health.Check{Name: "truths", Probe: store.Healthcheck},
//		health.Check{Name: "redis", Probe: redis.Healthcheck(client)},
//	))
func Readiness[C handler.Context](log *slog.Logger, checks ...Check) handler.HandlerFunc[C] {
	if log == nil {
		log = slog.Default()
	}
	return func(ctx C) handler.Response {
		for _, c := range checks {
			if err := run(ctx, c); err != nil {
				log.ErrorContext(ctx, "readiness check failed",
					logger.Component("health"), slog.String("check", c.Name), logger.Error(err))
				return response.Error(response.ErrServiceUnavailable.WithMessage(c.Name + " is not ready"))
			}
		}
		return response.String("READY")
	}
}

func run(ctx context.Context, c Check) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultCheckTimeout)
	defer cancel()
	return c.Probe(ctx)
}
