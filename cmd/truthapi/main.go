// Command truthapi serves random truths over HTTP.
//
// Process configuration (listen address, timeouts, Redis URL) comes from the
// environment; behavior (endpoints, weights, limits, headers, error payload)
// comes from the YAML settings file named by TRUTHAPI_SETTINGS. Send SIGHUP
// to reload the truth collection.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/truthapi/core/config"
	"github.com/dmitrymomot/truthapi/core/logger"
	"github.com/dmitrymomot/truthapi/core/server"
	"github.com/dmitrymomot/truthapi/integration/database/redis"
	"github.com/dmitrymomot/truthapi/internal/api"
	"github.com/dmitrymomot/truthapi/internal/settings"
	"github.com/dmitrymomot/truthapi/internal/truth"
	"github.com/dmitrymomot/truthapi/pkg/ratelimiter"
	"github.com/dmitrymomot/truthapi/pkg/selection"
)

type environment struct {
	Env          string `env:"APP_ENV" envDefault:"development"`
	SettingsPath string `env:"TRUTHAPI_SETTINGS" envDefault:"configs/settings.yaml"`
	Server       server.Config
	Redis        redis.Config
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "truthapi:", err)
		os.Exit(1)
	}
}

func run() error {
	var envCfg environment
	config.MustLoad(&envCfg)

	cfg, err := settings.Load(envCfg.SettingsPath)
	if err != nil {
		return err
	}

	log, err := newLogger(envCfg.Env, cfg)
	if err != nil {
		return err
	}
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table, err := cfg.WeightTable()
	if err != nil {
		return err
	}

	var opts []api.Option
	var source truth.Source
	switch cfg.Truths.Source {
	case settings.SourceRedis:
		client, err := redis.Connect(ctx, envCfg.Redis)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer client.Close()
		source = truth.NewRedisSource(client, cfg.Truths.RedisKey)
		opts = append(opts, api.WithReadinessCheck("redis", redis.Healthcheck(client)))
	default:
		source = truth.NewFileSource(cfg.Truths.Path)
	}

	store := truth.NewStore(source, table, truth.Rules{
		MinCount:       cfg.Truths.Validation.MinCount,
		AllowedWeights: cfg.Truths.Validation.AllowedWeights,
		NormalizeText:  cfg.Truths.Validation.NormalizeTruths,
	}, truth.WithLogger(log))
	if err := store.Load(ctx); err != nil {
		return err
	}

	limits, err := cfg.LimiterConfig()
	if err != nil {
		return err
	}
	windows := ratelimiter.NewMemoryStore(
		ratelimiter.WithCleanupInterval(cfg.CleanupInterval()),
		ratelimiter.WithMemoryStoreLogger(log),
	)
	limiter, err := ratelimiter.NewSlidingWindow(windows, limits)
	if err != nil {
		return err
	}

	var engineOpts []selection.Option
	if cfg.Selection.Seed != 0 {
		engineOpts = append(engineOpts, selection.WithSeed(cfg.Selection.Seed))
	}
	engine := selection.New[truth.Truth](engineOpts...)

	svc, err := api.New(cfg, store, engine, limiter, append(opts, api.WithLogger(log))...)
	if err != nil {
		return err
	}

	srv, err := server.New(envCfg.Server, server.WithLogger(log))
	if err != nil {
		return err
	}

	log.Info("starting truthapi",
		logger.Version(cfg.App.Version),
		slog.String("addr", envCfg.Server.Addr),
		slog.String("source", source.String()))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(ctx, svc.Handler()))
	g.Go(windows.Run(ctx))
	g.Go(reloadOnHangup(ctx, svc, log))

	return g.Wait()
}

func newLogger(env string, cfg *settings.Settings) (*slog.Logger, error) {
	level, err := logger.ParseLevel(cfg.Observability.Logging.Level)
	if err != nil {
		return nil, err
	}

	var profile logger.Option
	switch env {
	case "production":
		profile = logger.WithProduction(cfg.App.Name)
	case "staging":
		profile = logger.WithStaging(cfg.App.Name)
	default:
		profile = logger.WithDevelopment(cfg.App.Name)
	}

	return logger.New(
		profile,
		logger.WithFormat(cfg.Observability.Logging.Format),
		logger.WithLevel(level),
		logger.WithAttr(logger.Version(cfg.App.Version)),
	), nil
}

// reloadOnHangup reloads the truth collection on SIGHUP until ctx is done.
// Reloads share the throttle of the admin endpoint.
func reloadOnHangup(ctx context.Context, svc *api.Service, log *slog.Logger) func() error {
	return func() error {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-hup:
				snap, err := svc.Reload(ctx)
				var throttled *api.ReloadThrottledError
				switch {
				case errors.As(err, &throttled):
					log.Warn("reload skipped", logger.Component("signal"), logger.Error(err))
				case err != nil:
					log.Error("reload failed", logger.Component("signal"), logger.Error(err))
				default:
					log.Info("reload complete", logger.Component("signal"), logger.Count("truth_count", snap.Len()))
				}
			}
		}
	}
}
