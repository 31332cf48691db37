package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"fintrack/config"
	"fintrack/internal/delivery"
	"fintrack/internal/delivery/http"
	"fintrack/internal/delivery/http/middleware"
	"fintrack/internal/delivery/http/router/handler"
	"fintrack/internal/domain/service"
	"fintrack/internal/infra/auth"
	logs "fintrack/internal/infra/log"
	"fintrack/internal/infra/metrics"
	"fintrack/internal/infra/observability"
	"fintrack/internal/infra/persistence/postgres"
	"fintrack/internal/infra/rate"
	"fintrack/internal/infra/session"
	"fintrack/internal/usecase/impl"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			setupSentry,
			runSweeper,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
		newMetricsRegistry,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewTransactionRepository,
			postgres.NewBudgetRepository,
			postgres.NewCategoryRepository,
			postgres.NewAnalyticsRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			session.NewMemoryRefreshStore,
			session.NewMemoryLoginGuard,
			session.NewSweeper,
			newLoginRateLimiter,
		),
	)
}

// newMetricsRegistry builds the registry every scrapeable instrument hangs
// off of.
func newMetricsRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	return registry
}

// newLoginRateLimiter composes the two login windows. With redis configured
// the counters survive restarts and are shared between instances; otherwise
// an in-memory fixed window serves a single process.
func newLoginRateLimiter(cfg *config.Config, logger *slog.Logger) service.RateLimiter {
	perMinute := cfg.RateLimit.LoginPerMinute
	perHour := cfg.RateLimit.LoginPerHour

	if cfg.Redis != nil && cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		logger.Info("Using redis login rate limiter", slog.String("addr", cfg.Redis.Addr))

		return rate.NewMulti(
			rate.NewRedisLimiter(client, perMinute, time.Minute, "fintrack:rl:minute:"),
			rate.NewRedisLimiter(client, perHour, time.Hour, "fintrack:rl:hour:"),
		)
	}

	return rate.NewMulti(
		rate.NewMemory(perMinute, time.Minute),
		rate.NewMemory(perHour, time.Hour),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewTransactionService,
			impl.NewBudgetService,
			impl.NewAnalyticsService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewRateLimitMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewTransactionHandler,
			handler.NewBudgetHandler,
			handler.NewAnalyticsHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// setupSentry initializes error reporting when a DSN is configured and
// flushes buffered events on shutdown.
func setupSentry(lc fx.Lifecycle, cfg *config.Config) error {
	if err := observability.InitSentry(cfg); err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			observability.FlushSentry()

			return nil
		},
	})

	return nil
}

// runSweeper ties the session sweeper's goroutine to the fx lifecycle.
func runSweeper(lc fx.Lifecycle, sweeper *session.Sweeper) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			sweeper.Start()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			sweeper.Stop()

			return nil
		},
	})
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
