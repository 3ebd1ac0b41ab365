// Package app wires configuration, stores, services and the router together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"clientconnect-backend/config"
	"clientconnect-backend/controllers"
	"clientconnect-backend/metrics"
	"clientconnect-backend/routes"
	"clientconnect-backend/services"
	"clientconnect-backend/store"
	"clientconnect-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Registry  *prometheus.Registry
	Customers *services.CustomerService
	Dashboard *services.DashboardService
	Auth      *services.AuthService
	Digest    *services.DigestService
	Router    *gin.Engine

	closers []func() error
}

// New connects the configured backends and builds the HTTP router.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.Metrics = metrics.New(a.Registry)

	customerStore, userStore, err := a.openStores(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	revocations, redisClient, err := a.openRevocations(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	tokens, err := utils.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Customers = services.NewCustomerService(customerStore, a.Metrics, logger)
	a.Dashboard = services.NewDashboardService(customerStore)
	a.Auth = services.NewAuthService(userStore, revocations, tokens, a.Metrics, logger)
	a.Digest = services.NewDigestService(a.Dashboard, a.digestSender(), a.Metrics, logger)

	var redisPinger controllers.Pinger
	if redisClient != nil {
		redisPinger = controllers.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	a.Router = routes.SetupRouter(routes.Dependencies{
		Customers:      controllers.NewCustomerController(a.Customers, logger),
		Dashboard:      controllers.NewDashboardController(a.Dashboard, logger),
		Auth:           controllers.NewAuthController(a.Auth, logger),
		Health:         controllers.NewHealthController(customerStore, redisPinger, logger),
		AuthMiddleware: utils.AuthMiddleware(tokens, revocations, a.Metrics.AuthFailures),
		RequireAuth:    cfg.Auth.RequireAuth,
		CORSOrigins:    cfg.CORSOrigins,
		Logger:         logger,
		Metrics:        a.Metrics,
		MetricsHandler: promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{Registry: a.Registry}),
	})

	return a, nil
}

func (a *App) openStores(ctx context.Context) (store.CustomerStore, store.UserStore, error) {
	cfg := a.Config.Store
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := config.ConnectDB(cfg.DBURL)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, func() error { return config.CloseDB(db) })
		a.Logger.Info("connected to postgres")
		return store.NewGormCustomerStore(db), store.NewGormUserStore(db), nil

	case config.DriverMongo:
		client, err := config.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, func() error { return client.Disconnect(context.Background()) })

		db := client.Database(cfg.MongoDB)
		customers := store.NewMongoCustomerStore(db)
		users := store.NewMongoUserStore(db)
		if err := customers.EnsureIndexes(ctx); err != nil {
			return nil, nil, fmt.Errorf("customer indexes: %w", err)
		}
		if err := users.EnsureIndexes(ctx); err != nil {
			return nil, nil, fmt.Errorf("user indexes: %w", err)
		}
		a.Logger.Info("connected to mongo", "database", cfg.MongoDB)
		return customers, users, nil

	case config.DriverMemory:
		a.Logger.Warn("using in-memory store, data is lost on restart")
		return store.NewMemoryCustomerStore(), store.NewMemoryUserStore(), nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func (a *App) openRevocations(ctx context.Context) (store.RevocationStore, *redis.Client, error) {
	if a.Config.RedisURL == "" {
		return store.NewMemoryRevocationStore(), nil, nil
	}

	client, err := config.ConnectRedis(ctx, a.Config.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	a.closers = append(a.closers, client.Close)
	a.Logger.Info("connected to redis")
	return store.NewRedisRevocationStore(client), client, nil
}

func (a *App) digestSender() services.Sender {
	d := a.Config.Digest
	if d.SMSEnabled() {
		return services.NewTwilioSender(d.TwilioAccountSID, d.TwilioAuthToken, d.TwilioFromNumber, d.SMSTo)
	}
	return services.NewLogSender(a.Logger)
}

// Close stops the digest scheduler and releases every backend connection.
func (a *App) Close() error {
	if a.Digest != nil {
		a.Digest.Stop()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
