package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Deba1597/backendProject/internal/auth"
	"github.com/Deba1597/backendProject/internal/config"
	"github.com/Deba1597/backendProject/internal/database"
	"github.com/Deba1597/backendProject/internal/event"
	handler "github.com/Deba1597/backendProject/internal/handler/http"
	"github.com/Deba1597/backendProject/internal/health"
	"github.com/Deba1597/backendProject/internal/httpclient"
	"github.com/Deba1597/backendProject/internal/kafka"
	"github.com/Deba1597/backendProject/internal/middleware"
	"github.com/Deba1597/backendProject/internal/repository/postgres"
	"github.com/Deba1597/backendProject/internal/service"
	"github.com/Deba1597/backendProject/internal/storage"
	"github.com/Deba1597/backendProject/internal/storage/mediaservice"
	"github.com/Deba1597/backendProject/internal/storage/memory"
	"github.com/Deba1597/backendProject/internal/tracing"
	"github.com/Deba1597/backendProject/migrations"
)

const serviceName = "backend-api"

// App wires together all dependencies and runs the backend service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redisClient    *redis.Client
	producer       *kafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// New creates a new application instance, initializing all dependencies.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: time.Duration(cfg.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.DBMaxConnIdleTimeMins) * time.Minute,
	}
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	database.RegisterPoolMetrics(pool)

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	if cfg.SlowQueryThresholdMs > 0 {
		database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryThresholdMs)*time.Millisecond, logger)
	}

	// Redis only backs the login rate limiter, which fails open, so an
	// unreachable Redis does not block startup.
	redisClient, err := database.NewRedisClient(ctx, database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Warn("redis unavailable, rate limiting disabled",
			slog.String("error", err.Error()))
		redisClient = nil
	}

	producer := kafka.NewProducer(kafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	tokens := auth.NewTokenManager(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		cfg.AccessExpiry(),
		cfg.RefreshExpiry(),
	)

	store, err := newBlobStore(cfg, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}

	userRepo := postgres.NewUserRepository(pool)
	eventProducer := event.NewProducer(producer, logger)
	userService := service.NewUserService(userRepo, tokens, store, eventProducer, logger)

	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})
	if redisClient != nil {
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	authHandler := handler.NewAuthHandler(userService, handler.CookieConfig{
		Domain:        cfg.CookieDomain,
		Secure:        cfg.CookieSecure,
		AccessExpiry:  cfg.AccessExpiry(),
		RefreshExpiry: cfg.RefreshExpiry(),
	}, logger)
	userHandler := handler.NewUserHandler(userService, logger)

	router := handler.NewRouter(handler.RouterConfig{
		AuthHandler:   authHandler,
		UserHandler:   userHandler,
		HealthHandler: healthHandler,
		TokenManager:  tokens,
		Redis:         redisClient,
		CORS: middleware.CORSConfig{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowCredentials: true,
			Environment:      cfg.Environment,
		},
		AuthRateLimit: middleware.RateLimitConfig{
			Limit:   cfg.AuthRateLimit,
			Window:  cfg.AuthRateWindow,
			Enabled: cfg.RateLimitEnabled,
		},
		ServiceName: serviceName,
		Logger:      logger,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redisClient:    redisClient,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// newBlobStore selects the configured blob storage backend.
func newBlobStore(cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	switch cfg.StorageBackend {
	case "memory":
		return memory.New(cfg.MediaPublicBaseURL), nil
	case "media-service":
		client := httpclient.NewCircuitBreakerClient(
			httpclient.New(httpclient.DefaultConfig()),
			httpclient.DefaultCircuitBreakerConfig("media-service"),
			logger,
		)
		return mediaservice.New(client, cfg.MediaServiceURL, logger), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown stops all components in order: drain HTTP, flush spans, close
// the Kafka producer and Redis client, then close the pool.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
