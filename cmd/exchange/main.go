package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/arvault/exchange-service/internal/adapters/cache"
	"github.com/arvault/exchange-service/internal/adapters/database/pgsql"
	"github.com/arvault/exchange-service/internal/adapters/transfer"
	"github.com/arvault/exchange-service/internal/bootstrap"
	"github.com/arvault/exchange-service/internal/core/ports"
	portssvc "github.com/arvault/exchange-service/internal/core/ports/services"
	"github.com/arvault/exchange-service/internal/core/services"
	"github.com/arvault/exchange-service/internal/handlers"
	"github.com/arvault/exchange-service/internal/middleware"
	"github.com/arvault/exchange-service/internal/platform/metrics"
	"github.com/arvault/exchange-service/pkg/config"
	"github.com/arvault/exchange-service/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/gin-contrib/cors"
	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Exchange Service API
// @version 1.0
// @description Internal currency exchange ledger: accounts, rates and the exchange transaction log.

// @host localhost:8080
// @BasePath /
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool, logger)

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	accountRepo := pgsql.NewAccountRepository(dbPool)
	rateRepo := pgsql.NewRateRepository(dbPool)
	logRepo := pgsql.NewExchangeLogRepository(dbPool)

	seeder := bootstrap.NewSeeder(accountRepo, rateRepo, logRepo, cfg.SeedDir, logger)
	if err := seeder.Run(ctx); err != nil {
		logger.Error("Failed to seed store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cacheLayer := cache.NewLayer(newCacheBackend(cfg, logger), cfg.CacheTTL, logger, m)

	accountService := services.NewAccountService(accountRepo, cacheLayer)
	rateService := services.NewRateService(rateRepo, cacheLayer)
	exchangeService, err := services.NewExchangeService(
		rateService,
		accountService,
		accountRepo,
		logRepo,
		transfer.NewSimulatedExecutor(),
		cfg.TransferTimeout,
		m,
	)
	if err != nil {
		logger.Error("Failed to create exchange service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	container := &portssvc.ServiceContainer{
		Account:  accountService,
		Rate:     rateService,
		Exchange: exchangeService,
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())
	r.Use(middleware.MetricsMiddleware(m))

	if limiterMiddleware, lerr := newRateLimiter(cfg.RateLimit); lerr != nil {
		logger.Error("Failed to configure rate limiter", slog.String("error", lerr.Error()))
		os.Exit(1)
	} else {
		r.Use(limiterMiddleware)
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, container, registry)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending migrations over a temporary database/sql
// connection using the pgx stdlib driver.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	migrator, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = migrator.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	if sourceErr, dbErr := migrator.Close(); sourceErr != nil {
		return sourceErr
	} else if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply")
	} else {
		logger.Info("Database migrations applied")
	}
	return nil
}

// newCacheBackend picks the cache implementation. Redis when configured and
// reachable, otherwise the in-process cache so the service can still run.
func newCacheBackend(cfg *config.Config, logger *slog.Logger) ports.Cache {
	if cfg.RedisAddr == "" {
		logger.Info("No REDIS_ADDR configured, using in-process cache")
		return cache.NewMemoryCache()
	}

	redisCache := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, "exchange")
	if err := redisCache.Ping(context.Background()); err != nil {
		logger.Warn("Redis unreachable, falling back to in-process cache",
			slog.String("addr", cfg.RedisAddr),
			slog.String("error", err.Error()))
		return cache.NewMemoryCache()
	}

	logger.Info("Connected to Redis cache", slog.String("addr", cfg.RedisAddr))
	return redisCache
}

// newRateLimiter builds the per-IP rate limiting middleware from a formatted
// rate such as "100-M".
func newRateLimiter(formatted string) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	store := memorystore.NewStore()
	return middleware.RateLimit(limiter.New(store, rate)), nil
}
