// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/mvolkova/warehouse-be/internal/adapters/db"
	redis_a "github.com/mvolkova/warehouse-be/internal/adapters/redis_adapter"
	"github.com/mvolkova/warehouse-be/internal/core/services"
	"github.com/mvolkova/warehouse-be/internal/handlers"
	"github.com/mvolkova/warehouse-be/internal/handlers/middleware"
	"github.com/mvolkova/warehouse-be/internal/pkg/config"
	"github.com/mvolkova/warehouse-be/internal/pkg/logger"
	"github.com/mvolkova/warehouse-be/internal/workers"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting warehouse management system",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx := context.Background()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	if cfg.App.Environment != "production" {
		if err := runMigrations(ctx, cfg, slogger); err != nil {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
			// Don't exit in development, just warn
		}
	}

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
			slog.Bool("tls", cfg.Server.TLSEnabled),
		)

		if cfg.Server.TLSEnabled {
			serverErrors <- server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		if deps.asynqClient != nil {
			if err := deps.asynqClient.Close(); err != nil {
				slogger.Error("failed to close Asynq client", slog.String("error", err.Error()))
			}
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	database       *db.Database
	redisClient    *redis.Client
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector

	partnerHandler  *handlers.PartnerHandler
	producerHandler *handlers.ProducerHandler
	workerHandler   *handlers.WorkerHandler
	groupHandler    *handlers.ProductGroupHandler
	productHandler  *handlers.ProductHandler
	invoiceHandler  *handlers.InvoiceHandler
	exportHandler   *handlers.ExportHandler
	healthHandler   *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.database != nil {
		d.database.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, slogger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	slogger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}, slogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.database = database

	slogger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:            fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
		ConnMaxLifetime: cfg.Redis.MaxConnAge,
		PoolTimeout:     cfg.Redis.PoolTimeout,
		ConnMaxIdleTime: cfg.Redis.IdleTimeout,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient

	cache := redis_a.NewCache(redisClient, cfg.Redis.TTL, slogger)

	slogger.Info("initializing Asynq client")

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}

	asynqClient := asynq.NewClient(asynqRedisOpt)
	deps.asynqClient = asynqClient
	deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

	enqueuer := workers.NewEnqueuer(asynqClient, slogger)

	// Repositories
	partnerRepo := db.NewPartnerRepository(database, slogger)
	producerRepo := db.NewProducerRepository(database, slogger)
	workerRepo := db.NewWorkerRepository(database, slogger)
	groupRepo := db.NewProductGroupRepository(database, slogger)
	productRepo := db.NewProductRepository(database, slogger)
	invoiceRepo := db.NewInvoiceRepository(database, slogger)

	// Services
	partnerService := services.NewPartnerService(partnerRepo, slogger)
	producerService := services.NewProducerService(producerRepo, slogger)
	workerService := services.NewWorkerService(workerRepo, slogger)
	groupService := services.NewProductGroupService(groupRepo, slogger)
	productService := services.NewProductService(productRepo, groupRepo, producerRepo, cache, slogger)
	invoiceService := services.NewInvoiceService(
		database,
		invoiceRepo,
		productRepo,
		partnerRepo,
		workerRepo,
		cache,
		enqueuer,
		cfg.Inventory.LowStockThreshold,
		slogger,
	)

	// Handlers
	deps.partnerHandler = handlers.NewPartnerHandler(partnerService, slogger)
	deps.producerHandler = handlers.NewProducerHandler(producerService, slogger)
	deps.workerHandler = handlers.NewWorkerHandler(workerService, slogger)
	deps.groupHandler = handlers.NewProductGroupHandler(groupService, slogger)
	deps.productHandler = handlers.NewProductHandler(productService, slogger)
	deps.invoiceHandler = handlers.NewInvoiceHandler(invoiceService, slogger)
	deps.exportHandler = handlers.NewExportHandler(productService, enqueuer, slogger)
	deps.healthHandler = handlers.NewHealthHandler(
		database,
		redisClient,
		deps.asynqInspector,
		cfg,
		slogger,
	)

	slogger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, slogger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	var handler http.Handler = mux

	// Apply middleware in reverse order (innermost first)
	if cfg.App.Environment != "test" {
		handler = middleware.RequestID(handler)
		handler = middleware.Logger(slogger)(handler)
		handler = middleware.Recovery(slogger)(handler)
	}

	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}

	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}

	if cfg.Security.SecureHeaders {
		handler = middleware.SecureHeaders(handler)
	}

	registerRoutes(mux, deps, cfg)

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slogger.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies, cfg *config.Config) {
	apiV1 := "/api/v1"

	mux.HandleFunc("GET /health", deps.healthHandler.Health)
	mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)

	// Partners
	mux.HandleFunc("POST "+apiV1+"/partners", deps.partnerHandler.Create)
	mux.HandleFunc("GET "+apiV1+"/partners", deps.partnerHandler.List)
	mux.HandleFunc("GET "+apiV1+"/partners/{id}", deps.partnerHandler.Get)
	mux.HandleFunc("PUT "+apiV1+"/partners/{id}", deps.partnerHandler.Update)
	mux.HandleFunc("DELETE "+apiV1+"/partners/{id}", deps.partnerHandler.Delete)

	// Producers
	mux.HandleFunc("POST "+apiV1+"/producers", deps.producerHandler.Create)
	mux.HandleFunc("GET "+apiV1+"/producers", deps.producerHandler.List)
	mux.HandleFunc("GET "+apiV1+"/producers/{id}", deps.producerHandler.Get)
	mux.HandleFunc("PUT "+apiV1+"/producers/{id}", deps.producerHandler.Update)
	mux.HandleFunc("DELETE "+apiV1+"/producers/{id}", deps.producerHandler.Delete)

	// Workers
	mux.HandleFunc("POST "+apiV1+"/workers", deps.workerHandler.Create)
	mux.HandleFunc("GET "+apiV1+"/workers", deps.workerHandler.List)
	mux.HandleFunc("GET "+apiV1+"/workers/{id}", deps.workerHandler.Get)
	mux.HandleFunc("PUT "+apiV1+"/workers/{id}", deps.workerHandler.Update)
	mux.HandleFunc("DELETE "+apiV1+"/workers/{id}", deps.workerHandler.Delete)

	// Product groups
	mux.HandleFunc("POST "+apiV1+"/groups", deps.groupHandler.Create)
	mux.HandleFunc("GET "+apiV1+"/groups", deps.groupHandler.List)
	mux.HandleFunc("GET "+apiV1+"/groups/{id}", deps.groupHandler.Get)
	mux.HandleFunc("PUT "+apiV1+"/groups/{id}", deps.groupHandler.Update)
	mux.HandleFunc("DELETE "+apiV1+"/groups/{id}", deps.groupHandler.Delete)

	// Products
	mux.HandleFunc("POST "+apiV1+"/products", deps.productHandler.Create)
	mux.HandleFunc("GET "+apiV1+"/products", deps.productHandler.List)
	mux.HandleFunc("GET "+apiV1+"/products/{id}", deps.productHandler.Get)
	mux.HandleFunc("PUT "+apiV1+"/products/{id}", deps.productHandler.Update)
	mux.HandleFunc("DELETE "+apiV1+"/products/{id}", deps.productHandler.Delete)

	// Invoices: posting an invoice moves stock, deleting one does not
	mux.HandleFunc("POST "+apiV1+"/invoices", deps.invoiceHandler.Create)
	mux.HandleFunc("GET "+apiV1+"/invoices", deps.invoiceHandler.List)
	mux.HandleFunc("GET "+apiV1+"/invoices/{id}", deps.invoiceHandler.Get)
	mux.HandleFunc("DELETE "+apiV1+"/invoices/{id}", deps.invoiceHandler.Delete)

	// Exports
	mux.HandleFunc("GET "+apiV1+"/export/products.xlsx", deps.exportHandler.ExportProducts)
	mux.HandleFunc("POST "+apiV1+"/export/report", deps.exportHandler.ScheduleReport)

	// pprof endpoints (development only)
	if cfg.Server.EnablePprof && cfg.IsDevelopment() {
		mux.HandleFunc("GET /debug/pprof/", http.HandlerFunc(http.DefaultServeMux.ServeHTTP))
	}
}

func runMigrations(ctx context.Context, cfg *config.Config, slogger *slog.Logger) error {
	slogger.Info("running database migrations")

	migrationConfig := &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		SourcePath:  cfg.Database.MigrationPath,
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}

	return db.RunMigrationsWithRetry(ctx, migrationConfig, slogger, 3)
}
