package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	availabilityapp "github.com/mfgerp/backend/internal/application/availability"
	bomapp "github.com/mfgerp/backend/internal/application/bom"
	identityapp "github.com/mfgerp/backend/internal/application/identity"
	mfgapp "github.com/mfgerp/backend/internal/application/manufacturing"
	productapp "github.com/mfgerp/backend/internal/application/product"
	"github.com/mfgerp/backend/internal/application/production"
	reportapp "github.com/mfgerp/backend/internal/application/report"
	stockapp "github.com/mfgerp/backend/internal/application/stock"
	"github.com/mfgerp/backend/internal/domain/identity"
	"github.com/mfgerp/backend/internal/infrastructure/auth"
	"github.com/mfgerp/backend/internal/infrastructure/cache"
	"github.com/mfgerp/backend/internal/infrastructure/config"
	"github.com/mfgerp/backend/internal/infrastructure/event"
	"github.com/mfgerp/backend/internal/infrastructure/export"
	"github.com/mfgerp/backend/internal/infrastructure/logger"
	"github.com/mfgerp/backend/internal/infrastructure/persistence"
	"github.com/mfgerp/backend/internal/infrastructure/persistence/models"
	"github.com/mfgerp/backend/internal/infrastructure/realtime"
	"github.com/mfgerp/backend/internal/infrastructure/scheduler"
	"github.com/mfgerp/backend/internal/infrastructure/storage"
	"github.com/mfgerp/backend/internal/infrastructure/telemetry"
	"github.com/mfgerp/backend/internal/interfaces/http/handler"
	"github.com/mfgerp/backend/internal/interfaces/http/middleware"
	"github.com/mfgerp/backend/internal/interfaces/http/router"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/mfgerp/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

// lowStockAlertInterval bounds how often one product raises a realtime alert
const lowStockAlertInterval = 10 * time.Minute

//	@title			Manufacturing Backend API
//	@version		1.0
//	@description	Products, bills of materials, manufacturing and work orders, and the stock ledger

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry comes first so the final logger can tee into the OTLP log pipeline
	bootLog := logger.New(logger.FromAppConfig(cfg.Log))
	providers, err := telemetry.Setup(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	var extraCores []zapcore.Core
	if core := providers.Logs.ZapCore(logger.ParseLevel(cfg.Log.Level)); core != nil {
		extraCores = append(extraCores, core)
	}
	log := logger.New(logger.FromAppConfig(cfg.Log), extraCores...)
	defer func() { _ = log.Sync() }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	log.Info("Starting manufacturing backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("completion_mode", cfg.Production.CompletionMode),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingFromAppConfig(cfg.Telemetry, cfg.Database.Driver), log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	if cfg.Database.Driver == "sqlite" {
		// PostgreSQL is migrated by cmd/migrate; sqlite is used for local runs only
		if err := db.DB.AutoMigrate(models.AllModels()...); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	cacheFactory := cache.NewFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	)
	defer func() { _ = cacheFactory.Close() }()
	idempotencyStore, err := cacheFactory.IdempotencyStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	numberSequence, err := cacheFactory.NumberSequence(cfg.Numbering.Backend, persistence.NewGormNumberSequence(db.DB))
	if err != nil {
		log.Fatal("Failed to create order number sequence", zap.Error(err))
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	bomRepo := persistence.NewGormBOMRepository(db.DB)
	orderRepo := persistence.NewGormManufacturingOrderRepository(db.DB)
	workOrderRepo := persistence.NewGormWorkOrderRepository(db.DB)
	workCenterRepo := persistence.NewGormWorkCenterRepository(db.DB)
	noteRepo := persistence.NewGormWorkOrderNoteRepository(db.DB)
	availabilityRepo := persistence.NewGormAvailabilityRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	meter := providers.Meter.Meter(cfg.Telemetry.ServiceName)
	productionMetrics, err := telemetry.NewProductionMetrics(meter)
	if err != nil {
		log.Fatal("Failed to register production metrics", zap.Error(err))
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)
	productService := productapp.NewService(productRepo, log)
	bomService := bomapp.NewService(bomRepo, productRepo, log)
	orderService := mfgapp.NewOrderService(orderRepo, productRepo, bomRepo, numberSequence, log)
	completionMode, err := production.ParseCompletionMode(cfg.Production.CompletionMode)
	if err != nil {
		log.Fatal("Invalid completion mode", zap.Error(err))
	}
	completionService := production.NewCompletionService(
		workOrderRepo, orderRepo, bomRepo, productRepo, ledgerRepo, txScope, completionMode, log,
	)
	completionService.SetMetrics(productionMetrics)
	workOrderService := mfgapp.NewWorkOrderService(workOrderRepo, orderRepo, workCenterRepo, noteRepo, completionService, log)
	workCenterService := mfgapp.NewWorkCenterService(workCenterRepo)
	stockService := stockapp.NewService(productRepo, ledgerRepo, txScope, log)
	availabilityService := availabilityapp.NewService(availabilityRepo, bomRepo, orderRepo, log)
	reportService := reportapp.NewReportService(orderRepo, workOrderRepo, productRepo, ledgerRepo, stockService)

	objectStore, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize export storage", zap.Error(err))
	}
	stockService.SetExport(export.NewExcelLedgerExporter(), objectStore)

	// Realtime push and domain events
	hub := realtime.NewHub(log, cfg.HTTP.CORSAllowOrigins)
	go hub.Run(ctx)
	alertNotifier := realtime.NewAlertNotifier(hub)

	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(stockapp.NewLowStockHandler(log, lowStockAlertInterval).WithNotifier(alertNotifier))
	eventBus.Subscribe(stockapp.NewMovementMetricsHandler(productionMetrics))
	eventBus.Subscribe(realtime.NewEventBroadcaster(hub))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()
	stockService.SetEventPublisher(eventBus)
	completionService.SetEventPublisher(eventBus)

	if cfg.Scheduler.Enabled {
		jobs := scheduler.New(log, cfg.Scheduler.JobTimeout)
		if err := jobs.Register(cfg.Scheduler.LowStockSchedule,
			scheduler.NewLowStockJob(productService, productionMetrics, alertNotifier, log)); err != nil {
			log.Fatal("Failed to schedule low stock scan", zap.Error(err))
		}
		if err := jobs.Register(cfg.Scheduler.ConsistencySchedule,
			scheduler.NewConsistencyJob(stockService, productionMetrics, log)); err != nil {
			log.Fatal("Failed to schedule consistency check", zap.Error(err))
		}
		jobs.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := jobs.Stop(stopCtx); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
		log.Info("Scheduler started",
			zap.String("low_stock_schedule", cfg.Scheduler.LowStockSchedule),
			zap.String("consistency_schedule", cfg.Scheduler.ConsistencySchedule),
		)
	}

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Order: request id, span, request log, recovery, headers, CORS, body limit, metrics
	engine.Use(middleware.RequestID())
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName))
	}
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	httpMetrics, err := middleware.HTTPMetrics(meter)
	if err != nil {
		log.Fatal("Failed to register HTTP metrics", zap.Error(err))
	}
	engine.Use(httpMetrics)

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version)
	systemHandler.AddCheck("database", handler.PingerFunc(func(ctx context.Context) error {
		sqlDB, err := db.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}))
	if client, _ := cacheFactory.Client(); client != nil {
		systemHandler.AddCheck("redis", handler.PingerFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}))
	}
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ws/stock", hub.Handler(jwtService))
	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := router.NewRouter(engine, router.WithAPIVersion("v1"))
	api.Register(router.APIGroups(router.APIHandlers{
		Auth:               handler.NewAuthHandler(authService),
		Product:            handler.NewProductHandler(productService),
		BOM:                handler.NewBOMHandler(bomService, availabilityService),
		ManufacturingOrder: handler.NewManufacturingOrderHandler(orderService, availabilityService),
		WorkOrder:          handler.NewWorkOrderHandler(workOrderService),
		WorkCenter:         handler.NewWorkCenterHandler(workCenterService),
		Stock:              handler.NewStockHandler(stockService),
		Availability:       handler.NewAvailabilityHandler(availabilityService),
		Dashboard:          handler.NewDashboardHandler(reportService),
		System:             systemHandler,
	}, router.APIMiddleware{
		Auth:          []gin.HandlerFunc{middleware.JWTAuth(jwtService), middleware.SpanAttributes()},
		Admin:         middleware.RequireRole(string(identity.RoleAdmin), string(identity.RoleManager)),
		AuthRateLimit: middleware.RateLimit(middleware.NewRateLimiter(cfg.HTTP.AuthRateLimit, cfg.HTTP.AuthRateWindow)),
		CompletionIdempotency: middleware.Idempotency(idempotencyStore, cfg.Production.IdempotencyTTL, func(c *gin.Context) string {
			return "wo:" + c.Param("id")
		}),
	})...)
	api.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}
	log.Info("Server exited gracefully")
}
