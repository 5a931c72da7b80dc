package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/gin-gonic/gin"
	adminapp "github.com/luminform/atelier/internal/application/admin"
	analyticsapp "github.com/luminform/atelier/internal/application/analytics"
	brandkitapp "github.com/luminform/atelier/internal/application/brandkit"
	catalogapp "github.com/luminform/atelier/internal/application/catalog"
	"github.com/luminform/atelier/internal/application/identity"
	micrositeapp "github.com/luminform/atelier/internal/application/microsite"
	partnerapp "github.com/luminform/atelier/internal/application/partner"
	tradeapp "github.com/luminform/atelier/internal/application/trade"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/luminform/atelier/internal/infrastructure/auth"
	"github.com/luminform/atelier/internal/infrastructure/cache"
	"github.com/luminform/atelier/internal/infrastructure/config"
	"github.com/luminform/atelier/internal/infrastructure/event"
	"github.com/luminform/atelier/internal/infrastructure/logger"
	"github.com/luminform/atelier/internal/infrastructure/persistence"
	"github.com/luminform/atelier/internal/infrastructure/printing"
	"github.com/luminform/atelier/internal/infrastructure/scheduler"
	"github.com/luminform/atelier/internal/infrastructure/storage"
	"github.com/luminform/atelier/internal/infrastructure/telemetry"
	"github.com/luminform/atelier/internal/interfaces/http/handler"
	"github.com/luminform/atelier/internal/interfaces/http/middleware"
	"github.com/luminform/atelier/internal/interfaces/http/router"
	"github.com/luminform/atelier/internal/interfaces/web"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"

	_ "github.com/luminform/atelier/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Atelier Luminform API
//	@version		1.0
//	@description	Partner and back-office API for the Atelier Luminform wedding and event platform

//	@contact.name	Atelier Luminform engineering

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Telemetry comes first so the logger can tee into the OTLP log exporter
	bootLog, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	providers, err := telemetry.Setup(context.Background(), cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	var extra []zapcore.Core
	if core := providers.ZapCore(); core != nil {
		extra = append(extra, core)
	}
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, extra...)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	log.Info("Starting Atelier Luminform",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database
	db, err := persistence.NewDatabase(&cfg.Database, log, persistence.Options{
		LogLevel:      logger.MapGormLogLevel(cfg.Log.Level),
		SlowThreshold: cfg.Telemetry.DBSlowQueryThresh,
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.InstrumentGorm(db.DB, cfg.Telemetry, log); err != nil {
		log.Warn("Database tracing disabled", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Redis backs the token blacklist and the dashboard cache when configured
	cacheFactory, err := cache.NewFactory(context.Background(), cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction()),
	)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := cacheFactory.Close(); err != nil {
			log.Error("Error closing Redis", zap.Error(err))
		}
	}()
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if client := cacheFactory.Client(); client != nil {
		blacklist = auth.NewRedisTokenBlacklist(client)
	}

	// Domain events go to NATS when configured, otherwise to the log
	var publisher shared.EventPublisher = event.NewLogPublisher(log)
	checkers := []handler.NamedChecker{
		{Name: "database", Checker: db},
		{Name: "cache", Checker: cacheFactory},
	}
	if cfg.NATS.URL != "" {
		natsPublisher, err := event.NewNATSPublisher(cfg.NATS, log)
		if err != nil {
			log.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer func() {
			if err := natsPublisher.Close(); err != nil {
				log.Error("Error closing NATS connection", zap.Error(err))
			}
		}()
		publisher = natsPublisher
		checkers = append(checkers, handler.NamedChecker{Name: "events", Checker: natsPublisher})
	}

	// Brand kit assets live in S3-compatible storage
	var objects brandkitapp.ObjectStorage = storage.NewStubObjectStorage(cfg.App.BaseURL + "/files")
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ObjectStorage(context.Background(), &cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(context.Background()); err != nil {
			log.Warn("Object storage bucket check failed", zap.String("bucket", s3Storage.Bucket()), zap.Error(err))
		}
		objects = s3Storage
	} else {
		log.Warn("Object storage disabled, logo uploads use stub URLs")
	}

	// Quote PDFs are printed by headless Chrome
	formatter := printing.NewFormatter(language.AmericanEnglish)
	var quotePrinter tradeapp.QuotePrinter
	if cfg.Printing.Enabled {
		renderer := printing.NewChromedpRenderer(printing.ChromedpConfig{
			RemoteURL:  cfg.Printing.RemoteURL,
			ChromePath: cfg.Printing.ChromePath,
			Timeout:    cfg.Printing.RenderTimeout,
			NoSandbox:  os.Geteuid() == 0,
			Logger:     log,
		})
		defer func() {
			if err := renderer.Close(); err != nil {
				log.Error("Error closing browser", zap.Error(err))
			}
		}()
		printer, err := printing.NewQuotePrinter(renderer, formatter, printing.PaperSize(cfg.Printing.PaperSize))
		if err != nil {
			log.Fatal("Failed to initialize quote printer", zap.Error(err))
		}
		quotePrinter = printer
	}

	metrics, err := telemetry.NewBusinessMetrics(providers.Meter("atelier"))
	if err != nil {
		log.Warn("Business metrics disabled", zap.Error(err))
		metrics = nil
	}

	// Initialize repositories
	partnerRepo := persistence.NewGormPartnerRepository(db.DB)
	partnerUserRepo := persistence.NewGormPartnerUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	collectionRepo := persistence.NewGormCollectionRepository(db.DB)
	quoteRepo := persistence.NewGormQuoteRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	micrositeRepo := persistence.NewGormMicrositeRepository(db.DB)
	brandKitRepo := persistence.NewGormBrandKitRepository(db.DB)
	adminRepo := persistence.NewGormAdminUserRepository(db.DB)
	auditRepo := persistence.NewGormAuditLogRepository(db.DB)
	tx := persistence.NewTransactor(db.DB)

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	auditService := adminapp.NewAuditService(auditRepo, log)
	adminUserService := adminapp.NewUserService(adminRepo, log)
	authService := identity.NewAuthService(identity.AuthServiceDeps{
		Partners:     partnerRepo,
		PartnerUsers: partnerUserRepo,
		Admins:       adminRepo,
		JWT:          jwtService,
		Blacklist:    blacklist,
		Auditor:      auditService,
		Metrics:      metrics,
		Logger:       log,
	})
	partnerService := partnerapp.NewService(partnerRepo, partnerUserRepo, tx, publisher,
		blacklist, cfg.JWT.RefreshTokenExpiration, log)
	productService := catalogapp.NewProductService(productRepo, log)
	collectionService := catalogapp.NewCollectionService(collectionRepo, productRepo, micrositeRepo, publisher, log)
	brandKitService := brandkitapp.NewService(brandKitRepo, objects, brandkitapp.ServiceConfig{
		UploadURLTTL:   cfg.Storage.UploadURLTTL,
		DownloadURLTTL: cfg.Storage.DownloadURLTTL,
		MaxLogoBytes:   cfg.Storage.MaxLogoBytes,
	}, log)
	quoteService := tradeapp.NewQuoteService(tradeapp.QuoteServiceDeps{
		Quotes:      quoteRepo,
		Orders:      orderRepo,
		Products:    productRepo,
		Collections: collectionRepo,
		Partners:    partnerRepo,
		BrandKits:   brandKitRepo,
		Storage:     objects,
		Printer:     quotePrinter,
		Tx:          tx,
		Publisher:   publisher,
		Metrics:     metrics,
		Logger:      log,
	})
	orderService := tradeapp.NewOrderService(orderRepo, partnerRepo, productRepo, collectionRepo, tx, publisher, metrics, log)
	micrositeService := micrositeapp.NewService(micrositeapp.ServiceDeps{
		Microsites:  micrositeRepo,
		Collections: collectionRepo,
		Products:    productRepo,
		Partners:    partnerRepo,
		Appearance:  brandKitService,
		Publisher:   publisher,
		Metrics:     metrics,
		Logger:      log,
		Pages:       cacheFactory.Store("microsite:"),
	})
	analyticsService := analyticsapp.NewService(partnerRepo, orderRepo, quoteRepo, cacheFactory.Store("analytics:"),
		analyticsapp.ServiceConfig{DefaultMonths: cfg.Analytics.DefaultMonths, CacheTTL: cfg.Analytics.CacheTTL}, log)

	// Background jobs
	if cfg.Scheduler.Enabled {
		jobs := scheduler.New(cfg.Scheduler.JobTimeout, log)
		if err := jobs.Register("quote-expiry", cfg.Scheduler.QuoteExpirySchedule, func(ctx context.Context) error {
			_, err := quoteService.ExpireOverdue(ctx, cfg.Scheduler.BatchSize)
			return err
		}); err != nil {
			log.Fatal("Failed to register quote expiry job", zap.Error(err))
		}
		if err := jobs.Register("analytics-cache-warm", cfg.Scheduler.CacheWarmSchedule, analyticsService.WarmCache); err != nil {
			log.Fatal("Failed to register analytics warm-up job", zap.Error(err))
		}
		jobs.Start()
		defer func() {
			if err := jobs.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
		log.Info("Scheduler started", zap.Int("jobs", len(jobs.Jobs())))
	}

	// Initialize HTTP handlers
	partnerCookie := middleware.NewSessionCookie(cfg.Cookie.PartnerName, cfg.Cookie)
	adminCookie := middleware.NewSessionCookie(cfg.Cookie.AdminName, cfg.Cookie)
	handlers := router.Handlers{
		Auth:       handler.NewAuthHandler(authService, partnerCookie, adminCookie),
		Partner:    handler.NewPartnerHandler(partnerService, auditService),
		Catalog:    handler.NewCatalogHandler(productService, auditService),
		Collection: handler.NewCollectionHandler(collectionService),
		Quote:      handler.NewQuoteHandler(quoteService),
		Order:      handler.NewOrderHandler(orderService, auditService),
		Microsite:  handler.NewMicrositeHandler(micrositeService, auditService),
		BrandKit:   handler.NewBrandKitHandler(brandKitService),
		Analytics:  handler.NewAnalyticsHandler(analyticsService),
		Admin:      handler.NewAdminHandler(adminUserService, auditService),
		System:     handler.NewSystemHandler(cfg.App.Name, buildVersion(), cfg.App.Env, checkers...),
	}

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to set up validator", zap.Error(err))
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Logger - Log requests
	// 3. Recovery - Catch panics
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. Tracing, profiling labels and HTTP metrics
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.App.IsProduction()
	engine.Use(middleware.Secure(security))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORS(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     providers.Enabled(),
		SkipPaths:   []string{"/health", "/ready"},
	}))
	engine.Use(middleware.Profiling(middleware.DefaultProfilingConfig(cfg.Telemetry.ProfilingEnabled)))
	if providers.Enabled() {
		engine.Use(middleware.HTTPMetrics(providers.Meter("atelier.http"), log))
	}

	limiterCtx, stopLimiters := context.WithCancel(context.Background())
	defer stopLimiters()
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		go rateLimiter.Cleanup(limiterCtx)
		engine.Use(middleware.RateLimit(rateLimiter, log))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	guards := router.Guards{
		PartnerSession: middleware.Session(middleware.SessionConfig{
			Auth: authService, CookieName: cfg.Cookie.PartnerName, Logger: log,
		}),
		AdminSession: middleware.Session(middleware.SessionConfig{
			Auth: authService, CookieName: cfg.Cookie.AdminName, Logger: log,
		}),
		RequireAdmin: middleware.RequireAdmin(middleware.AdminGuardConfig{Admins: adminRepo, Logger: log}),
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		loginLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		go loginLimiter.Cleanup(limiterCtx)
		guards.LoginRateLimit = middleware.RateLimitByKey(loginLimiter, middleware.LoginKey, log)
	}

	// Probes and API docs sit outside the versioned API
	router.RegisterSystem(engine, handlers.System)
	swagger := []gin.HandlerFunc{middleware.SwaggerProtection(middleware.SwaggerConfig{
		Enabled:     cfg.Swagger.Enabled,
		RequireAuth: cfg.Swagger.RequireAuth,
		AllowedIPs:  cfg.Swagger.AllowedIPs,
	})}
	if cfg.Swagger.RequireAuth {
		swagger = append(swagger, guards.AdminSession, guards.RequireAdmin)
	}
	swagger = append(swagger, ginSwagger.WrapHandler(swaggerFiles.Handler))
	engine.GET("/swagger/*any", swagger...)

	// Versioned JSON API
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	for _, group := range router.APIGroups(handlers, guards) {
		r.Register(group)
	}
	r.Setup()

	// Server-rendered portal, back office and microsites
	pages, err := web.New(web.Deps{
		Auth:          authService,
		Partners:      partnerService,
		Collections:   collectionService,
		Quotes:        quoteService,
		Orders:        orderService,
		Microsites:    micrositeService,
		Analytics:     analyticsService,
		Audit:         auditService,
		Admins:        adminRepo,
		Formatter:     formatter,
		PartnerCookie: partnerCookie,
		AdminCookie:   adminCookie,
		LoginLimiter:  guards.LoginRateLimit,
		Logger:        log,
	})
	if err != nil {
		log.Fatal("Failed to parse page templates", zap.Error(err))
	}
	pages.Register(engine)

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
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// buildVersion prefers the linker-provided version and falls back to the
// module version recorded by the Go toolchain
func buildVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}
