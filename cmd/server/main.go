package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pricingapp "github.com/erp/pricing/internal/application/pricing"
	"github.com/erp/pricing/internal/domain/pricing"
	"github.com/erp/pricing/internal/infrastructure/auth"
	"github.com/erp/pricing/internal/infrastructure/authority"
	"github.com/erp/pricing/internal/infrastructure/cache"
	"github.com/erp/pricing/internal/infrastructure/config"
	"github.com/erp/pricing/internal/infrastructure/logger"
	"github.com/erp/pricing/internal/infrastructure/persistence"
	"github.com/erp/pricing/internal/interfaces/http/handler"
	"github.com/erp/pricing/internal/interfaces/http/middleware"
	"github.com/erp/pricing/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/erp/pricing/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Pricing Service API
//	@version		1.0
//	@description	Customer-specific price resolution service with tier fallback and explicit cache invalidation

//	@contact.name	API Support
//	@contact.url	https://github.com/erp/pricing

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting pricing service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// The catalog database holds products, customers and custom prices.
	// It backs the embedded authority in local mode and supplies the
	// entities the tier fallback needs in both modes.
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}
	log.Info("Database connected successfully")

	catalogRepo := persistence.NewGormCatalogRepository(db.DB)
	customPriceRepo := persistence.NewGormCustomPriceRepository(db.DB)

	// Select the pricing authority binding
	var priceAuthority pricing.Authority
	switch cfg.Authority.Mode {
	case "remote":
		client, err := authority.NewHTTPClient(&authority.Config{
			BaseURL:        cfg.Authority.BaseURL,
			Token:          cfg.Authority.Token,
			TimeoutSeconds: cfg.Authority.TimeoutSeconds,
		}, authority.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create authority client", zap.Error(err))
		}
		priceAuthority = client
		log.Info("Using remote pricing authority", zap.String("base_url", cfg.Authority.BaseURL))
	default:
		priceAuthority = persistence.NewLocalAuthority(customPriceRepo, catalogRepo, log)
		log.Info("Using embedded pricing authority")
	}

	// Select the resolution cache backend
	var resolutionCache pricing.ResolutionCache
	switch cfg.Cache.Backend {
	case "redis":
		redisCache, err := cache.NewRedisResolutionCache(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cache.WithRedisLogger(log))
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		resolutionCache = redisCache
		log.Info("Using Redis resolution cache",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	default:
		resolutionCache = cache.NewInMemoryResolutionCache(cache.WithInMemoryLogger(log))
		log.Info("Using in-memory resolution cache")
	}

	// Application services
	resolver := pricingapp.NewPriceResolver(resolutionCache, priceAuthority, pricingapp.WithLogger(log))
	jwtService := auth.NewJWTService(cfg.JWT)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, resolutionCache))

	// Swagger documentation endpoint, gated so production deployments can
	// turn it off or restrict it to operator networks
	swaggerProtection := middleware.SwaggerProtection(middleware.SwaggerConfig{
		Enabled:    cfg.HTTP.SwaggerEnabled,
		AllowedIPs: cfg.HTTP.SwaggerAllowedIPs,
	}, nil)
	engine.GET("/swagger/*any", swaggerProtection, ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		ForwardCredential: true,
		Logger:            log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	pricingHandler := handler.NewPricingHandler(resolver, catalogRepo)
	pricingRoutes := router.NewDomainGroup("pricing", "/pricing")
	pricingRoutes.POST("/resolve", pricingHandler.Resolve)
	pricingRoutes.POST("/resolve-bulk", pricingHandler.ResolveBulk)
	pricingRoutes.PUT("/overrides", pricingHandler.SaveOverride)
	pricingRoutes.GET("/cached", pricingHandler.Cached)
	pricingRoutes.DELETE("/cache", pricingHandler.InvalidateAll)
	pricingRoutes.DELETE("/cache/:customerID", pricingHandler.InvalidateCustomer)
	pricingRoutes.DELETE("/cache/:customerID/:productID", pricingHandler.InvalidateEntry)
	r.Register(pricingRoutes)

	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, resolutionCache pricing.ResolutionCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}

		cached, err := resolutionCache.Count(c.Request.Context())
		if err != nil {
			reqLog.Warn("Cache unreachable", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "ok",
				"cache":    "error",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":             "healthy",
			"time":               time.Now().Format(time.RFC3339),
			"database":           "ok",
			"cache":              "ok",
			"cached_resolutions": cached,
		})
	}
}
