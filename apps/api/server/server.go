package server

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	_ "github.com/cyphera/cyphera-tax/apps/api/docs"
	"github.com/cyphera/cyphera-tax/apps/api/handlers"
	"github.com/cyphera/cyphera-tax/libs/go/config"
	"github.com/cyphera/cyphera-tax/libs/go/constants"
	"github.com/cyphera/cyphera-tax/libs/go/helpers"
	"github.com/cyphera/cyphera-tax/libs/go/interfaces"
	"github.com/cyphera/cyphera-tax/libs/go/logger"
	"github.com/cyphera/cyphera-tax/libs/go/middleware"
	"github.com/cyphera/cyphera-tax/libs/go/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// DefaultRateLimit is the per-client request rate when TAX_API_RATE_LIMIT is unset
const DefaultRateLimit = 20

// Handler Definitions
var (
	stage          string
	commonServices *handlers.CommonServices
	taxHandler     *handlers.TaxHandler
	healthHandler  *handlers.HealthHandler
	rateLimiter    *middleware.RateLimiter
)

// InitializeHandlers validates the stage, initializes the logger and builds
// the tax service from TAX_* environment variables. The entry points load
// .env before calling it.
func InitializeHandlers() {
	stage = os.Getenv(constants.StageEnvVar)
	if stage == "" {
		stage = helpers.StageLocal
		log.Printf("Warning: STAGE environment variable not set, defaulting to '%s'", stage)
	}
	if !helpers.IsValidStage(stage) {
		log.Fatalf("Invalid STAGE environment variable: '%s'. Must be one of: %s, %s, %s, %s",
			stage, helpers.StageProd, helpers.StageDev, helpers.StageLocal, helpers.StageTest)
	}

	logger.InitLogger(stage)
	logger.Info("Initializing handlers for stage", zap.String("stage", stage))

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatal("Invalid tax pipeline configuration", zap.Error(err))
	}
	taxService, err := services.NewTaxService(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize tax service", zap.Error(err))
	}
	logger.Info("Tax service initialized",
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("timeout", cfg.Timeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.String("sources_file", cfg.SourcesFile))

	InitializeHandlersWithService(stage, taxService)
}

// InitializeHandlersWithService wires the handlers over an existing service
func InitializeHandlersWithService(runStage string, taxService interfaces.TaxService) {
	stage = runStage
	commonServices = handlers.NewCommonServices(handlers.CommonServicesConfig{
		TaxService: taxService,
		Stage:      runStage,
		Logger:     logger.Log,
	})
	taxHandler = handlers.NewTaxHandler(commonServices)
	healthHandler = handlers.NewHealthHandler(runStage)
}

// InitializeRoutes installs middleware and routes. InitializeHandlers or
// InitializeHandlersWithService must run first.
func InitializeRoutes(router *gin.Engine) {
	router.Use(configureCORS())
	router.Use(middleware.CorrelationIDMiddleware())

	if rateLimiter != nil {
		rateLimiter.Stop()
	}
	rateLimiter = middleware.NewRateLimiter(rateLimitFromEnv(), 2*rateLimitFromEnv())
	router.Use(rateLimiter.Middleware())

	router.Use(middleware.BodySizeLimitMiddleware(middleware.DefaultMaxBodySize))
	router.Use(middleware.EnhancedLoggingMiddleware(helpers.IsDevelopmentStage(stage)))
	router.Use(middleware.RequestLoggingMiddleware())

	// Health for raw lambda url check
	router.GET("/:stage/health", healthHandler.Health)
	router.GET("/health", healthHandler.Health)

	// OpenAPI document and UI, served from the registered docs package
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		rates := v1.Group("/rates")
		{
			rates.GET("/stats", taxHandler.GetCacheStats)
			rates.GET("/:country/:entity_type/:year", taxHandler.GetRates)
			rates.DELETE("/:country/:entity_type/:year", taxHandler.InvalidateRates)
			rates.DELETE("", taxHandler.ClearRates)
		}

		tax := v1.Group("/tax")
		{
			tax.POST("/calculate", taxHandler.CalculateTax)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
}

// Shutdown releases background resources started by InitializeRoutes
func Shutdown() {
	if rateLimiter != nil {
		rateLimiter.Stop()
	}
	_ = logger.Sync()
}

func rateLimitFromEnv() int {
	if v := os.Getenv(constants.RateLimitEnvVar); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		logger.Warn("Ignoring invalid rate limit", zap.String("value", v))
	}
	return DefaultRateLimit
}

// configureCORS returns a configured CORS middleware
func configureCORS() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = envList(constants.CORSAllowedOriginsEnvVar, []string{"http://localhost:3000"})
	corsConfig.AllowMethods = envList(constants.CORSAllowedMethodsEnvVar, []string{"GET", "POST", "DELETE", "OPTIONS"})
	corsConfig.AllowHeaders = envList(constants.CORSAllowedHeadersEnvVar, []string{"Origin", "Content-Type", "Accept", middleware.CorrelationIDHeader})
	corsConfig.ExposeHeaders = []string{
		"X-RateLimit-Limit",
		"X-RateLimit-Remaining",
		"X-RateLimit-Reset",
		"Retry-After",
		middleware.CorrelationIDHeader,
	}
	return cors.New(corsConfig)
}

func envList(name string, fallback []string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	values := strings.Split(raw, ",")
	for i, v := range values {
		values[i] = strings.TrimSpace(v)
	}
	return values
}
