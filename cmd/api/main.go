package main

import (
	"fmt"
	"net/http"
	"os"

	"pennywise/internal/classifier"
	"pennywise/internal/config"
	"pennywise/internal/database"
	"pennywise/internal/handlers"
	"pennywise/internal/logger"
	"pennywise/internal/middleware"
	"pennywise/internal/services"
	"pennywise/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "pennywise/internal/docs" // Import swagger docs
)

// @title           PennyWise API
// @version         1.0
// @description     PennyWise ingests bank statement text into a deduplicated transaction ledger and answers analytical queries over it.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API key guarding the ingestion and maintenance endpoints.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Initialize services
	db := dbManager.DB()
	backend := classifier.NewGeminiClassifier(appConfig.GeminiAPIKey, appConfig.GeminiModel)
	classifierService := classifier.NewService(db, backend, appConfig.ClassifyBatchSize)
	ledgerService := services.NewLedgerService(db)
	analyticsService := services.NewAnalyticsService(ledgerService)
	importService := services.NewImportService(ledgerService, classifierService)

	// Initialize handlers
	importHandler := handlers.NewImportHandler(importService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService, classifierService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService,
		appConfig.RecurringMinOccurrences, appConfig.AnomalyThreshold)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Ledger routes
	v1.GET("/transactions", ledgerHandler.ListTransactions)
	v1.GET("/transactions/search", ledgerHandler.SearchTransactions)
	v1.GET("/summary", ledgerHandler.GetSummary)
	v1.GET("/imports", ledgerHandler.ListImports)
	v1.POST("/query", ledgerHandler.RunQuery)

	// Analytics routes
	analytics := v1.Group("/analytics")
	analytics.POST("/aggregate", analyticsHandler.Aggregate)
	analytics.POST("/compare", analyticsHandler.ComparePeriods)
	analytics.GET("/recurring", analyticsHandler.FindRecurring)
	analytics.GET("/anomalies", analyticsHandler.DetectAnomalies)

	// Pipeline routes guarded by the API key
	pipeline := v1.Group("/")
	pipeline.Use(middleware.PipelineAuthMiddleware(appConfig.PipelineAPIKey))
	pipeline.POST("/import", importHandler.ImportStatement)
	pipeline.DELETE("/cache", ledgerHandler.ClearCache)

	log.Infof("Starting PennyWise backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
