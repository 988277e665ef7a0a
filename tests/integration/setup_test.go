package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"pennywise/internal/classifier"
	"pennywise/internal/handlers"
	"pennywise/internal/logger"
	"pennywise/internal/middleware"
	"pennywise/internal/models"
	"pennywise/internal/services"
	"pennywise/internal/validator"
)

const testAPIKey = "test-pipeline-key"

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// stubClassifier maps well-known merchants to fixed categories so tests are
// deterministic without a live classification service.
type stubClassifier struct{}

func (stubClassifier) ClassifyBatch(_ context.Context, merchants []string, _ []string) (string, error) {
	labels := make([]string, len(merchants))
	for i, merchant := range merchants {
		switch {
		case strings.Contains(merchant, "AMAZON"):
			labels[i] = "shopping"
		case strings.Contains(merchant, "STARBUCKS"):
			labels[i] = "dining"
		case strings.Contains(merchant, "NETFLIX"):
			labels[i] = "subscriptions"
		case strings.Contains(merchant, "PAYMENT"):
			labels[i] = "income"
		default:
			labels[i] = "other"
		}
	}
	out, _ := json.Marshal(labels)
	return string(out), nil
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.Transaction{},
		&models.ImportedFile{},
		&models.MerchantCategory{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	classifierService := classifier.NewService(db, stubClassifier{}, 50)
	ledgerService := services.NewLedgerService(db)
	analyticsService := services.NewAnalyticsService(ledgerService)
	importService := services.NewImportService(ledgerService, classifierService)

	// Handlers
	importHandler := handlers.NewImportHandler(importService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService, classifierService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, 3, 2.0)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	v1.GET("/transactions", ledgerHandler.ListTransactions)
	v1.GET("/transactions/search", ledgerHandler.SearchTransactions)
	v1.GET("/summary", ledgerHandler.GetSummary)
	v1.GET("/imports", ledgerHandler.ListImports)
	v1.POST("/query", ledgerHandler.RunQuery)

	analytics := v1.Group("/analytics")
	analytics.POST("/aggregate", analyticsHandler.Aggregate)
	analytics.POST("/compare", analyticsHandler.ComparePeriods)
	analytics.GET("/recurring", analyticsHandler.FindRecurring)
	analytics.GET("/anomalies", analyticsHandler.DetectAnomalies)

	pipeline := v1.Group("/")
	pipeline.Use(middleware.PipelineAuthMiddleware(testAPIKey))
	pipeline.POST("/import", importHandler.ImportStatement)
	pipeline.DELETE("/cache", ledgerHandler.ClearCache)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// importStatement ships one statement through the guarded pipeline endpoint
// and fails the test unless it is accepted.
func (app *testApp) importStatement(t *testing.T, body string) map[string]interface{} {
	t.Helper()
	rec := app.request(http.MethodPost, "/api/v1/import", body, testAPIKey)
	if rec.Code != http.StatusOK {
		t.Fatalf("import failed with status %d: %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)
}
