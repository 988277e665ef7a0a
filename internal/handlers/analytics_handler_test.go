package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"pennywise/internal/services"
)

type mockAnalyticsService struct {
	aggregateFn       func(params services.AggregateParams) (*services.AggregateResult, error)
	compareFn         func(p1, p2 services.Period, groupBy string) (*services.ComparisonResult, error)
	findRecurringFn   func(minOccurrences int) (*services.RecurringResult, error)
	detectAnomaliesFn func(category *string, threshold float64) (*services.AnomalyResult, error)
}

func (m *mockAnalyticsService) Aggregate(params services.AggregateParams) (*services.AggregateResult, error) {
	if m.aggregateFn != nil {
		return m.aggregateFn(params)
	}
	return &services.AggregateResult{}, nil
}

func (m *mockAnalyticsService) ComparePeriods(p1, p2 services.Period, groupBy string) (*services.ComparisonResult, error) {
	if m.compareFn != nil {
		return m.compareFn(p1, p2, groupBy)
	}
	return &services.ComparisonResult{}, nil
}

func (m *mockAnalyticsService) FindRecurring(minOccurrences int) (*services.RecurringResult, error) {
	if m.findRecurringFn != nil {
		return m.findRecurringFn(minOccurrences)
	}
	return &services.RecurringResult{}, nil
}

func (m *mockAnalyticsService) DetectAnomalies(category *string, threshold float64) (*services.AnomalyResult, error) {
	if m.detectAnomaliesFn != nil {
		return m.detectAnomaliesFn(category, threshold)
	}
	return &services.AnomalyResult{}, nil
}

func setupAnalyticsRouter(svc services.AnalyticsServicer) *gin.Engine {
	r := gin.New()
	h := NewAnalyticsHandler(svc, 3, 2.0)
	r.POST("/analytics/aggregate", h.Aggregate)
	r.POST("/analytics/compare", h.ComparePeriods)
	r.GET("/analytics/recurring", h.FindRecurring)
	r.GET("/analytics/anomalies", h.DetectAnomalies)
	return r
}

func getPath(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAggregateHandler(t *testing.T) {
	t.Run("valid_request_passes_params", func(t *testing.T) {
		var captured services.AggregateParams
		svc := &mockAnalyticsService{
			aggregateFn: func(params services.AggregateParams) (*services.AggregateResult, error) {
				captured = params
				value := -42.0
				return &services.AggregateResult{Result: &value, Count: 7}, nil
			},
		}
		router := setupAnalyticsRouter(svc)

		rec := postJSON(router, "/analytics/aggregate",
			`{"operation":"sum","group_by":"category","start_date":"2024-11-01","end_date":"2024-11-30","expenses_only":true}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		if captured.Operation != "sum" || captured.GroupBy != "category" || !captured.ExpensesOnly {
			t.Errorf("params not passed through: %+v", captured)
		}
		if captured.StartDate == nil || captured.StartDate.Day() != 1 {
			t.Errorf("start date not parsed: %v", captured.StartDate)
		}
	})

	t.Run("unknown_operation_rejected", func(t *testing.T) {
		router := setupAnalyticsRouter(&mockAnalyticsService{})
		rec := postJSON(router, "/analytics/aggregate", `{"operation":"median"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown_group_by_rejected", func(t *testing.T) {
		router := setupAnalyticsRouter(&mockAnalyticsService{})
		rec := postJSON(router, "/analytics/aggregate", `{"operation":"sum","group_by":"weekday"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("malformed_date_rejected", func(t *testing.T) {
		router := setupAnalyticsRouter(&mockAnalyticsService{})
		rec := postJSON(router, "/analytics/aggregate", `{"operation":"sum","start_date":"11/01/2024"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestComparePeriodsHandler(t *testing.T) {
	t.Run("valid_request", func(t *testing.T) {
		var gotGroupBy string
		svc := &mockAnalyticsService{
			compareFn: func(p1, p2 services.Period, groupBy string) (*services.ComparisonResult, error) {
				gotGroupBy = groupBy
				return &services.ComparisonResult{}, nil
			},
		}
		router := setupAnalyticsRouter(svc)

		rec := postJSON(router, "/analytics/compare",
			`{"period1_start":"2024-10-01","period1_end":"2024-10-31","period2_start":"2024-11-01","period2_end":"2024-11-30","group_by":"category"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		if gotGroupBy != "category" {
			t.Errorf("group_by = %q", gotGroupBy)
		}
	})

	t.Run("inverted_period_rejected", func(t *testing.T) {
		router := setupAnalyticsRouter(&mockAnalyticsService{})
		rec := postJSON(router, "/analytics/compare",
			`{"period1_start":"2024-10-31","period1_end":"2024-10-01","period2_start":"2024-11-01","period2_end":"2024-11-30"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing_window_rejected", func(t *testing.T) {
		router := setupAnalyticsRouter(&mockAnalyticsService{})
		rec := postJSON(router, "/analytics/compare", `{"period1_start":"2024-10-01"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestFindRecurringHandler(t *testing.T) {
	t.Run("default_min_occurrences", func(t *testing.T) {
		var got int
		svc := &mockAnalyticsService{
			findRecurringFn: func(minOccurrences int) (*services.RecurringResult, error) {
				got = minOccurrences
				return &services.RecurringResult{}, nil
			},
		}
		router := setupAnalyticsRouter(svc)

		rec := getPath(router, "/analytics/recurring")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if got != 3 {
			t.Errorf("min_occurrences = %d, want configured default 3", got)
		}
	})

	t.Run("explicit_min_occurrences", func(t *testing.T) {
		var got int
		svc := &mockAnalyticsService{
			findRecurringFn: func(minOccurrences int) (*services.RecurringResult, error) {
				got = minOccurrences
				return &services.RecurringResult{}, nil
			},
		}
		router := setupAnalyticsRouter(svc)

		rec := getPath(router, "/analytics/recurring?min_occurrences=5")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if got != 5 {
			t.Errorf("min_occurrences = %d, want 5", got)
		}
	})

	t.Run("invalid_min_occurrences", func(t *testing.T) {
		router := setupAnalyticsRouter(&mockAnalyticsService{})
		rec := getPath(router, "/analytics/recurring?min_occurrences=zero")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestDetectAnomaliesHandler(t *testing.T) {
	t.Run("defaults_applied", func(t *testing.T) {
		var gotThreshold float64
		var gotCategory *string
		svc := &mockAnalyticsService{
			detectAnomaliesFn: func(category *string, threshold float64) (*services.AnomalyResult, error) {
				gotCategory, gotThreshold = category, threshold
				return &services.AnomalyResult{}, nil
			},
		}
		router := setupAnalyticsRouter(svc)

		rec := getPath(router, "/analytics/anomalies")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if gotThreshold != 2.0 || gotCategory != nil {
			t.Errorf("threshold = %v, category = %v", gotThreshold, gotCategory)
		}
	})

	t.Run("category_and_threshold_forwarded", func(t *testing.T) {
		var gotThreshold float64
		var gotCategory *string
		svc := &mockAnalyticsService{
			detectAnomaliesFn: func(category *string, threshold float64) (*services.AnomalyResult, error) {
				gotCategory, gotThreshold = category, threshold
				return &services.AnomalyResult{}, nil
			},
		}
		router := setupAnalyticsRouter(svc)

		rec := getPath(router, "/analytics/anomalies?category=dining&threshold=1.5")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if gotCategory == nil || *gotCategory != "dining" || gotThreshold != 1.5 {
			t.Errorf("category = %v, threshold = %v", gotCategory, gotThreshold)
		}
	})

	t.Run("invalid_category_rejected", func(t *testing.T) {
		router := setupAnalyticsRouter(&mockAnalyticsService{})
		rec := getPath(router, "/analytics/anomalies?category=lottery")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}
