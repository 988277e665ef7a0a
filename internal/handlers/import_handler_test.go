package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "pennywise/internal/errors"
	"pennywise/internal/services"
	"pennywise/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

type mockImportService struct {
	importFn func(ctx context.Context, req services.ImportRequest) (*services.ImportOutcome, error)
}

func (m *mockImportService) ImportStatement(ctx context.Context, req services.ImportRequest) (*services.ImportOutcome, error) {
	if m.importFn != nil {
		return m.importFn(ctx, req)
	}
	return &services.ImportOutcome{}, nil
}

func setupImportRouter(svc services.ImportServicer) *gin.Engine {
	r := gin.New()
	r.POST("/import", NewImportHandler(svc).ImportStatement)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func TestImportStatementHandler(t *testing.T) {
	t.Run("valid_request", func(t *testing.T) {
		var captured services.ImportRequest
		svc := &mockImportService{
			importFn: func(_ context.Context, req services.ImportRequest) (*services.ImportOutcome, error) {
				captured = req
				return &services.ImportOutcome{
					ImportResult: services.ImportResult{SavedCount: 2, SkippedCount: 1},
					ParsedCount:  3,
				}, nil
			},
		}
		router := setupImportRouter(svc)

		rec := postJSON(router, "/import",
			`{"text":"11/15 SHOP 1.00","dialect":"credit","bank":"chase","card_type":"credit","source_file":"a.txt"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		body := decodeJSON(t, rec)
		if body["saved_count"].(float64) != 2 || body["parsed_count"].(float64) != 3 {
			t.Errorf("unexpected body: %v", body)
		}
		if captured.Dialect != "credit" || captured.Bank == nil || *captured.Bank != "chase" {
			t.Errorf("request not passed through: %+v", captured)
		}
	})

	t.Run("missing_text_rejected", func(t *testing.T) {
		router := setupImportRouter(&mockImportService{})
		rec := postJSON(router, "/import", `{"dialect":"credit"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("invalid_card_type_rejected", func(t *testing.T) {
		router := setupImportRouter(&mockImportService{})
		rec := postJSON(router, "/import", `{"text":"x","dialect":"credit","card_type":"prepaid"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("service_error_mapped", func(t *testing.T) {
		svc := &mockImportService{
			importFn: func(_ context.Context, _ services.ImportRequest) (*services.ImportOutcome, error) {
				return nil, apperrors.ErrUnknownDialect
			},
		}
		router := setupImportRouter(svc)
		rec := postJSON(router, "/import", `{"text":"x","dialect":"savings"}`)

		if rec.Code != apperrors.ErrUnknownDialect.StatusCode {
			t.Fatalf("status = %d, want %d", rec.Code, apperrors.ErrUnknownDialect.StatusCode)
		}
		body := decodeJSON(t, rec)
		errObj := body["error"].(map[string]interface{})
		if errObj["code"] != apperrors.ErrUnknownDialect.Code {
			t.Errorf("error code = %v", errObj["code"])
		}
	})
}
