package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "pennywise/internal/errors"
	"pennywise/internal/models"
	"pennywise/internal/services"
)

// AnalyticsHandler handles analytical query requests.
type AnalyticsHandler struct {
	analyticsService        services.AnalyticsServicer
	defaultMinOccurrences   int
	defaultAnomalyThreshold float64
}

// NewAnalyticsHandler creates a new AnalyticsHandler with the configured
// defaults for recurring-charge and anomaly detection.
func NewAnalyticsHandler(analyticsService services.AnalyticsServicer, minOccurrences int, anomalyThreshold float64) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService:        analyticsService,
		defaultMinOccurrences:   minOccurrences,
		defaultAnomalyThreshold: anomalyThreshold,
	}
}

// AggregateRequest represents the request payload for an aggregate query
type AggregateRequest struct {
	Operation           string  `json:"operation" binding:"required,aggregate_op"`
	GroupBy             string  `json:"group_by" binding:"omitempty,group_by"`
	StartDate           *string `json:"start_date" binding:"omitempty,iso_date"`
	EndDate             *string `json:"end_date" binding:"omitempty,iso_date"`
	Category            *string `json:"category" binding:"omitempty,category"`
	DescriptionContains *string `json:"description_contains" binding:"omitempty,max=200"`
	ExpensesOnly        bool    `json:"expenses_only"`
	IncomeOnly          bool    `json:"income_only"`
	CardType            *string `json:"card_type" binding:"omitempty,card_type"`
	Bank                *string `json:"bank" binding:"omitempty,max=100"`
	AccountLast4        *string `json:"account_last4" binding:"omitempty,len=4"`
}

// Aggregate handles aggregate queries over the ledger
// @Summary     Aggregate transactions
// @Description Compute sum, avg, count, min, or max over filtered transactions, optionally grouped
// @Tags        analytics
// @Accept      json
// @Produce     json
// @Param       request body AggregateRequest true "Aggregate parameters"
// @Success     200 {object} services.AggregateResult "Aggregate result"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/aggregate [post]
func (h *AnalyticsHandler) Aggregate(c *gin.Context) {
	var req AggregateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	params := services.AggregateParams{
		Operation:           req.Operation,
		GroupBy:             req.GroupBy,
		Category:            req.Category,
		DescriptionContains: req.DescriptionContains,
		ExpensesOnly:        req.ExpensesOnly,
		IncomeOnly:          req.IncomeOnly,
		CardType:            req.CardType,
		Bank:                req.Bank,
		AccountLast4:        req.AccountLast4,
	}

	var err error
	if params.StartDate, err = parseOptionalDate(req.StartDate); err != nil {
		respondWithError(c, err)
		return
	}
	if params.EndDate, err = parseOptionalDate(req.EndDate); err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.analyticsService.Aggregate(params)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ComparePeriodsRequest represents the request payload for a period comparison
type ComparePeriodsRequest struct {
	Period1Start string `json:"period1_start" binding:"required,iso_date"`
	Period1End   string `json:"period1_end" binding:"required,iso_date"`
	Period2Start string `json:"period2_start" binding:"required,iso_date"`
	Period2End   string `json:"period2_end" binding:"required,iso_date"`
	GroupBy      string `json:"group_by" binding:"omitempty,oneof=category"`
}

// ComparePeriods handles two-period comparisons
// @Summary     Compare two periods
// @Description Compare totals or per-category breakdowns across two date windows
// @Tags        analytics
// @Accept      json
// @Produce     json
// @Param       request body ComparePeriodsRequest true "Comparison windows"
// @Success     200 {object} services.ComparisonResult "Comparison result"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/compare [post]
func (h *AnalyticsHandler) ComparePeriods(c *gin.Context) {
	var req ComparePeriodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	p1, err := parsePeriod(req.Period1Start, req.Period1End)
	if err != nil {
		respondWithError(c, err)
		return
	}
	p2, err := parsePeriod(req.Period2Start, req.Period2End)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.analyticsService.ComparePeriods(p1, p2, req.GroupBy)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// FindRecurring handles recurring-charge detection
// @Summary     Find recurring charges
// @Description Report merchant groups occurring at least min_occurrences times
// @Tags        analytics
// @Produce     json
// @Param       min_occurrences query int false "Minimum occurrence count (default 3)"
// @Success     200 {object} services.RecurringResult "Recurring charges"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/recurring [get]
func (h *AnalyticsHandler) FindRecurring(c *gin.Context) {
	minOccurrences := h.defaultMinOccurrences
	if v := c.Query("min_occurrences"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid min_occurrences"))
			return
		}
		minOccurrences = n
	}

	result, err := h.analyticsService.FindRecurring(minOccurrences)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DetectAnomalies handles outflow anomaly detection
// @Summary     Detect anomalous expenses
// @Description Flag outflows more than N standard deviations below the outflow mean
// @Tags        analytics
// @Produce     json
// @Param       category  query string false "Restrict to one category"
// @Param       threshold query number false "Standard-deviation threshold (default 2.0)"
// @Success     200 {object} services.AnomalyResult "Anomalies"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/anomalies [get]
func (h *AnalyticsHandler) DetectAnomalies(c *gin.Context) {
	var category *string
	if v := c.Query("category"); v != "" {
		lowered := strings.ToLower(v)
		if !models.IsValidCategory(lowered) {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid category: "+v))
			return
		}
		category = &lowered
	}

	threshold := h.defaultAnomalyThreshold
	if v := c.Query("threshold"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid threshold"))
			return
		}
		threshold = f
	}

	result, err := h.analyticsService.DetectAnomalies(category, threshold)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(models.DateLayout, *value)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date: "+*value)
	}
	return &t, nil
}

func parsePeriod(start, end string) (services.Period, error) {
	s, err := time.Parse(models.DateLayout, start)
	if err != nil {
		return services.Period{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date: "+start)
	}
	e, err := time.Parse(models.DateLayout, end)
	if err != nil {
		return services.Period{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date: "+end)
	}
	if e.Before(s) {
		return services.Period{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "period end precedes start")
	}
	return services.Period{Start: s, End: e}, nil
}
