package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pennywise/internal/classifier"
	apperrors "pennywise/internal/errors"
	"pennywise/internal/models"
	"pennywise/internal/pagination"
	"pennywise/internal/services"
)

// LedgerHandler handles ledger browsing and maintenance requests.
type LedgerHandler struct {
	ledgerService     services.LedgerServicer
	classifierService classifier.Servicer
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerService services.LedgerServicer, classifierService classifier.Servicer) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService, classifierService: classifierService}
}

// ListTransactions handles paginated ledger browsing with optional filters
// @Summary     List transactions
// @Description List stored transactions with optional filters, newest page first
// @Tags        ledger
// @Produce     json
// @Param       page       query int    false "Page number"
// @Param       page_size  query int    false "Page size (max 100)"
// @Param       start_date query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       end_date   query string false "Inclusive end date (YYYY-MM-DD)"
// @Param       category   query string false "Category filter"
// @Param       description query string false "Case-insensitive description substring"
// @Param       min_amount query number false "Minimum signed amount"
// @Param       max_amount query number false "Maximum signed amount"
// @Param       card_type  query string false "Card type filter (credit or debit)"
// @Param       bank       query string false "Bank filter"
// @Param       account_last4 query string false "Account last-four filter"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Page of transactions"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *LedgerHandler) ListTransactions(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	page.Defaults()

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.ledgerService.Browse(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter
	var err error

	if filter.StartDate, err = parseDateQuery(c, "start_date"); err != nil {
		return filter, err
	}
	if filter.EndDate, err = parseDateQuery(c, "end_date"); err != nil {
		return filter, err
	}

	if v := c.Query("category"); v != "" {
		if !models.IsValidCategory(strings.ToLower(v)) {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid category: "+v)
		}
		category := strings.ToLower(v)
		filter.Category = &category
	}

	if v := c.Query("description"); v != "" {
		filter.DescriptionContains = &v
	}

	if v := c.Query("min_amount"); v != "" {
		amt, parseErr := strconv.ParseFloat(v, 64)
		if parseErr != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid min_amount")
		}
		filter.MinAmount = &amt
	}

	if v := c.Query("max_amount"); v != "" {
		amt, parseErr := strconv.ParseFloat(v, 64)
		if parseErr != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid max_amount")
		}
		filter.MaxAmount = &amt
	}

	if v := c.Query("card_type"); v != "" {
		switch v {
		case "credit", "debit":
			filter.CardType = &v
		default:
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid card_type, must be credit or debit")
		}
	}

	if v := c.Query("bank"); v != "" {
		filter.Bank = &v
	}

	if v := c.Query("account_last4"); v != "" {
		filter.AccountLast4 = &v
	}

	return filter, nil
}

// SearchTransactions handles capped filtered retrieval
// @Summary     Search transactions
// @Description Return transactions matching the filters, oldest first, capped at 50 rows
// @Tags        ledger
// @Produce     json
// @Param       start_date query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       end_date   query string false "Inclusive end date (YYYY-MM-DD)"
// @Param       category   query string false "Category filter"
// @Param       description query string false "Case-insensitive description substring"
// @Param       min_amount query number false "Minimum signed amount"
// @Param       max_amount query number false "Maximum signed amount"
// @Param       card_type  query string false "Card type filter (credit or debit)"
// @Param       bank       query string false "Bank filter"
// @Param       account_last4 query string false "Account last-four filter"
// @Success     200 {object} map[string]interface{} "Matching transactions"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/search [get]
func (h *LedgerHandler) SearchTransactions(c *gin.Context) {
	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.ledgerService.Query(filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions, "count": len(transactions)})
}

// GetSummary handles ledger overview requests
// @Summary     Ledger summary
// @Description Overview of the stored ledger: counts, date range, distinct attributes, totals
// @Tags        ledger
// @Produce     json
// @Success     200 {object} services.LedgerSummary "Ledger summary"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /summary [get]
func (h *LedgerHandler) GetSummary(c *gin.Context) {
	summary, err := h.ledgerService.Summary()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ListImports handles import-registry listing
// @Summary     List imported files
// @Description List source files recorded in the import registry, newest first
// @Tags        ledger
// @Produce     json
// @Success     200 {object} map[string][]models.ImportedFile "Imported files"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /imports [get]
func (h *LedgerHandler) ListImports(c *gin.Context) {
	files, err := h.ledgerService.ImportedFiles()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"imports": files})
}

// RunQueryRequest represents the request payload for an ad-hoc query
type RunQueryRequest struct {
	SQL string `json:"sql" binding:"required"`
}

// RunQuery handles read-only ad-hoc SQL queries
// @Summary     Run a read-only query
// @Description Execute an ad-hoc SELECT statement against the ledger, capped at 50 rows
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Param       request body RunQueryRequest true "SELECT statement"
// @Success     200 {object} map[string]interface{} "Query rows"
// @Failure     400 {object} ErrorResponse "Non-SELECT statement"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /query [post]
func (h *LedgerHandler) RunQuery(c *gin.Context) {
	var req RunQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	rows, err := h.ledgerService.RunQuery(req.SQL)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rows": rows, "count": len(rows)})
}

// ClearCache handles category-cache invalidation
// @Summary     Clear the category cache
// @Description Delete all cached merchant-to-category mappings
// @Tags        ledger
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} MessageResponse "Cache cleared"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cache [delete]
func (h *LedgerHandler) ClearCache(c *gin.Context) {
	if err := h.classifierService.ClearCache(); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category cache cleared"})
}
