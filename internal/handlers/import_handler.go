package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "pennywise/internal/errors"
	"pennywise/internal/services"
)

// ImportHandler handles statement ingestion requests.
type ImportHandler struct {
	importService services.ImportServicer
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importService services.ImportServicer) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// ImportStatementRequest represents the request payload for importing a statement
type ImportStatementRequest struct {
	Text       string  `json:"text" binding:"required"`
	Dialect    string  `json:"dialect" binding:"required"`
	Bank       *string `json:"bank" binding:"omitempty,max=100"`
	CardType   *string `json:"card_type" binding:"omitempty,card_type"`
	SourceFile *string `json:"source_file" binding:"omitempty,max=255"`
}

// ImportStatement handles the ingestion of one statement's raw text
// @Summary     Import a statement
// @Description Parse, sanitize, categorize, and store a bank statement's transactions
// @Tags        import
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body ImportStatementRequest true "Statement text and metadata"
// @Success     200 {object} services.ImportOutcome "Import outcome"
// @Failure     400 {object} ErrorResponse "Invalid input or unknown dialect"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /import [post]
func (h *ImportHandler) ImportStatement(c *gin.Context) {
	var req ImportStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	outcome, err := h.importService.ImportStatement(c.Request.Context(), services.ImportRequest{
		Text:       req.Text,
		Dialect:    req.Dialect,
		Bank:       req.Bank,
		CardType:   req.CardType,
		SourceFile: req.SourceFile,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}
