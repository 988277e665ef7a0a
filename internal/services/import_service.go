package services

import (
	"context"
	"strings"

	"pennywise/internal/classifier"
	apperrors "pennywise/internal/errors"
	"pennywise/internal/logger"
	"pennywise/internal/models"
	"pennywise/internal/parser"
	"pennywise/internal/sanitize"
)

// importService orchestrates the ingestion pipeline: parse, sanitize,
// classify, save.
type importService struct {
	ledger     LedgerServicer
	classifier classifier.Servicer
}

// NewImportService creates a new ImportServicer.
func NewImportService(ledger LedgerServicer, cls classifier.Servicer) ImportServicer {
	return &importService{ledger: ledger, classifier: cls}
}

// ImportStatement runs one statement through the full pipeline. A
// classification failure degrades to the fallback category and never blocks
// the save; an already-imported source file short-circuits before parsing.
func (s *importService) ImportStatement(ctx context.Context, req ImportRequest) (*ImportOutcome, error) {
	log := logger.Get()

	if strings.TrimSpace(req.Text) == "" {
		return nil, apperrors.ErrEmptyStatement
	}

	if req.SourceFile != nil {
		imported, err := s.ledger.IsFileImported(*req.SourceFile)
		if err != nil {
			return nil, err
		}
		if imported {
			log.Infow("source file already imported, skipping",
				"source_file", *req.SourceFile)
			return &ImportOutcome{
				ImportResult: ImportResult{AlreadyImported: true},
			}, nil
		}
	}

	dialect := parser.Dialect(strings.ToLower(req.Dialect))
	if dialect != parser.DialectCredit && dialect != parser.DialectDebit &&
		!parser.HasTransactionSections(req.Text) {
		return nil, apperrors.WithMessage(apperrors.ErrUnknownDialect,
			"unknown statement dialect: "+req.Dialect)
	}

	drafts := parser.Parse(req.Text, dialect)
	if len(drafts) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrEmptyStatement,
			"no transactions found in statement text")
	}

	var accountLast4 *string
	if last4 := parser.ExtractAccountLast4(req.Text); last4 != "" {
		accountLast4 = &last4
	}

	drafts = sanitize.Drafts(drafts)

	descriptions := make([]string, len(drafts))
	for i, d := range drafts {
		descriptions[i] = d.Description
	}

	labels, err := s.classifier.Classify(ctx, descriptions)
	if err != nil {
		log.Warnw("classification failed, falling back to default category",
			"error", err, "rows", len(drafts))
		labels = map[string]string{}
	}

	rows := make([]CategorizedRow, len(drafts))
	for i, d := range drafts {
		category, ok := labels[d.Description]
		if !ok {
			category = models.CategoryOther
		}
		rows[i] = CategorizedRow{
			Date:        d.Date,
			Description: d.Description,
			Amount:      d.Amount,
			Category:    category,
		}
	}

	result, err := s.ledger.Save(rows, RowMeta{
		SourceFile:   req.SourceFile,
		CardType:     req.CardType,
		Bank:         req.Bank,
		AccountLast4: accountLast4,
	})
	if err != nil {
		return nil, err
	}

	log.Infow("statement imported",
		"parsed", len(rows),
		"saved", result.SavedCount,
		"skipped", result.SkippedCount)

	return &ImportOutcome{
		ImportResult: *result,
		ParsedCount:  len(rows),
		AccountLast4: accountLast4,
	}, nil
}
