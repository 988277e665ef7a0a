package services

import (
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "pennywise/internal/errors"
	"pennywise/internal/logger"
	"pennywise/internal/models"
	"pennywise/internal/pagination"
)

// queryRowCap bounds filtered retrieval results.
const queryRowCap = 50

// ledgerService handles the deduplicating ledger store.
type ledgerService struct {
	db *gorm.DB
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(db *gorm.DB) LedgerServicer {
	return &ledgerService{db: db}
}

// Save persists categorized rows with two-level idempotency. A source file
// already present in the registry short-circuits the whole call; otherwise
// each row is inserted keyed by its dedup hash and hash collisions are
// skipped row by row, never aborting the remainder.
func (s *ledgerService) Save(rows []CategorizedRow, meta RowMeta) (*ImportResult, error) {
	if meta.SourceFile != nil {
		imported, err := s.IsFileImported(*meta.SourceFile)
		if err != nil {
			return nil, err
		}
		if imported {
			logger.Get().Infow("file already imported, skipping", "file", *meta.SourceFile)
			return &ImportResult{AlreadyImported: true}, nil
		}
	}

	result := &ImportResult{}

	for _, row := range rows {
		tx := models.Transaction{
			Date:         row.Date,
			Description:  row.Description,
			Amount:       row.Amount,
			Category:     row.Category,
			CardType:     meta.CardType,
			Bank:         meta.Bank,
			AccountLast4: meta.AccountLast4,
			SourceFile:   meta.SourceFile,
			DedupHash:    models.ComputeDedupHash(row.Date, row.Description, row.Amount),
		}

		// The unique index on dedup_hash rejects duplicate content
		// atomically; DoNothing turns the violation into zero rows.
		res := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dedup_hash"}},
			DoNothing: true,
		}).Create(&tx)
		if res.Error != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}

		if res.RowsAffected == 0 {
			result.SkippedCount++
		} else {
			result.SavedCount++
		}
	}

	if meta.SourceFile != nil {
		entry := models.ImportedFile{
			Filename:         *meta.SourceFile,
			TransactionCount: result.SavedCount,
			ImportedAt:       time.Now(),
		}
		if err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "filename"}},
			DoUpdates: clause.AssignmentColumns([]string{"transaction_count", "imported_at", "updated_at"}),
		}).Create(&entry).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	logger.Get().Infow("saved transactions", "saved", result.SavedCount, "skipped", result.SkippedCount)
	return result, nil
}

// Load returns the full current ledger ordered by date.
func (s *ledgerService) Load() ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Order("date asc").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// Query returns transactions matching the conjunction of all present filter
// predicates, capped at 50 rows.
func (s *ledgerService) Query(filter TransactionFilter) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := applyFilter(s.db.Model(&models.Transaction{}), filter).
		Order("date asc").
		Limit(queryRowCap).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// Browse returns a filtered page of the ledger for interactive listing.
func (s *ledgerService) Browse(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := applyFilter(s.db.Model(&models.Transaction{}), filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Order("date asc").Scopes(pagination.Paginate(page)).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyFilter(db *gorm.DB, filter TransactionFilter) *gorm.DB {
	if filter.StartDate != nil {
		db = db.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		db = db.Where("date <= ?", *filter.EndDate)
	}
	if filter.Category != nil {
		db = db.Where("LOWER(category) = LOWER(?)", *filter.Category)
	}
	if filter.DescriptionContains != nil {
		db = db.Where("LOWER(description) LIKE ?", "%"+strings.ToLower(*filter.DescriptionContains)+"%")
	}
	if filter.MinAmount != nil {
		db = db.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		db = db.Where("amount <= ?", *filter.MaxAmount)
	}
	if filter.CardType != nil {
		db = db.Where("LOWER(card_type) = LOWER(?)", *filter.CardType)
	}
	if filter.Bank != nil {
		db = db.Where("LOWER(bank) = LOWER(?)", *filter.Bank)
	}
	if filter.AccountLast4 != nil {
		db = db.Where("account_last4 = ?", *filter.AccountLast4)
	}
	return db
}

// RunQuery executes an ad-hoc read-only query. This is a safety boundary:
// anything that does not begin with a SELECT is rejected before execution.
func (s *ledgerService) RunQuery(sql string) ([]map[string]interface{}, error) {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(sql)), "select") {
		return nil, apperrors.ErrUnsafeQuery
	}

	var rows []map[string]interface{}
	if err := s.db.Raw(sql).Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if rows == nil {
		rows = []map[string]interface{}{}
	}
	return rows, nil
}

// Summary reports an overview of the stored ledger.
func (s *ledgerService) Summary() (*LedgerSummary, error) {
	transactions, err := s.Load()
	if err != nil {
		return nil, err
	}

	summary := &LedgerSummary{TotalTransactions: len(transactions)}
	if len(transactions) == 0 {
		return summary, nil
	}

	summary.DateRange = transactions[0].DateString() + " to " + transactions[len(transactions)-1].DateString()

	categories := map[string]bool{}
	cardTypes := map[string]bool{}
	banks := map[string]bool{}
	accounts := map[string]bool{}

	for _, t := range transactions {
		categories[t.Category] = true
		if t.CardType != nil {
			cardTypes[*t.CardType] = true
		}
		if t.Bank != nil {
			banks[*t.Bank] = true
		}
		if t.AccountLast4 != nil {
			accounts["****"+*t.AccountLast4] = true
		}
		if t.Amount > 0 {
			summary.TotalIncome += t.Amount
		} else {
			summary.TotalExpenses += -t.Amount
		}
	}

	summary.TotalIncome = round2(summary.TotalIncome)
	summary.TotalExpenses = round2(summary.TotalExpenses)
	summary.Categories = sortedKeys(categories)
	summary.CardTypes = sortedKeys(cardTypes)
	summary.Banks = sortedKeys(banks)
	summary.Accounts = sortedKeys(accounts)

	return summary, nil
}

// ImportedFiles lists the imported-file registry, most recent first.
func (s *ledgerService) ImportedFiles() ([]models.ImportedFile, error) {
	var files []models.ImportedFile
	if err := s.db.Order("imported_at desc").Find(&files).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return files, nil
}

// IsFileImported reports whether a filename is present in the registry.
func (s *ledgerService) IsFileImported(filename string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.ImportedFile{}).Where("filename = ?", filename).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
