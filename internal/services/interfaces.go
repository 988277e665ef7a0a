package services

import (
	"context"
	"time"

	"pennywise/internal/models"
	"pennywise/internal/pagination"
)

// CategorizedRow is a fully processed transaction ready for the ledger:
// parsed, sanitized, and categorized.
type CategorizedRow struct {
	Date        time.Time
	Description string
	Amount      float64
	Category    string
}

// ImportResult reports the outcome of one save call. Partial success (some
// rows saved, some skipped) is expected steady-state behavior.
type ImportResult struct {
	SavedCount      int  `json:"saved_count"`
	SkippedCount    int  `json:"skipped_count"`
	AlreadyImported bool `json:"already_imported"`
}

// RowMeta carries the statement-level attributes stamped onto every row of
// one import call.
type RowMeta struct {
	SourceFile   *string
	CardType     *string
	Bank         *string
	AccountLast4 *string
}

// TransactionFilter holds optional filter parameters; all present predicates
// are conjoined.
type TransactionFilter struct {
	StartDate           *time.Time
	EndDate             *time.Time
	Category            *string
	DescriptionContains *string
	MinAmount           *float64
	MaxAmount           *float64
	CardType            *string
	Bank                *string
	AccountLast4        *string
}

// LedgerSummary is an overview of the stored ledger.
type LedgerSummary struct {
	TotalTransactions int      `json:"total_transactions"`
	DateRange         string   `json:"date_range,omitempty"`
	Categories        []string `json:"categories,omitempty"`
	CardTypes         []string `json:"card_types,omitempty"`
	Banks             []string `json:"banks,omitempty"`
	Accounts          []string `json:"accounts,omitempty"`
	TotalIncome       float64  `json:"total_income"`
	TotalExpenses     float64  `json:"total_expenses"`
}

// LedgerServicer defines the contract for the deduplicating ledger store.
type LedgerServicer interface {
	Save(rows []CategorizedRow, meta RowMeta) (*ImportResult, error)
	Load() ([]models.Transaction, error)
	Query(filter TransactionFilter) ([]models.Transaction, error)
	Browse(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	RunQuery(sql string) ([]map[string]interface{}, error)
	Summary() (*LedgerSummary, error)
	ImportedFiles() ([]models.ImportedFile, error)
	IsFileImported(filename string) (bool, error)
}

// AggregateParams selects the aggregate operation and its filters.
type AggregateParams struct {
	Operation           string
	GroupBy             string
	StartDate           *time.Time
	EndDate             *time.Time
	Category            *string
	DescriptionContains *string
	ExpensesOnly        bool
	IncomeOnly          bool
	CardType            *string
	Bank                *string
	AccountLast4        *string
}

// GroupValue is one entry of an ordered grouped aggregate.
type GroupValue struct {
	Group string  `json:"group"`
	Value float64 `json:"value"`
}

// TransactionDetail is the full detail of a single extreme or anomalous row.
type TransactionDetail struct {
	Group       string  `json:"group,omitempty"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
}

// MerchantBreakdown separates spending from refunds when summing a specific
// merchant without flow filters.
type MerchantBreakdown struct {
	TotalSpent       float64 `json:"total_spent"`
	TotalRefunds     float64 `json:"total_refunds"`
	Net              float64 `json:"net"`
	TransactionCount int     `json:"transaction_count"`
	ExpenseCount     int     `json:"expense_count"`
	RefundCount      int     `json:"refund_count"`
}

// AggregateResult is the union of the aggregate operation's response shapes;
// exactly one of the optional fields is populated per call.
type AggregateResult struct {
	Result       *float64            `json:"result,omitempty"`
	Count        int                 `json:"count"`
	Note         string              `json:"note,omitempty"`
	Grouped      []GroupValue        `json:"grouped_results,omitempty"`
	Transactions []TransactionDetail `json:"transactions,omitempty"`
	Transaction  *TransactionDetail  `json:"transaction,omitempty"`
	Breakdown    *MerchantBreakdown  `json:"breakdown,omitempty"`
}

// Period is one comparison window.
type Period struct {
	Start time.Time
	End   time.Time
}

// PeriodSummary reports one window's total or per-category breakdown.
type PeriodSummary struct {
	Dates      string             `json:"dates"`
	Total      *float64           `json:"total,omitempty"`
	ByCategory map[string]float64 `json:"by_category,omitempty"`
}

// ComparisonResult reports a two-period comparison.
type ComparisonResult struct {
	Period1       PeriodSummary `json:"period1"`
	Period2       PeriodSummary `json:"period2"`
	Difference    *float64      `json:"difference,omitempty"`
	PercentChange *float64      `json:"percent_change,omitempty"`
}

// RecurringCharge is one merchant group that recurs at least the requested
// number of times.
type RecurringCharge struct {
	Description string  `json:"description"`
	Count       int     `json:"count"`
	AvgAmount   float64 `json:"avg_amount"`
	Total       float64 `json:"total"`
}

// RecurringResult reports recurring-charge detection.
type RecurringResult struct {
	RecurringCount   int               `json:"recurring_count"`
	RecurringCharges []RecurringCharge `json:"recurring_charges"`
}

// AnomalyResult reports anomaly detection over outflow transactions.
type AnomalyResult struct {
	AnomalyCount  int                 `json:"anomaly_count"`
	ThresholdUsed string              `json:"threshold_used,omitempty"`
	Note          string              `json:"note,omitempty"`
	Anomalies     []TransactionDetail `json:"anomalies"`
}

// AnalyticsServicer defines the read-side analytical operations. Every call
// re-derives from the full current ledger snapshot; there is no incremental
// view.
type AnalyticsServicer interface {
	Aggregate(params AggregateParams) (*AggregateResult, error)
	ComparePeriods(p1, p2 Period, groupBy string) (*ComparisonResult, error)
	FindRecurring(minOccurrences int) (*RecurringResult, error)
	DetectAnomalies(category *string, threshold float64) (*AnomalyResult, error)
}

// ImportRequest is one statement submitted for ingestion.
type ImportRequest struct {
	Text       string
	Dialect    string
	Bank       *string
	CardType   *string
	SourceFile *string
}

// ImportOutcome extends ImportResult with parse-level detail.
type ImportOutcome struct {
	ImportResult
	ParsedCount  int     `json:"parsed_count"`
	AccountLast4 *string `json:"account_last4,omitempty"`
}

// ImportServicer orchestrates the ingestion pipeline:
// parse, sanitize, classify, save.
type ImportServicer interface {
	ImportStatement(ctx context.Context, req ImportRequest) (*ImportOutcome, error)
}
