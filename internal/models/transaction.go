package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// CardType represents the kind of card a statement belongs to
type CardType string

const (
	CardTypeCredit CardType = "credit"
	CardTypeDebit  CardType = "debit"
)

// DateLayout is the canonical date format for ledger rows (no time component).
const DateLayout = "2006-01-02"

// Transaction represents a single accepted ledger row. Rows are created by a
// successful import and never mutated afterwards; only the category may be
// back-filled if the merchant text was uncached at insert time.
type Transaction struct {
	Base
	Date         time.Time `gorm:"not null;index" json:"-"`
	Description  string    `gorm:"not null" json:"description"`
	Amount       float64   `gorm:"not null" json:"amount"`
	Category     string    `gorm:"not null;default:other;index" json:"category"`
	CardType     *string   `json:"card_type,omitempty"`
	Bank         *string   `json:"bank,omitempty"`
	AccountLast4 *string   `gorm:"column:account_last4" json:"account_last4,omitempty"`
	SourceFile   *string   `json:"source_file,omitempty"`

	// DedupHash is the sole correctness guarantee against duplicate
	// ingestion: two rows with the same hash can never both exist.
	DedupHash string `gorm:"uniqueIndex;not null" json:"-"`
}

// DateString returns the transaction date in the canonical YYYY-MM-DD form.
func (t *Transaction) DateString() string {
	return t.Date.Format(DateLayout)
}

// MarshalJSON emits the date in the canonical YYYY-MM-DD form; the raw
// time.Time never crosses the wire.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type plain Transaction
	return json.Marshal(struct {
		plain
		Date string `json:"date"`
	}{plain(t), t.DateString()})
}

// ComputeDedupHash derives the storage-layer uniqueness key from the
// canonical date string, the sanitized description, and the amount printed
// with two decimals. The digest must be stable across imports.
func ComputeDedupHash(date time.Time, description string, amount float64) string {
	payload := fmt.Sprintf("%s|%s|%.2f", date.Format(DateLayout), description, amount)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Categories is the fixed, closed vocabulary a transaction's category must
// belong to. Labels outside this set are coerced to CategoryOther.
var Categories = []string{
	"groceries", "dining", "transport", "subscriptions",
	"utilities", "shopping", "entertainment", "health",
	"rent", "income", "fees", "transfer", "other",
}

// CategoryOther is the fallback category label.
const CategoryOther = "other"

var categorySet = func() map[string]bool {
	set := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		set[c] = true
	}
	return set
}()

// IsValidCategory reports whether label belongs to the fixed vocabulary.
func IsValidCategory(label string) bool {
	return categorySet[label]
}
