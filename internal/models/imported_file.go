package models

import "time"

// ImportedFile tracks source documents that have already been imported.
// Presence of a filename here makes any future import under the same name a
// no-op. This is a coarse short-circuit layered on top of the row-level
// dedup hash, not a correctness mechanism.
type ImportedFile struct {
	Base
	Filename         string    `gorm:"uniqueIndex;not null" json:"filename"`
	TransactionCount int       `gorm:"not null" json:"transaction_count"`
	ImportedAt       time.Time `gorm:"not null" json:"imported_at"`
}
