package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"pennywise/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestTransaction creates a transaction with a unique description.
func CreateTestTransaction(t *testing.T, db *gorm.DB) *models.Transaction {
	t.Helper()
	desc := fmt.Sprintf("TEST MERCHANT %d", nextID())
	return CreateTestTransactionWith(t, db, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), desc, -42.50, "other")
}

// CreateTestTransactionWith creates a transaction with the given attributes.
func CreateTestTransactionWith(t *testing.T, db *gorm.DB, date time.Time, description string, amount float64, category string) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Date:        date,
		Description: description,
		Amount:      amount,
		Category:    category,
		DedupHash:   models.ComputeDedupHash(date, description, amount),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestImportedFile records a source file in the import registry.
func CreateTestImportedFile(t *testing.T, db *gorm.DB, filename string, count int) *models.ImportedFile {
	t.Helper()

	file := &models.ImportedFile{
		Filename:         filename,
		TransactionCount: count,
		ImportedAt:       time.Now().UTC(),
	}
	if err := db.Create(file).Error; err != nil {
		t.Fatalf("failed to create test imported file: %v", err)
	}
	return file
}

// CreateTestMerchantCategory seeds one category-cache entry.
func CreateTestMerchantCategory(t *testing.T, db *gorm.DB, merchant, category string) *models.MerchantCategory {
	t.Helper()

	entry := &models.MerchantCategory{
		Merchant: merchant,
		Category: category,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test merchant category: %v", err)
	}
	return entry
}
