package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"spendlog/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewTestTransaction builds an unsaved transaction of cents in category,
// created at the given instant, with the given keywords.
func NewTestTransaction(cents int64, category models.Category, createdAt time.Time, keywords ...string) *models.Transaction {
	tx := &models.Transaction{
		Amount:   cents,
		Currency: "SGD",
		Category: category,
		RawText:  fmt.Sprintf("fixture %d", nextID()),
		Source:   models.SourceText,
	}
	tx.CreatedAt = createdAt
	tx.SetKeywords(models.KeywordList{}.Add(keywords...))
	return tx
}

// CreateTestTransaction persists a transaction built by NewTestTransaction.
func CreateTestTransaction(t *testing.T, db *gorm.DB, cents int64, category models.Category, createdAt time.Time, keywords ...string) *models.Transaction {
	t.Helper()

	tx := NewTestTransaction(cents, category, createdAt, keywords...)
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
