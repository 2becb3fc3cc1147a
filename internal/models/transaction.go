package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionSource records how a transaction entered the ledger.
type TransactionSource string

const (
	SourceText  TransactionSource = "text"
	SourceImage TransactionSource = "image"
)

// Transaction is a persisted expense. Amount is stored in cents.
type Transaction struct {
	Base
	Amount   int64             `gorm:"type:bigint;not null" json:"-"`
	Currency string            `gorm:"size:3;not null;default:'SGD'" json:"currency"`
	Category Category          `gorm:"size:32;not null;default:'Uncategorized';index" json:"category"`
	RawText  string            `gorm:"type:text" json:"raw_text"`
	Source   TransactionSource `gorm:"size:8;not null;default:'text'" json:"source"`
	ImageURL *string           `json:"image_url,omitempty"`

	Keywords []TransactionKeyword `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"-"`
}

// TransactionKeyword is one element of a transaction's keyword list.
// Normalized holds the case-folded form used for matching and dedup.
type TransactionKeyword struct {
	ID            uint   `gorm:"primaryKey" json:"-"`
	TransactionID string `gorm:"type:uuid;not null;uniqueIndex:idx_transaction_keyword" json:"-"`
	Position      int    `gorm:"not null" json:"-"`
	Value         string `gorm:"size:128;not null" json:"value"`
	Normalized    string `gorm:"size:128;not null;uniqueIndex:idx_transaction_keyword;index" json:"-"`
}

// Decimal returns the amount as a decimal in currency units.
func (t *Transaction) Decimal() decimal.Decimal {
	return FromCents(t.Amount)
}

// KeywordList returns the keyword values in insertion order.
func (t *Transaction) KeywordList() KeywordList {
	list := make(KeywordList, 0, len(t.Keywords))
	for _, k := range t.Keywords {
		list = list.Add(k.Value)
	}
	return list
}

// SetKeywords replaces the keyword rows with list, preserving order.
func (t *Transaction) SetKeywords(list KeywordList) {
	t.Keywords = make([]TransactionKeyword, 0, len(list))
	for i, v := range list {
		t.Keywords = append(t.Keywords, TransactionKeyword{
			TransactionID: t.ID,
			Position:      i,
			Value:         v,
			Normalized:    NormalizeKeyword(v),
		})
	}
}

// MarshalJSON renders the amount in currency units with two places and the
// keywords as a plain list.
func (t Transaction) MarshalJSON() ([]byte, error) {
	keywords := t.KeywordList()
	return json.Marshal(struct {
		ID        string            `json:"id"`
		Amount    string            `json:"amount"`
		Currency  string            `json:"currency"`
		Category  Category          `json:"category"`
		Keywords  KeywordList       `json:"keywords"`
		RawText   string            `json:"raw_text"`
		Source    TransactionSource `json:"source"`
		ImageURL  *string           `json:"image_url,omitempty"`
		CreatedAt time.Time         `json:"created_at"`
		UpdatedAt time.Time         `json:"updated_at"`
	}{
		ID:        t.ID,
		Amount:    t.Decimal().StringFixed(2),
		Currency:  t.Currency,
		Category:  t.Category,
		Keywords:  keywords,
		RawText:   t.RawText,
		Source:    t.Source,
		ImageURL:  t.ImageURL,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	})
}
