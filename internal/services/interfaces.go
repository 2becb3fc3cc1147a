package services

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"spendlog/internal/extract"
	"spendlog/internal/intent"
	"spendlog/internal/models"
	"spendlog/internal/pagination"
	"spendlog/internal/query"
)

// Categorizer assigns a category to a transaction from its first keyword.
// It never fails; an unavailable model yields Uncategorized.
type Categorizer interface {
	Categorize(ctx context.Context, keyword string, amount decimal.Decimal) models.Category
}

// IntentClassifier turns a spending question into raw intent fields.
type IntentClassifier interface {
	Classify(ctx context.Context, query string) (intent.Raw, error)
}

// Summarizer writes a prose answer from aggregate data.
type Summarizer interface {
	Summarize(ctx context.Context, query string, data interface{}) (string, error)
}

// TextReader reads text out of an uploaded receipt.
type TextReader interface {
	Text(ctx context.Context, data []byte, mediaType string) (string, error)
}

// Draft is an extracted expense awaiting confirmation.
type Draft struct {
	Amount       decimal.Decimal
	Currency     string
	Keywords     models.KeywordList
	Stage        extract.Stage
	RawText      string
	Source       models.TransactionSource
	ImageURL     *string
	NeedsKeyword bool
	Prompt       string
}

// MarshalJSON renders the amount with two decimal places.
func (d Draft) MarshalJSON() ([]byte, error) {
	keywords := d.Keywords
	if keywords == nil {
		keywords = models.KeywordList{}
	}
	return json.Marshal(struct {
		Amount       string                   `json:"amount"`
		Currency     string                   `json:"currency"`
		Keywords     models.KeywordList       `json:"keywords"`
		Stage        extract.Stage            `json:"stage"`
		RawText      string                   `json:"raw_text"`
		Source       models.TransactionSource `json:"source"`
		ImageURL     *string                  `json:"image_url,omitempty"`
		NeedsKeyword bool                     `json:"needs_keyword"`
		Prompt       string                   `json:"prompt,omitempty"`
	}{
		Amount:       d.Amount.StringFixed(2),
		Currency:     d.Currency,
		Keywords:     keywords,
		Stage:        d.Stage,
		RawText:      d.RawText,
		Source:       d.Source,
		ImageURL:     d.ImageURL,
		NeedsKeyword: d.NeedsKeyword,
		Prompt:       d.Prompt,
	})
}

// RecordInput holds the fields for recording an expense. When Amount is nil
// it is extracted from Text, along with any keywords found there. An empty
// Currency uses the ledger default.
type RecordInput struct {
	Text     string
	Keywords models.KeywordList
	Amount   *decimal.Decimal
	Currency string
	Source   models.TransactionSource
	ImageURL *string
}

// ExpenseServicer defines the contract for recording and managing expenses.
type ExpenseServicer interface {
	Extract(ctx context.Context, text string) (*Draft, error)
	Record(ctx context.Context, in RecordInput) (*models.Transaction, error)
	AddKeywords(ctx context.Context, id string, keywords models.KeywordList) (*models.Transaction, error)
	Get(ctx context.Context, id string) (*models.Transaction, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
}

// ReceiptServicer defines the contract for turning receipt uploads into drafts.
type ReceiptServicer interface {
	Scan(ctx context.Context, data []byte, mediaType string) (*Draft, error)
}

// ReportGroup is one aggregate row as rendered to clients.
type ReportGroup struct {
	Key   string `json:"key,omitempty"`
	Total string `json:"total"`
	Count int64  `json:"count"`
}

// Report is the answer to a spending question.
type Report struct {
	Query        string               `json:"query"`
	Intent       intent.Intent        `json:"intent"`
	Plan         string               `json:"plan"`
	Groups       []ReportGroup        `json:"groups,omitempty"`
	Categories   []ReportGroup        `json:"categories,omitempty"`
	Transactions []models.Transaction `json:"transactions,omitempty"`
	Total        string               `json:"total"`
	Count        int64                `json:"count"`
	Average      string               `json:"average"`
	Text         string               `json:"text"`
}

// ReportServicer defines the contract for answering spending questions.
type ReportServicer interface {
	Report(ctx context.Context, queryText string) (*Report, error)
	// Compile normalizes raw and compiles it without a language model.
	Compile(queryText string, raw intent.Raw) query.Plan
}

// Reply kinds.
const (
	ReplyDraft  = "draft"
	ReplyReport = "report"
)

// Reply is the routed answer to a free-form chat message.
type Reply struct {
	Kind   string  `json:"kind"`
	Draft  *Draft  `json:"draft,omitempty"`
	Report *Report `json:"report,omitempty"`
}

// MessageServicer defines the contract for routing chat messages.
type MessageServicer interface {
	Handle(ctx context.Context, text string) (*Reply, error)
}
