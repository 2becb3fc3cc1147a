package services

import (
	"context"
	"strings"

	apperrors "spendlog/internal/errors"
	"spendlog/internal/extract"
	"spendlog/internal/logger"
	"spendlog/internal/metrics"
	"spendlog/internal/models"
	"spendlog/internal/pagination"
	"spendlog/internal/store"
)

// Extraction outcomes recorded in metrics.
const (
	outcomeExtracted    = "extracted"
	outcomeNeedsKeyword = "needs_keyword"
	outcomeNoAmount     = "no_amount"
)

// expenseService handles expense extraction and ledger writes.
type expenseService struct {
	store       store.Store
	pipeline    *extract.Pipeline
	categorizer Categorizer
	currency    string
	metrics     *metrics.Metrics
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(st store.Store, pipeline *extract.Pipeline, categorizer Categorizer, currency string, m *metrics.Metrics) ExpenseServicer {
	if pipeline == nil {
		pipeline = extract.NewPipeline(nil)
	}
	if currency == "" {
		currency = "SGD"
	}
	return &expenseService{
		store:       st,
		pipeline:    pipeline,
		categorizer: categorizer,
		currency:    strings.ToUpper(currency),
		metrics:     m,
	}
}

// Extract runs the extraction pipeline and returns a draft. Only a missing
// amount is an error.
func (s *expenseService) Extract(ctx context.Context, text string) (*Draft, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "text is required")
	}

	candidate, err := s.pipeline.Extract(text)
	if err != nil {
		s.metrics.ObserveExtraction(outcomeNoAmount, string(extract.StageNone))
		return nil, err
	}

	draft := newDraft(candidate, s.currency, models.SourceText)
	if draft.NeedsKeyword {
		s.metrics.ObserveExtraction(outcomeNeedsKeyword, string(candidate.Stage))
	} else {
		s.metrics.ObserveExtraction(outcomeExtracted, string(candidate.Stage))
	}
	return draft, nil
}

func newDraft(c *extract.Candidate, currency string, source models.TransactionSource) *Draft {
	d := &Draft{
		Amount:       c.Amount,
		Currency:     currency,
		Keywords:     c.Keywords,
		Stage:        c.Stage,
		RawText:      c.RawText,
		Source:       source,
		NeedsKeyword: c.NeedsKeyword(),
	}
	if d.NeedsKeyword {
		d.Prompt = extract.KeywordPrompt
	}
	return d
}

// Record validates and persists an expense. The category comes from the
// categorizer keyed on the first keyword.
func (s *expenseService) Record(ctx context.Context, in RecordInput) (*models.Transaction, error) {
	var keywords models.KeywordList

	amount := in.Amount
	if amount == nil {
		candidate, err := s.pipeline.Extract(in.Text)
		if err != nil {
			return nil, err
		}
		amount = &candidate.Amount
		keywords = keywords.Add(candidate.Keywords...)
	}
	keywords = keywords.Add(in.Keywords...)

	value := amount.Round(2)
	if !value.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}
	if len(keywords) == 0 {
		return nil, apperrors.ErrKeywordRequired
	}

	source := in.Source
	if source == "" {
		source = models.SourceText
	}
	currency := s.currency
	if in.Currency != "" {
		currency = strings.ToUpper(in.Currency)
	}

	category := models.CategoryUncategorized
	if s.categorizer != nil {
		category = s.categorizer.Categorize(ctx, keywords.Primary(), value)
	}
	s.metrics.ObserveCategorization(string(category))

	tx := &models.Transaction{
		Amount:   models.ToCents(value),
		Currency: currency,
		Category: category,
		RawText:  in.Text,
		Source:   source,
		ImageURL: in.ImageURL,
	}
	tx.SetKeywords(keywords)

	if err := s.store.Create(ctx, tx); err != nil {
		logger.Get().Errorw("failed to record transaction", "error", err, "keyword", keywords.Primary())
		return nil, err
	}
	return tx, nil
}

// AddKeywords appends keywords to an existing transaction.
func (s *expenseService) AddKeywords(ctx context.Context, id string, keywords models.KeywordList) (*models.Transaction, error) {
	var clean models.KeywordList
	clean = clean.Add(keywords...)
	if len(clean) == 0 {
		return nil, apperrors.ErrKeywordRequired
	}
	return s.store.AddKeywords(ctx, id, clean)
}

// Get retrieves a transaction by ID.
func (s *expenseService) Get(ctx context.Context, id string) (*models.Transaction, error) {
	return s.store.Get(ctx, id)
}

// Delete soft-deletes a transaction by ID.
func (s *expenseService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// List returns a page of transactions, newest first.
func (s *expenseService) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()
	return s.store.List(ctx, page)
}
