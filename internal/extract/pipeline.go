// Package extract turns free-form expense text, typed or OCR output, into a
// structured transaction candidate.
package extract

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "spendlog/internal/errors"
	"spendlog/internal/models"
)

// KeywordPrompt is shown when no merchant keyword could be found.
const KeywordPrompt = "I found the amount but not where you spent it. Please send keywords for this transaction (e.g. merchant, place, tags), separated by commas."

// Candidate is an extracted, not yet persisted transaction. Category is left
// empty for the classifier to fill.
type Candidate struct {
	Amount    decimal.Decimal
	Keywords  models.KeywordList
	Category  models.Category
	RawText   string
	CreatedAt time.Time
	Stage     Stage
}

// NeedsKeyword reports whether the caller must ask the user for a keyword.
func (c *Candidate) NeedsKeyword() bool {
	return len(c.Keywords) == 0
}

// Pipeline runs amount and keyword extraction over one text.
type Pipeline struct {
	keywords *KeywordExtractor
	now      func() time.Time
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithClock overrides the candidate timestamp source.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) { p.now = now }
}

// NewPipeline creates a Pipeline. A nil extractor uses the default vocabulary.
func NewPipeline(keywords *KeywordExtractor, opts ...PipelineOption) *Pipeline {
	if keywords == nil {
		keywords = NewKeywordExtractor(nil)
	}
	p := &Pipeline{keywords: keywords, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Extract builds a candidate from text. It fails with ErrNoAmountFound when
// the text has no number; a missing keyword is not an error and yields an
// empty keyword list.
func (p *Pipeline) Extract(text string) (*Candidate, error) {
	clean := strings.TrimSpace(text)

	amount, ok := ExtractAmount(clean)
	if !ok {
		return nil, apperrors.ErrNoAmountFound
	}

	kw := p.keywords.Extract(clean, amount.Match)
	return &Candidate{
		Amount:    amount.Value,
		Keywords:  kw.Keywords,
		RawText:   text,
		CreatedAt: p.now(),
		Stage:     kw.Stage,
	}, nil
}
