package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/forPelevin/gomoji"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"spendlog/internal/logger"
	"spendlog/internal/models"
)

// Categorizer picks a category for a new transaction.
type Categorizer struct {
	llm     Completer
	model   string
	timeout time.Duration
	log     *zap.SugaredLogger
}

// NewCategorizer creates a Categorizer. A nil llm leaves every transaction
// Uncategorized.
func NewCategorizer(llm Completer, model string, timeout time.Duration) *Categorizer {
	return &Categorizer{llm: llm, model: model, timeout: timeout, log: logger.Named("categorizer")}
}

// Categorize asks the model for the category of amount spent at keyword.
// A reply outside the category list is Other; a failed call is
// Uncategorized.
func (c *Categorizer) Categorize(ctx context.Context, keyword string, amount decimal.Decimal) models.Category {
	if c == nil || c.llm == nil {
		return models.CategoryUncategorized
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	names := make([]string, 0, len(models.ClassifiableCategories))
	for _, cat := range models.ClassifiableCategories {
		names = append(names, cat.String())
	}

	reply, err := c.llm.Complete(ctx, Request{
		Model:     c.model,
		System:    "You are a helpful assistant that categorizes expenses. Respond with only one category from this list: " + strings.Join(names, ", "),
		Prompt:    fmt.Sprintf("What is the category for a transaction of SGD %s at '%s'?", amount.StringFixed(2), keyword),
		MaxTokens: 20,
	})
	if err != nil {
		c.log.Warnw("categorization failed", "keyword", keyword, "error", err)
		return models.CategoryUncategorized
	}

	return matchCategory(reply)
}

func matchCategory(reply string) models.Category {
	clean := strings.Trim(strings.TrimSpace(gomoji.RemoveEmojis(reply)), `"'.`)
	for _, cat := range models.ClassifiableCategories {
		if strings.EqualFold(clean, cat.String()) {
			return cat
		}
	}
	return models.CategoryOther
}
