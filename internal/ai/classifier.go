package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	apperrors "spendlog/internal/errors"
	"spendlog/internal/intent"
	"spendlog/internal/logger"
)

const classifyPrompt = "You are a query parsing expert. Analyze the user's request and extract information into a JSON object. " +
	"The JSON should have: 'action' ('summarize' or 'list'), 'timeframe' (day, today, week, this week, month, all), " +
	"'filter_type' (category, keywords, none), and 'filter_value' (the specific name or 'none'). " +
	"If the user asks to 'show', 'list', or 'see' transactions, the action is 'list'. Otherwise, it's 'summarize'. " +
	"IMPORTANT: For filter_type classification:\n" +
	"- Use 'category' ONLY for general spending categories like 'food', 'transport', 'shopping', 'entertainment', 'health', 'bills', 'groceries'\n" +
	"- Use 'keywords' for ANY specific names, places, brands, merchants, or single words that are not general categories\n" +
	"- Examples of keywords: 'starbucks', 'jem', 'ntuc', 'fairprice', 'grab', 'mala', 'coffee', 'lunch'\n" +
	"- If unsure, default to 'keywords'\n\n" +
	"If the user says 'today', set timeframe to 'day'. If 'this week' or 'week', set timeframe to 'week'. " +
	"If 'this month' or 'month', set timeframe to 'month'. If 'all', set timeframe to 'all'.\n\n" +
	"User request: %q"

// IntentClassifier turns a spending question into a raw intent map.
type IntentClassifier struct {
	llm   Completer
	model string
	log   *zap.SugaredLogger
}

// NewIntentClassifier creates an IntentClassifier.
func NewIntentClassifier(llm Completer, model string) *IntentClassifier {
	return &IntentClassifier{llm: llm, model: model, log: logger.Named("classifier")}
}

// Classify returns the model's reading of query. Without a model it fails
// with ErrClassifierUnavailable; a failed call or unreadable reply fails
// with ErrQueryParseFailed.
func (c *IntentClassifier) Classify(ctx context.Context, query string) (intent.Raw, error) {
	if c == nil || c.llm == nil {
		return nil, apperrors.ErrClassifierUnavailable
	}

	reply, err := c.llm.Complete(ctx, Request{
		Model:  c.model,
		Prompt: fmt.Sprintf(classifyPrompt, query),
		JSON:   true,
	})
	if err != nil {
		c.log.Warnw("query classification failed", "query", query, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrQueryParseFailed, err)
	}

	raw, err := parseRaw(reply)
	if err != nil {
		c.log.Warnw("unreadable classifier reply", "reply", reply, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrQueryParseFailed, err)
	}
	return raw, nil
}

// parseRaw reads a classifier reply. Non-string values are kept in their
// JSON form; nulls are dropped.
func parseRaw(reply string) (intent.Raw, error) {
	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(cleanModelJSON(reply)), &fields); err != nil {
		return nil, fmt.Errorf("decode classifier reply: %w", err)
	}

	raw := make(intent.Raw, len(fields))
	for k, v := range fields {
		switch val := v.(type) {
		case nil:
		case string:
			raw[k] = val
		default:
			b, err := json.Marshal(val)
			if err != nil {
				return nil, fmt.Errorf("encode %s: %w", k, err)
			}
			raw[k] = string(b)
		}
	}
	return raw, nil
}
