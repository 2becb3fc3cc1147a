package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "spendlog/internal/errors"
)

const summaryPrompt = "You are a smart financial assistant who says only necessary information. " +
	"Based on the following JSON data, write a short, simple-easy-to-read summary. " +
	"Address the user's original query directly. Mention the total amount and number of transactions if relevant.\n\n" +
	"User's Original Query: %q\n" +
	"Data: %s"

// Summarizer writes a short prose answer from aggregate report data.
type Summarizer struct {
	llm   Completer
	model string
}

// NewSummarizer creates a Summarizer.
func NewSummarizer(llm Completer, model string) *Summarizer {
	return &Summarizer{llm: llm, model: model}
}

// Summarize renders data, which must be JSON-encodable, as an answer to
// query.
func (s *Summarizer) Summarize(ctx context.Context, query string, data interface{}) (string, error) {
	if s == nil || s.llm == nil {
		return "", apperrors.ErrClassifierUnavailable
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode summary data: %w", err)
	}

	reply, err := s.llm.Complete(ctx, Request{
		Model:       s.model,
		Prompt:      fmt.Sprintf(summaryPrompt, query, payload),
		Temperature: 0.7,
		MaxTokens:   300,
	})
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(reply)
	if text == "" {
		return "", fmt.Errorf("empty summary")
	}
	return text, nil
}
