// Package ai wraps the hosted language models used to categorize expenses,
// classify spending questions and summarize reports.
package ai

import (
	"context"
	"strings"
	"time"
)

// Request is one prompt exchange.
type Request struct {
	// Model overrides the completer's default model when set.
	Model       string
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
	// JSON asks the model for a single JSON object.
	JSON bool
}

// Completer sends a prompt to a hosted model and returns its text reply.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// WithTimeout bounds every call to llm by d. A non-positive d returns llm
// unchanged.
func WithTimeout(llm Completer, d time.Duration) Completer {
	if llm == nil || d <= 0 {
		return llm
	}
	return timeoutCompleter{llm: llm, timeout: d}
}

type timeoutCompleter struct {
	llm     Completer
	timeout time.Duration
}

func (t timeoutCompleter) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.llm.Complete(ctx, req)
}

// cleanModelJSON strips Markdown fences and any text around the outermost
// JSON object.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		idx := strings.Index(s, "\n")
		if idx == -1 {
			return s
		}
		s = strings.TrimSpace(s[idx+1:])
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}
	return s
}
