package services

import (
	"context"
	"strings"

	apperrors "spendlog/internal/errors"
	"spendlog/internal/extract"
)

// messageService routes free-form chat text to expense extraction or to the
// spending-query flow.
type messageService struct {
	expenses ExpenseServicer
	reports  ReportServicer
}

// NewMessageService creates a new MessageServicer.
func NewMessageService(expenses ExpenseServicer, reports ReportServicer) MessageServicer {
	return &messageService{expenses: expenses, reports: reports}
}

// Handle answers text with a draft when it looks like an expense and with a
// report otherwise.
func (s *messageService) Handle(ctx context.Context, text string) (*Reply, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "text is required")
	}

	if extract.LooksLikeTransaction(text) {
		draft, err := s.expenses.Extract(ctx, text)
		if err != nil {
			return nil, err
		}
		return &Reply{Kind: ReplyDraft, Draft: draft}, nil
	}

	report, err := s.reports.Report(ctx, text)
	if err != nil {
		return nil, err
	}
	return &Reply{Kind: ReplyReport, Report: report}, nil
}
