package services

import (
	"context"
	"strings"

	"spendlog/internal/archive"
	apperrors "spendlog/internal/errors"
	"spendlog/internal/extract"
	"spendlog/internal/logger"
	"spendlog/internal/metrics"
	"spendlog/internal/models"
	"spendlog/internal/ocr"
)

// receiptService turns receipt uploads into drafts.
type receiptService struct {
	reader   TextReader
	archiver archive.Archiver
	pipeline *extract.Pipeline
	currency string
	metrics  *metrics.Metrics
}

// NewReceiptService creates a new ReceiptServicer. A nil archiver keeps no
// copy of the upload.
func NewReceiptService(reader TextReader, archiver archive.Archiver, pipeline *extract.Pipeline, currency string, m *metrics.Metrics) ReceiptServicer {
	if archiver == nil {
		archiver = archive.Nop{}
	}
	if pipeline == nil {
		pipeline = extract.NewPipeline(nil)
	}
	if currency == "" {
		currency = "SGD"
	}
	return &receiptService{
		reader:   reader,
		archiver: archiver,
		pipeline: pipeline,
		currency: strings.ToUpper(currency),
		metrics:  m,
	}
}

// Scan reads the receipt, extracts a draft and archives the upload. Receipt
// drafts always ask for keywords. A failed archive leaves ImageURL nil.
func (s *receiptService) Scan(ctx context.Context, data []byte, mediaType string) (*Draft, error) {
	if len(data) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "receipt file is empty")
	}
	mediaType = ocr.MediaType(mediaType, data)

	text, err := s.reader.Text(ctx, data, mediaType)
	if err != nil {
		return nil, err
	}

	candidate, err := s.pipeline.Extract(text)
	if err != nil {
		s.metrics.ObserveExtraction(outcomeNoAmount, string(extract.StageNone))
		return nil, err
	}

	draft := newDraft(candidate, s.currency, models.SourceImage)
	draft.NeedsKeyword = true
	draft.Prompt = extract.KeywordPrompt
	s.metrics.ObserveExtraction(outcomeNeedsKeyword, string(candidate.Stage))

	url, err := s.archiver.Store(ctx, mediaType, data)
	if err != nil {
		logger.Get().Warnw("failed to archive receipt", "error", err, "media_type", mediaType, "size", len(data))
	} else if url != "" {
		draft.ImageURL = &url
	}
	return draft, nil
}
