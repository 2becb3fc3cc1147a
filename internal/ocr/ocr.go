// Package ocr turns receipt uploads into text for the extraction pipeline.
package ocr

import (
	"context"
	"net/http"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"

	apperrors "spendlog/internal/errors"
	"spendlog/internal/logger"
)

// Supported upload types.
const (
	MediaJPEG = "image/jpeg"
	MediaPNG  = "image/png"
	MediaPDF  = "application/pdf"
)

// Engine recognizes the text in a preprocessed PNG image.
type Engine interface {
	Recognize(ctx context.Context, png []byte) (string, error)
}

// Reader extracts text from receipt photos and PDFs.
type Reader struct {
	engine Engine
	log    *zap.SugaredLogger
}

// NewReader creates a Reader. Without an engine only PDFs can be read.
func NewReader(engine Engine) *Reader {
	return &Reader{engine: engine, log: logger.Named("ocr")}
}

// MediaType resolves the type of an upload, sniffing the content when the
// declared type is missing or generic.
func MediaType(declared string, data []byte) string {
	mt := strings.ToLower(strings.TrimSpace(strings.Split(declared, ";")[0]))
	if mt == "" || mt == "application/octet-stream" {
		mt = http.DetectContentType(data)
	}
	if mt == "image/jpg" {
		mt = MediaJPEG
	}
	return mt
}

// Text returns the trimmed text of an upload. It fails with
// ErrUnsupportedMedia for other types and ErrOCRFailed when nothing could
// be read.
func (r *Reader) Text(ctx context.Context, data []byte, mediaType string) (string, error) {
	var (
		text string
		err  error
	)
	switch mt := MediaType(mediaType, data); mt {
	case MediaPDF:
		text, err = r.pdfText(data)
	case MediaJPEG, MediaPNG:
		text, err = r.imageText(ctx, data)
	default:
		return "", apperrors.ErrUnsupportedMedia
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperrors.ErrOCRFailed
	}
	r.log.Debugw("receipt text extracted", "length", len(text))
	return text, nil
}

func (r *Reader) imageText(ctx context.Context, data []byte) (string, error) {
	if r.engine == nil {
		return "", apperrors.WithMessage(apperrors.ErrOCRFailed, "Image receipts are not supported on this server")
	}

	prepared, err := Preprocess(data)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrOCRFailed, err)
	}

	text, err := r.engine.Recognize(ctx, prepared)
	if err != nil {
		r.log.Warnw("ocr engine failed", "error", err)
		return "", apperrors.Wrap(apperrors.ErrOCRFailed, err)
	}
	return text, nil
}

func (r *Reader) pdfText(data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrOCRFailed, err)
	}
	defer doc.Close()

	var b strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		page, err := doc.Text(i)
		if err != nil {
			r.log.Warnw("failed to extract text from page", "page", i+1, "error", err)
			continue
		}
		if page != "" {
			b.WriteString(page)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}
