// Package tesseract recognizes receipt text with the Tesseract OCR engine.
package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"spendlog/internal/ocr"
)

// Engine runs Tesseract on a single block of text, the layout of a
// typical receipt.
type Engine struct {
	languages []string
}

// New creates an Engine for the given Tesseract language codes. No
// languages means English.
func New(languages ...string) *Engine {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &Engine{languages: languages}
}

var _ ocr.Engine = (*Engine)(nil)

// Languages returns the configured language codes.
func (e *Engine) Languages() []string {
	return append([]string(nil), e.languages...)
}

// Recognize creates a client per call; gosseract clients are not safe for
// concurrent use.
func (e *Engine) Recognize(ctx context.Context, png []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.languages...); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("set page segmentation: %w", err)
	}
	if err := client.SetImageFromBytes(png); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	return text, nil
}
