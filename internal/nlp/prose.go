// Package nlp adapts a named-entity recognizer to the keyword extractor.
package nlp

import (
	"github.com/jdkato/prose/v2"
	"go.uber.org/zap"

	"spendlog/internal/extract"
	"spendlog/internal/logger"
)

// ProseRecognizer tags entities with prose's bundled English model.
type ProseRecognizer struct {
	log *zap.SugaredLogger
}

// NewProseRecognizer creates a ProseRecognizer.
func NewProseRecognizer() *ProseRecognizer {
	return &ProseRecognizer{log: logger.Named("nlp")}
}

var _ extract.EntityRecognizer = (*ProseRecognizer)(nil)

// Entities returns the entities found in text in document order. Tagging
// failures yield no entities.
func (r *ProseRecognizer) Entities(text string) []extract.Entity {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		r.log.Warnw("entity tagging failed", "error", err)
		return nil
	}

	ents := doc.Entities()
	out := make([]extract.Entity, 0, len(ents))
	for _, e := range ents {
		out = append(out, extract.Entity{Text: e.Text, Label: e.Label})
	}
	return out
}
