package nlp

import (
	"testing"

	"spendlog/internal/extract"
	"spendlog/internal/logger"
)

func init() {
	logger.Init("test")
}

func TestProseRecognizer_Entities(t *testing.T) {
	r := NewProseRecognizer()

	t.Run("empty_text", func(t *testing.T) {
		if got := r.Entities(""); len(got) != 0 {
			t.Errorf("expected no entities, got %v", got)
		}
	})

	t.Run("entities_keep_text_and_label", func(t *testing.T) {
		for _, e := range r.Entities("Dinner with Sarah Lim in Singapore") {
			if e.Text == "" || e.Label == "" {
				t.Errorf("expected populated entity, got %+v", e)
			}
		}
	})

	t.Run("feeds_the_entity_stage", func(t *testing.T) {
		vocab := &extract.Vocabulary{Stopwords: []string{"at"}, CurrencySentinels: []string{"sgd"}}
		kx := extract.NewKeywordExtractor(vocab, extract.WithEntityRecognizer(r))

		got := kx.Extract("$5 dinner", "5")
		if got.Stage == extract.StageGazetteer || got.Stage == extract.StageCaps {
			t.Errorf("unexpected stage %s for lower-case text", got.Stage)
		}
	})
}
