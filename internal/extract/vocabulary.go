package extract

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Vocabulary is the static word knowledge the keyword extractor consults.
// It is read-only after construction and safe to share.
type Vocabulary struct {
	// Merchants is the gazetteer, scanned in order. Entries are lower case.
	Merchants []string `yaml:"merchants"`
	// Stopwords are skipped by the capitalized-word heuristic.
	Stopwords []string `yaml:"stopwords"`
	// CurrencySentinels are never accepted as a keyword.
	CurrencySentinels []string `yaml:"currency_sentinels"`
}

// DefaultVocabulary returns the built-in Singapore merchant gazetteer.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		Merchants: []string{
			"7-eleven", "starbucks", "mcdonald's", "kfc", "fairprice", "ntuc",
			"cold storage", "giant", "sheng siong", "guardian", "watsons",
			"grab", "gojek", "foodpanda", "deliveroo", "koufu", "toast box",
			"ya kun kaya toast", "subway", "ikea", "daiso", "singtel", "starhub",
			"m1", "shopee", "lazada", "amazon",
		},
		Stopwords:         []string{"sgd", "spent", "at", "to", "from"},
		CurrencySentinels: []string{"sgd", "$", "s$"},
	}
}

// LoadVocabulary reads a YAML vocabulary file. Lists missing from the file
// keep their built-in defaults.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary %s: %w", path, err)
	}
	return ParseVocabulary(data)
}

// ParseVocabulary decodes a YAML vocabulary document over the defaults.
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	var file Vocabulary
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}

	vocab := DefaultVocabulary()
	if file.Merchants != nil {
		vocab.Merchants = file.Merchants
	}
	if file.Stopwords != nil {
		vocab.Stopwords = file.Stopwords
	}
	if file.CurrencySentinels != nil {
		vocab.CurrencySentinels = file.CurrencySentinels
	}
	return vocab, nil
}
