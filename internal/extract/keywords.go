package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"spendlog/internal/models"
)

// Stage names the keyword strategy that produced a result.
type Stage string

const (
	StageGazetteer   Stage = "gazetteer"
	StageCaps        Stage = "caps"
	StageEntity      Stage = "entity"
	StageCapitalized Stage = "capitalized"
	StageNone        Stage = "none"
)

var (
	capsRunPattern     = regexp.MustCompile(`\b([A-Z][A-Z\s]{2,})\b`)
	capitalizedPattern = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\b`)
)

// entityLabels are the recognizer tags accepted as merchant candidates.
var entityLabels = map[string]bool{"ORG": true, "GPE": true, "PERSON": true}

// Entity is a span tagged by a named-entity recognizer.
type Entity struct {
	Text  string
	Label string
}

// EntityRecognizer tags named entities in text. Implementations must be
// safe for concurrent use.
type EntityRecognizer interface {
	Entities(text string) []Entity
}

// KeywordResult is the outcome of keyword extraction. An empty Keywords
// list with StageNone means the merchant is unknown.
type KeywordResult struct {
	Keywords models.KeywordList
	Stage    Stage
}

// KeywordExtractor locates merchant keywords using an ordered chain of
// strategies: gazetteer, all-caps run, entity recognizer, capitalized words.
type KeywordExtractor struct {
	merchants  []string
	stopwords  map[string]bool
	sentinels  map[string]bool
	recognizer EntityRecognizer
}

// KeywordOption configures a KeywordExtractor.
type KeywordOption func(*KeywordExtractor)

// WithEntityRecognizer enables the named-entity stage.
func WithEntityRecognizer(r EntityRecognizer) KeywordOption {
	return func(x *KeywordExtractor) { x.recognizer = r }
}

// NewKeywordExtractor builds an extractor over vocab. A nil vocab uses the
// built-in defaults.
func NewKeywordExtractor(vocab *Vocabulary, opts ...KeywordOption) *KeywordExtractor {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	x := &KeywordExtractor{
		merchants: make([]string, 0, len(vocab.Merchants)),
		stopwords: lowerSet(vocab.Stopwords),
		sentinels: lowerSet(vocab.CurrencySentinels),
	}
	for _, m := range vocab.Merchants {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
			x.merchants = append(x.merchants, m)
		}
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Extract returns the keywords for text after blanking out the first
// whole-word occurrence of amountMatch.
func (x *KeywordExtractor) Extract(text, amountMatch string) KeywordResult {
	remaining := strings.TrimSpace(removeFirst(text, amountMatch))
	if remaining == "" {
		return KeywordResult{Stage: StageNone}
	}

	stages := []struct {
		stage Stage
		find  func(string) string
	}{
		{StageGazetteer, x.fromGazetteer},
		{StageCaps, x.fromCapsRun},
		{StageEntity, x.fromEntities},
		{StageCapitalized, x.fromCapitalized},
	}
	for _, s := range stages {
		if kw := s.find(remaining); kw != "" {
			return KeywordResult{Keywords: models.KeywordList{}.Add(kw), Stage: s.stage}
		}
	}
	return KeywordResult{Stage: StageNone}
}

func (x *KeywordExtractor) fromGazetteer(text string) string {
	lower := strings.ToLower(text)
	for _, m := range x.merchants {
		if strings.Contains(lower, m) {
			if kw := cases.Title(language.English).String(m); x.accept(kw) {
				return kw
			}
		}
	}
	return ""
}

func (x *KeywordExtractor) fromCapsRun(text string) string {
	for _, run := range capsRunPattern.FindAllString(text, -1) {
		if kw := strings.TrimSpace(run); x.accept(kw) {
			return kw
		}
	}
	return ""
}

func (x *KeywordExtractor) fromEntities(text string) string {
	if x.recognizer == nil {
		return ""
	}
	for _, ent := range x.recognizer.Entities(text) {
		if !entityLabels[ent.Label] {
			continue
		}
		if kw := strings.TrimSpace(ent.Text); x.accept(kw) {
			return kw
		}
	}
	return ""
}

// fromCapitalized splits each title-cased run at stopwords and returns the
// first surviving sub-run.
func (x *KeywordExtractor) fromCapitalized(text string) string {
	for _, run := range capitalizedPattern.FindAllString(text, -1) {
		var words []string
		for _, w := range strings.Fields(run) {
			if x.stopwords[strings.ToLower(w)] {
				if len(words) > 0 {
					break
				}
				continue
			}
			words = append(words, w)
		}
		if kw := strings.Join(words, " "); x.accept(kw) {
			return kw
		}
	}
	return ""
}

func (x *KeywordExtractor) accept(kw string) bool {
	kw = strings.TrimSpace(kw)
	return kw != "" && !x.sentinels[strings.ToLower(kw)]
}

// removeFirst deletes the first occurrence of match bounded by word
// boundaries. Text is returned unchanged when match is empty or absent.
func removeFirst(text, match string) string {
	if match == "" {
		return text
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(match) + `\b`)
	loc := re.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[:loc[0]] + text[loc[1]:]
}

func lowerSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(strings.TrimSpace(w))] = true
	}
	return set
}
