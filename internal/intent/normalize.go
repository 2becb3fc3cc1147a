package intent

import (
	"regexp"
	"strings"
)

var (
	singleWordPattern = regexp.MustCompile(`^[\p{L}\p{N}_]+$`)
	atPlacePattern    = regexp.MustCompile(`(?i)\bat\s+\w+`)
)

// listSignals are the words that turn a query into an itemized listing.
var listSignals = []string{"show", "list", "see"}

var timeframes = map[string]Timeframe{
	"today":      TimeframeDay,
	"day":        TimeframeDay,
	"this week":  TimeframeWeek,
	"week":       TimeframeWeek,
	"this month": TimeframeMonth,
	"month":      TimeframeMonth,
	"all":        TimeframeAll,
}

// Normalize resolves raw into an Intent for the user's query text. It never
// fails: unknown or missing values fall back to summarize, week and no
// filter.
//
// A query that is a single bare word, or that names a place with "at X",
// is always a keyword query whatever the classifier said.
func Normalize(query string, raw Raw) Intent {
	out := Intent{
		Action:      normalizeAction(raw[KeyAction]),
		Timeframe:   normalizeTimeframe(raw[KeyTimeframe]),
		FilterKind:  normalizeFilterKind(raw[KeyFilterType]),
		FilterValue: normalizeFilterValue(raw[KeyFilterValue]),
	}
	if ForcesKeywords(query) {
		out.FilterKind = FilterKeywords
	}
	return out
}

// ForcesKeywords reports whether query text alone decides a keyword filter.
func ForcesKeywords(query string) bool {
	q := strings.TrimSpace(query)
	return singleWordPattern.MatchString(q) || atPlacePattern.MatchString(q)
}

func normalizeAction(s string) Action {
	s = strings.ToLower(s)
	for _, signal := range listSignals {
		if strings.Contains(s, signal) {
			return ActionList
		}
	}
	return ActionSummarize
}

func normalizeTimeframe(s string) Timeframe {
	key := strings.Join(strings.Fields(strings.ToLower(s)), " ")
	if tf, ok := timeframes[key]; ok {
		return tf
	}
	return TimeframeWeek
}

func normalizeFilterKind(s string) FilterKind {
	switch FilterKind(strings.ToLower(strings.TrimSpace(s))) {
	case FilterCategory:
		return FilterCategory
	case FilterKeywords:
		return FilterKeywords
	default:
		return FilterNone
	}
}

func normalizeFilterValue(s string) string {
	v := strings.TrimSpace(s)
	if strings.EqualFold(v, "none") {
		return ""
	}
	return v
}
