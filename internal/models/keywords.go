package models

import "strings"

// KeywordList is an ordered, set-like list of free-text keywords. The first
// element is conventionally the merchant. Matching is case-insensitive and
// the first-seen spelling is kept for display.
type KeywordList []string

// Add appends each keyword not already present and returns the result.
// Blank entries are ignored and inner whitespace is collapsed.
func (l KeywordList) Add(keywords ...string) KeywordList {
	for _, kw := range keywords {
		kw = CleanKeyword(kw)
		if kw == "" || l.Contains(kw) {
			continue
		}
		l = append(l, kw)
	}
	return l
}

// Contains reports whether kw is present, ignoring case.
func (l KeywordList) Contains(kw string) bool {
	norm := NormalizeKeyword(kw)
	for _, existing := range l {
		if NormalizeKeyword(existing) == norm {
			return true
		}
	}
	return false
}

// Primary returns the first keyword, or "" when the list is empty.
func (l KeywordList) Primary() string {
	if len(l) == 0 {
		return ""
	}
	return l[0]
}

// String joins the keywords for display.
func (l KeywordList) String() string {
	return strings.Join(l, ", ")
}

// ParseKeywordInput splits comma-separated user input into a keyword list.
func ParseKeywordInput(s string) KeywordList {
	return KeywordList{}.Add(strings.Split(s, ",")...)
}

// CleanKeyword trims kw and collapses runs of whitespace to one space.
func CleanKeyword(kw string) string {
	return strings.Join(strings.Fields(kw), " ")
}

// NormalizeKeyword returns the case-folded matching key for kw.
func NormalizeKeyword(kw string) string {
	return strings.ToLower(CleanKeyword(kw))
}
