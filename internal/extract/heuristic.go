package extract

import "regexp"

var transactionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\$\d+(?:\.\d{1,2})?`),
	regexp.MustCompile(`(?i)SGD\s*\d+(?:\.\d{1,2})?`),
	regexp.MustCompile(`(?i)\d+(?:\.\d{1,2})?\s*(?:dollars?|bucks?)`),
}

// LooksLikeTransaction reports whether text reads like an expense to record
// rather than a spending question.
func LooksLikeTransaction(text string) bool {
	for _, p := range transactionPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
