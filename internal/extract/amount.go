package extract

import (
	"regexp"

	"github.com/shopspring/decimal"
)

var (
	// A currency marker, optional whitespace, then 0-2 decimal places.
	taggedAmountPattern = regexp.MustCompile(`(?i)(?:SGD|S\$|\$)\s*(\d+(?:\.\d{1,2})?)`)
	bareAmountPattern   = regexp.MustCompile(`\d+(?:\.\d{1,2})?`)
)

// Amount is a monetary value located in a text.
type Amount struct {
	Value decimal.Decimal
	// Match is the digits exactly as they appeared, used to blank the
	// amount out before keyword extraction.
	Match string
	// Tagged is true when a currency marker preceded the number.
	Tagged bool
}

// ExtractAmount finds the amount in text. A currency-tagged number wins over
// any bare number; otherwise the last bare number is taken. ok is false when
// the text has no number at all.
func ExtractAmount(text string) (amount Amount, ok bool) {
	if m := taggedAmountPattern.FindStringSubmatch(text); m != nil {
		return newAmount(m[1], true)
	}

	found := bareAmountPattern.FindAllString(text, -1)
	if len(found) == 0 {
		return Amount{}, false
	}
	return newAmount(found[len(found)-1], false)
}

func newAmount(match string, tagged bool) (Amount, bool) {
	value, err := decimal.NewFromString(match)
	if err != nil {
		return Amount{}, false
	}
	return Amount{Value: value.Round(2), Match: match, Tagged: tagged}, true
}
