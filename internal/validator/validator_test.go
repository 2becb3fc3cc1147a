package validator

import (
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
)

func init() {
	Register()
}

type sample struct {
	Currency string   `binding:"omitempty,iso4217"`
	Source   string   `binding:"omitempty,transaction_source"`
	Category string   `binding:"omitempty,category"`
	Keywords []string `binding:"dive,keyword"`
}

func TestRegister(t *testing.T) {
	cases := []struct {
		name  string
		in    sample
		valid bool
	}{
		{"empty_is_valid", sample{}, true},
		{"full_valid", sample{Currency: "SGD", Source: "image", Category: "food & drinks", Keywords: []string{"Koufu", " lunch "}}, true},
		{"unknown_currency", sample{Currency: "XYZ"}, false},
		{"unknown_source", sample{Source: "email"}, false},
		{"unknown_category", sample{Category: "Travel"}, false},
		{"blank_keyword", sample{Keywords: []string{"Koufu", "   "}}, false},
		{"long_keyword", sample{Keywords: []string{strings.Repeat("k", maxKeywordLength+1)}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&tc.in)
			if tc.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tc.valid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidCurrency(t *testing.T) {
	if !ValidCurrency("sgd") || !ValidCurrency("USD") {
		t.Error("expected SGD and USD to be valid")
	}
	if ValidCurrency("S$") {
		t.Error("expected S$ to be invalid")
	}
}
