package models

import "strings"

// Category is the closed set of spending categories a transaction can carry.
type Category string

const (
	CategoryFoodDrinks     Category = "Food & Drinks"
	CategoryTransport      Category = "Transport"
	CategoryShopping       Category = "Shopping"
	CategoryGroceries      Category = "Groceries"
	CategoryBillsUtilities Category = "Bills & Utilities"
	CategoryEntertainment  Category = "Entertainment"
	CategoryHealth         Category = "Health"
	CategoryServices       Category = "Services"
	CategoryOther          Category = "Other"
	CategoryUncategorized  Category = "Uncategorized"
)

// ClassifiableCategories are the outcomes a classifier may choose from.
// Uncategorized is reserved for classification failure.
var ClassifiableCategories = []Category{
	CategoryFoodDrinks,
	CategoryTransport,
	CategoryShopping,
	CategoryGroceries,
	CategoryBillsUtilities,
	CategoryEntertainment,
	CategoryHealth,
	CategoryServices,
	CategoryOther,
}

// AllCategories lists every category, Uncategorized last.
var AllCategories = append(append([]Category{}, ClassifiableCategories...), CategoryUncategorized)

// ParseCategory matches s against the enumeration case-insensitively.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range AllCategories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// String returns the display name.
func (c Category) String() string { return string(c) }
