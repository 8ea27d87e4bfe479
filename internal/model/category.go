package model

import "strings"

// Category is the closed set of expense categories.
type Category string

const (
	CategoryFood           Category = "FOOD"
	CategoryTransportation Category = "TRANSPORTATION"
	CategoryShopping       Category = "SHOPPING"
	CategoryEntertainment  Category = "ENTERTAINMENT"
	CategoryUtilities      Category = "UTILITIES"
	CategoryHealthcare     Category = "HEALTHCARE"
	CategoryGroceries      Category = "GROCERIES"
	CategoryEducation      Category = "EDUCATION"
	CategoryOther          Category = "OTHER"
)

var categoryLabels = map[Category]string{
	CategoryFood:           "Food & Dining",
	CategoryTransportation: "Transportation",
	CategoryShopping:       "Shopping",
	CategoryEntertainment:  "Entertainment",
	CategoryUtilities:      "Utilities",
	CategoryHealthcare:     "Healthcare",
	CategoryGroceries:      "Groceries",
	CategoryEducation:      "Education",
	CategoryOther:          "Other",
}

// Categories returns every category in declaration order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryTransportation,
		CategoryShopping,
		CategoryEntertainment,
		CategoryUtilities,
		CategoryHealthcare,
		CategoryGroceries,
		CategoryEducation,
		CategoryOther,
	}
}

// Label returns the human-readable name of the category.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return categoryLabels[CategoryOther]
}

func (c Category) String() string { return string(c) }

// LookupCategory parses an exact enum name such as "FOOD".
func LookupCategory(s string) (Category, bool) {
	c := Category(s)
	_, ok := categoryLabels[c]
	return c, ok
}

// ParseCategory matches an enum name or display label case-insensitively.
// Unknown input maps to CategoryOther.
func ParseCategory(s string) Category {
	s = strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(s, string(c)) || strings.EqualFold(s, c.Label()) {
			return c
		}
	}
	return CategoryOther
}
