// Package classify maps free text and merchant names to expense categories.
package classify

import "github.com/theirongolddev/spendlens/internal/model"

// Rule assigns Category when any keyword occurs in the text.
type Rule struct {
	Category model.Category
	Keywords []string
}

// DefaultRules returns the built-in keyword table. Order matters: the first
// matching rule wins. Each call returns a fresh slice.
func DefaultRules() []Rule {
	return []Rule{
		{model.CategoryFood, []string{"restaurant", "food", "cafe", "coffee"}},
		{model.CategoryTransportation, []string{"uber", "taxi", "gas", "fuel"}},
		{model.CategoryShopping, []string{"store", "shop", "clothing"}},
		{model.CategoryEntertainment, []string{"movie", "cinema", "game"}},
		{model.CategoryUtilities, []string{"electric", "water", "internet", "phone"}},
		{model.CategoryHealthcare, []string{"pharmacy", "doctor", "hospital", "clinic"}},
		{model.CategoryGroceries, []string{"supermarket", "grocery", "market"}},
		{model.CategoryEducation, []string{"school", "university", "course", "book"}},
	}
}
