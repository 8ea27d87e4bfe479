package classify

import (
	"testing"

	"github.com/theirongolddev/spendlens/internal/model"
)

func TestClassifyKeywordRules(t *testing.T) {
	c := New(nil)
	tests := []struct {
		text string
		want model.Category
	}{
		{"Lunch at Restaurant", model.CategoryFood},
		{"COFFEE beans", model.CategoryFood},
		{"Taxi to airport", model.CategoryTransportation},
		{"fuel top-up", model.CategoryTransportation},
		{"Clothing store", model.CategoryShopping},
		{"cinema tickets", model.CategoryEntertainment},
		{"Internet bill", model.CategoryUtilities},
		{"pharmacy", model.CategoryHealthcare},
		{"Weekly grocery run", model.CategoryGroceries},
		{"University fees", model.CategoryEducation},
		{"rent", model.CategoryOther},
		{"", model.CategoryOther},
	}
	for _, tt := range tests {
		if got := c.Classify(tt.text); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestClassifyFirstRuleWins(t *testing.T) {
	c := New(nil)
	// "food" (FOOD) appears in the rule table before "market" (GROCERIES).
	if got := c.Classify("food market"); got != model.CategoryFood {
		t.Fatalf("Classify(food market) = %s, want FOOD", got)
	}
	// "shop" (SHOPPING) is checked before "book" (EDUCATION).
	if got := c.Classify("book shop"); got != model.CategoryShopping {
		t.Fatalf("Classify(book shop) = %s, want SHOPPING", got)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := New(nil)
	inputs := []string{"uber eats coffee", "Gas station", "random text", "Ünïcode Café"}
	for _, in := range inputs {
		first := c.Classify(in)
		for i := 0; i < 50; i++ {
			if got := c.Classify(in); got != first {
				t.Fatalf("Classify(%q) changed from %s to %s", in, first, got)
			}
		}
	}
}

func TestInjectedRules(t *testing.T) {
	c := New([]Rule{{Category: model.CategoryEducation, Keywords: []string{"Udemy"}}})
	if got := c.Classify("udemy subscription"); got != model.CategoryEducation {
		t.Fatalf("Classify = %s, want EDUCATION", got)
	}
	// Built-in keywords are not consulted when a custom table is supplied.
	if got := c.Classify("restaurant"); got != model.CategoryOther {
		t.Fatalf("Classify(restaurant) = %s, want OTHER", got)
	}
}

func TestPredictConfidence(t *testing.T) {
	c := New(nil)
	p := c.Predict("Dinner", "Joe's Restaurant")
	if p.Category != model.CategoryFood || p.Confidence != 0.7 {
		t.Fatalf("Predict = %+v, want FOOD/0.7", p)
	}
	p = c.Predict("Stuff", "")
	if p.Category != model.CategoryOther || p.Confidence != 0.3 {
		t.Fatalf("Predict = %+v, want OTHER/0.3", p)
	}
}

func TestMerchantLookupByRegion(t *testing.T) {
	m := DefaultMerchants()

	if cat, ok := m.Lookup(model.RegionUK, "Tesco"); !ok || cat != model.CategoryFood {
		t.Fatalf("Lookup(UK, Tesco) = %s, %v", cat, ok)
	}
	if cat, ok := m.Lookup(model.RegionUK, "BOOTS PHARMACY #12"); !ok || cat != model.CategoryHealthcare {
		t.Fatalf("Lookup(UK, Boots) = %s, %v", cat, ok)
	}
	// Asia falls back to the European table.
	if cat, ok := m.Lookup(model.RegionAsia, "Zalando"); !ok || cat != model.CategoryShopping {
		t.Fatalf("Lookup(ASIA, Zalando) = %s, %v", cat, ok)
	}
	if _, ok := m.Lookup(model.RegionNorthAmerica, "Tesco"); ok {
		t.Fatal("Lookup(NA, Tesco) matched")
	}
}

func TestShortKeysMatchWholeWords(t *testing.T) {
	m := DefaultMerchants()
	if cat, ok := m.Lookup(model.RegionUK, "coffee corner"); ok {
		t.Fatalf("coffee matched short key as %s", cat)
	}
	if cat, ok := m.Lookup(model.RegionUK, "EE mobile"); !ok || cat != model.CategoryUtilities {
		t.Fatalf("Lookup(EE mobile) = %s, %v", cat, ok)
	}
}

func TestSearchGlobal(t *testing.T) {
	m := DefaultMerchants()
	if cat, ok := m.SearchGlobal("Chipotle Mexican Grill"); !ok || cat != model.CategoryFood {
		t.Fatalf("SearchGlobal(Chipotle) = %s, %v", cat, ok)
	}
	// The key contains the merchant name.
	if cat, ok := m.SearchGlobal("cinewor"); !ok || cat != model.CategoryEntertainment {
		t.Fatalf("SearchGlobal(cinewor) = %s, %v", cat, ok)
	}
	if _, ok := m.SearchGlobal("zz"); ok {
		t.Fatal("SearchGlobal(zz) matched")
	}
}

func TestRegionalPredict(t *testing.T) {
	r := NewRegional(model.RegionNorthAmerica)

	p := r.Predict("Groceries", "Kroger")
	if p.Category != model.CategoryFood || p.Confidence != 0.9 {
		t.Fatalf("Predict(Kroger) = %+v", p)
	}
	// Not in NA, found by the global search.
	if got := r.Classify("weekly shop", "Sainsbury's"); got != model.CategoryFood {
		t.Fatalf("Classify(Sainsbury's) = %s", got)
	}
	// Unknown merchant falls back to keyword rules.
	if got := r.Classify("taxi home", "Joe Cabs"); got != model.CategoryTransportation {
		t.Fatalf("Classify(taxi) = %s", got)
	}
}
