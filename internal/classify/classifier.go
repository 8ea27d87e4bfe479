package classify

import (
	"strings"
	"unicode"

	"github.com/theirongolddev/spendlens/internal/model"

	"golang.org/x/text/cases"
)

const (
	confidenceMerchant = 0.9
	confidenceKeyword  = 0.7
	confidenceFallback = 0.3

	// Keys shorter than this only match whole words ("ee" must not match "coffee").
	minSubstringKey = 4
	// Merchant names shorter than this never match as a substring of a key.
	minReverseMatch = 3
)

// Prediction is a suggested category with a confidence in [0, 1].
type Prediction struct {
	Category   model.Category
	Confidence float64
}

// Classifier assigns categories using an ordered keyword rule table.
// It is safe for concurrent use; rules are copied at construction.
type Classifier struct {
	rules []Rule
}

// New returns a classifier over rules. A nil slice uses DefaultRules.
func New(rules []Rule) *Classifier {
	if rules == nil {
		rules = DefaultRules()
	}
	cp := make([]Rule, len(rules))
	for i, r := range rules {
		kw := make([]string, len(r.Keywords))
		for j, k := range r.Keywords {
			kw[j] = normalize(k)
		}
		cp[i] = Rule{Category: r.Category, Keywords: kw}
	}
	return &Classifier{rules: cp}
}

// Classify returns the category of the first rule with a keyword in text,
// or CategoryOther.
func (c *Classifier) Classify(text string) model.Category {
	cat, _ := c.match(text)
	return cat
}

// Predict classifies a description and optional merchant together.
func (c *Classifier) Predict(description, merchant string) Prediction {
	cat, ok := c.match(description + " " + merchant)
	if !ok {
		return Prediction{Category: model.CategoryOther, Confidence: confidenceFallback}
	}
	return Prediction{Category: cat, Confidence: confidenceKeyword}
}

func (c *Classifier) match(text string) (model.Category, bool) {
	s := normalize(text)
	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if kw != "" && strings.Contains(s, kw) {
				return r.Category, true
			}
		}
	}
	return model.CategoryOther, false
}

// Regional consults merchant tables before falling back to keyword rules.
type Regional struct {
	Rules     *Classifier
	Merchants MerchantTable
	Region    model.Region
}

// NewRegional returns a regional classifier using the built-in tables.
func NewRegional(region model.Region) *Regional {
	return &Regional{
		Rules:     New(nil),
		Merchants: DefaultMerchants(),
		Region:    region,
	}
}

// Predict tries the merchant in the configured region, then every region,
// then the keyword rules over description and merchant.
func (r *Regional) Predict(description, merchant string) Prediction {
	if merchant != "" {
		if cat, ok := r.Merchants.Lookup(r.Region, merchant); ok {
			return Prediction{Category: cat, Confidence: confidenceMerchant}
		}
		if cat, ok := r.Merchants.SearchGlobal(merchant); ok {
			return Prediction{Category: cat, Confidence: confidenceMerchant}
		}
	}
	return r.Rules.Predict(description, merchant)
}

// Classify is Predict without the confidence.
func (r *Regional) Classify(description, merchant string) model.Category {
	return r.Predict(description, merchant).Category
}

func normalize(s string) string {
	return strings.TrimSpace(cases.Fold().String(s))
}

func contains(s, sub string) bool {
	return sub != "" && strings.Contains(s, sub)
}

// containsKey matches key inside name, on word boundaries for short keys.
func containsKey(name, key string) bool {
	if len(key) >= minSubstringKey {
		return contains(name, key)
	}
	for i := 0; ; {
		j := strings.Index(name[i:], key)
		if j < 0 || key == "" {
			return false
		}
		start := i + j
		end := start + len(key)
		if boundary(name, start-1) && boundary(name, end) {
			return true
		}
		i = start + 1
		if i >= len(name) {
			return false
		}
	}
}

func boundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	r := rune(s[i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
