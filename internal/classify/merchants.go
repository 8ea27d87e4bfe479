package classify

import "github.com/theirongolddev/spendlens/internal/model"

// MerchantEntry maps a lowercase merchant key to a category.
type MerchantEntry struct {
	Key      string
	Category model.Category
}

// MerchantTable holds ordered merchant entries per region.
type MerchantTable map[model.Region][]MerchantEntry

// searchOrder is the region order used by the global fallback search.
var searchOrder = []model.Region{
	model.RegionUK,
	model.RegionEurope,
	model.RegionNorthAmerica,
	model.RegionSouthAmerica,
}

func entries(cat model.Category, keys ...string) []MerchantEntry {
	out := make([]MerchantEntry, len(keys))
	for i, k := range keys {
		out[i] = MerchantEntry{Key: k, Category: cat}
	}
	return out
}

func concat(parts ...[]MerchantEntry) []MerchantEntry {
	var out []MerchantEntry
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// DefaultMerchants returns the built-in regional merchant tables.
func DefaultMerchants() MerchantTable {
	const (
		food    = model.CategoryFood
		trans   = model.CategoryTransportation
		shop    = model.CategoryShopping
		fun     = model.CategoryEntertainment
		utility = model.CategoryUtilities
		health  = model.CategoryHealthcare
	)

	return MerchantTable{
		model.RegionUK: concat(
			entries(food, "tesco", "sainsburys", "sainsbury's", "asda", "morrisons", "waitrose",
				"aldi", "lidl", "co-op", "coop", "marks & spencer", "m&s"),
			entries(food, "nandos", "nando's", "pret a manger", "pret", "greggs", "costa",
				"starbucks", "wagamama", "pizza express", "deliveroo", "uber eats", "just eat"),
			entries(trans, "tfl", "transport for london", "uber", "national rail", "trainline",
				"gwr", "lner", "avanti", "bp", "shell", "esso", "texaco"),
			entries(shop, "amazon", "ebay", "argos", "john lewis", "next", "primark", "zara", "h&m"),
			entries(health, "boots", "superdrug"),
			entries(fun, "netflix", "spotify", "disney+", "amazon prime", "sky", "odeon", "vue", "cineworld"),
			entries(utility, "british gas", "edf", "eon", "ee", "vodafone", "o2", "three", "bt", "virgin media"),
		),
		model.RegionEurope: concat(
			entries(food, "carrefour", "lidl", "aldi", "rewe", "edeka", "auchan", "mercadona",
				"albert heijn", "jumbo"),
			entries(food, "starbucks", "mcdonald's", "burger king", "kfc", "deliveroo", "uber eats",
				"lieferando", "just eat"),
			entries(trans, "uber", "bolt", "sncf", "deutsche bahn", "db", "renfe", "trenitalia",
				"shell", "total", "bp"),
			entries(shop, "amazon", "zalando", "h&m", "zara", "ikea", "decathlon"),
			entries(fun, "netflix", "spotify", "disney+", "amazon prime"),
		),
		model.RegionNorthAmerica: concat(
			entries(food, "walmart", "target", "kroger", "costco", "whole foods", "trader joe's", "safeway"),
			entries(food, "mcdonald's", "starbucks", "chipotle", "subway", "doordash", "uber eats", "grubhub"),
			entries(trans, "uber", "lyft", "shell", "chevron", "exxon"),
			entries(shop, "amazon", "ebay", "best buy", "macy's"),
			entries(fun, "netflix", "spotify", "hulu", "disney+"),
		),
		model.RegionSouthAmerica: concat(
			entries(food, "ifood", "rappi", "uber eats", "pao de acucar", "carrefour", "extra"),
			entries(trans, "uber", "99"),
			entries(utility, "nubank"),
			entries(fun, "netflix", "spotify"),
		),
	}
}

// ForRegion returns the entries for region. Asia and Oceania have no table
// of their own and use the European one.
func (t MerchantTable) ForRegion(region model.Region) []MerchantEntry {
	switch region {
	case model.RegionAsia, model.RegionOceania:
		return t[model.RegionEurope]
	}
	return t[region]
}

// Lookup finds merchant in the region's table: an exact key match first,
// then a key contained in the merchant name.
func (t MerchantTable) Lookup(region model.Region, merchant string) (model.Category, bool) {
	name := normalize(merchant)
	if name == "" {
		return "", false
	}
	list := t.ForRegion(region)
	for _, e := range list {
		if e.Key == name {
			return e.Category, true
		}
	}
	for _, e := range list {
		if containsKey(name, e.Key) {
			return e.Category, true
		}
	}
	return "", false
}

// SearchGlobal scans every regional table in a fixed order and returns the
// first entry where the merchant contains the key or the key contains the
// merchant.
func (t MerchantTable) SearchGlobal(merchant string) (model.Category, bool) {
	name := normalize(merchant)
	if name == "" {
		return "", false
	}
	for _, region := range searchOrder {
		for _, e := range t[region] {
			if containsKey(name, e.Key) || (len(name) >= minReverseMatch && contains(e.Key, name)) {
				return e.Category, true
			}
		}
	}
	return "", false
}
