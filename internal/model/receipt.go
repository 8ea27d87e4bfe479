package model

import (
	"strings"
	"time"
)

// ReceiptData is what the receipt parser extracts from recognized text.
type ReceiptData struct {
	RawText    string
	Amount     *float64
	Date       time.Time
	DateFound  bool
	Merchant   string
	Items      []string
	Category   Category
	Confidence float64
}

// Region selects a regional merchant table.
type Region string

const (
	RegionUK           Region = "UK"
	RegionEurope       Region = "EUROPE"
	RegionNorthAmerica Region = "NORTH_AMERICA"
	RegionSouthAmerica Region = "SOUTH_AMERICA"
	RegionAsia         Region = "ASIA"
	RegionOceania      Region = "OCEANIA"
)

// ParseRegion accepts the enum name in any case; unknown input maps to Europe.
func ParseRegion(s string) Region {
	for _, r := range []Region{RegionUK, RegionEurope, RegionNorthAmerica, RegionSouthAmerica, RegionAsia, RegionOceania} {
		if normalizeEnum(s) == string(r) {
			return r
		}
	}
	return RegionEurope
}

func normalizeEnum(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
}
