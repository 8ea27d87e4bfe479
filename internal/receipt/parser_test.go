package receipt

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/spendlens/internal/model"
)

var parseNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

const restaurantReceipt = `RESTAURANT ABC
123 Main St
Date: 11/12/2023

Item 1       $15.50
Item 2       $20.00

SUBTOTAL     $35.50
TAX          $3.55
TOTAL        $39.05

Thank you!`

func amountOf(t *testing.T, d model.ReceiptData) float64 {
	t.Helper()
	if d.Amount == nil {
		t.Fatal("Amount = nil")
	}
	return *d.Amount
}

func TestParse_FullReceipt(t *testing.T) {
	d := Parse(restaurantReceipt, parseNow, nil)

	if got := amountOf(t, d); got != 39.05 {
		t.Fatalf("Amount = %v, want 39.05", got)
	}
	if !d.DateFound || !d.Date.Equal(time.Date(2023, time.December, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("Date = %v (found %v), want 2023-12-11", d.Date, d.DateFound)
	}
	if d.Merchant != "RESTAURANT ABC" {
		t.Fatalf("Merchant = %q", d.Merchant)
	}
	if d.Category != model.CategoryFood {
		t.Fatalf("Category = %s, want FOOD", d.Category)
	}
	if math.Abs(d.Confidence-1.0) > 1e-9 {
		t.Fatalf("Confidence = %v, want 1.0", d.Confidence)
	}
	if len(d.Items) != 9 || d.Items[0] != "RESTAURANT ABC" {
		t.Fatalf("Items = %q", d.Items)
	}
}

func TestParse_Amounts(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"labelled", "Store Name\nTotal: $125.99\nDate: 01/15/2024", 125.99},
		{"dollar sign", "Coffee $4.50\nMuffin $3.25", 3.25},
		{"currency code", "Summe 12,50 EUR", 12.50},
		{"bare", "paid 18.40 cash", 18.40},
		{"label beats dollar", "Item $99.99\nAmount 10.00", 10.00},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := amountOf(t, Parse(tt.text, parseNow, nil)); got != tt.want {
				t.Fatalf("Amount = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParse_ZeroTotalFallsThrough(t *testing.T) {
	d := Parse("Total: 0.00\nCard $7.20", parseNow, nil)
	if got := amountOf(t, d); got != 7.20 {
		t.Fatalf("Amount = %v, want 7.20", got)
	}
}

func TestParse_Dates(t *testing.T) {
	tests := []struct {
		text string
		want time.Time
	}{
		{"Date: 12/31/2023 Total: $10.00", time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)},
		{"Date: 2023-12-31 Total: $10.00", time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)},
		{"05-03-24", time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		d := Parse(tt.text, parseNow, nil)
		if !d.DateFound || !d.Date.Equal(tt.want) {
			t.Errorf("Parse(%q).Date = %v (found %v), want %v", tt.text, d.Date, d.DateFound, tt.want)
		}
	}
}

func TestParse_NoDateUsesNow(t *testing.T) {
	for _, text := range []string{"Total: $5.00", "Date: 31/02/2024 Total: $5.00"} {
		d := Parse(text, parseNow, nil)
		if d.DateFound || !d.Date.Equal(parseNow) {
			t.Errorf("Parse(%q).Date = %v (found %v), want now", text, d.Date, d.DateFound)
		}
	}
}

func TestParse_Merchant(t *testing.T) {
	d := Parse("Target Store\n123 Main Street\nTotal: $50.00", parseNow, nil)
	if !strings.Contains(d.Merchant, "Target") {
		t.Fatalf("Merchant = %q, want it to contain Target", d.Merchant)
	}

	d = Parse("  \n7-eleven #402\nTotal: $3.00", parseNow, nil)
	if d.Merchant != "7-eleven #402" {
		t.Fatalf("Merchant = %q, want first non-blank line", d.Merchant)
	}

	d = Parse("42\n", parseNow, nil)
	if d.Merchant != "" {
		t.Fatalf("Merchant = %q, want empty", d.Merchant)
	}
}

func TestParse_Category(t *testing.T) {
	d := Parse("PHARMACY PLUS\nTotal: $25.50", parseNow, nil)
	if d.Category != model.CategoryHealthcare {
		t.Fatalf("Category = %s, want HEALTHCARE", d.Category)
	}
}

func TestParse_LowConfidence(t *testing.T) {
	d := Parse("Some random text without amount or date", parseNow, nil)
	if d.Amount != nil {
		t.Fatalf("Amount = %v, want nil", *d.Amount)
	}
	if d.Confidence >= 0.5 {
		t.Fatalf("Confidence = %v, want < 0.5", d.Confidence)
	}
}

func TestParse_ItemsLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("1234\nab\n")
	for i := 0; i < 15; i++ {
		b.WriteString("Widget line\n")
	}
	d := Parse(b.String(), parseNow, nil)
	if len(d.Items) != MaxItems {
		t.Fatalf("got %d items, want %d", len(d.Items), MaxItems)
	}
	for _, it := range d.Items {
		if it != "Widget line" {
			t.Fatalf("unexpected item %q", it)
		}
	}
}

type fixedCategory model.Category

func (f fixedCategory) Classify(string) model.Category { return model.Category(f) }

func TestParse_CustomCategorizer(t *testing.T) {
	d := Parse("anything", parseNow, fixedCategory(model.CategoryEducation))
	if d.Category != model.CategoryEducation {
		t.Fatalf("Category = %s, want EDUCATION", d.Category)
	}
}
