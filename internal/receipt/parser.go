// Package receipt extracts expense fields from recognized receipt text.
// Text recognition itself happens elsewhere; this package only reads the
// resulting plain text.
package receipt

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/theirongolddev/spendlens/internal/classify"
	"github.com/theirongolddev/spendlens/internal/model"
)

// MaxItems bounds ReceiptData.Items.
const MaxItems = 10

// Confidence weights.
const (
	weightAmount   = 0.5
	weightDate     = 0.2
	weightMerchant = 0.3
)

// Tried in order. The last match of the first pattern that yields a
// positive amount wins, which favours the grand total over line items.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:TOTAL|Total|AMOUNT|Amount|SUBTOTAL|Subtotal)[:\s]*\$?(\d+[.,]\d{2})`),
	regexp.MustCompile(`\$\s*(\d+[.,]\d{2})`),
	regexp.MustCompile(`(\d+[.,]\d{2})\s*(?:USD|EUR|GBP|BRL)`),
	regexp.MustCompile(`(?:^|\s)(\d+[.,]\d{2})(?:\s|$)`),
}

var (
	dayFirstDate  = regexp.MustCompile(`(?:^|\D)(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})(?:\D|$)`)
	yearFirstDate = regexp.MustCompile(`(?:^|\D)(\d{4})[/-](\d{1,2})[/-](\d{1,2})(?:\D|$)`)
	merchantLine  = regexp.MustCompile(`(?m)^([A-Z][A-Za-z \t&'-]{2,30})(?:[ \t]|$)`)
	nonAmount     = regexp.MustCompile(`[^0-9.,]`)
	allDigits     = regexp.MustCompile(`^\d+$`)
)

// Categorizer picks a category for free text.
type Categorizer interface {
	Classify(text string) model.Category
}

// Parse extracts amount, date, merchant, items and a category from raw.
// When no date is found, Date is now and DateFound is false. A nil
// categorizer uses the default keyword rules.
func Parse(raw string, now time.Time, c Categorizer) model.ReceiptData {
	if c == nil {
		c = classify.New(nil)
	}

	data := model.ReceiptData{
		RawText:  raw,
		Amount:   extractAmount(raw),
		Merchant: extractMerchant(raw),
		Items:    extractItems(raw),
		Category: c.Classify(raw),
	}
	data.Date, data.DateFound = extractDate(raw, now)

	if data.Amount != nil {
		data.Confidence += weightAmount
	}
	if data.DateFound {
		data.Confidence += weightDate
	}
	if data.Merchant != "" {
		data.Confidence += weightMerchant
	}
	return data
}

func extractAmount(text string) *float64 {
	for _, p := range amountPatterns {
		matches := p.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}
		last := matches[len(matches)-1][1]
		if amount, ok := parseAmount(last); ok {
			return &amount
		}
	}
	return nil
}

func parseAmount(s string) (float64, bool) {
	s = strings.ReplaceAll(nonAmount.ReplaceAllString(s, ""), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func extractDate(text string, now time.Time) (time.Time, bool) {
	for _, m := range dayFirstDate.FindAllStringSubmatch(text, -1) {
		d, mo, y := atoi(m[1]), atoi(m[2]), atoi(m[3])
		// 12/31/2023 only makes sense month first.
		if mo > 12 && d <= 12 {
			d, mo = mo, d
		}
		switch len(m[3]) {
		case 2:
			y += 2000
		case 3:
			continue
		}
		if t, ok := validDate(y, mo, d, now.Location()); ok {
			return t, true
		}
	}
	for _, m := range yearFirstDate.FindAllStringSubmatch(text, -1) {
		if t, ok := validDate(atoi(m[1]), atoi(m[2]), atoi(m[3]), now.Location()); ok {
			return t, true
		}
	}
	return now, false
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// validDate rejects dates that time.Date would normalize, such as 31/02.
func validDate(y, m, d int, loc *time.Location) (time.Time, bool) {
	if m < 1 || m > 12 || d < 1 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc)
	if t.Day() != d || int(t.Month()) != m {
		return time.Time{}, false
	}
	return t, true
}

func extractMerchant(text string) string {
	if m := merchantLine.FindStringSubmatch(text); m != nil {
		if name := strings.TrimSpace(m[1]); len(name) >= 3 {
			return name
		}
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if n := len([]rune(line)); n >= 3 && n <= 50 {
			return line
		}
		return ""
	}
	return ""
}

func extractItems(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len([]rune(line)) <= 3 || allDigits.MatchString(line) || !strings.ContainsFunc(line, unicode.IsLetter) {
			continue
		}
		items = append(items, line)
		if len(items) == MaxItems {
			break
		}
	}
	return items
}
