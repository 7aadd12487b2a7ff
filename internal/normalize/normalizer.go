// Package normalize turns raw decoded cells into canonical display values.
package normalize

import (
	"math"

	"sheetchart/domain/sheet"

	"github.com/xuri/excelize/v2"
)

// DateLayout renders a date serial as DD-MM-YYYY HH:MM:SS
const DateLayout = "02-01-2006 15:04:05"

// DateSerialRule decides which plain numbers are treated as spreadsheet date
// serials. The test is a numeric range check with no cell format involved, so
// a measurement that happens to fall inside the range is rendered as a date.
type DateSerialRule struct {
	Enabled bool    `json:"enabled"`
	Min     float64 `json:"min"` // exclusive
	Max     float64 `json:"max"` // exclusive
	Layout  string  `json:"layout"`
}

// DefaultDateSerialRule returns the (30000, 60000) range, roughly the years
// 1982 to 2064 in the 1900 date system.
func DefaultDateSerialRule() DateSerialRule {
	return DateSerialRule{
		Enabled: true,
		Min:     30000,
		Max:     60000,
		Layout:  DateLayout,
	}
}

// Matches reports whether f falls strictly inside the rule's range
func (r DateSerialRule) Matches(f float64) bool {
	return r.Enabled && f > r.Min && f < r.Max
}

// Normalizer applies the date serial rule to raw cells
type Normalizer struct {
	rule     DateSerialRule
	date1904 bool
}

// NewNormalizer creates a normalizer with the given rule
func NewNormalizer(rule DateSerialRule) *Normalizer {
	if rule.Layout == "" {
		rule.Layout = DateLayout
	}
	return &Normalizer{rule: rule}
}

// ForWorkbook returns a copy of n that converts serials in the 1904 date
// system when date1904 is set.
func (n *Normalizer) ForWorkbook(date1904 bool) *Normalizer {
	c := *n
	c.date1904 = date1904
	return &c
}

// Rule returns the active date serial rule
func (n *Normalizer) Rule() DateSerialRule {
	return n.rule
}

// Normalize maps a raw cell to its canonical value. It never fails: values
// outside the date rule, text and empty cells pass through unchanged.
func (n *Normalizer) Normalize(v sheet.RawCell) sheet.Value {
	if v.Kind != sheet.KindNumber {
		return v
	}
	if math.IsNaN(v.Number) || math.IsInf(v.Number, 0) || !n.rule.Matches(v.Number) {
		return v
	}

	t, err := excelize.ExcelDateToTime(v.Number, n.date1904)
	if err != nil {
		return v
	}
	return sheet.Text(t.Format(n.rule.Layout))
}
