package sheet

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	default:
		return "empty"
	}
}

// Value is a single cell, either as decoded from the source file (a raw cell)
// or after normalization (a canonical value). The zero Value is the canonical
// empty value.
type Value struct {
	Kind   Kind
	Text   string
	Number float64
}

// RawCell is a Value as it comes out of the decoder, before normalization.
type RawCell = Value

// Empty returns the canonical empty value
func Empty() Value { return Value{} }

// Text wraps a string; an empty string is still a text value
func Text(s string) Value { return Value{Kind: KindText, Text: s} }

// Number wraps a float64
func Number(f float64) Value { return Value{Kind: KindNumber, Number: f} }

// IsEmpty reports whether v is the canonical empty value
func (v Value) IsEmpty() bool { return v.Kind == KindEmpty }

// String returns the display form used by the table view and for header names.
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// Float coerces v to a finite number. Text is parsed after trimming
// surrounding whitespace; empty and unparseable values report false.
func (v Value) Float() (float64, bool) {
	var f float64
	switch v.Kind {
	case KindNumber:
		f = v.Number
	case KindText:
		s := strings.TrimSpace(v.Text)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// MarshalJSON writes numbers as JSON numbers, text as strings and the empty
// value as a blank string.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		if math.IsNaN(v.Number) || math.IsInf(v.Number, 0) {
			return json.Marshal(v.String())
		}
		return json.Marshal(v.Number)
	case KindText:
		return json.Marshal(v.Text)
	default:
		return []byte(`""`), nil
	}
}
