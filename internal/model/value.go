package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ValueKind tags how an observation was encoded in the persisted series.
type ValueKind int

const (
	KindNumber    ValueKind = iota // plain JSON number
	KindFormatted                  // numeric string with grouping separators, e.g. "108,862"
	KindInvalid                    // string that does not parse as a number
)

// Value is a single observation, resolved to a float64 at ingestion.
// Raw keeps the original text of string-encoded values so they round-trip on save.
type Value struct {
	Kind ValueKind
	Num  float64
	Raw  string
}

// Number returns a Value for a plain numeric observation.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// ParseFormatted resolves a string-encoded observation. Thousands separators
// and surrounding whitespace are ignored; anything else that is not a finite
// decimal yields an Invalid value.
func ParseFormatted(s string) Value {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	d, err := decimal.NewFromString(clean)
	if clean == "" || err != nil {
		return Value{Kind: KindInvalid, Raw: s}
	}
	f := d.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return Value{Kind: KindInvalid, Raw: s}
	}
	return Value{Kind: KindFormatted, Num: f, Raw: s}
}

// Float returns the numeric value and whether it is usable in arithmetic.
func (v Value) Float() (float64, bool) {
	if v.Kind == KindInvalid {
		return 0, false
	}
	return v.Num, true
}

// MarshalJSON writes numbers as numbers and string-encoded values verbatim.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Kind == KindNumber {
		return json.Marshal(v.Num)
	}
	return json.Marshal(v.Raw)
}

// UnmarshalJSON accepts a JSON number or string. Other JSON types are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case float64:
		*v = Number(x)
	case string:
		*v = ParseFormatted(x)
	default:
		return fmt.Errorf("value %s is neither a number nor a numeric string", string(data))
	}
	return nil
}
