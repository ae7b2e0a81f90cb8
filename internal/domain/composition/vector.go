// Package composition provides parsing and tolerance-based similarity scoring
// for chemical-composition vectors of alloy grades.  Stored element values are
// either a bare non-negative decimal or a "min-max" range; scoring reduces
// ranges to their midpoint for determinism.
package composition

import (
	"sort"
	"strconv"
	"strings"

	"steeldex/pkg/errors"
)

// AnchorElement must be present in the reference vector before two
// compositions may be compared at all.
const AnchorElement = "c"

// CarbonUpperBound caps carbon content; everything else is bounded by 100%.
const (
	CarbonUpperBound  = 5.0
	DefaultUpperBound = 100.0
)

// Elements lists the fourteen element columns of the catalog in their
// canonical column order.
var Elements = []string{
	"c", "si", "mn", "cr", "ni", "mo", "v", "w", "co", "cu", "ti", "al", "s", "p",
}

// elementSet is the lookup form of Elements.
var elementSet = func() map[string]bool {
	m := make(map[string]bool, len(Elements))
	for _, e := range Elements {
		m[e] = true
	}
	return m
}()

// IsElement reports whether sym is one of the catalog's element symbols.
func IsElement(sym string) bool {
	return elementSet[strings.ToLower(sym)]
}

// elementWeights assigns the importance of each element during similarity
// scoring.  Carbon, chromium, nickel and molybdenum dominate alloy identity;
// the remainder defaults to the low weight.
var elementWeights = map[string]float64{
	"c": 3.0, "cr": 3.0, "ni": 3.0, "mo": 3.0,
	"v": 2.0, "w": 2.0, "co": 2.0, "mn": 2.0, "si": 2.0,
}

const lowWeight = 1.0

// WeightFor returns the scoring weight of an element symbol.
func WeightFor(sym string) float64 {
	if w, ok := elementWeights[strings.ToLower(sym)]; ok {
		return w
	}
	return lowWeight
}

// Value is a parsed element content: a single point or a min-max range.
type Value struct {
	Min     float64
	Max     float64
	IsRange bool
}

// Mid returns the scalar used for comparison: the bare value, or the
// midpoint of a range.
func (v Value) Mid() float64 {
	if v.IsRange {
		return (v.Min + v.Max) / 2
	}
	return v.Min
}

// UpperBoundFor returns the physically plausible upper bound for an element.
func UpperBoundFor(sym string) float64 {
	if strings.ToLower(sym) == AnchorElement {
		return CarbonUpperBound
	}
	return DefaultUpperBound
}

// parseDecimal parses a single non-negative decimal, accepting the decimal
// comma used by the Cyrillic-locale sources.
func parseDecimal(raw string) (float64, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	return f, nil
}

// Parse parses a raw element cell for the given element symbol and validates
// it against the element's physical bounds.  Accepted forms:
//
//	"0.28"        bare decimal
//	"1.45-1.65"   min-max range, min ≤ max
//
// Anything else (negatives, min > max, out-of-bound values, garbage) is a
// CodeMalformedComposition error.  Values are rejected, never clamped.
func Parse(sym, raw string) (Value, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Value{}, errors.New(errors.CodeMalformedComposition, "empty element value").
			WithDetail("element=" + sym)
	}

	bound := UpperBoundFor(sym)

	if lo, hi, ok := splitRange(trimmed); ok {
		min, err := parseDecimal(lo)
		if err != nil {
			return Value{}, malformed(sym, raw, "range lower bound is not a number")
		}
		max, err := parseDecimal(hi)
		if err != nil {
			return Value{}, malformed(sym, raw, "range upper bound is not a number")
		}
		if min > max {
			return Value{}, malformed(sym, raw, "range min exceeds max")
		}
		if min < 0 || max > bound {
			return Value{}, malformed(sym, raw, "range outside physical bounds")
		}
		return Value{Min: min, Max: max, IsRange: true}, nil
	}

	f, err := parseDecimal(trimmed)
	if err != nil {
		return Value{}, malformed(sym, raw, "not a number or min-max range")
	}
	if f < 0 || f > bound {
		return Value{}, malformed(sym, raw, "value outside physical bounds")
	}
	return Value{Min: f, Max: f}, nil
}

// splitRange splits "a-b" into its two halves.  Element values are
// non-negative, so any interior dash is a range separator.
func splitRange(s string) (lo, hi string, ok bool) {
	i := strings.IndexAny(s, "-–")
	if i <= 0 || i >= len(s)-1 {
		return "", "", false
	}
	lo = s[:i]
	// The en-dash is multi-byte; re-slice from the rune boundary.
	_, w := decodeRune(s[i:])
	hi = s[i+w:]
	if strings.ContainsAny(hi, "-–") {
		return "", "", false
	}
	return lo, hi, true
}

func decodeRune(s string) (rune, int) {
	for _, r := range s {
		return r, len(string(r))
	}
	return 0, 0
}

func malformed(sym, raw, reason string) *errors.AppError {
	return errors.New(errors.CodeMalformedComposition, reason).
		WithDetailf("element=%s value=%q", sym, raw)
}

// Vector maps element symbols to parsed values.  Derived from the stored
// text columns on demand, never persisted.
type Vector map[string]Value

// FieldError pairs an element with the parse failure of its raw cell.
type FieldError struct {
	Symbol string
	Raw    string
	Err    error
}

// ParseVector parses every non-empty cell of a raw element mapping.  Cells
// that fail to parse are returned as FieldErrors instead of aborting, so the
// caller can decide whether partial data is acceptable (report-side scans)
// or not (query validation).
func ParseVector(raw map[string]string) (Vector, []FieldError) {
	vec := make(Vector, len(raw))
	var bad []FieldError
	for _, sym := range sortedKeys(raw) {
		cell := strings.TrimSpace(raw[sym])
		if cell == "" {
			continue
		}
		v, err := Parse(sym, cell)
		if err != nil {
			bad = append(bad, FieldError{Symbol: sym, Raw: cell, Err: err})
			continue
		}
		vec[strings.ToLower(sym)] = v
	}
	return vec, bad
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
