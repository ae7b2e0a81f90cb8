package grade

import (
	"strings"
	"unicode"
)

// Script is the target-script hint passed to Normalize, derived from the
// source's locale or country code.
type Script string

const (
	// ScriptNone applies cleaning only, no transliteration.
	ScriptNone Script = ""

	// ScriptCyrillic transliterates Latin letters into Cyrillic with
	// digraph precedence.
	ScriptCyrillic Script = "cyrillic"
)

// cyrillicCountries are the locale hints whose sources publish grade names
// in Cyrillic.
var cyrillicCountries = map[string]bool{
	"RU": true, "BY": true, "KZ": true, "UA": true,
}

// ScriptForCountry maps a country hint to the script its sources use.
func ScriptForCountry(code string) Script {
	if cyrillicCountries[strings.ToUpper(strings.TrimSpace(code))] {
		return ScriptCyrillic
	}
	return ScriptNone
}

// NormalizedKey is the derived, stateless identity of a grade name: the
// cleaned display form plus a script/punctuation-insensitive comparison key.
// It is recomputed on demand and never persisted.
type NormalizedKey struct {
	DisplayForm   string
	ComparisonKey string
}

// trademarkGlyphs are stripped from names wholesale; sources copy them from
// manufacturer marketing material.
var trademarkReplacer = strings.NewReplacer(
	"®", "", "™", "",
	"(R)", "", "(r)", "",
	"(TM)", "", "(tm)", "",
	" ", " ", // non-breaking space
)

// Normalize canonicalizes a raw grade-name string: trademark glyphs and
// non-breaking spaces are stripped, internal whitespace is collapsed, edge
// punctuation is trimmed, and, when hint is ScriptCyrillic, Latin letters
// are transliterated into Cyrillic with longest-digraph precedence.
//
// Normalize is pure and idempotent: feeding its own DisplayForm back in
// with the same hint yields the same result.
func Normalize(raw string, hint Script) NormalizedKey {
	cleaned := clean(raw)
	if hint == ScriptCyrillic {
		cleaned = transliterateToCyrillic(cleaned)
	}
	return NormalizedKey{
		DisplayForm:   cleaned,
		ComparisonKey: ComparisonKey(cleaned),
	}
}

// clean strips trademark glyphs, collapses whitespace runs, and trims
// leading/trailing punctuation.
func clean(raw string) string {
	s := trademarkReplacer.Replace(raw)
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r)
	})
}

// ComparisonKey reduces a normalized name to letters and digits only,
// uppercased.  It answers "same alloy, different spacing/case/hyphenation"
// without claiming cross-script equivalence; transliteration is Normalize's
// job and must already have happened.
func ComparisonKey(normalized string) string {
	var sb strings.Builder
	sb.Grow(len(normalized))
	for _, r := range normalized {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.ToUpper(r))
		}
	}
	return sb.String()
}

// equalText is the textual-equality rule shared by the merger: case
// insensitive, whitespace normalized.
func equalText(a, b string) bool {
	return strings.EqualFold(
		strings.Join(strings.Fields(a), " "),
		strings.Join(strings.Fields(b), " "),
	)
}
