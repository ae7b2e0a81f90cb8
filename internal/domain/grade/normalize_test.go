package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Cleaning(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"collapses whitespace", "  X12   MF  ", "X12 MF"},
		{"strips non breaking space", "X12 MF", "X12 MF"},
		{"strips trademark glyphs", "Vanadis® 4", "Vanadis 4"},
		{"strips textual trademark", "Vanadis 4 (TM)", "Vanadis 4"},
		{"trims edge punctuation", "«255»,", "255"},
		{"keeps interior hyphen", "S6-5-2", "S6-5-2"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw, ScriptNone).DisplayForm)
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, raw := range []string{"Х12МФ", "Kh12MF", "  S 6-5-2 ® ", "255"} {
		for _, hint := range []Script{ScriptNone, ScriptCyrillic} {
			once := Normalize(raw, hint)
			twice := Normalize(once.DisplayForm, hint)
			assert.Equal(t, once, twice, "raw=%q hint=%q", raw, hint)
		}
	}
}

func TestNormalize_KeySymmetry(t *testing.T) {
	n := "Kh 12-MF"
	assert.Equal(t,
		ComparisonKey(Normalize(n, ScriptNone).DisplayForm),
		ComparisonKey(Normalize(Normalize(n, ScriptNone).DisplayForm, ScriptNone).DisplayForm),
	)
}

func TestNormalize_DigraphPrecedence(t *testing.T) {
	upper := Normalize("KH12MF", ScriptCyrillic)
	mixed := Normalize("Kh12mf", ScriptCyrillic)

	assert.Equal(t, "Х12МФ", upper.DisplayForm)
	assert.Equal(t, upper, mixed, "transliteration is case-variant aware")

	// KH as a digraph maps to one letter; K then H applied independently
	// would produce two (КХ).
	assert.NotEqual(t, "КХ12МФ", upper.DisplayForm)
}

func TestNormalize_LongestDigraphWins(t *testing.T) {
	// SHCH must be consumed as one unit, not SH + CH or S+H+...
	assert.Equal(t, "Щ12", Normalize("SHCH12", ScriptCyrillic).DisplayForm)
	assert.Equal(t, "Ш12", Normalize("SH12", ScriptCyrillic).DisplayForm)
}

func TestNormalize_CyrillicNoOp(t *testing.T) {
	// Re-normalizing an already-correct-script name changes nothing.
	got := Normalize("Х12МФ", ScriptCyrillic)
	assert.Equal(t, "Х12МФ", got.DisplayForm)
}

func TestNormalize_UnmappedRunesPassThrough(t *testing.T) {
	got := Normalize("9KhS-2", ScriptCyrillic)
	assert.Equal(t, "9ХС-2", got.DisplayForm)
}

func TestComparisonKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"X12 MF", "X12MF"},
		{"x12-mf", "X12MF"},
		{"Х12МФ", "Х12МФ"},
		{"S 6-5-2", "S652"},
		{"", ""},
		{"---", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ComparisonKey(tt.in), tt.in)
	}
}

func TestComparisonKey_NoCrossScriptEquivalence(t *testing.T) {
	// Cross-script equality is the normalizer's job; the key alone must not
	// conflate scripts.
	assert.NotEqual(t, ComparisonKey("KH12MF"), ComparisonKey("Х12МФ"))
}

func TestScriptForCountry(t *testing.T) {
	assert.Equal(t, ScriptCyrillic, ScriptForCountry("RU"))
	assert.Equal(t, ScriptCyrillic, ScriptForCountry("ru"))
	assert.Equal(t, ScriptCyrillic, ScriptForCountry(" by "))
	assert.Equal(t, ScriptNone, ScriptForCountry("DE"))
	assert.Equal(t, ScriptNone, ScriptForCountry(""))
}

func TestTransliterateToLatin_RoundTrip(t *testing.T) {
	cyr := Normalize("KH12MF", ScriptCyrillic).DisplayForm
	lat := transliterateToLatin(cyr)
	assert.Equal(t, "KH12MF", lat)
}
