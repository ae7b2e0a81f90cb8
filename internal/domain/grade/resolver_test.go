package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateNames_LatinSource(t *testing.T) {
	names := CandidateNames(GradeRecord{Name: "S 6-5-2", CountryHint: "DE"})
	require.Len(t, names, 1)
	assert.Equal(t, "S 6-5-2", names[0].DisplayForm)
}

func TestCandidateNames_CyrillicLocaleAddsVariants(t *testing.T) {
	// The round trip of Kh12MF lands back on the same comparison key, so
	// only two candidates survive deduplication.
	names := CandidateNames(GradeRecord{Name: "Kh12MF", CountryHint: "RU"})
	require.Len(t, names, 2)
	assert.Equal(t, "Kh12MF", names[0].DisplayForm, "literal source name tried first")
	assert.Equal(t, "Х12МФ", names[1].DisplayForm, "transliterated variant")
}

func TestCandidateNames_ReverseMappedLatinOriginal(t *testing.T) {
	// 9XC transliterates via the X→Х lookalike but reverse-maps to the
	// romanized 9KHS, a genuinely distinct third candidate.
	names := CandidateNames(GradeRecord{Name: "9XC", CountryHint: "RU"})
	require.Len(t, names, 3)
	assert.Equal(t, "9XC", names[0].DisplayForm)
	assert.Equal(t, "9ХС", names[1].DisplayForm)
	assert.Equal(t, "9KHS", names[2].DisplayForm)
}

func TestCandidateNames_DedupByComparisonKey(t *testing.T) {
	// A Cyrillic name transliterates to itself, and its Latin reverse maps
	// back distinctly; no candidate may repeat.
	names := CandidateNames(GradeRecord{Name: "Х12МФ", CountryHint: "RU"})
	seen := map[string]bool{}
	for _, n := range names {
		assert.False(t, seen[n.ComparisonKey], "duplicate candidate %q", n.DisplayForm)
		seen[n.ComparisonKey] = true
	}
}

func TestResolve_MatchedByNameAndLink(t *testing.T) {
	target := &CanonicalGrade{ID: 1, Name: "X12MF", Link: "https://src/a"}
	idx := NewIndex([]*CanonicalGrade{target})

	out := Resolve(GradeRecord{Name: "X12MF", Link: "https://src/a"}, idx)
	assert.Equal(t, MatchedByLink, out.Kind)
	assert.Same(t, target, out.Grade)
}

func TestResolve_TransliteratedNameMatchesByLink(t *testing.T) {
	// End-to-end scenario: catalog has the Latin spelling; the incoming
	// Cyrillic record shares the link and must land on the same entry.
	target := &CanonicalGrade{
		ID: 1, Name: "X12MF", Link: "https://src/a",
		Composition: map[string]string{"c": "1.45-1.65", "cr": "11.0-13.0"},
	}
	idx := NewIndex([]*CanonicalGrade{target})

	out := Resolve(GradeRecord{Name: "Х12МФ", Link: "https://src/a", CountryHint: "RU"}, idx)
	assert.Equal(t, MatchedByLink, out.Kind)
	assert.Same(t, target, out.Grade)
}

func TestResolve_UniqueLinkAloneIsConclusive(t *testing.T) {
	target := &CanonicalGrade{ID: 1, Name: "Vanadis 4", Link: "https://src/v4"}
	idx := NewIndex([]*CanonicalGrade{target})

	// Renamed in the source but same link.
	out := Resolve(GradeRecord{Name: "Vanadis 4 Extra", Link: "https://src/v4"}, idx)
	assert.Equal(t, MatchedByLink, out.Kind)
	assert.Same(t, target, out.Grade)
}

func TestResolve_LinkCollisionIsAmbiguousAndTerminal(t *testing.T) {
	// Two different alloys share a link; resolution must not guess and must
	// not fall back to name-only matching.
	a := &CanonicalGrade{ID: 1, Name: "A", Link: "https://src/shared"}
	b := &CanonicalGrade{ID: 2, Name: "B", Link: "https://src/shared"}
	unique := &CanonicalGrade{ID: 3, Name: "C55"}
	idx := NewIndex([]*CanonicalGrade{a, b, unique})

	out := Resolve(GradeRecord{Name: "C55", Link: "https://src/shared"}, idx)
	assert.Equal(t, Ambiguous, out.Kind)
	assert.Len(t, out.Candidates, 2)
}

func TestResolve_LinkBeatsAmbiguity(t *testing.T) {
	// Two canonical entries share a name but differ in link; an incoming
	// record carrying one of those links resolves exactly, not Ambiguous.
	a := &CanonicalGrade{ID: 1, Name: "255", Link: "https://src/a"}
	b := &CanonicalGrade{ID: 2, Name: "255", Link: "https://src/b"}
	idx := NewIndex([]*CanonicalGrade{a, b})

	out := Resolve(GradeRecord{Name: "255", Link: "https://src/b"}, idx)
	assert.Equal(t, MatchedByLink, out.Kind)
	assert.Same(t, b, out.Grade)
}

func TestResolve_UniqueName(t *testing.T) {
	target := &CanonicalGrade{ID: 1, Name: "U8", Link: "https://src/u8"}
	idx := NewIndex([]*CanonicalGrade{target})

	out := Resolve(GradeRecord{Name: "u 8"}, idx)
	assert.Equal(t, MatchedByName, out.Kind)
	assert.Same(t, target, out.Grade)
}

func TestResolve_AmbiguousName(t *testing.T) {
	// End-to-end scenario: two entries named "255", no incoming link.
	a := &CanonicalGrade{ID: 1, Name: "255", Link: "https://src/a"}
	b := &CanonicalGrade{ID: 2, Name: "255", Link: "https://src/b"}
	idx := NewIndex([]*CanonicalGrade{a, b})

	out := Resolve(GradeRecord{Name: "255"}, idx)
	assert.Equal(t, Ambiguous, out.Kind)
	assert.Len(t, out.Candidates, 2)
	assert.NotEmpty(t, out.Tried)
}

func TestResolve_LaterCandidateResolvesPastCollision(t *testing.T) {
	// The literal name collides, but the transliterated variant is unique;
	// resolution must keep trying candidates instead of aborting.
	a := &CanonicalGrade{ID: 1, Name: "Kh12MF", Link: "https://src/a"}
	b := &CanonicalGrade{ID: 2, Name: "KH12MF", Link: "https://src/b"}
	cyr := &CanonicalGrade{ID: 3, Name: "Х12МФ", Link: "https://src/c"}
	idx := NewIndex([]*CanonicalGrade{a, b, cyr})

	out := Resolve(GradeRecord{Name: "Kh12MF", CountryHint: "RU"}, idx)
	assert.Equal(t, MatchedByName, out.Kind)
	assert.Same(t, cyr, out.Grade)
}

func TestResolve_NotFound(t *testing.T) {
	idx := NewIndex([]*CanonicalGrade{{ID: 1, Name: "U8"}})

	out := Resolve(GradeRecord{Name: "M2", Link: "https://src/m2"}, idx)
	assert.Equal(t, NotFound, out.Kind)
	assert.Nil(t, out.Grade)
	assert.Empty(t, out.Candidates)
}

func TestResolve_SameRunDuplicateSuppression(t *testing.T) {
	idx := NewIndex(nil)

	first := Resolve(GradeRecord{Name: "M2", Link: "https://src/m2"}, idx)
	require.Equal(t, NotFound, first.Kind)

	inserted := &CanonicalGrade{ID: 1, Name: "M2", Link: "https://src/m2"}
	idx.Add(inserted)

	second := Resolve(GradeRecord{Name: "M2", Link: "https://src/m2"}, idx)
	assert.Equal(t, MatchedByLink, second.Kind)
	assert.Same(t, inserted, second.Grade)
}

func TestOutcomeKind_IsValid(t *testing.T) {
	for _, k := range []OutcomeKind{MatchedByLink, MatchedByName, Ambiguous, NotFound} {
		assert.True(t, k.IsValid())
	}
	assert.False(t, OutcomeKind("guessed").IsValid())
}
