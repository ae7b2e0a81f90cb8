package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_Lookups(t *testing.T) {
	a := &CanonicalGrade{ID: 1, Name: "X12MF", Link: "https://src/a"}
	b := &CanonicalGrade{ID: 2, Name: "255", Link: "https://src/b"}
	c := &CanonicalGrade{ID: 3, Name: "255", Link: "https://src/c"}
	d := &CanonicalGrade{ID: 4, Name: "U8", Link: ""}

	idx := NewIndex([]*CanonicalGrade{a, b, c, d})

	assert.Same(t, a, idx.ByNameAndLink(ComparisonKey("X12MF"), "https://src/a"))
	assert.Nil(t, idx.ByNameAndLink(ComparisonKey("X12MF"), "https://src/b"))

	assert.Len(t, idx.ByName(ComparisonKey("255")), 2)
	assert.Len(t, idx.ByName(ComparisonKey("X12MF")), 1)
	assert.Empty(t, idx.ByName(ComparisonKey("unknown")))

	require.Len(t, idx.ByLink("https://src/b"), 1)
	assert.Same(t, b, idx.ByLink("https://src/b")[0])
}

func TestIndex_NameKeyCollapsesSpacingAndCase(t *testing.T) {
	g := &CanonicalGrade{ID: 1, Name: "S 6-5-2"}
	idx := NewIndex([]*CanonicalGrade{g})

	hits := idx.ByName(ComparisonKey("s652"))
	require.Len(t, hits, 1)
	assert.Same(t, g, hits[0])
}

func TestIndex_EmptyLinkNeverIndexed(t *testing.T) {
	g := &CanonicalGrade{ID: 1, Name: "U8", Link: ""}
	idx := NewIndex([]*CanonicalGrade{g})

	assert.Empty(t, idx.ByLink(""))
	assert.Nil(t, idx.ByNameAndLink(ComparisonKey("U8"), ""))
	assert.False(t, idx.HasNameAndLink(ComparisonKey("U8"), ""))
}

func TestIndex_AddIsVisibleImmediately(t *testing.T) {
	idx := NewIndex(nil)
	g := &CanonicalGrade{ID: 1, Name: "9XC", Link: "https://src/x"}
	idx.Add(g)

	assert.Same(t, g, idx.ByNameAndLink(ComparisonKey("9XC"), "https://src/x"))
	assert.Len(t, idx.ByName(ComparisonKey("9XC")), 1)
	assert.Equal(t, 1, idx.Size())
}
