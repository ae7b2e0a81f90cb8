package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steeldex/pkg/errors"
)

func TestGradeRecord_Validate(t *testing.T) {
	assert.NoError(t, GradeRecord{Name: "X12MF", SourceTag: "csv"}.Validate())

	err := GradeRecord{Name: "   ", SourceTag: "csv"}.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeEmptyGradeName))
}

func TestCanonicalGrade_Validate(t *testing.T) {
	g := &CanonicalGrade{
		Name:        "X12MF",
		Composition: map[string]string{"c": "1.45-1.65", "cr": "11.0-13.0"},
		Analogues:   []string{"D2"},
	}
	assert.NoError(t, g.Validate())
}

func TestCanonicalGrade_Validate_SelfAnalogue(t *testing.T) {
	g := &CanonicalGrade{Name: "X12MF", Analogues: []string{"x12-mf"}}
	err := g.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidation))
}

func TestCanonicalGrade_Validate_MalformedElement(t *testing.T) {
	g := &CanonicalGrade{Name: "X12MF", Composition: map[string]string{"cr": "13.0-11.0"}}
	err := g.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeMalformedComposition))
}

func TestNewFromRecord(t *testing.T) {
	g, bad := NewFromRecord(GradeRecord{
		Name:         " Kh12MF ",
		Link:         "https://src/a",
		Composition:  map[string]string{"C": "1.45-1.65", "cr": "garbage", "mn": ""},
		StandardText: "GOST 5950",
		CountryHint:  "ru",
		Analogues:    []string{"D2", "Х12МФ", ""},
		SourceTag:    "gost-csv",
	})

	assert.Equal(t, "Х12МФ", g.Name, "cyrillic locale hint transliterates the name")
	assert.Equal(t, "https://src/a", g.Link)
	assert.Equal(t, "1.45-1.65", g.Composition["c"], "element keys lowercased")
	assert.NotContains(t, g.Composition, "cr", "malformed cell dropped")
	assert.NotContains(t, g.Composition, "mn", "empty cell dropped")
	assert.Equal(t, "RU", g.Country)
	assert.Equal(t, "GOST 5950, RU", g.Standard, "bare designation gains the country suffix")
	assert.Equal(t, []string{"D2"}, g.Analogues, "self-reference and blanks dropped")

	require.Len(t, bad, 1)
	assert.Equal(t, "cr", bad[0].Symbol)

	require.NoError(t, g.Validate())
}

func TestNewFromRecord_LatinSourceKeepsScript(t *testing.T) {
	g, bad := NewFromRecord(GradeRecord{Name: "S 6-5-2", CountryHint: "DE", SourceTag: "din"})
	assert.Empty(t, bad)
	assert.Equal(t, "S 6-5-2", g.Name)
	assert.Equal(t, "DE", g.Country)
}

func TestNewFromRecord_ManufacturerStandard(t *testing.T) {
	g, _ := NewFromRecord(GradeRecord{
		Name:         "Vanadis 4",
		StandardText: "Uddeholm",
		CountryHint:  "SE",
		SourceTag:    "zknives",
	})
	assert.Equal(t, "Uddeholm", g.Manufacturer, "maker text classified out of the standard column")
}
