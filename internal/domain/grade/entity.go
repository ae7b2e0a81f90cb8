// Package grade provides the identity-resolution core of the steeldex
// catalog: name normalization and transliteration, the candidate index over
// canonical entries, the precedence-ordered resolver, and the field merger.
package grade

import (
	"strings"

	"steeldex/internal/domain/composition"
	"steeldex/pkg/errors"
)

// GradeRecord is one raw record produced by a source adapter.  It is owned
// by the sync pipeline for the duration of a single resolution call and is
// never mutated by the core.
type GradeRecord struct {
	Name         string            `json:"name"`
	Link         string            `json:"link,omitempty"`
	Composition  map[string]string `json:"composition,omitempty"`
	StandardText string            `json:"standard,omitempty"`
	Manufacturer string            `json:"manufacturer,omitempty"`
	Analogues    []string          `json:"analogues,omitempty"`
	CountryHint  string            `json:"country_hint,omitempty"`
	SourceTag    string            `json:"source_tag"`
}

// Validate enforces the programming contract on an incoming record.  A
// record without a name is a bug in the source adapter, not a data-quality
// problem, and is fatal to the batch.
func (r GradeRecord) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New(errors.CodeEmptyGradeName, "source record has no name").
			WithDetail("source=" + r.SourceTag)
	}
	return nil
}

// Script returns the script hint derived from the record's country hint.
func (r GradeRecord) Script() Script {
	return ScriptForCountry(r.CountryHint)
}

// CanonicalGrade is the single authoritative catalog record representing one
// physical alloy, keyed by (name, link).  It is created on first successful
// insert and mutated only through merger patches.
type CanonicalGrade struct {
	ID           int64             `json:"id"`
	Name         string            `json:"name"`
	Link         string            `json:"link,omitempty"`
	Composition  map[string]string `json:"composition,omitempty"`
	BaseElement  string            `json:"base_element,omitempty"`
	Standard     string            `json:"standard,omitempty"`
	Manufacturer string            `json:"manufacturer,omitempty"`
	Analogues    []string          `json:"analogues,omitempty"`
	Country      string            `json:"country,omitempty"`
	TechNotes    string            `json:"tech_notes,omitempty"`
}

// NameKey returns the comparison key of the grade's name.
func (g *CanonicalGrade) NameKey() string {
	return ComparisonKey(g.Name)
}

// Vector parses the stored composition into a scoring vector.  Cells that
// fail to parse are skipped; stored rows should already be valid because the
// merger rejects malformed values at patch time.
func (g *CanonicalGrade) Vector() (composition.Vector, []composition.FieldError) {
	return composition.ParseVector(g.Composition)
}

// Validate checks the canonical-entity invariants: a non-empty name, no
// self-referencing analogue, and parseable element values.
func (g *CanonicalGrade) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return errors.New(errors.CodeEmptyGradeName, "canonical grade has no name")
	}
	self := g.NameKey()
	for _, a := range g.Analogues {
		if ComparisonKey(a) == self {
			return errors.New(errors.CodeValidation, "grade lists itself as an analogue").
				WithDetail("name=" + g.Name)
		}
	}
	for sym, raw := range g.Composition {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if _, err := composition.Parse(sym, raw); err != nil {
			return err
		}
	}
	return nil
}

// NewFromRecord builds a fresh canonical entry from an unresolved incoming
// record.  Element values are validated; malformed cells are dropped and
// returned so the caller can report them.  Analogues equal to the grade's
// own name are discarded.
func NewFromRecord(rec GradeRecord) (*CanonicalGrade, []composition.FieldError) {
	key := Normalize(rec.Name, rec.Script())

	var comp map[string]string
	var bad []composition.FieldError
	if len(rec.Composition) > 0 {
		comp = make(map[string]string, len(rec.Composition))
		for sym, raw := range rec.Composition {
			cell := strings.TrimSpace(raw)
			if cell == "" {
				continue
			}
			if _, err := composition.Parse(sym, cell); err != nil {
				bad = append(bad, composition.FieldError{Symbol: sym, Raw: cell, Err: err})
				continue
			}
			comp[strings.ToLower(sym)] = cell
		}
	}

	country := strings.ToUpper(strings.TrimSpace(rec.CountryHint))
	std := strings.TrimSpace(rec.StandardText)
	manufacturer := strings.TrimSpace(rec.Manufacturer)
	switch ClassifyStandard(std) {
	case KindNationalStandard:
		// Sources deliver bare designations like "GOST 5950"; the
		// stored column carries the country suffix.
		if !strings.Contains(std, ",") {
			std = FormatStandardText(std, country)
		}
	case KindManufacturer:
		if manufacturer == "" {
			manufacturer = clean(std)
		}
	}

	g := &CanonicalGrade{
		Name:         key.DisplayForm,
		Link:         strings.TrimSpace(rec.Link),
		Composition:  comp,
		Standard:     std,
		Manufacturer: manufacturer,
		Country:      country,
	}
	for _, a := range rec.Analogues {
		name := clean(a)
		if name == "" || ComparisonKey(name) == key.ComparisonKey {
			continue
		}
		g.Analogues = append(g.Analogues, name)
	}
	return g, bad
}
