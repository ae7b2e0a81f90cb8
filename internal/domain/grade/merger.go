package grade

import (
	"strings"

	"steeldex/internal/domain/composition"
)

// Patch field names for the scalar columns.  Element fields use their
// element symbol directly.
const (
	FieldStandard     = "standard"
	FieldManufacturer = "manufacturer"
	FieldCountry      = "country"
	FieldLink         = "link"
	FieldAnalogues    = "analogues"
)

// FieldConflict records a populated field whose incoming value differs from
// the stored one.  The stored value wins; the conflict is surfaced in the
// review report instead of oscillating as sources are replayed.
type FieldConflict struct {
	Field    string
	Existing string
	Incoming string
}

// Patch is the minimal set of field changes proposed for one canonical
// entry given one incoming record.  It is applied atomically or not at all.
type Patch struct {
	// Set maps field name → adopted value (gap-filling only).
	Set map[string]string

	// Analogues is the full merged analogue list, non-nil only when the
	// union actually grew.
	Analogues []string

	// Conflicts lists populated fields the incoming record disagreed on.
	Conflicts []FieldConflict

	// Malformed lists incoming element values rejected at patch time.
	Malformed []composition.FieldError

	// LinkConflict is set when the incoming record offered a link for a
	// link-less entry but adopting it would duplicate an existing
	// (name, link) key.
	LinkConflict bool
}

// IsEmpty reports whether applying the patch would change nothing.
// Conflicts and malformed values do not make a patch non-empty: they are
// report material, not mutations.
func (p Patch) IsEmpty() bool {
	return len(p.Set) == 0 && p.Analogues == nil
}

// HasFindings reports whether the patch carries anything worth reporting:
// changes, conflicts, or rejected values.
func (p Patch) HasFindings() bool {
	return !p.IsEmpty() || len(p.Conflicts) > 0 || len(p.Malformed) > 0 || p.LinkConflict
}

// UpdatedFields returns the adopted field names in deterministic order:
// elements in column order, then the scalar fields, then analogues.
func (p Patch) UpdatedFields() []string {
	var fields []string
	for _, sym := range composition.Elements {
		if _, ok := p.Set[sym]; ok {
			fields = append(fields, sym)
		}
	}
	for _, f := range []string{FieldStandard, FieldManufacturer, FieldCountry, FieldLink} {
		if _, ok := p.Set[f]; ok {
			fields = append(fields, f)
		}
	}
	if p.Analogues != nil {
		fields = append(fields, FieldAnalogues)
	}
	return fields
}

// ComputePatch compares a resolved canonical entry with an incoming record
// under the "fill gaps, never silently overwrite" policy:
//
//   - incoming empty                         → no change
//   - existing empty                         → adopt incoming (elements are
//     validated first; malformed values are
//     rejected and reported, never adopted)
//   - equal after case/whitespace folding    → no change
//   - both populated, different              → conflict, stored value kept
//
// The analogue list is merged additively (existing order first, new names
// appended, self-references dropped).  A link offered for a link-less entry
// is adopted only when it would not duplicate an existing (name, link) key
// in the index.
func ComputePatch(existing *CanonicalGrade, rec GradeRecord, idx *Index) Patch {
	patch := Patch{Set: make(map[string]string)}

	mergeScalar(&patch, FieldStandard, existing.Standard, rec.StandardText)
	mergeScalar(&patch, FieldManufacturer, existing.Manufacturer, rec.Manufacturer)
	mergeScalar(&patch, FieldCountry, existing.Country, strings.ToUpper(strings.TrimSpace(rec.CountryHint)))

	mergeElements(&patch, existing, rec)
	mergeAnalogues(&patch, existing, rec)
	mergeLink(&patch, existing, rec, idx)

	if len(patch.Set) == 0 {
		patch.Set = nil
	}
	return patch
}

func mergeScalar(p *Patch, field, existing, incoming string) {
	incoming = strings.TrimSpace(incoming)
	existing = strings.TrimSpace(existing)
	switch {
	case incoming == "":
	case existing == "":
		p.Set[field] = incoming
	case equalText(existing, incoming):
	default:
		p.Conflicts = append(p.Conflicts, FieldConflict{Field: field, Existing: existing, Incoming: incoming})
	}
}

func mergeElements(p *Patch, existing *CanonicalGrade, rec GradeRecord) {
	for _, sym := range composition.Elements {
		incoming := strings.TrimSpace(lookupElement(rec.Composition, sym))
		if incoming == "" {
			continue
		}
		current := strings.TrimSpace(lookupElement(existing.Composition, sym))
		if current == "" {
			if _, err := composition.Parse(sym, incoming); err != nil {
				p.Malformed = append(p.Malformed, composition.FieldError{Symbol: sym, Raw: incoming, Err: err})
				continue
			}
			p.Set[sym] = incoming
			continue
		}
		if !equalText(current, incoming) {
			p.Conflicts = append(p.Conflicts, FieldConflict{Field: sym, Existing: current, Incoming: incoming})
		}
	}
}

// lookupElement tolerates mixed-case element keys from source adapters.
func lookupElement(m map[string]string, sym string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[sym]; ok {
		return v
	}
	for k, v := range m {
		if strings.EqualFold(k, sym) {
			return v
		}
	}
	return ""
}

func mergeAnalogues(p *Patch, existing *CanonicalGrade, rec GradeRecord) {
	if len(rec.Analogues) == 0 {
		return
	}

	self := existing.NameKey()
	seen := make(map[string]bool, len(existing.Analogues))
	merged := make([]string, 0, len(existing.Analogues)+len(rec.Analogues))
	for _, a := range existing.Analogues {
		merged = append(merged, a)
		seen[ComparisonKey(a)] = true
	}

	grew := false
	for _, a := range rec.Analogues {
		name := clean(a)
		key := ComparisonKey(name)
		if name == "" || key == self || seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, name)
		grew = true
	}
	if grew {
		p.Analogues = merged
	}
}

func mergeLink(p *Patch, existing *CanonicalGrade, rec GradeRecord, idx *Index) {
	incoming := strings.TrimSpace(rec.Link)
	if incoming == "" || existing.Link != "" {
		if existing.Link != "" && incoming != "" && existing.Link != incoming {
			p.Conflicts = append(p.Conflicts, FieldConflict{Field: FieldLink, Existing: existing.Link, Incoming: incoming})
		}
		return
	}
	if idx.HasNameAndLink(existing.NameKey(), incoming) {
		p.LinkConflict = true
		return
	}
	p.Set[FieldLink] = incoming
}

// Apply mutates the grade in place with the patch's adopted values.  The
// persistence layer calls this inside its update transaction so the entity
// and the stored row never diverge.
func (p Patch) Apply(g *CanonicalGrade) {
	for field, value := range p.Set {
		switch field {
		case FieldStandard:
			g.Standard = value
		case FieldManufacturer:
			g.Manufacturer = value
		case FieldCountry:
			g.Country = value
		case FieldLink:
			g.Link = value
		default:
			if g.Composition == nil {
				g.Composition = make(map[string]string)
			}
			g.Composition[field] = value
		}
	}
	if p.Analogues != nil {
		g.Analogues = p.Analogues
	}
}
