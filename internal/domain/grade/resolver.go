package grade

// OutcomeKind is the closed set of resolution decisions.
type OutcomeKind string

const (
	// MatchedByLink: the record's link (alone or paired with a candidate
	// name) identified exactly one canonical entry.  Link identity survives
	// renaming and script changes, so it is the strongest evidence.
	MatchedByLink OutcomeKind = "matched_by_link"

	// MatchedByName: exactly one canonical entry carries one of the
	// record's candidate names.
	MatchedByName OutcomeKind = "matched_by_name"

	// Ambiguous: a candidate name or link collided with more than one
	// canonical entry and nothing disambiguated.  Surfaced for manual
	// review, never auto-resolved.
	Ambiguous OutcomeKind = "ambiguous"

	// NotFound: no candidate produced a decision.
	NotFound OutcomeKind = "not_found"
)

// IsValid reports whether the kind is one of the closed set.
func (k OutcomeKind) IsValid() bool {
	switch k {
	case MatchedByLink, MatchedByName, Ambiguous, NotFound:
		return true
	default:
		return false
	}
}

func (k OutcomeKind) String() string { return string(k) }

// Outcome is the result of resolving one incoming record against the index.
// Grade is set for the matched kinds; Candidates carries the colliding
// entries for Ambiguous; Tried lists every candidate display form attempted,
// giving the unresolved report enough context for manual disambiguation.
type Outcome struct {
	Kind       OutcomeKind
	Grade      *CanonicalGrade
	Candidates []*CanonicalGrade
	Tried      []string
}

// CandidateNames derives the ordered candidate name list for a record: the
// record's own normalized name first and, when the locale hint is Cyrillic,
// the transliterated Cyrillic variant plus the reverse-mapped Latin
// original.  Duplicates (by comparison key) are removed preserving order,
// so the most literal interpretation of the source name is always tried
// first.
func CandidateNames(rec GradeRecord) []NormalizedKey {
	candidates := []NormalizedKey{Normalize(rec.Name, ScriptNone)}

	if rec.Script() == ScriptCyrillic {
		cyr := Normalize(rec.Name, ScriptCyrillic)
		candidates = append(candidates, cyr)
		if lat := clean(transliterateToLatin(cyr.DisplayForm)); lat != "" {
			candidates = append(candidates, NormalizedKey{
				DisplayForm:   lat,
				ComparisonKey: ComparisonKey(lat),
			})
		}
	}

	seen := make(map[string]bool, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		if c.ComparisonKey == "" || seen[c.ComparisonKey] {
			continue
		}
		seen[c.ComparisonKey] = true
		out = append(out, c)
	}
	return out
}

// Resolve decides, for one incoming record, whether it denotes an alloy
// already present in the catalog.  Evidence is evaluated in strict
// precedence order and the first success wins:
//
//  1. link + candidate name both match one entry          → MatchedByLink
//  2. link alone matches exactly one entry                → MatchedByLink
//     link alone matches several entries                  → Ambiguous
//     (link collisions must not fall through to name-only
//     matching: that would cross-contaminate chemistry
//     between unrelated entries sharing a name fragment)
//  3. a candidate name matches exactly one entry          → MatchedByName
//     (a name collision is noted but later, more specific
//     candidates are still tried)
//  4. nothing matched                                     → Ambiguous if any
//     name collision was seen, otherwise NotFound.
func Resolve(rec GradeRecord, idx *Index) Outcome {
	candidates := CandidateNames(rec)
	tried := make([]string, len(candidates))
	for i, c := range candidates {
		tried[i] = c.DisplayForm
	}

	link := rec.Link

	// Step 1: link plus name is the uniqueness key itself.
	if link != "" {
		for _, c := range candidates {
			if g := idx.ByNameAndLink(c.ComparisonKey, link); g != nil {
				return Outcome{Kind: MatchedByLink, Grade: g, Tried: tried}
			}
		}

		// Step 2: link alone is conclusive when unique.
		switch hits := idx.ByLink(link); len(hits) {
		case 0:
			// fall through to name matching
		case 1:
			return Outcome{Kind: MatchedByLink, Grade: hits[0], Tried: tried}
		default:
			return Outcome{Kind: Ambiguous, Candidates: hits, Tried: tried}
		}
	}

	// Step 3: unique-name evidence, weaker than link evidence.
	var collided []*CanonicalGrade
	for _, c := range candidates {
		switch hits := idx.ByName(c.ComparisonKey); len(hits) {
		case 0:
		case 1:
			return Outcome{Kind: MatchedByName, Grade: hits[0], Tried: tried}
		default:
			collided = append(collided, hits...)
		}
	}

	// Step 4.
	if len(collided) > 0 {
		return Outcome{Kind: Ambiguous, Candidates: dedupGrades(collided), Tried: tried}
	}
	return Outcome{Kind: NotFound, Tried: tried}
}

func dedupGrades(grades []*CanonicalGrade) []*CanonicalGrade {
	seen := make(map[*CanonicalGrade]bool, len(grades))
	out := grades[:0]
	for _, g := range grades {
		if seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, g)
	}
	return out
}
