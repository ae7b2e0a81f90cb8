package grade

// Index is the read-mostly lookup snapshot built once per resolution run
// from the canonical catalog.  Name buckets are keyed by comparison key so
// spacing, case, and hyphenation differences collapse to one bucket.
//
// The resolver appends newly created grades into the same index instance via
// Add so that duplicate incoming records within one batch resolve against
// each other, not just against the pre-run snapshot.  The index itself is
// not safe for concurrent mutation; the pipeline is strictly sequential.
type Index struct {
	byNameLink map[string]*CanonicalGrade
	byName     map[string][]*CanonicalGrade
	byLink     map[string][]*CanonicalGrade
}

// nameLinkKey joins a comparison key and a link into one composite map key.
// NUL never appears in either half.
func nameLinkKey(nameKey, link string) string {
	return nameKey + "\x00" + link
}

// NewIndex builds the index in a single O(n) pass over the catalog snapshot.
func NewIndex(grades []*CanonicalGrade) *Index {
	idx := &Index{
		byNameLink: make(map[string]*CanonicalGrade, len(grades)),
		byName:     make(map[string][]*CanonicalGrade, len(grades)),
		byLink:     make(map[string][]*CanonicalGrade),
	}
	for _, g := range grades {
		idx.Add(g)
	}
	return idx
}

// Add inserts one grade into all applicable lookup structures.  An empty
// link is never indexed under the link maps.
func (idx *Index) Add(g *CanonicalGrade) {
	key := g.NameKey()
	idx.byName[key] = append(idx.byName[key], g)
	if g.Link != "" {
		idx.byLink[g.Link] = append(idx.byLink[g.Link], g)
		idx.byNameLink[nameLinkKey(key, g.Link)] = g
	}
}

// AddLink indexes a grade under the link maps only.  Used after a merger
// patch fills a previously empty link on an already-indexed grade.
func (idx *Index) AddLink(g *CanonicalGrade) {
	if g.Link == "" {
		return
	}
	idx.byLink[g.Link] = append(idx.byLink[g.Link], g)
	idx.byNameLink[nameLinkKey(g.NameKey(), g.Link)] = g
}

// ByName returns every grade whose name collapses to the given comparison key.
func (idx *Index) ByName(nameKey string) []*CanonicalGrade {
	return idx.byName[nameKey]
}

// ByLink returns every grade indexed under the given link.  Empty links are
// never indexed, so ByLink("") is always empty.
func (idx *Index) ByLink(link string) []*CanonicalGrade {
	if link == "" {
		return nil
	}
	return idx.byLink[link]
}

// ByNameAndLink returns the unique grade carrying both the name key and the
// link, or nil.  The (name, link) pair is the catalog's uniqueness key, so
// at most one entry can match.
func (idx *Index) ByNameAndLink(nameKey, link string) *CanonicalGrade {
	if link == "" {
		return nil
	}
	return idx.byNameLink[nameLinkKey(nameKey, link)]
}

// HasNameAndLink reports whether adopting the given link for the given name
// would collide with an existing (name, link) pair.
func (idx *Index) HasNameAndLink(nameKey, link string) bool {
	return idx.ByNameAndLink(nameKey, link) != nil
}

// Size returns the number of distinct name buckets, for diagnostics.
func (idx *Index) Size() int {
	return len(idx.byName)
}
