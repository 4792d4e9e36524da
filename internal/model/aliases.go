package model

// AliasCategory classifies how much confidence we have that an alternative
// term is substitutable for the primary.
type AliasCategory string

const (
	// CategoryHomonym is the same value up to casing/spacing. Automatically
	// substitutable.
	CategoryHomonym AliasCategory = "homonym"
	// CategorySynonym is textually different but asserted equivalent, e.g. a
	// nickname. Substitutable.
	CategorySynonym AliasCategory = "synonym"
	// CategoryCandidate is an unverified sub-threshold match kept for human
	// review. Never treated as a legitimate substitute.
	CategoryCandidate AliasCategory = "candidate"
)

// Aliases holds the alternative spellings and variants recorded for an
// Aliased owner, split into three disjoint categories. Duplicates across
// categories are a legal transient state during merge; they are resolved at
// consensus time.
type Aliases struct {
	homonyms   []*AttributedTerm
	synonyms   []*AttributedTerm
	candidates []*AttributedTerm
}

// NewAliases returns an empty collection.
func NewAliases() *Aliases {
	return &Aliases{}
}

// Add appends a term to the given category. An empty category defaults to
// synonym. A term already present in that category (same value) has its
// provenance merged instead of being appended twice.
func (a *Aliases) Add(term *AttributedTerm, category AliasCategory) {
	if term == nil {
		return
	}
	if category == "" {
		category = CategorySynonym
	}
	bucket := a.bucket(category)
	for _, existing := range *bucket {
		if existing.Value() == term.Value() {
			existing.MergeProvenance(term)
			return
		}
	}
	*bucket = append(*bucket, term)
}

func (a *Aliases) bucket(category AliasCategory) *[]*AttributedTerm {
	switch category {
	case CategoryHomonym:
		return &a.homonyms
	case CategoryCandidate:
		return &a.candidates
	default:
		return &a.synonyms
	}
}

// Contains reports whether value is a legitimate substitute: homonyms and
// synonyms only. Candidates are deliberately excluded because they are
// unverified.
func (a *Aliases) Contains(value string) bool {
	for _, t := range a.homonyms {
		if t.Value() == value {
			return true
		}
	}
	for _, t := range a.synonyms {
		if t.Value() == value {
			return true
		}
	}
	return false
}

// Remove deletes every occurrence of value across all categories and returns
// the number of terms removed.
func (a *Aliases) Remove(value string) int {
	removed := 0
	for _, bucket := range []*[]*AttributedTerm{&a.homonyms, &a.synonyms, &a.candidates} {
		kept := (*bucket)[:0]
		for _, t := range *bucket {
			if t.Value() == value {
				removed++
				continue
			}
			kept = append(kept, t)
		}
		*bucket = kept
	}
	return removed
}

// Category returns the terms recorded under one category.
func (a *Aliases) Category(category AliasCategory) []*AttributedTerm {
	bucket := a.bucket(category)
	out := make([]*AttributedTerm, len(*bucket))
	copy(out, *bucket)
	return out
}

// AllTerms returns every term across categories, homonyms first.
func (a *Aliases) AllTerms() []*AttributedTerm {
	out := make([]*AttributedTerm, 0, len(a.homonyms)+len(a.synonyms)+len(a.candidates))
	out = append(out, a.homonyms...)
	out = append(out, a.synonyms...)
	out = append(out, a.candidates...)
	return out
}

// AllTermValues returns the value of every term across categories.
func (a *Aliases) AllTermValues() []string {
	terms := a.AllTerms()
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.Value()
	}
	return out
}

// Len returns the total number of terms across categories.
func (a *Aliases) Len() int {
	return len(a.homonyms) + len(a.synonyms) + len(a.candidates)
}

// Clone returns a deep copy.
func (a *Aliases) Clone() *Aliases {
	if a == nil {
		return nil
	}
	c := &Aliases{}
	for _, t := range a.homonyms {
		c.homonyms = append(c.homonyms, t.Clone())
	}
	for _, t := range a.synonyms {
		c.synonyms = append(c.synonyms, t.Clone())
	}
	for _, t := range a.candidates {
		c.candidates = append(c.candidates, t.Clone())
	}
	return c
}
