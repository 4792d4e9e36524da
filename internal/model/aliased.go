package model

// Aliased is the matching capability shared by every identifier variant: one
// primary term plus a categorized collection of alternatives. The invariant
// maintained here is that the primary's value never appears among the
// alternatives.
type Aliased struct {
	primary      *AttributedTerm
	alternatives *Aliases
}

// NewAliased wraps a primary term. The term must already carry provenance.
func NewAliased(primary *AttributedTerm) (*Aliased, error) {
	if primary == nil {
		return nil, ErrInvalidProvenance
	}
	return &Aliased{primary: primary, alternatives: NewAliases()}, nil
}

// Primary returns the canonical term.
func (al *Aliased) Primary() *AttributedTerm {
	return al.primary
}

// Alternatives returns the recorded variants.
func (al *Aliased) Alternatives() *Aliases {
	return al.alternatives
}

// Matches reports whether value is the primary or a legitimate alternative
// (homonym or synonym). Candidates do not match.
func (al *Aliased) Matches(value string) bool {
	if al.primary.Value() == value {
		return true
	}
	return al.alternatives.Contains(value)
}

// AddAlternative records a variant spelling. Inserting the current primary's
// value is a no-op beyond merging its provenance onto the primary.
func (al *Aliased) AddAlternative(term *AttributedTerm, category AliasCategory) {
	if term == nil {
		return
	}
	if term.Value() == al.primary.Value() {
		al.primary.MergeProvenance(term)
		return
	}
	al.alternatives.Add(term, category)
}

// SetPrimary promotes a new primary term. Setting a term whose value equals
// the current primary is a no-op beyond merging provenance. Otherwise the old
// primary is demoted into the alternatives as a synonym; any occurrence of
// the new value among the alternatives is removed first so the new primary
// never appears as its own alternative.
func (al *Aliased) SetPrimary(term *AttributedTerm) {
	if term == nil {
		return
	}
	if term.Value() == al.primary.Value() {
		al.primary.MergeProvenance(term)
		return
	}
	al.alternatives.Remove(term.Value())
	old := al.primary
	al.primary = term
	al.alternatives.Add(old, CategorySynonym)
}

// Clone returns a deep copy.
func (al *Aliased) Clone() *Aliased {
	if al == nil {
		return nil
	}
	return &Aliased{
		primary:      al.primary.Clone(),
		alternatives: al.alternatives.Clone(),
	}
}
