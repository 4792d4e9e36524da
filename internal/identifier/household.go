package identifier

import "github.com/jpickens/crosscheck/internal/model"

// HouseholdName is a multi-person household record: the full household name
// plus an ordered roster of member names, deduplicated by name similarity.
type HouseholdName struct {
	aliased *model.Aliased
	members []*IndividualName
}

// NewHouseholdName wraps a household full-name term.
func NewHouseholdName(term *model.AttributedTerm) (*HouseholdName, error) {
	al, err := model.NewAliased(term)
	if err != nil {
		return nil, err
	}
	return &HouseholdName{aliased: al}, nil
}

// Kind implements Identifier.
func (h *HouseholdName) Kind() Kind { return KindHouseholdName }

// Aliased implements Identifier.
func (h *HouseholdName) Aliased() *model.Aliased { return h.aliased }

// FullName returns the household's full-name string.
func (h *HouseholdName) FullName() string { return h.aliased.Primary().Value() }

// Matches reports whether value equals the household name or a recorded
// alternative spelling.
func (h *HouseholdName) Matches(value string) bool {
	if normalize(value) == normalize(h.FullName()) {
		return true
	}
	return h.aliased.Matches(value)
}

// Members returns the roster in insertion order.
func (h *HouseholdName) Members() []*IndividualName {
	out := make([]*IndividualName, len(h.members))
	copy(out, h.members)
	return out
}

// SimilarityFunc scores two full-name strings in [0,1]. The roster methods
// take it as a parameter so this package stays independent of the engine.
type SimilarityFunc func(a, b string) float64

// AddMember appends a member unless an existing member's full name scores at
// or above threshold against it (first-seen wins). Returns true if the
// member was added.
func (h *HouseholdName) AddMember(m *IndividualName, sim SimilarityFunc, threshold float64) bool {
	if m == nil {
		return false
	}
	for _, existing := range h.members {
		if sim(existing.FullName(), m.FullName()) >= threshold {
			existing.Aliased().AddAlternative(m.aliased.Primary(), model.CategoryCandidate)
			return false
		}
	}
	h.members = append(h.members, m)
	return true
}

// Clone returns a deep copy, roster included.
func (h *HouseholdName) Clone() *HouseholdName {
	if h == nil {
		return nil
	}
	c := &HouseholdName{aliased: h.aliased.Clone()}
	for _, m := range h.members {
		c.members = append(c.members, m.Clone())
	}
	return c
}
