package model

// SourceID identifies one of the independent datasets a value was observed in.
type SourceID string

const (
	SourceDonor     SourceID = "donor"     // donor-management ledger (authoritative)
	SourceAssessor  SourceID = "assessor"  // tax-assessor records
	SourceDirectory SourceID = "directory" // scanned island directory
)

// Attribution records where a value was observed: the record index inside the
// source and the field role it was extracted from.
type Attribution struct {
	Position int    `json:"position"`
	Role     string `json:"role,omitempty"`
}

// AttributedTerm is a scalar value annotated with the provenance of every
// place it was observed. The value is immutable once set; additional sources
// may be attached when the same literal value shows up elsewhere, but the
// value itself never changes. Provenance preserves insertion order so that
// iteration is deterministic regardless of map ordering.
type AttributedTerm struct {
	value   string
	order   []SourceID
	sources map[SourceID]Attribution
}

// NewAttributedTerm creates a term observed in the given source. A term with
// no source is meaningless, so construction without one fails.
func NewAttributedTerm(value string, source SourceID, position int, role string) (*AttributedTerm, error) {
	if source == "" {
		return nil, ErrInvalidProvenance
	}
	t := &AttributedTerm{
		value:   value,
		sources: make(map[SourceID]Attribution),
	}
	t.order = append(t.order, source)
	t.sources[source] = Attribution{Position: position, Role: role}
	return t, nil
}

// Value returns the term's literal value.
func (t *AttributedTerm) Value() string {
	return t.value
}

// AddSource attaches another observation of the same value. Re-adding a
// source overwrites its position and role rather than duplicating the entry.
func (t *AttributedTerm) AddSource(source SourceID, position int, role string) {
	if source == "" {
		return
	}
	if _, seen := t.sources[source]; !seen {
		t.order = append(t.order, source)
	}
	t.sources[source] = Attribution{Position: position, Role: role}
}

// HasSource reports whether the value was observed in the given source.
func (t *AttributedTerm) HasSource(source SourceID) bool {
	_, ok := t.sources[source]
	return ok
}

// Attribution returns the observation details for a source.
func (t *AttributedTerm) Attribution(source SourceID) (Attribution, bool) {
	a, ok := t.sources[source]
	return a, ok
}

// AllSources returns every source the value was observed in, in the order the
// observations were attached.
func (t *AttributedTerm) AllSources() []SourceID {
	out := make([]SourceID, len(t.order))
	copy(out, t.order)
	return out
}

// MergeProvenance copies every observation from other onto t. Used when the
// same literal value is independently observed in another record.
func (t *AttributedTerm) MergeProvenance(other *AttributedTerm) {
	if other == nil {
		return
	}
	for _, src := range other.order {
		a := other.sources[src]
		t.AddSource(src, a.Position, a.Role)
	}
}

// Clone returns a deep copy. Consensus synthesis copies terms out of member
// entities so the synthesized record never shares mutable state with them.
func (t *AttributedTerm) Clone() *AttributedTerm {
	if t == nil {
		return nil
	}
	c := &AttributedTerm{
		value:   t.value,
		order:   make([]SourceID, len(t.order)),
		sources: make(map[SourceID]Attribution, len(t.sources)),
	}
	copy(c.order, t.order)
	for k, v := range t.sources {
		c.sources[k] = v
	}
	return c
}
