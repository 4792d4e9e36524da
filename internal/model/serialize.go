package model

import (
	"encoding/json"
	"fmt"
)

// Every serializable object carries an explicit "type" discriminator so the
// persistence collaborator can round-trip the structure without relying on
// runtime type information. Unknown discriminators are a hard decode error.

const (
	TypeAttributedTerm = "attributed_term"
	TypeAliases        = "aliases"
	TypeAliased        = "aliased"
)

// CheckType validates a decoded discriminator against the expected one.
func CheckType(got, want string) error {
	if got != want {
		return fmt.Errorf("%w: expected type %q, got %q", ErrInvalidSerializationFormat, want, got)
	}
	return nil
}

type provenanceEntry struct {
	Source   SourceID `json:"source"`
	Position int      `json:"position"`
	Role     string   `json:"role,omitempty"`
}

type termJSON struct {
	Type       string            `json:"type"`
	Value      string            `json:"value"`
	Provenance []provenanceEntry `json:"provenance"`
}

// MarshalJSON implements json.Marshaler.
func (t *AttributedTerm) MarshalJSON() ([]byte, error) {
	out := termJSON{Type: TypeAttributedTerm, Value: t.value}
	for _, src := range t.order {
		a := t.sources[src]
		out.Provenance = append(out.Provenance, provenanceEntry{Source: src, Position: a.Position, Role: a.Role})
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *AttributedTerm) UnmarshalJSON(data []byte) error {
	var in termJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSerializationFormat, err)
	}
	if err := CheckType(in.Type, TypeAttributedTerm); err != nil {
		return err
	}
	if len(in.Provenance) == 0 {
		return fmt.Errorf("%w: term %q has empty provenance", ErrInvalidProvenance, in.Value)
	}
	t.value = in.Value
	t.order = nil
	t.sources = make(map[SourceID]Attribution, len(in.Provenance))
	for _, p := range in.Provenance {
		t.AddSource(p.Source, p.Position, p.Role)
	}
	return nil
}

type aliasesJSON struct {
	Type       string            `json:"type"`
	Homonyms   []*AttributedTerm `json:"homonyms,omitempty"`
	Synonyms   []*AttributedTerm `json:"synonyms,omitempty"`
	Candidates []*AttributedTerm `json:"candidates,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (a *Aliases) MarshalJSON() ([]byte, error) {
	return json.Marshal(aliasesJSON{
		Type:       TypeAliases,
		Homonyms:   a.homonyms,
		Synonyms:   a.synonyms,
		Candidates: a.candidates,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Aliases) UnmarshalJSON(data []byte) error {
	var in aliasesJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSerializationFormat, err)
	}
	if err := CheckType(in.Type, TypeAliases); err != nil {
		return err
	}
	a.homonyms = in.Homonyms
	a.synonyms = in.Synonyms
	a.candidates = in.Candidates
	return nil
}

type aliasedJSON struct {
	Type         string          `json:"type"`
	Primary      *AttributedTerm `json:"primary"`
	Alternatives *Aliases        `json:"alternatives,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (al *Aliased) MarshalJSON() ([]byte, error) {
	return json.Marshal(aliasedJSON{
		Type:         TypeAliased,
		Primary:      al.primary,
		Alternatives: al.alternatives,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (al *Aliased) UnmarshalJSON(data []byte) error {
	var in aliasedJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSerializationFormat, err)
	}
	if err := CheckType(in.Type, TypeAliased); err != nil {
		return err
	}
	if in.Primary == nil {
		return fmt.Errorf("%w: aliased object missing primary", ErrInvalidSerializationFormat)
	}
	al.primary = in.Primary
	if in.Alternatives == nil {
		in.Alternatives = NewAliases()
	}
	al.alternatives = in.Alternatives
	return nil
}
