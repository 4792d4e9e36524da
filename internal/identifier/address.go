package identifier

import (
	"strings"

	"github.com/jpickens/crosscheck/internal/model"
)

// The island municipality appears under two names in the sources: the postal
// name and the incorporated town name. They denote the same place.
var blockIslandCities = map[string]bool{
	"block island": true,
	"new shoreham": true,
}

// CityEquivalent reports whether two city names denote the same municipality,
// either literally or through the island's postal/municipal naming split.
func CityEquivalent(a, b string) bool {
	na, nb := normalize(a), normalize(b)
	if na == nb {
		return true
	}
	return blockIslandCities[na] && blockIslandCities[nb]
}

// AddressParts are the decomposed fields of a street address, already
// postal-normalized by the upstream collaborator.
type AddressParts struct {
	Number     string `json:"number,omitempty"`
	Street     string `json:"street,omitempty"`
	StreetType string `json:"street_type,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Zip        string `json:"zip,omitempty"`
	Unit       string `json:"unit,omitempty"`
}

// Address is a decomposed street address. The Aliased primary is the derived
// one-line form. For the Block Island locale the street number doubles as
// the fire number, so a FireNumber is synthesized when it parses.
type Address struct {
	aliased *model.Aliased
	parts   AddressParts

	blockIsland bool
	fireNumber  *FireNumber
}

// NewAddress builds an address identifier attributed to the given source.
func NewAddress(parts AddressParts, source model.SourceID, position int, role string) (*Address, error) {
	a := &Address{parts: parts}
	a.blockIsland = blockIslandCities[normalize(parts.City)]

	term, err := model.NewAttributedTerm(a.deriveLine(), source, position, role)
	if err != nil {
		return nil, err
	}
	al, err := model.NewAliased(term)
	if err != nil {
		return nil, err
	}
	a.aliased = al

	if a.blockIsland && parts.Number != "" {
		fnTerm, err := model.NewAttributedTerm(parts.Number, source, position, "fire_number")
		if err == nil {
			if fn, err := NewFireNumber(fnTerm); err == nil {
				a.fireNumber = fn
			}
		}
	}
	return a, nil
}

func (a *Address) deriveLine() string {
	var b strings.Builder
	appendPart := func(s, sep string) {
		if s = strings.TrimSpace(s); s == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(s)
	}
	appendPart(a.parts.Number, " ")
	appendPart(a.parts.Street, " ")
	appendPart(a.parts.StreetType, " ")
	appendPart(a.parts.Unit, " ")
	appendPart(a.parts.City, ", ")
	appendPart(a.parts.State, ", ")
	appendPart(a.parts.Zip, " ")
	return b.String()
}

// Kind implements Identifier.
func (a *Address) Kind() Kind { return KindAddress }

// Aliased implements Identifier.
func (a *Address) Aliased() *model.Aliased { return a.aliased }

// Parts returns the decomposed fields.
func (a *Address) Parts() AddressParts { return a.parts }

// Line returns the derived one-line form.
func (a *Address) Line() string { return a.aliased.Primary().Value() }

// IsBlockIsland reports whether the address is in the island municipality
// under either of its names.
func (a *Address) IsBlockIsland() bool { return a.blockIsland }

// FireNumber returns the synthesized fire number, or nil when the locale is
// off-island or the street number does not parse as one.
func (a *Address) FireNumber() *FireNumber { return a.fireNumber }

// Matches reports whether value equals the one-line form or a recorded
// alternative spelling.
func (a *Address) Matches(value string) bool {
	if normalize(value) == normalize(a.Line()) {
		return true
	}
	return a.aliased.Matches(value)
}

// Clone returns a deep copy.
func (a *Address) Clone() *Address {
	if a == nil {
		return nil
	}
	return &Address{
		aliased:     a.aliased.Clone(),
		parts:       a.parts,
		blockIsland: a.blockIsland,
		fireNumber:  a.fireNumber.Clone(),
	}
}
