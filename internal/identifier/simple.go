package identifier

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jpickens/crosscheck/internal/model"
)

// Simple identifiers match by exact-value substitution only: alternatives are
// literal spelling variants ("1234 " vs "1234"), never fuzzy matches.

// MaxFireNumber is the exclusive upper bound on island fire numbers. Numbers
// at or above it are not plotted on the fire district maps.
const MaxFireNumber = 3500

// FireNumber is the island fire-district lot number: a positive integer of at
// most four digits, below MaxFireNumber.
type FireNumber struct {
	aliased *model.Aliased
	number  int
}

// NewFireNumber validates and wraps a fire-number term. The term's value may
// carry stray whitespace from the source; validation parses the trimmed form
// but the literal value is preserved as the primary.
func NewFireNumber(term *model.AttributedTerm) (*FireNumber, error) {
	if term == nil {
		return nil, model.ErrInvalidProvenance
	}
	n, err := parseFireNumber(term.Value())
	if err != nil {
		return nil, err
	}
	al, err := model.NewAliased(term)
	if err != nil {
		return nil, err
	}
	return &FireNumber{aliased: al, number: n}, nil
}

func parseFireNumber(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if len(s) == 0 || len(s) > 4 {
		return 0, fmt.Errorf("fire number %q must be 1-4 digits", raw)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("fire number %q is not numeric: %w", raw, err)
	}
	if n <= 0 || n >= MaxFireNumber {
		return 0, fmt.Errorf("fire number %d out of range (1..%d)", n, MaxFireNumber-1)
	}
	return n, nil
}

// Kind implements Identifier.
func (f *FireNumber) Kind() Kind { return KindFireNumber }

// Aliased implements Identifier.
func (f *FireNumber) Aliased() *model.Aliased { return f.aliased }

// Number returns the parsed numeric value.
func (f *FireNumber) Number() int { return f.number }

// Matches reports whether value denotes the same fire number, up to
// whitespace, or is a recorded legitimate alternative.
func (f *FireNumber) Matches(value string) bool {
	if normalize(value) == normalize(f.aliased.Primary().Value()) {
		return true
	}
	return f.aliased.Matches(value)
}

// Absorb merges another observation of the same fire number. Literal spelling
// variants are recorded as homonyms; an identical literal merges provenance
// onto the primary.
func (f *FireNumber) Absorb(term *model.AttributedTerm) error {
	n, err := parseFireNumber(term.Value())
	if err != nil {
		return err
	}
	if n != f.number {
		return fmt.Errorf("fire number %d cannot absorb %d", f.number, n)
	}
	f.aliased.AddAlternative(term, model.CategoryHomonym)
	return nil
}

// ParcelID is the assessor's plat/lot parcel identifier, expected to be 1:1
// with fire numbers.
type ParcelID struct {
	aliased *model.Aliased
}

// NewParcelID wraps a parcel-id term.
func NewParcelID(term *model.AttributedTerm) (*ParcelID, error) {
	al, err := model.NewAliased(term)
	if err != nil {
		return nil, err
	}
	return &ParcelID{aliased: al}, nil
}

// Kind implements Identifier.
func (p *ParcelID) Kind() Kind { return KindParcelID }

// Aliased implements Identifier.
func (p *ParcelID) Aliased() *model.Aliased { return p.aliased }

// Matches reports an exact-substitution match up to whitespace and case.
func (p *ParcelID) Matches(value string) bool {
	if normalize(value) == normalize(p.aliased.Primary().Value()) {
		return true
	}
	return p.aliased.Matches(value)
}

// POBox is a post-office box identifier.
type POBox struct {
	aliased *model.Aliased
}

// NewPOBox wraps a PO box term.
func NewPOBox(term *model.AttributedTerm) (*POBox, error) {
	al, err := model.NewAliased(term)
	if err != nil {
		return nil, err
	}
	return &POBox{aliased: al}, nil
}

// Kind implements Identifier.
func (b *POBox) Kind() Kind { return KindPOBox }

// Aliased implements Identifier.
func (b *POBox) Aliased() *model.Aliased { return b.aliased }

// Matches reports an exact-substitution match up to whitespace and case.
func (b *POBox) Matches(value string) bool {
	if normalize(value) == normalize(b.aliased.Primary().Value()) {
		return true
	}
	return b.aliased.Matches(value)
}

// Clone returns a deep copy.
func (f *FireNumber) Clone() *FireNumber {
	if f == nil {
		return nil
	}
	return &FireNumber{aliased: f.aliased.Clone(), number: f.number}
}

// Clone returns a deep copy.
func (p *ParcelID) Clone() *ParcelID {
	if p == nil {
		return nil
	}
	return &ParcelID{aliased: p.aliased.Clone()}
}

// Clone returns a deep copy.
func (b *POBox) Clone() *POBox {
	if b == nil {
		return nil
	}
	return &POBox{aliased: b.aliased.Clone()}
}
