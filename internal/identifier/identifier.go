// Package identifier defines the concrete identifier variants built on the
// Aliased capability: simple exact-match identifiers (fire number, parcel id,
// PO box) and complex fuzzy-match identifiers (individual name, household
// name, address). The variants form a closed tagged set; comparison code
// dispatches on the Kind tag rather than on runtime types.
package identifier

import (
	"strings"

	"github.com/jpickens/crosscheck/internal/model"
)

// Kind tags an identifier variant.
type Kind string

const (
	KindFireNumber     Kind = "fire_number"
	KindParcelID       Kind = "parcel_id"
	KindPOBox          Kind = "po_box"
	KindIndividualName Kind = "individual_name"
	KindHouseholdName  Kind = "household_name"
	KindAddress        Kind = "address"
)

// Identifier is the capability shared by every variant: a tagged Aliased
// value. Simple variants match by exact substitution; complex variants are
// compared through the similarity engine.
type Identifier interface {
	Kind() Kind
	Aliased() *model.Aliased
	Matches(value string) bool
}

// normalize is the shared normalization applied before exact-substitution
// matching: trim and collapse internal whitespace, lower-case.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
