package identifier

import "github.com/jpickens/crosscheck/internal/model"

// EntityKind classifies a candidate entity by the richness of its record.
type EntityKind string

const (
	EntityHousehold  EntityKind = "household"  // multi-person household record
	EntityIndividual EntityKind = "individual" // single-person record
	EntityProperty   EntityKind = "property"   // property-only record
)

// Entity is one candidate record from one source, its fields already
// normalized into provenance-tagged identifiers by the upstream collaborator.
// The reconciler never parses source text; it only groups and merges these.
type Entity struct {
	Key    string         `json:"key"`
	Source model.SourceID `json:"source"`
	Kind   EntityKind     `json:"kind"`

	// Name is an *IndividualName or *HouseholdName depending on Kind.
	Name Identifier `json:"-"`

	Address            *Address   `json:"-"`
	SecondaryAddresses []*Address `json:"-"`

	FireNumber *FireNumber `json:"-"`
	ParcelID   *ParcelID   `json:"-"`
	POBox      *POBox      `json:"-"`

	// Household membership state, used by the conditional-weight contact
	// comparison.
	InHousehold     bool   `json:"in_household"`
	HouseholdID     string `json:"household_id,omitempty"`
	HeadOfHousehold bool   `json:"head_of_household"`

	// Administrative scalars with no multi-value semantics. First non-nil
	// wins at consensus time.
	AssessedValue   *float64 `json:"assessed_value,omitempty"`
	UserCode        *string  `json:"user_code,omitempty"`
	SubNeighborhood *string  `json:"sub_neighborhood,omitempty"`

	// RecordDate is the source-format record date; the most recent parseable
	// one wins at consensus time.
	RecordDate string `json:"record_date,omitempty"`

	// ConstructedFrom lists the member keys a consensus entity was
	// synthesized from. Empty on source entities; immutable once set.
	ConstructedFrom []string `json:"constructed_from,omitempty"`
}

// FullName returns the entity's display name, empty when no name identifier
// is attached.
func (e *Entity) FullName() string {
	if e.Name == nil {
		return ""
	}
	return e.Name.Aliased().Primary().Value()
}
