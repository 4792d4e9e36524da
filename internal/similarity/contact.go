package similarity

import (
	"github.com/jpickens/crosscheck/internal/identifier"
	"github.com/jpickens/crosscheck/internal/model"
)

// EntityComparator produces the entity-level score set consumed by the
// classification policy.
//
// Directional contract: the household-membership component keys its weight
// split off the RECEIVER's state (the first argument), so Compare(a, b) and
// Compare(b, a) can differ when exactly one side is in a household. This is
// deliberate: the receiver is the candidate being placed, and its own
// membership state decides which signals discriminate. Callers must not
// assume symmetry.
type EntityComparator struct {
	engine  *Engine
	weights model.WeightConfig
}

// NewEntityComparator builds a comparator around an engine.
func NewEntityComparator(engine *Engine, weights model.WeightConfig) *EntityComparator {
	return &EntityComparator{engine: engine, weights: weights}
}

// Compare scores candidate a against b across the matchable dimensions.
func (c *EntityComparator) Compare(a, b *identifier.Entity) (ScoreSet, error) {
	var s ScoreSet

	name, hasName, err := c.nameScore(a, b)
	if err != nil {
		return s, err
	}
	s.NameAlone, s.HasName = name, hasName

	contact, hasContact := c.contactScore(a, b)
	s.ContactAlone, s.HasContact = contact, hasContact

	if hasName && hasContact {
		w := c.weights.Combined
		s.Combined = (w.Name*name + w.Contact*contact) / (w.Name + w.Contact)
	}
	return s, nil
}

// nameScore compares the name identifiers. A household name against an
// individual name is compared on the derived full-name strings, since the
// engine's per-kind strategies only accept like kinds.
func (c *EntityComparator) nameScore(a, b *identifier.Entity) (float64, bool, error) {
	if a.Name == nil || b.Name == nil {
		return 0, false, nil
	}
	if a.Name.Kind() != b.Name.Kind() {
		return StringSimilarity(a.FullName(), b.FullName()), true, nil
	}
	score, err := c.engine.Compare(a.Name, b.Name)
	if err != nil {
		return 0, false, err
	}
	return score, true, nil
}

// contactScore blends address, fire number, PO box and household membership,
// renormalized over the components present on both sides. Membership on its
// own is too weak a signal to constitute the dimension: the dimension is
// absent unless at least one real contact identifier was comparable.
func (c *EntityComparator) contactScore(a, b *identifier.Entity) (float64, bool) {
	w := c.weights.Contact
	sum := newWeightedSum()

	if a.Address != nil && b.Address != nil {
		if score, err := c.engine.Compare(a.Address, b.Address); err == nil {
			sum.add("address", w.Address, score)
		}
	}
	if a.FireNumber != nil && b.FireNumber != nil {
		if score, err := c.engine.Compare(a.FireNumber, b.FireNumber); err == nil {
			sum.add("fire_number", w.FireNumber, score)
		}
	}
	if a.POBox != nil && b.POBox != nil {
		if score, err := c.engine.Compare(a.POBox, b.POBox); err == nil {
			sum.add("po_box", w.POBox, score)
		}
	}
	if sum.weightSum == 0 {
		return 0, false
	}
	sum.add("membership", w.Membership, c.membershipScore(a, b))

	return sum.score(), true
}

// membershipScore implements the conditional weighting. When the receiver is
// in no household the in-household boolean carries 100% of the weight: two
// unattached records agreeing on that fact score 1.0 regardless of anything
// else here. Once the receiver's membership is known, which household it is
// and the role within it carry the signal instead, split per configuration.
func (c *EntityComparator) membershipScore(a, b *identifier.Entity) float64 {
	if !a.InHousehold {
		if a.InHousehold == b.InHousehold {
			return 1
		}
		return 0
	}

	w := c.weights.Contact
	household := 0.0
	if a.HouseholdID != "" && a.HouseholdID == b.HouseholdID {
		household = 1
	}
	head := 0.0
	if a.HeadOfHousehold == b.HeadOfHousehold {
		head = 1
	}
	return (w.HouseholdID*household + w.HeadFlag*head) / (w.HouseholdID + w.HeadFlag)
}
