package similarity

import (
	"fmt"

	"github.com/jpickens/crosscheck/internal/cache"
	"github.com/jpickens/crosscheck/internal/identifier"
	"github.com/jpickens/crosscheck/internal/model"
)

// Breakdown maps component names to their individual scores, exposing how a
// comparison arrived at its total.
type Breakdown map[string]float64

// Strategy scores two identifiers of the same kind in [0,1].
type Strategy func(a, b identifier.Identifier) (float64, Breakdown, error)

// Engine resolves per-kind comparison strategies through an explicit map
// supplied at construction time. Tests substitute deterministic stubs via
// WithStrategy; there is no global registry.
type Engine struct {
	weights    model.WeightConfig
	strategies map[identifier.Kind]Strategy
	memo       cache.Cache
}

// NewEngine builds an engine with the default strategy set. memo may be nil
// to disable memoization.
func NewEngine(weights model.WeightConfig, memo cache.Cache) *Engine {
	e := &Engine{
		weights:    weights,
		strategies: make(map[identifier.Kind]Strategy),
		memo:       memo,
	}
	for _, k := range []identifier.Kind{identifier.KindFireNumber, identifier.KindParcelID, identifier.KindPOBox} {
		e.strategies[k] = exactStrategy
	}
	e.strategies[identifier.KindIndividualName] = e.compareIndividualNames
	e.strategies[identifier.KindHouseholdName] = e.compareHouseholdNames
	e.strategies[identifier.KindAddress] = e.compareAddresses
	return e
}

// WithStrategy replaces the strategy for one kind and returns the engine.
func (e *Engine) WithStrategy(kind identifier.Kind, s Strategy) *Engine {
	e.strategies[kind] = s
	return e
}

// Compare scores two identifiers of the same kind. Comparing across kinds is
// a contract violation and fails with ErrTypeMismatch rather than returning
// a silently low score.
func (e *Engine) Compare(a, b identifier.Identifier) (float64, error) {
	score, _, err := e.compare(a, b, false)
	return score, err
}

// CompareDetailed scores two identifiers and returns the per-component
// breakdown alongside the total.
func (e *Engine) CompareDetailed(a, b identifier.Identifier) (float64, Breakdown, error) {
	return e.compare(a, b, true)
}

func (e *Engine) compare(a, b identifier.Identifier, detailed bool) (float64, Breakdown, error) {
	if a == nil || b == nil {
		return 0, nil, fmt.Errorf("%w: nil identifier", model.ErrTypeMismatch)
	}
	if a.Kind() != b.Kind() {
		return 0, nil, fmt.Errorf("%w: %s vs %s", model.ErrTypeMismatch, a.Kind(), b.Kind())
	}
	strategy, ok := e.strategies[a.Kind()]
	if !ok {
		return 0, nil, fmt.Errorf("%w: no strategy for kind %s", model.ErrTypeMismatch, a.Kind())
	}

	// The default strategies are all symmetric, so the memo key may order
	// the pair. Breakdowns are not cached.
	var key string
	if e.memo != nil && !detailed {
		key = cache.PairKey(string(a.Kind()), a.Aliased().Primary().Value(), b.Aliased().Primary().Value())
		if score, hit := e.memo.Get(key); hit {
			return score, nil, nil
		}
	}
	score, breakdown, err := strategy(a, b)
	if err != nil {
		return 0, nil, err
	}
	if key != "" {
		e.memo.Set(key, score)
	}
	return score, breakdown, nil
}

// exactStrategy scores simple identifiers: exact-value substitution only.
func exactStrategy(a, b identifier.Identifier) (float64, Breakdown, error) {
	if a.Matches(b.Aliased().Primary().Value()) || b.Matches(a.Aliased().Primary().Value()) {
		return 1, Breakdown{"exact": 1}, nil
	}
	return 0, Breakdown{"exact": 0}, nil
}

// weightedSum accumulates component scores with renormalization over the
// components actually present on both sides.
type weightedSum struct {
	total     float64
	weightSum float64
	breakdown Breakdown
}

func newWeightedSum() *weightedSum {
	return &weightedSum{breakdown: make(Breakdown)}
}

// add records a component present on both sides.
func (w *weightedSum) add(name string, weight, score float64) {
	w.total += weight * score
	w.weightSum += weight
	w.breakdown[name] = score
}

// score returns the renormalized total, or 0 when nothing was comparable.
func (w *weightedSum) score() float64 {
	if w.weightSum == 0 {
		return 0
	}
	return w.total / w.weightSum
}

func (e *Engine) compareIndividualNames(a, b identifier.Identifier) (float64, Breakdown, error) {
	na, ok := a.(*identifier.IndividualName)
	if !ok {
		return 0, nil, fmt.Errorf("%w: expected individual name", model.ErrTypeMismatch)
	}
	nb, ok := b.(*identifier.IndividualName)
	if !ok {
		return 0, nil, fmt.Errorf("%w: expected individual name", model.ErrTypeMismatch)
	}

	w := e.weights.Name
	sum := newWeightedSum()
	addPart := func(name string, weight float64, pa, pb string) {
		if pa == "" || pb == "" {
			return
		}
		sum.add(name, weight, StringSimilarity(pa, pb))
	}
	addPart("first", w.First, na.First, nb.First)
	addPart("middle", w.Middle, na.Middle, nb.Middle)
	addPart("last", w.Last, na.Last, nb.Last)
	addPart("suffix", w.Suffix, na.Suffix, nb.Suffix)

	// Names without comparable structured parts fall back to the derived
	// full-name strings.
	if sum.weightSum == 0 {
		full := StringSimilarity(na.FullName(), nb.FullName())
		return full, Breakdown{"full_name": full}, nil
	}
	return sum.score(), sum.breakdown, nil
}

func (e *Engine) compareHouseholdNames(a, b identifier.Identifier) (float64, Breakdown, error) {
	ha, ok := a.(*identifier.HouseholdName)
	if !ok {
		return 0, nil, fmt.Errorf("%w: expected household name", model.ErrTypeMismatch)
	}
	hb, ok := b.(*identifier.HouseholdName)
	if !ok {
		return 0, nil, fmt.Errorf("%w: expected household name", model.ErrTypeMismatch)
	}

	w := e.weights.Household
	sum := newWeightedSum()
	sum.add("full_name", w.FullName, StringSimilarity(ha.FullName(), hb.FullName()))
	if roster, ok := rosterOverlap(ha.Members(), hb.Members()); ok {
		sum.add("roster", w.Roster, roster)
	}
	return sum.score(), sum.breakdown, nil
}

// rosterOverlap averages, over the smaller roster, each member's best
// full-name similarity in the other roster. Symmetric by construction.
func rosterOverlap(a, b []*identifier.IndividualName) (float64, bool) {
	if len(a) == 0 || len(b) == 0 {
		return 0, false
	}
	if len(b) < len(a) {
		a, b = b, a
	}
	var total float64
	for _, ma := range a {
		best := 0.0
		for _, mb := range b {
			if s := StringSimilarity(ma.FullName(), mb.FullName()); s > best {
				best = s
			}
		}
		total += best
	}
	return total / float64(len(a)), true
}

func (e *Engine) compareAddresses(a, b identifier.Identifier) (float64, Breakdown, error) {
	aa, ok := a.(*identifier.Address)
	if !ok {
		return 0, nil, fmt.Errorf("%w: expected address", model.ErrTypeMismatch)
	}
	ab, ok := b.(*identifier.Address)
	if !ok {
		return 0, nil, fmt.Errorf("%w: expected address", model.ErrTypeMismatch)
	}

	pa, pb := aa.Parts(), ab.Parts()
	w := e.weights.Address
	sum := newWeightedSum()
	addExact := func(name string, weight float64, va, vb string) {
		if va == "" || vb == "" {
			return
		}
		score := 0.0
		if equalFold(va, vb) {
			score = 1
		}
		sum.add(name, weight, score)
	}

	addExact("number", w.Number, pa.Number, pb.Number)
	if pa.Street != "" && pb.Street != "" {
		sum.add("street", w.Street, StringSimilarity(pa.Street, pb.Street))
	}
	addExact("street_type", w.StreetType, pa.StreetType, pb.StreetType)
	if pa.City != "" && pb.City != "" {
		city := 0.0
		if identifier.CityEquivalent(pa.City, pb.City) {
			city = 1
		} else {
			city = StringSimilarity(pa.City, pb.City)
		}
		sum.add("city", w.City, city)
	}
	addExact("state", w.State, pa.State, pb.State)
	addExact("zip", w.Zip, pa.Zip, pb.Zip)
	addExact("unit", w.Unit, pa.Unit, pb.Unit)

	// Free-form addresses with no comparable parts fall back to the derived
	// one-line strings.
	if sum.weightSum == 0 {
		line := StringSimilarity(aa.Line(), ab.Line())
		return line, Breakdown{"line": line}, nil
	}
	return sum.score(), sum.breakdown, nil
}

func equalFold(a, b string) bool {
	return normalize(a) == normalize(b)
}
