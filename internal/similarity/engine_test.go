package similarity

import (
	"errors"
	"testing"

	"github.com/jpickens/crosscheck/internal/identifier"
	"github.com/jpickens/crosscheck/internal/model"
)

func newTerm(t *testing.T, value string, source model.SourceID) *model.AttributedTerm {
	t.Helper()
	term, err := model.NewAttributedTerm(value, source, 0, "")
	if err != nil {
		t.Fatalf("NewAttributedTerm(%q): %v", value, err)
	}
	return term
}

func testWeights() model.WeightConfig {
	return model.DefaultConfig().Weights
}

// mapCache is a deterministic in-test cache
type mapCache struct {
	entries map[string]float64
	hits    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]float64)}
}

func (c *mapCache) Get(key string) (float64, bool) {
	score, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return score, ok
}

func (c *mapCache) Set(key string, score float64) { c.entries[key] = score }
func (c *mapCache) Clear()                        { c.entries = make(map[string]float64) }

func TestEngine_Compare_KindMismatch(t *testing.T) {
	e := NewEngine(testWeights(), nil)
	fn, _ := identifier.NewFireNumber(newTerm(t, "1234", model.SourceDonor))
	pid, _ := identifier.NewParcelID(newTerm(t, "Plat 7 Lot 12", model.SourceAssessor))

	if _, err := e.Compare(fn, pid); !errors.Is(err, model.ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch comparing across kinds, got %v", err)
	}
	if _, err := e.Compare(nil, fn); !errors.Is(err, model.ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch for nil identifier, got %v", err)
	}
}

func TestEngine_Compare_SimpleIdentifiers(t *testing.T) {
	e := NewEngine(testWeights(), nil)

	a, _ := identifier.NewFireNumber(newTerm(t, "1234", model.SourceDonor))
	b, _ := identifier.NewFireNumber(newTerm(t, "1234 ", model.SourceAssessor))
	c, _ := identifier.NewFireNumber(newTerm(t, "42", model.SourceDirectory))

	score, err := e.Compare(a, b)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if score != 1 {
		t.Errorf("whitespace variants of the same number should score 1, got %v", score)
	}

	score, _ = e.Compare(a, c)
	if score != 0 {
		t.Errorf("different numbers should score 0, got %v", score)
	}
}

func TestEngine_Compare_IndividualNames_Weighted(t *testing.T) {
	e := NewEngine(testWeights(), nil)

	a, _ := identifier.NewIndividualName("", "John", "", "Smith", "", model.SourceDonor, 0, "")
	b, _ := identifier.NewIndividualName("", "Jon", "", "Smith", "", model.SourceAssessor, 0, "")

	score, breakdown, err := e.CompareDetailed(a, b)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	// first: 0.75 at weight 0.3, last: 1.0 at weight 0.5, renormalized
	want := (0.3*0.75 + 0.5*1.0) / 0.8
	approx(t, "weighted name score", score, want)
	if _, ok := breakdown["first"]; !ok {
		t.Error("expected first-name component in breakdown")
	}
	if _, ok := breakdown["middle"]; ok {
		t.Error("absent middle names must not contribute a component")
	}
}

func TestEngine_Compare_IndividualNames_FullNameFallback(t *testing.T) {
	e := NewEngine(testWeights(), nil)

	// No structured part present on both sides
	a, _ := identifier.NewIndividualName("", "John", "", "", "", model.SourceDonor, 0, "")
	b, _ := identifier.NewIndividualName("", "", "", "Smith", "", model.SourceAssessor, 0, "")

	_, breakdown, err := e.CompareDetailed(a, b)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if _, ok := breakdown["full_name"]; !ok {
		t.Errorf("expected full-name fallback, breakdown %v", breakdown)
	}
}

func TestEngine_Compare_Addresses_CityEquivalence(t *testing.T) {
	e := NewEngine(testWeights(), nil)

	// Same street, postal name on one side and municipal name on the other.
	// The city component must score 1 through the equivalence, not through
	// string similarity.
	a, _ := identifier.NewAddress(identifier.AddressParts{
		Number: "123", Street: "Corn Neck", StreetType: "Rd", City: "Block Island",
	}, model.SourceDonor, 0, "")
	b, _ := identifier.NewAddress(identifier.AddressParts{
		Number: "123", Street: "Corn Neck", StreetType: "Rd", City: "New Shoreham",
	}, model.SourceAssessor, 0, "")

	score, breakdown, err := e.CompareDetailed(a, b)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	approx(t, "city component", breakdown["city"], 1)
	approx(t, "address score", score, 1)

	th := model.DefaultConfig().Thresholds
	if score < th.TrueMatch.ContactAlone {
		t.Errorf("equivalent-city address pair must clear the true-match band, got %v", score)
	}
}

func TestEngine_Compare_Addresses_MissingFieldsRenormalized(t *testing.T) {
	e := NewEngine(testWeights(), nil)

	// The assessor record has no zip or state; renormalization keeps the
	// score from being dragged down by fields only one side carries
	a, _ := identifier.NewAddress(identifier.AddressParts{
		Number: "123", Street: "Corn Neck", City: "Block Island", State: "RI", Zip: "02807",
	}, model.SourceDonor, 0, "")
	b, _ := identifier.NewAddress(identifier.AddressParts{
		Number: "123", Street: "Corn Neck", City: "New Shoreham",
	}, model.SourceAssessor, 0, "")

	score, err := e.Compare(a, b)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	approx(t, "renormalized score", score, 1)
}

func TestEngine_Compare_Households_RosterOverlap(t *testing.T) {
	e := NewEngine(testWeights(), nil)
	exact := func(a, b string) float64 {
		if a == b {
			return 1
		}
		return 0
	}

	ha, _ := identifier.NewHouseholdName(newTerm(t, "Smith Household", model.SourceDonor))
	john, _ := identifier.NewIndividualName("", "John", "", "Smith", "", model.SourceDonor, 0, "")
	jane, _ := identifier.NewIndividualName("", "Jane", "", "Smith", "", model.SourceDonor, 1, "")
	ha.AddMember(john, exact, 0.85)
	ha.AddMember(jane, exact, 0.85)

	hb, _ := identifier.NewHouseholdName(newTerm(t, "Smith Household", model.SourceAssessor))
	john2, _ := identifier.NewIndividualName("", "John", "", "Smith", "", model.SourceAssessor, 0, "")
	hb.AddMember(john2, exact, 0.85)

	score, breakdown, err := e.CompareDetailed(ha, hb)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	// Smaller roster fully covered: overlap 1, full name 1
	approx(t, "roster component", breakdown["roster"], 1)
	approx(t, "household score", score, 1)
}

func TestEngine_WithStrategy_Stub(t *testing.T) {
	e := NewEngine(testWeights(), nil)
	calls := 0
	e.WithStrategy(identifier.KindFireNumber, func(a, b identifier.Identifier) (float64, Breakdown, error) {
		calls++
		return 0.42, nil, nil
	})

	a, _ := identifier.NewFireNumber(newTerm(t, "1234", model.SourceDonor))
	b, _ := identifier.NewFireNumber(newTerm(t, "1234", model.SourceAssessor))

	score, err := e.Compare(a, b)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if score != 0.42 || calls != 1 {
		t.Errorf("expected stubbed strategy to run once, score=%v calls=%d", score, calls)
	}
}

func TestEngine_Compare_Memoized(t *testing.T) {
	memo := newMapCache()
	e := NewEngine(testWeights(), memo)
	calls := 0
	e.WithStrategy(identifier.KindFireNumber, func(a, b identifier.Identifier) (float64, Breakdown, error) {
		calls++
		return 0.9, nil, nil
	})

	a, _ := identifier.NewFireNumber(newTerm(t, "1234", model.SourceDonor))
	b, _ := identifier.NewFireNumber(newTerm(t, "1235", model.SourceAssessor))

	// Both directions hit the same entry
	if _, err := e.Compare(a, b); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if _, err := e.Compare(b, a); err != nil {
		t.Fatalf("compare: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected one strategy invocation with memoization, got %d", calls)
	}
	if memo.hits != 1 {
		t.Errorf("expected one cache hit, got %d", memo.hits)
	}
}
