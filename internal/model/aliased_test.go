package model

import "testing"

func mustTerm(t *testing.T, value string, source SourceID) *AttributedTerm {
	t.Helper()
	term, err := NewAttributedTerm(value, source, 0, "")
	if err != nil {
		t.Fatalf("NewAttributedTerm(%q): %v", value, err)
	}
	return term
}

func TestAliases_Add_DefaultCategory(t *testing.T) {
	a := NewAliases()
	a.Add(mustTerm(t, "Smyth", SourceDonor), "")

	if len(a.Category(CategorySynonym)) != 1 {
		t.Error("empty category should default to synonym")
	}
	if !a.Contains("Smyth") {
		t.Error("expected synonym to be substitutable")
	}
}

func TestAliases_Add_SameValueMergesProvenance(t *testing.T) {
	a := NewAliases()
	a.Add(mustTerm(t, "Smyth", SourceDonor), CategorySynonym)
	a.Add(mustTerm(t, "Smyth", SourceAssessor), CategorySynonym)

	syns := a.Category(CategorySynonym)
	if len(syns) != 1 {
		t.Fatalf("expected 1 synonym after duplicate add, got %d", len(syns))
	}
	if !syns[0].HasSource(SourceDonor) || !syns[0].HasSource(SourceAssessor) {
		t.Error("expected provenance from both observations on the single term")
	}
}

func TestAliases_Contains_ExcludesCandidates(t *testing.T) {
	a := NewAliases()
	a.Add(mustTerm(t, "Smith", SourceDonor), CategoryHomonym)
	a.Add(mustTerm(t, "Smyth", SourceDonor), CategorySynonym)
	a.Add(mustTerm(t, "Schmidt", SourceDonor), CategoryCandidate)

	if !a.Contains("Smith") {
		t.Error("homonym should be substitutable")
	}
	if !a.Contains("Smyth") {
		t.Error("synonym should be substitutable")
	}
	if a.Contains("Schmidt") {
		t.Error("candidate must never be substitutable")
	}
}

func TestAliases_Remove(t *testing.T) {
	a := NewAliases()
	a.Add(mustTerm(t, "Smith", SourceDonor), CategoryHomonym)
	a.Add(mustTerm(t, "Smith", SourceDonor), CategoryCandidate)
	a.Add(mustTerm(t, "Smyth", SourceDonor), CategorySynonym)

	if removed := a.Remove("Smith"); removed != 2 {
		t.Errorf("expected 2 removed across categories, got %d", removed)
	}
	if a.Len() != 1 {
		t.Errorf("expected 1 remaining term, got %d", a.Len())
	}
	if removed := a.Remove("Nobody"); removed != 0 {
		t.Errorf("expected 0 removed for absent value, got %d", removed)
	}
}

func TestAliases_AllTerms_HomonymsFirst(t *testing.T) {
	a := NewAliases()
	a.Add(mustTerm(t, "syn", SourceDonor), CategorySynonym)
	a.Add(mustTerm(t, "hom", SourceDonor), CategoryHomonym)
	a.Add(mustTerm(t, "cand", SourceDonor), CategoryCandidate)

	values := a.AllTermValues()
	want := []string{"hom", "syn", "cand"}
	for i := range want {
		if values[i] != want[i] {
			t.Errorf("AllTermValues[%d]: expected %s, got %s", i, want[i], values[i])
		}
	}
}

func TestAliased_Matches(t *testing.T) {
	al, err := NewAliased(mustTerm(t, "Smith", SourceDonor))
	if err != nil {
		t.Fatalf("NewAliased: %v", err)
	}
	al.AddAlternative(mustTerm(t, "Smyth", SourceAssessor), CategorySynonym)
	al.AddAlternative(mustTerm(t, "Schmidt", SourceDirectory), CategoryCandidate)

	if !al.Matches("Smith") {
		t.Error("primary value should match")
	}
	if !al.Matches("Smyth") {
		t.Error("synonym should match")
	}
	if al.Matches("Schmidt") {
		t.Error("candidate must not match")
	}

	if _, err := NewAliased(nil); err != ErrInvalidProvenance {
		t.Errorf("expected ErrInvalidProvenance for nil primary, got %v", err)
	}
}

func TestAliased_AddAlternative_PrimaryValueMergesProvenance(t *testing.T) {
	al, _ := NewAliased(mustTerm(t, "Smith", SourceDonor))
	al.AddAlternative(mustTerm(t, "Smith", SourceAssessor), CategorySynonym)

	if al.Alternatives().Len() != 0 {
		t.Error("primary's own value must not appear among alternatives")
	}
	if !al.Primary().HasSource(SourceAssessor) {
		t.Error("expected provenance merged onto primary")
	}
}

func TestAliased_SetPrimary_DemotesOldPrimary(t *testing.T) {
	al, _ := NewAliased(mustTerm(t, "Smith", SourceDonor))
	al.AddAlternative(mustTerm(t, "Smyth", SourceAssessor), CategorySynonym)

	al.SetPrimary(mustTerm(t, "Smyth", SourceDirectory))

	if al.Primary().Value() != "Smyth" {
		t.Errorf("expected new primary Smyth, got %q", al.Primary().Value())
	}
	// The promoted value must no longer appear as its own alternative
	for _, v := range al.Alternatives().AllTermValues() {
		if v == "Smyth" {
			t.Error("new primary still listed as an alternative")
		}
	}
	// The old primary survives as a synonym
	if !al.Alternatives().Contains("Smith") {
		t.Error("old primary should be demoted to a synonym")
	}
}

func TestAliased_SetPrimary_SameValueNoOp(t *testing.T) {
	al, _ := NewAliased(mustTerm(t, "Smith", SourceDonor))
	al.SetPrimary(mustTerm(t, "Smith", SourceAssessor))

	if al.Primary().Value() != "Smith" {
		t.Error("primary value changed on same-value SetPrimary")
	}
	if al.Alternatives().Len() != 0 {
		t.Error("same-value SetPrimary must not add alternatives")
	}
	if !al.Primary().HasSource(SourceAssessor) {
		t.Error("expected provenance merged on same-value SetPrimary")
	}
}

func TestAliased_Clone_Independent(t *testing.T) {
	al, _ := NewAliased(mustTerm(t, "Smith", SourceDonor))
	al.AddAlternative(mustTerm(t, "Smyth", SourceAssessor), CategorySynonym)

	clone := al.Clone()
	clone.AddAlternative(mustTerm(t, "Schmidt", SourceDirectory), CategorySynonym)

	if al.Alternatives().Len() != 1 {
		t.Error("mutating clone leaked into original")
	}
}
