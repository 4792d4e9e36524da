package groupdb

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/jpickens/crosscheck/internal/identifier"
	"github.com/jpickens/crosscheck/internal/model"
	"github.com/jpickens/crosscheck/internal/similarity"
)

// pairScores stubs the name strategy: scores are looked up by the pair of
// full-name strings, so tests control classification outcomes exactly.
type pairScores map[string]float64

func (p pairScores) get(a, b string) float64 {
	if s, ok := p[a+"|"+b]; ok {
		return s
	}
	if s, ok := p[b+"|"+a]; ok {
		return s
	}
	if a == b {
		return 1
	}
	return 0
}

func newTestDB(t *testing.T, cfg *model.Config, scores pairScores, warn *bytes.Buffer) *Database {
	t.Helper()
	engine := similarity.NewEngine(cfg.Weights, nil)
	engine.WithStrategy(identifier.KindIndividualName, func(a, b identifier.Identifier) (float64, similarity.Breakdown, error) {
		return scores.get(a.Aliased().Primary().Value(), b.Aliased().Primary().Value()), nil, nil
	})
	comparator := similarity.NewEntityComparator(engine, cfg.Weights)
	return NewDatabase(cfg, comparator, warn)
}

func namedEntity(t *testing.T, key string, source model.SourceID, kind identifier.EntityKind, first string) *identifier.Entity {
	t.Helper()
	name, err := identifier.NewIndividualName("", first, "", "", "", source, 0, "")
	if err != nil {
		t.Fatalf("name for %s: %v", key, err)
	}
	return &identifier.Entity{Key: key, Source: source, Kind: kind, Name: name}
}

func singlePhaseConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Phases = []model.PhaseSpec{{Source: model.SourceDonor}}
	return cfg
}

func TestDatabase_Build_FoundsAndJoins(t *testing.T) {
	cfg := singlePhaseConfig()
	scores := pairScores{"Alice|Alicia": 0.9} // true match
	db := newTestDB(t, cfg, scores, &bytes.Buffer{})

	entities := []*identifier.Entity{
		namedEntity(t, "e1", model.SourceDonor, identifier.EntityIndividual, "Alice"),
		namedEntity(t, "e2", model.SourceDonor, identifier.EntityIndividual, "Alicia"),
		namedEntity(t, "e3", model.SourceDonor, identifier.EntityIndividual, "Zebulon"),
	}
	if err := db.Build(entities); err != nil {
		t.Fatalf("build: %v", err)
	}

	groups := db.Groups()
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].FounderKey != "e1" || !groups[0].HasMember("e2") {
		t.Errorf("expected e2 joined under founder e1: %+v", groups[0])
	}
	if groups[1].FounderKey != "e3" {
		t.Errorf("expected e3 to found its own group, got %+v", groups[1])
	}

	if gi, ok := db.AssignedGroup("e2"); !ok || gi != 0 {
		t.Errorf("expected e2 assigned to group 0, got (%d, %v)", gi, ok)
	}
}

func TestDatabase_Build_FirstTrueMatchWins(t *testing.T) {
	cfg := singlePhaseConfig()
	// The candidate true-matches both existing groups; it must land in the
	// earlier one and never the later
	scores := pairScores{
		"Alice|Al": 0.95,
		"Bob|Al":   0.95,
	}
	db := newTestDB(t, cfg, scores, &bytes.Buffer{})

	entities := []*identifier.Entity{
		namedEntity(t, "e1", model.SourceDonor, identifier.EntityIndividual, "Alice"),
		namedEntity(t, "e2", model.SourceDonor, identifier.EntityIndividual, "Bob"),
		namedEntity(t, "e3", model.SourceDonor, identifier.EntityIndividual, "Al"),
	}
	if err := db.Build(entities); err != nil {
		t.Fatalf("build: %v", err)
	}

	groups := db.Groups()
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if !groups[0].HasMember("e3") {
		t.Error("candidate must join the first true-matching group")
	}
	if groups[1].HasMember("e3") {
		t.Error("candidate must not also join a later group")
	}
}

func TestDatabase_Build_NearMissTracking(t *testing.T) {
	cfg := singlePhaseConfig()
	// Near match against Alice's group, true match against Bob's
	scores := pairScores{
		"Alice|Al": 0.85,
		"Bob|Al":   0.95,
	}
	db := newTestDB(t, cfg, scores, &bytes.Buffer{})

	entities := []*identifier.Entity{
		namedEntity(t, "e1", model.SourceDonor, identifier.EntityIndividual, "Alice"),
		namedEntity(t, "e2", model.SourceDonor, identifier.EntityIndividual, "Bob"),
		namedEntity(t, "e3", model.SourceDonor, identifier.EntityIndividual, "Al"),
	}
	if err := db.Build(entities); err != nil {
		t.Fatalf("build: %v", err)
	}

	groups := db.Groups()
	if !groups[1].HasMember("e3") {
		t.Error("expected e3 joined to Bob's group")
	}
	if !groups[0].HasNearMiss("e3") {
		t.Error("expected e3 recorded as a near miss on Alice's group")
	}
	if groups[0].HasMember("e3") {
		t.Error("near miss must not grant membership")
	}
}

func TestDatabase_Build_NearMissStillFoundsOwnGroup(t *testing.T) {
	cfg := singlePhaseConfig()
	scores := pairScores{"Alice|Al": 0.85} // near only
	db := newTestDB(t, cfg, scores, &bytes.Buffer{})

	entities := []*identifier.Entity{
		namedEntity(t, "e1", model.SourceDonor, identifier.EntityIndividual, "Alice"),
		namedEntity(t, "e2", model.SourceDonor, identifier.EntityIndividual, "Al"),
	}
	if err := db.Build(entities); err != nil {
		t.Fatalf("build: %v", err)
	}

	groups := db.Groups()
	if len(groups) != 2 {
		t.Fatalf("expected the near miss to found its own group, got %d groups", len(groups))
	}
	if !groups[0].HasNearMiss("e2") {
		t.Error("expected near-miss attachment to survive founding")
	}
	if gi, _ := db.AssignedGroup("e2"); gi != 1 {
		t.Errorf("expected e2 assigned to its own group, got %d", gi)
	}
}

func TestDatabase_Build_RejectsBadKeys(t *testing.T) {
	cfg := singlePhaseConfig()
	db := newTestDB(t, cfg, pairScores{}, &bytes.Buffer{})
	err := db.Build([]*identifier.Entity{{Key: "", Source: model.SourceDonor}})
	if err == nil || !strings.Contains(err.Error(), "empty key") {
		t.Errorf("expected empty-key error, got %v", err)
	}

	db = newTestDB(t, cfg, pairScores{}, &bytes.Buffer{})
	err = db.Build([]*identifier.Entity{
		namedEntity(t, "dup", model.SourceDonor, identifier.EntityIndividual, "A"),
		namedEntity(t, "dup", model.SourceDonor, identifier.EntityIndividual, "B"),
	})
	if err == nil || !strings.Contains(err.Error(), "duplicate entity key") {
		t.Errorf("expected duplicate-key error, got %v", err)
	}
}

func TestDatabase_Phases_FilterAndRemainderOrder(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Phases = []model.PhaseSpec{
		{Source: model.SourceDonor, Kind: "household"},
		{Source: model.SourceDonor}, // remainder sweep
	}
	db := newTestDB(t, cfg, pairScores{}, &bytes.Buffer{})

	entities := []*identifier.Entity{
		namedEntity(t, "dir1", model.SourceDirectory, identifier.EntityIndividual, "Carol"),
		namedEntity(t, "don1", model.SourceDonor, identifier.EntityHousehold, "Alice"),
		namedEntity(t, "asr1", model.SourceAssessor, identifier.EntityProperty, "Bob"),
		namedEntity(t, "don2", model.SourceDonor, identifier.EntityIndividual, "Dora"),
	}
	if err := db.Build(entities); err != nil {
		t.Fatalf("build: %v", err)
	}

	stats := db.Stats()
	if len(stats) != 2 {
		t.Fatalf("expected 2 phase stats, got %d", len(stats))
	}
	if stats[0].Processed != 1 || stats[0].Founded != 1 {
		t.Errorf("phase 1 should process only the donor household: %+v", stats[0])
	}
	if stats[1].Processed != 3 {
		t.Errorf("remainder should sweep the rest: %+v", stats[1])
	}

	// Remainder order: donor first, then assessor, then directory. Nothing
	// matches, so founding order mirrors processing order.
	groups := db.Groups()
	wantFounders := []string{"don1", "don2", "asr1", "dir1"}
	if len(groups) != len(wantFounders) {
		t.Fatalf("expected %d groups, got %d", len(wantFounders), len(groups))
	}
	for i, want := range wantFounders {
		if groups[i].FounderKey != want {
			t.Errorf("group %d: expected founder %s, got %s", i, want, groups[i].FounderKey)
		}
	}
}

func TestDatabase_ProspectFlag(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Phases = []model.PhaseSpec{{Source: model.SourceAssessor}}
	scores := pairScores{"Alice|Alicia": 0.95}
	db := newTestDB(t, cfg, scores, &bytes.Buffer{})

	entities := []*identifier.Entity{
		namedEntity(t, "asr1", model.SourceAssessor, identifier.EntityProperty, "Alice"),
		namedEntity(t, "don1", model.SourceDonor, identifier.EntityIndividual, "Alicia"),
	}
	if err := db.Build(entities); err != nil {
		t.Fatalf("build: %v", err)
	}

	g := db.Groups()[0]
	if g.FounderKey != "asr1" {
		t.Fatalf("expected assessor founder, got %s", g.FounderKey)
	}
	if g.Prospect {
		t.Error("donor member should clear the prospect flag")
	}
}

func TestDatabase_AddMember_DuplicateAssignmentNoOp(t *testing.T) {
	cfg := singlePhaseConfig()
	var warn bytes.Buffer
	db := newTestDB(t, cfg, pairScores{}, &warn)

	e1 := namedEntity(t, "e1", model.SourceDonor, identifier.EntityIndividual, "Alice")
	e2 := namedEntity(t, "e2", model.SourceDonor, identifier.EntityIndividual, "Bob")
	if err := db.Build([]*identifier.Entity{e1, e2}); err != nil {
		t.Fatalf("build: %v", err)
	}

	g2 := db.Groups()[1]
	err := db.addMember(g2, e1)
	if !errors.Is(err, model.ErrDuplicateAssignment) {
		t.Fatalf("expected ErrDuplicateAssignment, got %v", err)
	}
	if g2.HasMember("e1") {
		t.Error("duplicate assignment must not change membership")
	}
	if gi, _ := db.AssignedGroup("e1"); gi != 0 {
		t.Errorf("original assignment must stand, got group %d", gi)
	}
	if !strings.Contains(warn.String(), "already in group") {
		t.Errorf("expected a warning on the warn writer, got %q", warn.String())
	}
}

func TestDatabase_Members_InMembershipOrder(t *testing.T) {
	cfg := singlePhaseConfig()
	scores := pairScores{"Alice|Alicia": 0.95}
	db := newTestDB(t, cfg, scores, &bytes.Buffer{})

	if err := db.Build([]*identifier.Entity{
		namedEntity(t, "e1", model.SourceDonor, identifier.EntityIndividual, "Alice"),
		namedEntity(t, "e2", model.SourceDonor, identifier.EntityIndividual, "Alicia"),
	}); err != nil {
		t.Fatalf("build: %v", err)
	}

	members := db.Members(db.Groups()[0])
	if len(members) != 2 || members[0].Key != "e1" || members[1].Key != "e2" {
		t.Errorf("unexpected member order: %v", members)
	}
}
