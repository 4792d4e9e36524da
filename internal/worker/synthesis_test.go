package worker

import (
	"io"
	"testing"

	"github.com/jpickens/crosscheck/internal/consensus"
	"github.com/jpickens/crosscheck/internal/groupdb"
	"github.com/jpickens/crosscheck/internal/identifier"
	"github.com/jpickens/crosscheck/internal/model"
	"github.com/jpickens/crosscheck/internal/similarity"
)

func synthesisFixture(t *testing.T, lastNames [][2]string) (*groupdb.Database, *consensus.Synthesizer) {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Phases = []model.PhaseSpec{{Source: model.SourceDonor}}
	engine := similarity.NewEngine(cfg.Weights, nil)
	comparator := similarity.NewEntityComparator(engine, cfg.Weights)

	var entities []*identifier.Entity
	for i, pair := range lastNames {
		for j, last := range pair {
			name, err := identifier.NewIndividualName("", "", "", last, "", model.SourceDonor, i, "")
			if err != nil {
				t.Fatalf("name: %v", err)
			}
			entities = append(entities, &identifier.Entity{
				Key:    string(rune('a'+i)) + string(rune('0'+j)),
				Source: model.SourceDonor,
				Kind:   identifier.EntityIndividual,
				Name:   name,
			})
		}
	}

	db := groupdb.NewDatabase(cfg, comparator, io.Discard)
	if err := db.Build(entities); err != nil {
		t.Fatalf("build: %v", err)
	}
	return db, consensus.NewSynthesizer(cfg, engine)
}

func TestSynthesizeGroups_AllGroupsProcessed(t *testing.T) {
	// Three pairs of identical last names, three two-member groups
	db, syn := synthesisFixture(t, [][2]string{
		{"Ballard", "Ballard"},
		{"Dodge", "Dodge"},
		{"Mitchell", "Mitchell"},
	})
	if len(db.Groups()) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(db.Groups()))
	}

	results := SynthesizeGroups(db, syn, 2)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, r := range results {
		if r.GetError() != nil {
			t.Errorf("group %d: unexpected error %v", r.GroupIndex, r.Error)
		}
	}
	for _, g := range db.Groups() {
		if g.Consensus == nil {
			t.Errorf("group %d: expected a consensus entity", g.Index)
		}
	}
}

func TestSynthesizeGroups_MoreGroupsThanBuffer(t *testing.T) {
	// Enough groups to overrun the pool's channel buffers several times over
	var pairs [][2]string
	names := []string{"Ball", "Card", "Dorn", "Fell", "Gort", "Hews", "Jarl", "Kemp", "Lund", "Mott"}
	for _, n := range names {
		pairs = append(pairs, [2]string{n, n})
	}
	db, syn := synthesisFixture(t, pairs)

	results := SynthesizeGroups(db, syn, 1)
	if len(results) != len(db.Groups()) {
		t.Fatalf("expected %d results, got %d", len(db.Groups()), len(results))
	}
}
