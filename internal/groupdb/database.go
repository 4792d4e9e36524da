package groupdb

import (
	"fmt"
	"io"
	"os"

	"github.com/jpickens/crosscheck/internal/identifier"
	"github.com/jpickens/crosscheck/internal/model"
	"github.com/jpickens/crosscheck/internal/similarity"
)

// Database owns every group and the set of assigned keys. It is built once
// per reconciliation run through the configured ordered phases; grouping is
// strictly sequential so the first-true-match-wins property is deterministic
// and the partition invariant needs no synchronization.
type Database struct {
	cfg        *model.Config
	comparator *similarity.EntityComparator

	entities map[string]*identifier.Entity
	order    []string // ingestion order of keys

	groups   []*EntityGroup
	assigned map[string]int // entity key -> group index

	stats []model.PhaseStats
	warn  io.Writer
}

// NewDatabase creates an empty database. Warnings (duplicate assignments) go
// to warn; nil defaults to stderr.
func NewDatabase(cfg *model.Config, comparator *similarity.EntityComparator, warn io.Writer) *Database {
	if warn == nil {
		warn = os.Stderr
	}
	return &Database{
		cfg:        cfg,
		comparator: comparator,
		entities:   make(map[string]*identifier.Entity),
		assigned:   make(map[string]int),
		warn:       warn,
	}
}

// Build ingests the candidate entities in order and runs the configured
// grouping phases. Groups are append-only during construction; consensus
// synthesis happens in a separate pass afterward.
func (db *Database) Build(entities []*identifier.Entity) error {
	for _, e := range entities {
		if e.Key == "" {
			return fmt.Errorf("entity with empty key (source %s)", e.Source)
		}
		if _, dup := db.entities[e.Key]; dup {
			return fmt.Errorf("duplicate entity key %q in input", e.Key)
		}
		db.entities[e.Key] = e
		db.order = append(db.order, e.Key)
	}

	for i, spec := range db.cfg.Phases {
		if err := db.runPhase(i+1, spec); err != nil {
			return fmt.Errorf("phase %d: %w", i+1, err)
		}
	}
	return nil
}

// phaseCandidates selects the unassigned keys a phase processes, preserving
// ingestion order. A spec with an empty kind is the remainder sweep: every
// unassigned entity, ordered by source priority (the spec's source first),
// ingestion order within each source.
func (db *Database) phaseCandidates(spec model.PhaseSpec) []string {
	if spec.Kind != "" {
		var keys []string
		for _, key := range db.order {
			e := db.entities[key]
			if _, taken := db.assigned[key]; taken {
				continue
			}
			if e.Source == spec.Source && string(e.Kind) == spec.Kind {
				keys = append(keys, key)
			}
		}
		return keys
	}

	var keys []string
	for _, src := range db.sourcePriority(spec.Source) {
		for _, key := range db.order {
			e := db.entities[key]
			if _, taken := db.assigned[key]; taken {
				continue
			}
			if e.Source == src {
				keys = append(keys, key)
			}
		}
	}
	return keys
}

// sourcePriority orders sources for the remainder sweep: the leading source
// first, then the remaining known sources in their fixed priority order.
func (db *Database) sourcePriority(first model.SourceID) []model.SourceID {
	all := []model.SourceID{model.SourceDonor, model.SourceAssessor, model.SourceDirectory}
	out := []model.SourceID{first}
	for _, s := range all {
		if s != first {
			out = append(out, s)
		}
	}
	return out
}

func (db *Database) runPhase(phase int, spec model.PhaseSpec) error {
	stats := model.PhaseStats{Phase: phase, Source: spec.Source, Kind: spec.Kind}

	for _, key := range db.phaseCandidates(spec) {
		if _, taken := db.assigned[key]; taken {
			continue
		}
		stats.Processed++

		candidate := db.entities[key]
		joined, nearGroups, err := db.place(candidate)
		if err != nil {
			return err
		}

		if joined >= 0 {
			if err := db.addMember(db.groups[joined], candidate); err != nil {
				stats.Duplicates++
			} else {
				stats.Joined++
			}
		} else {
			db.found(candidate, phase)
			stats.Founded++
		}
		for _, gi := range nearGroups {
			db.groups[gi].addNearMiss(key)
			stats.NearMisses++
		}
	}

	db.stats = append(db.stats, stats)
	return nil
}

// place scans existing groups in index order and classifies the candidate
// against each group's founder and current members. The first group yielding
// a true match wins; groups yielding only near matches collect the candidate
// as a near miss. Returns the joined group index (-1 if none) and the
// near-match group indexes encountered before joining.
func (db *Database) place(candidate *identifier.Entity) (int, []int, error) {
	var nearGroups []int
	for gi, g := range db.groups {
		best := similarity.NoMatch
		for _, memberKey := range g.MemberKeys {
			scores, err := db.comparator.Compare(candidate, db.entities[memberKey])
			if err != nil {
				return -1, nil, fmt.Errorf("compare %s vs %s: %w", candidate.Key, memberKey, err)
			}
			if class := similarity.Classify(scores, db.cfg.Thresholds); class > best {
				best = class
			}
			if best == similarity.TrueMatch {
				break
			}
		}
		switch best {
		case similarity.TrueMatch:
			return gi, nearGroups, nil
		case similarity.NearMatch:
			nearGroups = append(nearGroups, gi)
		}
	}
	return -1, nearGroups, nil
}

// found creates a new group with the candidate as founding member.
func (db *Database) found(e *identifier.Entity, phase int) *EntityGroup {
	g := &EntityGroup{
		Index:      len(db.groups),
		Phase:      phase,
		FounderKey: e.Key,
		MemberKeys: []string{e.Key},
		Prospect:   e.Source != model.SourceDonor,
	}
	db.groups = append(db.groups, g)
	db.assigned[e.Key] = g.Index
	return g
}

// addMember adds an entity to a group, enforcing the partition invariant: a
// key already assigned anywhere is reported and the operation is a no-op.
func (db *Database) addMember(g *EntityGroup, e *identifier.Entity) error {
	if prior, taken := db.assigned[e.Key]; taken {
		fmt.Fprintf(db.warn, "warning: %v: key %s already in group %d, skipping add to group %d\n",
			model.ErrDuplicateAssignment, e.Key, prior, g.Index)
		return model.ErrDuplicateAssignment
	}
	g.MemberKeys = append(g.MemberKeys, e.Key)
	db.assigned[e.Key] = g.Index
	if e.Source == model.SourceDonor {
		g.Prospect = false
	}
	return nil
}

// Groups returns the groups in founding order.
func (db *Database) Groups() []*EntityGroup {
	return db.groups
}

// Entity returns an ingested entity by key.
func (db *Database) Entity(key string) (*identifier.Entity, bool) {
	e, ok := db.entities[key]
	return e, ok
}

// Members returns the member entities of a group in membership order.
func (db *Database) Members(g *EntityGroup) []*identifier.Entity {
	out := make([]*identifier.Entity, 0, len(g.MemberKeys))
	for _, key := range g.MemberKeys {
		if e, ok := db.entities[key]; ok {
			out = append(out, e)
		}
	}
	return out
}

// AssignedGroup returns the index of the group holding key, if any.
func (db *Database) AssignedGroup(key string) (int, bool) {
	gi, ok := db.assigned[key]
	return gi, ok
}

// Stats returns the per-phase construction statistics.
func (db *Database) Stats() []model.PhaseStats {
	out := make([]model.PhaseStats, len(db.stats))
	copy(out, db.stats)
	return out
}
