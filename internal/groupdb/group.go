// Package groupdb implements the entity-group database: the multi-phase
// greedy assignment of entities to groups, near-miss tracking, and the
// partition invariant that keeps every entity key in at most one group's
// membership across the whole database.
package groupdb

import "github.com/jpickens/crosscheck/internal/identifier"

// EntityGroup is one cluster of records believed to denote the same
// real-world entity. Membership is exclusive database-wide; near-miss
// attachment is not, and a near miss may still found or join another group
// later.
type EntityGroup struct {
	Index      int
	Phase      int
	FounderKey string

	// MemberKeys includes the founder and is duplicate-free.
	MemberKeys   []string
	NearMissKeys []string

	// Prospect is true while no member originates from the authoritative
	// donor ledger. It is updated on every membership change, never computed
	// lazily, so partially built state stays consistent for diagnostics.
	Prospect bool

	// Consensus is nil iff the group has a single member.
	Consensus *identifier.Entity
}

// HasMember reports whether key is a member of the group.
func (g *EntityGroup) HasMember(key string) bool {
	for _, k := range g.MemberKeys {
		if k == key {
			return true
		}
	}
	return false
}

// HasNearMiss reports whether key is attached as a near miss.
func (g *EntityGroup) HasNearMiss(key string) bool {
	for _, k := range g.NearMissKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (g *EntityGroup) addNearMiss(key string) {
	if g.HasNearMiss(key) || g.HasMember(key) {
		return
	}
	g.NearMissKeys = append(g.NearMissKeys, key)
}
