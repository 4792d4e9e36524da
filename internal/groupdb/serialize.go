package groupdb

import (
	"encoding/json"
	"fmt"

	"github.com/jpickens/crosscheck/internal/identifier"
	"github.com/jpickens/crosscheck/internal/model"
)

const (
	typeGroup    = "entity_group"
	typeDatabase = "entity_group_database"
)

type groupJSON struct {
	Type         string             `json:"type"`
	Index        int                `json:"index"`
	Phase        int                `json:"phase"`
	FounderKey   string             `json:"founder_key"`
	MemberKeys   []string           `json:"member_keys"`
	NearMissKeys []string           `json:"near_miss_keys,omitempty"`
	Prospect     bool               `json:"prospect"`
	Consensus    *identifier.Entity `json:"consensus,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (g *EntityGroup) MarshalJSON() ([]byte, error) {
	return json.Marshal(groupJSON{
		Type:         typeGroup,
		Index:        g.Index,
		Phase:        g.Phase,
		FounderKey:   g.FounderKey,
		MemberKeys:   g.MemberKeys,
		NearMissKeys: g.NearMissKeys,
		Prospect:     g.Prospect,
		Consensus:    g.Consensus,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (g *EntityGroup) UnmarshalJSON(data []byte) error {
	var in groupJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidSerializationFormat, err)
	}
	if err := model.CheckType(in.Type, typeGroup); err != nil {
		return err
	}
	g.Index = in.Index
	g.Phase = in.Phase
	g.FounderKey = in.FounderKey
	g.MemberKeys = in.MemberKeys
	g.NearMissKeys = in.NearMissKeys
	g.Prospect = in.Prospect
	g.Consensus = in.Consensus
	return nil
}

type databaseJSON struct {
	Type     string               `json:"type"`
	Entities []*identifier.Entity `json:"entities"`
	Groups   []*EntityGroup       `json:"groups"`
	Stats    []model.PhaseStats   `json:"stats,omitempty"`
}

// MarshalJSON implements json.Marshaler. Entities serialize in ingestion
// order so a round trip preserves the deterministic ordering guarantees.
func (db *Database) MarshalJSON() ([]byte, error) {
	entities := make([]*identifier.Entity, 0, len(db.order))
	for _, key := range db.order {
		entities = append(entities, db.entities[key])
	}
	return json.Marshal(databaseJSON{
		Type:     typeDatabase,
		Entities: entities,
		Groups:   db.groups,
		Stats:    db.stats,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The decoded database is a
// read-only snapshot: it carries no comparator or config and cannot run
// further phases, but every lookup and the partition invariant hold.
func (db *Database) UnmarshalJSON(data []byte) error {
	var in databaseJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidSerializationFormat, err)
	}
	if err := model.CheckType(in.Type, typeDatabase); err != nil {
		return err
	}
	db.entities = make(map[string]*identifier.Entity, len(in.Entities))
	db.order = db.order[:0]
	for _, e := range in.Entities {
		db.entities[e.Key] = e
		db.order = append(db.order, e.Key)
	}
	db.groups = in.Groups
	db.stats = in.Stats
	db.assigned = make(map[string]int)
	for _, g := range in.Groups {
		for _, key := range g.MemberKeys {
			if prior, taken := db.assigned[key]; taken {
				return fmt.Errorf("%w: key %s in groups %d and %d", model.ErrDuplicateAssignment, key, prior, g.Index)
			}
			db.assigned[key] = g.Index
		}
	}
	return nil
}
