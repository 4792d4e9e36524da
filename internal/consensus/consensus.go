// Package consensus synthesizes one merged entity per multi-member group,
// keeping the full audit trail of which member contributed which value.
package consensus

import (
	"fmt"
	"sort"
	"time"

	"github.com/jpickens/crosscheck/internal/groupdb"
	"github.com/jpickens/crosscheck/internal/identifier"
	"github.com/jpickens/crosscheck/internal/model"
	"github.com/jpickens/crosscheck/internal/similarity"
)

// Synthesizer builds consensus entities. It runs after the grouping phases
// complete, when membership is frozen; groups are independent at that point,
// so separate groups may be synthesized concurrently.
type Synthesizer struct {
	cfg    *model.Config
	engine *similarity.Engine
}

// NewSynthesizer creates a synthesizer.
func NewSynthesizer(cfg *model.Config, engine *similarity.Engine) *Synthesizer {
	return &Synthesizer{cfg: cfg, engine: engine}
}

// SynthesizeAll runs synthesis over every group sequentially.
func (s *Synthesizer) SynthesizeAll(db *groupdb.Database) error {
	for _, g := range db.Groups() {
		if err := s.SynthesizeGroup(db, g); err != nil {
			return fmt.Errorf("group %d: %w", g.Index, err)
		}
	}
	return nil
}

// SynthesizeGroup computes the consensus entity for one group. A group of
// one needs no merge: its consensus stays nil by definition. Re-running
// replaces any existing consensus rather than merging into it.
func (s *Synthesizer) SynthesizeGroup(db *groupdb.Database, g *groupdb.EntityGroup) error {
	members := db.Members(g)
	if len(members) <= 1 {
		g.Consensus = nil
		return nil
	}

	c := &identifier.Entity{
		Key:    fmt.Sprintf("consensus-%d", g.Index),
		Source: consensusSource(members),
		Kind:   members[0].Kind,
	}

	c.Name = s.electName(members)
	c.Address = s.electAddress(members)
	c.SecondaryAddresses = s.mergeSecondaryAddresses(members)
	c.FireNumber = s.electFireNumber(members)
	c.ParcelID = s.electParcelID(members)
	c.POBox = s.electPOBox(members)

	s.mergeHousehold(c, members)
	s.mergeMembership(c, members)
	s.mergeAdminFields(c, members)
	c.RecordDate = mostRecentDate(members)

	constructed := make([]string, len(g.MemberKeys))
	copy(constructed, g.MemberKeys)
	c.ConstructedFrom = constructed

	g.Consensus = c
	return nil
}

// consensusSource prefers the authoritative donor ledger when any member
// came from it, else the founding member's source.
func consensusSource(members []*identifier.Entity) model.SourceID {
	for _, m := range members {
		if m.Source == model.SourceDonor {
			return model.SourceDonor
		}
	}
	return members[0].Source
}

// electPrimary implements the shared election: the winner is the candidate
// with the highest TOTAL pairwise similarity against all other candidates,
// not the highest score against any single reference. Ties break to the
// earliest member, preserving founding order.
func (s *Synthesizer) electPrimary(candidates []identifier.Identifier) (int, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	bestIdx, bestTotal := 0, -1.0
	for i, a := range candidates {
		total := 0.0
		for j, b := range candidates {
			if i == j {
				continue
			}
			total += s.pairScore(a, b)
		}
		if total > bestTotal {
			bestIdx, bestTotal = i, total
		}
	}
	return bestIdx, true
}

// pairScore compares two identifiers, falling back to the primary-value
// string similarity when the kinds differ (a household name against an
// individual name inside a mixed group).
func (s *Synthesizer) pairScore(a, b identifier.Identifier) float64 {
	if a.Kind() == b.Kind() {
		if score, err := s.engine.Compare(a, b); err == nil {
			return score
		}
	}
	return similarity.StringSimilarity(a.Aliased().Primary().Value(), b.Aliased().Primary().Value())
}

// absorbAlternatives re-runs the comparator between the winner and every
// losing candidate, categorizing each by the same tiers used for entity
// classification and attaching it (with its provenance) to the winner.
func (s *Synthesizer) absorbAlternatives(winner identifier.Identifier, losers []identifier.Identifier, trueTh, nearTh float64) {
	floor := s.cfg.Thresholds.CandidateFloor
	for _, loser := range losers {
		score := s.pairScore(winner, loser)
		category, keep := similarity.CategoryForScore(score, trueTh, nearTh, floor)
		if !keep {
			continue
		}
		winner.Aliased().AddAlternative(loser.Aliased().Primary().Clone(), category)
		for _, cat := range []model.AliasCategory{model.CategoryHomonym, model.CategorySynonym, model.CategoryCandidate} {
			for _, t := range loser.Aliased().Alternatives().Category(cat) {
				winner.Aliased().AddAlternative(t.Clone(), cat)
			}
		}
	}
}

func (s *Synthesizer) electName(members []*identifier.Entity) identifier.Identifier {
	var candidates []identifier.Identifier
	for _, m := range members {
		if m.Name != nil {
			candidates = append(candidates, m.Name)
		}
	}
	idx, ok := s.electPrimary(candidates)
	if !ok {
		return nil
	}

	var winner identifier.Identifier
	switch n := candidates[idx].(type) {
	case *identifier.IndividualName:
		winner = n.Clone()
	case *identifier.HouseholdName:
		winner = n.Clone()
	default:
		return nil
	}
	th := s.cfg.Thresholds
	s.absorbAlternatives(winner, append(candidates[:idx:idx], candidates[idx+1:]...), th.TrueMatch.NameAlone, th.NearMatch.NameAlone)
	return winner
}

func (s *Synthesizer) electAddress(members []*identifier.Entity) *identifier.Address {
	var candidates []identifier.Identifier
	for _, m := range members {
		if m.Address != nil {
			candidates = append(candidates, m.Address)
		}
	}
	idx, ok := s.electPrimary(candidates)
	if !ok {
		return nil
	}
	winner := candidates[idx].(*identifier.Address).Clone()
	th := s.cfg.Thresholds
	s.absorbAlternatives(winner, append(candidates[:idx:idx], candidates[idx+1:]...), th.TrueMatch.ContactAlone, th.NearMatch.ContactAlone)
	return winner
}

func (s *Synthesizer) electFireNumber(members []*identifier.Entity) *identifier.FireNumber {
	var candidates []identifier.Identifier
	for _, m := range members {
		if m.FireNumber != nil {
			candidates = append(candidates, m.FireNumber)
		}
	}
	idx, ok := s.electPrimary(candidates)
	if !ok {
		return nil
	}
	winner := candidates[idx].(*identifier.FireNumber).Clone()
	th := s.cfg.Thresholds
	s.absorbAlternatives(winner, append(candidates[:idx:idx], candidates[idx+1:]...), th.TrueMatch.ContactAlone, th.NearMatch.ContactAlone)
	return winner
}

func (s *Synthesizer) electParcelID(members []*identifier.Entity) *identifier.ParcelID {
	var candidates []identifier.Identifier
	for _, m := range members {
		if m.ParcelID != nil {
			candidates = append(candidates, m.ParcelID)
		}
	}
	idx, ok := s.electPrimary(candidates)
	if !ok {
		return nil
	}
	winner := candidates[idx].(*identifier.ParcelID).Clone()
	th := s.cfg.Thresholds
	s.absorbAlternatives(winner, append(candidates[:idx:idx], candidates[idx+1:]...), th.TrueMatch.ContactAlone, th.NearMatch.ContactAlone)
	return winner
}

func (s *Synthesizer) electPOBox(members []*identifier.Entity) *identifier.POBox {
	var candidates []identifier.Identifier
	for _, m := range members {
		if m.POBox != nil {
			candidates = append(candidates, m.POBox)
		}
	}
	idx, ok := s.electPrimary(candidates)
	if !ok {
		return nil
	}
	winner := candidates[idx].(*identifier.POBox).Clone()
	th := s.cfg.Thresholds
	s.absorbAlternatives(winner, append(candidates[:idx:idx], candidates[idx+1:]...), th.TrueMatch.ContactAlone, th.NearMatch.ContactAlone)
	return winner
}

// mergeSecondaryAddresses pools every secondary address across every member,
// duplicates included, deduplicates at the configured threshold, and ranks
// the unique set by popularity: each survivor's rank key is the sum of its
// similarity against every instance in the original pooled multiset, so an
// address confirmed by more members ranks higher even though it appears once
// in the output.
func (s *Synthesizer) mergeSecondaryAddresses(members []*identifier.Entity) []*identifier.Address {
	var pool []*identifier.Address
	for _, m := range members {
		pool = append(pool, m.SecondaryAddresses...)
	}
	if len(pool) == 0 {
		return nil
	}

	unique := s.DedupAddresses(pool, s.cfg.Dedup.Address)
	popularity := make([]float64, len(unique))
	for i, u := range unique {
		for _, inst := range pool {
			popularity[i] += s.addressScore(u, inst)
		}
	}
	return sortAddressesByPopularity(unique, popularity)
}

func sortAddressesByPopularity(unique []*identifier.Address, popularity []float64) []*identifier.Address {
	idx := make([]int, len(unique))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return popularity[idx[a]] > popularity[idx[b]]
	})
	out := make([]*identifier.Address, len(unique))
	for i, j := range idx {
		out[i] = unique[j].Clone()
	}
	return out
}

// DedupAddresses collapses near-duplicate addresses at the given similarity
// threshold, first-seen wins. Deduplicating an already-deduplicated list is
// a no-op.
func (s *Synthesizer) DedupAddresses(pool []*identifier.Address, threshold float64) []*identifier.Address {
	var unique []*identifier.Address
	for _, a := range pool {
		dup := false
		for _, u := range unique {
			if s.addressScore(u, a) >= threshold {
				dup = true
				break
			}
		}
		if !dup {
			unique = append(unique, a)
		}
	}
	return unique
}

func (s *Synthesizer) addressScore(a, b *identifier.Address) float64 {
	score, err := s.engine.Compare(a, b)
	if err != nil {
		return 0
	}
	return score
}

// mergeHousehold pools member rosters into the consensus household name,
// deduplicated by name similarity, first-seen wins.
func (s *Synthesizer) mergeHousehold(c *identifier.Entity, members []*identifier.Entity) {
	hh, ok := c.Name.(*identifier.HouseholdName)
	if !ok {
		return
	}
	sim := func(a, b string) float64 { return similarity.StringSimilarity(a, b) }
	threshold := s.cfg.Dedup.Individual
	for _, m := range members {
		mh, ok := m.Name.(*identifier.HouseholdName)
		if !ok {
			continue
		}
		for _, member := range mh.Members() {
			hh.AddMember(member.Clone(), sim, threshold)
		}
	}
}

// mergeMembership carries household state: the consensus is in a household
// if any member is, taking the first member's household id and head flag in
// member order.
func (s *Synthesizer) mergeMembership(c *identifier.Entity, members []*identifier.Entity) {
	for _, m := range members {
		if m.InHousehold {
			c.InHousehold = true
			c.HouseholdID = m.HouseholdID
			c.HeadOfHousehold = m.HeadOfHousehold
			return
		}
	}
}

// mergeAdminFields applies the explicit most-information, arbitrary
// tie-break policy: first non-nil value in member order wins.
func (s *Synthesizer) mergeAdminFields(c *identifier.Entity, members []*identifier.Entity) {
	for _, m := range members {
		if c.AssessedValue == nil && m.AssessedValue != nil {
			v := *m.AssessedValue
			c.AssessedValue = &v
		}
		if c.UserCode == nil && m.UserCode != nil {
			v := *m.UserCode
			c.UserCode = &v
		}
		if c.SubNeighborhood == nil && m.SubNeighborhood != nil {
			v := *m.SubNeighborhood
			c.SubNeighborhood = &v
		}
	}
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
}

// mostRecentDate returns the member record date that parses to the most
// recent instant; unparseable dates are skipped.
func mostRecentDate(members []*identifier.Entity) string {
	best := ""
	var bestTime time.Time
	for _, m := range members {
		if m.RecordDate == "" {
			continue
		}
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, m.RecordDate); err == nil {
				if best == "" || ts.After(bestTime) {
					best, bestTime = m.RecordDate, ts
				}
				break
			}
		}
	}
	return best
}
