package similarity

import "github.com/jpickens/crosscheck/internal/model"

// Class is the outcome of classifying a comparison between two entities.
type Class int

const (
	NoMatch Class = iota
	NearMatch
	TrueMatch
)

func (c Class) String() string {
	switch c {
	case TrueMatch:
		return "true_match"
	case NearMatch:
		return "near_match"
	default:
		return "no_match"
	}
}

// ScoreSet carries one score per matchable dimension. A dimension is only
// considered when both entities had something to compare on it.
type ScoreSet struct {
	NameAlone    float64
	ContactAlone float64
	Combined     float64

	HasName    bool
	HasContact bool
}

// Classify applies the configured threshold tiers to a score set. A true
// match on any present dimension wins; otherwise a near match on any present
// dimension flags the pair for review. Pure function, no state.
func Classify(s ScoreSet, th model.ThresholdConfig) Class {
	if s.HasName && s.NameAlone >= th.TrueMatch.NameAlone {
		return TrueMatch
	}
	if s.HasContact && s.ContactAlone >= th.TrueMatch.ContactAlone {
		return TrueMatch
	}
	if s.HasName && s.HasContact && s.Combined >= th.TrueMatch.Combined {
		return TrueMatch
	}
	if s.HasName && s.NameAlone >= th.NearMatch.NameAlone {
		return NearMatch
	}
	if s.HasContact && s.ContactAlone >= th.NearMatch.ContactAlone {
		return NearMatch
	}
	if s.HasName && s.HasContact && s.Combined >= th.NearMatch.Combined {
		return NearMatch
	}
	return NoMatch
}

// CategoryForScore buckets an alternative value by its similarity against the
// chosen primary, reusing the same tiers that classify entities: at or above
// the true-match threshold it is a verified spelling variant, at or above the
// near-match threshold an asserted equivalent, and anything at or above the
// floor is kept only as an unverified candidate. Below the floor the value is
// dropped.
func CategoryForScore(score, trueThreshold, nearThreshold, floor float64) (model.AliasCategory, bool) {
	switch {
	case score >= trueThreshold:
		return model.CategoryHomonym, true
	case score >= nearThreshold:
		return model.CategorySynonym, true
	case score >= floor:
		return model.CategoryCandidate, true
	default:
		return "", false
	}
}
