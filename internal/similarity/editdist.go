// Package similarity implements the weighted comparison engine: a
// character-class-aware edit distance, per-kind comparison strategies, the
// entity-level score set, and the pure classification policy that maps scores
// to match tiers.
package similarity

import "strings"

// Substitution costs are character-class dependent. Vowel confusion is the
// most common transcription pattern in the source data, so swapping one vowel
// for another is the cheapest edit; consonant-for-consonant costs a full
// unit; crossing classes sits in between. Insertions and deletions always
// cost one unit.
const (
	vowelSubCost     = 6.0 * 5.0 / (20.0 * 19.0) // ~0.0789
	consonantSubCost = 1.0
	crossSubCost     = (6.0 + 6.0) / 19.0 // ~0.6316
	indelCost        = 1.0
)

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

func substitutionCost(a, b rune) float64 {
	if a == b {
		return 0
	}
	av, bv := isVowel(a), isVowel(b)
	switch {
	case av && bv:
		return vowelSubCost
	case !av && !bv:
		return consonantSubCost
	default:
		return crossSubCost
	}
}

// normalize collapses whitespace and lower-cases before any distance
// computation.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// EditDistance computes the weighted edit distance between the normalized
// forms of a and b.
func EditDistance(a, b string) float64 {
	ra := []rune(normalize(a))
	rb := []rune(normalize(b))

	prev := make([]float64, len(rb)+1)
	curr := make([]float64, len(rb)+1)
	for j := range prev {
		prev[j] = float64(j) * indelCost
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = float64(i) * indelCost
		for j := 1; j <= len(rb); j++ {
			sub := prev[j-1] + substitutionCost(ra[i-1], rb[j-1])
			del := prev[j] + indelCost
			ins := curr[j-1] + indelCost
			curr[j] = min3(sub, del, ins)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// StringSimilarity normalizes the edit distance to a [0,1] similarity:
// 1 - distance/max(len). Two empty strings are identical.
func StringSimilarity(a, b string) float64 {
	na := []rune(normalize(a))
	nb := []rune(normalize(b))
	maxLen := len(na)
	if len(nb) > maxLen {
		maxLen = len(nb)
	}
	if maxLen == 0 {
		return 1
	}
	sim := 1 - EditDistance(a, b)/float64(maxLen)
	if sim < 0 {
		return 0
	}
	return sim
}
