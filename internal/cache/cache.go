package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Cache memoizes pairwise similarity scores. Grouping compares every
// unassigned candidate against group founders and members repeatedly, and a
// pair's score never changes within a run, so hits are frequent.
type Cache interface {
	Get(key string) (float64, bool)
	Set(key string, score float64)
	Clear()
}

// PairKey generates a stable key for a symmetric comparison of two values
// under one identifier kind. The values are ordered before hashing so both
// directions hit the same entry; asymmetric comparisons must not be cached
// through this key.
func PairKey(kind, a, b string) string {
	if b < a {
		a, b = b, a
	}
	hash := sha256.Sum256([]byte(kind + "\x00" + a + "\x00" + b))
	return "crosscheck:v1:" + hex.EncodeToString(hash[:])
}
