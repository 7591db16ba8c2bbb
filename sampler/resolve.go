package sampler

import (
	"strings"

	"gopkg.in/guregu/null.v3"
)

const PairDelimiter = "|"

// SplitPairKey returns the first two "|"-delimited segments of key. Segments
// after the second are ignored, and a key without a delimiter yields an empty
// second identifier.
func SplitPairKey(key string) (id1, id2 string) {
	parts := strings.Split(key, PairDelimiter)
	id1 = parts[0]
	if len(parts) > 1 {
		id2 = parts[1]
	}

	return id1, id2
}

// Resolve looks up id in locations. The result is invalid when id is unknown.
func Resolve(locations Locations, id string) null.String {
	path, exists := locations[id]
	if !exists {
		return null.String{}
	}

	return null.StringFrom(path)
}

// ResolvePair splits key and resolves both of its members.
func ResolvePair(locations Locations, key, group string) SampledRow {
	id1, id2 := SplitPairKey(key)

	return SampledRow{
		PairKey:  key,
		Profile1: Resolve(locations, id1),
		Profile2: Resolve(locations, id2),
		Group:    group,
	}
}
