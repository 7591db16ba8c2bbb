package sampler

import (
	"math/rand"
	"sort"
	"time"
)

// GroupPairs partitions the pair keys by their group label. Keys within each
// group are sorted so that a seeded generator reproduces the same draw.
func GroupPairs(pairs PairMapping) map[string][]string {
	groups := make(map[string][]string)
	for key, group := range pairs {
		groups[group] = append(groups[group], key)
	}

	for _, keys := range groups {
		sort.Strings(keys)
	}

	return groups
}

// SortedGroupNames returns the labels of groups in ascending order.
func SortedGroupNames(groups map[string][]string) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// NewRand returns a generator seeded with seed. A zero seed is replaced by the
// current time; the seed actually used is returned so a run can be repeated.
func NewRand(seed int64) (*rand.Rand, int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return rand.New(rand.NewSource(seed)), seed
}

// drawWithoutReplacement returns n distinct members of keys, chosen uniformly
// at random, in the order drawn. keys is not modified.
func drawWithoutReplacement(keys []string, n int, rng *rand.Rand) []string {
	pool := make([]string, len(keys))
	copy(pool, keys)

	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	return pool[:n]
}

// Sample draws nSamples pair keys from every group without replacement,
// resolves both members of each drawn pair against locations, and drops the
// pairs where either member is missing. Groups are visited in ascending label
// order. If any group is smaller than nSamples, nothing is drawn and an
// *InsufficientGroupSizeError is returned. A nil rng is replaced by a
// time-seeded generator.
func Sample(locations Locations, pairs PairMapping, nSamples int, rng *rand.Rand) (ResultTable, Report, error) {
	report := Report{}

	if nSamples < 1 {
		return nil, report, ErrInvalidSampleCount
	}

	if rng == nil {
		rng, _ = NewRand(0)
	}

	groups := GroupPairs(pairs)
	names := SortedGroupNames(groups)

	for _, name := range names {
		if size := len(groups[name]); size < nSamples {
			return nil, report, &InsufficientGroupSizeError{Group: name, Size: size, Requested: nSamples}
		}
	}

	out := make(ResultTable, 0, len(names)*nSamples)
	for _, name := range names {
		gr := GroupReport{Group: name, Members: len(groups[name])}

		for _, key := range drawWithoutReplacement(groups[name], nSamples, rng) {
			gr.Sampled++

			row := ResolvePair(locations, key, name)
			if !row.Resolved() {
				gr.Dropped++
				continue
			}

			out = append(out, row)
		}

		report.Groups = append(report.Groups, gr)
	}

	return out, report, nil
}
