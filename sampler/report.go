package sampler

import (
	"github.com/carbocation/pfx"
	"github.com/montanaflynn/stats"
)

// GroupReport describes what happened to one group during sampling.
type GroupReport struct {
	Group   string
	Members int
	Sampled int

	// Dropped counts sampled pairs with at least one member missing from the
	// profile locations.
	Dropped int
}

type Report struct {
	Groups []GroupReport
}

func (r Report) Sampled() int {
	n := 0
	for _, g := range r.Groups {
		n += g.Sampled
	}
	return n
}

func (r Report) Dropped() int {
	n := 0
	for _, g := range r.Groups {
		n += g.Dropped
	}
	return n
}

// GroupSizes summarizes the number of candidate pairs per group.
func (r Report) GroupSizes() (min, median, max float64, err error) {
	sizes := make(stats.Float64Data, 0, len(r.Groups))
	for _, g := range r.Groups {
		sizes = append(sizes, float64(g.Members))
	}

	if min, err = stats.Min(sizes); err != nil {
		return 0, 0, 0, pfx.Err(err)
	}
	if median, err = stats.Median(sizes); err != nil {
		return 0, 0, 0, pfx.Err(err)
	}
	if max, err = stats.Max(sizes); err != nil {
		return 0, 0, 0, pfx.Err(err)
	}

	return min, median, max, nil
}
