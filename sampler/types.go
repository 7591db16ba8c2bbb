package sampler

import "gopkg.in/guregu/null.v3"

// Locations maps a profile identifier (its file name) to its path.
type Locations map[string]string

// PairMapping maps a pair key of the form "idA|idB" to its group label.
type PairMapping map[string]string

// SampledRow is one drawn pair. Profile1 and Profile2 are only valid when the
// corresponding identifier was found in Locations.
type SampledRow struct {
	PairKey  string
	Profile1 null.String
	Profile2 null.String
	Group    string
}

// Resolved is true when both members of the pair have a location.
func (r SampledRow) Resolved() bool {
	return r.Profile1.Valid && r.Profile2.Valid
}

// ResultTable is the ordered output of Sample.
type ResultTable []SampledRow

// Columns is the fixed column order of a ResultTable on output.
var Columns = []string{"profile_1", "profile_2", "group"}
