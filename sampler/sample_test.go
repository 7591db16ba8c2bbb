package sampler

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"strings"
	"testing"
)

func seeded(seed int64) *rand.Rand {
	r, _ := NewRand(seed)
	return r
}

// fullyResolvable builds nGroups groups of size pairs each, with every member
// present in the returned locations.
func fullyResolvable(nGroups, size int) (Locations, PairMapping) {
	locations := make(Locations)
	pairs := make(PairMapping)
	for g := 0; g < nGroups; g++ {
		for i := 0; i < size; i++ {
			a := fmt.Sprintf("s%d_%da", g, i)
			b := fmt.Sprintf("s%d_%db", g, i)
			locations[a] = "/p/" + a
			locations[b] = "/p/" + b
			pairs[a+"|"+b] = fmt.Sprintf("g%d", g)
		}
	}

	return locations, pairs
}

func TestSamplePerGroupCardinality(t *testing.T) {
	locations, pairs := fullyResolvable(4, 25)

	for _, n := range []int{1, 7, 25} {
		table, report, err := Sample(locations, pairs, n, seeded(42))
		if err != nil {
			t.Fatal(err)
		}

		if len(report.Groups) != 4 {
			t.Fatalf("Expected 4 groups in report, got %d", len(report.Groups))
		}

		counts := make(map[string]int)
		for _, row := range table {
			counts[row.Group]++
		}

		for _, g := range report.Groups {
			if g.Sampled != n {
				t.Errorf("n=%d: group %s sampled %d pairs", n, g.Group, g.Sampled)
			}
			if counts[g.Group] != n {
				t.Errorf("n=%d: group %s has %d output rows", n, g.Group, counts[g.Group])
			}
		}

		if len(table) != 4*n {
			t.Errorf("n=%d: expected %d rows, got %d", n, 4*n, len(table))
		}
	}
}

func TestSampleNoDuplicatesWithinGroup(t *testing.T) {
	locations, pairs := fullyResolvable(3, 50)

	for seed := int64(1); seed <= 20; seed++ {
		table, _, err := Sample(locations, pairs, 30, seeded(seed))
		if err != nil {
			t.Fatal(err)
		}

		seen := make(map[string]struct{})
		for _, row := range table {
			k := row.Group + "\x00" + row.PairKey
			if _, exists := seen[k]; exists {
				t.Fatalf("seed %d: pair %s drawn twice in group %s", seed, row.PairKey, row.Group)
			}
			seen[k] = struct{}{}
		}
	}
}

func TestSampleDropsUnresolved(t *testing.T) {
	locations := Locations{"A": "/p/A", "B": "/p/B", "C": "/p/C"}
	pairs := PairMapping{
		"A|B": "g1",
		"A|X": "g1",
		"Y|C": "g1",
		"B|C": "g2",
		"C|Z": "g2",
	}

	table, report, err := Sample(locations, pairs, 2, seeded(7))
	if err != nil {
		t.Fatal(err)
	}

	for _, row := range table {
		if !row.Resolved() {
			t.Errorf("Unresolved row in output: %+v", row)
		}
		id1, id2 := SplitPairKey(row.PairKey)
		if row.Profile1.String != locations[id1] || row.Profile2.String != locations[id2] {
			t.Errorf("Row %+v does not match locations", row)
		}
	}

	if report.Sampled() != 4 {
		t.Errorf("Expected 4 sampled pairs, got %d", report.Sampled())
	}
	if got := report.Sampled() - report.Dropped(); got != len(table) {
		t.Errorf("Report says %d survived, table has %d rows", got, len(table))
	}
}

func TestSampleInsufficientGroup(t *testing.T) {
	pairs := PairMapping{
		"A|B": "big",
		"A|C": "big",
		"B|C": "big",
		"A|D": "small",
	}

	table, _, err := Sample(Locations{"A": "/p/A"}, pairs, 2, seeded(1))

	var sizeErr *InsufficientGroupSizeError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("Expected InsufficientGroupSizeError, got %v", err)
	}
	if sizeErr.Group != "small" || sizeErr.Size != 1 || sizeErr.Requested != 2 {
		t.Errorf("Unexpected error contents: %+v", sizeErr)
	}
	if table != nil {
		t.Errorf("Expected no output, got %v", table)
	}
}

func TestSampleInvalidCount(t *testing.T) {
	for _, n := range []int{0, -1} {
		if _, _, err := Sample(Locations{}, PairMapping{"A|B": "g"}, n, nil); !errors.Is(err, ErrInvalidSampleCount) {
			t.Errorf("n=%d: expected ErrInvalidSampleCount, got %v", n, err)
		}
	}
}

func TestSampleEmptyLocations(t *testing.T) {
	_, pairs := fullyResolvable(2, 5)

	table, report, err := Sample(Locations{}, pairs, 5, seeded(3))
	if err != nil {
		t.Fatal(err)
	}
	if len(table) != 0 {
		t.Errorf("Expected empty table, got %d rows", len(table))
	}
	if report.Dropped() != 10 {
		t.Errorf("Expected 10 dropped pairs, got %d", report.Dropped())
	}
}

func TestSampleEndToEndOutcomes(t *testing.T) {
	locations := Locations{"A": "/p/A", "B": "/p/B"}
	pairs := PairMapping{"A|B": "g1", "A|C": "g1"}

	want := SampledRow{PairKey: "A|B", Profile1: Resolve(locations, "A"), Profile2: Resolve(locations, "B"), Group: "g1"}

	sawRow, sawEmpty := false, false
	for seed := int64(1); seed <= 200; seed++ {
		table, _, err := Sample(locations, pairs, 1, seeded(seed))
		if err != nil {
			t.Fatal(err)
		}

		switch len(table) {
		case 0:
			sawEmpty = true
		case 1:
			if !reflect.DeepEqual(table[0], want) {
				t.Fatalf("Unexpected row %+v", table[0])
			}
			sawRow = true
		default:
			t.Fatalf("Expected at most 1 row, got %d", len(table))
		}
	}

	if !sawRow || !sawEmpty {
		t.Errorf("Expected both outcomes across seeds; row: %v, empty: %v", sawRow, sawEmpty)
	}
}

func TestSampleWholeGroupIsDeterministic(t *testing.T) {
	locations := Locations{"A": "/p/A", "B": "/p/B"}
	pairs := PairMapping{"A|B": "g1"}

	table, _, err := Sample(locations, pairs, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(table) != 1 || table[0].Profile1.String != "/p/A" || table[0].Profile2.String != "/p/B" || table[0].Group != "g1" {
		t.Errorf("Unexpected table %+v", table)
	}
}

func TestSampleSeedReproducible(t *testing.T) {
	locations, pairs := fullyResolvable(5, 40)

	first, _, err := Sample(locations, pairs, 10, seeded(99))
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := Sample(locations, pairs, 10, seeded(99))
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("Same seed produced different samples")
	}
}

func TestSampleGroupOrder(t *testing.T) {
	locations := Locations{"A": "/p/A", "B": "/p/B"}
	pairs := PairMapping{"A|B": "zeta", "B|A": "alpha"}

	table, _, err := Sample(locations, pairs, 1, seeded(5))
	if err != nil {
		t.Fatal(err)
	}
	if len(table) != 2 || table[0].Group != "alpha" || table[1].Group != "zeta" {
		t.Errorf("Expected groups in ascending order, got %+v", table)
	}
}

func TestSplitPairKey(t *testing.T) {
	for _, v := range []struct {
		Key      string
		ID1, ID2 string
	}{
		{"A|B", "A", "B"},
		{"A", "A", ""},
		{"A|B|C", "A", "B"},
		{"|B", "", "B"},
		{"", "", ""},
	} {
		if id1, id2 := SplitPairKey(v.Key); id1 != v.ID1 || id2 != v.ID2 {
			t.Errorf("%q: got (%q, %q), expected (%q, %q)", v.Key, id1, id2, v.ID1, v.ID2)
		}
	}
}

// A key without a delimiter is silently dropped rather than failing.
func TestSampleMalformedKeyDropped(t *testing.T) {
	locations := Locations{"A": "/p/A", "B": "/p/B"}
	pairs := PairMapping{"AB": "g1"}

	table, report, err := Sample(locations, pairs, 1, seeded(1))
	if err != nil {
		t.Fatal(err)
	}
	if len(table) != 0 || report.Dropped() != 1 {
		t.Errorf("Expected the malformed pair to be dropped, got %+v", table)
	}
}

func TestWriteCSV(t *testing.T) {
	locations := Locations{"A": "/p/A", "B": "/p/B"}
	table := ResultTable{ResolvePair(locations, "A|B", "g1")}

	var buf bytes.Buffer
	if err := table.WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}

	expected := strings.Join(Columns, ",") + "\n/p/A,/p/B,g1\n"
	if buf.String() != expected {
		t.Errorf("Got %q, expected %q", buf.String(), expected)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := (ResultTable{}).WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}

	if buf.String() != "profile_1,profile_2,group\n" {
		t.Errorf("Got %q", buf.String())
	}
}

func TestReportGroupSizes(t *testing.T) {
	r := Report{Groups: []GroupReport{{Members: 2}, {Members: 10}, {Members: 4}}}

	min, median, max, err := r.GroupSizes()
	if err != nil {
		t.Fatal(err)
	}
	if min != 2 || median != 4 || max != 10 {
		t.Errorf("Got min %v median %v max %v", min, median, max)
	}

	if _, _, _, err := (Report{}).GroupSizes(); err == nil {
		t.Error("Expected an error for an empty report")
	}
}
