package sampler

import (
	"io"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

// csvRow is the serialized form of a resolved SampledRow.
type csvRow struct {
	Profile1 string `csv:"profile_1"`
	Profile2 string `csv:"profile_2"`
	Group    string `csv:"group"`
}

// WriteCSV writes the table with a profile_1,profile_2,group header and no
// index column. The header is written even when the table is empty.
func (t ResultTable) WriteCSV(w io.Writer) error {
	rows := make([]csvRow, 0, len(t))
	for _, v := range t {
		rows = append(rows, csvRow{
			Profile1: v.Profile1.String,
			Profile2: v.Profile2.String,
			Group:    v.Group,
		})
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return pfx.Err(err)
	}

	return nil
}
