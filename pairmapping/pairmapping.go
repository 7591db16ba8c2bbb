// Package pairmapping loads the pair-key to group mapping that drives
// sampling. JSON objects are the primary format; delimited files with a
// pair,group header are also accepted. Inputs may be compressed and may live
// on Google Storage.
package pairmapping

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"path"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/carbocation/strainpairs"
	"github.com/carbocation/strainpairs/sampler"
	"github.com/gocarina/gocsv"
)

type Format byte

const (
	FormatJSON Format = iota
	FormatDelimited
)

var compressionSuffixes = []string{".gz", ".bz2", ".xz", ".zip"}

// DetectFormat picks the parser from the file extension, ignoring any
// compression suffix. Anything that is not recognizably delimited is treated
// as JSON.
func DetectFormat(filePath string) Format {
	name := strings.ToLower(path.Base(filePath))
	for _, suffix := range compressionSuffixes {
		name = strings.TrimSuffix(name, suffix)
	}

	switch path.Ext(name) {
	case ".csv", ".tsv", ".txt":
		return FormatDelimited
	}

	return FormatJSON
}

// Load reads the mapping at filePath. The client may be nil when filePath is
// local.
func Load(ctx context.Context, filePath string, client *storage.Client) (sampler.PairMapping, error) {
	rs, _, err := strainpairs.MaybeOpenSeekerFromGoogleStorage(ctx, filePath, client)
	if err != nil {
		return nil, pfx.Err(err)
	}

	r, err := strainpairs.MaybeDecompressReadCloser(rs)
	if err != nil {
		rs.Close()
		return nil, pfx.Err(fmt.Errorf("%s: %w", filePath, err))
	}
	defer r.Close()

	var out sampler.PairMapping
	switch DetectFormat(filePath) {
	case FormatDelimited:
		out, err = ParseDelimited(r)
	default:
		out, err = ParseJSON(r)
	}
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", filePath, err))
	}

	return out, nil
}

// ParseJSON decodes a single JSON object whose values must all be strings.
func ParseJSON(r io.Reader) (sampler.PairMapping, error) {
	raw := make(map[string]interface{})

	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		if e, ok := err.(*json.SyntaxError); ok {
			log.Printf("syntax error at byte offset %d", e.Offset)
		}
		return nil, err
	}

	// Report the first offending key in a stable order
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(sampler.PairMapping, len(raw))
	for _, k := range keys {
		group, ok := raw[k].(string)
		if !ok {
			return nil, fmt.Errorf("pair %q: group must be a string, got %s", k, describe(raw[k]))
		}
		out[k] = group
	}

	return out, nil
}

func describe(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case float64:
		return "a number"
	case []interface{}:
		return "an array"
	case map[string]interface{}:
		return "an object"
	}

	return fmt.Sprintf("%T", v)
}

// delimiter only trusts the detector for common field separators. The pair
// keys themselves contain "|", which must never be taken as the delimiter.
func delimiter(data []byte) rune {
	switch d := strainpairs.DetermineDelimiter(bytes.NewReader(data)); d {
	case ',', '\t', ';':
		return d
	}

	header := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		header = data[:i]
	}
	if bytes.IndexByte(header, '\t') >= 0 {
		return '\t'
	}

	return ','
}

type delimitedRow struct {
	Pair  string `csv:"pair"`
	Group string `csv:"group"`
}

// ParseDelimited reads a delimited file with pair and group columns. The
// delimiter is detected from the content.
func ParseDelimited(r io.Reader) (sampler.PairMapping, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delimiter(data)
	cr.LazyQuotes = true

	rows := []*delimitedRow{}
	if err := gocsv.UnmarshalCSV(cr, &rows); err != nil {
		return nil, err
	}

	out := make(sampler.PairMapping, len(rows))
	for i, row := range rows {
		if row.Pair == "" {
			return nil, fmt.Errorf("data row %d: empty pair (is there a 'pair' column?)", i+1)
		}
		out[row.Pair] = row.Group
	}

	return out, nil
}
