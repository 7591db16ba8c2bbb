// Package profiles finds the profile files (or directories) available for
// sampling and indexes them by name.
package profiles

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/carbocation/strainpairs"
	"github.com/carbocation/strainpairs/sampler"
	"google.golang.org/api/iterator"
)

// Discover expands pattern and returns the matching profiles keyed by their
// base name. Local patterns follow filepath.Glob. For gs:// patterns only the
// final path segment may contain glob characters. When two matches share a
// name, the one that sorts last wins.
func Discover(ctx context.Context, pattern string, client *storage.Client) (sampler.Locations, error) {
	var (
		paths []string
		err   error
	)

	if strainpairs.IsGSPath(pattern) {
		if client == nil {
			return nil, fmt.Errorf("%s: a Google Storage client is required for gs:// patterns", pattern)
		}
		paths, err = globGoogleStorage(ctx, pattern, client)
	} else {
		paths, err = globLocal(pattern)
	}
	if err != nil {
		return nil, pfx.Err(err)
	}

	return Index(paths), nil
}

// Index maps the base name of each path to the path itself.
func Index(paths []string) sampler.Locations {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	out := make(sampler.Locations, len(sorted))
	for _, p := range sorted {
		out[Name(p)] = p
	}

	return out
}

// Name is the identifier of a profile: the last element of its path. inStrain
// profiles are directories, so a trailing slash is ignored.
func Name(p string) string {
	p = strings.TrimRight(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}

	return filepath.Base(p)
}

func globLocal(pattern string) ([]string, error) {
	pattern, err := strainpairs.ExpandHome(pattern)
	if err != nil {
		return nil, err
	}

	return filepath.Glob(pattern)
}

func globGoogleStorage(ctx context.Context, pattern string, client *storage.Client) ([]string, error) {
	bucketName, objectPattern, err := strainpairs.SplitGSPath(pattern)
	if err != nil {
		return nil, err
	}

	dir, filePattern := path.Split(objectPattern)
	if strings.ContainsAny(dir, `*?[\`) {
		return nil, fmt.Errorf("%s: glob characters are only supported in the final path segment on Google Storage", pattern)
	}

	// Validate the pattern up front; path.Match only reports a bad pattern
	// when it gets as far as the malformed part.
	if _, err := path.Match(filePattern, ""); err != nil {
		return nil, fmt.Errorf("%s: %w", pattern, err)
	}

	query := &storage.Query{Prefix: dir, Delimiter: "/"}
	itr := client.Bucket(bucketName).Objects(ctx, query)

	out := make([]string, 0)
	for {
		attrs, err := itr.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		// Directory-like entries come back as prefixes.
		name := attrs.Name
		if name == "" {
			name = attrs.Prefix
		}

		if matched, _ := path.Match(filePattern, Name(name)); !matched {
			continue
		}

		out = append(out, "gs://"+bucketName+"/"+name)
	}

	return out, nil
}
