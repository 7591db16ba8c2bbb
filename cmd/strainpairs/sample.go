package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/carbocation/strainpairs"
	"github.com/carbocation/strainpairs/pairmapping"
	"github.com/carbocation/strainpairs/profiles"
	"github.com/carbocation/strainpairs/sampler"
)

const DefaultSamples = 1000

type sampleConfig struct {
	Profiles    string
	PairMapping string
	NSamples    int
	OutputFile  string
	Seed        int64
}

func parseSampleFlags(args []string) (sampleConfig, error) {
	cfg := sampleConfig{}

	fs := flag.NewFlagSet("sample", flag.ContinueOnError)
	fs.StringVar(&cfg.Profiles, "profiles", "", "Glob pattern matching the inStrain profiles. Quote it so the shell does not expand it. gs:// patterns may only glob the final path segment.")
	fs.StringVar(&cfg.PairMapping, "pair_mapping", "", "Path to the pair mapping JSON file (pair key 'idA|idB' => group). A .csv or .tsv file with pair and group columns also works, optionally compressed.")
	fs.IntVar(&cfg.NSamples, "n_samples", DefaultSamples, "Number of pairs to draw from each group, without replacement.")
	fs.StringVar(&cfg.OutputFile, "output_file", "", "Path to save the sampled pairs as a CSV file.")
	fs.Int64Var(&cfg.Seed, "seed", 0, "Optional. Seed for the random draw. If 0, a time-based seed is used and logged.")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if err := cfg.validate(); err != nil {
		fs.Usage()
		return cfg, err
	}

	return cfg, nil
}

func (c sampleConfig) validate() error {
	if c.Profiles == "" {
		return &ConfigurationError{"profiles", errors.New("a glob pattern is required")}
	}

	if c.PairMapping == "" {
		return &ConfigurationError{"pair_mapping", errors.New("a file path is required")}
	}

	if !strainpairs.IsGSPath(c.PairMapping) {
		p, err := strainpairs.ExpandHome(c.PairMapping)
		if err != nil {
			return &ConfigurationError{"pair_mapping", err}
		}
		if _, err := os.Stat(p); err != nil {
			return &ConfigurationError{"pair_mapping", err}
		}
	}

	if c.NSamples < 1 {
		return &ConfigurationError{"n_samples", sampler.ErrInvalidSampleCount}
	}

	if c.OutputFile == "" {
		return &ConfigurationError{"output_file", errors.New("a file path is required")}
	}

	return nil
}

func (c sampleConfig) needsGoogleStorage() bool {
	for _, p := range []string{c.Profiles, c.PairMapping, c.OutputFile} {
		if strainpairs.IsGSPath(p) {
			return true
		}
	}

	return false
}

// runSample performs the whole sample command and returns the path that was
// written. Nothing is written unless sampling succeeds.
func runSample(ctx context.Context, cfg sampleConfig) (string, error) {
	// Initialize the Google Storage client only if we're pointing to Google
	// Storage paths.
	var client *storage.Client
	if cfg.needsGoogleStorage() {
		var err error
		client, err = storage.NewClient(ctx)
		if err != nil {
			return "", pfx.Err(err)
		}
		defer client.Close()
	}

	pairs, err := pairmapping.Load(ctx, cfg.PairMapping, client)
	if err != nil {
		return "", pfx.Err(err)
	}
	log.Printf("Loaded %d pairs from %s\n", len(pairs), cfg.PairMapping)

	locations, err := profiles.Discover(ctx, cfg.Profiles, client)
	if err != nil {
		return "", pfx.Err(err)
	}
	log.Printf("Found %d profiles matching %s\n", len(locations), cfg.Profiles)

	rng, seed := sampler.NewRand(cfg.Seed)
	log.Printf("Sampling %d pairs per group with seed %d\n", cfg.NSamples, seed)

	table, report, err := sampler.Sample(locations, pairs, cfg.NSamples, rng)
	if err != nil {
		// Keep the typed sampler error reachable with errors.As.
		return "", fmt.Errorf("sampling pairs from %s: %w", cfg.PairMapping, err)
	}

	logReport(report, len(table))

	var buf bytes.Buffer
	if err := table.WriteCSV(&buf); err != nil {
		return "", pfx.Err(err)
	}

	if err := writeOutput(ctx, cfg.OutputFile, client, buf.Bytes()); err != nil {
		return "", pfx.Err(err)
	}

	return cfg.OutputFile, nil
}

func logReport(report sampler.Report, rows int) {
	if len(report.Groups) == 0 {
		log.Println("No groups were found in the pair mapping")
		return
	}

	if min, median, max, err := report.GroupSizes(); err == nil {
		log.Printf("%d groups with between %.0f and %.0f pairs each (median %.0f)\n", len(report.Groups), min, max, median)
	}

	for _, g := range report.Groups {
		if g.Dropped > 0 {
			log.Printf("Warning: dropped %d of %d sampled pairs in group %q because a profile could not be found\n", g.Dropped, g.Sampled, g.Group)
		}
	}

	log.Printf("Kept %d of %d sampled pairs\n", rows, report.Sampled())
}

func writeOutput(ctx context.Context, path string, client *storage.Client, data []byte) error {
	w, err := strainpairs.MaybeCreateOnGoogleStorage(ctx, path, client)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("%s: %w", path, err)
	}

	return w.Close()
}
