// strainpairs draws a stratified random sample of profile pairs from a
// pair-to-group mapping and writes the pairs whose profiles can be found to a
// CSV file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/carbocation/strainpairs/compileinfo"
	_ "github.com/carbocation/strainpairs/compileinfoprint"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags]\n\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  sample   Sample pairs of profiles from all possible pairs.")
	fmt.Fprintln(os.Stderr, "  version  Print build information.")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "sample":
		cfg, err := parseSampleFlags(os.Args[2:])
		if errors.Is(err, flag.ErrHelp) {
			return
		} else if err != nil {
			log.Fatalln(err)
		}

		output, err := runSample(context.Background(), cfg)
		if err != nil {
			log.Fatalln(err)
		}

		fmt.Printf("Sampled pairs saved to %s\n", output)
	case "version":
		fmt.Println(compileinfo.Get())
	default:
		log.Printf("Unrecognized command %q\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}
