// Package compileinfo reports the VCS provenance that the Go toolchain embeds
// in a binary, so that a sampled pair table can be traced back to the code that
// produced it.
package compileinfo

import (
	"fmt"
	"io"
	"runtime/debug"
)

type CompileInfo struct {
	Package    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	if c.GoVersion == "" {
		return "No build information is embedded in this binary."
	}

	commit := c.Commit
	if commit == "" {
		commit = "unknown"
	}

	mod := ""
	if c.Modified {
		mod = " (with uncommitted changes)"
	}

	return fmt.Sprintf("%s built with %s from commit %s%s at %s", c.Package, c.GoVersion, commit, mod, c.CommitTime)
}

// FromBuildInfo extracts the fields of interest from bi.
func FromBuildInfo(bi *debug.BuildInfo) CompileInfo {
	out := CompileInfo{}
	if bi == nil {
		return out
	}

	out.GoVersion = bi.GoVersion
	out.Package = bi.Path
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}

func Get() CompileInfo {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return CompileInfo{}
	}

	return FromBuildInfo(bi)
}

func Fprint(w io.Writer) {
	fmt.Fprintf(w, "%s\n", Get())
}
