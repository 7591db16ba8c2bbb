package strainpairs

import (
	"os/user"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
)

// ExpandHome expands a leading ~/ to the current user's home directory. Paths
// on Google Storage and paths without the prefix are returned unchanged.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	usr, err := user.Current()
	if err != nil {
		return path, pfx.Err(err)
	}

	return filepath.Join(usr.HomeDir, path[2:]), nil
}
