// compileinfoprint is imported for the side effect of printing the compileinfo
// to os.Stderr when a tool starts.
package compileinfoprint

import (
	"os"

	"github.com/carbocation/strainpairs/compileinfo"
)

func init() {
	compileinfo.Fprint(os.Stderr)
}
