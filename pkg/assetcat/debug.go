package assetcat

import (
	"os"
)

// DebugEnabled controls whether or not debug-level logging is enabled. It is
// set automatically based on the ASSETCAT_DEBUG environment variable.
var DebugEnabled bool

func init() {
	DebugEnabled = os.Getenv("ASSETCAT_DEBUG") == "1"
}
