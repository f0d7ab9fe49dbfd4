package workgroup

import (
	"log"
	"os"
)

// diagLog is the package's diagnostic sink for problems worth a line in
// the log: divergent barriers (also reported as ErrDivergentBarrier) and
// unresolved built-in names (answered with a no-op stub, not an error).
var diagLog = log.New(os.Stderr, "workgroup: ", log.LstdFlags)
