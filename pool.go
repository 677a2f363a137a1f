package nb2md

import "runtime"

// Worker sizing constants.
const (
	// MinWorkers ensures at least one notebook is converted at a time.
	MinWorkers = 1

	// MaxWorkers caps parallel conversions.
	MaxWorkers = 16
)

// ResolveWorkers determines how many notebooks to convert in parallel.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by CLIs and servers.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return min(workers, MaxWorkers)
	}

	// GOMAXPROCS is container-aware once automaxprocs has run.
	return max(MinWorkers, min(runtime.GOMAXPROCS(0), MaxWorkers))
}
