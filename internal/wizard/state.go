package wizard

import "minerconf/internal/algo"

// DefaultPoolName labels a pool whose name was left blank.
const DefaultPoolName = "[p0]"

// State accumulates the values collected by completed steps. Fields only ever
// go from unset to set.
type State struct {
	Algo algo.ID
	// PoolDiffOverride replaces the stratum multiplier of the algorithm's
	// profile when non-nil. One and share always come from the table.
	PoolDiffOverride *int
	PoolURL          string
	WorkerLogin      string
	WorkerPass       string
	PoolName         string
	// ScaledIntensity is the fraction of the reference intensity to apply.
	ScaledIntensity float64
	// Destination identifies the controller-side config file to write.
	Destination string
}

// clone returns a deep copy so callers cannot reach the session's override.
func (s State) clone() State {
	if s.PoolDiffOverride != nil {
		v := *s.PoolDiffOverride
		s.PoolDiffOverride = &v
	}
	return s
}
