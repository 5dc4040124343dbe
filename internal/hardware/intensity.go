package hardware

import (
	"fmt"
	"math"
)

// The reference device is a Radeon HD 7750 "Capeverde": 8 compute clusters
// at 850 MHz. BaselineIntensity is the linear intensity tuned on it.
const (
	ReferenceCoreClock = 850
	ReferenceClusters  = 8
	BaselineIntensity  = 64
)

// Reference describes the device the baseline intensity was tuned on.
type Reference struct {
	CoreClock       int64
	Clusters        int64
	LinearIntensity int
}

// DefaultReference returns the built-in reference device.
func DefaultReference() Reference {
	return Reference{
		CoreClock:       ReferenceCoreClock,
		Clusters:        ReferenceClusters,
		LinearIntensity: BaselineIntensity,
	}
}

// Throughput is the reference device's estimated throughput.
func (r Reference) Throughput() int64 {
	return r.CoreClock * r.Clusters
}

// Scaling is the outcome of Scale.
type Scaling struct {
	// Ratio is the slowest device's throughput over the reference throughput.
	Ratio float64
	// LinearIntensity is floor(baseline × fraction × ratio). It is not
	// clamped and may be zero or negative for non-positive fractions.
	LinearIntensity int
}

// Scale derives the linear intensity for a device with the given throughput.
// fraction is the user's scaling choice (1.0 = reference intensity).
func Scale(ref Reference, slowestThroughput int64, fraction float64) Scaling {
	ratio := float64(slowestThroughput) / float64(ref.Throughput())
	return Scaling{
		Ratio:           ratio,
		LinearIntensity: int(math.Floor(float64(ref.LinearIntensity) * fraction * ratio)),
	}
}

// DescribeRatio renders a ratio relative to the reference device.
func DescribeRatio(ratio float64) string {
	switch {
	case ratio == 1.0:
		return "just as fast as reference"
	case ratio > 1.0:
		return fmt.Sprintf("%.2f× faster than reference", ratio)
	case ratio > 0:
		return fmt.Sprintf("%.2f× slower than reference", 1.0/ratio)
	default:
		return "no measurable throughput"
	}
}
