// Package qa evaluates threshold-based sanity rules against run-log
// summaries. Rules are pure functions over summary values: they never
// read files, never fail, and return no issue when the data they need
// is absent.
package qa

// Thresholds holds the numeric limits the rule battery checks
// against. Built once (normally via DefaultThresholds) and passed in
// explicitly so tests can override single limits.
type Thresholds struct {
	// Simulation duration limits, hours.
	MaxDurationHoursMajor float64
	MaxDurationHoursMinor float64

	// HPC timestep limits.
	MinHPCTimestepTinyS float64
	// HPCDtMaxFactor scales cell size (m) into the advisory cap for
	// the maximum timestep (s).
	HPCDtMaxFactor float64

	// Classic-scheme Courant estimate: C = dt * waveSpeed / dx.
	CourantWaveSpeedMS float64
	CourantMajor       float64
	CourantMinor       float64

	// Output count bounds per run, applied to map and time-series
	// outputs independently.
	MaxOutputsMajor float64
	MinOutputsMinor float64
}

// DefaultThresholds returns the documented limits for real-world
// flood models.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxDurationHoursMajor: 200.0,
		MaxDurationHoursMinor: 100.0,
		MinHPCTimestepTinyS:   1e-4,
		HPCDtMaxFactor:        0.5,
		CourantWaveSpeedMS:    3.0,
		CourantMajor:          1.5,
		CourantMinor:          1.0,
		MaxOutputsMajor:       10000.0,
		MinOutputsMinor:       2.0,
	}
}
