// Package trace provides run-record types for compartmental simulations.
// This package has no dependencies on epi/ — it stores pure data types.
package trace

// StepRecord captures one simulated time step.
type StepRecord struct {
	T            int
	Compartments map[string]float64 // state after the step's transitions
	Transitions  map[string]float64 // latent series draws (e.g. S2I, I2R)
	Observed     float64            // observation site value (conditioned or sampled)
	Forecast     bool               // true past the observed horizon
}

// RunRecord captures a full forward pass.
type RunRecord struct {
	Globals map[string]float64 // drawn global parameter values
	LogProb float64            // joint log-probability of the run
	Steps   []StepRecord
}
