package trace

// Summary aggregates a run record into headline statistics.
type Summary struct {
	Steps         int
	ForecastSteps int
	TotalObserved float64
	SeriesTotals  map[string]float64 // summed latent draws per series
	Peaks         map[string]float64 // per-compartment maximum occupancy
	Final         map[string]float64 // compartment state after the last step
}

// Summarize computes headline statistics over a run record.
func Summarize(run *RunRecord) Summary {
	summary := Summary{
		SeriesTotals: make(map[string]float64),
		Peaks:        make(map[string]float64),
		Final:        make(map[string]float64),
	}
	for _, step := range run.Steps {
		summary.Steps++
		if step.Forecast {
			summary.ForecastSteps++
		}
		summary.TotalObserved += step.Observed
		for name, v := range step.Transitions {
			summary.SeriesTotals[name] += v
		}
		for name, v := range step.Compartments {
			if v > summary.Peaks[name] {
				summary.Peaks[name] = v
			}
		}
	}
	if n := len(run.Steps); n > 0 {
		for name, v := range run.Steps[n-1].Compartments {
			summary.Final[name] = v
		}
	}
	return summary
}
