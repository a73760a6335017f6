package epi

import "fmt"

// TapeMode selects how the tape resolves random choices.
type TapeMode int

const (
	// ModeSample draws fresh values from each site's distribution.
	ModeSample TapeMode = iota
	// ModeScore replays fixed values and accumulates their log-probability.
	ModeScore
)

// Tape records the named random choices a model makes, so the same
// generative definition can serve both the sampling and the scoring pass.
// Global sites are addressed by name; per-step series sites are addressed
// by (series, t) and stored in arrays keyed by time. Each series draws
// from its own partitioned RNG stream, so adding a new series never
// perturbs the draws of an existing one.
type Tape struct {
	mode    TapeMode
	rng     *PartitionedRNG
	fixed   map[string]float64   // scoring mode: values to replay, by site name
	globals map[string]float64   // resolved global site values
	series  map[string][]float64 // resolved per-step values, one slice per series
	logProb float64
}

// NewSampleTape creates a tape that draws from partitioned RNG streams.
func NewSampleTape(rng *PartitionedRNG) *Tape {
	return &Tape{
		mode:    ModeSample,
		rng:     rng,
		globals: make(map[string]float64),
		series:  make(map[string][]float64),
	}
}

// NewScoreTape creates a tape that replays the given global values,
// accumulating their log-probability under the declared distributions.
func NewScoreTape(fixed map[string]float64) *Tape {
	return &Tape{
		mode:    ModeScore,
		fixed:   fixed,
		globals: make(map[string]float64),
		series:  make(map[string][]float64),
	}
}

// Sample resolves a named global random choice. In sampling mode it draws
// from d; in scoring mode it replays the fixed value. Either way the site's
// log-probability joins the running total.
func (tp *Tape) Sample(name string, d Distribution) float64 {
	var v float64
	switch tp.mode {
	case ModeSample:
		v = d.Rand(tp.rng.ForSubsystem(SubsystemGlobal))
	case ModeScore:
		fixed, ok := tp.fixed[name]
		if !ok {
			panic(fmt.Sprintf("tape: no fixed value for site %q in scoring mode", name))
		}
		v = fixed
	}
	tp.logProb += d.LogProb(v)
	tp.globals[name] = v
	return v
}

// SampleSeries resolves the step-t entry of a named latent series.
// Entries must be declared in time order; the tape grows each series
// array as steps arrive.
func (tp *Tape) SampleSeries(series string, t int, d Distribution) float64 {
	v := d.Rand(tp.rng.ForSeries(series))
	tp.logProb += d.LogProb(v)
	tp.appendSeries(series, t, v)
	return v
}

// ObserveSeries conditions the step-t entry of a series on obs when obs is
// non-nil (a likelihood contribution), or leaves it latent and samples it
// when obs is nil (forecasting past the observed horizon).
func (tp *Tape) ObserveSeries(series string, t int, d Distribution, obs *float64) float64 {
	if obs == nil {
		return tp.SampleSeries(series, t, d)
	}
	tp.logProb += d.LogProb(*obs)
	tp.appendSeries(series, t, *obs)
	return *obs
}

func (tp *Tape) appendSeries(series string, t int, v float64) {
	arr := tp.series[series]
	if t != len(arr) {
		panic(fmt.Sprintf("tape: series %q step %d declared out of order (have %d entries)", series, t, len(arr)))
	}
	tp.series[series] = append(arr, v)
}

// LogProb returns the accumulated log-probability of all resolved sites.
func (tp *Tape) LogProb() float64 { return tp.logProb }

// Globals returns the resolved global site values.
func (tp *Tape) Globals() map[string]float64 { return tp.globals }

// Series returns the resolved per-step series arrays.
func (tp *Tape) Series() map[string][]float64 { return tp.series }
