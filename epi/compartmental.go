package epi

import (
	"fmt"
	"maps"

	"github.com/outbreak-sim/outbreak-sim/epi/trace"
)

// State maps compartment names to their current (non-negative) occupancy.
// Compartments not tracked explicitly are recoverable from conservation:
// the tracked compartments plus the implicit remainder sum to the population.
type State map[string]float64

// Params is the opaque record a model's GlobalModel returns; the engine
// passes it unmodified to Initialize, TransitionFwd and TransitionBwd.
type Params any

// Guess is a heuristic warm start for inference: one auxiliary trajectory
// row per tracked compartment (each of length = duration, floored at 0.5 to
// stay strictly positive) plus a seed value per global parameter name.
type Guess struct {
	Params    map[string]float64
	Auxiliary [][]float64
}

// ObsSeries is the series name under which observation sites are recorded.
const ObsSeries = "obs"

// Model is the contract between a compartmental epidemic model and the
// engine. Implementations must be stateless across calls apart from
// immutable construction-time fields, and the forward and backward
// callbacks must describe the same joint distribution.
type Model interface {
	// Compartments lists the explicitly tracked compartment names, in order.
	Compartments() []string
	// Series lists the per-step latent series the model emits, in order.
	Series() []string
	// FullMass groups global parameter names whose posterior is expected to
	// be correlated, signaling samplers to use a joint mass structure.
	FullMass() [][]string

	// Heuristic builds a data-derived warm start; pure apart from reading
	// construction-time fields.
	Heuristic() Guess
	// GlobalModel declares the time-invariant parameters on the tape and
	// returns the derived parameter record. Must work in both tape modes.
	GlobalModel(tp *Tape) Params
	// Initialize returns the compartment state at time 0. May be purely
	// deterministic; the engine tolerates a stochastic-free initial state.
	Initialize(params Params) State
	// TransitionFwd advances state in place across step t, declaring the
	// step's latent series entries and observation site on the tape.
	TransitionFwd(tp *Tape, params Params, state State, t int)
	// TransitionBwd returns the log-density of the unique transition
	// consistent with the two adjacent states, including the observation
	// likelihood at step t. Only valid within the observed horizon.
	TransitionBwd(params Params, prev, curr State, t int) float64
}

// Trajectory is the product of one forward pass.
type Trajectory struct {
	States       []State              // States[0] is the initial state; len = steps+1
	Series       map[string][]float64 // per-step latent draws, one slice per series
	Observations []float64            // the obs series (conditioned or forecast)
	Globals      map[string]float64   // drawn global parameter values
	LogProb      float64              // joint log-probability of all sites
}

// Engine drives a Model: the forward sampling pass over the time loop, the
// backward log-joint pass over a known state trajectory, and heuristic
// orchestration. All randomness flows through one partitioned RNG, so a
// given seed yields an identical trajectory.
type Engine struct {
	model    Model
	duration int
	rng      *PartitionedRNG
}

// NewEngine creates an engine for the model with the given observed-horizon
// length and master seed.
func NewEngine(model Model, duration int, seed int64) (*Engine, error) {
	if model == nil {
		return nil, fmt.Errorf("engine: model must not be nil")
	}
	if duration < 1 {
		return nil, fmt.Errorf("engine: duration must be >= 1, got %d", duration)
	}
	return &Engine{
		model:    model,
		duration: duration,
		rng:      NewPartitionedRNG(seed),
	}, nil
}

// Duration returns the observed-horizon length.
func (e *Engine) Duration() int { return e.duration }

// Simulate runs the forward generative pass for duration+forecast steps.
// Steps beyond the observed horizon leave their observation sites latent.
func (e *Engine) Simulate(forecast int) (*Trajectory, error) {
	if forecast < 0 {
		return nil, fmt.Errorf("engine: forecast must be >= 0, got %d", forecast)
	}
	horizon := e.duration + forecast

	tp := NewSampleTape(e.rng)
	params := e.model.GlobalModel(tp)
	state := e.model.Initialize(params)

	states := make([]State, 0, horizon+1)
	states = append(states, maps.Clone(state))
	for t := 0; t < horizon; t++ {
		e.model.TransitionFwd(tp, params, state, t)
		states = append(states, maps.Clone(state))
	}

	series := tp.Series()
	return &Trajectory{
		States:       states,
		Series:       series,
		Observations: series[ObsSeries],
		Globals:      tp.Globals(),
		LogProb:      tp.LogProb(),
	}, nil
}

// LogJoint evaluates the joint log-density of a known state trajectory
// under fixed global parameter values, using the backward factorization.
// states must span exactly the observed horizon: the initial state plus one
// state per observed step.
func (e *Engine) LogJoint(fixed map[string]float64, states []State) (float64, error) {
	if len(states) != e.duration+1 {
		return 0, fmt.Errorf("engine: want %d states (initial + one per observed step), got %d",
			e.duration+1, len(states))
	}
	tp := NewScoreTape(fixed)
	params := e.model.GlobalModel(tp)
	logp := tp.LogProb()
	for t := 0; t < e.duration; t++ {
		logp += e.model.TransitionBwd(params, states[t], states[t+1], t)
	}
	return logp, nil
}

// WarmStart runs the model's heuristic and validates its shape: one
// auxiliary row per tracked compartment, each of length duration with all
// entries >= 0.5, and a seed value for every parameter named in FullMass.
func (e *Engine) WarmStart() (Guess, error) {
	g := e.model.Heuristic()
	comps := e.model.Compartments()
	if len(g.Auxiliary) != len(comps) {
		return Guess{}, fmt.Errorf("heuristic: want %d auxiliary rows, got %d", len(comps), len(g.Auxiliary))
	}
	for i, row := range g.Auxiliary {
		if len(row) != e.duration {
			return Guess{}, fmt.Errorf("heuristic: auxiliary row %q has %d entries, want %d",
				comps[i], len(row), e.duration)
		}
		for t, v := range row {
			if v < 0.5 {
				return Guess{}, fmt.Errorf("heuristic: auxiliary row %q entry %d is %v, want >= 0.5",
					comps[i], t, v)
			}
		}
	}
	for _, group := range e.model.FullMass() {
		for _, name := range group {
			if _, ok := g.Params[name]; !ok {
				return Guess{}, fmt.Errorf("heuristic: missing seed value for parameter %q", name)
			}
		}
	}
	return g, nil
}

// StatesFromGuess converts a heuristic auxiliary trajectory into the state
// sequence LogJoint expects: the model's initial state followed by one state
// per observed step, read column-wise from the auxiliary rows.
func (e *Engine) StatesFromGuess(params Params, g Guess) []State {
	comps := e.model.Compartments()
	states := make([]State, 0, e.duration+1)
	states = append(states, e.model.Initialize(params))
	for t := 0; t < e.duration; t++ {
		s := make(State, len(comps))
		for i, name := range comps {
			s[name] = g.Auxiliary[i][t]
		}
		states = append(states, s)
	}
	return states
}

// Record converts a trajectory into the pure-data form used for reporting.
func (e *Engine) Record(traj *Trajectory) *trace.RunRecord {
	steps := make([]trace.StepRecord, 0, len(traj.States)-1)
	for t := 1; t < len(traj.States); t++ {
		rec := trace.StepRecord{
			T:            t - 1,
			Compartments: map[string]float64(traj.States[t]),
			Transitions:  make(map[string]float64, len(traj.Series)),
			Forecast:     t-1 >= e.duration,
		}
		for _, name := range e.model.Series() {
			rec.Transitions[name] = traj.Series[name][t-1]
		}
		if t-1 < len(traj.Observations) {
			rec.Observed = traj.Observations[t-1]
		}
		steps = append(steps, rec)
	}
	return &trace.RunRecord{
		Globals: traj.Globals,
		LogProb: traj.LogProb,
		Steps:   steps,
	}
}
