package epi

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Infections are assumed resolved within a month; the heuristic's
// infectious-duration kernel is truncated there.
const infectiousKernelLen = 30

// SIRModel is a single-population Susceptible-Infected-Recovered model.
// The recovered compartment is implicit: R = population - S - I at every
// step, so only S and I are tracked.
type SIRModel struct {
	population   int
	recoveryTime float64
	data         []float64
}

// NewSIRModel validates the configuration and observed new-infection counts.
// recoveryTime is the mean infectious period in days; data holds one
// observed count per step and fixes the model duration.
func NewSIRModel(population int, recoveryTime float64, data []float64) (*SIRModel, error) {
	if population < 1 {
		return nil, fmt.Errorf("sir: population must be >= 1, got %d", population)
	}
	if math.IsNaN(recoveryTime) || math.IsInf(recoveryTime, 0) || recoveryTime <= 0 {
		return nil, fmt.Errorf("sir: recovery time must be a positive float, got %v", recoveryTime)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("sir: data must contain at least one observed count")
	}
	for i, v := range data {
		if math.IsNaN(v) || v < 0 {
			return nil, fmt.Errorf("sir: data[%d] = %v, want a non-negative count", i, v)
		}
	}
	m := &SIRModel{
		population:   population,
		recoveryTime: recoveryTime,
		data:         append([]float64(nil), data...),
	}
	return m, nil
}

// Population returns the fixed closed-population size.
func (m *SIRModel) Population() int { return m.population }

// RecoveryTime returns the mean infectious period.
func (m *SIRModel) RecoveryTime() float64 { return m.recoveryTime }

// Duration returns the observed-horizon length.
func (m *SIRModel) Duration() int { return len(m.data) }

// Data returns the observed new-infection counts.
func (m *SIRModel) Data() []float64 { return m.data }

func (m *SIRModel) Compartments() []string { return []string{"S", "I"} }

func (m *SIRModel) Series() []string { return []string{"S2I", "I2R"} }

func (m *SIRModel) FullMass() [][]string { return [][]string{{"R0", "rho"}} }

// sirParams carries the derived per-step distribution parameters.
type sirParams struct {
	rateS float64 // negative per-contact infection rate in the exponential hazard
	probI float64 // per-step recovery probability
	rho   float64 // observation/reporting probability
}

// GlobalModel draws the reproduction number and reporting probability, then
// converts the interpretable parameters to distribution parameters.
func (m *SIRModel) GlobalModel(tp *Tape) Params {
	tau := m.recoveryTime
	r0 := tp.Sample("R0", LogNormal{Mu: 0, Sigma: 1})
	rho := tp.Sample("rho", Uniform{Min: 0, Max: 1})

	return sirParams{
		rateS: -r0 / (tau * float64(m.population)),
		probI: 1 / (1 + tau),
		rho:   rho,
	}
}

// Initialize starts the epidemic with a single seed infection.
func (m *SIRModel) Initialize(params Params) State {
	return State{"S": float64(m.population - 1), "I": 1}
}

// probS is the per-susceptible infection probability over one step: the
// complement of surviving an exponential hazard driven by the infectious
// count. Clamped so extreme rate*I products stay inside [0, 1].
func probS(rateS, infectious float64) float64 {
	p := -math.Expm1(rateS * infectious)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// TransitionFwd samples the step-t transitions, updates state in place, and
// conditions the observation site on the data when t is within the observed
// horizon. Past the horizon the observation stays latent for forecasting.
func (m *SIRModel) TransitionFwd(tp *Tape, params Params, state State, t int) {
	p := params.(sirParams)

	pS := probS(p.rateS, state["I"])
	s2i := tp.SampleSeries("S2I", t, Binomial{N: state["S"], P: pS})
	i2r := tp.SampleSeries("I2R", t, Binomial{N: state["I"], P: p.probI})
	state["S"] -= s2i
	state["I"] += s2i - i2r

	var obs *float64
	if t < len(m.data) {
		obs = &m.data[t]
	}
	tp.ObserveSeries(ObsSeries, t, ExtendedBinomial{N: s2i, P: p.rho}, obs)
}

// TransitionBwd reconstructs the unique transition consistent with two
// adjacent states under conservation and returns its log-density together
// with the observation likelihood at step t.
func (m *SIRModel) TransitionBwd(params Params, prev, curr State, t int) float64 {
	p := params.(sirParams)

	s2i := prev["S"] - curr["S"]
	i2r := prev["I"] - curr["I"] + s2i

	pS := probS(p.rateS, prev["I"])
	logp := ExtendedBinomial{N: prev["S"], P: pS}.LogProb(s2i)
	logp += ExtendedBinomial{N: prev["I"], P: p.probI}.LogProb(i2r)
	// Relaxed trajectories can drive s2i slightly negative; an observation
	// count needs a non-negative trial count.
	logp += ExtendedBinomial{N: math.Max(s2i, 0), P: p.rho}.LogProb(m.data[t])
	return logp
}

// Heuristic builds a warm start from the observed counts: scale them up for
// underreporting (response rate assumed between 50% and 100%, amplification
// capped at 2x), derive a running susceptible trajectory by cumulative
// subtraction, and estimate the concurrently infectious count by convolving
// with an exponential infectious-duration kernel.
func (m *SIRModel) Heuristic() Guess {
	duration := len(m.data)
	s0 := float64(m.population - 1)

	s2i := make([]float64, duration)
	if total := floats.Sum(m.data); total > 0 {
		scale := math.Min(2, math.Sqrt(s0/total))
		for i, v := range m.data {
			s2i[i] = v * scale
		}
	}

	sAux := make([]float64, duration)
	remaining := s0
	for i, v := range s2i {
		remaining -= v
		sAux[i] = math.Max(remaining, 0.5)
	}

	// Account for the single initial infection.
	s2i[0]++

	kernel := make([]float64, infectiousKernelLen)
	for i := range kernel {
		kernel[i] = math.Exp(-float64(i) / m.recoveryTime)
	}
	iAux := Convolve(s2i, kernel)[:duration]
	for i, v := range iAux {
		iAux[i] = math.Max(v, 0.5)
	}

	return Guess{
		Params:    map[string]float64{"R0": 2.0, "rho": 0.5},
		Auxiliary: [][]float64{sAux, iAux},
	}
}
