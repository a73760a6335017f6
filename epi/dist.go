package epi

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Distribution is the sampling/scoring primitive the tape records.
// Rand draws one value using the given source; LogProb scores a value.
type Distribution interface {
	Rand(src rand.Source) float64
	LogProb(x float64) float64
}

// binomialLogProb is the continuous lgamma form of the binomial pmf,
// valid for any real count k in [0, n]. Outside that range the density
// is zero (-Inf), which penalizes infeasible relaxed counts.
func binomialLogProb(n, p, k float64) float64 {
	if math.IsNaN(k) || k < 0 || k > n {
		return math.Inf(-1)
	}
	// Point masses at the probability boundaries.
	if p <= 0 {
		if k == 0 {
			return 0
		}
		return math.Inf(-1)
	}
	if p >= 1 {
		if k == n {
			return 0
		}
		return math.Inf(-1)
	}
	lgN, _ := math.Lgamma(n + 1)
	lgK, _ := math.Lgamma(k + 1)
	lgNK, _ := math.Lgamma(n - k + 1)
	return lgN - lgK - lgNK + k*math.Log(p) + (n-k)*math.Log1p(-p)
}

// Binomial is an exact count distribution over {0, ..., N}.
type Binomial struct {
	N float64 // trial count (non-negative)
	P float64 // success probability
}

func (b Binomial) Rand(src rand.Source) float64 {
	n := math.Max(0, math.Round(b.N))
	if n == 0 || b.P <= 0 {
		return 0
	}
	if b.P >= 1 {
		return n
	}
	return distuv.Binomial{N: n, P: b.P, Src: src}.Rand()
}

func (b Binomial) LogProb(k float64) float64 {
	return binomialLogProb(b.N, b.P, k)
}

// ExtendedBinomial relaxes Binomial to tolerate non-integer trial and
// count values, as produced by continuous-relaxation inference. Its
// log-prob shares the lgamma form above; sampling rounds back to the
// exact Binomial.
type ExtendedBinomial struct {
	N float64
	P float64
}

func (b ExtendedBinomial) Rand(src rand.Source) float64 {
	return Binomial{N: b.N, P: b.P}.Rand(src)
}

func (b ExtendedBinomial) LogProb(k float64) float64 {
	return binomialLogProb(b.N, b.P, k)
}

// LogNormal wraps distuv.LogNormal; Mu and Sigma parameterize ln(X).
type LogNormal struct {
	Mu    float64
	Sigma float64
}

func (d LogNormal) Rand(src rand.Source) float64 {
	return distuv.LogNormal{Mu: d.Mu, Sigma: d.Sigma, Src: src}.Rand()
}

func (d LogNormal) LogProb(x float64) float64 {
	return distuv.LogNormal{Mu: d.Mu, Sigma: d.Sigma}.LogProb(x)
}

// Uniform wraps distuv.Uniform over [Min, Max).
type Uniform struct {
	Min float64
	Max float64
}

func (d Uniform) Rand(src rand.Source) float64 {
	return distuv.Uniform{Min: d.Min, Max: d.Max, Src: src}.Rand()
}

func (d Uniform) LogProb(x float64) float64 {
	return distuv.Uniform{Min: d.Min, Max: d.Max}.LogProb(x)
}
