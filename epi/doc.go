// Package epi provides a stochastic compartmental epidemic modeling framework.
//
// # Reading Guide
//
// Start with these three files to understand the modeling kernel:
//   - compartmental.go: the Model contract (metadata + five callbacks) and the
//     Engine that drives it (forward sampling pass, backward log-joint pass)
//   - sir.go: the reference Susceptible-Infected-Recovered instantiation
//   - tape.go: the dual-mode (sample vs. score) random-choice tape that lets
//     one generative definition serve both passes
//
// # Architecture
//
// The epi package defines the contract and the reference model; supporting
// types live alongside or in sub-packages:
//   - dist.go: distribution primitives (Binomial, ExtendedBinomial, LogNormal,
//     Uniform) built on gonum's stat/distuv
//   - rng.go: partitioned deterministic RNG streams per subsystem
//   - convolve.go: causal convolution used by the heuristic warm start
//   - epi/trace/: trajectory records and summary statistics
//
// # Key Interfaces
//
// The extension point is the Model interface: any compartmental model supplies
// static metadata (Compartments, Series, FullMass) plus five callbacks
// (Heuristic, GlobalModel, Initialize, TransitionFwd, TransitionBwd). The
// forward and backward callbacks must describe the same joint distribution;
// the Engine exercises that duality and the round-trip law is covered by
// tests in sir_test.go.
package epi
