package epi

import (
	"hash/fnv"
	"math/rand/v2"
)

// PartitionedRNG provides isolated RNG streams per subsystem for deterministic runs
type PartitionedRNG struct {
	masterSeed uint64
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a new partitioned RNG with the given master seed
func NewPartitionedRNG(masterSeed int64) *PartitionedRNG {
	return &PartitionedRNG{
		masterSeed: uint64(masterSeed),
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns an RNG for the given subsystem name
// The subsystem RNG is created lazily and deterministically derived from master seed
// Multiple calls with same subsystem name return the same RNG instance
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, exists := p.subsystems[name]; exists {
		return rng
	}

	subsystemSeed := p.deriveSeed(name)
	rng := rand.New(rand.NewPCG(subsystemSeed, subsystemSeed^0x9e3779b97f4a7c15))
	p.subsystems[name] = rng
	return rng
}

// ForSeries returns an RNG for the given latent series name
// This is a convenience method that calls ForSubsystem with "series_<name>"
func (p *PartitionedRNG) ForSeries(name string) *rand.Rand {
	return p.ForSubsystem("series_" + name)
}

// deriveSeed deterministically derives a subsystem seed from master seed and subsystem name
// Uses hash-based derivation to ensure order-independence:
// subsystemSeed = masterSeed XOR hash(subsystemName)
func (p *PartitionedRNG) deriveSeed(subsystemName string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(subsystemName))
	return p.masterSeed ^ h.Sum64()
}

// SubsystemGlobal is the stream for time-invariant parameter draws.
// Per-series streams are derived via ForSeries.
const SubsystemGlobal = "global"
