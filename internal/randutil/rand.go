// Package randutil centralises deterministic seeding of math/rand/v2
// sources so that every simulation component derives reproducible
// sequences from a single base seed.
package randutil

import rand "math/rand/v2"

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper derives the two 64-bit seeds required by rand/v2's PCG so all
// call sites get reproducible sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// ForWorker returns an independent source for the worker at the given index,
// derived from the base seed. Equal (seed, index) pairs always yield the
// same sequence, which keeps partitioned Monte Carlo runs reproducible.
func ForWorker(seed int64, index int) *rand.Rand {
	stride := uint64(index+1) * goldenRatio64
	return New(int64(uint64(seed) + stride))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
