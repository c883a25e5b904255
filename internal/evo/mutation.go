package evo

import (
	"math/rand"

	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/layout"
)

// SwapMutation exchanges the values of two distinct writable positions of l
// in place, with probability rate per call. The caller must own l
// exclusively. Swapping preserves the permutation invariant by construction.
func SwapMutation(rng *rand.Rand, l layout.Layout, rate float64, indices []int) {
	if len(indices) < 2 {
		return
	}
	if rng.Float64() >= rate {
		return
	}
	i := rng.Intn(len(indices))
	j := rng.Intn(len(indices) - 1)
	if j >= i {
		j++
	}
	pi, pj := indices[i], indices[j]
	l[pi], l[pj] = l[pj], l[pi]
}
