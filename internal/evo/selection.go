package evo

import (
	"math/rand"

	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/layout"
)

// ScoredLayout pairs an individual with its recorded fitness for one
// generation.
type ScoredLayout struct {
	Layout  layout.Layout
	Fitness float64
}

// TournamentSelect samples k distinct individuals uniformly at random and
// returns a deep copy of the fittest among them. Ties go to the first sampled
// maximum. The caller guarantees 1 <= k <= len(scored).
func TournamentSelect(rng *rand.Rand, scored []ScoredLayout, k int) layout.Layout {
	best := -1
	for _, idx := range rng.Perm(len(scored))[:k] {
		if best < 0 || scored[idx].Fitness > scored[best].Fitness {
			best = idx
		}
	}
	return scored[best].Layout.Clone()
}
