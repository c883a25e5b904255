package evo

import "fmt"

// Space declares which layout positions the genetic operators may write.
// FullSpace permutes every position; RestrictedSpace freezes everything
// outside an explicit index subset at the canonical assignment for the life
// of the run. The two modes are explicit values rather than an optional
// parameter so each code path stays total.
type Space struct {
	full    bool
	indices []int
}

// FullSpace permutes all positions of the key space.
func FullSpace() Space {
	return Space{full: true}
}

// RestrictedSpace permutes only the given position indices.
func RestrictedSpace(indices []int) Space {
	copied := make([]int, len(indices))
	copy(copied, indices)
	return Space{indices: copied}
}

// Full reports whether the space covers every position.
func (s Space) Full() bool {
	return s.full
}

// resolve materializes the writable index list for a layout of length n and
// validates it. Restricted spaces need at least two indices for crossover and
// mutation to be meaningful; anything less is a configuration error.
func (s Space) resolve(n int) ([]int, error) {
	if s.full {
		indices := make([]int, n)
		for i := range indices {
			indices[i] = i
		}
		return indices, nil
	}
	if len(s.indices) < 2 {
		return nil, fmt.Errorf("restricted space needs at least 2 indices, got %d", len(s.indices))
	}
	seen := make(map[int]bool, len(s.indices))
	for _, idx := range s.indices {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("space index %d out of range [0,%d)", idx, n)
		}
		if seen[idx] {
			return nil, fmt.Errorf("duplicate space index %d", idx)
		}
		seen[idx] = true
	}
	indices := make([]int, len(s.indices))
	copy(indices, s.indices)
	return indices, nil
}
