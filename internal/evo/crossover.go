package evo

import (
	"math/rand"

	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/layout"
)

// OrderCrossover applies OX to the two parents over the writable positions in
// indices and returns two offspring. Each child copies a random slice of one
// parent and fills the remaining slots, wrapping past the slice, with the
// other parent's values in scan order, skipping values already present. The
// result is always a valid permutation of the parents' symbols with no repair
// step. Positions outside indices are copied unchanged from the respective
// parent. Fewer than two writable positions degenerates to plain copies.
func OrderCrossover(rng *rand.Rand, a, b layout.Layout, indices []int) (layout.Layout, layout.Layout) {
	childA := a.Clone()
	childB := b.Clone()

	n := len(indices)
	if n < 2 {
		return childA, childB
	}

	c1, c2 := sampleCutPoints(rng, n)

	subA := make([]rune, n)
	subB := make([]rune, n)
	for k, idx := range indices {
		subA[k] = a[idx]
		subB[k] = b[idx]
	}

	fillA := oxFill(subA, subB, c1, c2)
	fillB := oxFill(subB, subA, c1, c2)
	for k, idx := range indices {
		childA[idx] = fillA[k]
		childB[idx] = fillB[k]
	}
	return childA, childB
}

// sampleCutPoints draws two distinct positions in [0,n) and returns them
// ordered.
func sampleCutPoints(rng *rand.Rand, n int) (int, int) {
	c1 := rng.Intn(n)
	c2 := rng.Intn(n - 1)
	if c2 >= c1 {
		c2++
	}
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	return c1, c2
}

// oxFill builds one child subsequence: the slice [c1,c2) comes verbatim from
// sliceSrc, every other slot is filled left to right starting at c2 (wrapping
// to 0) by scanning fillSrc from c2 (also wrapping) and skipping values the
// slice already contributed. The slice contributes a fixed symbol set and the
// scan inserts every remaining symbol exactly once, so the output is a
// permutation of the shared symbol set.
func oxFill(sliceSrc, fillSrc []rune, c1, c2 int) []rune {
	n := len(sliceSrc)
	child := make([]rune, n)
	used := make(map[rune]bool, c2-c1)
	for i := c1; i < c2; i++ {
		child[i] = sliceSrc[i]
		used[sliceSrc[i]] = true
	}

	fill := c2
	for off := 0; off < n; off++ {
		value := fillSrc[(c2+off)%n]
		if used[value] {
			continue
		}
		child[fill%n] = value
		used[value] = true
		fill++
	}
	return child
}
