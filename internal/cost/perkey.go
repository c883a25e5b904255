package cost

import "github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/layout"

// PerKeyCost approximates the cost share of each physical key under l by
// distributing every n-gram's cost evenly across the keys it touches.
// Reporting only; the optimizer never reads this. Unlike Cost, missing
// bigram/trigram timings always back off to unigram sums here so the heatmap
// stays dense, and trigrams contribute only when the trigram flag is set.
func (m Model) PerKeyCost(l layout.Layout) map[string]float64 {
	mapping := m.Space.Mapping(l)

	keyCost := make(map[string]float64, m.Space.Size())
	for _, key := range m.Space.Keys() {
		keyCost[string(key)] = 0
	}

	for gram, count := range m.Freq.Uni {
		runes := []rune(gram)
		if len(runes) != 1 {
			continue
		}
		physical, ok := mapping[runes[0]]
		if !ok {
			continue
		}
		keyCost[string(physical)] += float64(count) * m.Timing.Uni[string(physical)]
	}

	for gram, count := range m.Freq.Bi {
		runes := []rune(gram)
		if len(runes) != 2 {
			continue
		}
		p1, ok1 := mapping[runes[0]]
		p2, ok2 := mapping[runes[1]]
		if !ok1 || !ok2 {
			continue
		}
		timing, ok := m.Timing.Bi[string([]rune{p1, p2})]
		if !ok {
			timing = m.Timing.Uni[string(p1)] + m.Timing.Uni[string(p2)]
		}
		share := float64(count) * timing / 2.0
		keyCost[string(p1)] += share
		keyCost[string(p2)] += share
	}

	if m.UseTrigrams {
		for gram, count := range m.Freq.Tri {
			runes := []rune(gram)
			if len(runes) != 3 {
				continue
			}
			physicals := make([]rune, 0, 3)
			for _, r := range runes {
				physical, ok := mapping[r]
				if !ok {
					break
				}
				physicals = append(physicals, physical)
			}
			if len(physicals) != 3 {
				continue
			}
			timing, ok := m.Timing.Tri[string(physicals)]
			if !ok {
				timing = 0
				for _, p := range physicals {
					timing += m.Timing.Uni[string(p)]
				}
			}
			share := float64(count) * timing / 3.0
			for _, p := range physicals {
				keyCost[string(p)] += share
			}
		}
	}

	return keyCost
}
