// Package cost turns a candidate layout into a scalar typing cost and fitness
// by weighting measured per-sequence timings with corpus n-gram frequencies.
package cost

import (
	"errors"

	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/layout"
)

// Model evaluates candidate layouts against read-only frequency and timing
// tables. All methods are pure functions of the model and their arguments.
type Model struct {
	Space  *layout.KeySpace
	Freq   FrequencySet
	Timing TimingSet

	// Order picks the single n-gram granularity that contributes to the cost.
	Order Order
	// UseTrigrams gates trigram contributions even when Order is trigram.
	// Kept separate from Order for input validation.
	UseTrigrams bool
	// FallbackToUnigrams backs off a missing bigram/trigram timing to the
	// additive sum of the physical unigram timings. With the fallback off, a
	// missing timing contributes nothing, which undercounts cost for layouts
	// that produce many unseen n-grams. That bias is preserved deliberately.
	FallbackToUnigrams bool
}

// Validate reports configuration errors before a run starts.
func (m Model) Validate() error {
	if m.Space == nil {
		return errors.New("key space is required")
	}
	switch m.Order {
	case OrderUnigram, OrderBigram, OrderTrigram:
	default:
		return errors.New("cost order must be one of uni|bi|tri")
	}
	if m.Order == OrderTrigram && !m.UseTrigrams {
		return errors.New("trigram cost order requires the trigram flag")
	}
	return nil
}

// Cost computes the total modeled typing time of the corpus under l, in
// milliseconds. Logical symbols without a physical mapping and n-grams without
// a usable timing contribute zero.
func (m Model) Cost(l layout.Layout) float64 {
	mapping := m.Space.Mapping(l)

	switch m.Order {
	case OrderUnigram:
		return m.unigramCost(mapping)
	case OrderBigram:
		return m.bigramCost(mapping)
	case OrderTrigram:
		if !m.UseTrigrams {
			return 0
		}
		return m.trigramCost(mapping)
	default:
		return 0
	}
}

// Fitness evaluates l and applies the cost-to-fitness transform.
func (m Model) Fitness(l layout.Layout) float64 {
	return FitnessFromCost(m.Cost(l))
}

// FitnessFromCost is the monotone decreasing transform 1/cost, guarding the
// degenerate zero and negative cases.
func FitnessFromCost(cost float64) float64 {
	if cost > 0 {
		return 1.0 / cost
	}
	return 0
}

func (m Model) unigramCost(mapping map[rune]rune) float64 {
	total := 0.0
	for gram, count := range m.Freq.Uni {
		runes := []rune(gram)
		if len(runes) != 1 {
			continue
		}
		physical, ok := mapping[runes[0]]
		if !ok {
			continue
		}
		timing, ok := m.Timing.Uni[string(physical)]
		if !ok {
			continue
		}
		total += float64(count) * timing
	}
	return total
}

func (m Model) bigramCost(mapping map[rune]rune) float64 {
	total := 0.0
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
			if !m.FallbackToUnigrams {
				continue
			}
			timing = m.Timing.Uni[string(p1)] + m.Timing.Uni[string(p2)]
		}
		total += float64(count) * timing
	}
	return total
}

func (m Model) trigramCost(mapping map[rune]rune) float64 {
	total := 0.0
	for gram, count := range m.Freq.Tri {
		runes := []rune(gram)
		if len(runes) != 3 {
			continue
		}
		p1, ok1 := mapping[runes[0]]
		p2, ok2 := mapping[runes[1]]
		p3, ok3 := mapping[runes[2]]
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		timing, ok := m.Timing.Tri[string([]rune{p1, p2, p3})]
		if !ok {
			if !m.FallbackToUnigrams {
				continue
			}
			timing = m.Timing.Uni[string(p1)] + m.Timing.Uni[string(p2)] + m.Timing.Uni[string(p3)]
		}
		total += float64(count) * timing
	}
	return total
}
