package layout

import (
	"fmt"
	"strings"
)

// Layout is a candidate assignment of logical symbols to physical key
// positions: Layout[i] is the symbol typed by the key at KeySpace position i.
// A well-formed Layout is always a permutation of the canonical symbol set.
type Layout []rune

// Clone returns an independently owned copy.
func (l Layout) Clone() Layout {
	out := make(Layout, len(l))
	copy(out, l)
	return out
}

// String returns the compact one-line form of the layout.
func (l Layout) String() string {
	return string(l)
}

// CanonicalLayout returns the identity assignment: every position keeps its
// canonical symbol. This is the QWERTY baseline and the seed for population
// initialization.
func (ks *KeySpace) CanonicalLayout() Layout {
	return Layout(ks.Keys())
}

// Mapping derives the logical-symbol to physical-key bijection by pairing
// Layout[i] with the canonical key at position i. Callers on hot paths may
// assume the layout is well formed; Validate exists for boundaries and tests.
func (ks *KeySpace) Mapping(l Layout) map[rune]rune {
	mapping := make(map[rune]rune, len(l))
	for i, logical := range l {
		if i >= len(ks.keys) {
			break
		}
		mapping[logical] = ks.keys[i]
	}
	return mapping
}

// Validate reports whether l is a permutation of the canonical symbol set:
// same length, no duplicates, no missing symbols.
func (ks *KeySpace) Validate(l Layout) error {
	if len(l) != len(ks.keys) {
		return fmt.Errorf("layout length mismatch: got=%d want=%d", len(l), len(ks.keys))
	}
	seen := make(map[rune]bool, len(l))
	for _, symbol := range l {
		if seen[symbol] {
			return fmt.Errorf("duplicate symbol %q in layout", symbol)
		}
		seen[symbol] = true
	}
	for _, key := range ks.keys {
		if !seen[key] {
			return fmt.Errorf("missing symbol %q in layout", key)
		}
	}
	return nil
}

// FormatASCII renders the layout as staggered rows for presentation.
func (ks *KeySpace) FormatASCII(l Layout) string {
	var lines []string
	for r, indices := range ks.rows {
		parts := make([]string, 0, len(indices))
		for _, idx := range indices {
			if idx >= len(l) {
				continue
			}
			parts = append(parts, string(l[idx]))
		}
		lines = append(lines, strings.Repeat(" ", r)+strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n")
}
