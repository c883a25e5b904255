// Package corpus derives n-gram frequency tables and character statistics
// from raw text.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"unicode"

	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/cost"
)

// CountNgrams case-folds the corpus, drops every rune outside the allowed
// alphabet, and counts overlapping sliding windows of length 1, 2, and 3 over
// the filtered stream.
func CountNgrams(r io.Reader, allowed []rune) (cost.FrequencySet, error) {
	allowedSet := make(map[rune]bool, len(allowed))
	for _, ch := range allowed {
		allowedSet[ch] = true
	}

	var filtered []rune
	reader := bufio.NewReader(r)
	for {
		ch, _, err := reader.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return cost.FrequencySet{}, fmt.Errorf("read corpus: %w", err)
		}
		ch = unicode.ToLower(ch)
		if allowedSet[ch] {
			filtered = append(filtered, ch)
		}
	}

	freq := cost.FrequencySet{
		Uni: make(cost.FrequencyTable),
		Bi:  make(cost.FrequencyTable),
		Tri: make(cost.FrequencyTable),
	}
	for i := range filtered {
		freq.Uni[string(filtered[i])]++
		if i+1 < len(filtered) {
			freq.Bi[string(filtered[i:i+2])]++
		}
		if i+2 < len(filtered) {
			freq.Tri[string(filtered[i:i+3])]++
		}
	}
	return freq, nil
}
