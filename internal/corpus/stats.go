package corpus

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// CharCount is one entry of the character frequency report.
type CharCount struct {
	Char  rune
	Count int
}

// CharacterStats counts every rune in the corpus without case folding or
// filtering, sorted by descending count with the rune as tie break.
func CharacterStats(r io.Reader) ([]CharCount, error) {
	counts := map[rune]int{}
	reader := bufio.NewReader(r)
	for {
		ch, _, err := reader.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read corpus: %w", err)
		}
		counts[ch]++
	}

	out := make([]CharCount, 0, len(counts))
	for ch, count := range counts {
		out = append(out, CharCount{Char: ch, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Char < out[j].Char
	})
	return out, nil
}

// WriteStatsReport renders the character frequency report.
func WriteStatsReport(w io.Writer, counts []CharCount) error {
	total := 0
	for _, entry := range counts {
		total += entry.Count
	}

	rule := strings.Repeat("=", 50)
	if _, err := fmt.Fprintf(w, "Character Frequency Count\n%s\n", rule); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total unique characters: %d\nTotal characters: %d\n%s\n\n", len(counts), total, rule); err != nil {
		return err
	}
	for _, entry := range counts {
		if _, err := fmt.Fprintf(w, "%-20s : %10d\n", displayChar(entry.Char), entry.Count); err != nil {
			return err
		}
	}
	return nil
}

func displayChar(ch rune) string {
	switch ch {
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	case '\r':
		return `\r`
	case ' ':
		return "' ' (space)"
	}
	if ch < 32 || ch == 127 {
		return fmt.Sprintf(`\x%02x`, ch)
	}
	return string(ch)
}
