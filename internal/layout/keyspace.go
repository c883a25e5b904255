package layout

import "unicode"

// canonicalKeys is the physical key order of the reference board, QWERTY
// reading order. Timings are recorded against these symbols, so the slice
// doubles as the canonical symbol alphabet.
var canonicalKeys = []rune(
	"1234567890-=" +
		`qwertyuiop[]\` +
		"asdfghjkl;'" +
		"zxcvbnm,./")

// canonicalRowSizes partitions canonicalKeys into display rows.
var canonicalRowSizes = []int{12, 13, 11, 10}

// KeySpace is the fixed ordered set of physical key positions together with
// their row structure. It is immutable for the lifetime of a run; positions
// are addressed by index 0..Size()-1.
type KeySpace struct {
	keys     []rune
	rowSizes []int
	rows     [][]int
}

var canonicalSpace = newKeySpace(canonicalKeys, canonicalRowSizes)

// Canonical returns the reference key space shared by the whole process.
func Canonical() *KeySpace {
	return canonicalSpace
}

func newKeySpace(keys []rune, rowSizes []int) *KeySpace {
	rows := make([][]int, 0, len(rowSizes))
	start := 0
	for _, size := range rowSizes {
		row := make([]int, size)
		for i := range row {
			row[i] = start + i
		}
		rows = append(rows, row)
		start += size
	}
	return &KeySpace{keys: keys, rowSizes: rowSizes, rows: rows}
}

// Size returns the number of physical key positions.
func (ks *KeySpace) Size() int {
	return len(ks.keys)
}

// Key returns the physical key symbol at position i.
func (ks *KeySpace) Key(i int) rune {
	return ks.keys[i]
}

// Keys returns a copy of the physical key symbols in position order.
func (ks *KeySpace) Keys() []rune {
	out := make([]rune, len(ks.keys))
	copy(out, ks.keys)
	return out
}

// Alphabet returns the canonical symbol set as a string, in position order.
func (ks *KeySpace) Alphabet() string {
	return string(ks.keys)
}

// Rows returns the position indices of each display row.
func (ks *KeySpace) Rows() [][]int {
	return ks.rows
}

// Partition holds the disjoint position-index subsets of the key space,
// classified by the canonical symbol at each position. Used to build
// restricted permutation spaces (letters-only runs and so on).
type Partition struct {
	Letters []int
	Digits  []int
	Symbols []int
}

// Partition classifies every position once, by canonical symbol.
func (ks *KeySpace) Partition() Partition {
	var p Partition
	for i, key := range ks.keys {
		switch {
		case unicode.IsLetter(key):
			p.Letters = append(p.Letters, i)
		case unicode.IsDigit(key):
			p.Digits = append(p.Digits, i)
		default:
			p.Symbols = append(p.Symbols, i)
		}
	}
	return p
}
