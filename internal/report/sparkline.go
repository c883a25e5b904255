package report

import (
	"math"
	"strings"
)

var sparklineChars = []rune("▁▂▃▄▅▆▇█")

const defaultSparklineWidth = 60

// Sparkline renders a fitness trajectory as a single line of block
// characters. Values are min-max normalized; a flat series renders as the
// lowest block. Series longer than width are stride-sampled.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}
	if width <= 0 {
		width = defaultSparklineWidth
	}

	mn, mx := values[0], values[0]
	for _, v := range values {
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
	}

	if mx-mn < 1e-12 {
		n := len(values)
		if n > width {
			n = width
		}
		return strings.Repeat(string(sparklineChars[0]), n)
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var b strings.Builder
	for i := 0; i < len(values); i += step {
		norm := (values[i] - mn) / (mx - mn)
		idx := int(math.Round(norm * float64(len(sparklineChars)-1)))
		if idx > len(sparklineChars)-1 {
			idx = len(sparklineChars) - 1
		}
		b.WriteRune(sparklineChars[idx])
	}
	return b.String()
}
