// Package typingdata loads measured per-sequence typing times from CSV files
// whose payload column holds a JSON array of measurement records.
package typingdata

import (
	"encoding/csv"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/cost"
)

// DefaultJSONColumn is the CSV column the recorder writes its payload to.
const DefaultJSONColumn = "typing_data"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LetterTiming is the per-character reaction time inside a measurement record.
type LetterTiming struct {
	ReactionTime float64 `json:"reactionTime"`
}

// Record is one raw typing measurement: a typed sequence of 1..3 key symbols
// with either a total elapsed time or per-letter reaction times.
type Record struct {
	Sequence          string         `json:"sequence"`
	LetterTimings     []LetterTiming `json:"letterTimings"`
	TotalSequenceTime *float64       `json:"totalSequenceTime"`
}

// Total returns the sequence time in milliseconds, approximating a missing
// total as the sum of the per-letter reaction times.
func (r Record) Total() float64 {
	if r.TotalSequenceTime != nil {
		return *r.TotalSequenceTime
	}
	total := 0.0
	for _, lt := range r.LetterTimings {
		total += lt.ReactionTime
	}
	return total
}

// ParseCSV reads the CSV, decodes the JSON payload column of every row, and
// averages the measurements per sequence into unigram, bigram, and trigram
// timing tables. Malformed cells and records are skipped, never fatal; the
// number of skipped payloads is reported for diagnostics.
func ParseCSV(r io.Reader, jsonColumn string) (cost.TimingSet, int, error) {
	if jsonColumn == "" {
		jsonColumn = DefaultJSONColumn
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return emptyTimingSet(), 0, nil
	}
	if err != nil {
		return cost.TimingSet{}, 0, fmt.Errorf("read csv header: %w", err)
	}
	column := -1
	for i, name := range header {
		if name == jsonColumn {
			column = i
			break
		}
	}
	if column < 0 {
		return cost.TimingSet{}, 0, fmt.Errorf("csv is missing column %q", jsonColumn)
	}

	samples := map[string][]float64{}
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return cost.TimingSet{}, 0, fmt.Errorf("read csv row: %w", err)
		}
		if column >= len(row) || row[column] == "" {
			continue
		}
		skipped += collectSamples([]byte(row[column]), samples)
	}

	timing := emptyTimingSet()
	for sequence, values := range samples {
		avg := mean(values)
		switch len([]rune(sequence)) {
		case 1:
			timing.Uni[sequence] = avg
		case 2:
			timing.Bi[sequence] = avg
		case 3:
			timing.Tri[sequence] = avg
		}
	}
	return timing, skipped, nil
}

// collectSamples appends every parseable record of one payload cell to
// samples, returning the number of skipped records (including the whole cell
// when it is not a JSON array).
func collectSamples(payload []byte, samples map[string][]float64) int {
	var raw []jsoniter.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return 1
	}

	skipped := 0
	for _, item := range raw {
		var rec Record
		if err := json.Unmarshal(item, &rec); err != nil {
			skipped++
			continue
		}
		switch len([]rune(rec.Sequence)) {
		case 1, 2, 3:
			samples[rec.Sequence] = append(samples[rec.Sequence], rec.Total())
		default:
			skipped++
		}
	}
	return skipped
}

func emptyTimingSet() cost.TimingSet {
	return cost.TimingSet{
		Uni: make(cost.TimingTable),
		Bi:  make(cost.TimingTable),
		Tri: make(cost.TimingTable),
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}
