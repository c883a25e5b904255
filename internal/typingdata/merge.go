package typingdata

import (
	"encoding/csv"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

// MergeCSVs concatenates the payload arrays of several typing CSVs into a
// single-row CSV with the same JSON column, and returns how many records the
// merged payload holds. Inputs with a missing column or unparseable payloads
// are skipped rather than failing the merge.
func MergeCSVs(out io.Writer, jsonColumn string, inputs ...io.Reader) (int, error) {
	if jsonColumn == "" {
		jsonColumn = DefaultJSONColumn
	}

	merged := make([]jsoniter.RawMessage, 0)
	for _, in := range inputs {
		reader := csv.NewReader(in)
		reader.FieldsPerRecord = -1

		header, err := reader.Read()
		if err != nil {
			continue
		}
		column := -1
		for i, name := range header {
			if name == jsonColumn {
				column = i
				break
			}
		}
		if column < 0 {
			continue
		}

		for {
			row, err := reader.Read()
			if err != nil {
				break
			}
			if column >= len(row) || row[column] == "" {
				continue
			}
			var raw []jsoniter.RawMessage
			if err := json.Unmarshal([]byte(row[column]), &raw); err != nil {
				continue
			}
			merged = append(merged, raw...)
		}
	}

	payload, err := json.Marshal(merged)
	if err != nil {
		return 0, fmt.Errorf("marshal merged payload: %w", err)
	}

	writer := csv.NewWriter(out)
	if err := writer.Write([]string{jsonColumn}); err != nil {
		return 0, err
	}
	if err := writer.Write([]string{string(payload)}); err != nil {
		return 0, err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, err
	}
	return len(merged), nil
}
