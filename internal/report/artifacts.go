// Package report writes run artifacts to disk: per-run directories with the
// run configuration, fitness trajectory, best layout, and per-key cost
// breakdown, plus a top-level index of all runs.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/evo"
	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/layout"
	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/model"
)

const runIndexFile = "run_index.json"

type RunArtifacts struct {
	Run              model.RunRecord             `json:"run"`
	BestByGeneration []float64                   `json:"best_by_generation"`
	Diagnostics      []evo.GenerationDiagnostics `json:"diagnostics,omitempty"`
	BestLayout       layout.Layout               `json:"-"`
	PerKeyCost       map[string]float64          `json:"per_key_cost,omitempty"`
}

type RunIndexEntry struct {
	RunID          string  `json:"run_id"`
	CreatedAtUTC   string  `json:"created_at_utc"`
	PopulationSize int     `json:"population_size"`
	Generations    int     `json:"generations"`
	CostOrder      string  `json:"cost_order"`
	Seed           int64   `json:"seed"`
	BestCost       float64 `json:"best_cost"`
	BestFitness    float64 `json:"best_fitness"`
	ImprovementPct float64 `json:"improvement_pct"`
}

// WriteRunArtifacts materializes one run under baseDir/<run id> and returns
// the run directory path.
func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.Run.ID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.Run.ID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "config.json"), artifacts.Run.Config); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "fitness_history.json"), map[string]any{
		"best_by_generation": artifacts.BestByGeneration,
		"final_best_fitness": artifacts.Run.BestFitness,
	}); err != nil {
		return "", err
	}
	if err := writeFitnessCSV(filepath.Join(runDir, "fitness_history.csv"), artifacts.BestByGeneration); err != nil {
		return "", err
	}
	if len(artifacts.Diagnostics) > 0 {
		if err := writeJSON(filepath.Join(runDir, "diagnostics.json"), artifacts.Diagnostics); err != nil {
			return "", err
		}
	}
	if err := writeBestLayout(filepath.Join(runDir, "best_layout.txt"), artifacts.BestLayout); err != nil {
		return "", err
	}
	if len(artifacts.PerKeyCost) > 0 {
		if err := writeJSON(filepath.Join(runDir, "per_key_cost.json"), artifacts.PerKeyCost); err != nil {
			return "", err
		}
	}

	return runDir, nil
}

// AppendRunIndex inserts or replaces the index entry for the run.
func AppendRunIndex(baseDir string, entry RunIndexEntry) error {
	if entry.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		return err
	}

	for i := range index {
		if index[i].RunID == entry.RunID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, runIndexFile), index)
		}
	}

	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, runIndexFile), index)
}

// ListRunIndex returns all indexed runs, newest first.
func ListRunIndex(baseDir string) ([]RunIndexEntry, error) {
	path := filepath.Join(baseDir, runIndexFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunIndexEntry{}, nil
		}
		return nil, err
	}

	var entries []RunIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CreatedAtUTC != entries[j].CreatedAtUTC {
			return entries[i].CreatedAtUTC > entries[j].CreatedAtUTC
		}
		return entries[i].RunID < entries[j].RunID
	})
	return entries, nil
}

// ExportRunArtifacts copies one run's artifact files from baseDir into
// outDir/<run id> and returns the destination directory.
func ExportRunArtifacts(baseDir, runID, outDir string) (string, error) {
	if runID == "" {
		return "", fmt.Errorf("run id is required")
	}

	src := filepath.Join(baseDir, runID)
	if _, err := os.Stat(src); err != nil {
		return "", err
	}

	dst := filepath.Join(outDir, runID)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", err
	}

	required := []string{"config.json", "fitness_history.json", "fitness_history.csv", "best_layout.txt"}
	for _, file := range required {
		if err := copyFile(filepath.Join(src, file), filepath.Join(dst, file)); err != nil {
			return "", err
		}
	}
	optional := []string{"per_key_cost.json", "diagnostics.json"}
	for _, file := range optional {
		path := filepath.Join(src, file)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", err
		}
		if err := copyFile(path, filepath.Join(dst, file)); err != nil {
			return "", err
		}
	}

	return dst, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

func writeFitnessCSV(path string, bestByGeneration []float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"generation", "best_fitness"}); err != nil {
		return err
	}
	for i, best := range bestByGeneration {
		if err := writer.Write([]string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(best, 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeBestLayout(path string, l layout.Layout) error {
	if len(l) == 0 {
		return nil
	}
	ks := layout.Canonical()
	content := l.String() + "\n\n" + ks.FormatASCII(l) + "\n"
	return os.WriteFile(path, []byte(content), 0o644)
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
