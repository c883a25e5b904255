// Package model holds the persisted record types shared by storage and
// reporting.
package model

// VersionedRecord tags persisted payloads so incompatible snapshots are
// rejected on load instead of being misread.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunConfig is the full parameterization of one optimization run, kept with
// the run record so results stay interpretable.
type RunConfig struct {
	CorpusPath         string  `json:"corpus_path,omitempty"`
	TypingCSVPath      string  `json:"typing_csv_path,omitempty"`
	JSONColumn         string  `json:"json_column,omitempty"`
	PopulationSize     int     `json:"population_size"`
	Generations        int     `json:"generations"`
	MutationRate       float64 `json:"mutation_rate"`
	CrossoverRate      float64 `json:"crossover_rate"`
	EliteCount         int     `json:"elite_count"`
	TournamentSize     int     `json:"tournament_size"`
	CostOrder          string  `json:"cost_order"`
	UseTrigrams        bool    `json:"use_trigrams"`
	FallbackToUnigrams bool    `json:"fallback_to_unigrams"`
	Subset             string  `json:"subset,omitempty"`
	Seed               int64   `json:"seed"`
	Workers            int     `json:"workers"`
}

// RunRecord is the persisted outcome of one optimization run. The fitness
// trajectory is stored separately (see storage.Store) to keep run listings
// cheap.
type RunRecord struct {
	VersionedRecord
	ID           string    `json:"id"`
	CreatedAtUTC string    `json:"created_at_utc"`
	Config       RunConfig `json:"config"`

	BestLayout     string  `json:"best_layout"`
	BestCost       float64 `json:"best_cost"`
	BestFitness    float64 `json:"best_fitness"`
	BaselineCost   float64 `json:"baseline_cost"`
	ImprovementPct float64 `json:"improvement_pct"`
}
