package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunRecord summarizes one evolutionary run. Trees are never persisted;
// BestExpression is a rendering for display only.
type RunRecord struct {
	VersionedRecord
	ID             string  `json:"id"`
	CreatedAtUTC   string  `json:"created_at_utc"`
	Target         string  `json:"target"`
	PrimitiveSet   string  `json:"primitive_set"`
	Objectives     string  `json:"objectives"`
	Seed           int64   `json:"seed"`
	PopulationSize int     `json:"population_size"`
	Generations    int     `json:"generations"`
	MaxDepth       int     `json:"max_depth"`
	Selection      string  `json:"selection"`
	Evaluations    int64   `json:"evaluations"`
	TrainBest      float64 `json:"train_best"`
	TestBest       float64 `json:"test_best"`
	BestExpression string  `json:"best_expression"`
	BestDepth      int     `json:"best_depth"`
	DurationMillis int64   `json:"duration_millis"`
}

// GenerationStats is the per-generation population summary reported during a
// run. Score fields are computed over finite scores only.
type GenerationStats struct {
	Generation     int     `json:"generation"`
	Phase          string  `json:"phase"`
	Size           int     `json:"size"`
	Invalid        int     `json:"invalid"`
	BestScore      float64 `json:"best_score"`
	MeanScore      float64 `json:"mean_score"`
	StdDevScore    float64 `json:"stddev_score"`
	MinScore       float64 `json:"min_score"`
	MaxScore       float64 `json:"max_score"`
	MeanDepth      float64 `json:"mean_depth"`
	MeanSize       float64 `json:"mean_size"`
	Distinct       int     `json:"distinct"`
	BestExpression string  `json:"best_expression"`
}
