package configs

import "time"

// Optimizer tunes scoring and budget allocation.
type Optimizer struct {
	// TargetsPath optionally overrides the embedded engagement target
	// table with a YAML file on disk.
	TargetsPath string `env:"TARGETS_PATH"`
	// TopContent is how many top-scored contents the content strategy
	// considers.
	TopContent int `env:"TOP_CONTENT" envDefault:"10"`
	// MinAllocation is the floor, in minor currency units, below which a
	// computed share is dropped instead of pushed to the platform.
	MinAllocation int64 `env:"MIN_ALLOCATION" envDefault:"5000"`
	// ScoreBatch caps how many contents one scoring run processes.
	ScoreBatch int `env:"SCORE_BATCH" envDefault:"1000"`
	// ScoreInterval is how often scores are recalculated.
	ScoreInterval time.Duration `env:"SCORE_INTERVAL" envDefault:"30m"`
	// RunInterval is how often the budget optimizer fires.
	RunInterval time.Duration `env:"RUN_INTERVAL" envDefault:"3h"`
}
