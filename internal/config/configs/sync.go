package configs

import "time"

// Sync tunes the incremental backfill and run housekeeping.
type Sync struct {
	// MaxChunkDays caps the size of one backfill window.
	MaxChunkDays int `env:"MAX_CHUNK_DAYS" envDefault:"7"`
	// DefaultLookbackDays seeds the window start for accounts with no
	// cursor and no configured sync start date.
	DefaultLookbackDays int `env:"DEFAULT_LOOKBACK_DAYS" envDefault:"30"`
	// StaleRunAge is how long a run may stay in running before
	// housekeeping force-fails it.
	StaleRunAge time.Duration `env:"STALE_RUN_AGE" envDefault:"15m"`
	// AdsInterval is how often the ads sync job fires.
	AdsInterval time.Duration `env:"ADS_INTERVAL" envDefault:"30m"`
	// SpendInterval is how often the spend sync job fires.
	SpendInterval time.Duration `env:"SPEND_INTERVAL" envDefault:"1h"`
	// HousekeepingInterval is how often stale runs are remediated.
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"15m"`
}
