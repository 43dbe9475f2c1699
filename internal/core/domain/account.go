package domain

import "time"

// Account is an advertiser account on an external platform. All fetched
// campaign state is scoped to one account.
type Account struct {
	ID                int64
	Platform          Platform
	ExternalAccountID string
	Name              string
	Status            AdStatus
	// SyncStartDate, when set, is the first day the backfill may fetch for
	// this account. When nil the configured default lookback applies.
	SyncStartDate *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
