package domain

import "time"

// SyncCursor marks the last fully processed day for one (account,
// platform) pair. The next fetch window always starts strictly after
// LastCompletedDate; the cursor advances only after a successful window,
// even when it yielded zero rows, so "no data" and "not yet processed"
// stay distinguishable.
type SyncCursor struct {
	AccountID         int64
	Platform          Platform
	LastCompletedDate time.Time
	UpdatedAt         time.Time
}

// DateWindow is an inclusive day range.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of days the window covers.
func (w DateWindow) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// NextWindow computes the next backfill window for an account.
//
// cursor is nil when no window has ever completed; then the start is the
// account's sync start date, or today minus defaultLookbackDays when the
// account has none. The window never reaches past yesterday; today is
// skipped to avoid partial-day data. Returns ok=false when the account is
// fully caught up.
func NextWindow(cursor *SyncCursor, acct Account, today time.Time, maxChunkDays, defaultLookbackDays int) (DateWindow, bool) {
	day := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
	yesterday := day(today).AddDate(0, 0, -1)

	var start time.Time
	switch {
	case cursor != nil:
		start = day(cursor.LastCompletedDate).AddDate(0, 0, 1)
	case acct.SyncStartDate != nil:
		start = day(*acct.SyncStartDate)
	default:
		start = day(today).AddDate(0, 0, -defaultLookbackDays)
	}

	if start.After(yesterday) {
		return DateWindow{}, false
	}

	end := start.AddDate(0, 0, maxChunkDays-1)
	if end.After(yesterday) {
		end = yesterday
	}
	return DateWindow{Start: start, End: end}, true
}
