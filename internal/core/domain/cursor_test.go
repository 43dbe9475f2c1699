package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextWindow(t *testing.T) {
	today := date(2025, time.June, 15)

	t.Run("no cursor uses default lookback", func(t *testing.T) {
		win, ok := NextWindow(nil, Account{}, today, 7, 30)
		require.True(t, ok)
		assert.Equal(t, date(2025, time.May, 16), win.Start)
		assert.Equal(t, date(2025, time.May, 22), win.End)
		assert.Equal(t, 7, win.Days())
	})

	t.Run("no cursor uses account sync start", func(t *testing.T) {
		start := date(2025, time.June, 10)
		win, ok := NextWindow(nil, Account{SyncStartDate: &start}, today, 7, 30)
		require.True(t, ok)
		assert.Equal(t, start, win.Start)
		// clamped to yesterday
		assert.Equal(t, date(2025, time.June, 14), win.End)
	})

	t.Run("cursor advances to next day", func(t *testing.T) {
		cur := &SyncCursor{LastCompletedDate: date(2025, time.June, 1)}
		win, ok := NextWindow(cur, Account{}, today, 7, 30)
		require.True(t, ok)
		assert.Equal(t, date(2025, time.June, 2), win.Start)
		assert.Equal(t, date(2025, time.June, 8), win.End)
	})

	t.Run("window never covers today", func(t *testing.T) {
		cur := &SyncCursor{LastCompletedDate: date(2025, time.June, 12)}
		win, ok := NextWindow(cur, Account{}, today, 7, 30)
		require.True(t, ok)
		assert.Equal(t, date(2025, time.June, 13), win.Start)
		assert.Equal(t, date(2025, time.June, 14), win.End)
	})

	t.Run("caught up", func(t *testing.T) {
		cur := &SyncCursor{LastCompletedDate: date(2025, time.June, 14)}
		_, ok := NextWindow(cur, Account{}, today, 7, 30)
		assert.False(t, ok)
	})

	t.Run("cursor beyond yesterday", func(t *testing.T) {
		cur := &SyncCursor{LastCompletedDate: date(2025, time.June, 20)}
		_, ok := NextWindow(cur, Account{}, today, 7, 30)
		assert.False(t, ok)
	})

	t.Run("time of day is ignored", func(t *testing.T) {
		cur := &SyncCursor{LastCompletedDate: time.Date(2025, time.June, 1, 17, 30, 0, 0, time.UTC)}
		noon := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
		win, ok := NextWindow(cur, Account{}, noon, 7, 30)
		require.True(t, ok)
		assert.Equal(t, date(2025, time.June, 2), win.Start)
	})
}
