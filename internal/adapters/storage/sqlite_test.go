package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/wifitrack/internal/core/domain"
)

func newTestAdapter(t *testing.T) *SQLiteAdapter {
	t.Helper()
	a, err := NewSQLiteAdapter(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func sightingAt(key string, seenAt time.Time) domain.Sighting {
	return domain.Sighting{
		EntryKey: key, Kind: "standard", Title: key, Level: 2, SeenAt: seenAt,
	}
}

func TestSaveAndRecentSightings(t *testing.T) {
	a := newTestAdapter(t)
	base := time.Now().Truncate(time.Second)

	err := a.SaveSightingsBatch([]domain.Sighting{
		sightingAt("cur:Old,OPEN", base.Add(-2*time.Hour)),
		sightingAt("cur:Mid,OPEN", base.Add(-time.Hour)),
		sightingAt("cur:New,OPEN", base),
	})
	require.NoError(t, err)

	got, err := a.RecentSightings(2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "cur:New,OPEN", got[0].EntryKey)
	assert.Equal(t, "cur:Mid,OPEN", got[1].EntryKey)
}

func TestSaveEmptyBatchIsNoop(t *testing.T) {
	a := newTestAdapter(t)
	require.NoError(t, a.SaveSightingsBatch(nil))

	got, err := a.RecentSightings(10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLastSeen(t *testing.T) {
	a := newTestAdapter(t)
	base := time.Now().Truncate(time.Second)

	require.NoError(t, a.SaveSightingsBatch([]domain.Sighting{
		sightingAt("cur:Cafe,OPEN", base.Add(-time.Hour)),
		sightingAt("cur:Cafe,OPEN", base),
	}))

	seen, ok, err := a.LastSeen("cur:Cafe,OPEN")
	require.NoError(t, err)
	require.True(t, ok)
	assert.WithinDuration(t, base, seen, time.Second)

	_, ok, err = a.LastSeen("cur:Never,OPEN")
	require.NoError(t, err)
	assert.False(t, ok)
}
