package history

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/wifitrack/internal/core/domain"
)

type memStore struct {
	mu      sync.Mutex
	batches [][]domain.Sighting
}

func (m *memStore) SaveSightingsBatch(sightings []domain.Sighting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, sightings)
	return nil
}

func (m *memStore) RecentSightings(limit int) ([]domain.Sighting, error) { return nil, nil }
func (m *memStore) LastSeen(entryKey string) (time.Time, bool, error)   { return time.Time{}, false, nil }
func (m *memStore) Close() error                                        { return nil }

func (m *memStore) all() []domain.Sighting {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Sighting
	for _, b := range m.batches {
		out = append(out, b...)
	}
	return out
}

func sighting(key string, level int) domain.Sighting {
	return domain.Sighting{EntryKey: key, Kind: "standard", Title: key, Level: level, SeenAt: time.Now()}
}

func TestRecorderFlushesOnInterval(t *testing.T) {
	store := &memStore{}
	r := NewRecorder(store, 16)
	r.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	r.Record([]domain.Sighting{sighting("cur:A,PERSONAL", 2), sighting("cur:B,OPEN", 3)})

	require.Eventually(t, func() bool { return len(store.all()) == 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestRecorderCollapsesBurstsPerEntry(t *testing.T) {
	store := &memStore{}
	r := NewRecorder(store, 16)
	r.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	// Three passes over the same entry collapse to the freshest row.
	r.Record([]domain.Sighting{
		sighting("cur:A,PERSONAL", 1),
		sighting("cur:A,PERSONAL", 2),
		sighting("cur:A,PERSONAL", 4),
	})

	require.Eventually(t, func() bool { return len(store.all()) > 0 }, 2*time.Second, 5*time.Millisecond)
	all := store.all()
	require.Len(t, all, 1)
	assert.Equal(t, 4, all[0].Level)
}

func TestRecorderDisabledDropsEverything(t *testing.T) {
	store := &memStore{}
	r := NewRecorder(store, 16)
	require.True(t, r.IsEnabled())

	r.SetEnabled(false)
	assert.False(t, r.IsEnabled())

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	r.Record([]domain.Sighting{sighting("cur:A,PERSONAL", 2)})
	cancel()

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, store.all())
}

func TestRecorderFullQueueDoesNotBlock(t *testing.T) {
	store := &memStore{}
	r := NewRecorder(store, 1)

	// No flush loop running; the queue fills and Record must return.
	done := make(chan struct{})
	go func() {
		r.Record([]domain.Sighting{
			sighting("cur:A,PERSONAL", 1),
			sighting("cur:B,OPEN", 2),
			sighting("cur:C,OPEN", 3),
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full queue")
	}
}
