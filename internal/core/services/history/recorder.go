// Package history keeps a background-batched record of network sightings
// so the UI can answer "when did I last see this network" without touching
// the tracker's hot path.
package history

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lcalzada-xor/wifitrack/internal/core/domain"
	"github.com/lcalzada-xor/wifitrack/internal/core/ports"
)

// Recorder queues sightings for batched background writes. The queue is
// non-blocking: when it is full, sightings are dropped rather than
// stalling a reconciliation pass.
type Recorder struct {
	store    ports.SightingStore
	queue    chan domain.Sighting
	batch    int
	interval time.Duration

	mu      sync.RWMutex
	enabled bool
}

// NewRecorder creates a recorder with the given queue depth.
func NewRecorder(store ports.SightingStore, bufferSize int) *Recorder {
	return &Recorder{
		store:    store,
		queue:    make(chan domain.Sighting, bufferSize),
		batch:    200,
		interval: 5 * time.Second,
		enabled:  true,
	}
}

// Record queues a snapshot's worth of sightings. Safe from any goroutine.
func (r *Recorder) Record(sightings []domain.Sighting) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.enabled {
		return
	}
	for _, s := range sightings {
		select {
		case r.queue <- s:
		default:
			// Queue full: history is best-effort.
			return
		}
	}
}

// SetEnabled toggles recording.
func (r *Recorder) SetEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = enabled
}

// IsEnabled reports the current recording state.
func (r *Recorder) IsEnabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}

// Start begins the flush loop; it stops when ctx is cancelled, flushing
// what it holds.
func (r *Recorder) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		// Keyed by entry, so a burst of passes collapses to one row per
		// entry per flush.
		buffer := map[string]domain.Sighting{}

		flush := func() {
			if len(buffer) == 0 {
				return
			}
			batch := make([]domain.Sighting, 0, len(buffer))
			for _, s := range buffer {
				batch = append(batch, s)
			}
			if err := r.store.SaveSightingsBatch(batch); err != nil {
				slog.Warn("sighting flush failed", "count", len(batch), "error", err)
			}
			buffer = map[string]domain.Sighting{}
		}

		for {
			select {
			case <-ctx.Done():
				flush()
				return
			case s := <-r.queue:
				buffer[s.EntryKey] = s
				if len(buffer) >= r.batch {
					flush()
				}
			case <-ticker.C:
				flush()
			}
		}
	}()
}
