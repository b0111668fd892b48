// Package entries defines the canonical, identity-stable records for
// logical networks. One entry object represents one logical network for
// its whole lifetime: it is mutated in place on every observation and
// never replaced, so references held by readers stay valid.
package entries

import (
	"sync"
	"time"

	"github.com/lcalzada-xor/wifitrack/internal/core/domain"
)

// Kind is the closed variant tag. Aggregation filters by tag, never by
// runtime type inspection.
type Kind string

const (
	KindStandard       Kind = "standard"
	KindSuggested      Kind = "suggested"
	KindPasspoint      Kind = "passpoint"
	KindOsu            Kind = "osu"
	KindNetworkRequest Kind = "network_request"
	KindKnownNetwork   Kind = "known_network"
	KindHotspotNetwork Kind = "hotspot_network"
	KindMergedCarrier  Kind = "merged_carrier"
)

// ConnectionState of one entry.
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
)

func (s ConnectionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Entry is the shared read surface over all variants. Mutation happens
// through variant-specific methods and only ever on the tracker worker
// goroutine; getters may be called from any goroutine.
type Entry interface {
	Key() string
	Kind() Kind
	Title() string
	ConnectionState() ConnectionState
	Level() int
	SecurityTypes() []domain.SecurityType
	IsSaved() bool
	IsSuggestion() bool
	IsSubscription() bool
	IsPrimary() bool
	LastScanTime() time.Time
	ConnectedSince() time.Time
}

// baseEntry carries the attributes every variant shares. A single RWMutex
// guards them: the worker writes, any reader goroutine reads.
type baseEntry struct {
	mu           sync.RWMutex
	state        ConnectionState
	level        int
	primary      bool
	handle       domain.NetworkHandle
	lastScanTime time.Time
	connectedAt  time.Time
}

func newBaseEntry() baseEntry {
	return baseEntry{level: domain.LevelUnreachable}
}

func (b *baseEntry) ConnectionState() ConnectionState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

func (b *baseEntry) Level() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.level
}

func (b *baseEntry) IsPrimary() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.primary
}

func (b *baseEntry) LastScanTime() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastScanTime
}

func (b *baseEntry) ConnectedSince() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.connectedAt
}

// Handle returns the platform connection handle the entry is currently
// associated with, if any.
func (b *baseEntry) Handle() domain.NetworkHandle {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.handle
}

// setConnected transitions the entry onto a live handle.
func (b *baseEntry) setConnected(handle domain.NetworkHandle, primary bool, now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != StateConnected {
		b.connectedAt = now
	}
	b.state = StateConnected
	b.handle = handle
	b.primary = primary
	// A connected entry is never unreachable, even before its first scan.
	if b.level == domain.LevelUnreachable {
		b.level = domain.LevelMin
	}
}

// setDisconnected drops the entry back to DISCONNECTED and clears the
// handle association.
func (b *baseEntry) setDisconnected() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateDisconnected
	b.primary = false
	b.handle = 0
}

// demotePrimary clears the primary flag without touching the connection.
func (b *baseEntry) demotePrimary() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.primary = false
}

// updateScanDerived recomputes level and scan timestamp from a set of
// matching observations. A connected entry with no observations keeps the
// floor level instead of going unreachable, avoiding flicker right after a
// connection is established and before the first scan lands.
func (b *baseEntry) updateScanDerived(obs []domain.ScanObservation) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(obs) == 0 {
		b.lastScanTime = time.Time{}
		if b.state == StateConnected {
			b.level = domain.LevelMin
		} else {
			b.level = domain.LevelUnreachable
		}
		return
	}
	best := obs[0]
	latest := obs[0].Timestamp
	for _, o := range obs[1:] {
		if o.RSSI > best.RSSI {
			best = o
		}
		if o.Timestamp.After(latest) {
			latest = o.Timestamp
		}
	}
	b.level = domain.LevelForRSSI(best.RSSI)
	b.lastScanTime = latest
}
