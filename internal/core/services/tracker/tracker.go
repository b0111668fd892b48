// Package tracker fuses scan results, saved configurations, passpoint
// profiles, live connection events and companion-device data into one
// deduplicated, continuously updated view of the networks around a device.
//
// All cache mutation runs on a single worker goroutine; platform callbacks
// are marshaled onto it, so no two reconciliation passes ever overlap and
// every handler sees the state the previous one left. Readers get snapshot
// copies assembled under a short lock.
package tracker

import (
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/lcalzada-xor/wifitrack/internal/core/domain"
	"github.com/lcalzada-xor/wifitrack/internal/core/ports"
	"github.com/lcalzada-xor/wifitrack/internal/core/services/entries"
)

var (
	reconcilePasses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wifitrack_reconcile_passes_total",
		Help: "The total number of reconciliation passes executed",
	})
	activeEntriesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wifitrack_entries_active",
		Help: "Entries currently connected or connecting",
	})
	otherEntriesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wifitrack_entries_other",
		Help: "Visible entries not currently connected",
	})
	notificationsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wifitrack_notifications_dropped_total",
		Help: "Listener notifications dropped because the queue was full",
	})
)

// Options tunes the tracker.
type Options struct {
	// ScanInterval is the re-arm delay between a scan completing and the
	// next request.
	ScanInterval time.Duration
	// MaxScanAge is how long an observation stays usable. It is extended
	// by one ScanInterval after a failed scan so a single missed scan
	// does not flicker entries out of the list.
	MaxScanAge time.Duration
	// ConnectTimeout bounds the wait for a terminal status callback from
	// the companion service.
	ConnectTimeout time.Duration
	// Clock defaults to the system clock.
	Clock ports.Clock
}

func (o *Options) withDefaults() {
	if o.ScanInterval <= 0 {
		o.ScanInterval = 10 * time.Second
	}
	if o.MaxScanAge <= 0 {
		o.MaxScanAge = 15 * time.Second
	}
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = 10 * time.Second
	}
	if o.Clock == nil {
		o.Clock = SystemClock()
	}
}

// SightingRecorder receives the published snapshots for history keeping.
type SightingRecorder interface {
	Record(sightings []domain.Sighting)
}

// Tracker is the reconciliation engine. Construct with New, register
// listeners, then Start.
type Tracker struct {
	opts      Options
	clock     ports.Clock
	scan      ports.ScanProvider
	configs   ports.ConfigProvider
	conn      ports.ConnectionProvider
	companion ports.CompanionService
	portal    ports.CaptivePortalLauncher
	recorder  SightingRecorder

	subject *Subject
	scanner *Scanner

	lifeMu  sync.Mutex
	events  chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running bool

	// Everything below is owned by the worker goroutine.
	standardConfigs  map[string][]*domain.NetworkConfig
	suggestedConfigs map[string][]*domain.NetworkConfig
	requestConfigs   map[string][]*domain.NetworkConfig
	passpointConfigs map[string][]*domain.NetworkConfig
	passpointByID    map[string]*domain.PasspointProfile

	standardEntries  map[string]*entries.StandardEntry
	suggestedEntries map[string]*entries.StandardEntry
	passpointEntries map[string]*entries.PasspointEntry
	osuEntries       map[string]*entries.OsuEntry
	knownEntries     map[string]*entries.KnownNetworkEntry
	hotspotEntries   map[int64]*entries.HotspotNetworkEntry
	requestEntry     *entries.NetworkRequestEntry
	carrierEntry     *entries.MergedCarrierEntry

	knownRecords   map[string]domain.KnownNetworkRecord
	hotspotRecords map[int64]domain.HotspotNetworkRecord

	lastScanFailed bool

	// Pending companion round trips, invalidated by newer requests.
	hotspotReqGen map[int64]uint64

	snapMu            sync.Mutex
	active            []entries.Entry
	other             []entries.Entry
	savedCount        int
	subscriptionCount int
}

// New wires a tracker. The companion service and captive-portal launcher
// may be nil; both degrade gracefully.
func New(opts Options, scan ports.ScanProvider, configs ports.ConfigProvider, conn ports.ConnectionProvider, companion ports.CompanionService, portal ports.CaptivePortalLauncher) *Tracker {
	opts.withDefaults()
	t := &Tracker{
		opts:      opts,
		clock:     opts.Clock,
		scan:      scan,
		configs:   configs,
		conn:      conn,
		companion: companion,
		portal:    portal,
		subject:   NewSubject(),

		standardConfigs:  map[string][]*domain.NetworkConfig{},
		suggestedConfigs: map[string][]*domain.NetworkConfig{},
		requestConfigs:   map[string][]*domain.NetworkConfig{},
		passpointConfigs: map[string][]*domain.NetworkConfig{},
		passpointByID:    map[string]*domain.PasspointProfile{},

		standardEntries:  map[string]*entries.StandardEntry{},
		suggestedEntries: map[string]*entries.StandardEntry{},
		passpointEntries: map[string]*entries.PasspointEntry{},
		osuEntries:       map[string]*entries.OsuEntry{},
		knownEntries:     map[string]*entries.KnownNetworkEntry{},
		hotspotEntries:   map[int64]*entries.HotspotNetworkEntry{},

		knownRecords:   map[string]domain.KnownNetworkRecord{},
		hotspotRecords: map[int64]domain.HotspotNetworkRecord{},
		hotspotReqGen:  map[int64]uint64{},
	}
	t.scanner = NewScanner(scan, t.clock, t.opts.ScanInterval, t.post, t.onScanComplete)
	return t
}

// SetSightingRecorder attaches the optional history sink. Call before
// Start.
func (t *Tracker) SetSightingRecorder(r SightingRecorder) { t.recorder = r }

// AddListener registers a change listener.
func (t *Tracker) AddListener(l ports.TrackerListener) { t.subject.AddListener(l) }

// RemoveListener unregisters a change listener.
func (t *Tracker) RemoveListener(l ports.TrackerListener) { t.subject.RemoveListener(l) }

// Start spins up the worker, the notifier, and the scanner, and performs
// an initial reconciliation so callers see current data immediately.
func (t *Tracker) Start() {
	t.lifeMu.Lock()
	if t.running {
		t.lifeMu.Unlock()
		return
	}
	t.running = true
	t.events = make(chan func(), 1024)
	t.done = make(chan struct{})
	t.subject.Start()

	t.wg.Add(1)
	go t.run()
	t.lifeMu.Unlock()

	t.post(func() {
		t.handleConfiguredNetworksChanged()
		t.handleScanResults()
		t.scanner.Start()
	})
	slog.Info("tracker started", "scan_interval", t.opts.ScanInterval, "max_scan_age", t.opts.MaxScanAge)
}

// Stop halts the scanner and the worker. Caches are retained so a restart
// republishes immediately; the scanner will not scan again until the next
// radio-enabled transition.
func (t *Tracker) Stop() {
	t.lifeMu.Lock()
	if !t.running {
		t.lifeMu.Unlock()
		return
	}
	t.running = false
	events, done := t.events, t.done
	t.lifeMu.Unlock()

	// Let the scanner cancel its pending request on the worker before the
	// worker goes away.
	stopped := make(chan struct{})
	select {
	case events <- func() { t.scanner.Stop(); close(stopped) }:
		<-stopped
	case <-done:
	}

	t.lifeMu.Lock()
	close(t.done)
	t.events = nil
	t.lifeMu.Unlock()

	t.wg.Wait()
	t.subject.Stop()
	slog.Info("tracker stopped")
}

func (t *Tracker) run() {
	defer t.wg.Done()
	for {
		select {
		case <-t.done:
			return
		case f := <-t.events:
			f()
		}
	}
}

// post marshals f onto the worker goroutine. Events arriving after Stop
// are dropped; post reports whether f was accepted.
func (t *Tracker) post(f func()) bool {
	t.lifeMu.Lock()
	events, done := t.events, t.done
	t.lifeMu.Unlock()
	if events == nil {
		return false
	}
	select {
	case events <- f:
		return true
	case <-done:
		return false
	}
}

// ActiveEntries returns the currently connected/connecting entries,
// primary first. Safe from any goroutine.
func (t *Tracker) ActiveEntries() []entries.Entry {
	t.snapMu.Lock()
	defer t.snapMu.Unlock()
	out := make([]entries.Entry, len(t.active))
	copy(out, t.active)
	return out
}

// OtherEntries returns the remaining visible entries in display order.
func (t *Tracker) OtherEntries() []entries.Entry {
	t.snapMu.Lock()
	defer t.snapMu.Unlock()
	out := make([]entries.Entry, len(t.other))
	copy(out, t.other)
	return out
}

// SavedCount returns the number of saved network identities.
func (t *Tracker) SavedCount() int {
	t.snapMu.Lock()
	defer t.snapMu.Unlock()
	return t.savedCount
}

// SubscriptionCount returns the number of live passpoint subscriptions.
func (t *Tracker) SubscriptionCount() int {
	t.snapMu.Lock()
	defer t.snapMu.Unlock()
	return t.subscriptionCount
}

// FindEntry resolves a canonical key string to a live entry.
func (t *Tracker) FindEntry(key string) (entries.Entry, bool) {
	var found entries.Entry
	var ok bool
	t.sync(func() {
		for _, e := range t.allEntries() {
			if e.Key() == key {
				found, ok = e, true
				return
			}
		}
	})
	return found, ok
}

// sync runs f on the worker and waits for it. Used by call-style APIs that
// need a consistent view. A no-op when the tracker is stopped.
func (t *Tracker) sync(f func()) {
	ch := make(chan struct{})
	if !t.post(func() {
		f()
		close(ch)
	}) {
		return
	}
	<-ch
}

// --- event entry points, callable from any goroutine -------------------

// OnScanResultsAvailable tells the tracker fresh scan results are ready.
func (t *Tracker) OnScanResultsAvailable() {
	t.post(t.handleScanResults)
}

// OnConfiguredNetworksChanged tells the tracker the stored configurations
// changed.
func (t *Tracker) OnConfiguredNetworksChanged() {
	t.post(t.handleConfiguredNetworksChanged)
}

// OnCapabilitiesChanged delivers a live connection capability snapshot.
func (t *Tracker) OnCapabilitiesChanged(cap domain.Capabilities) {
	t.post(func() { t.handleCapabilitiesChanged(cap) })
}

// OnNetworkLost reports a platform connection going away.
func (t *Tracker) OnNetworkLost(handle domain.NetworkHandle) {
	t.post(func() { t.handleNetworkLost(handle) })
}

// OnDefaultDataSubscriptionChanged swaps the merged-carrier entry for the
// new subscription. A negative id removes it.
func (t *Tracker) OnDefaultDataSubscriptionChanged(subscriptionID int) {
	t.post(func() { t.handleDefaultSubscriptionChanged(subscriptionID) })
}

// OnRadioEnabledChanged reports the Wi-Fi radio turning on or off. Turning
// it off clears all scan-derived state.
func (t *Tracker) OnRadioEnabledChanged(enabled bool) {
	t.post(func() { t.handleRadioEnabledChanged(enabled) })
}

// OnKnownNetworksUpdated replaces the companion known-network set.
func (t *Tracker) OnKnownNetworksUpdated(records []domain.KnownNetworkRecord) {
	t.post(func() { t.handleKnownNetworksUpdated(records) })
}

// OnHotspotNetworksUpdated replaces the companion hotspot set.
func (t *Tracker) OnHotspotNetworksUpdated(records []domain.HotspotNetworkRecord) {
	t.post(func() { t.handleHotspotNetworksUpdated(records) })
}

// OnHotspotStatusChanged delivers a companion connection-status event for
// one hotspot device.
func (t *Tracker) OnHotspotStatusChanged(deviceID int64, status domain.ConnectStatus) {
	t.post(func() { t.handleHotspotStatusChanged(deviceID, status) })
}

// OnCompanionServiceDisconnected clears every companion-sourced cache.
func (t *Tracker) OnCompanionServiceDisconnected() {
	t.post(func() {
		t.handleKnownNetworksUpdated(nil)
		t.handleHotspotNetworksUpdated(nil)
	})
}
