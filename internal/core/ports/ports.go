package ports

import (
	"context"
	"time"

	"github.com/lcalzada-xor/wifitrack/internal/core/domain"
)

// ScanProvider abstracts the platform radio. Results are an in-memory
// snapshot of the freshest known observations; RequestScan is asynchronous
// and reports completion through the callback exactly once.
type ScanProvider interface {
	ScanResults() []domain.ScanObservation
	RequestScan(ctx context.Context, done func(success bool))
}

// ConfigProvider supplies locally stored configurations and passpoint
// material. MatchPasspointProviders is the ANQP provider-matching API;
// passpoint entries are never matched by raw SSID.
type ConfigProvider interface {
	Configurations() []domain.NetworkConfig
	PasspointProfiles() []domain.PasspointProfile
	MatchPasspointProviders(obs []domain.ScanObservation) []domain.PasspointMatch
}

// ConnectionProvider carries out connect/disconnect requests against the
// platform for configuration-backed networks.
type ConnectionProvider interface {
	ConnectNetwork(ctx context.Context, networkID int) error
	DisconnectNetwork(ctx context.Context, networkID int) error
}

// CompanionService is the remote companion-device client. Terminal status
// is delivered through the callback; a nil service is represented by the
// caller as an asynchronous FAILURE_UNKNOWN.
type CompanionService interface {
	ConnectHotspot(record domain.HotspotNetworkRecord, done func(domain.ConnectStatus))
	DisconnectHotspot(record domain.HotspotNetworkRecord, done func(domain.ConnectStatus))
}

// CaptivePortalLauncher opens the sign-in flow for a captive network. The
// tracker guarantees at most one launch per user-initiated connect.
type CaptivePortalLauncher interface {
	LaunchSignIn(networkID int)
}

// TrackerListener receives change notifications from the tracker. Delivery
// is asynchronous and FIFO per listener.
type TrackerListener interface {
	OnEntriesChanged(reason domain.ChangeReason)
	OnSavedCountChanged(count int)
	OnSubscriptionCountChanged(count int)
}

// SightingStore persists the visibility history.
type SightingStore interface {
	SaveSightingsBatch(sightings []domain.Sighting) error
	RecentSightings(limit int) ([]domain.Sighting, error)
	LastSeen(entryKey string) (time.Time, bool, error)
	Close() error
}

// Clock abstracts time for age-window eviction tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is the cancellable handle returned by Clock.AfterFunc.
type Timer interface {
	Stop() bool
}
