// Package mock simulates the platform surface (scans, configs,
// connections, companion devices) so the tracker can run without real
// wireless hardware.
package mock

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lcalzada-xor/wifitrack/internal/core/domain"
	"github.com/lcalzada-xor/wifitrack/internal/core/services/tracker"
)

// mockNetwork is one simulated access point.
type mockNetwork struct {
	SSID         string
	BSSID        string
	Capabilities string
	Security     domain.SecurityType
	BaseRSSI     int
	Frequency    int
	NetworkID    int // -1 when no local config exists
	Saved        bool
	Suggestion   bool
}

var simulatedNetworks = []mockNetwork{
	{SSID: "HomeNetwork", BSSID: "50:C7:BF:11:22:33", Capabilities: "[WPA2-PSK-CCMP][ESS]", Security: domain.SecurityPSK, BaseRSSI: -48, Frequency: 5180, NetworkID: 1, Saved: true},
	{SSID: "NETGEAR-5G", BSSID: "A0:63:91:44:55:66", Capabilities: "[WPA3-SAE-CCMP][ESS]", Security: domain.SecuritySAE, BaseRSSI: -62, Frequency: 5745, NetworkID: -1},
	{SSID: "Starbucks WiFi", BSSID: "00:1E:BD:77:88:99", Capabilities: "[ESS]", Security: domain.SecurityOpen, BaseRSSI: -71, Frequency: 2437, NetworkID: -1},
	{SSID: "Office-Network", BSSID: "00:13:02:AA:BB:CC", Capabilities: "[WPA2-EAP-CCMP][ESS]", Security: domain.SecurityEAP, BaseRSSI: -58, Frequency: 5220, NetworkID: 2, Saved: true},
	{SSID: "CoffeeShop_Free", BSSID: "F4:F5:D8:DD:EE:FF", Capabilities: "[WPA2-PSK-CCMP][ESS]", Security: domain.SecurityPSK, BaseRSSI: -80, Frequency: 2412, NetworkID: 3, Suggestion: true},
	{SSID: "Hotel-Guest", BSSID: "00:17:9A:01:02:03", Capabilities: "[ESS]", Security: domain.SecurityOpen, BaseRSSI: -84, Frequency: 2462, NetworkID: -1},
}

const passpointSSID = "Airport_WiFi"

// Platform simulates every provider port the tracker consumes.
type Platform struct {
	mu        sync.Mutex
	rnd       *rand.Rand
	tracker   *tracker.Tracker
	handleSeq int64
	connected map[int]domain.NetworkHandle // networkID -> live handle
	scanFails uint32
}

// NewPlatform creates a simulated platform with a fixed seed so runs are
// reproducible.
func NewPlatform() *Platform {
	return &Platform{
		rnd:       rand.New(rand.NewSource(42)),
		connected: make(map[int]domain.NetworkHandle),
	}
}

// Attach binds the platform to a tracker so connection events can be
// delivered. Must be called before Seed or any connect flow.
func (p *Platform) Attach(t *tracker.Tracker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tracker = t
}

// Seed pushes the companion-device state a freshly started app would
// receive.
func (p *Platform) Seed() {
	t := p.trackerRef()
	if t == nil {
		return
	}
	t.OnKnownNetworksUpdated([]domain.KnownNetworkRecord{
		{SSID: "Apartment_5G", Security: domain.SecurityPSK, DeviceName: "Living Room TV", DeviceID: 101},
	})
	t.OnHotspotNetworksUpdated([]domain.HotspotNetworkRecord{
		{
			DeviceID:       201,
			SSID:           "Pixel 7",
			Security:       domain.SecuritySAE,
			DeviceName:     "Pixel 7",
			ModelName:      "Google Pixel 7",
			Upstream:       domain.HotspotUpstreamCellular,
			Virtual:        true,
			BatteryPercent: 64,
		},
	})
}

// ScanResults returns the current simulated environment with jittered
// signal levels.
func (p *Platform) ScanResults() []domain.ScanObservation {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	obs := make([]domain.ScanObservation, 0, len(simulatedNetworks)+1)
	for _, n := range simulatedNetworks {
		obs = append(obs, domain.ScanObservation{
			SSID:         n.SSID,
			BSSID:        n.BSSID,
			Capabilities: n.Capabilities,
			Timestamp:    now,
			RSSI:         n.BaseRSSI + p.rnd.Intn(11) - 5,
			Frequency:    n.Frequency,
		})
	}
	obs = append(obs, domain.ScanObservation{
		SSID:         passpointSSID,
		BSSID:        "34:CE:00:10:20:30",
		Capabilities: "[WPA2-EAP-CCMP][ESS]",
		Timestamp:    now,
		RSSI:         -67 + p.rnd.Intn(7) - 3,
		Frequency:    5500,
	})
	return obs
}

// RequestScan simulates an asynchronous platform scan. Roughly one in
// ten scans fails, exercising the stale-window extension.
func (p *Platform) RequestScan(ctx context.Context, done func(success bool)) {
	p.mu.Lock()
	fail := p.rnd.Intn(10) == 0
	p.mu.Unlock()

	// Cancellation is checked when the timer fires; a blocking watcher
	// goroutine would outlive every request made with a background context.
	time.AfterFunc(300*time.Millisecond, func() {
		if ctx.Err() != nil {
			done(false)
			return
		}
		if fail {
			atomic.AddUint32(&p.scanFails, 1)
			slog.Debug("mock scan failed")
		}
		done(!fail)
	})
}

// Configurations returns the locally stored configs.
func (p *Platform) Configurations() []domain.NetworkConfig {
	var configs []domain.NetworkConfig
	for _, n := range simulatedNetworks {
		if n.NetworkID < 0 {
			continue
		}
		cfg := domain.NetworkConfig{
			SSID:      n.SSID,
			Security:  n.Security,
			NetworkID: n.NetworkID,
			Saved:     n.Saved,
		}
		if n.Suggestion {
			cfg.Suggestion = true
			cfg.SuggestorPackage = "com.example.coffeeapp"
			cfg.UserShareable = true
		}
		configs = append(configs, cfg)
	}
	configs = append(configs, domain.NetworkConfig{
		SSID:              passpointSSID,
		Security:          domain.SecurityEAP,
		NetworkID:         10,
		Passpoint:         true,
		PasspointUniqueID: "pp-airport",
	})
	return configs
}

// PasspointProfiles returns the installed passpoint profiles.
func (p *Platform) PasspointProfiles() []domain.PasspointProfile {
	return []domain.PasspointProfile{
		{
			UniqueID:     "pp-airport",
			FriendlyName: "Airport Operator",
			FQDN:         "wifi.airport.example",
			Subscription: true,
		},
	}
}

// MatchPasspointProviders resolves which observations belong to installed
// passpoint providers.
func (p *Platform) MatchPasspointProviders(obs []domain.ScanObservation) []domain.PasspointMatch {
	var matched []domain.ScanObservation
	for _, o := range obs {
		if o.SSID == passpointSSID {
			matched = append(matched, o)
		}
	}
	if len(matched) == 0 {
		return nil
	}
	return []domain.PasspointMatch{
		{
			UniqueID:     "pp-airport",
			FriendlyName: "Airport Operator",
			Observations: matched,
		},
	}
}

// ConnectNetwork simulates connecting to a configured network. The
// resulting capability events arrive asynchronously, like on a real
// platform.
func (p *Platform) ConnectNetwork(ctx context.Context, networkID int) error {
	var target *mockNetwork
	for i := range simulatedNetworks {
		if simulatedNetworks[i].NetworkID == networkID {
			target = &simulatedNetworks[i]
			break
		}
	}
	t := p.trackerRef()
	if target == nil || t == nil {
		return domain.ErrNoSuchNetwork
	}

	handle := domain.NetworkHandle(atomic.AddInt64(&p.handleSeq, 1))
	p.mu.Lock()
	p.connected[networkID] = handle
	p.mu.Unlock()

	cap := domain.Capabilities{
		Handle:    handle,
		SSID:      target.SSID,
		Security:  target.Security,
		NetworkID: networkID,
	}
	time.AfterFunc(200*time.Millisecond, func() {
		t.OnCapabilitiesChanged(cap)
		promoted := cap
		promoted.Primary = true
		promoted.Validated = true
		time.AfterFunc(300*time.Millisecond, func() {
			t.OnCapabilitiesChanged(promoted)
		})
	})
	return nil
}

// DisconnectNetwork simulates releasing the connection for a network.
func (p *Platform) DisconnectNetwork(ctx context.Context, networkID int) error {
	p.mu.Lock()
	handle, ok := p.connected[networkID]
	delete(p.connected, networkID)
	p.mu.Unlock()

	t := p.trackerRef()
	if !ok || t == nil {
		return nil
	}
	time.AfterFunc(100*time.Millisecond, func() {
		t.OnNetworkLost(handle)
	})
	return nil
}

// ConnectHotspot simulates asking the companion device to start its
// hotspot.
func (p *Platform) ConnectHotspot(record domain.HotspotNetworkRecord, done func(domain.ConnectStatus)) {
	t := p.trackerRef()
	time.AfterFunc(500*time.Millisecond, func() {
		done(domain.ConnectStatusSuccess)
		if t != nil {
			t.OnHotspotStatusChanged(record.DeviceID, domain.ConnectStatusSuccess)
		}
	})
}

// DisconnectHotspot simulates tearing the hotspot down.
func (p *Platform) DisconnectHotspot(record domain.HotspotNetworkRecord, done func(domain.ConnectStatus)) {
	slog.Info("mock hotspot disconnect", "device", record.DeviceName)
	time.AfterFunc(100*time.Millisecond, func() {
		done(domain.ConnectStatusSuccess)
	})
}

// LaunchSignIn logs instead of opening a captive portal UI.
func (p *Platform) LaunchSignIn(networkID int) {
	slog.Info("mock captive portal sign-in", "network_id", networkID)
}

func (p *Platform) trackerRef() *tracker.Tracker {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tracker
}
