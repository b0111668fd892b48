package entries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/wifitrack/internal/core/domain"
)

func TestKnownNetworkEntry_Identity(t *testing.T) {
	rec := domain.KnownNetworkRecord{SSID: "Apartment", Security: domain.SecurityPSK, DeviceName: "TV", DeviceID: 9}
	e := NewKnownNetworkEntry(rec)

	assert.Equal(t, "known:cur:Apartment,PERSONAL", e.Key())
	assert.Equal(t, KindKnownNetwork, e.Kind())
	assert.Equal(t, "Apartment", e.Title())
	assert.Equal(t, "TV", e.SourceDeviceName())
	assert.Equal(t, domain.LevelUnreachable, e.Level())

	// The underlying scan identity matches a plain scan of the same SSID.
	scanKey := domain.KeyForScan(domain.NewScanResultKey("Apartment", "[WPA2-PSK-CCMP][ESS]"), false)
	assert.True(t, e.EntryKey().Equal(scanKey))
}

func TestKnownNetworkEntry_ScanUpdates(t *testing.T) {
	e := NewKnownNetworkEntry(domain.KnownNetworkRecord{SSID: "Apartment", Security: domain.SecurityPSK})

	require.NoError(t, e.UpdateScanInfo([]domain.ScanObservation{{
		SSID: "Apartment", Capabilities: "[WPA2-PSK-CCMP][ESS]", RSSI: -60, Timestamp: time.Now(),
	}}))
	assert.Equal(t, 3, e.Level())

	err := e.UpdateScanInfo([]domain.ScanObservation{{
		SSID: "Elsewhere", Capabilities: "[WPA2-PSK-CCMP][ESS]", RSSI: -60, Timestamp: time.Now(),
	}})
	assert.Error(t, err)
}

func TestHotspotNetworkEntry_StartsAtFullLevel(t *testing.T) {
	e := NewHotspotNetworkEntry(domain.HotspotNetworkRecord{
		DeviceID: 4, SSID: "Pixel", Security: domain.SecuritySAE, DeviceName: "Pixel 7", Virtual: true,
	})

	// Reachability comes from the companion link, not from scans.
	assert.Equal(t, domain.LevelMax, e.Level())
	assert.Equal(t, "hotspot:4", e.Key())
	assert.True(t, e.IsVirtual())
	assert.Equal(t, "Pixel 7", e.Title())
}

func TestHotspotNetworkEntry_SetConnecting(t *testing.T) {
	e := NewHotspotNetworkEntry(domain.HotspotNetworkRecord{DeviceID: 4, SSID: "Pixel", Security: domain.SecuritySAE})

	e.SetConnecting()
	assert.Equal(t, StateConnecting, e.ConnectionState())

	cap := domain.Capabilities{Handle: 11, SSID: "Pixel", Security: domain.SecuritySAE, Primary: true}
	require.True(t, e.ApplyCapabilities(cap, time.Now))
	assert.Equal(t, StateConnected, e.ConnectionState())

	// SetConnecting never demotes an established connection.
	e.SetConnecting()
	assert.Equal(t, StateConnected, e.ConnectionState())
}

func TestNetworkRequestEntry_Association(t *testing.T) {
	key := domain.KeyForScan(domain.ScanResultKey{SSID: "AppNet", Family: domain.FamilyPersonal}, false)
	cfg := &domain.NetworkConfig{SSID: "AppNet", Security: domain.SecurityPSK, NetworkID: 42, NetworkRequest: true}
	e := NewNetworkRequestEntry(key, cfg)

	assert.Equal(t, "req:cur:AppNet,PERSONAL", e.Key())
	assert.Equal(t, 42, e.NetworkID())
	assert.True(t, e.HasAssociation())

	e.UpdateConfig(nil)
	assert.Equal(t, -1, e.NetworkID())
	assert.False(t, e.HasAssociation())

	// A live connection keeps the association alive without a config.
	e.UpdateConfig(cfg)
	cap := domain.Capabilities{Handle: 3, SSID: "AppNet", Security: domain.SecurityPSK, NetworkID: 42, Primary: true}
	require.True(t, e.ApplyCapabilities(cap, time.Now))
	e.UpdateConfig(nil)
	assert.True(t, e.HasAssociation())
	e.NetworkLost(3)
	assert.False(t, e.HasAssociation())
}

func TestMergedCarrierEntry(t *testing.T) {
	e := NewMergedCarrierEntry(7)

	assert.Equal(t, "carrier:7", e.Key())
	assert.True(t, e.IsSubscription())
	assert.Equal(t, "Mobile data", e.Title())

	// Only an OEM primary capability connects it.
	assert.False(t, e.ApplyCapabilities(domain.Capabilities{Handle: 1, Primary: true}, time.Now))
	assert.True(t, e.ApplyCapabilities(domain.Capabilities{Handle: 1, Primary: true, OEM: true}, time.Now))
	assert.Equal(t, domain.LevelMax, e.Level())

	e.NetworkLost(1)
	assert.Equal(t, StateDisconnected, e.ConnectionState())
}

func TestOsuEntry_Provisioning(t *testing.T) {
	e := NewOsuEntry("osu-1", "Cafe Operator")

	assert.Equal(t, "osu:osu-1", e.Key())
	assert.Equal(t, "Cafe Operator", e.Title())
	assert.False(t, e.IsProvisioned())

	e.SetProvisioned(true)
	assert.True(t, e.IsProvisioned())
}

func TestPasspointEntry_ProfileFlags(t *testing.T) {
	e := NewPasspointEntry("pp-1", "Operator")
	assert.Equal(t, "pp:pp-1", e.Key())
	assert.False(t, e.IsSubscription())
	assert.Equal(t, -1, e.FirstNetworkID())

	e.UpdateProfile(&domain.PasspointProfile{UniqueID: "pp-1", FriendlyName: "Operator Wi-Fi", Subscription: true})
	assert.True(t, e.IsSubscription())
	assert.Equal(t, "Operator Wi-Fi", e.Title())

	e.UpdateConfigs([]*domain.NetworkConfig{{SSID: "op", Security: domain.SecurityEAP, NetworkID: 12, Passpoint: true}})
	assert.Equal(t, 12, e.FirstNetworkID())
	assert.True(t, e.Matches(domain.Capabilities{NetworkID: 12}))
	assert.False(t, e.Matches(domain.Capabilities{NetworkID: 13}))
}
