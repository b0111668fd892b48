package domain

import "time"

// ScanObservation is one raw over-the-air sighting of a BSS.
type ScanObservation struct {
	SSID         string    `json:"ssid"`
	BSSID        string    `json:"bssid"`
	Capabilities string    `json:"capabilities"`
	Timestamp    time.Time `json:"timestamp"`
	RSSI         int       `json:"rssi"`
	Frequency    int       `json:"freq,omitempty"`
}

// Key returns the scan identity of the observation.
func (o ScanObservation) Key() ScanResultKey {
	return NewScanResultKey(o.SSID, o.Capabilities)
}

// NetworkConfig is a locally stored network configuration. The boolean
// flags discriminate which source owns it.
type NetworkConfig struct {
	SSID      string       `json:"ssid"`
	Security  SecurityType `json:"security"`
	NetworkID int          `json:"network_id"`

	Saved          bool `json:"saved"`
	Suggestion     bool `json:"suggestion"`
	Ephemeral      bool `json:"ephemeral"`
	NetworkRequest bool `json:"network_request"`
	Passpoint      bool `json:"passpoint"`

	// Suggestion metadata
	SuggestorPackage string `json:"suggestor_package,omitempty"`
	UserShareable    bool   `json:"user_shareable,omitempty"`

	// Passpoint linkage
	PasspointUniqueID string `json:"passpoint_unique_id,omitempty"`

	// TargetNew marks configs created for "connect to new network" flows.
	TargetNew bool `json:"target_new,omitempty"`
}

// PasspointProfile is an installed enterprise roaming profile.
type PasspointProfile struct {
	UniqueID     string `json:"unique_id"`
	FriendlyName string `json:"friendly_name"`
	FQDN         string `json:"fqdn"`
	Subscription bool   `json:"subscription"` // live subscription, not suggestion-provisioned
	Suggestion   bool   `json:"suggestion"`
}

// PasspointMatch couples a provider (or OSU provider) with the current
// observations its ANQP matching resolved. Produced by the provider
// matching collaborator, never by SSID comparison.
type PasspointMatch struct {
	UniqueID     string
	FriendlyName string
	IsOsu        bool
	// OSU providers already provisioned into a passpoint profile are
	// suppressed from the other-visible list.
	OsuProvisioned bool
	Observations   []ScanObservation
}

// NetworkHandle identifies one live platform connection.
type NetworkHandle int64

// Capabilities is a live connection/capability snapshot for one handle.
type Capabilities struct {
	Handle        NetworkHandle `json:"handle"`
	SSID          string        `json:"ssid"`
	Security      SecurityType  `json:"security"`
	NetworkID     int           `json:"network_id"`
	Primary       bool          `json:"primary"`
	OEM           bool          `json:"oem"`
	Validated     bool          `json:"validated"`
	CaptivePortal bool          `json:"captive_portal"`
}

// KnownNetworkRecord is a network a nearby companion device has saved and
// shared with us.
type KnownNetworkRecord struct {
	SSID       string       `json:"ssid"`
	Security   SecurityType `json:"security"`
	DeviceName string       `json:"device_name"`
	DeviceID   int64        `json:"device_id"`
}

// EntryKey returns the identity this record occupies in the entry caches.
func (r KnownNetworkRecord) EntryKey() EntryKey {
	return EntryKey{
		Scan:     ScanResultKey{SSID: r.SSID, Family: FamilyOf(r.Security)},
		Resolved: r.Security,
	}
}

// HotspotNetworkType is the upstream transport a remote hotspot would use.
type HotspotNetworkType string

const (
	HotspotUpstreamCellular HotspotNetworkType = "cellular"
	HotspotUpstreamWifi     HotspotNetworkType = "wifi"
	HotspotUpstreamEthernet HotspotNetworkType = "ethernet"
)

// HotspotNetworkRecord is an instant-hotspot candidate published by the
// companion service, keyed by the remote device, not by a network.
type HotspotNetworkRecord struct {
	DeviceID       int64              `json:"device_id"`
	SSID           string             `json:"ssid"`
	Security       SecurityType       `json:"security"`
	DeviceName     string             `json:"device_name"`
	ModelName      string             `json:"model_name"`
	Upstream       HotspotNetworkType `json:"upstream"`
	Virtual        bool               `json:"virtual"` // not yet broadcasting
	BatteryPercent int                `json:"battery_percent"`
}

// EntryKey returns the scan-identity the hotspot occupies once it (or an
// equivalent plain network) is actually broadcasting.
func (r HotspotNetworkRecord) EntryKey() EntryKey {
	return EntryKey{
		Scan:     ScanResultKey{SSID: r.SSID, Family: FamilyOf(r.Security)},
		Resolved: r.Security,
	}
}

// ConnectStatus is the typed result channel for connect/disconnect
// requests. Failures are values, never panics.
type ConnectStatus int

const (
	ConnectStatusSuccess ConnectStatus = iota
	ConnectStatusFailureUnknown
	ConnectStatusFailureNoConfig
	ConnectStatusFailureSimAbsent
	ConnectStatusFailureNotReachable
)

var connectStatusNames = map[ConnectStatus]string{
	ConnectStatusSuccess:             "SUCCESS",
	ConnectStatusFailureUnknown:      "FAILURE_UNKNOWN",
	ConnectStatusFailureNoConfig:     "FAILURE_NO_CONFIG",
	ConnectStatusFailureSimAbsent:    "FAILURE_SIM_ABSENT",
	ConnectStatusFailureNotReachable: "FAILURE_NOT_REACHABLE",
}

func (s ConnectStatus) String() string {
	if n, ok := connectStatusNames[s]; ok {
		return n
	}
	return "FAILURE_UNKNOWN"
}

// ChangeReason tells the listener why the snapshots were republished.
type ChangeReason int

const (
	ReasonGeneral ChangeReason = iota
	ReasonScanResults
)

func (r ChangeReason) String() string {
	if r == ReasonScanResults {
		return "SCAN_RESULTS"
	}
	return "GENERAL"
}

// Sighting is one row of the persisted visibility history.
type Sighting struct {
	EntryKey  string    `json:"entry_key"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Level     int       `json:"level"`
	Connected bool      `json:"connected"`
	SeenAt    time.Time `json:"seen_at"`
}
