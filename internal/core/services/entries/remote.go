package entries

import (
	"fmt"
	"sync"

	"github.com/lcalzada-xor/wifitrack/internal/core/domain"
)

// KnownNetworkEntry is a network a nearby companion device has saved and
// shared. It carries the same scan identity as a standard entry and takes
// display priority over an unsaved one with the same key.
type KnownNetworkEntry struct {
	baseEntry
	key    domain.EntryKey
	record domain.KnownNetworkRecord
	recMu  sync.RWMutex
}

// NewKnownNetworkEntry creates an entry for a shared record.
func NewKnownNetworkEntry(record domain.KnownNetworkRecord) *KnownNetworkEntry {
	return &KnownNetworkEntry{
		baseEntry: newBaseEntry(),
		key:       record.EntryKey(),
		record:    record,
	}
}

func (e *KnownNetworkEntry) Key() string { return "known:" + e.key.String() }

// EntryKey is the scan identity shared with standard entries.
func (e *KnownNetworkEntry) EntryKey() domain.EntryKey { return e.key }

func (e *KnownNetworkEntry) Kind() Kind { return KindKnownNetwork }

func (e *KnownNetworkEntry) Title() string { return e.key.Scan.SSID }

// SourceDeviceName names the companion device that shared the network.
func (e *KnownNetworkEntry) SourceDeviceName() string {
	e.recMu.RLock()
	defer e.recMu.RUnlock()
	return e.record.DeviceName
}

func (e *KnownNetworkEntry) SecurityTypes() []domain.SecurityType {
	e.recMu.RLock()
	defer e.recMu.RUnlock()
	return []domain.SecurityType{e.record.Security}
}

func (e *KnownNetworkEntry) IsSaved() bool        { return false }
func (e *KnownNetworkEntry) IsSuggestion() bool   { return false }
func (e *KnownNetworkEntry) IsSubscription() bool { return false }

// UpdateRecord refreshes the shared record in place.
func (e *KnownNetworkEntry) UpdateRecord(record domain.KnownNetworkRecord) {
	e.recMu.Lock()
	defer e.recMu.Unlock()
	e.record = record
}

// Record returns the current shared record.
func (e *KnownNetworkEntry) Record() domain.KnownNetworkRecord {
	e.recMu.RLock()
	defer e.recMu.RUnlock()
	return e.record
}

// UpdateScanInfo replaces the matched observation group.
func (e *KnownNetworkEntry) UpdateScanInfo(obs []domain.ScanObservation) error {
	for _, o := range obs {
		if o.Key() != e.key.Scan {
			return fmt.Errorf("scan observation %q/%s does not match known entry %s", o.SSID, o.Key().Family, e.key)
		}
	}
	e.updateScanDerived(obs)
	return nil
}

// HotspotNetworkEntry is an instant-hotspot candidate published by the
// companion service. Identity is the remote device id; a virtual entry is
// available but not yet broadcasting.
type HotspotNetworkEntry struct {
	baseEntry
	record domain.HotspotNetworkRecord
	recMu  sync.RWMutex
}

// NewHotspotNetworkEntry creates an entry for a hotspot record. Hotspot
// reachability comes from the companion link, not from scans, so the entry
// starts at full level.
func NewHotspotNetworkEntry(record domain.HotspotNetworkRecord) *HotspotNetworkEntry {
	e := &HotspotNetworkEntry{
		baseEntry: newBaseEntry(),
		record:    record,
	}
	e.mu.Lock()
	e.level = domain.LevelMax
	e.mu.Unlock()
	return e
}

func (e *HotspotNetworkEntry) Key() string {
	e.recMu.RLock()
	defer e.recMu.RUnlock()
	return fmt.Sprintf("hotspot:%d", e.record.DeviceID)
}

// ScanKey is the scan identity the hotspot would occupy when broadcasting;
// standard entries with this key are suppressed from display.
func (e *HotspotNetworkEntry) ScanKey() domain.EntryKey {
	e.recMu.RLock()
	defer e.recMu.RUnlock()
	return e.record.EntryKey()
}

func (e *HotspotNetworkEntry) Kind() Kind { return KindHotspotNetwork }

func (e *HotspotNetworkEntry) Title() string {
	e.recMu.RLock()
	defer e.recMu.RUnlock()
	if e.record.DeviceName != "" {
		return e.record.DeviceName
	}
	return e.record.SSID
}

func (e *HotspotNetworkEntry) SecurityTypes() []domain.SecurityType {
	e.recMu.RLock()
	defer e.recMu.RUnlock()
	return []domain.SecurityType{e.record.Security}
}

func (e *HotspotNetworkEntry) IsSaved() bool        { return false }
func (e *HotspotNetworkEntry) IsSuggestion() bool   { return false }
func (e *HotspotNetworkEntry) IsSubscription() bool { return false }

// IsVirtual reports whether the hotspot is available but not broadcasting.
func (e *HotspotNetworkEntry) IsVirtual() bool {
	e.recMu.RLock()
	defer e.recMu.RUnlock()
	return e.record.Virtual
}

// Record returns the current companion record.
func (e *HotspotNetworkEntry) Record() domain.HotspotNetworkRecord {
	e.recMu.RLock()
	defer e.recMu.RUnlock()
	return e.record
}

// UpdateRecord refreshes the companion record in place.
func (e *HotspotNetworkEntry) UpdateRecord(record domain.HotspotNetworkRecord) {
	e.recMu.Lock()
	defer e.recMu.Unlock()
	e.record = record
}

// SetConnecting marks the entry while a companion connect is in flight.
func (e *HotspotNetworkEntry) SetConnecting() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateDisconnected {
		e.state = StateConnecting
	}
}

// Matches reports whether a capability snapshot resolves to the hotspot's
// broadcast identity.
func (e *HotspotNetworkEntry) Matches(cap domain.Capabilities) bool {
	k := e.ScanKey()
	return cap.SSID == k.Scan.SSID && domain.FamilyOf(cap.Security) == k.Scan.Family
}

// ApplyCapabilities connects the hotspot entry when the broadcast identity
// goes primary.
func (e *HotspotNetworkEntry) ApplyCapabilities(cap domain.Capabilities, now timeNow) bool {
	if e.Matches(cap) && cap.Primary {
		e.setConnected(cap.Handle, true, now())
		return true
	}
	if e.Handle() == cap.Handle && e.ConnectionState() == StateConnected {
		e.setDisconnected()
	}
	return false
}

// NetworkLost drops the entry if it was riding the lost handle.
func (e *HotspotNetworkEntry) NetworkLost(handle domain.NetworkHandle) {
	if e.Handle() == handle && e.ConnectionState() != StateDisconnected {
		e.setDisconnected()
	}
}
