package entries

import (
	"fmt"

	"github.com/lcalzada-xor/wifitrack/internal/core/domain"
)

// NetworkRequestEntry represents an app-initiated ephemeral connection. At
// most one exists at a time; it is replaced when the backing request
// configuration's network id changes.
type NetworkRequestEntry struct {
	baseEntry
	key    domain.EntryKey
	config *domain.NetworkConfig
}

// NewNetworkRequestEntry creates an entry for a network-request config.
func NewNetworkRequestEntry(key domain.EntryKey, cfg *domain.NetworkConfig) *NetworkRequestEntry {
	return &NetworkRequestEntry{
		baseEntry: newBaseEntry(),
		key:       key,
		config:    cfg,
	}
}

func (e *NetworkRequestEntry) Key() string { return "req:" + e.key.String() }

// EntryKey is the scan identity of the requested network.
func (e *NetworkRequestEntry) EntryKey() domain.EntryKey { return e.key }

func (e *NetworkRequestEntry) Kind() Kind { return KindNetworkRequest }

func (e *NetworkRequestEntry) Title() string { return e.key.Scan.SSID }

func (e *NetworkRequestEntry) SecurityTypes() []domain.SecurityType {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.config != nil {
		return []domain.SecurityType{e.config.Security}
	}
	return domain.FamilyTypes(e.key.Scan.Family)
}

func (e *NetworkRequestEntry) IsSaved() bool        { return false }
func (e *NetworkRequestEntry) IsSuggestion() bool   { return false }
func (e *NetworkRequestEntry) IsSubscription() bool { return false }

// NetworkID returns the backing request config's network id, or -1 when
// the config has been withdrawn.
func (e *NetworkRequestEntry) NetworkID() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.config == nil {
		return -1
	}
	return e.config.NetworkID
}

// UpdateConfig swaps the backing request config. A nil config with no live
// connection makes the entry eligible for destruction.
func (e *NetworkRequestEntry) UpdateConfig(cfg *domain.NetworkConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.config = cfg
}

// HasAssociation reports whether anything still ties the entry to the
// system: a backing config or a live connection.
func (e *NetworkRequestEntry) HasAssociation() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config != nil || e.state != StateDisconnected
}

// UpdateScanInfo replaces the matched observation group.
func (e *NetworkRequestEntry) UpdateScanInfo(obs []domain.ScanObservation) error {
	for _, o := range obs {
		if o.Key() != e.key.Scan {
			return fmt.Errorf("scan observation %q/%s does not match request entry %s", o.SSID, o.Key().Family, e.key)
		}
	}
	e.updateScanDerived(obs)
	return nil
}

// Matches reports whether a capability snapshot resolves to the requested
// network.
func (e *NetworkRequestEntry) Matches(cap domain.Capabilities) bool {
	if cap.SSID != e.key.Scan.SSID || domain.FamilyOf(cap.Security) != e.key.Scan.Family {
		return false
	}
	return cap.NetworkID == e.NetworkID()
}

// ApplyCapabilities mirrors StandardEntry.ApplyCapabilities.
func (e *NetworkRequestEntry) ApplyCapabilities(cap domain.Capabilities, now timeNow) bool {
	if e.Matches(cap) && cap.Primary {
		e.setConnected(cap.Handle, true, now())
		return true
	}
	if e.Handle() == cap.Handle && e.ConnectionState() != StateDisconnected {
		e.setDisconnected()
	}
	return false
}

// NetworkLost drops the entry if it was riding the lost handle.
func (e *NetworkRequestEntry) NetworkLost(handle domain.NetworkHandle) {
	if e.Handle() == handle && e.ConnectionState() != StateDisconnected {
		e.setDisconnected()
	}
}
