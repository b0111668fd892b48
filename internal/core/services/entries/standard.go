package entries

import (
	"fmt"
	"sort"
	"time"

	"github.com/lcalzada-xor/wifitrack/internal/core/domain"
)

// StandardEntry is a plain scan-or-config backed network. The same type
// backs the suggested cache; the suggestion flag selects the variant tag.
type StandardEntry struct {
	baseEntry
	key        domain.EntryKey
	suggestion bool

	configs      []*domain.NetworkConfig
	observations []domain.ScanObservation

	// Secondary-capable entries may be CONNECTED without being primary.
	oemCapable bool

	// One-shot captive-portal launch, armed only by a user connect.
	signInArmed bool
}

// NewStandardEntry creates a disconnected, unreachable entry for a key.
func NewStandardEntry(key domain.EntryKey, suggestion bool) *StandardEntry {
	return &StandardEntry{
		baseEntry:  newBaseEntry(),
		key:        key,
		suggestion: suggestion,
	}
}

func (e *StandardEntry) Key() string { return e.key.String() }

func (e *StandardEntry) EntryKey() domain.EntryKey { return e.key }

func (e *StandardEntry) Kind() Kind {
	if e.suggestion {
		return KindSuggested
	}
	return KindStandard
}

func (e *StandardEntry) Title() string { return e.key.Scan.SSID }

// SecurityTypes is the full family until a configuration exists, then the
// configured subset in family order.
func (e *StandardEntry) SecurityTypes() []domain.SecurityType {
	e.mu.RLock()
	defer e.mu.RUnlock()
	all := domain.FamilyTypes(e.key.Scan.Family)
	if len(e.configs) == 0 {
		return all
	}
	configured := map[domain.SecurityType]bool{}
	for _, c := range e.configs {
		configured[c.Security] = true
	}
	var out []domain.SecurityType
	for _, t := range all {
		if configured[t] {
			out = append(out, t)
		}
	}
	return out
}

func (e *StandardEntry) IsSaved() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return !e.suggestion && len(e.configs) > 0
}

func (e *StandardEntry) IsSuggestion() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.suggestion && len(e.configs) > 0
}

func (e *StandardEntry) IsSubscription() bool { return false }

// IsUserShareable reports whether any backing suggestion allows the user
// to share or see this network in the picker.
func (e *StandardEntry) IsUserShareable() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, c := range e.configs {
		if c.UserShareable {
			return true
		}
	}
	return false
}

// UpdateScanInfo replaces the matched observation group. Observations with
// a different identity are a reconciler bug, not a runtime condition.
func (e *StandardEntry) UpdateScanInfo(obs []domain.ScanObservation) error {
	for _, o := range obs {
		if o.Key() != e.key.Scan {
			return fmt.Errorf("scan observation %q/%s does not match entry %s", o.SSID, o.Key().Family, e.key)
		}
	}
	e.mu.Lock()
	e.observations = obs
	e.mu.Unlock()
	e.updateScanDerived(obs)
	return nil
}

// UpdateConfigs replaces the backing configuration list in one step, so a
// reader never sees a transient unsaved state while configs churn.
func (e *StandardEntry) UpdateConfigs(cfgs []*domain.NetworkConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	sort.SliceStable(cfgs, func(i, j int) bool { return cfgs[i].Security < cfgs[j].Security })
	e.configs = cfgs
}

// HasConfig reports whether any backing config carries the network id.
func (e *StandardEntry) HasConfig(networkID int) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, c := range e.configs {
		if c.NetworkID == networkID {
			return true
		}
	}
	return false
}

// Configs returns the backing configuration list.
func (e *StandardEntry) Configs() []*domain.NetworkConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*domain.NetworkConfig, len(e.configs))
	copy(out, e.configs)
	return out
}

// SetOemCapable marks the entry as connectable on a secondary (non
// primary) network.
func (e *StandardEntry) SetOemCapable(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.oemCapable = v
}

// Matches reports whether a capability snapshot resolves to this entry's
// identity: SSID, security family, and a backing network id.
func (e *StandardEntry) Matches(cap domain.Capabilities) bool {
	if cap.SSID != e.key.Scan.SSID || domain.FamilyOf(cap.Security) != e.key.Scan.Family {
		return false
	}
	return e.HasConfig(cap.NetworkID)
}

// ApplyCapabilities dispatches one live capability snapshot. It returns
// true when the entry ends up connected through this handle. OEM snapshots
// connect as secondary, concurrent with a primary connection elsewhere.
func (e *StandardEntry) ApplyCapabilities(cap domain.Capabilities, now timeNow) bool {
	if e.Matches(cap) && (cap.Primary || cap.OEM || e.isOemCapable()) {
		e.setConnected(cap.Handle, cap.Primary, now())
		return true
	}
	// A snapshot for our current handle that no longer qualifies drops us.
	if e.Handle() == cap.Handle && e.ConnectionState() != StateDisconnected {
		e.setDisconnected()
	}
	return false
}

func (e *StandardEntry) isOemCapable() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.oemCapable
}

// NetworkLost drops the entry if it was riding the lost handle.
func (e *StandardEntry) NetworkLost(handle domain.NetworkHandle) {
	if e.Handle() == handle && e.ConnectionState() != StateDisconnected {
		e.setDisconnected()
	}
}

// ArmSignIn arms the one-shot captive-portal launch. Only a user-initiated
// connect arms it.
func (e *StandardEntry) ArmSignIn() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.signInArmed = true
}

// DisarmSignIn cancels a pending arm, e.g. when a newer connect supersedes
// the one that armed it.
func (e *StandardEntry) DisarmSignIn() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.signInArmed = false
}

// ConsumeSignIn reports whether a captive-portal signal should launch the
// sign-in flow now. It disarms on first fire so repeat capability updates
// cannot re-trigger it.
func (e *StandardEntry) ConsumeSignIn(cap domain.Capabilities) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.signInArmed || !cap.CaptivePortal {
		return false
	}
	e.signInArmed = false
	return true
}

// timeNow lets the tracker inject its clock without the entry owning one.
type timeNow = func() time.Time
