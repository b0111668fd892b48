package entries

import (
	"github.com/lcalzada-xor/wifitrack/internal/core/domain"
)

// PasspointEntry is a network reachable through an installed passpoint
// profile. Identity is the profile's unique id, not an SSID: the provider
// matching collaborator decides which observations belong here.
type PasspointEntry struct {
	baseEntry
	uniqueID     string
	friendlyName string

	profile      *domain.PasspointProfile
	configs      []*domain.NetworkConfig
	observations []domain.ScanObservation
}

// NewPasspointEntry creates an entry for a matched provider.
func NewPasspointEntry(uniqueID, friendlyName string) *PasspointEntry {
	return &PasspointEntry{
		baseEntry:    newBaseEntry(),
		uniqueID:     uniqueID,
		friendlyName: friendlyName,
	}
}

func (e *PasspointEntry) Key() string { return "pp:" + e.uniqueID }

// UniqueID is the passpoint profile identity.
func (e *PasspointEntry) UniqueID() string { return e.uniqueID }

func (e *PasspointEntry) Kind() Kind { return KindPasspoint }

func (e *PasspointEntry) Title() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.friendlyName != "" {
		return e.friendlyName
	}
	return e.uniqueID
}

func (e *PasspointEntry) SecurityTypes() []domain.SecurityType {
	return domain.FamilyTypes(domain.FamilyEnterprise)
}

func (e *PasspointEntry) IsSaved() bool { return false }

func (e *PasspointEntry) IsSuggestion() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.profile != nil && e.profile.Suggestion
}

func (e *PasspointEntry) IsSubscription() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.profile != nil && e.profile.Subscription
}

// UpdateProfile attaches (or detaches, with nil) the installed profile.
func (e *PasspointEntry) UpdateProfile(p *domain.PasspointProfile) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profile = p
	if p != nil && p.FriendlyName != "" {
		e.friendlyName = p.FriendlyName
	}
}

// HasProfile reports whether an installed profile currently backs the
// entry.
func (e *PasspointEntry) HasProfile() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.profile != nil
}

// UpdateConfigs replaces the passpoint-generated configuration list.
func (e *PasspointEntry) UpdateConfigs(cfgs []*domain.NetworkConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.configs = cfgs
}

// HasConfig reports whether any backing config carries the network id.
func (e *PasspointEntry) HasConfig(networkID int) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, c := range e.configs {
		if c.NetworkID == networkID {
			return true
		}
	}
	return false
}

// FirstNetworkID returns the network id of the profile's first generated
// config, or -1 when none exists yet.
func (e *PasspointEntry) FirstNetworkID() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if len(e.configs) == 0 {
		return -1
	}
	return e.configs[0].NetworkID
}

// UpdateMatch replaces the provider-matched observation group.
func (e *PasspointEntry) UpdateMatch(obs []domain.ScanObservation) {
	e.mu.Lock()
	e.observations = obs
	e.mu.Unlock()
	e.updateScanDerived(obs)
}

// Matches reports whether a capability snapshot resolves here via one of
// the profile's generated configs.
func (e *PasspointEntry) Matches(cap domain.Capabilities) bool {
	return e.HasConfig(cap.NetworkID)
}

// ApplyCapabilities mirrors StandardEntry.ApplyCapabilities for the
// passpoint variant.
func (e *PasspointEntry) ApplyCapabilities(cap domain.Capabilities, now timeNow) bool {
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
func (e *PasspointEntry) NetworkLost(handle domain.NetworkHandle) {
	if e.Handle() == handle && e.ConnectionState() != StateDisconnected {
		e.setDisconnected()
	}
}

// OsuEntry is an Online Sign-Up provider for a passpoint subscription the
// user does not have yet.
type OsuEntry struct {
	baseEntry
	osuID        string
	friendlyName string
	provisioned  bool
}

// NewOsuEntry creates an entry for a matched OSU provider.
func NewOsuEntry(osuID, friendlyName string) *OsuEntry {
	return &OsuEntry{
		baseEntry:    newBaseEntry(),
		osuID:        osuID,
		friendlyName: friendlyName,
	}
}

func (e *OsuEntry) Key() string { return "osu:" + e.osuID }

func (e *OsuEntry) Kind() Kind { return KindOsu }

func (e *OsuEntry) Title() string {
	if e.friendlyName != "" {
		return e.friendlyName
	}
	return e.osuID
}

func (e *OsuEntry) SecurityTypes() []domain.SecurityType { return nil }

func (e *OsuEntry) IsSaved() bool        { return false }
func (e *OsuEntry) IsSuggestion() bool   { return false }
func (e *OsuEntry) IsSubscription() bool { return false }

// SetProvisioned records that the subscription this OSU offers has been
// installed; provisioned OSU entries are hidden from the visible list.
func (e *OsuEntry) SetProvisioned(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.provisioned = v
}

// IsProvisioned reports whether the OSU's subscription is installed.
func (e *OsuEntry) IsProvisioned() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.provisioned
}

// UpdateMatch replaces the provider-matched observation group.
func (e *OsuEntry) UpdateMatch(obs []domain.ScanObservation) {
	e.updateScanDerived(obs)
}
