package tracker

import (
	"log/slog"

	"github.com/lcalzada-xor/wifitrack/internal/core/domain"
	"github.com/lcalzada-xor/wifitrack/internal/core/services/entries"
)

// handleCapabilitiesChanged is one live-connection reconciliation pass.
// Worker-only.
func (t *Tracker) handleCapabilitiesChanged(cap domain.Capabilities) {
	// A connection can be established before its network was ever
	// scanned; synthesize the entry from its configuration so the UI
	// shows the connection immediately.
	t.maybeSynthesizeEntry(cap)

	connectedPrimary := t.dispatchCapabilities(cap)

	// Primary is exclusive: the latest primary claim wins and every other
	// primary entry drops to DISCONNECTED.
	if cap.Primary && connectedPrimary != nil {
		for _, e := range t.allEntries() {
			if e == connectedPrimary {
				continue
			}
			if e.IsPrimary() {
				t.forceDisconnect(e)
			}
		}
	}

	t.maybeLaunchSignIn(cap)

	t.publish(domain.ReasonGeneral)
}

// dispatchCapabilities delivers the snapshot to every live entry and
// returns the entry (if any) that ended up connected as primary.
func (t *Tracker) dispatchCapabilities(cap domain.Capabilities) entries.Entry {
	now := t.clock.Now
	var primary entries.Entry

	for _, e := range t.standardEntries {
		if e.ApplyCapabilities(cap, now) && cap.Primary {
			primary = e
		}
	}
	for _, e := range t.suggestedEntries {
		if e.ApplyCapabilities(cap, now) && cap.Primary {
			primary = e
		}
	}
	for _, e := range t.passpointEntries {
		if e.ApplyCapabilities(cap, now) && cap.Primary {
			primary = e
		}
	}
	if t.requestEntry != nil {
		if t.requestEntry.ApplyCapabilities(cap, now) && cap.Primary {
			primary = t.requestEntry
		}
	}
	for _, e := range t.hotspotEntries {
		if e.ApplyCapabilities(cap, now) && cap.Primary {
			primary = e
		}
	}
	if t.carrierEntry != nil {
		if t.carrierEntry.ApplyCapabilities(cap, now) && cap.Primary {
			primary = t.carrierEntry
		}
	}
	return primary
}

// maybeSynthesizeEntry creates a connected-capable entry for a capability
// snapshot no cache currently matches, trying one variant at a time in
// precedence order: standard, suggested, passpoint, network-request.
func (t *Tracker) maybeSynthesizeEntry(cap domain.Capabilities) {
	if t.anyEntryMatches(cap) {
		return
	}

	key := domain.EntryKey{
		Scan:     domain.ScanResultKey{SSID: cap.SSID, Family: domain.FamilyOf(cap.Security)},
		Resolved: cap.Security,
	}
	keyStr := key.String()

	if cfgs := configsWithNetworkID(t.standardConfigs[keyStr], cap.NetworkID); len(cfgs) > 0 {
		e := entries.NewStandardEntry(key, false)
		e.UpdateConfigs(t.standardConfigs[keyStr])
		t.standardEntries[keyStr] = e
		slog.Debug("synthesized standard entry for live connection", "key", keyStr)
		return
	}
	if cfgs := configsWithNetworkID(t.suggestedConfigs[keyStr], cap.NetworkID); len(cfgs) > 0 {
		e := entries.NewStandardEntry(key, true)
		e.UpdateConfigs(t.suggestedConfigs[keyStr])
		t.suggestedEntries[keyStr] = e
		slog.Debug("synthesized suggested entry for live connection", "key", keyStr)
		return
	}
	for id, cfgs := range t.passpointConfigs {
		if len(configsWithNetworkID(cfgs, cap.NetworkID)) == 0 {
			continue
		}
		name := id
		if p, ok := t.passpointByID[id]; ok {
			name = p.FriendlyName
		}
		e := entries.NewPasspointEntry(id, name)
		e.UpdateProfile(t.passpointByID[id])
		e.UpdateConfigs(cfgs)
		t.passpointEntries[id] = e
		slog.Debug("synthesized passpoint entry for live connection", "unique_id", id)
		return
	}
	if t.requestEntry == nil {
		if cfgs := configsWithNetworkID(t.requestConfigs[keyStr], cap.NetworkID); len(cfgs) > 0 {
			t.requestEntry = entries.NewNetworkRequestEntry(key, cfgs[0])
			slog.Debug("synthesized network-request entry for live connection", "key", keyStr)
		}
	}
}

func (t *Tracker) anyEntryMatches(cap domain.Capabilities) bool {
	for _, e := range t.standardEntries {
		if e.Matches(cap) {
			return true
		}
	}
	for _, e := range t.suggestedEntries {
		if e.Matches(cap) {
			return true
		}
	}
	for _, e := range t.passpointEntries {
		if e.Matches(cap) {
			return true
		}
	}
	if t.requestEntry != nil && t.requestEntry.Matches(cap) {
		return true
	}
	for _, e := range t.hotspotEntries {
		if e.Matches(cap) {
			return true
		}
	}
	return false
}

func configsWithNetworkID(cfgs []*domain.NetworkConfig, networkID int) []*domain.NetworkConfig {
	var out []*domain.NetworkConfig
	for _, c := range cfgs {
		if c.NetworkID == networkID {
			out = append(out, c)
		}
	}
	return out
}

// maybeLaunchSignIn fires the captive-portal launcher at most once per
// armed user connect.
func (t *Tracker) maybeLaunchSignIn(cap domain.Capabilities) {
	if t.portal == nil {
		return
	}
	fire := func(e *entries.StandardEntry) {
		if e.Matches(cap) && e.ConsumeSignIn(cap) {
			slog.Info("launching captive portal sign-in", "entry", e.Key(), "network_id", cap.NetworkID)
			t.portal.LaunchSignIn(cap.NetworkID)
		}
	}
	for _, e := range t.standardEntries {
		fire(e)
	}
	for _, e := range t.suggestedEntries {
		fire(e)
	}
}

// handleNetworkLost drops every entry riding the lost handle and destroys
// a network-request entry with no remaining association. Worker-only.
func (t *Tracker) handleNetworkLost(handle domain.NetworkHandle) {
	for _, e := range t.standardEntries {
		e.NetworkLost(handle)
	}
	for _, e := range t.suggestedEntries {
		e.NetworkLost(handle)
	}
	for _, e := range t.passpointEntries {
		e.NetworkLost(handle)
	}
	for _, e := range t.hotspotEntries {
		e.NetworkLost(handle)
	}
	if t.carrierEntry != nil {
		t.carrierEntry.NetworkLost(handle)
	}
	if t.requestEntry != nil {
		t.requestEntry.NetworkLost(handle)
		if !t.requestEntry.HasAssociation() {
			t.requestEntry = nil
		}
	}
	t.publish(domain.ReasonGeneral)
}

// handleDefaultSubscriptionChanged replaces the merged-carrier singleton.
// Worker-only.
func (t *Tracker) handleDefaultSubscriptionChanged(subscriptionID int) {
	if subscriptionID < 0 {
		t.carrierEntry = nil
	} else if t.carrierEntry == nil || t.carrierEntry.SubscriptionID() != subscriptionID {
		t.carrierEntry = entries.NewMergedCarrierEntry(subscriptionID)
	}
	t.publish(domain.ReasonGeneral)
}

// handleRadioEnabledChanged clears scan-derived state when the radio goes
// down and re-arms the scanner when it comes back. Worker-only.
func (t *Tracker) handleRadioEnabledChanged(enabled bool) {
	t.scanner.SetEnabled(enabled)
	if !enabled {
		t.standardEntries = map[string]*entries.StandardEntry{}
		t.suggestedEntries = map[string]*entries.StandardEntry{}
		t.passpointEntries = map[string]*entries.PasspointEntry{}
		t.osuEntries = map[string]*entries.OsuEntry{}
		t.requestEntry = nil
		slog.Info("radio disabled, scan-derived caches cleared")
	}
	t.publish(domain.ReasonGeneral)
}

// forceDisconnect type-switches an entry to its variant disconnect.
func (t *Tracker) forceDisconnect(e entries.Entry) {
	switch v := e.(type) {
	case *entries.StandardEntry:
		v.NetworkLost(v.Handle())
	case *entries.PasspointEntry:
		v.NetworkLost(v.Handle())
	case *entries.NetworkRequestEntry:
		v.NetworkLost(v.Handle())
	case *entries.HotspotNetworkEntry:
		v.NetworkLost(v.Handle())
	case *entries.MergedCarrierEntry:
		v.NetworkLost(v.Handle())
	}
}
