package tracker

import (
	"log/slog"

	"github.com/lcalzada-xor/wifitrack/internal/core/domain"
	"github.com/lcalzada-xor/wifitrack/internal/core/services/entries"
)

// handleConfiguredNetworksChanged rebuilds the config caches from the
// provider's full list and pushes the result into every live entry in one
// step, so no transient saved/unsaved state is ever visible. Worker-only.
func (t *Tracker) handleConfiguredNetworksChanged() {
	t.rebuildConfigCaches()

	// Standard and suggested entries get their (possibly now empty) lists.
	for key, e := range t.standardEntries {
		e.UpdateConfigs(t.standardConfigs[key])
	}
	for key, e := range t.suggestedEntries {
		e.UpdateConfigs(t.suggestedConfigs[key])
	}

	t.reconcileRequestConfig()
	t.reconcilePasspointConfigs()

	// Entries that lost their last config and have no scan presence are
	// unbacked now; the standard eviction rule clears them.
	t.evictStandard(t.standardEntries)
	t.evictStandard(t.suggestedEntries)

	t.publish(domain.ReasonGeneral)
}

func (t *Tracker) rebuildConfigCaches() {
	standard := map[string][]*domain.NetworkConfig{}
	suggested := map[string][]*domain.NetworkConfig{}
	request := map[string][]*domain.NetworkConfig{}
	passpoint := map[string][]*domain.NetworkConfig{}

	for _, cfg := range t.configs.Configurations() {
		cfg := cfg
		if cfg.Passpoint {
			passpoint[cfg.PasspointUniqueID] = append(passpoint[cfg.PasspointUniqueID], &cfg)
			continue
		}
		key, err := domain.KeyForConfig(cfg)
		if err != nil {
			slog.Warn("skipping unkeyable configuration", "ssid", cfg.SSID, "error", err)
			continue
		}
		switch {
		case cfg.NetworkRequest:
			request[key.String()] = append(request[key.String()], &cfg)
		case cfg.Suggestion:
			suggested[key.String()] = append(suggested[key.String()], &cfg)
		default:
			standard[key.String()] = append(standard[key.String()], &cfg)
		}
	}

	profiles := map[string]*domain.PasspointProfile{}
	for _, p := range t.configs.PasspointProfiles() {
		p := p
		profiles[p.UniqueID] = &p
	}

	t.standardConfigs = standard
	t.suggestedConfigs = suggested
	t.requestConfigs = request
	t.passpointConfigs = passpoint
	t.passpointByID = profiles
}

// reconcileRequestConfig keeps the at-most-one network-request entry in
// step with its backing config. A changed network id replaces the entry
// wholesale. With several request configs present the lowest network id
// wins, so the surviving entry is stable across rebuilds.
func (t *Tracker) reconcileRequestConfig() {
	var cfg *domain.NetworkConfig
	var key domain.EntryKey
	for keyStr, cfgs := range t.requestConfigs {
		for _, c := range cfgs {
			if cfg != nil && c.NetworkID >= cfg.NetworkID {
				continue
			}
			k, err := domain.ParseEntryKey(keyStr)
			if err != nil {
				continue
			}
			cfg = c
			key = k
		}
	}

	switch {
	case cfg == nil:
		if t.requestEntry != nil {
			t.requestEntry.UpdateConfig(nil)
			if !t.requestEntry.HasAssociation() {
				t.requestEntry = nil
			}
		}
	case t.requestEntry == nil:
		t.requestEntry = entries.NewNetworkRequestEntry(key, cfg)
	case t.requestEntry.NetworkID() != cfg.NetworkID:
		t.requestEntry = entries.NewNetworkRequestEntry(key, cfg)
	default:
		t.requestEntry.UpdateConfig(cfg)
	}
}

// reconcilePasspointConfigs pushes profile and config state into the
// passpoint entries and removes the ones nothing backs anymore.
func (t *Tracker) reconcilePasspointConfigs() {
	for id, e := range t.passpointEntries {
		profile := t.passpointByID[id]
		e.UpdateProfile(profile)
		e.UpdateConfigs(t.passpointConfigs[id])

		if profile == nil && e.ConnectionState() == entries.StateDisconnected {
			delete(t.passpointEntries, id)
		}
	}
}
