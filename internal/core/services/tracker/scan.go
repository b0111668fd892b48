package tracker

import (
	"log/slog"

	"github.com/lcalzada-xor/wifitrack/internal/core/domain"
	"github.com/lcalzada-xor/wifitrack/internal/core/services/entries"
)

// onScanComplete is the scanner's completion hook. Failures widen the
// usable-age window for one interval so a missed scan does not flicker
// entries out; successes trigger a reconciliation pass against the
// provider's fresh results.
func (t *Tracker) onScanComplete(success bool) {
	t.lastScanFailed = !success
	t.handleScanResults()
}

// usableObservations filters the provider snapshot down to observations
// young enough to trust.
func (t *Tracker) usableObservations() []domain.ScanObservation {
	maxAge := t.opts.MaxScanAge
	if t.lastScanFailed {
		maxAge += t.opts.ScanInterval
	}
	cutoff := t.clock.Now().Add(-maxAge)

	var out []domain.ScanObservation
	for _, o := range t.scan.ScanResults() {
		if !o.Timestamp.Before(cutoff) {
			out = append(out, o)
		}
	}
	return out
}

func groupByScanKey(obs []domain.ScanObservation) map[domain.ScanResultKey][]domain.ScanObservation {
	groups := make(map[domain.ScanResultKey][]domain.ScanObservation)
	for _, o := range obs {
		k := o.Key()
		groups[k] = append(groups[k], o)
	}
	return groups
}

// handleScanResults is one full scan-ingestion pass. Worker-only.
func (t *Tracker) handleScanResults() {
	fresh := t.usableObservations()

	t.reconcileStandardScans(fresh)
	t.reconcileSuggestedScans(fresh)
	t.reconcileKnownScans(fresh)
	t.reconcileRequestScans(fresh)
	t.reconcilePasspointMatches(fresh)

	t.publish(domain.ReasonScanResults)
}

// reconcileStandardScans updates every standard entry against the fresh
// groups, creates entries for unmatched groups, and evicts the
// unreachable leftovers.
func (t *Tracker) reconcileStandardScans(fresh []domain.ScanObservation) {
	groups := groupByScanKey(fresh)

	for _, e := range t.standardEntries {
		g := groups[e.EntryKey().Scan]
		delete(groups, e.EntryKey().Scan)
		if err := e.UpdateScanInfo(g); err != nil {
			slog.Error("standard scan update rejected", "entry", e.Key(), "error", err)
		}
	}

	for scanKey, g := range groups {
		key := domain.KeyForScan(scanKey, false)
		e := entries.NewStandardEntry(key, false)
		if cfgs, ok := t.standardConfigs[key.String()]; ok {
			e.UpdateConfigs(cfgs)
		}
		if err := e.UpdateScanInfo(g); err != nil {
			slog.Error("standard scan update rejected", "entry", e.Key(), "error", err)
			continue
		}
		t.standardEntries[key.String()] = e
	}

	t.evictStandard(t.standardEntries)
}

// reconcileSuggestedScans mirrors the standard pass for the suggested
// cache; entries exist only for keys with a backing suggestion config.
func (t *Tracker) reconcileSuggestedScans(fresh []domain.ScanObservation) {
	groups := groupByScanKey(fresh)

	for _, e := range t.suggestedEntries {
		g := groups[e.EntryKey().Scan]
		if err := e.UpdateScanInfo(g); err != nil {
			slog.Error("suggested scan update rejected", "entry", e.Key(), "error", err)
		}
	}

	for scanKey, g := range groups {
		key := domain.KeyForScan(scanKey, false)
		if _, exists := t.suggestedEntries[key.String()]; exists {
			continue
		}
		cfgs, ok := t.suggestedConfigs[key.String()]
		if !ok {
			continue
		}
		e := entries.NewStandardEntry(key, true)
		e.UpdateConfigs(cfgs)
		if err := e.UpdateScanInfo(g); err != nil {
			slog.Error("suggested scan update rejected", "entry", e.Key(), "error", err)
			continue
		}
		t.suggestedEntries[key.String()] = e
	}

	t.evictStandard(t.suggestedEntries)
}

// reconcileKnownScans refreshes the signal data on companion known
// networks. Their lifecycle is owned by the record set, not by scans.
func (t *Tracker) reconcileKnownScans(fresh []domain.ScanObservation) {
	groups := groupByScanKey(fresh)
	for _, e := range t.knownEntries {
		if err := e.UpdateScanInfo(groups[e.EntryKey().Scan]); err != nil {
			slog.Error("known-network scan update rejected", "entry", e.Key(), "error", err)
		}
	}
}

func (t *Tracker) reconcileRequestScans(fresh []domain.ScanObservation) {
	if t.requestEntry == nil {
		return
	}
	groups := groupByScanKey(fresh)
	if err := t.requestEntry.UpdateScanInfo(groups[t.requestEntry.EntryKey().Scan]); err != nil {
		slog.Error("network-request scan update rejected", "entry", t.requestEntry.Key(), "error", err)
	}
}

// reconcilePasspointMatches drives the passpoint and OSU caches off the
// provider-matching collaborator rather than raw SSIDs.
func (t *Tracker) reconcilePasspointMatches(fresh []domain.ScanObservation) {
	matched := map[string]bool{}
	matchedOsu := map[string]bool{}

	for _, m := range t.configs.MatchPasspointProviders(fresh) {
		if m.IsOsu {
			matchedOsu[m.UniqueID] = true
			e, ok := t.osuEntries[m.UniqueID]
			if !ok {
				e = entries.NewOsuEntry(m.UniqueID, m.FriendlyName)
				t.osuEntries[m.UniqueID] = e
			}
			e.SetProvisioned(m.OsuProvisioned)
			e.UpdateMatch(m.Observations)
			continue
		}

		matched[m.UniqueID] = true
		e, ok := t.passpointEntries[m.UniqueID]
		if !ok {
			e = entries.NewPasspointEntry(m.UniqueID, m.FriendlyName)
			t.passpointEntries[m.UniqueID] = e
		}
		if p, ok := t.passpointByID[m.UniqueID]; ok {
			e.UpdateProfile(p)
		}
		e.UpdateConfigs(t.passpointConfigs[m.UniqueID])
		e.UpdateMatch(m.Observations)
	}

	for id, e := range t.passpointEntries {
		if matched[id] {
			continue
		}
		e.UpdateMatch(nil)
		if e.Level() == domain.LevelUnreachable &&
			e.ConnectionState() == entries.StateDisconnected &&
			!e.IsSubscription() && !e.IsSuggestion() {
			delete(t.passpointEntries, id)
		}
	}
	for id, e := range t.osuEntries {
		if matchedOsu[id] {
			continue
		}
		e.UpdateMatch(nil)
		if e.ConnectionState() == entries.StateDisconnected {
			delete(t.osuEntries, id)
		}
	}
}

// evictStandard applies the unreachable-and-unbacked eviction rule to a
// standard/suggested cache.
func (t *Tracker) evictStandard(cache map[string]*entries.StandardEntry) {
	for key, e := range cache {
		if e.Level() != domain.LevelUnreachable {
			continue
		}
		if e.ConnectionState() != entries.StateDisconnected {
			continue
		}
		if e.IsSaved() {
			continue
		}
		delete(cache, key)
	}
}
