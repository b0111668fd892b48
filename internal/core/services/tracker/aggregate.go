package tracker

import (
	"sort"
	"strings"

	"github.com/lcalzada-xor/wifitrack/internal/core/domain"
	"github.com/lcalzada-xor/wifitrack/internal/core/services/entries"
)

// allEntries flattens every per-variant cache in variant order.
func (t *Tracker) allEntries() []entries.Entry {
	var out []entries.Entry
	for _, e := range t.standardEntries {
		out = append(out, e)
	}
	for _, e := range t.suggestedEntries {
		out = append(out, e)
	}
	for _, e := range t.passpointEntries {
		out = append(out, e)
	}
	for _, e := range t.osuEntries {
		out = append(out, e)
	}
	for _, e := range t.knownEntries {
		out = append(out, e)
	}
	for _, e := range t.hotspotEntries {
		out = append(out, e)
	}
	if t.requestEntry != nil {
		out = append(out, t.requestEntry)
	}
	if t.carrierEntry != nil {
		out = append(out, t.carrierEntry)
	}
	return out
}

// publish rebuilds both snapshots, swaps them in under the snapshot lock,
// and notifies listeners from outside it. Runs on every reconciliation
// pass regardless of which source changed, keeping the cross-source
// suppression rules consistent. Worker-only.
func (t *Tracker) publish(reason domain.ChangeReason) {
	reconcilePasses.Inc()

	active := t.buildActiveList()
	other := t.buildOtherList(active)
	saved := 0
	for _, cfgs := range t.standardConfigs {
		for _, c := range cfgs {
			if c.Saved {
				saved++
				break
			}
		}
	}
	subs := 0
	for _, p := range t.passpointByID {
		if p.Subscription {
			subs++
		}
	}

	t.snapMu.Lock()
	savedChanged := saved != t.savedCount
	subsChanged := subs != t.subscriptionCount
	t.active = active
	t.other = other
	t.savedCount = saved
	t.subscriptionCount = subs
	t.snapMu.Unlock()

	activeEntriesGauge.Set(float64(len(active)))
	otherEntriesGauge.Set(float64(len(other)))

	t.subject.NotifyEntriesChanged(reason)
	if savedChanged {
		t.subject.NotifySavedCountChanged(saved)
	}
	if subsChanged {
		t.subject.NotifySubscriptionCountChanged(subs)
	}

	if t.recorder != nil {
		t.recordSightings(active, other)
	}
}

// buildActiveList collects connected/connecting entries, applies the
// hotspot-over-standard suppression, and orders them primary first.
func (t *Tracker) buildActiveList() []entries.Entry {
	hotspotKeys := t.activeHotspotScanKeys()

	var active []entries.Entry
	for _, e := range t.allEntries() {
		if e.ConnectionState() == entries.StateDisconnected {
			continue
		}
		if suppressedByHotspot(e, hotspotKeys) {
			continue
		}
		active = append(active, e)
	}

	sort.SliceStable(active, func(i, j int) bool {
		a, b := active[i], active[j]
		if a.IsPrimary() != b.IsPrimary() {
			return a.IsPrimary()
		}
		ca, cb := a.ConnectedSince(), b.ConnectedSince()
		if !ca.Equal(cb) {
			return ca.After(cb)
		}
		return titleLess(a, b)
	})
	return active
}

// buildOtherList collects the remaining visible entries and applies the
// cross-source dedup rules.
func (t *Tracker) buildOtherList(active []entries.Entry) []entries.Entry {
	inActive := map[entries.Entry]bool{}
	for _, e := range active {
		inActive[e] = true
	}

	hotspotKeys := t.allHotspotScanKeys()
	knownKeys := map[string]bool{}
	for key := range t.knownEntries {
		knownKeys[key] = true
	}
	shareableSuggestions := map[string]bool{}
	for key, e := range t.suggestedEntries {
		if e.Level() != domain.LevelUnreachable && e.IsUserShareable() {
			shareableSuggestions[key] = true
		}
	}
	passpointSSIDs := map[string]bool{}
	for _, cfgs := range t.passpointConfigs {
		for _, c := range cfgs {
			passpointSSIDs[c.SSID] = true
		}
	}

	var other []entries.Entry
	for _, e := range t.allEntries() {
		if inActive[e] || e.ConnectionState() != entries.StateDisconnected {
			continue
		}
		if e.Level() == domain.LevelUnreachable {
			continue
		}
		if t.suppressFromOther(e, hotspotKeys, knownKeys, shareableSuggestions, passpointSSIDs) {
			continue
		}
		other = append(other, e)
	}

	sort.SliceStable(other, func(i, j int) bool {
		a, b := other[i], other[j]
		if a.IsSubscription() != b.IsSubscription() {
			return a.IsSubscription()
		}
		if a.IsSaved() != b.IsSaved() {
			return a.IsSaved()
		}
		if a.IsSuggestion() != b.IsSuggestion() {
			return a.IsSuggestion()
		}
		if a.Level() != b.Level() {
			return a.Level() > b.Level()
		}
		return titleLess(a, b)
	})
	return other
}

// suppressFromOther implements the display precedence: hotspot beats both
// standard variants outright; a known network beats an unsaved standard
// entry; user-shareable in-range suggestions and passpoint-provisioned
// SSIDs hide their unsaved standard duplicates; provisioned OSU entries
// hide themselves.
func (t *Tracker) suppressFromOther(e entries.Entry, hotspotKeys, knownKeys, shareableSuggestions, passpointSSIDs map[string]bool) bool {
	switch v := e.(type) {
	case *entries.StandardEntry:
		key := v.EntryKey().String()
		if hotspotKeys[key] {
			return true
		}
		if v.Kind() == entries.KindStandard && !v.IsSaved() {
			if knownKeys[key] {
				return true
			}
			if shareableSuggestions[key] {
				return true
			}
			if passpointSSIDs[v.EntryKey().Scan.SSID] {
				return true
			}
		}
		return false
	case *entries.OsuEntry:
		return v.IsProvisioned()
	default:
		return false
	}
}

// activeHotspotScanKeys returns the scan keys of hotspot entries that are
// actually broadcasting (non-virtual) and not disconnected.
func (t *Tracker) activeHotspotScanKeys() map[string]bool {
	keys := map[string]bool{}
	for _, h := range t.hotspotEntries {
		if !h.IsVirtual() && h.ConnectionState() != entries.StateDisconnected {
			keys[h.ScanKey().String()] = true
		}
	}
	return keys
}

// allHotspotScanKeys returns the scan keys of every hotspot entry;
// hotspot identity always wins over plain scan identity for display.
func (t *Tracker) allHotspotScanKeys() map[string]bool {
	keys := map[string]bool{}
	for _, h := range t.hotspotEntries {
		keys[h.ScanKey().String()] = true
	}
	return keys
}

func suppressedByHotspot(e entries.Entry, hotspotKeys map[string]bool) bool {
	if v, ok := e.(*entries.StandardEntry); ok {
		return hotspotKeys[v.EntryKey().String()]
	}
	return false
}

func titleLess(a, b entries.Entry) bool {
	ta, tb := strings.ToLower(a.Title()), strings.ToLower(b.Title())
	if ta != tb {
		return ta < tb
	}
	return a.Key() < b.Key()
}

func (t *Tracker) recordSightings(active, other []entries.Entry) {
	now := t.clock.Now()
	sightings := make([]domain.Sighting, 0, len(active)+len(other))
	add := func(e entries.Entry, connected bool) {
		sightings = append(sightings, domain.Sighting{
			EntryKey:  e.Key(),
			Kind:      string(e.Kind()),
			Title:     e.Title(),
			Level:     e.Level(),
			Connected: connected,
			SeenAt:    now,
		})
	}
	for _, e := range active {
		add(e, true)
	}
	for _, e := range other {
		add(e, false)
	}
	t.recorder.Record(sightings)
}
