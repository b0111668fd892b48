package tracker

import (
	"log/slog"

	"github.com/lcalzada-xor/wifitrack/internal/core/domain"
	"github.com/lcalzada-xor/wifitrack/internal/core/services/entries"
)

// handleKnownNetworksUpdated replaces the companion known-network set and
// reconciles the known-entry cache against it. Worker-only.
func (t *Tracker) handleKnownNetworksUpdated(records []domain.KnownNetworkRecord) {
	next := map[string]domain.KnownNetworkRecord{}
	for _, r := range records {
		next[r.EntryKey().String()] = r
	}
	t.knownRecords = next

	for key, r := range next {
		if e, ok := t.knownEntries[key]; ok {
			e.UpdateRecord(r)
		} else {
			t.knownEntries[key] = entries.NewKnownNetworkEntry(r)
		}
	}
	for key, e := range t.knownEntries {
		if _, ok := next[key]; ok {
			continue
		}
		if e.ConnectionState() == entries.StateDisconnected {
			delete(t.knownEntries, key)
		}
	}

	t.publish(domain.ReasonGeneral)
}

// handleHotspotNetworksUpdated replaces the companion hotspot set.
// Worker-only.
func (t *Tracker) handleHotspotNetworksUpdated(records []domain.HotspotNetworkRecord) {
	next := map[int64]domain.HotspotNetworkRecord{}
	for _, r := range records {
		next[r.DeviceID] = r
	}
	t.hotspotRecords = next

	for id, r := range next {
		if e, ok := t.hotspotEntries[id]; ok {
			e.UpdateRecord(r)
		} else {
			t.hotspotEntries[id] = entries.NewHotspotNetworkEntry(r)
		}
	}
	for id, e := range t.hotspotEntries {
		if _, ok := next[id]; ok {
			continue
		}
		if e.ConnectionState() == entries.StateDisconnected {
			delete(t.hotspotEntries, id)
			delete(t.hotspotReqGen, id)
		}
	}

	t.publish(domain.ReasonGeneral)
}

// handleHotspotStatusChanged applies a companion connection-status event
// for one hotspot device. Terminal statuses settle any pending connect
// round trip for that device. Worker-only.
func (t *Tracker) handleHotspotStatusChanged(deviceID int64, status domain.ConnectStatus) {
	e, ok := t.hotspotEntries[deviceID]
	if !ok {
		return
	}
	// Any status event supersedes the pending-timeout guard.
	t.hotspotReqGen[deviceID]++

	if status == domain.ConnectStatusSuccess {
		if e.ConnectionState() != entries.StateConnected {
			e.SetConnecting()
		}
	} else {
		e.NetworkLost(e.Handle())
		slog.Info("hotspot connect failed", "device_id", deviceID, "status", status.String())
	}
	t.publish(domain.ReasonGeneral)
}
