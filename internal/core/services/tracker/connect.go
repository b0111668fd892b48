package tracker

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/lcalzada-xor/wifitrack/internal/core/domain"
	"github.com/lcalzada-xor/wifitrack/internal/core/services/entries"
)

// Connect starts a user-initiated connection to the entry behind key. The
// result is always delivered asynchronously through done (which may be
// nil), even for immediate failures, so caller-side ordering expectations
// hold.
func (t *Tracker) Connect(key string, done func(domain.ConnectStatus)) {
	t.post(func() { t.connectLocked(key, done) })
}

// Disconnect tears down the connection behind key, with the same delivery
// contract as Connect.
func (t *Tracker) Disconnect(key string, done func(domain.ConnectStatus)) {
	t.post(func() { t.disconnectLocked(key, done) })
}

// deliver reports a terminal status on the notifier, never inline on the
// worker.
func (t *Tracker) deliver(done func(domain.ConnectStatus), status domain.ConnectStatus) {
	if done == nil {
		return
	}
	t.subject.enqueue(func() { done(status) })
}

func (t *Tracker) connectLocked(key string, done func(domain.ConnectStatus)) {
	if strings.HasPrefix(key, "hotspot:") {
		t.connectHotspotLocked(key, done)
		return
	}

	e, ok := t.findConfigBacked(key)
	if !ok {
		t.deliver(done, domain.ConnectStatusFailureNotReachable)
		return
	}

	networkID, armable := connectTarget(e)
	if networkID < 0 {
		t.deliver(done, domain.ConnectStatusFailureNoConfig)
		return
	}
	if t.conn == nil {
		t.deliver(done, domain.ConnectStatusFailureUnknown)
		return
	}

	reqID := uuid.NewString()
	if armable != nil {
		// Arm the one-shot captive-portal launch; a newer connect
		// replaces the arm rather than stacking.
		armable.ArmSignIn()
	}
	if err := t.conn.ConnectNetwork(context.Background(), networkID); err != nil {
		slog.Warn("connect request failed", "request_id", reqID, "entry", key, "error", err)
		if armable != nil {
			armable.DisarmSignIn()
		}
		t.deliver(done, domain.ConnectStatusFailureUnknown)
		return
	}
	slog.Info("connect requested", "request_id", reqID, "entry", key, "network_id", networkID)
	t.deliver(done, domain.ConnectStatusSuccess)
}

func (t *Tracker) disconnectLocked(key string, done func(domain.ConnectStatus)) {
	if strings.HasPrefix(key, "hotspot:") {
		t.disconnectHotspotLocked(key, done)
		return
	}

	e, ok := t.findConfigBacked(key)
	if !ok {
		t.deliver(done, domain.ConnectStatusFailureNotReachable)
		return
	}
	networkID, _ := connectTarget(e)
	if networkID < 0 {
		t.deliver(done, domain.ConnectStatusFailureNoConfig)
		return
	}
	if t.conn == nil {
		t.deliver(done, domain.ConnectStatusFailureUnknown)
		return
	}
	if err := t.conn.DisconnectNetwork(context.Background(), networkID); err != nil {
		t.deliver(done, domain.ConnectStatusFailureUnknown)
		return
	}
	t.deliver(done, domain.ConnectStatusSuccess)
}

// findConfigBacked resolves a key to a config-backed entry variant.
func (t *Tracker) findConfigBacked(key string) (entries.Entry, bool) {
	for _, e := range t.standardEntries {
		if e.Key() == key {
			return e, true
		}
	}
	for _, e := range t.suggestedEntries {
		if e.Key() == key {
			return e, true
		}
	}
	for _, e := range t.passpointEntries {
		if e.Key() == key {
			return e, true
		}
	}
	if t.requestEntry != nil && t.requestEntry.Key() == key {
		return t.requestEntry, true
	}
	return nil, false
}

// connectTarget extracts the network id a connect request should use and,
// for standard variants, the entry whose sign-in flag should be armed.
func connectTarget(e entries.Entry) (int, *entries.StandardEntry) {
	switch v := e.(type) {
	case *entries.StandardEntry:
		cfgs := v.Configs()
		if len(cfgs) == 0 {
			return -1, nil
		}
		return cfgs[0].NetworkID, v
	case *entries.PasspointEntry:
		// Passpoint connects ride the profile's generated config.
		return v.FirstNetworkID(), nil
	case *entries.NetworkRequestEntry:
		return v.NetworkID(), nil
	default:
		return -1, nil
	}
}

// connectHotspotLocked runs the companion round trip with a bounded wait:
// if no terminal status callback arrives within ConnectTimeout the request
// is still considered sent and FAILURE_UNKNOWN is synthesized.
func (t *Tracker) connectHotspotLocked(key string, done func(domain.ConnectStatus)) {
	e := t.hotspotByKey(key)
	if e == nil {
		t.deliver(done, domain.ConnectStatusFailureNotReachable)
		return
	}
	deviceID := e.Record().DeviceID

	if t.companion == nil {
		// A missing companion client is an asynchronous FAILURE_UNKNOWN,
		// not an error return.
		t.deliver(done, domain.ConnectStatusFailureUnknown)
		return
	}

	t.hotspotReqGen[deviceID]++
	gen := t.hotspotReqGen[deviceID]
	e.SetConnecting()

	// The request id correlates the asynchronous companion callbacks with
	// the request that issued them.
	reqID := uuid.NewString()
	settled := false
	settle := func(status domain.ConnectStatus) {
		t.post(func() {
			if settled || t.hotspotReqGen[deviceID] != gen {
				slog.Debug("hotspot settle ignored", "request_id", reqID, "entry", key)
				return
			}
			settled = true
			slog.Info("hotspot connect settled", "request_id", reqID, "entry", key, "status", status)
			if status != domain.ConnectStatusSuccess {
				e.NetworkLost(e.Handle())
			}
			t.deliver(done, status)
			t.publish(domain.ReasonGeneral)
		})
	}

	slog.Info("hotspot connect requested", "request_id", reqID, "entry", key, "device_id", deviceID)
	t.clock.AfterFunc(t.opts.ConnectTimeout, func() {
		settle(domain.ConnectStatusFailureUnknown)
	})
	t.companion.ConnectHotspot(e.Record(), settle)
	t.publish(domain.ReasonGeneral)
}

func (t *Tracker) disconnectHotspotLocked(key string, done func(domain.ConnectStatus)) {
	e := t.hotspotByKey(key)
	if e == nil {
		t.deliver(done, domain.ConnectStatusFailureNotReachable)
		return
	}
	if t.companion == nil {
		t.deliver(done, domain.ConnectStatusFailureUnknown)
		return
	}
	deviceID := e.Record().DeviceID
	t.hotspotReqGen[deviceID]++

	t.companion.DisconnectHotspot(e.Record(), func(status domain.ConnectStatus) {
		t.post(func() {
			e.NetworkLost(e.Handle())
			t.deliver(done, status)
			t.publish(domain.ReasonGeneral)
		})
	})
}

func (t *Tracker) hotspotByKey(key string) *entries.HotspotNetworkEntry {
	for _, e := range t.hotspotEntries {
		if e.Key() == key {
			return e
		}
	}
	return nil
}
