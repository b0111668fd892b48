package entries

import (
	"fmt"

	"github.com/lcalzada-xor/wifitrack/internal/core/domain"
)

// MergedCarrierEntry is the singleton entry for the active cellular data
// subscription's carrier-merged network. It is keyed by subscription id and
// replaced wholesale when the default data subscription changes.
type MergedCarrierEntry struct {
	baseEntry
	subscriptionID int
}

// NewMergedCarrierEntry creates the entry for a subscription id.
func NewMergedCarrierEntry(subscriptionID int) *MergedCarrierEntry {
	return &MergedCarrierEntry{
		baseEntry:      newBaseEntry(),
		subscriptionID: subscriptionID,
	}
}

func (e *MergedCarrierEntry) Key() string {
	return fmt.Sprintf("carrier:%d", e.subscriptionID)
}

// SubscriptionID identifies the cellular subscription backing the entry.
func (e *MergedCarrierEntry) SubscriptionID() int { return e.subscriptionID }

func (e *MergedCarrierEntry) Kind() Kind { return KindMergedCarrier }

func (e *MergedCarrierEntry) Title() string { return "Mobile data" }

func (e *MergedCarrierEntry) SecurityTypes() []domain.SecurityType { return nil }

func (e *MergedCarrierEntry) IsSaved() bool        { return false }
func (e *MergedCarrierEntry) IsSuggestion() bool   { return false }
func (e *MergedCarrierEntry) IsSubscription() bool { return true }

// ApplyCapabilities connects the carrier entry when its OEM-merged
// capability goes live.
func (e *MergedCarrierEntry) ApplyCapabilities(cap domain.Capabilities, now timeNow) bool {
	if cap.OEM && cap.Primary {
		e.setConnected(cap.Handle, true, now())
		e.mu.Lock()
		e.level = domain.LevelMax
		e.mu.Unlock()
		return true
	}
	if e.Handle() == cap.Handle && e.ConnectionState() != StateDisconnected {
		e.setDisconnected()
	}
	return false
}

// NetworkLost drops the entry if it was riding the lost handle.
func (e *MergedCarrierEntry) NetworkLost(handle domain.NetworkHandle) {
	if e.Handle() == handle && e.ConnectionState() != StateDisconnected {
		e.setDisconnected()
	}
}
