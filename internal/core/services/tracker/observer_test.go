package tracker

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/wifitrack/internal/core/domain"
)

type orderListener struct {
	mu     sync.Mutex
	events []string
}

func (l *orderListener) OnEntriesChanged(reason domain.ChangeReason) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, "entries:"+reason.String())
}

func (l *orderListener) OnSavedCountChanged(count int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, "saved")
}

func (l *orderListener) OnSubscriptionCountChanged(count int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, "subs")
}

func (l *orderListener) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.events))
	copy(out, l.events)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition never met")
}

func TestSubjectDeliversInOrder(t *testing.T) {
	s := NewSubject()
	s.Start()
	defer s.Stop()

	l := &orderListener{}
	s.AddListener(l)

	s.NotifyEntriesChanged(domain.ReasonScanResults)
	s.NotifySavedCountChanged(3)
	s.NotifyEntriesChanged(domain.ReasonGeneral)
	s.NotifySubscriptionCountChanged(1)

	waitFor(t, func() bool { return len(l.snapshot()) == 4 })
	assert.Equal(t, []string{"entries:SCAN_RESULTS", "saved", "entries:GENERAL", "subs"}, l.snapshot())
}

func TestSubjectRemoveListenerStopsDelivery(t *testing.T) {
	s := NewSubject()
	s.Start()
	defer s.Stop()

	l := &orderListener{}
	s.AddListener(l)
	s.NotifyEntriesChanged(domain.ReasonGeneral)
	waitFor(t, func() bool { return len(l.snapshot()) == 1 })

	s.RemoveListener(l)
	s.NotifyEntriesChanged(domain.ReasonGeneral)
	s.NotifySavedCountChanged(1)

	// Delivery for the second batch went to an empty listener set.
	time.Sleep(10 * time.Millisecond)
	require.Len(t, l.snapshot(), 1)
}

func TestSubjectIdleEnqueueIsSafe(t *testing.T) {
	s := NewSubject()
	assert.NotPanics(t, func() {
		s.NotifyEntriesChanged(domain.ReasonGeneral)
		s.Stop()
	})
}
