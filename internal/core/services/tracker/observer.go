package tracker

import (
	"log/slog"
	"sync"

	"github.com/lcalzada-xor/wifitrack/internal/core/domain"
	"github.com/lcalzada-xor/wifitrack/internal/core/ports"
)

// notifyQueueDepth bounds the pending-notification queue. Listeners that
// cannot keep up lose the oldest coalescible updates rather than blocking
// the worker.
const notifyQueueDepth = 256

// Subject fans tracker notifications out to registered listeners. Dispatch
// happens on one dedicated goroutine, so delivery is FIFO per listener and
// never runs inside the snapshot lock or on the worker.
type Subject struct {
	mu        sync.RWMutex
	listeners []ports.TrackerListener

	queue chan func()
	done  chan struct{}
	wg    sync.WaitGroup
}

// NewSubject creates an idle subject; Start must be called before
// notifications flow.
func NewSubject() *Subject {
	return &Subject{}
}

// Start spins up the dispatcher goroutine.
func (s *Subject) Start() {
	s.queue = make(chan func(), notifyQueueDepth)
	s.done = make(chan struct{})
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-s.done:
				return
			case f := <-s.queue:
				f()
			}
		}
	}()
}

// Stop drains nothing: pending notifications are dropped, which is fine
// because a restarted tracker republishes its snapshots.
func (s *Subject) Stop() {
	if s.done == nil {
		return
	}
	close(s.done)
	s.wg.Wait()
	s.done = nil
}

// AddListener registers a listener.
func (s *Subject) AddListener(l ports.TrackerListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// RemoveListener unregisters a listener.
func (s *Subject) RemoveListener(l ports.TrackerListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, x := range s.listeners {
		if x == l {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

func (s *Subject) enqueue(f func()) {
	if s.queue == nil {
		return
	}
	select {
	case s.queue <- f:
	default:
		notificationsDropped.Inc()
		slog.Warn("listener notification queue full, dropping")
	}
}

// NotifyEntriesChanged fans out an entries-changed event.
func (s *Subject) NotifyEntriesChanged(reason domain.ChangeReason) {
	s.mu.RLock()
	ls := make([]ports.TrackerListener, len(s.listeners))
	copy(ls, s.listeners)
	s.mu.RUnlock()
	s.enqueue(func() {
		for _, l := range ls {
			l.OnEntriesChanged(reason)
		}
	})
}

// NotifySavedCountChanged fans out a saved-count change.
func (s *Subject) NotifySavedCountChanged(count int) {
	s.mu.RLock()
	ls := make([]ports.TrackerListener, len(s.listeners))
	copy(ls, s.listeners)
	s.mu.RUnlock()
	s.enqueue(func() {
		for _, l := range ls {
			l.OnSavedCountChanged(count)
		}
	})
}

// NotifySubscriptionCountChanged fans out a subscription-count change.
func (s *Subject) NotifySubscriptionCountChanged(count int) {
	s.mu.RLock()
	ls := make([]ports.TrackerListener, len(s.listeners))
	copy(ls, s.listeners)
	s.mu.RUnlock()
	s.enqueue(func() {
		for _, l := range ls {
			l.OnSubscriptionCountChanged(count)
		}
	})
}
