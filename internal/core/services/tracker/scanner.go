package tracker

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/lcalzada-xor/wifitrack/internal/core/ports"
)

var (
	scanRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wifitrack_scan_requests_total",
		Help: "The total number of scan requests issued",
	})
	scanFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wifitrack_scan_failures_total",
		Help: "The total number of scan requests that reported failure",
	})
)

// Scanner is the self-re-arming scan trigger. The next request is issued
// only after the previous one completes, so two scans are never in flight.
// All state lives on the tracker worker: completion callbacks from the
// provider are marshaled back via post.
type Scanner struct {
	provider ports.ScanProvider
	clock    ports.Clock
	interval time.Duration
	post     func(func()) bool
	onResult func(success bool)

	running  bool
	enabled  bool
	inFlight bool
	// After a Stop, a fresh Start waits for the next enabling transition
	// instead of scanning immediately; this avoids a scan flood when the
	// engine is bounced.
	waitForEnable bool
	pending       ports.Timer
}

// NewScanner builds a scanner. The radio is assumed enabled until told
// otherwise.
func NewScanner(provider ports.ScanProvider, clock ports.Clock, interval time.Duration, post func(func()) bool, onResult func(success bool)) *Scanner {
	return &Scanner{
		provider: provider,
		clock:    clock,
		interval: interval,
		post:     post,
		onResult: onResult,
		enabled:  true,
	}
}

// Start arms the scanner. Worker-only.
func (s *Scanner) Start() {
	if s.running {
		return
	}
	s.running = true
	if s.enabled && !s.waitForEnable {
		s.request()
	}
}

// Stop cancels any pending re-arm and parks the scanner until the next
// enabling transition. Worker-only.
func (s *Scanner) Stop() {
	s.running = false
	s.waitForEnable = true
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

// SetEnabled reflects radio/scanning availability. A rising edge re-arms a
// parked scanner. Worker-only.
func (s *Scanner) SetEnabled(enabled bool) {
	was := s.enabled
	s.enabled = enabled
	if !enabled {
		if s.pending != nil {
			s.pending.Stop()
			s.pending = nil
		}
		return
	}
	if !was || s.waitForEnable {
		s.waitForEnable = false
		if s.running {
			s.request()
		}
	}
}

func (s *Scanner) request() {
	if s.inFlight || !s.running || !s.enabled {
		return
	}
	s.inFlight = true
	scanRequests.Inc()
	s.provider.RequestScan(context.Background(), func(success bool) {
		// Provider callback may fire on any goroutine.
		s.post(func() { s.complete(success) })
	})
}

func (s *Scanner) complete(success bool) {
	s.inFlight = false
	if !success {
		scanFailures.Inc()
		slog.Debug("scan request failed")
	}
	s.onResult(success)
	if !s.running || !s.enabled {
		return
	}
	s.pending = s.clock.AfterFunc(s.interval, func() {
		s.post(func() {
			s.pending = nil
			s.request()
		})
	})
}
