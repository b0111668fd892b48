package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncPost runs posted closures inline, standing in for the worker.
func syncPost(f func()) bool {
	f()
	return true
}

func TestScannerNeverOverlapsRequests(t *testing.T) {
	clock := newFakeClock()
	scan := &fakeScan{}
	var results []bool
	s := NewScanner(scan, clock, 10*time.Second, syncPost, func(success bool) {
		results = append(results, success)
	})

	s.Start()
	require.Equal(t, 1, scan.pendingCount())

	// A second Start and an elapsed interval must not stack requests while
	// one is in flight.
	s.Start()
	clock.Advance(time.Minute)
	assert.Equal(t, 1, scan.pendingCount())

	require.True(t, scan.completeNext(true))
	assert.Equal(t, []bool{true}, results)
	assert.Equal(t, 0, scan.pendingCount(), "the next request waits out the interval")

	clock.Advance(10 * time.Second)
	assert.Equal(t, 1, scan.pendingCount())
}

func TestScannerStopParksUntilEnableTransition(t *testing.T) {
	clock := newFakeClock()
	scan := &fakeScan{}
	s := NewScanner(scan, clock, 10*time.Second, syncPost, func(bool) {})

	s.Start()
	require.True(t, scan.completeNext(true))
	s.Stop()

	// The pending re-arm was cancelled and a bare restart does not scan.
	clock.Advance(time.Minute)
	assert.Equal(t, 0, scan.pendingCount())
	s.Start()
	assert.Equal(t, 0, scan.pendingCount())

	// Only the enabling transition releases it.
	s.SetEnabled(true)
	assert.Equal(t, 1, scan.pendingCount())
}

func TestScannerDisableCancelsRearm(t *testing.T) {
	clock := newFakeClock()
	scan := &fakeScan{}
	s := NewScanner(scan, clock, 10*time.Second, syncPost, func(bool) {})

	s.Start()
	require.True(t, scan.completeNext(false))
	s.SetEnabled(false)

	clock.Advance(time.Minute)
	assert.Equal(t, 0, scan.pendingCount())

	s.SetEnabled(true)
	assert.Equal(t, 1, scan.pendingCount())
}
