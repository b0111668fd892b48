package mock

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestScanCompletes(t *testing.T) {
	p := NewPlatform()

	done := make(chan bool, 4)
	for i := 0; i < 4; i++ {
		p.RequestScan(context.Background(), func(success bool) { done <- success })
	}

	anyOK := false
	for i := 0; i < 4; i++ {
		select {
		case ok := <-done:
			anyOK = anyOK || ok
		case <-time.After(2 * time.Second):
			t.Fatal("scan callback never fired")
		}
	}
	// The seeded source fails roughly one scan in ten.
	assert.True(t, anyOK)
}

func TestRequestScanCancelledContextFails(t *testing.T) {
	p := NewPlatform()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan bool, 1)
	p.RequestScan(ctx, func(success bool) { done <- success })

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("scan callback never fired")
	}
}

func TestRequestScanLeavesNoGoroutineBehind(t *testing.T) {
	p := NewPlatform()

	before := runtime.NumGoroutine()
	done := make(chan bool, 8)
	for i := 0; i < 8; i++ {
		p.RequestScan(context.Background(), func(success bool) { done <- success })
	}
	for i := 0; i < 8; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("scan callback never fired")
		}
	}

	require.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+1
	}, 2*time.Second, 50*time.Millisecond, "scan requests must not leave goroutines running")
}
