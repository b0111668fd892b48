package tracker

import (
	"time"

	"github.com/lcalzada-xor/wifitrack/internal/core/ports"
)

// systemClock is the default ports.Clock backed by the runtime timer.
type systemClock struct{}

// SystemClock returns the wall-clock implementation used outside tests.
func SystemClock() ports.Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) ports.Timer {
	return time.AfterFunc(d, f)
}
