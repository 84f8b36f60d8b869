package providers

import "github.com/jonboulle/clockwork"

// NewClockProvider supplies the single clock source every time-dependent
// component shares. Tests swap in clockwork.NewFakeClock.
func NewClockProvider() clockwork.Clock {
	return clockwork.NewRealClock()
}
