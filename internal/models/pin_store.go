package models

import (
	"sync"
	"time"
)

// PinState classifies a timer's local pin for the staleness policy.
type PinState int

const (
	// PinNone: no pin, or the pin aged past retention — updates apply freely.
	PinNone PinState = iota
	// PinCooldown: a local optimistic write just happened; unstamped updates
	// must not drop remaining time by more than the configured tolerance.
	PinCooldown
	// PinAging: past the cooldown but inside retention; only large drops
	// are still rejected.
	PinAging
)

type LocalPin struct {
	TimerID  string
	PinnedAt time.Time
}

// PinStore tracks local pins protecting just-applied optimistic mutations.
// Pins expire in two steps: after the cooldown the strict tolerance rule
// relaxes to the large-drop rule, and after the retention window the pin is
// pruned entirely.
type PinStore struct {
	mu        sync.Mutex
	pins      map[string]LocalPin
	cooldown  time.Duration
	retention time.Duration
}

func NewPinStore(cooldown, retention time.Duration) *PinStore {
	if cooldown <= 0 {
		cooldown = 10 * time.Second
	}
	if retention < cooldown {
		retention = 2 * cooldown
	}
	return &PinStore{
		pins:      make(map[string]LocalPin),
		cooldown:  cooldown,
		retention: retention,
	}
}

func (p *PinStore) Pin(timerID string, now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pins[timerID] = LocalPin{TimerID: timerID, PinnedAt: now}
}

// State returns the pin phase for a timer, pruning the pin lazily once it
// ages past the retention window.
func (p *PinStore) State(timerID string, now time.Time) PinState {
	p.mu.Lock()
	defer p.mu.Unlock()
	pin, ok := p.pins[timerID]
	if !ok {
		return PinNone
	}
	age := now.Sub(pin.PinnedAt)
	switch {
	case age <= p.cooldown:
		return PinCooldown
	case age <= p.retention:
		return PinAging
	default:
		delete(p.pins, timerID)
		return PinNone
	}
}

// Resolve drops the pin once a server update confirmed the mutation.
func (p *PinStore) Resolve(timerID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.pins, timerID)
}

func (p *PinStore) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pins)
}

func (p *PinStore) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pins = make(map[string]LocalPin)
}
