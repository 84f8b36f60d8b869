package models

import (
	"math"
	"time"
)

type TimerStatus string

const (
	StatusScheduled TimerStatus = "scheduled"
	StatusActive    TimerStatus = "active"
	StatusExtended  TimerStatus = "extended"
	StatusEnded     TimerStatus = "ended"
)

// Active reports whether the status belongs to the active collection.
// Ended (or unknown) timers are removed, never stored.
func (s TimerStatus) Active() bool {
	switch s {
	case StatusScheduled, StatusActive, StatusExtended:
		return true
	}
	return false
}

type Occupant struct {
	Name string `json:"name"`
	Age  int    `json:"age,omitempty"`
}

// Timer is one active play-session. EndAt is the source of truth for
// remaining time; TimeLeftSeconds is a derived cache refreshed by the
// countdown tick, kept only as a fallback for timers the server reports
// without an absolute end time.
type Timer struct {
	ID              string       `json:"id"`
	SaleID          string       `json:"sale_id"`
	ServiceID       string       `json:"service_id"`
	Occupants       []Occupant   `json:"occupants,omitempty"`
	EndAt           *time.Time   `json:"end_at,omitempty"`
	Status          TimerStatus  `json:"status"`
	TimeLeftSeconds int          `json:"time_left_seconds"`
	UpdatedAt       *UpdateStamp `json:"updated_at,omitempty"`
}

// RemainingAt derives the remaining seconds at the given instant.
// Timers without an end time keep their last cached value.
func (t *Timer) RemainingAt(now time.Time) int {
	if t.EndAt == nil {
		return t.TimeLeftSeconds
	}
	left := int(math.Round(t.EndAt.Sub(now).Seconds()))
	if left < 0 {
		return 0
	}
	return left
}

// Alive reports whether the timer still belongs in the active collection.
func (t *Timer) Alive(now time.Time) bool {
	return t.Status.Active() && t.RemainingAt(now) > 0
}

func (t *Timer) Clone() *Timer {
	cp := *t
	if t.EndAt != nil {
		end := *t.EndAt
		cp.EndAt = &end
	}
	if t.UpdatedAt != nil {
		stamp := *t.UpdatedAt
		cp.UpdatedAt = &stamp
	}
	if t.Occupants != nil {
		cp.Occupants = make([]Occupant, len(t.Occupants))
		copy(cp.Occupants, t.Occupants)
	}
	return &cp
}
