package models

import (
	"strings"
	"time"

	"github.com/spf13/cast"
)

// TimerRecord is the wire shape of a server-reported timer. Scalars arrive
// as strings or numbers depending on the backend revision, hence the
// interface{} fields resolved with cast.
type TimerRecord struct {
	ID           string       `json:"id"`
	SaleID       string       `json:"sale_id"`
	ServiceID    string       `json:"service_id"`
	Occupants    []Occupant   `json:"occupants,omitempty"`
	OccupantName string       `json:"occupant_name,omitempty"`
	OccupantAge  interface{}  `json:"occupant_age,omitempty"`
	EndAt        *time.Time   `json:"end_at,omitempty"`
	Status       string       `json:"status"`
	TimeLeft     interface{}  `json:"time_left_seconds"`
	UpdatedAt    *UpdateStamp `json:"updated_at,omitempty"`
}

// ToTimer converts the record into a Timer entity, deriving remaining time
// from EndAt when present and falling back to the reported value otherwise.
func (r *TimerRecord) ToTimer(now time.Time) *Timer {
	status := strings.ToLower(strings.TrimSpace(r.Status))
	if status == "" {
		// Older backend revisions omit status for running timers.
		status = string(StatusActive)
	}
	t := &Timer{
		ID:        r.ID,
		SaleID:    r.SaleID,
		ServiceID: r.ServiceID,
		Status:    TimerStatus(status),
		UpdatedAt: r.UpdatedAt,
	}
	if len(r.Occupants) > 0 {
		t.Occupants = make([]Occupant, len(r.Occupants))
		copy(t.Occupants, r.Occupants)
	} else if r.OccupantName != "" {
		t.Occupants = []Occupant{{Name: r.OccupantName, Age: cast.ToInt(r.OccupantAge)}}
	}
	if r.EndAt != nil {
		end := *r.EndAt
		t.EndAt = &end
		t.TimeLeftSeconds = t.RemainingAt(now)
	} else {
		t.TimeLeftSeconds = cast.ToInt(r.TimeLeft)
	}
	return t
}
