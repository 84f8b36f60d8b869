package models

import "time"

type SoundConfig struct {
	Enabled bool `json:"enabled"`
	Loop    bool `json:"loop"`
}

// AlertTrigger is a server-pushed threshold notification request.
type AlertTrigger struct {
	TimerID          string      `json:"timer_id"`
	ThresholdMinutes int         `json:"threshold_minutes"`
	Message          string      `json:"message,omitempty"`
	Sound            SoundConfig `json:"sound"`
}

// AlertRecord is one in-flight alert, keyed by (timer, threshold). It lives
// from trigger receipt until acknowledgment, extension past the threshold,
// or the owning timer's removal.
type AlertRecord struct {
	TimerID          string      `json:"timer_id"`
	ThresholdMinutes int         `json:"threshold_minutes"`
	Message          string      `json:"message,omitempty"`
	Severity         string      `json:"severity"`
	NotificationID   string      `json:"notification_id,omitempty"`
	Sound            SoundConfig `json:"sound"`
	TriggeredAt      time.Time   `json:"triggered_at"`
}

func (a *AlertRecord) Clone() *AlertRecord {
	cp := *a
	return &cp
}

// NotificationPayload is what the external notification surface receives.
type NotificationPayload struct {
	Title            string `json:"title"`
	Message          string `json:"message"`
	Severity         string `json:"severity"`
	TimerID          string `json:"timer_id"`
	ThresholdMinutes int    `json:"threshold_minutes"`
}
