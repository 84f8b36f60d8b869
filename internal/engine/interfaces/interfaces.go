package interfaces

import (
	"context"
	"ptd/internal/models"
)

// BackendInterface is the contract with the sale/timer backend. How its
// data actually travels (long-poll, WebSocket push, plain polling) is the
// adapter's business; the engine only sees these calls.
type BackendInterface interface {
	// FetchActiveTimers returns a full snapshot for the branch.
	FetchActiveTimers(ctx context.Context, branchID string) ([]models.TimerRecord, error)
	// PollTimerUpdates returns incremental timer updates since the last call.
	PollTimerUpdates(ctx context.Context, branchID string) ([]models.TimerRecord, error)
	// PollAlertTriggers returns threshold alerts pending for the branch.
	PollAlertTriggers(ctx context.Context, branchID string) ([]models.AlertTrigger, error)
	// SubmitExtension confirms an extension; the returned record, when
	// present, carries the authoritative post-extension state.
	SubmitExtension(ctx context.Context, saleID, timerID string, minutes int) (*models.TimerRecord, error)
	// AcknowledgeAlert is best-effort; failures are logged, never retried.
	AcknowledgeAlert(ctx context.Context, timerID string, thresholdMinutes int) error
}

// NotifierInterface is the staff-facing notification surface.
type NotifierInterface interface {
	NotifyUser(payload models.NotificationPayload) (string, error)
	DismissNotification(notificationID string)
}

// AudioPlayerInterface owns alert sound playback. Handles are keyed by
// threshold and reused across trigger/stop cycles.
type AudioPlayerInterface interface {
	Play(thresholdMinutes int, loop bool) error
	Stop(thresholdMinutes int)
}

type SchedulerInterface interface {
	Init()
	Stop()
}
