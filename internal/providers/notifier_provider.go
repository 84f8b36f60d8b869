package providers

import (
	"ptd/internal/engine/interfaces"
	"ptd/internal/models"

	"github.com/google/uuid"
)

// LogNotifier is the default notification surface for headless deployments:
// notifications land in the alert log and the returned ids let the alert
// manager dismiss them symmetrically.
type LogNotifier struct {
	logger Logger
}

func NewNotifierProvider(logger Logger) interfaces.NotifierInterface {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyUser(payload models.NotificationPayload) (string, error) {
	id := uuid.NewString()
	switch payload.Severity {
	case "critical":
		n.logger.Errorf(TypeAlert, "[%s] %s: %s (timer=%s threshold=%dm)",
			id, payload.Title, payload.Message, payload.TimerID, payload.ThresholdMinutes)
	case "warning":
		n.logger.Warnf(TypeAlert, "[%s] %s: %s (timer=%s threshold=%dm)",
			id, payload.Title, payload.Message, payload.TimerID, payload.ThresholdMinutes)
	default:
		n.logger.Infof(TypeAlert, "[%s] %s: %s (timer=%s threshold=%dm)",
			id, payload.Title, payload.Message, payload.TimerID, payload.ThresholdMinutes)
	}
	return id, nil
}

func (n *LogNotifier) DismissNotification(notificationID string) {
	n.logger.Debugf(TypeAlert, "notification %s dismissed", notificationID)
}
