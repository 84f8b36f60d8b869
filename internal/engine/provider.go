package engine

import (
	"ptd/internal/engine/interfaces"
	"ptd/internal/models"
	"ptd/internal/providers"
	"ptd/internal/services"
	"ptd/internal/structures"

	"github.com/jonboulle/clockwork"
)

// NewEngine assembles the reconciler, countdown, alert manager, extender
// and scheduler around one TimerEngine.
func NewEngine(conf *structures.Config, service services.TimerServiceInterface, backend interfaces.BackendInterface, pins *models.PinStore, notifier interfaces.NotifierInterface, audio interfaces.AudioPlayerInterface, clock clockwork.Clock, logger providers.Logger, metrics providers.MetricsProviderInterface) EngineInterface {
	reconciler := NewReconciler(conf, service, pins, clock, logger, metrics)
	countdown := NewCountdown(service, clock, logger, metrics)
	alerts := NewAlertManager(conf, service, backend, notifier, audio, clock, logger, metrics)
	extender := NewExtender(service, backend, pins, reconciler, alerts, clock, logger, metrics)
	eng := NewTimerEngine(conf, service, backend, reconciler, countdown, alerts, extender, pins, clock, logger, metrics)
	NewScheduler(conf, logger, backend, eng)
	return eng
}

// NewPinStoreProvider builds the pin store from the reconcile tunables.
func NewPinStoreProvider(conf *structures.Config) *models.PinStore {
	return models.NewPinStore(conf.Reconcile.PinCooldown, conf.Reconcile.PinRetention)
}
