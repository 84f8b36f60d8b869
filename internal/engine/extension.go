package engine

import (
	"context"
	"sync"
	"time"

	"ptd/internal/engine/interfaces"
	"ptd/internal/models"
	"ptd/internal/providers"
	"ptd/internal/services"

	"github.com/jonboulle/clockwork"
)

// Extender applies time extensions optimistically: the local timer jumps
// forward before the backend confirms, so the kiosk display never lags the
// operator's action. The pin placed alongside shields that jump from a
// racing poll; on backend rejection the exact pre-extension state rolls
// back.
type Extender struct {
	mu sync.Mutex

	service    services.TimerServiceInterface
	backend    interfaces.BackendInterface
	pins       *models.PinStore
	reconciler *Reconciler
	alerts     *AlertManager
	clock      clockwork.Clock
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewExtender(service services.TimerServiceInterface, backend interfaces.BackendInterface, pins *models.PinStore, reconciler *Reconciler, alerts *AlertManager, clock clockwork.Clock, logger providers.Logger, metrics providers.MetricsProviderInterface) *Extender {
	return &Extender{
		service:    service,
		backend:    backend,
		pins:       pins,
		reconciler: reconciler,
		alerts:     alerts,
		clock:      clock,
		logger:     logger,
		metrics:    metrics,
	}
}

// Extend adds minutes to a timer and confirms with the backend. Serialized:
// two concurrent extensions of the same timer would otherwise race on the
// rollback snapshot.
func (e *Extender) Extend(ctx context.Context, timerID string, minutes int) (*models.Timer, error) {
	if minutes <= 0 {
		e.metrics.IncExtension("invalid")
		return nil, ErrInvalidExtension
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// The read-clone-write below must not interleave with a tick recompute
	// or a reconcile batch; the service lock is released before the backend
	// round-trip so ticks keep running while the confirmation is in flight.
	e.service.Lock()
	cur, ok := e.service.Get(timerID)
	if !ok {
		e.service.Unlock()
		e.metrics.IncExtension("not_found")
		return nil, ErrTimerNotFound
	}
	prev := cur.Clone()

	now := e.clock.Now()
	updated := cur.Clone()
	if updated.EndAt != nil {
		end := updated.EndAt.Add(time.Duration(minutes) * time.Minute)
		updated.EndAt = &end
		updated.TimeLeftSeconds = updated.RemainingAt(now)
	} else {
		updated.TimeLeftSeconds += minutes * 60
	}
	updated.Status = models.StatusExtended

	// Pin before the upsert so no poll window sees the new value unpinned.
	e.pins.Pin(timerID, now)
	e.service.Upsert(updated)
	e.service.Unlock()

	e.alerts.CancelBelow(timerID, updated.TimeLeftSeconds)
	e.logger.Infof(providers.TypeEngine, "timer %s extended by %dm, %ds remaining", timerID, minutes, updated.TimeLeftSeconds)

	rec, err := e.backend.SubmitExtension(ctx, updated.SaleID, timerID, minutes)
	if err != nil {
		// Exact rollback, nothing derived: the kiosk returns to precisely
		// what it showed before the attempt.
		e.service.Lock()
		e.service.Upsert(prev)
		e.service.Unlock()
		e.pins.Resolve(timerID)
		e.metrics.IncExtension("failed")
		e.logger.Warnf(providers.TypeEngine, "extension of %s rolled back: %s", timerID, err)
		return nil, &TransportError{Op: "submit_extension", Err: err}
	}

	if rec != nil {
		// Authoritative state from the backend supersedes the optimistic
		// one; a stamped record also resolves the pin.
		e.reconciler.Apply(rec)
	}
	e.metrics.IncExtension("ok")

	final, ok := e.service.Get(timerID)
	if !ok {
		return updated, nil
	}
	return final, nil
}
