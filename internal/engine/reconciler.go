package engine

import (
	"ptd/internal/models"
	"ptd/internal/providers"
	"ptd/internal/services"
	"ptd/internal/structures"

	"github.com/jonboulle/clockwork"
)

// Outcome is the reconciler's per-record decision.
type Outcome int

const (
	// OutcomeNew: no prior record, inserted.
	OutcomeNew Outcome = iota
	// OutcomeAccepted: incoming record replaced the stored one.
	OutcomeAccepted
	// OutcomeRejected: incoming record judged stale, stored one kept.
	// Not an error; at most debug-logged.
	OutcomeRejected
	// OutcomeRemoved: record is dead (expired or ended) and the stored
	// entry was removed.
	OutcomeRemoved
	// OutcomeDropped: record is dead and nothing was stored to begin with.
	OutcomeDropped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNew:
		return "new"
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejected:
		return "rejected"
	case OutcomeRemoved:
		return "removed"
	default:
		return "dropped"
	}
}

// RaisedTimer marks a timer whose remaining time grew during a batch. An
// extension applied by another client arrives this way, and alerts below
// the new remaining must be cancelled just as for a local extension.
type RaisedTimer struct {
	ID               string
	RemainingSeconds int
}

type BatchResult struct {
	Inserted int
	Accepted int
	Rejected int
	// Removed lists timer ids expelled from the repository during the
	// batch, so the alert lifecycle can drop their alerts.
	Removed []string
	// Raised lists accepted records that increased a stored timer's
	// remaining time.
	Raised []RaisedTimer
}

// Reconciler merges server-reported timer records into local state. The
// staleness policy favors visible continuity: a racing poll must not yank
// an operator's just-applied extension backward on screen.
type Reconciler struct {
	conf    structures.ReconcileConfig
	service services.TimerServiceInterface
	pins    *models.PinStore
	clock   clockwork.Clock
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewReconciler(conf *structures.Config, service services.TimerServiceInterface, pins *models.PinStore, clock clockwork.Clock, logger providers.Logger, metrics providers.MetricsProviderInterface) *Reconciler {
	return &Reconciler{
		conf:    conf.Reconcile,
		service: service,
		pins:    pins,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
	}
}

// Apply reconciles one incoming record against current state.
func (r *Reconciler) Apply(rec *models.TimerRecord) Outcome {
	r.service.Lock()
	defer r.service.Unlock()
	return r.applyCounted(rec)
}

func (r *Reconciler) applyCounted(rec *models.TimerRecord) Outcome {
	out := r.apply(rec)
	r.metrics.IncReconcileOutcome(out.String())
	return out
}

func (r *Reconciler) apply(rec *models.TimerRecord) Outcome {
	if rec == nil || rec.ID == "" {
		return OutcomeDropped
	}
	now := r.clock.Now()
	incoming := rec.ToTimer(now)

	// Dead records are never upserted; a present entry is removed instead.
	if !incoming.Alive(now) {
		if _, ok := r.service.Get(incoming.ID); ok {
			r.service.Remove(incoming.ID)
			r.pins.Resolve(incoming.ID)
			return OutcomeRemoved
		}
		return OutcomeDropped
	}

	cur, ok := r.service.Get(incoming.ID)
	if !ok {
		r.service.Upsert(incoming)
		return OutcomeNew
	}

	// Authoritative path: both sides carry a server timestamp.
	if incoming.UpdatedAt != nil && cur.UpdatedAt != nil {
		if incoming.UpdatedAt.Before(*cur.UpdatedAt) {
			r.logger.Debugf(providers.TypeEngine, "stale update rejected for %s: %s < %s",
				incoming.ID, incoming.UpdatedAt, cur.UpdatedAt)
			return OutcomeRejected
		}
		r.service.Upsert(incoming)
		r.pins.Resolve(incoming.ID)
		return OutcomeAccepted
	}

	// Heuristic path: no usable timestamps, fall back to the local pin.
	// An accepted unstamped record carries the last known server stamp
	// forward, so a later genuinely stale stamped record still loses the
	// timestamp comparison instead of slipping into this path.
	if incoming.UpdatedAt == nil {
		incoming.UpdatedAt = cur.UpdatedAt
	}
	curLeft := cur.RemainingAt(now)
	inLeft := incoming.RemainingAt(now)

	switch r.pins.State(incoming.ID, now) {
	case models.PinNone:
		r.service.Upsert(incoming)
		return OutcomeAccepted

	case models.PinCooldown:
		tolerance := int(r.conf.DropTolerance.Seconds())
		if inLeft < curLeft-tolerance {
			r.logger.Debugf(providers.TypeEngine, "pinned update rejected for %s: %ds -> %ds exceeds %ds tolerance",
				incoming.ID, curLeft, inLeft, tolerance)
			return OutcomeRejected
		}
		r.service.Upsert(incoming)
		// Time increased or held: the server has seen the mutation.
		// A merely-tolerated small drop keeps the pin filtering.
		if inLeft >= curLeft {
			r.pins.Resolve(incoming.ID)
		}
		return OutcomeAccepted

	default: // models.PinAging
		largeDrop := int(r.conf.LargeDropThreshold.Seconds())
		if curLeft-inLeft > largeDrop {
			r.logger.Debugf(providers.TypeEngine, "suspicious drop rejected for %s: %ds -> %ds",
				incoming.ID, curLeft, inLeft)
			return OutcomeRejected
		}
		r.service.Upsert(incoming)
		r.pins.Resolve(incoming.ID)
		return OutcomeAccepted
	}
}

// ApplyBatch reconciles a poll/push batch. Full snapshots additionally
// expel stored timers the server no longer reports, except timers whose
// pin is still in its cooldown — a snapshot taken just before an extension
// must not delete the extended timer.
func (r *Reconciler) ApplyBatch(records []models.TimerRecord, full bool) BatchResult {
	var res BatchResult
	seen := make(map[string]bool, len(records))

	r.service.Lock()
	defer r.service.Unlock()

	for i := range records {
		rec := &records[i]
		seen[rec.ID] = true

		var before int
		prior, had := r.service.Get(rec.ID)
		if had {
			before = prior.RemainingAt(r.clock.Now())
		}

		switch r.applyCounted(rec) {
		case OutcomeNew:
			res.Inserted++
		case OutcomeAccepted:
			res.Accepted++
			if stored, ok := r.service.Get(rec.ID); ok && had {
				after := stored.RemainingAt(r.clock.Now())
				if after > before {
					res.Raised = append(res.Raised, RaisedTimer{ID: rec.ID, RemainingSeconds: after})
				}
			}
		case OutcomeRejected:
			res.Rejected++
		case OutcomeRemoved:
			res.Removed = append(res.Removed, rec.ID)
		}
	}

	if full {
		now := r.clock.Now()
		for _, id := range r.service.IDs() {
			if seen[id] {
				continue
			}
			if r.pins.State(id, now) == models.PinCooldown {
				continue
			}
			r.service.Remove(id)
			res.Removed = append(res.Removed, id)
			r.metrics.IncReconcileOutcome(OutcomeRemoved.String())
		}
	}

	return res
}
