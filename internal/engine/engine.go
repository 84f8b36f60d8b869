package engine

import (
	"context"

	"ptd/internal/engine/interfaces"
	"ptd/internal/models"
	"ptd/internal/providers"
	"ptd/internal/services"
	"ptd/internal/structures"

	"github.com/jonboulle/clockwork"
	"go.uber.org/atomic"
)

// eventQueueSize bounds the ingest channel. Poll batches and ticks are
// coarse; a backlog this deep means the run loop is stuck, and dropping
// with a warning beats blocking the scheduler.
const eventQueueSize = 64

type eventKind int

const (
	eventTimers eventKind = iota
	eventAlerts
	eventTick
)

type event struct {
	kind     eventKind
	timers   []models.TimerRecord
	full     bool
	triggers []models.AlertTrigger
}

// EngineInterface is the surface controllers talk to.
type EngineInterface interface {
	Start(branchID string) error
	Stop()
	Running() bool
	BranchID() string
	LastSyncError() error

	Snapshot() []*models.Timer
	ActiveAlerts() []*models.AlertRecord
	Extend(ctx context.Context, timerID string, minutes int) (*models.Timer, error)
	Acknowledge(timerID string, thresholdMinutes int) error

	IngestTimers(records []models.TimerRecord, full bool)
	IngestAlerts(triggers []models.AlertTrigger)
	IngestTick()
}

// TimerEngine serializes all state mutation through one run loop: timer
// batches, alert triggers and countdown ticks arrive on a single channel,
// so the reconciler and alert manager never interleave.
type TimerEngine struct {
	conf       *structures.Config
	service    services.TimerServiceInterface
	backend    interfaces.BackendInterface
	reconciler *Reconciler
	countdown  *Countdown
	alerts     *AlertManager
	extender   *Extender
	pins       *models.PinStore
	scheduler  interfaces.SchedulerInterface
	clock      clockwork.Clock
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface

	running     atomic.Bool
	branch      atomic.String
	lastSyncErr atomic.Error

	events chan event
	quit   chan struct{}
	done   chan struct{}
}

// NewTimerEngine builds the engine without a scheduler attached; the
// scheduler constructor attaches itself, breaking the construction cycle
// between the two.
func NewTimerEngine(conf *structures.Config, service services.TimerServiceInterface, backend interfaces.BackendInterface, reconciler *Reconciler, countdown *Countdown, alerts *AlertManager, extender *Extender, pins *models.PinStore, clock clockwork.Clock, logger providers.Logger, metrics providers.MetricsProviderInterface) *TimerEngine {
	return &TimerEngine{
		conf:       conf,
		service:    service,
		backend:    backend,
		reconciler: reconciler,
		countdown:  countdown,
		alerts:     alerts,
		extender:   extender,
		pins:       pins,
		clock:      clock,
		logger:     logger,
		metrics:    metrics,
	}
}

// Start attaches the engine to a branch, loads the initial snapshot and
// begins the scheduled poll/tick cycle. A second Start without an
// intervening Stop fails even for the same branch.
func (e *TimerEngine) Start(branchID string) error {
	if branchID == "" {
		return ErrEmptyBranch
	}
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	e.branch.Store(branchID)
	e.lastSyncErr.Store(nil)
	e.events = make(chan event, eventQueueSize)
	e.quit = make(chan struct{})
	e.done = make(chan struct{})
	go e.run()

	ctx, cancel := context.WithTimeout(context.Background(), e.conf.Backend.Timeout)
	defer cancel()
	records, err := e.backend.FetchActiveTimers(ctx, branchID)
	if err != nil {
		// Start still succeeds; the scheduler's next poll retries and the
		// health surface reports the degraded sync.
		e.lastSyncErr.Store(&TransportError{Op: "initial_snapshot", Err: err})
		e.logger.Warnf(providers.TypeEngine, "initial snapshot for branch %s failed: %s", branchID, err)
	} else {
		e.IngestTimers(records, true)
	}

	if e.scheduler != nil {
		e.scheduler.Init()
	}
	e.logger.Infof(providers.TypeEngine, "engine started for branch %s", branchID)
	return nil
}

// Stop halts scheduling, drains the run loop, silences sounds and clears
// pins. Timers stay in the repository so a display keeps its last state.
func (e *TimerEngine) Stop() {
	if !e.running.CompareAndSwap(true, false) {
		return
	}
	if e.scheduler != nil {
		e.scheduler.Stop()
	}
	close(e.quit)
	<-e.done

	e.alerts.StopSounds()
	e.pins.Clear()
	e.logger.Infof(providers.TypeEngine, "engine stopped for branch %s", e.branch.Load())
}

func (e *TimerEngine) Running() bool {
	return e.running.Load()
}

func (e *TimerEngine) BranchID() string {
	return e.branch.Load()
}

func (e *TimerEngine) LastSyncError() error {
	return e.lastSyncErr.Load()
}

// ReportSyncError records a failed poll cycle for the health surface.
func (e *TimerEngine) ReportSyncError(err error) {
	e.lastSyncErr.Store(err)
}

func (e *TimerEngine) ReportSyncOK() {
	e.lastSyncErr.Store(nil)
}

func (e *TimerEngine) Snapshot() []*models.Timer {
	return e.service.List()
}

func (e *TimerEngine) ActiveAlerts() []*models.AlertRecord {
	return e.alerts.Active()
}

func (e *TimerEngine) Extend(ctx context.Context, timerID string, minutes int) (*models.Timer, error) {
	if !e.running.Load() {
		return nil, ErrNotStarted
	}
	return e.extender.Extend(ctx, timerID, minutes)
}

func (e *TimerEngine) Acknowledge(timerID string, thresholdMinutes int) error {
	if !e.running.Load() {
		return ErrNotStarted
	}
	return e.alerts.Acknowledge(timerID, thresholdMinutes)
}

func (e *TimerEngine) IngestTimers(records []models.TimerRecord, full bool) {
	e.enqueue(event{kind: eventTimers, timers: records, full: full})
}

func (e *TimerEngine) IngestAlerts(triggers []models.AlertTrigger) {
	if len(triggers) == 0 {
		return
	}
	e.enqueue(event{kind: eventAlerts, triggers: triggers})
}

func (e *TimerEngine) IngestTick() {
	e.enqueue(event{kind: eventTick})
}

func (e *TimerEngine) enqueue(ev event) {
	if !e.running.Load() {
		return
	}
	select {
	case e.events <- ev:
	default:
		e.logger.Warnf(providers.TypeEngine, "event queue full, dropping %d event", ev.kind)
	}
}

func (e *TimerEngine) run() {
	defer close(e.done)
	for {
		select {
		case <-e.quit:
			return
		case ev := <-e.events:
			e.handle(ev)
		}
	}
}

func (e *TimerEngine) handle(ev event) {
	switch ev.kind {
	case eventTimers:
		res := e.reconciler.ApplyBatch(ev.timers, ev.full)
		for _, id := range res.Removed {
			e.alerts.DropTimer(id)
		}
		// A server-side extension arrives as a raised remaining time and
		// cancels outstanding alerts exactly as a local extension would.
		for _, rt := range res.Raised {
			e.alerts.CancelBelow(rt.ID, rt.RemainingSeconds)
		}
		if ev.full {
			e.alerts.Sweep()
		}
		if res.Inserted+res.Accepted+res.Rejected+len(res.Removed) > 0 {
			e.logger.Debugf(providers.TypeEngine, "batch reconciled: %d new, %d accepted, %d rejected, %d removed",
				res.Inserted, res.Accepted, res.Rejected, len(res.Removed))
		}

	case eventAlerts:
		for i := range ev.triggers {
			e.alerts.HandleTrigger(&ev.triggers[i])
		}

	case eventTick:
		res := e.countdown.Tick()
		for _, id := range res.Expired {
			e.alerts.DropTimer(id)
			e.pins.Resolve(id)
		}
	}
}

var _ EngineInterface = (*TimerEngine)(nil)
