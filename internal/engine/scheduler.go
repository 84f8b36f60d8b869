package engine

import (
	"context"
	"sync"

	"ptd/internal/engine/interfaces"
	"ptd/internal/providers"
	"ptd/internal/structures"

	"github.com/roylee0704/gron"
)

// Scheduler drives the engine's periodic work: a fast countdown tick and a
// slower backend poll cycle. Polls are serialized with opsMu so a slow
// backend cannot stack overlapping requests.
type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	backend interfaces.BackendInterface
	engine  *TimerEngine
	cron    *gron.Cron
	opsMu   sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Engine.TickInterval), func() {
		s.engine.IngestTick()
	})

	s.cron.AddFunc(gron.Every(s.config.Engine.PollInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()
		s.pollOnce()
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// pollOnce runs one poll cycle: incremental timer updates, then pending
// alert triggers. Either failure marks the sync degraded; the next cycle
// retries from scratch.
func (s *Scheduler) pollOnce() {
	branch := s.engine.BranchID()
	if branch == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Backend.Timeout)
	defer cancel()

	records, err := s.backend.PollTimerUpdates(ctx, branch)
	if err != nil {
		s.engine.ReportSyncError(&TransportError{Op: "poll_timers", Err: err})
		s.logger.Warnf(providers.TypeEngine, "timer poll failed: %s", err)
		return
	}
	s.engine.IngestTimers(records, false)

	triggers, err := s.backend.PollAlertTriggers(ctx, branch)
	if err != nil {
		s.engine.ReportSyncError(&TransportError{Op: "poll_alerts", Err: err})
		s.logger.Warnf(providers.TypeEngine, "alert poll failed: %s", err)
		return
	}
	s.engine.IngestAlerts(triggers)

	s.engine.ReportSyncOK()
}

func NewScheduler(config *structures.Config, logger providers.Logger, backend interfaces.BackendInterface, engine *TimerEngine) interfaces.SchedulerInterface {
	s := &Scheduler{
		config:  config,
		logger:  logger,
		backend: backend,
		engine:  engine,
	}
	engine.scheduler = s
	return s
}
