package engine

import (
	"time"

	"ptd/internal/models"
	"ptd/internal/providers"
	"ptd/internal/services"

	"github.com/jonboulle/clockwork"
)

type TickResult struct {
	Updated int
	// Expired lists timers whose remaining time hit zero on this tick and
	// which were removed from the repository.
	Expired []string
}

// Countdown recomputes remaining time for every stored timer once per tick.
// Remaining is always derived from EndAt against the current clock, never
// decremented, so a missed or late tick cannot cause drift.
type Countdown struct {
	service services.TimerServiceInterface
	clock   clockwork.Clock
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewCountdown(service services.TimerServiceInterface, clock clockwork.Clock, logger providers.Logger, metrics providers.MetricsProviderInterface) *Countdown {
	return &Countdown{
		service: service,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
	}
}

// Tick derives remaining time for all timers. Writes back only on change,
// so idle repositories stay untouched between server updates. The whole
// pass holds the service lock: an extension landing between the read and
// the write-back would otherwise be overwritten with a stale clone.
func (c *Countdown) Tick() TickResult {
	started := time.Now()
	now := c.clock.Now()
	var res TickResult

	c.service.Lock()
	defer c.service.Unlock()

	for _, t := range c.service.List() {
		remaining := t.RemainingAt(now)
		if remaining <= 0 && t.EndAt != nil {
			c.service.Remove(t.ID)
			res.Expired = append(res.Expired, t.ID)
			c.logger.Debugf(providers.TypeEngine, "timer %s expired", t.ID)
			continue
		}
		if remaining != t.TimeLeftSeconds {
			t.TimeLeftSeconds = remaining
			c.service.Upsert(t)
			res.Updated++
		}
	}

	c.metrics.ObserveTickDuration(time.Since(started))
	return res
}

// Remaining reports the derived remaining seconds for a single timer.
func (c *Countdown) Remaining(t *models.Timer) int {
	return t.RemainingAt(c.clock.Now())
}
