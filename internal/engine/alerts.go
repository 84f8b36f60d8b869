package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"ptd/internal/engine/interfaces"
	"ptd/internal/models"
	"ptd/internal/providers"
	"ptd/internal/services"
	"ptd/internal/structures"

	"github.com/jonboulle/clockwork"
)

const ackTimeout = 5 * time.Second

type alertKey struct {
	TimerID          string
	ThresholdMinutes int
}

// soundHandle refcounts playback per threshold: several timers crossing the
// same threshold share one sound, and it stops only when the last of them
// is acknowledged or cancelled.
type soundHandle struct {
	count     int
	loop      bool
	stopTimer clockwork.Timer
}

// AlertManager owns the alert lifecycle from trigger receipt to
// acknowledgment. All mutating entry points are serialized behind one
// mutex; the engine run loop is the main caller, controllers the second.
type AlertManager struct {
	mu sync.Mutex

	conf        structures.AlertsConfig
	displayOnly bool

	service  services.TimerServiceInterface
	backend  interfaces.BackendInterface
	notifier interfaces.NotifierInterface
	audio    interfaces.AudioPlayerInterface
	clock    clockwork.Clock
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface

	active map[alertKey]*models.AlertRecord
	// fired keeps every threshold that ever alerted per timer, so a
	// re-delivered trigger cannot re-alert after acknowledgment. Bits are
	// cleared only when an extension moves remaining time back above them.
	fired map[string]*models.ThresholdSet
	sounds map[int]*soundHandle
}

func NewAlertManager(conf *structures.Config, service services.TimerServiceInterface, backend interfaces.BackendInterface, notifier interfaces.NotifierInterface, audio interfaces.AudioPlayerInterface, clock clockwork.Clock, logger providers.Logger, metrics providers.MetricsProviderInterface) *AlertManager {
	return &AlertManager{
		conf:        conf.Alerts,
		displayOnly: conf.Engine.DisplayOnly,
		service:     service,
		backend:     backend,
		notifier:    notifier,
		audio:       audio,
		clock:       clock,
		logger:      logger,
		metrics:     metrics,
		active:      make(map[alertKey]*models.AlertRecord),
		fired:       make(map[string]*models.ThresholdSet),
		sounds:      make(map[int]*soundHandle),
	}
}

// HandleTrigger processes one server-pushed threshold alert. Triggers for
// unknown timers are dropped, duplicates (active or already fired) are
// ignored.
func (m *AlertManager) HandleTrigger(trig *models.AlertTrigger) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if trig == nil || trig.TimerID == "" {
		return
	}
	timer, ok := m.service.Get(trig.TimerID)
	if !ok {
		m.logger.Debugf(providers.TypeAlert, "trigger for unknown timer %s dropped", trig.TimerID)
		return
	}

	key := alertKey{TimerID: trig.TimerID, ThresholdMinutes: trig.ThresholdMinutes}
	if _, dup := m.active[key]; dup {
		return
	}
	if set, ok := m.fired[trig.TimerID]; ok && set.Fired(trig.ThresholdMinutes) {
		return
	}

	rec := &models.AlertRecord{
		TimerID:          trig.TimerID,
		ThresholdMinutes: trig.ThresholdMinutes,
		Message:          trig.Message,
		Severity:         severityFor(trig.ThresholdMinutes),
		Sound:            trig.Sound,
		TriggeredAt:      m.clock.Now(),
	}
	if rec.Message == "" {
		rec.Message = fmt.Sprintf("%d minutes remaining for %s", trig.ThresholdMinutes, timer.SaleID)
	}

	if !m.displayOnly {
		id, err := m.notifier.NotifyUser(models.NotificationPayload{
			Title:            "Play time alert",
			Message:          rec.Message,
			Severity:         rec.Severity,
			TimerID:          rec.TimerID,
			ThresholdMinutes: rec.ThresholdMinutes,
		})
		if err != nil {
			m.logger.Warnf(providers.TypeAlert, "notification failed for %s/%dm: %s", rec.TimerID, rec.ThresholdMinutes, err)
		} else {
			rec.NotificationID = id
		}
		if trig.Sound.Enabled {
			m.acquireSound(trig.ThresholdMinutes, trig.Sound.Loop)
		}
	}

	m.active[key] = rec
	m.markFired(trig.TimerID, trig.ThresholdMinutes)
	m.metrics.SetActiveAlerts(len(m.active))
	m.logger.Infof(providers.TypeAlert, "alert %s/%dm raised (%s)", rec.TimerID, rec.ThresholdMinutes, rec.Severity)
}

// Acknowledge resolves one active alert. The backend ack is fired
// asynchronously and best-effort: a failed ack never resurrects the alert.
func (m *AlertManager) Acknowledge(timerID string, thresholdMinutes int) error {
	m.mu.Lock()
	key := alertKey{TimerID: timerID, ThresholdMinutes: thresholdMinutes}
	rec, ok := m.active[key]
	if !ok {
		m.mu.Unlock()
		return ErrAlertNotFound
	}
	m.resolveLocked(key, rec)
	m.mu.Unlock()

	go m.ackBackend(timerID, thresholdMinutes)
	return nil
}

func (m *AlertManager) ackBackend(timerID string, thresholdMinutes int) {
	ctx, cancel := context.WithTimeout(context.Background(), ackTimeout)
	defer cancel()
	if err := m.backend.AcknowledgeAlert(ctx, timerID, thresholdMinutes); err != nil {
		m.metrics.IncAckFailures()
		m.logger.Warnf(providers.TypeAlert, "ack %s/%dm not delivered: %s", timerID, thresholdMinutes, err)
	}
}

// CancelBelow dismisses alerts whose threshold now lies under the timer's
// remaining time, as after an extension. No backend ack is sent: the server
// sees the extension itself and re-triggers when the threshold is crossed
// again. Fired bits below the new remaining are cleared to allow that.
func (m *AlertManager) CancelBelow(timerID string, remainingSeconds int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, rec := range m.active {
		if key.TimerID != timerID {
			continue
		}
		if key.ThresholdMinutes*60 < remainingSeconds {
			m.resolveLocked(key, rec)
			m.logger.Debugf(providers.TypeAlert, "alert %s/%dm cancelled by extension", key.TimerID, key.ThresholdMinutes)
		}
	}
	if set, ok := m.fired[timerID]; ok {
		set.ClearBelow(remainingSeconds / 60)
		if set.Empty() {
			delete(m.fired, timerID)
		}
	}
}

// DropTimer clears everything held for a removed timer.
func (m *AlertManager) DropTimer(timerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, rec := range m.active {
		if key.TimerID == timerID {
			m.resolveLocked(key, rec)
		}
	}
	delete(m.fired, timerID)
}

// Sweep drops alert state for timers no longer in the repository. Called
// after reconciliation batches.
func (m *AlertManager) Sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, rec := range m.active {
		if _, ok := m.service.Get(key.TimerID); !ok {
			m.resolveLocked(key, rec)
		}
	}
	for id, set := range m.fired {
		if _, ok := m.service.Get(id); !ok || set.Empty() {
			delete(m.fired, id)
		}
	}
}

// Active returns the in-flight alerts, most urgent threshold first.
func (m *AlertManager) Active() []*models.AlertRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.AlertRecord, 0, len(m.active))
	for _, rec := range m.active {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ThresholdMinutes != out[j].ThresholdMinutes {
			return out[i].ThresholdMinutes < out[j].ThresholdMinutes
		}
		return out[i].TimerID < out[j].TimerID
	})
	return out
}

func (m *AlertManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

// StopSounds halts all playback and releases every handle. Used on engine
// stop; active alert records are left alone.
func (m *AlertManager) StopSounds() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for threshold, h := range m.sounds {
		if h.stopTimer != nil {
			h.stopTimer.Stop()
		}
		m.audio.Stop(threshold)
		delete(m.sounds, threshold)
	}
}

// resolveLocked removes one alert, dismisses its notification and releases
// its sound handle. Caller holds m.mu.
func (m *AlertManager) resolveLocked(key alertKey, rec *models.AlertRecord) {
	delete(m.active, key)
	if rec.NotificationID != "" {
		m.notifier.DismissNotification(rec.NotificationID)
	}
	if rec.Sound.Enabled && !m.displayOnly {
		m.releaseSound(key.ThresholdMinutes)
	}
	m.metrics.SetActiveAlerts(len(m.active))
}

func (m *AlertManager) markFired(timerID string, thresholdMinutes int) {
	set, ok := m.fired[timerID]
	if !ok {
		set = models.NewThresholdSet()
		m.fired[timerID] = set
	}
	set.Mark(thresholdMinutes)
}

func (m *AlertManager) acquireSound(thresholdMinutes int, loop bool) {
	h, ok := m.sounds[thresholdMinutes]
	if ok {
		h.count++
		return
	}
	if err := m.audio.Play(thresholdMinutes, loop); err != nil {
		m.logger.Warnf(providers.TypeAlert, "sound for %dm threshold failed: %s", thresholdMinutes, err)
		return
	}
	h = &soundHandle{count: 1, loop: loop}
	if !loop {
		// One-shot sounds stop themselves; the handle stays refcounted so
		// a later release is a no-op on the player.
		h.stopTimer = m.clock.AfterFunc(m.conf.SoundDuration, func() {
			m.audio.Stop(thresholdMinutes)
		})
	}
	m.sounds[thresholdMinutes] = h
}

func (m *AlertManager) releaseSound(thresholdMinutes int) {
	h, ok := m.sounds[thresholdMinutes]
	if !ok {
		return
	}
	h.count--
	if h.count > 0 {
		return
	}
	if h.stopTimer != nil {
		h.stopTimer.Stop()
	}
	m.audio.Stop(thresholdMinutes)
	delete(m.sounds, thresholdMinutes)
}

// severityFor maps urgency to notification severity: one minute or less is
// critical, up to five minutes warning, everything above informational.
func severityFor(thresholdMinutes int) string {
	switch {
	case thresholdMinutes <= 1:
		return "critical"
	case thresholdMinutes <= 5:
		return "warning"
	default:
		return "info"
	}
}
