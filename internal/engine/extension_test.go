package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ptd/internal/models"
	"ptd/internal/services"
	"ptd/internal/testutil"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type extensionFixture struct {
	service  services.TimerServiceInterface
	backend  *testutil.MockBackend
	notifier *testutil.MockNotifier
	pins     *models.PinStore
	clock    *clockwork.FakeClock
	metrics  *testutil.MockMetrics
	rec      *Reconciler
	alerts   *AlertManager
	ext      *Extender
}

func newExtensionFixture(t *testing.T) *extensionFixture {
	t.Helper()
	conf := testConfig()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC))
	service := services.NewTimerService()
	pins := models.NewPinStore(conf.Reconcile.PinCooldown, conf.Reconcile.PinRetention)
	metrics := testutil.NewMockMetrics()
	logger := &testutil.MockLogger{}
	backend := &testutil.MockBackend{}
	notifier := &testutil.MockNotifier{}
	rec := NewReconciler(conf, service, pins, clock, logger, metrics)
	alerts := NewAlertManager(conf, service, backend, notifier, &testutil.MockAudio{}, clock, logger, metrics)
	ext := NewExtender(service, backend, pins, rec, alerts, clock, logger, metrics)
	return &extensionFixture{
		service: service, backend: backend, notifier: notifier, pins: pins,
		clock: clock, metrics: metrics, rec: rec, alerts: alerts, ext: ext,
	}
}

func (f *extensionFixture) addTimer(id string, remaining int) {
	end := f.clock.Now().Add(time.Duration(remaining) * time.Second)
	f.service.Upsert(&models.Timer{
		ID: id, SaleID: "sale-" + id, EndAt: &end,
		Status: models.StatusActive, TimeLeftSeconds: remaining,
	})
}

func TestExtend_OptimisticJump(t *testing.T) {
	f := newExtensionFixture(t)
	f.addTimer("t1", 30)

	got, err := f.ext.Extend(context.Background(), "t1", 10)
	require.NoError(t, err)

	// 30s + 10min, applied before the backend answered
	assert.Equal(t, 630, got.TimeLeftSeconds)
	assert.Equal(t, models.StatusExtended, got.Status)

	require.Len(t, f.backend.ExtendCalls, 1)
	assert.Equal(t, "sale-t1", f.backend.ExtendCalls[0].SaleID)
	assert.Equal(t, 10, f.backend.ExtendCalls[0].Minutes)
	assert.Equal(t, 1, f.metrics.Extension("ok"))
}

func TestExtend_PinShieldsRacingPoll(t *testing.T) {
	f := newExtensionFixture(t)
	f.addTimer("t1", 30)

	_, err := f.ext.Extend(context.Background(), "t1", 10)
	require.NoError(t, err)

	// a poll still carrying the pre-extension value arrives
	out := f.rec.Apply(&models.TimerRecord{ID: "t1", SaleID: "sale-t1", Status: "active", TimeLeft: 28})

	assert.Equal(t, OutcomeRejected, out)
	got, _ := f.service.Get("t1")
	assert.Equal(t, 630, got.TimeLeftSeconds)
}

func TestExtend_RollbackOnBackendFailure(t *testing.T) {
	f := newExtensionFixture(t)
	f.addTimer("t1", 30)
	f.backend.ExtendFn = func(_ context.Context, _, _ string, _ int) (*models.TimerRecord, error) {
		return nil, errors.New("payment required")
	}

	_, err := f.ext.Extend(context.Background(), "t1", 10)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "submit_extension", transportErr.Op)

	// exact rollback: the timer shows precisely its pre-extension state
	got, _ := f.service.Get("t1")
	assert.Equal(t, 30, got.TimeLeftSeconds)
	assert.Equal(t, models.StatusActive, got.Status)
	assert.Equal(t, 0, f.pins.Len())
	assert.Equal(t, 1, f.metrics.Extension("failed"))
}

func TestExtend_UnknownTimer(t *testing.T) {
	f := newExtensionFixture(t)

	_, err := f.ext.Extend(context.Background(), "ghost", 10)
	assert.ErrorIs(t, err, ErrTimerNotFound)
	assert.Empty(t, f.backend.ExtendCalls)
}

func TestExtend_InvalidMinutes(t *testing.T) {
	f := newExtensionFixture(t)
	f.addTimer("t1", 30)

	_, err := f.ext.Extend(context.Background(), "t1", 0)
	assert.ErrorIs(t, err, ErrInvalidExtension)

	_, err = f.ext.Extend(context.Background(), "t1", -5)
	assert.ErrorIs(t, err, ErrInvalidExtension)
}

func TestExtend_CancelsCoveredAlerts(t *testing.T) {
	f := newExtensionFixture(t)
	f.addTimer("t1", 240)
	f.alerts.HandleTrigger(&models.AlertTrigger{TimerID: "t1", ThresholdMinutes: 5})
	require.Len(t, f.alerts.Active(), 1)

	_, err := f.ext.Extend(context.Background(), "t1", 20)
	require.NoError(t, err)

	assert.Empty(t, f.alerts.Active())
	assert.Equal(t, 1, f.notifier.DismissCount())
}

func TestExtend_StampedResponseResolvesPin(t *testing.T) {
	f := newExtensionFixture(t)
	f.addTimer("t1", 30)
	f.backend.ExtendFn = func(_ context.Context, _, _ string, _ int) (*models.TimerRecord, error) {
		end := f.clock.Now().Add(630 * time.Second)
		stamp := models.NewUpdateStamp(f.clock.Now())
		return &models.TimerRecord{
			ID: "t1", SaleID: "sale-t1", Status: "extended",
			EndAt: &end, UpdatedAt: &stamp,
		}, nil
	}

	got, err := f.ext.Extend(context.Background(), "t1", 10)
	require.NoError(t, err)

	assert.Equal(t, 630, got.TimeLeftSeconds)
	assert.Equal(t, 0, f.pins.Len(), "authoritative response confirms the mutation")
}

func TestExtend_UnstampedSuccessKeepsPin(t *testing.T) {
	f := newExtensionFixture(t)
	f.addTimer("t1", 30)

	_, err := f.ext.Extend(context.Background(), "t1", 10)
	require.NoError(t, err)

	assert.Equal(t, 1, f.pins.Len(), "without a stamp the racing-poll window is still open")
}

func TestExtend_UndatedTimerBumpsCachedValue(t *testing.T) {
	f := newExtensionFixture(t)
	f.service.Upsert(&models.Timer{ID: "t1", SaleID: "s1", Status: models.StatusActive, TimeLeftSeconds: 120})

	got, err := f.ext.Extend(context.Background(), "t1", 5)
	require.NoError(t, err)

	assert.Equal(t, 420, got.TimeLeftSeconds)
	assert.Nil(t, got.EndAt)
}

func TestExtend_SerializedAgainstTickPass(t *testing.T) {
	f := newExtensionFixture(t)
	f.addTimer("t1", 120)
	f.clock.Advance(2 * time.Second)

	gated := &gatedService{
		TimerServiceInterface: f.service,
		listEntered:           make(chan struct{}),
		release:               make(chan struct{}),
	}
	cd := NewCountdown(gated, f.clock, &testutil.MockLogger{}, f.metrics)
	ext := NewExtender(gated, f.backend, f.pins, f.rec, f.alerts, f.clock, &testutil.MockLogger{}, f.metrics)

	tickDone := make(chan struct{})
	go func() {
		cd.Tick()
		close(tickDone)
	}()
	<-gated.listEntered

	extDone := make(chan error, 1)
	go func() {
		_, err := ext.Extend(context.Background(), "t1", 10)
		extDone <- err
	}()

	// Let the extension reach the repository boundary before the tick
	// resumes; serialized passes force it to wait for the tick instead of
	// landing between the tick's read and its write-back.
	time.Sleep(20 * time.Millisecond)
	close(gated.release)

	<-tickDone
	require.NoError(t, <-extDone)

	got, ok := f.service.Get("t1")
	require.True(t, ok)
	assert.Equal(t, models.StatusExtended, got.Status)
	assert.Equal(t, 718, got.TimeLeftSeconds, "tick's stale pass must not revert the extension")
}

// gatedService blocks the first List call so a tick pass can be held open
// mid-flight while another goroutine mutates.
type gatedService struct {
	services.TimerServiceInterface
	listEntered chan struct{}
	release     chan struct{}
	once        sync.Once
}

func (s *gatedService) List() []*models.Timer {
	s.once.Do(func() {
		close(s.listEntered)
		<-s.release
	})
	return s.TimerServiceInterface.List()
}
