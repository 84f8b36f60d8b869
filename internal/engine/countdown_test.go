package engine

import (
	"testing"
	"time"

	"ptd/internal/models"
	"ptd/internal/services"
	"ptd/internal/testutil"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countdownFixture struct {
	service services.TimerServiceInterface
	clock   *clockwork.FakeClock
	metrics *testutil.MockMetrics
	cd      *Countdown
}

func newCountdownFixture(t *testing.T) *countdownFixture {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC))
	service := services.NewTimerService()
	metrics := testutil.NewMockMetrics()
	return &countdownFixture{
		service: service,
		clock:   clock,
		metrics: metrics,
		cd:      NewCountdown(service, clock, &testutil.MockLogger{}, metrics),
	}
}

func (f *countdownFixture) addTimer(id string, remaining int) {
	end := f.clock.Now().Add(time.Duration(remaining) * time.Second)
	f.service.Upsert(&models.Timer{
		ID: id, SaleID: "sale-" + id, EndAt: &end,
		Status: models.StatusActive, TimeLeftSeconds: remaining,
	})
}

func TestTick_DerivesRemaining(t *testing.T) {
	f := newCountdownFixture(t)
	f.addTimer("t1", 300)
	f.clock.Advance(5 * time.Second)

	res := f.cd.Tick()

	assert.Equal(t, 1, res.Updated)
	got, _ := f.service.Get("t1")
	assert.Equal(t, 295, got.TimeLeftSeconds)
}

func TestTick_NoWriteWithoutChange(t *testing.T) {
	f := newCountdownFixture(t)
	f.addTimer("t1", 300)

	res := f.cd.Tick()
	assert.Equal(t, 0, res.Updated)
}

func TestTick_MissedTicksDoNotDrift(t *testing.T) {
	f := newCountdownFixture(t)
	f.addTimer("t1", 300)

	// one tick after 30s of silence lands on the same value as thirty
	// one-second ticks would
	f.clock.Advance(30 * time.Second)
	f.cd.Tick()

	got, _ := f.service.Get("t1")
	assert.Equal(t, 270, got.TimeLeftSeconds)
}

func TestTick_ExpiryRemovesTimer(t *testing.T) {
	f := newCountdownFixture(t)
	f.addTimer("t1", 10)
	f.addTimer("t2", 300)
	f.clock.Advance(15 * time.Second)

	res := f.cd.Tick()

	require.Equal(t, []string{"t1"}, res.Expired)
	_, ok := f.service.Get("t1")
	assert.False(t, ok)
	_, ok = f.service.Get("t2")
	assert.True(t, ok)
}

func TestTick_UndatedTimerRetained(t *testing.T) {
	f := newCountdownFixture(t)
	// no EndAt: the cached value is all we have, expiry is the server's call
	f.service.Upsert(&models.Timer{ID: "t1", Status: models.StatusActive, TimeLeftSeconds: 0})

	res := f.cd.Tick()

	assert.Empty(t, res.Expired)
	_, ok := f.service.Get("t1")
	assert.True(t, ok)
}

func TestTick_RecordsDuration(t *testing.T) {
	f := newCountdownFixture(t)
	f.addTimer("t1", 300)

	f.cd.Tick()
	f.cd.Tick()

	assert.Equal(t, 2, f.metrics.Ticks)
}
