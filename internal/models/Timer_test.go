package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timeAt(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestTimerStatus_Active(t *testing.T) {
	assert.True(t, StatusScheduled.Active())
	assert.True(t, StatusActive.Active())
	assert.True(t, StatusExtended.Active())
	assert.False(t, StatusEnded.Active())
	assert.False(t, TimerStatus("bogus").Active())
}

func TestRemainingAt_DerivesFromEndAt(t *testing.T) {
	now := timeAt("2026-01-10T12:00:00Z")
	end := now.Add(117 * time.Second)
	tm := &Timer{ID: "t1", EndAt: &end, TimeLeftSeconds: 9999}

	assert.Equal(t, 117, tm.RemainingAt(now))
}

func TestRemainingAt_RoundsToNearestSecond(t *testing.T) {
	now := timeAt("2026-01-10T12:00:00Z")
	end := now.Add(90*time.Second + 600*time.Millisecond)
	tm := &Timer{ID: "t1", EndAt: &end}

	assert.Equal(t, 91, tm.RemainingAt(now))
}

func TestRemainingAt_ClampsAtZero(t *testing.T) {
	now := timeAt("2026-01-10T12:00:00Z")
	end := now.Add(-30 * time.Second)
	tm := &Timer{ID: "t1", EndAt: &end}

	assert.Equal(t, 0, tm.RemainingAt(now))
}

func TestRemainingAt_NilEndAtKeepsCachedValue(t *testing.T) {
	now := timeAt("2026-01-10T12:00:00Z")
	tm := &Timer{ID: "t1", TimeLeftSeconds: 300}

	assert.Equal(t, 300, tm.RemainingAt(now))
}

func TestAlive(t *testing.T) {
	now := timeAt("2026-01-10T12:00:00Z")
	end := now.Add(time.Minute)
	past := now.Add(-time.Minute)

	assert.True(t, (&Timer{ID: "a", EndAt: &end, Status: StatusActive}).Alive(now))
	assert.False(t, (&Timer{ID: "b", EndAt: &past, Status: StatusActive}).Alive(now))
	assert.False(t, (&Timer{ID: "c", EndAt: &end, Status: StatusEnded}).Alive(now))
	assert.False(t, (&Timer{ID: "d", Status: StatusActive, TimeLeftSeconds: 0}).Alive(now))
	assert.True(t, (&Timer{ID: "e", Status: StatusActive, TimeLeftSeconds: 10}).Alive(now))
}

func TestClone_IsDeep(t *testing.T) {
	now := timeAt("2026-01-10T12:00:00Z")
	end := now.Add(time.Minute)
	stamp := NewUpdateStamp(now)
	tm := &Timer{
		ID:        "t1",
		SaleID:    "s1",
		Occupants: []Occupant{{Name: "Mia", Age: 6}},
		EndAt:     &end,
		Status:    StatusActive,
		UpdatedAt: &stamp,
	}

	cp := tm.Clone()
	require.NotSame(t, tm, cp)

	cp.Occupants[0].Name = "changed"
	newEnd := end.Add(time.Hour)
	*cp.EndAt = newEnd

	assert.Equal(t, "Mia", tm.Occupants[0].Name)
	assert.Equal(t, end, *tm.EndAt)
}
