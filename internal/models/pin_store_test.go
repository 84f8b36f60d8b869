package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestPinStore() *PinStore {
	return NewPinStore(10*time.Second, 20*time.Second)
}

func TestPinStore_Phases(t *testing.T) {
	p := newTestPinStore()
	now := timeAt("2026-01-10T12:00:00Z")

	assert.Equal(t, PinNone, p.State("t1", now))

	p.Pin("t1", now)
	assert.Equal(t, PinCooldown, p.State("t1", now))
	assert.Equal(t, PinCooldown, p.State("t1", now.Add(10*time.Second)))
	assert.Equal(t, PinAging, p.State("t1", now.Add(11*time.Second)))
	assert.Equal(t, PinAging, p.State("t1", now.Add(20*time.Second)))
	assert.Equal(t, PinNone, p.State("t1", now.Add(21*time.Second)))
}

func TestPinStore_PrunesOnExpiry(t *testing.T) {
	p := newTestPinStore()
	now := timeAt("2026-01-10T12:00:00Z")

	p.Pin("t1", now)
	assert.Equal(t, 1, p.Len())

	p.State("t1", now.Add(time.Minute))
	assert.Equal(t, 0, p.Len())
}

func TestPinStore_Resolve(t *testing.T) {
	p := newTestPinStore()
	now := timeAt("2026-01-10T12:00:00Z")

	p.Pin("t1", now)
	p.Resolve("t1")
	assert.Equal(t, PinNone, p.State("t1", now))

	// resolving an unpinned id is a no-op
	p.Resolve("t2")
}

func TestPinStore_RepinResetsClock(t *testing.T) {
	p := newTestPinStore()
	now := timeAt("2026-01-10T12:00:00Z")

	p.Pin("t1", now)
	p.Pin("t1", now.Add(15*time.Second))

	assert.Equal(t, PinCooldown, p.State("t1", now.Add(20*time.Second)))
}

func TestPinStore_Clear(t *testing.T) {
	p := newTestPinStore()
	now := timeAt("2026-01-10T12:00:00Z")

	p.Pin("t1", now)
	p.Pin("t2", now)
	p.Clear()
	assert.Equal(t, 0, p.Len())
}

func TestNewPinStore_Defaults(t *testing.T) {
	p := NewPinStore(0, 0)
	now := timeAt("2026-01-10T12:00:00Z")

	p.Pin("t1", now)
	assert.Equal(t, PinCooldown, p.State("t1", now.Add(5*time.Second)))
	assert.Equal(t, PinAging, p.State("t1", now.Add(15*time.Second)))
	assert.Equal(t, PinNone, p.State("t1", now.Add(25*time.Second)))
}
