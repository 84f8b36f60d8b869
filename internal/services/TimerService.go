package services

import (
	"sync"

	"ptd/internal/models"
)

// TimerServiceInterface fronts the timer repository. Every component reads
// and writes timer state through it; nothing else holds the store.
//
// Single calls are safe on their own, but a read-modify-write pass (tick
// recompute, reconcile batch, optimistic extension) spans several of them.
// Lock/Unlock serialize those passes so one pass never writes back state it
// read before another pass's mutation.
type TimerServiceInterface interface {
	Get(id string) (*models.Timer, bool)
	List() []*models.Timer
	IDs() []string
	Count() int
	Upsert(t *models.Timer)
	Remove(id string)
	ReplaceAll(timers []*models.Timer)
	Lock()
	Unlock()
}

type TimerService struct {
	mu    sync.Mutex
	store *models.TimerStore
}

func NewTimerService() TimerServiceInterface {
	return &TimerService{
		store: models.NewTimerStore(),
	}
}

func (ts *TimerService) Get(id string) (*models.Timer, bool) {
	return ts.store.Get(id)
}

func (ts *TimerService) List() []*models.Timer {
	return ts.store.List()
}

func (ts *TimerService) IDs() []string {
	return ts.store.IDs()
}

func (ts *TimerService) Count() int {
	return ts.store.Len()
}

func (ts *TimerService) Upsert(t *models.Timer) {
	ts.store.Upsert(t)
}

func (ts *TimerService) Remove(id string) {
	ts.store.Remove(id)
}

func (ts *TimerService) ReplaceAll(timers []*models.Timer) {
	ts.store.ReplaceAll(timers)
}

func (ts *TimerService) Lock() {
	ts.mu.Lock()
}

func (ts *TimerService) Unlock() {
	ts.mu.Unlock()
}
