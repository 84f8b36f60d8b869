package models

import (
	"sort"
	"sync"
)

// TimerStore is the authoritative in-process timer collection. All reads
// hand out deep copies so callers can never tear a concurrently updated
// entry; writers always see either the pre- or post-update snapshot.
type TimerStore struct {
	mu   sync.RWMutex
	data map[string]*Timer
}

func NewTimerStore() *TimerStore {
	return &TimerStore{
		data: make(map[string]*Timer),
	}
}

func (s *TimerStore) Get(id string) (*Timer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.data[id]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

func (s *TimerStore) Upsert(t *Timer) {
	if t == nil || t.ID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[t.ID] = t.Clone()
}

func (s *TimerStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
}

func (s *TimerStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// List returns a snapshot sorted soonest-expiring first; timers without an
// end time sort after dated ones, ties break on id for stable output.
func (s *TimerStore) List() []*Timer {
	s.mu.RLock()
	result := make([]*Timer, 0, len(s.data))
	for _, t := range s.data {
		result = append(result, t.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		switch {
		case a.EndAt == nil && b.EndAt == nil:
			return a.ID < b.ID
		case a.EndAt == nil:
			return false
		case b.EndAt == nil:
			return true
		case a.EndAt.Equal(*b.EndAt):
			return a.ID < b.ID
		default:
			return a.EndAt.Before(*b.EndAt)
		}
	})
	return result
}

func (s *TimerStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids
}

// ReplaceAll atomically swaps the whole collection.
func (s *TimerStore) ReplaceAll(timers []*Timer) {
	next := make(map[string]*Timer, len(timers))
	for _, t := range timers {
		if t == nil || t.ID == "" {
			continue
		}
		next[t.ID] = t.Clone()
	}
	s.mu.Lock()
	s.data = next
	s.mu.Unlock()
}
