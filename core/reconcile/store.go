package reconcile

import (
	"sort"
	"sync"
	"sync/atomic"
)

// slot holds the latest accepted reading for one sensor.
// A nil pointer means the slot was allocated but nothing was stored yet.
type slot struct {
	latest atomic.Pointer[Reading]
}

// Store is a concurrent last-writer-wins cache of the latest reading per sensor.
//
// Every key owns its own slot. Merge performs read, decide and write on a
// single slot as one compare-and-swap, retrying when another merge on the
// same key won the race. Merges on different keys never contend.
// Entries are never removed.
type Store struct {
	slots    sync.Map // string -> *slot
	size     atomic.Int64
	observer Observer
}

// NewStore creates an empty Store. A nil observer discards notifications.
func NewStore(observer Observer) *Store {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Store{observer: observer}
}

// Merge applies r against the stored reading for its sensor and returns the outcome.
// It never fails and notifies the observer exactly once.
func (s *Store) Merge(r Reading) Outcome {
	key := r.Key()
	sl := s.slotFor(key)

	incoming := r
	for {
		current := sl.latest.Load()
		outcome := Decide(current, incoming)
		if outcome == OutcomeNoop {
			s.observer.OnMerge(outcome, key, *current)
			return outcome
		}
		if sl.latest.CompareAndSwap(current, &incoming) {
			if outcome == OutcomeCreated {
				s.size.Add(1)
			}
			s.observer.OnMerge(outcome, key, incoming)
			return outcome
		}
		// Lost the race against another merge on the same key; re-evaluate.
	}
}

// Get returns the stored reading for key.
func (s *Store) Get(key string) (Reading, bool) {
	v, ok := s.slots.Load(key)
	if !ok {
		return Reading{}, false
	}
	latest := v.(*slot).latest.Load()
	if latest == nil {
		return Reading{}, false
	}
	return *latest, true
}

// Snapshot returns a copy of all stored readings keyed by SensorKey.
// The copy is weakly consistent: each reading is copied whole, but merges
// running concurrently may or may not be reflected, key by key. It is not a
// single point in time across sensors.
func (s *Store) Snapshot() map[string]Reading {
	out := make(map[string]Reading, s.Len())
	s.slots.Range(func(k, v any) bool {
		if latest := v.(*slot).latest.Load(); latest != nil {
			out[k.(string)] = *latest
		}
		return true
	})
	return out
}

// Keys returns the sorted keys of all stored readings.
func (s *Store) Keys() []string {
	keys := make([]string, 0, s.Len())
	s.slots.Range(func(k, v any) bool {
		if v.(*slot).latest.Load() != nil {
			keys = append(keys, k.(string))
		}
		return true
	})
	sort.Strings(keys)
	return keys
}

// Len returns the number of sensors with a stored reading.
func (s *Store) Len() int {
	return int(s.size.Load())
}

func (s *Store) slotFor(key string) *slot {
	if v, ok := s.slots.Load(key); ok {
		return v.(*slot)
	}
	v, _ := s.slots.LoadOrStore(key, &slot{})
	return v.(*slot)
}
