package scheduling

import (
	"sort"
	"sync"
)

// slotLocks serializes "detect conflicts + persist" per booking dimension so
// two concurrent requests for the same staff, resource, or client on the same
// date cannot both pass detection before either persists. Entries are
// reference counted and removed once the last holder releases, so the map
// stays bounded by in-flight requests rather than growing per key forever.
type slotLocks struct {
	mu    sync.Mutex
	locks map[string]*slotLock
}

type slotLock struct {
	mu   sync.Mutex
	refs int
}

func newSlotLocks() *slotLocks {
	return &slotLocks{locks: make(map[string]*slotLock)}
}

func (l *slotLocks) checkOut(key string) *slotLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.locks[key]
	if !ok {
		e = &slotLock{}
		l.locks[key] = e
	}
	e.refs++
	return e
}

func (l *slotLocks) checkIn(key string, e *slotLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

// acquire locks every key in sorted order (stable ordering prevents
// deadlock between requests sharing a subset of keys) and returns the
// release function.
func (l *slotLocks) acquire(keys ...string) func() {
	uniq := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k != "" && !seen[k] {
			seen[k] = true
			uniq = append(uniq, k)
		}
	}
	sort.Strings(uniq)

	held := make([]*slotLock, 0, len(uniq))
	for _, k := range uniq {
		e := l.checkOut(k)
		e.mu.Lock()
		held = append(held, e)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
			l.checkIn(uniq[i], held[i])
		}
	}
}

func staffKey(staffID, date string) string {
	if staffID == "" {
		return ""
	}
	return "staff:" + staffID + ":" + date
}

func resourceKey(resourceID, date string) string {
	if resourceID == "" {
		return ""
	}
	return "resource:" + resourceID + ":" + date
}

func clientKey(clientID, date string) string {
	if clientID == "" {
		return ""
	}
	return "client:" + clientID + ":" + date
}
