// Package store holds the viewer's shared application state: which named UI
// elements are open, the failed password attempt counter for the current
// document, and the password verification callback for that document.
package store

import (
	"sort"
	"sync"
)

// Well-known element IDs.
const (
	ElementPasswordModal = "passwordModal"
	ElementProgressModal = "progressModal"
)

// CheckPasswordFunc receives a submitted password.
type CheckPasswordFunc func(password string)

// Store is safe for concurrent use. Listeners run synchronously after each
// change, outside the lock.
type Store struct {
	mu            sync.Mutex
	open          map[string]bool
	attempt       int
	maxAttempts   int
	checkPassword CheckPasswordFunc
	listeners     map[int]func()
	nextListener  int
}

// New returns an empty store whose attempt counter saturates at maxAttempts.
func New(maxAttempts int) *Store {
	return &Store{
		open:        make(map[string]bool),
		maxAttempts: maxAttempts,
		listeners:   make(map[int]func()),
	}
}

// Subscribe registers fn to run after every change. The returned function
// removes the listener.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.listeners[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// update applies fn under the lock and notifies listeners when fn reports a
// change.
func (s *Store) update(fn func() bool) {
	s.mu.Lock()
	changed := fn()
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// Open marks the element as visible.
func (s *Store) Open(id string) {
	s.update(func() bool {
		if s.open[id] {
			return false
		}
		s.open[id] = true
		return true
	})
}

// Close marks the element as hidden.
func (s *Store) Close(id string) {
	s.update(func() bool {
		if !s.open[id] {
			return false
		}
		delete(s.open, id)
		return true
	})
}

// IsOpen reports whether the element is visible.
func (s *Store) IsOpen(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open[id]
}

// OpenElements returns the IDs of all visible elements, sorted.
func (s *Store) OpenElements() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.open))
	for id := range s.open {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Attempt returns the number of failed password attempts for the current
// document.
func (s *Store) Attempt() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempt
}

// MaxAttempts returns the saturation point of the attempt counter.
func (s *Store) MaxAttempts() int {
	return s.maxAttempts
}

// IncrementAttempt records a failed attempt and returns the new count. The
// counter never exceeds MaxAttempts.
func (s *Store) IncrementAttempt() int {
	var n int
	s.update(func() bool {
		if s.attempt >= s.maxAttempts {
			n = s.attempt
			return false
		}
		s.attempt++
		n = s.attempt
		return true
	})
	return n
}

// ResetAttempts sets the counter back to zero.
func (s *Store) ResetAttempts() {
	s.update(func() bool {
		if s.attempt == 0 {
			return false
		}
		s.attempt = 0
		return true
	})
}

// SetCheckPasswordFunc installs the verification callback, replacing any
// previous one.
func (s *Store) SetCheckPasswordFunc(fn CheckPasswordFunc) {
	s.update(func() bool {
		s.checkPassword = fn
		return true
	})
}

// ClearCheckPasswordFunc removes the verification callback.
func (s *Store) ClearCheckPasswordFunc() {
	s.update(func() bool {
		if s.checkPassword == nil {
			return false
		}
		s.checkPassword = nil
		return true
	})
}

// CheckPasswordFunc returns the current verification callback, or nil.
func (s *Store) CheckPasswordFunc() CheckPasswordFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkPassword
}
