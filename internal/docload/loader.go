// Package docload drives the loading of protected documents: it shows the
// progress element, installs the password callback for the password dialog
// and keeps the failed attempt counter in the shared store.
package docload

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/marcus/docview/internal/store"
)

var (
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrAttemptsExceeded  = errors.New("maximum password attempts exceeded")
	ErrNoDocumentPath    = errors.New("manifest has no document path")
	ErrNotAwaiting       = errors.New("no document is waiting for a password")
)

// Status is the phase of the current load.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusAwaitingPassword
	StatusLoaded
	StatusAborted
	StatusLocked
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusAwaitingPassword:
		return "awaiting_password"
	case StatusLoaded:
		return "loaded"
	case StatusAborted:
		return "aborted"
	case StatusLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// Loader opens one document at a time. Each Begin starts a new generation;
// callbacks from earlier generations are ignored.
type Loader struct {
	store *store.Store
	limit int

	mu       sync.Mutex
	gen      int
	status   Status
	current  *Manifest
	verifier Verifier
	lastErr  error
	onChange func(Status)
}

// NewLoader returns a loader that records attempts in s and refuses further
// passwords once the store's attempt counter is full.
func NewLoader(s *store.Store) *Loader {
	return &Loader{store: s, limit: s.MaxAttempts()}
}

// OnStatusChange registers fn to run after every status change.
func (l *Loader) OnStatusChange(fn func(Status)) {
	l.mu.Lock()
	l.onChange = fn
	l.mu.Unlock()
}

// Begin starts loading m. A nil verifier loads the document directly.
func (l *Loader) Begin(m *Manifest, v Verifier) {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.current = m
	l.verifier = v
	l.lastErr = nil
	l.mu.Unlock()

	slog.Info("loading document", "title", m.DisplayTitle(), "protected", v != nil)

	// A new load starts from a clean slate: fresh counter and no callback
	// left over from the previous document.
	l.store.ClearCheckPasswordFunc()
	l.store.Close(store.ElementPasswordModal)
	l.store.ResetAttempts()
	l.setStatus(gen, StatusLoading)
	l.store.Open(store.ElementProgressModal)

	if v == nil {
		l.finish(gen)
		return
	}

	l.store.SetCheckPasswordFunc(l.checkFunc(gen))
	l.setStatus(gen, StatusAwaitingPassword)
	l.store.Open(store.ElementPasswordModal)
}

// checkFunc returns the callback for generation gen.
func (l *Loader) checkFunc(gen int) store.CheckPasswordFunc {
	return func(password string) {
		if err := l.check(gen, password); err != nil {
			slog.Debug("password check", "err", err)
		}
	}
}

func (l *Loader) check(gen int, password string) error {
	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		return fmt.Errorf("stale password callback (generation %d): %w", gen, ErrNotAwaiting)
	}
	if l.status != StatusAwaitingPassword && l.status != StatusLocked {
		l.mu.Unlock()
		return ErrNotAwaiting
	}
	v := l.verifier
	title := l.current.DisplayTitle()
	l.mu.Unlock()

	if l.store.Attempt() >= l.limit {
		l.setStatus(gen, StatusLocked)
		return l.fail(gen, ErrAttemptsExceeded)
	}

	err := v.Verify(password)
	switch {
	case err == nil:
		slog.Info("document unlocked", "title", title)
		l.finish(gen)
		return nil
	case errors.Is(err, ErrIncorrectPassword):
		n := l.store.IncrementAttempt()
		slog.Info("incorrect password", "title", title, "attempt", n, "limit", l.limit)
		if n >= l.limit {
			l.setStatus(gen, StatusLocked)
		}
		return l.fail(gen, err)
	default:
		slog.Error("password verification failed", "title", title, "err", err)
		return l.fail(gen, err)
	}
}

func (l *Loader) fail(gen int, err error) error {
	l.mu.Lock()
	if gen == l.gen {
		l.lastErr = err
	}
	l.mu.Unlock()
	return err
}

func (l *Loader) finish(gen int) {
	l.store.ClearCheckPasswordFunc()
	l.store.Close(store.ElementPasswordModal)
	l.store.Close(store.ElementProgressModal)
	l.setStatus(gen, StatusLoaded)
}

// Abort gives up on the current document. The password dialog closes and
// the callback is removed.
func (l *Loader) Abort() {
	l.mu.Lock()
	gen := l.gen
	st := l.status
	l.mu.Unlock()
	if st == StatusLoaded || st == StatusIdle {
		return
	}

	l.store.ClearCheckPasswordFunc()
	l.store.Close(store.ElementPasswordModal)
	l.store.Close(store.ElementProgressModal)
	if st != StatusLocked {
		l.setStatus(gen, StatusAborted)
	}
}

// Retry reopens the password dialog for the current document after an
// abort. The attempt counter is kept; a locked document cannot be retried.
func (l *Loader) Retry() error {
	l.mu.Lock()
	gen := l.gen
	st := l.status
	l.mu.Unlock()

	switch st {
	case StatusLocked:
		return ErrAttemptsExceeded
	case StatusAborted, StatusAwaitingPassword:
	default:
		return ErrNotAwaiting
	}

	// Reopen rather than leave a stale dialog up.
	l.store.Close(store.ElementPasswordModal)
	l.store.SetCheckPasswordFunc(l.checkFunc(gen))
	l.setStatus(gen, StatusAwaitingPassword)
	l.store.Open(store.ElementPasswordModal)
	return nil
}

func (l *Loader) setStatus(gen int, st Status) {
	l.mu.Lock()
	if gen != l.gen || l.status == st {
		l.mu.Unlock()
		return
	}
	l.status = st
	fn := l.onChange
	l.mu.Unlock()

	if fn != nil {
		fn(st)
	}
}

// Status returns the phase of the current load.
func (l *Loader) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// Current returns the document being loaded or shown, or nil.
func (l *Loader) Current() *Manifest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// LastError returns the error of the most recent password check.
func (l *Loader) LastError() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}
