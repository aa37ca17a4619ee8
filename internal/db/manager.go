// Package db provides the lazily initialized, swappable backend handle shared
// by the SQL and Redis tools.
package db

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Handle is a live backend connection or pool owned by a Manager.
type Handle interface {
	io.Closer
}

// OpenFunc creates a new, not yet verified handle.
type OpenFunc[H Handle] func(ctx context.Context) (H, error)

// ProbeFunc performs a live round-trip against a freshly opened handle.
type ProbeFunc[H Handle] func(ctx context.Context, h H) error

// slot is one committed handle plus the count of sessions borrowed from it.
// A retired slot is closed once its last session is released.
type slot[H Handle] struct {
	handle H
	desc   string

	mu      sync.Mutex
	refs    int
	retired bool
}

func (s *slot[H]) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.retired {
		return false
	}
	s.refs++
	return true
}

// release reports whether the slot is now retired and drained.
func (s *slot[H]) release() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs--
	return s.retired && s.refs == 0
}

// retire marks the slot as replaced and reports whether it can be closed now
// along with the number of sessions still out.
func (s *slot[H]) retire() (bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retired = true
	return s.refs == 0, s.refs
}

// Manager holds at most one Ready handle. Sessions borrow it with Acquire;
// Init replaces it atomically and only after a successful probe. Sessions
// started before a replacement finish on the handle they borrowed.
type Manager[H Handle] struct {
	name    string
	current atomic.Pointer[slot[H]]
	logger  *slog.Logger
}

// NewManager creates an uninitialized manager. name is used in logs only.
func NewManager[H Handle](name string, logger *slog.Logger) *Manager[H] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager[H]{name: name, logger: logger}
}

// Init opens and probes a new handle. On success it becomes the current handle
// and the previous one is closed once its sessions are released; on failure
// the manager is left untouched.
// desc is a loggable description of the target with secrets masked.
func (m *Manager[H]) Init(ctx context.Context, desc string, open OpenFunc[H], probe ProbeFunc[H]) error {
	h, err := open(ctx)
	if err != nil {
		m.logger.Warn("open failed", "backend", m.name, "target", desc, "error", err)
		return fmt.Errorf("open %s: %w", m.name, err)
	}

	if err := probe(ctx, h); err != nil {
		_ = h.Close()
		m.logger.Warn("probe failed", "backend", m.name, "target", desc, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrProbeFailed, m.name, err)
	}

	prev := m.current.Swap(&slot[H]{handle: h, desc: desc})
	m.logger.Info("connection initialized", "backend", m.name, "target", desc)

	if prev != nil {
		_ = m.retire(prev)
	}
	return nil
}

// retire closes s now, or after its borrowed sessions are released.
func (m *Manager[H]) retire(s *slot[H]) error {
	drained, inFlight := s.retire()
	if !drained {
		m.logger.Info("deferring close of replaced handle", "backend", m.name, "target", s.desc, "sessions", inFlight)
		return nil
	}
	return m.closeSlot(s)
}

func (m *Manager[H]) closeSlot(s *slot[H]) error {
	m.logger.Info("closing connection", "backend", m.name, "target", s.desc)
	if err := s.handle.Close(); err != nil {
		m.logger.Warn("closing handle", "backend", m.name, "target", s.desc, "error", err)
		return err
	}
	return nil
}

// Acquire borrows the current handle for one session. The handle stays open
// until release is called, even if Init replaces it meanwhile. release is
// safe to call more than once.
func (m *Manager[H]) Acquire() (H, func(), error) {
	for {
		s := m.current.Load()
		if s == nil {
			var zero H
			return zero, nil, ErrNotInitialized
		}
		// A retired slot has already been swapped out; reload the successor.
		if !s.acquire() {
			continue
		}
		var once sync.Once
		release := func() {
			once.Do(func() {
				if s.release() {
					_ = m.closeSlot(s)
				}
			})
		}
		return s.handle, release, nil
	}
}

// Get returns the current handle without borrowing it, or ErrNotInitialized
// before the first successful Init. Use Acquire for sessions.
func (m *Manager[H]) Get() (H, error) {
	s := m.current.Load()
	if s == nil {
		var zero H
		return zero, ErrNotInitialized
	}
	return s.handle, nil
}

// Ready reports whether a handle has been committed.
func (m *Manager[H]) Ready() bool {
	return m.current.Load() != nil
}

// Target returns the masked description of the current handle, if any.
func (m *Manager[H]) Target() string {
	if s := m.current.Load(); s != nil {
		return s.desc
	}
	return ""
}

// Close returns the manager to the uninitialized state. The current handle
// is closed once its borrowed sessions are released.
func (m *Manager[H]) Close() error {
	s := m.current.Swap(nil)
	if s == nil {
		return nil
	}
	return m.retire(s)
}
