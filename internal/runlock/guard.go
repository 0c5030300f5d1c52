package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"
)

// ErrAlreadyRunning is returned when another run holds the guard.
var ErrAlreadyRunning = errors.New("another backfill run is already in progress")

// Guard admits at most one run at a time.
type Guard struct {
	running atomic.Bool
	path    string
	lock    *flock.Flock
}

// New returns a Guard backed by the lock file at path. An empty path limits
// the guard to the current process.
func New(path string) *Guard {
	g := &Guard{path: path}
	if path != "" {
		g.lock = flock.New(path)
	}
	return g
}

// Path returns the lock file location.
func (g *Guard) Path() string {
	return g.path
}

// Acquire claims the guard. The returned release function is idempotent.
func (g *Guard) Acquire() (func(), error) {
	if !g.running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}
	if g.lock != nil {
		if err := os.MkdirAll(filepath.Dir(g.path), 0o755); err != nil {
			g.running.Store(false)
			return nil, fmt.Errorf("create lock directory: %w", err)
		}
		ok, err := g.lock.TryLock()
		if err != nil {
			g.running.Store(false)
			return nil, fmt.Errorf("acquire lock: %w", err)
		}
		if !ok {
			g.running.Store(false)
			return nil, fmt.Errorf("%w (lock %s)", ErrAlreadyRunning, g.path)
		}
	}

	var released atomic.Bool
	return func() {
		if !released.CompareAndSwap(false, true) {
			return
		}
		if g.lock != nil {
			_ = g.lock.Unlock()
		}
		g.running.Store(false)
	}, nil
}

// Do runs fn while holding the guard.
func (g *Guard) Do(fn func() error) error {
	release, err := g.Acquire()
	if err != nil {
		return err
	}
	defer release()
	return fn()
}
