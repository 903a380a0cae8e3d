// Package registry keeps a single long-lived handle per automatable
// application kind, revalidating it before every reuse.
//
// Automation handles silently become invalid when the application exits or
// detaches, so staleness is a steady-state condition here, not an anomaly:
// a failed probe is recovered by relaunching, never reported.
package registry

import (
	"fmt"
	"sync"

	"github.com/dooshek/winbridge/internal/logger"
)

// Kind identifies an automatable application
type Kind string

const (
	Word       Kind = "word"
	Excel      Kind = "excel"
	PowerPoint Kind = "powerpoint"
)

// Kinds lists every automatable application kind
var Kinds = []Kind{Word, Excel, PowerPoint}

// Handle is an opaque reference to a running application instance
type Handle interface {
	Kind() Kind

	// Probe performs a cheap liveness read that fails once the underlying
	// application has exited or detached
	Probe() error

	// Quit closes the application
	Quit() error
}

// LaunchFunc starts a fresh application instance of the given kind
type LaunchFunc func(kind Kind) (Handle, error)

// LaunchError reports that a fresh application instance could not be started
type LaunchError struct {
	Kind Kind
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Kind, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// Registry holds at most one live handle per kind
type Registry struct {
	mu      sync.Mutex
	launch  LaunchFunc
	handles map[Kind]Handle
}

// New creates a registry that launches applications with launch
func New(launch LaunchFunc) *Registry {
	return &Registry{
		launch:  launch,
		handles: make(map[Kind]Handle),
	}
}

// Acquire returns the live handle for kind, launching a fresh instance when
// none exists or the cached one fails its liveness probe. Probe failures are
// recovered silently; launch failures surface as *LaunchError.
func (r *Registry) Acquire(kind Kind) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.handles[kind]; ok {
		err := h.Probe()
		if err == nil {
			return h, nil
		}
		logger.Debugf("discarding stale %s handle: %v", kind, err)
		delete(r.handles, kind)
	}

	h, err := r.launch(kind)
	if err != nil {
		return nil, &LaunchError{Kind: kind, Err: err}
	}
	logger.Infof("launched %s", kind)
	r.handles[kind] = h
	return h, nil
}

// Release quits the application for kind and clears its slot. Releasing a
// kind that holds no handle is a no-op.
func (r *Registry) Release(kind Kind) error {
	r.mu.Lock()
	h, ok := r.handles[kind]
	delete(r.handles, kind)
	r.mu.Unlock()

	if !ok {
		return nil
	}
	if err := h.Quit(); err != nil {
		return fmt.Errorf("failed to quit %s: %w", kind, err)
	}
	logger.Infof("released %s", kind)
	return nil
}

// ReleaseAll quits every held application. Quit errors are logged, not
// returned, so shutdown always completes.
func (r *Registry) ReleaseAll() {
	for _, kind := range Kinds {
		if err := r.Release(kind); err != nil {
			logger.Warnf("release %s: %v", kind, err)
		}
	}
}

// Active reports which kinds currently hold a handle, without probing
func (r *Registry) Active() map[Kind]bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	active := make(map[Kind]bool, len(Kinds))
	for _, kind := range Kinds {
		_, ok := r.handles[kind]
		active[kind] = ok
	}
	return active
}
