// Package winmgr locates and positions top-level application windows so
// their content can be captured from the screen.
package winmgr

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/dooshek/winbridge/internal/types"
)

// ErrUnsupported is returned when the platform has no window system backend
var ErrUnsupported = errors.New("window management is not supported on this platform")

// Window is an opaque OS window identifier. It is a weak reference: the
// underlying window may be destroyed and recreated between requests, so
// callers re-resolve it with Locate on each operation.
type Window uintptr

// api is the narrow slice of the window system the manager needs.
// The Windows implementation lives in winapi_windows.go; tests inject fakes.
type api interface {
	// FindWindow looks up a top-level window by exact class name
	FindWindow(className string) (Window, bool)

	// EnumVisibleWindows calls fn for every visible top-level window in
	// OS enumeration order until fn returns false
	EnumVisibleWindows(fn func(w Window, className, title string) bool)

	IsIconic(w Window) bool
	Restore(w Window) error
	Move(w Window, x, y, width, height int) error
	Maximize(w Window) error
	Rect(w Window) (image.Rectangle, error)

	// Foreground brings the window to the foreground. Implementations
	// attempt a thread-input attach escalation first and fall back to a
	// plain best-effort call when that is unavailable.
	Foreground(w Window) error
}

// PositionError reports that a window became unavailable during a
// positioning step
type PositionError struct {
	Step string
	Err  error
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("window unavailable during %s: %v", e.Step, e.Err)
}

func (e *PositionError) Unwrap() error { return e.Err }

// Settle delays between positioning steps. The OS gives no synchronous
// "animation complete" signal, so each step waits a fixed amount.
const (
	settleRestore    = 100 * time.Millisecond
	settleMove       = 200 * time.Millisecond
	settleMaximize   = 300 * time.Millisecond
	settleForeground = 500 * time.Millisecond
)

// Manager finds application windows and drives them into a capturable state
type Manager struct {
	api     api
	sleep   func(time.Duration)
	anchor  image.Point
	maxSize image.Point
}

// New creates a Manager backed by the platform window system
func New(cfg types.CaptureConfig) *Manager {
	return newManager(newPlatformAPI(), cfg)
}

func newManager(a api, cfg types.CaptureConfig) *Manager {
	return &Manager{
		api:     a,
		sleep:   time.Sleep,
		anchor:  image.Pt(cfg.AnchorX, cfg.AnchorY),
		maxSize: image.Pt(cfg.MaxWidth, cfg.MaxHeight),
	}
}
