package winmgr

import (
	"errors"
	"image"

	"github.com/dooshek/winbridge/internal/logger"
)

var errEmptyRect = errors.New("window has no area")

// MakeCapturable transforms a window in an arbitrary state (minimized,
// off-screen, parked on a dead monitor) into one that is on the primary
// display, maximized and foremost, and returns its final rectangle.
//
// The step order is strict: restore, anchor move, maximize, rect re-read,
// foreground, final re-read. Any step failing means the window went away
// mid-sequence; positioning aborts rather than risking a partial capture.
func (m *Manager) MakeCapturable(w Window) (image.Rectangle, error) {
	if m.api.IsIconic(w) {
		if err := m.api.Restore(w); err != nil {
			return image.Rectangle{}, &PositionError{Step: "restore", Err: err}
		}
		m.sleep(settleRestore)
	}

	// Move to an on-screen anchor at a clamped size first. A window parked
	// on a monitor that no longer exists cannot be maximized in place.
	rect, err := m.api.Rect(w)
	if err != nil {
		return image.Rectangle{}, &PositionError{Step: "move", Err: err}
	}
	width := min(rect.Dx(), m.maxSize.X)
	height := min(rect.Dy(), m.maxSize.Y)
	if err := m.api.Move(w, m.anchor.X, m.anchor.Y, width, height); err != nil {
		return image.Rectangle{}, &PositionError{Step: "move", Err: err}
	}
	m.sleep(settleMove)

	if err := m.api.Maximize(w); err != nil {
		return image.Rectangle{}, &PositionError{Step: "maximize", Err: err}
	}
	m.sleep(settleMaximize)

	// Post-maximize dimensions differ from pre-maximize
	rect, err = m.api.Rect(w)
	if err != nil {
		return image.Rectangle{}, &PositionError{Step: "maximize", Err: err}
	}
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		return image.Rectangle{}, &PositionError{Step: "maximize", Err: errEmptyRect}
	}

	// Focus-stealing prevention can block this; the api escalates via
	// thread-input attach and falls back to a best-effort call. A window
	// that stays behind still captures, just possibly occluded.
	if err := m.api.Foreground(w); err != nil {
		logger.Debugf("foreground request failed: %v", err)
	}
	m.sleep(settleForeground)

	rect, err = m.api.Rect(w)
	if err != nil {
		return image.Rectangle{}, &PositionError{Step: "final rect", Err: err}
	}
	return rect, nil
}
