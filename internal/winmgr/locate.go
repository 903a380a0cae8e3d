package winmgr

import (
	"strings"

	"github.com/dooshek/winbridge/internal/logger"
)

// Locate finds a top-level window by class name or title substring.
//
// An exact class-name lookup is tried first. If that misses, all visible
// top-level windows are enumerated and matched case-insensitively against
// the class name and title patterns; the first match in enumeration order
// wins. Some applications register under a version-dependent class name,
// which is why the title fallback exists.
//
// A window being absent is an expected state, reported as ok=false, never
// as an error.
func (m *Manager) Locate(className, titleSubstring string) (Window, bool) {
	if className != "" {
		if w, ok := m.api.FindWindow(className); ok {
			return w, true
		}
	}

	classPattern := strings.ToLower(className)
	titlePattern := strings.ToLower(titleSubstring)

	var found Window
	m.api.EnumVisibleWindows(func(w Window, class, title string) bool {
		if classPattern != "" && strings.Contains(strings.ToLower(class), classPattern) {
			found = w
			return false
		}
		if titlePattern != "" && strings.Contains(strings.ToLower(title), titlePattern) {
			found = w
			return false
		}
		return true
	})

	if found == 0 {
		logger.Debugf("no window matched class=%q title=%q", className, titleSubstring)
		return 0, false
	}
	return found, true
}
