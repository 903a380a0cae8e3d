//go:build windows

package winmgr

import (
	"errors"
	"image"
	"syscall"
	"unsafe"

	"github.com/lxn/win"
)

// AttachThreadInput, GetWindowText and IsWindow are not wrapped by lxn/win,
// so they are loaded directly.
var (
	user32                = syscall.NewLazyDLL("user32.dll")
	procAttachThreadInput = user32.NewProc("AttachThreadInput")
	procGetWindowTextW    = user32.NewProc("GetWindowTextW")
	procIsWindow          = user32.NewProc("IsWindow")
)

func getWindowText(hwnd win.HWND, buf *uint16, maxCount int32) {
	procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(buf)), uintptr(maxCount))
}

func isWindow(hwnd win.HWND) bool {
	ret, _, _ := procIsWindow.Call(uintptr(hwnd))
	return ret != 0
}

var errWindowGone = errors.New("window no longer exists")

type winAPI struct{}

func newPlatformAPI() api { return winAPI{} }

func (winAPI) FindWindow(className string) (Window, bool) {
	class, err := syscall.UTF16PtrFromString(className)
	if err != nil {
		return 0, false
	}
	hwnd := win.FindWindow(class, nil)
	return Window(hwnd), hwnd != 0
}

func (winAPI) EnumVisibleWindows(fn func(w Window, className, title string) bool) {
	// A null parent makes EnumChildWindows walk top-level windows.
	cb := syscall.NewCallback(func(hwnd win.HWND, _ uintptr) uintptr {
		if !win.IsWindowVisible(hwnd) {
			return 1
		}
		var classBuf [256]uint16
		var titleBuf [512]uint16
		win.GetClassName(hwnd, &classBuf[0], len(classBuf))
		getWindowText(hwnd, &titleBuf[0], int32(len(titleBuf)))
		if !fn(Window(hwnd), syscall.UTF16ToString(classBuf[:]), syscall.UTF16ToString(titleBuf[:])) {
			return 0
		}
		return 1
	})
	win.EnumChildWindows(0, cb, 0)
}

func (winAPI) IsIconic(w Window) bool {
	return win.IsIconic(win.HWND(w))
}

func (winAPI) Restore(w Window) error {
	if !win.ShowWindow(win.HWND(w), win.SW_RESTORE) && !isWindow(win.HWND(w)) {
		return errWindowGone
	}
	return nil
}

func (winAPI) Move(w Window, x, y, width, height int) error {
	if !win.SetWindowPos(win.HWND(w), 0, int32(x), int32(y), int32(width), int32(height), win.SWP_SHOWWINDOW) {
		return errWindowGone
	}
	return nil
}

func (winAPI) Maximize(w Window) error {
	win.ShowWindow(win.HWND(w), win.SW_MAXIMIZE)
	if !isWindow(win.HWND(w)) {
		return errWindowGone
	}
	return nil
}

func (winAPI) Rect(w Window) (image.Rectangle, error) {
	var r win.RECT
	if !win.GetWindowRect(win.HWND(w), &r) {
		return image.Rectangle{}, errWindowGone
	}
	return image.Rect(int(r.Left), int(r.Top), int(r.Right), int(r.Bottom)), nil
}

func (winAPI) Foreground(w Window) error {
	hwnd := win.HWND(w)
	win.BringWindowToTop(hwnd)

	// SetForegroundWindow is refused when the calling process does not own
	// focus. Attaching our input queue to the thread owning the current
	// foreground window lifts that restriction; fall back to the plain
	// call when the attach fails.
	foreground := win.GetForegroundWindow()
	if foreground != 0 && foreground != hwnd {
		foreThread := win.GetWindowThreadProcessId(foreground, nil)
		targetThread := win.GetWindowThreadProcessId(hwnd, nil)
		if foreThread != targetThread {
			attached, _, _ := procAttachThreadInput.Call(uintptr(foreThread), uintptr(targetThread), 1)
			if attached != 0 {
				defer procAttachThreadInput.Call(uintptr(foreThread), uintptr(targetThread), 0)
			}
		}
	}

	if !win.SetForegroundWindow(hwnd) {
		return errors.New("foreground request rejected")
	}
	return nil
}
