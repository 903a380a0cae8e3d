//go:build !windows

package winmgr

import "image"

// stubAPI stands in on platforms without a supported window system. Locate
// reports not-found and positioning fails cleanly, so the HTTP surface
// degrades to explicit errors instead of failing to build.
type stubAPI struct{}

func newPlatformAPI() api { return stubAPI{} }

func (stubAPI) FindWindow(string) (Window, bool)                      { return 0, false }
func (stubAPI) EnumVisibleWindows(func(Window, string, string) bool)  {}
func (stubAPI) IsIconic(Window) bool                                  { return false }
func (stubAPI) Restore(Window) error                                  { return ErrUnsupported }
func (stubAPI) Move(Window, int, int, int, int) error                 { return ErrUnsupported }
func (stubAPI) Maximize(Window) error                                 { return ErrUnsupported }
func (stubAPI) Rect(Window) (image.Rectangle, error)                  { return image.Rectangle{}, ErrUnsupported }
func (stubAPI) Foreground(Window) error                               { return ErrUnsupported }
