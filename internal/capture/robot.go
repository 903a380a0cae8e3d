package capture

import (
	"errors"
	"image"

	"github.com/go-vgo/robotgo"
)

// robotStrategy is the second, independent screen grabber. It clamps the
// region to the detected screen bounds instead of delegating off-screen
// handling to the library.
type robotStrategy struct {
	screenSize func() (width, height int)
	captureImg func(x, y, width, height int) (image.Image, error)
}

func newRobotStrategy() *robotStrategy {
	return &robotStrategy{
		screenSize: robotgo.GetScreenSize,
		captureImg: func(x, y, width, height int) (image.Image, error) {
			return robotgo.CaptureImg(x, y, width, height)
		},
	}
}

func (s *robotStrategy) Name() string { return "robot" }

func (s *robotStrategy) Capture(t Target) (image.Image, error) {
	screenW, screenH := s.screenSize()

	x := max(t.Rect.Min.X, 0)
	y := max(t.Rect.Min.Y, 0)
	width := min(t.Rect.Dx(), screenW-x)
	height := min(t.Rect.Dy(), screenH-y)
	if width <= 0 || height <= 0 {
		return nil, errors.New("region entirely off screen")
	}

	return s.captureImg(x, y, width, height)
}
