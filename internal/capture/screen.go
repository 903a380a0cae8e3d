package capture

import (
	"errors"
	"image"

	"github.com/kbinani/screenshot"
)

// screenStrategy reads composited screen pixels, which is correct even for
// GPU/DirectX-rendered content that off-screen paint APIs cannot see.
//
// The OS calls are function fields so tests can substitute a fake display.
type screenStrategy struct {
	numDisplays   func() int
	displayBounds func(displayIndex int) image.Rectangle
	captureRect   func(rect image.Rectangle) (*image.RGBA, error)
}

func newScreenStrategy() *screenStrategy {
	return &screenStrategy{
		numDisplays:   screenshot.NumActiveDisplays,
		displayBounds: screenshot.GetDisplayBounds,
		captureRect:   screenshot.CaptureRect,
	}
}

func (s *screenStrategy) Name() string { return "screen" }

func (s *screenStrategy) Capture(t Target) (image.Image, error) {
	if s.numDisplays() == 0 {
		return nil, errors.New("no active displays")
	}

	// A rect hanging off the primary display means the window sits on a
	// secondary monitor or partially off-screen; grab the whole primary
	// display instead of failing.
	primary := s.displayBounds(0)
	region := t.Rect
	if !region.In(primary) {
		region = primary
	}
	if region.Empty() {
		return nil, errors.New("empty capture region")
	}

	return s.captureRect(region)
}
