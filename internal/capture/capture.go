// Package capture produces PNG screenshots of window regions through an
// ordered chain of capture strategies.
//
// GPU-composited windows defeat the classic print/blit APIs, so the chain
// prefers reading composited screen pixels and only falls back to asking the
// window to render itself. Each strategy either succeeds fully or fails
// cleanly; the first one to produce pixels wins.
package capture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/dooshek/winbridge/internal/logger"
	"github.com/dooshek/winbridge/internal/winmgr"
)

// ErrAllStrategiesFailed is returned once every strategy in the chain has
// been exhausted
var ErrAllStrategiesFailed = errors.New("all capture strategies failed")

// Result is an encoded screenshot. Immutable once produced.
type Result struct {
	Bytes  []byte
	MIME   string
	Source string // name of the strategy that produced the image
}

// Target describes what to capture: a screen rectangle and, for strategies
// that render the window directly, the window handle it belongs to.
type Target struct {
	Window winmgr.Window
	Rect   image.Rectangle
}

// Strategy is one way of obtaining raw pixels for a target
type Strategy interface {
	Name() string
	Capture(t Target) (image.Image, error)
}

// Chain tries strategies in priority order, falling back on failure
type Chain struct {
	strategies []Strategy
}

// NewChain builds the default chain: composited screen grab, then a second
// independent screen-capture utility, then (on Windows) PrintWindow/BitBlt.
func NewChain() *Chain {
	strategies := []Strategy{newScreenStrategy(), newRobotStrategy()}
	strategies = append(strategies, platformStrategies()...)
	return &Chain{strategies: strategies}
}

func newChain(strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies}
}

// Capture runs the chain and returns the first successful PNG. Individual
// strategy failures are logged and swallowed; only total exhaustion is an
// error, never an empty success.
func (c *Chain) Capture(t Target) (*Result, error) {
	var attempts []error
	for _, s := range c.strategies {
		img, err := s.Capture(t)
		if err != nil {
			logger.Debugf("capture strategy %s failed: %v", s.Name(), err)
			attempts = append(attempts, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}

		data, err := encodePNG(img)
		if err != nil {
			logger.Debugf("capture strategy %s produced unencodable image: %v", s.Name(), err)
			attempts = append(attempts, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		if len(data) == 0 {
			attempts = append(attempts, fmt.Errorf("%s: empty image", s.Name()))
			continue
		}

		logger.Debugf("captured %dx%d via %s", img.Bounds().Dx(), img.Bounds().Dy(), s.Name())
		return &Result{Bytes: data, MIME: "image/png", Source: s.Name()}, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrAllStrategiesFailed, errors.Join(attempts...))
}

// encodePNG normalizes the image to RGBA and encodes it, so the result has
// one shape regardless of which strategy produced it
func encodePNG(img image.Image) ([]byte, error) {
	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(img.Bounds())
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return buf.Bytes(), nil
}
