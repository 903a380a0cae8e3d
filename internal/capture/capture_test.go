package capture

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStrategy struct {
	name string
	img  image.Image
	err  error
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Capture(Target) (image.Image, error) {
	return s.img, s.err
}

func testImage(width, height int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestChainFirstStrategyWins(t *testing.T) {
	chain := newChain(
		&stubStrategy{name: "first", img: testImage(10, 10)},
		&stubStrategy{name: "second", img: testImage(20, 20)},
	)

	res, err := chain.Capture(Target{Rect: image.Rect(0, 0, 10, 10)})

	require.NoError(t, err)
	assert.Equal(t, "first", res.Source)
	assert.Equal(t, "image/png", res.MIME)
	assert.NotEmpty(t, res.Bytes)
}

func TestChainFallsThroughOnFailure(t *testing.T) {
	chain := newChain(
		&stubStrategy{name: "broken", err: errors.New("missing dependency")},
		&stubStrategy{name: "working", img: testImage(8, 8)},
	)

	res, err := chain.Capture(Target{})

	require.NoError(t, err)
	assert.Equal(t, "working", res.Source)
}

func TestChainExhaustionAggregatesFailures(t *testing.T) {
	chain := newChain(
		&stubStrategy{name: "one", err: errors.New("boom")},
		&stubStrategy{name: "two", err: errors.New("bang")},
	)

	res, err := chain.Capture(Target{})

	require.Nil(t, res)
	assert.ErrorIs(t, err, ErrAllStrategiesFailed)
	assert.Contains(t, err.Error(), "one: boom")
	assert.Contains(t, err.Error(), "two: bang")
}

func TestChainNeverReturnsEmptyBytes(t *testing.T) {
	chain := newChain(&stubStrategy{name: "tiny", img: testImage(1, 1)})

	res, err := chain.Capture(Target{})

	require.NoError(t, err)
	assert.NotEmpty(t, res.Bytes)
}

func TestEncodePNGNormalizesPixelFormat(t *testing.T) {
	// A non-RGBA source must come out identical to an RGBA one
	gray := image.NewGray(image.Rect(0, 0, 4, 4))

	data, err := encodePNG(gray)

	require.NoError(t, err)
	img := decodePNG(t, data)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())
}

func newFakeScreen(primary image.Rectangle) *screenStrategy {
	return &screenStrategy{
		numDisplays:   func() int { return 1 },
		displayBounds: func(int) image.Rectangle { return primary },
		captureRect: func(rect image.Rectangle) (*image.RGBA, error) {
			return image.NewRGBA(rect), nil
		},
	}
}

func TestScreenStrategyCapturesWindowRect(t *testing.T) {
	s := newFakeScreen(image.Rect(0, 0, 1920, 1080))
	chain := newChain(s)

	// 1280x720 window fully inside the primary display
	res, err := chain.Capture(Target{Rect: image.Rect(100, 100, 1380, 820)})

	require.NoError(t, err)
	assert.Equal(t, "screen", res.Source)
	img := decodePNG(t, res.Bytes)
	assert.Equal(t, 1280, img.Bounds().Dx())
	assert.Equal(t, 720, img.Bounds().Dy())
}

func TestScreenStrategyOffscreenRectFallsBackToPrimary(t *testing.T) {
	s := newFakeScreen(image.Rect(0, 0, 1920, 1080))

	// Window hanging off the left edge
	img, err := s.Capture(Target{Rect: image.Rect(-200, 100, 1080, 820)})

	require.NoError(t, err)
	assert.Equal(t, 1920, img.Bounds().Dx())
	assert.Equal(t, 1080, img.Bounds().Dy())
}

func TestScreenStrategyNoDisplays(t *testing.T) {
	s := newFakeScreen(image.Rect(0, 0, 1920, 1080))
	s.numDisplays = func() int { return 0 }

	_, err := s.Capture(Target{Rect: image.Rect(0, 0, 100, 100)})

	assert.Error(t, err)
}

func newFakeRobot(screenW, screenH int) *robotStrategy {
	return &robotStrategy{
		screenSize: func() (int, int) { return screenW, screenH },
		captureImg: func(x, y, width, height int) (image.Image, error) {
			return image.NewRGBA(image.Rect(x, y, x+width, y+height)), nil
		},
	}
}

func TestRobotStrategyClampsToScreen(t *testing.T) {
	s := newFakeRobot(1920, 1080)

	img, err := s.Capture(Target{Rect: image.Rect(-100, -50, 2100, 1200)})

	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1920, 1080), img.Bounds())
}

func TestRobotStrategyRejectsFullyOffscreenRegion(t *testing.T) {
	s := newFakeRobot(1920, 1080)

	_, err := s.Capture(Target{Rect: image.Rect(3000, 0, 3100, 100)})

	assert.Error(t, err)
}
