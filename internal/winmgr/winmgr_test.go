package winmgr

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dooshek/winbridge/internal/types"
)

type fakeWindow struct {
	handle Window
	class  string
	title  string
}

type fakeAPI struct {
	windows    []fakeWindow
	classIndex map[string]Window

	iconic    bool
	rect      image.Rectangle
	postMax   image.Rectangle
	maximized bool

	failStep string
	calls    []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		classIndex: map[string]Window{},
		rect:       image.Rect(300, 200, 1100, 800),
		postMax:    image.Rect(0, 0, 1920, 1080),
	}
}

func (f *fakeAPI) fail(step string) error {
	if f.failStep == step {
		return errors.New("window destroyed")
	}
	return nil
}

func (f *fakeAPI) FindWindow(className string) (Window, bool) {
	f.calls = append(f.calls, "find")
	w, ok := f.classIndex[className]
	return w, ok
}

func (f *fakeAPI) EnumVisibleWindows(fn func(Window, string, string) bool) {
	f.calls = append(f.calls, "enum")
	for _, w := range f.windows {
		if !fn(w.handle, w.class, w.title) {
			return
		}
	}
}

func (f *fakeAPI) IsIconic(Window) bool { return f.iconic }

func (f *fakeAPI) Restore(Window) error {
	f.calls = append(f.calls, "restore")
	f.iconic = false
	return f.fail("restore")
}

func (f *fakeAPI) Move(Window, int, int, int, int) error {
	f.calls = append(f.calls, "move")
	return f.fail("move")
}

func (f *fakeAPI) Maximize(Window) error {
	f.calls = append(f.calls, "maximize")
	f.maximized = true
	return f.fail("maximize")
}

func (f *fakeAPI) Rect(Window) (image.Rectangle, error) {
	f.calls = append(f.calls, "rect")
	if err := f.fail("rect"); err != nil {
		return image.Rectangle{}, err
	}
	if f.maximized {
		return f.postMax, nil
	}
	return f.rect, nil
}

func (f *fakeAPI) Foreground(Window) error {
	f.calls = append(f.calls, "foreground")
	return f.fail("foreground")
}

func newTestManager(f *fakeAPI) *Manager {
	cfg := (&types.Config{}).GetCaptureConfig()
	m := newManager(f, cfg)
	m.sleep = func(time.Duration) {}
	return m
}

func TestLocateExactClassHit(t *testing.T) {
	f := newFakeAPI()
	f.classIndex["OpusApp"] = Window(42)
	f.windows = []fakeWindow{{handle: 7, class: "OpusApp", title: "Document1 - Word"}}

	w, ok := newTestManager(f).Locate("OpusApp", "Word")

	require.True(t, ok)
	assert.Equal(t, Window(42), w)
	// Exact lookup wins, enumeration never runs
	assert.NotContains(t, f.calls, "enum")
}

func TestLocateFallsBackToEnumeration(t *testing.T) {
	f := newFakeAPI()
	f.windows = []fakeWindow{
		{handle: 1, class: "Shell_TrayWnd", title: "Taskbar"},
		{handle: 2, class: "XLMAIN", title: "Book1 - Excel"},
		{handle: 3, class: "XLMAIN", title: "Book2 - Excel"},
	}

	w, ok := newTestManager(f).Locate("xlmain", "")

	require.True(t, ok)
	// First match in enumeration order
	assert.Equal(t, Window(2), w)
}

func TestLocateMatchesTitleCaseInsensitive(t *testing.T) {
	f := newFakeAPI()
	f.windows = []fakeWindow{
		{handle: 9, class: "Chrome_WidgetWin_1", title: "Example Domain - Google Chrome"},
	}

	w, ok := newTestManager(f).Locate("NoSuchClass", "google chrome")

	require.True(t, ok)
	assert.Equal(t, Window(9), w)
}

func TestLocateNotFoundIsNotAnError(t *testing.T) {
	f := newFakeAPI()

	w, ok := newTestManager(f).Locate("OpusApp", "Word")

	assert.False(t, ok)
	assert.Equal(t, Window(0), w)
}

func TestLocateEmptyPatternsMatchNothing(t *testing.T) {
	f := newFakeAPI()
	f.windows = []fakeWindow{{handle: 5, class: "XLMAIN", title: "Book1"}}

	_, ok := newTestManager(f).Locate("", "")

	assert.False(t, ok)
}

func TestMakeCapturableStepOrder(t *testing.T) {
	f := newFakeAPI()
	f.iconic = true

	rect, err := newTestManager(f).MakeCapturable(Window(1))

	require.NoError(t, err)
	assert.Equal(t, []string{"restore", "rect", "move", "maximize", "rect", "foreground", "rect"}, f.calls)
	assert.Equal(t, image.Rect(0, 0, 1920, 1080), rect)
}

func TestMakeCapturableAlreadyVisibleWindow(t *testing.T) {
	f := newFakeAPI()

	rect, err := newTestManager(f).MakeCapturable(Window(1))

	require.NoError(t, err)
	assert.NotContains(t, f.calls, "restore")
	assert.Positive(t, rect.Dx())
	assert.Positive(t, rect.Dy())
}

func TestMakeCapturableForegroundFailureIsNonFatal(t *testing.T) {
	f := newFakeAPI()
	f.failStep = "foreground"

	rect, err := newTestManager(f).MakeCapturable(Window(1))

	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1920, 1080), rect)
}

func TestMakeCapturableAbortsWhenWindowDies(t *testing.T) {
	for _, step := range []string{"move", "maximize", "rect"} {
		t.Run(step, func(t *testing.T) {
			f := newFakeAPI()
			f.failStep = step

			_, err := newTestManager(f).MakeCapturable(Window(1))

			var posErr *PositionError
			require.ErrorAs(t, err, &posErr)
		})
	}
}

func TestMakeCapturableRejectsEmptyRect(t *testing.T) {
	f := newFakeAPI()
	f.postMax = image.Rect(0, 0, 0, 0)

	_, err := newTestManager(f).MakeCapturable(Window(1))

	var posErr *PositionError
	require.ErrorAs(t, err, &posErr)
	assert.ErrorIs(t, err, errEmptyRect)
}
