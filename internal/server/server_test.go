package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dooshek/winbridge/internal/browser"
	"github.com/dooshek/winbridge/internal/capture"
	"github.com/dooshek/winbridge/internal/office"
	"github.com/dooshek/winbridge/internal/registry"
	"github.com/dooshek/winbridge/internal/types"
	"github.com/dooshek/winbridge/internal/winmgr"
)

// fakeWord records calls and satisfies the full Word operation set
type fakeWord struct {
	typed    []string
	lastFont *office.FontOptions
	saved    []string
	closed   bool
}

func (f *fakeWord) Kind() registry.Kind { return registry.Word }
func (f *fakeWord) Probe() error        { return nil }
func (f *fakeWord) Quit() error         { return nil }

func (f *fakeWord) EnsureDocument() error           { return nil }
func (f *fakeWord) CreateDocument() (string, error) { return "Document1", nil }
func (f *fakeWord) TypeText(text string, font *office.FontOptions) error {
	f.typed = append(f.typed, text)
	f.lastFont = font
	return nil
}
func (f *fakeWord) ReadText() (string, error) { return "hello world\r", nil }
func (f *fakeWord) Save(path string) error {
	f.saved = append(f.saved, path)
	return nil
}
func (f *fakeWord) SetFont(office.FontOptions) error           { return nil }
func (f *fakeWord) SetParagraph(office.ParagraphOptions) error { return nil }
func (f *fakeWord) AddTable(rows, cols int, data [][]string) error {
	return nil
}
func (f *fakeWord) FindReplace(find, replace string, all bool) (bool, error) {
	return find == "present", nil
}
func (f *fakeWord) SelectAll() error             { return nil }
func (f *fakeWord) Selection() (string, error)   { return "selected", nil }
func (f *fakeWord) InsertBreak(string) error     { return nil }
func (f *fakeWord) CloseDocument(save bool) error {
	f.closed = true
	return nil
}

type fakeWindows struct {
	window  winmgr.Window
	found   bool
	rect    image.Rectangle
	posErr  error
	located []string
}

func (f *fakeWindows) Locate(className, titleSubstring string) (winmgr.Window, bool) {
	f.located = append(f.located, className+"/"+titleSubstring)
	return f.window, f.found
}

func (f *fakeWindows) MakeCapturable(w winmgr.Window) (image.Rectangle, error) {
	if f.posErr != nil {
		return image.Rectangle{}, f.posErr
	}
	return f.rect, nil
}

type fakeCapturer struct {
	result *capture.Result
	err    error
}

func (f *fakeCapturer) Capture(t capture.Target) (*capture.Result, error) {
	return f.result, f.err
}

type fakeSession struct {
	kind     types.BrowserKind
	headless bool
	lastURL  string
	filled   map[string]string
}

func (f *fakeSession) Kind() types.BrowserKind { return f.kind }
func (f *fakeSession) Headless() bool          { return f.headless }
func (f *fakeSession) TitlePattern() string    { return "Chrome" }
func (f *fakeSession) Navigate(url string) (string, string, error) {
	f.lastURL = url
	return url, "Example Domain", nil
}
func (f *fakeSession) Screenshot(fullPage bool) ([]byte, error) {
	return []byte("png-bytes"), nil
}
func (f *fakeSession) Click(selector string) error { return nil }
func (f *fakeSession) Fill(selector, value string) error {
	if f.filled == nil {
		f.filled = map[string]string{}
	}
	f.filled[selector] = value
	return nil
}
func (f *fakeSession) Text(selector string) (string, error) { return "some text", nil }
func (f *fakeSession) Info() (string, string, error)        { return f.lastURL, "Example Domain", nil }
func (f *fakeSession) HTML() (string, error)                { return "<html></html>", nil }
func (f *fakeSession) Eval(string) (json.RawMessage, error) { return json.RawMessage(`42`), nil }
func (f *fakeSession) WaitFor(string, time.Duration) error  { return nil }
func (f *fakeSession) Console() []browser.ConsoleEntry      { return nil }
func (f *fakeSession) Network() []browser.NetworkEntry      { return nil }

type fakeBrowsers struct {
	sess      *fakeSession
	launchErr error
}

func (f *fakeBrowsers) Launch(kind types.BrowserKind, headless bool) (browserSession, error) {
	if f.launchErr != nil {
		return nil, f.launchErr
	}
	if kind == "" {
		kind = types.BrowserChrome
	}
	f.sess = &fakeSession{kind: kind, headless: headless}
	return f.sess, nil
}

func (f *fakeBrowsers) Current() (browserSession, bool) {
	if f.sess == nil {
		return nil, false
	}
	return f.sess, true
}

func (f *fakeBrowsers) Close() error {
	f.sess = nil
	return nil
}

func launchWord(word *fakeWord) registry.LaunchFunc {
	return func(kind registry.Kind) (registry.Handle, error) {
		if kind != registry.Word {
			return nil, fmt.Errorf("not installed")
		}
		return word, nil
	}
}

func newTestServer(launch registry.LaunchFunc, windows *fakeWindows, capt *fakeCapturer, browsers browserControl) *Server {
	if launch == nil {
		launch = func(kind registry.Kind) (registry.Handle, error) {
			return nil, errors.New("launch not stubbed")
		}
	}
	if windows == nil {
		windows = &fakeWindows{}
	}
	if capt == nil {
		capt = &fakeCapturer{}
	}
	if browsers == nil {
		browsers = &fakeBrowsers{}
	}
	cfg := types.BrowserConfig{Preferred: "chrome", WaitTimeoutSec: 10}
	return newServer(cfg, registry.New(launch), windows, capt, browsers)
}

func do(t *testing.T, s *Server, method, path, body string) map[string]any {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealthEnvelope(t *testing.T) {
	s := newTestServer(nil, nil, nil, nil)
	resp := do(t, s, http.MethodGet, "/health", "")

	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "winbridge", resp["service"])

	office, ok := resp["office"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, office["word"])
	assert.Equal(t, false, office["excel"])
	assert.Equal(t, false, office["powerpoint"])

	browserInfo, ok := resp["browser"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, browserInfo["running"])
}

func TestWordWriteNormalizesText(t *testing.T) {
	word := &fakeWord{}
	s := newTestServer(launchWord(word), nil, nil, nil)

	resp := do(t, s, http.MethodPost, "/word/write",
		`{"text":"line one\\nline two &amp; more","font_name":"Arial","font_size":14}`)

	assert.Equal(t, true, resp["success"])
	require.Len(t, word.typed, 1)
	assert.Equal(t, "line one\nline two & more", word.typed[0])
	require.NotNil(t, word.lastFont)
	assert.Equal(t, "Arial", word.lastFont.Name)
	assert.Equal(t, 14.0, word.lastFont.Size)
}

func TestWordWriteRequiresText(t *testing.T) {
	word := &fakeWord{}
	s := newTestServer(launchWord(word), nil, nil, nil)

	resp := do(t, s, http.MethodPost, "/word/write", `{}`)

	assert.Equal(t, false, resp["success"])
	assert.Contains(t, resp["error"], "text is required")
	assert.Empty(t, word.typed)
}

func TestWordLaunchFailureEnvelope(t *testing.T) {
	launch := func(kind registry.Kind) (registry.Handle, error) {
		return nil, errors.New("word is not installed")
	}
	s := newTestServer(launch, nil, nil, nil)

	resp := do(t, s, http.MethodPost, "/word/launch", "")

	assert.Equal(t, false, resp["success"])
	assert.Contains(t, resp["error"], "failed to launch word")
	assert.Contains(t, resp["error"], "word is not installed")
}

func TestWordScreenshotBase64Payload(t *testing.T) {
	word := &fakeWord{}
	windows := &fakeWindows{
		window: winmgr.Window(42),
		found:  true,
		rect:   image.Rect(50, 50, 1330, 770),
	}
	capt := &fakeCapturer{result: &capture.Result{
		Bytes:  []byte("fake-png"),
		MIME:   "image/png",
		Source: "screen",
	}}
	s := newTestServer(launchWord(word), windows, capt, nil)

	resp := do(t, s, http.MethodGet, "/word/screenshot", "")

	require.Equal(t, true, resp["success"])
	decoded, err := base64.StdEncoding.DecodeString(resp["image"].(string))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-png"), decoded)
	assert.Equal(t, "image/png", resp["mime"])
	assert.Equal(t, "screen", resp["source"])
	assert.Equal(t, 1280.0, resp["width"])
	assert.Equal(t, 720.0, resp["height"])

	// Locator got the Word class with its title fallback
	require.NotEmpty(t, windows.located)
	assert.Equal(t, "OpusApp/Word", windows.located[0])
}

func TestWordScreenshotWindowNotFound(t *testing.T) {
	word := &fakeWord{}
	s := newTestServer(launchWord(word), &fakeWindows{found: false}, nil, nil)

	resp := do(t, s, http.MethodGet, "/word/screenshot", "")

	assert.Equal(t, false, resp["success"])
	assert.Contains(t, resp["error"], "no word window found")
}

func TestWordScreenshotCaptureExhaustion(t *testing.T) {
	word := &fakeWord{}
	windows := &fakeWindows{window: 1, found: true, rect: image.Rect(0, 0, 100, 100)}
	capt := &fakeCapturer{err: fmt.Errorf("%w: everything broke", capture.ErrAllStrategiesFailed)}
	s := newTestServer(launchWord(word), windows, capt, nil)

	resp := do(t, s, http.MethodGet, "/word/screenshot", "")

	assert.Equal(t, false, resp["success"])
	assert.Contains(t, resp["error"], "everything broke")
}

func TestBrowserOpsBeforeLaunch(t *testing.T) {
	s := newTestServer(nil, nil, nil, &fakeBrowsers{})

	for _, route := range []struct {
		method, path, body string
	}{
		{http.MethodPost, "/browser/navigate", `{"url":"https://example.com"}`},
		{http.MethodGet, "/browser/screenshot", ""},
		{http.MethodPost, "/browser/click", `{"selector":"#go"}`},
		{http.MethodGet, "/browser/get_info", ""},
		{http.MethodPost, "/browser/close", ""},
	} {
		resp := do(t, s, route.method, route.path, route.body)
		assert.Equal(t, false, resp["success"], route.path)
		assert.Contains(t, resp["error"], "browser not running", route.path)
	}
}

func TestBrowserLaunchAndNavigate(t *testing.T) {
	browsers := &fakeBrowsers{}
	s := newTestServer(nil, nil, nil, browsers)

	resp := do(t, s, http.MethodPost, "/browser/launch", `{"browser":"edge","headless":true}`)
	require.Equal(t, true, resp["success"])
	assert.Equal(t, "edge", resp["browser"])
	assert.Equal(t, true, resp["headless"])

	resp = do(t, s, http.MethodPost, "/browser/navigate", `{"url":"https://example.com"}`)
	require.Equal(t, true, resp["success"])
	assert.Equal(t, "https://example.com", resp["url"])
	assert.Equal(t, "Example Domain", resp["title"])
	assert.Equal(t, "https://example.com", browsers.sess.lastURL)
}

func TestBrowserLaunchRejectsUnknownKind(t *testing.T) {
	s := newTestServer(nil, nil, nil, &fakeBrowsers{})

	resp := do(t, s, http.MethodPost, "/browser/launch", `{"browser":"netscape"}`)

	assert.Equal(t, false, resp["success"])
	assert.Contains(t, resp["error"], "netscape")
}

func TestBrowserLaunchDefaultsFromConfig(t *testing.T) {
	browsers := &fakeBrowsers{}
	s := newTestServer(nil, nil, nil, browsers)

	resp := do(t, s, http.MethodPost, "/browser/launch", `{}`)

	require.Equal(t, true, resp["success"])
	assert.Equal(t, "chrome", resp["browser"])
	assert.Equal(t, false, resp["headless"])
}

func TestBrowserScreenshotBase64(t *testing.T) {
	browsers := &fakeBrowsers{sess: &fakeSession{kind: types.BrowserChrome}}
	s := newTestServer(nil, nil, nil, browsers)

	resp := do(t, s, http.MethodGet, "/browser/screenshot?full_page=true", "")

	require.Equal(t, true, resp["success"])
	decoded, err := base64.StdEncoding.DecodeString(resp["image"].(string))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), decoded)
	assert.Equal(t, true, resp["full_page"])
}

func TestBrowserFocusRejectsHeadless(t *testing.T) {
	browsers := &fakeBrowsers{sess: &fakeSession{kind: types.BrowserChrome, headless: true}}
	s := newTestServer(nil, nil, nil, browsers)

	resp := do(t, s, http.MethodPost, "/browser/focus", "")

	assert.Equal(t, false, resp["success"])
	assert.Contains(t, resp["error"], "headless")
}

func TestBrowserFocusPositionsWindow(t *testing.T) {
	browsers := &fakeBrowsers{sess: &fakeSession{kind: types.BrowserChrome}}
	windows := &fakeWindows{window: 7, found: true, rect: image.Rect(50, 50, 1650, 950)}
	s := newTestServer(nil, windows, nil, browsers)

	resp := do(t, s, http.MethodPost, "/browser/focus", "")

	require.Equal(t, true, resp["success"])
	assert.Equal(t, 1600.0, resp["width"])
	assert.Equal(t, 900.0, resp["height"])
	require.NotEmpty(t, windows.located)
	assert.Equal(t, "/Chrome", windows.located[0])
}

func TestShutdownSignals(t *testing.T) {
	s := newTestServer(nil, nil, nil, nil)

	resp := do(t, s, http.MethodPost, "/shutdown", "")

	assert.Equal(t, true, resp["success"])
	select {
	case <-s.ShutdownRequested():
	default:
		t.Fatal("shutdown was not signaled")
	}
}

func TestNormalizeText(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`plain`, "plain"},
		{`a\nb`, "a\nb"},
		{`tab\there`, "tab\there"},
		{`&lt;b&gt; &amp; &quot;q&quot;`, `<b> & "q"`},
		{`mixed\n&amp; entities`, "mixed\n& entities"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizeText(tc.in), tc.in)
	}
}
