// Package browser drives a Chromium browser (Chrome or Edge) over the
// DevTools protocol.
//
// A browser session rasterizes its own viewport, so its screenshots come
// straight from the protocol and never need the OS-level capture chain.
package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	cdpruntime "github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/dooshek/winbridge/internal/logger"
	"github.com/dooshek/winbridge/internal/types"
)

// ErrNoBrowser is returned when neither Chrome nor Edge can be found
var ErrNoBrowser = errors.New("no supported browser found")

// ErrNotRunning is returned for session operations before a launch
var ErrNotRunning = errors.New("browser not running")

const maxLogEntries = 1000

// ConsoleEntry is one captured console message
type ConsoleEntry struct {
	Level     string  `json:"level"`
	Message   string  `json:"message"`
	Timestamp float64 `json:"timestamp"`
}

// NetworkEntry is one captured network request or response event
type NetworkEntry struct {
	Type       string `json:"type"` // "request" or "response"
	URL        string `json:"url"`
	Method     string `json:"method,omitempty"`
	Status     int64  `json:"status,omitempty"`
	StatusText string `json:"statusText,omitempty"`
	MIMEType   string `json:"mimeType,omitempty"`
	RequestID  string `json:"requestId"`
}

// Session is one live browser instance
type Session struct {
	kind        types.BrowserKind
	headless    bool
	ctx         context.Context
	cancel      context.CancelFunc
	cancelAlloc context.CancelFunc
	waitTimeout time.Duration

	mu      sync.Mutex
	console []ConsoleEntry
	network []NetworkEntry
}

// Manager holds at most one live browser session
type Manager struct {
	mu      sync.Mutex
	cfg     types.BrowserConfig
	session *Session
}

func NewManager(cfg types.BrowserConfig) *Manager {
	return &Manager{cfg: cfg}
}

// Launch starts a browser session, closing any existing one first. When the
// preferred browser is not installed the other one is tried before giving up.
func (m *Manager) Launch(kind types.BrowserKind, headless bool) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		m.session.close()
		m.session = nil
	}

	if kind == "" {
		kind = types.BrowserKind(m.cfg.Preferred)
	}

	execPath := m.cfg.ExecutablePath
	if execPath == "" {
		var found bool
		execPath, kind, found = findBrowser(kind)
		if !found {
			return nil, ErrNoBrowser
		}
	}

	logger.Infof("launching %s (headless=%v) from %s", kind, headless, execPath)

	opts := append([]chromedp.ExecAllocatorOption{},
		chromedp.ExecPath(execPath),
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-popup-blocking", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("start-maximized", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	s := &Session{
		kind:        kind,
		headless:    headless,
		ctx:         ctx,
		cancel:      cancel,
		cancelAlloc: cancelAlloc,
		waitTimeout: time.Duration(m.cfg.WaitTimeoutSec) * time.Second,
	}
	s.listen()

	// Start the browser process and enable network event capture
	if err := chromedp.Run(ctx, network.Enable()); err != nil {
		s.close()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	m.session = s
	return s, nil
}

// Current returns the live session, if any
func (m *Manager) Current() (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, m.session != nil
}

// Close quits the browser and clears the slot
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	m.session.close()
	m.session = nil
	return nil
}

func (s *Session) close() {
	// Give the browser a moment to quit cleanly before tearing down
	ctx, cancel := context.WithTimeout(s.ctx, 3*time.Second)
	_ = chromedp.Cancel(ctx)
	cancel()
	s.cancel()
	s.cancelAlloc()
}

// Kind reports which browser backs the session
func (s *Session) Kind() types.BrowserKind { return s.kind }

// Headless reports whether the session runs without a window
func (s *Session) Headless() bool { return s.headless }

// TitlePattern is the window-title substring used to find the browser
// window for foreground requests
func (s *Session) TitlePattern() string {
	if s.kind == types.BrowserEdge {
		return "Edge"
	}
	return "Chrome"
}

// listen wires DevTools console and network events into bounded buffers
func (s *Session) listen() {
	chromedp.ListenTarget(s.ctx, func(ev interface{}) {
		switch ev := ev.(type) {
		case *cdpruntime.EventConsoleAPICalled:
			s.appendConsole(ev)
		case *network.EventRequestWillBeSent:
			s.appendNetwork(NetworkEntry{
				Type:      "request",
				URL:       ev.Request.URL,
				Method:    ev.Request.Method,
				RequestID: string(ev.RequestID),
			})
		case *network.EventResponseReceived:
			s.appendNetwork(NetworkEntry{
				Type:       "response",
				URL:        ev.Response.URL,
				Status:     ev.Response.Status,
				StatusText: ev.Response.StatusText,
				MIMEType:   ev.Response.MimeType,
				RequestID:  string(ev.RequestID),
			})
		}
	})
}

func (s *Session) appendConsole(ev *cdpruntime.EventConsoleAPICalled) {
	parts := make([]string, 0, len(ev.Args))
	for _, arg := range ev.Args {
		if arg.Value != nil {
			parts = append(parts, string(arg.Value))
		} else if arg.Description != "" {
			parts = append(parts, arg.Description)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.console = append(s.console, ConsoleEntry{
		Level:     strings.ToUpper(string(ev.Type)),
		Message:   strings.Join(parts, " "),
		Timestamp: float64(time.Now().UnixMilli()),
	})
	if len(s.console) > maxLogEntries {
		s.console = s.console[len(s.console)-maxLogEntries:]
	}
}

func (s *Session) appendNetwork(entry NetworkEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.network = append(s.network, entry)
	if len(s.network) > maxLogEntries {
		s.network = s.network[len(s.network)-maxLogEntries:]
	}
}

// opCtx derives a per-operation timeout context
func (s *Session) opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(s.ctx, s.waitTimeout)
}

// Navigate loads a URL and waits for the page load event
func (s *Session) Navigate(url string) (finalURL, title string, err error) {
	ctx, cancel := s.opCtx()
	defer cancel()
	err = chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.Location(&finalURL),
		chromedp.Title(&title),
	)
	return finalURL, title, err
}

// Screenshot captures the viewport, or the whole page when fullPage is set.
// The output is always PNG.
func (s *Session) Screenshot(fullPage bool) ([]byte, error) {
	ctx, cancel := s.opCtx()
	defer cancel()

	var buf []byte
	var err error
	if fullPage {
		err = chromedp.Run(ctx, chromedp.FullScreenshot(&buf, 100))
	} else {
		err = chromedp.Run(ctx, chromedp.CaptureScreenshot(&buf))
	}
	if err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return nil, errors.New("browser returned empty screenshot")
	}
	return buf, nil
}

// Click waits for the element matching the CSS selector and clicks it
func (s *Session) Click(selector string) error {
	ctx, cancel := s.opCtx()
	defer cancel()
	return chromedp.Run(ctx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible))
}

// Fill clears an input and types the value into it
func (s *Session) Fill(selector, value string) error {
	ctx, cancel := s.opCtx()
	defer cancel()
	return chromedp.Run(ctx,
		chromedp.WaitReady(selector, chromedp.ByQuery),
		chromedp.SetValue(selector, value, chromedp.ByQuery),
	)
}

// Text returns the text content of the first element matching the selector
func (s *Session) Text(selector string) (string, error) {
	ctx, cancel := s.opCtx()
	defer cancel()
	var out string
	err := chromedp.Run(ctx, chromedp.Text(selector, &out, chromedp.ByQuery))
	return out, err
}

// Info returns the current URL and page title
func (s *Session) Info() (url, title string, err error) {
	ctx, cancel := s.opCtx()
	defer cancel()
	err = chromedp.Run(ctx, chromedp.Location(&url), chromedp.Title(&title))
	return url, title, err
}

// HTML returns the page source
func (s *Session) HTML() (string, error) {
	ctx, cancel := s.opCtx()
	defer cancel()
	var out string
	err := chromedp.Run(ctx, chromedp.OuterHTML("html", &out, chromedp.ByQuery))
	return out, err
}

// Eval executes JavaScript on the page and returns its JSON-encoded result
func (s *Session) Eval(script string) (json.RawMessage, error) {
	ctx, cancel := s.opCtx()
	defer cancel()
	var result json.RawMessage
	err := chromedp.Run(ctx, chromedp.Evaluate(script, &result))
	return result, err
}

// WaitFor blocks until an element matching the selector appears
func (s *Session) WaitFor(selector string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = s.waitTimeout
	}
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

// Console returns the captured console messages
func (s *Session) Console() []ConsoleEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ConsoleEntry, len(s.console))
	copy(out, s.console)
	return out
}

// Network returns the captured network events
func (s *Session) Network() []NetworkEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]NetworkEntry, len(s.network))
	copy(out, s.network)
	return out
}
