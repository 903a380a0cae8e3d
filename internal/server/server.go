// Package server exposes the automation surface over HTTP. Every endpoint
// answers with the same JSON envelope so remote callers can branch on the
// success flag without inspecting status codes.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dooshek/winbridge/internal/browser"
	"github.com/dooshek/winbridge/internal/capture"
	"github.com/dooshek/winbridge/internal/logger"
	"github.com/dooshek/winbridge/internal/registry"
	"github.com/dooshek/winbridge/internal/types"
	"github.com/dooshek/winbridge/internal/winmgr"
)

// windowManager is the slice of winmgr.Manager the handlers need
type windowManager interface {
	Locate(className, titleSubstring string) (winmgr.Window, bool)
	MakeCapturable(w winmgr.Window) (image.Rectangle, error)
}

// screenCapturer is the slice of capture.Chain the handlers need
type screenCapturer interface {
	Capture(t capture.Target) (*capture.Result, error)
}

// browserSession is the operation set of a live browser.Session
type browserSession interface {
	Kind() types.BrowserKind
	Headless() bool
	TitlePattern() string
	Navigate(url string) (finalURL, title string, err error)
	Screenshot(fullPage bool) ([]byte, error)
	Click(selector string) error
	Fill(selector, value string) error
	Text(selector string) (string, error)
	Info() (url, title string, err error)
	HTML() (string, error)
	Eval(script string) (json.RawMessage, error)
	WaitFor(selector string, timeout time.Duration) error
	Console() []browser.ConsoleEntry
	Network() []browser.NetworkEntry
}

// browserControl is the slice of browser.Manager the handlers need
type browserControl interface {
	Launch(kind types.BrowserKind, headless bool) (browserSession, error)
	Current() (browserSession, bool)
	Close() error
}

// browserManager adapts *browser.Manager to the browserControl interface
type browserManager struct {
	m *browser.Manager
}

func (b browserManager) Launch(kind types.BrowserKind, headless bool) (browserSession, error) {
	return b.m.Launch(kind, headless)
}

func (b browserManager) Current() (browserSession, bool) {
	s, ok := b.m.Current()
	if !ok {
		return nil, false
	}
	return s, true
}

func (b browserManager) Close() error { return b.m.Close() }

type Server struct {
	echo        *echo.Echo
	cfg         types.BrowserConfig
	registry    *registry.Registry
	windows     windowManager
	capturer    screenCapturer
	browsers    browserControl
	shutdownReq chan struct{}
}

// New builds the server with its routes registered
func New(cfg types.BrowserConfig, reg *registry.Registry, windows *winmgr.Manager, chain *capture.Chain, browsers *browser.Manager) *Server {
	return newServer(cfg, reg, windows, chain, browserManager{m: browsers})
}

func newServer(cfg types.BrowserConfig, reg *registry.Registry, windows windowManager, capturer screenCapturer, browsers browserControl) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:        e,
		cfg:         cfg,
		registry:    reg,
		windows:     windows,
		capturer:    capturer,
		browsers:    browsers,
		shutdownReq: make(chan struct{}, 1),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.POST("/shutdown", s.handleShutdown)

	word := s.echo.Group("/word")
	word.POST("/launch", s.handleWordLaunch)
	word.POST("/create", s.handleWordCreate)
	word.POST("/write", s.handleWordWrite)
	word.GET("/read", s.handleWordRead)
	word.POST("/save", s.handleWordSave)
	word.POST("/set_font", s.handleWordSetFont)
	word.POST("/set_paragraph", s.handleWordSetParagraph)
	word.POST("/add_table", s.handleWordAddTable)
	word.POST("/find_replace", s.handleWordFindReplace)
	word.POST("/select_all", s.handleWordSelectAll)
	word.GET("/get_selection", s.handleWordGetSelection)
	word.POST("/insert_break", s.handleWordInsertBreak)
	word.GET("/screenshot", s.handleWordScreenshot)
	word.POST("/close", s.handleWordClose)

	excel := s.echo.Group("/excel")
	excel.POST("/launch", s.handleExcelLaunch)
	excel.POST("/create", s.handleExcelCreate)
	excel.POST("/write_cell", s.handleExcelWriteCell)
	excel.POST("/read_cell", s.handleExcelReadCell)
	excel.POST("/read_range", s.handleExcelReadRange)
	excel.POST("/write_range", s.handleExcelWriteRange)
	excel.POST("/set_formula", s.handleExcelSetFormula)
	excel.POST("/add_sheet", s.handleExcelAddSheet)
	excel.POST("/delete_sheet", s.handleExcelDeleteSheet)
	excel.POST("/rename_sheet", s.handleExcelRenameSheet)
	excel.GET("/get_sheets", s.handleExcelGetSheets)
	excel.POST("/save", s.handleExcelSave)
	excel.GET("/screenshot", s.handleExcelScreenshot)
	excel.POST("/close", s.handleExcelClose)

	powerpoint := s.echo.Group("/powerpoint")
	powerpoint.POST("/launch", s.handlePowerPointLaunch)
	powerpoint.POST("/create", s.handlePowerPointCreate)
	powerpoint.POST("/add_slide", s.handlePowerPointAddSlide)
	powerpoint.POST("/write_text", s.handlePowerPointWriteText)
	powerpoint.POST("/read_slide", s.handlePowerPointReadSlide)
	powerpoint.GET("/get_slide_count", s.handlePowerPointSlideCount)
	powerpoint.POST("/save", s.handlePowerPointSave)
	powerpoint.GET("/screenshot", s.handlePowerPointScreenshot)
	powerpoint.POST("/close", s.handlePowerPointClose)

	b := s.echo.Group("/browser")
	b.POST("/launch", s.handleBrowserLaunch)
	b.POST("/close", s.handleBrowserClose)
	b.POST("/navigate", s.handleBrowserNavigate)
	b.GET("/screenshot", s.handleBrowserScreenshot)
	b.POST("/click", s.handleBrowserClick)
	b.POST("/fill", s.handleBrowserFill)
	b.POST("/get_text", s.handleBrowserGetText)
	b.GET("/get_info", s.handleBrowserGetInfo)
	b.GET("/get_html", s.handleBrowserGetHTML)
	b.POST("/execute_script", s.handleBrowserExecuteScript)
	b.GET("/get_console", s.handleBrowserGetConsole)
	b.GET("/get_network", s.handleBrowserGetNetwork)
	b.POST("/wait_for", s.handleBrowserWaitFor)
	b.POST("/focus", s.handleBrowserFocus)
}

// Start blocks serving HTTP until Shutdown is called
func (s *Server) Start(host string, port int) error {
	return s.echo.Start(fmt.Sprintf("%s:%d", host, port))
}

// ShutdownRequested signals when a remote caller hit POST /shutdown
func (s *Server) ShutdownRequested() <-chan struct{} {
	return s.shutdownReq
}

// Shutdown stops the HTTP listener and quits everything the server launched
func (s *Server) Shutdown(ctx context.Context) error {
	s.registry.ReleaseAll()
	if err := s.browsers.Close(); err != nil {
		logger.Warnf("closing browser: %v", err)
	}
	return s.echo.Shutdown(ctx)
}
