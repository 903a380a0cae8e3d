package server

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dooshek/winbridge/internal/types"
)

func (s *Server) handleBrowserLaunch(c echo.Context) error {
	var req struct {
		Browser  string `json:"browser"`
		Headless *bool  `json:"headless"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}

	kind := types.BrowserKind(req.Browser)
	switch kind {
	case "", types.BrowserChrome, types.BrowserEdge:
	default:
		return respondErr(c, fmt.Errorf("unknown browser %q", req.Browser))
	}

	headless := s.cfg.Headless
	if req.Headless != nil {
		headless = *req.Headless
	}

	sess, err := s.browsers.Launch(kind, headless)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "browser launched", map[string]any{
		"browser":  string(sess.Kind()),
		"headless": sess.Headless(),
	})
}

func (s *Server) handleBrowserClose(c echo.Context) error {
	if _, err := s.session(); err != nil {
		return respondErr(c, err)
	}
	if err := s.browsers.Close(); err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "browser closed", nil)
}

func (s *Server) handleBrowserNavigate(c echo.Context) error {
	var req struct {
		URL string `json:"url"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}
	if req.URL == "" {
		return respondErr(c, fmt.Errorf("url is required"))
	}

	sess, err := s.session()
	if err != nil {
		return respondErr(c, err)
	}
	finalURL, title, err := sess.Navigate(req.URL)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "", map[string]any{"url": finalURL, "title": title})
}

func (s *Server) handleBrowserScreenshot(c echo.Context) error {
	sess, err := s.session()
	if err != nil {
		return respondErr(c, err)
	}
	fullPage := c.QueryParam("full_page") == "true"

	png, err := sess.Screenshot(fullPage)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "", map[string]any{
		"image":     base64.StdEncoding.EncodeToString(png),
		"mime":      "image/png",
		"full_page": fullPage,
	})
}

func (s *Server) handleBrowserClick(c echo.Context) error {
	var req struct {
		Selector string `json:"selector"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}
	if req.Selector == "" {
		return respondErr(c, fmt.Errorf("selector is required"))
	}

	sess, err := s.session()
	if err != nil {
		return respondErr(c, err)
	}
	if err := sess.Click(req.Selector); err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "clicked "+req.Selector, nil)
}

func (s *Server) handleBrowserFill(c echo.Context) error {
	var req struct {
		Selector string `json:"selector"`
		Value    string `json:"value"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}
	if req.Selector == "" {
		return respondErr(c, fmt.Errorf("selector is required"))
	}

	sess, err := s.session()
	if err != nil {
		return respondErr(c, err)
	}
	if err := sess.Fill(req.Selector, req.Value); err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "filled "+req.Selector, nil)
}

func (s *Server) handleBrowserGetText(c echo.Context) error {
	var req struct {
		Selector string `json:"selector"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}
	if req.Selector == "" {
		req.Selector = "body"
	}

	sess, err := s.session()
	if err != nil {
		return respondErr(c, err)
	}
	text, err := sess.Text(req.Selector)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "", map[string]any{"text": text})
}

func (s *Server) handleBrowserGetInfo(c echo.Context) error {
	sess, err := s.session()
	if err != nil {
		return respondErr(c, err)
	}
	url, title, err := sess.Info()
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "", map[string]any{
		"url":      url,
		"title":    title,
		"browser":  string(sess.Kind()),
		"headless": sess.Headless(),
	})
}

func (s *Server) handleBrowserGetHTML(c echo.Context) error {
	sess, err := s.session()
	if err != nil {
		return respondErr(c, err)
	}
	html, err := sess.HTML()
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "", map[string]any{"html": html, "length": len(html)})
}

func (s *Server) handleBrowserExecuteScript(c echo.Context) error {
	var req struct {
		Script string `json:"script"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}
	if req.Script == "" {
		return respondErr(c, fmt.Errorf("script is required"))
	}

	sess, err := s.session()
	if err != nil {
		return respondErr(c, err)
	}
	result, err := sess.Eval(req.Script)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "", map[string]any{"result": result})
}

func (s *Server) handleBrowserGetConsole(c echo.Context) error {
	sess, err := s.session()
	if err != nil {
		return respondErr(c, err)
	}
	entries := sess.Console()
	return respondOK(c, "", map[string]any{"entries": entries, "count": len(entries)})
}

func (s *Server) handleBrowserGetNetwork(c echo.Context) error {
	sess, err := s.session()
	if err != nil {
		return respondErr(c, err)
	}
	entries := sess.Network()
	return respondOK(c, "", map[string]any{"entries": entries, "count": len(entries)})
}

func (s *Server) handleBrowserWaitFor(c echo.Context) error {
	var req struct {
		Selector   string  `json:"selector"`
		TimeoutSec float64 `json:"timeout"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}
	if req.Selector == "" {
		return respondErr(c, fmt.Errorf("selector is required"))
	}

	sess, err := s.session()
	if err != nil {
		return respondErr(c, err)
	}
	timeout := time.Duration(req.TimeoutSec * float64(time.Second))
	if err := sess.WaitFor(req.Selector, timeout); err != nil {
		return respondErrDetails(c, "element did not appear", err.Error())
	}
	return respondOK(c, req.Selector+" is visible", nil)
}

// handleBrowserFocus brings the browser window to the foreground using the
// same positioning sequence the office screenshots use
func (s *Server) handleBrowserFocus(c echo.Context) error {
	sess, err := s.session()
	if err != nil {
		return respondErr(c, err)
	}
	if sess.Headless() {
		return respondErr(c, fmt.Errorf("headless browser has no window to focus"))
	}

	w, ok := s.windows.Locate("", sess.TitlePattern())
	if !ok {
		return respondErr(c, fmt.Errorf("no %s window found", sess.Kind()))
	}
	rect, err := s.windows.MakeCapturable(w)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "browser focused", map[string]any{
		"width":  rect.Dx(),
		"height": rect.Dy(),
	})
}
