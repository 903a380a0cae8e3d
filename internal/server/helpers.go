package server

import (
	"encoding/base64"
	"fmt"
	"html"
	"strings"

	"github.com/dooshek/winbridge/internal/browser"
	"github.com/dooshek/winbridge/internal/capture"
	"github.com/dooshek/winbridge/internal/office"
	"github.com/dooshek/winbridge/internal/registry"
)

// escapeReplacer turns literal backslash escapes from JSON payloads into the
// control characters Office expects to receive
var escapeReplacer = strings.NewReplacer(
	`\n`, "\n",
	`\t`, "\t",
	`\r`, "\r",
)

// normalizeText unescapes literal \n/\t/\r sequences and decodes HTML
// entities. Remote callers tend to double-escape text on the way through
// shell and JSON layers.
func normalizeText(text string) string {
	return html.UnescapeString(escapeReplacer.Replace(text))
}

// word acquires (or revives) the Word instance
func (s *Server) word() (office.WordApp, error) {
	h, err := s.registry.Acquire(registry.Word)
	if err != nil {
		return nil, err
	}
	return office.AsWord(h)
}

// excel acquires (or revives) the Excel instance
func (s *Server) excel() (office.ExcelApp, error) {
	h, err := s.registry.Acquire(registry.Excel)
	if err != nil {
		return nil, err
	}
	return office.AsExcel(h)
}

// powerpoint acquires (or revives) the PowerPoint instance
func (s *Server) powerpoint() (office.PowerPointApp, error) {
	h, err := s.registry.Acquire(registry.PowerPoint)
	if err != nil {
		return nil, err
	}
	return office.AsPowerPoint(h)
}

// captureOffice runs the full screenshot flow for one application kind:
// acquire, locate the window, make it capturable, capture, base64 the PNG
func (s *Server) captureOffice(kind registry.Kind) (map[string]any, error) {
	if _, err := s.registry.Acquire(kind); err != nil {
		return nil, err
	}

	className, titleSubstring := office.WindowClass(kind)
	w, ok := s.windows.Locate(className, titleSubstring)
	if !ok {
		return nil, fmt.Errorf("no %s window found", kind)
	}

	rect, err := s.windows.MakeCapturable(w)
	if err != nil {
		return nil, err
	}

	result, err := s.capturer.Capture(capture.Target{Window: w, Rect: rect})
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"image":  base64.StdEncoding.EncodeToString(result.Bytes),
		"mime":   result.MIME,
		"source": result.Source,
		"width":  rect.Dx(),
		"height": rect.Dy(),
	}, nil
}

// session returns the live browser session or ErrNotRunning
func (s *Server) session() (browserSession, error) {
	sess, ok := s.browsers.Current()
	if !ok {
		return nil, browser.ErrNotRunning
	}
	return sess, nil
}
