package server

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/dooshek/winbridge/internal/office"
	"github.com/dooshek/winbridge/internal/registry"
)

// fontOptions carries the optional character formatting shared by the write
// and set_font endpoints
type fontOptions struct {
	FontName string  `json:"font_name"`
	FontSize float64 `json:"font_size"`
	Bold     *bool   `json:"bold"`
	Italic   *bool   `json:"italic"`
}

func (f fontOptions) toOffice() *office.FontOptions {
	if f.FontName == "" && f.FontSize == 0 && f.Bold == nil && f.Italic == nil {
		return nil
	}
	return &office.FontOptions{
		Name:   f.FontName,
		Size:   f.FontSize,
		Bold:   f.Bold,
		Italic: f.Italic,
	}
}

func (s *Server) handleWordLaunch(c echo.Context) error {
	app, err := s.word()
	if err != nil {
		return respondErr(c, err)
	}
	if err := app.EnsureDocument(); err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "word is running", nil)
}

func (s *Server) handleWordCreate(c echo.Context) error {
	app, err := s.word()
	if err != nil {
		return respondErr(c, err)
	}
	name, err := app.CreateDocument()
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "document created", map[string]any{"name": name})
}

func (s *Server) handleWordWrite(c echo.Context) error {
	var req struct {
		Text string `json:"text"`
		fontOptions
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}
	if req.Text == "" {
		return respondErr(c, fmt.Errorf("text is required"))
	}

	app, err := s.word()
	if err != nil {
		return respondErr(c, err)
	}
	if err := app.TypeText(normalizeText(req.Text), req.toOffice()); err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "text written", nil)
}

func (s *Server) handleWordRead(c echo.Context) error {
	app, err := s.word()
	if err != nil {
		return respondErr(c, err)
	}
	text, err := app.ReadText()
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "", map[string]any{"text": text, "length": len(text)})
}

func (s *Server) handleWordSave(c echo.Context) error {
	var req struct {
		Path string `json:"path"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}

	app, err := s.word()
	if err != nil {
		return respondErr(c, err)
	}
	if err := app.Save(req.Path); err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "document saved", nil)
}

func (s *Server) handleWordSetFont(c echo.Context) error {
	var req fontOptions
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}

	app, err := s.word()
	if err != nil {
		return respondErr(c, err)
	}
	opts := req.toOffice()
	if opts == nil {
		return respondErr(c, fmt.Errorf("no font settings given"))
	}
	if err := app.SetFont(*opts); err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "font applied", nil)
}

func (s *Server) handleWordSetParagraph(c echo.Context) error {
	var req struct {
		Alignment       string  `json:"alignment"`
		LineSpacing     float64 `json:"line_spacing"`
		SpaceBefore     float64 `json:"space_before"`
		SpaceAfter      float64 `json:"space_after"`
		FirstLineIndent float64 `json:"first_line_indent"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}

	app, err := s.word()
	if err != nil {
		return respondErr(c, err)
	}
	err = app.SetParagraph(office.ParagraphOptions{
		Alignment:       req.Alignment,
		LineSpacing:     req.LineSpacing,
		SpaceBefore:     req.SpaceBefore,
		SpaceAfter:      req.SpaceAfter,
		FirstLineIndent: req.FirstLineIndent,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "paragraph formatting applied", nil)
}

func (s *Server) handleWordAddTable(c echo.Context) error {
	var req struct {
		Rows int        `json:"rows"`
		Cols int        `json:"cols"`
		Data [][]string `json:"data"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}
	if req.Rows < 1 || req.Cols < 1 {
		return respondErr(c, fmt.Errorf("rows and cols must be positive"))
	}

	app, err := s.word()
	if err != nil {
		return respondErr(c, err)
	}
	if err := app.AddTable(req.Rows, req.Cols, req.Data); err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, fmt.Sprintf("%dx%d table added", req.Rows, req.Cols), nil)
}

func (s *Server) handleWordFindReplace(c echo.Context) error {
	var req struct {
		Find       string `json:"find"`
		Replace    string `json:"replace"`
		ReplaceAll bool   `json:"replace_all"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}
	if req.Find == "" {
		return respondErr(c, fmt.Errorf("find is required"))
	}

	app, err := s.word()
	if err != nil {
		return respondErr(c, err)
	}
	found, err := app.FindReplace(req.Find, req.Replace, req.ReplaceAll)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "", map[string]any{"found": found})
}

func (s *Server) handleWordSelectAll(c echo.Context) error {
	app, err := s.word()
	if err != nil {
		return respondErr(c, err)
	}
	if err := app.SelectAll(); err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "selection extended to whole document", nil)
}

func (s *Server) handleWordGetSelection(c echo.Context) error {
	app, err := s.word()
	if err != nil {
		return respondErr(c, err)
	}
	text, err := app.Selection()
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "", map[string]any{"text": text})
}

func (s *Server) handleWordInsertBreak(c echo.Context) error {
	var req struct {
		Type string `json:"type"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}
	if req.Type == "" {
		req.Type = "page"
	}

	app, err := s.word()
	if err != nil {
		return respondErr(c, err)
	}
	if err := app.InsertBreak(req.Type); err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, req.Type+" break inserted", nil)
}

func (s *Server) handleWordScreenshot(c echo.Context) error {
	data, err := s.captureOffice(registry.Word)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "", data)
}

func (s *Server) handleWordClose(c echo.Context) error {
	var req struct {
		Save bool `json:"save"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}

	app, err := s.word()
	if err != nil {
		return respondErr(c, err)
	}
	if err := app.CloseDocument(req.Save); err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "document closed", nil)
}
