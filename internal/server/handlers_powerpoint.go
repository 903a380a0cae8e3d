package server

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/dooshek/winbridge/internal/registry"
)

func (s *Server) handlePowerPointLaunch(c echo.Context) error {
	app, err := s.powerpoint()
	if err != nil {
		return respondErr(c, err)
	}
	if err := app.EnsurePresentation(); err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "powerpoint is running", nil)
}

func (s *Server) handlePowerPointCreate(c echo.Context) error {
	app, err := s.powerpoint()
	if err != nil {
		return respondErr(c, err)
	}
	name, err := app.CreatePresentation()
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "presentation created", map[string]any{"name": name})
}

func (s *Server) handlePowerPointAddSlide(c echo.Context) error {
	var req struct {
		Layout int `json:"layout"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}

	app, err := s.powerpoint()
	if err != nil {
		return respondErr(c, err)
	}
	index, err := app.AddSlide(req.Layout)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "slide added", map[string]any{"slide": index})
}

func (s *Server) handlePowerPointWriteText(c echo.Context) error {
	var req struct {
		Slide int    `json:"slide"`
		Shape int    `json:"shape"`
		Text  string `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}
	if req.Slide < 1 {
		return respondErr(c, fmt.Errorf("slide must be a 1-based index"))
	}
	if req.Shape < 1 {
		req.Shape = 1
	}

	app, err := s.powerpoint()
	if err != nil {
		return respondErr(c, err)
	}
	if err := app.WriteText(req.Slide, req.Shape, normalizeText(req.Text)); err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "text written", nil)
}

func (s *Server) handlePowerPointReadSlide(c echo.Context) error {
	var req struct {
		Slide int `json:"slide"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}
	if req.Slide < 1 {
		return respondErr(c, fmt.Errorf("slide must be a 1-based index"))
	}

	app, err := s.powerpoint()
	if err != nil {
		return respondErr(c, err)
	}
	texts, err := app.ReadSlide(req.Slide)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "", map[string]any{"slide": req.Slide, "texts": texts})
}

func (s *Server) handlePowerPointSlideCount(c echo.Context) error {
	app, err := s.powerpoint()
	if err != nil {
		return respondErr(c, err)
	}
	count, err := app.SlideCount()
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "", map[string]any{"count": count})
}

func (s *Server) handlePowerPointSave(c echo.Context) error {
	var req struct {
		Path string `json:"path"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}

	app, err := s.powerpoint()
	if err != nil {
		return respondErr(c, err)
	}
	if err := app.Save(req.Path); err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "presentation saved", nil)
}

func (s *Server) handlePowerPointScreenshot(c echo.Context) error {
	data, err := s.captureOffice(registry.PowerPoint)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "", data)
}

func (s *Server) handlePowerPointClose(c echo.Context) error {
	var req struct {
		Save bool `json:"save"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}

	app, err := s.powerpoint()
	if err != nil {
		return respondErr(c, err)
	}
	if err := app.ClosePresentation(req.Save); err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "presentation closed", nil)
}
