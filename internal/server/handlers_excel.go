package server

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/dooshek/winbridge/internal/registry"
)

func (s *Server) handleExcelLaunch(c echo.Context) error {
	app, err := s.excel()
	if err != nil {
		return respondErr(c, err)
	}
	if err := app.EnsureWorkbook(); err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "excel is running", nil)
}

func (s *Server) handleExcelCreate(c echo.Context) error {
	app, err := s.excel()
	if err != nil {
		return respondErr(c, err)
	}
	name, err := app.CreateWorkbook()
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "workbook created", map[string]any{"name": name})
}

func (s *Server) handleExcelWriteCell(c echo.Context) error {
	var req struct {
		Sheet string `json:"sheet"`
		Cell  string `json:"cell"`
		Value any    `json:"value"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}
	if req.Cell == "" {
		return respondErr(c, fmt.Errorf("cell is required"))
	}

	app, err := s.excel()
	if err != nil {
		return respondErr(c, err)
	}
	if text, ok := req.Value.(string); ok {
		req.Value = normalizeText(text)
	}
	if err := app.WriteCell(req.Sheet, req.Cell, req.Value); err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "cell written", map[string]any{"cell": req.Cell})
}

func (s *Server) handleExcelReadCell(c echo.Context) error {
	var req struct {
		Sheet string `json:"sheet"`
		Cell  string `json:"cell"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}
	if req.Cell == "" {
		return respondErr(c, fmt.Errorf("cell is required"))
	}

	app, err := s.excel()
	if err != nil {
		return respondErr(c, err)
	}
	value, err := app.ReadCell(req.Sheet, req.Cell)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "", map[string]any{"cell": req.Cell, "value": value})
}

func (s *Server) handleExcelReadRange(c echo.Context) error {
	var req struct {
		Sheet string `json:"sheet"`
		Range string `json:"range"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}
	if req.Range == "" {
		return respondErr(c, fmt.Errorf("range is required"))
	}

	app, err := s.excel()
	if err != nil {
		return respondErr(c, err)
	}
	values, err := app.ReadRange(req.Sheet, req.Range)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "", map[string]any{"range": req.Range, "values": values})
}

func (s *Server) handleExcelWriteRange(c echo.Context) error {
	var req struct {
		Sheet  string  `json:"sheet"`
		Range  string  `json:"range"`
		Values [][]any `json:"values"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}
	if req.Range == "" || len(req.Values) == 0 {
		return respondErr(c, fmt.Errorf("range and values are required"))
	}

	app, err := s.excel()
	if err != nil {
		return respondErr(c, err)
	}
	if err := app.WriteRange(req.Sheet, req.Range, req.Values); err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, fmt.Sprintf("%d rows written", len(req.Values)), nil)
}

func (s *Server) handleExcelSetFormula(c echo.Context) error {
	var req struct {
		Sheet   string `json:"sheet"`
		Cell    string `json:"cell"`
		Formula string `json:"formula"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}
	if req.Cell == "" || req.Formula == "" {
		return respondErr(c, fmt.Errorf("cell and formula are required"))
	}

	app, err := s.excel()
	if err != nil {
		return respondErr(c, err)
	}
	if err := app.SetFormula(req.Sheet, req.Cell, req.Formula); err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "formula set", map[string]any{"cell": req.Cell})
}

func (s *Server) handleExcelAddSheet(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}

	app, err := s.excel()
	if err != nil {
		return respondErr(c, err)
	}
	if err := app.AddSheet(req.Name); err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "sheet added", nil)
}

func (s *Server) handleExcelDeleteSheet(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}
	if req.Name == "" {
		return respondErr(c, fmt.Errorf("name is required"))
	}

	app, err := s.excel()
	if err != nil {
		return respondErr(c, err)
	}
	if err := app.DeleteSheet(req.Name); err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "sheet deleted", nil)
}

func (s *Server) handleExcelRenameSheet(c echo.Context) error {
	var req struct {
		OldName string `json:"old_name"`
		NewName string `json:"new_name"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}
	if req.NewName == "" {
		return respondErr(c, fmt.Errorf("new_name is required"))
	}

	app, err := s.excel()
	if err != nil {
		return respondErr(c, err)
	}
	if err := app.RenameSheet(req.OldName, req.NewName); err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "sheet renamed", nil)
}

func (s *Server) handleExcelGetSheets(c echo.Context) error {
	app, err := s.excel()
	if err != nil {
		return respondErr(c, err)
	}
	names, err := app.SheetNames()
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "", map[string]any{"sheets": names})
}

func (s *Server) handleExcelSave(c echo.Context) error {
	var req struct {
		Path string `json:"path"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}

	app, err := s.excel()
	if err != nil {
		return respondErr(c, err)
	}
	if err := app.Save(req.Path); err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "workbook saved", nil)
}

func (s *Server) handleExcelScreenshot(c echo.Context) error {
	data, err := s.captureOffice(registry.Excel)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "", data)
}

func (s *Server) handleExcelClose(c echo.Context) error {
	var req struct {
		Save bool `json:"save"`
	}
	if err := c.Bind(&req); err != nil {
		return respondErr(c, err)
	}

	app, err := s.excel()
	if err != nil {
		return respondErr(c, err)
	}
	if err := app.CloseWorkbook(req.Save); err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, "workbook closed", nil)
}
