// Package office drives Microsoft Word, Excel and PowerPoint through COM
// automation. The portable surface lives here; the COM implementations are
// Windows-only.
package office

import (
	"errors"
	"fmt"

	"github.com/dooshek/winbridge/internal/registry"
)

// ErrUnsupported is returned on platforms without COM
var ErrUnsupported = errors.New("office automation requires windows")

// ErrNoDocument is returned when an operation needs an open document,
// workbook or presentation and the application has none
var ErrNoDocument = errors.New("no active document")

// WindowClass returns the top-level window class and the title substring
// used as a locator fallback for kind. Office window classes are stable
// across versions; the title fallback covers the rest.
func WindowClass(kind registry.Kind) (className, titleSubstring string) {
	switch kind {
	case registry.Word:
		return "OpusApp", "Word"
	case registry.Excel:
		return "XLMAIN", "Excel"
	case registry.PowerPoint:
		return "PPTFrameClass", "PowerPoint"
	}
	return "", string(kind)
}

// FontOptions are character-formatting settings applied to the current
// selection. Nil pointer fields are left untouched.
type FontOptions struct {
	Name   string
	Size   float64
	Bold   *bool
	Italic *bool
}

// ParagraphOptions are paragraph-formatting settings applied to the current
// selection. Zero values are left untouched.
type ParagraphOptions struct {
	Alignment       string // "left", "center", "right", "justify"
	LineSpacing     float64
	SpaceBefore     float64
	SpaceAfter      float64
	FirstLineIndent float64
}

// WordApp is the operation set exposed on a live Word instance
type WordApp interface {
	registry.Handle

	// EnsureDocument creates a document when none is open
	EnsureDocument() error
	CreateDocument() (name string, err error)
	TypeText(text string, font *FontOptions) error
	ReadText() (string, error)
	Save(path string) error
	SetFont(opts FontOptions) error
	SetParagraph(opts ParagraphOptions) error
	AddTable(rows, cols int, data [][]string) error
	FindReplace(find, replace string, replaceAll bool) (bool, error)
	SelectAll() error
	Selection() (string, error)
	InsertBreak(kind string) error
	CloseDocument(save bool) error
}

// ExcelApp is the operation set exposed on a live Excel instance
type ExcelApp interface {
	registry.Handle

	EnsureWorkbook() error
	CreateWorkbook() (name string, err error)
	WriteCell(sheet, cell string, value any) error
	ReadCell(sheet, cell string) (any, error)
	ReadRange(sheet, ref string) ([][]any, error)
	WriteRange(sheet, ref string, values [][]any) error
	SetFormula(sheet, cell, formula string) error
	AddSheet(name string) error
	DeleteSheet(name string) error
	RenameSheet(oldName, newName string) error
	SheetNames() ([]string, error)
	Save(path string) error
	CloseWorkbook(save bool) error
}

// PowerPointApp is the operation set exposed on a live PowerPoint instance
type PowerPointApp interface {
	registry.Handle

	EnsurePresentation() error
	CreatePresentation() (name string, err error)
	AddSlide(layout int) (index int, err error)
	WriteText(slide, shape int, text string) error
	ReadSlide(slide int) ([]string, error)
	SlideCount() (int, error)
	Save(path string) error
	ClosePresentation(save bool) error
}

// AsWord narrows a registry handle to the Word operation set
func AsWord(h registry.Handle) (WordApp, error) {
	app, ok := h.(WordApp)
	if !ok {
		return nil, fmt.Errorf("handle for %s is not a word application", h.Kind())
	}
	return app, nil
}

// AsExcel narrows a registry handle to the Excel operation set
func AsExcel(h registry.Handle) (ExcelApp, error) {
	app, ok := h.(ExcelApp)
	if !ok {
		return nil, fmt.Errorf("handle for %s is not an excel application", h.Kind())
	}
	return app, nil
}

// AsPowerPoint narrows a registry handle to the PowerPoint operation set
func AsPowerPoint(h registry.Handle) (PowerPointApp, error) {
	app, ok := h.(PowerPointApp)
	if !ok {
		return nil, fmt.Errorf("handle for %s is not a powerpoint application", h.Kind())
	}
	return app, nil
}
