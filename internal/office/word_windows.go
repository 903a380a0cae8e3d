//go:build windows

package office

import (
	"fmt"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// Word COM enumeration values
const (
	wdAlignLeft    = 0
	wdAlignCenter  = 1
	wdAlignRight   = 2
	wdAlignJustify = 3

	wdSectionBreakNextPage = 2
	wdLineBreak            = 6
	wdPageBreak            = 7

	wdFindContinue = 1
	wdReplaceOne   = 1
	wdReplaceAll   = 2

	wdDoNotSaveChanges = 0
	wdSaveChanges      = -1
)

type wordApp struct {
	*comApp
}

// activeDocument returns the open document, or ErrNoDocument
func (a *wordApp) activeDocument() (*ole.IDispatch, error) {
	docs, count, err := a.collection("Documents")
	if err != nil {
		return nil, err
	}
	docs.Release()
	if count == 0 {
		return nil, ErrNoDocument
	}
	v, err := oleutil.GetProperty(a.dispatch, "ActiveDocument")
	if err != nil {
		return nil, fmt.Errorf("get ActiveDocument: %w", err)
	}
	return v.ToIDispatch(), nil
}

func (a *wordApp) selection() (*ole.IDispatch, error) {
	v, err := oleutil.GetProperty(a.dispatch, "Selection")
	if err != nil {
		return nil, fmt.Errorf("get Selection: %w", err)
	}
	return v.ToIDispatch(), nil
}

func (a *wordApp) EnsureDocument() error {
	return a.thread.do(func() error {
		docs, count, err := a.collection("Documents")
		if err != nil {
			return err
		}
		defer docs.Release()
		if count > 0 {
			return nil
		}
		_, err = oleutil.CallMethod(docs, "Add")
		return err
	})
}

func (a *wordApp) CreateDocument() (string, error) {
	var name string
	err := a.thread.do(func() error {
		docs, _, err := a.collection("Documents")
		if err != nil {
			return err
		}
		defer docs.Release()
		docV, err := oleutil.CallMethod(docs, "Add")
		if err != nil {
			return fmt.Errorf("add document: %w", err)
		}
		doc := docV.ToIDispatch()
		defer doc.Release()
		nameV, err := oleutil.GetProperty(doc, "Name")
		if err != nil {
			return err
		}
		name = nameV.ToString()
		return nil
	})
	return name, err
}

// applyFont writes the non-zero option fields onto a Font dispatch. Settings
// are applied before typing so new text inherits them.
func applyFont(font *ole.IDispatch, opts FontOptions) error {
	if opts.Name != "" {
		if _, err := oleutil.PutProperty(font, "Name", opts.Name); err != nil {
			return fmt.Errorf("set font name: %w", err)
		}
	}
	if opts.Size > 0 {
		if _, err := oleutil.PutProperty(font, "Size", opts.Size); err != nil {
			return fmt.Errorf("set font size: %w", err)
		}
	}
	if opts.Bold != nil {
		if _, err := oleutil.PutProperty(font, "Bold", comBool(*opts.Bold)); err != nil {
			return fmt.Errorf("set bold: %w", err)
		}
	}
	if opts.Italic != nil {
		if _, err := oleutil.PutProperty(font, "Italic", comBool(*opts.Italic)); err != nil {
			return fmt.Errorf("set italic: %w", err)
		}
	}
	return nil
}

// comBool maps to the VARIANT_BOOL true value Office expects
func comBool(b bool) int {
	if b {
		return -1
	}
	return 0
}

func (a *wordApp) TypeText(text string, font *FontOptions) error {
	return a.thread.do(func() error {
		if _, err := a.activeDocument(); err != nil {
			return err
		}
		sel, err := a.selection()
		if err != nil {
			return err
		}
		defer sel.Release()

		if font != nil {
			fontV, err := oleutil.GetProperty(sel, "Font")
			if err != nil {
				return err
			}
			fontDisp := fontV.ToIDispatch()
			err = applyFont(fontDisp, *font)
			fontDisp.Release()
			if err != nil {
				return err
			}
		}

		_, err = oleutil.CallMethod(sel, "TypeText", text)
		return err
	})
}

func (a *wordApp) ReadText() (string, error) {
	var text string
	err := a.thread.do(func() error {
		doc, err := a.activeDocument()
		if err != nil {
			return err
		}
		defer doc.Release()
		contentV, err := oleutil.GetProperty(doc, "Content")
		if err != nil {
			return err
		}
		content := contentV.ToIDispatch()
		defer content.Release()
		textV, err := oleutil.GetProperty(content, "Text")
		if err != nil {
			return err
		}
		text = textV.ToString()
		return nil
	})
	return text, err
}

func (a *wordApp) Save(path string) error {
	return a.thread.do(func() error {
		doc, err := a.activeDocument()
		if err != nil {
			return err
		}
		defer doc.Release()
		if path == "" {
			_, err = oleutil.CallMethod(doc, "Save")
		} else {
			_, err = oleutil.CallMethod(doc, "SaveAs", path)
		}
		return err
	})
}

func (a *wordApp) SetFont(opts FontOptions) error {
	return a.thread.do(func() error {
		sel, err := a.selection()
		if err != nil {
			return err
		}
		defer sel.Release()
		fontV, err := oleutil.GetProperty(sel, "Font")
		if err != nil {
			return err
		}
		font := fontV.ToIDispatch()
		defer font.Release()
		return applyFont(font, opts)
	})
}

func (a *wordApp) SetParagraph(opts ParagraphOptions) error {
	return a.thread.do(func() error {
		sel, err := a.selection()
		if err != nil {
			return err
		}
		defer sel.Release()
		formatV, err := oleutil.GetProperty(sel, "ParagraphFormat")
		if err != nil {
			return err
		}
		format := formatV.ToIDispatch()
		defer format.Release()

		if opts.Alignment != "" {
			alignment, ok := map[string]int{
				"left":    wdAlignLeft,
				"center":  wdAlignCenter,
				"right":   wdAlignRight,
				"justify": wdAlignJustify,
			}[opts.Alignment]
			if !ok {
				return fmt.Errorf("unknown alignment %q", opts.Alignment)
			}
			if _, err := oleutil.PutProperty(format, "Alignment", alignment); err != nil {
				return err
			}
		}
		if opts.LineSpacing > 0 {
			if _, err := oleutil.PutProperty(format, "LineSpacing", opts.LineSpacing); err != nil {
				return err
			}
		}
		if opts.SpaceBefore > 0 {
			if _, err := oleutil.PutProperty(format, "SpaceBefore", opts.SpaceBefore); err != nil {
				return err
			}
		}
		if opts.SpaceAfter > 0 {
			if _, err := oleutil.PutProperty(format, "SpaceAfter", opts.SpaceAfter); err != nil {
				return err
			}
		}
		if opts.FirstLineIndent > 0 {
			if _, err := oleutil.PutProperty(format, "FirstLineIndent", opts.FirstLineIndent); err != nil {
				return err
			}
		}
		return nil
	})
}

func (a *wordApp) AddTable(rows, cols int, data [][]string) error {
	return a.thread.do(func() error {
		doc, err := a.activeDocument()
		if err != nil {
			return err
		}
		defer doc.Release()
		sel, err := a.selection()
		if err != nil {
			return err
		}
		defer sel.Release()

		rangeV, err := oleutil.GetProperty(sel, "Range")
		if err != nil {
			return err
		}
		selRange := rangeV.ToIDispatch()
		defer selRange.Release()

		tablesV, err := oleutil.GetProperty(doc, "Tables")
		if err != nil {
			return err
		}
		tables := tablesV.ToIDispatch()
		defer tables.Release()

		tableV, err := oleutil.CallMethod(tables, "Add", selRange, rows, cols)
		if err != nil {
			return fmt.Errorf("add table: %w", err)
		}
		table := tableV.ToIDispatch()
		defer table.Release()

		for r, row := range data {
			if r >= rows {
				break
			}
			for c, value := range row {
				if c >= cols {
					break
				}
				cellV, err := oleutil.CallMethod(table, "Cell", r+1, c+1)
				if err != nil {
					return err
				}
				cell := cellV.ToIDispatch()
				cellRangeV, err := oleutil.GetProperty(cell, "Range")
				if err != nil {
					cell.Release()
					return err
				}
				cellRange := cellRangeV.ToIDispatch()
				_, err = oleutil.PutProperty(cellRange, "Text", value)
				cellRange.Release()
				cell.Release()
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (a *wordApp) FindReplace(find, replace string, replaceAll bool) (bool, error) {
	var found bool
	err := a.thread.do(func() error {
		doc, err := a.activeDocument()
		if err != nil {
			return err
		}
		defer doc.Release()
		contentV, err := oleutil.GetProperty(doc, "Content")
		if err != nil {
			return err
		}
		content := contentV.ToIDispatch()
		defer content.Release()
		findV, err := oleutil.GetProperty(content, "Find")
		if err != nil {
			return err
		}
		finder := findV.ToIDispatch()
		defer finder.Release()

		if _, err := oleutil.CallMethod(finder, "ClearFormatting"); err != nil {
			return err
		}

		replaceMode := wdReplaceOne
		if replaceAll {
			replaceMode = wdReplaceAll
		}
		// Positional Find.Execute: FindText, MatchCase, MatchWholeWord,
		// MatchWildcards, MatchSoundsLike, MatchAllWordForms, Forward,
		// Wrap, Format, ReplaceWith, Replace
		resultV, err := oleutil.CallMethod(finder, "Execute",
			find, false, false, false, false, false, true, wdFindContinue, false, replace, replaceMode)
		if err != nil {
			return fmt.Errorf("find execute: %w", err)
		}
		found = resultV.Value() == true
		return nil
	})
	return found, err
}

func (a *wordApp) SelectAll() error {
	return a.thread.do(func() error {
		sel, err := a.selection()
		if err != nil {
			return err
		}
		defer sel.Release()
		_, err = oleutil.CallMethod(sel, "WholeStory")
		return err
	})
}

func (a *wordApp) Selection() (string, error) {
	var text string
	err := a.thread.do(func() error {
		sel, err := a.selection()
		if err != nil {
			return err
		}
		defer sel.Release()
		textV, err := oleutil.GetProperty(sel, "Text")
		if err != nil {
			return err
		}
		text = textV.ToString()
		return nil
	})
	return text, err
}

func (a *wordApp) InsertBreak(kind string) error {
	breakType, ok := map[string]int{
		"page":    wdPageBreak,
		"line":    wdLineBreak,
		"section": wdSectionBreakNextPage,
	}[kind]
	if !ok {
		return fmt.Errorf("unknown break kind %q", kind)
	}
	return a.thread.do(func() error {
		sel, err := a.selection()
		if err != nil {
			return err
		}
		defer sel.Release()
		_, err = oleutil.CallMethod(sel, "InsertBreak", breakType)
		return err
	})
}

func (a *wordApp) CloseDocument(save bool) error {
	return a.thread.do(func() error {
		doc, err := a.activeDocument()
		if err != nil {
			return err
		}
		defer doc.Release()
		saveChanges := wdDoNotSaveChanges
		if save {
			saveChanges = wdSaveChanges
		}
		_, err = oleutil.CallMethod(doc, "Close", saveChanges)
		return err
	})
}
