//go:build windows

package office

import (
	"fmt"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

type excelApp struct {
	*comApp
}

// activeWorkbook returns the open workbook, or ErrNoDocument
func (a *excelApp) activeWorkbook() (*ole.IDispatch, error) {
	books, count, err := a.collection("Workbooks")
	if err != nil {
		return nil, err
	}
	books.Release()
	if count == 0 {
		return nil, ErrNoDocument
	}
	v, err := oleutil.GetProperty(a.dispatch, "ActiveWorkbook")
	if err != nil {
		return nil, fmt.Errorf("get ActiveWorkbook: %w", err)
	}
	return v.ToIDispatch(), nil
}

// worksheet resolves a sheet by name, or the active sheet when name is empty
func (a *excelApp) worksheet(book *ole.IDispatch, name string) (*ole.IDispatch, error) {
	if name == "" {
		v, err := oleutil.GetProperty(a.dispatch, "ActiveSheet")
		if err != nil {
			return nil, fmt.Errorf("get ActiveSheet: %w", err)
		}
		return v.ToIDispatch(), nil
	}
	sheetsV, err := oleutil.GetProperty(book, "Worksheets")
	if err != nil {
		return nil, err
	}
	sheets := sheetsV.ToIDispatch()
	defer sheets.Release()
	v, err := oleutil.GetProperty(sheets, "Item", name)
	if err != nil {
		return nil, fmt.Errorf("worksheet %q: %w", name, err)
	}
	return v.ToIDispatch(), nil
}

// cellRange resolves an A1-style reference on a sheet
func cellRange(sheet *ole.IDispatch, ref string) (*ole.IDispatch, error) {
	v, err := oleutil.GetProperty(sheet, "Range", ref)
	if err != nil {
		return nil, fmt.Errorf("range %q: %w", ref, err)
	}
	return v.ToIDispatch(), nil
}

func (a *excelApp) EnsureWorkbook() error {
	return a.thread.do(func() error {
		books, count, err := a.collection("Workbooks")
		if err != nil {
			return err
		}
		defer books.Release()
		if count > 0 {
			return nil
		}
		_, err = oleutil.CallMethod(books, "Add")
		return err
	})
}

func (a *excelApp) CreateWorkbook() (string, error) {
	var name string
	err := a.thread.do(func() error {
		books, _, err := a.collection("Workbooks")
		if err != nil {
			return err
		}
		defer books.Release()
		bookV, err := oleutil.CallMethod(books, "Add")
		if err != nil {
			return fmt.Errorf("add workbook: %w", err)
		}
		book := bookV.ToIDispatch()
		defer book.Release()
		nameV, err := oleutil.GetProperty(book, "Name")
		if err != nil {
			return err
		}
		name = nameV.ToString()
		return nil
	})
	return name, err
}

// withRange runs fn with the resolved range on the COM thread
func (a *excelApp) withRange(sheet, ref string, fn func(rng *ole.IDispatch) error) error {
	return a.thread.do(func() error {
		book, err := a.activeWorkbook()
		if err != nil {
			return err
		}
		defer book.Release()
		ws, err := a.worksheet(book, sheet)
		if err != nil {
			return err
		}
		defer ws.Release()
		rng, err := cellRange(ws, ref)
		if err != nil {
			return err
		}
		defer rng.Release()
		return fn(rng)
	})
}

func (a *excelApp) WriteCell(sheet, cell string, value any) error {
	return a.withRange(sheet, cell, func(rng *ole.IDispatch) error {
		_, err := oleutil.PutProperty(rng, "Value", value)
		return err
	})
}

func (a *excelApp) ReadCell(sheet, cell string) (any, error) {
	var value any
	err := a.withRange(sheet, cell, func(rng *ole.IDispatch) error {
		v, err := oleutil.GetProperty(rng, "Value")
		if err != nil {
			return err
		}
		value = v.Value()
		return nil
	})
	return value, err
}

func (a *excelApp) ReadRange(sheet, ref string) ([][]any, error) {
	var values [][]any
	err := a.withRange(sheet, ref, func(rng *ole.IDispatch) error {
		rowsV, err := oleutil.GetProperty(rng, "Rows")
		if err != nil {
			return err
		}
		rows := rowsV.ToIDispatch()
		defer rows.Release()
		rowCountV, err := oleutil.GetProperty(rows, "Count")
		if err != nil {
			return err
		}
		colsV, err := oleutil.GetProperty(rng, "Columns")
		if err != nil {
			return err
		}
		cols := colsV.ToIDispatch()
		defer cols.Release()
		colCountV, err := oleutil.GetProperty(cols, "Count")
		if err != nil {
			return err
		}

		rowCount := int(rowCountV.Val)
		colCount := int(colCountV.Val)
		values = make([][]any, 0, rowCount)
		for r := 1; r <= rowCount; r++ {
			row := make([]any, 0, colCount)
			for c := 1; c <= colCount; c++ {
				cellV, err := oleutil.GetProperty(rng, "Cells", r, c)
				if err != nil {
					return err
				}
				cell := cellV.ToIDispatch()
				valueV, err := oleutil.GetProperty(cell, "Value")
				cell.Release()
				if err != nil {
					return err
				}
				row = append(row, valueV.Value())
			}
			values = append(values, row)
		}
		return nil
	})
	return values, err
}

func (a *excelApp) WriteRange(sheet, ref string, values [][]any) error {
	return a.withRange(sheet, ref, func(rng *ole.IDispatch) error {
		for r, row := range values {
			for c, value := range row {
				cellV, err := oleutil.GetProperty(rng, "Cells", r+1, c+1)
				if err != nil {
					return err
				}
				cell := cellV.ToIDispatch()
				_, err = oleutil.PutProperty(cell, "Value", value)
				cell.Release()
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (a *excelApp) SetFormula(sheet, cell, formula string) error {
	return a.withRange(sheet, cell, func(rng *ole.IDispatch) error {
		_, err := oleutil.PutProperty(rng, "Formula", formula)
		return err
	})
}

func (a *excelApp) AddSheet(name string) error {
	return a.thread.do(func() error {
		book, err := a.activeWorkbook()
		if err != nil {
			return err
		}
		defer book.Release()
		sheetsV, err := oleutil.GetProperty(book, "Worksheets")
		if err != nil {
			return err
		}
		sheets := sheetsV.ToIDispatch()
		defer sheets.Release()
		sheetV, err := oleutil.CallMethod(sheets, "Add")
		if err != nil {
			return fmt.Errorf("add sheet: %w", err)
		}
		sheet := sheetV.ToIDispatch()
		defer sheet.Release()
		if name != "" {
			if _, err := oleutil.PutProperty(sheet, "Name", name); err != nil {
				return fmt.Errorf("name sheet %q: %w", name, err)
			}
		}
		return nil
	})
}

func (a *excelApp) DeleteSheet(name string) error {
	return a.thread.do(func() error {
		book, err := a.activeWorkbook()
		if err != nil {
			return err
		}
		defer book.Release()
		ws, err := a.worksheet(book, name)
		if err != nil {
			return err
		}
		defer ws.Release()

		// Suppress the confirmation dialog around the delete
		if _, err := oleutil.PutProperty(a.dispatch, "DisplayAlerts", false); err != nil {
			return err
		}
		_, delErr := oleutil.CallMethod(ws, "Delete")
		_, _ = oleutil.PutProperty(a.dispatch, "DisplayAlerts", true)
		return delErr
	})
}

func (a *excelApp) RenameSheet(oldName, newName string) error {
	return a.thread.do(func() error {
		book, err := a.activeWorkbook()
		if err != nil {
			return err
		}
		defer book.Release()
		ws, err := a.worksheet(book, oldName)
		if err != nil {
			return err
		}
		defer ws.Release()
		_, err = oleutil.PutProperty(ws, "Name", newName)
		return err
	})
}

func (a *excelApp) SheetNames() ([]string, error) {
	var names []string
	err := a.thread.do(func() error {
		book, err := a.activeWorkbook()
		if err != nil {
			return err
		}
		defer book.Release()
		sheetsV, err := oleutil.GetProperty(book, "Worksheets")
		if err != nil {
			return err
		}
		sheets := sheetsV.ToIDispatch()
		defer sheets.Release()
		countV, err := oleutil.GetProperty(sheets, "Count")
		if err != nil {
			return err
		}
		for i := 1; i <= int(countV.Val); i++ {
			sheetV, err := oleutil.GetProperty(sheets, "Item", i)
			if err != nil {
				return err
			}
			sheet := sheetV.ToIDispatch()
			nameV, err := oleutil.GetProperty(sheet, "Name")
			sheet.Release()
			if err != nil {
				return err
			}
			names = append(names, nameV.ToString())
		}
		return nil
	})
	return names, err
}

func (a *excelApp) Save(path string) error {
	return a.thread.do(func() error {
		book, err := a.activeWorkbook()
		if err != nil {
			return err
		}
		defer book.Release()
		if path == "" {
			_, err = oleutil.CallMethod(book, "Save")
		} else {
			_, err = oleutil.CallMethod(book, "SaveAs", path)
		}
		return err
	})
}

func (a *excelApp) CloseWorkbook(save bool) error {
	return a.thread.do(func() error {
		book, err := a.activeWorkbook()
		if err != nil {
			return err
		}
		defer book.Release()
		_, err = oleutil.CallMethod(book, "Close", save)
		return err
	})
}
