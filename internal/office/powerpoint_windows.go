//go:build windows

package office

import (
	"fmt"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// PowerPoint COM enumeration values
const (
	ppLayoutText   = 2
	msoTriStateYes = -1
)

type powerPointApp struct {
	*comApp
}

// activePresentation returns the open presentation, or ErrNoDocument
func (a *powerPointApp) activePresentation() (*ole.IDispatch, error) {
	presentations, count, err := a.collection("Presentations")
	if err != nil {
		return nil, err
	}
	presentations.Release()
	if count == 0 {
		return nil, ErrNoDocument
	}
	v, err := oleutil.GetProperty(a.dispatch, "ActivePresentation")
	if err != nil {
		return nil, fmt.Errorf("get ActivePresentation: %w", err)
	}
	return v.ToIDispatch(), nil
}

// slide resolves a 1-based slide index
func slideAt(presentation *ole.IDispatch, index int) (*ole.IDispatch, error) {
	slidesV, err := oleutil.GetProperty(presentation, "Slides")
	if err != nil {
		return nil, err
	}
	slides := slidesV.ToIDispatch()
	defer slides.Release()
	v, err := oleutil.GetProperty(slides, "Item", index)
	if err != nil {
		return nil, fmt.Errorf("slide %d: %w", index, err)
	}
	return v.ToIDispatch(), nil
}

func (a *powerPointApp) EnsurePresentation() error {
	return a.thread.do(func() error {
		presentations, count, err := a.collection("Presentations")
		if err != nil {
			return err
		}
		defer presentations.Release()
		if count > 0 {
			return nil
		}
		_, err = oleutil.CallMethod(presentations, "Add", msoTriStateYes)
		return err
	})
}

func (a *powerPointApp) CreatePresentation() (string, error) {
	var name string
	err := a.thread.do(func() error {
		presentations, _, err := a.collection("Presentations")
		if err != nil {
			return err
		}
		defer presentations.Release()
		presV, err := oleutil.CallMethod(presentations, "Add", msoTriStateYes)
		if err != nil {
			return fmt.Errorf("add presentation: %w", err)
		}
		pres := presV.ToIDispatch()
		defer pres.Release()
		nameV, err := oleutil.GetProperty(pres, "Name")
		if err != nil {
			return err
		}
		name = nameV.ToString()
		return nil
	})
	return name, err
}

func (a *powerPointApp) AddSlide(layout int) (int, error) {
	if layout == 0 {
		layout = ppLayoutText
	}
	var index int
	err := a.thread.do(func() error {
		pres, err := a.activePresentation()
		if err != nil {
			return err
		}
		defer pres.Release()
		slidesV, err := oleutil.GetProperty(pres, "Slides")
		if err != nil {
			return err
		}
		slides := slidesV.ToIDispatch()
		defer slides.Release()
		countV, err := oleutil.GetProperty(slides, "Count")
		if err != nil {
			return err
		}
		index = int(countV.Val) + 1
		_, err = oleutil.CallMethod(slides, "Add", index, layout)
		return err
	})
	return index, err
}

func (a *powerPointApp) WriteText(slide, shape int, text string) error {
	return a.thread.do(func() error {
		pres, err := a.activePresentation()
		if err != nil {
			return err
		}
		defer pres.Release()
		sl, err := slideAt(pres, slide)
		if err != nil {
			return err
		}
		defer sl.Release()
		shapesV, err := oleutil.GetProperty(sl, "Shapes")
		if err != nil {
			return err
		}
		shapes := shapesV.ToIDispatch()
		defer shapes.Release()
		shapeV, err := oleutil.GetProperty(shapes, "Item", shape)
		if err != nil {
			return fmt.Errorf("shape %d: %w", shape, err)
		}
		shapeDisp := shapeV.ToIDispatch()
		defer shapeDisp.Release()
		frameV, err := oleutil.GetProperty(shapeDisp, "TextFrame")
		if err != nil {
			return err
		}
		frame := frameV.ToIDispatch()
		defer frame.Release()
		rangeV, err := oleutil.GetProperty(frame, "TextRange")
		if err != nil {
			return err
		}
		textRange := rangeV.ToIDispatch()
		defer textRange.Release()
		_, err = oleutil.PutProperty(textRange, "Text", text)
		return err
	})
}

func (a *powerPointApp) ReadSlide(slide int) ([]string, error) {
	var texts []string
	err := a.thread.do(func() error {
		pres, err := a.activePresentation()
		if err != nil {
			return err
		}
		defer pres.Release()
		sl, err := slideAt(pres, slide)
		if err != nil {
			return err
		}
		defer sl.Release()
		shapesV, err := oleutil.GetProperty(sl, "Shapes")
		if err != nil {
			return err
		}
		shapes := shapesV.ToIDispatch()
		defer shapes.Release()
		countV, err := oleutil.GetProperty(shapes, "Count")
		if err != nil {
			return err
		}

		for i := 1; i <= int(countV.Val); i++ {
			shapeV, err := oleutil.GetProperty(shapes, "Item", i)
			if err != nil {
				return err
			}
			shape := shapeV.ToIDispatch()
			text, err := shapeText(shape)
			shape.Release()
			if err != nil {
				return err
			}
			if text != "" {
				texts = append(texts, text)
			}
		}
		return nil
	})
	return texts, err
}

// shapeText reads a shape's text, returning "" for shapes without a frame
func shapeText(shape *ole.IDispatch) (string, error) {
	hasFrameV, err := oleutil.GetProperty(shape, "HasTextFrame")
	if err != nil {
		return "", err
	}
	if hasFrameV.Val != msoTriStateYes {
		return "", nil
	}
	frameV, err := oleutil.GetProperty(shape, "TextFrame")
	if err != nil {
		return "", err
	}
	frame := frameV.ToIDispatch()
	defer frame.Release()
	rangeV, err := oleutil.GetProperty(frame, "TextRange")
	if err != nil {
		return "", err
	}
	textRange := rangeV.ToIDispatch()
	defer textRange.Release()
	textV, err := oleutil.GetProperty(textRange, "Text")
	if err != nil {
		return "", err
	}
	return textV.ToString(), nil
}

func (a *powerPointApp) SlideCount() (int, error) {
	var count int
	err := a.thread.do(func() error {
		pres, err := a.activePresentation()
		if err != nil {
			return err
		}
		defer pres.Release()
		slidesV, err := oleutil.GetProperty(pres, "Slides")
		if err != nil {
			return err
		}
		slides := slidesV.ToIDispatch()
		defer slides.Release()
		countV, err := oleutil.GetProperty(slides, "Count")
		if err != nil {
			return err
		}
		count = int(countV.Val)
		return nil
	})
	return count, err
}

func (a *powerPointApp) Save(path string) error {
	return a.thread.do(func() error {
		pres, err := a.activePresentation()
		if err != nil {
			return err
		}
		defer pres.Release()
		if path == "" {
			_, err = oleutil.CallMethod(pres, "Save")
		} else {
			_, err = oleutil.CallMethod(pres, "SaveAs", path)
		}
		return err
	})
}

func (a *powerPointApp) ClosePresentation(save bool) error {
	return a.thread.do(func() error {
		pres, err := a.activePresentation()
		if err != nil {
			return err
		}
		defer pres.Release()
		if save {
			if _, err := oleutil.CallMethod(pres, "Save"); err != nil {
				return err
			}
		}
		_, err = oleutil.CallMethod(pres, "Close")
		return err
	})
}
