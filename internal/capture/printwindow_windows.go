//go:build windows

package capture

import (
	"errors"
	"image"
	"syscall"
	"unsafe"

	"github.com/lxn/win"
)

var (
	user32          = syscall.NewLazyDLL("user32.dll")
	procPrintWindow = user32.NewProc("PrintWindow")
	procGetWindowDC = user32.NewProc("GetWindowDC")
)

const pwRenderFullContent = 2

func platformStrategies() []Strategy {
	return []Strategy{&printWindowStrategy{}}
}

// printWindowStrategy asks the window to render itself into a memory device
// context. GPU-composited windows often refuse PrintWindow; a raw BitBlt of
// the window DC is the very last resort and may yield a black or stale
// image, but it guarantees some output.
type printWindowStrategy struct{}

func (s *printWindowStrategy) Name() string { return "printwindow" }

func (s *printWindowStrategy) Capture(t Target) (image.Image, error) {
	if t.Window == 0 {
		return nil, errors.New("no window handle")
	}
	hwnd := win.HWND(t.Window)

	width := t.Rect.Dx()
	height := t.Rect.Dy()
	if width <= 0 || height <= 0 {
		return nil, errors.New("empty window rect")
	}

	hdcWindow, _, _ := procGetWindowDC.Call(uintptr(hwnd))
	if hdcWindow == 0 {
		return nil, errors.New("GetWindowDC failed")
	}
	defer win.ReleaseDC(hwnd, win.HDC(hdcWindow))

	hdcMem := win.CreateCompatibleDC(win.HDC(hdcWindow))
	if hdcMem == 0 {
		return nil, errors.New("CreateCompatibleDC failed")
	}
	defer win.DeleteDC(hdcMem)

	bitmap := win.CreateCompatibleBitmap(win.HDC(hdcWindow), int32(width), int32(height))
	if bitmap == 0 {
		return nil, errors.New("CreateCompatibleBitmap failed")
	}
	defer win.DeleteObject(win.HGDIOBJ(bitmap))
	win.SelectObject(hdcMem, win.HGDIOBJ(bitmap))

	ok, _, _ := procPrintWindow.Call(uintptr(hwnd), uintptr(hdcMem), pwRenderFullContent)
	if ok == 0 {
		if !win.BitBlt(hdcMem, 0, 0, int32(width), int32(height), win.HDC(hdcWindow), 0, 0, win.SRCCOPY) {
			return nil, errors.New("both PrintWindow and BitBlt failed")
		}
	}

	return bitmapToImage(hdcMem, bitmap, width, height)
}

// bitmapToImage copies the bitmap bits out as a top-down 32-bit DIB and
// converts BGRA to RGBA
func bitmapToImage(hdc win.HDC, bitmap win.HBITMAP, width, height int) (*image.RGBA, error) {
	var info win.BITMAPINFO
	info.BmiHeader.BiSize = uint32(unsafe.Sizeof(info.BmiHeader))
	info.BmiHeader.BiWidth = int32(width)
	info.BmiHeader.BiHeight = -int32(height) // negative height: top-down rows
	info.BmiHeader.BiPlanes = 1
	info.BmiHeader.BiBitCount = 32
	info.BmiHeader.BiCompression = win.BI_RGB

	buf := make([]byte, width*height*4)
	if win.GetDIBits(hdc, bitmap, 0, uint32(height), &buf[0], &info, win.DIB_RGB_COLORS) == 0 {
		return nil, errors.New("GetDIBits failed")
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i+3 < len(buf); i += 4 {
		img.Pix[i] = buf[i+2]
		img.Pix[i+1] = buf[i+1]
		img.Pix[i+2] = buf[i]
		img.Pix[i+3] = 0xff
	}
	return img, nil
}
