//go:build windows

package office

import (
	"fmt"
	"runtime"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/dooshek/winbridge/internal/registry"
)

var progIDs = map[registry.Kind]string{
	registry.Word:       "Word.Application",
	registry.Excel:      "Excel.Application",
	registry.PowerPoint: "PowerPoint.Application",
}

// comThread owns the one OS thread every COM call runs on. Office automation
// objects are apartment-threaded: they must be called from the thread that
// created them, which Go's scheduler does not guarantee for plain goroutines.
type comThread struct {
	jobs chan func()
}

func newCOMThread() *comThread {
	t := &comThread{jobs: make(chan func())}
	ready := make(chan struct{})
	go t.loop(ready)
	<-ready
	return t
}

func (t *comThread) loop(ready chan struct{}) {
	runtime.LockOSThread()
	if err := ole.CoInitialize(0); err != nil {
		// Already-initialized is the only realistic failure here
		_ = err
	}
	defer ole.CoUninitialize()
	close(ready)
	for job := range t.jobs {
		job()
	}
}

// do runs fn on the COM thread and waits for it
func (t *comThread) do(fn func() error) error {
	done := make(chan error, 1)
	t.jobs <- func() { done <- fn() }
	return <-done
}

// Launcher starts Office applications over COM
type Launcher struct {
	thread *comThread
}

// NewLauncher creates a launcher with a dedicated COM thread
func NewLauncher() *Launcher {
	return &Launcher{thread: newCOMThread()}
}

// Launch activates a fresh application instance for kind and makes it
// visible. The returned handle doubles as the kind's operation set.
func (l *Launcher) Launch(kind registry.Kind) (registry.Handle, error) {
	progID, ok := progIDs[kind]
	if !ok {
		return nil, fmt.Errorf("unknown application kind %q", kind)
	}

	base := &comApp{kind: kind, thread: l.thread}
	err := l.thread.do(func() error {
		unknown, err := oleutil.CreateObject(progID)
		if err != nil {
			return fmt.Errorf("dispatch %s: %w", progID, err)
		}
		dispatch, err := unknown.QueryInterface(ole.IID_IDispatch)
		if err != nil {
			unknown.Release()
			return fmt.Errorf("query IDispatch for %s: %w", progID, err)
		}
		if _, err := oleutil.PutProperty(dispatch, "Visible", true); err != nil && kind != registry.PowerPoint {
			// PowerPoint manages visibility itself and may reject the put
			dispatch.Release()
			return fmt.Errorf("make %s visible: %w", progID, err)
		}
		base.dispatch = dispatch
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch kind {
	case registry.Word:
		return &wordApp{comApp: base}, nil
	case registry.Excel:
		return &excelApp{comApp: base}, nil
	default:
		return &powerPointApp{comApp: base}, nil
	}
}

// comApp is the shared COM plumbing behind every Office handle
type comApp struct {
	kind     registry.Kind
	thread   *comThread
	dispatch *ole.IDispatch
}

func (a *comApp) Kind() registry.Kind { return a.kind }

// Probe reads an always-present property. The read fails with an RPC error
// once the process has exited or the automation object has detached.
func (a *comApp) Probe() error {
	return a.thread.do(func() error {
		_, err := oleutil.GetProperty(a.dispatch, "Visible")
		return err
	})
}

func (a *comApp) Quit() error {
	return a.thread.do(func() error {
		_, err := oleutil.CallMethod(a.dispatch, "Quit")
		a.dispatch.Release()
		a.dispatch = nil
		return err
	})
}

// collection returns a named collection property and its Count
func (a *comApp) collection(name string) (*ole.IDispatch, int, error) {
	v, err := oleutil.GetProperty(a.dispatch, name)
	if err != nil {
		return nil, 0, fmt.Errorf("get %s: %w", name, err)
	}
	coll := v.ToIDispatch()
	countV, err := oleutil.GetProperty(coll, "Count")
	if err != nil {
		coll.Release()
		return nil, 0, fmt.Errorf("get %s.Count: %w", name, err)
	}
	return coll, int(countV.Val), nil
}
