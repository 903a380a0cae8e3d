//go:build !windows

package office

import "github.com/dooshek/winbridge/internal/registry"

// Launcher reports office automation as unavailable off Windows
type Launcher struct{}

func NewLauncher() *Launcher { return &Launcher{} }

func (l *Launcher) Launch(kind registry.Kind) (registry.Handle, error) {
	return nil, ErrUnsupported
}
