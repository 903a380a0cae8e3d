package state

import (
	"sync"

	"github.com/dooshek/winbridge/internal/types"
)

var (
	once     sync.Once
	instance *AppState
)

type AppState struct {
	Config *types.Config
}

func Init(cfg *types.Config) {
	once.Do(func() {
		instance = &AppState{
			Config: cfg,
		}
	})
}

func Get() *AppState {
	if instance == nil {
		panic("AppState not initialized")
	}
	return instance
}

func (s *AppState) GetPreferredBrowser() types.BrowserKind {
	return types.BrowserKind(s.Config.GetBrowserConfig().Preferred)
}
