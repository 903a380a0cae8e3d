package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dooshek/winbridge/internal/types"
)

func TestMergeConfigsKeepsUnsetTargetValues(t *testing.T) {
	target := &types.Config{
		Server:  types.ServerConfig{Host: "127.0.0.1", Port: 9000},
		Browser: types.BrowserConfig{Preferred: "edge", WaitTimeoutSec: 30},
		Capture: types.CaptureConfig{AnchorX: 10, AnchorY: 20, MaxWidth: 800, MaxHeight: 600},
	}
	source := &types.Config{
		Server: types.ServerConfig{Port: 8765},
	}

	mergeConfigs(target, source)

	assert.Equal(t, "127.0.0.1", target.Server.Host)
	assert.Equal(t, 8765, target.Server.Port)
	assert.Equal(t, "edge", target.Browser.Preferred)
	assert.Equal(t, 30, target.Browser.WaitTimeoutSec)
	assert.Equal(t, 800, target.Capture.MaxWidth)
}

func TestMergeConfigsOverridesSetValues(t *testing.T) {
	target := &types.Config{
		Browser: types.BrowserConfig{Preferred: "chrome", ExecutablePath: "/old/chrome"},
	}
	source := &types.Config{
		Browser: types.BrowserConfig{Preferred: "edge", ExecutablePath: "/new/msedge"},
		Capture: types.CaptureConfig{MaxWidth: 1280, MaxHeight: 720},
	}

	mergeConfigs(target, source)

	assert.Equal(t, "edge", target.Browser.Preferred)
	assert.Equal(t, "/new/msedge", target.Browser.ExecutablePath)
	assert.Equal(t, 1280, target.Capture.MaxWidth)
	assert.Equal(t, 720, target.Capture.MaxHeight)
}
