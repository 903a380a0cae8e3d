package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServerConfigDefaults(t *testing.T) {
	cfg := (&Config{}).GetServerConfig()
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 8765, cfg.Port)

	cfg = (&Config{Server: ServerConfig{Host: "127.0.0.1", Port: 9999}}).GetServerConfig()
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 9999, cfg.Port)
}

func TestBrowserConfigDefaults(t *testing.T) {
	cfg := (&Config{}).GetBrowserConfig()
	assert.Equal(t, string(BrowserChrome), cfg.Preferred)
	assert.Equal(t, 10, cfg.WaitTimeoutSec)
	assert.False(t, cfg.Headless)
}

func TestCaptureConfigDefaults(t *testing.T) {
	cfg := (&Config{}).GetCaptureConfig()
	assert.Equal(t, 50, cfg.AnchorX)
	assert.Equal(t, 50, cfg.AnchorY)
	assert.Equal(t, 1600, cfg.MaxWidth)
	assert.Equal(t, 900, cfg.MaxHeight)
}
