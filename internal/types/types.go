package types

// BrowserKind identifies which Chromium browser to drive
type BrowserKind string

const (
	BrowserChrome BrowserKind = "chrome"
	BrowserEdge   BrowserKind = "edge"
)

type ServerConfig struct {
	Host string `yaml:"host"` // Bind address, 0.0.0.0 so WSL can reach it
	Port int    `yaml:"port"`
}

type BrowserConfig struct {
	Preferred      string `yaml:"preferred"`       // "chrome" or "edge"
	Headless       bool   `yaml:"headless"`        // Default headless mode for launch
	WaitTimeoutSec int    `yaml:"wait_timeout"`    // Element/page-load wait timeout in seconds
	ExecutablePath string `yaml:"executable_path"` // Override browser binary discovery
}

type CaptureConfig struct {
	AnchorX   int `yaml:"anchor_x"`   // On-screen position windows are moved to before capture
	AnchorY   int `yaml:"anchor_y"`
	MaxWidth  int `yaml:"max_width"`  // Size clamp applied during the anchor move
	MaxHeight int `yaml:"max_height"`
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Browser BrowserConfig `yaml:"browser"`
	Capture CaptureConfig `yaml:"capture"`
}

// GetServerConfig returns server configuration with defaults
func (c *Config) GetServerConfig() ServerConfig {
	config := c.Server
	if config.Host == "" {
		config.Host = "0.0.0.0"
	}
	if config.Port == 0 {
		config.Port = 8765
	}
	return config
}

// GetBrowserConfig returns browser configuration with defaults
func (c *Config) GetBrowserConfig() BrowserConfig {
	config := c.Browser
	if config.Preferred == "" {
		config.Preferred = string(BrowserChrome)
	}
	if config.WaitTimeoutSec == 0 {
		config.WaitTimeoutSec = 10
	}
	return config
}

// GetCaptureConfig returns capture configuration with defaults
func (c *Config) GetCaptureConfig() CaptureConfig {
	config := c.Capture
	if config.AnchorX == 0 {
		config.AnchorX = 50
	}
	if config.AnchorY == 0 {
		config.AnchorY = 50
	}
	if config.MaxWidth == 0 {
		config.MaxWidth = 1600
	}
	if config.MaxHeight == 0 {
		config.MaxHeight = 900
	}
	return config
}
