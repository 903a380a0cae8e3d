package browser

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/dooshek/winbridge/internal/logger"
	"github.com/dooshek/winbridge/internal/types"
)

// chromePaths lists the usual Chrome install locations on Windows
func chromePaths() []string {
	candidates := []string{
		filepath.Join(os.Getenv("ProgramFiles"), "Google", "Chrome", "Application", "chrome.exe"),
		filepath.Join(os.Getenv("ProgramFiles(x86)"), "Google", "Chrome", "Application", "chrome.exe"),
		filepath.Join(os.Getenv("LocalAppData"), "Google", "Chrome", "Application", "chrome.exe"),
	}
	return candidates
}

// edgePaths lists the usual Edge install locations on Windows
func edgePaths() []string {
	candidates := []string{
		filepath.Join(os.Getenv("ProgramFiles(x86)"), "Microsoft", "Edge", "Application", "msedge.exe"),
		filepath.Join(os.Getenv("ProgramFiles"), "Microsoft", "Edge", "Application", "msedge.exe"),
	}
	return candidates
}

// lookupNames are PATH fallbacks, mostly useful on non-Windows dev machines
var lookupNames = map[types.BrowserKind][]string{
	types.BrowserChrome: {"chrome", "google-chrome", "chromium", "chromium-browser"},
	types.BrowserEdge:   {"msedge", "microsoft-edge"},
}

// findKind locates the binary for one browser kind
func findKind(kind types.BrowserKind) (string, bool) {
	var candidates []string
	if kind == types.BrowserEdge {
		candidates = edgePaths()
	} else {
		candidates = chromePaths()
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	for _, name := range lookupNames[kind] {
		if path, err := exec.LookPath(name); err == nil {
			return path, true
		}
	}
	return "", false
}

// findBrowser locates the preferred browser, falling back to the other kind
// when it is not installed
func findBrowser(preferred types.BrowserKind) (path string, kind types.BrowserKind, ok bool) {
	order := []types.BrowserKind{types.BrowserChrome, types.BrowserEdge}
	if preferred == types.BrowserEdge {
		order = []types.BrowserKind{types.BrowserEdge, types.BrowserChrome}
	}
	for _, kind := range order {
		if path, found := findKind(kind); found {
			if kind != preferred {
				logger.Warnf("%s not found, using %s instead", preferred, kind)
			}
			return path, kind, true
		}
	}
	return "", "", false
}
