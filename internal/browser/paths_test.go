package browser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dooshek/winbridge/internal/types"
)

// clearDiscovery points every discovery source at an empty directory so no
// real browser install leaks into the test
func clearDiscovery(t *testing.T) {
	t.Helper()
	empty := t.TempDir()
	t.Setenv("ProgramFiles", empty)
	t.Setenv("ProgramFiles(x86)", empty)
	t.Setenv("LocalAppData", empty)
	t.Setenv("PATH", empty)
}

// plantBinary creates a fake executable on the lookup PATH
func plantBinary(t *testing.T, name string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
	t.Setenv("PATH", dir)
	return path
}

func TestFindBrowserNothingInstalled(t *testing.T) {
	clearDiscovery(t)

	_, _, ok := findBrowser(types.BrowserChrome)
	assert.False(t, ok)
}

func TestFindBrowserPreferredKindWins(t *testing.T) {
	clearDiscovery(t)
	want := plantBinary(t, "chrome")

	path, kind, ok := findBrowser(types.BrowserChrome)
	require.True(t, ok)
	assert.Equal(t, want, path)
	assert.Equal(t, types.BrowserChrome, kind)
}

func TestFindBrowserFallsBackToOtherKind(t *testing.T) {
	clearDiscovery(t)
	want := plantBinary(t, "msedge")

	path, kind, ok := findBrowser(types.BrowserChrome)
	require.True(t, ok)
	assert.Equal(t, want, path)
	assert.Equal(t, types.BrowserEdge, kind)
}
