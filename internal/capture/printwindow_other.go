//go:build !windows

package capture

// Print-to-device-context capture only exists on Windows; elsewhere the
// chain ends after the screen grabbers.
func platformStrategies() []Strategy { return nil }
