package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandle struct {
	kind     Kind
	probeErr error
	quits    int
}

func (h *fakeHandle) Kind() Kind   { return h.kind }
func (h *fakeHandle) Probe() error { return h.probeErr }
func (h *fakeHandle) Quit() error  { h.quits++; return nil }

type fakeLauncher struct {
	launches int
	err      error
}

func (l *fakeLauncher) launch(kind Kind) (Handle, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.launches++
	return &fakeHandle{kind: kind}, nil
}

func TestAcquireReusesLiveHandle(t *testing.T) {
	launcher := &fakeLauncher{}
	r := New(launcher.launch)

	first, err := r.Acquire(Word)
	require.NoError(t, err)
	second, err := r.Acquire(Word)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, launcher.launches, "second acquire must not construct")
	assert.NoError(t, first.Probe())
}

func TestAcquireReplacesStaleHandle(t *testing.T) {
	launcher := &fakeLauncher{}
	r := New(launcher.launch)

	first, err := r.Acquire(Excel)
	require.NoError(t, err)

	// Simulate the underlying process being killed between requests
	first.(*fakeHandle).probeErr = errors.New("RPC server is unavailable")

	second, err := r.Acquire(Excel)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, 2, launcher.launches)
}

func TestAcquireLaunchFailureIsTyped(t *testing.T) {
	launcher := &fakeLauncher{err: errors.New("class not registered")}
	r := New(launcher.launch)

	_, err := r.Acquire(PowerPoint)

	var launchErr *LaunchError
	require.ErrorAs(t, err, &launchErr)
	assert.Equal(t, PowerPoint, launchErr.Kind)
	assert.Contains(t, err.Error(), "class not registered")
}

func TestKindsAreIndependent(t *testing.T) {
	launcher := &fakeLauncher{}
	r := New(launcher.launch)

	word, err := r.Acquire(Word)
	require.NoError(t, err)
	excel, err := r.Acquire(Excel)
	require.NoError(t, err)

	assert.Equal(t, Word, word.Kind())
	assert.Equal(t, Excel, excel.Kind())
	assert.Equal(t, 2, launcher.launches)
}

func TestReleaseQuitsAndClearsSlot(t *testing.T) {
	launcher := &fakeLauncher{}
	r := New(launcher.launch)

	h, err := r.Acquire(Word)
	require.NoError(t, err)
	require.NoError(t, r.Release(Word))

	assert.Equal(t, 1, h.(*fakeHandle).quits)

	// Next acquire launches a fresh instance
	_, err = r.Acquire(Word)
	require.NoError(t, err)
	assert.Equal(t, 2, launcher.launches)
}

func TestReleaseWithoutHandleIsNoop(t *testing.T) {
	r := New((&fakeLauncher{}).launch)

	assert.NoError(t, r.Release(Excel))
}

func TestActiveReportsHeldKinds(t *testing.T) {
	launcher := &fakeLauncher{}
	r := New(launcher.launch)

	_, err := r.Acquire(Word)
	require.NoError(t, err)

	active := r.Active()
	assert.True(t, active[Word])
	assert.False(t, active[Excel])
	assert.False(t, active[PowerPoint])
}
