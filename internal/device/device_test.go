//go:build linux

package device

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeatGlow/gamma"
)

func TestCount(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"card0", "card1", "card3"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}
	assert.Equal(t, 2, Count(filepath.Join(dir, "card%d")))
	assert.Equal(t, 0, Count(filepath.Join(dir, "fb%d")))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "card0")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	f, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = Open(filepath.Join(dir, "card1"))
	assert.ErrorIs(t, err, gamma.ErrNoSuchPartition)
}

func TestOpenError(t *testing.T) {
	err := OpenError("/dev/dri/card9", syscall.ENOENT)
	assert.ErrorIs(t, err, gamma.ErrNoSuchPartition)

	err = OpenError("/dev/dri/card9", syscall.ENODEV)
	assert.ErrorIs(t, err, gamma.ErrGraphicsCardRemoved)

	err = OpenError("/dev/dri/card9", syscall.EACCES)
	assert.ErrorIs(t, err, gamma.ErrDeviceRequireGroup)
	var groupErr *gamma.GroupError
	require.ErrorAs(t, err, &groupErr)
	assert.Equal(t, "/dev/dri/card9", groupErr.Path)

	err = OpenError("/dev/dri/card9", syscall.EIO)
	assert.ErrorIs(t, err, gamma.ErrOpenFailed)
	assert.ErrorIs(t, err, syscall.EIO)
}

func TestIoctlError(t *testing.T) {
	assert.Equal(t, gamma.ErrGraphicsCardRemoved, IoctlError(gamma.ErrGammaRampReadFailed, "get gamma", syscall.ENODEV))
	err := IoctlError(gamma.ErrGammaRampReadFailed, "get gamma", syscall.EINVAL)
	assert.ErrorIs(t, err, gamma.ErrGammaRampReadFailed)
	assert.ErrorIs(t, err, syscall.EINVAL)
}
