package drm

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeatGlow/gamma"
)

func TestStructSizes(t *testing.T) {
	tests := []struct {
		Name string
		Size uintptr
		Want uintptr
	}{
		{"drm_mode_card_res", unsafe.Sizeof(modeCardRes{}), 64},
		{"drm_mode_modeinfo", unsafe.Sizeof(modeModeInfo{}), 68},
		{"drm_mode_crtc", unsafe.Sizeof(modeCRTC{}), 104},
		{"drm_mode_crtc_lut", unsafe.Sizeof(modeCRTCLUT{}), 32},
		{"drm_mode_get_encoder", unsafe.Sizeof(modeGetEncoder{}), 20},
		{"drm_mode_get_connector", unsafe.Sizeof(modeGetConnector{}), 80},
		{"drm_mode_get_property", unsafe.Sizeof(modeGetProperty{}), 64},
		{"drm_mode_get_blob", unsafe.Sizeof(modeGetBlob{}), 16},
	}
	for _, test := range tests {
		assert.Equal(t, test.Want, test.Size, test.Name)
	}
}

func TestCommands(t *testing.T) {
	assert.Equal(t, uintptr(0xc04064a0), uintptr(ioctlGetResources))
	assert.Equal(t, uintptr(0xc06864a1), uintptr(ioctlGetCRTC))
	assert.Equal(t, uintptr(0xc02064a4), uintptr(ioctlGetGamma))
	assert.Equal(t, uintptr(0xc02064a5), uintptr(ioctlSetGamma))
	assert.Equal(t, uintptr(0xc05064a7), uintptr(ioctlGetConnector))
	assert.Equal(t, uintptr(0xc01064ac), uintptr(ioctlGetPropBlob))
}

func TestCString(t *testing.T) {
	var name [32]byte
	copy(name[:], "EDID")
	assert.Equal(t, "EDID", cString(name[:]))
	assert.Equal(t, "full", cString([]byte("full")))
}

func withDevicePath(t *testing.T, path string) {
	t.Helper()
	saved := DevicePath
	DevicePath = path
	t.Cleanup(func() { DevicePath = saved })
}

func TestOpenSiteCountsCards(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"card0", "card1", "card3"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}
	withDevicePath(t, filepath.Join(dir, "card%d"))

	site, err := gamma.NewSite(gamma.DRM, "")
	require.NoError(t, err)
	defer site.Close()
	assert.Equal(t, 2, site.Partitions)

	_, err = gamma.NewSite(gamma.DRM, ":0")
	assert.ErrorIs(t, err, gamma.ErrNoSuchSite)
}

func TestOpenNotACard(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "card0"), nil, 0o600))
	withDevicePath(t, filepath.Join(dir, "card%d"))

	site, err := gamma.NewSite(gamma.DRM, "")
	require.NoError(t, err)
	defer site.Close()

	_, err = site.Partition(0)
	assert.ErrorIs(t, err, gamma.ErrListCRTCsFailed)
	var osErr *gamma.OSError
	assert.True(t, errors.As(err, &osErr))

	_, err = site.Partition(1)
	assert.ErrorIs(t, err, gamma.ErrNoSuchPartition)
}
