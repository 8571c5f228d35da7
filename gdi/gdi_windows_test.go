package gdi

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"

	"github.com/BeatGlow/gamma"
	"github.com/BeatGlow/gamma/ramp"
)

func TestStructSizes(t *testing.T) {
	assert.Equal(t, uintptr(840), unsafe.Sizeof(displayDevice{}))
	assert.Equal(t, uintptr(1536), unsafe.Sizeof(gammaRamp{}))
}

func TestSite(t *testing.T) {
	_, err := gamma.NewSite(gamma.GDI, "elsewhere")
	assert.ErrorIs(t, err, gamma.ErrNoSuchSite)

	site, err := gamma.NewSite(gamma.GDI, "")
	if !assert.NoError(t, err) {
		return
	}
	defer site.Close()
	assert.Equal(t, 1, site.Partitions)
}

func TestWrongSize(t *testing.T) {
	c := &crtc{}
	err := c.SetGammaRamps(ramp.NewOf[uint16](1024, 1024, 1024))
	assert.ErrorIs(t, err, gamma.ErrWrongGammaRampSize)
}
