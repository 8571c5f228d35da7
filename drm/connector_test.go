package drm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BeatGlow/gamma"
)

func TestConnectorName(t *testing.T) {
	tests := []struct {
		Type, ID uint32
		Want     string
	}{
		{11, 1, "HDMI-A-1"},
		{10, 2, "DP-2"},
		{14, 1, "eDP-1"},
		{2, 3, "DVI-I-3"},
		{0, 1, "Unknown-1"},
		{20, 1, "USB-1"},
		{99, 4, "Unknown99-4"},
	}
	for _, test := range tests {
		assert.Equal(t, test.Want, connectorName(test.Type, test.ID))
	}
}

func TestConnectorType(t *testing.T) {
	typ, err := connectorType(11)
	assert.NoError(t, err)
	assert.Equal(t, gamma.ConnectorHDMIA, typ)

	typ, err = connectorType(15)
	assert.NoError(t, err)
	assert.Equal(t, gamma.ConnectorVirtual, typ)

	_, err = connectorType(0)
	assert.ErrorIs(t, err, gamma.ErrConnectorTypeNotRecognised)
	_, err = connectorType(18)
	assert.ErrorIs(t, err, gamma.ErrConnectorTypeNotRecognised)
}

func TestSubpixelOrder(t *testing.T) {
	order, err := subpixelOrder(2)
	assert.NoError(t, err)
	assert.Equal(t, gamma.SubpixelHorizontalRGB, order)

	order, err = subpixelOrder(6)
	assert.NoError(t, err)
	assert.Equal(t, gamma.SubpixelNone, order)

	_, err = subpixelOrder(0)
	assert.ErrorIs(t, err, gamma.ErrSubpixelOrderNotRecognised)
}

func TestActive(t *testing.T) {
	on, err := active(connected)
	assert.NoError(t, err)
	assert.True(t, on)

	on, err = active(disconnected)
	assert.NoError(t, err)
	assert.False(t, on)

	_, err = active(3)
	assert.ErrorIs(t, err, gamma.ErrConnectorUnknown)
}
