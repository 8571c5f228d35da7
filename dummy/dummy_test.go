package dummy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeatGlow/gamma"
	"github.com/BeatGlow/gamma/ramp"
)

func TestRegistered(t *testing.T) {
	assert.True(t, gamma.Available(gamma.Dummy))
	assert.Contains(t, gamma.ListMethods(gamma.ListAvailable), gamma.Dummy)
	assert.NotContains(t, gamma.ListMethods(gamma.ListReal), gamma.Dummy)
}

func TestDefaultLayout(t *testing.T) {
	out, err := gamma.OpenAll(gamma.Dummy, "")
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, "dummy", out.Site.Name)
	assert.Len(t, out.Partitions, DefaultConfig.Partitions)
	assert.Len(t, out.CRTCs, DefaultConfig.Partitions*DefaultConfig.CRTCs)

	_, err = gamma.NewSite(gamma.Dummy, "nowhere")
	assert.ErrorIs(t, err, gamma.ErrNoSuchSite)
}

func TestConfiguredLayout(t *testing.T) {
	d := New(&Config{
		Sites:      []string{"a", "b"},
		Partitions: 3,
		CRTCs:      4,
		Depth:      ramp.Float,
		GammaSize:  1024,
	})
	site, err := gamma.NewSiteWithDriver(gamma.Dummy, d, "b")
	require.NoError(t, err)
	defer site.Close()

	assert.Equal(t, 3, site.Partitions)
	out, err := site.OpenAll()
	require.NoError(t, err)
	assert.Len(t, out.CRTCs, 12)
	assert.Equal(t, ramp.Float, out.CRTCs[0].Depth())

	info, err := out.CRTCs[5].Information(gamma.FieldGammaSize | gamma.FieldGammaDepth | gamma.FieldConnectorName)
	require.NoError(t, err)
	assert.Equal(t, 1024, info.RedGammaSize)
	assert.Equal(t, ramp.Float, info.GammaDepth)
	assert.Equal(t, "DUMMY-b-1-1", info.ConnectorName)
	require.NoError(t, out.Close())
}

func TestNoSites(t *testing.T) {
	_, err := gamma.NewSiteWithDriver(gamma.Dummy, New(&Config{}), "")
	assert.ErrorIs(t, err, gamma.ErrNoSuchSite)
}

func TestInvalidDepth(t *testing.T) {
	_, err := gamma.NewSiteWithDriver(gamma.Dummy, New(&Config{Sites: []string{"x"}, Depth: 12}), "")
	assert.ErrorIs(t, err, ramp.ErrInvalidDepth)
}

func openCRTC(t *testing.T, config *Config) *gamma.CRTC {
	t.Helper()
	site, err := gamma.NewSiteWithDriver(gamma.Dummy, New(config), "")
	require.NoError(t, err)
	out, err := site.OpenAll()
	require.NoError(t, err)
	require.NotEmpty(t, out.CRTCs)
	t.Cleanup(func() { _ = out.Close() })
	return out.CRTCs[0]
}

func TestIdentityAtStart(t *testing.T) {
	crtc := openCRTC(t, nil)

	r := ramp.NewOf[uint16](256, 256, 256)
	require.NoError(t, crtc.GammaRamps(r))
	assert.Equal(t, uint16(0), r.Red[0])
	assert.Equal(t, uint16(0x8080), r.Green[128])
	assert.Equal(t, uint16(0xffff), r.Blue[255])
}

func TestSetAndRestore(t *testing.T) {
	crtc := openCRTC(t, nil)

	set := ramp.NewOf[float64](256, 256, 256)
	ramp.Fill(set, func(x float64) float64 { return x / 2 })
	require.NoError(t, crtc.SetGammaRamps(set))

	got := ramp.NewOf[uint16](256, 256, 256)
	require.NoError(t, crtc.GammaRamps(got))
	assert.Equal(t, uint16(0x8000), got.Red[255])

	require.NoError(t, crtc.Restore())
	require.NoError(t, crtc.GammaRamps(got))
	assert.Equal(t, uint16(0xffff), got.Red[255])
}

func TestSiteRestore(t *testing.T) {
	site, err := gamma.NewSite(gamma.Dummy, "")
	require.NoError(t, err)
	out, err := site.OpenAll()
	require.NoError(t, err)
	defer out.Close()

	zero := ramp.NewOf[uint8](256, 256, 256)
	for _, crtc := range out.CRTCs {
		require.NoError(t, crtc.SetGammaRamps(zero))
	}
	require.NoError(t, site.Restore())

	got := ramp.NewOf[uint8](256, 256, 256)
	for _, crtc := range out.CRTCs {
		require.NoError(t, crtc.GammaRamps(got))
		assert.Equal(t, uint8(0xff), got.Green[255], "%s not restored", crtc)
	}
}

func TestVerifyGammaSize(t *testing.T) {
	config := DefaultConfig
	crtc := openCRTC(t, &config)
	err := crtc.SetGammaRamps(ramp.NewOf[uint16](128, 128, 128))
	assert.ErrorIs(t, err, gamma.ErrWrongGammaRampSize)

	config.VerifyGammaSize = false
	crtc = openCRTC(t, &config)
	err = crtc.SetGammaRamps(ramp.NewOf[uint16](128, 128, 128))
	assert.NoError(t, err)
}

func TestInformation(t *testing.T) {
	crtc := openCRTC(t, nil)

	info, err := crtc.Information(gamma.FieldAll &^ gamma.FieldMacroEDID)
	require.NoError(t, err)
	assert.Equal(t, 520, info.WidthMM)
	assert.Equal(t, 320, info.HeightMM)
	assert.Equal(t, gamma.SupportYes, info.GammaSupport)
	assert.Equal(t, gamma.SubpixelHorizontalRGB, info.Subpixel)
	assert.True(t, info.Active)
	assert.Equal(t, gamma.ConnectorVirtual, info.ConnectorType)
	assert.Equal(t, "DUMMY-dummy-0-0", info.ConnectorName)

	info, err = crtc.Information(gamma.FieldEDID | gamma.FieldGamma)
	var infoErr *gamma.InformationError
	require.ErrorAs(t, err, &infoErr)
	assert.Equal(t, gamma.FieldEDID|gamma.FieldGamma, infoErr.Failed)
	assert.ErrorIs(t, info.EDIDErr, gamma.ErrEDIDNotFound)
	assert.ErrorIs(t, info.GammaErr, gamma.ErrEDIDNotFound)
}

func TestCapabilitiesOverride(t *testing.T) {
	caps := gamma.Capabilities{CRTCInformation: gamma.FieldGammaSize, Fake: true}
	config := DefaultConfig
	config.Capabilities = &caps

	site, err := gamma.NewSiteWithDriver(gamma.Dummy, New(&config), "")
	require.NoError(t, err)
	defer site.Close()
	assert.Equal(t, caps, site.Capabilities())
	assert.ErrorIs(t, site.Restore(), gamma.ErrRestoreNotSupported)
}
