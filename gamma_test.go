package gamma

import (
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeatGlow/gamma/edid"
	"github.com/BeatGlow/gamma/ramp"
)

// fakeDriver is a minimal backend that records how it is used.
type fakeDriver struct {
	partitions int
	crtcs      int
	size       int
	depth      ramp.Depth
	edid       []byte
	caps       Capabilities

	opened       int
	restored     int
	closed       int
	partitionErr error
	ramps    *ramp.Ramps16
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		partitions: 2,
		crtcs:      3,
		size:       256,
		depth:      ramp.Depth16,
		edid:       makeEDID(52, 32, 120),
		caps: Capabilities{
			CRTCInformation:     FieldAll,
			IdenticalGammaSizes: true,
			FixedGammaSize:      true,
			FixedGammaDepth:     true,
			Fake:                true,
		},
	}
}

func (d *fakeDriver) Capabilities() Capabilities { return d.caps }

func (d *fakeDriver) OpenSite(site string) (SiteState, error) {
	if site != "" && site != "fake" {
		return nil, ErrNoSuchSite
	}
	d.opened++
	return (*fakeSite)(d), nil
}

type fakeSite fakeDriver

func (s *fakeSite) Partitions() int { return s.partitions }
func (s *fakeSite) Restore() error  { s.restored++; return nil }
func (s *fakeSite) Close() error    { s.closed++; return nil }
func (s *fakeSite) OpenPartition(int) (PartitionState, error) {
	if s.partitionErr != nil {
		return nil, s.partitionErr
	}
	s.opened++
	return (*fakePartition)(s), nil
}

type fakePartition fakeDriver

func (p *fakePartition) CRTCs() int     { return p.crtcs }
func (p *fakePartition) Restore() error { p.restored++; return nil }
func (p *fakePartition) Close() error   { return nil }
func (p *fakePartition) OpenCRTC(int) (CRTCState, error) {
	p.opened++
	if p.ramps == nil {
		p.ramps = ramp.NewOf[uint16](p.size, p.size, p.size)
		ramp.Identity(p.ramps)
	}
	return (*fakeCRTC)(p), nil
}

type fakeCRTC fakeDriver

func (c *fakeCRTC) Depth() ramp.Depth { return c.depth }
func (c *fakeCRTC) Restore() error    { c.restored++; return nil }
func (c *fakeCRTC) Close() error      { return nil }

func (c *fakeCRTC) Information(info *CRTCInformation, fields Field) {
	if fields&FieldEDID != 0 {
		info.EDID = append([]byte(nil), c.edid...)
	}
	if fields&FieldGammaSize != 0 {
		info.RedGammaSize, info.GreenGammaSize, info.BlueGammaSize = c.size, c.size, c.size
	}
	if fields&FieldGammaDepth != 0 {
		info.GammaDepth = c.depth
	}
	if fields&FieldConnectorName != 0 {
		info.ConnectorNameErr = ErrConnectorUnknown
	}
}

func (c *fakeCRTC) GammaRamps(r ramp.Ramps) error {
	return ramp.Translate(r, c.ramps)
}

func (c *fakeCRTC) SetGammaRamps(r ramp.Ramps) error {
	c.ramps = ramp.Clone(r).(*ramp.Ramps16)
	return nil
}

// makeEDID returns an EDID 1.3 block with the given size in cm and gamma byte.
func makeEDID(width, height, gamma byte) []byte {
	data := make([]byte, edid.Length)
	copy(data, edid.Magic[:])
	data[0x12], data[0x13] = 1, 3
	data[0x15], data[0x16], data[0x17] = width, height, gamma
	data[edid.Length-1] = -edid.Checksum(data)
	return data
}

func openFakeCRTC(t *testing.T, d *fakeDriver) *CRTC {
	t.Helper()
	site, err := NewSiteWithDriver(Dummy, d, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = site.Close() })
	partition, err := site.Partition(0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = partition.Close() })
	crtc, err := partition.CRTC(0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = crtc.Close() })
	return crtc
}

func TestNoSuchAdjustmentMethod(t *testing.T) {
	_, err := NewSite(Method(99), "")
	assert.ErrorIs(t, err, ErrNoSuchAdjustmentMethod)

	_, err = NewSiteWithDriver(Dummy, nil, "")
	assert.ErrorIs(t, err, ErrNoSuchAdjustmentMethod)
}

func TestSiteOpen(t *testing.T) {
	d := newFakeDriver()
	site, err := NewSiteWithDriver(Dummy, d, "fake")
	require.NoError(t, err)
	assert.Equal(t, 2, site.Partitions)
	assert.Equal(t, "fake", site.Name)
	assert.Equal(t, "dummy:fake", site.String())
	assert.NoError(t, site.Close())
	assert.NoError(t, site.Close(), "second close is a no-op")

	_, err = NewSiteWithDriver(Dummy, d, "elsewhere")
	assert.ErrorIs(t, err, ErrNoSuchSite)
}

func TestHierarchyNesting(t *testing.T) {
	d := newFakeDriver()
	site, err := NewSiteWithDriver(Dummy, d, "")
	require.NoError(t, err)
	defer site.Close()

	opened := d.opened
	for _, index := range []int{-1, 2, 10} {
		_, err = site.Partition(index)
		assert.ErrorIs(t, err, ErrNoSuchPartition, "partition %d", index)
	}
	assert.Equal(t, opened, d.opened, "backend touched for invalid partition")

	partition, err := site.Partition(1)
	require.NoError(t, err)
	defer partition.Close()
	assert.Equal(t, 3, partition.CRTCs)
	assert.Equal(t, "dummy.1", partition.String())

	opened = d.opened
	for _, index := range []int{-1, 3, 4} {
		_, err = partition.CRTC(index)
		assert.ErrorIs(t, err, ErrNoSuchCRTC, "CRTC %d", index)
	}
	assert.Equal(t, opened, d.opened, "backend touched for invalid CRTC")

	crtc, err := partition.CRTC(2)
	require.NoError(t, err)
	assert.Equal(t, "dummy.1.2", crtc.String())
	assert.NoError(t, crtc.Close())
}

func TestRestoreGating(t *testing.T) {
	d := newFakeDriver()
	crtc := openFakeCRTC(t, d)
	partition := crtc.Partition
	site := partition.Site

	assert.ErrorIs(t, site.Restore(), ErrRestoreNotSupported)
	assert.ErrorIs(t, partition.Restore(), ErrRestoreNotSupported)
	assert.ErrorIs(t, crtc.Restore(), ErrRestoreNotSupported)
	assert.Zero(t, d.restored, "backend restore attempted")

	d.caps.SiteRestore, d.caps.PartitionRestore, d.caps.CRTCRestore = true, true, true
	crtc = openFakeCRTC(t, d)
	assert.NoError(t, crtc.Partition.Site.Restore())
	assert.NoError(t, crtc.Partition.Restore())
	assert.NoError(t, crtc.Restore())
	assert.Equal(t, 3, d.restored)
}

func TestInformation(t *testing.T) {
	crtc := openFakeCRTC(t, newFakeDriver())

	info, err := crtc.Information(FieldMacroRamp &^ FieldGammaSupport)
	require.NoError(t, err)
	assert.Equal(t, 256, info.RedGammaSize)
	assert.Equal(t, 256, info.BlueGammaSize)
	assert.Equal(t, ramp.Depth16, info.GammaDepth)

	info, err = crtc.Information(FieldWidthMMEDID | FieldHeightMMEDID | FieldGamma)
	require.NoError(t, err)
	assert.Equal(t, 520, info.WidthMMEDID)
	assert.Equal(t, 320, info.HeightMMEDID)
	assert.Equal(t, 2.2, info.GammaRed)
	assert.Equal(t, 2.2, info.GammaBlue)
	assert.Nil(t, info.EDID, "EDID returned without being requested")

	info, err = crtc.Information(FieldEDID)
	require.NoError(t, err)
	assert.Len(t, info.EDID, edid.Length)
}

func TestInformationPartialFailure(t *testing.T) {
	crtc := openFakeCRTC(t, newFakeDriver())

	info, err := crtc.Information(FieldGammaSize | FieldConnectorName)
	var infoErr *InformationError
	require.ErrorAs(t, err, &infoErr)
	assert.Equal(t, FieldConnectorName, infoErr.Failed)
	assert.ErrorIs(t, info.ConnectorNameErr, ErrConnectorUnknown)
	assert.NoError(t, info.GammaSizeErr)
	assert.Equal(t, 256, info.GreenGammaSize)
}

func TestInformationNotSupported(t *testing.T) {
	d := newFakeDriver()
	d.caps.CRTCInformation = FieldGammaSize
	crtc := openFakeCRTC(t, d)

	info, err := crtc.Information(FieldGammaSize | FieldGamma | FieldActive)
	var infoErr *InformationError
	require.ErrorAs(t, err, &infoErr)
	assert.Equal(t, FieldGamma|FieldActive, infoErr.Failed)
	assert.ErrorIs(t, info.GammaErr, ErrCRTCInfoNotSupported)
	assert.ErrorIs(t, info.ActiveErr, ErrCRTCInfoNotSupported)
	assert.Equal(t, 256, info.RedGammaSize)
}

func TestInformationGammaNotSpecified(t *testing.T) {
	d := newFakeDriver()
	d.edid = makeEDID(60, 34, 0xff)
	crtc := openFakeCRTC(t, d)

	info, err := crtc.Information(FieldMacroEDID)
	require.Error(t, err)
	assert.ErrorIs(t, info.GammaErr, ErrGammaNotSpecified)
	assert.NoError(t, info.WidthMMEDIDErr)
	assert.Equal(t, 600, info.WidthMMEDID)
	assert.Equal(t, 340, info.HeightMMEDID)
	assert.NoError(t, info.EDIDErr)
}

func TestInformationChecksum(t *testing.T) {
	d := newFakeDriver()
	d.edid = makeEDID(60, 34, 0xff)
	d.edid[100]++
	crtc := openFakeCRTC(t, d)

	info, err := crtc.Information(FieldMacroEDID)
	var infoErr *InformationError
	require.ErrorAs(t, err, &infoErr)
	assert.Equal(t, FieldMacroEDID, infoErr.Failed)
	assert.ErrorIs(t, info.EDIDErr, ErrEDIDChecksum)
	assert.ErrorIs(t, info.WidthMMEDIDErr, ErrEDIDChecksum)
	assert.ErrorIs(t, info.HeightMMEDIDErr, edid.ErrChecksum)
	assert.ErrorIs(t, info.GammaErr, ErrGammaNotSpecifiedAndEDIDChecksum)
	assert.Equal(t, 600, info.WidthMMEDID, "decoded value dropped")
}

func TestInformationRevisionUnsupported(t *testing.T) {
	d := newFakeDriver()
	d.edid = makeEDID(60, 34, 120)
	d.edid[0x13] = 4
	d.edid[edid.Length-1]--
	require.Zero(t, edid.Checksum(d.edid))
	crtc := openFakeCRTC(t, d)

	info, err := crtc.Information(FieldMacroEDID)
	var infoErr *InformationError
	require.ErrorAs(t, err, &infoErr)
	assert.Equal(t, FieldEDID, infoErr.Failed)
	assert.ErrorIs(t, info.EDIDErr, ErrEDIDRevisionUnsupported)
	assert.NoError(t, info.WidthMMEDIDErr)
	assert.Equal(t, 600, info.WidthMMEDID)
	assert.NoError(t, info.GammaErr)
	assert.InDelta(t, 2.2, info.GammaRed, 1e-9)

	info, err = crtc.Information(FieldGamma)
	assert.NoError(t, err, "revision only reported with the EDID")
	assert.Nil(t, info.EDID)

	d.edid[100]++
	info, _ = crtc.Information(FieldMacroEDID)
	assert.ErrorIs(t, info.EDIDErr, ErrEDIDChecksum, "checksum takes precedence")
}

func TestInformationWrongMagic(t *testing.T) {
	d := newFakeDriver()
	d.edid[0] = 0x42
	crtc := openFakeCRTC(t, d)

	info, err := crtc.Information(FieldWidthMMEDID | FieldGamma)
	require.Error(t, err)
	assert.ErrorIs(t, info.WidthMMEDIDErr, ErrEDIDWrongMagicNumber)
	assert.ErrorIs(t, info.GammaErr, ErrEDIDWrongMagicNumber)
	assert.Zero(t, info.WidthMMEDID)
	assert.Zero(t, info.GammaRed)
}

func TestGammaRampsTranslated(t *testing.T) {
	d := newFakeDriver()
	crtc := openFakeCRTC(t, d)
	assert.Equal(t, ramp.Depth16, crtc.Depth())

	r8 := ramp.NewOf[uint8](256, 256, 256)
	require.NoError(t, crtc.GammaRamps(r8))
	for i := range r8.Red {
		// Narrowing to 8 bits folds in the next lower bit.
		if want := uint8(i | i>>7); r8.Red[i] != want {
			t.Fatalf("stop %d: expected %d, got %d", i, want, r8.Red[i])
		}
	}

	half := ramp.NewOf[float64](256, 256, 256)
	ramp.Fill(half, func(x float64) float64 { return x / 2 })
	require.NoError(t, crtc.SetGammaRamps(half))
	assert.Equal(t, uint16(0x8000), d.ramps.Red[255])
	assert.Equal(t, uint16(0), d.ramps.Green[0])

	native := ramp.NewOf[uint16](256, 256, 256)
	require.NoError(t, crtc.GammaRamps(native))
	assert.Equal(t, d.ramps.Blue, native.Blue)
}

func TestSetGammaRampsSizeCheck(t *testing.T) {
	saved := debug
	debug = true
	defer func() { debug = saved }()

	crtc := openFakeCRTC(t, newFakeDriver())

	err := crtc.SetGammaRamps(ramp.NewOf[uint16](100, 256, 256))
	assert.ErrorIs(t, err, ErrWrongGammaRampSize)

	err = crtc.GammaRamps(ramp.NewOf[uint8](100, 100, 100))
	assert.ErrorIs(t, err, ErrWrongGammaRampSize)

	assert.NoError(t, crtc.SetGammaRamps(ramp.NewOf[uint16](256, 256, 256)))
}

func TestSetGammaRampsMixedSize(t *testing.T) {
	saved := debug
	debug = true
	defer func() { debug = saved }()

	d := newFakeDriver()
	d.caps.CRTCInformation = 0
	crtc := openFakeCRTC(t, d)

	err := crtc.SetGammaRamps(ramp.NewOf[uint16](256, 255, 256))
	assert.ErrorIs(t, err, ErrMixedGammaRampSize)
}

func TestSetGammaRampsSingleton(t *testing.T) {
	crtc := openFakeCRTC(t, newFakeDriver())
	err := crtc.SetGammaRamps(ramp.NewOf[uint16](1, 256, 256))
	assert.ErrorIs(t, err, ErrSingletonGammaRamp)
}

func TestOpenAll(t *testing.T) {
	site, err := NewSiteWithDriver(Dummy, newFakeDriver(), "")
	require.NoError(t, err)

	outputs, err := site.OpenAll()
	require.NoError(t, err)
	assert.Len(t, outputs.Partitions, 2)
	assert.Len(t, outputs.CRTCs, 6)
	assert.Equal(t, 1, outputs.CRTCs[5].Partition.Index)
	assert.NoError(t, outputs.Close())
}

func TestOpenAllClosesSiteOnFailure(t *testing.T) {
	const failing = Method(100)
	d := newFakeDriver()
	d.partitionErr = ErrListCRTCsFailed
	drivers[failing] = d
	t.Cleanup(func() { delete(drivers, failing) })

	out, err := OpenAll(failing, "")
	assert.ErrorIs(t, err, ErrListCRTCsFailed)
	assert.Nil(t, out)
	assert.Equal(t, 1, d.closed, "site left open")
}

func TestUseAfterClose(t *testing.T) {
	d := newFakeDriver()
	d.caps.SiteRestore, d.caps.PartitionRestore, d.caps.CRTCRestore = true, true, true
	site, err := NewSiteWithDriver(Dummy, d, "")
	require.NoError(t, err)
	partition, err := site.Partition(0)
	require.NoError(t, err)
	crtc, err := partition.CRTC(0)
	require.NoError(t, err)

	require.NoError(t, crtc.Close())
	assert.ErrorIs(t, crtc.Restore(), ErrNoSuchCRTC)
	assert.Equal(t, ramp.Depth(0), crtc.Depth())
	assert.ErrorIs(t, crtc.GammaRamps(ramp.NewOf[uint16](256, 256, 256)), ErrNoSuchCRTC)
	assert.ErrorIs(t, crtc.SetGammaRamps(ramp.NewOf[uint16](256, 256, 256)), ErrNoSuchCRTC)
	info, err := crtc.Information(FieldGammaSize | FieldEDID)
	var infoErr *InformationError
	require.ErrorAs(t, err, &infoErr)
	assert.Equal(t, FieldGammaSize|FieldEDID, infoErr.Failed)
	assert.ErrorIs(t, info.GammaSizeErr, ErrNoSuchCRTC)

	require.NoError(t, partition.Close())
	assert.ErrorIs(t, partition.Restore(), ErrNoSuchPartition)
	_, err = partition.CRTC(0)
	assert.ErrorIs(t, err, ErrNoSuchPartition)

	require.NoError(t, site.Close())
	assert.ErrorIs(t, site.Restore(), ErrNoSuchSite)
	_, err = site.Partition(0)
	assert.ErrorIs(t, err, ErrNoSuchSite)
	assert.Equal(t, 1, d.closed)
}

func TestErrors(t *testing.T) {
	assert.Equal(t, "NO_SUCH_CRTC", ErrNoSuchCRTC.Name())
	assert.Equal(t, "gamma: no such CRTC", ErrNoSuchCRTC.Error())

	e, ok := ErrorByName("edid_checksum_error")
	assert.True(t, ok)
	assert.Equal(t, ErrEDIDChecksum, e)
	_, ok = ErrorByName("NOT_AN_ERROR")
	assert.False(t, ok)

	assert.ErrorIs(t, ErrEDIDChecksum, edid.ErrChecksum)
	assert.ErrorIs(t, fromEDID(edid.ErrGammaNotSpecified), ErrGammaNotSpecified)
	assert.Contains(t, Error(-1000).Error(), "-1000")

	var groupErr error = &GroupError{Path: "/dev/dri/card0", Group: "video", GID: 44}
	assert.ErrorIs(t, groupErr, ErrDeviceRequireGroup)
	assert.Contains(t, groupErr.Error(), "video")

	var osErr error = &OSError{Op: "open", Err: syscall.EACCES}
	assert.ErrorIs(t, osErr, syscall.EACCES)
	var target *OSError
	assert.True(t, errors.As(osErr, &target))
	assert.False(t, errors.As(ErrNoSuchSite, &target), "library error reported as platform error")

	for code := range errorTable {
		assert.Less(t, int(code), 0, "%s is not negative", code.Name())
		assert.NotEmpty(t, code.Name())
	}
}

func TestField(t *testing.T) {
	assert.Equal(t, "none", Field(0).String())
	assert.Equal(t, "edid|gamma", (FieldEDID | FieldGamma).String())
	assert.Equal(t, Field(0x1fff), FieldAll)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "HDMI-A", ConnectorHDMIA.String())
	assert.Equal(t, "connector(99)", ConnectorType(99).String())
	assert.Equal(t, "horizontal RGB", SubpixelHorizontalRGB.String())
	assert.Equal(t, "maybe", SupportMaybe.String())
}

func TestParseMethod(t *testing.T) {
	for name, want := range map[string]Method{
		"randr":        RandR,
		"XRandR":       RandR,
		"w32gdi":       GDI,
		"coregraphics": Quartz,
		" linux ":      DRM,
		"fb":           FBDev,
	} {
		m, err := ParseMethod(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, m, name)
	}
	_, err := ParseMethod("wayland")
	assert.ErrorIs(t, err, ErrNoSuchAdjustmentMethod)
	assert.Equal(t, "method(99)", Method(99).String())
}

func TestDefaultSite(t *testing.T) {
	t.Setenv("DISPLAY", ":1")
	site, ok := DefaultSite(RandR)
	assert.True(t, ok)
	assert.Equal(t, ":1", site)

	t.Setenv("DISPLAY", "")
	_, ok = DefaultSite(VidMode)
	assert.False(t, ok, "empty variable is no default")

	_, ok = DefaultSite(DRM)
	assert.False(t, ok)
	assert.Equal(t, "", DefaultSiteVariable(DRM))
}

func TestListMethodsFilters(t *testing.T) {
	all := ListMethods(ListAny)
	assert.Len(t, all, len(Methods))
	assert.Equal(t, RandR, all[0])
	assert.Equal(t, Dummy, all[len(all)-1])

	for _, m := range ListMethods(ListReal) {
		assert.True(t, MethodCapabilities(m).Real, m.String())
	}
}
