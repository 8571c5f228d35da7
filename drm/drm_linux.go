package drm

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/BeatGlow/gamma"
	"github.com/BeatGlow/gamma/internal/device"
	"github.com/BeatGlow/gamma/ramp"
)

func init() {
	gamma.Register(gamma.DRM, Driver{})
}

// DevicePath is the device node pattern of the graphics cards.
var DevicePath = "/dev/dri/card%d"

// Driver is the DRM adjustment method.
type Driver struct{}

// OpenSite opens the only site of the method; the site name must be empty.
func (Driver) OpenSite(name string) (gamma.SiteState, error) {
	if name != "" {
		return nil, fmt.Errorf("%w: %q", gamma.ErrNoSuchSite, name)
	}
	n := device.Count(DevicePath)
	slog.Debug("drm: found graphics cards", "cards", n)
	return &site{cards: n}, nil
}

type site struct {
	cards int
}

func (s *site) Partitions() int { return s.cards }
func (s *site) Restore() error  { return gamma.ErrRestoreNotSupported }
func (s *site) Close() error    { return nil }

func (s *site) OpenPartition(index int) (gamma.PartitionState, error) {
	path := fmt.Sprintf(DevicePath, index)
	f, err := device.Open(path)
	if err != nil {
		return nil, err
	}

	fd := f.Fd()
	crtcs, connectors, err := resources(fd)
	if err != nil {
		_ = f.Close()
		return nil, device.IoctlError(gamma.ErrListCRTCsFailed, "list CRTCs", err)
	}
	slog.Debug("drm: opened graphics card", "path", path, "crtcs", len(crtcs), "connectors", len(connectors))
	return &partition{
		file:       f,
		crtcs:      crtcs,
		connectors: connectors,
	}, nil
}

type partition struct {
	file       *os.File
	crtcs      []uint32
	connectors []uint32
}

func (p *partition) CRTCs() int     { return len(p.crtcs) }
func (p *partition) Restore() error { return gamma.ErrRestoreNotSupported }

func (p *partition) Close() error {
	return p.file.Close()
}

func (p *partition) OpenCRTC(index int) (gamma.CRTCState, error) {
	id := p.crtcs[index]
	info, err := getCRTC(p.file.Fd(), id)
	if err != nil {
		return nil, device.IoctlError(gamma.ErrGammaSizeQueryFailed, "get CRTC", err)
	}
	return &crtc{
		partition: p,
		id:        id,
		gammaSize: int(info.gammaSize),
	}, nil
}

type crtc struct {
	partition *partition
	id        uint32
	gammaSize int
}

func (c *crtc) fd() uintptr {
	return c.partition.file.Fd()
}

func (c *crtc) Depth() ramp.Depth { return ramp.Depth16 }
func (c *crtc) Restore() error    { return gamma.ErrRestoreNotSupported }
func (c *crtc) Close() error      { return nil }

// findConnector returns the connector that is driven by the CRTC.
func (c *crtc) findConnector() (*connector, error) {
	fd := c.fd()
	for _, id := range c.partition.connectors {
		conn, err := getConnector(fd, id)
		if err != nil {
			return nil, device.IoctlError(gamma.ErrOutputInformationQueryFailed, "get connector", err)
		}
		if conn.encoderID == 0 {
			continue
		}
		enc, err := getEncoder(fd, conn.encoderID)
		if err != nil {
			return nil, device.IoctlError(gamma.ErrOutputInformationQueryFailed, "get encoder", err)
		}
		if enc.crtcID == c.id {
			return conn, nil
		}
	}
	return nil, gamma.ErrCRTCNotConnected
}

const connectorFields = gamma.FieldEDID | gamma.FieldWidthMM | gamma.FieldHeightMM | gamma.FieldSubpixel |
	gamma.FieldMacroConnector

func (c *crtc) Information(info *gamma.CRTCInformation, fields gamma.Field) {
	if fields&gamma.FieldGammaSize != 0 {
		info.RedGammaSize = c.gammaSize
		info.GreenGammaSize = c.gammaSize
		info.BlueGammaSize = c.gammaSize
		if c.gammaSize < 2 {
			info.GammaSizeErr = gamma.ErrSingletonGammaRamp
		}
	}
	if fields&gamma.FieldGammaDepth != 0 {
		info.GammaDepth = ramp.Depth16
	}
	if fields&gamma.FieldGammaSupport != 0 {
		info.GammaSupport = gamma.SupportNo
		if c.gammaSize > 1 {
			info.GammaSupport = gamma.SupportYes
		}
	}
	if fields&connectorFields == 0 {
		return
	}

	conn, err := c.findConnector()
	if err != nil {
		info.SetError(fields&connectorFields, err)
		return
	}
	if fields&gamma.FieldWidthMM != 0 {
		info.WidthMM = int(conn.mmWidth)
	}
	if fields&gamma.FieldHeightMM != 0 {
		info.HeightMM = int(conn.mmHeight)
	}
	if fields&gamma.FieldSubpixel != 0 {
		info.Subpixel, info.SubpixelErr = subpixelOrder(conn.subpixel)
	}
	if fields&gamma.FieldActive != 0 {
		info.Active, info.ActiveErr = active(conn.connection)
	}
	if fields&gamma.FieldConnectorName != 0 {
		info.ConnectorName = connectorName(conn.connectorType, conn.connectorTypeID)
	}
	if fields&gamma.FieldConnectorType != 0 {
		info.ConnectorType, info.ConnectorTypeErr = connectorType(conn.connectorType)
	}
	if fields&gamma.FieldEDID != 0 {
		info.EDID, info.EDIDErr = c.readEDID(conn)
	}
}

func (c *crtc) readEDID(conn *connector) ([]byte, error) {
	fd := c.fd()
	blobID, ok, err := conn.property(fd, "EDID")
	if err != nil {
		return nil, device.IoctlError(gamma.ErrPropertyQueryFailed, "get property", err)
	}
	if !ok || blobID == 0 {
		return nil, gamma.ErrEDIDNotFound
	}
	data, err := getBlob(fd, uint32(blobID))
	if err != nil {
		return nil, device.IoctlError(gamma.ErrPropertyQueryFailed, "get property blob", err)
	}
	return data, nil
}

func (c *crtc) lut(r ramp.Ramps) (*ramp.Ramps16, error) {
	lut, ok := r.(*ramp.Ramps16)
	if !ok {
		return nil, fmt.Errorf("drm: %w: %s", ramp.ErrInvalidDepth, r.Depth())
	}
	red, green, blue := lut.Sizes()
	if red != c.gammaSize || green != c.gammaSize || blue != c.gammaSize {
		return nil, fmt.Errorf("%w: got %d/%d/%d, CRTC has %d", gamma.ErrWrongGammaRampSize,
			red, green, blue, c.gammaSize)
	}
	return lut, nil
}

func (c *crtc) GammaRamps(r ramp.Ramps) error {
	lut, err := c.lut(r)
	if err != nil {
		return err
	}
	if err = gammaLUT(c.fd(), c.id, lut.Red, lut.Green, lut.Blue, false); err != nil {
		return device.IoctlError(gamma.ErrGammaRampReadFailed, "get gamma", err)
	}
	return nil
}

func (c *crtc) SetGammaRamps(r ramp.Ramps) error {
	lut, err := c.lut(r)
	if err != nil {
		return err
	}
	if err = gammaLUT(c.fd(), c.id, lut.Red, lut.Green, lut.Blue, true); err != nil {
		return device.IoctlError(gamma.ErrGammaRampWriteFailed, "set gamma", err)
	}
	return nil
}
