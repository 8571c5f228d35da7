// Package randr implements the X RandR adjustment method.
//
// Sites are X displays, partitions are the screens of a display and CRTCs
// are the RandR CRTCs of a screen. RandR 1.3 or newer is required. The
// package registers itself for [gamma.RandR].
package randr

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb"
	xrandr "github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/render"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/BeatGlow/gamma"
	"github.com/BeatGlow/gamma/ramp"
)

func init() {
	gamma.Register(gamma.RandR, Driver{})
}

// Required protocol version.
const (
	MajorVersion = 1
	MinorVersion = 3
)

// Driver is the RandR adjustment method.
type Driver struct{}

// OpenSite connects to the X display name; an empty name uses $DISPLAY.
func (Driver) OpenSite(name string) (gamma.SiteState, error) {
	conn, err := xgb.NewConnDisplay(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", gamma.ErrNoSuchSite, &gamma.OSError{Op: "connect to " + name, Err: err})
	}
	if err = xrandr.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %w", gamma.ErrProtocolVersionNotSupported, &gamma.OSError{Op: "RandR", Err: err})
	}

	version, err := xrandr.QueryVersion(conn, MajorVersion, MinorVersion).Reply()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %w", gamma.ErrProtocolVersionQueryFailed, &gamma.OSError{Op: "RandR QueryVersion", Err: err})
	}
	if version.MajorVersion != MajorVersion || version.MinorVersion < MinorVersion {
		conn.Close()
		return nil, fmt.Errorf("%w: RandR %d.%d", gamma.ErrProtocolVersionNotSupported,
			version.MajorVersion, version.MinorVersion)
	}

	s := &site{
		conn:  conn,
		roots: xproto.Setup(conn).Roots,
	}
	slog.Debug("randr: connected", "display", name, "version",
		fmt.Sprintf("%d.%d", version.MajorVersion, version.MinorVersion), "screens", len(s.roots))
	return s, nil
}

type site struct {
	conn  *xgb.Conn
	roots []xproto.ScreenInfo
	edid  xproto.Atom
}

func (s *site) Partitions() int { return len(s.roots) }
func (s *site) Restore() error  { return gamma.ErrRestoreNotSupported }

func (s *site) Close() error {
	s.conn.Close()
	return nil
}

// edidAtom interns the EDID property name once per site.
func (s *site) edidAtom() (xproto.Atom, error) {
	if s.edid != 0 {
		return s.edid, nil
	}
	const name = "EDID"
	reply, err := xproto.InternAtom(s.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	s.edid = reply.Atom
	return s.edid, nil
}

func (s *site) OpenPartition(index int) (gamma.PartitionState, error) {
	root := s.roots[index].Root
	res, err := xrandr.GetScreenResourcesCurrent(s.conn, root).Reply()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", gamma.ErrListCRTCsFailed, &gamma.OSError{Op: "RandR GetScreenResourcesCurrent", Err: err})
	}
	return &partition{site: s, resources: res}, nil
}

type partition struct {
	site      *site
	resources *xrandr.GetScreenResourcesCurrentReply
}

func (p *partition) CRTCs() int     { return len(p.resources.Crtcs) }
func (p *partition) Restore() error { return gamma.ErrRestoreNotSupported }
func (p *partition) Close() error   { return nil }

func (p *partition) OpenCRTC(index int) (gamma.CRTCState, error) {
	c := &crtc{
		partition: p,
		id:        p.resources.Crtcs[index],
	}
	reply, err := xrandr.GetCrtcGammaSize(p.site.conn, c.id).Reply()
	if err != nil {
		c.sizeErr = fmt.Errorf("%w: %w", gamma.ErrGammaSizeQueryFailed, &gamma.OSError{Op: "RandR GetCrtcGammaSize", Err: err})
	} else {
		c.size = int(reply.Size)
	}
	return c, nil
}

type crtc struct {
	partition *partition
	id        xrandr.Crtc
	size      int
	sizeErr   error
}

func (c *crtc) conn() *xgb.Conn { return c.partition.site.conn }

func (c *crtc) Depth() ramp.Depth { return ramp.Depth16 }
func (c *crtc) Restore() error    { return gamma.ErrRestoreNotSupported }
func (c *crtc) Close() error      { return nil }

// output returns the first output that is driven by the CRTC.
func (c *crtc) output() (xrandr.Output, *xrandr.GetOutputInfoReply, error) {
	timestamp := c.partition.resources.ConfigTimestamp
	info, err := xrandr.GetCrtcInfo(c.conn(), c.id, timestamp).Reply()
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", gamma.ErrOutputInformationQueryFailed, &gamma.OSError{Op: "RandR GetCrtcInfo", Err: err})
	}
	if len(info.Outputs) == 0 {
		return 0, nil, gamma.ErrCRTCNotConnected
	}
	out := info.Outputs[0]
	outInfo, err := xrandr.GetOutputInfo(c.conn(), out, timestamp).Reply()
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", gamma.ErrOutputInformationQueryFailed, &gamma.OSError{Op: "RandR GetOutputInfo", Err: err})
	}
	return out, outInfo, nil
}

const outputFields = gamma.FieldEDID | gamma.FieldWidthMM | gamma.FieldHeightMM | gamma.FieldSubpixel |
	gamma.FieldMacroConnector

func (c *crtc) Information(info *gamma.CRTCInformation, fields gamma.Field) {
	if fields&gamma.FieldGammaSize != 0 {
		info.RedGammaSize, info.GreenGammaSize, info.BlueGammaSize = c.size, c.size, c.size
		info.GammaSizeErr = c.sizeErr
		if c.sizeErr == nil && c.size < 2 {
			info.GammaSizeErr = gamma.ErrSingletonGammaRamp
		}
	}
	if fields&gamma.FieldGammaDepth != 0 {
		info.GammaDepth = ramp.Depth16
	}
	if fields&outputFields == 0 {
		return
	}

	out, outInfo, err := c.output()
	if err != nil {
		info.SetError(fields&outputFields, err)
		return
	}
	if fields&gamma.FieldWidthMM != 0 {
		info.WidthMM = int(outInfo.MmWidth)
	}
	if fields&gamma.FieldHeightMM != 0 {
		info.HeightMM = int(outInfo.MmHeight)
	}
	if fields&gamma.FieldSubpixel != 0 {
		info.Subpixel, info.SubpixelErr = subpixelOrder(outInfo.SubpixelOrder)
	}
	if fields&gamma.FieldActive != 0 {
		info.Active, info.ActiveErr = active(outInfo.Connection)
	}
	name := string(outInfo.Name)
	if fields&gamma.FieldConnectorName != 0 {
		info.ConnectorName = name
	}
	if fields&gamma.FieldConnectorType != 0 {
		info.ConnectorType, info.ConnectorTypeErr = connectorType(name)
	}
	if fields&gamma.FieldEDID != 0 {
		info.EDID, info.EDIDErr = c.readEDID(out)
	}
}

func (c *crtc) readEDID(out xrandr.Output) ([]byte, error) {
	atom, err := c.partition.site.edidAtom()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", gamma.ErrPropertyQueryFailed, &gamma.OSError{Op: "InternAtom EDID", Err: err})
	}
	// 128 bytes of EDID are 32 longs; ask for more to get the extensions.
	prop, err := xrandr.GetOutputProperty(c.conn(), out, atom, xproto.GetPropertyTypeAny, 0, 384, false, false).Reply()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", gamma.ErrPropertyQueryFailed, &gamma.OSError{Op: "RandR GetOutputProperty", Err: err})
	}
	if prop.Format != 8 || len(prop.Data) == 0 {
		return nil, gamma.ErrEDIDNotFound
	}
	return prop.Data, nil
}

func (c *crtc) lut(r ramp.Ramps) (*ramp.Ramps16, error) {
	if c.sizeErr != nil {
		return nil, c.sizeErr
	}
	lut, ok := r.(*ramp.Ramps16)
	if !ok {
		return nil, fmt.Errorf("randr: %w: %s", ramp.ErrInvalidDepth, r.Depth())
	}
	red, green, blue := lut.Sizes()
	if red != c.size || green != c.size || blue != c.size {
		return nil, fmt.Errorf("%w: got %d/%d/%d, CRTC has %d", gamma.ErrWrongGammaRampSize,
			red, green, blue, c.size)
	}
	return lut, nil
}

func (c *crtc) GammaRamps(r ramp.Ramps) error {
	lut, err := c.lut(r)
	if err != nil {
		return err
	}
	reply, err := xrandr.GetCrtcGamma(c.conn(), c.id).Reply()
	if err != nil {
		return fmt.Errorf("%w: %w", gamma.ErrGammaRampReadFailed, &gamma.OSError{Op: "RandR GetCrtcGamma", Err: err})
	}
	if int(reply.Size) != c.size {
		return gamma.ErrGammaRampSizeChanged
	}
	copy(lut.Red, reply.Red)
	copy(lut.Green, reply.Green)
	copy(lut.Blue, reply.Blue)
	return nil
}

func (c *crtc) SetGammaRamps(r ramp.Ramps) error {
	lut, err := c.lut(r)
	if err != nil {
		return err
	}
	err = xrandr.SetCrtcGammaChecked(c.conn(), c.id, uint16(c.size), lut.Red, lut.Green, lut.Blue).Check()
	if err != nil {
		return fmt.Errorf("%w: %w", gamma.ErrGammaRampWriteFailed, &gamma.OSError{Op: "RandR SetCrtcGamma", Err: err})
	}
	return nil
}

func subpixelOrder(order byte) (gamma.SubpixelOrder, error) {
	switch order {
	case render.SubPixelUnknown:
		return gamma.SubpixelUnknown, nil
	case render.SubPixelHorizontalRGB:
		return gamma.SubpixelHorizontalRGB, nil
	case render.SubPixelHorizontalBGR:
		return gamma.SubpixelHorizontalBGR, nil
	case render.SubPixelVerticalRGB:
		return gamma.SubpixelVerticalRGB, nil
	case render.SubPixelVerticalBGR:
		return gamma.SubpixelVerticalBGR, nil
	case render.SubPixelNone:
		return gamma.SubpixelNone, nil
	default:
		return gamma.SubpixelUnknown, gamma.ErrSubpixelOrderNotRecognised
	}
}

func active(connection byte) (bool, error) {
	switch connection {
	case xrandr.ConnectionConnected:
		return true, nil
	case xrandr.ConnectionDisconnected:
		return false, nil
	default:
		return false, gamma.ErrConnectorUnknown
	}
}
