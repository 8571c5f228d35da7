// Package vidmode implements the X XF86VidMode adjustment method.
//
// Sites are X displays and partitions are the screens of a display. Every
// screen has exactly one CRTC, and all outputs of the screen share its ramp.
// The package registers itself for [gamma.VidMode].
package vidmode

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xf86vidmode"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/BeatGlow/gamma"
	"github.com/BeatGlow/gamma/ramp"
)

func init() {
	gamma.Register(gamma.VidMode, Driver{})
}

// MajorVersion is the oldest protocol version with gamma ramp requests.
const MajorVersion = 2

// Driver is the XF86VidMode adjustment method.
type Driver struct{}

// OpenSite connects to the X display name; an empty name uses $DISPLAY.
func (Driver) OpenSite(name string) (gamma.SiteState, error) {
	conn, err := xgb.NewConnDisplay(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", gamma.ErrNoSuchSite, &gamma.OSError{Op: "connect to " + name, Err: err})
	}
	if err = xf86vidmode.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %w", gamma.ErrProtocolVersionNotSupported, &gamma.OSError{Op: "XF86VidMode", Err: err})
	}

	version, err := xf86vidmode.QueryVersion(conn).Reply()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %w", gamma.ErrProtocolVersionQueryFailed, &gamma.OSError{Op: "XF86VidMode QueryVersion", Err: err})
	}
	if version.MajorVersion < MajorVersion {
		conn.Close()
		return nil, fmt.Errorf("%w: XF86VidMode %d.%d", gamma.ErrProtocolVersionNotSupported,
			version.MajorVersion, version.MinorVersion)
	}

	screens := len(xproto.Setup(conn).Roots)
	slog.Debug("vidmode: connected", "display", name, "screens", screens)
	return &site{conn: conn, screens: screens}, nil
}

type site struct {
	conn    *xgb.Conn
	screens int
}

func (s *site) Partitions() int { return s.screens }
func (s *site) Restore() error  { return gamma.ErrRestoreNotSupported }

func (s *site) Close() error {
	s.conn.Close()
	return nil
}

func (s *site) OpenPartition(index int) (gamma.PartitionState, error) {
	return &screen{conn: s.conn, index: uint16(index)}, nil
}

// screen is both the partition and its only CRTC.
type screen struct {
	conn  *xgb.Conn
	index uint16
	size  int
}

func (s *screen) CRTCs() int     { return 1 }
func (s *screen) Restore() error { return gamma.ErrRestoreNotSupported }
func (s *screen) Close() error   { return nil }

func (s *screen) OpenCRTC(int) (gamma.CRTCState, error) {
	reply, err := xf86vidmode.GetGammaRampSize(s.conn, s.index).Reply()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", gamma.ErrGammaSizeQueryFailed, &gamma.OSError{Op: "XF86VidMode GetGammaRampSize", Err: err})
	}
	s.size = int(reply.Size)
	return s, nil
}

func (s *screen) Depth() ramp.Depth { return ramp.Depth16 }

func (s *screen) Information(info *gamma.CRTCInformation, fields gamma.Field) {
	if fields&gamma.FieldGammaSize != 0 {
		info.RedGammaSize, info.GreenGammaSize, info.BlueGammaSize = s.size, s.size, s.size
		if s.size < 2 {
			info.GammaSizeErr = gamma.ErrSingletonGammaRamp
		}
	}
	if fields&gamma.FieldGammaDepth != 0 {
		info.GammaDepth = ramp.Depth16
	}
}

func (s *screen) lut(r ramp.Ramps) (*ramp.Ramps16, error) {
	lut, ok := r.(*ramp.Ramps16)
	if !ok {
		return nil, fmt.Errorf("vidmode: %w: %s", ramp.ErrInvalidDepth, r.Depth())
	}
	red, green, blue := lut.Sizes()
	if red != s.size || green != s.size || blue != s.size {
		return nil, fmt.Errorf("%w: got %d/%d/%d, screen has %d", gamma.ErrWrongGammaRampSize,
			red, green, blue, s.size)
	}
	return lut, nil
}

func (s *screen) GammaRamps(r ramp.Ramps) error {
	lut, err := s.lut(r)
	if err != nil {
		return err
	}
	reply, err := xf86vidmode.GetGammaRamp(s.conn, s.index, uint16(s.size)).Reply()
	if err != nil {
		return fmt.Errorf("%w: %w", gamma.ErrGammaRampReadFailed, &gamma.OSError{Op: "XF86VidMode GetGammaRamp", Err: err})
	}
	if int(reply.Size) != s.size {
		return gamma.ErrGammaRampSizeChanged
	}
	copy(lut.Red, reply.Red)
	copy(lut.Green, reply.Green)
	copy(lut.Blue, reply.Blue)
	return nil
}

func (s *screen) SetGammaRamps(r ramp.Ramps) error {
	lut, err := s.lut(r)
	if err != nil {
		return err
	}
	err = xf86vidmode.SetGammaRampChecked(s.conn, s.index, uint16(s.size), lut.Red, lut.Green, lut.Blue).Check()
	if err != nil {
		return fmt.Errorf("%w: %w", gamma.ErrGammaRampWriteFailed, &gamma.OSError{Op: "XF86VidMode SetGammaRamp", Err: err})
	}
	return nil
}
