//go:build darwin && cgo

package quartz

/*
#cgo LDFLAGS: -framework CoreGraphics
#include <CoreGraphics/CoreGraphics.h>
*/
import "C"

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/BeatGlow/gamma"
	"github.com/BeatGlow/gamma/ramp"
)

func init() {
	gamma.Register(gamma.Quartz, Driver{})
}

// maxDisplays bounds the online display list.
const maxDisplays = 64

// cgError is a non-zero CGError.
type cgError int32

func (e cgError) Error() string {
	return fmt.Sprintf("CoreGraphics error %d", int32(e))
}

// Driver is the CoreGraphics adjustment method.
type Driver struct{}

// OpenSite opens the only site of the method; the site name must be empty.
func (Driver) OpenSite(name string) (gamma.SiteState, error) {
	if name != "" {
		return nil, fmt.Errorf("%w: %q", gamma.ErrNoSuchSite, name)
	}
	return site{}, nil
}

type site struct{}

func (site) Partitions() int { return 1 }
func (site) Close() error    { return nil }

func (site) Restore() error {
	C.CGDisplayRestoreColorSyncSettings()
	return nil
}

func (site) OpenPartition(int) (gamma.PartitionState, error) {
	var (
		ids   [maxDisplays]C.CGDirectDisplayID
		count C.uint32_t
	)
	if e := C.CGGetOnlineDisplayList(maxDisplays, &ids[0], &count); e != C.kCGErrorSuccess {
		return nil, fmt.Errorf("%w: %w", gamma.ErrListCRTCsFailed, &gamma.OSError{Op: "CGGetOnlineDisplayList", Err: cgError(e)})
	}
	p := &partition{displays: make([]C.CGDirectDisplayID, count)}
	copy(p.displays, ids[:count])
	slog.Debug("quartz: found displays", "displays", len(p.displays))
	return p, nil
}

type partition struct {
	displays []C.CGDirectDisplayID
}

func (p *partition) CRTCs() int     { return len(p.displays) }
func (p *partition) Restore() error { return gamma.ErrRestoreNotSupported }
func (p *partition) Close() error   { return nil }

func (p *partition) OpenCRTC(index int) (gamma.CRTCState, error) {
	id := p.displays[index]
	return &crtc{id: id, size: int(C.CGDisplayGammaTableCapacity(id))}, nil
}

type crtc struct {
	id   C.CGDirectDisplayID
	size int
}

func (c *crtc) Depth() ramp.Depth { return ramp.Float }
func (c *crtc) Restore() error    { return gamma.ErrRestoreNotSupported }
func (c *crtc) Close() error      { return nil }

func (c *crtc) Information(info *gamma.CRTCInformation, fields gamma.Field) {
	if fields&(gamma.FieldWidthMM|gamma.FieldHeightMM) != 0 {
		size := C.CGDisplayScreenSize(c.id)
		info.WidthMM, info.HeightMM = int(size.width), int(size.height)
		if size.width == 0 && size.height == 0 {
			info.SetError(fields&(gamma.FieldWidthMM|gamma.FieldHeightMM), gamma.ErrOutputInformationQueryFailed)
		}
	}
	if fields&gamma.FieldGammaSize != 0 {
		info.RedGammaSize, info.GreenGammaSize, info.BlueGammaSize = c.size, c.size, c.size
		if c.size < 2 {
			info.GammaSizeErr = gamma.ErrSingletonGammaRamp
		}
	}
	if fields&gamma.FieldGammaDepth != 0 {
		info.GammaDepth = ramp.Float
	}
	if fields&gamma.FieldGammaSupport != 0 {
		info.GammaSupport = gamma.SupportNo
		if c.size > 1 {
			info.GammaSupport = gamma.SupportYes
		}
	}
}

func (c *crtc) lut(r ramp.Ramps) (*ramp.RampsFloat, error) {
	lut, ok := r.(*ramp.RampsFloat)
	if !ok {
		return nil, fmt.Errorf("quartz: %w: %s", ramp.ErrInvalidDepth, r.Depth())
	}
	if red, green, blue := lut.Sizes(); red != c.size || green != c.size || blue != c.size || c.size == 0 {
		return nil, fmt.Errorf("%w: got %d/%d/%d, display has %d", gamma.ErrWrongGammaRampSize,
			red, green, blue, c.size)
	}
	return lut, nil
}

func table(s []float32) *C.CGGammaValue {
	return (*C.CGGammaValue)(unsafe.Pointer(&s[0]))
}

func (c *crtc) GammaRamps(r ramp.Ramps) error {
	lut, err := c.lut(r)
	if err != nil {
		return err
	}
	var n C.uint32_t
	e := C.CGGetDisplayTransferByTable(c.id, C.uint32_t(c.size), table(lut.Red), table(lut.Green), table(lut.Blue), &n)
	if e != C.kCGErrorSuccess {
		return fmt.Errorf("%w: %w", gamma.ErrGammaRampReadFailed, &gamma.OSError{Op: "CGGetDisplayTransferByTable", Err: cgError(e)})
	}
	if int(n) != c.size {
		return gamma.ErrGammaRampSizeChanged
	}
	return nil
}

func (c *crtc) SetGammaRamps(r ramp.Ramps) error {
	lut, err := c.lut(r)
	if err != nil {
		return err
	}
	e := C.CGSetDisplayTransferByTable(c.id, C.uint32_t(c.size), table(lut.Red), table(lut.Green), table(lut.Blue))
	if e != C.kCGErrorSuccess {
		return fmt.Errorf("%w: %w", gamma.ErrGammaRampWriteFailed, &gamma.OSError{Op: "CGSetDisplayTransferByTable", Err: cgError(e)})
	}
	return nil
}
