package gdi

import (
	"fmt"
	"log/slog"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/BeatGlow/gamma"
	"github.com/BeatGlow/gamma/ramp"
)

func init() {
	gamma.Register(gamma.GDI, Driver{})
}

// GammaSize is the fixed number of stops per channel.
const GammaSize = 256

const (
	displayDeviceActive = 0x00000001
	colorMgmtCaps       = 121
	cmGammaRamp         = 0x00000002
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	gdi32  = windows.NewLazySystemDLL("gdi32.dll")

	procEnumDisplayDevicesW = user32.NewProc("EnumDisplayDevicesW")
	procCreateDCW           = gdi32.NewProc("CreateDCW")
	procDeleteDC            = gdi32.NewProc("DeleteDC")
	procGetDeviceCaps       = gdi32.NewProc("GetDeviceCaps")
	procGetDeviceGammaRamp  = gdi32.NewProc("GetDeviceGammaRamp")
	procSetDeviceGammaRamp  = gdi32.NewProc("SetDeviceGammaRamp")
)

// displayDevice is DISPLAY_DEVICEW.
type displayDevice struct {
	cb           uint32
	deviceName   [32]uint16
	deviceString [128]uint16
	stateFlags   uint32
	deviceID     [128]uint16
	deviceKey    [128]uint16
}

// gammaRamp is the WORD[3][256] ramp of Get/SetDeviceGammaRamp.
type gammaRamp [3][GammaSize]uint16

// activeDevices lists the names of the display devices attached to the
// desktop.
func activeDevices() []string {
	var names []string
	for i := uint32(0); ; i++ {
		var dev displayDevice
		dev.cb = uint32(unsafe.Sizeof(dev))
		ok, _, _ := procEnumDisplayDevicesW.Call(0, uintptr(i), uintptr(unsafe.Pointer(&dev)), 0)
		if ok == 0 {
			return names
		}
		if dev.stateFlags&displayDeviceActive != 0 {
			names = append(names, windows.UTF16ToString(dev.deviceName[:]))
		}
	}
}

// Driver is the GDI adjustment method.
type Driver struct{}

// OpenSite opens the only site of the method; the site name must be empty.
func (Driver) OpenSite(name string) (gamma.SiteState, error) {
	if name != "" {
		return nil, fmt.Errorf("%w: %q", gamma.ErrNoSuchSite, name)
	}
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("%w: %w", gamma.ErrOpenFailed, &gamma.OSError{Op: "load user32.dll", Err: err})
	}
	if err := gdi32.Load(); err != nil {
		return nil, fmt.Errorf("%w: %w", gamma.ErrOpenFailed, &gamma.OSError{Op: "load gdi32.dll", Err: err})
	}
	return site{}, nil
}

type site struct{}

func (site) Partitions() int { return 1 }
func (site) Restore() error  { return gamma.ErrRestoreNotSupported }
func (site) Close() error    { return nil }

func (site) OpenPartition(int) (gamma.PartitionState, error) {
	devices := activeDevices()
	slog.Debug("gdi: found display devices", "devices", devices)
	return &partition{devices: devices}, nil
}

type partition struct {
	devices []string
}

func (p *partition) CRTCs() int     { return len(p.devices) }
func (p *partition) Restore() error { return gamma.ErrRestoreNotSupported }
func (p *partition) Close() error   { return nil }

func (p *partition) OpenCRTC(index int) (gamma.CRTCState, error) {
	name, err := windows.UTF16PtrFromString(p.devices[index])
	if err != nil {
		return nil, err
	}
	hdc, _, callErr := procCreateDCW.Call(0, uintptr(unsafe.Pointer(name)), 0, 0)
	if hdc == 0 {
		return nil, fmt.Errorf("%w: %w", gamma.ErrDeviceAccessFailed, &gamma.OSError{Op: "CreateDC " + p.devices[index], Err: callErr})
	}
	return &crtc{hdc: hdc}, nil
}

type crtc struct {
	hdc uintptr
}

func (c *crtc) Depth() ramp.Depth { return ramp.Depth16 }
func (c *crtc) Restore() error    { return gamma.ErrRestoreNotSupported }

func (c *crtc) Close() error {
	if c.hdc != 0 {
		procDeleteDC.Call(c.hdc)
		c.hdc = 0
	}
	return nil
}

func (c *crtc) Information(info *gamma.CRTCInformation, fields gamma.Field) {
	if fields&gamma.FieldGammaSize != 0 {
		info.RedGammaSize, info.GreenGammaSize, info.BlueGammaSize = GammaSize, GammaSize, GammaSize
	}
	if fields&gamma.FieldGammaDepth != 0 {
		info.GammaDepth = ramp.Depth16
	}
	if fields&gamma.FieldGammaSupport != 0 {
		caps, _, _ := procGetDeviceCaps.Call(c.hdc, colorMgmtCaps)
		info.GammaSupport = gamma.SupportNo
		if caps&cmGammaRamp != 0 {
			info.GammaSupport = gamma.SupportYes
		}
	}
}

func (c *crtc) lut(r ramp.Ramps) (*ramp.Ramps16, error) {
	lut, ok := r.(*ramp.Ramps16)
	if !ok {
		return nil, fmt.Errorf("gdi: %w: %s", ramp.ErrInvalidDepth, r.Depth())
	}
	if red, green, blue := lut.Sizes(); red != GammaSize || green != GammaSize || blue != GammaSize {
		return nil, fmt.Errorf("%w: got %d/%d/%d, want %d", gamma.ErrWrongGammaRampSize,
			red, green, blue, GammaSize)
	}
	return lut, nil
}

func (c *crtc) GammaRamps(r ramp.Ramps) error {
	lut, err := c.lut(r)
	if err != nil {
		return err
	}
	var buf gammaRamp
	ok, _, callErr := procGetDeviceGammaRamp.Call(c.hdc, uintptr(unsafe.Pointer(&buf)))
	if ok == 0 {
		return fmt.Errorf("%w: %w", gamma.ErrGammaRampReadFailed, &gamma.OSError{Op: "GetDeviceGammaRamp", Err: callErr})
	}
	copy(lut.Red, buf[0][:])
	copy(lut.Green, buf[1][:])
	copy(lut.Blue, buf[2][:])
	return nil
}

func (c *crtc) SetGammaRamps(r ramp.Ramps) error {
	lut, err := c.lut(r)
	if err != nil {
		return err
	}
	var buf gammaRamp
	copy(buf[0][:], lut.Red)
	copy(buf[1][:], lut.Green)
	copy(buf[2][:], lut.Blue)
	ok, _, callErr := procSetDeviceGammaRamp.Call(c.hdc, uintptr(unsafe.Pointer(&buf)))
	if ok == 0 {
		return fmt.Errorf("%w: %w", gamma.ErrGammaRampWriteFailed, &gamma.OSError{Op: "SetDeviceGammaRamp", Err: callErr})
	}
	return nil
}
