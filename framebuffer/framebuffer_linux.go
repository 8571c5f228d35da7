package framebuffer

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"unsafe"

	"github.com/BeatGlow/gamma"
	"github.com/BeatGlow/gamma/internal/device"
	"github.com/BeatGlow/gamma/internal/ioctl"
	"github.com/BeatGlow/gamma/ramp"
)

func init() {
	gamma.Register(gamma.FBDev, Driver{})
}

// DevicePath is the device node pattern of the framebuffers.
var DevicePath = "/dev/fb%d"

const (
	// From <linux/fb.h>
	fbioGetVScreenInfo ioctl.Command = 0x4600
	fbioGetFScreenInfo ioctl.Command = 0x4602
	fbioGetCMap        ioctl.Command = 0x4604
	fbioPutCMap        ioctl.Command = 0x4605
)

// Visuals.
const (
	visualTrueColor   = 2
	visualPseudoColor = 3
	visualDirectColor = 4
)

// unknownSize is the physical size of framebuffers that do not know it.
const unknownSize = 0xffffffff

type fixScreenInfo struct {
	ID         [16]byte  // Identification string eg "TT Builtin"
	SmemStart  uintptr   // Start of frame buffer mem
	SmemLen    uint32    // Length of frame buffer mem
	Type       uint32    // FB_TYPE_
	TypeAux    uint32    // Interleave for interleaved Planes
	Visual     uint32    // FB_VISUAL_
	Xpanstep   uint16    // Zero if no hardware panning
	Ypanstep   uint16    // Zero if no hardware panning
	Ywrapstep  uint16    // Zero if no hardware ywrap
	LineLength uint32    // Length of a line in bytes
	MmioStart  uintptr   // Start of Memory Mapped I/O (physical address)
	MmioLen    uint32    // Length of Memory Mapped I/O
	Accel      uint32    // Type of acceleration available
	Reserved   [3]uint16 // Reserved for future compatibility
}

// bitField for the color
type bitField struct {
	Offset   uint32 // Beginning of bitfield
	Length   uint32 // Length of bitfield
	MsbRight uint32 // != 0 : Most significant bit is right
}

// varScreenInfo contains device independent changeable information about a
// frame buffer device and a specific video mode.
type varScreenInfo struct {
	Xres                    uint32
	Yres                    uint32
	XresVirtual             uint32
	YresVirtual             uint32
	Xoffset                 uint32
	Yoffset                 uint32
	BitsPerPixel            uint32
	Grayscale               uint32
	Red, Green, Blue, Alpha bitField
	Nonstd                  uint32
	Activate                uint32
	Height                  uint32 // height of picture in mm
	Width                   uint32 // width of picture in mm
	AccelFlags              uint32
	Pixclock                uint32
	LeftMargin              uint32
	RightMargin             uint32
	UpperMargin             uint32
	LowerMargin             uint32
	HsyncLen                uint32
	VsyncLen                uint32
	Sync                    uint32
	Vmode                   uint32
	Rotate                  uint32
	Colorspace              uint32
	Reserved                [4]uint32
}

// colorMap is struct fb_cmap.
type colorMap struct {
	Start  uint32
	Len    uint32
	Red    *uint16
	Green  *uint16
	Blue   *uint16
	Transp *uint16
}

// Driver is the fbdev adjustment method.
type Driver struct{}

// OpenSite opens the only site of the method; the site name must be empty.
func (Driver) OpenSite(name string) (gamma.SiteState, error) {
	if name != "" {
		return nil, fmt.Errorf("%w: %q", gamma.ErrNoSuchSite, name)
	}
	n := device.Count(DevicePath)
	slog.Debug("framebuffer: found devices", "devices", n)
	return &site{devices: n}, nil
}

type site struct {
	devices int
}

func (s *site) Partitions() int { return s.devices }
func (s *site) Restore() error  { return gamma.ErrRestoreNotSupported }
func (s *site) Close() error    { return nil }

func (s *site) OpenPartition(index int) (gamma.PartitionState, error) {
	path := fmt.Sprintf(DevicePath, index)
	f, err := device.Open(path)
	if err != nil {
		return nil, err
	}

	fb := &frameBuffer{f: f, fd: f.Fd()}
	if err = ioctl.Do(fb.fd, fbioGetFScreenInfo, unsafe.Pointer(&fb.info)); err != nil {
		_ = f.Close()
		return nil, device.IoctlError(gamma.ErrListCRTCsFailed, "FBIOGET_FSCREENINFO", err)
	}
	if err = ioctl.Do(fb.fd, fbioGetVScreenInfo, unsafe.Pointer(&fb.screenInfo)); err != nil {
		_ = f.Close()
		return nil, device.IoctlError(gamma.ErrListCRTCsFailed, "FBIOGET_VSCREENINFO", err)
	}

	// Save the colour map for restore.
	if fb.saved = fb.newRamps(); fb.saved.Len() == 0 {
		fb.saved = nil
	} else if err = fb.colorMap(fb.saved, fbioGetCMap); err != nil {
		slog.Debug("framebuffer: no colour map", "path", path, "error", err)
		fb.saved = nil
	}
	slog.Debug("framebuffer: opened device", "path", path, "id", cString(fb.info.ID[:]),
		"visual", fb.info.Visual, "bpp", fb.screenInfo.BitsPerPixel)
	return fb, nil
}

// frameBuffer is a partition with a single CRTC.
type frameBuffer struct {
	f          *os.File
	fd         uintptr
	info       fixScreenInfo
	screenInfo varScreenInfo
	saved      *ramp.Ramps16
}

func (fb *frameBuffer) CRTCs() int { return 1 }

func (fb *frameBuffer) OpenCRTC(int) (gamma.CRTCState, error) {
	return crtc{fb}, nil
}

// crtc shares the device of its partition.
type crtc struct {
	*frameBuffer
}

func (crtc) Close() error { return nil }

// sizes returns the colour map size of each channel: one entry per value of
// the channel's bit field.
func (fb *frameBuffer) sizes() (red, green, blue int) {
	size := func(f bitField) int {
		if f.Length == 0 || f.Length > 16 {
			return 0
		}
		return 1 << f.Length
	}
	return size(fb.screenInfo.Red), size(fb.screenInfo.Green), size(fb.screenInfo.Blue)
}

func (fb *frameBuffer) newRamps() *ramp.Ramps16 {
	return ramp.NewOf[uint16](fb.sizes())
}

// colorMap reads or writes the colour map. The kernel takes one length for
// all channels, so shorter channels are padded; on write the padding carries
// the current entries.
func (fb *frameBuffer) colorMap(r *ramp.Ramps16, command ioctl.Command) error {
	n := max(len(r.Red), len(r.Green), len(r.Blue))
	if n == 0 {
		return nil
	}
	var (
		red   = make([]uint16, n)
		green = make([]uint16, n)
		blue  = make([]uint16, n)
		cmap  = colorMap{Len: uint32(n), Red: &red[0], Green: &green[0], Blue: &blue[0]}
	)
	uneven := len(r.Red) != n || len(r.Green) != n || len(r.Blue) != n
	if command == fbioGetCMap || uneven {
		if err := ioctl.Do(fb.fd, fbioGetCMap, unsafe.Pointer(&cmap)); err != nil {
			return err
		}
	}
	if command == fbioGetCMap {
		copy(r.Red, red)
		copy(r.Green, green)
		copy(r.Blue, blue)
		return nil
	}

	copy(red, r.Red)
	copy(green, r.Green)
	copy(blue, r.Blue)
	err := ioctl.Do(fb.fd, fbioPutCMap, unsafe.Pointer(&cmap))
	runtime.KeepAlive(red)
	runtime.KeepAlive(green)
	runtime.KeepAlive(blue)
	return err
}

func (fb *frameBuffer) Depth() ramp.Depth { return ramp.Depth16 }

func (fb *frameBuffer) Information(info *gamma.CRTCInformation, fields gamma.Field) {
	if fields&gamma.FieldWidthMM != 0 {
		info.WidthMM = int(fb.screenInfo.Width)
		if w := fb.screenInfo.Width; w == 0 || w == unknownSize {
			info.WidthMM, info.WidthMMErr = 0, gamma.ErrOutputInformationQueryFailed
		}
	}
	if fields&gamma.FieldHeightMM != 0 {
		info.HeightMM = int(fb.screenInfo.Height)
		if h := fb.screenInfo.Height; h == 0 || h == unknownSize {
			info.HeightMM, info.HeightMMErr = 0, gamma.ErrOutputInformationQueryFailed
		}
	}
	if fields&gamma.FieldGammaSize != 0 {
		info.RedGammaSize, info.GreenGammaSize, info.BlueGammaSize = fb.sizes()
		if info.RedGammaSize < 2 || info.GreenGammaSize < 2 || info.BlueGammaSize < 2 {
			info.GammaSizeErr = gamma.ErrSingletonGammaRamp
		}
	}
	if fields&gamma.FieldGammaDepth != 0 {
		info.GammaDepth = ramp.Depth16
	}
	if fields&gamma.FieldGammaSupport != 0 {
		info.GammaSupport = gammaSupport(fb.info.Visual, fb.saved != nil)
	}
}

// gammaSupport tells from the visual whether the colour map is applied to
// the pixels.
func gammaSupport(visual uint32, hasColorMap bool) gamma.Support {
	switch {
	case !hasColorMap:
		return gamma.SupportNo
	case visual == visualDirectColor:
		return gamma.SupportYes
	case visual == visualTrueColor, visual == visualPseudoColor:
		return gamma.SupportMaybe
	default:
		return gamma.SupportNo
	}
}

func (fb *frameBuffer) lut(r ramp.Ramps) (*ramp.Ramps16, error) {
	lut, ok := r.(*ramp.Ramps16)
	if !ok {
		return nil, fmt.Errorf("framebuffer: %w: %s", ramp.ErrInvalidDepth, r.Depth())
	}
	red, green, blue := lut.Sizes()
	if wantRed, wantGreen, wantBlue := fb.sizes(); red != wantRed || green != wantGreen || blue != wantBlue {
		return nil, fmt.Errorf("%w: got %d/%d/%d, colour map has %d/%d/%d", gamma.ErrWrongGammaRampSize,
			red, green, blue, wantRed, wantGreen, wantBlue)
	}
	return lut, nil
}

func (fb *frameBuffer) GammaRamps(r ramp.Ramps) error {
	lut, err := fb.lut(r)
	if err != nil {
		return err
	}
	if err = fb.colorMap(lut, fbioGetCMap); err != nil {
		return device.IoctlError(gamma.ErrGammaRampReadFailed, "FBIOGETCMAP", err)
	}
	return nil
}

func (fb *frameBuffer) SetGammaRamps(r ramp.Ramps) error {
	lut, err := fb.lut(r)
	if err != nil {
		return err
	}
	if err = fb.colorMap(lut, fbioPutCMap); err != nil {
		return device.IoctlError(gamma.ErrGammaRampWriteFailed, "FBIOPUTCMAP", err)
	}
	return nil
}

// Restore puts back the colour map found when the device was opened.
func (fb *frameBuffer) Restore() error {
	if fb.saved == nil {
		return gamma.ErrRestoreNotSupported
	}
	return fb.SetGammaRamps(fb.saved)
}

// Close the framebuffer device.
func (fb *frameBuffer) Close() error {
	return fb.f.Close()
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
