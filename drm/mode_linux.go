package drm

import (
	"runtime"
	"unsafe"

	"github.com/BeatGlow/gamma/internal/ioctl"
)

// Kernel mode setting structures, laid out as in drm_mode.h.

type modeCardRes struct {
	fbIDPtr         uint64
	crtcIDPtr       uint64
	connectorIDPtr  uint64
	encoderIDPtr    uint64
	countFBs        uint32
	countCRTCs      uint32
	countConnectors uint32
	countEncoders   uint32
	minWidth        uint32
	maxWidth        uint32
	minHeight       uint32
	maxHeight       uint32
}

type modeModeInfo struct {
	clock      uint32
	hdisplay   uint16
	hsyncStart uint16
	hsyncEnd   uint16
	htotal     uint16
	hskew      uint16
	vdisplay   uint16
	vsyncStart uint16
	vsyncEnd   uint16
	vtotal     uint16
	vscan      uint16
	vrefresh   uint32
	flags      uint32
	typ        uint32
	name       [32]byte
}

type modeCRTC struct {
	setConnectorsPtr uint64
	countConnectors  uint32
	crtcID           uint32
	fbID             uint32
	x, y             uint32
	gammaSize        uint32
	modeValid        uint32
	mode             modeModeInfo
}

type modeCRTCLUT struct {
	crtcID    uint32
	gammaSize uint32
	red       uint64
	green     uint64
	blue      uint64
}

type modeGetEncoder struct {
	encoderID      uint32
	encoderType    uint32
	crtcID         uint32
	possibleCRTCs  uint32
	possibleClones uint32
}

type modeGetConnector struct {
	encodersPtr     uint64
	modesPtr        uint64
	propsPtr        uint64
	propValuesPtr   uint64
	countModes      uint32
	countProps      uint32
	countEncoders   uint32
	encoderID       uint32
	connectorID     uint32
	connectorType   uint32
	connectorTypeID uint32
	connection      uint32
	mmWidth         uint32
	mmHeight        uint32
	subpixel        uint32
	_               uint32
}

type modeGetProperty struct {
	valuesPtr      uint64
	enumBlobPtr    uint64
	propID         uint32
	flags          uint32
	name           [32]byte
	countValues    uint32
	countEnumBlobs uint32
}

type modeGetBlob struct {
	blobID uint32
	length uint32
	data   uint64
}

const ioctlBase = 'd'

var (
	ioctlGetResources = ioctl.For[modeCardRes](ioctl.ReadWrite, ioctlBase, 0xa0)
	ioctlGetCRTC      = ioctl.For[modeCRTC](ioctl.ReadWrite, ioctlBase, 0xa1)
	ioctlGetGamma     = ioctl.For[modeCRTCLUT](ioctl.ReadWrite, ioctlBase, 0xa4)
	ioctlSetGamma     = ioctl.For[modeCRTCLUT](ioctl.ReadWrite, ioctlBase, 0xa5)
	ioctlGetEncoder   = ioctl.For[modeGetEncoder](ioctl.ReadWrite, ioctlBase, 0xa6)
	ioctlGetConnector = ioctl.For[modeGetConnector](ioctl.ReadWrite, ioctlBase, 0xa7)
	ioctlGetProperty  = ioctl.For[modeGetProperty](ioctl.ReadWrite, ioctlBase, 0xaa)
	ioctlGetPropBlob  = ioctl.For[modeGetBlob](ioctl.ReadWrite, ioctlBase, 0xac)
)

// ptr returns the address of the first element of s as a kernel pointer.
func ptr[T any](s []T) uint64 {
	if len(s) == 0 {
		return 0
	}
	return uint64(uintptr(unsafe.Pointer(&s[0])))
}

// resources lists the CRTC and connector IDs of a card.
func resources(fd uintptr) (crtcs, connectors []uint32, err error) {
	var res modeCardRes
	if err = ioctl.Do(fd, ioctlGetResources, unsafe.Pointer(&res)); err != nil {
		return
	}
	// The counts may grow between the two calls when connectors are
	// hotplugged; retry until the buffers are large enough.
	for {
		crtcs = make([]uint32, res.countCRTCs)
		connectors = make([]uint32, res.countConnectors)
		fill := modeCardRes{
			crtcIDPtr:       ptr(crtcs),
			connectorIDPtr:  ptr(connectors),
			countCRTCs:      res.countCRTCs,
			countConnectors: res.countConnectors,
		}
		err = ioctl.Do(fd, ioctlGetResources, unsafe.Pointer(&fill))
		runtime.KeepAlive(crtcs)
		runtime.KeepAlive(connectors)
		if err != nil {
			return nil, nil, err
		}
		if fill.countCRTCs <= res.countCRTCs && fill.countConnectors <= res.countConnectors {
			return crtcs[:fill.countCRTCs], connectors[:fill.countConnectors], nil
		}
		res = fill
	}
}

func getCRTC(fd uintptr, id uint32) (*modeCRTC, error) {
	crtc := &modeCRTC{crtcID: id}
	if err := ioctl.Do(fd, ioctlGetCRTC, unsafe.Pointer(crtc)); err != nil {
		return nil, err
	}
	return crtc, nil
}

// gammaLUT reads (set is false) or writes the lookup table of a CRTC.
func gammaLUT(fd uintptr, id uint32, red, green, blue []uint16, set bool) error {
	lut := modeCRTCLUT{
		crtcID:    id,
		gammaSize: uint32(len(red)),
		red:       ptr(red),
		green:     ptr(green),
		blue:      ptr(blue),
	}
	command := ioctlGetGamma
	if set {
		command = ioctlSetGamma
	}
	err := ioctl.Do(fd, command, unsafe.Pointer(&lut))
	runtime.KeepAlive(red)
	runtime.KeepAlive(green)
	runtime.KeepAlive(blue)
	return err
}

func getEncoder(fd uintptr, id uint32) (*modeGetEncoder, error) {
	enc := &modeGetEncoder{encoderID: id}
	if err := ioctl.Do(fd, ioctlGetEncoder, unsafe.Pointer(enc)); err != nil {
		return nil, err
	}
	return enc, nil
}

// connector is a connector with its properties.
type connector struct {
	modeGetConnector
	props  []uint32
	values []uint64
}

func getConnector(fd uintptr, id uint32) (*connector, error) {
	var probe modeGetConnector
	probe.connectorID = id
	if err := ioctl.Do(fd, ioctlGetConnector, unsafe.Pointer(&probe)); err != nil {
		return nil, err
	}

	c := &connector{
		props:  make([]uint32, probe.countProps),
		values: make([]uint64, probe.countProps),
	}
	c.connectorID = id
	c.countProps = probe.countProps
	c.propsPtr = ptr(c.props)
	c.propValuesPtr = ptr(c.values)
	err := ioctl.Do(fd, ioctlGetConnector, unsafe.Pointer(&c.modeGetConnector))
	runtime.KeepAlive(c.props)
	runtime.KeepAlive(c.values)
	if err != nil {
		return nil, err
	}
	if n := int(c.countProps); n < len(c.props) {
		c.props, c.values = c.props[:n], c.values[:n]
	}
	return c, nil
}

// property returns the value of the named property of the connector.
func (c *connector) property(fd uintptr, name string) (uint64, bool, error) {
	for i, id := range c.props {
		prop := modeGetProperty{propID: id}
		if err := ioctl.Do(fd, ioctlGetProperty, unsafe.Pointer(&prop)); err != nil {
			return 0, false, err
		}
		if cString(prop.name[:]) == name {
			return c.values[i], true, nil
		}
	}
	return 0, false, nil
}

func getBlob(fd uintptr, id uint32) ([]byte, error) {
	blob := modeGetBlob{blobID: id}
	if err := ioctl.Do(fd, ioctlGetPropBlob, unsafe.Pointer(&blob)); err != nil {
		return nil, err
	}
	data := make([]byte, blob.length)
	blob.data = ptr(data)
	err := ioctl.Do(fd, ioctlGetPropBlob, unsafe.Pointer(&blob))
	runtime.KeepAlive(data)
	if err != nil {
		return nil, err
	}
	return data[:min(int(blob.length), len(data))], nil
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
