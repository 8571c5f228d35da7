package gamma

import (
	"fmt"

	"github.com/BeatGlow/gamma/ramp"
)

// SubpixelOrder is the physical layout of the subpixels of a monitor.
type SubpixelOrder uint8

// Subpixel orders.
const (
	SubpixelUnknown SubpixelOrder = iota
	SubpixelNone
	SubpixelHorizontalRGB
	SubpixelHorizontalBGR
	SubpixelVerticalRGB
	SubpixelVerticalBGR
)

func (s SubpixelOrder) String() string {
	switch s {
	case SubpixelNone:
		return "none"
	case SubpixelHorizontalRGB:
		return "horizontal RGB"
	case SubpixelHorizontalBGR:
		return "horizontal BGR"
	case SubpixelVerticalRGB:
		return "vertical RGB"
	case SubpixelVerticalBGR:
		return "vertical BGR"
	default:
		return "unknown"
	}
}

// ConnectorType is the kind of connector a CRTC drives.
type ConnectorType uint8

// Connector types.
const (
	ConnectorUnknown ConnectorType = iota
	ConnectorVGA
	ConnectorDVI
	ConnectorDVII
	ConnectorDVID
	ConnectorDVIA
	ConnectorComposite
	ConnectorSVideo
	ConnectorLVDS
	ConnectorComponent
	Connector9PinDIN
	ConnectorDisplayPort
	ConnectorHDMI
	ConnectorHDMIA
	ConnectorHDMIB
	ConnectorTV
	ConnectorEDP
	ConnectorVirtual
	ConnectorDSI
	ConnectorLFP
)

var connectorNames = [...]string{
	ConnectorUnknown:     "Unknown",
	ConnectorVGA:         "VGA",
	ConnectorDVI:         "DVI",
	ConnectorDVII:        "DVI-I",
	ConnectorDVID:        "DVI-D",
	ConnectorDVIA:        "DVI-A",
	ConnectorComposite:   "Composite",
	ConnectorSVideo:      "SVIDEO",
	ConnectorLVDS:        "LVDS",
	ConnectorComponent:   "Component",
	Connector9PinDIN:     "DIN",
	ConnectorDisplayPort: "DP",
	ConnectorHDMI:        "HDMI",
	ConnectorHDMIA:       "HDMI-A",
	ConnectorHDMIB:       "HDMI-B",
	ConnectorTV:          "TV",
	ConnectorEDP:         "eDP",
	ConnectorVirtual:     "Virtual",
	ConnectorDSI:         "DSI",
	ConnectorLFP:         "LFP",
}

func (c ConnectorType) String() string {
	if int(c) < len(connectorNames) {
		return connectorNames[c]
	}
	return fmt.Sprintf("connector(%d)", int(c))
}

// Support tells whether the gamma ramps of a CRTC can be adjusted.
type Support uint8

// Gamma support levels.
const (
	SupportNo Support = iota
	SupportMaybe
	SupportYes
)

func (s Support) String() string {
	switch s {
	case SupportYes:
		return "yes"
	case SupportMaybe:
		return "maybe"
	default:
		return "no"
	}
}

// CRTCInformation is a best effort snapshot of a CRTC and its monitor.
//
// Every field has a paired error. Only requested fields are filled; a field
// that could not be filled has its error set. A failed EDID checksum keeps
// the EDID derived values but sets their errors.
type CRTCInformation struct {
	// EDID is the raw EDID of the monitor. The slice is owned by the caller.
	EDID    []byte
	EDIDErr error

	// WidthMM and HeightMM are the physical size reported by the backend.
	WidthMM     int
	WidthMMErr  error
	HeightMM    int
	HeightMMErr error

	// WidthMMEDID and HeightMMEDID are the physical size from the EDID.
	WidthMMEDID     int
	WidthMMEDIDErr  error
	HeightMMEDID    int
	HeightMMEDIDErr error

	// RedGammaSize, GreenGammaSize and BlueGammaSize are the ramp sizes.
	RedGammaSize   int
	GreenGammaSize int
	BlueGammaSize  int
	GammaSizeErr   error

	// GammaDepth is the native ramp depth.
	GammaDepth    ramp.Depth
	GammaDepthErr error

	// GammaSupport tells whether the ramps can be adjusted.
	GammaSupport    Support
	GammaSupportErr error

	// Subpixel is the subpixel order of the monitor.
	Subpixel    SubpixelOrder
	SubpixelErr error

	// Active is set if a monitor is connected.
	Active    bool
	ActiveErr error

	// ConnectorName is the name of the connector, e.g. "HDMI-A-1".
	ConnectorName    string
	ConnectorNameErr error

	// ConnectorType is the kind of connector.
	ConnectorType    ConnectorType
	ConnectorTypeErr error

	// GammaRed, GammaGreen and GammaBlue are the monitor gamma from the EDID.
	GammaRed   float64
	GammaGreen float64
	GammaBlue  float64
	GammaErr   error
}

// fieldError returns the error paired with a single field.
func (info *CRTCInformation) fieldError(f Field) *error {
	switch f {
	case FieldEDID:
		return &info.EDIDErr
	case FieldWidthMM:
		return &info.WidthMMErr
	case FieldHeightMM:
		return &info.HeightMMErr
	case FieldWidthMMEDID:
		return &info.WidthMMEDIDErr
	case FieldHeightMMEDID:
		return &info.HeightMMEDIDErr
	case FieldGammaSize:
		return &info.GammaSizeErr
	case FieldGammaDepth:
		return &info.GammaDepthErr
	case FieldGammaSupport:
		return &info.GammaSupportErr
	case FieldSubpixel:
		return &info.SubpixelErr
	case FieldActive:
		return &info.ActiveErr
	case FieldConnectorName:
		return &info.ConnectorNameErr
	case FieldConnectorType:
		return &info.ConnectorTypeErr
	case FieldGamma:
		return &info.GammaErr
	}
	return nil
}

// SetError sets err on every field in fields. Backends use it to fail a group
// of fields that depend on one query.
func (info *CRTCInformation) SetError(fields Field, err error) {
	for f := Field(1); f <= FieldGamma; f <<= 1 {
		if fields&f != 0 {
			*info.fieldError(f) = err
		}
	}
}

// Failed returns the fields among fields that have an error set.
func (info *CRTCInformation) Failed(fields Field) Field {
	var failed Field
	for f := Field(1); f <= FieldGamma; f <<= 1 {
		if fields&f != 0 && *info.fieldError(f) != nil {
			failed |= f
		}
	}
	return failed
}
