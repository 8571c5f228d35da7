package gamma

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BeatGlow/gamma/edid"
)

// Error is a library defined error. The values form a closed set of negative
// codes, so they can be passed across language boundaries and compared with
// errors.Is.
type Error int

// Scope errors.
const (
	ErrNoSuchAdjustmentMethod Error = -(iota + 1)
	ErrNoSuchSite
	ErrNoSuchPartition
	ErrNoSuchCRTC
	ErrConnectorDisabled
	ErrCRTCNotConnected
)

// Resource errors.
const (
	ErrOpenFailed Error = -(iota + 20)
	ErrDeviceRequireGroup
	ErrGraphicsCardRemoved
	ErrDeviceAccessFailed
)

// Protocol errors.
const (
	ErrProtocolVersionQueryFailed Error = -(iota + 40)
	ErrProtocolVersionNotSupported
	ErrListPartitionsFailed
	ErrListCRTCsFailed
	ErrOutputInformationQueryFailed
	ErrPropertyQueryFailed
	ErrGammaRampReadFailed
	ErrGammaRampWriteFailed
	ErrGammaSizeQueryFailed
	ErrEDIDNotFound
	ErrConnectorTypeNotRecognised
	ErrSubpixelOrderNotRecognised
	ErrConnectorUnknown
)

// Ramp shape errors.
const (
	ErrMixedGammaRampSize Error = -(iota + 60)
	ErrWrongGammaRampSize
	ErrSingletonGammaRamp
	ErrGammaRampSizeChanged
)

// EDID errors; each wraps the matching error of package edid.
const (
	ErrEDIDLengthUnsupported Error = -(iota + 70)
	ErrEDIDWrongMagicNumber
	ErrEDIDRevisionUnsupported
	ErrEDIDChecksum
	ErrGammaNotSpecified
	ErrGammaNotSpecifiedAndEDIDChecksum
)

// Capability errors.
const (
	ErrCRTCInfoNotSupported Error = -(iota + 80)
	ErrRestoreNotSupported
)

type errorInfo struct {
	name    string
	message string
	cause   error
}

var errorTable = map[Error]errorInfo{
	ErrNoSuchAdjustmentMethod:           {"NO_SUCH_ADJUSTMENT_METHOD", "no such adjustment method", nil},
	ErrNoSuchSite:                       {"NO_SUCH_SITE", "no such site", nil},
	ErrNoSuchPartition:                  {"NO_SUCH_PARTITION", "no such partition", nil},
	ErrNoSuchCRTC:                       {"NO_SUCH_CRTC", "no such CRTC", nil},
	ErrConnectorDisabled:                {"CONNECTOR_DISABLED", "connector is disabled", nil},
	ErrCRTCNotConnected:                 {"CRTC_NOT_CONNECTED", "CRTC is not connected to a connector", nil},
	ErrOpenFailed:                       {"OPEN_FAILED", "failed to open device", nil},
	ErrDeviceRequireGroup:               {"DEVICE_REQUIRE_GROUP", "device requires group membership", nil},
	ErrGraphicsCardRemoved:              {"GRAPHICS_CARD_REMOVED", "graphics card was removed", nil},
	ErrDeviceAccessFailed:               {"DEVICE_ACCESS_FAILED", "device access failed", nil},
	ErrProtocolVersionQueryFailed:       {"PROTOCOL_VERSION_QUERY_FAILED", "protocol version query failed", nil},
	ErrProtocolVersionNotSupported:      {"PROTOCOL_VERSION_NOT_SUPPORTED", "protocol version not supported", nil},
	ErrListPartitionsFailed:             {"LIST_PARTITIONS_FAILED", "failed to list partitions", nil},
	ErrListCRTCsFailed:                  {"LIST_CRTCS_FAILED", "failed to list CRTCs", nil},
	ErrOutputInformationQueryFailed:     {"OUTPUT_INFORMATION_QUERY_FAILED", "output information query failed", nil},
	ErrPropertyQueryFailed:              {"PROPERTY_QUERY_FAILED", "property query failed", nil},
	ErrGammaRampReadFailed:              {"GAMMA_RAMP_READ_FAILED", "failed to read gamma ramps", nil},
	ErrGammaRampWriteFailed:             {"GAMMA_RAMP_WRITE_FAILED", "failed to write gamma ramps", nil},
	ErrGammaSizeQueryFailed:             {"GAMMA_SIZE_QUERY_FAILED", "gamma ramp size query failed", nil},
	ErrEDIDNotFound:                     {"EDID_NOT_FOUND", "EDID not found", nil},
	ErrConnectorTypeNotRecognised:       {"CONNECTOR_TYPE_NOT_RECOGNISED", "connector type not recognised", nil},
	ErrSubpixelOrderNotRecognised:       {"SUBPIXEL_ORDER_NOT_RECOGNISED", "subpixel order not recognised", nil},
	ErrConnectorUnknown:                 {"CONNECTOR_UNKNOWN", "connection state unknown", nil},
	ErrMixedGammaRampSize:               {"MIXED_GAMMA_RAMP_SIZE", "gamma ramp sizes differ between channels", nil},
	ErrWrongGammaRampSize:               {"WRONG_GAMMA_RAMP_SIZE", "wrong gamma ramp size", nil},
	ErrSingletonGammaRamp:               {"SINGLETON_GAMMA_RAMP", "gamma ramp has fewer than two stops", nil},
	ErrGammaRampSizeChanged:             {"GAMMA_RAMP_SIZE_CHANGED", "gamma ramp size changed", nil},
	ErrEDIDLengthUnsupported:            {"EDID_LENGTH_UNSUPPORTED", "unsupported EDID length", edid.ErrLengthUnsupported},
	ErrEDIDWrongMagicNumber:             {"EDID_WRONG_MAGIC_NUMBER", "EDID has wrong magic number", edid.ErrWrongMagicNumber},
	ErrEDIDRevisionUnsupported:          {"EDID_REVISION_UNSUPPORTED", "unsupported EDID revision", edid.ErrRevisionUnsupported},
	ErrEDIDChecksum:                     {"EDID_CHECKSUM_ERROR", "EDID checksum mismatch", edid.ErrChecksum},
	ErrGammaNotSpecified:                {"GAMMA_NOT_SPECIFIED", "gamma not specified", edid.ErrGammaNotSpecified},
	ErrGammaNotSpecifiedAndEDIDChecksum: {"GAMMA_NOT_SPECIFIED_AND_EDID_CHECKSUM_ERROR", "gamma not specified and EDID checksum mismatch", edid.ErrGammaNotSpecifiedAndChecksum},
	ErrCRTCInfoNotSupported:             {"CRTC_INFO_NOT_SUPPORTED", "CRTC information field not supported by the adjustment method", nil},
	ErrRestoreNotSupported:              {"RESTORE_NOT_SUPPORTED", "restore not supported by the adjustment method", nil},
}

func (e Error) Error() string {
	if info, ok := errorTable[e]; ok {
		return "gamma: " + info.message
	}
	return fmt.Sprintf("gamma: error %d", int(e))
}

// Name is the symbolic name of the error, e.g. "NO_SUCH_CRTC".
func (e Error) Name() string {
	return errorTable[e].name
}

// Unwrap returns the matching error of package edid for the EDID codes.
func (e Error) Unwrap() error {
	return errorTable[e].cause
}

// ErrorByName looks up an error by its symbolic name (case insensitive).
func ErrorByName(name string) (Error, bool) {
	for e, info := range errorTable {
		if strings.EqualFold(info.name, name) {
			return e, true
		}
	}
	return 0, false
}

// Errors for objects used after Close.
var (
	errClosedSite      = fmt.Errorf("%w: site is closed", ErrNoSuchSite)
	errClosedPartition = fmt.Errorf("%w: partition is closed", ErrNoSuchPartition)
	errClosedCRTC      = fmt.Errorf("%w: CRTC is closed", ErrNoSuchCRTC)
)

// fromEDID maps the errors of package edid to library errors.
func fromEDID(err error) error {
	for e, info := range errorTable {
		if info.cause != nil && errors.Is(err, info.cause) {
			return e
		}
	}
	return err
}

// OSError wraps an error reported by the operating system or the display
// server, as opposed to an Error defined by this package.
type OSError struct {
	// Op is the failed operation.
	Op string

	// Err is the underlying platform error.
	Err error
}

func (e *OSError) Error() string {
	return "gamma: " + e.Op + ": " + e.Err.Error()
}

func (e *OSError) Unwrap() error {
	return e.Err
}

// GroupError is returned when access to a device requires membership of a
// group the process is not in.
type GroupError struct {
	// Path of the device.
	Path string

	// Group name, empty if it could not be resolved.
	Group string

	// GID of the group.
	GID int
}

func (e *GroupError) Error() string {
	if e.Group != "" {
		return fmt.Sprintf("gamma: %s: requires membership of group %s", e.Path, e.Group)
	}
	return fmt.Sprintf("gamma: %s: requires membership of group %d", e.Path, e.GID)
}

// Is makes errors.Is(err, ErrDeviceRequireGroup) hold.
func (e *GroupError) Is(target error) bool {
	return target == ErrDeviceRequireGroup
}

// InformationError is returned by CRTC.Information when one or more of the
// requested fields could not be filled. The paired error of each failed field
// in the CRTCInformation says why.
type InformationError struct {
	Failed Field
}

func (e *InformationError) Error() string {
	return "gamma: CRTC information incomplete: " + e.Failed.String()
}
