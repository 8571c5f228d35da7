package drm

import (
	"fmt"

	"github.com/BeatGlow/gamma"
)

// Connection states of a connector.
const (
	connected    = 1
	disconnected = 2
)

// connectorTypes maps DRM connector types to their kernel names and the
// matching connector type.
var connectorTypes = []struct {
	name string
	typ  gamma.ConnectorType
}{
	{"Unknown", gamma.ConnectorUnknown},
	{"VGA", gamma.ConnectorVGA},
	{"DVI-I", gamma.ConnectorDVII},
	{"DVI-D", gamma.ConnectorDVID},
	{"DVI-A", gamma.ConnectorDVIA},
	{"Composite", gamma.ConnectorComposite},
	{"SVIDEO", gamma.ConnectorSVideo},
	{"LVDS", gamma.ConnectorLVDS},
	{"Component", gamma.ConnectorComponent},
	{"DIN", gamma.Connector9PinDIN},
	{"DP", gamma.ConnectorDisplayPort},
	{"HDMI-A", gamma.ConnectorHDMIA},
	{"HDMI-B", gamma.ConnectorHDMIB},
	{"TV", gamma.ConnectorTV},
	{"eDP", gamma.ConnectorEDP},
	{"Virtual", gamma.ConnectorVirtual},
	{"DSI", gamma.ConnectorDSI},
}

// unmappedConnectorNames are connector types the kernel knows but that have
// no matching gamma.ConnectorType.
var unmappedConnectorNames = map[uint32]string{
	17: "DPI",
	18: "Writeback",
	19: "SPI",
	20: "USB",
}

// connectorName returns the kernel style name of a connector, such as
// "HDMI-A-1".
func connectorName(typ, id uint32) string {
	if int(typ) < len(connectorTypes) {
		return fmt.Sprintf("%s-%d", connectorTypes[typ].name, id)
	}
	if name, ok := unmappedConnectorNames[typ]; ok {
		return fmt.Sprintf("%s-%d", name, id)
	}
	return fmt.Sprintf("Unknown%d-%d", typ, id)
}

func connectorType(typ uint32) (gamma.ConnectorType, error) {
	if typ == 0 || int(typ) >= len(connectorTypes) {
		return gamma.ConnectorUnknown, gamma.ErrConnectorTypeNotRecognised
	}
	return connectorTypes[typ].typ, nil
}

// subpixelOrder maps the DRM subpixel order to gamma.SubpixelOrder.
func subpixelOrder(order uint32) (gamma.SubpixelOrder, error) {
	switch order {
	case 1:
		return gamma.SubpixelUnknown, nil
	case 2:
		return gamma.SubpixelHorizontalRGB, nil
	case 3:
		return gamma.SubpixelHorizontalBGR, nil
	case 4:
		return gamma.SubpixelVerticalRGB, nil
	case 5:
		return gamma.SubpixelVerticalBGR, nil
	case 6:
		return gamma.SubpixelNone, nil
	default:
		return gamma.SubpixelUnknown, gamma.ErrSubpixelOrderNotRecognised
	}
}

// active maps the connection state of a connector.
func active(connection uint32) (bool, error) {
	switch connection {
	case connected:
		return true, nil
	case disconnected:
		return false, nil
	default:
		return false, gamma.ErrConnectorUnknown
	}
}
