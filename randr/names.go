package randr

import (
	"strings"

	"github.com/BeatGlow/gamma"
)

// outputPrefixes maps output name prefixes used by X drivers to connector
// types. Longer prefixes come first.
var outputPrefixes = []struct {
	prefix string
	typ    gamma.ConnectorType
}{
	{"DisplayPort", gamma.ConnectorDisplayPort},
	{"Component", gamma.ConnectorComponent},
	{"Composite", gamma.ConnectorComposite},
	{"Virtual", gamma.ConnectorVirtual},
	{"S-video", gamma.ConnectorSVideo},
	{"SVIDEO", gamma.ConnectorSVideo},
	{"HDMI-A", gamma.ConnectorHDMIA},
	{"HDMI-B", gamma.ConnectorHDMIB},
	{"DVI-I", gamma.ConnectorDVII},
	{"DVI-D", gamma.ConnectorDVID},
	{"DVI-A", gamma.ConnectorDVIA},
	{"HDMI", gamma.ConnectorHDMI},
	{"LVDS", gamma.ConnectorLVDS},
	{"DVI", gamma.ConnectorDVI},
	{"VGA", gamma.ConnectorVGA},
	{"DIN", gamma.Connector9PinDIN},
	{"eDP", gamma.ConnectorEDP},
	{"DSI", gamma.ConnectorDSI},
	{"LFP", gamma.ConnectorLFP},
	{"DP", gamma.ConnectorDisplayPort},
	{"TV", gamma.ConnectorTV},
}

// connectorType guesses the connector type from an output name such as
// "HDMI-1" or "DP-2-1".
func connectorType(name string) (gamma.ConnectorType, error) {
	for _, p := range outputPrefixes {
		if !strings.HasPrefix(name, p.prefix) {
			continue
		}
		rest := name[len(p.prefix):]
		if rest == "" || rest[0] == '-' || rest[0] == '_' || (rest[0] >= '0' && rest[0] <= '9') {
			return p.typ, nil
		}
	}
	return gamma.ConnectorUnknown, gamma.ErrConnectorTypeNotRecognised
}
