package gamma

import "strings"

// Field is a set of CRTC information fields.
type Field uint32

// CRTC information fields.
const (
	FieldEDID          Field = 1 << iota // Raw EDID
	FieldWidthMM                         // Physical width reported by the backend
	FieldHeightMM                        // Physical height reported by the backend
	FieldWidthMMEDID                     // Physical width from the EDID
	FieldHeightMMEDID                    // Physical height from the EDID
	FieldGammaSize                       // Number of stops per ramp
	FieldGammaDepth                      // Native ramp depth
	FieldGammaSupport                    // Whether ramps can be adjusted
	FieldSubpixel                        // Subpixel order
	FieldActive                          // Whether a monitor is connected
	FieldConnectorName                   // Connector name
	FieldConnectorType                   // Connector type
	FieldGamma                           // Monitor gamma from the EDID
)

// Field groups.
const (
	FieldMacroEDID      = FieldEDID | FieldWidthMMEDID | FieldHeightMMEDID | FieldGamma
	FieldMacroViewport  = FieldWidthMM | FieldHeightMM | FieldWidthMMEDID | FieldHeightMMEDID | FieldSubpixel
	FieldMacroRamp      = FieldGammaSize | FieldGammaDepth | FieldGammaSupport
	FieldMacroConnector = FieldConnectorName | FieldConnectorType | FieldActive
	FieldAll            = FieldEDID<<13 - 1

	// fieldFromEDID are the fields decoded from the EDID by the library.
	fieldFromEDID = FieldWidthMMEDID | FieldHeightMMEDID | FieldGamma
)

var fieldNames = []string{
	"edid",
	"width_mm",
	"height_mm",
	"width_mm_edid",
	"height_mm_edid",
	"gamma_size",
	"gamma_depth",
	"gamma_support",
	"subpixel_order",
	"active",
	"connector_name",
	"connector_type",
	"gamma",
}

func (f Field) String() string {
	var names []string
	for i, name := range fieldNames {
		if f&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Capabilities describe what an adjustment method can do. They are static per
// method and can be queried without opening a site.
type Capabilities struct {
	// CRTCInformation are the CRTC information fields the method can fill.
	CRTCInformation Field

	// DefaultSiteKnown is set if the method has a usable default site.
	DefaultSiteKnown bool

	// MultipleSites is set if the method supports more than one site.
	MultipleSites bool

	// MultiplePartitions is set if a site can have more than one partition.
	MultiplePartitions bool

	// MultipleCRTCs is set if a partition can have more than one CRTC.
	MultipleCRTCs bool

	// PartitionsAreGraphicsCards is set if partitions map to graphics cards.
	PartitionsAreGraphicsCards bool

	// SiteRestore, PartitionRestore and CRTCRestore are set if the system
	// settings can be restored at that level.
	SiteRestore      bool
	PartitionRestore bool
	CRTCRestore      bool

	// IdenticalGammaSizes is set if all three channels have the same size.
	IdenticalGammaSizes bool

	// FixedGammaSize is set if the ramp size is the same on all CRTCs.
	FixedGammaSize bool

	// FixedGammaDepth is set if the ramp depth is the same on all CRTCs.
	FixedGammaDepth bool

	// Real is set if the method talks to real hardware.
	Real bool

	// Fake is set if the method is an emulation or translation layer.
	Fake bool

	// AutoRestore is set if adjustments are undone when the process exits.
	AutoRestore bool
}

var capabilities = map[Method]Capabilities{
	Dummy: {
		CRTCInformation:    FieldAll,
		MultipleSites:      true,
		MultiplePartitions: true,
		MultipleCRTCs:      true,
		SiteRestore:        true,
		PartitionRestore:   true,
		CRTCRestore:        true,
		Fake:               true,
	},
	RandR: {
		CRTCInformation: FieldMacroEDID | FieldWidthMM | FieldHeightMM | FieldGammaSize | FieldGammaDepth |
			FieldSubpixel | FieldMacroConnector,
		MultipleSites:       true,
		MultiplePartitions:  true,
		MultipleCRTCs:       true,
		IdenticalGammaSizes: true,
		FixedGammaDepth:     true,
		Real:                true,
	},
	VidMode: {
		CRTCInformation:     FieldGammaSize | FieldGammaDepth,
		MultipleSites:       true,
		MultiplePartitions:  true,
		IdenticalGammaSizes: true,
		FixedGammaDepth:     true,
		Real:                true,
	},
	DRM: {
		CRTCInformation:            FieldAll,
		DefaultSiteKnown:           true,
		MultiplePartitions:         true,
		MultipleCRTCs:              true,
		PartitionsAreGraphicsCards: true,
		IdenticalGammaSizes:        true,
		FixedGammaDepth:            true,
		Real:                       true,
	},
	GDI: {
		CRTCInformation:     FieldMacroRamp,
		DefaultSiteKnown:    true,
		MultipleCRTCs:       true,
		IdenticalGammaSizes: true,
		FixedGammaSize:      true,
		FixedGammaDepth:     true,
		Real:                true,
	},
	Quartz: {
		CRTCInformation:     FieldWidthMM | FieldHeightMM | FieldGammaSize | FieldGammaDepth | FieldGammaSupport,
		DefaultSiteKnown:    true,
		MultipleCRTCs:       true,
		SiteRestore:         true,
		IdenticalGammaSizes: true,
		FixedGammaDepth:     true,
		Real:                true,
		AutoRestore:         true,
	},
	FBDev: {
		CRTCInformation:    FieldWidthMM | FieldHeightMM | FieldMacroRamp,
		DefaultSiteKnown:   true,
		MultiplePartitions: true,
		PartitionRestore:   true,
		CRTCRestore:        true,
		FixedGammaDepth:    true,
		Real:               true,
	},
}

// MethodCapabilities returns the capabilities of an adjustment method. The
// zero value is returned for unknown methods.
func MethodCapabilities(m Method) Capabilities {
	caps := capabilities[m]
	if DefaultSiteVariable(m) != "" {
		_, caps.DefaultSiteKnown = DefaultSite(m)
	}
	return caps
}
