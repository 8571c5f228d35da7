package gamma

import (
	"fmt"
	"sort"

	"github.com/BeatGlow/gamma/ramp"
)

// Driver is the entry point of an adjustment method backend.
type Driver interface {
	// OpenSite connects to a site. An empty site selects the default site.
	OpenSite(site string) (SiteState, error)
}

// CapabilityReporter may be implemented by a Driver whose capabilities depend
// on its configuration. Otherwise the static MethodCapabilities apply.
type CapabilityReporter interface {
	Capabilities() Capabilities
}

// SiteState is the backend state of an open site.
type SiteState interface {
	// Partitions is the number of partitions in the site.
	Partitions() int

	// OpenPartition opens the partition with the given index. The index is
	// validated by the caller.
	OpenPartition(index int) (PartitionState, error)

	// Restore resets all ramps in the site to the system settings.
	Restore() error

	// Close releases the site.
	Close() error
}

// PartitionState is the backend state of an open partition.
type PartitionState interface {
	// CRTCs is the number of CRTCs in the partition.
	CRTCs() int

	// OpenCRTC opens the CRTC with the given index. The index is validated by
	// the caller.
	OpenCRTC(index int) (CRTCState, error)

	// Restore resets all ramps in the partition to the system settings.
	Restore() error

	// Close releases the partition.
	Close() error
}

// CRTCState is the backend state of an open CRTC.
type CRTCState interface {
	// Depth is the native ramp depth. Ramps passed to GammaRamps and
	// SetGammaRamps always have this depth.
	Depth() ramp.Depth

	// Information fills the requested fields that the backend knows about,
	// setting the paired error of each field it fails to fill. Fields decoded
	// from the EDID are filled by the caller.
	Information(info *CRTCInformation, fields Field)

	// GammaRamps reads the current ramps into r.
	GammaRamps(r ramp.Ramps) error

	// SetGammaRamps applies r.
	SetGammaRamps(r ramp.Ramps) error

	// Restore resets the ramps of the CRTC to the system settings.
	Restore() error

	// Close releases the CRTC.
	Close() error
}

// drivers are written by Register from package init functions only.
var drivers = make(map[Method]Driver)

// Register makes a driver available for a method. Backends call it from
// their init function; registering a method twice panics.
func Register(m Method, d Driver) {
	if d == nil {
		panic("gamma: Register driver is nil")
	}
	if _, dup := drivers[m]; dup {
		panic(fmt.Sprintf("gamma: Register called twice for method %s", m))
	}
	drivers[m] = d
}

// Available reports whether a driver for the method is compiled in.
func Available(m Method) bool {
	_, ok := drivers[m]
	return ok
}

// Filters for ListMethods.
const (
	ListAvailable   = iota // every available method
	ListReal               // available, real and not fake
	ListDefaultSite        // available with a known default site
	ListAny                // every known method
)

// ListMethods lists methods in order of preference.
func ListMethods(filter int) []Method {
	var out []Method
	for _, m := range Methods {
		caps := MethodCapabilities(m)
		switch filter {
		case ListAny:
		case ListReal:
			if !Available(m) || !caps.Real || caps.Fake {
				continue
			}
		case ListDefaultSite:
			if !Available(m) || !caps.DefaultSiteKnown {
				continue
			}
		default:
			if !Available(m) {
				continue
			}
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return preference(out[i]) < preference(out[j])
	})
	return out
}

// preference ranks methods so the most capable real method comes first.
func preference(m Method) int {
	switch m {
	case RandR:
		return 0
	case DRM:
		return 1
	case VidMode:
		return 2
	case GDI:
		return 3
	case Quartz:
		return 4
	case FBDev:
		return 5
	default:
		return 6
	}
}
