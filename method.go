package gamma

import (
	"fmt"
	"os"
	"strings"
)

// Method identifies a gamma adjustment method (backend).
type Method int

// Adjustment methods.
const (
	Dummy   Method = iota // In-memory emulation, for testing
	RandR                 // X RandR
	VidMode               // X XF86VidMode
	DRM                   // Linux Direct Rendering Manager
	GDI                   // Windows GDI
	Quartz                // macOS CoreGraphics
	FBDev                 // Linux framebuffer colour maps
)

// Methods lists all known adjustment methods, available or not.
var Methods = []Method{Dummy, RandR, VidMode, DRM, GDI, Quartz, FBDev}

var methodNames = map[Method][]string{
	Dummy:   {"dummy"},
	RandR:   {"randr", "xrandr", "x-randr"},
	VidMode: {"vidmode", "xvidmode", "x-vidmode", "xf86vidmode"},
	DRM:     {"drm", "linux", "linux-drm", "kms"},
	GDI:     {"gdi", "w32gdi", "windows"},
	Quartz:  {"quartz", "coregraphics", "cg", "macos"},
	FBDev:   {"fbdev", "framebuffer", "fb"},
}

func (m Method) String() string {
	if names, ok := methodNames[m]; ok {
		return names[0]
	}
	return fmt.Sprintf("method(%d)", int(m))
}

// ParseMethod resolves a method by name or alias, ignoring case.
func ParseMethod(name string) (Method, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, m := range Methods {
		for _, alias := range methodNames[m] {
			if alias == name {
				return m, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrNoSuchAdjustmentMethod, name)
}

// DefaultSiteVariable is the environment variable that names the default
// site of the method, or the empty string if the method has none.
func DefaultSiteVariable(m Method) string {
	switch m {
	case RandR, VidMode:
		return "DISPLAY"
	default:
		return ""
	}
}

// DefaultSite returns the default site of the method from its environment
// variable. It returns false if the method has no such variable or if it is
// unset or empty.
func DefaultSite(m Method) (string, bool) {
	name := DefaultSiteVariable(m)
	if name == "" {
		return "", false
	}
	site := os.Getenv(name)
	return site, site != ""
}
