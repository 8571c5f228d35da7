// Package gamma reads and writes the gamma ramps of display outputs through
// one API, independent of the display subsystem that is present.
//
// Outputs are organised in three levels. A [Site] is a connection to a
// display server or the local hardware root, a [Partition] is a subdivision of
// a site (an X screen or a graphics card) and a [CRTC] owns a gamma ramp and
// drives a monitor. Each level is opened from its parent and must be closed
// before its parent is closed.
//
// The adjustment methods (backends) live in their own packages and register
// themselves on import. Import package all to get every backend that can be
// built for the target platform:
//
//	import _ "github.com/BeatGlow/gamma/all"
//
// Setting GAMMA_DEBUG in the environment enables additional consistency
// checks, such as validating ramp sizes before they are applied.
package gamma

import "os"

var debug bool

func init() {
	debug = os.Getenv("GAMMA_DEBUG") != ""
}
