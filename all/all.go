// Package all registers every adjustment method that can be built for the
// target platform.
//
//	import _ "github.com/BeatGlow/gamma/all"
package all

import (
	// Adjustment methods.
	_ "github.com/BeatGlow/gamma/drm"
	_ "github.com/BeatGlow/gamma/dummy"
	_ "github.com/BeatGlow/gamma/framebuffer"
	_ "github.com/BeatGlow/gamma/gdi"
	_ "github.com/BeatGlow/gamma/quartz"
	_ "github.com/BeatGlow/gamma/randr"
	_ "github.com/BeatGlow/gamma/vidmode"
)
