// Package framebuffer implements the Linux framebuffer (fbdev) adjustment
// method.
//
// The method has a single site. Every /dev/fbN device is a partition with
// one CRTC, whose ramps are the colour map of the framebuffer. Only
// DirectColor framebuffers pass pixels through the colour map; on other
// visuals the gamma support is reported as no or maybe. The colour map found
// when a device is opened is put back on restore.
//
// The package registers itself for [gamma.FBDev] on Linux and is empty on
// other platforms.
package framebuffer
