// Package gdi implements the Windows GDI adjustment method.
//
// There is a single site with a single partition. Every display device that
// is attached to the desktop is a CRTC with a 256 stop, 16-bit ramp. The
// package registers itself for [gamma.GDI] on Windows and is empty on other
// platforms.
package gdi
