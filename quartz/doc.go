// Package quartz implements the macOS CoreGraphics adjustment method.
//
// There is a single site with a single partition, whose CRTCs are the online
// displays. Ramps are single precision floating point. Adjustments are undone
// by the system when the process exits. The package registers itself for
// [gamma.Quartz] on macOS with cgo and is empty elsewhere.
package quartz
