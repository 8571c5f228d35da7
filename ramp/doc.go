// Package ramp implements gamma ramps of any supported element depth and the
// conversion between them.
//
// A set of ramps holds one lookup table per colour channel. The element type
// is one of uint8, uint16, uint32, uint64, float32 or float64, selected with
// the type parameter of [Of]. All depths convert through a common 64-bit
// canonical form: integer samples are widened by bit replication (the same
// trick [image/color] uses to widen 8-bit channels to 16 bits). Narrowing
// takes the top bits of the canonical value; 8-bit narrowing also folds in
// the next lower bit, rounding values at the half-way point up.
package ramp
