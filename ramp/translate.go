package ramp

import (
	"fmt"
	"math"
)

// Replication factors that widen an n-bit value to 64 bits by repeating its
// bit pattern, e.g. 0xAB becomes 0xABABABABABABABAB.
const (
	replicate8  = 0x0101010101010101
	replicate16 = 0x0001000100010001
	replicate32 = 0x0000000100000001
)

// Translate converts the ramps in src to the depth of dst and stores them in
// dst. Both sets are addressed as one contiguous run of red, green and blue
// stops, so only their total length has to agree. Ramps of the same depth
// are copied as they are.
func Translate(dst, src Ramps) error {
	if n, m := dst.Len(), src.Len(); n != m {
		return fmt.Errorf("%w: %d stops into %d", ErrSizeMismatch, m, n)
	}

	if dst.copyFrom(src) {
		return nil
	}

	n := dst.Len()
	if !dst.Depth().Integer() && !src.Depth().Integer() {
		// float32 and float64 convert without the canonical detour.
		for i := 0; i < n; i++ {
			dst.setFloat(i, src.float(i))
		}
		return nil
	}

	for i := 0; i < n; i++ {
		dst.setCanonical(i, src.canonical(i))
	}
	return nil
}

// Canonical returns stop i, counted over red, green and blue in that order,
// in the 64-bit canonical form.
func Canonical(r Ramps, i int) uint64 {
	return r.canonical(i)
}

// SetCanonical stores the canonical value v as stop i.
func SetCanonical(r Ramps, i int, v uint64) {
	r.setCanonical(i, v)
}

// Identity fills every channel with a linear ramp from 0 to the maximum value.
func Identity(r Ramps) {
	Fill(r, func(x float64) float64 { return x })
}

// Fill sets every stop of every channel to f(x), where x runs evenly from 0
// to 1 over the channel. Results are clamped to [0, 1] for integer depths.
func Fill(r Ramps, f func(x float64) float64) {
	FillChannels(r, f, f, f)
}

// FillChannels is like Fill with a separate function per channel.
func FillChannels(r Ramps, red, green, blue func(x float64) float64) {
	var (
		sizes  [3]int
		fns    = [3]func(float64) float64{red, green, blue}
		offset int
	)
	sizes[0], sizes[1], sizes[2] = r.Sizes()
	for c := range sizes {
		n := sizes[c]
		for i := 0; i < n; i++ {
			var x float64
			if n > 1 {
				x = float64(i) / float64(n-1)
			}
			r.setFloat(offset+i, fns[c](x))
		}
		offset += n
	}
}

func toCanonical[T Sample](v T) uint64 {
	switch v := any(v).(type) {
	case uint8:
		return uint64(v) * replicate8
	case uint16:
		return uint64(v) * replicate16
	case uint32:
		return uint64(v) * replicate32
	case uint64:
		return v
	case float32:
		return floatToCanonical(float64(v))
	case float64:
		return floatToCanonical(v)
	}
	return 0
}

func fromCanonical[T Sample](v uint64) T {
	var out T
	switch p := any(&out).(type) {
	case *uint8:
		*p = uint8(narrow(v, 8))
	case *uint16:
		*p = uint16(narrow(v, 16))
	case *uint32:
		*p = uint32(narrow(v, 32))
	case *uint64:
		*p = v
	case *float32:
		*p = float32(canonicalToFloat(v))
	case *float64:
		*p = canonicalToFloat(v)
	}
	return out
}

// narrow takes the top bits of the canonical value v. Widths of 16 and 32
// bits and above truncate. Narrower widths shift one bit less, keep the
// lowest bit as a rounding flag and OR it back in after the last shift, so
// values at or above the half-way point are biased up by one unit.
func narrow(v uint64, bits uint) uint64 {
	switch {
	case bits >= 64:
		return v
	case bits == 16, bits == 32:
		return v >> (64 - bits)
	}
	v >>= 64 - bits - 1
	return v>>1 | v&1
}

// floatToCanonical scales f from [0, 1] to the full uint64 range, truncating.
func floatToCanonical(f float64) uint64 {
	switch {
	case math.IsNaN(f), f <= 0:
		return 0
	case f >= 1:
		return math.MaxUint64
	}
	return uint64(f * math.MaxUint64)
}

func canonicalToFloat(v uint64) float64 {
	return float64(v) / math.MaxUint64
}
