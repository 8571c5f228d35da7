package ramp

import (
	"errors"
	"fmt"
	"math"
)

// Errors
var (
	ErrInvalidDepth = errors.New("ramp: invalid depth")
	ErrNegativeSize = errors.New("ramp: negative ramp size")
	ErrSizeMismatch = errors.New("ramp: ramp sizes do not match")
)

// Depth is the encoding of the ramp elements: the number of bits for unsigned
// integer ramps, or one of Float and Double.
type Depth int8

// Supported depths.
const (
	Double  Depth = -2 // float64 elements
	Float   Depth = -1 // float32 elements
	Depth8  Depth = 8
	Depth16 Depth = 16
	Depth32 Depth = 32
	Depth64 Depth = 64
)

// Depths lists all supported depths.
var Depths = []Depth{Depth8, Depth16, Depth32, Depth64, Float, Double}

// Valid reports if d is one of the supported depths.
func (d Depth) Valid() bool {
	switch d {
	case Depth8, Depth16, Depth32, Depth64, Float, Double:
		return true
	default:
		return false
	}
}

// Integer reports if the elements are unsigned integers.
func (d Depth) Integer() bool {
	return d > 0
}

func (d Depth) String() string {
	switch d {
	case Float:
		return "float"
	case Double:
		return "double"
	default:
		return fmt.Sprintf("%d-bit", int(d))
	}
}

// Sample is the set of element types a ramp may have.
type Sample interface {
	uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// Ramps is a set of red, green and blue gamma ramps of any depth. The
// concrete type is always one of the [Of] instantiations.
type Ramps interface {
	// Depth of the ramp elements.
	Depth() Depth

	// Sizes returns the number of stops in each channel.
	Sizes() (red, green, blue int)

	// Len is the total number of stops in all channels.
	Len() int

	canonical(i int) uint64
	setCanonical(i int, v uint64)
	float(i int) float64
	setFloat(i int, v float64)
	copyFrom(src Ramps) bool
}

// Of holds gamma ramps with elements of type T.
type Of[T Sample] struct {
	Red   []T
	Green []T
	Blue  []T
}

// Aliases for each supported depth.
type (
	Ramps8      = Of[uint8]
	Ramps16     = Of[uint16]
	Ramps32     = Of[uint32]
	Ramps64     = Of[uint64]
	RampsFloat  = Of[float32]
	RampsDouble = Of[float64]
)

// NewOf allocates ramps with the given channel sizes.
func NewOf[T Sample](red, green, blue int) *Of[T] {
	return &Of[T]{
		Red:   make([]T, red),
		Green: make([]T, green),
		Blue:  make([]T, blue),
	}
}

// New allocates ramps of the given depth and channel sizes.
func New(depth Depth, red, green, blue int) (Ramps, error) {
	if red < 0 || green < 0 || blue < 0 {
		return nil, ErrNegativeSize
	}
	switch depth {
	case Depth8:
		return NewOf[uint8](red, green, blue), nil
	case Depth16:
		return NewOf[uint16](red, green, blue), nil
	case Depth32:
		return NewOf[uint32](red, green, blue), nil
	case Depth64:
		return NewOf[uint64](red, green, blue), nil
	case Float:
		return NewOf[float32](red, green, blue), nil
	case Double:
		return NewOf[float64](red, green, blue), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidDepth, int(depth))
	}
}

// Clone returns a deep copy of r.
func Clone(r Ramps) Ramps {
	red, green, blue := r.Sizes()
	c, _ := New(r.Depth(), red, green, blue)
	_ = Translate(c, r)
	return c
}

func (r *Of[T]) Depth() Depth {
	return depthOf[T]()
}

func (r *Of[T]) Sizes() (red, green, blue int) {
	return len(r.Red), len(r.Green), len(r.Blue)
}

func (r *Of[T]) Len() int {
	return len(r.Red) + len(r.Green) + len(r.Blue)
}

func (r *Of[T]) String() string {
	return fmt.Sprintf("%s ramps %d/%d/%d", r.Depth(), len(r.Red), len(r.Green), len(r.Blue))
}

// at addresses the channels as one contiguous run: red, then green, then blue.
func (r *Of[T]) at(i int) *T {
	if i < len(r.Red) {
		return &r.Red[i]
	}
	i -= len(r.Red)
	if i < len(r.Green) {
		return &r.Green[i]
	}
	return &r.Blue[i-len(r.Green)]
}

func (r *Of[T]) canonical(i int) uint64 {
	return toCanonical(*r.at(i))
}

func (r *Of[T]) setCanonical(i int, v uint64) {
	*r.at(i) = fromCanonical[T](v)
}

// copyFrom copies src if it has the same element type.
func (r *Of[T]) copyFrom(src Ramps) bool {
	s, ok := src.(*Of[T])
	if !ok {
		return false
	}
	for i, n := 0, r.Len(); i < n; i++ {
		*r.at(i) = *s.at(i)
	}
	return true
}

func (r *Of[T]) float(i int) float64 {
	switch v := any(*r.at(i)).(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	default:
		return canonicalToFloat(r.canonical(i))
	}
}

func (r *Of[T]) setFloat(i int, v float64) {
	p := r.at(i)
	switch q := any(p).(type) {
	case *float32:
		*q = float32(v)
	case *float64:
		*q = v
	default:
		*p = level[T](v)
	}
}

// level scales v from [0, 1] to the nearest level of the integer type T.
func level[T Sample](v float64) T {
	bits := uint(depthOf[T]())
	switch {
	case bits == 64:
		return T(floatToCanonical(v))
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 1:
		return T(uint64(math.MaxUint64) >> (64 - bits))
	}
	return T(math.Round(v * float64(uint64(1)<<bits-1)))
}

func depthOf[T Sample]() Depth {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return Depth8
	case uint16:
		return Depth16
	case uint32:
		return Depth32
	case uint64:
		return Depth64
	case float32:
		return Float
	default:
		return Double
	}
}
