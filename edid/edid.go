// Package edid decodes Extended Display Identification Data blocks.
//
// Only the 128-byte base block of EDID structure version 1 is supported. The
// decoder extracts the identification and the physical display parameters
// that matter for gamma adjustment: the viewport size and the display
// transfer characteristic (gamma).
package edid

import (
	"bytes"
	"fmt"
)

// Length is the only supported EDID block length.
const Length = 128

// Magic is the fixed header every EDID block starts with.
var Magic = [8]byte{0x00, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00}

// Byte offsets in the base block.
const (
	offsetManufacturer = 0x08
	offsetProduct      = 0x0a
	offsetSerial       = 0x0c
	offsetWeek         = 0x10
	offsetYear         = 0x11
	offsetVersion      = 0x12
	offsetRevision     = 0x13
	offsetWidth        = 0x15
	offsetHeight       = 0x16
	offsetGamma        = 0x17
)

// gammaUnspecified in the gamma byte means the monitor does not report it.
const gammaUnspecified = 0xff

// Info is the decoded content of an EDID block.
//
// A field that could not be decoded has its paired error set. A failed
// checksum does not clear the decoded values, it only sets the errors.
type Info struct {
	// Manufacturer is the three letter PNP vendor id.
	Manufacturer string

	// ProductCode is the vendor assigned product code.
	ProductCode uint16

	// Serial is the serial number, zero if not used.
	Serial uint32

	// Week and Year of manufacture; Week is zero if unknown.
	Week, Year int

	// Version and Revision of the EDID structure.
	Version, Revision int

	// Err is ErrChecksum if the block failed its checksum.
	Err error

	// WidthMM and HeightMM are the physical viewport size in millimetres.
	// EDID stores centimetres, zero means undefined (e.g. projectors).
	WidthMM, HeightMM int

	// ViewportErr is the error for WidthMM and HeightMM.
	ViewportErr error

	// Gamma is the display transfer characteristic. EDID carries a single
	// value for all three channels.
	Gamma float64

	// GammaErr is ErrGammaNotSpecified, ErrChecksum or
	// ErrGammaNotSpecifiedAndChecksum.
	GammaErr error
}

// Parse decodes an EDID block.
//
// Blocks of the wrong length or without the EDID header return a nil Info.
// Structure revisions other than 1.3 are decoded on a best effort basis:
// the Info is returned together with ErrRevisionUnsupported.
func Parse(data []byte) (*Info, error) {
	if len(data) != Length {
		return nil, fmt.Errorf("%w: %d bytes", ErrLengthUnsupported, len(data))
	}
	if !bytes.Equal(data[:len(Magic)], Magic[:]) {
		return nil, ErrWrongMagicNumber
	}

	info := &Info{
		Manufacturer: manufacturer(data[offsetManufacturer], data[offsetManufacturer+1]),
		ProductCode:  uint16(data[offsetProduct]) | uint16(data[offsetProduct+1])<<8,
		Serial: uint32(data[offsetSerial]) |
			uint32(data[offsetSerial+1])<<8 |
			uint32(data[offsetSerial+2])<<16 |
			uint32(data[offsetSerial+3])<<24,
		Week:     int(data[offsetWeek]),
		Year:     int(data[offsetYear]) + 1990,
		Version:  int(data[offsetVersion]),
		Revision: int(data[offsetRevision]),
		WidthMM:  int(data[offsetWidth]) * 10,
		HeightMM: int(data[offsetHeight]) * 10,
	}

	if g := data[offsetGamma]; g == gammaUnspecified {
		info.GammaErr = ErrGammaNotSpecified
	} else {
		info.Gamma = (float64(g) + 100) / 100
	}

	if Checksum(data) != 0 {
		info.Err = ErrChecksum
		info.ViewportErr = ErrChecksum
		if info.GammaErr == ErrGammaNotSpecified {
			info.GammaErr = ErrGammaNotSpecifiedAndChecksum
		} else {
			info.GammaErr = ErrChecksum
		}
	}

	if info.Version != 1 || info.Revision != 3 {
		return info, fmt.Errorf("%w: %d.%d", ErrRevisionUnsupported, info.Version, info.Revision)
	}
	return info, nil
}

// Checksum returns the sum of the first Length bytes modulo 256; a valid
// block sums to zero.
func Checksum(data []byte) byte {
	var sum byte
	for i, b := range data {
		if i == Length {
			break
		}
		sum += b
	}
	return sum
}

// manufacturer decodes the big endian packed 5-bit letters of a PNP id.
func manufacturer(hi, lo byte) string {
	v := uint16(hi)<<8 | uint16(lo)
	id := []byte{
		byte(v>>10&0x1f) + 'A' - 1,
		byte(v>>5&0x1f) + 'A' - 1,
		byte(v&0x1f) + 'A' - 1,
	}
	for _, c := range id {
		if c < 'A' || c > 'Z' {
			return ""
		}
	}
	return string(id)
}
