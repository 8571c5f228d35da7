package edid

import "errors"

var (
	// ErrLengthUnsupported indicates an EDID block that is not 128 bytes long.
	ErrLengthUnsupported = errors.New("edid: unsupported EDID length")
	// ErrWrongMagicNumber indicates a block without the fixed EDID header.
	ErrWrongMagicNumber = errors.New("edid: wrong magic number")
	// ErrRevisionUnsupported indicates an EDID structure revision other than 1.3.
	ErrRevisionUnsupported = errors.New("edid: unsupported EDID revision")
	// ErrChecksum indicates the block bytes do not sum to zero.
	ErrChecksum = errors.New("edid: checksum mismatch")
	// ErrGammaNotSpecified indicates the monitor does not report its gamma.
	ErrGammaNotSpecified = errors.New("edid: gamma not specified")
	// ErrGammaNotSpecifiedAndChecksum is ErrGammaNotSpecified in a block that
	// also failed its checksum.
	ErrGammaNotSpecifiedAndChecksum = errors.New("edid: gamma not specified and checksum mismatch")
)
