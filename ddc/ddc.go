// Package ddc reads the EDID of a monitor directly over its DDC channel.
//
// DDC is an I²C bus carried by the display cable; the monitor's EDID EEPROM
// answers at address 0x50. This is useful when an adjustment method cannot
// report the EDID itself.
package ddc

import (
	"fmt"
	"strconv"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/gamma/edid"
)

// Addr is the I²C address of the EDID EEPROM.
const Addr = 0x50

// extensionCount is the offset of the number of extension blocks.
const extensionCount = 126

// Config describes the DDC bus.
type Config struct {
	// Device is the I²C bus number, use -1 to use the first available bus.
	Device int

	// Addr is the I²C address of the EEPROM.
	Addr uint16

	// Extensions enables reading the first extension block.
	Extensions bool
}

// DefaultConfig are the default configuration values.
var DefaultConfig = Config{
	Device: -1,
	Addr:   Addr,
}

// Bus is an open DDC channel.
type Bus struct {
	bus        i2c.BusCloser
	dev        conn.Conn
	extensions bool
}

// Open the DDC bus. A nil config selects DefaultConfig.
func Open(config *Config) (*Bus, error) {
	c := DefaultConfig
	if config != nil {
		c = *config
	}

	if _, err := host.Init(); err != nil {
		return nil, err
	}

	var (
		bus i2c.BusCloser
		err error
	)
	if c.Device < 0 {
		bus, err = i2creg.Open("")
	} else {
		bus, err = i2creg.Open(strconv.Itoa(c.Device))
	}
	if err != nil {
		return nil, err
	}
	return New(bus, &c), nil
}

// New uses an already opened bus.
func New(bus i2c.BusCloser, config *Config) *Bus {
	addr, extensions := uint16(Addr), false
	if config != nil {
		extensions = config.Extensions
		if config.Addr != 0 {
			addr = config.Addr
		}
	}
	return &Bus{
		bus:        bus,
		dev:        &i2c.Dev{Bus: bus, Addr: addr},
		extensions: extensions,
	}
}

func (b *Bus) String() string {
	return fmt.Sprintf("DDC on I²C bus %s", b.bus)
}

// Close the bus.
func (b *Bus) Close() error {
	return b.bus.Close()
}

// ReadEDID reads the base EDID block, and the first extension block if
// enabled and present.
func (b *Bus) ReadEDID() ([]byte, error) {
	data, err := b.readBlock(0)
	if err != nil {
		return nil, err
	}
	if b.extensions && data[extensionCount] > 0 {
		ext, err := b.readBlock(edid.Length)
		if err != nil {
			return nil, err
		}
		data = append(data, ext...)
	}
	return data, nil
}

func (b *Bus) readBlock(offset byte) ([]byte, error) {
	block := make([]byte, edid.Length)
	if err := b.dev.Tx([]byte{offset}, block); err != nil {
		return nil, fmt.Errorf("ddc: read EDID at offset %d: %w", offset, err)
	}
	return block, nil
}
