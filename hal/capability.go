package hal

import "fmt"

// Handle identifies one open peripheral instance within the driver that
// issued it. Valid handles are non-negative.
type Handle int32

// PinState is the logic level of a GPIO pin.
type PinState uint8

const (
	Low PinState = iota
	High
)

func (s PinState) String() string {
	if s == High {
		return "high"
	}
	return "low"
}

// Capability names a peripheral class.
type Capability uint8

const (
	CapGPIO Capability = iota + 1
	CapI2C
	CapSPI
	CapUART
)

// Capabilities lists every capability in a stable order.
var Capabilities = []Capability{CapGPIO, CapI2C, CapSPI, CapUART}

func (c Capability) String() string {
	switch c {
	case CapGPIO:
		return "gpio"
	case CapI2C:
		return "i2c"
	case CapSPI:
		return "spi"
	case CapUART:
		return "uart"
	}
	return fmt.Sprintf("capability(%d)", uint8(c))
}

// ParseCapability returns the capability with the given lower-case name.
func ParseCapability(name string) (Capability, error) {
	for _, c := range Capabilities {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown capability %q", name)
}

// GPIO is the digital pin capability.
type GPIO interface {
	// Init opens a pin by port and pin number in input or output mode.
	Init(port, pin int32, output bool) (Handle, error)

	// Deinit releases a pin. Calling it twice is driver-defined.
	Deinit(h Handle) error

	// Set drives an output pin.
	Set(h Handle, state PinState) error

	// Get samples a pin.
	Get(h Handle) (PinState, error)
}

// I2C is the two-wire bus capability. Addresses are 7 or 10 bit device
// addresses carried in a uint16.
type I2C interface {
	Init(port, baud uint32, sda, scl int32) (Handle, error)
	Deinit(h Handle) error
	Write(h Handle, addr uint16, data []byte) error
	Read(h Handle, addr uint16, buf []byte) error

	// WriteRead writes data then reads into buf without releasing the bus.
	WriteRead(h Handle, addr uint16, data, buf []byte) error
}

// SPI is the full-duplex serial bus capability.
type SPI interface {
	Init(port, baud uint32, mosi, miso, sck, cs int32) (Handle, error)
	Deinit(h Handle) error
	Read(h Handle, buf []byte) error
	Write(h Handle, data []byte) error

	// Transfer clocks out write while filling read. The slices may differ in
	// length; the driver defines how the shorter one is padded.
	Transfer(h Handle, read, write []byte) error

	// TransferInPlace clocks out data and replaces it with the bytes read.
	TransferInPlace(h Handle, data []byte) error
}

// UART is the asynchronous serial capability. Flags are driver-defined.
type UART interface {
	Init(port, baud uint32, tx, rx int32) (Handle, error)
	Deinit(h Handle) error
	Write(h Handle, flags uint32, data []byte) error
	Read(h Handle, flags uint32, buf []byte) error
}
