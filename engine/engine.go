package engine

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-embedded/hal"
)

// Engine holds the driver of each capability. The zero value has nothing
// wired.
type Engine struct {
	gpio hal.GPIO
	i2c  hal.I2C
	spi  hal.SPI
	uart hal.UART
}

// Option configures an Engine.
type Option func(*Engine)

// WithGPIO wires the GPIO driver.
func WithGPIO(d hal.GPIO) Option { return func(e *Engine) { e.SetGPIO(d) } }

// WithI2C wires the I2C driver.
func WithI2C(d hal.I2C) Option { return func(e *Engine) { e.SetI2C(d) } }

// WithSPI wires the SPI driver.
func WithSPI(d hal.SPI) Option { return func(e *Engine) { e.SetSPI(d) } }

// WithUART wires the UART driver.
func WithUART(d hal.UART) Option { return func(e *Engine) { e.SetUART(d) } }

// New returns an Engine with the given drivers wired.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetGPIO replaces the GPIO driver. A nil driver, including a typed nil
// pointer, unwires the capability.
func (e *Engine) SetGPIO(d hal.GPIO) {
	if isNil(d) {
		d = nil
	}
	e.gpio = d
	wired(hal.CapGPIO, d != nil)
}

// SetI2C replaces the I2C driver. A nil driver, including a typed nil
// pointer, unwires the capability.
func (e *Engine) SetI2C(d hal.I2C) {
	if isNil(d) {
		d = nil
	}
	e.i2c = d
	wired(hal.CapI2C, d != nil)
}

// SetSPI replaces the SPI driver. A nil driver, including a typed nil
// pointer, unwires the capability.
func (e *Engine) SetSPI(d hal.SPI) {
	if isNil(d) {
		d = nil
	}
	e.spi = d
	wired(hal.CapSPI, d != nil)
}

// SetUART replaces the UART driver. A nil driver, including a typed nil
// pointer, unwires the capability.
func (e *Engine) SetUART(d hal.UART) {
	if isNil(d) {
		d = nil
	}
	e.uart = d
	wired(hal.CapUART, d != nil)
}

// isNil also catches interfaces holding a nil pointer, which would pass a
// plain nil check and panic on the first call.
func isNil(d any) bool {
	if d == nil {
		return true
	}
	switch v := reflect.ValueOf(d); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func wired(c hal.Capability, ok bool) {
	Logger().Debug("driver wired", zap.Stringer("capability", c), zap.Bool("present", ok))
}

// GPIO returns the wired GPIO driver, if any.
func (e *Engine) GPIO() (hal.GPIO, bool) { return e.gpio, e.gpio != nil }

// I2C returns the wired I2C driver, if any.
func (e *Engine) I2C() (hal.I2C, bool) { return e.i2c, e.i2c != nil }

// SPI returns the wired SPI driver, if any.
func (e *Engine) SPI() (hal.SPI, bool) { return e.spi, e.spi != nil }

// UART returns the wired UART driver, if any.
func (e *Engine) UART() (hal.UART, bool) { return e.uart, e.uart != nil }

// GPIODriver returns the GPIO driver, or hal.NullGPIO when unwired.
func (e *Engine) GPIODriver() hal.GPIO {
	if e.gpio == nil {
		return hal.NullGPIO{}
	}
	return e.gpio
}

// I2CDriver returns the I2C driver, or hal.NullI2C when unwired.
func (e *Engine) I2CDriver() hal.I2C {
	if e.i2c == nil {
		return hal.NullI2C{}
	}
	return e.i2c
}

// SPIDriver returns the SPI driver, or hal.NullSPI when unwired.
func (e *Engine) SPIDriver() hal.SPI {
	if e.spi == nil {
		return hal.NullSPI{}
	}
	return e.spi
}

// UARTDriver returns the UART driver, or hal.NullUART when unwired.
func (e *Engine) UARTDriver() hal.UART {
	if e.uart == nil {
		return hal.NullUART{}
	}
	return e.uart
}

// Capabilities lists the wired capabilities in hal.Capabilities order.
func (e *Engine) Capabilities() []hal.Capability {
	var caps []hal.Capability
	if e.gpio != nil {
		caps = append(caps, hal.CapGPIO)
	}
	if e.i2c != nil {
		caps = append(caps, hal.CapI2C)
	}
	if e.spi != nil {
		caps = append(caps, hal.CapSPI)
	}
	if e.uart != nil {
		caps = append(caps, hal.CapUART)
	}
	return caps
}

// Has reports whether c is wired.
func (e *Engine) Has(c hal.Capability) bool {
	switch c {
	case hal.CapGPIO:
		return e.gpio != nil
	case hal.CapI2C:
		return e.i2c != nil
	case hal.CapSPI:
		return e.spi != nil
	case hal.CapUART:
		return e.uart != nil
	}
	return false
}
