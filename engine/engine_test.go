package engine

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/wippyai/wasm-embedded/hal"
	"github.com/wippyai/wasm-embedded/sim"
)

func TestEngine_Empty(t *testing.T) {
	e := New()

	if _, ok := e.GPIO(); ok {
		t.Error("GPIO() reported a driver on empty engine")
	}
	if _, ok := e.UART(); ok {
		t.Error("UART() reported a driver on empty engine")
	}
	if caps := e.Capabilities(); len(caps) != 0 {
		t.Errorf("Capabilities() = %v, want none", caps)
	}

	if _, err := e.GPIODriver().Init(0, 1, true); err != hal.Unsupported {
		t.Errorf("GPIODriver().Init = %v, want %v", err, hal.Unsupported)
	}
	if err := e.I2CDriver().Write(0, 0x50, []byte{1}); err != hal.Unsupported {
		t.Errorf("I2CDriver().Write = %v, want %v", err, hal.Unsupported)
	}
	if err := e.SPIDriver().Write(0, []byte{1}); err != hal.Unsupported {
		t.Errorf("SPIDriver().Write = %v, want %v", err, hal.Unsupported)
	}
	if err := e.UARTDriver().Write(0, 0, []byte{1}); err != hal.Unsupported {
		t.Errorf("UARTDriver().Write = %v, want %v", err, hal.Unsupported)
	}
}

func TestEngine_Partial(t *testing.T) {
	i2c := sim.NewI2C()
	e := New(WithI2C(i2c))

	got, ok := e.I2C()
	if !ok || got != i2c {
		t.Fatalf("I2C() = %v, %v, want wired sim driver", got, ok)
	}
	if e.I2CDriver() != i2c {
		t.Error("I2CDriver() did not return the wired driver")
	}
	if _, ok := e.SPI(); ok {
		t.Error("SPI() reported a driver that was never wired")
	}
	if _, ok := e.SPIDriver().(hal.NullSPI); !ok {
		t.Errorf("SPIDriver() = %T, want hal.NullSPI", e.SPIDriver())
	}

	if !reflect.DeepEqual(e.Capabilities(), []hal.Capability{hal.CapI2C}) {
		t.Errorf("Capabilities() = %v, want [i2c]", e.Capabilities())
	}
}

func TestEngine_SetAndUnwire(t *testing.T) {
	e := New(
		WithGPIO(sim.NewGPIO()),
		WithI2C(sim.NewI2C()),
		WithSPI(sim.NewSPI()),
		WithUART(sim.NewUART()),
	)
	if !reflect.DeepEqual(e.Capabilities(), hal.Capabilities) {
		t.Fatalf("Capabilities() = %v, want all", e.Capabilities())
	}

	e.SetSPI(nil)
	if e.Has(hal.CapSPI) {
		t.Error("Has(spi) after SetSPI(nil)")
	}
	if !e.Has(hal.CapUART) {
		t.Error("Has(uart) = false")
	}
	if e.Has(hal.Capability(0)) {
		t.Error("Has(0) = true")
	}
	want := []hal.Capability{hal.CapGPIO, hal.CapI2C, hal.CapUART}
	if !reflect.DeepEqual(e.Capabilities(), want) {
		t.Errorf("Capabilities() = %v, want %v", e.Capabilities(), want)
	}
}

func TestEngine_TypedNilUnwires(t *testing.T) {
	e := New(WithI2C((*sim.I2C)(nil)), WithGPIO(sim.NewGPIO()))
	if e.Has(hal.CapI2C) {
		t.Error("Has(i2c) = true for a nil *sim.I2C")
	}
	if _, ok := e.I2CDriver().(hal.NullI2C); !ok {
		t.Errorf("I2CDriver() = %T, want hal.NullI2C", e.I2CDriver())
	}
	e.SetGPIO((*sim.GPIO)(nil))
	if caps := e.Capabilities(); len(caps) != 0 {
		t.Errorf("Capabilities() = %v, want none", caps)
	}
}

// forwardI2C passes every call to the wrapped driver unchanged.
type forwardI2C struct{ d *sim.I2C }

func (f forwardI2C) Init(port, baud uint32, sda, scl int32) (hal.Handle, error) {
	return f.d.Init(port, baud, sda, scl)
}
func (f forwardI2C) Deinit(h hal.Handle) error { return f.d.Deinit(h) }
func (f forwardI2C) Write(h hal.Handle, addr uint16, data []byte) error {
	return f.d.Write(h, addr, data)
}
func (f forwardI2C) Read(h hal.Handle, addr uint16, buf []byte) error {
	return f.d.Read(h, addr, buf)
}
func (f forwardI2C) WriteRead(h hal.Handle, addr uint16, data, buf []byte) error {
	return f.d.WriteRead(h, addr, data, buf)
}

// i2cSession runs a fixed sequence through the engine and records every
// result, including failures.
func i2cSession(e *Engine) []string {
	d := e.I2CDriver()
	var trace []string
	rec := func(op string, v ...any) { trace = append(trace, op+fmt.Sprint(v...)) }

	h, err := d.Init(0, 100000, 4, 5)
	rec("init", h, err)
	_, err = d.Init(0, 0, 4, 5)
	rec("init baud 0", err)
	rec("write", d.Write(h, 0x50, []byte{1, 2, 3}))
	rec("write absent", d.Write(h, 0x51, []byte{1}))
	buf := make([]byte, 4)
	rec("read", d.Read(h, 0x50, buf), buf)
	rec("write_read", d.WriteRead(h, 0x50, []byte{9}, buf[:2]), buf)
	rec("deinit", d.Deinit(h))
	rec("read closed", d.Read(h, 0x50, buf))
	rec("deinit twice", d.Deinit(h))
	return trace
}

func TestEngine_ForwardingDriverIsTransparent(t *testing.T) {
	direct := sim.NewI2C(0x50)
	wrapped := sim.NewI2C(0x50)

	want := i2cSession(New(WithI2C(direct)))
	got := i2cSession(New(WithI2C(forwardI2C{wrapped})))

	if !reflect.DeepEqual(got, want) {
		t.Errorf("forwarded session = %v\nwant %v", got, want)
	}
	if direct.Open() != wrapped.Open() {
		t.Errorf("open handles = %d, want %d", wrapped.Open(), direct.Open())
	}
}
