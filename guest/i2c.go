package guest

import (
	wasmembedded "github.com/wippyai/wasm-embedded"
	"github.com/wippyai/wasm-embedded/hal"
)

// I2C marshals guest i2c calls onto a driver.
type I2C struct {
	drv hal.I2C
}

// NewI2C wraps drv. A nil drv behaves like hal.NullI2C.
func NewI2C(drv hal.I2C) *I2C {
	if drv == nil {
		drv = hal.NullI2C{}
	}
	return &I2C{drv: drv}
}

// Init opens a bus and writes its handle to handleOut.
func (a *I2C) Init(mem wasmembedded.Memory, port, baud uint32, sda, scl int32, handleOut uint32) Errno {
	c := newCall(mem)
	out := c.outParam(handleOut)
	if err := c.check(); err != nil {
		return status(hal.CapI2C, "init", err)
	}
	h, err := a.drv.Init(port, baud, sda, scl)
	if err != nil {
		return status(hal.CapI2C, "init", err)
	}
	putU32(out, uint32(h))
	c.commit()
	return status(hal.CapI2C, "init", nil)
}

// Deinit releases a bus.
func (a *I2C) Deinit(h int32) Errno {
	return status(hal.CapI2C, "deinit", a.drv.Deinit(hal.Handle(h)))
}

// Write sends data to the device at addr.
func (a *I2C) Write(mem wasmembedded.Memory, h int32, addr uint32, data Span) Errno {
	c := newCall(mem)
	buf := c.outbound(data)
	if err := c.check(); err != nil {
		return status(hal.CapI2C, "write", err)
	}
	addr16, err := address(addr)
	if err != nil {
		return status(hal.CapI2C, "write", err)
	}
	return status(hal.CapI2C, "write", a.drv.Write(hal.Handle(h), addr16, buf))
}

// Read fills the guest buffer from the device at addr.
func (a *I2C) Read(mem wasmembedded.Memory, h int32, addr uint32, dst Span) Errno {
	c := newCall(mem)
	buf := c.inbound(dst)
	if err := c.check(); err != nil {
		return status(hal.CapI2C, "read", err)
	}
	addr16, err := address(addr)
	if err != nil {
		return status(hal.CapI2C, "read", err)
	}
	if err := a.drv.Read(hal.Handle(h), addr16, buf); err != nil {
		return status(hal.CapI2C, "read", err)
	}
	c.commit()
	return status(hal.CapI2C, "read", nil)
}

// WriteRead writes data then reads into dst in one bus transaction.
func (a *I2C) WriteRead(mem wasmembedded.Memory, h int32, addr uint32, data, dst Span) Errno {
	c := newCall(mem)
	wbuf := c.outbound(data)
	rbuf := c.inbound(dst)
	if err := c.check(); err != nil {
		return status(hal.CapI2C, "write_read", err)
	}
	addr16, err := address(addr)
	if err != nil {
		return status(hal.CapI2C, "write_read", err)
	}
	if err := a.drv.WriteRead(hal.Handle(h), addr16, wbuf, rbuf); err != nil {
		return status(hal.CapI2C, "write_read", err)
	}
	c.commit()
	return status(hal.CapI2C, "write_read", nil)
}

// address narrows a guest i32 to a bus address. Values that do not fit in
// 16 bits are InvalidArg.
func address(addr uint32) (uint16, error) {
	if addr > 0xFFFF {
		return 0, hal.InvalidArg
	}
	return uint16(addr), nil
}
