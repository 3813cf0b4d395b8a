package guest

import (
	wasmembedded "github.com/wippyai/wasm-embedded"
	"github.com/wippyai/wasm-embedded/hal"
)

// SPI marshals guest spi calls onto a driver.
type SPI struct {
	drv hal.SPI
}

// NewSPI wraps drv. A nil drv behaves like hal.NullSPI.
func NewSPI(drv hal.SPI) *SPI {
	if drv == nil {
		drv = hal.NullSPI{}
	}
	return &SPI{drv: drv}
}

// Init opens a bus and writes its handle to handleOut.
func (a *SPI) Init(mem wasmembedded.Memory, port, baud uint32, mosi, miso, sck, cs int32, handleOut uint32) Errno {
	c := newCall(mem)
	out := c.outParam(handleOut)
	if err := c.check(); err != nil {
		return status(hal.CapSPI, "init", err)
	}
	h, err := a.drv.Init(port, baud, mosi, miso, sck, cs)
	if err != nil {
		return status(hal.CapSPI, "init", err)
	}
	putU32(out, uint32(h))
	c.commit()
	return status(hal.CapSPI, "init", nil)
}

// Deinit releases a bus.
func (a *SPI) Deinit(h int32) Errno {
	return status(hal.CapSPI, "deinit", a.drv.Deinit(hal.Handle(h)))
}

// Read fills the guest buffer from the bus.
func (a *SPI) Read(mem wasmembedded.Memory, h int32, dst Span) Errno {
	c := newCall(mem)
	buf := c.inbound(dst)
	if err := c.check(); err != nil {
		return status(hal.CapSPI, "read", err)
	}
	if err := a.drv.Read(hal.Handle(h), buf); err != nil {
		return status(hal.CapSPI, "read", err)
	}
	c.commit()
	return status(hal.CapSPI, "read", nil)
}

// Write clocks the guest buffer out on the bus.
func (a *SPI) Write(mem wasmembedded.Memory, h int32, data Span) Errno {
	c := newCall(mem)
	buf := c.outbound(data)
	if err := c.check(); err != nil {
		return status(hal.CapSPI, "write", err)
	}
	return status(hal.CapSPI, "write", a.drv.Write(hal.Handle(h), buf))
}

// Transfer clocks out data while filling dst.
func (a *SPI) Transfer(mem wasmembedded.Memory, h int32, dst, data Span) Errno {
	c := newCall(mem)
	rbuf := c.inbound(dst)
	wbuf := c.outbound(data)
	if err := c.check(); err != nil {
		return status(hal.CapSPI, "transfer", err)
	}
	if err := a.drv.Transfer(hal.Handle(h), rbuf, wbuf); err != nil {
		return status(hal.CapSPI, "transfer", err)
	}
	c.commit()
	return status(hal.CapSPI, "transfer", nil)
}

// TransferInPlace clocks out the guest buffer and replaces it with the bytes
// read.
func (a *SPI) TransferInPlace(mem wasmembedded.Memory, h int32, data Span) Errno {
	c := newCall(mem)
	buf := c.inbound(data)
	if err := c.check(); err != nil {
		return status(hal.CapSPI, "transfer_inplace", err)
	}
	if err := a.drv.TransferInPlace(hal.Handle(h), buf); err != nil {
		return status(hal.CapSPI, "transfer_inplace", err)
	}
	c.commit()
	return status(hal.CapSPI, "transfer_inplace", nil)
}
