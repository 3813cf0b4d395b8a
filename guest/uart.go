package guest

import (
	wasmembedded "github.com/wippyai/wasm-embedded"
	"github.com/wippyai/wasm-embedded/hal"
)

// UART marshals guest uart calls onto a driver.
type UART struct {
	drv hal.UART
}

// NewUART wraps drv. A nil drv behaves like hal.NullUART.
func NewUART(drv hal.UART) *UART {
	if drv == nil {
		drv = hal.NullUART{}
	}
	return &UART{drv: drv}
}

// Init opens a port and writes its handle to handleOut.
func (a *UART) Init(mem wasmembedded.Memory, port, baud uint32, tx, rx int32, handleOut uint32) Errno {
	c := newCall(mem)
	out := c.outParam(handleOut)
	if err := c.check(); err != nil {
		return status(hal.CapUART, "init", err)
	}
	h, err := a.drv.Init(port, baud, tx, rx)
	if err != nil {
		return status(hal.CapUART, "init", err)
	}
	putU32(out, uint32(h))
	c.commit()
	return status(hal.CapUART, "init", nil)
}

// Deinit releases a port.
func (a *UART) Deinit(h int32) Errno {
	return status(hal.CapUART, "deinit", a.drv.Deinit(hal.Handle(h)))
}

// Write sends the guest buffer.
func (a *UART) Write(mem wasmembedded.Memory, h int32, flags uint32, data Span) Errno {
	c := newCall(mem)
	buf := c.outbound(data)
	if err := c.check(); err != nil {
		return status(hal.CapUART, "write", err)
	}
	return status(hal.CapUART, "write", a.drv.Write(hal.Handle(h), flags, buf))
}

// Read fills the guest buffer with received bytes.
func (a *UART) Read(mem wasmembedded.Memory, h int32, flags uint32, dst Span) Errno {
	c := newCall(mem)
	buf := c.inbound(dst)
	if err := c.check(); err != nil {
		return status(hal.CapUART, "read", err)
	}
	if err := a.drv.Read(hal.Handle(h), flags, buf); err != nil {
		return status(hal.CapUART, "read", err)
	}
	c.commit()
	return status(hal.CapUART, "read", nil)
}
