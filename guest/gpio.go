package guest

import (
	wasmembedded "github.com/wippyai/wasm-embedded"
	"github.com/wippyai/wasm-embedded/hal"
)

// GPIO mode and value encodings on the guest ABI.
const (
	ModeInput  int32 = 0
	ModeOutput int32 = 1
)

// GPIO marshals guest gpio calls onto a driver.
type GPIO struct {
	drv hal.GPIO
}

// NewGPIO wraps drv. A nil drv behaves like hal.NullGPIO.
func NewGPIO(drv hal.GPIO) *GPIO {
	if drv == nil {
		drv = hal.NullGPIO{}
	}
	return &GPIO{drv: drv}
}

// Init opens a pin and writes its handle to handleOut.
func (g *GPIO) Init(mem wasmembedded.Memory, port, pin, mode int32, handleOut uint32) Errno {
	c := newCall(mem)
	out := c.outParam(handleOut)
	if err := c.check(); err != nil {
		return status(hal.CapGPIO, "init", err)
	}

	var output bool
	switch mode {
	case ModeInput:
	case ModeOutput:
		output = true
	default:
		return status(hal.CapGPIO, "init", hal.InvalidArg)
	}

	h, err := g.drv.Init(port, pin, output)
	if err != nil {
		return status(hal.CapGPIO, "init", err)
	}
	putU32(out, uint32(h))
	c.commit()
	return status(hal.CapGPIO, "init", nil)
}

// Deinit releases a pin.
func (g *GPIO) Deinit(h int32) Errno {
	return status(hal.CapGPIO, "deinit", g.drv.Deinit(hal.Handle(h)))
}

// Set drives a pin low (0) or high (1).
func (g *GPIO) Set(h, value int32) Errno {
	var state hal.PinState
	switch value {
	case 0:
		state = hal.Low
	case 1:
		state = hal.High
	default:
		return status(hal.CapGPIO, "set", hal.InvalidArg)
	}
	return status(hal.CapGPIO, "set", g.drv.Set(hal.Handle(h), state))
}

// Get samples a pin and writes 0 or 1 to valueOut.
func (g *GPIO) Get(mem wasmembedded.Memory, h int32, valueOut uint32) Errno {
	c := newCall(mem)
	out := c.outParam(valueOut)
	if err := c.check(); err != nil {
		return status(hal.CapGPIO, "get", err)
	}
	state, err := g.drv.Get(hal.Handle(h))
	if err != nil {
		return status(hal.CapGPIO, "get", err)
	}
	putU32(out, uint32(state))
	c.commit()
	return status(hal.CapGPIO, "get", nil)
}
