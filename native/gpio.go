package native

import "github.com/wippyai/wasm-embedded/hal"

// GPIODrv is the GPIO function table. Value is 0 (low) or 1 (high).
type GPIODrv struct {
	Init   func(ctx Context, port, pin int32, output bool, handle *int32) Status
	Deinit func(ctx Context, handle int32) Status
	Set    func(ctx Context, handle int32, value uint32) Status
	Get    func(ctx Context, handle int32, value *uint32) Status
}

// GPIOTable returns a table dispatching to GPIO drivers in r.
func GPIOTable(r *Registry) GPIODrv {
	return GPIODrv{
		Init: func(ctx Context, port, pin int32, output bool, handle *int32) Status {
			return dispatch(r, hal.CapGPIO, ctx, "init", func(d hal.GPIO) error {
				if handle == nil {
					return errNilOut
				}
				h, err := d.Init(port, pin, output)
				if err != nil {
					return err
				}
				*handle = int32(h)
				return nil
			})
		},
		Deinit: func(ctx Context, handle int32) Status {
			return dispatch(r, hal.CapGPIO, ctx, "deinit", func(d hal.GPIO) error {
				return d.Deinit(hal.Handle(handle))
			})
		},
		Set: func(ctx Context, handle int32, value uint32) Status {
			return dispatch(r, hal.CapGPIO, ctx, "set", func(d hal.GPIO) error {
				if value > 1 {
					return hal.InvalidArg
				}
				return d.Set(hal.Handle(handle), hal.PinState(value))
			})
		},
		Get: func(ctx Context, handle int32, value *uint32) Status {
			return dispatch(r, hal.CapGPIO, ctx, "get", func(d hal.GPIO) error {
				if value == nil {
					return errNilOut
				}
				s, err := d.Get(hal.Handle(handle))
				if err != nil {
					return err
				}
				*value = uint32(s)
				return nil
			})
		},
	}
}

type tableGPIO struct {
	tbl GPIODrv
	ctx Context
}

// FromGPIOTable wraps a foreign table as a GPIO driver.
func FromGPIOTable(tbl GPIODrv, ctx Context) hal.GPIO {
	return &tableGPIO{tbl: tbl, ctx: ctx}
}

func (t *tableGPIO) Init(port, pin int32, output bool) (hal.Handle, error) {
	if t.tbl.Init == nil {
		return -1, hal.Unsupported
	}
	var h int32
	if err := statusErr(t.tbl.Init(t.ctx, port, pin, output, &h)); err != nil {
		return -1, err
	}
	return hal.Handle(h), nil
}

func (t *tableGPIO) Deinit(h hal.Handle) error {
	if t.tbl.Deinit == nil {
		return hal.Unsupported
	}
	return statusErr(t.tbl.Deinit(t.ctx, int32(h)))
}

func (t *tableGPIO) Set(h hal.Handle, state hal.PinState) error {
	if t.tbl.Set == nil {
		return hal.Unsupported
	}
	return statusErr(t.tbl.Set(t.ctx, int32(h), uint32(state)))
}

func (t *tableGPIO) Get(h hal.Handle) (hal.PinState, error) {
	if t.tbl.Get == nil {
		return hal.Low, hal.Unsupported
	}
	var v uint32
	if err := statusErr(t.tbl.Get(t.ctx, int32(h), &v)); err != nil {
		return hal.Low, err
	}
	if v > 1 {
		return hal.Low, hal.Unexpected
	}
	return hal.PinState(v), nil
}
