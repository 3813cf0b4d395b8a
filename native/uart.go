package native

import "github.com/wippyai/wasm-embedded/hal"

// UARTDrv is the UART function table.
type UARTDrv struct {
	Init   func(ctx Context, port, baud uint32, tx, rx int32, handle *int32) Status
	Deinit func(ctx Context, handle int32) Status
	Write  func(ctx Context, handle int32, flags uint32, data []byte) Status
	Read   func(ctx Context, handle int32, flags uint32, buf []byte) Status
}

// UARTTable returns a table dispatching to UART drivers in r.
func UARTTable(r *Registry) UARTDrv {
	return UARTDrv{
		Init: func(ctx Context, port, baud uint32, tx, rx int32, handle *int32) Status {
			return dispatch(r, hal.CapUART, ctx, "init", func(d hal.UART) error {
				if handle == nil {
					return errNilOut
				}
				h, err := d.Init(port, baud, tx, rx)
				if err != nil {
					return err
				}
				*handle = int32(h)
				return nil
			})
		},
		Deinit: func(ctx Context, handle int32) Status {
			return dispatch(r, hal.CapUART, ctx, "deinit", func(d hal.UART) error {
				return d.Deinit(hal.Handle(handle))
			})
		},
		Write: func(ctx Context, handle int32, flags uint32, data []byte) Status {
			return dispatch(r, hal.CapUART, ctx, "write", func(d hal.UART) error {
				return d.Write(hal.Handle(handle), flags, data)
			})
		},
		Read: func(ctx Context, handle int32, flags uint32, buf []byte) Status {
			return dispatch(r, hal.CapUART, ctx, "read", func(d hal.UART) error {
				return d.Read(hal.Handle(handle), flags, buf)
			})
		},
	}
}

type tableUART struct {
	tbl UARTDrv
	ctx Context
}

// FromUARTTable wraps a foreign table as a UART driver.
func FromUARTTable(tbl UARTDrv, ctx Context) hal.UART {
	return &tableUART{tbl: tbl, ctx: ctx}
}

func (t *tableUART) Init(port, baud uint32, tx, rx int32) (hal.Handle, error) {
	if t.tbl.Init == nil {
		return -1, hal.Unsupported
	}
	var h int32
	if err := statusErr(t.tbl.Init(t.ctx, port, baud, tx, rx, &h)); err != nil {
		return -1, err
	}
	return hal.Handle(h), nil
}

func (t *tableUART) Deinit(h hal.Handle) error {
	if t.tbl.Deinit == nil {
		return hal.Unsupported
	}
	return statusErr(t.tbl.Deinit(t.ctx, int32(h)))
}

func (t *tableUART) Write(h hal.Handle, flags uint32, data []byte) error {
	if t.tbl.Write == nil {
		return hal.Unsupported
	}
	return statusErr(t.tbl.Write(t.ctx, int32(h), flags, data))
}

func (t *tableUART) Read(h hal.Handle, flags uint32, buf []byte) error {
	if t.tbl.Read == nil {
		return hal.Unsupported
	}
	return statusErr(t.tbl.Read(t.ctx, int32(h), flags, buf))
}
