package native

import "github.com/wippyai/wasm-embedded/hal"

// I2CDrv is the I2C function table.
type I2CDrv struct {
	Init      func(ctx Context, port, baud uint32, sda, scl int32, handle *int32) Status
	Deinit    func(ctx Context, handle int32) Status
	Write     func(ctx Context, handle int32, addr uint16, data []byte) Status
	Read      func(ctx Context, handle int32, addr uint16, buf []byte) Status
	WriteRead func(ctx Context, handle int32, addr uint16, data, buf []byte) Status
}

// I2CTable returns a table dispatching to I2C drivers in r.
func I2CTable(r *Registry) I2CDrv {
	return I2CDrv{
		Init: func(ctx Context, port, baud uint32, sda, scl int32, handle *int32) Status {
			return dispatch(r, hal.CapI2C, ctx, "init", func(d hal.I2C) error {
				if handle == nil {
					return errNilOut
				}
				h, err := d.Init(port, baud, sda, scl)
				if err != nil {
					return err
				}
				*handle = int32(h)
				return nil
			})
		},
		Deinit: func(ctx Context, handle int32) Status {
			return dispatch(r, hal.CapI2C, ctx, "deinit", func(d hal.I2C) error {
				return d.Deinit(hal.Handle(handle))
			})
		},
		Write: func(ctx Context, handle int32, addr uint16, data []byte) Status {
			return dispatch(r, hal.CapI2C, ctx, "write", func(d hal.I2C) error {
				return d.Write(hal.Handle(handle), addr, data)
			})
		},
		Read: func(ctx Context, handle int32, addr uint16, buf []byte) Status {
			return dispatch(r, hal.CapI2C, ctx, "read", func(d hal.I2C) error {
				return d.Read(hal.Handle(handle), addr, buf)
			})
		},
		WriteRead: func(ctx Context, handle int32, addr uint16, data, buf []byte) Status {
			return dispatch(r, hal.CapI2C, ctx, "write_read", func(d hal.I2C) error {
				return d.WriteRead(hal.Handle(handle), addr, data, buf)
			})
		},
	}
}

type tableI2C struct {
	tbl I2CDrv
	ctx Context
}

// FromI2CTable wraps a foreign table as an I2C driver.
func FromI2CTable(tbl I2CDrv, ctx Context) hal.I2C {
	return &tableI2C{tbl: tbl, ctx: ctx}
}

func (t *tableI2C) Init(port, baud uint32, sda, scl int32) (hal.Handle, error) {
	if t.tbl.Init == nil {
		return -1, hal.Unsupported
	}
	var h int32
	if err := statusErr(t.tbl.Init(t.ctx, port, baud, sda, scl, &h)); err != nil {
		return -1, err
	}
	return hal.Handle(h), nil
}

func (t *tableI2C) Deinit(h hal.Handle) error {
	if t.tbl.Deinit == nil {
		return hal.Unsupported
	}
	return statusErr(t.tbl.Deinit(t.ctx, int32(h)))
}

func (t *tableI2C) Write(h hal.Handle, addr uint16, data []byte) error {
	if t.tbl.Write == nil {
		return hal.Unsupported
	}
	return statusErr(t.tbl.Write(t.ctx, int32(h), addr, data))
}

func (t *tableI2C) Read(h hal.Handle, addr uint16, buf []byte) error {
	if t.tbl.Read == nil {
		return hal.Unsupported
	}
	return statusErr(t.tbl.Read(t.ctx, int32(h), addr, buf))
}

func (t *tableI2C) WriteRead(h hal.Handle, addr uint16, data, buf []byte) error {
	if t.tbl.WriteRead == nil {
		return hal.Unsupported
	}
	return statusErr(t.tbl.WriteRead(t.ctx, int32(h), addr, data, buf))
}
