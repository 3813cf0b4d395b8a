package native

import "github.com/wippyai/wasm-embedded/hal"

// SPIDrv is the SPI function table.
type SPIDrv struct {
	Init            func(ctx Context, port, baud uint32, mosi, miso, sck, cs int32, handle *int32) Status
	Deinit          func(ctx Context, handle int32) Status
	Read            func(ctx Context, handle int32, buf []byte) Status
	Write           func(ctx Context, handle int32, data []byte) Status
	Transfer        func(ctx Context, handle int32, read, write []byte) Status
	TransferInPlace func(ctx Context, handle int32, data []byte) Status
}

// SPITable returns a table dispatching to SPI drivers in r.
func SPITable(r *Registry) SPIDrv {
	return SPIDrv{
		Init: func(ctx Context, port, baud uint32, mosi, miso, sck, cs int32, handle *int32) Status {
			return dispatch(r, hal.CapSPI, ctx, "init", func(d hal.SPI) error {
				if handle == nil {
					return errNilOut
				}
				h, err := d.Init(port, baud, mosi, miso, sck, cs)
				if err != nil {
					return err
				}
				*handle = int32(h)
				return nil
			})
		},
		Deinit: func(ctx Context, handle int32) Status {
			return dispatch(r, hal.CapSPI, ctx, "deinit", func(d hal.SPI) error {
				return d.Deinit(hal.Handle(handle))
			})
		},
		Read: func(ctx Context, handle int32, buf []byte) Status {
			return dispatch(r, hal.CapSPI, ctx, "read", func(d hal.SPI) error {
				return d.Read(hal.Handle(handle), buf)
			})
		},
		Write: func(ctx Context, handle int32, data []byte) Status {
			return dispatch(r, hal.CapSPI, ctx, "write", func(d hal.SPI) error {
				return d.Write(hal.Handle(handle), data)
			})
		},
		Transfer: func(ctx Context, handle int32, read, write []byte) Status {
			return dispatch(r, hal.CapSPI, ctx, "transfer", func(d hal.SPI) error {
				return d.Transfer(hal.Handle(handle), read, write)
			})
		},
		TransferInPlace: func(ctx Context, handle int32, data []byte) Status {
			return dispatch(r, hal.CapSPI, ctx, "transfer_inplace", func(d hal.SPI) error {
				return d.TransferInPlace(hal.Handle(handle), data)
			})
		},
	}
}

type tableSPI struct {
	tbl SPIDrv
	ctx Context
}

// FromSPITable wraps a foreign table as an SPI driver.
func FromSPITable(tbl SPIDrv, ctx Context) hal.SPI {
	return &tableSPI{tbl: tbl, ctx: ctx}
}

func (t *tableSPI) Init(port, baud uint32, mosi, miso, sck, cs int32) (hal.Handle, error) {
	if t.tbl.Init == nil {
		return -1, hal.Unsupported
	}
	var h int32
	if err := statusErr(t.tbl.Init(t.ctx, port, baud, mosi, miso, sck, cs, &h)); err != nil {
		return -1, err
	}
	return hal.Handle(h), nil
}

func (t *tableSPI) Deinit(h hal.Handle) error {
	if t.tbl.Deinit == nil {
		return hal.Unsupported
	}
	return statusErr(t.tbl.Deinit(t.ctx, int32(h)))
}

func (t *tableSPI) Read(h hal.Handle, buf []byte) error {
	if t.tbl.Read == nil {
		return hal.Unsupported
	}
	return statusErr(t.tbl.Read(t.ctx, int32(h), buf))
}

func (t *tableSPI) Write(h hal.Handle, data []byte) error {
	if t.tbl.Write == nil {
		return hal.Unsupported
	}
	return statusErr(t.tbl.Write(t.ctx, int32(h), data))
}

func (t *tableSPI) Transfer(h hal.Handle, read, write []byte) error {
	if t.tbl.Transfer == nil {
		return hal.Unsupported
	}
	return statusErr(t.tbl.Transfer(t.ctx, int32(h), read, write))
}

func (t *tableSPI) TransferInPlace(h hal.Handle, data []byte) error {
	if t.tbl.TransferInPlace == nil {
		return hal.Unsupported
	}
	return statusErr(t.tbl.TransferInPlace(t.ctx, int32(h), data))
}
