package guest

import (
	"context"
	"reflect"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	wasmembedded "github.com/wippyai/wasm-embedded"
	"github.com/wippyai/wasm-embedded/errors"
	"github.com/wippyai/wasm-embedded/hal"
)

// Platform supplies a driver for every capability. Unwired capabilities
// return the matching null driver. engine.Engine implements it.
type Platform interface {
	GPIODriver() hal.GPIO
	I2CDriver() hal.I2C
	SPIDriver() hal.SPI
	UARTDriver() hal.UART
}

// HostFunc is one function exported to the guest.
type HostFunc struct {
	Fn     api.GoModuleFunc
	Name   string
	Params []api.ValueType
}

// Results is the result signature shared by every host function: one i32
// errno.
var Results = []api.ValueType{api.ValueTypeI32}

func i32s(n int) []api.ValueType {
	ts := make([]api.ValueType, n)
	for i := range ts {
		ts[i] = api.ValueTypeI32
	}
	return ts
}

// memoryOf returns the guest's memory, or nil when it has none. wazero hands
// back a non-nil api.Memory wrapping a nil instance for memoryless modules.
func memoryOf(mod api.Module) wasmembedded.Memory {
	mem := mod.Memory()
	if mem == nil {
		return nil
	}
	if v := reflect.ValueOf(mem); v.Kind() == reflect.Pointer && v.IsNil() {
		return nil
	}
	return mem
}

func i32(v uint64) int32  { return api.DecodeI32(v) }
func u32(v uint64) uint32 { return api.DecodeU32(v) }

func span(ptr, length uint64) Span {
	return Span{Ptr: u32(ptr), Len: u32(length)}
}

// GPIOFuncs returns the "gpio" module functions bound to a.
func GPIOFuncs(a *GPIO) []HostFunc {
	return []HostFunc{
		{Name: "init", Params: i32s(4), Fn: func(_ context.Context, mod api.Module, s []uint64) {
			s[0] = uint64(a.Init(memoryOf(mod), i32(s[0]), i32(s[1]), i32(s[2]), u32(s[3])))
		}},
		{Name: "deinit", Params: i32s(1), Fn: func(_ context.Context, _ api.Module, s []uint64) {
			s[0] = uint64(a.Deinit(i32(s[0])))
		}},
		{Name: "set", Params: i32s(2), Fn: func(_ context.Context, _ api.Module, s []uint64) {
			s[0] = uint64(a.Set(i32(s[0]), i32(s[1])))
		}},
		{Name: "get", Params: i32s(2), Fn: func(_ context.Context, mod api.Module, s []uint64) {
			s[0] = uint64(a.Get(memoryOf(mod), i32(s[0]), u32(s[1])))
		}},
	}
}

// I2CFuncs returns the "i2c" module functions bound to a.
func I2CFuncs(a *I2C) []HostFunc {
	return []HostFunc{
		{Name: "init", Params: i32s(5), Fn: func(_ context.Context, mod api.Module, s []uint64) {
			s[0] = uint64(a.Init(memoryOf(mod), u32(s[0]), u32(s[1]), i32(s[2]), i32(s[3]), u32(s[4])))
		}},
		{Name: "deinit", Params: i32s(1), Fn: func(_ context.Context, _ api.Module, s []uint64) {
			s[0] = uint64(a.Deinit(i32(s[0])))
		}},
		{Name: "write", Params: i32s(4), Fn: func(_ context.Context, mod api.Module, s []uint64) {
			s[0] = uint64(a.Write(memoryOf(mod), i32(s[0]), u32(s[1]), span(s[2], s[3])))
		}},
		{Name: "read", Params: i32s(4), Fn: func(_ context.Context, mod api.Module, s []uint64) {
			s[0] = uint64(a.Read(memoryOf(mod), i32(s[0]), u32(s[1]), span(s[2], s[3])))
		}},
		{Name: "write_read", Params: i32s(6), Fn: func(_ context.Context, mod api.Module, s []uint64) {
			s[0] = uint64(a.WriteRead(memoryOf(mod), i32(s[0]), u32(s[1]), span(s[2], s[3]), span(s[4], s[5])))
		}},
	}
}

// SPIFuncs returns the "spi" module functions bound to a.
func SPIFuncs(a *SPI) []HostFunc {
	return []HostFunc{
		{Name: "init", Params: i32s(7), Fn: func(_ context.Context, mod api.Module, s []uint64) {
			s[0] = uint64(a.Init(memoryOf(mod), u32(s[0]), u32(s[1]), i32(s[2]), i32(s[3]), i32(s[4]), i32(s[5]), u32(s[6])))
		}},
		{Name: "deinit", Params: i32s(1), Fn: func(_ context.Context, _ api.Module, s []uint64) {
			s[0] = uint64(a.Deinit(i32(s[0])))
		}},
		{Name: "read", Params: i32s(3), Fn: func(_ context.Context, mod api.Module, s []uint64) {
			s[0] = uint64(a.Read(memoryOf(mod), i32(s[0]), span(s[1], s[2])))
		}},
		{Name: "write", Params: i32s(3), Fn: func(_ context.Context, mod api.Module, s []uint64) {
			s[0] = uint64(a.Write(memoryOf(mod), i32(s[0]), span(s[1], s[2])))
		}},
		{Name: "transfer", Params: i32s(5), Fn: func(_ context.Context, mod api.Module, s []uint64) {
			s[0] = uint64(a.Transfer(memoryOf(mod), i32(s[0]), span(s[1], s[2]), span(s[3], s[4])))
		}},
		{Name: "transfer_inplace", Params: i32s(3), Fn: func(_ context.Context, mod api.Module, s []uint64) {
			s[0] = uint64(a.TransferInPlace(memoryOf(mod), i32(s[0]), span(s[1], s[2])))
		}},
	}
}

// UARTFuncs returns the "uart" module functions bound to a.
func UARTFuncs(a *UART) []HostFunc {
	return []HostFunc{
		{Name: "init", Params: i32s(5), Fn: func(_ context.Context, mod api.Module, s []uint64) {
			s[0] = uint64(a.Init(memoryOf(mod), u32(s[0]), u32(s[1]), i32(s[2]), i32(s[3]), u32(s[4])))
		}},
		{Name: "deinit", Params: i32s(1), Fn: func(_ context.Context, _ api.Module, s []uint64) {
			s[0] = uint64(a.Deinit(i32(s[0])))
		}},
		{Name: "write", Params: i32s(4), Fn: func(_ context.Context, mod api.Module, s []uint64) {
			s[0] = uint64(a.Write(memoryOf(mod), i32(s[0]), u32(s[1]), span(s[2], s[3])))
		}},
		{Name: "read", Params: i32s(4), Fn: func(_ context.Context, mod api.Module, s []uint64) {
			s[0] = uint64(a.Read(memoryOf(mod), i32(s[0]), u32(s[1]), span(s[2], s[3])))
		}},
	}
}

// Modules returns the host functions of every capability keyed by module
// name, bound to p's current drivers.
func Modules(p Platform) map[string][]HostFunc {
	return map[string][]HostFunc{
		hal.CapGPIO.String(): GPIOFuncs(NewGPIO(p.GPIODriver())),
		hal.CapI2C.String():  I2CFuncs(NewI2C(p.I2CDriver())),
		hal.CapSPI.String():  SPIFuncs(NewSPI(p.SPIDriver())),
		hal.CapUART.String(): UARTFuncs(NewUART(p.UARTDriver())),
	}
}

// Host holds the instantiated host modules.
type Host struct {
	modules []api.Module
}

// Instantiate registers the four capability modules in r, bound to p's
// drivers. Guests must be instantiated afterwards. On error, modules already
// registered are closed.
func Instantiate(ctx context.Context, r wazero.Runtime, p Platform) (*Host, error) {
	mods := Modules(p)
	h := &Host{}
	for _, c := range hal.Capabilities {
		name := c.String()
		builder := r.NewHostModuleBuilder(name)
		for _, fn := range mods[name] {
			builder.NewFunctionBuilder().
				WithGoModuleFunction(fn.Fn, fn.Params, Results).
				Export(fn.Name)
		}
		mod, err := builder.Instantiate(ctx)
		if err != nil {
			_ = h.Close(ctx)
			return nil, errors.Registration(name, err)
		}
		h.modules = append(h.modules, mod)
		Logger().Debug("host module registered",
			zap.String("module", name),
			zap.Int("functions", len(mods[name])))
	}
	return h, nil
}

// Close closes the host modules and returns every close error.
func (h *Host) Close(ctx context.Context) error {
	var err error
	for _, m := range h.modules {
		err = multierr.Append(err, m.Close(ctx))
	}
	h.modules = nil
	return err
}
