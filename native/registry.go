package native

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-embedded/errors"
	"github.com/wippyai/wasm-embedded/hal"
	"github.com/wippyai/wasm-embedded/resource"
)

// Status is the result of every table function.
type Status int32

const (
	StatusOK     Status = 0
	StatusFailed Status = -1
)

// Context is the opaque token passed as the first argument of every table
// function. Zero is never issued.
type Context uintptr

// Registry issues contexts for drivers. It is safe for concurrent use.
// Contexts are never reissued: a released context keeps failing with
// StatusFailed even after later registrations.
type Registry struct {
	table *resource.Table
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	backend := resource.NewLocalBackend(resource.WithoutReuse())
	return &Registry{table: resource.NewTableWithBackend(backend)}
}

func (r *Registry) register(c hal.Capability, driver any) (Context, error) {
	if driver == nil {
		return 0, errors.New(errors.PhaseNative, errors.KindInvalidInput).
			Capability(c.String()).
			Op("register").
			Detail("nil driver").
			Build()
	}
	h, err := r.table.Insert(uint32(c), driver)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseNative, errors.KindClosed, err, "register driver")
	}
	Logger().Debug("context registered", zap.Stringer("capability", c), zap.Uint32("context", uint32(h)))
	return Context(h), nil
}

// RegisterGPIO issues a context for d.
func (r *Registry) RegisterGPIO(d hal.GPIO) (Context, error) { return r.register(hal.CapGPIO, d) }

// RegisterI2C issues a context for d.
func (r *Registry) RegisterI2C(d hal.I2C) (Context, error) { return r.register(hal.CapI2C, d) }

// RegisterSPI issues a context for d.
func (r *Registry) RegisterSPI(d hal.SPI) (Context, error) { return r.register(hal.CapSPI, d) }

// RegisterUART issues a context for d.
func (r *Registry) RegisterUART(d hal.UART) (Context, error) { return r.register(hal.CapUART, d) }

// Release invalidates ctx. It fails while a call through ctx is running.
func (r *Registry) Release(ctx Context) error {
	h, ok := handleOf(ctx)
	if !ok {
		return errors.NotFound(errors.PhaseNative, "context", ctxName(ctx))
	}
	if _, err := r.table.Remove(h); err != nil {
		if err == resource.ErrOutstandingBorrow {
			return errors.New(errors.PhaseNative, errors.KindBusy).
				Op("release").
				Detail("context %d is in use", uint64(ctx)).
				Cause(err).
				Build()
		}
		return errors.NotFound(errors.PhaseNative, "context", ctxName(ctx))
	}
	return nil
}

// Len returns the number of live contexts.
func (r *Registry) Len() int {
	return r.table.Len()
}

// Close releases every context.
func (r *Registry) Close() error {
	return r.table.Close()
}

// borrow pins the driver behind ctx when it was registered for c.
func (r *Registry) borrow(c hal.Capability, ctx Context) (any, func(), bool) {
	h, ok := handleOf(ctx)
	if !ok {
		return nil, nil, false
	}
	return r.table.Borrow(h, uint32(c))
}

// GPIO returns the GPIO driver behind ctx.
func (r *Registry) GPIO(ctx Context) (hal.GPIO, bool) { return lookup[hal.GPIO](r, hal.CapGPIO, ctx) }

// I2C returns the I2C driver behind ctx.
func (r *Registry) I2C(ctx Context) (hal.I2C, bool) { return lookup[hal.I2C](r, hal.CapI2C, ctx) }

// SPI returns the SPI driver behind ctx.
func (r *Registry) SPI(ctx Context) (hal.SPI, bool) { return lookup[hal.SPI](r, hal.CapSPI, ctx) }

// UART returns the UART driver behind ctx.
func (r *Registry) UART(ctx Context) (hal.UART, bool) { return lookup[hal.UART](r, hal.CapUART, ctx) }

func lookup[T any](r *Registry, c hal.Capability, ctx Context) (T, bool) {
	var zero T
	v, release, ok := r.borrow(c, ctx)
	if !ok {
		return zero, false
	}
	defer release()
	d, ok := v.(T)
	return d, ok
}

func handleOf(ctx Context) (resource.Handle, bool) {
	if ctx == 0 || uint64(ctx) > uint64(^uint32(0)) {
		return 0, false
	}
	return resource.Handle(ctx), true
}

func ctxName(ctx Context) string {
	return strconv.FormatUint(uint64(ctx), 10)
}
