package native

import (
	"go.uber.org/zap"

	"github.com/wippyai/wasm-embedded/hal"
)

// errNilOut reports a nil out-parameter.
var errNilOut = hal.InvalidArg

// dispatch runs fn against the driver behind ctx and folds the outcome into
// a Status. The driver stays pinned while fn runs.
func dispatch[T any](r *Registry, c hal.Capability, ctx Context, op string, fn func(T) error) Status {
	v, release, ok := r.borrow(c, ctx)
	if !ok {
		Logger().Warn("unknown context",
			zap.Stringer("capability", c),
			zap.String("op", op),
			zap.Uint64("context", uint64(ctx)))
		return StatusFailed
	}
	defer release()

	d, ok := v.(T)
	if !ok {
		Logger().Warn("context registered for another capability",
			zap.Stringer("capability", c),
			zap.String("op", op),
			zap.Uint64("context", uint64(ctx)))
		return StatusFailed
	}
	// Status carries no detail, so the cause is only visible here.
	if err := fn(d); err != nil {
		Logger().Warn("driver call failed",
			zap.Stringer("capability", c),
			zap.String("op", op),
			zap.Error(err))
		return StatusFailed
	}
	return StatusOK
}

// statusErr maps a foreign Status to a hal error.
func statusErr(s Status) error {
	if s == StatusOK {
		return nil
	}
	return hal.Failed
}
