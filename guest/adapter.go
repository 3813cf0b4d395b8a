package guest

import (
	"go.uber.org/zap"

	"github.com/wippyai/wasm-embedded/hal"
)

// status logs a finished guest call and maps its error to an Errno.
func status(capability hal.Capability, op string, err error) Errno {
	code := ErrnoOf(err)
	log := Logger()
	switch {
	case err == nil:
		log.Debug("guest call",
			zap.Stringer("capability", capability),
			zap.String("op", op))
	case code == Fault:
		log.Debug("guest call rejected",
			zap.Stringer("capability", capability),
			zap.String("op", op),
			zap.Error(err))
	case code == Unexpected && err != hal.Unexpected:
		log.Warn("driver returned foreign error",
			zap.Stringer("capability", capability),
			zap.String("op", op),
			zap.Error(err))
	default:
		log.Debug("guest call failed",
			zap.Stringer("capability", capability),
			zap.String("op", op),
			zap.Stringer("errno", code))
	}
	return code
}
