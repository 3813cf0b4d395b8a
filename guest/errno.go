package guest

import (
	"fmt"

	"github.com/wippyai/wasm-embedded/errors"
	"github.com/wippyai/wasm-embedded/hal"
)

// Errno is the status returned to the guest by every host function. The
// ordinals cross the trust boundary and must not change.
type Errno uint32

const (
	Ok Errno = iota
	InvalidArg
	Unexpected
	Failed
	NoDevice
	Unsupported

	// Fault reports a malformed call: a span outside linear memory, an
	// aliased inbound span, or a guest without memory. Drivers never
	// produce it.
	Fault
)

var errnoNames = [...]string{
	Ok:          "ok",
	InvalidArg:  "invalid argument",
	Unexpected:  "unexpected",
	Failed:      "failed",
	NoDevice:    "no device",
	Unsupported: "unsupported",
	Fault:       "fault",
}

func (e Errno) String() string {
	if e < Errno(len(errnoNames)) {
		return errnoNames[e]
	}
	return fmt.Sprintf("errno(%d)", uint32(e))
}

// ErrFault is the error form of Fault.
var ErrFault = errors.New(errors.PhaseMarshal, errors.KindInvalidData).
	Detail("malformed guest call").
	Build()

// ErrnoOf maps err to the guest status. hal errors map one to one, marshal
// errors map to Fault, and anything else is Unexpected.
func ErrnoOf(err error) Errno {
	if err == nil {
		return Ok
	}
	if e, ok := errors.As(err); ok && e.Phase == errors.PhaseMarshal {
		return Fault
	}
	he, _ := hal.ErrorOf(err)
	return Errno(he)
}

// Err is the inverse of ErrnoOf. Ok yields nil; unknown values yield
// hal.Unexpected.
func (e Errno) Err() error {
	switch {
	case e == Ok:
		return nil
	case e == Fault:
		return ErrFault
	case e < Fault:
		return hal.Error(e)
	}
	return hal.Unexpected
}
