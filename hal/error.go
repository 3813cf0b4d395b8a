package hal

import (
	"errors"
	"fmt"
)

// Error is the closed set of driver failures shared by every capability.
// The zero value is not a valid Error.
type Error uint8

const (
	InvalidArg Error = iota + 1
	Unexpected
	Failed
	NoDevice
	Unsupported
)

// Errors lists every Error value in ordinal order.
var Errors = []Error{InvalidArg, Unexpected, Failed, NoDevice, Unsupported}

var errorNames = map[Error]string{
	InvalidArg:  "invalid argument",
	Unexpected:  "unexpected",
	Failed:      "failed",
	NoDevice:    "no device",
	Unsupported: "unsupported",
}

// Error implements the error interface.
func (e Error) Error() string {
	if name, ok := errorNames[e]; ok {
		return name
	}
	return fmt.Sprintf("hal error %d", uint8(e))
}

// Valid reports whether e is one of the defined values.
func (e Error) Valid() bool {
	_, ok := errorNames[e]
	return ok
}

// ErrorOf folds err into the closed set. Errors that do not wrap an Error
// become Unexpected. The second result is false when err is nil.
func ErrorOf(err error) (Error, bool) {
	if err == nil {
		return 0, false
	}
	var e Error
	if errors.As(err, &e) && e.Valid() {
		return e, true
	}
	return Unexpected, true
}
