package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseMarshal  Phase = "marshal"  // guest span resolution
	PhaseDispatch Phase = "dispatch" // adapter to driver call
	PhaseNative   Phase = "native"   // native table and context registry
	PhaseManifest Phase = "manifest" // manifest build, encode, verify
	PhaseConfig   Phase = "config"   // platform configuration
	PhaseLoad     Phase = "load"     // app and bundle loading
	PhaseHost     Phase = "host"     // host module registration
	PhaseRuntime  Phase = "runtime"  // instantiation and calls
)

// Kind categorizes the error
type Kind string

const (
	KindOutOfBounds    Kind = "out_of_bounds"
	KindOverlap        Kind = "overlap"
	KindOverflow       Kind = "overflow"
	KindNoMemory       Kind = "no_memory"
	KindInvalidData    Kind = "invalid_data"
	KindInvalidInput   Kind = "invalid_input"
	KindUnsupported    Kind = "unsupported"
	KindNotFound       Kind = "not_found"
	KindTypeMismatch   Kind = "type_mismatch"
	KindChecksum       Kind = "checksum"
	KindUnsigned       Kind = "unsigned"
	KindClosed         Kind = "closed"
	KindBusy           Kind = "busy"
	KindRegistration   Kind = "registration"
	KindInstantiation  Kind = "instantiation"
	KindNotInitialized Kind = "not_initialized"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value      any
	Cause      error
	Phase      Phase
	Kind       Kind
	Capability string
	Op         string
	Detail     string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Capability != "" || e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Capability)
		if e.Capability != "" && e.Op != "" {
			b.WriteByte('.')
		}
		b.WriteString(e.Op)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// As returns the first *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Capability sets the peripheral class involved
func (b *Builder) Capability(c string) *Builder {
	b.err.Capability = c
	return b
}

// Op sets the operation name
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// OutOfBounds creates an error for a span that does not fit in memory
func OutOfBounds(phase Phase, ptr, length uint32, size uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("span [%d, %d) exceeds memory size %d", ptr, uint64(ptr)+uint64(length), size),
		Value:  ptr,
	}
}

// Overlap creates an error for two spans that alias within one call
func Overlap(phase Phase, aPtr, aLen, bPtr, bLen uint32) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindOverlap,
		Detail: fmt.Sprintf("span [%d, %d) overlaps [%d, %d)",
			aPtr, uint64(aPtr)+uint64(aLen), bPtr, uint64(bPtr)+uint64(bLen)),
	}
}

// NoMemory creates an error for a guest that exports no linear memory
func NoMemory(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNoMemory,
		Detail: "guest exports no memory",
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, value any, targetType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Detail: fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:  value,
	}
}

// Checksum creates a digest or length mismatch error for a named binary
func Checksum(what string, want, got any) *Error {
	return &Error{
		Phase:  PhaseManifest,
		Kind:   KindChecksum,
		Detail: fmt.Sprintf("%s: manifest records %v, binary has %v", what, want, got),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// NotInitialized creates a not-initialized error for missing module/instance
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Registration creates a host module registration error
func Registration(capability string, cause error) *Error {
	return &Error{
		Phase:      PhaseHost,
		Kind:       KindRegistration,
		Capability: capability,
		Detail:     "instantiate host module",
		Cause:      cause,
	}
}

// Instantiation creates an instantiation error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindInstantiation,
		Detail: "instantiate module",
		Cause:  cause,
	}
}

// Load creates an app loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}
