package guest

import (
	"encoding/binary"

	wasmembedded "github.com/wippyai/wasm-embedded"
	"github.com/wippyai/wasm-embedded/errors"
)

// Direction is the data flow of a span relative to the guest.
type Direction uint8

const (
	// Outbound spans carry bytes from the guest to the device. Drivers only
	// read them.
	Outbound Direction = iota

	// Inbound spans carry bytes from the device into the guest. Drivers fill
	// them and the guest sees the result only on success.
	Inbound
)

func (d Direction) String() string {
	if d == Inbound {
		return "inbound"
	}
	return "outbound"
}

// Span is a (pointer, length) buffer descriptor into guest linear memory.
type Span struct {
	Ptr uint32
	Len uint32
}

// End returns the exclusive end offset. It is computed in 64 bits so
// ptr+len cannot wrap.
func (s Span) End() uint64 {
	return uint64(s.Ptr) + uint64(s.Len)
}

// Overlaps reports whether a and b share at least one byte. Empty spans
// never overlap.
func Overlaps(a, b Span) bool {
	if a.Len == 0 || b.Len == 0 {
		return false
	}
	return uint64(a.Ptr) < b.End() && uint64(b.Ptr) < a.End()
}

// Resolve returns a view of s in mem. The range is checked against the
// memory size before any access. An empty span resolves to an empty slice
// without touching mem.
func Resolve(mem wasmembedded.Memory, s Span) ([]byte, error) {
	if s.Len == 0 {
		return []byte{}, nil
	}
	if mem == nil {
		return nil, errors.NoMemory(errors.PhaseMarshal)
	}
	size := mem.Size()
	if s.End() > uint64(size) {
		return nil, errors.OutOfBounds(errors.PhaseMarshal, s.Ptr, s.Len, size)
	}
	buf, ok := mem.Read(s.Ptr, s.Len)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseMarshal, s.Ptr, s.Len, size)
	}
	return buf, nil
}

// call collects the spans of one guest call. Outbound spans are views of
// guest memory; inbound spans are host copies written back by commit.
type call struct {
	mem    wasmembedded.Memory
	err    error
	spans  []Span
	dirs   []Direction
	staged []staging
}

type staging struct {
	buf  []byte
	span Span
}

func newCall(mem wasmembedded.Memory) *call {
	return &call{mem: mem}
}

func (c *call) add(s Span, d Direction) []byte {
	if c.err != nil {
		return nil
	}
	view, err := Resolve(c.mem, s)
	if err != nil {
		c.err = err
		return nil
	}
	c.spans = append(c.spans, s)
	c.dirs = append(c.dirs, d)
	if d == Outbound {
		return view
	}
	buf := make([]byte, len(view))
	copy(buf, view)
	if s.Len > 0 {
		c.staged = append(c.staged, staging{span: s, buf: buf})
	}
	return buf
}

// outbound registers a span the driver reads from.
func (c *call) outbound(s Span) []byte {
	return c.add(s, Outbound)
}

// inbound registers a span the driver fills. The returned buffer starts as
// a copy of the guest bytes.
func (c *call) inbound(s Span) []byte {
	return c.add(s, Inbound)
}

// outParam registers a 4-byte little-endian out-parameter at ptr.
func (c *call) outParam(ptr uint32) []byte {
	return c.add(Span{Ptr: ptr, Len: 4}, Inbound)
}

// check returns the first resolution error, or an overlap error when an
// inbound span aliases any other span of the call.
func (c *call) check() error {
	if c.err != nil {
		return c.err
	}
	for i := range c.spans {
		for j := i + 1; j < len(c.spans); j++ {
			if c.dirs[i] != Inbound && c.dirs[j] != Inbound {
				continue
			}
			if Overlaps(c.spans[i], c.spans[j]) {
				a, b := c.spans[i], c.spans[j]
				return errors.Overlap(errors.PhaseMarshal, a.Ptr, a.Len, b.Ptr, b.Len)
			}
		}
	}
	return nil
}

// commit copies staged inbound buffers into guest memory. Spans were bounds
// checked by add and memory cannot shrink, so writes succeed.
func (c *call) commit() {
	for _, s := range c.staged {
		c.mem.Write(s.span.Ptr, s.buf)
	}
}

func putU32(buf []byte, v uint32) {
	binary.LittleEndian.PutUint32(buf, v)
}
