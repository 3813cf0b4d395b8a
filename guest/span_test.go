package guest

import (
	"testing"

	"github.com/wippyai/wasm-embedded/errors"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		span    Span
		wantLen int
		wantErr bool
	}{
		{"start", Span{Ptr: 0, Len: 16}, 16, false},
		{"end exactly at size", Span{Ptr: 48, Len: 16}, 16, false},
		{"one past end", Span{Ptr: 49, Len: 16}, 0, true},
		{"ptr at size", Span{Ptr: 64, Len: 1}, 0, true},
		{"wrapping end", Span{Ptr: 0xFFFFFFFF, Len: 2}, 0, true},
		{"huge length", Span{Ptr: 1, Len: 0xFFFFFFFF}, 0, true},
		{"empty at size", Span{Ptr: 64, Len: 0}, 0, false},
		{"empty far out of bounds", Span{Ptr: 0xFFFFFFFF, Len: 0}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := newTestMemory(64)
			buf, err := Resolve(mem, tt.span)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if e, ok := errors.As(err); !ok || e.Kind != errors.KindOutOfBounds || e.Phase != errors.PhaseMarshal {
					t.Errorf("Resolve() error = %v, want out_of_bounds", err)
				}
				if mem.reads != 0 {
					t.Errorf("memory read %d times for rejected span", mem.reads)
				}
				return
			}
			if len(buf) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(buf), tt.wantLen)
			}
			if tt.span.Len == 0 && mem.reads != 0 {
				t.Errorf("empty span touched memory")
			}
		})
	}
}

func TestResolve_NoMemory(t *testing.T) {
	if _, err := Resolve(nil, Span{Ptr: 0, Len: 0}); err != nil {
		t.Errorf("empty span without memory: %v", err)
	}
	_, err := Resolve(nil, Span{Ptr: 0, Len: 1})
	if ErrnoOf(err) != Fault {
		t.Errorf("Resolve(nil) errno = %v, want fault", ErrnoOf(err))
	}
}

func TestResolve_View(t *testing.T) {
	mem := newTestMemory(8)
	buf, err := Resolve(mem, Span{Ptr: 2, Len: 3})
	if err != nil {
		t.Fatal(err)
	}
	buf[0] = 0xAA
	if mem.data[2] != 0xAA {
		t.Error("outbound view is not backed by guest memory")
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		a, b Span
		want bool
	}{
		{Span{0, 4}, Span{4, 4}, false},
		{Span{0, 5}, Span{4, 4}, true},
		{Span{4, 4}, Span{0, 5}, true},
		{Span{0, 10}, Span{3, 2}, true},
		{Span{3, 0}, Span{0, 10}, false},
		{Span{0, 10}, Span{3, 0}, false},
		{Span{0xFFFFFFF0, 0x10}, Span{0xFFFFFFFF, 1}, true},
		{Span{8, 8}, Span{8, 8}, true},
	}
	for _, tt := range tests {
		if got := Overlaps(tt.a, tt.b); got != tt.want {
			t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCall_Check(t *testing.T) {
	tests := []struct {
		name    string
		build   func(c *call)
		wantErr bool
	}{
		{
			name: "disjoint inbound and outbound",
			build: func(c *call) {
				c.outbound(Span{0, 8})
				c.inbound(Span{8, 8})
			},
		},
		{
			name: "aliased outbound spans",
			build: func(c *call) {
				c.outbound(Span{0, 8})
				c.outbound(Span{4, 8})
			},
		},
		{
			name: "inbound overlaps outbound",
			build: func(c *call) {
				c.outbound(Span{0, 8})
				c.inbound(Span{7, 4})
			},
			wantErr: true,
		},
		{
			name: "out-param inside outbound",
			build: func(c *call) {
				c.outbound(Span{0, 16})
				c.outParam(4)
			},
			wantErr: true,
		},
		{
			name: "empty inbound inside outbound",
			build: func(c *call) {
				c.outbound(Span{0, 16})
				c.inbound(Span{4, 0})
			},
		},
		{
			name: "out of bounds wins",
			build: func(c *call) {
				c.inbound(Span{60, 8})
				c.inbound(Span{60, 8})
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCall(newTestMemory(64))
			tt.build(c)
			err := c.check()
			if (err != nil) != tt.wantErr {
				t.Errorf("check() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCall_StagesInbound(t *testing.T) {
	mem := newTestMemory(16)
	copy(mem.data, []byte{1, 2, 3, 4})

	c := newCall(mem)
	buf := c.inbound(Span{0, 4})
	if string(buf) != string([]byte{1, 2, 3, 4}) {
		t.Fatalf("staged buffer = %v, want guest contents", buf)
	}
	buf[0] = 9
	if mem.data[0] != 1 {
		t.Fatal("inbound write reached guest before commit")
	}
	c.commit()
	if mem.data[0] != 9 {
		t.Errorf("commit did not copy staged data")
	}
}
