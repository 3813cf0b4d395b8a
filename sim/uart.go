package sim

import (
	"sync"

	"github.com/wippyai/wasm-embedded/hal"
)

type uartPort struct {
	mu sync.Mutex
	rx []byte
}

// UART simulates loopback ports. Flags are accepted and ignored.
type UART struct {
	open handles[*uartPort]
}

// NewUART returns a loopback UART driver.
func NewUART() *UART {
	return &UART{open: newHandles[*uartPort]()}
}

func (d *UART) Init(port, baud uint32, tx, rx int32) (hal.Handle, error) {
	if baud == 0 || tx < 0 || rx < 0 {
		return -1, hal.InvalidArg
	}
	return d.open.open(&uartPort{})
}

func (d *UART) Deinit(h hal.Handle) error {
	return d.open.close(h)
}

func (d *UART) Write(h hal.Handle, _ uint32, data []byte) error {
	p, err := d.open.get(h)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.rx = append(p.rx, data...)
	p.mu.Unlock()
	return nil
}

// Read fills buf from received bytes. It fails with hal.Failed, consuming
// nothing, when fewer than len(buf) bytes are pending.
func (d *UART) Read(h hal.Handle, _ uint32, buf []byte) error {
	p, err := d.open.get(h)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.rx) < len(buf) {
		return hal.Failed
	}
	n := copy(buf, p.rx)
	p.rx = p.rx[n:]
	return nil
}

// Pending returns the number of bytes waiting on the port behind h.
func (d *UART) Pending(h hal.Handle) int {
	p, err := d.open.get(h)
	if err != nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.rx)
}

// Open returns the number of open handles.
func (d *UART) Open() int {
	return d.open.len()
}
