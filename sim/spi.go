package sim

import (
	"sync"

	"github.com/wippyai/wasm-embedded/hal"
)

// Fill is the byte read from an idle wire.
const Fill = 0xFF

type spiBus struct {
	mu    sync.Mutex
	queue []byte
}

// SPI simulates loopback buses: MISO is wired to MOSI. Transfer returns the
// bytes clocked out; Write queues its bytes for the next Read.
type SPI struct {
	open handles[*spiBus]
}

// NewSPI returns a loopback SPI driver.
func NewSPI() *SPI {
	return &SPI{open: newHandles[*spiBus]()}
}

func (d *SPI) Init(port, baud uint32, mosi, miso, sck, cs int32) (hal.Handle, error) {
	if baud == 0 || mosi < 0 || miso < 0 || sck < 0 {
		return -1, hal.InvalidArg
	}
	return d.open.open(&spiBus{})
}

func (d *SPI) Deinit(h hal.Handle) error {
	return d.open.close(h)
}

// Read drains queued bytes into buf and pads the rest with Fill.
func (d *SPI) Read(h hal.Handle, buf []byte) error {
	bus, err := d.open.get(h)
	if err != nil {
		return err
	}
	bus.mu.Lock()
	n := copy(buf, bus.queue)
	bus.queue = bus.queue[n:]
	bus.mu.Unlock()
	for i := n; i < len(buf); i++ {
		buf[i] = Fill
	}
	return nil
}

func (d *SPI) Write(h hal.Handle, data []byte) error {
	bus, err := d.open.get(h)
	if err != nil {
		return err
	}
	bus.mu.Lock()
	bus.queue = append(bus.queue, data...)
	bus.mu.Unlock()
	return nil
}

// Transfer copies write into read; read bytes past the end of write are
// Fill.
func (d *SPI) Transfer(h hal.Handle, read, write []byte) error {
	if _, err := d.open.get(h); err != nil {
		return err
	}
	n := copy(read, write)
	for i := n; i < len(read); i++ {
		read[i] = Fill
	}
	return nil
}

// TransferInPlace leaves data unchanged, since every byte loops back.
func (d *SPI) TransferInPlace(h hal.Handle, data []byte) error {
	_, err := d.open.get(h)
	return err
}

// Open returns the number of open handles.
func (d *SPI) Open() int {
	return d.open.len()
}
