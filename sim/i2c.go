package sim

import (
	"sync"

	"github.com/wippyai/wasm-embedded/hal"
)

type i2cBus struct {
	port uint32
}

type i2cKey struct {
	port uint32
	addr uint16
}

// I2C simulates buses of echo devices: a read from an address returns the
// bytes last written to it, zero padded.
type I2C struct {
	open    handles[*i2cBus]
	mem     map[i2cKey][]byte
	devices map[uint16]bool
	mu      sync.Mutex
}

// NewI2C returns an I2C driver. With no addresses every address answers;
// otherwise only the listed ones do and others fail with NoDevice.
func NewI2C(addrs ...uint16) *I2C {
	d := &I2C{
		open: newHandles[*i2cBus](),
		mem:  make(map[i2cKey][]byte),
	}
	if len(addrs) > 0 {
		d.devices = make(map[uint16]bool, len(addrs))
		for _, a := range addrs {
			d.devices[a] = true
		}
	}
	return d
}

func (d *I2C) Init(port, baud uint32, sda, scl int32) (hal.Handle, error) {
	if baud == 0 || sda < 0 || scl < 0 || sda == scl {
		return -1, hal.InvalidArg
	}
	return d.open.open(&i2cBus{port: port})
}

func (d *I2C) Deinit(h hal.Handle) error {
	return d.open.close(h)
}

func (d *I2C) device(h hal.Handle, addr uint16) (i2cKey, error) {
	bus, err := d.open.get(h)
	if err != nil {
		return i2cKey{}, err
	}
	if d.devices != nil && !d.devices[addr] {
		return i2cKey{}, hal.NoDevice
	}
	return i2cKey{port: bus.port, addr: addr}, nil
}

func (d *I2C) Write(h hal.Handle, addr uint16, data []byte) error {
	key, err := d.device(h, addr)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.mem[key] = append([]byte(nil), data...)
	d.mu.Unlock()
	return nil
}

func (d *I2C) Read(h hal.Handle, addr uint16, buf []byte) error {
	key, err := d.device(h, addr)
	if err != nil {
		return err
	}
	d.mu.Lock()
	n := copy(buf, d.mem[key])
	d.mu.Unlock()
	clear(buf[n:])
	return nil
}

func (d *I2C) WriteRead(h hal.Handle, addr uint16, data, buf []byte) error {
	if err := d.Write(h, addr, data); err != nil {
		return err
	}
	return d.Read(h, addr, buf)
}

// Open returns the number of open handles.
func (d *I2C) Open() int {
	return d.open.len()
}
