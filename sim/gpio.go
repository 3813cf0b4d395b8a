package sim

import (
	"sync"

	"github.com/wippyai/wasm-embedded/hal"
)

type pinKey struct {
	port, pin int32
}

type gpioPin struct {
	key    pinKey
	output bool
}

// GPIO simulates a bank of pins. Levels persist across Init and Deinit.
type GPIO struct {
	open   handles[*gpioPin]
	levels map[pinKey]hal.PinState
	mu     sync.Mutex
}

// NewGPIO returns a GPIO with every pin low.
func NewGPIO() *GPIO {
	return &GPIO{
		open:   newHandles[*gpioPin](),
		levels: make(map[pinKey]hal.PinState),
	}
}

func (g *GPIO) Init(port, pin int32, output bool) (hal.Handle, error) {
	if port < 0 || pin < 0 {
		return -1, hal.InvalidArg
	}
	return g.open.open(&gpioPin{key: pinKey{port, pin}, output: output})
}

func (g *GPIO) Deinit(h hal.Handle) error {
	return g.open.close(h)
}

// Set drives an output pin. Setting an input pin is InvalidArg.
func (g *GPIO) Set(h hal.Handle, state hal.PinState) error {
	p, err := g.open.get(h)
	if err != nil {
		return err
	}
	if !p.output {
		return hal.InvalidArg
	}
	g.mu.Lock()
	g.levels[p.key] = state
	g.mu.Unlock()
	return nil
}

func (g *GPIO) Get(h hal.Handle) (hal.PinState, error) {
	p, err := g.open.get(h)
	if err != nil {
		return hal.Low, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.levels[p.key], nil
}

// Drive sets the level seen on a pin, as an external signal would.
func (g *GPIO) Drive(port, pin int32, state hal.PinState) {
	g.mu.Lock()
	g.levels[pinKey{port, pin}] = state
	g.mu.Unlock()
}

// Level returns the current level of a pin.
func (g *GPIO) Level(port, pin int32) hal.PinState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.levels[pinKey{port, pin}]
}

// Open returns the number of open handles.
func (g *GPIO) Open() int {
	return g.open.len()
}
