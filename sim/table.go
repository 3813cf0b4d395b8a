package sim

import (
	"github.com/wippyai/wasm-embedded/hal"
	"github.com/wippyai/wasm-embedded/resource"
)

// handles maps hal handles to open peripheral state. Handles are never
// reused, so a handle kept after Deinit fails with NoDevice rather than
// reaching a peripheral opened later.
type handles[T any] struct {
	table *resource.Typed[T]
}

func newHandles[T any]() handles[T] {
	return handles[T]{table: resource.NewTyped[T](resource.WithoutReuse())}
}

func (h handles[T]) open(v T) (hal.Handle, error) {
	rh, err := h.table.Insert(v)
	if err != nil || rh > 1<<31-1 {
		return -1, hal.Failed
	}
	return hal.Handle(rh), nil
}

func (h handles[T]) get(handle hal.Handle) (T, error) {
	var zero T
	if handle <= 0 {
		return zero, hal.NoDevice
	}
	v, ok := h.table.Get(resource.Handle(handle))
	if !ok {
		return zero, hal.NoDevice
	}
	return v, nil
}

func (h handles[T]) close(handle hal.Handle) error {
	if handle <= 0 {
		return hal.NoDevice
	}
	if _, ok := h.table.Remove(resource.Handle(handle)); !ok {
		return hal.NoDevice
	}
	return nil
}

func (h handles[T]) len() int {
	return h.table.Len()
}
