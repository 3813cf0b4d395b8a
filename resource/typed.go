package resource

// Typed is a table holding values of a single Go type.
type Typed[T any] struct {
	table  *Table
	typeID uint32
}

// NewTyped creates a typed table over a fresh LocalBackend.
func NewTyped[T any](opts ...BackendOption) *Typed[T] {
	return &Typed[T]{table: NewTableWithBackend(NewLocalBackend(opts...))}
}

// Insert adds a value and returns its handle.
func (t *Typed[T]) Insert(value T) (Handle, error) {
	return t.table.Insert(t.typeID, value)
}

// Get retrieves a value by handle.
func (t *Typed[T]) Get(handle Handle) (T, bool) {
	var zero T
	v, ok := t.table.GetTyped(handle, t.typeID)
	if !ok {
		return zero, false
	}
	tv, ok := v.(T)
	if !ok {
		return zero, false
	}
	return tv, true
}

// Remove drops a value and returns it.
func (t *Typed[T]) Remove(handle Handle) (T, bool) {
	var zero T
	v, err := t.table.Remove(handle)
	if err != nil {
		return zero, false
	}
	tv, ok := v.(T)
	return tv, ok
}

// Len returns the number of live values.
func (t *Typed[T]) Len() int {
	return t.table.Len()
}

// Each iterates over live values.
func (t *Typed[T]) Each(fn func(Handle, T) bool) {
	t.table.Each(func(h Handle, _ uint32, v any) bool {
		tv, ok := v.(T)
		if !ok {
			return true
		}
		return fn(h, tv)
	})
}
