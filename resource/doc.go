// Package resource provides the handle table shared by driver registries and
// simulated peripherals.
//
// A table maps small integer handles to Go values tagged with a type ID. It
// is the safe replacement for handing raw object pointers across a foreign
// boundary: callers hold only an opaque integer, and every use goes through
// a lookup that checks liveness and type.
//
// # Handle Table
//
//	table := resource.NewTable()
//
//	// Insert a value, get a handle
//	h, err := table.Insert(kindI2C, drv)
//
//	// Type-checked retrieval
//	v, ok := table.GetTyped(h, kindI2C)
//
//	// Remove (fails while a borrow is outstanding)
//	v, err = table.Remove(h)
//
// Handle 0 is reserved and never issued. Freed handles are reused.
//
// # Borrows
//
// Borrow pins an entry for the duration of one call so that a concurrent
// Remove cannot release it mid-call:
//
//	v, release, ok := table.Borrow(h, kindI2C)
//	if !ok {
//	    return errInvalid
//	}
//	defer release()
//
// # Observers
//
// Observers receive EventCreated, EventDropped, EventBorrowed and
// EventBorrowReturned notifications, which registries use for debug logging.
//
// # Typed Tables
//
// Typed wraps a table for a single Go type and is what the simulated drivers
// use to track open ports.
package resource
