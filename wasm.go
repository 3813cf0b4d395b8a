package wasmembedded

// Memory is the view of a guest's linear memory used for span resolution.
// wazero's api.Memory satisfies it.
type Memory interface {
	// Size returns the current size in bytes.
	Size() uint32

	// Read returns a view of byteCount bytes at offset, or false when the
	// range is out of bounds. Writes to the view are visible to the guest.
	Read(offset, byteCount uint32) ([]byte, bool)

	// Write copies v to offset, or returns false when out of bounds.
	Write(offset uint32, v []byte) bool
}
