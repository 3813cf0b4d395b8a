package guest

// testMemory is a linear memory backed by a byte slice that counts accesses.
type testMemory struct {
	data   []byte
	reads  int
	writes int
}

func newTestMemory(size int) *testMemory {
	return &testMemory{data: make([]byte, size)}
}

func (m *testMemory) Size() uint32 {
	return uint32(len(m.data))
}

func (m *testMemory) Read(offset, byteCount uint32) ([]byte, bool) {
	m.reads++
	end := uint64(offset) + uint64(byteCount)
	if end > uint64(len(m.data)) {
		return nil, false
	}
	return m.data[offset:end], true
}

func (m *testMemory) Write(offset uint32, v []byte) bool {
	m.writes++
	end := uint64(offset) + uint64(len(v))
	if end > uint64(len(m.data)) {
		return false
	}
	copy(m.data[offset:end], v)
	return true
}
