// Package guest marshals calls from a sandboxed WebAssembly guest onto host
// peripheral drivers.
//
// Each capability is exported to the guest as a wazero host module named
// after it ("gpio", "i2c", "spi", "uart"). Every parameter is an i32 and every
// function returns an Errno. Buffers are passed as (pointer, length) pairs
// into the guest's linear memory; handles and scalar results are written
// through 4-byte out-parameters.
//
// All spans of a call are resolved and validated before the driver runs:
//
//   - a span must lie inside linear memory, or the call returns Fault
//   - a zero-length span is an empty buffer and touches no memory
//   - an Inbound span must not overlap any other span of the same call
//
// Inbound data is staged in host memory and copied into the guest only when
// the driver succeeds, so a failed read leaves guest memory untouched.
//
// Span direction is named by data flow: Outbound spans carry bytes from the
// guest to the device (write, the write half of write_read and transfer),
// Inbound spans carry bytes from the device into the guest (read, the read
// half of write_read and transfer, out-parameters).
package guest
