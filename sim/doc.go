// Package sim provides in-memory drivers for every capability. They back
// the "sim" driver name in platform configuration and the tests of the
// adapters.
//
// Behavior per capability:
//
//	GPIO  output pins hold the last level set; input pins read the level
//	      injected with Drive
//	I2C   each address is an echo device returning the bytes last written
//	      to it; an address list restricts which addresses answer
//	SPI   a loopback wire: transfer returns the bytes clocked out, write
//	      queues bytes for a later read
//	UART  a loopback port: bytes written are read back in order
//
// Handles come from a resource table per driver. Using a handle after
// Deinit fails with hal.NoDevice. Drivers are safe for concurrent use.
package sim
