// Package hal defines the peripheral capability interfaces that host drivers
// implement and that guest applications reach through the guest and native
// adapters.
//
// # Capabilities
//
// Four capability classes exist, each with an init/deinit lifecycle and a
// small set of data operations:
//
//	GPIO   Init, Deinit, Set, Get
//	I2C    Init, Deinit, Write, Read, WriteRead
//	SPI    Init, Deinit, Read, Write, Transfer, TransferInPlace
//	UART   Init, Deinit, Write, Read
//
// Drivers receive already-validated native byte slices, never guest pointers.
// Any type with the operation set is a valid driver: a pointer to a concrete
// backend, an interface value wrapping another driver, or a pass-through that
// forwards to a foreign table (see package native).
//
// # Handles
//
// Init returns a Handle identifying one open peripheral. Handles are
// meaningful only to the driver that issued them. Deinit must be called by
// the owner; nothing in this layer reclaims leaked handles.
//
// # Errors
//
// Every operation fails with one of the closed set of Error values. Null
// drivers (NullGPIO, NullI2C, NullSPI, NullUART) fail every call with
// Unsupported so that an unwired capability is an explicit result rather
// than a nil dereference.
//
// # Thread Safety
//
// Drivers are not required to be safe for concurrent use. Callers serialize
// access per peripheral.
package hal
