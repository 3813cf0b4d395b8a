// Package engine aggregates one driver per capability into the platform a
// guest runs against.
//
// Any subset of capabilities may be wired. Optional accessors (GPIO, I2C,
// SPI, UART) report whether a driver was set; total accessors (GPIODriver,
// ...) always return a driver and fall back to the null driver of the
// capability, so callers never special-case absence:
//
//	e := engine.New(engine.WithI2C(sim.NewI2C()))
//	e.I2CDriver()  // the sim driver
//	e.SPIDriver()  // hal.NullSPI{}, every call fails with hal.Unsupported
//
// An Engine is not safe for concurrent mutation. Configure it before
// instantiating guests.
package engine
