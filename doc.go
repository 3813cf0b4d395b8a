// Package wasmembedded hosts sandboxed WebAssembly applications that drive
// physical peripherals (GPIO, I2C, SPI, UART) through a validated
// guest/host boundary.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	wasmembedded/     Root package with the guest Memory interface
//	├── hal/          Capability interfaces, error set and null drivers
//	├── guest/        Guest marshalling adapter and wazero host modules
//	├── native/       Function-table adapter for foreign engines
//	├── engine/       Per-platform driver aggregator
//	├── manifest/     Integrity manifest builder and verifier
//	├── runtime/      Loads and runs guest applications on wazero
//	├── sim/          Simulated peripherals for development and tests
//	├── config/       YAML platform configuration
//	├── resource/     Handle table used by registries and drivers
//	└── errors/       Structured error types
//
// # Quick Start
//
// Wire drivers into an engine and run an application:
//
//	eng := engine.New(engine.WithI2C(sim.NewI2C()))
//
//	rt, err := runtime.New(ctx, eng, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	app, err := rt.LoadApp(ctx, wasmBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	inst, err := app.Instantiate(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Close(ctx)
//
//	err = inst.Run(ctx)
//
// # Guest ABI
//
// Guests import host functions from the modules "gpio", "i2c", "spi" and
// "uart". Every function returns a 32-bit errno; buffers are passed as
// (pointer, length) pairs into the guest's exported memory. See package
// guest for the full signature list.
//
// # Thread Safety
//
// Drivers and the engine are not internally synchronized. A Runtime may be
// shared, but each Instance and the peripherals it touches must be used by a
// single goroutine at a time.
package wasmembedded
