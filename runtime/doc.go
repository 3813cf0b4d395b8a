// Package runtime loads and runs guest applications against a platform of
// peripheral drivers.
//
// # Quick Start
//
//	ctx := context.Background()
//	eng := engine.New(engine.WithI2C(sim.NewI2C()))
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
//	if err := inst.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Bundles
//
// LoadBundle accepts an application binary, its CBOR metadata and the
// encoded manifest covering both. Lengths and digests are verified before
// compilation, and the application may only import the capability modules
// its metadata declares. With RequireSigned set, bundles are rejected
// because no signature scheme is defined for the manifest sig field;
// without it, unsigned bundles load with a warning.
//
// # Host Modules
//
// New registers the "gpio", "i2c", "spi" and "uart" host modules (see
// package guest) and, when Config.WASI is set, wasi_snapshot_preview1.
//
// # Thread Safety
//
// A Runtime may load apps concurrently. Instances are not safe for
// concurrent calls, and drivers see calls from every instance.
package runtime
