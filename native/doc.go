// Package native exposes capabilities through C-style function tables and
// wraps foreign tables back into capabilities.
//
// A table (GPIODrv, I2CDrv, SPIDrv, UARTDrv) is a struct of optional
// function fields. Every function takes an opaque Context first and returns
// a Status: StatusOK (0) or StatusFailed (-1). Scalar results are written
// through pointer out-parameters. Failure detail is logged, never returned.
//
// A Context is a token issued by a Registry, not an address. The registry
// maps it to a driver of one capability and pins that driver for the
// duration of every call, so a released or mistyped Context fails with
// StatusFailed instead of reaching the wrong object:
//
//	reg := native.NewRegistry()
//	ctx, _ := reg.RegisterI2C(sim.NewI2C())
//	tbl := native.I2CTable(reg)
//	var h int32
//	tbl.Init(ctx, 0, 100000, 4, 5, &h)
//
// The reverse direction, FromGPIOTable and friends, turns a table supplied
// by foreign code into a hal capability. Missing functions fail with
// hal.Unsupported and StatusFailed becomes hal.Failed.
package native
