package runtime

import (
	"context"
	stderrors "errors"

	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-embedded/errors"
)

// Default entry points tried by Run, in order.
var defaultEntries = []string{"_start", "main"}

// Instance is an instantiated App. It is not safe for concurrent calls.
type Instance struct {
	app *App
	mod api.Module
}

// Call invokes an exported function with raw i32/i64 arguments.
func (i *Instance) Call(ctx context.Context, name string, args ...uint64) ([]uint64, error) {
	if i.mod == nil {
		return nil, errors.NotInitialized(errors.PhaseRuntime, "instance")
	}
	fn := i.mod.ExportedFunction(name)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseRuntime, "export", name)
	}
	results, err := fn.Call(ctx, args...)
	if err != nil {
		return nil, errors.New(errors.PhaseRuntime, errors.KindInvalidData).
			Op(name).
			Detail("call failed").
			Cause(err).
			Build()
	}
	return results, nil
}

// Entry returns the function Run calls: Config.Entry, then the metadata
// entry, then the first of _start and main that is exported.
func (i *Instance) Entry() (string, bool) {
	if e := i.app.runtime.cfg.Entry; e != "" {
		return e, true
	}
	if md, ok := i.app.Metadata(); ok && md.Entry != "" {
		return md.Entry, true
	}
	for _, name := range defaultEntries {
		if i.mod.ExportedFunction(name) != nil {
			return name, true
		}
	}
	return "", false
}

// Run calls the entry function. A WASI exit with status 0 is success.
func (i *Instance) Run(ctx context.Context) error {
	entry, ok := i.Entry()
	if !ok {
		return errors.NotFound(errors.PhaseRuntime, "entry point", "_start")
	}
	Logger().Debug("running entry", zap.String("entry", entry))

	_, err := i.Call(ctx, entry)
	var exitErr *sys.ExitError
	if stderrors.As(err, &exitErr) && exitErr.ExitCode() == 0 {
		return nil
	}
	return err
}

// Memory returns the exported linear memory, or nil.
func (i *Instance) Memory() api.Memory {
	return i.mod.Memory()
}

func (i *Instance) Close(ctx context.Context) error {
	return i.mod.Close(ctx)
}
