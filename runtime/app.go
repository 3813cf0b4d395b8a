package runtime

import (
	"context"
	"io"
	"slices"

	"github.com/tetratelabs/wazero"

	"github.com/wippyai/wasm-embedded/errors"
	"github.com/wippyai/wasm-embedded/hal"
	"github.com/wippyai/wasm-embedded/manifest"
)

// App is a compiled application ready to instantiate.
type App struct {
	runtime  *Runtime
	compiled wazero.CompiledModule
	manifest *manifest.Manifest
	metadata *manifest.Metadata
}

// Manifest returns the verified manifest of a bundle.
func (a *App) Manifest() (manifest.Manifest, bool) {
	if a.manifest == nil {
		return manifest.Manifest{}, false
	}
	return *a.manifest, true
}

// Metadata returns the metadata of a bundle.
func (a *App) Metadata() (manifest.Metadata, bool) {
	if a.metadata == nil {
		return manifest.Metadata{}, false
	}
	return *a.metadata, true
}

// Imports lists the capability modules the app imports functions from.
func (a *App) Imports() []hal.Capability {
	var caps []hal.Capability
	for _, def := range a.compiled.ImportedFunctions() {
		module, _, _ := def.Import()
		c, err := hal.ParseCapability(module)
		if err != nil || slices.Contains(caps, c) {
			continue
		}
		caps = append(caps, c)
	}
	slices.Sort(caps)
	return caps
}

// Exports lists the exported function names.
func (a *App) Exports() []string {
	defs := a.compiled.ExportedFunctions()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// checkDeclared rejects imports of capabilities the metadata does not
// declare.
func (a *App) checkDeclared() error {
	declared, err := a.metadata.Caps()
	if err != nil {
		return errors.Load("metadata capabilities", err)
	}
	for _, c := range a.Imports() {
		if !slices.Contains(declared, c) {
			return errors.New(errors.PhaseLoad, errors.KindInvalidInput).
				Capability(c.String()).
				Detail("app imports %s but metadata does not declare it", c).
				Build()
		}
	}
	return nil
}

// Instantiate creates an instance. Start functions are not run; use Run.
func (a *App) Instantiate(ctx context.Context) (*Instance, error) {
	cfg := a.runtime.cfg
	modConfig := wazero.NewModuleConfig().
		WithName(""). // anonymous for parallel instantiation
		WithStartFunctions()
	if cfg.WASI {
		modConfig = modConfig.
			WithStdout(writerOrDiscard(cfg.Stdout)).
			WithStderr(writerOrDiscard(cfg.Stderr))
		if len(cfg.Args) > 0 {
			modConfig = modConfig.WithArgs(cfg.Args...)
		}
	}

	mod, err := a.runtime.wz.InstantiateModule(ctx, a.compiled, modConfig)
	if err != nil {
		return nil, errors.Instantiation(err)
	}
	return &Instance{app: a, mod: mod}, nil
}

// Close releases the compiled module.
func (a *App) Close(ctx context.Context) error {
	return a.compiled.Close(ctx)
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
