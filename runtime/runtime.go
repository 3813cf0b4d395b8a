package runtime

import (
	"context"
	"io"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-embedded/errors"
	"github.com/wippyai/wasm-embedded/guest"
	"github.com/wippyai/wasm-embedded/hal"
	"github.com/wippyai/wasm-embedded/manifest"
)

// Config holds configuration for runtime creation.
type Config struct {
	// Stdout and Stderr receive WASI output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer

	// Args are the WASI program arguments, starting with the program name.
	Args []string

	// Entry overrides the function Run calls.
	Entry string

	// MemoryLimitPages caps guest memory in 64KiB pages. 0 keeps the
	// engine default of 65536 pages.
	MemoryLimitPages uint32

	// Algorithm is the digest algorithm bundles were built with.
	Algorithm manifest.Algorithm

	// WASI registers wasi_snapshot_preview1.
	WASI bool

	// RequireSigned rejects bundles whose signature cannot be verified.
	RequireSigned bool
}

// Platform is the driver set guests run against.
type Platform = guest.Platform

// Runtime is a wazero runtime with the peripheral host modules bound to one
// Platform. Apps loaded from it share those drivers. Close releases the
// runtime and every app and instance created from it.
type Runtime struct {
	wz       wazero.Runtime
	host     *guest.Host
	platform Platform
	cfg      Config
}

// New creates a runtime with the capability host modules bound to p. A nil
// cfg uses defaults.
func New(ctx context.Context, p Platform, cfg *Config) (*Runtime, error) {
	if p == nil {
		return nil, errors.InvalidInput(errors.PhaseRuntime, "platform is nil")
	}
	var c Config
	if cfg != nil {
		c = *cfg
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if c.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(c.MemoryLimitPages)
	}
	wz := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	if c.WASI {
		if _, err := wasi_snapshot_preview1.Instantiate(ctx, wz); err != nil {
			wz.Close(ctx)
			return nil, errors.Registration("wasi_snapshot_preview1", err)
		}
	}

	host, err := guest.Instantiate(ctx, wz, p)
	if err != nil {
		wz.Close(ctx)
		return nil, err
	}

	Logger().Debug("runtime created",
		zap.Uint32("memory_limit_pages", c.MemoryLimitPages),
		zap.Bool("wasi", c.WASI),
		zap.Bool("require_signed", c.RequireSigned))

	return &Runtime{
		wz:       wz,
		host:     host,
		platform: p,
		cfg:      c,
	}, nil
}

// Close releases all runtime resources, including open instances.
func (r *Runtime) Close(ctx context.Context) error {
	return r.wz.Close(ctx)
}

// LoadApp compiles an application binary without integrity checks.
func (r *Runtime) LoadApp(ctx context.Context, wasm []byte) (*App, error) {
	return r.compile(ctx, wasm, nil, nil)
}

// LoadBundle verifies app and meta against the encoded manifest, then
// compiles app.
func (r *Runtime) LoadBundle(ctx context.Context, app, meta, manifestBin []byte) (*App, error) {
	m, err := manifest.Parse(manifestBin)
	if err != nil {
		return nil, errors.Load("parse manifest", err)
	}
	if err := m.VerifyWith(r.cfg.Algorithm, app, meta); err != nil {
		return nil, errors.Load("verify bundle", err)
	}

	if err := m.CheckSignature(); err != nil {
		if r.cfg.RequireSigned {
			return nil, errors.Load("check signature", err)
		}
		Logger().Warn("loading bundle without verified signature",
			zap.Bool("signed", m.Signed()),
			zap.Error(err))
	}

	md, err := manifest.ParseMetadata(meta)
	if err != nil {
		return nil, errors.Load("parse metadata", err)
	}
	return r.compile(ctx, app, &m, &md)
}

func (r *Runtime) compile(ctx context.Context, wasm []byte, m *manifest.Manifest, md *manifest.Metadata) (*App, error) {
	compiled, err := r.wz.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Load("compile module", err)
	}

	app := &App{
		runtime:  r,
		compiled: compiled,
		manifest: m,
		metadata: md,
	}

	if md != nil {
		if err := app.checkDeclared(); err != nil {
			compiled.Close(ctx)
			return nil, err
		}
	}
	if wired, ok := r.platform.(interface{ Has(hal.Capability) bool }); ok {
		for _, c := range app.Imports() {
			if !wired.Has(c) {
				Logger().Warn("app imports unwired capability",
					zap.Stringer("capability", c))
			}
		}
	}
	return app, nil
}
