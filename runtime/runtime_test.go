package runtime

import (
	"bytes"
	"context"
	"testing"

	"github.com/wippyai/wasm-embedded/engine"
	"github.com/wippyai/wasm-embedded/errors"
	"github.com/wippyai/wasm-embedded/hal"
	"github.com/wippyai/wasm-embedded/internal/wasmtest"
	"github.com/wippyai/wasm-embedded/manifest"
	"github.com/wippyai/wasm-embedded/sim"
)

// hasKind reports whether any *errors.Error in err's chain has kind k.
func hasKind(err error, k errors.Kind) bool {
	for err != nil {
		e, ok := errors.As(err)
		if !ok {
			return false
		}
		if e.Kind == k {
			return true
		}
		err = e.Cause
	}
	return false
}

// blinkApp opens GPIO pin (0, 2) as output, drives it high and stores the
// handle at address 64. It exports the entry as name.
func blinkApp(name string) []byte {
	m := wasmtest.New()
	m.Memory(1)
	initFn := m.Import("gpio", "init", 4, 1)
	setFn := m.Import("gpio", "set", 2, 1)
	body := wasmtest.CallDrop(initFn, 0, 2, 1, 64)
	// handles start at 1
	body = append(body, wasmtest.CallDrop(setFn, 1, 1)...)
	m.Func(name, 0, 0, body)
	return m.Bytes()
}

func newRuntime(t *testing.T, p Platform, cfg *Config) (context.Context, *Runtime) {
	t.Helper()
	ctx := context.Background()
	rt, err := New(ctx, p, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { rt.Close(ctx) })
	return ctx, rt
}

func TestNew_NilPlatform(t *testing.T) {
	_, err := New(context.Background(), nil, nil)
	if !hasKind(err, errors.KindInvalidInput) {
		t.Errorf("New(nil) error = %v, want invalid input", err)
	}
}

func TestRun_Entry(t *testing.T) {
	tests := []struct {
		name   string
		export string
		entry  string
	}{
		{"default _start", "_start", ""},
		{"default main", "main", ""},
		{"configured", "blink", "blink"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gpio := sim.NewGPIO()
			ctx, rt := newRuntime(t, engine.New(engine.WithGPIO(gpio)), &Config{Entry: tt.entry})

			app, err := rt.LoadApp(ctx, blinkApp(tt.export))
			if err != nil {
				t.Fatalf("LoadApp: %v", err)
			}
			inst, err := app.Instantiate(ctx)
			if err != nil {
				t.Fatalf("Instantiate: %v", err)
			}
			defer inst.Close(ctx)

			// start functions must not run on instantiation
			if got := gpio.Open(); got != 0 {
				t.Fatalf("open pins before Run = %d, want 0", got)
			}
			if entry, ok := inst.Entry(); !ok || entry != tt.export {
				t.Errorf("Entry() = %q, %v, want %q", entry, ok, tt.export)
			}
			if err := inst.Run(ctx); err != nil {
				t.Fatalf("Run: %v", err)
			}
			if got := gpio.Level(0, 2); got != hal.High {
				t.Errorf("Level(0, 2) = %v, want high", got)
			}

			handle, ok := inst.Memory().ReadUint32Le(64)
			if !ok || handle != 1 {
				t.Errorf("handle out-param = %d, %v, want 1", handle, ok)
			}
		})
	}
}

func TestRun_NoEntry(t *testing.T) {
	ctx, rt := newRuntime(t, engine.New(), nil)

	m := wasmtest.New()
	m.Func("other", 0, 1, wasmtest.Const(7))
	app, err := rt.LoadApp(ctx, m.Bytes())
	if err != nil {
		t.Fatalf("LoadApp: %v", err)
	}
	inst, err := app.Instantiate(ctx)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	defer inst.Close(ctx)

	if err := inst.Run(ctx); !hasKind(err, errors.KindNotFound) {
		t.Errorf("Run() error = %v, want not found", err)
	}
	if _, err := inst.Call(ctx, "missing"); !hasKind(err, errors.KindNotFound) {
		t.Errorf("Call(missing) error = %v, want not found", err)
	}

	res, err := inst.Call(ctx, "other")
	if err != nil {
		t.Fatalf("Call(other): %v", err)
	}
	if len(res) != 1 || res[0] != 7 {
		t.Errorf("Call(other) = %v, want [7]", res)
	}
}

func TestLoadApp_Invalid(t *testing.T) {
	ctx, rt := newRuntime(t, engine.New(), nil)

	_, err := rt.LoadApp(ctx, []byte("not wasm"))
	e, ok := errors.As(err)
	if !ok || e.Phase != errors.PhaseLoad {
		t.Errorf("LoadApp(garbage) error = %v, want load phase", err)
	}
}

func TestApp_ImportsExports(t *testing.T) {
	ctx, rt := newRuntime(t, engine.New(), nil)

	app, err := rt.LoadApp(ctx, wasmtest.Trampolines(
		wasmtest.Import{Module: "uart", Name: "deinit", Params: 1},
		wasmtest.Import{Module: "gpio", Name: "deinit", Params: 1},
		wasmtest.Import{Module: "gpio", Name: "set", Params: 2},
	))
	if err != nil {
		t.Fatalf("LoadApp: %v", err)
	}

	imports := app.Imports()
	if len(imports) != 2 || imports[0] != hal.CapGPIO || imports[1] != hal.CapUART {
		t.Errorf("Imports() = %v, want [gpio uart]", imports)
	}
	exports := app.Exports()
	want := []string{"gpio.deinit", "gpio.set", "uart.deinit"}
	if len(exports) != len(want) {
		t.Fatalf("Exports() = %v, want %v", exports, want)
	}
	for i := range want {
		if exports[i] != want[i] {
			t.Errorf("Exports()[%d] = %q, want %q", i, exports[i], want[i])
		}
	}
	if _, ok := app.Metadata(); ok {
		t.Error("Metadata() ok for plain app, want false")
	}
}

func bundle(t *testing.T, app []byte, md manifest.Metadata) ([]byte, []byte) {
	t.Helper()
	meta, err := md.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	m, err := manifest.NewBuilder().AppBin(app).MetaBin(meta).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	bin, err := m.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	return meta, bin
}

func TestLoadBundle(t *testing.T) {
	gpio := sim.NewGPIO()
	ctx, rt := newRuntime(t, engine.New(engine.WithGPIO(gpio)), nil)

	app := blinkApp("blink")
	meta, bin := bundle(t, app, manifest.Metadata{
		Name:         "blink",
		Version:      "1.0.0",
		Entry:        "blink",
		Capabilities: []string{"gpio"},
	})

	loaded, err := rt.LoadBundle(ctx, app, meta, bin)
	if err != nil {
		t.Fatalf("LoadBundle: %v", err)
	}
	md, ok := loaded.Metadata()
	if !ok || md.Name != "blink" {
		t.Errorf("Metadata() = %+v, %v, want name blink", md, ok)
	}
	m, ok := loaded.Manifest()
	if !ok || m.AppLen != uint32(len(app)) {
		t.Errorf("Manifest().AppLen = %d, want %d", m.AppLen, len(app))
	}

	inst, err := loaded.Instantiate(ctx)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	defer inst.Close(ctx)
	if err := inst.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := gpio.Level(0, 2); got != hal.High {
		t.Errorf("Level(0, 2) = %v, want high", got)
	}
}

func TestLoadBundle_Rejects(t *testing.T) {
	app := blinkApp("_start")
	good := manifest.Metadata{Name: "blink", Capabilities: []string{"gpio"}}

	tests := []struct {
		name string
		cfg  *Config
		md   manifest.Metadata
		edit func(app, meta, bin []byte) ([]byte, []byte, []byte)
		kind errors.Kind
	}{
		{
			name: "tampered app",
			md:   good,
			edit: func(app, meta, bin []byte) ([]byte, []byte, []byte) {
				app = bytes.Clone(app)
				app[len(app)-1] ^= 0xFF
				return app, meta, bin
			},
			kind: errors.KindChecksum,
		},
		{
			name: "truncated meta",
			md:   good,
			edit: func(app, meta, bin []byte) ([]byte, []byte, []byte) {
				return app, meta[:len(meta)-1], bin
			},
			kind: errors.KindChecksum,
		},
		{
			name: "short manifest",
			md:   good,
			edit: func(app, meta, bin []byte) ([]byte, []byte, []byte) {
				return app, meta, bin[:manifest.Size-1]
			},
			kind: errors.KindInvalidData,
		},
		{
			name: "wrong algorithm",
			cfg:  &Config{Algorithm: manifest.BLAKE3},
			md:   good,
			kind: errors.KindChecksum,
		},
		{
			name: "undeclared capability",
			md:   manifest.Metadata{Name: "blink", Capabilities: []string{"uart"}},
			kind: errors.KindInvalidInput,
		},
		{
			name: "unsigned with signature required",
			cfg:  &Config{RequireSigned: true},
			md:   good,
			kind: errors.KindUnsigned,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, rt := newRuntime(t, engine.New(engine.WithGPIO(sim.NewGPIO())), tt.cfg)

			meta, bin := bundle(t, app, tt.md)
			a := app
			if tt.edit != nil {
				a, meta, bin = tt.edit(a, meta, bin)
			}
			_, err := rt.LoadBundle(ctx, a, meta, bin)
			if !hasKind(err, tt.kind) {
				t.Errorf("LoadBundle() error = %v, want kind %s", err, tt.kind)
			}
		})
	}
}

func TestRun_WASIExit(t *testing.T) {
	tests := []struct {
		name    string
		code    int32
		wantErr bool
	}{
		{"zero", 0, false},
		{"nonzero", 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, rt := newRuntime(t, engine.New(), &Config{WASI: true, Args: []string{"app"}})

			m := wasmtest.New()
			m.Memory(1)
			exit := m.Import("wasi_snapshot_preview1", "proc_exit", 1, 0)
			m.Func("_start", 0, 0, append(wasmtest.Const(tt.code), 0x10, byte(exit)))

			app, err := rt.LoadApp(ctx, m.Bytes())
			if err != nil {
				t.Fatalf("LoadApp: %v", err)
			}
			inst, err := app.Instantiate(ctx)
			if err != nil {
				t.Fatalf("Instantiate: %v", err)
			}
			defer inst.Close(ctx)

			err = inst.Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_MemoryLimit(t *testing.T) {
	ctx, rt := newRuntime(t, engine.New(), &Config{MemoryLimitPages: 1})

	m := wasmtest.New()
	m.Memory(2)
	m.Func("_start", 0, 0, nil)
	if _, err := rt.LoadApp(ctx, m.Bytes()); err == nil {
		t.Error("LoadApp() with memory above limit succeeded, want error")
	}
}
