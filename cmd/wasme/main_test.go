package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wippyai/wasm-embedded/internal/wasmtest"
	"github.com/wippyai/wasm-embedded/manifest"
)

// blink exports "blink", which opens GPIO pin (0, 2) as output and
// drives it high.
func blink() []byte {
	m := wasmtest.New()
	m.Memory(1)
	initFn := m.Import("gpio", "init", 4, 1)
	setFn := m.Import("gpio", "set", 2, 1)
	body := wasmtest.CallDrop(initFn, 0, 2, 1, 64)
	body = append(body, wasmtest.CallDrop(setFn, 1, 1)...)
	m.Func("blink", 0, 0, body)
	return m.Bytes()
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), err
}

func TestBundleWorkflow(t *testing.T) {
	dir := t.TempDir()
	appPath := filepath.Join(dir, "blink.wasm")
	metaPath := filepath.Join(dir, "blink.meta")
	manifestPath := filepath.Join(dir, "blink.manifest")
	if err := os.WriteFile(appPath, blink(), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := runCLI(t, "meta", "build", "--name", "blink", "--entry", "blink", "--cap", "gpio", "-o", metaPath); err != nil {
		t.Fatalf("meta build: %v", err)
	}
	if _, err := runCLI(t, "manifest", "build", "--app", appPath, "--meta", metaPath, "-o", manifestPath); err != nil {
		t.Fatalf("manifest build: %v", err)
	}

	bin, err := os.ReadFile(manifestPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(bin) != manifest.Size {
		t.Errorf("manifest size = %d, want %d", len(bin), manifest.Size)
	}

	out, err := runCLI(t, "manifest", "show", manifestPath)
	if err != nil {
		t.Fatalf("manifest show: %v", err)
	}
	for _, want := range []string{"version   1", "sig       unsigned", "key       none"} {
		if !strings.Contains(out, want) {
			t.Errorf("manifest show output missing %q:\n%s", want, out)
		}
	}

	out, err = runCLI(t, "manifest", "verify", "--app", appPath, "--meta", metaPath, manifestPath)
	if err != nil {
		t.Fatalf("manifest verify: %v", err)
	}
	if !strings.HasPrefix(out, "ok:") {
		t.Errorf("manifest verify output = %q, want ok", out)
	}

	if _, err := runCLI(t, "manifest", "verify", "--app", metaPath, "--meta", metaPath, manifestPath); err == nil {
		t.Error("manifest verify with wrong app succeeded, want error")
	}

	if _, err := runCLI(t, "run", "--meta", metaPath, "--manifest", manifestPath, appPath); err != nil {
		t.Errorf("run bundle: %v", err)
	}
	if _, err := runCLI(t, "run", "--require-signed", "--meta", metaPath, "--manifest", manifestPath, appPath); err == nil {
		t.Error("run unsigned bundle with --require-signed succeeded, want error")
	}
}

func TestRun_Config(t *testing.T) {
	dir := t.TempDir()
	appPath := filepath.Join(dir, "blink.wasm")
	cfgPath := filepath.Join(dir, "platform.yaml")
	if err := os.WriteFile(appPath, blink(), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfgPath, []byte("log: {level: error}\nruntime: {entry: blink}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := runCLI(t, "run", "-c", cfgPath, appPath); err != nil {
		t.Errorf("run with config entry: %v", err)
	}
	if _, err := runCLI(t, "run", appPath); err == nil {
		t.Error("run without entry succeeded, want entry not found")
	}
	if _, err := runCLI(t, "run", "--entry", "missing", appPath); err == nil {
		t.Error("run --entry missing succeeded, want error")
	}
	if _, err := runCLI(t, "run", "--meta", "x", appPath); err == nil {
		t.Error("run with --meta only succeeded, want error")
	}
}

func TestMetaBuild_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no name", []string{"meta", "build"}},
		{"unknown cap", []string{"meta", "build", "--name", "x", "--cap", "can"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); err == nil {
				t.Errorf("run(%v) succeeded, want error", tt.args)
			}
		})
	}
}

func TestCommands(t *testing.T) {
	tests := []struct {
		args    []string
		wantErr bool
	}{
		{nil, true},
		{[]string{"help"}, false},
		{[]string{"bogus"}, true},
		{[]string{"manifest"}, true},
		{[]string{"manifest", "sign"}, true},
		{[]string{"meta", "show"}, true},
		{[]string{"run", "--help"}, false},
		{[]string{"manifest", "build", "--digest", "md5"}, true},
	}

	for _, tt := range tests {
		_, err := runCLI(t, tt.args...)
		if (err != nil) != tt.wantErr {
			t.Errorf("run(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
		}
	}
}

func TestRenderManifest(t *testing.T) {
	m, err := manifest.NewBuilder().AppBin([]byte("app")).Flags(0x12).Build()
	if err != nil {
		t.Fatal(err)
	}

	plain := renderManifest(m, false)
	if !strings.Contains(plain, "flags     0x0012") || !strings.Contains(plain, "app       3 bytes") {
		t.Errorf("renderManifest(plain) =\n%s", plain)
	}
	if styled := renderManifest(m, true); !strings.Contains(styled, "manifest") {
		t.Errorf("renderManifest(styled) missing title:\n%s", styled)
	}
}
