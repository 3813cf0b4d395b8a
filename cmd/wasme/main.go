// Command wasme runs guest applications against simulated peripherals and
// builds, inspects and verifies app manifests.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-embedded/config"
	"github.com/wippyai/wasm-embedded/engine"
	"github.com/wippyai/wasm-embedded/guest"
	"github.com/wippyai/wasm-embedded/native"
	"github.com/wippyai/wasm-embedded/runtime"
)

const usage = `wasme runs WebAssembly guests on GPIO, I2C, SPI and UART drivers.

Usage:
  wasme run [flags] <app.wasm> [-- args...]
  wasme manifest build [flags]
  wasme manifest show <manifest.bin>
  wasme manifest verify [flags] <manifest.bin>
  wasme meta build [flags]

Run "wasme <command> --help" for command flags.
`

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("no command")
	}

	switch args[0] {
	case "run":
		return runApp(args[1:], stdout, stderr)
	case "manifest":
		if len(args) < 2 {
			fmt.Fprint(stderr, usage)
			return fmt.Errorf("manifest: missing subcommand")
		}
		switch args[1] {
		case "build":
			return manifestBuild(args[2:], stdout, stderr)
		case "show":
			return manifestShow(args[2:], stdout, stderr)
		case "verify":
			return manifestVerify(args[2:], stdout, stderr)
		}
		return fmt.Errorf("manifest: unknown subcommand %q", args[1])
	case "meta":
		if len(args) < 2 || args[1] != "build" {
			fmt.Fprint(stderr, usage)
			return fmt.Errorf("meta: expected build")
		}
		return metaBuild(args[2:], stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	}
	fmt.Fprint(stderr, usage)
	return fmt.Errorf("unknown command %q", args[0])
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func newFlagSet(name string, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// parse parses args and reports whether the command should continue.
func parse(fs *pflag.FlagSet, args []string) (bool, error) {
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// loadConfig reads path, or returns the defaults when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// setLoggers installs l in every package that logs.
func setLoggers(l *zap.Logger) {
	engine.SetLogger(l)
	guest.SetLogger(l)
	native.SetLogger(l)
	runtime.SetLogger(l)
}
