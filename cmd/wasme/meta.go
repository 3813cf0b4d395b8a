package main

import (
	"fmt"
	"io"

	"github.com/wippyai/wasm-embedded/manifest"
)

func metaBuild(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("wasme meta build", stderr)
	name := fs.String("name", "", "application name")
	version := fs.String("version", "", "application version")
	entry := fs.String("entry", "", "exported entry function")
	caps := fs.StringSlice("cap", nil, "capability the app uses (repeatable): gpio, i2c, spi, uart")
	out := fs.StringP("output", "o", "", "output file (default: stdout)")
	if ok, err := parse(fs, args); !ok {
		return err
	}

	md := manifest.Metadata{
		Name:         *name,
		Version:      *version,
		Entry:        *entry,
		Capabilities: *caps,
	}
	if err := md.Validate(); err != nil {
		return err
	}
	bin, err := md.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	return writeOutput(*out, bin, stdout)
}
