package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-embedded/runtime"
)

func runApp(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("wasme run", stderr)
	configPath := fs.StringP("config", "c", "", "platform config file (default: simulated drivers)")
	entry := fs.StringP("entry", "e", "", "exported function to run")
	metaPath := fs.String("meta", "", "app metadata file (requires --manifest)")
	manifestPath := fs.String("manifest", "", "verify the app against this manifest before running")
	requireSigned := fs.Bool("require-signed", false, "reject bundles without a verifiable signature")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("run: missing app path")
	}
	if (*metaPath == "") != (*manifestPath == "") {
		return fmt.Errorf("run: --meta and --manifest must be given together")
	}
	appPath := fs.Arg(0)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer logger.Sync()
	setLoggers(logger)

	rc, err := cfg.RuntimeConfig()
	if err != nil {
		return err
	}
	rc.Stdout = stdout
	rc.Stderr = stderr
	rc.Args = append([]string{filepath.Base(appPath)}, fs.Args()[1:]...)
	if *entry != "" {
		rc.Entry = *entry
	}
	if *requireSigned {
		rc.RequireSigned = true
	}

	appBin, err := os.ReadFile(appPath)
	if err != nil {
		return fmt.Errorf("read app: %w", err)
	}

	ctx := context.Background()
	eng := cfg.Engine()
	rt, err := runtime.New(ctx, eng, rc)
	if err != nil {
		return err
	}
	defer rt.Close(ctx)

	var app *runtime.App
	if *manifestPath != "" {
		meta, err := os.ReadFile(*metaPath)
		if err != nil {
			return fmt.Errorf("read metadata: %w", err)
		}
		manifestBin, err := os.ReadFile(*manifestPath)
		if err != nil {
			return fmt.Errorf("read manifest: %w", err)
		}
		app, err = rt.LoadBundle(ctx, appBin, meta, manifestBin)
		if err != nil {
			return err
		}
	} else {
		app, err = rt.LoadApp(ctx, appBin)
		if err != nil {
			return err
		}
	}
	defer app.Close(ctx)

	logger.Info("loaded app",
		zap.String("path", appPath),
		zap.Stringers("imports", app.Imports()),
		zap.Stringers("wired", eng.Capabilities()))

	inst, err := app.Instantiate(ctx)
	if err != nil {
		return err
	}
	defer inst.Close(ctx)

	return inst.Run(ctx)
}
