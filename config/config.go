// Package config loads the platform configuration: logging, runtime
// settings and the driver wired for each capability.
//
// A config file is YAML:
//
//	log:
//	  level: info
//	  format: console
//	runtime:
//	  memory_limit_pages: 16
//	  wasi: true
//	  require_signed: false
//	  entry: ""
//	  digest: sha512
//	drivers:
//	  gpio: {driver: sim}
//	  i2c: {driver: sim, devices: [0x50]}
//	  spi: {driver: sim}
//	  uart: {driver: none}
//
// Values absent from the file keep their Default. Unknown keys are errors.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/wasm-embedded/engine"
	"github.com/wippyai/wasm-embedded/errors"
	"github.com/wippyai/wasm-embedded/hal"
	"github.com/wippyai/wasm-embedded/manifest"
	"github.com/wippyai/wasm-embedded/runtime"
	"github.com/wippyai/wasm-embedded/sim"
)

// Driver names accepted in DriverConfig.Driver. An empty name is DriverNone.
const (
	DriverSim  = "sim"
	DriverNone = "none"
)

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// maxMemoryPages is the wasm32 limit of 4GiB.
const maxMemoryPages = 65536

// Config is the platform configuration.
type Config struct {
	// Log configures the zap logger built by Logger.
	Log LogConfig `yaml:"log"`

	// Runtime configures app loading and execution.
	Runtime RuntimeConfig `yaml:"runtime"`

	// Drivers selects a driver per capability.
	Drivers DriversConfig `yaml:"drivers"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`

	// Format is "console" or "json".
	// Default: console
	Format string `yaml:"format"`
}

// RuntimeConfig configures the wasm runtime.
type RuntimeConfig struct {
	// MemoryLimitPages caps guest memory in 64KiB pages. 0 means no cap
	// beyond the wasm32 limit.
	MemoryLimitPages uint32 `yaml:"memory_limit_pages"`

	// WASI registers wasi_snapshot_preview1 for guests.
	// Default: true
	WASI bool `yaml:"wasi"`

	// RequireSigned rejects bundles without a verifiable signature.
	RequireSigned bool `yaml:"require_signed"`

	// Entry overrides the exported function run by default.
	Entry string `yaml:"entry"`

	// Digest names the manifest digest algorithm.
	// Default: sha512
	Digest string `yaml:"digest"`
}

// DriversConfig selects a driver for each capability.
type DriversConfig struct {
	GPIO DriverConfig `yaml:"gpio"`
	I2C  DriverConfig `yaml:"i2c"`
	SPI  DriverConfig `yaml:"spi"`
	UART DriverConfig `yaml:"uart"`
}

// DriverConfig selects one driver.
type DriverConfig struct {
	// Driver is "sim" or "none".
	Driver string `yaml:"driver"`

	// Devices lists responding I2C addresses for the sim driver. Empty
	// means every address responds.
	Devices []uint16 `yaml:"devices,omitempty"`
}

// Default returns the default configuration: console logging at info,
// WASI enabled, SHA-512 digests and simulated drivers for every capability.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: FormatConsole,
		},
		Runtime: RuntimeConfig{
			WASI:   true,
			Digest: manifest.SHA512.String(),
		},
		Drivers: DriversConfig{
			GPIO: DriverConfig{Driver: DriverSim},
			I2C:  DriverConfig{Driver: DriverSim},
			SPI:  DriverConfig{Driver: DriverSim},
			UART: DriverConfig{Driver: DriverSim},
		},
	}
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.PhaseConfig, errors.KindNotFound).
			Detail("read %s", path).
			Cause(err).
			Build()
	}
	return Parse(data)
}

// Parse decodes YAML over Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "decode yaml")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level", c.Log.Level)
	}
	switch c.Log.Format {
	case FormatConsole, FormatJSON:
	default:
		return invalid("log.format", c.Log.Format)
	}

	if c.Runtime.MemoryLimitPages > maxMemoryPages {
		return errors.Overflow(errors.PhaseConfig, c.Runtime.MemoryLimitPages, "memory pages")
	}
	if _, err := manifest.ParseAlgorithm(c.Runtime.Digest); err != nil {
		return invalid("runtime.digest", c.Runtime.Digest)
	}

	for _, d := range c.Drivers.all() {
		switch d.cfg.Driver {
		case "", DriverNone, DriverSim:
		default:
			return invalid("drivers."+d.capability.String()+".driver", d.cfg.Driver)
		}
		if len(d.cfg.Devices) > 0 && d.capability != hal.CapI2C {
			return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Capability(d.capability.String()).
				Detail("devices only apply to i2c").
				Build()
		}
	}
	return nil
}

func invalid(field, value string) error {
	return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Value(value).
		Detail("invalid %s", field).
		Build()
}

type capabilityDriver struct {
	capability hal.Capability
	cfg        DriverConfig
}

func (d DriversConfig) all() []capabilityDriver {
	return []capabilityDriver{
		{hal.CapGPIO, d.GPIO},
		{hal.CapI2C, d.I2C},
		{hal.CapSPI, d.SPI},
		{hal.CapUART, d.UART},
	}
}

// Engine builds an engine with the configured drivers. Capabilities set to
// "none" stay unwired.
func (c *Config) Engine() *engine.Engine {
	var opts []engine.Option
	if c.Drivers.GPIO.Driver == DriverSim {
		opts = append(opts, engine.WithGPIO(sim.NewGPIO()))
	}
	if c.Drivers.I2C.Driver == DriverSim {
		opts = append(opts, engine.WithI2C(sim.NewI2C(c.Drivers.I2C.Devices...)))
	}
	if c.Drivers.SPI.Driver == DriverSim {
		opts = append(opts, engine.WithSPI(sim.NewSPI()))
	}
	if c.Drivers.UART.Driver == DriverSim {
		opts = append(opts, engine.WithUART(sim.NewUART()))
	}
	return engine.New(opts...)
}

// Logger builds a zap logger at the configured level and format, writing
// to stderr.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var zc zap.Config
	if c.Log.Format == FormatJSON {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}

// RuntimeConfig returns the runtime settings. Stdio and args are left to
// the caller.
func (c *Config) RuntimeConfig() (*runtime.Config, error) {
	alg, err := manifest.ParseAlgorithm(c.Runtime.Digest)
	if err != nil {
		return nil, err
	}
	return &runtime.Config{
		Entry:            c.Runtime.Entry,
		MemoryLimitPages: c.Runtime.MemoryLimitPages,
		Algorithm:        alg,
		WASI:             c.Runtime.WASI,
		RequireSigned:    c.Runtime.RequireSigned,
	}, nil
}
