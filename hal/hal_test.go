package hal

import (
	"errors"
	"fmt"
	"testing"
)

func TestNullDrivers_Unsupported(t *testing.T) {
	var (
		gpio GPIO = NullGPIO{}
		i2c  I2C  = NullI2C{}
		spi  SPI  = NullSPI{}
		uart UART = NullUART{}
	)
	buf := make([]byte, 4)

	calls := map[string]func() error{
		"gpio.init":   func() error { _, err := gpio.Init(0, 1, true); return err },
		"gpio.deinit": func() error { return gpio.Deinit(0) },
		"gpio.set":    func() error { return gpio.Set(0, High) },
		"gpio.get":    func() error { _, err := gpio.Get(0); return err },
		"i2c.init":    func() error { _, err := i2c.Init(0, 100000, 4, 5); return err },
		"i2c.deinit":  func() error { return i2c.Deinit(0) },
		"i2c.write":   func() error { return i2c.Write(0, 0x50, buf) },
		"i2c.read":    func() error { return i2c.Read(0, 0x50, buf) },
		"i2c.write_read": func() error {
			return i2c.WriteRead(0, 0x50, buf[:1], buf[1:])
		},
		"spi.init":     func() error { _, err := spi.Init(0, 1000000, 1, 2, 3, 4); return err },
		"spi.deinit":   func() error { return spi.Deinit(0) },
		"spi.read":     func() error { return spi.Read(0, buf) },
		"spi.write":    func() error { return spi.Write(0, buf) },
		"spi.transfer": func() error { return spi.Transfer(0, buf[:2], buf[2:]) },
		"spi.transfer_inplace": func() error {
			return spi.TransferInPlace(0, buf)
		},
		"uart.init":   func() error { _, err := uart.Init(0, 115200, 1, 2); return err },
		"uart.deinit": func() error { return uart.Deinit(0) },
		"uart.write":  func() error { return uart.Write(0, 0, buf) },
		"uart.read":   func() error { return uart.Read(0, 0, buf) },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, Unsupported) {
				t.Errorf("err = %v, want %v", err, Unsupported)
			}
		})
	}
}

func TestNullDrivers_InvalidHandle(t *testing.T) {
	h, _ := NullGPIO{}.Init(0, 0, false)
	if h >= 0 {
		t.Errorf("NullGPIO.Init handle = %d, want negative", h)
	}
	h, _ = NullI2C{}.Init(0, 0, 0, 0)
	if h >= 0 {
		t.Errorf("NullI2C.Init handle = %d, want negative", h)
	}
}

func TestErrorOf(t *testing.T) {
	tests := []struct {
		err    error
		name   string
		want   Error
		wantOK bool
	}{
		{name: "nil", err: nil, wantOK: false},
		{name: "direct", err: NoDevice, want: NoDevice, wantOK: true},
		{name: "wrapped", err: fmt.Errorf("bus 2: %w", Failed), want: Failed, wantOK: true},
		{name: "foreign", err: errors.New("boom"), want: Unexpected, wantOK: true},
		{name: "out of range", err: Error(42), want: Unexpected, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ErrorOf(tt.err)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ErrorOf = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestError_Strings(t *testing.T) {
	seen := make(map[string]Error)
	for _, e := range Errors {
		if !e.Valid() {
			t.Errorf("%d not valid", e)
		}
		msg := e.Error()
		if prev, dup := seen[msg]; dup {
			t.Errorf("%d and %d share message %q", prev, e, msg)
		}
		seen[msg] = e
	}
	if Error(0).Valid() {
		t.Error("zero Error should not be valid")
	}
}

func TestParseCapability(t *testing.T) {
	for _, c := range Capabilities {
		got, err := ParseCapability(c.String())
		if err != nil {
			t.Fatalf("ParseCapability(%q): %v", c, err)
		}
		if got != c {
			t.Errorf("ParseCapability(%q) = %v, want %v", c, got, c)
		}
	}
	if _, err := ParseCapability("can"); err == nil {
		t.Error("expected error for unknown capability")
	}
}
