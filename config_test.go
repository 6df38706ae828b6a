package makerbus_test

import (
	"errors"
	"testing"
	"time"

	"github.com/makerbus/makerbus"
)

func TestConfigVerify(t *testing.T) {
	cases := []struct {
		name string
		cfg  makerbus.Config
		ok   bool
	}{
		{"valid", makerbus.DefaultConfig("/dev/ttyUSB0"), true},
		{"no device", withDevice(makerbus.DefaultConfig("/dev/ttyUSB0"), ""), false},
		{"zero baud", withBaud(makerbus.DefaultConfig("/dev/ttyUSB0"), 0), false},
		{"bad data bits", withDataBits(makerbus.DefaultConfig("/dev/ttyUSB0"), 9), false},
		{"zero timeout", withTimeout(makerbus.DefaultConfig("/dev/ttyUSB0"), 0), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.cfg.Verify()
			if c.ok && err != nil {
				t.Errorf("Verify() = %v, want nil", err)
			}
			if !c.ok && !errors.Is(err, makerbus.ErrInvalidConfig) {
				t.Errorf("Verify() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func withDevice(cfg makerbus.Config, device string) makerbus.Config {
	cfg.Device = device
	return cfg
}

func withBaud(cfg makerbus.Config, baud int) makerbus.Config {
	cfg.Baud = baud
	return cfg
}

func withDataBits(cfg makerbus.Config, bits int) makerbus.Config {
	cfg.DataBits = bits
	return cfg
}

func withTimeout(cfg makerbus.Config, d time.Duration) makerbus.Config {
	cfg.ReadTimeout = d
	return cfg
}
