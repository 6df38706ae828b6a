package makerbus

import (
	"time"

	"go.bug.st/serial"
)

// Config configures a serial-backed Bus end to end: which device to open,
// how to open it, and how the engine built on top of it should behave.
// Mirroring the source's Config/Options split, a caller that already owns a
// Channel (a test double, a pseudo-terminal, a pre-opened port) skips Config
// entirely and passes Option values straight to NewBus instead.
type Config struct {
	// Device is the OS path to the serial device, e.g. "/dev/ttyUSB0" or
	// "COM3".
	Device string
	// Baud is the line rate in bits per second.
	Baud int
	// DataBits is the number of data bits per character; 8 unless a
	// specific module family requires otherwise.
	DataBits int
	// Parity selects the serial parity mode.
	Parity serial.Parity
	// StopBits selects the number of stop bits.
	StopBits serial.StopBits
	// ReadTimeout bounds every channel read. The protocol treats a timeout
	// as fatal for the in-progress exchange, so this should comfortably
	// exceed the slowest module's worst-case reply latency.
	ReadTimeout time.Duration
	// AutoFlush sets the bus's initial auto-flush mode.
	AutoFlush bool
	// Logger receives structured diagnostics from the bus. A nil Logger
	// means no logging.
	Logger Logger
}

// DefaultConfig returns a Config with sensible line parameters for a
// MakerBus link: 8N1 at 115200 baud, a one second read timeout, and
// auto-flush on.
func DefaultConfig(device string) Config {
	return Config{
		Device:      device,
		Baud:        115200,
		DataBits:    8,
		Parity:      serial.NoParity,
		StopBits:    serial.OneStopBit,
		ReadTimeout: time.Second,
		AutoFlush:   true,
	}
}

// Verify validates cfg, rejecting malformed configuration before any I/O is
// attempted.
func (cfg *Config) Verify() error {
	switch {
	case cfg.Device == "":
		return ErrInvalidConfig
	case cfg.Baud <= 0:
		return ErrInvalidConfig
	case cfg.DataBits < 5 || cfg.DataBits > 8:
		return ErrInvalidConfig
	case cfg.ReadTimeout <= 0:
		return ErrInvalidConfig
	}
	return nil
}

// Open validates cfg, opens the configured serial device, and returns a Bus
// wired to it.
func Open(cfg Config) (*Bus, error) {
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	port, err := OpenPort(cfg)
	if err != nil {
		return nil, err
	}
	opts := []Option{WithReadTimeout(cfg.ReadTimeout), WithAutoFlush(cfg.AutoFlush)}
	if cfg.Logger != nil {
		opts = append(opts, WithLogger(cfg.Logger))
	}
	return NewBus(port, opts...), nil
}
