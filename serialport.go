package makerbus

import (
	"time"

	"go.bug.st/serial"
)

// Port is the one concrete Channel this repository ships: a byte-oriented
// adapter over a real OS serial port, opened via go.bug.st/serial. Every
// other piece of the engine (Bus, Module, discovery, reset) only ever talks
// to the Channel interface, so Port is the single place hardware specifics
// - baud rate, parity, read deadlines - meet the MakerBus wire protocol.
type Port struct {
	port serial.Port
}

var _ Channel = (*Port)(nil)

// OpenPort opens the serial device named by cfg.Device with the line
// parameters in cfg and returns it as a Channel. The caller is responsible
// for calling Close when done.
func OpenPort(cfg Config) (*Port, error) {
	mode := &serial.Mode{
		BaudRate: cfg.Baud,
		DataBits: cfg.DataBits,
		Parity:   cfg.Parity,
		StopBits: cfg.StopBits,
	}
	sp, err := serial.Open(cfg.Device, mode)
	if err != nil {
		return nil, wrapChannel(err)
	}
	if err := sp.SetReadTimeout(cfg.ReadTimeout); err != nil {
		sp.Close()
		return nil, wrapChannel(err)
	}
	return &Port{port: sp}, nil
}

// Close closes the underlying serial port.
func (p *Port) Close() error {
	return p.port.Close()
}

// WriteByte writes a single byte to the port.
func (p *Port) WriteByte(b byte) error {
	_, err := p.port.Write([]byte{b})
	return err
}

// WriteBytes writes a contiguous run of bytes to the port.
func (p *Port) WriteBytes(b []byte) error {
	_, err := p.port.Write(b)
	return err
}

// FlushOut drains the OS-level send buffer.
func (p *Port) FlushOut() error {
	return p.port.Drain()
}

// ReadByte reads a single byte from the port, applying timeoutMillis as the
// port's read deadline for the duration of this call. go.bug.st/serial
// reports a deadline with zero bytes read rather than a distinct timeout
// error, so a short read is translated into ErrTimeout here.
func (p *Port) ReadByte(timeoutMillis int) (byte, error) {
	if err := p.port.SetReadTimeout(time.Duration(timeoutMillis) * time.Millisecond); err != nil {
		return 0, wrapChannel(err)
	}
	buf := make([]byte, 1)
	n, err := p.port.Read(buf)
	if err != nil {
		return 0, wrapChannel(err)
	}
	if n == 0 {
		return 0, ErrTimeout
	}
	return buf[0], nil
}

// ClearInput discards any bytes already buffered for reading.
func (p *Port) ClearInput() error {
	return p.port.ResetInputBuffer()
}
