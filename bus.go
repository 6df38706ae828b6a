package makerbus

import (
	"errors"
	"fmt"
	"time"
)

// noAddress is the sentinel selectedAddress value meaning "no module is
// currently selected" - the next request must emit an address frame.
const noAddress = -1

// Bus is the MakerBus protocol engine. It owns a Channel exclusively for the
// lifetime of any Flush, Reset or Discover call, and is not safe for
// concurrent use: the wire protocol is a strict request/reply handshake with
// no in-flight cancellation, so there is nothing a second goroutine could
// usefully do with the engine while one call is in progress. A caller that
// needs concurrent access should guard the Bus with its own sync.Mutex.
type Bus struct {
	channel Channel
	logger  Logger

	readTimeout time.Duration
	autoFlush   bool

	selectedAddress int
	request         []byte
	safeLen         int
	response        []byte

	lastErr error
}

// NewBus constructs a Bus over an already-open Channel. Auto-flush defaults
// to on, matching the source implementation's default, since most callers
// need the reply to continue their own work. Use Option values to override
// defaults.
func NewBus(channel Channel, opts ...Option) *Bus {
	b := &Bus{
		channel:         channel,
		logger:          noopLogger{},
		readTimeout:     time.Second,
		autoFlush:       true,
		selectedAddress: noAddress,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetAutoFlush toggles auto-flush mode. When turned on and the request
// buffer already holds a closed request, that request is flushed
// immediately.
func (b *Bus) SetAutoFlush(flush bool) {
	b.autoFlush = flush
	if flush {
		if err := b.Flush(); err != nil {
			b.recordErr(err)
		}
	}
}

// AutoFlush reports the current auto-flush mode.
func (b *Bus) AutoFlush() bool {
	return b.autoFlush
}

// LastError returns the most recent transport or checksum error observed by
// the bus. Typed Get accessors never themselves return an error - this is
// the channel through which a caller is expected to check whether the
// values it just read are trustworthy.
func (b *Bus) LastError() error {
	return b.lastErr
}

func (b *Bus) recordErr(err error) {
	if err != nil {
		b.lastErr = err
	}
}

func (b *Bus) readTimeoutMillis() int {
	return int(b.readTimeout / time.Millisecond)
}

// classifyReadErr normalizes an error returned by a Channel read into either
// ErrTimeout or a wrapped channel error, so callers can branch on
// errors.Is(err, ErrTimeout) regardless of the Channel implementation.
func classifyReadErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTimeout) {
		return ErrTimeout
	}
	return wrapChannel(err)
}

// selectAddress emits an address frame for address and, for acknowledged
// addresses (bit 7 clear), waits for and discards the module's one-byte
// acknowledgement. A timeout while waiting for that acknowledgement
// invalidates the selected address.
func (b *Bus) selectAddress(address byte) error {
	if err := emitFrame(b.channel, addressFrame(address)); err != nil {
		b.logger.Errorw("address frame write failed", "address", address, "err", err)
		return err
	}
	b.selectedAddress = int(address)

	if !acknowledged(address) {
		b.logger.Debugw("broadcast address selected", "address", address)
		return nil
	}

	if err := b.channel.FlushOut(); err != nil {
		return wrapChannel(err)
	}
	if _, err := decodeFrame(b.channel, b.readTimeoutMillis()); err != nil {
		cerr := classifyReadErr(err)
		b.selectedAddress = noAddress
		b.logger.Warnw("address acknowledgement timed out", "address", address, "err", cerr)
		return cerr
	}
	b.logger.Debugw("address selected", "address", address)
	return nil
}

// RequestBegin opens a new request addressed to address, appending command
// as its first byte. If a different address is currently selected, an
// address frame (and, for acknowledged addresses, its handshake) is emitted
// first. In auto-flush mode, any previously closed request still sitting in
// the buffer is flushed before the new one is opened.
func (b *Bus) RequestBegin(address, command byte) error {
	b.safeLen = len(b.request)

	var flushErr error
	if b.autoFlush && len(b.request) != 0 {
		flushErr = b.Flush()
	}

	var selErr error
	if int(address) != b.selectedAddress {
		selErr = b.selectAddress(address)
	}

	b.request = append(b.request, command)

	switch {
	case selErr != nil:
		b.recordErr(selErr)
		return selErr
	case flushErr != nil:
		b.recordErr(flushErr)
		return flushErr
	}
	return nil
}

// RequestEnd closes the request opened by the matching RequestBegin. If the
// request buffer grew to 16 bytes or more it is flushed immediately to stay
// under the single-frame limit. The just-closed request is then marked safe to
// flush in full, and flushed immediately if auto-flush is on. If nothing was
// appended since the matching RequestBegin (or RequestEnd is called with no
// request open at all), this is a no-op: no zero-length frame is ever put
// on the wire.
func (b *Bus) RequestEnd() error {
	if len(b.request) == b.safeLen {
		return nil
	}

	var err error
	if len(b.request) >= 16 {
		err = b.Flush()
	}
	b.safeLen = len(b.request)

	if b.autoFlush {
		if ferr := b.Flush(); ferr != nil {
			err = ferr
		}
	}
	if err != nil {
		b.recordErr(err)
	}
	return err
}

// Flush drains the request buffer one frame at a time. Each iteration emits
// a header frame plus its payload bytes, flushes the channel's send buffer,
// then reads and validates the reply. A response header timeout stops the
// loop without retrying; any request bytes left unflushed remain queued for
// a later Flush call.
func (b *Bus) Flush() error {
	for len(b.request) > 0 {
		n := len(b.request)
		if n >= 16 {
			n = b.safeLen
		}
		if n == 0 || n >= 16 {
			return newFault(FaultRequestTooLarge, fmt.Sprintf("pending=%d safe=%d", len(b.request), b.safeLen))
		}

		payload := b.request[:n]
		c := checksum(payload)
		header := (uint16(n) << 4) | uint16(c)

		if err := emitFrame(b.channel, header); err != nil {
			b.recordErr(err)
			return err
		}
		for _, bt := range payload {
			if err := emitFrame(b.channel, uint16(bt)); err != nil {
				b.recordErr(err)
				return err
			}
		}
		b.request = b.request[n:]
		b.safeLen -= n
		if b.safeLen < 0 {
			b.safeLen = 0
		}

		if err := b.channel.FlushOut(); err != nil {
			werr := wrapChannel(err)
			b.recordErr(werr)
			return werr
		}

		headerFrame, err := decodeFrame(b.channel, b.readTimeoutMillis())
		if err != nil {
			cerr := classifyReadErr(err)
			if errors.Is(cerr, ErrTimeout) {
				b.selectedAddress = noAddress
			}
			b.logger.Warnw("response header timeout", "err", cerr)
			b.recordErr(cerr)
			return cerr
		}
		responseLen := int(headerFrame >> 4)
		responseChecksum := byte(headerFrame & 0x0F)

		b.response = b.response[:0]
		for i := 0; i < responseLen; i++ {
			frame, err := decodeFrame(b.channel, b.readTimeoutMillis())
			if err != nil {
				cerr := classifyReadErr(err)
				if errors.Is(cerr, ErrTimeout) {
					b.selectedAddress = noAddress
				}
				b.logger.Warnw("response byte timeout", "err", cerr)
				b.response = b.response[:0]
				b.recordErr(cerr)
				return cerr
			}
			b.response = append(b.response, byte(frame))
		}

		if checksum(b.response) != responseChecksum {
			b.response = b.response[:0]
			b.logger.Warnw("response checksum mismatch", "want", responseChecksum)
			b.recordErr(ErrChecksumMismatch)
			return ErrChecksumMismatch
		}
	}
	return nil
}

// ResponseBegin flushes any pending requests so their replies become
// available to the typed Get accessors. It is equivalent to an explicit
// Flush call.
func (b *Bus) ResponseBegin() error {
	return b.Flush()
}

// ResponseEnd asserts that the response buffer has been fully consumed. A
// non-empty buffer means the caller issued fewer Get calls than the reply
// actually carried.
func (b *Bus) ResponseEnd() error {
	if len(b.response) != 0 {
		return newFault(FaultResponseNotDrained, fmt.Sprintf("%d byte(s) left", len(b.response)))
	}
	return nil
}

// Reset broadcasts a bus reset and waits for the ResetAck byte. It
// invalidates the selected address regardless of outcome, since every
// module on the bus forgets which one was last selected.
func (b *Bus) Reset() error {
	b.selectedAddress = noAddress

	if err := b.channel.WriteByte(ResetTrigger); err != nil {
		return wrapChannel(err)
	}
	if err := b.channel.FlushOut(); err != nil {
		return wrapChannel(err)
	}
	frame, err := decodeFrame(b.channel, b.readTimeoutMillis())
	if err != nil {
		return classifyReadErr(err)
	}
	if byte(frame) != ResetAck {
		return fmt.Errorf("%w: got 0x%02X", ErrResetFailed, byte(frame))
	}
	b.logger.Debugw("bus reset")
	return nil
}

// Discover broadcasts a discovery trigger and collects module identifiers
// until the terminating sentinel line is seen. On a read timeout, discovery
// stops and returns whatever identifiers were collected so far alongside
// ErrDiscoveryAborted.
func (b *Bus) Discover() ([]string, error) {
	if err := b.channel.WriteByte(DiscoveryTrigger); err != nil {
		return nil, wrapChannel(err)
	}
	if err := b.channel.FlushOut(); err != nil {
		return nil, wrapChannel(err)
	}

	var ids []string
	var line []byte
	for {
		frame, err := decodeFrame(b.channel, b.readTimeoutMillis())
		if err != nil {
			b.logger.Warnw("discovery aborted", "err", classifyReadErr(err), "found", len(ids))
			return ids, fmt.Errorf("%w: %v", ErrDiscoveryAborted, classifyReadErr(err))
		}
		bt := byte(frame)
		if bt != '\n' {
			line = append(line, bt)
			continue
		}
		if len(line) == 0 {
			continue
		}
		if line[0] == '!' {
			if len(line) > 1 {
				ids = append(ids, string(line[1:]))
			}
			b.logger.Debugw("discovery complete", "found", len(ids))
			return ids, nil
		}
		ids = append(ids, string(line[1:]))
		line = line[:0]
	}
}
