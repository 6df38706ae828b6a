package makerbus

import "errors"

var (
	// ErrTimeout indicates that no byte arrived on the channel within the
	// configured read timeout. The bus invalidates its selected address
	// whenever this occurs during an address select or a flush.
	ErrTimeout = errors.New("makerbus: read timeout")
	// ErrChecksumMismatch indicates that a reply's folded nibble-sum checksum
	// did not match its declared header checksum. The response buffer is
	// discarded when this happens; the caller's next Get call sees an empty
	// response.
	ErrChecksumMismatch = errors.New("makerbus: response checksum mismatch")
	// ErrResetFailed indicates that a bus reset did not elicit the 0xA5
	// acknowledgement byte from the bus.
	ErrResetFailed = errors.New("makerbus: bus reset not acknowledged")
	// ErrDiscoveryAborted indicates that a discovery scan was interrupted by
	// a failed read (a timeout or a channel error) before the terminating
	// sentinel line was seen. Any
	// identifiers collected so far are still returned alongside this error.
	ErrDiscoveryAborted = errors.New("makerbus: discovery aborted")
	// ErrInvalidConfig signals a malformed Config.
	ErrInvalidConfig = errors.New("makerbus: given parameter violates restriction")
	// ErrChannel wraps an error surfaced by the underlying Channel
	// implementation (e.g. the serial port driver).
	ErrChannel = errors.New("makerbus: channel error")
)

// wrapChannel tags an error returned by a Channel implementation so callers
// can distinguish it from protocol-level failures with errors.Is(err, ErrChannel).
func wrapChannel(err error) error {
	if err == nil {
		return nil
	}
	return &channelError{err: err}
}

type channelError struct {
	err error
}

func (e *channelError) Error() string {
	return "makerbus: channel error: " + e.err.Error()
}

func (e *channelError) Unwrap() error {
	return e.err
}

func (e *channelError) Is(target error) bool {
	return target == ErrChannel
}
