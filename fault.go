package makerbus

import "fmt"

// FaultCode enumerates the protocol-misuse conditions the bus detects in the
// client's own call sequence, as opposed to anything observed on the wire.
// The source implementation treats these as assertion failures; this
// implementation surfaces them as a typed error instead, so a library
// caller can decide how to fail.
type FaultCode byte

const (
	// FaultRequestTooLarge - a closed request exceeds the 15 payload bytes a
	// single frame can carry, and no prior mid-stream flush opportunity
	// drained it first. This can only happen if a caller appends more than
	// 15 bytes between a RequestBegin/RequestEnd pair without the bus ever
	// getting a chance to flush the safe prefix.
	FaultRequestTooLarge FaultCode = 0x01
	// FaultResponseNotDrained - ResponseEnd was called while bytes remained
	// in the response buffer; the caller issued fewer Get calls than the
	// reply actually carries.
	FaultResponseNotDrained FaultCode = 0x02
	// FaultCommandOverflow - a module's offset plus the caller's command
	// number does not fit in a single byte.
	FaultCommandOverflow FaultCode = 0x03
)

// Fault represents a protocol-misuse condition: a violation of the bus API
// contract by the calling code, rather than anything observed on the wire.
type Fault interface {
	error
	Code() FaultCode
}

func newFault(code FaultCode, detail string) Fault {
	return &fault{code: code, detail: detail}
}

var _ Fault = (*fault)(nil)

type fault struct {
	code   FaultCode
	detail string
}

// Code returns the underlying FaultCode.
func (f *fault) Code() FaultCode {
	return f.code
}

// Error returns a human readable string describing the fault.
func (f *fault) Error() string {
	prefix := "makerbus: protocol misuse - "
	switch f.code {
	case FaultRequestTooLarge:
		return prefix + "request too large: " + f.detail
	case FaultResponseNotDrained:
		return prefix + "response not fully consumed: " + f.detail
	case FaultCommandOverflow:
		return prefix + "command number overflows offset: " + f.detail
	}
	return prefix + fmt.Sprintf("code %v undefined", byte(f.code))
}
