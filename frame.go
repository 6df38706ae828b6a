package makerbus

// Reserved single bytes that share the wire with escaped 9-bit frames.
// 0xC1..0xC3 are the escape prefixes emitFrame produces (0xC0 lies outside
// the reserved window and is sent as a plain byte); 0xC4 and 0xC5 are
// literal bus-control bytes and are never carried inside a frame.
const (
	escapePrefixMask byte = 0xC0
	reservedLow           = 0xC1
	reservedHigh          = 0xC5

	// DiscoveryTrigger is the literal byte the host writes to start a
	// discovery scan.
	DiscoveryTrigger byte = 0xC4
	// ResetTrigger is the literal byte the host writes to broadcast a bus
	// reset.
	ResetTrigger byte = 0xC5
	// ResetAck is the byte a module replies with after a successful
	// ResetTrigger.
	ResetAck byte = 0xA5

	// addressFrameBit marks a 9-bit frame as an address selection rather
	// than a plain payload byte.
	addressFrameBit uint16 = 0x100
)

// isReservedFrame reports whether a 9-bit frame value must be emitted as a
// two-byte escape pair: either it doesn't fit in a byte, or it falls inside
// the reserved single-byte window 0xC1..0xC5.
func isReservedFrame(frame uint16) bool {
	return frame > 0xFF || (frame >= reservedLow && frame <= reservedHigh)
}

// emitFrame writes a 9-bit frame to ch, escaping it into a two-byte pair
// when required by isReservedFrame and as a single literal byte otherwise.
func emitFrame(ch Channel, frame uint16) error {
	if isReservedFrame(frame) {
		hi := escapePrefixMask | byte((frame>>7)&0x03)
		lo := byte(frame & 0x7F)
		return wrapChannel(ch.WriteBytes([]byte{hi, lo}))
	}
	return wrapChannel(ch.WriteByte(byte(frame)))
}

// decodeFrame reads a single plain byte from ch and returns it as a 9-bit
// frame value. Per the wire protocol, a module only ever replies with plain
// bytes in frame headers and payloads - the host never has to decode an
// escape pair coming back off the wire.
func decodeFrame(ch Channel, timeout int) (uint16, error) {
	b, err := ch.ReadByte(timeout)
	if err != nil {
		return 0, err
	}
	return uint16(b), nil
}

// decodeEscaped reads one frame from read, reconstructing a 9-bit value out
// of an escape pair when the first byte is an escape prefix (0xC1..0xC3; a
// plain 0xC0 is returned as is). It mirrors what a module's own UART-side
// decoder does when receiving host-emitted frames, and is used by the frame
// codec's own round-trip tests (Simulator decodes the same way through its
// takeEscaped helper) - the Bus itself never needs it, since the host is
// never on the receiving end of an escaped frame.
func decodeEscaped(read func() (byte, error)) (uint16, error) {
	b, err := read()
	if err != nil {
		return 0, err
	}
	if b > escapePrefixMask && b <= escapePrefixMask|0x03 {
		lo, err := read()
		if err != nil {
			return 0, err
		}
		hi := uint16(b&0x03) << 7
		return hi | uint16(lo&0x7F), nil
	}
	return uint16(b), nil
}

// addressFrame returns the 9-bit frame value used to select address.
func addressFrame(address byte) uint16 {
	return addressFrameBit | uint16(address)
}

// acknowledged reports whether address requires a one-byte acknowledgement
// after selection (bit 7 clear).
func acknowledged(address byte) bool {
	return address&0x80 == 0
}

// checksum computes the folded nibble-sum checksum used by both request
// headers and response headers.
func checksum(payload []byte) byte {
	var s int
	for _, b := range payload {
		s += int(b)
	}
	return byte((s + (s >> 4)) & 0x0F)
}
