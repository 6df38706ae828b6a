package makerbus

// This file implements the typed put/get codec described by the wire
// format's closed variant set {Byte, UByte, Short, UShort, Int, UInt,
// Logical, Character}. Each has a dedicated encode/decode pair rather than
// the source's string-tag dispatch, so the compiler - not a runtime switch -
// enforces that every call site uses a real variant.

// PutUByte appends an unsigned byte to the open request.
func (b *Bus) PutUByte(v byte) {
	b.request = append(b.request, v)
}

// PutByte appends a signed byte to the open request, masked to its 8-bit
// two's-complement representation.
func (b *Bus) PutByte(v int8) {
	b.PutUByte(byte(v))
}

// PutUShort appends an unsigned 16-bit value to the open request, high byte
// first.
func (b *Bus) PutUShort(v uint16) {
	b.request = append(b.request, byte(v>>8), byte(v))
}

// PutShort appends a signed 16-bit value to the open request, masked to its
// 16-bit two's-complement representation.
func (b *Bus) PutShort(v int16) {
	b.PutUShort(uint16(v))
}

// PutUInt appends an unsigned 32-bit value to the open request, high byte
// first.
func (b *Bus) PutUInt(v uint32) {
	b.request = append(b.request, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// PutInt appends a signed 32-bit value to the open request, masked to its
// 32-bit two's-complement representation.
func (b *Bus) PutInt(v int32) {
	b.PutUInt(uint32(v))
}

// PutLogical appends a single byte: 1 if v is true, 0 otherwise.
func (b *Bus) PutLogical(v bool) {
	if v {
		b.PutUByte(1)
	} else {
		b.PutUByte(0)
	}
}

// PutCharacter appends the low byte of a code point to the open request.
func (b *Bus) PutCharacter(v rune) {
	b.PutUByte(byte(v))
}

// takeByte pops the front byte of the response buffer. It returns ok=false
// on an empty buffer instead of panicking - a caller that over-reads a short
// or checksum-discarded response gets zero values back, and is expected to
// consult LastError / ResponseEnd rather than rely on a panic to notice.
func (b *Bus) takeByte() (byte, bool) {
	if len(b.response) == 0 {
		return 0, false
	}
	v := b.response[0]
	b.response = b.response[1:]
	return v, true
}

// GetUByte consumes and returns the next unsigned byte from the response.
func (b *Bus) GetUByte() byte {
	v, _ := b.takeByte()
	return v
}

// GetByte consumes and returns the next byte from the response, sign
// extended from its 8th bit.
func (b *Bus) GetByte() int8 {
	v, _ := b.takeByte()
	return int8(v)
}

// GetUShort consumes and returns the next unsigned 16-bit value (high byte
// first) from the response.
func (b *Bus) GetUShort() uint16 {
	hi, _ := b.takeByte()
	lo, _ := b.takeByte()
	return uint16(hi)<<8 | uint16(lo)
}

// GetShort consumes and returns the next 16-bit value from the response,
// sign extended from its 16th bit.
func (b *Bus) GetShort() int16 {
	return int16(b.GetUShort())
}

// GetUInt consumes and returns the next unsigned 32-bit value (high byte
// first) from the response.
func (b *Bus) GetUInt() uint32 {
	a, _ := b.takeByte()
	c, _ := b.takeByte()
	d, _ := b.takeByte()
	e, _ := b.takeByte()
	return uint32(a)<<24 | uint32(c)<<16 | uint32(d)<<8 | uint32(e)
}

// GetInt consumes and returns the next 32-bit value from the response, sign
// extended from its 32nd bit.
func (b *Bus) GetInt() int32 {
	return int32(b.GetUInt())
}

// GetLogical consumes the next byte and reports whether it was non-zero.
func (b *Bus) GetLogical() bool {
	v, _ := b.takeByte()
	return v != 0
}

// GetCharacter consumes the next byte and returns it as a code point.
func (b *Bus) GetCharacter() rune {
	v, _ := b.takeByte()
	return rune(v)
}
