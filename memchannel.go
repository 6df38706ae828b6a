package makerbus

// FakeChannel is an in-memory Channel double for exercising a Bus without a
// real serial port. Preload the bytes a module would send with Feed, then
// inspect everything the bus wrote with Written. It is deliberately
// dependency-free so it can be used both inside this module's own tests and
// by a downstream caller testing code built on top of Bus or Module.
type FakeChannel struct {
	toRead  []byte
	pos     int
	Written []byte
	// TimeoutAfter, when >= 0, lets the first TimeoutAfter ReadByte calls
	// proceed normally and makes every later call return ErrTimeout instead
	// of consuming a byte, regardless of whether bytes remain in the feed. A
	// negative value (the default) never injects a timeout.
	TimeoutAfter int
	reads        int
}

// NewFakeChannel returns a FakeChannel preloaded with the bytes a module
// would send back to the host.
func NewFakeChannel(toRead ...byte) *FakeChannel {
	return &FakeChannel{toRead: toRead, TimeoutAfter: -1}
}

// Feed appends additional bytes to the read queue, as if a module had just
// transmitted them.
func (c *FakeChannel) Feed(b ...byte) {
	c.toRead = append(c.toRead, b...)
}

func (c *FakeChannel) WriteByte(b byte) error {
	c.Written = append(c.Written, b)
	return nil
}

func (c *FakeChannel) WriteBytes(b []byte) error {
	c.Written = append(c.Written, b...)
	return nil
}

func (c *FakeChannel) FlushOut() error {
	return nil
}

func (c *FakeChannel) ReadByte(timeoutMillis int) (byte, error) {
	defer func() { c.reads++ }()
	if c.TimeoutAfter >= 0 && c.reads >= c.TimeoutAfter {
		return 0, ErrTimeout
	}
	if c.pos >= len(c.toRead) {
		return 0, ErrTimeout
	}
	b := c.toRead[c.pos]
	c.pos++
	return b, nil
}

func (c *FakeChannel) ClearInput() error {
	c.toRead = c.toRead[c.pos:]
	c.pos = 0
	return nil
}
