package makerbus

// Simulator is an in-memory stand-in for a MakerBus module. It implements
// Channel directly, so a Bus can be pointed at one without any real UART in
// the loop, and dispatches inbound commands to registered Handlers the same
// way the configurator's generated module firmware would - one callback per
// command number. It exists for exercising a Bus (or code built on top of a
// Module) end to end in tests.
//
// Simulator only understands the host-to-module direction of the wire
// protocol: it decodes whatever the host just wrote (escape pairs
// included, since unlike the host a module must be able to receive them)
// on FlushOut, and queues up the module's reply for the host's subsequent
// ReadByte calls.
type Simulator struct {
	// Address is the address this simulated module answers to.
	Address byte
	// Handlers maps a command number to a function producing the reply
	// payload for a request payload. A command with no registered handler
	// replies with an empty payload.
	Handlers map[byte]func(req []byte) []byte
	// Identifiers is returned, one per line, by a discovery scan.
	Identifiers []string

	in      []byte
	out     []byte
	pending bool // true once an address frame has selected this module
}

var _ Channel = (*Simulator)(nil)

// NewSimulator returns a Simulator answering to address with the given
// command handlers.
func NewSimulator(address byte, handlers map[byte]func(req []byte) []byte) *Simulator {
	if handlers == nil {
		handlers = map[byte]func(req []byte) []byte{}
	}
	return &Simulator{Address: address, Handlers: handlers}
}

func (s *Simulator) WriteByte(b byte) error {
	s.in = append(s.in, b)
	return nil
}

func (s *Simulator) WriteBytes(b []byte) error {
	s.in = append(s.in, b...)
	return nil
}

// FlushOut is where the simulator actually does work: it is the host's
// signal that a batch of writes forms a complete unit (an address frame, a
// discovery/reset trigger, or one or more request frames), so it is the
// natural point to decode what arrived and stage a reply.
func (s *Simulator) FlushOut() error {
	for len(s.in) > 0 {
		switch s.in[0] {
		case DiscoveryTrigger:
			s.in = s.in[1:]
			s.replyDiscovery()
		case ResetTrigger:
			s.in = s.in[1:]
			s.out = append(s.out, ResetAck)
			s.pending = false
		default:
			frame, rest, err := takeEscaped(s.in)
			if err != nil {
				return err
			}
			s.in = rest
			if frame&addressFrameBit != 0 {
				addr := byte(frame)
				s.pending = addr == s.Address
				if s.pending && acknowledged(addr) {
					s.out = append(s.out, 0x00)
				}
				continue
			}
			s.handleRequestHeader(byte(frame))
		}
	}
	return nil
}

// handleRequestHeader decodes one request frame (header plus its payload)
// out of s.in, given the header byte already taken off the front, and - if
// this module is currently selected - stages the reply frame.
func (s *Simulator) handleRequestHeader(header byte) {
	n := int(header >> 4)
	want := header & 0x0F

	payload := make([]byte, 0, n)
	for i := 0; i < n; i++ {
		frame, rest, err := takeEscaped(s.in)
		if err != nil {
			return
		}
		s.in = rest
		payload = append(payload, byte(frame))
	}
	if checksum(payload) != want || !s.pending || n == 0 {
		return
	}

	handler := s.Handlers[payload[0]]
	var res []byte
	if handler != nil {
		res = handler(payload[1:])
	}
	if len(res) > 15 {
		res = res[:15]
	}
	resHeader := (byte(len(res)) << 4) | checksum(res)
	s.stageEscaped(uint16(resHeader))
	for _, b := range res {
		s.stageEscaped(uint16(b))
	}
}

func (s *Simulator) replyDiscovery() {
	for _, id := range s.Identifiers {
		s.out = append(s.out, '+')
		s.out = append(s.out, id...)
		s.out = append(s.out, '\n')
	}
	s.out = append(s.out, '!', '\n')
}

// stageEscaped appends frame to the outbound queue as a single plain byte,
// the way a module's own transmitter sends it - modules reply with plain
// bytes only, never escape pairs, which is what the Bus's decodeFrame reads.
func (s *Simulator) stageEscaped(frame uint16) {
	s.out = append(s.out, byte(frame))
}

func (s *Simulator) ReadByte(timeoutMillis int) (byte, error) {
	if len(s.out) == 0 {
		return 0, ErrTimeout
	}
	b := s.out[0]
	s.out = s.out[1:]
	return b, nil
}

func (s *Simulator) ClearInput() error {
	s.in = s.in[:0]
	return nil
}

// takeEscaped decodes one frame off the front of buf, returning the frame
// value and the remaining bytes. Like decodeEscaped, it treats 0xC1..0xC3 as
// escape prefixes and a plain 0xC0 as an ordinary byte.
func takeEscaped(buf []byte) (uint16, []byte, error) {
	if len(buf) == 0 {
		return 0, nil, ErrTimeout
	}
	b := buf[0]
	if b > escapePrefixMask && b <= escapePrefixMask|0x03 {
		if len(buf) < 2 {
			return 0, nil, ErrTimeout
		}
		hi := uint16(b&0x03) << 7
		return hi | uint16(buf[1]&0x7F), buf[2:], nil
	}
	return uint16(b), buf[1:], nil
}
