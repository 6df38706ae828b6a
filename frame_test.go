package makerbus

import (
	"errors"
	"testing"
)

func TestChecksum(t *testing.T) {
	cases := []struct {
		payload []byte
		want    byte
	}{
		{payload: nil, want: 0x00},
		{payload: []byte{0x01}, want: 0x01},
		{payload: []byte{0x0F, 0x01}, want: 0x01},
		{payload: []byte{0xFF, 0xFF}, want: 0x0D},
	}
	for _, c := range cases {
		if got := checksum(c.payload); got != c.want {
			t.Errorf("checksum(%v) = 0x%X, want 0x%X", c.payload, got, c.want)
		}
	}
}

func TestIsReservedFrame(t *testing.T) {
	cases := []struct {
		frame uint16
		want  bool
	}{
		{0x00, false},
		{0xC0, false},
		{0xC1, true},
		{0xC5, true},
		{0xC6, false},
		{0xFF, false},
		{0x100, true},
		{0x1FF, true},
	}
	for _, c := range cases {
		if got := isReservedFrame(c.frame); got != c.want {
			t.Errorf("isReservedFrame(0x%X) = %v, want %v", c.frame, got, c.want)
		}
	}
}

// TestFrameRoundTrip emits every 9-bit frame value through emitFrame and
// decodes the resulting bytes back with decodeEscaped, the way a module's own
// receiver would, and checks the value survives unchanged.
func TestFrameRoundTrip(t *testing.T) {
	for frame := uint16(0); frame <= 0x1FF; frame++ {
		ch := NewFakeChannel()
		if err := emitFrame(ch, frame); err != nil {
			t.Fatalf("emitFrame(0x%X): %v", frame, err)
		}
		pos := 0
		read := func() (byte, error) {
			if pos >= len(ch.Written) {
				return 0, errors.New("short write")
			}
			b := ch.Written[pos]
			pos++
			return b, nil
		}
		got, err := decodeEscaped(read)
		if err != nil {
			t.Fatalf("decodeEscaped(0x%X): %v", frame, err)
		}
		if got != frame {
			t.Errorf("round trip 0x%X -> wrote %v -> got 0x%X", frame, ch.Written, got)
		}
	}
}

func TestEmitFrameEscaping(t *testing.T) {
	ch := NewFakeChannel()
	if err := emitFrame(ch, 0x41); err != nil {
		t.Fatal(err)
	}
	if len(ch.Written) != 1 || ch.Written[0] != 0x41 {
		t.Errorf("plain byte should not be escaped, got %v", ch.Written)
	}

	ch = NewFakeChannel()
	if err := emitFrame(ch, 0xC2); err != nil {
		t.Fatal(err)
	}
	if len(ch.Written) != 2 {
		t.Fatalf("reserved byte should be escaped to two bytes, got %v", ch.Written)
	}
	if ch.Written[0]&0xFC != 0xC0 {
		t.Errorf("escape prefix byte malformed: 0x%X", ch.Written[0])
	}
}

func TestAddressFrame(t *testing.T) {
	if got := addressFrame(0x05); got != 0x105 {
		t.Errorf("addressFrame(0x05) = 0x%X, want 0x105", got)
	}
	if !acknowledged(0x05) {
		t.Error("address 0x05 should require acknowledgement")
	}
	if acknowledged(0x85) {
		t.Error("address 0x85 should be a broadcast address")
	}
}
