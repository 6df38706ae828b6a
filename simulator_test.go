package makerbus_test

import (
	"testing"

	"github.com/makerbus/makerbus"
)

// TestSimulatorEndToEnd drives a Bus against a Simulator standing in for a
// real module, exercising escape-pair encoding (the command number below is
// inside the reserved byte window and must round trip through both sides'
// escaping) and command dispatch together.
func TestSimulatorEndToEnd(t *testing.T) {
	const moduleAddress = 0x05
	const command = 0xC2 // falls inside the reserved byte window, forces escaping

	sim := makerbus.NewSimulator(moduleAddress, map[byte]func(req []byte) []byte{
		command: func(req []byte) []byte {
			sum := 0
			for _, b := range req {
				sum += int(b)
			}
			return []byte{byte(sum)}
		},
	})

	bus := makerbus.NewBus(sim)
	if err := bus.RequestBegin(moduleAddress, command); err != nil {
		t.Fatalf("RequestBegin: %v", err)
	}
	bus.PutUByte(10)
	bus.PutUByte(20)
	if err := bus.RequestEnd(); err != nil {
		t.Fatalf("RequestEnd: %v", err)
	}

	if got := bus.GetUByte(); got != 30 {
		t.Errorf("GetUByte() = %d, want 30", got)
	}
	if err := bus.ResponseEnd(); err != nil {
		t.Errorf("ResponseEnd: %v", err)
	}
}

func TestSimulatorDiscovery(t *testing.T) {
	sim := makerbus.NewSimulator(0x05, nil)
	sim.Identifiers = []string{"board-a", "board-b"}

	bus := makerbus.NewBus(sim)
	ids, err := bus.Discover()
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{"board-a", "board-b"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestSimulatorReset(t *testing.T) {
	sim := makerbus.NewSimulator(0x05, nil)
	bus := makerbus.NewBus(sim)
	if err := bus.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
}

func TestSimulatorIgnoresUnselectedModule(t *testing.T) {
	const otherAddress = 0x06
	const command = 0x01

	sim := makerbus.NewSimulator(otherAddress, map[byte]func(req []byte) []byte{
		command: func(req []byte) []byte { return []byte{0xFF} },
	})

	bus := makerbus.NewBus(sim, makerbus.WithReadTimeout(1))
	if err := bus.RequestBegin(0x05, command); err == nil {
		t.Error("expected an address-acknowledgement timeout: the simulator answers to 0x06, not 0x05")
	}
}
