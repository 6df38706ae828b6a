package makerbus_test

import (
	"errors"
	"testing"

	"github.com/makerbus/makerbus"
)

func TestModuleCommandOverflow(t *testing.T) {
	ch := makerbus.NewFakeChannel()
	bus := makerbus.NewBus(ch)
	m := makerbus.NewModule(bus, 0x85, 0xF0)

	var fault makerbus.Fault
	err := m.RequestBegin(0x20)
	if !errors.As(err, &fault) {
		t.Fatalf("RequestBegin() = %v, want a Fault", err)
	}
	if fault.Code() != makerbus.FaultCommandOverflow {
		t.Errorf("fault code = %v, want FaultCommandOverflow", fault.Code())
	}
}

func TestModuleForwarding(t *testing.T) {
	ch := makerbus.NewFakeChannel(0x15, 0x7E)
	bus := makerbus.NewBus(ch)
	m := makerbus.NewModule(bus, 0x85, 0x10)

	if got := m.Address(); got != 0x85 {
		t.Errorf("Address() = 0x%X, want 0x85", got)
	}

	if err := m.RequestBegin(0x05); err != nil {
		t.Fatalf("RequestBegin: %v", err)
	}
	m.PutUByte(0x00)
	if err := m.RequestEnd(); err != nil {
		t.Fatalf("RequestEnd: %v", err)
	}

	want := []byte{0xC3, 0x05, 0x26, 0x15, 0x00}
	if !bytesEqual(ch.Written, want) {
		t.Errorf("written = % X, want % X (command should be biased by offset)", ch.Written, want)
	}

	if got := m.GetUByte(); got != 0x7E {
		t.Errorf("GetUByte() = 0x%X, want 0x7E", got)
	}
	if err := m.ResponseEnd(); err != nil {
		t.Errorf("ResponseEnd: %v", err)
	}
}
