package makerbus

import "fmt"

// Module is a stateless handle bound to one address/offset pair on a Bus.
// It forwards every call to the Bus it was constructed with, biasing the
// command number by offset - the same pattern the configurator's generated
// client stubs use to turn a shared numbering space into per-module command
// tables. Because it carries no state of its own beyond the binding, a
// Module is cheap to create and safe to discard.
type Module struct {
	bus     *Bus
	address byte
	offset  byte
}

// NewModule binds a Module to address on bus, biasing every command number
// it issues by offset.
func NewModule(bus *Bus, address, offset byte) *Module {
	return &Module{bus: bus, address: address, offset: offset}
}

// Address returns the module's bound bus address.
func (m *Module) Address() byte {
	return m.address
}

// RequestBegin opens a request for command against the module's bound
// address, biasing command by the module's offset.
func (m *Module) RequestBegin(command byte) error {
	biased := int(m.offset) + int(command)
	if biased > 0xFF {
		return newFault(FaultCommandOverflow, fmt.Sprintf("offset=%d command=%d", m.offset, command))
	}
	return m.bus.RequestBegin(m.address, byte(biased))
}

// RequestEnd closes the request opened by RequestBegin.
func (m *Module) RequestEnd() error {
	return m.bus.RequestEnd()
}

// Flush forwards to the bound Bus's Flush.
func (m *Module) Flush() error {
	return m.bus.Flush()
}

// SetAutoFlush forwards to the bound Bus's SetAutoFlush.
func (m *Module) SetAutoFlush(flush bool) {
	m.bus.SetAutoFlush(flush)
}

// ResponseBegin forwards to the bound Bus's ResponseBegin.
func (m *Module) ResponseBegin() error {
	return m.bus.ResponseBegin()
}

// ResponseEnd forwards to the bound Bus's ResponseEnd.
func (m *Module) ResponseEnd() error {
	return m.bus.ResponseEnd()
}

// PutUByte forwards to the bound Bus.
func (m *Module) PutUByte(v byte) { m.bus.PutUByte(v) }

// PutByte forwards to the bound Bus.
func (m *Module) PutByte(v int8) { m.bus.PutByte(v) }

// PutUShort forwards to the bound Bus.
func (m *Module) PutUShort(v uint16) { m.bus.PutUShort(v) }

// PutShort forwards to the bound Bus.
func (m *Module) PutShort(v int16) { m.bus.PutShort(v) }

// PutUInt forwards to the bound Bus.
func (m *Module) PutUInt(v uint32) { m.bus.PutUInt(v) }

// PutInt forwards to the bound Bus.
func (m *Module) PutInt(v int32) { m.bus.PutInt(v) }

// PutLogical forwards to the bound Bus.
func (m *Module) PutLogical(v bool) { m.bus.PutLogical(v) }

// PutCharacter forwards to the bound Bus.
func (m *Module) PutCharacter(v rune) { m.bus.PutCharacter(v) }

// GetUByte forwards to the bound Bus.
func (m *Module) GetUByte() byte { return m.bus.GetUByte() }

// GetByte forwards to the bound Bus.
func (m *Module) GetByte() int8 { return m.bus.GetByte() }

// GetUShort forwards to the bound Bus.
func (m *Module) GetUShort() uint16 { return m.bus.GetUShort() }

// GetShort forwards to the bound Bus.
func (m *Module) GetShort() int16 { return m.bus.GetShort() }

// GetUInt forwards to the bound Bus.
func (m *Module) GetUInt() uint32 { return m.bus.GetUInt() }

// GetInt forwards to the bound Bus.
func (m *Module) GetInt() int32 { return m.bus.GetInt() }

// GetLogical forwards to the bound Bus.
func (m *Module) GetLogical() bool { return m.bus.GetLogical() }

// GetCharacter forwards to the bound Bus.
func (m *Module) GetCharacter() rune { return m.bus.GetCharacter() }
