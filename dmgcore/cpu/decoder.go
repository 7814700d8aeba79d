package cpu

import "github.com/halvard/dmgcore/dmgcore/bit"

// Bus is the memory-side dependency the decoder needs: byte-at-a-time reads
// to fetch an opcode and its immediate operands.
type Bus interface {
	Read(address uint16) uint8
}

// Decode reads one instruction starting at address: the opcode byte (and,
// for the 0xCB-prefixed set, the following opcode byte), then any immediate
// operand bytes the opcode's operands declare, least-significant byte
// first. It returns the address immediately after the instruction and the
// resolved Instruction.
func Decode(bus Bus, address uint16) (uint16, Instruction) {
	opcode := bus.Read(address)
	address++

	table := &unprefixedTable
	prefixed := false
	if opcode == 0xCB {
		prefixed = true
		opcode = bus.Read(address)
		address++
		table = &cbTable
	}

	base := table[opcode]
	base.Opcode = opcode
	base.Prefixed = prefixed

	operands := make([]Operand, len(base.Operands))
	copy(operands, base.Operands)
	for i := range operands {
		switch operands[i].Bytes {
		case 0:
			continue
		case 1:
			operands[i].Value = uint16(bus.Read(address))
			address++
		case 2:
			lo := bus.Read(address)
			hi := bus.Read(address + 1)
			operands[i].Value = bit.Combine(hi, lo)
			address += 2
		}
	}
	base.Operands = operands

	return address, base
}
