package cpu

// regNames8 maps a 3-bit register index, as used throughout the unprefixed
// and CB-prefixed opcode encodings, to its operand name. Index 6 is not a
// register at all but the (HL) memory operand.
var regNames8 = [8]string{"B", "C", "D", "E", "H", "L", "HL", "A"}

func regOperand8(idx uint8) OperandSpec {
	if idx == 6 {
		return mem("HL")
	}
	return op(regNames8[idx])
}

var unprefixedTable [256]Instruction
var cbTable [256]Instruction

func init() {
	buildUnprefixedIrregular()
	buildLoadGroup()
	buildALUGroup()
	buildCBTable()
}

// buildUnprefixedIrregular fills in every opcode outside the two regular
// blocks (0x40-0x7F, 0x80-0xBF): control flow, 16-bit loads, stack
// operations, and the handful of undefined opcodes that the hardware
// treats as one-byte no-ops.
func buildUnprefixedIrregular() {
	t := &unprefixedTable

	t[0x00] = instr("NOP", 1, 4, 0)
	t[0x01] = instr("LD", 3, 12, 0, op("BC"), imm("d16", 2))
	t[0x02] = instr("LD", 1, 8, 0, mem("BC"), op("A"))
	t[0x03] = instr("INC16", 1, 8, 0, op("BC"))
	t[0x04] = instr("INC8", 1, 4, 0, op("B"))
	t[0x05] = instr("DEC8", 1, 4, 0, op("B"))
	t[0x06] = instr("LD", 2, 8, 0, op("B"), imm("d8", 1))
	t[0x07] = instr("RLCA", 1, 4, 0)
	t[0x08] = instr("LD", 3, 20, 0, immAddr("a16", 2), op("SP"))
	t[0x09] = instr("ADDHL", 1, 8, 0, op("BC"))
	t[0x0A] = instr("LD", 1, 8, 0, op("A"), mem("BC"))
	t[0x0B] = instr("DEC16", 1, 8, 0, op("BC"))
	t[0x0C] = instr("INC8", 1, 4, 0, op("C"))
	t[0x0D] = instr("DEC8", 1, 4, 0, op("C"))
	t[0x0E] = instr("LD", 2, 8, 0, op("C"), imm("d8", 1))
	t[0x0F] = instr("RRCA", 1, 4, 0)

	t[0x10] = instr("STOP", 2, 4, 0, imm("d8", 1))
	t[0x11] = instr("LD", 3, 12, 0, op("DE"), imm("d16", 2))
	t[0x12] = instr("LD", 1, 8, 0, mem("DE"), op("A"))
	t[0x13] = instr("INC16", 1, 8, 0, op("DE"))
	t[0x14] = instr("INC8", 1, 4, 0, op("D"))
	t[0x15] = instr("DEC8", 1, 4, 0, op("D"))
	t[0x16] = instr("LD", 2, 8, 0, op("D"), imm("d8", 1))
	t[0x17] = instr("RLA", 1, 4, 0)
	t[0x18] = instr("JR", 2, 12, 0, imm("r8", 1))
	t[0x19] = instr("ADDHL", 1, 8, 0, op("DE"))
	t[0x1A] = instr("LD", 1, 8, 0, op("A"), mem("DE"))
	t[0x1B] = instr("DEC16", 1, 8, 0, op("DE"))
	t[0x1C] = instr("INC8", 1, 4, 0, op("E"))
	t[0x1D] = instr("DEC8", 1, 4, 0, op("E"))
	t[0x1E] = instr("LD", 2, 8, 0, op("E"), imm("d8", 1))
	t[0x1F] = instr("RRA", 1, 4, 0)

	t[0x20] = instr("JRNZ", 2, 8, 4, imm("r8", 1))
	t[0x21] = instr("LD", 3, 12, 0, op("HL"), imm("d16", 2))
	t[0x22] = instr("LD", 1, 8, 0, memInc("HL", 1), op("A"))
	t[0x23] = instr("INC16", 1, 8, 0, op("HL"))
	t[0x24] = instr("INC8", 1, 4, 0, op("H"))
	t[0x25] = instr("DEC8", 1, 4, 0, op("H"))
	t[0x26] = instr("LD", 2, 8, 0, op("H"), imm("d8", 1))
	t[0x27] = instr("DAA", 1, 4, 0)
	t[0x28] = instr("JRZ", 2, 8, 4, imm("r8", 1))
	t[0x29] = instr("ADDHL", 1, 8, 0, op("HL"))
	t[0x2A] = instr("LD", 1, 8, 0, op("A"), memInc("HL", 1))
	t[0x2B] = instr("DEC16", 1, 8, 0, op("HL"))
	t[0x2C] = instr("INC8", 1, 4, 0, op("L"))
	t[0x2D] = instr("DEC8", 1, 4, 0, op("L"))
	t[0x2E] = instr("LD", 2, 8, 0, op("L"), imm("d8", 1))
	t[0x2F] = instr("CPL", 1, 4, 0)

	t[0x30] = instr("JRNC", 2, 8, 4, imm("r8", 1))
	t[0x31] = instr("LD", 3, 12, 0, op("SP"), imm("d16", 2))
	t[0x32] = instr("LD", 1, 8, 0, memInc("HL", -1), op("A"))
	t[0x33] = instr("INC16", 1, 8, 0, op("SP"))
	t[0x34] = instr("INC8", 1, 12, 0, mem("HL"))
	t[0x35] = instr("DEC8", 1, 12, 0, mem("HL"))
	t[0x36] = instr("LD", 2, 12, 0, mem("HL"), imm("d8", 1))
	t[0x37] = instr("SCF", 1, 4, 0)
	t[0x38] = instr("JRC", 2, 8, 4, imm("r8", 1))
	t[0x39] = instr("ADDHL", 1, 8, 0, op("SP"))
	t[0x3A] = instr("LD", 1, 8, 0, op("A"), memInc("HL", -1))
	t[0x3B] = instr("DEC16", 1, 8, 0, op("SP"))
	t[0x3C] = instr("INC8", 1, 4, 0, op("A"))
	t[0x3D] = instr("DEC8", 1, 4, 0, op("A"))
	t[0x3E] = instr("LD", 2, 8, 0, op("A"), imm("d8", 1))
	t[0x3F] = instr("CCF", 1, 4, 0)

	t[0x76] = instr("HALT", 1, 4, 0)

	t[0xC0] = instr("RETNZ", 1, 8, 12)
	t[0xC1] = instr("POP", 1, 12, 0, op("BC"))
	t[0xC2] = instr("JPNZ", 3, 12, 4, imm("a16", 2))
	t[0xC3] = instr("JP", 3, 16, 0, imm("a16", 2))
	t[0xC4] = instr("CALLNZ", 3, 12, 12, imm("a16", 2))
	t[0xC5] = instr("PUSH", 1, 16, 0, op("BC"))
	t[0xC6] = instr("ADD", 2, 8, 0, imm("d8", 1))
	t[0xC7] = rst(0x00)
	t[0xC8] = instr("RETZ", 1, 8, 12)
	t[0xC9] = instr("RET", 1, 16, 0)
	t[0xCA] = instr("JPZ", 3, 12, 4, imm("a16", 2))
	t[0xCB] = instr("PREFIX", 1, 4, 0)
	t[0xCC] = instr("CALLZ", 3, 12, 12, imm("a16", 2))
	t[0xCD] = instr("CALL", 3, 24, 0, imm("a16", 2))
	t[0xCE] = instr("ADC", 2, 8, 0, imm("d8", 1))
	t[0xCF] = rst(0x08)

	t[0xD0] = instr("RETNC", 1, 8, 12)
	t[0xD1] = instr("POP", 1, 12, 0, op("DE"))
	t[0xD2] = instr("JPNC", 3, 12, 4, imm("a16", 2))
	t[0xD3] = instr("NOP", 1, 4, 0)
	t[0xD4] = instr("CALLNC", 3, 12, 12, imm("a16", 2))
	t[0xD5] = instr("PUSH", 1, 16, 0, op("DE"))
	t[0xD6] = instr("SUB", 2, 8, 0, imm("d8", 1))
	t[0xD7] = rst(0x10)
	t[0xD8] = instr("RETC", 1, 8, 12)
	t[0xD9] = instr("RETI", 1, 16, 0)
	t[0xDA] = instr("JPC", 3, 12, 4, imm("a16", 2))
	t[0xDB] = instr("NOP", 1, 4, 0)
	t[0xDC] = instr("CALLC", 3, 12, 12, imm("a16", 2))
	t[0xDD] = instr("NOP", 1, 4, 0)
	t[0xDE] = instr("SBC", 2, 8, 0, imm("d8", 1))
	t[0xDF] = rst(0x18)

	t[0xE0] = instr("LD", 2, 12, 0, immAddr("a8", 1), op("A"))
	t[0xE1] = instr("POP", 1, 12, 0, op("HL"))
	t[0xE2] = instr("LD", 1, 8, 0, mem("C"), op("A"))
	t[0xE3] = instr("NOP", 1, 4, 0)
	t[0xE4] = instr("NOP", 1, 4, 0)
	t[0xE5] = instr("PUSH", 1, 16, 0, op("HL"))
	t[0xE6] = instr("AND", 2, 8, 0, imm("d8", 1))
	t[0xE7] = rst(0x20)
	t[0xE8] = instr("ADDSPR8", 2, 16, 0, imm("r8", 1))
	t[0xE9] = instr("JPHL", 1, 4, 0)
	t[0xEA] = instr("LD", 3, 16, 0, immAddr("a16", 2), op("A"))
	t[0xEB] = instr("NOP", 1, 4, 0)
	t[0xEC] = instr("NOP", 1, 4, 0)
	t[0xED] = instr("NOP", 1, 4, 0)
	t[0xEE] = instr("XOR", 2, 8, 0, imm("d8", 1))
	t[0xEF] = rst(0x28)

	t[0xF0] = instr("LD", 2, 12, 0, op("A"), immAddr("a8", 1))
	t[0xF1] = instr("POP", 1, 12, 0, op("AF"))
	t[0xF2] = instr("LD", 1, 8, 0, op("A"), mem("C"))
	t[0xF3] = instr("DI", 1, 4, 0)
	t[0xF4] = instr("NOP", 1, 4, 0)
	t[0xF5] = instr("PUSH", 1, 16, 0, op("AF"))
	t[0xF6] = instr("OR", 2, 8, 0, imm("d8", 1))
	t[0xF7] = rst(0x30)
	t[0xF8] = instr("LDHLSPR8", 2, 12, 0, imm("r8", 1))
	t[0xF9] = instr("LD", 1, 8, 0, op("SP"), op("HL"))
	t[0xFA] = instr("LD", 3, 16, 0, op("A"), immAddr("a16", 2))
	t[0xFB] = instr("EI", 1, 4, 0)
	t[0xFC] = instr("NOP", 1, 4, 0)
	t[0xFD] = instr("NOP", 1, 4, 0)
	t[0xFE] = instr("CP", 2, 8, 0, imm("d8", 1))
	t[0xFF] = rst(0x38)
}

func rst(vector uint16) Instruction {
	i := instr("RST", 1, 16, 0, imm("vec", 0))
	i.Operands[0].Value = vector
	return i
}

// buildLoadGroup fills 0x40-0x7F, the regular 8x8 LD r,r' block. 0x76 (which
// would be LD (HL),(HL)) is HALT instead and was already set above.
func buildLoadGroup() {
	t := &unprefixedTable
	for row := uint8(0); row < 8; row++ {
		for col := uint8(0); col < 8; col++ {
			opcode := 0x40 + row*8 + col
			if opcode == 0x76 {
				continue
			}
			dst := regOperand8(row)
			src := regOperand8(col)
			cycles := uint8(4)
			if row == 6 || col == 6 {
				cycles = 8
			}
			t[opcode] = instr("LD", 1, cycles, 0, dst, src)
		}
	}
}

// buildALUGroup fills 0x80-0xBF, the regular ALU-on-A block: each of the 8
// operations (ADD, ADC, SUB, SBC, AND, XOR, OR, CP) applied to each of the 8
// operand forms B,C,D,E,H,L,(HL),A.
func buildALUGroup() {
	t := &unprefixedTable
	mnemonics := [8]string{"ADD", "ADC", "SUB", "SBC", "AND", "XOR", "OR", "CP"}
	for row := uint8(0); row < 8; row++ {
		for col := uint8(0); col < 8; col++ {
			opcode := 0x80 + row*8 + col
			cycles := uint8(4)
			if col == 6 {
				cycles = 8
			}
			t[opcode] = instr(mnemonics[row], 1, cycles, 0, regOperand8(col))
		}
	}
}

// buildCBTable fills the entire 256-entry CB-prefixed table: eight
// rotate/shift mnemonics over the 8 operand forms (0x00-0x3F), then
// BIT/RES/SET each over 8 bits x 8 operand forms (0x40-0xFF).
func buildCBTable() {
	t := &cbTable
	shiftMnemonics := [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SWAP", "SRL"}
	for row := uint8(0); row < 8; row++ {
		for col := uint8(0); col < 8; col++ {
			opcode := row*8 + col
			cycles := uint8(8)
			if col == 6 {
				cycles = 16
			}
			t[opcode] = instr(shiftMnemonics[row], 2, cycles, 0, regOperand8(col))
		}
	}

	groups := []struct {
		mnemonic  string
		base      uint8
		memCycles uint8
	}{
		{"BIT", 0x40, 12},
		{"RES", 0x80, 16},
		{"SET", 0xC0, 16},
	}
	for _, g := range groups {
		for bit := uint8(0); bit < 8; bit++ {
			for col := uint8(0); col < 8; col++ {
				opcode := g.base + bit*8 + col
				cycles := uint8(8)
				if col == 6 {
					cycles = g.memCycles
				}
				bitOperand := imm("bit", 0)
				bitOperand.Bytes = 0
				spec := instr(g.mnemonic, 2, cycles, 0, bitOperand, regOperand8(col))
				spec.Operands[0].Value = uint16(bit)
				t[opcode] = spec
			}
		}
	}
}
