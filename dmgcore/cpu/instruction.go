package cpu

// OperandSpec is the static (unresolved) metadata for one operand slot of an
// instruction, as found in the opcode table: a name, how many immediate
// bytes (if any) follow the opcode for it, whether it's used by value
// (immediate) or as a memory address (parenthesized), and an optional
// post-access increment/decrement (used by (HL+) / (HL-)).
type OperandSpec struct {
	Name      string
	Bytes     uint8
	Immediate bool
	Increment int8
}

// Instruction is the fully resolved, immutable metadata for one decoded
// instruction: its opcode, mnemonic, byte length, cycle cost(s), and
// operands with any immediate values attached during decode.
type Instruction struct {
	Opcode       uint8
	Prefixed     bool
	Mnemonic     string
	Length       uint8
	Cycles       uint8 // primary cost
	BranchCycles uint8 // extra cost when a conditional branch is taken; 0 if unconditional
	Operands     []Operand
}

// Operand is an OperandSpec together with the value resolved for it during
// decode, when the spec declares immediate bytes (d8/d16/r8/a8/a16).
type Operand struct {
	OperandSpec
	Value uint16
}

func op(name string) OperandSpec {
	return OperandSpec{Name: name, Immediate: true}
}

func mem(name string) OperandSpec {
	return OperandSpec{Name: name, Immediate: false}
}

func memInc(name string, delta int8) OperandSpec {
	return OperandSpec{Name: name, Immediate: false, Increment: delta}
}

func imm(name string, bytes uint8) OperandSpec {
	return OperandSpec{Name: name, Bytes: bytes, Immediate: true}
}

func immAddr(name string, bytes uint8) OperandSpec {
	return OperandSpec{Name: name, Bytes: bytes, Immediate: false}
}

func instr(mnemonic string, length, cycles, branchCycles uint8, operands ...OperandSpec) Instruction {
	resolved := make([]Operand, len(operands))
	for i, spec := range operands {
		resolved[i] = Operand{OperandSpec: spec}
	}
	return Instruction{
		Mnemonic:     mnemonic,
		Length:       length,
		Cycles:       cycles,
		BranchCycles: branchCycles,
		Operands:     resolved,
	}
}
