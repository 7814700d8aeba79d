// Package faults defines the emulator's error taxonomy.
//
// Every kind here is a programming/emulator-integrity fault: they are never
// expected during normal operation, and the emulator makes no attempt to
// recover from one. Components raise a *Fault by panicking; the scheduler
// is the single place that recovers it, logs a diagnostic, and stops.
package faults

import "fmt"

// Kind identifies the class of fault.
type Kind int

const (
	UnknownOpcode Kind = iota
	UnknownRegister
	OutOfRange
	ProhibitedRegion
	InvalidFlagValue
	UnimplementedMbc
)

func (k Kind) String() string {
	switch k {
	case UnknownOpcode:
		return "UnknownOpcode"
	case UnknownRegister:
		return "UnknownRegister"
	case OutOfRange:
		return "OutOfRange"
	case ProhibitedRegion:
		return "ProhibitedRegion"
	case InvalidFlagValue:
		return "InvalidFlagValue"
	case UnimplementedMbc:
		return "UnimplementedMbc"
	default:
		return "Unknown"
	}
}

// Fault is the error value carried by the panic/recover path. Address and PC
// are zero when not meaningful for the given Kind.
type Fault struct {
	Kind    Kind
	Address uint16
	PC      uint16
	Detail  string
	Trace   string // short disassembly window around PC, filled in by the caller
}

func (f *Fault) Error() string {
	msg := fmt.Sprintf("%s at addr=0x%04X pc=0x%04X: %s", f.Kind, f.Address, f.PC, f.Detail)
	if f.Trace != "" {
		msg += "\n" + f.Trace
	}
	return msg
}

// Raise panics with a *Fault built from the given fields.
func Raise(kind Kind, address, pc uint16, detail string) {
	panic(&Fault{Kind: kind, Address: address, PC: pc, Detail: detail})
}
