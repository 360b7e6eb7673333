package isa

import (
	"fmt"
	"strings"
)

func indexRegName(n uint8) string {
	if n >= 8 {
		return fmt.Sprintf("A%d", n-8)
	}
	return fmt.Sprintf("D%d", n)
}

// String renders an Operand in the canonical disassembly syntax: the form
// the disassembler always emits, and one of the forms the assembler's
// parser accepts back unchanged.
func (o Operand) String() string {
	switch o.Kind {
	case DataRegisterDirect:
		return fmt.Sprintf("D%d", o.Reg)
	case AddressRegisterDirect:
		return fmt.Sprintf("A%d", o.Reg)
	case AddressRegisterIndirect:
		return fmt.Sprintf("(A%d)", o.Reg)
	case AddressRegisterIndirectWithPostincrement:
		return fmt.Sprintf("(A%d)+", o.Reg)
	case AddressRegisterIndirectWithPredecrement:
		return fmt.Sprintf("-(A%d)", o.Reg)
	case AddressRegisterIndirectWithDisplacement:
		return fmt.Sprintf("%d(A%d)", o.Disp, o.Reg)
	case AddressRegisterIndirectWithIndex:
		return fmt.Sprintf("%d(A%d,%s)", o.Disp, o.Reg, indexRegName(o.IndexReg))
	case PcWithDisplacement:
		return fmt.Sprintf("%d(PC)", o.Disp)
	case PcWithIndex:
		return fmt.Sprintf("%d(PC,%s)", o.Disp, indexRegName(o.IndexReg))
	case AbsoluteWord:
		return fmt.Sprintf("$%X.W", uint16(o.Disp))
	case AbsoluteLong:
		return fmt.Sprintf("$%X.L", uint32(o.Disp))
	case Immediate:
		return fmt.Sprintf("#$%X", uint32(o.Disp))
	case StatusRegister:
		if o.Size == Word {
			return "SR"
		}
		return "CCR"
	default:
		return "?"
	}
}

// String renders an instruction the way the disassembler emits it and the
// parser reads it back: "MNEMONIC.SZ\top0,op1".
func (oi OpcodeInstance) String() string {
	ops := make([]string, len(oi.Operands))
	for i, o := range oi.Operands {
		ops[i] = o.String()
	}
	return fmt.Sprintf("%s%s\t%s", oi.Mnemonic, oi.Size.String(), strings.Join(ops, ","))
}
