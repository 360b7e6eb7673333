package isa

import "fmt"

// OperandKind tags which M68k effective-addressing mode an Operand holds.
type OperandKind int

const (
	DataRegisterDirect OperandKind = iota
	AddressRegisterDirect
	AddressRegisterIndirect
	AddressRegisterIndirectWithPostincrement
	AddressRegisterIndirectWithPredecrement
	AddressRegisterIndirectWithDisplacement
	AddressRegisterIndirectWithIndex
	PcWithDisplacement
	PcWithIndex
	AbsoluteWord
	AbsoluteLong
	Immediate
	StatusRegister
)

// Operand is a tagged union over every M68k addressing mode. Which fields
// are meaningful depends on Kind:
//
//	DataRegisterDirect, AddressRegisterDirect,
//	AddressRegisterIndirect(+Postincrement/Predecrement): Reg only.
//	AddressRegisterIndirectWithDisplacement:               Reg, Disp (i16).
//	AddressRegisterIndirectWithIndex: Reg (base An), IndexReg (0..15, D0-7/A0-7), Disp (i8).
//	PcWithDisplacement:  Disp (i16).
//	PcWithIndex:          IndexReg (0..15), Disp (i8).
//	AbsoluteWord: Disp holds the u16 address. AbsoluteLong: Disp holds the u32 address.
//	Immediate: Disp holds the value, Size gives its width (Long ⇒ 2 ext words, else 1).
//	StatusRegister: Size is Word for SR, Byte for CCR.
type Operand struct {
	Kind     OperandKind
	Reg      uint8
	IndexReg uint8
	Disp     int32
	Size     Size
}

func Dn(n uint8) Operand  { return Operand{Kind: DataRegisterDirect, Reg: n} }
func An(n uint8) Operand  { return Operand{Kind: AddressRegisterDirect, Reg: n} }
func Ind(n uint8) Operand { return Operand{Kind: AddressRegisterIndirect, Reg: n} }
func PostInc(n uint8) Operand {
	return Operand{Kind: AddressRegisterIndirectWithPostincrement, Reg: n}
}
func PreDec(n uint8) Operand {
	return Operand{Kind: AddressRegisterIndirectWithPredecrement, Reg: n}
}
func Disp16(n uint8, disp int16) Operand {
	return Operand{Kind: AddressRegisterIndirectWithDisplacement, Reg: n, Disp: int32(disp)}
}
func Index(n, indexReg uint8, disp int8) Operand {
	return Operand{Kind: AddressRegisterIndirectWithIndex, Reg: n, IndexReg: indexReg, Disp: int32(disp)}
}
func PCDisp(disp int16) Operand { return Operand{Kind: PcWithDisplacement, Disp: int32(disp)} }
func PCIndex(indexReg uint8, disp int8) Operand {
	return Operand{Kind: PcWithIndex, IndexReg: indexReg, Disp: int32(disp)}
}
func AbsW(addr uint16) Operand { return Operand{Kind: AbsoluteWord, Disp: int32(addr)} }
func AbsL(addr uint32) Operand { return Operand{Kind: AbsoluteLong, Disp: int32(addr)} }
func Imm(size Size, v uint32) Operand {
	return Operand{Kind: Immediate, Size: size, Disp: int32(v)}
}

// SR and CCR are the two StatusRegister operand instances; ".W" denotes SR
// and ".B" denotes CCR, per spec.md §3.
var SR = Operand{Kind: StatusRegister, Size: Word}
var CCR = Operand{Kind: StatusRegister, Size: Byte}

// The eight EA "mode" field values (bits 5-3 of a generic effective
// address), then the register-field values that select a mode-7 form.
const (
	modeDataDirect    uint8 = 0
	modeAddrDirect    uint8 = 1
	modeAddrInd       uint8 = 2
	modeAddrPostInc   uint8 = 3
	modeAddrPreDec    uint8 = 4
	modeAddrDisp      uint8 = 5
	modeAddrIndex     uint8 = 6
	modeOther         uint8 = 7
	subAbsShort       uint8 = 0
	subAbsLong        uint8 = 1
	subPCDisp         uint8 = 2
	subPCIndex        uint8 = 3
	subImmediate      uint8 = 4
)

// ModeBits returns the 3-bit mode field and 3-bit register field that
// together make up the 6-bit effective-address EA of the opcode word.
// StatusRegister operands have no EA encoding of their own — they are never
// the operand an opcode row's ea_mask validates — and ModeBits panics if
// asked for one.
func (o Operand) ModeBits() (mode, reg uint8) {
	switch o.Kind {
	case DataRegisterDirect:
		return modeDataDirect, o.Reg
	case AddressRegisterDirect:
		return modeAddrDirect, o.Reg
	case AddressRegisterIndirect:
		return modeAddrInd, o.Reg
	case AddressRegisterIndirectWithPostincrement:
		return modeAddrPostInc, o.Reg
	case AddressRegisterIndirectWithPredecrement:
		return modeAddrPreDec, o.Reg
	case AddressRegisterIndirectWithDisplacement:
		return modeAddrDisp, o.Reg
	case AddressRegisterIndirectWithIndex:
		return modeAddrIndex, o.Reg
	case PcWithDisplacement:
		return modeOther, subPCDisp
	case PcWithIndex:
		return modeOther, subPCIndex
	case AbsoluteWord:
		return modeOther, subAbsShort
	case AbsoluteLong:
		return modeOther, subAbsLong
	case Immediate:
		return modeOther, subImmediate
	default:
		panic(fmt.Sprintf("isa: operand kind %v has no EA encoding", o.Kind))
	}
}

// ExtensionWords returns how many 16-bit extension words this operand
// contributes after the opcode word: 0 for register-direct modes, 1 for
// displacement/brief-index/absolute-word forms, 2 for absolute-long, and 1
// or 2 for immediate depending on size (Long ⇒ 2, else 1).
func (o Operand) ExtensionWords() uint32 {
	switch o.Kind {
	case DataRegisterDirect, AddressRegisterDirect,
		AddressRegisterIndirect, AddressRegisterIndirectWithPostincrement,
		AddressRegisterIndirectWithPredecrement, StatusRegister:
		return 0
	case AddressRegisterIndirectWithDisplacement, AddressRegisterIndirectWithIndex,
		PcWithDisplacement, PcWithIndex, AbsoluteWord:
		return 1
	case AbsoluteLong:
		return 2
	case Immediate:
		if o.Size == Long {
			return 2
		}
		return 1
	default:
		return 0
	}
}

// briefExtensionWord packs an indexed addressing mode's brief extension
// word: {ireg kind (D/A, 1 bit), ireg number (3 bits), size (1 bit, fixed
// Word here), displacement (signed 8 bits)} per the M68000 User Manual,
// Chapter 2.
func briefExtensionWord(indexReg uint8, disp int8) uint16 {
	var w uint16
	if indexReg >= 8 {
		w |= 0x8000 // address register
	}
	w |= uint16(indexReg&7) << 12
	w |= uint16(uint8(disp))
	return w
}

func unpackBriefExtension(w uint16) (indexReg uint8, disp int8) {
	indexReg = uint8((w >> 12) & 7)
	if w&0x8000 != 0 {
		indexReg += 8
	}
	disp = int8(w & 0xFF)
	return
}

// EmitExtension writes this operand's trailing extension words at *pc,
// advancing *pc past them. It is the dual of DecodeEA's extension reads.
func (o Operand) EmitExtension(pc *uint32, mem Memory) {
	switch o.Kind {
	case AddressRegisterIndirectWithDisplacement, PcWithDisplacement:
		mem.WriteWord(*pc, uint16(int16(o.Disp)))
		*pc += 2
	case AddressRegisterIndirectWithIndex, PcWithIndex:
		mem.WriteWord(*pc, briefExtensionWord(o.IndexReg, int8(o.Disp)))
		*pc += 2
	case AbsoluteWord:
		mem.WriteWord(*pc, uint16(o.Disp))
		*pc += 2
	case AbsoluteLong:
		WriteLong(mem, *pc, uint32(o.Disp))
		*pc += 4
	case Immediate:
		if o.Size == Long {
			WriteLong(mem, *pc, uint32(o.Disp))
			*pc += 4
		} else if o.Size == Byte {
			// Byte immediates are emitted as one 16-bit word with the
			// value in the low 8 bits.
			mem.WriteWord(*pc, uint16(uint32(o.Disp)&0xFF))
			*pc += 2
		} else {
			mem.WriteWord(*pc, uint16(uint32(o.Disp)&0xFFFF))
			*pc += 2
		}
	}
}

// DecodeEA parses the generic 6-bit effective-address field (mode, reg) at
// the given operand size into an Operand, reading any trailing extension
// words from mem at *pc and advancing it past them. pc is the address of
// the extension word that would follow the opcode word. instPC, the
// instruction's own address, is not used: PcWithDisplacement/PcWithIndex
// keep the raw displacement as read, not a resolved target address.
func DecodeEA(mode, reg uint8, size Size, instPC uint32, pc *uint32, mem Memory) (Operand, error) {
	switch mode {
	case modeDataDirect:
		return Dn(reg), nil
	case modeAddrDirect:
		return An(reg), nil
	case modeAddrInd:
		return Ind(reg), nil
	case modeAddrPostInc:
		return PostInc(reg), nil
	case modeAddrPreDec:
		return PreDec(reg), nil
	case modeAddrDisp:
		d := int16(mem.ReadWord(*pc))
		*pc += 2
		return Disp16(reg, d), nil
	case modeAddrIndex:
		indexReg, d := unpackBriefExtension(mem.ReadWord(*pc))
		*pc += 2
		return Index(reg, indexReg, d), nil
	case modeOther:
		switch reg {
		case subAbsShort:
			v := mem.ReadWord(*pc)
			*pc += 2
			return AbsW(v), nil
		case subAbsLong:
			v := ReadLong(mem, *pc)
			*pc += 4
			return AbsL(v), nil
		case subPCDisp:
			d := int16(mem.ReadWord(*pc))
			*pc += 2
			return PCDisp(d), nil
		case subPCIndex:
			indexReg, d := unpackBriefExtension(mem.ReadWord(*pc))
			*pc += 2
			return PCIndex(indexReg, d), nil
		case subImmediate:
			if size == Long {
				v := ReadLong(mem, *pc)
				*pc += 4
				return Imm(Long, v), nil
			}
			v := mem.ReadWord(*pc)
			*pc += 2
			if size == Byte {
				return Imm(Byte, uint32(v&0xFF)), nil
			}
			return Imm(Word, uint32(v)), nil
		}
	}
	return Operand{}, fmt.Errorf("isa: invalid effective address mode=%d reg=%d", mode, reg)
}

// ChooseAbsoluteSize picks AbsoluteWord or AbsoluteLong for a bare numeric
// operand with no explicit qualifier: Word if the value fits an unsigned or
// signed 16-bit range, Long otherwise. Ported from original_source's `abs`
// production default-size arm (spec.md doesn't spell this rule out).
func ChooseAbsoluteSize(v int32) Operand {
	if v >= -0x8000 && v <= 0xFFFF {
		return AbsW(uint16(v))
	}
	return AbsL(uint32(v))
}
