package isa

// EAMask is a bitset over the twelve effective-addressing-mode categories,
// used by an opcode row to say which EA forms its operand accepts. Ported
// from original_source's `generate()` table (itself following the M68000
// Programmer's Reference Manual's addressing-mode-category groupings).
type EAMask uint16

const (
	EADn EAMask = 1 << iota
	EAAn
	EAInd       // (An)
	EAPostInc   // (An)+
	EAPreDec    // -(An)
	EADisp      // (d,An)
	EAIndex     // (d,An,Xn)
	EAAbsW      // xxx.W
	EAAbsL      // xxx.L
	EAPCDisp    // (d,PC)
	EAPCIndex   // (d,PC,Xn)
	EAImmediate // #imm
)

const (
	EAAll             = EADn | EAAn | EAInd | EAPostInc | EAPreDec | EADisp | EAIndex | EAAbsW | EAAbsL | EAPCDisp | EAPCIndex | EAImmediate
	EAAllExceptAn     = EAAll &^ EAAn
	EAData            = EAAll &^ EAAn // register-direct data and all memory/PC/immediate forms
	EAMemory          = EAInd | EAPostInc | EAPreDec | EADisp | EAIndex | EAAbsW | EAAbsL | EAPCDisp | EAPCIndex
	EAAlterable       = EADn | EAAn | EAInd | EAPostInc | EAPreDec | EADisp | EAIndex | EAAbsW | EAAbsL
	EADataAlterable   = EAAlterable &^ EAAn
	EAMemoryAlterable = EAAlterable &^ (EADn | EAAn)
)

// Has reports whether an operand's addressing mode belongs to this mask.
func (m EAMask) Has(o Operand) bool {
	return m&categoryOf(o) != 0
}

func categoryOf(o Operand) EAMask {
	switch o.Kind {
	case DataRegisterDirect:
		return EADn
	case AddressRegisterDirect:
		return EAAn
	case AddressRegisterIndirect:
		return EAInd
	case AddressRegisterIndirectWithPostincrement:
		return EAPostInc
	case AddressRegisterIndirectWithPredecrement:
		return EAPreDec
	case AddressRegisterIndirectWithDisplacement:
		return EADisp
	case AddressRegisterIndirectWithIndex:
		return EAIndex
	case AbsoluteWord:
		return EAAbsW
	case AbsoluteLong:
		return EAAbsL
	case PcWithDisplacement:
		return EAPCDisp
	case PcWithIndex:
		return EAPCIndex
	case Immediate:
		return EAImmediate
	default:
		return 0
	}
}

// OpcodeForm names one opcode row's validate/decode/encode/select behavior
// by kind rather than by function pointer, so decodeRow (decode.go) and
// encodeRow (encode.go) can switch on a small closed enum instead of carrying indirect calls —
// the enum-dispatched "capability kind" design spec.md §4.4 calls for over
// raw function pointers in a systems language.
type OpcodeForm int

const (
	FormDxEA  OpcodeForm = iota // ADD <EA,Dn>: EA is source, Dn is dest
	FormEADx                    // ADD <Dn,EA>: Dn is source, EA is dest
	FormImmEA                   // ADDI #imm,EA
	FormEAAx                    // ADDA/MOVEA EA,An
	FormEAEA                    // MOVE EA,EA
	FormEASR                    // MOVE EA,SR
	FormEACCR                   // MOVE EA,CCR
)

// OpcodeInfo is one row of the dispatch table: the bit pattern identifying
// an instruction form and which EA categories its free operand(s) accept.
// SrcMask covers the row's only free EA field for every form except
// FormEAEA, where both MOVE operands are independently addressed and
// DstMask applies to the destination.
type OpcodeInfo struct {
	Mnemonic string
	Size     Size // Unsized for rows whose size comes from elsewhere
	Mask     uint16
	Matching uint16
	SrcMask  EAMask
	DstMask  EAMask // only meaningful for FormEAEA
	Form     OpcodeForm
}

// Table lists every opcode row this toolkit knows how to assemble and
// disassemble: the ADD/ADDA/ADDI/MOVE/MOVEA family named in spec.md §9,
// one row per size/direction variant, ported from original_source's
// generate(). Rows are tried in order by Decode; a word that matches a
// row's Mask/Matching but whose EA category is rejected by SrcMask/DstMask
// falls through to the next row (this is how generic MOVE correctly loses
// to MOVEA: MOVE's DstMask excludes An-direct, which is exactly what
// MOVEA's stricter Mask/Matching claims).
var Table = []OpcodeInfo{
	{"ADD", Byte, MaskOutXEA, OpAdd | DestDx | ByteSized, EAAllExceptAn, 0, FormDxEA},
	{"ADD", Word, MaskOutXEA, OpAdd | DestDx | WordSized, EAAllExceptAn, 0, FormDxEA},
	{"ADD", Long, MaskOutXEA, OpAdd | DestDx | LongSized, EAAllExceptAn, 0, FormDxEA},

	{"ADD", Byte, MaskOutXEA, OpAdd | DestEA | ByteSized, EAMemoryAlterable, 0, FormEADx},
	{"ADD", Word, MaskOutXEA, OpAdd | DestEA | WordSized, EAMemoryAlterable, 0, FormEADx},
	{"ADD", Long, MaskOutXEA, OpAdd | DestEA | LongSized, EAMemoryAlterable, 0, FormEADx},

	{"ADDA", Word, MaskOutXEA, OpAdd | DestAxWord, EAAll, 0, FormEAAx},
	{"ADDA", Long, MaskOutXEA, OpAdd | DestAxLong, EAAll, 0, FormEAAx},

	{"ADDI", Byte, MaskOutEA, OpAddI | ByteSized, EADataAlterable, 0, FormImmEA},
	{"ADDI", Word, MaskOutEA, OpAddI | WordSized, EADataAlterable, 0, FormImmEA},
	{"ADDI", Long, MaskOutEA, OpAddI | LongSized, EADataAlterable, 0, FormImmEA},

	// MOVE <ea>,<ea> — source may be any mode, dest must be data-alterable
	// (excludes An-direct: that form is MOVEA, listed separately below).
	{"MOVE", Byte, MaskOutEAEA, ByteMove, EAAll, EADataAlterable, FormEAEA},
	{"MOVE", Word, MaskOutEAEA, WordMove, EAAll, EADataAlterable, FormEAEA},
	{"MOVE", Long, MaskOutEAEA, LongMove, EAAll, EADataAlterable, FormEAEA},

	// MOVEA <ea>,An — dest mode field (bits 8-6) fixed to An-direct (001).
	{"MOVEA", Word, MaskOutEAEA | 0x01C0, WordMove | MoveToAn, EAAll, 0, FormEAAx},
	{"MOVEA", Long, MaskOutEAEA | 0x01C0, LongMove | MoveToAn, EAAll, 0, FormEAAx},

	// MOVE <ea>,SR / MOVE <ea>,CCR — fixed destination, no dest EA field.
	{"MOVE", Word, MaskOutEA, MoveToSR, EAAllExceptAn, 0, FormEASR},
	{"MOVE", Byte, MaskOutEA, MoveToCCR, EAAllExceptAn, 0, FormEACCR},
}
