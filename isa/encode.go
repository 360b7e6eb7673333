package isa

import "fmt"

// Encode writes inst at pc into mem and returns the number of bytes
// written. It selects the Table row matching inst's mnemonic, size, and
// operand shape, the mirror image of Decode's row search.
func Encode(inst OpcodeInstance, pc uint32, mem Memory) (uint32, error) {
	for _, row := range Table {
		if row.Mnemonic != inst.Mnemonic || row.Size != inst.Size {
			continue
		}
		word, rest, ok := encodeRow(row, inst)
		if !ok {
			continue
		}
		cursor := pc + 2
		mem.WriteWord(pc, word)
		for _, o := range rest {
			// An immediate's extension words always take the row's size,
			// the width Decode reads them back at.
			if o.Kind == Immediate {
				o.Size = row.Size
			}
			o.EmitExtension(&cursor, mem)
		}
		return cursor - pc, nil
	}
	return 0, fmt.Errorf("isa: no encoding for %s%s with these operands", inst.Mnemonic, inst.Size)
}

// encodeRow attempts to build row's opcode word for inst's operands. ok is
// false when inst's operand shape doesn't match this row's form (wrong
// count, wrong fixed-register kind, or EA category outside SrcMask/DstMask)
// — the caller moves on to the next row. rest lists the operands (in
// encoding order) whose extension words must follow the opcode word.
func encodeRow(row OpcodeInfo, inst OpcodeInstance) (word uint16, rest []Operand, ok bool) {
	if len(inst.Operands) != 2 {
		return 0, nil, false
	}
	a, b := inst.Operands[0], inst.Operands[1]

	switch row.Form {
	case FormDxEA: // EA,Dn
		ea, dn := a, b
		if dn.Kind != DataRegisterDirect || !row.SrcMask.Has(ea) {
			return 0, nil, false
		}
		mode, reg := ea.ModeBits()
		w := row.Matching | uint16(dn.Reg)<<9 | uint16(mode)<<3 | uint16(reg)
		return w, []Operand{ea}, true

	case FormEADx: // Dn,EA
		dn, ea := a, b
		if dn.Kind != DataRegisterDirect || !row.SrcMask.Has(ea) {
			return 0, nil, false
		}
		mode, reg := ea.ModeBits()
		w := row.Matching | uint16(dn.Reg)<<9 | uint16(mode)<<3 | uint16(reg)
		return w, []Operand{ea}, true

	case FormImmEA: // #imm,EA
		imm, ea := a, b
		if imm.Kind != Immediate || !row.SrcMask.Has(ea) {
			return 0, nil, false
		}
		mode, reg := ea.ModeBits()
		w := row.Matching | uint16(mode)<<3 | uint16(reg)
		return w, []Operand{imm, ea}, true

	case FormEAAx: // EA,An
		ea, an := a, b
		if an.Kind != AddressRegisterDirect || !row.SrcMask.Has(ea) {
			return 0, nil, false
		}
		mode, reg := ea.ModeBits()
		w := row.Matching | uint16(an.Reg)<<9 | uint16(mode)<<3 | uint16(reg)
		return w, []Operand{ea}, true

	case FormEAEA: // src,dst
		src, dst := a, b
		if !row.SrcMask.Has(src) || !row.DstMask.Has(dst) {
			return 0, nil, false
		}
		srcMode, srcReg := src.ModeBits()
		dstMode, dstReg := dst.ModeBits()
		w := row.Matching | uint16(dstReg)<<9 | uint16(dstMode)<<6 | uint16(srcMode)<<3 | uint16(srcReg)
		return w, []Operand{src, dst}, true

	case FormEASR: // EA,SR
		ea, sr := a, b
		if sr.Kind != StatusRegister || sr.Size != Word || !row.SrcMask.Has(ea) {
			return 0, nil, false
		}
		mode, reg := ea.ModeBits()
		w := row.Matching | uint16(mode)<<3 | uint16(reg)
		return w, []Operand{ea}, true

	case FormEACCR: // EA,CCR
		ea, ccr := a, b
		if ccr.Kind != StatusRegister || ccr.Size != Byte || !row.SrcMask.Has(ea) {
			return 0, nil, false
		}
		mode, reg := ea.ModeBits()
		w := row.Matching | uint16(mode)<<3 | uint16(reg)
		return w, []Operand{ea}, true
	}
	return 0, nil, false
}
