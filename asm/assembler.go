package asm

import (
	"fmt"

	"github.com/Urethramancer/m68kasm/expr"
	"github.com/Urethramancer/m68kasm/isa"
)

// Assembler drives the two-pass translation of a parsed program into a
// byte image: pass 1 walks the statements computing each one's address and
// length and binding labels and EQUs; pass 2 resolves every operand's
// expression against the finished symbol table and emits bytes through
// isa.Encode. Mirrors the teacher's Assembler{symbols,labels} shape.
type Assembler struct {
	Symbols *SymbolTable
	// EntryPoint holds the resolved value of an End directive's optional
	// operand, once Assemble has run. Nil if the source had no End
	// directive, or its End gave no entry-point expression.
	EntryPoint *int32
}

func New() *Assembler {
	return &Assembler{Symbols: NewSymbolTable()}
}

// Assemble parses src and assembles it starting at baseAddress, returning
// the emitted image; the finished symbol table is left in a.Symbols.
func (a *Assembler) Assemble(src string, baseAddress uint32) (*isa.ByteMemory, error) {
	stmts, err := ParseProgram(src)
	if err != nil {
		return nil, err
	}
	if err := a.pass1(stmts, baseAddress); err != nil {
		return nil, err
	}
	return a.pass2(stmts)
}

// pass1 computes each statement's address, binds labels, evaluates EQUs
// and ORG/ALIGN/EVEN/ODD/DS directives (which must not reference a symbol
// defined later in the source — forward references are only supported in
// instruction and DC operands, resolved in pass 2), gives an instruction
// with no size suffix the default size Word, and sizes every instruction
// from its operands' shapes alone.
func (a *Assembler) pass1(stmts []Statement, baseAddress uint32) error {
	loc := baseAddress
	for i := range stmts {
		stmt := &stmts[i]
		if stmt.Label != "" {
			a.Symbols.Define(stmt.Label, int32(loc))
		}
		switch stmt.Kind {
		case StmtBlank:
			stmt.Address = loc

		case StmtInstruction:
			if stmt.Size == isa.Unsized {
				stmt.Size = isa.Word
			}
			stmt.Address = loc
			stmt.Length = instructionLength(*stmt)
			loc += stmt.Length

		case StmtDirective:
			stmt.Address = loc
			length, newLoc, err := a.sizeDirective(stmt, loc)
			if err != nil {
				return &ParseError{Line: stmt.LineNo, Msg: err.Error()}
			}
			stmt.Length = length
			loc = newLoc
		}
	}
	return nil
}

func instructionLength(stmt Statement) uint32 {
	n := uint32(2)
	for _, op := range stmt.Operands {
		// Sized the way emitInstruction encodes it: an unqualified
		// immediate takes the instruction's size.
		if op.Kind == isa.Immediate && op.Size == isa.Unsized {
			op.Size = stmt.Size
		}
		n += op.ExtensionWords() * 2
	}
	return n
}

func (a *Assembler) evalNow(e *expr.Expr) (int32, error) {
	resolved := e.ResolveAll(a.Symbols.Snapshot())
	v, ok := resolved.Eval()
	if !ok {
		return 0, &MissingSymbolError{Name: firstUnresolvedSymbol(resolved)}
	}
	return v, nil
}

func (a *Assembler) sizeDirective(stmt *Statement, loc uint32) (length, newLoc uint32, err error) {
	d := stmt.Directive
	switch d.Kind {
	case DirEqu:
		v, err := a.evalNow(d.Value)
		if err != nil {
			return 0, loc, err
		}
		a.Symbols.Define(stmt.Label, v)
		return 0, loc, nil

	case DirOrg:
		v, err := a.evalNow(d.Value)
		if err != nil {
			return 0, loc, err
		}
		return 0, uint32(v), nil

	case DirDc:
		n := uint32(0)
		for _, v := range d.Values {
			if v.Kind == expr.Str {
				n += uint32(len(stringLiteralBytes(v.Str))) * d.Size.Bytes()
			} else {
				n += d.Size.Bytes()
			}
		}
		return n, loc + n, nil

	case DirDs:
		v, err := a.evalNow(d.Value)
		if err != nil {
			return 0, loc, err
		}
		n := uint32(v) * d.Size.Bytes()
		return n, loc + n, nil

	case DirDcb:
		v, err := a.evalNow(d.Value)
		if err != nil {
			return 0, loc, err
		}
		n := uint32(v) * d.Size.Bytes()
		return n, loc + n, nil

	case DirOffset:
		// Establishes a new section-relative base for the location counter,
		// the same observable effect as Origin here: there is only ever one
		// section in this toolkit's output image.
		v, err := a.evalNow(d.Value)
		if err != nil {
			return 0, loc, err
		}
		return 0, uint32(v), nil

	case DirAlign:
		v, err := a.evalNow(d.Value)
		if err != nil {
			return 0, loc, err
		}
		n := uint32(v)
		if n == 0 {
			return 0, loc, nil
		}
		pad := (n - loc%n) % n
		return pad, loc + pad, nil

	case DirEven:
		if loc%2 == 0 {
			return 0, loc, nil
		}
		return 1, loc + 1, nil

	case DirOdd:
		if loc%2 == 1 {
			return 0, loc, nil
		}
		return 1, loc + 1, nil

	case DirEnd:
		return 0, loc, nil
	}
	return 0, loc, fmt.Errorf("unhandled directive kind %v", d.Kind)
}

// pass2 resolves every operand and emits the final byte image.
func (a *Assembler) pass2(stmts []Statement) (*isa.ByteMemory, error) {
	var top uint32
	for _, stmt := range stmts {
		if stmt.Address+stmt.Length > top {
			top = stmt.Address + stmt.Length
		}
	}
	mem := isa.NewByteMemory(int(top))
	symtab := a.Symbols.Snapshot()

	for _, stmt := range stmts {
		switch stmt.Kind {
		case StmtInstruction:
			if err := a.emitInstruction(stmt, symtab, mem); err != nil {
				return nil, &ParseError{Line: stmt.LineNo, Msg: err.Error()}
			}
		case StmtDirective:
			switch stmt.Directive.Kind {
			case DirDc:
				if err := a.emitDc(stmt, symtab, mem); err != nil {
					return nil, &ParseError{Line: stmt.LineNo, Msg: err.Error()}
				}
			case DirDcb:
				if err := a.emitDcb(stmt, symtab, mem); err != nil {
					return nil, &ParseError{Line: stmt.LineNo, Msg: err.Error()}
				}
			case DirEnd:
				if stmt.Directive.Value != nil {
					resolved := stmt.Directive.Value.ResolveAll(symtab)
					v, ok := resolved.Eval()
					if !ok {
						return nil, &ParseError{Line: stmt.LineNo, Msg: (&MissingSymbolError{Name: firstUnresolvedSymbol(resolved)}).Error()}
					}
					a.EntryPoint = &v
				}
			}
		}
	}
	return mem, nil
}

func (a *Assembler) emitInstruction(stmt Statement, symtab map[string]int32, mem isa.Memory) error {
	operands := make([]isa.Operand, len(stmt.Operands))
	for i, op := range stmt.Operands {
		resolved, err := op.Resolve(symtab)
		if err != nil {
			return err
		}
		// An immediate with no qualifier of its own parses as Unsized (its
		// value comes from the source text alone); the hardware encoding
		// of its extension word(s), though, is always the instruction's
		// size, matching isa.Imm's decode-side convention.
		if resolved.Kind == isa.Immediate && resolved.Size == isa.Unsized {
			resolved.Size = stmt.Size
		}
		operands[i] = resolved
	}
	inst := isa.OpcodeInstance{Mnemonic: stmt.Mnemonic, Size: stmt.Size, Operands: operands}
	_, err := isa.Encode(inst, stmt.Address, mem)
	if err != nil {
		return &UnknownInstructionFormError{Mnemonic: stmt.Mnemonic, Size: stmt.Size}
	}
	return nil
}

func (a *Assembler) emitDc(stmt Statement, symtab map[string]int32, mem isa.Memory) error {
	d := stmt.Directive
	addr := stmt.Address
	width := d.Size.Bytes()
	for _, v := range d.Values {
		if v.Kind == expr.Str {
			for _, b := range stringLiteralBytes(v.Str) {
				writeElement(mem, addr, width, uint32(b))
				addr += width
			}
			continue
		}
		resolved := v.ResolveAll(symtab)
		val, ok := resolved.Eval()
		if !ok {
			return &MissingSymbolError{Name: firstUnresolvedSymbol(resolved)}
		}
		writeElement(mem, addr, width, uint32(val))
		addr += width
	}
	return nil
}

// emitDcb writes n copies of the directive's fill value, n being the
// resolved element count. Ds never reaches here: its bytes are left at
// ByteMemory's zero fill, the same result a Dcb fill of Num(0) would emit.
func (a *Assembler) emitDcb(stmt Statement, symtab map[string]int32, mem isa.Memory) error {
	d := stmt.Directive
	count, err := a.evalNow(d.Value)
	if err != nil {
		return err
	}
	resolved := d.Fill.ResolveAll(symtab)
	fill, ok := resolved.Eval()
	if !ok {
		return &MissingSymbolError{Name: firstUnresolvedSymbol(resolved)}
	}
	addr := stmt.Address
	width := d.Size.Bytes()
	for i := int32(0); i < count; i++ {
		writeElement(mem, addr, width, uint32(fill))
		addr += width
	}
	return nil
}

func writeElement(mem isa.Memory, addr uint32, width uint32, v uint32) {
	switch width {
	case 1:
		mem.WriteByte(addr, uint8(v))
	case 2:
		mem.WriteWord(addr, uint16(v))
	case 4:
		isa.WriteLong(mem, addr, v)
	}
}
