package asm

import (
	"strconv"

	"github.com/Urethramancer/m68kasm/expr"
	"github.com/Urethramancer/m68kasm/isa"
)

// Operand mirrors isa.Operand but carries its displacement/immediate value
// as an unresolved expr.Expr instead of a concrete int32 — the value a
// symbol-bearing operand can't be given a number until the symbol table is
// complete.
type Operand struct {
	Kind     isa.OperandKind
	Reg      uint8
	IndexReg uint8
	Disp     *expr.Expr
	Size     isa.Size
}

// ExtensionWords mirrors isa.Operand.ExtensionWords: it depends only on
// Kind and Size, never on the (possibly still-symbolic) Disp value, so
// pass 1 can size an instruction before any symbol is resolved.
func (o Operand) ExtensionWords() uint32 {
	return isa.Operand{Kind: o.Kind, Size: o.Size}.ExtensionWords()
}

// Resolve substitutes every symbol in the operand's displacement/immediate
// expression and folds it to a concrete isa.Operand. It returns a
// *MissingSymbolError naming the first symbol still unresolved.
func (o Operand) Resolve(symtab map[string]int32) (isa.Operand, error) {
	out := isa.Operand{Kind: o.Kind, Reg: o.Reg, IndexReg: o.IndexReg, Size: o.Size}
	if o.Disp == nil {
		return out, nil
	}
	resolved := o.Disp.ResolveAll(symtab)
	v, ok := resolved.Eval()
	if !ok {
		return isa.Operand{}, &MissingSymbolError{Name: firstUnresolvedSymbol(resolved)}
	}
	if o.Kind == isa.AbsoluteWord || o.Kind == isa.AbsoluteLong {
		if o.Kind == isa.AbsoluteLong {
			return isa.AbsL(uint32(v)), nil
		}
		return isa.AbsW(uint16(v)), nil
	}
	out.Disp = v
	return out, nil
}

func firstUnresolvedSymbol(e *expr.Expr) string {
	if e == nil {
		return "?"
	}
	if e.Kind == expr.Sym {
		return e.Sym
	}
	if s := firstUnresolvedSymbol(e.Left); s != "?" {
		return s
	}
	return firstUnresolvedSymbol(e.Right)
}

// StatementKind distinguishes the three kinds of source line, following the
// teacher's NodeType (NodeInstruction/NodeLabel/NodeDirective) enumeration.
type StatementKind int

const (
	StmtInstruction StatementKind = iota
	StmtDirective
	StmtBlank // label-only or comment-only line
)

// Statement is one parsed source line.
type Statement struct {
	Kind      StatementKind
	Label     string
	Mnemonic  string
	Size      isa.Size
	Operands  []Operand
	Directive *Directive
	LineNo    int
	Address   uint32 // filled in during pass 1
	Length    uint32 // filled in during pass 1
}

// DirectiveKind enumerates the assembler directives spec.md §7 names.
type DirectiveKind int

const (
	DirEqu DirectiveKind = iota
	DirOrg
	DirOffset
	DirDc
	DirDs
	DirDcb
	DirAlign
	DirEven
	DirOdd
	DirEnd
)

// Directive holds a parsed directive's arguments. Which fields are
// meaningful depends on Kind: Equ/Org/Offset/Ds/Align use Value; End uses
// Value too, but as an optional entry-point expression (nil when no operand
// was given); Dc uses Size and Values (one Expr per comma-separated element,
// including string literals); Dcb uses Size, Value (the element count) and
// Fill (the fill expression, defaulting to Num(0) when omitted).
type Directive struct {
	Kind   DirectiveKind
	Value  *expr.Expr
	Fill   *expr.Expr
	Size   isa.Size
	Values []*expr.Expr
}

// ParseError reports a source line that could not be parsed, naming the
// line number for the caller to surface to the user.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return errLinePrefix(e.Line) + e.Msg
}

func errLinePrefix(line int) string {
	if line <= 0 {
		return ""
	}
	return "line " + strconv.Itoa(line) + ": "
}

// MissingSymbolError reports an operand whose expression still contains an
// unresolved symbol after pass 2's symbol table is complete.
type MissingSymbolError struct {
	Name string
}

func (e *MissingSymbolError) Error() string {
	return "undefined symbol: " + e.Name
}

// UnknownInstructionFormError reports an instruction whose mnemonic, size,
// and operand shape don't match any row in isa.Table.
type UnknownInstructionFormError struct {
	Mnemonic string
	Size     isa.Size
}

func (e *UnknownInstructionFormError) Error() string {
	return "no encoding for " + e.Mnemonic + e.Size.String() + " with these operands"
}
