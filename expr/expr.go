// Package expr implements the symbolic integer expression tree shared by the
// assembler's directive and operand grammars: constants, named symbols,
// string literals, and the arithmetic/bitwise operators between them.
package expr

// Kind tags the variant held by an Expr node.
type Kind int

const (
	Num Kind = iota
	Sym
	Str
	Neg
	Cpl
	Add
	Sub
	Mul
	Div
	Mod
	Ior
	Xor
	And
	Shl
	Shr
)

var kindNames = map[Kind]string{
	Num: "Num", Sym: "Sym", Str: "Str", Neg: "Neg", Cpl: "Cpl",
	Add: "Add", Sub: "Sub", Mul: "Mul", Div: "Div", Mod: "Mod",
	Ior: "Ior", Xor: "Xor", And: "And", Shl: "Shl", Shr: "Shr",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Expr is a node in the expression tree. Shape is a pure tree: Left/Right
// are never shared, and nothing mutates a node after construction.
type Expr struct {
	Kind  Kind
	Num   int32
	Sym   string
	Str   string
	Left  *Expr
	Right *Expr // nil for the unary Neg/Cpl and the leaf kinds
}

// NewNum builds a numeric leaf.
func NewNum(n int32) *Expr { return &Expr{Kind: Num, Num: n} }

// NewSym builds a symbol reference leaf.
func NewSym(name string) *Expr { return &Expr{Kind: Sym, Sym: name} }

// NewStr builds a string-literal leaf. The captured text includes its
// surrounding quote characters, per the lexer's convention.
func NewStr(text string) *Expr { return &Expr{Kind: Str, Str: text} }

// NewNeg builds a unary arithmetic negation.
func NewNeg(e *Expr) *Expr { return &Expr{Kind: Neg, Left: e} }

// NewCpl builds a unary bitwise complement.
func NewCpl(e *Expr) *Expr { return &Expr{Kind: Cpl, Left: e} }

func newBinary(k Kind, l, r *Expr) *Expr { return &Expr{Kind: k, Left: l, Right: r} }

func NewAdd(l, r *Expr) *Expr { return newBinary(Add, l, r) }
func NewSub(l, r *Expr) *Expr { return newBinary(Sub, l, r) }
func NewMul(l, r *Expr) *Expr { return newBinary(Mul, l, r) }
func NewDiv(l, r *Expr) *Expr { return newBinary(Div, l, r) }
func NewMod(l, r *Expr) *Expr { return newBinary(Mod, l, r) }
func NewIor(l, r *Expr) *Expr { return newBinary(Ior, l, r) }
func NewXor(l, r *Expr) *Expr { return newBinary(Xor, l, r) }
func NewAnd(l, r *Expr) *Expr { return newBinary(And, l, r) }
func NewShl(l, r *Expr) *Expr { return newBinary(Shl, l, r) }
func NewShr(l, r *Expr) *Expr { return newBinary(Shr, l, r) }

// Eval is the evaluator over constant subtrees. It returns ok=false if any
// Sym or Str leaf is reached, and also on a division or modulo by zero;
// arithmetic wraps on over/underflow and
// uses truncated-toward-zero division and modulo, matching the host's
// native int32 semantics. Shift amounts are taken modulo 32 and Shr is
// arithmetic (sign-extending), matching M68k/Go >> on a signed operand.
func (e *Expr) Eval() (int32, bool) {
	if e == nil {
		return 0, false
	}
	switch e.Kind {
	case Num:
		return e.Num, true
	case Sym, Str:
		return 0, false
	case Neg:
		v, ok := e.Left.Eval()
		return -v, ok
	case Cpl:
		v, ok := e.Left.Eval()
		return ^v, ok
	}

	lv, ok := e.Left.Eval()
	if !ok {
		return 0, false
	}
	rv, ok := e.Right.Eval()
	if !ok {
		return 0, false
	}
	switch e.Kind {
	case Add:
		return lv + rv, true
	case Sub:
		return lv - rv, true
	case Mul:
		return lv * rv, true
	case Div:
		if rv == 0 {
			return 0, false
		}
		return lv / rv, true
	case Mod:
		if rv == 0 {
			return 0, false
		}
		return lv % rv, true
	case Ior:
		return lv | rv, true
	case Xor:
		return lv ^ rv, true
	case And:
		return lv & rv, true
	case Shl:
		return lv << (uint32(rv) % 32), true
	case Shr:
		return lv >> (uint32(rv) % 32), true
	}
	return 0, false
}

// Resolve performs structural substitution of every Sym(name) with Num(value),
// folding each rewritten subtree back to a Num as soon as it becomes fully
// numeric. Str nodes are never simplified. A fully-resolved expression
// (every Sym equal to name) reduces to a single Num unless it divides by
// zero somewhere, in which case that subtree stays unfolded.
func (e *Expr) Resolve(name string, value int32) *Expr {
	if e == nil {
		return nil
	}
	var res *Expr
	switch e.Kind {
	case Num:
		return &Expr{Kind: Num, Num: e.Num}
	case Str:
		return &Expr{Kind: Str, Str: e.Str}
	case Sym:
		if e.Sym == name {
			return &Expr{Kind: Num, Num: value}
		}
		return &Expr{Kind: Sym, Sym: e.Sym}
	case Neg, Cpl:
		res = &Expr{Kind: e.Kind, Left: e.Left.Resolve(name, value)}
	default:
		res = &Expr{Kind: e.Kind, Left: e.Left.Resolve(name, value), Right: e.Right.Resolve(name, value)}
	}
	if n, ok := res.Eval(); ok {
		return &Expr{Kind: Num, Num: n}
	}
	return res
}

// ResolveAll applies Resolve for every name/value pair in symtab, in no
// particular order — safe because Resolve only ever touches Sym nodes whose
// name matches, so the order symbols are substituted in does not matter.
func (e *Expr) ResolveAll(symtab map[string]int32) *Expr {
	res := e
	for name, value := range symtab {
		res = res.Resolve(name, value)
	}
	return res
}

// Equal reports whether two expression trees have the same shape and leaf
// values. Used by tests comparing parser output against expected ASTs.
func Equal(a, b *Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Num:
		return a.Num == b.Num
	case Sym:
		return a.Sym == b.Sym
	case Str:
		return a.Str == b.Str
	case Neg, Cpl:
		return Equal(a.Left, b.Left)
	default:
		return Equal(a.Left, b.Left) && Equal(a.Right, b.Right)
	}
}
