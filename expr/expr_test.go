package expr_test

import (
	"testing"

	"github.com/Urethramancer/m68kasm/expr"
)

func eval(t *testing.T, e *expr.Expr) int32 {
	t.Helper()
	v, ok := e.Eval()
	if !ok {
		t.Fatalf("expected expression to evaluate, got none: %+v", e)
	}
	return v
}

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		name string
		e    *expr.Expr
		want int32
	}{
		{"add", expr.NewAdd(expr.NewNum(1), expr.NewNum(2)), 3},
		{"sub", expr.NewSub(expr.NewNum(1), expr.NewNum(2)), -1},
		{"mul-then-add", expr.NewAdd(expr.NewNum(1), expr.NewMul(expr.NewNum(2), expr.NewNum(3))), 7},
		{"div", expr.NewDiv(expr.NewNum(6), expr.NewNum(3)), 2},
		{"div-trunc-toward-zero", expr.NewDiv(expr.NewNum(-7), expr.NewNum(2)), -3},
		{"mod-trunc-toward-zero", expr.NewMod(expr.NewNum(-7), expr.NewNum(2)), -1},
		{"mod-mul-div", expr.NewDiv(expr.NewMul(expr.NewMod(expr.NewNum(6), expr.NewNum(4)), expr.NewNum(8)), expr.NewNum(2)), 8},
		{"ior", expr.NewIor(expr.NewNum(0b110), expr.NewNum(0b011)), 0b111},
		{"xor", expr.NewXor(expr.NewNum(0b110), expr.NewNum(0b011)), 0b101},
		{"and", expr.NewAnd(expr.NewNum(0b111), expr.NewNum(0b101)), 0b101},
		{"shl", expr.NewShl(expr.NewNum(0b110), expr.NewNum(1)), 0b1100},
		{"shr-arithmetic", expr.NewShr(expr.NewNum(-4), expr.NewNum(1)), -2},
		{"cpl", expr.NewCpl(expr.NewNum(13)), ^int32(13)},
		{"neg", expr.NewNeg(expr.NewNum(13)), -13},
		{"shift-amount-mod-32", expr.NewShl(expr.NewNum(1), expr.NewNum(33)), 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := eval(t, tc.e); got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestEvalOverflowWraps(t *testing.T) {
	e := expr.NewAdd(expr.NewNum(0x7FFFFFFF), expr.NewNum(1))
	if got := eval(t, e); got != -0x80000000 {
		t.Errorf("expected wraparound to math.MinInt32, got %d", got)
	}
}

func TestEvalSymbolOrStringIsAbsent(t *testing.T) {
	if _, ok := expr.NewSym("loop").Eval(); ok {
		t.Errorf("expected Sym to be unevaluable")
	}
	if _, ok := expr.NewStr("'x'").Eval(); ok {
		t.Errorf("expected Str to be unevaluable")
	}
	// loop * (5+4)
	e := expr.NewMul(expr.NewSym("loop"), expr.NewAdd(expr.NewNum(5), expr.NewNum(4)))
	if _, ok := e.Eval(); ok {
		t.Errorf("expected symbolic subtree to be unevaluable")
	}
}

func TestResolveLeavesOtherSymbolsSymbolic(t *testing.T) {
	// loop * (5 + 4), resolving an unrelated name "other"
	e := expr.NewMul(expr.NewSym("loop"), expr.NewAdd(expr.NewNum(5), expr.NewNum(4)))
	resolved := e.Resolve("other", 42)
	want := expr.NewMul(expr.NewSym("loop"), expr.NewNum(9))
	if !expr.Equal(want, resolved) {
		t.Errorf("got %+v, want %+v", resolved, want)
	}
	if _, ok := resolved.Eval(); ok {
		t.Errorf("expected still-symbolic result to be unevaluable")
	}
}

func TestResolveFoldsToConcreteNum(t *testing.T) {
	// (5 + loop) * 11, resolving loop=4
	e := expr.NewMul(expr.NewAdd(expr.NewNum(5), expr.NewSym("loop")), expr.NewNum(11))
	resolved := e.Resolve("loop", 4)
	if !expr.Equal(resolved, expr.NewNum(99)) {
		t.Errorf("got %+v, want Num(99)", resolved)
	}
}

func TestResolveNeverTouchesStr(t *testing.T) {
	e := expr.NewAdd(expr.NewNum(1), expr.NewStr("'hi'"))
	resolved := e.Resolve("hi", 5)
	if resolved.Right.Kind != expr.Str || resolved.Right.Str != "'hi'" {
		t.Errorf("Str node was mutated: %+v", resolved.Right)
	}
}

func TestResolveAllReducesEveryOccurrence(t *testing.T) {
	// life & universe, both resolved
	e := expr.NewAnd(expr.NewSym("life"), expr.NewSym("universe"))
	resolved := e.ResolveAll(map[string]int32{"life": 42, "universe": 7})
	if !expr.Equal(resolved, expr.NewNum(42&7)) {
		t.Errorf("got %+v, want Num(%d)", resolved, 42&7)
	}
}
