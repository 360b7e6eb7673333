package asm

import (
	"fmt"
	"strings"

	"github.com/Urethramancer/m68kasm/expr"
	"github.com/Urethramancer/m68kasm/isa"
)

// ParseDirective parses a directive mnemonic (already upper-cased and
// stripped of its size suffix, which is passed separately) and its
// argument text into a Directive.
func ParseDirective(mnemonic string, size isa.Size, argsText string) (*Directive, error) {
	switch mnemonic {
	case "EQU":
		v, err := ParseExpression(argsText)
		if err != nil {
			return nil, fmt.Errorf("EQU: %w", err)
		}
		return &Directive{Kind: DirEqu, Value: v}, nil

	case "ORG":
		v, err := ParseExpression(argsText)
		if err != nil {
			return nil, fmt.Errorf("ORG: %w", err)
		}
		return &Directive{Kind: DirOrg, Value: v}, nil

	case "OFFSET":
		v, err := ParseExpression(argsText)
		if err != nil {
			return nil, fmt.Errorf("OFFSET: %w", err)
		}
		return &Directive{Kind: DirOffset, Value: v}, nil

	case "DC":
		values, err := parseDcValues(argsText)
		if err != nil {
			return nil, fmt.Errorf("DC: %w", err)
		}
		if size == isa.Unsized {
			size = isa.Word
		}
		return &Directive{Kind: DirDc, Size: size, Values: values}, nil

	case "DS":
		v, err := ParseExpression(argsText)
		if err != nil {
			return nil, fmt.Errorf("DS: %w", err)
		}
		if size == isa.Unsized {
			size = isa.Word
		}
		return &Directive{Kind: DirDs, Size: size, Value: v}, nil

	case "DCB":
		parts := splitTopLevelComma(argsText)
		if len(parts) == 0 || parts[0] == "" {
			return nil, fmt.Errorf("DCB: expected a length expression")
		}
		if len(parts) > 2 {
			return nil, fmt.Errorf("DCB: too many arguments")
		}
		length, err := ParseExpression(parts[0])
		if err != nil {
			return nil, fmt.Errorf("DCB: %w", err)
		}
		fill := expr.NewNum(0)
		if len(parts) == 2 {
			fill, err = ParseExpression(parts[1])
			if err != nil {
				return nil, fmt.Errorf("DCB: %w", err)
			}
		}
		if size == isa.Unsized {
			size = isa.Word
		}
		return &Directive{Kind: DirDcb, Size: size, Value: length, Fill: fill}, nil

	case "ALIGN":
		v, err := ParseExpression(argsText)
		if err != nil {
			return nil, fmt.Errorf("ALIGN: %w", err)
		}
		return &Directive{Kind: DirAlign, Value: v}, nil

	case "EVEN":
		return &Directive{Kind: DirEven}, nil

	case "ODD":
		return &Directive{Kind: DirOdd}, nil

	case "END":
		argsText = strings.TrimSpace(argsText)
		if argsText == "" {
			return &Directive{Kind: DirEnd}, nil
		}
		v, err := ParseExpression(argsText)
		if err != nil {
			return nil, fmt.Errorf("END: %w", err)
		}
		return &Directive{Kind: DirEnd, Value: v}, nil
	}
	return nil, fmt.Errorf("unknown directive %q", mnemonic)
}

// parseDcValues splits a DC argument list on top-level commas, turning each
// quoted element into an expr.Str leaf (one node per character is the
// emitter's job, not the parser's) and everything else into a parsed
// expression.
func parseDcValues(s string) ([]*expr.Expr, error) {
	var out []*expr.Expr
	for _, part := range splitTopLevelComma(s) {
		if part == "" {
			return nil, fmt.Errorf("empty element in list")
		}
		if part[0] == '\'' || part[0] == '"' {
			if len(part) < 2 || part[len(part)-1] != part[0] {
				return nil, fmt.Errorf("unterminated string literal %q", part)
			}
			out = append(out, expr.NewStr(part))
			continue
		}
		e, err := ParseExpression(part)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// IsDirectiveMnemonic reports whether name (already upper-cased) names a
// directive rather than an instruction mnemonic.
func IsDirectiveMnemonic(name string) bool {
	switch name {
	case "EQU", "ORG", "OFFSET", "DC", "DS", "DCB", "ALIGN", "EVEN", "ODD", "END":
		return true
	}
	return false
}

// stringLiteralBytes strips a Str leaf's surrounding quote characters and
// returns its raw byte content, used when emitting dc.b string elements.
func stringLiteralBytes(s string) []byte {
	if len(s) >= 2 {
		s = s[1 : len(s)-1]
	}
	return []byte(strings.ReplaceAll(s, "\\'", "'"))
}
