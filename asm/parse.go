package asm

import (
	"fmt"
	"strings"

	"github.com/Urethramancer/m68kasm/isa"
)

// ParseProgram splits src into lines and parses each into a Statement.
// A line may open with "label:" (the label is bound to its statement's
// address during pass 1); everything from a ';' to end of line is a
// comment. Blank and comment-only lines produce a StmtBlank statement so
// line numbers in later error messages still line up with the source.
func ParseProgram(src string) ([]Statement, error) {
	lines := strings.Split(src, "\n")
	stmts := make([]Statement, 0, len(lines))
	for i, raw := range lines {
		lineNo := i + 1
		stmt, err := parseLine(raw, lineNo)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func parseLine(raw string, lineNo int) (Statement, error) {
	line := raw
	if idx := strings.Index(line, ";"); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimRight(line, " \t\r")

	stmt := Statement{Kind: StmtBlank, LineNo: lineNo}

	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return stmt, nil
	}

	// A leading field that isn't itself a known mnemonic or directive is a
	// label — with or without a trailing colon, matching both "loop: ADD"
	// and the colon-free "answer EQU 42" directive-declaration form.
	field1, rest1 := splitFirstField(trimmed)
	clean1 := strings.TrimSuffix(field1, ":")
	if name, _, err := splitSizeSuffix(clean1); err != nil || !isKnownKeyword(name) {
		stmt.Label = clean1
		trimmed = strings.TrimLeft(rest1, " \t")
		if trimmed == "" {
			return stmt, nil
		}
	}

	field, rest := splitFirstField(trimmed)
	mnemonic, size, err := splitSizeSuffix(field)
	if err != nil {
		return Statement{}, &ParseError{Line: lineNo, Msg: err.Error()}
	}
	rest = strings.TrimSpace(rest)

	if IsDirectiveMnemonic(mnemonic) {
		dir, err := ParseDirective(mnemonic, size, rest)
		if err != nil {
			return Statement{}, &ParseError{Line: lineNo, Msg: err.Error()}
		}
		stmt.Kind = StmtDirective
		stmt.Mnemonic = mnemonic
		stmt.Directive = dir
		return stmt, nil
	}

	var operands []Operand
	if rest != "" {
		for _, part := range splitTopLevelComma(rest) {
			op, err := ParseOperand(part)
			if err != nil {
				return Statement{}, &ParseError{Line: lineNo, Msg: fmt.Sprintf("%s: %v", mnemonic, err)}
			}
			operands = append(operands, op)
		}
	}
	stmt.Kind = StmtInstruction
	stmt.Mnemonic = mnemonic
	stmt.Size = size
	stmt.Operands = operands
	return stmt, nil
}

var instructionMnemonics = map[string]bool{
	"ADD": true, "ADDA": true, "ADDI": true, "MOVE": true, "MOVEA": true,
}

// isKnownKeyword reports whether name (already upper-cased, size suffix
// stripped) names an instruction or directive this assembler recognizes.
func isKnownKeyword(name string) bool {
	return instructionMnemonics[name] || IsDirectiveMnemonic(name)
}

// splitFirstField splits on the first run of whitespace, returning the
// leading field and the (untrimmed) remainder.
func splitFirstField(s string) (field, rest string) {
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i+1:]
}

// splitSizeSuffix splits "ADD.B" into ("ADD", Byte); a mnemonic with no
// suffix gets isa.Unsized, which the assembler's pass 1 turns into Word
// for instructions.
func splitSizeSuffix(field string) (string, isa.Size, error) {
	field = strings.ToUpper(field)
	idx := strings.LastIndex(field, ".")
	if idx < 0 {
		return field, isa.Unsized, nil
	}
	sz, ok := isa.ParseSizeQualifier(field[idx+1:])
	if !ok {
		return "", isa.Unsized, fmt.Errorf("unrecognized size suffix in %q", field)
	}
	return field[:idx], sz, nil
}
