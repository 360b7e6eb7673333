package isa

// OpcodeInstance is a single decoded (or about-to-be-encoded) instruction:
// a mnemonic, its resolved size, and its operands in source order. It is
// the common currency between the decoder, the encoder, and the
// disassembler's text formatter.
type OpcodeInstance struct {
	Mnemonic string
	Size     Size
	Operands []Operand
}

// Length reports the instruction's total encoded length in bytes: the
// opcode word plus every operand's extension words.
func (oi OpcodeInstance) Length() uint32 {
	n := uint32(2)
	for _, o := range oi.Operands {
		n += o.ExtensionWords() * 2
	}
	return n
}
