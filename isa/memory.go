package isa

import "encoding/binary"

// Memory is the byte/word-addressed store the encoder and decoder read and
// write extension words through. The core treats it as an external
// collaborator: a CLI wrapper, a memory-mapped emulator, or (as here) a
// plain byte slice can all implement it. All M68k encodings are big-endian.
type Memory interface {
	ReadByte(addr uint32) uint8
	WriteByte(addr uint32, b uint8)
	ReadWord(addr uint32) uint16
	WriteWord(addr uint32, w uint16)
}

// ByteMemory is a reference Memory implementation backed by a growable byte
// slice, used by the assembler to emit an assembled image and by tests and
// the cmd/ tools for disassembly input. It grows on write the way the
// teacher's cpu.CPU.Mem does not (that one is execution-sized up front);
// here the final size is rarely known ahead of time.
type ByteMemory struct {
	Bytes []byte
}

// NewByteMemory creates a Memory of the given initial size, zero-filled.
func NewByteMemory(size int) *ByteMemory {
	return &ByteMemory{Bytes: make([]byte, size)}
}

func (m *ByteMemory) ensure(addr uint32, width int) {
	need := int(addr) + width
	if need > len(m.Bytes) {
		grown := make([]byte, need)
		copy(grown, m.Bytes)
		m.Bytes = grown
	}
}

func (m *ByteMemory) ReadByte(addr uint32) uint8 {
	if int(addr) >= len(m.Bytes) {
		return 0
	}
	return m.Bytes[addr]
}

func (m *ByteMemory) WriteByte(addr uint32, b uint8) {
	m.ensure(addr, 1)
	m.Bytes[addr] = b
}

func (m *ByteMemory) ReadWord(addr uint32) uint16 {
	if int(addr)+2 > len(m.Bytes) {
		return 0
	}
	return binary.BigEndian.Uint16(m.Bytes[addr:])
}

func (m *ByteMemory) WriteWord(addr uint32, w uint16) {
	m.ensure(addr, 2)
	binary.BigEndian.PutUint16(m.Bytes[addr:], w)
}

// ReadLong and WriteLong are convenience helpers built on the required
// interface methods; absolute-long and long-sized immediates need them.
func ReadLong(mem Memory, addr uint32) uint32 {
	hi := mem.ReadWord(addr)
	lo := mem.ReadWord(addr + 2)
	return uint32(hi)<<16 | uint32(lo)
}

func WriteLong(mem Memory, addr uint32, v uint32) {
	mem.WriteWord(addr, uint16(v>>16))
	mem.WriteWord(addr+2, uint16(v))
}
