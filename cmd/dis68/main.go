// Command dis68 disassembles a raw M68k binary image to text.
package main

import (
	"fmt"
	"os"

	"github.com/Urethramancer/m68kasm/disasm"
	"github.com/Urethramancer/m68kasm/isa"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: dis68 <image.bin>")
		os.Exit(1)
	}
	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "dis68:", err)
		os.Exit(1)
	}

	mem := &isa.ByteMemory{Bytes: raw}
	lines, err := disasm.Range(0, uint32(len(raw)), mem)
	for _, l := range lines {
		fmt.Printf("%06X\t%X\t%s\n", l.Address, l.Bytes, l.Text)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "dis68:", err)
		os.Exit(1)
	}
}
