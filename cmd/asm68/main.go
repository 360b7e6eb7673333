// Command asm68 assembles an M68k source file into a raw binary image.
package main

import (
	"fmt"
	"os"

	"github.com/Urethramancer/m68kasm/asm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: asm68 <source.s> [output.bin]")
		os.Exit(1)
	}
	src, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "asm68:", err)
		os.Exit(1)
	}

	a := asm.New()
	mem, err := a.Assemble(string(src), 0)
	if err != nil {
		fmt.Fprintln(os.Stderr, "asm68:", err)
		os.Exit(1)
	}
	if a.EntryPoint != nil {
		fmt.Fprintf(os.Stderr, "asm68: entry point %#x\n", uint32(*a.EntryPoint))
	}

	out := os.Stdout
	if len(os.Args) >= 3 {
		f, err := os.Create(os.Args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, "asm68:", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	if _, err := out.Write(mem.Bytes); err != nil {
		fmt.Fprintln(os.Stderr, "asm68:", err)
		os.Exit(1)
	}
}
