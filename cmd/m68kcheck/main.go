// Command m68kcheck verifies the disassemble/parse/reassemble round-trip
// invariant over a binary image or a swept opcode range.
package main

import (
	"fmt"
	"os"

	"github.com/grimdork/climate"

	"github.com/Urethramancer/m68kasm/asm"
	"github.com/Urethramancer/m68kasm/disasm"
	"github.com/Urethramancer/m68kasm/isa"
)

// RoundtripCmd disassembles a binary image, reassembles the result, and
// reports any instruction whose re-encoded bytes differ from the original.
type RoundtripCmd struct {
	File string `arg:"" help:"binary image to check"`
}

// ScanCmd sweeps every 16-bit opcode word, decoding and re-encoding each
// one that forms a legal instruction and reporting any mismatch.
type ScanCmd struct {
	Start uint `name:"start" default:"0" help:"first opcode word to scan"`
	End   uint `name:"end" default:"65535" help:"last opcode word to scan (inclusive)"`
}

type Options struct {
	climate.Help
	Roundtrip RoundtripCmd `cmd:"" help:"check a binary image's disassemble/reassemble round-trip"`
	Scan      ScanCmd      `cmd:"" help:"sweep the opcode space checking decode/encode fixed points"`
}

func main() {
	var opt Options
	ctx, err := climate.Parse(&opt)
	if err != nil {
		fmt.Fprintln(os.Stderr, "m68kcheck:", err)
		os.Exit(1)
	}

	switch ctx.Command() {
	case "roundtrip":
		err = runRoundtrip(opt.Roundtrip)
	case "scan":
		err = runScan(opt.Scan)
	default:
		err = fmt.Errorf("unknown command %q", ctx.Command())
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "m68kcheck:", err)
		os.Exit(1)
	}
}

func runRoundtrip(cmd RoundtripCmd) error {
	raw, err := os.ReadFile(cmd.File)
	if err != nil {
		return err
	}
	mem := &isa.ByteMemory{Bytes: raw}
	lines, err := disasm.Range(0, uint32(len(raw)), mem)
	if err != nil {
		return err
	}
	bad := 0
	for _, l := range lines {
		a := asm.New()
		reassembled, err := a.Assemble(l.Text, l.Address)
		if err != nil {
			fmt.Printf("%06X\t%s\tparse error: %v\n", l.Address, l.Text, err)
			bad++
			continue
		}
		got := reassembled.Bytes[l.Address : l.Address+uint32(len(l.Bytes))]
		if !bytesEqual(got, l.Bytes) {
			fmt.Printf("%06X\t%s\tmismatch: want %X got %X\n", l.Address, l.Text, l.Bytes, got)
			bad++
		}
	}
	fmt.Printf("%d instructions, %d mismatches\n", len(lines), bad)
	if bad > 0 {
		return fmt.Errorf("%d round-trip mismatches", bad)
	}
	return nil
}

func runScan(cmd ScanCmd) error {
	bad := 0
	total := 0
	for word := cmd.Start; word <= cmd.End; word++ {
		mem := isa.NewByteMemory(16)
		mem.WriteWord(0, uint16(word))
		inst, err := isa.Decode(0, mem)
		if err != nil {
			continue
		}
		total++
		check := isa.NewByteMemory(16)
		if _, err := isa.Encode(inst, 0, check); err != nil {
			fmt.Printf("%04X\t%s\tencode error: %v\n", word, inst.String(), err)
			bad++
			continue
		}
		length := inst.Length()
		if !bytesEqual(mem.Bytes[:length], check.Bytes[:length]) {
			fmt.Printf("%04X\t%s\tmismatch: want %X got %X\n", word, inst.String(), mem.Bytes[:length], check.Bytes[:length])
			bad++
		}
		if word == cmd.End {
			break // last requested word checked
		}
	}
	fmt.Printf("%d decodable opcodes, %d mismatches\n", total, bad)
	if bad > 0 {
		return fmt.Errorf("%d scan mismatches", bad)
	}
	return nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
