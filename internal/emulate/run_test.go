package emulate

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/vmichal/brainfuck-sub000/internal/ir"
	"github.com/vmichal/brainfuck-sub000/internal/optimize"
)

func TestRunEchoesInputThroughIncrement(t *testing.T) {
	prog := ir.Build(",+.")
	flat := ir.Linearize(prog)

	var out bytes.Buffer
	if err := Run(flat, strings.NewReader("A"), &out); err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}
	if got := out.String(); got != "B" {
		t.Errorf("got output %q, want %q", got, "B")
	}
}

func TestRunWrapsCellValueModulo256(t *testing.T) {
	source := strings.Repeat("+", 256) + "."
	prog := ir.Build(source)
	flat := ir.Linearize(prog)

	var out bytes.Buffer
	if err := Run(flat, strings.NewReader(""), &out); err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}
	if got := out.Bytes(); len(got) != 1 || got[0] != 0 {
		t.Errorf("got %v, want a single zero byte (256 wraps to 0)", got)
	}
}

func TestRunWrapsPointerAcrossTapeEnds(t *testing.T) {
	source := strings.Repeat("<", TapeSize) + "+."
	prog := ir.Build(source)
	flat := ir.Linearize(prog)

	var out bytes.Buffer
	if err := Run(flat, strings.NewReader(""), &out); err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}
	if got := out.Bytes(); len(got) != 1 || got[0] != 1 {
		t.Errorf("got %v, want [1]: stepping left TapeSize times must land back on cell 0", got)
	}
}

func TestRunReadAtEOFLeavesCellUntouched(t *testing.T) {
	source := "+,."
	prog := ir.Build(source)
	flat := ir.Linearize(prog)

	var out bytes.Buffer
	if err := Run(flat, strings.NewReader(""), &out); err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}
	if got := out.Bytes(); len(got) != 1 || got[0] != 1 {
		t.Errorf("got %v, want [1]: a read at EOF must not clobber the cell", got)
	}
}

func TestRunDetectsProvableDivergence(t *testing.T) {
	// "+[]" sets the cell to 1 and then enters an empty loop: real execution
	// never falls back out of it, so once optimize.Run recognizes the
	// self-loop and rewrites it to infinite(loops_on_nz), the emulator must
	// report the divergence rather than silently returning.
	prog := ir.Build("+[]")
	if _, _, err := optimize.Run(prog, optimize.Options{}); err != nil {
		t.Fatalf("optimize failed: %v", err)
	}
	flat := ir.Linearize(prog)

	err := Run(flat, strings.NewReader(""), &bytes.Buffer{})
	if !errors.Is(err, ErrDivergesForever) {
		t.Errorf("got err = %v, want ErrDivergesForever", err)
	}
}

func TestRunHaltsOnInfiniteInstructionWithFalseCondition(t *testing.T) {
	loc := ir.SourceLocation{}
	b := ir.NewInfinite(true, loc)
	flat := []ir.FlatInstruction{
		{Instruction: ir.Instruction{Opcode: ir.ProgramEntry}},
		{Instruction: b},
		{Instruction: ir.Instruction{Opcode: ir.ProgramExit}},
	}

	if err := Run(flat, strings.NewReader(""), &bytes.Buffer{}); err != nil {
		t.Errorf("got err = %v, want nil: the cell is zero, so infinite(loops_on_nz) must not fire", err)
	}
}
