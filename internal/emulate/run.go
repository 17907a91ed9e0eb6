// Package emulate is the narrow collaborator interface spec §1 carves the
// "emulator" out to: a reference interpreter just complete enough to
// execute a linearized program and let the semantic-preservation property
// in spec §8 be tested end to end. It is deliberately thin - no flags
// register, no breakpoints, no stepping, no memory pretty-printer - those
// stay behind the shell/debugger subsystem this repository does not
// implement (see SPEC_FULL.md §4.16).
//
// Grounded on original_source/Brainfuck/src/emulator.cpp's do_execute
// switch and cell-pointer wraparound arithmetic (cpu_emulator::right),
// adapted from a fixed std::array<memory_cell_t, N> plus raw pointer into a
// Go byte slice plus integer index.
package emulate

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/vmichal/brainfuck-sub000/internal/ir"
)

// TapeSize is the number of wrapping memory cells the reference interpreter
// gives a running program, matching the classic Brainfuck tape size.
const TapeSize = 30000

// ErrDivergesForever is returned when execution reaches an Infinite
// instruction whose looping condition actually holds: the optimizer proved
// (or the source genuinely expresses) a loop that never terminates, and a
// reference interpreter has no business spinning the test suite forever to
// confirm that. This is the interpreter's one deliberate divergence from
// "just execute it": it trades literal infinite spinning for a detectable
// halt condition.
var ErrDivergesForever = errors.New("emulate: program does not halt")

// Run executes linear (as produced by ir.Linearize) against a fresh
// TapeSize-cell tape, reading Read instructions from input and writing
// Write instructions to output, per spec §6's "produced to the emulator"
// interface.
func Run(linear []ir.FlatInstruction, input io.Reader, output io.Writer) error {
	tape := make([]byte, TapeSize)
	ptr := 0
	reader := bufio.NewReader(input)

	advance := func(delta int64) {
		ptr = int((int64(ptr) + delta) % TapeSize)
		if ptr < 0 {
			ptr += TapeSize
		}
	}

	for pc := 0; pc < len(linear); {
		inst := linear[pc]
		switch inst.Opcode {
		case ir.Nop, ir.ProgramEntry, ir.ProgramExit, ir.Breakpoint:
			pc++
		case ir.Inc:
			tape[ptr] += byte(inst.Arg)
			pc++
		case ir.Right:
			advance(inst.Arg)
			pc++
		case ir.LoadConst:
			tape[ptr] = byte(inst.Arg)
			pc++
		case ir.Read:
			b, err := reader.ReadByte()
			if err == nil {
				tape[ptr] = b
			} else if err != io.EOF {
				return fmt.Errorf("emulate: read: %w", err)
			}
			pc++
		case ir.Write:
			if _, err := output.Write([]byte{tape[ptr]}); err != nil {
				return fmt.Errorf("emulate: write: %w", err)
			}
			pc++
		case ir.SearchLeft:
			for tape[ptr] != 0 {
				advance(-inst.Arg)
			}
			pc++
		case ir.SearchRight:
			for tape[ptr] != 0 {
				advance(inst.Arg)
			}
			pc++
		case ir.Branch:
			pc = inst.Target
		case ir.BranchNZ:
			if tape[ptr] != 0 {
				pc = inst.Target
			} else {
				pc = inst.FalseTarget
			}
		case ir.Infinite:
			if inst.LoopsOnNonZero() == (tape[ptr] != 0) {
				return ErrDivergesForever
			}
			pc++
		default:
			return fmt.Errorf("emulate: unhandled opcode %s at pc %d", inst.Opcode, pc)
		}
	}
	return nil
}
