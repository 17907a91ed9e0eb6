package ir

import "fmt"

// Opcode is the closed set of instructions the middle-end ever produces.
// dec and left from the source language are folded into Inc and Right with
// a negative argument; the IR itself only ever sees signed arguments.
type Opcode uint8

const (
	Nop Opcode = iota
	Inc
	Right
	Branch
	BranchNZ
	Read
	Write
	SearchLeft
	SearchRight
	LoadConst
	Infinite
	Breakpoint
	ProgramEntry
	ProgramExit
)

func (op Opcode) String() string {
	switch op {
	case Nop:
		return "nop"
	case Inc:
		return "inc"
	case Right:
		return "right"
	case Branch:
		return "branch"
	case BranchNZ:
		return "branch_nz"
	case Read:
		return "read"
	case Write:
		return "write"
	case SearchLeft:
		return "search_left"
	case SearchRight:
		return "search_right"
	case LoadConst:
		return "load_const"
	case Infinite:
		return "infinite"
	case Breakpoint:
		return "breakpoint"
	case ProgramEntry:
		return "program_entry"
	case ProgramExit:
		return "program_exit"
	default:
		return fmt.Sprintf("opcode(%d)", uint8(op))
	}
}

// SourceLocation pins an instruction to the (line, column) of the source
// character it was lexed from. Entry/exit markers point at the position
// just before/after the source text.
type SourceLocation struct {
	Line   int
	Column int
}

func (l SourceLocation) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Instruction is the fixed-size IR record. Argument meaning by opcode:
//
//	Inc, Right:            non-zero signed delta
//	LoadConst:              literal value to store at the current cell
//	SearchLeft, SearchRight: non-zero positive stride
//	Infinite:               0 (loops while cell is zero) or 1 (loops while non-zero)
//	Branch, BranchNZ:       unused (0) - destinations live on the owning BasicBlock
//	everything else:        unused (0)
type Instruction struct {
	Opcode Opcode
	Arg    int64
	Loc    SourceLocation
}

func (i Instruction) IsArithmetic() bool { return i.Opcode == Inc }
func (i Instruction) IsShift() bool      { return i.Opcode == Right }
func (i Instruction) IsIO() bool         { return i.Opcode == Read || i.Opcode == Write }
func (i Instruction) IsConst() bool      { return i.Opcode == LoadConst }
func (i Instruction) IsNop() bool        { return i.Opcode == Nop }
func (i Instruction) IsSearch() bool     { return i.Opcode == SearchLeft || i.Opcode == SearchRight }
func (i Instruction) IsInfinite() bool   { return i.Opcode == Infinite }
func (i Instruction) IsBranch() bool     { return i.Opcode == Branch }
func (i Instruction) IsBranchNZ() bool   { return i.Opcode == BranchNZ }
func (i Instruction) IsJump() bool       { return i.IsBranch() || i.IsBranchNZ() }

// LoopsOnNonZero reports whether an Infinite instruction loops while the
// cell is non-zero (the exit value is provably zero). Only valid for
// Infinite instructions.
func (i Instruction) LoopsOnNonZero() bool { return i.Arg != 0 }

// LoopsOnZero is the complement of LoopsOnNonZero.
func (i Instruction) LoopsOnZero() bool { return i.Arg == 0 }

// String renders an instruction roughly as the frontend's textual form,
// used by the graph dumper.
func (i Instruction) String() string {
	switch i.Opcode {
	case Inc, Right, LoadConst, SearchLeft, SearchRight:
		return fmt.Sprintf("%-11s %d", i.Opcode, i.Arg)
	case Infinite:
		if i.LoopsOnNonZero() {
			return "infinite    (loops while non-zero)"
		}
		return "infinite    (loops while zero)"
	default:
		return i.Opcode.String()
	}
}

// NewInc returns an Inc instruction applying delta to the current cell.
func NewInc(delta int64, loc SourceLocation) Instruction {
	return Instruction{Opcode: Inc, Arg: delta, Loc: loc}
}

// NewRight returns a Right instruction shifting the pointer by delta.
func NewRight(delta int64, loc SourceLocation) Instruction {
	return Instruction{Opcode: Right, Arg: delta, Loc: loc}
}

// NewLoadConst returns a LoadConst instruction storing value at the current cell.
func NewLoadConst(value int64, loc SourceLocation) Instruction {
	return Instruction{Opcode: LoadConst, Arg: value, Loc: loc}
}

// NewSearch returns a search instruction for the given direction and
// positive stride magnitude.
func NewSearch(rightward bool, stride int64, loc SourceLocation) Instruction {
	op := SearchLeft
	if rightward {
		op = SearchRight
	}
	return Instruction{Opcode: op, Arg: stride, Loc: loc}
}

// NewInfinite returns an Infinite instruction that loops on non-zero (or, if
// loopsOnNonZero is false, on zero).
func NewInfinite(loopsOnNonZero bool, loc SourceLocation) Instruction {
	var arg int64
	if loopsOnNonZero {
		arg = 1
	}
	return Instruction{Opcode: Infinite, Arg: arg, Loc: loc}
}
