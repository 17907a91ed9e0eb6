package optimize

import (
	"testing"

	"github.com/vmichal/brainfuck-sub000/internal/ir"
)

func TestLocalConstPropagationFoldsForwardArithmetic(t *testing.T) {
	loc := ir.SourceLocation{Line: 1, Column: 1}
	b := &ir.BasicBlock{Instructions: []ir.Instruction{
		ir.NewLoadConst(5, loc),
		ir.NewInc(2, loc),
		ir.NewInc(3, loc),
	}}

	changes := LocalConstPropagation(nil, b)
	if changes != 2 {
		t.Fatalf("got %d changes, want 2 (both incs folded)", changes)
	}
	if b.Instructions[0].Arg != 10 {
		t.Errorf("folded constant = %d, want 10 (5+2+3)", b.Instructions[0].Arg)
	}
	for _, inst := range b.Instructions[1:] {
		if !inst.IsNop() {
			t.Errorf("expected folded arithmetic to become nop, got %s", inst.Opcode)
		}
	}
}

func TestLocalConstPropagationKillsPrecedingConstant(t *testing.T) {
	loc := ir.SourceLocation{}
	b := &ir.BasicBlock{Instructions: []ir.Instruction{
		ir.NewLoadConst(1, loc),
		ir.NewLoadConst(2, loc),
	}}

	LocalConstPropagation(nil, b)

	if !b.Instructions[0].IsNop() {
		t.Error("earlier load_const should be dead once a later one at the same offset overwrites it")
	}
	if b.Instructions[1].Opcode != ir.LoadConst || b.Instructions[1].Arg != 2 {
		t.Error("later load_const should survive unchanged")
	}
}

func TestLocalConstPropagationKillsBackwardArithmetic(t *testing.T) {
	loc := ir.SourceLocation{}
	b := &ir.BasicBlock{Instructions: []ir.Instruction{
		ir.NewInc(7, loc),
		ir.NewLoadConst(3, loc),
	}}

	changes := LocalConstPropagation(nil, b)
	if changes != 1 {
		t.Fatalf("got %d changes, want 1", changes)
	}
	if !b.Instructions[0].IsNop() {
		t.Error("arithmetic preceding a load_const at the same offset is dead")
	}
	if b.Instructions[1].Arg != 3 {
		t.Error("the load_const itself should be untouched by the backward walk")
	}
}

func TestLocalConstPropagationStopsAtIO(t *testing.T) {
	loc := ir.SourceLocation{}
	b := &ir.BasicBlock{Instructions: []ir.Instruction{
		ir.NewLoadConst(1, loc),
		{Opcode: ir.Write, Loc: loc},
		ir.NewInc(4, loc),
	}}

	LocalConstPropagation(nil, b)

	if b.Instructions[0].Arg != 1 {
		t.Error("forward walk must not cross a write instruction")
	}
	if b.Instructions[2].IsNop() {
		t.Error("arithmetic past the write must survive")
	}
}

func TestLocalConstPropagationIgnoresDifferentOffsets(t *testing.T) {
	loc := ir.SourceLocation{}
	b := &ir.BasicBlock{Instructions: []ir.Instruction{
		ir.NewLoadConst(1, loc),
		ir.NewRight(1, loc),
		ir.NewInc(5, loc),
	}}

	LocalConstPropagation(nil, b)

	if b.Instructions[0].Arg != 1 {
		t.Error("arithmetic at a different pointer offset must not fold into the constant")
	}
	if b.Instructions[2].IsNop() {
		t.Error("arithmetic at a different offset is not dead")
	}
}

func TestLocalConstPropagationIdempotent(t *testing.T) {
	loc := ir.SourceLocation{}
	b := &ir.BasicBlock{Instructions: []ir.Instruction{
		ir.NewLoadConst(5, loc),
		ir.NewInc(2, loc),
	}}

	LocalConstPropagation(nil, b)
	if changes := LocalConstPropagation(nil, b); changes != 0 {
		t.Errorf("second application made %d changes, want 0", changes)
	}
}
