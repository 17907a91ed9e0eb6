package ir

import "testing"

func TestBuildStraightLine(t *testing.T) {
	prog := Build("+++")

	if len(prog.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(prog.Blocks))
	}
	b := prog.Blocks[0]
	if len(b.Instructions) != 5 {
		t.Fatalf("got %d instructions, want 5 (entry + 3 inc + exit)", len(b.Instructions))
	}
	if b.Instructions[0].Opcode != ProgramEntry || b.Instructions[4].Opcode != ProgramExit {
		t.Error("block should open with program_entry and close with program_exit")
	}
	for _, inst := range b.Instructions[1:4] {
		if inst.Opcode != Inc || inst.Arg != 1 {
			t.Errorf("expected Inc(1), got %s", inst.String())
		}
	}
	if err := CheckInvariants(prog); err != nil {
		t.Errorf("CheckInvariants: %v", err)
	}
}

func TestBuildSimpleLoop(t *testing.T) {
	prog := Build("+[-]")

	if len(prog.Blocks) != 4 {
		t.Fatalf("got %d blocks, want 4", len(prog.Blocks))
	}
	head, body, cond, exit := prog.Blocks[0], prog.Blocks[1], prog.Blocks[2], prog.Blocks[3]

	if head.Jump != cond || head.Natural != nil {
		t.Error("head should jump unconditionally straight to the condition block")
	}
	if body.Natural != cond || body.Jump != nil {
		t.Error("body should fall through to the condition block")
	}
	if cond.Jump != body || cond.Natural != exit {
		t.Error("condition block should loop to the body on true, fall to exit on false")
	}
	if !cond.IsPureCjump() {
		t.Error("condition block should be a pure cjump")
	}
	if !cond.IsInnerLoop() {
		t.Error("this shape should be recognized as an inner loop")
	}

	if err := CheckInvariants(prog); err != nil {
		t.Errorf("CheckInvariants: %v", err)
	}
}

func TestBuildIgnoresComments(t *testing.T) {
	withComments := Build("this is a comment +++ more comment")
	bare := Build("+++")

	if len(Linearize(withComments)) != len(Linearize(bare)) {
		t.Error("comment characters should be elided before the core ever sees them")
	}
}

func TestBuildPanicsOnUnbalancedSource(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Build should panic on an unbalanced source")
		}
	}()
	Build("[[")
}

func TestBuildPanicsOnUnmatchedClose(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Build should panic on an unmatched ']'")
		}
	}()
	Build("]")
}
