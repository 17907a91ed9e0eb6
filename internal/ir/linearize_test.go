package ir

import "testing"

func TestLinearizeResolvesBranchTargets(t *testing.T) {
	prog := Build("+[-]")
	flat := Linearize(prog)

	if len(flat) != 6 {
		t.Fatalf("got %d flat instructions, want 6", len(flat))
	}

	wantOpcodes := []Opcode{ProgramEntry, Inc, Branch, Inc, BranchNZ, ProgramExit}
	for i, op := range wantOpcodes {
		if flat[i].Opcode != op {
			t.Errorf("flat[%d].Opcode = %s, want %s", i, flat[i].Opcode, op)
		}
	}

	branch := flat[2]
	if branch.Target != 4 {
		t.Errorf("unconditional branch target = %d, want 4 (the condition block)", branch.Target)
	}

	cjump := flat[4]
	if cjump.Target != 3 {
		t.Errorf("cjump true target = %d, want 3 (the loop body)", cjump.Target)
	}
	if cjump.FalseTarget != 5 {
		t.Errorf("cjump false target = %d, want 5 (past the loop)", cjump.FalseTarget)
	}
}

func TestLinearizeStraightLinePreservesOrder(t *testing.T) {
	prog := Build(",+.")
	flat := Linearize(prog)

	wantOpcodes := []Opcode{ProgramEntry, Read, Inc, Write, ProgramExit}
	if len(flat) != len(wantOpcodes) {
		t.Fatalf("got %d instructions, want %d", len(flat), len(wantOpcodes))
	}
	for i, op := range wantOpcodes {
		if flat[i].Opcode != op {
			t.Errorf("flat[%d].Opcode = %s, want %s", i, flat[i].Opcode, op)
		}
	}
}
