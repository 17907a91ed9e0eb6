package ir

import bferrors "github.com/vmichal/brainfuck-sub000/internal/errors"

// CheckInvariants verifies every structural and instruction-level invariant
// spec §3 places on a Program, returning the first violation found rather
// than panicking - callers that want a hard failure should wrap the result
// in bferrors.Panic themselves. The optimizer driver calls this between
// rounds when asked to run in debug mode.
func CheckInvariants(p *Program) error {
	entryCount, exitCount := 0, 0
	var exitBlock *BasicBlock
	for _, b := range p.Blocks {
		if len(b.Instructions) > 0 && b.Instructions[0].Opcode == ProgramEntry {
			entryCount++
		}
		if n := len(b.Instructions); n > 0 && b.Instructions[n-1].Opcode == ProgramExit {
			exitCount++
			exitBlock = b
		}
	}
	if entryCount != 1 {
		return bferrors.NewGlobal(bferrors.ErrEntryCount, "found %d entry blocks, want exactly 1", entryCount)
	}
	if exitCount != 1 {
		return bferrors.NewGlobal(bferrors.ErrExitCount, "found %d exit blocks, want exactly 1", exitCount)
	}

	for _, b := range p.Blocks {
		if b.Natural != nil && b.Natural == b.Jump {
			return bferrors.New(bferrors.ErrIdenticalSuccessors, b.Label, "natural and jump both target block %d", b.Natural.Label)
		}
		if b.Natural != nil && !b.Natural.HasPredecessor(b) {
			return bferrors.New(bferrors.ErrDanglingSuccessor, b.Label, "natural successor %d does not list it as a predecessor", b.Natural.Label)
		}
		if b.Jump != nil && !b.Jump.HasPredecessor(b) {
			return bferrors.New(bferrors.ErrDanglingSuccessor, b.Label, "jump successor %d does not list it as a predecessor", b.Jump.Label)
		}
		for _, pred := range b.Predecessors {
			if !pred.HasSuccessor(b) {
				return bferrors.New(bferrors.ErrDanglingPredecessor, b.Label, "listed predecessor %d has no edge back", pred.Label)
			}
		}
		if !b.IsOrphaned() && b != exitBlock && b.Natural == nil && b.Jump == nil {
			return bferrors.New(bferrors.ErrNoSuccessor, b.Label, "non-orphan, non-exit block has no successor")
		}
		if b.IsUjump() && b.Natural != nil {
			return bferrors.New(bferrors.ErrUjumpHasNatural, b.Label, "unconditional jump block also has a natural successor")
		}
		if b.IsCjump() && (b.Natural == nil || b.Jump == nil) {
			return bferrors.New(bferrors.ErrCjumpMissingSuccessor, b.Label, "conditional jump block is missing a successor")
		}

		for _, inst := range b.Instructions {
			switch {
			case inst.IsArithmetic() || inst.IsShift():
				if inst.Arg == 0 {
					return bferrors.New(bferrors.ErrZeroDelta, b.Label, "%s with zero argument", inst.Opcode)
				}
			case inst.IsSearch():
				if inst.Arg <= 0 {
					return bferrors.New(bferrors.ErrBadStride, b.Label, "search stride must be positive, got %d", inst.Arg)
				}
			case inst.IsInfinite():
				if inst.Arg != 0 && inst.Arg != 1 {
					return bferrors.New(bferrors.ErrBadInfiniteTag, b.Label, "infinite tag must be 0 or 1, got %d", inst.Arg)
				}
			}
		}
	}
	return nil
}
