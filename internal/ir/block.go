package ir

// Slot identifies one of a BasicBlock's two successor edges.
type Slot int

const (
	NaturalSlot Slot = iota
	JumpSlot
)

// BasicBlock is a maximal straight-line instruction sequence with at most
// two successors: Natural (fallthrough, or the false edge of a conditional
// branch) and Jump (an unconditional branch's target, or the true edge of a
// conditional branch). Predecessors are back-edges the owner never frees -
// the Program is the exclusive owner of every block reachable from
// Program.Blocks, and Natural/Jump/Predecessors are non-owning references
// into that same slice.
//
// Label is assigned at construction time in insertion order and never
// reused; it is what callers use to talk about "the same block" across a
// pass that may have rebuilt slices.
type BasicBlock struct {
	Label        int
	Instructions []Instruction

	Natural *BasicBlock
	Jump    *BasicBlock

	Predecessors []*BasicBlock
}

// HasTerminator reports whether the block's last instruction is a branch.
// A block without a terminator falls through to Natural implicitly.
func (b *BasicBlock) HasTerminator() bool {
	if len(b.Instructions) == 0 {
		return false
	}
	return b.Instructions[len(b.Instructions)-1].IsJump()
}

// Terminator returns a pointer to the block's terminating instruction, or
// nil if the block has none.
func (b *BasicBlock) Terminator() *Instruction {
	if !b.HasTerminator() {
		return nil
	}
	return &b.Instructions[len(b.Instructions)-1]
}

// IsEmpty reports whether the block has no instructions at all.
func (b *BasicBlock) IsEmpty() bool { return len(b.Instructions) == 0 }

// IsPureCjump reports whether the block consists solely of a BranchNZ.
func (b *BasicBlock) IsPureCjump() bool {
	return len(b.Instructions) == 1 && b.Instructions[0].IsBranchNZ()
}

// IsPureUjump reports whether the block consists solely of a Branch.
func (b *BasicBlock) IsPureUjump() bool {
	return len(b.Instructions) == 1 && b.Instructions[0].IsBranch()
}

// IsCjump reports whether the block's terminator is a conditional branch.
func (b *BasicBlock) IsCjump() bool {
	t := b.Terminator()
	return t != nil && t.IsBranchNZ()
}

// IsUjump reports whether the block's terminator is an unconditional branch.
func (b *BasicBlock) IsUjump() bool {
	t := b.Terminator()
	return t != nil && t.IsBranch()
}

// IsJumpBlock reports whether the block ends in any branch.
func (b *BasicBlock) IsJumpBlock() bool { return b.IsCjump() || b.IsUjump() }

// IsInnerLoop reports whether b is a pure conditional jump whose jump
// successor is a non-branching block that loops back to b.
func (b *BasicBlock) IsInnerLoop() bool {
	if !b.IsPureCjump() || b.Jump == nil {
		return false
	}
	body := b.Jump
	return !body.IsJumpBlock() && body.HasSuccessor(b)
}

// HasSelfLoop reports whether b is its own jump successor.
func (b *BasicBlock) HasSelfLoop() bool { return b.Jump == b }

// HasSuccessor reports whether other is reachable via Natural or Jump.
func (b *BasicBlock) HasSuccessor(other *BasicBlock) bool {
	return b.Natural == other || b.Jump == other
}

// HasPredecessor reports whether pred is listed as a predecessor of b.
func (b *BasicBlock) HasPredecessor(pred *BasicBlock) bool {
	for _, p := range b.Predecessors {
		if p == pred {
			return true
		}
	}
	return false
}

// UniquePredecessor returns b's only predecessor, or nil if it has zero or
// more than one.
func (b *BasicBlock) UniquePredecessor() *BasicBlock {
	if len(b.Predecessors) == 1 {
		return b.Predecessors[0]
	}
	return nil
}

// Successors returns the block's non-nil successors, Natural first.
func (b *BasicBlock) Successors() []*BasicBlock {
	var out []*BasicBlock
	if b.Natural != nil {
		out = append(out, b.Natural)
	}
	if b.Jump != nil {
		out = append(out, b.Jump)
	}
	return out
}

// IsOrphaned reports whether b has no predecessors, no successors and no
// instructions - the condition under which the sweep may reclaim it.
func (b *BasicBlock) IsOrphaned() bool {
	return b.Natural == nil && b.Jump == nil && len(b.Predecessors) == 0 && len(b.Instructions) == 0
}

// Get returns the successor occupying the given slot.
func (b *BasicBlock) Get(slot Slot) *BasicBlock {
	if slot == NaturalSlot {
		return b.Natural
	}
	return b.Jump
}

// Set assigns the successor occupying the given slot, without touching any
// predecessor bookkeeping - callers that change connectivity must update
// predecessor sets themselves (see AddPredecessor/RemovePredecessor,
// Retarget).
func (b *BasicBlock) Set(slot Slot, target *BasicBlock) {
	if slot == NaturalSlot {
		b.Natural = target
	} else {
		b.Jump = target
	}
}

// SlotOf returns which slot currently points at target. Panics (via a
// caller precondition, not a recoverable error) if b does not have target
// as a successor - mirrors the source's choose_successor_ptr, which asserts
// the same thing.
func (b *BasicBlock) SlotOf(target *BasicBlock) Slot {
	switch {
	case b.Natural == target:
		return NaturalSlot
	case b.Jump == target:
		return JumpSlot
	default:
		panic("ir: SlotOf called with a block that is not a successor")
	}
}

// OtherSlot returns the slot that does NOT point at target, assuming target
// is one of b's two successors.
func (b *BasicBlock) OtherSlot(target *BasicBlock) Slot {
	if b.SlotOf(target) == NaturalSlot {
		return JumpSlot
	}
	return NaturalSlot
}

// AddPredecessor records pred as a predecessor of b. It is a no-op if pred
// is already recorded, so callers may call it defensively when rewiring
// edges whose prior state they are not certain of.
func (b *BasicBlock) AddPredecessor(pred *BasicBlock) {
	if b.HasPredecessor(pred) {
		return
	}
	b.Predecessors = append(b.Predecessors, pred)
}

// RemovePredecessor removes pred from b's predecessor set, if present.
func (b *BasicBlock) RemovePredecessor(pred *BasicBlock) {
	for i, p := range b.Predecessors {
		if p == pred {
			b.Predecessors = append(b.Predecessors[:i], b.Predecessors[i+1:]...)
			return
		}
	}
}

// Retarget moves the edge out of slot from its current target to newTarget,
// updating both blocks' predecessor sets so the invariant in spec §3 keeps
// holding. It is the one sanctioned way passes should redirect an edge.
func (b *BasicBlock) Retarget(slot Slot, newTarget *BasicBlock) {
	if old := b.Get(slot); old != nil {
		old.RemovePredecessor(b)
	}
	b.Set(slot, newTarget)
	if newTarget != nil {
		newTarget.AddPredecessor(b)
	}
}
