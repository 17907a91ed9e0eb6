package optimize

import (
	"github.com/vmichal/brainfuck-sub000/internal/analysis"
	"github.com/vmichal/brainfuck-sub000/internal/ir"
)

// PureUjumpElimination implements spec §4.9: every predecessor of a pure
// unconditional-jump block is retargeted straight to that jump's
// destination, and the jump block itself is orphaned. Grounded on
// original_source/Brainfuck/src/opt/branches.cpp's
// pure_ujump_elimination::do_optimize.
func PureUjumpElimination(p *ir.Program, b *ir.BasicBlock) int {
	if !b.IsPureUjump() {
		return 0
	}
	target := b.Jump
	loc := b.Instructions[0].Loc

	// Copy: Retarget below mutates b.Predecessors as it runs.
	preds := append([]*ir.BasicBlock(nil), b.Predecessors...)
	for _, pred := range preds {
		if pred.IsJumpBlock() {
			slot := pred.SlotOf(b)
			pred.Retarget(slot, target)
			continue
		}
		// pred falls through to b; give it an explicit unconditional jump
		// to target instead, moving the edge from Natural to Jump.
		pred.Retarget(ir.NaturalSlot, nil)
		pred.Instructions = append(pred.Instructions, ir.Instruction{Opcode: ir.Branch, Loc: loc})
		pred.Retarget(ir.JumpSlot, target)
	}

	p.Orphan(b)
	return 1
}

// CjumpDestinationChaining implements spec §4.10: for each successor edge
// of a pure cjump, follow the chain of pure cjumps taking the same-polarity
// edge as long as doing so does not cycle back, and rewire straight to
// where the chain bottoms out. Grounded on
// original_source/Brainfuck/src/opt/branches.cpp's
// cjump_destination_optimization::do_optimize.
func CjumpDestinationChaining(_ *ir.Program, b *ir.BasicBlock) int {
	if !b.IsPureCjump() {
		return 0
	}
	changes := 0
	for _, slot := range []ir.Slot{ir.NaturalSlot, ir.JumpSlot} {
		branch := b.Get(slot)
		branch.RemovePredecessor(b)
		seen := map[*ir.BasicBlock]bool{branch: true}
		for branch.IsPureCjump() && !seen[branch.Get(slot)] {
			branch = branch.Get(slot)
			seen[branch] = true
			changes++
		}
		branch.AddPredecessor(b)
		b.Set(slot, branch)
	}
	return changes
}

// SingleEntryCjumpFolding implements spec §4.11: a pure cjump with exactly
// one predecessor can have that predecessor retargeted straight past it
// once the predecessor's own exit value is known to be zero or provably
// non-zero. Grounded
// on original_source/Brainfuck/src/opt/branches.cpp's
// single_entry_cjump_optimization::do_optimize.
func SingleEntryCjumpFolding(p *ir.Program, b *ir.BasicBlock) int {
	if !b.IsPureCjump() {
		return 0
	}
	pred := b.UniquePredecessor()
	if pred == nil {
		return 0
	}

	eval := analysis.EvaluateBlock(pred)
	if eval.HasIndeterminateValue() {
		return 0
	}

	slot := pred.SlotOf(b)
	var target *ir.BasicBlock
	if eval.HasConstResult() && eval.ConstResult == 0 {
		target = b.Natural
	} else {
		target = b.Jump
	}

	p.Orphan(b)
	pred.Retarget(slot, target)
	return 1
}
