package optimize

import "github.com/vmichal/brainfuck-sub000/internal/ir"

// EmptyBlockElimination implements spec §4.12: an empty block (no
// instructions, single fallthrough successor) is spliced out of the graph.
// Grounded on original_source/Brainfuck/src/opt/cleanup.cpp's
// empty_block_elimination::do_optimize.
func EmptyBlockElimination(p *ir.Program, b *ir.BasicBlock) int {
	if !b.IsEmpty() || b.Natural == nil {
		return 0
	}
	target := b.Natural

	preds := append([]*ir.BasicBlock(nil), b.Predecessors...)
	for _, pred := range preds {
		slot := pred.SlotOf(b)
		pred.Retarget(slot, target)
	}

	p.Orphan(b)
	return 1
}

// BlockMerging implements spec §4.13: a block with exactly one predecessor
// that is not itself a cjump gets absorbed into that predecessor, provided
// the absorbed block isn't itself a conditional jump (folding a cjump's
// test into a predecessor isn't a cleanup, it changes what's tested).
// Grounded on original_source/Brainfuck/src/opt/cleanup.cpp's
// block_merging::do_optimize.
func BlockMerging(p *ir.Program, b *ir.BasicBlock) int {
	if b.IsCjump() {
		return 0
	}
	pred := b.UniquePredecessor()
	if pred == nil || pred.IsPureCjump() {
		return 0
	}

	if pred.IsUjump() {
		pred.Instructions = pred.Instructions[:len(pred.Instructions)-1]
	}
	pred.Instructions = append(pred.Instructions, b.Instructions...)

	// pred currently reaches b through exactly one of its two slots (the
	// other is nil, since pred is neither a cjump nor still pointing
	// anywhere else); retargeting both slots to b's own successors moves
	// that edge forward and drops the stale one in the same step.
	natural, jump := b.Natural, b.Jump
	pred.Retarget(ir.NaturalSlot, natural)
	pred.Retarget(ir.JumpSlot, jump)

	p.Orphan(b)
	return 1
}

// NopElimination implements spec §4.15: every Nop instruction is dropped
// from the block. Always safe. Grounded on
// original_source/Brainfuck/src/opt/cleanup.cpp's
// nop_elimination::do_optimize.
func NopElimination(_ *ir.Program, b *ir.BasicBlock) int {
	kept := b.Instructions[:0]
	removed := 0
	for _, inst := range b.Instructions {
		if inst.IsNop() {
			removed++
			continue
		}
		kept = append(kept, inst)
	}
	b.Instructions = kept
	return removed
}

// DeadCodeElimination implements spec §4.14: a breadth-first traversal from
// the entry block marks reachable blocks; everything else is orphaned.
// Grounded on original_source/Brainfuck/src/opt/cleanup.cpp's
// dead_code_elimination::do_optimize.
func DeadCodeElimination(p *ir.Program) int {
	live := p.Reachable()
	removed := 0
	for _, b := range p.Blocks {
		if !live[b] && !b.IsOrphaned() {
			p.Orphan(b)
			removed++
		}
	}
	return removed
}
