package optimize

import (
	"github.com/vmichal/brainfuck-sub000/internal/analysis"
	"github.com/vmichal/brainfuck-sub000/internal/ir"
)

// LocalConstPropagation implements spec §4.7: for every LoadConst
// instruction in a block, arithmetic sharing its pointer offset folds into
// the constant (forward) and becomes dead (backward), until I/O or another
// LoadConst blocks the walk. Grounded on
// original_source/Brainfuck/src/opt/arithmetic.cpp's
// local_const_propagator::do_optimize / propagate_forward / propagate_backward.
func LocalConstPropagation(_ *ir.Program, b *ir.BasicBlock) int {
	changes := 0
	pm := analysis.AnalyzePointerMovement(b)

	// Collect the LoadConst indices up front: the walk below mutates
	// instructions (to Nop) but never changes which indices exist, so a
	// snapshot is safe and avoids re-scanning a block we are mutating.
	var constIdx []int
	for i, inst := range b.Instructions {
		if inst.IsConst() {
			constIdx = append(constIdx, i)
		}
	}

	for _, idx := range constIdx {
		if b.Instructions[idx].Opcode == ir.Nop {
			// Skip an index that no longer holds a LoadConst. A forward
			// walk only ever nops the constant it started from, so earlier
			// walks leave later constants in place.
			continue
		}
		changes += propagateForward(pm.IteratorAt(idx))
		changes += propagateBackward(pm.IteratorAt(idx))
	}
	return changes
}

// propagateForward walks forward from a LoadConst, folding same-offset
// arithmetic into it until I/O or another LoadConst (which kills the
// earlier one and stops the walk) is reached.
func propagateForward(it *analysis.SameOffsetIterator) int {
	changes := 0
	constant := it.Instruction()
	for it.Advance() {
		inst := it.Instruction()
		switch {
		case inst.IsArithmetic():
			constant.Arg += inst.Arg
			*inst = ir.Instruction{Opcode: ir.Nop}
			changes++
		case inst.IsConst():
			*constant = ir.Instruction{Opcode: ir.Nop}
			changes++
			return changes
		case inst.IsIO():
			return changes
		}
	}
	return changes
}

// propagateBackward walks backward from a LoadConst, killing same-offset
// arithmetic that it overwrites, until I/O is reached. Encountering another
// LoadConst backward would mean the forward walk from that earlier constant
// failed to resolve this one first - a contract violation, not a case this
// function needs to handle defensively (spec §9: "the source is
// inconsistent between two copies" on this exact point; we take the
// charitable forward-resolves-first reading).
func propagateBackward(it *analysis.SameOffsetIterator) int {
	changes := 0
	for it.Retreat() {
		inst := it.Instruction()
		switch {
		case inst.IsArithmetic():
			*inst = ir.Instruction{Opcode: ir.Nop}
			changes++
		case inst.IsIO():
			return changes
		}
	}
	return changes
}
