package optimize

import "github.com/vmichal/brainfuck-sub000/internal/ir"

// ArithmeticValue folds every maximal run of two or more consecutive Inc
// instructions in a block into a single Inc carrying the summed delta (or
// removes the run entirely if the sum is zero), per spec §4.6. Grounded on
// original_source/Brainfuck/src/opt/arithmetic.cpp's
// do_simplify_arithmetic<arithmetic_tag::value>.
func ArithmeticValue(_ *ir.Program, b *ir.BasicBlock) int {
	return simplifyRuns(b, func(i ir.Instruction) bool { return i.IsArithmetic() }, ir.NewInc)
}

// ArithmeticPointer does the same for runs of Right instructions, per spec
// §4.6's pointer variant.
func ArithmeticPointer(_ *ir.Program, b *ir.BasicBlock) int {
	return simplifyRuns(b, func(i ir.Instruction) bool { return i.IsShift() }, ir.NewRight)
}

// ArithmeticBoth runs the value and the pointer simplifier over the same
// block, value first then pointer - an arbitrary but fixed order, since
// spec §9's open question notes the two are not semantically observable in
// either order (they operate on disjoint instruction kinds within a single
// pass over the block).
func ArithmeticBoth(p *ir.Program, b *ir.BasicBlock) int {
	return ArithmeticValue(p, b) + ArithmeticPointer(p, b)
}

// simplifyRuns implements the shared shape of both arithmetic simplifiers:
// find each maximal run of consecutive instructions matching pred, and if
// the run has two or more instructions, replace it with a single
// instruction (built by make) carrying the summed argument at the run's
// head location, or with all-nop if the sum is zero. Runs of length < 2 are
// already minimal and left untouched, matching the reference's
// `std::distance(head, end) < 2` early exit.
func simplifyRuns(b *ir.BasicBlock, pred func(ir.Instruction) bool, make func(int64, ir.SourceLocation) ir.Instruction) int {
	changes := 0
	instrs := b.Instructions
	i := 0
	for i < len(instrs) {
		if !pred(instrs[i]) {
			i++
			continue
		}
		begin := i
		for i < len(instrs) && pred(instrs[i]) {
			i++
		}
		end := i
		if end-begin < 2 {
			continue
		}

		var sum int64
		for _, inst := range instrs[begin:end] {
			sum += inst.Arg
		}
		loc := instrs[begin].Loc
		for j := begin; j < end; j++ {
			instrs[j] = ir.Instruction{Opcode: ir.Nop}
			changes++
		}
		if sum != 0 {
			instrs[begin] = make(sum, loc)
			changes--
		}
	}
	return changes
}
