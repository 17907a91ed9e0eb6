package ir

import "sort"

// FlatInstruction is an Instruction with its branch destinations resolved
// to absolute indices into the flat stream a reference interpreter walks.
// Mirrors the source's branch_instruction, which always carries both arms
// of a conditional explicitly rather than relying on fallthrough adjacency
// - necessary here too, since optimization passes are free to rewire a
// block's Natural edge to a block that is not its immediate label
// successor.
type FlatInstruction struct {
	Instruction

	// Target is the absolute destination of an unconditional Branch, or the
	// true (non-zero) destination of a BranchNZ. Unused otherwise.
	Target int

	// FalseTarget is the false (zero) destination of a BranchNZ - where
	// execution resumes along the Natural edge. Unused otherwise.
	FalseTarget int
}

// Linearize concatenates every block's instructions in label order and
// resolves each terminator's destination(s) to an absolute index into the
// resulting stream, per spec §6. program_entry ends up at index 0 and
// program_exit is the final instruction, since the builder never reassigns
// the entry block's label 0 and the exit block is only ever reachable, so
// dead-code elimination can never orphan it.
func Linearize(p *Program) []FlatInstruction {
	blocks := make([]*BasicBlock, len(p.Blocks))
	copy(blocks, p.Blocks)
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Label < blocks[j].Label })

	offsets := make(map[int]int, len(blocks))
	cursor := 0
	for _, b := range blocks {
		offsets[b.Label] = cursor
		cursor += len(b.Instructions)
	}

	flat := make([]FlatInstruction, 0, cursor)
	for _, b := range blocks {
		for _, inst := range b.Instructions {
			fi := FlatInstruction{Instruction: inst}
			switch {
			case inst.IsBranch():
				fi.Target = offsets[b.Jump.Label]
			case inst.IsBranchNZ():
				fi.Target = offsets[b.Jump.Label]
				fi.FalseTarget = offsets[b.Natural.Label]
			}
			flat = append(flat, fi)
		}
	}
	return flat
}
