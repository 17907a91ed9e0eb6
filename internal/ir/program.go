package ir

import bferrors "github.com/vmichal/brainfuck-sub000/internal/errors"

// Program is the exclusive owner of every block reachable from Blocks.
// Blocks never outlive the Program that created them: Natural, Jump and
// Predecessors are plain pointers into the same arena, and the only way a
// block is ever destroyed is via Orphan followed by Sweep. Because Go's
// allocator (unlike the source's raw owning pointers) never frees memory
// out from under a live reference, the arena-by-index re-architecture the
// design notes call for is realized here as "the slice is the arena, the
// pointer is the stable handle" - see DESIGN.md for why that is preferred
// over laundering pointers through integer indices in a language with a
// garbage collector.
type Program struct {
	Blocks []*BasicBlock

	nextLabel int
}

// NewProgram returns an empty program ready to receive blocks from a
// builder.
func NewProgram() *Program {
	return &Program{}
}

// NewBlock allocates and registers a fresh, empty block with the next
// sequential label.
func (p *Program) NewBlock() *BasicBlock {
	b := &BasicBlock{Label: p.nextLabel}
	p.nextLabel++
	p.Blocks = append(p.Blocks, b)
	return b
}

// EntryBlock returns the program's unique entry block - the one whose first
// instruction is ProgramEntry. Panics via errors.Violation if there is not
// exactly one, since that is a contract violation per spec §3.
func (p *Program) EntryBlock() *BasicBlock {
	var found *BasicBlock
	count := 0
	for _, b := range p.Blocks {
		if len(b.Instructions) > 0 && b.Instructions[0].Opcode == ProgramEntry {
			found = b
			count++
		}
	}
	if count != 1 {
		bferrors.Panic(bferrors.NewGlobal(bferrors.ErrEntryCount, "found %d entry blocks, want exactly 1", count))
	}
	return found
}

// ExitBlock returns the program's unique exit block - the one whose last
// instruction is ProgramExit.
func (p *Program) ExitBlock() *BasicBlock {
	var found *BasicBlock
	count := 0
	for _, b := range p.Blocks {
		if n := len(b.Instructions); n > 0 && b.Instructions[n-1].Opcode == ProgramExit {
			found = b
			count++
		}
	}
	if count != 1 {
		bferrors.Panic(bferrors.NewGlobal(bferrors.ErrExitCount, "found %d exit blocks, want exactly 1", count))
	}
	return found
}

// Orphan severs b from every edge it participates in: its own successors
// lose it as a predecessor, its predecessors lose it as a successor, and b
// itself ends up with no instructions. It does not remove b from
// Program.Blocks - that is Sweep's job, run once per pass so mutation never
// happens mid-iteration.
func (p *Program) Orphan(b *BasicBlock) {
	if b.Jump != nil {
		b.Jump.RemovePredecessor(b)
		b.Jump = nil
	}
	if b.Natural != nil {
		b.Natural.RemovePredecessor(b)
		b.Natural = nil
	}
	for _, pred := range b.Predecessors {
		if pred.Jump == b {
			pred.Jump = nil
		}
		if pred.Natural == b {
			pred.Natural = nil
		}
	}
	b.Predecessors = nil
	b.Instructions = nil
}

// Sweep removes every orphaned block from Program.Blocks and returns how
// many were removed. It is the only point at which a block is actually
// destroyed.
func (p *Program) Sweep() int {
	kept := p.Blocks[:0]
	removed := 0
	for _, b := range p.Blocks {
		if b.IsOrphaned() {
			removed++
			continue
		}
		kept = append(kept, b)
	}
	p.Blocks = kept
	return removed
}

// Reachable returns the set of blocks reachable from the entry block via
// Natural/Jump edges, found with a breadth-first traversal exactly as
// specified by §4.14's dead-code elimination, which is its only caller.
func (p *Program) Reachable() map[*BasicBlock]bool {
	visited := make(map[*BasicBlock]bool)
	if len(p.Blocks) == 0 {
		return visited
	}
	queue := []*BasicBlock{p.EntryBlock()}
	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		if visited[b] {
			continue
		}
		visited[b] = true
		if b.Jump != nil {
			queue = append(queue, b.Jump)
		}
		if b.Natural != nil {
			queue = append(queue, b.Natural)
		}
	}
	return visited
}
