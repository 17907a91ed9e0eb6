package ir

import (
	"sort"

	"github.com/vmichal/brainfuck-sub000/internal/bf"
	bferrors "github.com/vmichal/brainfuck-sub000/internal/errors"
)

// Build lexes an 8-character Brainfuck source into a linear instruction
// stream and slices that stream into a basic-block CFG, per spec §4.1. The
// eight source characters map onto the IR one-for-one except for the two
// bracket characters, which compile to unconditional/conditional branches
// whose destinations are resolved once the whole stream is known:
//
//	+ -            Inc(+1) / Inc(-1)
//	> <            Right(+1) / Right(-1)
//	.              Write
//	,              Read
//	[              Branch    (destination: matching ]'s block)
//	]              BranchNZ  (jump: matching ['s body entry; natural: after loop)
//
// Every character outside that set is a comment and is skipped by
// internal/bf's tokenizer before the core ever sees it.
//
// Build assumes source is already bracket-balanced (spec §1: "the frontend
// validator rejects it before the core sees it"). Per §4.1/§7, an
// unbalanced source is a contract violation, not a recoverable error: Build
// panics with an errors.Violation rather than returning one, same as every
// other invariant check in this package.
func Build(source string) *Program {
	if !bf.ValidateQuick(source) {
		bferrors.Panic(bferrors.NewGlobal(bferrors.ErrUnbalancedSource, "source is not bracket-balanced"))
	}

	linear, matchOpen, matchClose := lex(source)

	leaders := leaderSet(linear)
	program := NewProgram()
	blocks := make([]*BasicBlock, len(leaders)-1)
	for i := range blocks {
		blocks[i] = program.NewBlock()
		blocks[i].Instructions = append(blocks[i].Instructions, linear[leaders[i]:leaders[i+1]]...)
	}

	// index, within the flat instruction stream, of the block that owns it
	blockOf := make([]int, len(linear))
	for i := range blocks {
		for j := leaders[i]; j < leaders[i+1]; j++ {
			blockOf[j] = i
		}
	}

	for i, b := range blocks {
		term := b.Terminator()
		switch {
		case term == nil:
			if i+1 < len(blocks) {
				b.Retarget(NaturalSlot, blocks[i+1])
			}
		case term.IsBranch():
			// '[' - jump unconditionally to the matching ]'s own block.
			openIdx := leaders[i+1] - 1 // the '[' is this block's last instruction
			target := blockOf[matchClose[openIdx]]
			b.Retarget(JumpSlot, blocks[target])
		case term.IsBranchNZ():
			// ']' - jump back to the body (right after the matching [),
			// fall through to whatever follows the loop on the natural edge.
			closeIdx := leaders[i+1] - 1
			openIdx := matchOpen[closeIdx]
			b.Retarget(JumpSlot, blocks[blockOf[openIdx+1]])
			if i+1 < len(blocks) {
				b.Retarget(NaturalSlot, blocks[i+1])
			}
		}
	}

	return program
}

// lex tokenizes source via internal/bf and maps each token onto the IR
// one-for-one, wrapping the result in program_entry/program_exit markers
// and recording bracket pairing: for every index holding a '[' or ']'
// instruction, matchClose/matchOpen give the index of its partner. Callers
// must have already established that source is bracket-balanced; an
// imbalance here would mean ValidateQuick and the stack walk disagree,
// which is an impossible state, not a recoverable one.
func lex(source string) (stream []Instruction, matchOpen, matchClose map[int]int) {
	toks, err := bf.Tokenize(source)
	if err != nil {
		bferrors.Panic(bferrors.NewGlobal(bferrors.ErrUnbalancedSource, "tokenizing source: %s", err))
	}

	stream = make([]Instruction, 0, len(toks)+2)
	stream = append(stream, Instruction{Opcode: ProgramEntry})
	matchOpen = make(map[int]int)
	matchClose = make(map[int]int)
	var openStack []int
	var last bf.Token

	for _, t := range toks {
		last = t
		loc := SourceLocation{Line: t.Line, Column: t.Column}
		switch t.Op {
		case bf.OpInc:
			stream = append(stream, NewInc(1, loc))
		case bf.OpDec:
			stream = append(stream, NewInc(-1, loc))
		case bf.OpRight:
			stream = append(stream, NewRight(1, loc))
		case bf.OpLeft:
			stream = append(stream, NewRight(-1, loc))
		case bf.OpWrite:
			stream = append(stream, Instruction{Opcode: Write, Loc: loc})
		case bf.OpRead:
			stream = append(stream, Instruction{Opcode: Read, Loc: loc})
		case bf.OpOpen:
			openStack = append(openStack, len(stream))
			stream = append(stream, Instruction{Opcode: Branch, Loc: loc})
		case bf.OpClose:
			if len(openStack) == 0 {
				bferrors.Panic(bferrors.NewGlobal(bferrors.ErrUnbalancedSource, "unmatched ']' at %s", loc))
			}
			openIdx := openStack[len(openStack)-1]
			openStack = openStack[:len(openStack)-1]
			closeIdx := len(stream)
			matchOpen[closeIdx] = openIdx
			matchClose[openIdx] = closeIdx
			stream = append(stream, Instruction{Opcode: BranchNZ, Loc: loc})
		}
	}
	if len(openStack) > 0 {
		bferrors.Panic(bferrors.NewGlobal(bferrors.ErrUnbalancedSource, "unmatched '[' left open"))
	}

	exitLoc := SourceLocation{Line: last.Line, Column: last.Column + 1}
	stream = append(stream, Instruction{Opcode: ProgramExit, Loc: exitLoc})
	return stream, matchOpen, matchClose
}

// leaderSet computes the sorted, deduplicated set of leader indices per
// spec §4.1: index 0, the instruction following every Branch, the closing
// BranchNZ itself, the instruction following every BranchNZ, and a sentinel
// one past the end.
func leaderSet(linear []Instruction) []int {
	isLeader := make(map[int]bool)
	isLeader[0] = true
	isLeader[len(linear)] = true

	for i, inst := range linear {
		switch {
		case inst.IsBranch():
			if i+1 <= len(linear) {
				isLeader[i+1] = true
			}
		case inst.IsBranchNZ():
			isLeader[i] = true
			if i+1 <= len(linear) {
				isLeader[i+1] = true
			}
		}
	}

	leaders := make([]int, 0, len(isLeader))
	for idx := range isLeader {
		leaders = append(leaders, idx)
	}
	sort.Ints(leaders)
	return leaders
}
