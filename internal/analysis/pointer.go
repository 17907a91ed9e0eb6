// Package analysis implements the local, per-block analyses the optimizer
// passes are built on: pointer movement (where in the block the cell
// pointer is, instruction by instruction) and block evaluation (what can be
// proven about the cell under the pointer when the block falls through),
// plus the incoming-value analysis that looks at a block's predecessors.
//
// None of these analyses mutate the blocks they inspect; they are read-only
// views recomputed on demand, which is what lets passes interleave freely
// without invalidating each other's results.
package analysis

import (
	"sort"

	"github.com/vmichal/brainfuck-sub000/internal/ir"
)

// StationaryRange is a maximal run of non-shift instructions that all
// execute at the same pointer offset relative to the owning block's entry.
type StationaryRange struct {
	Offset int64
	Begin  int // index into the block's Instructions, inclusive
	End    int // exclusive
}

// PointerMovement is the result of analyzing a single block's pointer
// traffic: every stationary range it contains, in what order, and the net
// shift from block entry to exit.
type PointerMovement struct {
	block  *ir.BasicBlock
	Ranges []StationaryRange // sorted by Offset (stable, so ties keep program order)
	Delta  int64
	Moves  bool
}

// AnalyzePointerMovement splits block into maximal contiguous runs of
// non-shift instructions, each annotated with the cumulative pointer offset
// at which it executes, per spec §4.2.
func AnalyzePointerMovement(block *ir.BasicBlock) PointerMovement {
	pm := PointerMovement{block: block}

	instrs := block.Instructions
	delta := int64(0)
	firstShift := 0

	i := 0
	for i < len(instrs) {
		if instrs[i].IsShift() {
			i++
			continue
		}
		begin := i
		for i < len(instrs) && !instrs[i].IsShift() {
			i++
		}
		end := i

		for _, s := range instrs[firstShift:begin] {
			delta += s.Arg
		}
		if delta != 0 {
			pm.Moves = true
		}
		pm.Ranges = append(pm.Ranges, StationaryRange{Offset: delta, Begin: begin, End: end})
		firstShift = end
	}

	sort.SliceStable(pm.Ranges, func(i, j int) bool { return pm.Ranges[i].Offset < pm.Ranges[j].Offset })

	for _, s := range instrs[firstShift:] {
		delta += s.Arg
	}
	if delta != 0 {
		pm.Moves = true
	}
	pm.Delta = delta

	return pm
}

// OnlyMovesPointer reports whether the block contains nothing but shift
// instructions (no stationary ranges at all) and actually moves the
// pointer - the precondition for the search-loop recognizer.
func (pm PointerMovement) OnlyMovesPointer() bool {
	return pm.Moves && len(pm.Ranges) == 0
}

func (pm PointerMovement) bounds(offset int64) (lower, upper int) {
	lower = sort.Search(len(pm.Ranges), func(i int) bool { return pm.Ranges[i].Offset >= offset })
	upper = sort.Search(len(pm.Ranges), func(i int) bool { return pm.Ranges[i].Offset > offset })
	return lower, upper
}

// OffsetIterator returns an iterator already positioned at the first
// instruction executing at offset (if any), ready to be dereferenced
// immediately - the shape block evaluation's forward scan wants.
func (pm PointerMovement) OffsetIterator(offset int64) *SameOffsetIterator {
	lower, upper := pm.bounds(offset)
	if lower == upper {
		return &SameOffsetIterator{state: stateNoRange}
	}
	return &SameOffsetIterator{
		block: pm.block, ranges: pm.Ranges, lower: lower, upper: upper,
		rangeIdx: lower, instIdx: pm.Ranges[lower].Begin, state: stateValid,
	}
}

// IteratorAt returns an iterator positioned exactly at instIndex, which
// must fall inside one of pm's stationary ranges. Constant propagation uses
// this to walk outward from a known load_const instruction in both
// directions.
func (pm PointerMovement) IteratorAt(instIndex int) *SameOffsetIterator {
	for idx, r := range pm.Ranges {
		if r.Begin <= instIndex && instIndex < r.End {
			lower, upper := pm.bounds(r.Offset)
			return &SameOffsetIterator{
				block: pm.block, ranges: pm.Ranges, lower: lower, upper: upper,
				rangeIdx: idx, instIdx: instIndex, state: stateValid,
			}
		}
	}
	return &SameOffsetIterator{state: stateNoRange}
}

type iterState int

const (
	stateTooLow iterState = iota
	stateValid
	stateTooFar
	stateNoRange
)

// SameOffsetIterator walks, in program order, every instruction in a block
// that executes at one particular pointer offset. It degrades to an empty
// (invalid) state when there is no such offset, and exposes IsValid as a
// boolean validity query rather than panicking on misuse.
type SameOffsetIterator struct {
	block  *ir.BasicBlock
	ranges []StationaryRange
	lower  int // bounds of the ranges sharing this iterator's offset
	upper  int

	rangeIdx int
	instIdx  int
	state    iterState
}

// IsValid reports whether the iterator currently denotes a real
// instruction.
func (it *SameOffsetIterator) IsValid() bool { return it.state == stateValid }

// Index returns the current instruction's index into the owning block.
// Only meaningful while IsValid.
func (it *SameOffsetIterator) Index() int { return it.instIdx }

// Instruction returns a pointer into the owning block's instruction slice,
// so callers may mutate in place (as every optimization pass does).
func (it *SameOffsetIterator) Instruction() *ir.Instruction {
	return &it.block.Instructions[it.instIdx]
}

// Advance moves to the next instruction at this offset and reports whether
// the new position is valid.
func (it *SameOffsetIterator) Advance() bool {
	switch it.state {
	case stateTooFar, stateNoRange:
		// stays put; there is nowhere further to go
	case stateTooLow:
		it.rangeIdx = it.lower
		it.instIdx = it.ranges[it.rangeIdx].Begin
		it.state = stateValid
	case stateValid:
		it.instIdx++
		if it.instIdx == it.ranges[it.rangeIdx].End {
			it.rangeIdx++
			if it.rangeIdx != it.upper {
				it.instIdx = it.ranges[it.rangeIdx].Begin
			} else {
				it.state = stateTooFar
			}
		}
	}
	return it.IsValid()
}

// Retreat moves to the previous instruction at this offset and reports
// whether the new position is valid.
func (it *SameOffsetIterator) Retreat() bool {
	switch it.state {
	case stateTooLow, stateNoRange:
		// stays put
	case stateTooFar:
		it.rangeIdx = it.upper - 1
		it.instIdx = it.ranges[it.rangeIdx].End - 1
		it.state = stateValid
	case stateValid:
		if it.instIdx != it.ranges[it.rangeIdx].Begin {
			it.instIdx--
		} else if it.rangeIdx != it.lower {
			it.rangeIdx--
			it.instIdx = it.ranges[it.rangeIdx].End - 1
		} else {
			it.state = stateTooLow
		}
	}
	return it.IsValid()
}
