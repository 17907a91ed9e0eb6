package analysis

import "github.com/vmichal/brainfuck-sub000/internal/ir"

// ResultState classifies what can be proven about the cell under the
// pointer as a block transfers control to whichever successor it falls
// into (its Natural edge, or - for a pure conditional jump - the value
// tested by the terminator itself).
type ResultState int

const (
	// Unknown means no predecessor-derived fact could be established and
	// nothing within the block pinned it down either.
	Unknown ResultState = iota
	// IndeterminateRead means a read instruction clobbered any known value.
	IndeterminateRead
	// IndeterminateOverflow means a known non-zero value was perturbed by
	// enough arithmetic that it can no longer be proven non-zero.
	IndeterminateOverflow
	// KnownNotZero means the cell is provably non-zero, exact value unknown.
	KnownNotZero
	// KnownConstant means the cell holds exactly ConstResult.
	KnownConstant
)

// BlockEvaluation is what local analysis can prove about the value of the
// cell under the pointer at the point a block finishes executing,
// propagated in from its unique predecessor (if it has one) and then
// refined by the block's own stationary-range instructions at its exit
// offset (the block's net pointer delta).
type BlockEvaluation struct {
	Block         *ir.BasicBlock
	State         ResultState
	ConstResult   int64
	ValueDelta    int64 // net change applied at the exit offset; meaningful only when there is no const result and no visible side effect
	HasSideEffect bool
	movement      PointerMovement
}

// EvaluateBlock runs block evaluation per spec §4.3.
func EvaluateBlock(block *ir.BasicBlock) BlockEvaluation {
	pm := AnalyzePointerMovement(block)
	e := BlockEvaluation{Block: block, movement: pm}

	entryValue := int64(0)
	if !pm.Moves {
		switch len(block.Predecessors) {
		case 0:
			e.State = KnownConstant
			entryValue = 0
		case 1:
			pred := EvaluateBlock(block.Predecessors[0])
			e.State = pred.State
			if pred.State == KnownConstant {
				entryValue = pred.ConstResult
			}
		default:
			// Multiple predecessors: conservatively unknown.
		}
	}
	e.ConstResult = entryValue

	it := pm.OffsetIterator(pm.Delta)
	for it.IsValid() {
		inst := *it.Instruction()
		switch {
		case inst.IsArithmetic():
			e.ValueDelta += inst.Arg
			switch e.State {
			case KnownConstant:
				e.ConstResult += inst.Arg
			case KnownNotZero:
				e.State = IndeterminateOverflow
			}
		case inst.IsConst():
			e.State = KnownConstant
			e.ConstResult = inst.Arg
		case inst.IsInfinite():
			e.HasSideEffect = true
			if inst.LoopsOnNonZero() {
				e.State = KnownConstant
				e.ConstResult = 0
			} else {
				e.State = KnownNotZero
			}
		case inst.Opcode == ir.Read:
			e.State = IndeterminateRead
			e.HasSideEffect = true
		case inst.Opcode == ir.Write:
			e.HasSideEffect = true
		}
		it.Advance()
	}

	return e
}

// HasConstResult reports whether the cell's exact value is known.
func (e BlockEvaluation) HasConstResult() bool { return e.State == KnownConstant }

// HasNonZeroResult reports whether the cell is provably non-zero, whether
// or not its exact value is known.
func (e BlockEvaluation) HasNonZeroResult() bool {
	return e.State == KnownNotZero || (e.State == KnownConstant && e.ConstResult != 0)
}

// HasIndeterminateValue reports whether nothing useful could be proven.
func (e BlockEvaluation) HasIndeterminateValue() bool {
	return !e.HasConstResult() && !e.HasNonZeroResult()
}

// HasVisibleSideEffects reports whether running the block performs I/O (or
// enters an infinite loop) or leaves the pointer somewhere other than where
// it started - either of which makes the block unsafe to fold away.
func (e BlockEvaluation) HasVisibleSideEffects() bool {
	return e.HasSideEffect || e.movement.Moves
}
