package analysis

import "github.com/vmichal/brainfuck-sub000/internal/ir"

// IncomingValue summarizes, across all of a block's predecessors, whether
// the cell under the pointer could be zero on entry, non-zero on entry, or
// both (the two are not exclusive: a block with predecessors that disagree
// reports both).
type IncomingValue struct {
	ZeroSeen    bool
	NonZeroSeen bool
}

// AnalyzeIncoming inspects every predecessor of block and classifies the
// value it hands off, per spec §4.4. A predecessor that is itself a pure
// conditional jump contributes the edge's own condition (true edge implies
// non-zero, false edge implies zero) rather than re-running block
// evaluation on it, since the cjump's own test is exact.
func AnalyzeIncoming(block *ir.BasicBlock) IncomingValue {
	var r IncomingValue
	for _, pred := range block.Predecessors {
		if pred.IsPureCjump() {
			if pred.Jump == block {
				r.NonZeroSeen = true
			} else {
				r.ZeroSeen = true
			}
			continue
		}

		eval := EvaluateBlock(pred)
		switch {
		case eval.HasIndeterminateValue():
			r.ZeroSeen = true
			r.NonZeroSeen = true
		case eval.HasNonZeroResult():
			r.NonZeroSeen = true
		default:
			r.ZeroSeen = true
		}
	}
	return r
}

// AllNonZero reports whether every predecessor hands off a non-zero value.
// A block with no predecessors (the entry block, or one already orphaned)
// makes no such guarantee, so it reports false rather than vacuously true.
func (r IncomingValue) AllNonZero() bool { return r.NonZeroSeen && !r.ZeroSeen }

// AllZero reports whether every predecessor hands off a zero value. As with
// AllNonZero, a block with no predecessors reports false instead of
// vacuously true.
func (r IncomingValue) AllZero() bool { return r.ZeroSeen && !r.NonZeroSeen }
