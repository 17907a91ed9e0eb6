// Package errors defines the closed set of contract-violation diagnostics
// the optimizing middle-end can raise. The core has no recoverable error
// path: every failure here is a broken invariant, an impossible opcode
// combination, or a pass that left the CFG malformed, and is reported by
// panicking with a Violation value rather than returning an error up a call
// chain.
//
// Error code ranges:
// IR01xx: CFG structural invariants (successor/predecessor mirroring, terminator discipline)
// IR02xx: entry/exit uniqueness
// IR03xx: instruction argument contracts (non-zero deltas, valid infinite-loop tag)
// IR04xx: pass/analysis preconditions
// IR05xx: frontend contract (bracket balance of the source handed to the builder)
package errors

const (
	// IR0101: a block's successor slot points at a block that does not list
	// it back as a predecessor.
	ErrDanglingSuccessor = "IR0101"

	// IR0102: a block lists a predecessor that does not, in turn, have this
	// block as one of its successors.
	ErrDanglingPredecessor = "IR0102"

	// IR0103: natural and jump successor point at the same block.
	ErrIdenticalSuccessors = "IR0103"

	// IR0104: a non-orphan, non-exit block has neither successor set.
	ErrNoSuccessor = "IR0104"

	// IR0105: a block terminated by an unconditional branch still carries a
	// natural successor.
	ErrUjumpHasNatural = "IR0105"

	// IR0106: a block terminated by a conditional branch is missing one of
	// its two successors.
	ErrCjumpMissingSuccessor = "IR0106"

	// IR0201: the program has no entry block, or more than one.
	ErrEntryCount = "IR0201"

	// IR0202: the program has no exit block, or more than one.
	ErrExitCount = "IR0202"

	// IR0301: an arithmetic or shift instruction carries a zero delta.
	ErrZeroDelta = "IR0301"

	// IR0302: a search instruction carries a non-positive stride.
	ErrBadStride = "IR0302"

	// IR0303: an infinite instruction's argument is neither 0 nor 1.
	ErrBadInfiniteTag = "IR0303"

	// IR0401: an analysis or pass was invoked on a block that violates its
	// documented precondition. Nothing in the core raises this code; an
	// offset with no stationary range yields an invalid SameOffsetIterator
	// (see IsValid) rather than a violation.
	ErrAnalysisPrecondition = "IR0401"

	// IR0501: the CFG builder was handed a source string that is not
	// bracket-balanced, violating the frontend contract spec §1/§4.1 assume
	// already holds by the time the core sees it.
	ErrUnbalancedSource = "IR0501"
)

var descriptions = map[string]string{
	ErrDanglingSuccessor:     "successor edge has no mirrored predecessor entry",
	ErrDanglingPredecessor:   "predecessor entry has no mirrored successor edge",
	ErrIdenticalSuccessors:   "natural and jump successor must be distinct",
	ErrNoSuccessor:           "non-orphan, non-exit block has no successor",
	ErrUjumpHasNatural:       "unconditional branch block has a natural successor",
	ErrCjumpMissingSuccessor: "conditional branch block is missing a successor",
	ErrEntryCount:            "program must have exactly one entry block",
	ErrExitCount:             "program must have exactly one exit block",
	ErrZeroDelta:             "arithmetic or shift instruction has a zero delta",
	ErrBadStride:             "search instruction has a non-positive stride",
	ErrBadInfiniteTag:        "infinite instruction argument must be 0 or 1",
	ErrAnalysisPrecondition:  "analysis precondition violated",
	ErrUnbalancedSource:      "source is not bracket-balanced",
}

// Describe returns a human-readable description of a violation code. It
// returns "unknown error code" for anything outside the table above, which
// itself would be a bug in the caller.
func Describe(code string) string {
	if desc, ok := descriptions[code]; ok {
		return desc
	}
	return "unknown error code"
}
