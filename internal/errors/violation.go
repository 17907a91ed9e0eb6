package errors

import "fmt"

// Violation is a fatal contract violation: a CFG invariant broke, an
// impossible opcode reached a switch that assumes it can't, or a pass
// handed the driver back a malformed graph. Violations are not meant to be
// recovered from; they carry enough context to find the offending block
// from a crash report.
type Violation struct {
	Code    string
	Message string
	Block   int // block label the violation was found at, or -1
}

func (v *Violation) Error() string {
	if v.Block >= 0 {
		return fmt.Sprintf("[%s] %s (block %d): %s", v.Code, Describe(v.Code), v.Block, v.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", v.Code, Describe(v.Code), v.Message)
}

// New builds a Violation for a block-scoped invariant failure.
func New(code string, block int, format string, args ...any) *Violation {
	return &Violation{Code: code, Message: fmt.Sprintf(format, args...), Block: block}
}

// NewGlobal builds a Violation not tied to any particular block.
func NewGlobal(code string, format string, args ...any) *Violation {
	return &Violation{Code: code, Message: fmt.Sprintf(format, args...), Block: -1}
}

// Panic raises v as a panic. Every contract violation in the core funnels
// through here so a crash always carries a Violation value, never a bare
// string.
func Panic(v *Violation) {
	panic(v)
}
