package ir

import (
	"fmt"
	"strings"
)

// Printer renders a Program either as an indented textual listing or as a
// Graphviz DOT graph, per spec §4.17. Grounded on the same
// accumulate-into-a-builder idiom the teacher's IR printer uses.
type Printer struct {
	dot    bool
	output strings.Builder
}

// NewPrinter returns a printer for the textual listing format.
func NewPrinter() *Printer { return &Printer{} }

// NewDotPrinter returns a printer that emits a Graphviz DOT graph.
func NewDotPrinter() *Printer { return &Printer{dot: true} }

// DumpGraph renders program with p's configured format and returns it.
func (p *Printer) DumpGraph(program *Program) string {
	if p.dot {
		p.printDot(program)
	} else {
		p.printText(program)
	}
	return p.output.String()
}

// DumpGraph is a convenience wrapper returning the textual listing.
func DumpGraph(program *Program) string { return NewPrinter().DumpGraph(program) }

// DumpDot is a convenience wrapper returning the DOT graph.
func DumpDot(program *Program) string { return NewDotPrinter().DumpGraph(program) }

func (p *Printer) writeLine(format string, args ...interface{}) {
	fmt.Fprintf(&p.output, format, args...)
	p.output.WriteString("\n")
}

func (p *Printer) printText(program *Program) {
	for _, b := range program.Blocks {
		if b.IsOrphaned() {
			continue
		}
		p.writeLine("block %d:", b.Label)
		if b.IsEmpty() {
			p.writeLine("  (empty)")
		}
		for _, inst := range b.Instructions {
			p.writeLine("  %6s  %s", inst.Loc, inst.String())
		}
		switch {
		case b.Natural != nil && b.Jump != nil:
			p.writeLine("  -> %d (false), %d (true)", b.Natural.Label, b.Jump.Label)
		case b.Natural != nil:
			p.writeLine("  -> %d", b.Natural.Label)
		case b.Jump != nil:
			p.writeLine("  -> %d", b.Jump.Label)
		default:
			p.writeLine("  (no successor)")
		}
	}
}

func (p *Printer) printDot(program *Program) {
	p.writeLine("digraph G {")
	for _, b := range program.Blocks {
		if b.IsOrphaned() {
			continue
		}
		if b.IsEmpty() {
			p.writeLine("\t%d [shape=box, label=\"Block %d\\nEMPTY\"];", b.Label, b.Label)
		} else {
			var body strings.Builder
			fmt.Fprintf(&body, "Block %d, length %d.\\n", b.Label, len(b.Instructions))
			for _, inst := range b.Instructions {
				arg := inst.Arg
				if inst.IsJump() {
					arg = int64(b.Jump.Label)
				}
				fmt.Fprintf(&body, "%6s: %-10s%-10d\\n", inst.Loc, inst.Opcode, arg)
			}
			p.writeLine("\t%d [shape=box, label=\"%s\"];", b.Label, body.String())
		}

		if b.Natural != nil {
			style := "[style=dotted]"
			if b.IsCjump() {
				style = "[color=red, label=\"F\"]"
			}
			p.writeLine("\t%d -> %d%s;", b.Label, b.Natural.Label, style)
		}
		if b.Jump != nil {
			style := ""
			if b.IsCjump() {
				style = "[color=green, label=\"T\"]"
			}
			p.writeLine("\t%d -> %d%s;", b.Label, b.Jump.Label, style)
		}
	}
	p.writeLine("}")
}
