// Package ir implements the intermediate representation of the Brainfuck
// optimizing middle-end: the opcode model, the basic-block control-flow
// graph, construction of that graph from a lexed source stream, and the two
// operations that hand a built/optimized program back to its collaborators
// (linearization for the emulator, graph dump for interactive debugging).
//
// The instruction set is a closed, tagged variant rather than a class
// hierarchy: each Instruction is a fixed-size record carrying an Opcode, a
// signed argument whose meaning depends on that opcode, and a source
// location. Branch destinations are never stored in the argument field once
// a program has a CFG - they live exclusively in a BasicBlock's Natural and
// Jump successor slots, which is what makes the CFG invariants checkable at
// all.
package ir
