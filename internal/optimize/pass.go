// Package optimize implements the Brainfuck middle-end's optimization
// passes and the fixed-point driver that runs them to convergence, per spec
// §4.5-§4.15. Every pass operates on an *ir.Program already wrapped in a
// valid CFG and reports how many changes it made; the driver keeps
// re-running the pipeline until a round makes no changes or a safety cap of
// rounds is hit.
package optimize

import (
	"runtime"
	"sort"

	"github.com/vmichal/brainfuck-sub000/internal/ir"
)

// runtimeParallelism bounds how many blocks the parallel peephole runner
// processes concurrently.
func runtimeParallelism() int {
	if n := runtime.GOMAXPROCS(0); n > 0 {
		return n
	}
	return 1
}

// Pass is a single optimization that can be applied to a whole program and
// reports how many changes it made.
type Pass interface {
	Name() string
	Apply(p *ir.Program) int
}

// PeepholeFunc optimizes a single block in place.
type PeepholeFunc func(p *ir.Program, b *ir.BasicBlock) int

type peepholePass struct {
	name     string
	fn       PeepholeFunc
	parallel bool
}

func (pp *peepholePass) Name() string { return pp.name }

// Apply lifts the peephole function to the whole program by running it over
// every block and summing the change counts, per spec §4.5. It always runs
// sequentially; callers that want the concurrent path (only safe for passes
// with no cross-block state, opted into via Options.Parallel per §5 - "this
// is not mandated") go through ApplyWithParallelism instead, which Run uses.
func (pp *peepholePass) Apply(p *ir.Program) int {
	return pp.ApplyWithParallelism(p, false)
}

// ApplyWithParallelism runs the peephole over every block, concurrently when
// both the pass was registered as parallel-safe (arithmetic_value/pointer/
// both, per spec §5) and the caller opted in via allowParallel.
func (pp *peepholePass) ApplyWithParallelism(p *ir.Program, allowParallel bool) int {
	if !pp.parallel || !allowParallel || len(p.Blocks) < 2 {
		total := 0
		for _, b := range p.Blocks {
			total += pp.fn(p, b)
		}
		return total
	}

	type result struct{ n int }
	results := make([]result, len(p.Blocks))
	sem := make(chan struct{}, runtimeParallelism())
	done := make(chan int, len(p.Blocks))
	for i, b := range p.Blocks {
		sem <- struct{}{}
		go func(i int, b *ir.BasicBlock) {
			defer func() { <-sem }()
			results[i].n = pp.fn(p, b)
			done <- i
		}(i, b)
	}
	for range p.Blocks {
		<-done
	}
	total := 0
	for _, r := range results {
		total += r.n
	}
	return total
}

// Peephole registers fn as a peephole pass. Set parallel to run it
// concurrently over blocks (only safe for passes with no cross-block
// state, such as the arithmetic simplifier).
func Peephole(name string, fn PeepholeFunc, parallel bool) Pass {
	return &peepholePass{name: name, fn: fn, parallel: parallel}
}

type globalPass struct {
	name string
	fn   func(p *ir.Program) int
}

func (gp *globalPass) Name() string           { return gp.name }
func (gp *globalPass) Apply(p *ir.Program) int { return gp.fn(p) }

// Global registers fn, which already knows how to walk the whole program,
// as a pass - used by dead-code elimination, which needs the full
// reachability graph rather than one block at a time.
func Global(name string, fn func(p *ir.Program) int) Pass {
	return &globalPass{name: name, fn: fn}
}

// registry returns every pass identifier spec §6 recognizes, in the fixed
// internal order the driver applies them within a round: arithmetic
// simplification first (it creates the stationary ranges everything else
// depends on), then constant propagation, then the loop recognizers, then
// jump simplification, then cleanup, with dead-code elimination last since
// it is the only pass that can make an entire subtree of the others'
// opportunities disappear in one step. arithmetic_value and
// arithmetic_pointer are listed individually (so a caller can select either
// narrowly via Options.Passes) even though DefaultPipeline runs the
// combined arithmetic_both in their place to avoid walking the block list
// twice every round - see DESIGN.md.
func registry() []Pass {
	return []Pass{
		Peephole("arithmetic_value", ArithmeticValue, true),
		Peephole("arithmetic_pointer", ArithmeticPointer, true),
		Peephole("arithmetic_both", ArithmeticBoth, true),
		Peephole("local_const_propagation", LocalConstPropagation, false),
		Peephole("clear_loop", ClearLoop, false),
		Peephole("infinite_loop", InfiniteLoop, false),
		Peephole("search_loop", SearchLoop, false),
		Peephole("pure_ujump_elimination", PureUjumpElimination, false),
		Peephole("cjump_destination", CjumpDestinationChaining, false),
		Peephole("single_entry_cjump", SingleEntryCjumpFolding, false),
		Peephole("empty_block_elimination", EmptyBlockElimination, false),
		Peephole("block_merging", BlockMerging, false),
		Peephole("nop_elimination", NopElimination, false),
		Global("dead_code_elimination", DeadCodeElimination),
	}
}

// DefaultPipeline returns the pipeline Run uses when the caller does not
// name an explicit pass set: every pass in registry() except the two
// single-kind arithmetic simplifiers, which arithmetic_both already
// subsumes.
func DefaultPipeline() []Pass {
	var out []Pass
	for _, p := range registry() {
		if p.Name() == "arithmetic_value" || p.Name() == "arithmetic_pointer" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ByName looks up passes from the full registry by their §6 identifier,
// preserving registry order regardless of the order names are given in.
// Unknown names are silently ignored, mirroring the reference's
// get_opt_by_name returning nullopt for garbage input.
func ByName(names []string) []Pass {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []Pass
	for _, p := range registry() {
		if want[p.Name()] {
			out = append(out, p)
		}
	}
	return out
}

// Options controls a driver run.
type Options struct {
	// Passes selects which named passes to run, in DefaultPipeline order.
	// A nil/empty slice selects the whole default pipeline.
	Passes []string
	// MaxRounds caps how many times the pipeline may repeat; 0 uses the
	// spec's minimum safety cap of 10.
	MaxRounds int
	// CheckInvariants runs ir.CheckInvariants after every round and stops
	// with an error if it fails - the debug-build assertion path §4.5 and
	// §7 call for.
	CheckInvariants bool
	// Parallel opts into running parallel-safe peephole passes (the
	// arithmetic simplifiers) concurrently over blocks, per spec §5: "MAY
	// parallelize peephole passes", not mandated. Defaults to sequential.
	Parallel bool
}

// parallelizable is implemented by passes whose Apply has a faster
// concurrent path gated behind Options.Parallel.
type parallelizable interface {
	ApplyWithParallelism(p *ir.Program, allowParallel bool) int
}

const defaultMaxRounds = 10

// Run drives prog to a fixed point under the selected passes, per spec
// §4.5: repeat the pipeline until a round changes nothing or MaxRounds is
// reached. The orphan sweep runs after every individual pass, since any
// pass may disconnect blocks and nothing downstream may see a dangling
// block mid-round.
func Run(prog *ir.Program, opts Options) (rounds int, totalChanges int, err error) {
	passes := DefaultPipeline()
	if len(opts.Passes) > 0 {
		passes = ByName(opts.Passes)
	}

	maxRounds := opts.MaxRounds
	if maxRounds <= 0 {
		maxRounds = defaultMaxRounds
	}

	for round := 0; round < maxRounds; round++ {
		rounds = round + 1
		changed := 0
		for _, pass := range passes {
			if pp, ok := pass.(parallelizable); ok {
				changed += pp.ApplyWithParallelism(prog, opts.Parallel)
			} else {
				changed += pass.Apply(prog)
			}
			prog.Sweep()
		}
		totalChanges += changed

		if opts.CheckInvariants {
			if verr := ir.CheckInvariants(prog); verr != nil {
				return rounds, totalChanges, verr
			}
		}
		if changed == 0 {
			break
		}
	}
	return rounds, totalChanges, nil
}

// PassNames returns every pass identifier spec §6 recognizes, for CLI help
// text and validation.
func PassNames() []string {
	passes := registry()
	names := make([]string, len(passes))
	for i, p := range passes {
		names[i] = p.Name()
	}
	sort.Strings(names)
	return names
}
