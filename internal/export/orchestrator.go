// Package export drives code generation across a set of requested target
// platforms. Each target runs independently over shared immutable inputs and
// writes only its own result slot, so a failure in one target never corrupts
// a sibling.
package export

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/capstudio/capstudio/internal/capsule"
	"github.com/capstudio/capstudio/internal/codegen"
	"github.com/capstudio/capstudio/internal/platform"
)

// Exporter orchestrates generation across targets. It is stateless between
// Export calls; per-call state lives in a run value.
type Exporter struct {
	src      codegen.DefinitionSource
	progress codegen.ProgressFunc

	// MaxParallel caps concurrent target generations. Zero means one
	// goroutine per requested target.
	MaxParallel int
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithProgress installs a progress callback. It is invoked from target
// goroutines and must be safe for concurrent use.
func WithProgress(fn codegen.ProgressFunc) Option {
	return func(e *Exporter) { e.progress = fn }
}

// WithMaxParallel caps concurrent target generations.
func WithMaxParallel(n int) Option {
	return func(e *Exporter) { e.MaxParallel = n }
}

// New creates an Exporter over the given definition source.
func New(src codegen.DefinitionSource, opts ...Option) *Exporter {
	e := &Exporter{src: src}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run reports the terminal states of one export call.
type Run struct {
	mu     sync.Mutex
	states map[platform.Platform]TargetState
	state  RunState
}

func newRun(targets []platform.Platform) *Run {
	states := make(map[platform.Platform]TargetState, len(targets))
	for _, t := range targets {
		states[t] = StateIdle
	}
	return &Run{states: states}
}

// transition performs a validated state change for one target. An invalid
// transition indicates an orchestrator bug and panics rather than silently
// corrupting the run record.
func (r *Run) transition(t platform.Platform, to TargetState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	from := r.states[t]
	if !allowedTransition(from, to) {
		panic(fmt.Sprintf("invalid target transition for %s: %s -> %s", t, from, to))
	}
	r.states[t] = to
}

// TargetState returns the recorded state for one target.
func (r *Run) TargetState(t platform.Platform) TargetState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states[t]
}

// State returns the aggregate run state.
func (r *Run) State() RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Run) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = RunAllDone
	for _, s := range r.states {
		if s == StateCancelled {
			r.state = RunCancelled
			return
		}
	}
}

// Export generates one CompilationResult per requested target. Preconditions
// (no targets, malformed composition) fail the whole call before any
// generation starts; after that, every target independently reaches a
// terminal state and the result slice always has one entry per requested
// target, in request order.
//
// Cancellation is cooperative: cancel ctx and each unfinished target stops
// between capsule-file emissions, yielding a result marked cancelled with no
// partial files.
func (e *Exporter) Export(ctx context.Context, comp *capsule.ProjectComposition, targets []platform.Platform) ([]*capsule.CompilationResult, *Run, error) {
	if len(targets) == 0 {
		return nil, nil, fmt.Errorf("no target platforms requested")
	}
	seen := make(map[platform.Platform]bool, len(targets))
	for _, t := range targets {
		if !t.Valid() {
			return nil, nil, fmt.Errorf("unknown target platform %q", t)
		}
		if seen[t] {
			return nil, nil, fmt.Errorf("target platform %q requested twice", t)
		}
		seen[t] = true
	}
	if err := capsule.ValidateComposition(comp); err != nil {
		return nil, nil, fmt.Errorf("invalid composition: %w", err)
	}

	run := newRun(targets)
	results := make([]*capsule.CompilationResult, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	if e.MaxParallel > 0 {
		g.SetLimit(e.MaxParallel)
	}
	for i, target := range targets {
		g.Go(func() error {
			results[i] = e.exportTarget(gctx, run, comp, target)
			return nil
		})
	}
	// Worker funcs never return errors; failures are per-target results.
	_ = g.Wait()

	run.finish()
	return results, run, nil
}

// exportTarget drives one target from Idle to a terminal state. It reads
// only shared immutable inputs and writes only its own result.
func (e *Exporter) exportTarget(ctx context.Context, run *Run, comp *capsule.ProjectComposition, target platform.Platform) *capsule.CompilationResult {
	if ctx.Err() != nil {
		run.transition(target, StateCancelled)
		return cancelledResult(target)
	}

	run.transition(target, StateValidating)
	// Composition well-formedness was checked as a call-level precondition;
	// per-target validation covers only the target itself.
	run.transition(target, StateGenerating)

	result, err := codegen.Assemble(ctx, e.src, comp, target, e.progress)
	if err != nil {
		// Assemble errors only on cancellation; partial files are dropped.
		run.transition(target, StateCancelled)
		return cancelledResult(target)
	}

	if result.Success {
		run.transition(target, StateCompleted)
	} else {
		run.transition(target, StateFailed)
	}
	return result
}

// cancelledResult is the distinct marker for a target that never finished:
// no files, never a partial one.
func cancelledResult(target platform.Platform) *capsule.CompilationResult {
	return &capsule.CompilationResult{
		Platform: target,
		Status:   capsule.StatusCancelled,
		Success:  false,
	}
}
