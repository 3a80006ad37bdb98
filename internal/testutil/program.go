package testutil

import (
	"sync"

	"github.com/roach88/yololtest/internal/value"
)

// AllTicks makes a Step consume the whole budget it is offered.
const AllTicks int64 = -1

// Step scripts one call to ScriptedProgram.Run.
type Step struct {
	// Ticks to report. AllTicks reports the full budget. Values outside the
	// budget are reported as-is so that contract violations can be tested.
	Ticks int64
	// Output, when non-nil, is written to the output slot before returning.
	Output *value.Value
	// Err is returned instead of running.
	Err error
	// Panic, when non-nil, is raised instead of running.
	Panic any
}

// ScriptedProgram is a fake compiled program whose Run calls follow Steps.
// Once Steps are used up every call consumes its whole budget and leaves the
// buffers untouched, like a program looping on numeric output.
//
// Thread-safety: methods are safe for concurrent use via internal mutex.
type ScriptedProgram struct {
	Internals  int
	OutputSlot int
	Steps      []Step

	mu      sync.Mutex
	budgets []int64
	total   int64
}

// Run implements harness.Program.
func (p *ScriptedProgram) Run(internals, externals []value.Value, ticks int64, watch value.ChangeSetKey) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	call := len(p.budgets)
	p.budgets = append(p.budgets, ticks)

	step := Step{Ticks: AllTicks}
	if call < len(p.Steps) {
		step = p.Steps[call]
	}
	if step.Panic != nil {
		panic(step.Panic)
	}
	if step.Err != nil {
		return 0, step.Err
	}
	if step.Output != nil {
		externals[p.OutputSlot] = *step.Output
	}

	used := step.Ticks
	if used == AllTicks {
		used = ticks
	}
	p.total += used
	return used, nil
}

// InternalCount implements harness.Program.
func (p *ScriptedProgram) InternalCount() int {
	return p.Internals
}

// Budgets returns the tick budget passed to each Run call.
func (p *ScriptedProgram) Budgets() []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int64(nil), p.budgets...)
}

// Calls returns the number of Run calls.
func (p *ScriptedProgram) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.budgets)
}

// TotalTicks returns the sum of ticks reported by Run.
func (p *ScriptedProgram) TotalTicks() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

// Str is a convenience for Step.Output.
func Str(s string) *value.Value {
	v := value.NewString(s)
	return &v
}

// Num is a convenience for Step.Output.
func Num(i int64) *value.Value {
	v := value.Int(i)
	return &v
}

// MapExternals is a fixed externals mapping for driving fakes.
type MapExternals map[string]int

// Count implements harness.Externals.
func (m MapExternals) Count() int { return len(m) }

// Contains implements harness.Externals.
func (m MapExternals) Contains(name string) bool {
	_, ok := m[name]
	return ok
}

// Index implements harness.Externals.
func (m MapExternals) Index(name string) int {
	if i, ok := m[name]; ok {
		return i
	}
	return -1
}

// ChangeSetKey implements harness.Externals.
func (m MapExternals) ChangeSetKey(name string) value.ChangeSetKey {
	if i, ok := m[name]; ok {
		return value.ChangeSetKey(1) << uint(i)
	}
	return 0
}
