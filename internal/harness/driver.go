package harness

import (
	"fmt"

	"github.com/roach88/yololtest/internal/value"
)

// Program is a compiled script that can be resumed against caller-owned
// buffers.
type Program interface {
	// InternalCount is the required length of the internal buffer.
	InternalCount() int

	// Run executes up to ticks ticks and returns how many were used. It
	// returns early once a write changes a slot whose key overlaps watch.
	Run(internals, externals []value.Value, ticks int64, watch value.ChangeSetKey) (int64, error)
}

// Externals maps external variable names to slots of the external buffer.
type Externals interface {
	Count() int
	Contains(name string) bool
	Index(name string) int
	ChangeSetKey(name string) value.ChangeSetKey
}

// execution is the state owned by one Drive call. It is never shared
// between tests.
type execution struct {
	program   Program
	internals []value.Value
	externals []value.Value
	output    int
	watch     value.ChangeSetKey
	budget    *TickBudget
}

// Drive runs program until the output variable reaches a verdict or the
// tick budget is spent.
//
// A program that never references output fails immediately with zero ticks
// and is never stepped. Errors and panics from the program become a
// RUNTIME_FAULT result; Drive itself never fails.
func Drive(program Program, externals Externals, output string, maxTicks int64) Result {
	if !externals.Contains(output) {
		return Fail(KindMissingOutputBinding, NeverAssignsMessage(output), 0)
	}

	e := &execution{
		program:   program,
		internals: make([]value.Value, program.InternalCount()),
		externals: make([]value.Value, externals.Count()),
		output:    externals.Index(output),
		watch:     externals.ChangeSetKey(output),
		budget:    NewTickBudget(maxTicks),
	}

	for {
		if e.budget.Remaining() > 0 {
			if err := e.step(); err != nil {
				return Fail(KindRuntimeFault, err.Error(), e.budget.Used())
			}
		}

		c := Classify(output, e.externals[e.output], e.budget.Remaining())
		if c.Terminal() {
			return c.Result(e.budget.Used())
		}
	}
}

// step resumes the program once with the whole remaining budget.
func (e *execution) step() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("program panicked: %v", r)
		}
	}()

	used, err := e.program.Run(e.internals, e.externals, e.budget.Remaining(), e.watch)
	if err != nil {
		return err
	}
	return e.budget.Charge(used)
}
