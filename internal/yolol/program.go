package yolol

import (
	"errors"
	"fmt"

	"github.com/roach88/yololtest/internal/value"
)

// Program is a compiled script. It holds no execution state: variables and
// the program counter live in the buffers passed to Run.
type Program struct {
	lines         []execFunc
	internalCount int
	externals     *ExternalsMap
	limits        Limits
}

// InternalCount is the required length of the internal buffer, including
// the program counter slot.
func (p *Program) InternalCount() int {
	return p.internalCount
}

// Run executes up to ticks lines, one tick per line, and returns the number
// of ticks used.
//
// When watch is non-empty and the program was compiled with change
// detection, Run returns at the end of the first line that changed the
// value of a watched external slot. A zero or negative budget runs nothing.
func (p *Program) Run(internals, externals []value.Value, ticks int64, watch value.ChangeSetKey) (int64, error) {
	if len(internals) != p.internalCount {
		return 0, &FaultError{Message: fmt.Sprintf("internal buffer has %d slots, program needs %d", len(internals), p.internalCount)}
	}
	if len(externals) < p.externals.Count() {
		return 0, &FaultError{Message: fmt.Sprintf("external buffer has %d slots, program needs %d", len(externals), p.externals.Count())}
	}
	pc, err := p.programCounter(internals[pcSlot])
	if err != nil {
		return 0, err
	}

	m := &machine{
		internals:       internals,
		externals:       externals,
		maxStringLength: p.limits.MaxStringLength,
		detect:          p.limits.ChangeDetection,
	}

	var used int64
	for used < ticks {
		m.jump = 0
		err := p.lines[pc](m)
		used++

		switch {
		case err == nil:
			pc = (pc + 1) % len(p.lines)
		case errors.Is(err, errJump):
			pc = m.jump - 1
		default:
			// The rest of the line is skipped, as on a real chip.
			pc = (pc + 1) % len(p.lines)
		}

		if m.changed.Overlaps(watch) {
			break
		}
	}

	internals[pcSlot] = value.Int(int64(pc))
	return used, nil
}

func (p *Program) programCounter(v value.Value) (int, error) {
	if !v.IsNumber() {
		return 0, &FaultError{Message: "program counter slot holds a string"}
	}
	pc := int(v.Number() / value.Scale)
	if pc < 0 || pc >= len(p.lines) {
		return 0, &FaultError{Message: fmt.Sprintf("program counter %d out of range", pc)}
	}
	return pc, nil
}

// machine is the per-Run view of the buffers.
type machine struct {
	internals       []value.Value
	externals       []value.Value
	maxStringLength int
	detect          bool
	changed         value.ChangeSetKey
	jump            int
}

func (m *machine) load(s slot) value.Value {
	if s.external {
		return m.externals[s.index]
	}
	return m.internals[s.index]
}

func (m *machine) store(s slot, v value.Value) {
	if v.IsString() {
		if r := []rune(v.Str()); len(r) > m.maxStringLength {
			v = value.NewString(string(r[:m.maxStringLength]))
		}
	}
	if !s.external {
		m.internals[s.index] = v
		return
	}
	if m.detect && !value.Equal(m.externals[s.index], v) {
		m.changed |= s.key
	}
	m.externals[s.index] = v
}
