package yolol

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/roach88/yololtest/internal/value"
)

// Limits bound what a compiled program may do.
type Limits struct {
	// MaxLines is the chip size. Longer programs fail to compile; shorter
	// programs are padded with empty lines up to it.
	MaxLines int
	// MaxStringLength truncates every string stored in a variable.
	MaxStringLength int
	// ChangeDetection makes external writes mark their ChangeSetKey so that
	// Run can return early.
	ChangeDetection bool
}

// pcSlot is the internal slot holding the 0-based program counter.
const pcSlot = 0

// errJump stops the current line after a goto.
var errJump = errors.New("jump")

type (
	evalFunc func(m *machine) (value.Value, error)
	execFunc func(m *machine) error
)

type slot struct {
	external bool
	index    int
	key      value.ChangeSetKey
}

type compiler struct {
	limits    Limits
	externals *ExternalsMap
	internals map[string]int
}

// Compile lowers script into a runnable Program. External variables are
// added to externals; the map may be shared by several programs that run
// against the same external buffer.
func Compile(script *Script, externals *ExternalsMap, limits Limits) (*Program, error) {
	if limits.MaxLines <= 0 {
		return nil, &CompileError{Message: "max lines must be positive"}
	}
	if limits.MaxStringLength <= 0 {
		return nil, &CompileError{Message: "max string length must be positive"}
	}
	if len(script.Lines) > limits.MaxLines {
		return nil, &CompileError{Message: fmt.Sprintf("program has %d lines, the limit is %d", len(script.Lines), limits.MaxLines)}
	}

	c := &compiler{
		limits:    limits,
		externals: externals,
		internals: map[string]int{},
	}

	lines := make([]execFunc, limits.MaxLines)
	for i := range lines {
		lines[i] = func(*machine) error { return nil }
	}
	for _, line := range script.Lines {
		fn, err := c.block(line.Stmts)
		if err != nil {
			return nil, err
		}
		lines[line.Number-1] = fn
	}

	return &Program{
		lines:         lines,
		internalCount: len(c.internals) + 1,
		externals:     externals,
		limits:        limits,
	}, nil
}

func (c *compiler) resolve(v Var) slot {
	if v.External() {
		i := c.externals.add(v.Name)
		return slot{external: true, index: i, key: keyForSlot(i)}
	}
	i, ok := c.internals[v.Name]
	if !ok {
		i = len(c.internals) + 1
		c.internals[v.Name] = i
	}
	return slot{index: i}
}

func (c *compiler) block(stmts []Stmt) (execFunc, error) {
	fns := make([]execFunc, 0, len(stmts))
	for _, s := range stmts {
		fn, err := c.stmt(s)
		if err != nil {
			return nil, err
		}
		fns = append(fns, fn)
	}
	return func(m *machine) error {
		for _, fn := range fns {
			if err := fn(m); err != nil {
				return err
			}
		}
		return nil
	}, nil
}

func (c *compiler) stmt(s Stmt) (execFunc, error) {
	switch s := s.(type) {
	case *Assign:
		target := c.resolve(s.Target)
		rhs, err := c.expr(s.Value)
		if err != nil {
			return nil, err
		}
		if s.Op == "=" {
			return func(m *machine) error {
				v, err := rhs(m)
				if err != nil {
					return err
				}
				m.store(target, v)
				return nil
			}, nil
		}
		op := s.Op
		return func(m *machine) error {
			v, err := rhs(m)
			if err != nil {
				return err
			}
			result, err := applyBinary(op, m.load(target), v)
			if err != nil {
				return err
			}
			m.store(target, result)
			return nil
		}, nil

	case *IncDec:
		target := c.resolve(s.Target)
		inc := s.Op == "++"
		return func(m *machine) error {
			result, err := incDec(m.load(target), inc)
			if err != nil {
				return err
			}
			m.store(target, result)
			return nil
		}, nil

	case *Goto:
		line, err := c.expr(s.Line)
		if err != nil {
			return nil, err
		}
		maxLines := c.limits.MaxLines
		return func(m *machine) error {
			v, err := line(m)
			if err != nil {
				return err
			}
			if !v.IsNumber() {
				return runtimeErrorf("cannot goto a string")
			}
			target := int(v.Number() / value.Scale)
			target = min(max(target, 1), maxLines)
			m.jump = target
			return errJump
		}, nil

	case *If:
		cond, err := c.expr(s.Cond)
		if err != nil {
			return nil, err
		}
		thenFn, err := c.block(s.Then)
		if err != nil {
			return nil, err
		}
		elseFn, err := c.block(s.Else)
		if err != nil {
			return nil, err
		}
		return func(m *machine) error {
			v, err := cond(m)
			if err != nil {
				return err
			}
			if !v.IsNumber() {
				return runtimeErrorf("if condition is a string")
			}
			if v.Number().Truthy() {
				return thenFn(m)
			}
			return elseFn(m)
		}, nil
	}
	return nil, &CompileError{Line: s.Position().Line, Message: fmt.Sprintf("unsupported statement %T", s)}
}

func (c *compiler) expr(e Expr) (evalFunc, error) {
	switch e := e.(type) {
	case *NumberLit:
		v := value.NewNumber(e.Value)
		return func(*machine) (value.Value, error) { return v, nil }, nil

	case *StringLit:
		if n := utf8.RuneCountInString(e.Value); n > c.limits.MaxStringLength {
			return nil, &CompileError{
				Line:    e.Line,
				Message: fmt.Sprintf("string literal is %d characters long, the limit is %d", n, c.limits.MaxStringLength),
			}
		}
		v := value.NewString(e.Value)
		return func(*machine) (value.Value, error) { return v, nil }, nil

	case *VarRef:
		s := c.resolve(e.Var)
		return func(m *machine) (value.Value, error) { return m.load(s), nil }, nil

	case *Unary:
		x, err := c.expr(e.X)
		if err != nil {
			return nil, err
		}
		op := e.Op
		return func(m *machine) (value.Value, error) {
			v, err := x(m)
			if err != nil {
				return value.Value{}, err
			}
			return applyUnary(op, v)
		}, nil

	case *Binary:
		left, err := c.expr(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := c.expr(e.Right)
		if err != nil {
			return nil, err
		}
		op := e.Op
		return func(m *machine) (value.Value, error) {
			a, err := left(m)
			if err != nil {
				return value.Value{}, err
			}
			b, err := right(m)
			if err != nil {
				return value.Value{}, err
			}
			return applyBinary(op, a, b)
		}, nil
	}
	return nil, &CompileError{Line: e.Position().Line, Message: fmt.Sprintf("unsupported expression %T", e)}
}

func incDec(v value.Value, inc bool) (value.Value, error) {
	if v.IsNumber() {
		if inc {
			return value.NewNumber(v.Number().Add(value.One)), nil
		}
		return value.NewNumber(v.Number().Sub(value.One)), nil
	}
	if inc {
		return value.NewString(v.Str() + " "), nil
	}
	s := []rune(v.Str())
	if len(s) == 0 {
		return value.Value{}, runtimeErrorf("cannot decrement an empty string")
	}
	return value.NewString(string(s[:len(s)-1])), nil
}
