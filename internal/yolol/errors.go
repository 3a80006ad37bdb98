package yolol

import (
	"errors"
	"fmt"
)

// ParseError is a syntax error with its 1-based source position.
type ParseError struct {
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// CompileError is a limit or structural violation found while compiling.
type CompileError struct {
	Line    int // 0 when the error is not tied to a line
	Message string
}

func (e *CompileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// RuntimeError aborts the rest of the line it occurs on.
// It never escapes Run.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string {
	return e.Message
}

// FaultError is returned by Run when the program cannot be stepped at all,
// for example when the caller's buffers do not match the compiled layout.
type FaultError struct {
	Message string
}

func (e *FaultError) Error() string {
	return "fault: " + e.Message
}

// IsCompileError returns true if err is or wraps a CompileError.
func IsCompileError(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce)
}

func runtimeErrorf(format string, args ...any) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...)}
}
