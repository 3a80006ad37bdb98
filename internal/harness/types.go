package harness

import "fmt"

// Kind categorises the outcome of a test.
type Kind string

const (
	// KindNone marks a passing result.
	KindNone Kind = ""

	// KindFileNotFound indicates the test script could not be read.
	KindFileNotFound Kind = "FILE_NOT_FOUND"

	// KindParseError indicates the script has a syntax error.
	KindParseError Kind = "PARSE_ERROR"

	// KindCompileError indicates a limit or structural violation at compile time.
	KindCompileError Kind = "COMPILE_ERROR"

	// KindMissingOutputBinding indicates the script never references the output variable.
	KindMissingOutputBinding Kind = "MISSING_OUTPUT_BINDING"

	// KindRuntimeFault indicates the program could not be stepped.
	KindRuntimeFault Kind = "RUNTIME_FAULT"

	// KindTicksExhausted indicates the budget ran out while the output was numeric.
	KindTicksExhausted Kind = "TICKS_EXHAUSTED"

	// KindOutputFailure indicates the output was set to a string other than "ok".
	KindOutputFailure Kind = "OUTPUT_FAILURE"
)

// OutputName is the external variable a test sets to report its verdict.
const OutputName = ":output"

// SuccessSentinel is the only output value that passes a test.
const SuccessSentinel = "ok"

// FileNotFoundMessage is the message of a test whose script does not exist.
const FileNotFoundMessage = "File not found!"

// NeverAssignsMessage is the message of a test that never references output.
func NeverAssignsMessage(output string) string {
	return fmt.Sprintf("Test never assigns '%s'", output)
}

// TicksExhaustedMessage is the message of a test that ran out of ticks.
func TicksExhaustedMessage(output string) string {
	return fmt.Sprintf("Executed MaxTicks but '%s' was never set to '%s'", output, SuccessSentinel)
}

// TestCase identifies a discovered test script.
type TestCase struct {
	Path string
}

func (tc TestCase) String() string {
	return tc.Path
}

// Result is the immutable outcome of one test.
//
// A passing result has no message. Every failing result carries one, which
// may be the empty string when the script set the output to "".
type Result struct {
	Success bool
	Message string
	Kind    Kind
	// Ticks is the total number of ticks charged to the test.
	Ticks int64
}

// Pass creates a passing result.
func Pass(ticks int64) Result {
	return Result{Success: true, Ticks: ticks}
}

// Fail creates a failing result.
func Fail(kind Kind, message string, ticks int64) Result {
	return Result{Kind: kind, Message: message, Ticks: ticks}
}

// Entry pairs a test with its result. Result is nil while the test is pending.
type Entry struct {
	Test   TestCase
	Result *Result
}

// Pending reports whether the test has not completed yet.
func (e Entry) Pending() bool {
	return e.Result == nil
}
