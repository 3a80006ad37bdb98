package harness

import "github.com/roach88/yololtest/internal/value"

// Verdict is the decision taken after inspecting the output variable.
type Verdict int

const (
	// VerdictContinue means the output is still numeric and ticks remain.
	VerdictContinue Verdict = iota
	// VerdictPass means the output equals the success sentinel.
	VerdictPass
	// VerdictFail means the output is some other string.
	VerdictFail
	// VerdictExhausted means the output is numeric and no ticks remain.
	VerdictExhausted
)

func (v Verdict) String() string {
	switch v {
	case VerdictContinue:
		return "continue"
	case VerdictPass:
		return "pass"
	case VerdictFail:
		return "fail"
	case VerdictExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Classification is the output of Classify. Message is only meaningful for
// VerdictFail and VerdictExhausted.
type Classification struct {
	Verdict Verdict
	Message string
}

// Terminal reports whether the classification ends the test.
func (c Classification) Terminal() bool {
	return c.Verdict != VerdictContinue
}

// Result converts a terminal classification into a Result charged with
// ticks. It panics on VerdictContinue.
func (c Classification) Result(ticks int64) Result {
	switch c.Verdict {
	case VerdictPass:
		return Pass(ticks)
	case VerdictFail:
		return Fail(KindOutputFailure, c.Message, ticks)
	case VerdictExhausted:
		return Fail(KindTicksExhausted, c.Message, ticks)
	}
	panic("harness: Result called on a non-terminal classification")
}

// Classify decides what an observed output value means, in order:
//
//  1. number, ticks remain      -> continue
//  2. number, no ticks remain   -> exhausted
//  3. string equal to "ok"      -> pass
//  4. any other string          -> fail with the string as message
func Classify(output string, v value.Value, ticksRemaining int64) Classification {
	return value.Match(v,
		func(value.Number) Classification {
			if ticksRemaining > 0 {
				return Classification{Verdict: VerdictContinue}
			}
			return Classification{Verdict: VerdictExhausted, Message: TicksExhaustedMessage(output)}
		},
		func(s string) Classification {
			if s == SuccessSentinel {
				return Classification{Verdict: VerdictPass}
			}
			return Classification{Verdict: VerdictFail, Message: s}
		},
	)
}
