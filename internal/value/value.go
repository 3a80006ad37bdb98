package value

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// KindNumber is the zero Kind so that a zeroed Value is the number 0.
	KindNumber Kind = iota
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is an immutable Number or String.
//
// The zero Value is Number(0), which is also the initial value of every
// variable slot.
type Value struct {
	kind Kind
	num  Number
	str  string
}

// NewNumber wraps a Number.
func NewNumber(n Number) Value {
	return Value{kind: KindNumber, num: n}
}

// NewString wraps a string.
func NewString(s string) Value {
	return Value{kind: KindString, str: s}
}

// Int is shorthand for NewNumber(FromInt(i)).
func Int(i int64) Value {
	return NewNumber(FromInt(i))
}

// Bool converts a truth value to the numbers 1 and 0.
func Bool(b bool) Value {
	if b {
		return NewNumber(One)
	}
	return NewNumber(0)
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNumber reports whether v holds a Number.
func (v Value) IsNumber() bool {
	return v.kind == KindNumber
}

// IsString reports whether v holds a String.
func (v Value) IsString() bool {
	return v.kind == KindString
}

// Number returns the numeric payload. It is 0 for strings.
func (v Value) Number() Number {
	return v.num
}

// Str returns the string payload. It is "" for numbers.
func (v Value) Str() string {
	return v.str
}

// String formats v the way Yolol prints it: numbers without trailing
// zeros, strings verbatim.
func (v Value) String() string {
	return Match(v, Number.String, func(s string) string { return s })
}

// Equal reports whether a and b hold the same variant and payload.
// A Number never equals a String.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	if a.kind == KindNumber {
		return a.num == b.num
	}
	return a.str == b.str
}

// Match calls exactly one handler depending on the variant of v.
func Match[R any](v Value, number func(Number) R, str func(string) R) R {
	switch v.kind {
	case KindNumber:
		return number(v.num)
	case KindString:
		return str(v.str)
	}
	panic("value: invalid kind " + v.kind.String())
}

// ChangeSetKey is a bit set identifying external slots for change detection.
// A stepper watching key k returns once a write changes any slot whose key
// overlaps k.
type ChangeSetKey uint64

// Overlaps reports whether k and other share a bit.
func (k ChangeSetKey) Overlaps(other ChangeSetKey) bool {
	return k&other != 0
}
