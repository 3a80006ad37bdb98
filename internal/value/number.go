package value

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"
)

// Scale is the number of Number units per whole number.
const Scale = 1000

// Number is a fixed point decimal with three fractional digits.
type Number int64

// One is the number 1.
const One Number = Scale

// Arithmetic saturates at MaxNumber and MinNumber instead of wrapping.
const (
	MaxNumber Number = math.MaxInt64
	MinNumber Number = math.MinInt64
)

// ErrDivideByZero is returned by Div and Mod when the divisor is zero.
var ErrDivideByZero = errors.New("division by zero")

// FromInt converts a whole number.
func FromInt(i int64) Number {
	return Number(i * Scale)
}

// FromFloat converts f, truncating digits beyond the third decimal.
// NaN converts to zero and values out of range saturate.
func FromFloat(f float64) Number {
	scaled := math.Trunc(f * Scale)
	switch {
	case math.IsNaN(scaled):
		return 0
	case scaled >= math.MaxInt64:
		return MaxNumber
	case scaled <= math.MinInt64:
		return MinNumber
	}
	return Number(scaled)
}

// ParseNumber parses a decimal literal such as "12" or "-0.25".
// Digits beyond the third decimal are dropped. Literals larger than
// MaxNumber are rejected.
func ParseNumber(s string) (Number, error) {
	text := strings.TrimSpace(s)
	neg := strings.HasPrefix(text, "-")
	if neg {
		text = text[1:]
	}
	whole, frac, _ := strings.Cut(text, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	var n int64
	if whole != "" {
		w, err := strconv.ParseInt(whole, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q: %w", s, err)
		}
		if w > math.MaxInt64/Scale {
			return 0, fmt.Errorf("number %q is out of range", s)
		}
		n = w * Scale
	}
	if frac != "" {
		if len(frac) > 3 {
			frac = frac[:3]
		}
		frac += strings.Repeat("0", 3-len(frac))
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q: %w", s, err)
		}
		if n > math.MaxInt64-f {
			return 0, fmt.Errorf("number %q is out of range", s)
		}
		n += f
	}
	if neg {
		n = -n
	}
	return Number(n), nil
}

// Float converts n to a float64.
func (n Number) Float() float64 {
	return float64(n) / Scale
}

// String prints n with at most three decimals and no trailing zeros.
func (n Number) String() string {
	u := uint64(n)
	sign := ""
	if n < 0 {
		u = uint64(-n)
		sign = "-"
	}
	s := sign + strconv.FormatUint(u/Scale, 10)
	if frac := u % Scale; frac != 0 {
		s += "." + strings.TrimRight(fmt.Sprintf("%03d", frac), "0")
	}
	return s
}

// Truthy reports whether n is non-zero.
func (n Number) Truthy() bool {
	return n != 0
}

func (n Number) Add(m Number) Number {
	sum := n + m
	switch {
	case m > 0 && sum < n:
		return MaxNumber
	case m < 0 && sum > n:
		return MinNumber
	}
	return sum
}

func (n Number) Sub(m Number) Number {
	diff := n - m
	switch {
	case m < 0 && diff < n:
		return MaxNumber
	case m > 0 && diff > n:
		return MinNumber
	}
	return diff
}

func (n Number) Neg() Number {
	if n == MinNumber {
		return MaxNumber
	}
	return -n
}

func (n Number) Mul(m Number) Number {
	return mulDiv(int64(n), int64(m), Scale)
}

func (n Number) Div(m Number) (Number, error) {
	if m == 0 {
		return 0, ErrDivideByZero
	}
	return mulDiv(int64(n), Scale, int64(m)), nil
}

func (n Number) Mod(m Number) (Number, error) {
	if m == 0 {
		return 0, ErrDivideByZero
	}
	return n % m, nil
}

func (n Number) Pow(m Number) Number {
	return FromFloat(math.Pow(n.Float(), m.Float()))
}

func (n Number) Abs() Number {
	if n < 0 {
		return n.Neg()
	}
	return n
}

// Compare returns -1, 0 or 1.
func (n Number) Compare(m Number) int {
	switch {
	case n < m:
		return -1
	case n > m:
		return 1
	default:
		return 0
	}
}

// mulDiv computes a*b/c with a 128-bit intermediate, truncating toward
// zero and saturating when the quotient does not fit. c must not be zero.
func mulDiv(a, b, c int64) Number {
	neg := (a < 0) != (b < 0) != (c < 0)
	divisor := absUint(c)
	hi, lo := bits.Mul64(absUint(a), absUint(b))
	if hi >= divisor {
		return saturate(neg)
	}
	q, _ := bits.Div64(hi, lo, divisor)
	if neg {
		if q > 1<<63 {
			return MinNumber
		}
		return Number(-int64(q))
	}
	if q > math.MaxInt64 {
		return MaxNumber
	}
	return Number(q)
}

func absUint(i int64) uint64 {
	if i < 0 {
		return -uint64(i)
	}
	return uint64(i)
}

func saturate(neg bool) Number {
	if neg {
		return MinNumber
	}
	return MaxNumber
}
