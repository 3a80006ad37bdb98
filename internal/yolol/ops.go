package yolol

import (
	"math"
	"strings"

	"github.com/roach88/yololtest/internal/value"
)

func applyBinary(op string, a, b value.Value) (value.Value, error) {
	switch op {
	case "+":
		if a.IsNumber() && b.IsNumber() {
			return value.NewNumber(a.Number().Add(b.Number())), nil
		}
		return value.NewString(a.String() + b.String()), nil

	case "-":
		if a.IsNumber() && b.IsNumber() {
			return value.NewNumber(a.Number().Sub(b.Number())), nil
		}
		return value.NewString(removeLast(a.String(), b.String())), nil

	case "*", "/", "%", "^":
		if !a.IsNumber() || !b.IsNumber() {
			return value.Value{}, runtimeErrorf("cannot apply '%s' to a string", op)
		}
		x, y := a.Number(), b.Number()
		switch op {
		case "*":
			return value.NewNumber(x.Mul(y)), nil
		case "/":
			n, err := x.Div(y)
			if err != nil {
				return value.Value{}, runtimeErrorf("%v", err)
			}
			return value.NewNumber(n), nil
		case "%":
			n, err := x.Mod(y)
			if err != nil {
				return value.Value{}, runtimeErrorf("%v", err)
			}
			return value.NewNumber(n), nil
		default:
			return value.NewNumber(x.Pow(y)), nil
		}

	case "==":
		return value.Bool(value.Equal(a, b)), nil
	case "!=":
		return value.Bool(!value.Equal(a, b)), nil

	case "<", ">", "<=", ">=":
		var cmp int
		switch {
		case a.IsNumber() && b.IsNumber():
			cmp = a.Number().Compare(b.Number())
		case a.IsString() && b.IsString():
			cmp = strings.Compare(a.Str(), b.Str())
		default:
			return value.Value{}, runtimeErrorf("cannot compare a number with a string")
		}
		return value.Bool(compareHolds(op, cmp)), nil

	case "and", "or":
		if !a.IsNumber() || !b.IsNumber() {
			return value.Value{}, runtimeErrorf("cannot apply '%s' to a string", op)
		}
		if op == "and" {
			return value.Bool(a.Number().Truthy() && b.Number().Truthy()), nil
		}
		return value.Bool(a.Number().Truthy() || b.Number().Truthy()), nil
	}
	return value.Value{}, runtimeErrorf("unknown operator '%s'", op)
}

func compareHolds(op string, cmp int) bool {
	switch op {
	case "<":
		return cmp < 0
	case ">":
		return cmp > 0
	case "<=":
		return cmp <= 0
	default:
		return cmp >= 0
	}
}

// maxFactorial is the largest n whose factorial fits in a Number.
const maxFactorial = 18

func applyUnary(op string, a value.Value) (value.Value, error) {
	if !a.IsNumber() {
		return value.Value{}, runtimeErrorf("cannot apply '%s' to a string", op)
	}
	n := a.Number()
	switch op {
	case "-":
		return value.NewNumber(n.Neg()), nil
	case "not":
		return value.Bool(!n.Truthy()), nil
	case "abs":
		return value.NewNumber(n.Abs()), nil
	case "sqrt":
		if n < 0 {
			return value.Value{}, runtimeErrorf("square root of a negative number")
		}
		return value.NewNumber(value.FromFloat(math.Sqrt(n.Float()))), nil
	case "sin", "cos", "tan":
		rad := n.Float() * math.Pi / 180
		var f float64
		switch op {
		case "sin":
			f = math.Sin(rad)
		case "cos":
			f = math.Cos(rad)
		default:
			f = math.Tan(rad)
		}
		return value.NewNumber(value.FromFloat(f)), nil
	case "asin", "acos", "atan":
		var f float64
		switch op {
		case "asin":
			f = math.Asin(n.Float())
		case "acos":
			f = math.Acos(n.Float())
		default:
			f = math.Atan(n.Float())
		}
		if math.IsNaN(f) {
			return value.Value{}, runtimeErrorf("%s argument out of range", op)
		}
		return value.NewNumber(value.FromFloat(f * 180 / math.Pi)), nil
	case "!":
		if n < 0 || n%value.One != 0 {
			return value.Value{}, runtimeErrorf("factorial of a non-natural number")
		}
		if n > value.FromInt(maxFactorial) {
			return value.NewNumber(value.MaxNumber), nil
		}
		result := value.One
		for i := value.FromInt(2); i <= n; i += value.One {
			result = result.Mul(i)
		}
		return value.NewNumber(result), nil
	}
	return value.Value{}, runtimeErrorf("unknown operator '%s'", op)
}

// removeLast removes the last occurrence of sub from s.
func removeLast(s, sub string) string {
	i := strings.LastIndex(s, sub)
	if i < 0 || sub == "" {
		return s
	}
	return s[:i] + s[i+len(sub):]
}
