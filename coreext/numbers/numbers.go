// Package numbers declares arithmetic methods on Number.
//
// Binary operations promote both operands to a common representation: double
// if either is Float or Double, otherwise BigDecimal if either is BigDecimal,
// otherwise BigInteger, Long, or Integer, the widest of the two. Integer and
// Long arithmetic wraps on overflow. Division of non-floating values produces
// a BigDecimal; intdiv divides integrally.
package numbers

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/zephyrtronium/dyncall"
	"github.com/zephyrtronium/dyncall/internal"
)

func init() {
	internal.Register(initNumbers)
}

func initNumbers(rt *dyncall.Runtime) {
	num := dyncall.NumberClass
	rt.Declare(
		binary("plus", plus),
		binary("minus", minus),
		binary("multiply", multiply),
		binary("div", div),
		binary("intdiv", intdiv),
		dyncall.NewMethod(num, "compareTo", compareTo, num).Returning(dyncall.IntPrim),
		dyncall.NewMethod(num, "abs", abs).Returning(num),
		dyncall.NewMethod(num, "negative", negative).Returning(num),
		dyncall.Func(num, "plus", concat),
	)
}

// Failures of arithmetic methods.
var (
	ErrDivideByZero = errors.New("division by zero")
	ErrNullOperand  = errors.New("null operand")
)

// binary creates a Number method taking a Number.
func binary(name string, op func(a, b interface{}) (interface{}, error)) *dyncall.Method {
	fn := func(th *dyncall.Thread, self interface{}, args []interface{}) (interface{}, error) {
		if args[0] == nil {
			return nil, ErrNullOperand
		}
		return op(self, args[0])
	}
	return dyncall.NewMethod(dyncall.NumberClass, name, fn, dyncall.NumberClass).Returning(dyncall.NumberClass)
}

// concat is a Number method.
//
// plus with a String argument returns the receiver's text followed by the
// argument.
func concat(self interface{}, s string) string {
	return dyncall.Text(self) + s
}

func plus(a, b interface{}) (interface{}, error) {
	switch kindOf(a, b) {
	case intKind:
		return int32(toInt64(a)) + int32(toInt64(b)), nil
	case longKind:
		return toInt64(a) + toInt64(b), nil
	case bigKind:
		return new(big.Int).Add(toBig(a), toBig(b)), nil
	case decimalKind:
		return toDecimal(a).Add(toDecimal(b)), nil
	}
	return toFloat(a) + toFloat(b), nil
}

func minus(a, b interface{}) (interface{}, error) {
	switch kindOf(a, b) {
	case intKind:
		return int32(toInt64(a)) - int32(toInt64(b)), nil
	case longKind:
		return toInt64(a) - toInt64(b), nil
	case bigKind:
		return new(big.Int).Sub(toBig(a), toBig(b)), nil
	case decimalKind:
		return toDecimal(a).Sub(toDecimal(b)), nil
	}
	return toFloat(a) - toFloat(b), nil
}

func multiply(a, b interface{}) (interface{}, error) {
	switch kindOf(a, b) {
	case intKind:
		return int32(toInt64(a)) * int32(toInt64(b)), nil
	case longKind:
		return toInt64(a) * toInt64(b), nil
	case bigKind:
		return new(big.Int).Mul(toBig(a), toBig(b)), nil
	case decimalKind:
		return toDecimal(a).Mul(toDecimal(b)), nil
	}
	return toFloat(a) * toFloat(b), nil
}

func div(a, b interface{}) (interface{}, error) {
	if kindOf(a, b) == floatKind {
		return toFloat(a) / toFloat(b), nil
	}
	d := toDecimal(b)
	if d.IsZero() {
		return nil, ErrDivideByZero
	}
	return toDecimal(a).Div(d), nil
}

func intdiv(a, b interface{}) (interface{}, error) {
	k := kindOf(a, b)
	switch k {
	case intKind, longKind:
		y := toInt64(b)
		if y == 0 {
			return nil, ErrDivideByZero
		}
		q := toInt64(a) / y
		if k == intKind {
			return int32(q), nil
		}
		return q, nil
	case bigKind:
		y := toBig(b)
		if y.Sign() == 0 {
			return nil, ErrDivideByZero
		}
		return new(big.Int).Quo(toBig(a), y), nil
	}
	y := toDecimal(b)
	if y.IsZero() {
		return nil, ErrDivideByZero
	}
	return toDecimal(a).Div(y).Truncate(0).BigInt(), nil
}

// compareTo is a Number method.
//
// compareTo returns -1, 0, or 1 as the receiver is less than, equal to, or
// greater than the argument.
func compareTo(th *dyncall.Thread, self interface{}, args []interface{}) (interface{}, error) {
	if args[0] == nil {
		return nil, ErrNullOperand
	}
	b := args[0]
	if kindOf(self, b) == floatKind {
		x, y := toFloat(self), toFloat(b)
		switch {
		case x < y:
			return int32(-1), nil
		case x > y:
			return int32(1), nil
		}
		return int32(0), nil
	}
	return int32(toDecimal(self).Cmp(toDecimal(b))), nil
}

// abs is a Number method.
func abs(th *dyncall.Thread, self interface{}, args []interface{}) (interface{}, error) {
	if sign(self) < 0 {
		return negative(th, self, args)
	}
	return self, nil
}

// negative is a Number method.
//
// negative returns the receiver with its sign flipped, in the receiver's own
// representation.
func negative(th *dyncall.Thread, self interface{}, args []interface{}) (interface{}, error) {
	switch x := self.(type) {
	case int8:
		return -x, nil
	case int16:
		return -x, nil
	case int32:
		return -x, nil
	case int:
		return -x, nil
	case int64:
		return -x, nil
	case *big.Int:
		return new(big.Int).Neg(x), nil
	case float32:
		return -x, nil
	case float64:
		return -x, nil
	case decimal.Decimal:
		return x.Neg(), nil
	}
	return nil, &dyncall.TypeCoercionError{Value: self, To: dyncall.NumberClass}
}
