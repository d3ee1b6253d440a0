package internal

import (
	"math"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
)

// Coerce converts v to a value that can be bound to a parameter of class to.
// A nil to or Object accepts any value unchanged. Coerce returns a
// *TypeCoercionError when no legal conversion exists.
//
// Numeric conversion preserves exactness: converting to an integral class
// fails unless the value is an integer within range, and converting an
// arbitrary-precision value to a floating class fails if the result is
// infinite.
func Coerce(v interface{}, to *Class) (interface{}, error) {
	if to == nil || to == ObjectClass {
		return v, nil
	}
	if v == nil {
		if to.IsPrimitive() {
			return nil, &TypeCoercionError{Value: nil, To: to, Reason: "null cannot be bound to a primitive"}
		}
		return nil, nil
	}
	from := ClassOf(v)
	if !to.IsPrimitive() && from.IsKindOf(to) {
		return v, nil
	}
	if to.num != NotNumeric {
		if from == Box(to) {
			return v, nil
		}
		if to.num.Numeric() && from.num.Numeric() {
			return convertNumber(v, to)
		}
		if to.num == CharNum {
			if s, ok := textOf(v); ok && len([]rune(s)) == 1 {
				return Char([]rune(s)[0]), nil
			}
		}
		return nil, &TypeCoercionError{Value: v, To: to}
	}
	if to == StringClass {
		if g, ok := v.(*GString); ok {
			return g.String(), nil
		}
	}
	if to.IsArray() {
		switch a := v.(type) {
		case *Array:
			return coerceElems(v, a.Values, to)
		case []interface{}:
			return coerceElems(v, a, to)
		}
		e, err := Coerce(v, to.elem)
		if err != nil {
			return nil, err
		}
		return NewArray(to.elem, e), nil
	}
	if to.IsPrimitive() {
		return nil, &TypeCoercionError{Value: v, To: to}
	}
	return v, nil
}

// coerceElems rebuilds an array of to's element class from values.
func coerceElems(v interface{}, values []interface{}, to *Class) (interface{}, error) {
	r := make([]interface{}, len(values))
	for i, x := range values {
		e, err := Coerce(x, to.elem)
		if err != nil {
			return nil, &TypeCoercionError{Value: v, To: to, Reason: "element " + strconv.Itoa(i) + ": " + err.Error()}
		}
		r[i] = e
	}
	return NewArray(to.elem, r...), nil
}

func textOf(v interface{}) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case *GString:
		return v.String(), true
	}
	return "", false
}

// convertNumber converts a numeric value to the representation of the numeric
// class to.
func convertNumber(v interface{}, to *Class) (interface{}, error) {
	switch to.num {
	case ByteNum:
		i, err := toInt64(v, to, math.MinInt8, math.MaxInt8)
		return int8(i), err
	case ShortNum:
		i, err := toInt64(v, to, math.MinInt16, math.MaxInt16)
		return int16(i), err
	case IntNum:
		i, err := toInt64(v, to, math.MinInt32, math.MaxInt32)
		return int32(i), err
	case LongNum:
		return toInt64(v, to, math.MinInt64, math.MaxInt64)
	case BigIntNum:
		b, ok := integral(v)
		if !ok {
			return nil, &TypeCoercionError{Value: v, To: to, Reason: "not an integer"}
		}
		return b, nil
	case FloatNum:
		f, err := toFloat(v, to)
		if err != nil {
			return nil, err
		}
		r := float32(f)
		if math.IsInf(float64(r), 0) && !math.IsInf(f, 0) {
			// Floating-point sources narrow to infinity.
			switch v.(type) {
			case decimal.Decimal, *big.Int:
				return nil, &TypeCoercionError{Value: v, To: to, Reason: "out of range"}
			}
		}
		return r, nil
	case DoubleNum:
		return toFloat(v, to)
	case DecimalNum:
		switch x := v.(type) {
		case decimal.Decimal:
			return x, nil
		case *big.Int:
			return decimal.NewFromBigInt(x, 0), nil
		case float32, float64:
			f := floatOf(x)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, &TypeCoercionError{Value: v, To: to, Reason: "not a finite number"}
			}
			return decimal.NewFromFloat(f), nil
		}
		i, _ := int64Of(v)
		return decimal.NewFromInt(i), nil
	}
	return nil, &TypeCoercionError{Value: v, To: to}
}

// int64Of returns the value of a fixed-size integer.
func int64Of(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int:
		return int64(x), true
	case int64:
		return x, true
	}
	return 0, false
}

func floatOf(v interface{}) float64 {
	switch x := v.(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	}
	return math.NaN()
}

// integral returns the exact integer value of a numeric value, or false if it
// has a fractional part or is not finite.
func integral(v interface{}) (*big.Int, bool) {
	if i, ok := int64Of(v); ok {
		return big.NewInt(i), true
	}
	switch x := v.(type) {
	case *big.Int:
		return x, true
	case float32, float64:
		f := floatOf(x)
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return nil, false
		}
		b, _ := big.NewFloat(f).Int(nil)
		return b, true
	case decimal.Decimal:
		if !x.Equal(x.Truncate(0)) {
			return nil, false
		}
		return x.BigInt(), true
	}
	return nil, false
}

func toInt64(v interface{}, to *Class, lo, hi int64) (int64, error) {
	if i, ok := int64Of(v); ok {
		if i < lo || i > hi {
			return 0, &TypeCoercionError{Value: v, To: to, Reason: "out of range"}
		}
		return i, nil
	}
	b, ok := integral(v)
	if !ok {
		return 0, &TypeCoercionError{Value: v, To: to, Reason: "not an integer"}
	}
	if !b.IsInt64() || b.Int64() < lo || b.Int64() > hi {
		return 0, &TypeCoercionError{Value: v, To: to, Reason: "out of range"}
	}
	return b.Int64(), nil
}

func toFloat(v interface{}, to *Class) (float64, error) {
	var f float64
	switch x := v.(type) {
	case float32, float64:
		return floatOf(x), nil
	case *big.Int:
		f, _ = new(big.Float).SetInt(x).Float64()
	case decimal.Decimal:
		f, _ = x.Float64()
	default:
		i, _ := int64Of(v)
		return float64(i), nil
	}
	if math.IsInf(f, 0) {
		return 0, &TypeCoercionError{Value: v, To: to, Reason: "out of range"}
	}
	return f, nil
}
