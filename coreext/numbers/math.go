package numbers

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// kind is the representation a binary operation computes in. Wider kinds
// have larger values.
type kind int

const (
	intKind kind = iota
	longKind
	bigKind
	decimalKind
	floatKind
)

// kindOf returns the representation for an operation on a and b.
func kindOf(a, b interface{}) kind {
	ka, kb := kindOne(a), kindOne(b)
	if ka > kb {
		return ka
	}
	return kb
}

func kindOne(v interface{}) kind {
	switch v.(type) {
	case int64:
		return longKind
	case *big.Int:
		return bigKind
	case decimal.Decimal:
		return decimalKind
	case float32, float64:
		return floatKind
	}
	return intKind
}

func toInt64(v interface{}) int64 {
	switch x := v.(type) {
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int:
		return int64(x)
	case int64:
		return x
	}
	return 0
}

func toBig(v interface{}) *big.Int {
	if x, ok := v.(*big.Int); ok {
		return x
	}
	return big.NewInt(toInt64(v))
}

func toDecimal(v interface{}) decimal.Decimal {
	switch x := v.(type) {
	case decimal.Decimal:
		return x
	case *big.Int:
		return decimal.NewFromBigInt(x, 0)
	case float32:
		return decimal.NewFromFloat32(x)
	case float64:
		return decimal.NewFromFloat(x)
	}
	return decimal.New(toInt64(v), 0)
}

func toFloat(v interface{}) float64 {
	switch x := v.(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	case decimal.Decimal:
		f, _ := x.Float64()
		return f
	case *big.Int:
		f, _ := new(big.Float).SetInt(x).Float64()
		return f
	}
	return float64(toInt64(v))
}

func sign(v interface{}) int {
	switch x := v.(type) {
	case *big.Int:
		return x.Sign()
	case decimal.Decimal:
		return x.Sign()
	case float32, float64:
		f := toFloat(x)
		switch {
		case f < 0:
			return -1
		case f > 0:
			return 1
		}
		return 0
	}
	switch n := toInt64(v); {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
