package internal_test

import (
	"errors"
	"math"
	"math/big"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/zephyrtronium/dyncall"
)

// TestCoerce tests conversions that succeed.
func TestCoerce(t *testing.T) {
	cases := map[string]struct {
		v    interface{}
		to   *dyncall.Class
		want interface{}
	}{
		"identity":      {int32(4), dyncall.IntegerClass, int32(4)},
		"unbox":         {int32(4), dyncall.IntPrim, int32(4)},
		"widen-long":    {int32(4), dyncall.LongPrim, int64(4)},
		"narrow-int":    {int64(5), dyncall.IntPrim, int32(5)},
		"narrow-byte":   {int32(-128), dyncall.BytePrim, int8(-128)},
		"short":         {int8(3), dyncall.ShortClass, int16(3)},
		"double":        {int32(3), dyncall.DoublePrim, float64(3)},
		"float":         {float64(0.5), dyncall.FloatPrim, float32(0.5)},
		"float-inf":     {1e300, dyncall.FloatPrim, float32(math.Inf(1))},
		"float-neg-inf": {-1e300, dyncall.FloatClass, float32(math.Inf(-1))},
		"whole-double":  {float64(7), dyncall.IntPrim, int32(7)},
		"whole-decimal": {decimal.NewFromInt(2), dyncall.IntPrim, int32(2)},
		"char":          {"a", dyncall.CharPrim, dyncall.Char('a')},
		"gstring":       {dyncall.NewGString("a", int32(1), "b"), dyncall.StringClass, "a1b"},
		"object":        {"s", dyncall.ObjectClass, "s"},
		"null-ref":      {nil, dyncall.StringClass, nil},
		"interface":     {"s", dyncall.CharSequenceClass, "s"},
		"boolean":       {true, dyncall.BoolPrim, true},
		"bigint":        {int64(9), dyncall.BigIntegerClass, big.NewInt(9)},
		"wrap":          {"x", dyncall.ArrayOf(dyncall.StringClass), dyncall.NewArray(dyncall.StringClass, "x")},
		"list-array": {
			[]interface{}{int32(1), int32(2)},
			dyncall.ArrayOf(dyncall.LongPrim),
			dyncall.NewArray(dyncall.LongPrim, int64(1), int64(2)),
		},
		"array-array": {
			dyncall.NewArray(dyncall.IntegerClass, int32(1)),
			dyncall.ArrayOf(dyncall.DoubleClass),
			dyncall.NewArray(dyncall.DoubleClass, float64(1)),
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			v, err := dyncall.Coerce(c.v, c.to)
			if err != nil {
				t.Fatalf("Coerce(%#v, %v) failed: %v", c.v, c.to, err)
			}
			if !reflect.DeepEqual(v, c.want) {
				t.Errorf("Coerce(%#v, %v): want %#v, have %#v", c.v, c.to, c.want, v)
			}
		})
	}
}

func TestCoerceDecimal(t *testing.T) {
	cases := map[string]struct {
		v    interface{}
		want decimal.Decimal
	}{
		"int":    {int32(3), decimal.NewFromInt(3)},
		"long":   {int64(-3), decimal.NewFromInt(-3)},
		"double": {2.5, decimal.RequireFromString("2.5")},
		"bigint": {big.NewInt(1000), decimal.NewFromInt(1000)},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			v, err := dyncall.Coerce(c.v, dyncall.BigDecimalClass)
			if err != nil {
				t.Fatal(err)
			}
			d, ok := v.(decimal.Decimal)
			if !ok {
				t.Fatalf("result is %T, not decimal.Decimal", v)
			}
			if !d.Equal(c.want) {
				t.Errorf("want %v, have %v", c.want, d)
			}
		})
	}
}

// TestCoerceFails tests that conversions without a legal path fail with a
// TypeCoercionError.
func TestCoerceFails(t *testing.T) {
	huge := new(big.Int).Exp(big.NewInt(10), big.NewInt(400), nil)
	cases := map[string]struct {
		v  interface{}
		to *dyncall.Class
	}{
		"null-primitive":  {nil, dyncall.IntPrim},
		"fraction":        {decimal.RequireFromString("2.5"), dyncall.IntPrim},
		"fraction-double": {2.5, dyncall.LongPrim},
		"overflow":        {int64(1) << 40, dyncall.IntPrim},
		"byte-overflow":   {int32(200), dyncall.BytePrim},
		"infinite":        {huge, dyncall.DoublePrim},
		"inf-decimal":     {decimal.New(1, 400), dyncall.DoubleClass},
		"float-decimal":   {decimal.New(1, 300), dyncall.FloatPrim},
		"float-bigint":    {new(big.Int).Exp(big.NewInt(10), big.NewInt(300), nil), dyncall.FloatClass},
		"inf-double":      {1.0 / zero(), dyncall.BigDecimalClass},
		"string-int":      {"1", dyncall.IntPrim},
		"long-string":     {"ab", dyncall.CharPrim},
		"bool-int":        {true, dyncall.IntPrim},
		"bad-element":     {[]interface{}{"x"}, dyncall.ArrayOf(dyncall.IntPrim)},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			v, err := dyncall.Coerce(c.v, c.to)
			var te *dyncall.TypeCoercionError
			if !errors.As(err, &te) {
				t.Fatalf("Coerce(%#v, %v): expected TypeCoercionError, got %#v, %v", c.v, c.to, v, err)
			}
			if te.To != c.to {
				t.Errorf("error names class %v, not %v", te.To, c.to)
			}
		})
	}
}

func zero() float64 {
	return 0
}

// TestCoerceRoundTrip tests that values survive coercion to a wider class and
// back.
func TestCoerceRoundTrip(t *testing.T) {
	values := []int32{0, 1, -1, 127, -128, 1 << 20, -(1 << 31), 1<<31 - 1}
	for _, v := range values {
		w, err := dyncall.Coerce(v, dyncall.LongClass)
		if err != nil {
			t.Errorf("%d to Long: %v", v, err)
			continue
		}
		d, err := dyncall.Coerce(w, dyncall.BigDecimalClass)
		if err != nil {
			t.Errorf("%d to BigDecimal: %v", v, err)
			continue
		}
		r, err := dyncall.Coerce(d, dyncall.IntPrim)
		if err != nil {
			t.Errorf("%d back to int: %v", v, err)
			continue
		}
		if r != v {
			t.Errorf("%d came back as %#v", v, r)
		}
	}
}
