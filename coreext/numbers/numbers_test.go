package numbers_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/zephyrtronium/dyncall"
	"github.com/zephyrtronium/dyncall/coreext/numbers"
	"github.com/zephyrtronium/dyncall/testutils"
)

func TestRegister(t *testing.T) {
	rt := testutils.Runtime()
	names := []string{"abs", "compareTo", "div", "intdiv", "minus", "multiply", "negative", "plus"}
	testutils.CheckMethods(t, rt, dyncall.NumberClass, names)
	testutils.CheckMethods(t, rt, dyncall.IntegerClass, names)
	testutils.CheckMethods(t, rt, dyncall.BigDecimalClass, names)
}

func TestArithmetic(t *testing.T) {
	th := testutils.Thread()
	dec := decimal.RequireFromString
	cases := map[string]struct {
		recv interface{}
		name string
		arg  interface{}
		want interface{}
	}{
		"int+int":        {int32(1), "plus", int32(2), int32(3)},
		"byte+short":     {int8(1), "plus", int16(2), int32(3)},
		"int+long":       {int32(1), "plus", int64(2), int64(3)},
		"int-overflow":   {int32(2147483647), "plus", int32(1), int32(-2147483648)},
		"long-int":       {int64(5), "minus", int32(7), int64(-2)},
		"int*double":     {int32(2), "multiply", 1.25, 2.5},
		"float*int":      {float32(0.5), "multiply", int32(3), 1.5},
		"int+string":     {int32(1), "plus", "a", "1a"},
		"int+null":       {int32(1), "plus", nil, "1null"},
		"int/int":        {int32(1), "div", int32(4), dec("0.25")},
		"double/int":     {1.0, "div", int32(4), 0.25},
		"intdiv":         {int32(7), "intdiv", int32(2), int32(3)},
		"intdiv-long":    {int64(-7), "intdiv", int32(2), int64(-3)},
		"compare-lt":     {int32(1), "compareTo", 1.5, int32(-1)},
		"compare-eq":     {int64(2), "compareTo", dec("2.0"), int32(0)},
		"compare-gt":     {dec("2.01"), "compareTo", int32(2), int32(1)},
		"negative-short": {int16(3), "negative", nil, int16(-3)},
		"abs-double":     {-2.5, "abs", nil, 2.5},
		"abs-int":        {int32(4), "abs", nil, int32(4)},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			var args []interface{}
			if c.name != "negative" && c.name != "abs" {
				args = []interface{}{c.arg}
			}
			r, err := th.Invoke(c.recv, c.name, args...)
			if err != nil {
				t.Fatal(err)
			}
			if d, ok := c.want.(decimal.Decimal); ok {
				if rd, ok := r.(decimal.Decimal); !ok || !rd.Equal(d) {
					t.Errorf("want %v, have %#v", d, r)
				}
				return
			}
			if r != c.want {
				t.Errorf("want %#v, have %#v", c.want, r)
			}
		})
	}
}

func TestBigArithmetic(t *testing.T) {
	th := testutils.Thread()
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	r, err := th.Invoke(huge, "plus", int32(10))
	if err != nil {
		t.Fatal(err)
	}
	want, _ := new(big.Int).SetString("123456789012345678901234567900", 10)
	if b, ok := r.(*big.Int); !ok || b.Cmp(want) != 0 {
		t.Errorf("big plus: %v", r)
	}
	r, err = th.Invoke(huge, "plus", decimal.RequireFromString("0.5"))
	if err != nil {
		t.Fatal(err)
	}
	if d, ok := r.(decimal.Decimal); !ok || d.String() != "123456789012345678901234567890.5" {
		t.Errorf("big plus decimal: %v", r)
	}
	r, err = th.Invoke(decimal.RequireFromString("7.9"), "intdiv", int32(2))
	if b, ok := r.(*big.Int); err != nil || !ok || b.Int64() != 3 {
		t.Errorf("decimal intdiv: %v, %v", r, err)
	}
}

func TestArithmeticFailures(t *testing.T) {
	th := testutils.Thread()
	cases := map[string]struct {
		recv interface{}
		name string
		arg  interface{}
		err  error
	}{
		"div-zero":     {int32(1), "div", int32(0), numbers.ErrDivideByZero},
		"intdiv-zero":  {int64(1), "intdiv", int8(0), numbers.ErrDivideByZero},
		"big-zero":     {big.NewInt(1), "intdiv", big.NewInt(0), numbers.ErrDivideByZero},
		"compare-null": {int32(1), "compareTo", nil, numbers.ErrNullOperand},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := th.Invoke(c.recv, c.name, c.arg)
			if !errors.Is(err, c.err) {
				t.Errorf("want %v, have %v", c.err, err)
			}
			var ie *dyncall.InvocationError
			if !errors.As(err, &ie) || ie.Method.Name != c.name {
				t.Errorf("failure not wrapped in InvocationError: %v", err)
			}
		})
	}
}
