// Package text declares the default methods of CharSequence and String.
package text

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/zephyrtronium/dyncall"
	"github.com/zephyrtronium/dyncall/internal"
)

func init() {
	internal.Register(initText)
}

func initText(rt *dyncall.Runtime) {
	cs, str := dyncall.CharSequenceClass, dyncall.StringClass
	rt.Declare(
		dyncall.Func(cs, "size", length),
		dyncall.Func(cs, "length", length),
		dyncall.Func(cs, "isEmpty", isEmpty),
		dyncall.Func(cs, "contains", contains),
		dyncall.Func(cs, "plus", plus),
		dyncall.Func(cs, "multiply", multiply),
		dyncall.Func(cs, "getAt", getAt),
		dyncall.Func(str, "toUpperCase", strings.ToUpper),
		dyncall.Func(str, "toLowerCase", strings.ToLower),
		dyncall.Func(str, "capitalize", capitalize),
		dyncall.Func(str, "reverse", reverse),
		dyncall.Func(str, "split", split),
		dyncall.Func(str, "toInteger", toInteger),
		dyncall.Func(str, "toBigDecimal", toBigDecimal),
	)
}

// ErrNegativeCount is the failure of multiplying a string by a negative
// count.
var ErrNegativeCount = errors.New("negative repeat count")

// length is a CharSequence method.
//
// length returns the number of characters in the receiver. size is a synonym.
func length(self string) int32 {
	return int32(utf8.RuneCountInString(self))
}

// isEmpty is a CharSequence method.
func isEmpty(self string) bool {
	return self == ""
}

// contains is a CharSequence method.
//
// contains returns whether the argument occurs in the receiver.
func contains(self, s string) bool {
	return strings.Contains(self, s)
}

// plus is a CharSequence method.
//
// plus returns the receiver followed by the string form of the argument.
func plus(self string, v interface{}) string {
	return self + dyncall.Text(v)
}

// multiply is a CharSequence method.
//
// multiply returns the receiver repeated n times.
func multiply(self string, n int32) (string, error) {
	if n < 0 {
		return "", ErrNegativeCount
	}
	return strings.Repeat(self, int(n)), nil
}

// getAt is a CharSequence method.
//
// getAt returns the character at the given index. Negative indices count from
// the end.
func getAt(self string, i int32) (dyncall.Char, error) {
	r := []rune(self)
	k := int(i)
	if k < 0 {
		k += len(r)
	}
	if k < 0 || k >= len(r) {
		return 0, fmt.Errorf("index %d out of range for length %d", i, len(r))
	}
	return dyncall.Char(r[k]), nil
}

// capitalize is a String method.
//
// capitalize upper-cases the first character of the receiver.
func capitalize(self string) string {
	if self == "" {
		return self
	}
	_, n := utf8.DecodeRuneInString(self)
	return cases.Upper(language.Und).String(self[:n]) + self[n:]
}

// reverse is a String method.
func reverse(self string) string {
	r := []rune(self)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// split is a String method.
//
// split returns the whitespace-separated fields of the receiver, or the
// pieces between occurrences of the separator argument if there is one.
func split(self string, sep ...string) ([]interface{}, error) {
	var parts []string
	switch len(sep) {
	case 0:
		parts = strings.Fields(self)
	case 1:
		parts = strings.Split(self, sep[0])
	default:
		return nil, fmt.Errorf("split takes at most one separator, not %d", len(sep))
	}
	r := make([]interface{}, len(parts))
	for i, p := range parts {
		r[i] = p
	}
	return r, nil
}

// toInteger is a String method.
//
// toInteger parses the receiver as a decimal integer.
func toInteger(self string) (int32, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(self))
	if err != nil {
		return 0, err
	}
	v, err := dyncall.Coerce(d, dyncall.IntPrim)
	if err != nil {
		return 0, err
	}
	return v.(int32), nil
}

// toBigDecimal is a String method.
func toBigDecimal(self string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(self))
}
