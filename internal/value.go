package internal

import (
	"fmt"
	"math/big"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Object is implemented by Go values that know their own class.
type Object interface {
	Class() *Class
}

// Char is a character value, the runtime representation of Character.
type Char rune

func (c Char) String() string {
	return string(c)
}

// GString is an interpolated string. Its text is its Strings interleaved with
// the string forms of its Values, so len(Strings) is normally len(Values)+1.
type GString struct {
	Strings []string
	Values  []interface{}
}

// NewGString creates an interpolated string from alternating literal parts and
// values, starting and ending with a literal part.
func NewGString(parts ...interface{}) *GString {
	g := &GString{}
	for i, p := range parts {
		if i%2 == 0 {
			s, _ := p.(string)
			g.Strings = append(g.Strings, s)
		} else {
			g.Values = append(g.Values, p)
		}
	}
	return g
}

// Class returns GStringClass.
func (g *GString) Class() *Class {
	return GStringClass
}

func (g *GString) String() string {
	var b strings.Builder
	for i, s := range g.Strings {
		b.WriteString(s)
		if i < len(g.Values) {
			fmt.Fprint(&b, g.Values[i])
		}
	}
	return b.String()
}

// Array is an array value with a declared element class.
type Array struct {
	Elem   *Class
	Values []interface{}
}

// NewArray creates an array of the given element class.
func NewArray(elem *Class, values ...interface{}) *Array {
	if values == nil {
		values = []interface{}{}
	}
	return &Array{Elem: elem, Values: values}
}

// Class returns the array class of the array's element class.
func (a *Array) Class() *Class {
	return ArrayOf(a.Elem)
}

func (a *Array) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range a.Values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(Render(v, 0))
	}
	b.WriteByte(']')
	return b.String()
}

// Spread marks an argument whose elements are passed as separate arguments.
type Spread struct {
	Values []interface{}
}

// SpreadOf creates a spread marker over a list, an array, or a single value.
func SpreadOf(v interface{}) Spread {
	switch v := v.(type) {
	case []interface{}:
		return Spread{Values: v}
	case *Array:
		return Spread{Values: v.Values}
	case Spread:
		return v
	}
	return Spread{Values: []interface{}{v}}
}

// Flatten expands spread markers in args in place of themselves. Spreads
// contained in a spread are kept as values, not expanded again.
func Flatten(args []interface{}) []interface{} {
	n := -1
	for i, a := range args {
		if _, ok := a.(Spread); ok {
			n = i
			break
		}
	}
	if n < 0 {
		return args
	}
	r := make([]interface{}, n, len(args)+4)
	copy(r, args[:n])
	for _, a := range args[n:] {
		if s, ok := a.(Spread); ok {
			r = append(r, s.Values...)
			continue
		}
		r = append(r, a)
	}
	return r
}

// Instance is a generic object of a runtime-defined class.
type Instance struct {
	// Mutex is a lock which must be held when accessing Fields.
	sync.Mutex
	// Fields holds the instance's property values.
	Fields map[string]interface{}

	class *Class
}

// NewInstance creates an instance of c with no fields set.
func NewInstance(c *Class) *Instance {
	return &Instance{Fields: make(map[string]interface{}), class: c}
}

// Class returns the instance's class.
func (o *Instance) Class() *Class {
	return o.class
}

// Field returns the value of a field and whether it is set.
func (o *Instance) Field(name string) (interface{}, bool) {
	o.Lock()
	v, ok := o.Fields[name]
	o.Unlock()
	return v, ok
}

// SetField sets the value of a field.
func (o *Instance) SetField(name string, v interface{}) {
	o.Lock()
	o.Fields[name] = v
	o.Unlock()
}

func (o *Instance) String() string {
	return fmt.Sprintf("%s@%p", o.class.Name, o)
}

// ClassOf returns the class of a runtime value, or nil for null. Host Go
// types that are neither builtin nor Objects have class Object; use
// Runtime.ClassOf to respect bindings.
func ClassOf(v interface{}) *Class {
	switch v := v.(type) {
	case nil:
		return nil
	case Object:
		return v.Class()
	case bool:
		return BooleanClass
	case int8:
		return ByteClass
	case int16:
		return ShortClass
	case Char:
		return CharacterClass
	case int32, int:
		return IntegerClass
	case int64:
		return LongClass
	case *big.Int:
		return BigIntegerClass
	case float32:
		return FloatClass
	case float64:
		return DoubleClass
	case decimal.Decimal:
		return BigDecimalClass
	case string:
		return StringClass
	case map[string]interface{}:
		return LinkedHashMapClass
	case []interface{}:
		return ArrayListClass
	case *Class:
		return ClassClass
	}
	return ObjectClass
}

// Text returns the string form of a value, as toString would. The text of null
// is "null".
func Text(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}

// Render returns a short rendering of a value for diagnostics. Renderings
// longer than limit are cut to limit-2 characters followed by "..". Strings
// are quoted. A limit of zero or less means no limit.
func Render(v interface{}, limit int) string {
	var s string
	switch v := v.(type) {
	case nil:
		return "null"
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	if limit > 2 && utf8.RuneCountInString(s) > limit {
		s = string([]rune(s)[:limit-2]) + ".."
	}
	switch v.(type) {
	case string, *GString:
		s = "'" + s + "'"
	}
	return s
}
