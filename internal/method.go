package internal

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/shopspring/decimal"
)

// Origin records where a method came from.
type Origin uint8

const (
	// Native methods are declared on a class through a Registry.
	Native Origin = iota
	// CategoryMethod methods are static category methods attached to a class
	// for the extent of a Thread's overlay frame.
	CategoryMethod
	// Synthetic methods are accessors the runtime derives itself.
	Synthetic
)

func (o Origin) String() string {
	switch o {
	case Native:
		return "native"
	case CategoryMethod:
		return "category"
	case Synthetic:
		return "synthetic"
	}
	return fmt.Sprintf("Origin(%d)", o)
}

// Fn is the invocation handle of a method. self is the receiver, or nil for
// static methods and constructors. args have already been fitted and coerced
// to the method's parameter classes.
type Fn func(th *Thread, self interface{}, args []interface{}) (interface{}, error)

// ConstructorName is the method name under which constructors are declared.
const ConstructorName = "<init>"

// Method is a single invocable method or constructor. Methods must not be
// modified once they are declared.
type Method struct {
	// Name is the name the method is called by.
	Name string
	// Owner is the class that declares the method.
	Owner *Class
	// Params are the classes of the formal parameters. The method is varargs
	// if the last parameter is an array class.
	Params []*Class
	// Return is the class of the result, or nil if unknown.
	Return *Class
	// Static is true for static methods and constructors.
	Static bool
	// Origin records where the method came from.
	Origin Origin
	// Fn invokes the method.
	Fn Fn
}

// NewMethod creates an instance method.
func NewMethod(owner *Class, name string, fn Fn, params ...*Class) *Method {
	return &Method{Name: name, Owner: owner, Params: params, Fn: fn}
}

// NewStatic creates a static method.
func NewStatic(owner *Class, name string, fn Fn, params ...*Class) *Method {
	return &Method{Name: name, Owner: owner, Params: params, Static: true, Fn: fn}
}

// NewConstructor creates a constructor. fn receives a nil self and returns
// the new instance.
func NewConstructor(owner *Class, fn Fn, params ...*Class) *Method {
	return &Method{Name: ConstructorName, Owner: owner, Params: params, Return: owner, Static: true, Fn: fn}
}

// Returning sets the method's return class and returns the method. It is
// meant for use while building a method, before it is declared.
func (m *Method) Returning(c *Class) *Method {
	m.Return = c
	return m
}

// IsVarargs returns whether the method's last parameter is an array slot.
func (m *Method) IsVarargs() bool {
	return len(m.Params) > 0 && m.Params[len(m.Params)-1].IsArray()
}

// IsConstructor returns whether the method is a constructor.
func (m *Method) IsConstructor() bool {
	return m.Name == ConstructorName
}

// SameSignature returns whether two methods have the same name and parameter
// classes.
func (m *Method) SameSignature(n *Method) bool {
	if m.Name != n.Name || len(m.Params) != len(n.Params) {
		return false
	}
	for i, p := range m.Params {
		if p != n.Params[i] {
			return false
		}
	}
	return true
}

// Descriptor returns the method's name and parameter list, e.g.
// "f(int, String...)".
func (m *Method) Descriptor() string {
	var b strings.Builder
	if m.IsConstructor() && m.Owner != nil {
		b.WriteString(m.Owner.Name)
	} else {
		b.WriteString(m.Name)
	}
	b.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		if i == len(m.Params)-1 && p.IsArray() {
			b.WriteString(p.elem.Name)
			b.WriteString("...")
			continue
		}
		b.WriteString(p.Name)
	}
	b.WriteByte(')')
	return b.String()
}

func (m *Method) String() string {
	var b strings.Builder
	if m.Static && !m.IsConstructor() {
		b.WriteString("static ")
	}
	if m.Owner != nil {
		b.WriteString(m.Owner.Name)
		b.WriteByte('.')
	}
	b.WriteString(m.Descriptor())
	return b.String()
}

// CallError is the wrapping failure of a method invoked through Func. The
// dispatcher unwraps it, so callers see Err as the failure of the call.
type CallError struct {
	Method *Method
	Err    error
}

func (err *CallError) Error() string {
	return fmt.Sprintf("error calling %v: %v", err.Method, err.Err)
}

func (err *CallError) Unwrap() error {
	return err.Err
}

var (
	threadType  = reflect.TypeOf((*Thread)(nil))
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	bigIntType  = reflect.TypeOf((*big.Int)(nil))
	decimalType = reflect.TypeOf(decimal.Decimal{})
	charType    = reflect.TypeOf(Char(0))
	gstrType    = reflect.TypeOf((*GString)(nil))
	arrayType   = reflect.TypeOf((*Array)(nil))
	classType   = reflect.TypeOf((*Class)(nil))
)

// Func creates an instance method from a Go function. The function may take
// a *Thread first; its next parameter receives the receiver, and the rest
// are the method's parameters. A variadic Go function creates a varargs
// method. The function may return a value, an error, or both.
//
// Func panics if f is not a function or does not have a receiver parameter.
func Func(owner *Class, name string, f interface{}) *Method {
	return funcMethod(owner, name, f, false)
}

// StaticFunc creates a static method from a Go function, like Func but with
// no receiver parameter.
func StaticFunc(owner *Class, name string, f interface{}) *Method {
	return funcMethod(owner, name, f, true)
}

func funcMethod(owner *Class, name string, f interface{}, static bool) *Method {
	fv := reflect.ValueOf(f)
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		panic(fmt.Errorf("dyncall: Func %s.%s: %v is not a function", owner, name, ft))
	}
	in := 0
	withThread := ft.NumIn() > 0 && ft.In(0) == threadType
	if withThread {
		in++
	}
	withSelf := !static
	if withSelf {
		if ft.NumIn() <= in {
			panic(fmt.Errorf("dyncall: Func %s.%s: %v has no receiver parameter", owner, name, ft))
		}
		in++
	}
	m := &Method{Name: name, Owner: owner, Static: static}
	for i := in; i < ft.NumIn(); i++ {
		t := ft.In(i)
		if ft.IsVariadic() && i == ft.NumIn()-1 {
			m.Params = append(m.Params, ArrayOf(ClassForType(t.Elem())))
			continue
		}
		m.Params = append(m.Params, ClassForType(t))
	}
	if ft.NumOut() > 0 && ft.Out(0) != errorType {
		m.Return = ClassForType(ft.Out(0))
	}
	first := in
	m.Fn = func(th *Thread, self interface{}, args []interface{}) (r interface{}, err error) {
		defer func() {
			if p := recover(); p != nil {
				perr, ok := p.(error)
				if !ok {
					perr = fmt.Errorf("panic: %v", p)
				}
				r, err = nil, &CallError{Method: m, Err: perr}
			}
		}()
		vals := make([]reflect.Value, 0, ft.NumIn())
		if withThread {
			vals = append(vals, reflect.ValueOf(th))
		}
		if withSelf {
			v, err := goValue(self, ft.In(len(vals)))
			if err != nil {
				return nil, &CallError{Method: m, Err: err}
			}
			vals = append(vals, v)
		}
		spread := false
		for i, a := range args {
			k := first + i
			if k >= ft.NumIn() {
				return nil, &CallError{Method: m, Err: fmt.Errorf("too many arguments: %d", len(args))}
			}
			t := ft.In(k)
			if ft.IsVariadic() && k == ft.NumIn()-1 {
				v, err := goSlice(a, t)
				if err != nil {
					return nil, &CallError{Method: m, Err: err}
				}
				vals = append(vals, v)
				spread = true
				continue
			}
			v, err := goValue(a, t)
			if err != nil {
				return nil, &CallError{Method: m, Err: err}
			}
			vals = append(vals, v)
		}
		var out []reflect.Value
		if spread {
			out = fv.CallSlice(vals)
		} else {
			out = fv.Call(vals)
		}
		return funcResult(m, out)
	}
	return m
}

func funcResult(m *Method, out []reflect.Value) (interface{}, error) {
	var r interface{}
	for _, v := range out {
		if v.Type() == errorType {
			if !v.IsNil() {
				return nil, &CallError{Method: m, Err: v.Interface().(error)}
			}
			continue
		}
		r = v.Interface()
	}
	return r, nil
}

// goValue converts a coerced argument to the Go type t.
func goValue(a interface{}, t reflect.Type) (reflect.Value, error) {
	if a == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, &TypeCoercionError{Value: nil, To: ClassForType(t)}
	}
	v := reflect.ValueOf(a)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if t.Kind() != reflect.String && v.Type().ConvertibleTo(t) && v.Kind() != reflect.String {
		return v.Convert(t), nil
	}
	if t.Kind() == reflect.String {
		if s, ok := a.(fmt.Stringer); ok {
			return reflect.ValueOf(s.String()).Convert(t), nil
		}
	}
	if arr, ok := a.(*Array); ok && t.Kind() == reflect.Slice {
		return goSlice(arr, t)
	}
	return reflect.Value{}, &TypeCoercionError{Value: a, To: ClassForType(t)}
}

// goSlice converts an Array argument to a Go slice of type t.
func goSlice(a interface{}, t reflect.Type) (reflect.Value, error) {
	if a == nil {
		return reflect.Zero(t), nil
	}
	arr, ok := a.(*Array)
	if !ok {
		return goValue(a, t)
	}
	s := reflect.MakeSlice(t, 0, len(arr.Values))
	for _, x := range arr.Values {
		v, err := goValue(x, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		s = reflect.Append(s, v)
	}
	return s, nil
}

// ClassForType returns the class that describes parameters of the Go type t.
func ClassForType(t reflect.Type) *Class {
	switch t {
	case bigIntType:
		return BigIntegerClass
	case decimalType:
		return BigDecimalClass
	case charType:
		return CharPrim
	case gstrType:
		return GStringClass
	case arrayType:
		return ArrayOf(ObjectClass)
	case classType:
		return ClassClass
	}
	switch t.Kind() {
	case reflect.Bool:
		return BoolPrim
	case reflect.Int8:
		return BytePrim
	case reflect.Int16:
		return ShortPrim
	case reflect.Int32, reflect.Int:
		return IntPrim
	case reflect.Int64:
		return LongPrim
	case reflect.Float32:
		return FloatPrim
	case reflect.Float64:
		return DoublePrim
	case reflect.String:
		return StringClass
	case reflect.Map:
		return MapClass
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Interface {
			return ListClass
		}
		return ArrayOf(ClassForType(t.Elem()))
	}
	return ObjectClass
}
