package dyncall

import (
	"github.com/zephyrtronium/dyncall/internal"
)

// Runtime holds the state shared by every Thread: classes, their methods, and
// dispatch options.
type Runtime = internal.Runtime

// Thread is the dispatch context of one logical thread of control. It holds
// the stack of category frames in use. A Thread must not be used by more than
// one goroutine at a time; use Fork to obtain a Thread for a new goroutine.
type Thread = internal.Thread

// Class describes a type that methods can be declared on and that values can
// be instances of.
type Class = internal.Class

// Kind distinguishes the shapes a Class can take.
type Kind = internal.Kind

// NumKind is the numeric kind of a primitive or its box.
type NumKind = internal.NumKind

// Method is a single invocable method or constructor.
type Method = internal.Method

// Fn is the invocation handle of a method.
type Fn = internal.Fn

// Origin records where a method came from.
type Origin = internal.Origin

// Category is a named set of static methods that become instance methods of
// their first parameter's class while the category is in use on a Thread.
type Category = internal.Category

// Registry holds the methods declared on classes.
type Registry = internal.Registry

// CallSite is a dispatch point for one method name with an inline cache.
type CallSite = internal.CallSite

// Options are the tunable parameters of a Runtime.
type Options = internal.Options

// Option configures a Runtime.
type Option = internal.Option

// Object is implemented by Go values that know their own class.
type Object = internal.Object

// Invoker is implemented by receivers with a custom invocation hook.
type Invoker = internal.Invoker

// PropertyHolder is implemented by receivers that resolve their own
// properties.
type PropertyHolder = internal.PropertyHolder

// Tracer receives dispatch events.
type Tracer = internal.Tracer

// TracerFunc adapts a function to a Tracer.
type TracerFunc = internal.TracerFunc

// Event describes one dispatch.
type Event = internal.Event

// Runtime value types.
type (
	Char     = internal.Char
	GString  = internal.GString
	Array    = internal.Array
	Spread   = internal.Spread
	Instance = internal.Instance
)

// Errors.
type (
	NullReceiverError    = internal.NullReceiverError
	MissingMethodError   = internal.MissingMethodError
	MissingPropertyError = internal.MissingPropertyError
	TypeCoercionError    = internal.TypeCoercionError
	InvocationError      = internal.InvocationError
	CallError            = internal.CallError
	UnknownClassError    = internal.UnknownClassError
)

// Method origins.
const (
	Native         = internal.Native
	CategoryMethod = internal.CategoryMethod
	Synthetic      = internal.Synthetic
)

// ConstructorName is the method name under which constructors are declared.
const ConstructorName = internal.ConstructorName

// Builtin classes.
var (
	ObjectClass        = internal.ObjectClass
	ClassClass         = internal.ClassClass
	CharSequenceClass  = internal.CharSequenceClass
	ComparableClass    = internal.ComparableClass
	InterceptableClass = internal.InterceptableClass
	MapClass           = internal.MapClass
	ListClass          = internal.ListClass
	StringClass        = internal.StringClass
	GStringClass       = internal.GStringClass
	NumberClass        = internal.NumberClass
	BooleanClass       = internal.BooleanClass
	CharacterClass     = internal.CharacterClass
	ByteClass          = internal.ByteClass
	ShortClass         = internal.ShortClass
	IntegerClass       = internal.IntegerClass
	LongClass          = internal.LongClass
	BigIntegerClass    = internal.BigIntegerClass
	FloatClass         = internal.FloatClass
	DoubleClass        = internal.DoubleClass
	BigDecimalClass    = internal.BigDecimalClass
	LinkedHashMapClass = internal.LinkedHashMapClass
	ArrayListClass     = internal.ArrayListClass

	BoolPrim   = internal.BoolPrim
	BytePrim   = internal.BytePrim
	ShortPrim  = internal.ShortPrim
	CharPrim   = internal.CharPrim
	IntPrim    = internal.IntPrim
	LongPrim   = internal.LongPrim
	FloatPrim  = internal.FloatPrim
	DoublePrim = internal.DoublePrim
)

// NewRuntime creates a runtime with the builtin classes and all registered
// core extensions.
func NewRuntime(opts ...Option) *Runtime {
	return internal.NewRuntime(opts...)
}

// DefaultOptions returns the options a Runtime uses unless told otherwise.
func DefaultOptions() Options {
	return internal.DefaultOptions()
}

// WithOptions replaces all of a Runtime's options.
func WithOptions(opts Options) Option {
	return internal.WithOptions(opts)
}

// WithCallSiteCache sets the number of entries in each call site's cache.
func WithCallSiteCache(n int) Option {
	return internal.WithCallSiteCache(n)
}

// WithRenderLimit sets the length beyond which argument values are cut in
// diagnostics.
func WithRenderLimit(n int) Option {
	return internal.WithRenderLimit(n)
}

// WithTracer sets the Tracer that receives dispatch events.
func WithTracer(t Tracer) Option {
	return internal.WithTracer(t)
}

// NewClass creates a class with the given superclass and interfaces. If super
// is nil, the class extends Object. Use Runtime.Define to make it known by
// name.
func NewClass(name string, super *Class, ifaces ...*Class) *Class {
	return internal.NewClass(name, super, ifaces...)
}

// NewInterface creates an interface extending the given interfaces.
func NewInterface(name string, ifaces ...*Class) *Class {
	return internal.NewInterface(name, ifaces...)
}

// ArrayOf returns the array class whose elements are c.
func ArrayOf(c *Class) *Class {
	return internal.ArrayOf(c)
}

// NewMethod creates an instance method.
func NewMethod(owner *Class, name string, fn Fn, params ...*Class) *Method {
	return internal.NewMethod(owner, name, fn, params...)
}

// NewStatic creates a static method.
func NewStatic(owner *Class, name string, fn Fn, params ...*Class) *Method {
	return internal.NewStatic(owner, name, fn, params...)
}

// NewConstructor creates a constructor.
func NewConstructor(owner *Class, fn Fn, params ...*Class) *Method {
	return internal.NewConstructor(owner, fn, params...)
}

// Func creates an instance method from a Go function. See internal.Func.
func Func(owner *Class, name string, f interface{}) *Method {
	return internal.Func(owner, name, f)
}

// StaticFunc creates a static method from a Go function.
func StaticFunc(owner *Class, name string, f interface{}) *Method {
	return internal.StaticFunc(owner, name, f)
}

// NewCategory creates a category from static methods whose first parameter
// selects the class each attaches to.
func NewCategory(name string, methods ...*Method) *Category {
	return internal.NewCategory(name, methods...)
}

// NewCallSite creates a call site for name.
func NewCallSite(rt *Runtime, name string) *CallSite {
	return internal.NewCallSite(rt, name)
}

// NewArray creates an array of the given element class.
func NewArray(elem *Class, values ...interface{}) *Array {
	return internal.NewArray(elem, values...)
}

// NewGString creates an interpolated string from alternating literal parts and
// values.
func NewGString(parts ...interface{}) *GString {
	return internal.NewGString(parts...)
}

// NewInstance creates an instance of c with no fields set.
func NewInstance(c *Class) *Instance {
	return internal.NewInstance(c)
}

// SpreadOf creates a spread marker over a list, an array, or a single value.
func SpreadOf(v interface{}) Spread {
	return internal.SpreadOf(v)
}

// Coerce converts v to a value that can be bound to a parameter of class to.
func Coerce(v interface{}, to *Class) (interface{}, error) {
	return internal.Coerce(v, to)
}

// ClassOf returns the class of a runtime value, or nil for null.
func ClassOf(v interface{}) *Class {
	return internal.ClassOf(v)
}

// Applicable reports whether m accepts arguments of the given classes. A nil
// class is a null argument.
func Applicable(m *Method, args []*Class) bool {
	return internal.Applicable(m, args)
}

// Distance scores how closely arguments of the given classes match m's
// parameters. Lower is more specific. m must be applicable.
func Distance(m *Method, args []*Class) int64 {
	return internal.Distance(m, args)
}

// SelectBest returns the applicable candidate with the least distance, the
// earliest on ties. The result is false if no candidate is applicable.
func SelectBest(cands []*Method, args []*Class) (*Method, bool) {
	return internal.SelectBest(cands, args)
}

// FitArgs arranges and coerces args for a call of m.
func FitArgs(m *Method, args []interface{}) ([]interface{}, error) {
	return internal.FitArgs(m, args)
}

// Flatten expands spread arguments one level.
func Flatten(args []interface{}) []interface{} {
	return internal.Flatten(args)
}

// Text returns the string form of a value, as toString would.
func Text(v interface{}) string {
	return internal.Text(v)
}

// Render returns a rendering of a value for diagnostics, cut to limit.
func Render(v interface{}, limit int) string {
	return internal.Render(v, limit)
}

// Register registers a core extension. See internal.Register.
func Register(f func(*Runtime)) {
	internal.Register(f)
}
