package internal

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/zephyrtronium/contains"
)

// Kind distinguishes the shapes a Class can take.
type Kind uint8

const (
	// ClassKind is an ordinary class with a superclass.
	ClassKind Kind = iota
	// InterfaceKind is an interface. Interfaces have no superclass, but they
	// may extend other interfaces.
	InterfaceKind
	// PrimitiveKind is an unboxed primitive. Runtime values never have a
	// primitive class; primitives only appear as parameter types.
	PrimitiveKind
	// ArrayKind is an array class created by ArrayOf.
	ArrayKind
)

func (k Kind) String() string {
	switch k {
	case ClassKind:
		return "class"
	case InterfaceKind:
		return "interface"
	case PrimitiveKind:
		return "primitive"
	case ArrayKind:
		return "array"
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// NumKind is the numeric kind of a primitive or its box. Boolean and char are
// included so that each primitive has a kind, but they are not numeric.
type NumKind uint8

const (
	NotNumeric NumKind = iota
	BoolNum
	CharNum
	ByteNum
	ShortNum
	IntNum
	LongNum
	BigIntNum
	FloatNum
	DoubleNum
	DecimalNum
)

// Integral returns true if the kind is an integral numeric kind.
func (k NumKind) Integral() bool {
	return k >= ByteNum && k <= BigIntNum
}

// Numeric returns true if the kind is any numeric kind.
func (k NumKind) Numeric() bool {
	return k >= ByteNum
}

// Class describes a type that methods can be declared on and that values can
// be instances of.
//
// Classes are immutable once created, except for the methods the Registry
// associates with them and the properties declared with DefineProperty.
type Class struct {
	// Name is the class's simple name.
	Name string

	kind   Kind
	super  *Class
	ifaces []*Class
	elem   *Class
	num    NumKind
	// rank is the index into the primitive distance table, or -1.
	rank int8
	// depth is the number of superclass hops to Object.
	depth int

	// id is the class's unique ID.
	id uintptr

	// array is the lazily created array class of this class.
	array     *Class
	arrayOnce sync.Once

	// props holds declared instance properties. Guarded by mu.
	props map[string]*Class
	mu    sync.RWMutex
}

// classcounter is the global counter for class IDs. All accesses to this must
// be atomic.
var classcounter uintptr

// nextClass increments the class counter and returns its value as a unique ID
// for a new class.
func nextClass() uintptr {
	return atomic.AddUintptr(&classcounter, 1)
}

// newClass creates a class. A nil super for ClassKind means Object.
func newClass(name string, kind Kind, super *Class, ifaces []*Class) *Class {
	c := &Class{
		Name:   name,
		kind:   kind,
		super:  super,
		ifaces: ifaces,
		rank:   -1,
		id:     nextClass(),
	}
	if super != nil {
		c.depth = super.depth + 1
	}
	return c
}

// NewClass creates a class with the given superclass and interfaces. If super
// is nil, the class extends Object.
func NewClass(name string, super *Class, ifaces ...*Class) *Class {
	if super == nil {
		super = ObjectClass
	}
	return newClass(name, ClassKind, super, ifaces)
}

// NewInterface creates an interface extending the given interfaces.
func NewInterface(name string, ifaces ...*Class) *Class {
	return newClass(name, InterfaceKind, nil, ifaces)
}

// Kind returns the class's kind.
func (c *Class) Kind() Kind {
	return c.kind
}

// Super returns the class's superclass, or nil for Object, interfaces, and
// primitives.
func (c *Class) Super() *Class {
	return c.super
}

// Interfaces returns the interfaces the class directly implements or extends.
func (c *Class) Interfaces() []*Class {
	return c.ifaces
}

// Elem returns the element class of an array class, or nil.
func (c *Class) Elem() *Class {
	return c.elem
}

// Num returns the class's numeric kind.
func (c *Class) Num() NumKind {
	return c.num
}

// UniqueID returns the class's unique ID.
func (c *Class) UniqueID() uintptr {
	return c.id
}

// Depth returns the number of superclass hops from the class to Object. For
// interfaces, it is one more than the deepest extended interface.
func (c *Class) Depth() int {
	if c.kind == InterfaceKind {
		d := 0
		for _, i := range c.ifaces {
			if k := i.Depth(); k > d {
				d = k
			}
		}
		return d + 1
	}
	return c.depth
}

// IsInterface returns true if the class is an interface.
func (c *Class) IsInterface() bool {
	return c.kind == InterfaceKind
}

// IsPrimitive returns true if the class is an unboxed primitive.
func (c *Class) IsPrimitive() bool {
	return c.kind == PrimitiveKind
}

// IsArray returns true if the class is an array class.
func (c *Class) IsArray() bool {
	return c.kind == ArrayKind
}

// IsNumber returns true if values of the class are numbers, boxed or not.
func (c *Class) IsNumber() bool {
	return c == NumberClass || c.num.Numeric()
}

func (c *Class) String() string {
	if c == nil {
		return "null"
	}
	return c.Name
}

// ArrayOf returns the array class whose elements are c.
func ArrayOf(c *Class) *Class {
	c.arrayOnce.Do(func() {
		a := newClass(c.Name+"[]", ArrayKind, ObjectClass, nil)
		a.elem = c
		c.array = a
	})
	return c.array
}

// IsKindOf evaluates whether the class has kind as any of its superclasses or
// interfaces, or is itself kind. Every non-primitive class is a kind of
// Object.
func (c *Class) IsKindOf(kind *Class) bool {
	if c == nil || kind == nil {
		return false
	}
	if c == kind {
		return true
	}
	if c.kind == PrimitiveKind || kind.kind == PrimitiveKind {
		return false
	}
	if kind == ObjectClass {
		return true
	}
	if c.kind == ArrayKind && kind.kind == ArrayKind {
		if c.elem.kind == PrimitiveKind || kind.elem.kind == PrimitiveKind {
			return false
		}
		return c.elem.IsKindOf(kind.elem)
	}
	classes := []*Class{c}
	set := contains.Set{}
	set.Add(c.id)
	for len(classes) > 0 {
		k := classes[len(classes)-1]
		classes = classes[:len(classes)-1]
		if k == kind {
			return true
		}
		if k.super != nil && set.Add(k.super.id) {
			classes = append(classes, k.super)
		}
		for _, i := range k.ifaces {
			if set.Add(i.id) {
				classes = append(classes, i)
			}
		}
	}
	return false
}

// InterfaceDistance returns the maximum number of steps from c to the
// interface iface through its interfaces and superclasses, or -1 if c does not
// implement iface.
func (c *Class) InterfaceDistance(iface *Class) int {
	if c == nil {
		return -1
	}
	if c == iface {
		return 0
	}
	max := -1
	for _, i := range c.ifaces {
		if d := i.InterfaceDistance(iface); d >= 0 && d+1 > max {
			max = d + 1
		}
	}
	if c.super != nil {
		if d := c.super.InterfaceDistance(iface); d >= 0 && d+1 > max {
			max = d + 1
		}
	}
	return max
}

// DefineProperty declares a typed instance property on the class. Instances
// accept and coerce values for declared properties only, unless the class
// declares none.
func (c *Class) DefineProperty(name string, typ *Class) *Class {
	if typ == nil {
		typ = ObjectClass
	}
	c.mu.Lock()
	if c.props == nil {
		c.props = make(map[string]*Class)
	}
	c.props[name] = typ
	c.mu.Unlock()
	return c
}

// Property returns the declared type of the named property, searching
// superclasses as well.
func (c *Class) Property(name string) (*Class, bool) {
	for k := c; k != nil; k = k.super {
		k.mu.RLock()
		t, ok := k.props[name]
		k.mu.RUnlock()
		if ok {
			return t, true
		}
	}
	return nil, false
}

// hasProperties returns whether the class or any superclass declares
// properties.
func (c *Class) hasProperties() bool {
	for k := c; k != nil; k = k.super {
		k.mu.RLock()
		n := len(k.props)
		k.mu.RUnlock()
		if n > 0 {
			return true
		}
	}
	return false
}

// Builtin classes.
var (
	ObjectClass = &Class{Name: "Object", rank: -1, id: nextClass()}
	ClassClass  = NewClass("Class", nil)

	CharSequenceClass  = NewInterface("CharSequence")
	ComparableClass    = NewInterface("Comparable")
	InterceptableClass = NewInterface("Interceptable")
	MapClass           = NewInterface("Map")
	ListClass          = NewInterface("List")

	StringClass  = NewClass("String", nil, CharSequenceClass, ComparableClass)
	GStringClass = NewClass("GString", nil, CharSequenceClass, ComparableClass)

	NumberClass     = NewClass("Number", nil)
	BooleanClass    = boxed("Boolean", ObjectClass, BoolNum, 1)
	CharacterClass  = boxed("Character", ObjectClass, CharNum, 7)
	ByteClass       = boxed("Byte", NumberClass, ByteNum, 3)
	ShortClass      = boxed("Short", NumberClass, ShortNum, 5)
	IntegerClass    = boxed("Integer", NumberClass, IntNum, 9)
	LongClass       = boxed("Long", NumberClass, LongNum, 11)
	BigIntegerClass = boxed("BigInteger", NumberClass, BigIntNum, 12)
	FloatClass      = boxed("Float", NumberClass, FloatNum, 14)
	DoubleClass     = boxed("Double", NumberClass, DoubleNum, 16)
	BigDecimalClass = boxed("BigDecimal", NumberClass, DecimalNum, 17)

	BoolPrim   = primitive("boolean", BoolNum, 0)
	BytePrim   = primitive("byte", ByteNum, 2)
	ShortPrim  = primitive("short", ShortNum, 4)
	CharPrim   = primitive("char", CharNum, 6)
	IntPrim    = primitive("int", IntNum, 8)
	LongPrim   = primitive("long", LongNum, 10)
	FloatPrim  = primitive("float", FloatNum, 13)
	DoublePrim = primitive("double", DoubleNum, 15)

	LinkedHashMapClass = NewClass("LinkedHashMap", nil, MapClass)
	ArrayListClass     = NewClass("ArrayList", nil, ListClass)
)

func init() {
	ObjectClass.rank = 19
	NumberClass.rank = 18
	for _, c := range []*Class{BooleanClass, CharacterClass, ByteClass, ShortClass, IntegerClass, LongClass, BigIntegerClass, FloatClass, DoubleClass, BigDecimalClass} {
		c.ifaces = append(c.ifaces, ComparableClass)
	}
}

func boxed(name string, super *Class, num NumKind, rank int8) *Class {
	c := newClass(name, ClassKind, super, nil)
	c.num = num
	c.rank = rank
	return c
}

func primitive(name string, num NumKind, rank int8) *Class {
	c := newClass(name, PrimitiveKind, nil, nil)
	c.num = num
	c.rank = rank
	return c
}

// Box returns the boxed class for a primitive class, or c itself otherwise.
func Box(c *Class) *Class {
	if c == nil || c.kind != PrimitiveKind {
		return c
	}
	switch c.num {
	case BoolNum:
		return BooleanClass
	case CharNum:
		return CharacterClass
	case ByteNum:
		return ByteClass
	case ShortNum:
		return ShortClass
	case IntNum:
		return IntegerClass
	case LongNum:
		return LongClass
	case FloatNum:
		return FloatClass
	case DoubleNum:
		return DoubleClass
	}
	return c
}

// builtinClasses is the list of classes every Runtime knows by name.
var builtinClasses = []*Class{
	ObjectClass, ClassClass,
	CharSequenceClass, ComparableClass, InterceptableClass, MapClass, ListClass,
	StringClass, GStringClass,
	NumberClass, BooleanClass, CharacterClass, ByteClass, ShortClass, IntegerClass,
	LongClass, BigIntegerClass, FloatClass, DoubleClass, BigDecimalClass,
	BoolPrim, BytePrim, ShortPrim, CharPrim, IntPrim, LongPrim, FloatPrim, DoublePrim,
	LinkedHashMapClass, ArrayListClass,
}
