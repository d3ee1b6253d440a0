// Package lang declares the default methods of Object and Class.
package lang

import (
	"reflect"

	"github.com/zephyrtronium/dyncall"
	"github.com/zephyrtronium/dyncall/internal"
)

func init() {
	internal.Register(initLang)
}

func initLang(rt *dyncall.Runtime) {
	rt.Declare(
		dyncall.Func(dyncall.ObjectClass, "toString", toString),
		dyncall.Func(dyncall.ObjectClass, "inspect", inspect),
		dyncall.Func(dyncall.ObjectClass, "equals", equals),
		dyncall.Func(dyncall.ObjectClass, "getClass", getClass),
		dyncall.Func(dyncall.ObjectClass, "respondsTo", respondsTo),
		dyncall.Func(dyncall.ClassClass, "getName", getName),
		dyncall.Func(dyncall.ClassClass, "getSuperclass", getSuperclass),
		dyncall.Func(dyncall.ClassClass, "isInterface", isInterface),
		dyncall.Func(dyncall.ClassClass, "isInstance", isInstance),
	)
}

// toString is an Object method.
//
// toString returns the receiver's string form.
func toString(self interface{}) string {
	return dyncall.Text(self)
}

// inspect is an Object method.
//
// inspect returns a diagnostic rendering of the receiver. Strings are quoted.
func inspect(self interface{}) string {
	return dyncall.Render(self, 0)
}

// equals is an Object method.
//
// equals returns whether the argument has the same class and value as the
// receiver.
func equals(self, other interface{}) bool {
	return reflect.DeepEqual(self, other)
}

// getClass is an Object method.
//
// getClass returns the receiver's class.
func getClass(th *dyncall.Thread, self interface{}) *dyncall.Class {
	return th.Runtime().ClassOf(self)
}

// respondsTo is an Object method.
//
// respondsTo returns whether any method with the given name, including
// methods of categories in use, is available on the receiver.
func respondsTo(th *dyncall.Thread, self interface{}, name string) bool {
	return len(th.CandidatesFor(th.Runtime().ClassOf(self), name)) > 0
}

// getName is a Class method.
func getName(self *dyncall.Class) string {
	return self.Name
}

// getSuperclass is a Class method.
//
// getSuperclass returns the receiver's superclass, or null for Object,
// interfaces, and primitives.
func getSuperclass(self *dyncall.Class) interface{} {
	if s := self.Super(); s != nil {
		return s
	}
	return nil
}

// isInterface is a Class method.
func isInterface(self *dyncall.Class) bool {
	return self.IsInterface()
}

// isInstance is a Class method.
//
// isInstance returns whether the argument is non-null and of a kind of the
// receiver.
func isInstance(th *dyncall.Thread, self *dyncall.Class, v interface{}) bool {
	return v != nil && th.Runtime().ClassOf(v).IsKindOf(self)
}
