// Package testutils provides utilities for testing dispatch in Go.
package testutils

import (
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/zephyrtronium/dyncall"
)

// testRuntime is the Runtime used for all tests.
var testRuntime *dyncall.Runtime

var testRuntimeInit sync.Once

// TestingRuntime returns a Runtime for testing. The Runtime is shared by all
// tests that use this package, and it has the fixture classes defined.
func TestingRuntime() *dyncall.Runtime {
	testRuntimeInit.Do(ResetTestingRuntime)
	return testRuntime
}

// ResetTestingRuntime reinitializes the Runtime returned by TestingRuntime.
// It is not safe to call this in parallel tests.
func ResetTestingRuntime() {
	testRuntime = NewRuntime()
}

// Runtime is a shortcut for TestingRuntime.
func Runtime() *dyncall.Runtime {
	return TestingRuntime()
}

// Thread returns a new Thread of the testing Runtime.
func Thread() *dyncall.Thread {
	return TestingRuntime().NewThread()
}

// NewRuntime creates a Runtime with the fixture classes defined, for tests
// that need to declare methods without affecting other tests.
func NewRuntime(opts ...dyncall.Option) *dyncall.Runtime {
	rt := dyncall.NewRuntime(opts...)
	Install(rt)
	return rt
}

// Fixture classes. Base declares greet(String), and Derived extends Base and
// declares greet(Object). Both are installed by Install.
var (
	Base    = dyncall.NewClass("Base", nil)
	Derived = dyncall.NewClass("Derived", Base)
)

// Install defines the fixture classes in rt and declares their methods.
func Install(rt *dyncall.Runtime) {
	rt.Define(Base)
	rt.Define(Derived)
	rt.Declare(
		Echo(Base, "greet", dyncall.StringClass),
		Echo(Derived, "greet", dyncall.ObjectClass),
	)
}

// Echo creates an instance method whose result is its own description, e.g.
// "Base.greet(String)", for checking which overload dispatch selects.
func Echo(owner *dyncall.Class, name string, params ...*dyncall.Class) *dyncall.Method {
	m := dyncall.NewMethod(owner, name, nil, params...)
	m.Fn = func(th *dyncall.Thread, self interface{}, args []interface{}) (interface{}, error) {
		return m.String(), nil
	}
	return m.Returning(dyncall.StringClass)
}

// EchoStatic is like Echo but creates a static method.
func EchoStatic(owner *dyncall.Class, name string, params ...*dyncall.Class) *dyncall.Method {
	m := dyncall.NewStatic(owner, name, nil, params...)
	m.Fn = func(th *dyncall.Thread, self interface{}, args []interface{}) (interface{}, error) {
		return m.String(), nil
	}
	return m.Returning(dyncall.StringClass)
}

// Args returns the arguments it is given, so that an Fn records what it was
// called with.
func Args(th *dyncall.Thread, self interface{}, args []interface{}) (interface{}, error) {
	return args, nil
}

// CheckMethods checks that each name in names is reachable from c in rt.
func CheckMethods(t *testing.T, rt *dyncall.Runtime, c *dyncall.Class, names []string) {
	t.Helper()
	have := rt.Registry.Names(c)
	for _, name := range names {
		if i := sort.SearchStrings(have, name); i == len(have) || have[i] != name {
			t.Errorf("%v has no method %s", c, name)
		}
	}
}

// CheckSelects checks that invoking name on recv with args calls the Echo
// method described by want.
func CheckSelects(t *testing.T, th *dyncall.Thread, recv interface{}, name string, args []interface{}, want string) {
	t.Helper()
	r, err := th.Invoke(recv, name, args...)
	if err != nil {
		t.Errorf("%s%v failed: %v", name, args, err)
		return
	}
	if r != want {
		t.Errorf("%s%v selected wrong method: want %s, have %v", name, args, want, r)
	}
}

// CheckMissing checks that err reports a call of name that no method accepts.
func CheckMissing(t *testing.T, err error, name string) {
	t.Helper()
	var miss *dyncall.MissingMethodError
	if !errors.As(err, &miss) {
		t.Errorf("expected missing method %s, got %v", name, err)
		return
	}
	if miss.Name != name {
		t.Errorf("missing method has wrong name: want %s, have %s", name, miss.Name)
	}
}

// BenchDummy is a dummy variable to prevent dead code elimination in
// benchmarks.
var BenchDummy interface{}
