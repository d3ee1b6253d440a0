package internal

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// Runtime holds the state shared by every Thread: classes, their methods, and
// dispatch options.
type Runtime struct {
	// Registry holds declared methods.
	Registry *Registry

	// classes maps class names to classes.
	classes sync.Map
	// bindings maps host Go types to classes.
	bindings sync.Map

	opts   Options
	tracer Tracer
}

// Options are the tunable parameters of a Runtime.
type Options struct {
	// CallSiteCacheSize is the number of argument class tuples each call
	// site remembers.
	CallSiteCacheSize int
	// RenderLimit is the length beyond which argument values are cut in
	// error messages and traces.
	RenderLimit int
	// Trace enables tracing on new Threads.
	Trace bool
}

// DefaultOptions returns the options a Runtime uses unless told otherwise.
func DefaultOptions() Options {
	return Options{CallSiteCacheSize: 16, RenderLimit: DefaultRenderLimit}
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithOptions replaces all of a Runtime's options. Zero sizes and limits
// keep their defaults.
func WithOptions(opts Options) Option {
	return func(rt *Runtime) {
		d := DefaultOptions()
		if opts.CallSiteCacheSize <= 0 {
			opts.CallSiteCacheSize = d.CallSiteCacheSize
		}
		if opts.RenderLimit <= 0 {
			opts.RenderLimit = d.RenderLimit
		}
		rt.opts = opts
	}
}

// WithCallSiteCache sets the number of entries in each call site's cache.
func WithCallSiteCache(n int) Option {
	return func(rt *Runtime) {
		if n > 0 {
			rt.opts.CallSiteCacheSize = n
		}
	}
}

// WithRenderLimit sets the length beyond which argument values are cut in
// diagnostics.
func WithRenderLimit(n int) Option {
	return func(rt *Runtime) {
		if n > 0 {
			rt.opts.RenderLimit = n
		}
	}
}

// WithTracer sets the Tracer that receives dispatch events from Threads with
// tracing enabled.
func WithTracer(t Tracer) Option {
	return func(rt *Runtime) {
		rt.tracer = t
	}
}

// NewRuntime creates a runtime with the builtin classes and all registered
// core extensions.
func NewRuntime(opts ...Option) *Runtime {
	atomic.StoreUint32(&haveRuntime, 1)
	rt := &Runtime{
		Registry: NewRegistry(),
		opts:     DefaultOptions(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	for _, c := range builtinClasses {
		rt.Define(c)
	}
	coreExtMu.Lock()
	exts := coreExt
	coreExtMu.Unlock()
	for _, ext := range exts {
		ext(rt)
	}
	return rt
}

// Options returns the runtime's options.
func (rt *Runtime) Options() Options {
	return rt.opts
}

// Define makes a class known by its name. It returns c.
func (rt *Runtime) Define(c *Class) *Class {
	rt.classes.Store(c.Name, c)
	return c
}

// DefineClass creates and defines a class. A nil super means Object.
func (rt *Runtime) DefineClass(name string, super *Class, ifaces ...*Class) *Class {
	return rt.Define(NewClass(name, super, ifaces...))
}

// DefineInterface creates and defines an interface.
func (rt *Runtime) DefineInterface(name string, ifaces ...*Class) *Class {
	return rt.Define(NewInterface(name, ifaces...))
}

// ClassNamed returns the class defined with the given name. Names ending in
// "[]" name array classes.
func (rt *Runtime) ClassNamed(name string) (*Class, bool) {
	if v, ok := rt.classes.Load(name); ok {
		return v.(*Class), true
	}
	if n := len(name); n > 2 && name[n-2:] == "[]" {
		if e, ok := rt.ClassNamed(name[:n-2]); ok {
			return ArrayOf(e), true
		}
	}
	return nil, false
}

// Classes calls f on each defined class until f returns false.
func (rt *Runtime) Classes(f func(c *Class) bool) {
	rt.classes.Range(func(k, v interface{}) bool {
		return f(v.(*Class))
	})
}

// Bind makes values of the Go type t have class c.
func (rt *Runtime) Bind(t reflect.Type, c *Class) {
	rt.bindings.Store(t, c)
}

// ClassOf returns the class of a runtime value, respecting bindings. The
// result is nil for null.
func (rt *Runtime) ClassOf(v interface{}) *Class {
	c := ClassOf(v)
	if c == ObjectClass {
		if b, ok := rt.bindings.Load(reflect.TypeOf(v)); ok {
			return b.(*Class)
		}
	}
	return c
}

// classesOf returns the classes of args.
func (rt *Runtime) classesOf(args []interface{}) []*Class {
	r := make([]*Class, len(args))
	for i, a := range args {
		r[i] = rt.ClassOf(a)
	}
	return r
}

// Declare adds methods to the runtime's registry.
func (rt *Runtime) Declare(methods ...*Method) {
	rt.Registry.Declare(methods...)
}

// Forget removes the methods of c and its name binding.
func (rt *Runtime) Forget(c *Class) {
	rt.Registry.Forget(c)
	rt.classes.CompareAndDelete(c.Name, c)
}

// NewThread creates a Thread with only the baseline overlay frame.
func (rt *Runtime) NewThread() *Thread {
	th := &Thread{rt: rt, top: baseFrame}
	if rt.opts.Trace {
		th.trace = 1
	}
	return th
}

// Register registers a core extension. Each function is called in the order
// it is registered whenever a Runtime is created. Register should be called
// from within init funcs. Panics if NewRuntime has been called.
func Register(f func(*Runtime)) {
	if atomic.LoadUint32(&haveRuntime) != 0 {
		panic("dyncall/internal: Register must be called before any Runtime is created")
	}
	coreExtMu.Lock()
	coreExt = append(coreExt, f)
	coreExtMu.Unlock()
}

var (
	// coreExt is a list of core extensions that have been registered.
	coreExt   = make([]func(*Runtime), 0, 4)
	coreExtMu sync.Mutex
	// haveRuntime becomes 1 once NewRuntime has been called.
	haveRuntime uint32
)
