package internal

import (
	"errors"
	"fmt"
)

// Invoker is implemented by receivers with a custom invocation hook. The hook
// is called for calls that no method accepts, or for every call if the
// receiver's class is a kind of Interceptable.
type Invoker interface {
	InvokeMethod(th *Thread, name string, args []interface{}) (interface{}, error)
}

// UnknownClassError is returned when a static call or construction names a
// class that is not defined.
type UnknownClassError struct {
	Name string
}

func (err *UnknownClassError) Error() string {
	return fmt.Sprintf("unable to resolve class %s", err.Name)
}

// Method names of the fallback hooks a class may declare.
const (
	methodMissingName   = "methodMissing"
	propertyMissingName = "propertyMissing"
)

// Invoke calls the method name on receiver with args. Spread arguments are
// flattened first. The most specific applicable method among the receiver's
// registry and category methods is selected, the arguments are coerced to its
// parameters, and it is called.
//
// If no method applies, a methodMissing method declared for the receiver is
// tried, then the receiver's Invoker hook; otherwise the result is a
// *MissingMethodError.
func (th *Thread) Invoke(receiver interface{}, name string, args ...interface{}) (interface{}, error) {
	if receiver == nil {
		return nil, &NullReceiverError{Name: name}
	}
	args = Flatten(args)
	c := th.rt.ClassOf(receiver)
	if inv, ok := receiver.(Invoker); ok && c.IsKindOf(InterceptableClass) {
		th.traceCall(receiver, c, name, args, nil, false)
		return inv.InvokeMethod(th, name, args)
	}
	if cls, ok := receiver.(*Class); ok {
		classes := th.rt.classesOf(args)
		if m, ok := SelectBest(statics(th.CandidatesFor(cls, name)), classes); ok {
			th.traceCall(nil, cls, name, args, m, false)
			return th.Call(m, nil, args)
		}
	}
	return th.invoke(receiver, c, name, args)
}

// invoke resolves and calls a method on a non-intercepting receiver.
func (th *Thread) invoke(recv interface{}, c *Class, name string, args []interface{}) (interface{}, error) {
	cands := th.CandidatesFor(c, name)
	m, ok := SelectBest(cands, th.rt.classesOf(args))
	th.traceCall(recv, c, name, args, m, false)
	if ok {
		return th.Call(m, recv, args)
	}
	return th.missing(recv, c, name, args)
}

// missing handles a call for which no method applies.
func (th *Thread) missing(recv interface{}, c *Class, name string, args []interface{}) (interface{}, error) {
	if name != methodMissingName {
		hook := []*Class{StringClass, ArrayOf(ObjectClass)}
		if mm, ok := SelectBest(th.CandidatesFor(c, methodMissingName), hook); ok {
			r, err := th.Call(mm, recv, []interface{}{name, NewArray(ObjectClass, args...)})
			var miss *MissingMethodError
			if err == nil || !errors.As(err, &miss) || !miss.matches(name, c) {
				return r, err
			}
		}
	}
	if inv, ok := recv.(Invoker); ok {
		return inv.InvokeMethod(th, name, args)
	}
	return nil, th.missingMethod(c, name, args, false)
}

// missingMethod creates the error for a call no method accepts.
func (th *Thread) missingMethod(c *Class, name string, args []interface{}, static bool) *MissingMethodError {
	return &MissingMethodError{
		Name:        name,
		Class:       c,
		Args:        args,
		Static:      static,
		Suggestions: suggest(name, th.rt.Registry.All(c)),
		limit:       th.rt.opts.RenderLimit,
	}
}

// Call fits and coerces args to m's parameters and invokes m. A *CallError
// from the method is unwrapped; any other failure, including a panic, is
// wrapped in an *InvocationError.
func (th *Thread) Call(m *Method, self interface{}, args []interface{}) (r interface{}, err error) {
	fit, err := FitArgs(m, args)
	if err != nil {
		return nil, err
	}
	if m.Static {
		self = nil
	}
	defer func() {
		if p := recover(); p != nil {
			perr, ok := p.(error)
			if !ok {
				perr = fmt.Errorf("panic: %v", p)
			}
			r, err = nil, &InvocationError{Method: m, Receiver: self, Args: fit, Err: perr, limit: th.rt.opts.RenderLimit}
		}
	}()
	r, err = m.Fn(th, self, fit)
	if err != nil {
		if ce, ok := err.(*CallError); ok {
			return nil, ce.Err
		}
		return nil, &InvocationError{Method: m, Receiver: self, Args: fit, Err: err, limit: th.rt.opts.RenderLimit}
	}
	return r, nil
}

// InvokeStatic calls the static method name of the class named typeName.
func (th *Thread) InvokeStatic(typeName, name string, args ...interface{}) (interface{}, error) {
	c, ok := th.rt.ClassNamed(typeName)
	if !ok {
		return nil, &UnknownClassError{Name: typeName}
	}
	args = Flatten(args)
	m, ok := SelectBest(statics(th.CandidatesFor(c, name)), th.rt.classesOf(args))
	th.traceCall(nil, c, name, args, m, false)
	if !ok {
		return nil, th.missingMethod(c, name, args, true)
	}
	return th.Call(m, nil, args)
}

// Construct creates an instance of the class named typeName by calling its
// most specific applicable constructor. A class that declares no
// constructors has an implicit one without parameters that creates an
// *Instance. A single map argument that no constructor accepts is applied as
// properties of an instance created without arguments.
func (th *Thread) Construct(typeName string, args ...interface{}) (interface{}, error) {
	c, ok := th.rt.ClassNamed(typeName)
	if !ok {
		return nil, &UnknownClassError{Name: typeName}
	}
	args = Flatten(args)
	if c.IsInterface() || c.IsPrimitive() || c.IsArray() {
		return nil, th.missingMethod(c, ConstructorName, args, true)
	}
	ctors := th.rt.Registry.Constructors(c)
	if len(ctors) == 0 {
		ctors = []*Method{NewConstructor(c, func(th *Thread, self interface{}, args []interface{}) (interface{}, error) {
			return NewInstance(c), nil
		})}
	}
	m, ok := SelectBest(ctors, th.rt.classesOf(args))
	th.traceCall(nil, c, ConstructorName, args, m, false)
	if ok {
		return th.Call(m, nil, args)
	}
	if len(args) == 1 {
		if props, ok := args[0].(map[string]interface{}); ok {
			for _, m := range ctors {
				if len(m.Params) == 0 {
					return th.constructWith(m, props)
				}
			}
		}
	}
	return nil, th.missingMethod(c, ConstructorName, args, true)
}

// constructWith calls a constructor without arguments and sets properties on
// the result.
func (th *Thread) constructWith(m *Method, props map[string]interface{}) (interface{}, error) {
	obj, err := th.Call(m, nil, nil)
	if err != nil {
		return nil, err
	}
	for _, k := range sortedKeys(props) {
		if err := th.SetProperty(obj, k, props[k]); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// statics returns the static methods among ms.
func statics(ms []*Method) []*Method {
	var r []*Method
	for _, m := range ms {
		if m.Static && !m.IsConstructor() {
			r = append(r, m)
		}
	}
	return r
}
