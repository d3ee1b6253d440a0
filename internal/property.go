package internal

import (
	"reflect"
	"sort"
)

// PropertyHolder is implemented by receivers that resolve their own
// properties.
type PropertyHolder interface {
	GetProperty(th *Thread, name string) (interface{}, error)
	SetProperty(th *Thread, name string, value interface{}) error
}

// GetProperty reads a property of receiver. It tries, in order: the
// receiver's PropertyHolder hook, the entry of a map receiver, a getter
// method (getName, or isName returning a boolean) including category
// getters, a field of an *Instance, and a propertyMissing method.
func (th *Thread) GetProperty(receiver interface{}, name string) (interface{}, error) {
	if receiver == nil {
		return nil, &NullReceiverError{Name: name, Property: true}
	}
	switch r := receiver.(type) {
	case PropertyHolder:
		return r.GetProperty(th, name)
	case map[string]interface{}:
		return r[name], nil
	}
	c := th.rt.ClassOf(receiver)
	up := th.capitalize(name)
	if cls, ok := receiver.(*Class); ok {
		if m := getter(statics(th.CandidatesFor(cls, "get"+up)), false); m != nil {
			return th.Call(m, nil, nil)
		}
	}
	if m := getter(th.CandidatesFor(c, "get"+up), false); m != nil {
		return th.Call(m, receiver, nil)
	}
	if m := getter(th.CandidatesFor(c, "is"+up), true); m != nil {
		return th.Call(m, receiver, nil)
	}
	if o, ok := receiver.(*Instance); ok {
		if v, ok := o.Field(name); ok {
			return v, nil
		}
		if _, ok := c.Property(name); ok {
			return nil, nil
		}
	}
	if f, ok := hostField(receiver, up); ok {
		return f.Interface(), nil
	}
	if m, ok := SelectBest(th.CandidatesFor(c, propertyMissingName), []*Class{StringClass}); ok {
		return th.Call(m, receiver, []interface{}{name})
	}
	return nil, &MissingPropertyError{Name: name, Class: c}
}

// SetProperty writes a property of receiver. It tries, in order: the
// receiver's PropertyHolder hook, a map receiver's entry, the most specific
// setter method (setName) for the value including category setters, a field
// of an *Instance, and a propertyMissing method taking the name and value.
//
// Instance fields of a class that declares properties are restricted to
// those properties, and values are coerced to the declared class.
func (th *Thread) SetProperty(receiver interface{}, name string, value interface{}) error {
	if receiver == nil {
		return &NullReceiverError{Name: name, Property: true}
	}
	switch r := receiver.(type) {
	case PropertyHolder:
		return r.SetProperty(th, name, value)
	case map[string]interface{}:
		r[name] = value
		return nil
	}
	c := th.rt.ClassOf(receiver)
	vc := []*Class{th.rt.ClassOf(value)}
	setName := "set" + th.capitalize(name)
	if cls, ok := receiver.(*Class); ok {
		if m, ok := SelectBest(unary(statics(th.CandidatesFor(cls, setName))), vc); ok {
			_, err := th.Call(m, nil, []interface{}{value})
			return err
		}
	}
	if m, ok := SelectBest(unary(th.CandidatesFor(c, setName)), vc); ok {
		_, err := th.Call(m, receiver, []interface{}{value})
		return err
	}
	if o, ok := receiver.(*Instance); ok {
		if t, ok := c.Property(name); ok {
			v, err := Coerce(value, t)
			if err != nil {
				return err
			}
			o.SetField(name, v)
			return nil
		}
		if !c.hasProperties() {
			o.SetField(name, value)
			return nil
		}
	}
	if f, ok := hostField(receiver, th.capitalize(name)); ok && f.CanSet() {
		v, err := Coerce(value, ClassForType(f.Type()))
		if err != nil {
			return err
		}
		g, err := goValue(v, f.Type())
		if err != nil {
			return err
		}
		f.Set(g)
		return nil
	}
	if m, ok := SelectBest(th.CandidatesFor(c, propertyMissingName), []*Class{StringClass, vc[0]}); ok {
		_, err := th.Call(m, receiver, []interface{}{name, value})
		return err
	}
	return &MissingPropertyError{Name: name, Class: c}
}

// hostField returns the exported field of a host Go struct, or a pointer to
// one, with the given name. Instances are not host structs.
func hostField(v interface{}, name string) (reflect.Value, bool) {
	if _, ok := v.(*Instance); ok {
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	sf, ok := rv.Type().FieldByName(name)
	if !ok || sf.PkgPath != "" {
		return reflect.Value{}, false
	}
	return rv.FieldByIndex(sf.Index), true
}

// getter returns the first method without parameters among ms. If boolean is
// true, the method must also return a boolean.
func getter(ms []*Method, boolean bool) *Method {
	for _, m := range ms {
		if len(m.Params) != 0 {
			continue
		}
		if boolean && m.Return != BoolPrim && m.Return != BooleanClass {
			continue
		}
		return m
	}
	return nil
}

// unary returns the methods among ms that take exactly one parameter.
func unary(ms []*Method) []*Method {
	var r []*Method
	for _, m := range ms {
		if len(m.Params) == 1 {
			r = append(r, m)
		}
	}
	return r
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
