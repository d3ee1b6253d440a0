// Package model loads type models: YAML descriptions of classes and method
// signatures that stand in for compiled types when exploring dispatch.
//
// A model file looks like this:
//
//	classes:
//	  - name: Base
//	  - name: Derived
//	    super: Base
//	    properties:
//	      size: int
//	methods:
//	  - {owner: Base, name: greet, params: [String]}
//	  - {owner: Derived, name: greet, params: [Object]}
//	  - {owner: Derived, name: all, params: ["String..."], static: true}
//	  - {owner: Derived, constructor: true, params: [int]}
//
// Methods in a model have no bodies. Calling one returns its signature, and
// calling a constructor returns a new instance of its class.
package model

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/zephyrtronium/dyncall"
)

// Model is a set of class and method declarations.
type Model struct {
	Classes []Class  `yaml:"classes,omitempty"`
	Methods []Method `yaml:"methods,omitempty"`
}

// Class describes a class or interface.
type Class struct {
	Name       string            `yaml:"name"`
	Super      string            `yaml:"super,omitempty"`
	Interface  bool              `yaml:"interface,omitempty"`
	Interfaces []string          `yaml:"interfaces,omitempty"`
	Properties map[string]string `yaml:"properties,omitempty"`
}

// Method describes a method signature. A parameter class name ending in
// "..." declares a varargs slot.
type Method struct {
	Owner       string   `yaml:"owner"`
	Name        string   `yaml:"name,omitempty"`
	Params      []string `yaml:"params,omitempty,flow"`
	Return      string   `yaml:"return,omitempty"`
	Static      bool     `yaml:"static,omitempty"`
	Constructor bool     `yaml:"constructor,omitempty"`
}

// Decode reads a model from r.
func Decode(r io.Reader) (*Model, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("dyncall: reading model: %w", err)
	}
	var m Model
	if err := yaml.UnmarshalStrict(b, &m); err != nil {
		return nil, fmt.Errorf("dyncall: decoding model: %w", err)
	}
	return &m, nil
}

// LoadFile reads a model from the named file.
func LoadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dyncall: opening model: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes the model to w as YAML.
func (m *Model) Encode(w io.Writer) error {
	b, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("dyncall: encoding model: %w", err)
	}
	_, err = w.Write(b)
	return err
}

// Install defines the model's classes in rt and declares its methods. Classes
// may refer to builtin classes, classes already defined in rt, and classes
// earlier in the model. The returned methods are in model order.
func (m *Model) Install(rt *dyncall.Runtime) ([]*dyncall.Method, error) {
	for _, c := range m.Classes {
		if err := c.define(rt); err != nil {
			return nil, err
		}
	}
	methods := make([]*dyncall.Method, 0, len(m.Methods))
	for _, d := range m.Methods {
		mm, err := d.method(rt)
		if err != nil {
			return nil, err
		}
		methods = append(methods, mm)
	}
	rt.Declare(methods...)
	return methods, nil
}

func (c *Class) define(rt *dyncall.Runtime) error {
	if c.Name == "" {
		return fmt.Errorf("dyncall: model class with no name")
	}
	ifaces := make([]*dyncall.Class, len(c.Interfaces))
	for i, name := range c.Interfaces {
		k, err := lookup(rt, name)
		if err != nil {
			return fmt.Errorf("dyncall: interfaces of %s: %w", c.Name, err)
		}
		if !k.IsInterface() {
			return fmt.Errorf("dyncall: %s implements non-interface %s", c.Name, k)
		}
		ifaces[i] = k
	}
	if c.Interface {
		if c.Super != "" {
			return fmt.Errorf("dyncall: interface %s has a superclass", c.Name)
		}
		rt.DefineInterface(c.Name, ifaces...)
		return nil
	}
	var super *dyncall.Class
	if c.Super != "" {
		s, err := lookup(rt, c.Super)
		if err != nil {
			return fmt.Errorf("dyncall: superclass of %s: %w", c.Name, err)
		}
		if s.IsInterface() || s.IsPrimitive() || s.IsArray() {
			return fmt.Errorf("dyncall: %s cannot extend %s", c.Name, s)
		}
		super = s
	}
	k := rt.DefineClass(c.Name, super, ifaces...)
	names := make([]string, 0, len(c.Properties))
	for name := range c.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t, err := lookup(rt, c.Properties[name])
		if err != nil {
			return fmt.Errorf("dyncall: property %s.%s: %w", c.Name, name, err)
		}
		k.DefineProperty(name, t)
	}
	return nil
}

func (d *Method) method(rt *dyncall.Runtime) (*dyncall.Method, error) {
	owner, err := lookup(rt, d.Owner)
	if err != nil {
		return nil, fmt.Errorf("dyncall: owner of %s: %w", d.Name, err)
	}
	params := make([]*dyncall.Class, len(d.Params))
	for i, name := range d.Params {
		vararg := strings.HasSuffix(name, "...")
		if vararg && i != len(d.Params)-1 {
			return nil, fmt.Errorf("dyncall: %s.%s: only the last parameter may be varargs", d.Owner, d.Name)
		}
		p, err := lookup(rt, strings.TrimSuffix(name, "..."))
		if err != nil {
			return nil, fmt.Errorf("dyncall: parameter %d of %s.%s: %w", i, d.Owner, d.Name, err)
		}
		if vararg {
			p = dyncall.ArrayOf(p)
		}
		params[i] = p
	}
	var m *dyncall.Method
	switch {
	case d.Constructor:
		m = dyncall.NewConstructor(owner, construct(owner), params...)
	case d.Name == "":
		return nil, fmt.Errorf("dyncall: method of %s with no name", d.Owner)
	case d.Static:
		m = dyncall.NewStatic(owner, d.Name, nil, params...)
	default:
		m = dyncall.NewMethod(owner, d.Name, nil, params...)
	}
	if d.Return != "" && d.Return != "void" {
		r, err := lookup(rt, d.Return)
		if err != nil {
			return nil, fmt.Errorf("dyncall: return of %s.%s: %w", d.Owner, d.Name, err)
		}
		m.Returning(r)
	}
	if m.Fn == nil {
		m.Fn = signature(m)
	}
	return m, nil
}

// signature creates the body of a model method, which reports the method.
func signature(m *dyncall.Method) dyncall.Fn {
	s := m.String()
	return func(th *dyncall.Thread, self interface{}, args []interface{}) (interface{}, error) {
		return s, nil
	}
}

// construct creates the body of a model constructor.
func construct(c *dyncall.Class) dyncall.Fn {
	return func(th *dyncall.Thread, self interface{}, args []interface{}) (interface{}, error) {
		return dyncall.NewInstance(c), nil
	}
}

// lookup finds a class by name. A name ending in "[]" names an array class.
func lookup(rt *dyncall.Runtime, name string) (*dyncall.Class, error) {
	if c, ok := rt.ClassNamed(name); ok {
		return c, nil
	}
	if elem := strings.TrimSuffix(name, "[]"); elem != name {
		c, err := lookup(rt, elem)
		if err != nil {
			return nil, err
		}
		return dyncall.ArrayOf(c), nil
	}
	return nil, &dyncall.UnknownClassError{Name: name}
}
