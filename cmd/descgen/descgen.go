// Command descgen writes a model of the exported types of Go packages, for
// loading into dyncall with -m.
//
//	descgen -match '^(Shape|Square)$' ./shapes > shapes.yaml
//
// Exported structs become classes and exported interfaces become interfaces.
// A struct's first embedded struct is its superclass, and its exported
// fields are its properties. Methods declared directly on a type become its
// methods, and a function NewT returning T or *T becomes a constructor of T.
package main

import (
	"flag"
	"fmt"
	"go/types"
	"os"
	"regexp"
	"unicode"
	"unicode/utf8"

	"golang.org/x/tools/go/packages"

	"github.com/zephyrtronium/dyncall/model"
)

func main() {
	var match, ignore string
	flag.StringVar(&match, "match", ".", "include only types matching this regular expression")
	flag.StringVar(&ignore, "ignore", "$^", "exclude types matching this regular expression")
	flag.Parse()
	mre, err := regexp.Compile(match)
	if err != nil {
		fail("error compiling match:", err)
	}
	ire, err := regexp.Compile(ignore)
	if err != nil {
		fail("error compiling ignore:", err)
	}

	config := packages.Config{Mode: packages.NeedName | packages.NeedTypes | packages.NeedImports}
	pkgs, err := packages.Load(&config, flag.Args()...)
	if err != nil {
		fail("error loading packages:", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		os.Exit(1)
	}
	scopes := make([]*types.Scope, 0, len(pkgs))
	for _, pkg := range pkgs {
		scopes = append(scopes, pkg.Types.Scope())
	}
	m := describe(scopes, mre, ire)
	if err := m.Encode(os.Stdout); err != nil {
		fail("error writing model:", err)
	}
}

func fail(args ...interface{}) {
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}

// describer builds a model from selected type names.
type describer struct {
	// selected holds the type names that become classes.
	selected map[*types.TypeName]bool
	// byName finds selected type names by class name.
	byName map[string]*types.TypeName
	// ifaces lists the selected interfaces in scope order.
	ifaces []*types.TypeName
	// ctors maps type names to their constructor functions.
	ctors map[*types.TypeName][]*types.Func
}

// describe creates a model of the exported structs and interfaces in scopes
// whose names match mre and not ire. Classes are ordered so that each follows
// the classes it names.
func describe(scopes []*types.Scope, mre, ire *regexp.Regexp) *model.Model {
	d := &describer{
		selected: make(map[*types.TypeName]bool),
		byName:   make(map[string]*types.TypeName),
		ctors:    make(map[*types.TypeName][]*types.Func),
	}
	var objs []*types.TypeName
	for _, scope := range scopes {
		for _, name := range scope.Names() {
			obj, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !obj.Exported() || obj.IsAlias() || !mre.MatchString(name) || ire.MatchString(name) {
				continue
			}
			if _, dup := d.byName[name]; dup {
				continue
			}
			switch obj.Type().Underlying().(type) {
			case *types.Interface:
				d.ifaces = append(d.ifaces, obj)
			case *types.Struct:
			default:
				continue
			}
			d.selected[obj] = true
			d.byName[name] = obj
			objs = append(objs, obj)
		}
	}
	for _, scope := range scopes {
		for _, name := range scope.Names() {
			fn, ok := scope.Lookup(name).(*types.Func)
			if !ok || !fn.Exported() {
				continue
			}
			if obj := d.constructs(fn); obj != nil {
				d.ctors[obj] = append(d.ctors[obj], fn)
			}
		}
	}

	m := new(model.Model)
	visited := make(map[*types.TypeName]bool)
	var visit func(obj *types.TypeName)
	visit = func(obj *types.TypeName) {
		if visited[obj] {
			return
		}
		visited[obj] = true
		c := d.class(obj)
		if c.Super != "" {
			visit(d.byName[c.Super])
		}
		for _, name := range c.Interfaces {
			visit(d.byName[name])
		}
		m.Classes = append(m.Classes, c)
		m.Methods = append(m.Methods, d.methods(obj)...)
	}
	for _, obj := range objs {
		visit(obj)
	}
	return m
}

// class describes a selected type.
func (d *describer) class(obj *types.TypeName) model.Class {
	c := model.Class{Name: obj.Name()}
	switch u := obj.Type().Underlying().(type) {
	case *types.Interface:
		c.Interface = true
		for i := 0; i < u.NumEmbeddeds(); i++ {
			if n, ok := d.named(u.EmbeddedType(i)); ok {
				c.Interfaces = append(c.Interfaces, n.Name())
			}
		}
	case *types.Struct:
		for i := 0; i < u.NumFields(); i++ {
			f := u.Field(i)
			if f.Embedded() {
				if n, ok := d.named(f.Type()); ok && c.Super == "" && !types.IsInterface(n.Type()) {
					c.Super = n.Name()
				}
				continue
			}
			if !f.Exported() {
				continue
			}
			if c.Properties == nil {
				c.Properties = make(map[string]string)
			}
			c.Properties[propertyName(f.Name())] = d.className(f.Type())
		}
		t := obj.Type()
		for _, iface := range d.ifaces {
			it := iface.Type().Underlying().(*types.Interface)
			if it.Empty() {
				continue
			}
			if types.Implements(t, it) || types.Implements(types.NewPointer(t), it) {
				c.Interfaces = append(c.Interfaces, iface.Name())
			}
		}
	}
	return c
}

// methods describes the constructors of a selected type and the methods
// declared directly on it.
func (d *describer) methods(obj *types.TypeName) []model.Method {
	var r []model.Method
	for _, fn := range d.ctors[obj] {
		m := d.signature(obj, fn)
		m.Name = ""
		m.Return = ""
		m.Constructor = true
		r = append(r, m)
	}
	t := obj.Type()
	if u, ok := t.Underlying().(*types.Interface); ok {
		for i := 0; i < u.NumExplicitMethods(); i++ {
			if fn := u.ExplicitMethod(i); fn.Exported() {
				r = append(r, d.signature(obj, fn))
			}
		}
		return r
	}
	ms := types.NewMethodSet(types.NewPointer(t))
	for i := 0; i < ms.Len(); i++ {
		sel := ms.At(i)
		// Promoted methods belong to the embedded type.
		if len(sel.Index()) != 1 || !sel.Obj().Exported() {
			continue
		}
		r = append(r, d.signature(obj, sel.Obj().(*types.Func)))
	}
	return r
}

// signature describes a function as a method of obj.
func (d *describer) signature(obj *types.TypeName, fn *types.Func) model.Method {
	sig := fn.Type().(*types.Signature)
	m := model.Method{Owner: obj.Name(), Name: propertyName(fn.Name())}
	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		t := params.At(i).Type()
		if sig.Variadic() && i == params.Len()-1 {
			m.Params = append(m.Params, d.className(t.(*types.Slice).Elem())+"...")
			continue
		}
		m.Params = append(m.Params, d.className(t))
	}
	results := sig.Results()
	for i := 0; i < results.Len(); i++ {
		if t := results.At(i).Type(); !isError(t) {
			m.Return = d.className(t)
			break
		}
	}
	return m
}

// constructs returns the selected type that fn constructs, or nil if fn is
// not a constructor.
func (d *describer) constructs(fn *types.Func) *types.TypeName {
	sig := fn.Type().(*types.Signature)
	if sig.Recv() != nil || sig.Results().Len() == 0 {
		return nil
	}
	n, ok := d.named(sig.Results().At(0).Type())
	if !ok || types.IsInterface(n.Type()) || fn.Name() != "New"+n.Name() {
		return nil
	}
	return n
}

// named returns the selected type name of t or of what t points to.
func (d *describer) named(t types.Type) (*types.TypeName, bool) {
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	n, ok := t.(*types.Named)
	if !ok || !d.selected[n.Obj()] {
		return nil, false
	}
	return n.Obj(), true
}

// className gives the name of the class that represents values of t.
func (d *describer) className(t types.Type) string {
	if n, ok := d.named(t); ok {
		return n.Name()
	}
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	if n, ok := t.(*types.Named); ok && n.Obj().Pkg() != nil {
		switch n.Obj().Pkg().Path() + "." + n.Obj().Name() {
		case "math/big.Int":
			return "BigInteger"
		case "github.com/shopspring/decimal.Decimal":
			return "BigDecimal"
		}
	}
	switch u := t.Underlying().(type) {
	case *types.Basic:
		switch u.Kind() {
		case types.Bool:
			return "boolean"
		case types.Int8, types.Uint8:
			return "byte"
		case types.Int16, types.Uint16:
			return "short"
		case types.Int, types.Int32:
			return "int"
		case types.Int64, types.Uint, types.Uint32, types.Uint64, types.Uintptr:
			return "long"
		case types.Float32:
			return "float"
		case types.Float64:
			return "double"
		case types.String:
			return "String"
		}
	case *types.Slice:
		if isEmptyInterface(u.Elem()) {
			return "List"
		}
		return d.className(u.Elem()) + "[]"
	case *types.Array:
		return d.className(u.Elem()) + "[]"
	case *types.Map:
		if k, ok := u.Key().Underlying().(*types.Basic); ok && k.Kind() == types.String {
			return "Map"
		}
	}
	return "Object"
}

func isError(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}

func isEmptyInterface(t types.Type) bool {
	i, ok := t.Underlying().(*types.Interface)
	return ok && i.Empty()
}

// propertyName lower-cases the first letter of a Go name, unless the name
// starts with an initialism.
func propertyName(name string) string {
	r, n := utf8.DecodeRuneInString(name)
	if s, _ := utf8.DecodeRuneInString(name[n:]); unicode.IsUpper(s) {
		return name
	}
	return string(unicode.ToLower(r)) + name[n:]
}
