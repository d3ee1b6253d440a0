package model_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zephyrtronium/dyncall"
	"github.com/zephyrtronium/dyncall/model"
)

const greeting = `
classes:
  - name: Greeter
    interface: true
  - name: Base
  - name: Derived
    super: Base
    interfaces: [Greeter]
    properties:
      size: int
      label: String
methods:
  - {owner: Base, name: greet, params: [String]}
  - {owner: Derived, name: greet, params: [Object]}
  - {owner: Greeter, name: wave}
  - {owner: Derived, name: all, params: [int, "String..."], static: true, return: String}
  - {owner: Derived, constructor: true, params: [int]}
`

func install(t *testing.T, src string) (*dyncall.Runtime, []*dyncall.Method) {
	t.Helper()
	m, err := model.Decode(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	rt := dyncall.NewRuntime()
	methods, err := m.Install(rt)
	if err != nil {
		t.Fatal(err)
	}
	return rt, methods
}

func TestInstall(t *testing.T) {
	rt, methods := install(t, greeting)
	if len(methods) != 5 {
		t.Fatalf("want 5 methods, have %v", methods)
	}
	derived, ok := rt.ClassNamed("Derived")
	if !ok {
		t.Fatal("Derived not defined")
	}
	base, _ := rt.ClassNamed("Base")
	greeter, _ := rt.ClassNamed("Greeter")
	if derived.Super() != base || !derived.IsKindOf(greeter) || !greeter.IsInterface() {
		t.Errorf("wrong hierarchy for %v", derived)
	}
	if m := methods[3]; !m.IsVarargs() || m.Return != dyncall.StringClass || !m.Static {
		t.Errorf("wrong static method %v", m)
	}
	if m := methods[4]; !m.IsConstructor() || m.Owner != derived {
		t.Errorf("wrong constructor %v", m)
	}
}

// TestInstalledDispatch tests that dispatch over an installed model selects
// by specificity and reports the selected signature.
func TestInstalledDispatch(t *testing.T) {
	rt, _ := install(t, greeting)
	th := rt.NewThread()
	obj, err := th.Construct("Derived", int8(1))
	if err != nil {
		t.Fatal(err)
	}
	cases := map[string]struct {
		name string
		args []interface{}
		want string
	}{
		"string": {"greet", []interface{}{"hi"}, "Base.greet(String)"},
		"object": {"greet", []interface{}{int32(1)}, "Derived.greet(Object)"},
		"iface":  {"wave", nil, "Greeter.wave()"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			r, err := th.Invoke(obj, c.name, c.args...)
			if err != nil {
				t.Fatal(err)
			}
			if r != c.want {
				t.Errorf("want %s, have %v", c.want, r)
			}
		})
	}
	r, err := th.InvokeStatic("Derived", "all", int32(1), "a", "b")
	if err != nil || r != "static Derived.all(int, String...)" {
		t.Errorf("static varargs: %v, %v", r, err)
	}
	if err := th.SetProperty(obj, "size", int8(3)); err != nil {
		t.Fatal(err)
	}
	if v, _ := th.GetProperty(obj, "size"); v != int32(3) {
		t.Errorf("size: %#v", v)
	}
}

func TestInstallErrors(t *testing.T) {
	cases := map[string]string{
		"unknown-super":    "classes: [{name: A, super: Nope}]",
		"unknown-iface":    "classes: [{name: A, interfaces: [Nope]}]",
		"class-iface":      "classes: [{name: A}, {name: B, interfaces: [A]}]",
		"iface-super":      "classes: [{name: A, interface: true, super: Object}]",
		"extend-prim":      "classes: [{name: A, super: int}]",
		"unknown-prop":     "classes: [{name: A, properties: {x: Nope}}]",
		"unknown-owner":    "methods: [{owner: Nope, name: f}]",
		"unknown-param":    "methods: [{owner: Object, name: f, params: [Nope]}]",
		"unknown-array":    `methods: [{owner: Object, name: f, params: ["Nope[]"]}]`,
		"unknown-return":   "methods: [{owner: Object, name: f, return: Nope}]",
		"varargs-not-last": `methods: [{owner: Object, name: f, params: ["int...", int]}]`,
		"no-name":          "methods: [{owner: Object}]",
		"no-class-name":    "classes: [{super: Object}]",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			m, err := model.Decode(strings.NewReader(src))
			if err != nil {
				t.Fatal(err)
			}
			if _, err := m.Install(dyncall.NewRuntime()); err == nil {
				t.Error("no error")
			}
		})
	}
	m, _ := model.Decode(strings.NewReader("methods: [{owner: Nope, name: f}]"))
	_, err := m.Install(dyncall.NewRuntime())
	var uce *dyncall.UnknownClassError
	if !errors.As(err, &uce) || uce.Name != "Nope" {
		t.Errorf("want unknown class Nope, have %v", err)
	}
}

func TestInstallArrays(t *testing.T) {
	rt, methods := install(t, `methods: [{owner: Object, name: first, params: ["String[]", "int[][]"], return: "Object[]"}]`)
	m := methods[0]
	if m.Params[0] != dyncall.ArrayOf(dyncall.StringClass) {
		t.Errorf("first param: want String[], have %v", m.Params[0])
	}
	if m.Params[1] != dyncall.ArrayOf(dyncall.ArrayOf(dyncall.IntPrim)) {
		t.Errorf("second param: want int[][], have %v", m.Params[1])
	}
	if m.Return != dyncall.ArrayOf(dyncall.ObjectClass) {
		t.Errorf("return: want Object[], have %v", m.Return)
	}
	if _, ok := rt.ClassNamed("String[]"); ok {
		t.Error("array class was defined by name")
	}
}

func TestDecodeStrict(t *testing.T) {
	if _, err := model.Decode(strings.NewReader("klasses: []")); err == nil {
		t.Error("unknown field accepted")
	}
}

func TestEncode(t *testing.T) {
	m, err := model.Decode(strings.NewReader(greeting))
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err := m.Encode(&b); err != nil {
		t.Fatal(err)
	}
	n, err := model.Decode(&b)
	if err != nil {
		t.Fatalf("re-decoding %q: %v", b.String(), err)
	}
	if len(n.Classes) != 3 || len(n.Methods) != 5 || n.Methods[3].Params[1] != "String..." {
		t.Errorf("encoded model lost declarations: %+v", n)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	if err := os.WriteFile(path, []byte(greeting), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := model.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Classes) != 3 {
		t.Errorf("loaded %+v", m)
	}
	if _, err := model.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("loaded a missing file")
	}
}
