package internal_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/zephyrtronium/dyncall"
	"github.com/zephyrtronium/dyncall/testutils"
)

type hostPoint struct {
	X, Y   int32
	Label  string
	hidden int
}

func TestInstanceProperties(t *testing.T) {
	rt := testutils.NewRuntime()
	free := rt.DefineClass("Free", nil)
	typed := rt.DefineClass("Typed", nil)
	typed.DefineProperty("count", dyncall.LongPrim).DefineProperty("name", dyncall.StringClass)
	th := rt.NewThread()

	f := dyncall.NewInstance(free)
	if err := th.SetProperty(f, "anything", "v"); err != nil {
		t.Fatal(err)
	}
	if v, err := th.GetProperty(f, "anything"); err != nil || v != "v" {
		t.Errorf("free property: %v, %v", v, err)
	}
	_, err := th.GetProperty(f, "unset")
	var mpe *dyncall.MissingPropertyError
	if !errors.As(err, &mpe) || mpe.Name != "unset" || mpe.Class != free {
		t.Errorf("expected missing property, got %v", err)
	}

	o := dyncall.NewInstance(typed)
	if v, err := th.GetProperty(o, "count"); err != nil || v != nil {
		t.Errorf("unset declared property: %v, %v", v, err)
	}
	if err := th.SetProperty(o, "count", int32(3)); err != nil {
		t.Fatal(err)
	}
	if v, _ := th.GetProperty(o, "count"); v != int64(3) {
		t.Errorf("count not coerced: %#v", v)
	}
	if err := th.SetProperty(o, "name", dyncall.NewGString("n", int32(1), "")); err != nil {
		t.Fatal(err)
	}
	if v, _ := th.GetProperty(o, "name"); v != "n1" {
		t.Errorf("name not coerced: %#v", v)
	}
	err = th.SetProperty(o, "count", 1.5)
	var te *dyncall.TypeCoercionError
	if !errors.As(err, &te) {
		t.Errorf("expected coercion failure, got %v", err)
	}
	if err := th.SetProperty(o, "other", int32(1)); !errors.As(err, &mpe) {
		t.Errorf("expected missing property, got %v", err)
	}
}

func TestAccessors(t *testing.T) {
	rt := testutils.NewRuntime()
	c := rt.DefineClass("Bean", nil)
	rt.Declare(
		dyncall.Func(c, "getSize", func(self *dyncall.Instance) int32 {
			v, _ := self.Field("raw")
			n, _ := v.(int32)
			return n * 10
		}),
		dyncall.Func(c, "isEmpty", func(self *dyncall.Instance) bool {
			_, ok := self.Field("raw")
			return !ok
		}),
		dyncall.Func(c, "setSize", func(self *dyncall.Instance, n int32) {
			self.SetField("raw", n)
		}),
		dyncall.Func(c, "setSize", func(self *dyncall.Instance, s string) {
			self.SetField("raw", int32(len(s)))
		}),
	)
	th := rt.NewThread()
	o := dyncall.NewInstance(c)
	if v, err := th.GetProperty(o, "empty"); err != nil || v != true {
		t.Errorf("isEmpty: %v, %v", v, err)
	}
	if err := th.SetProperty(o, "size", int64(4)); err != nil {
		t.Fatal(err)
	}
	if v, _ := th.GetProperty(o, "size"); v != int32(40) {
		t.Errorf("getSize after setSize(int): %#v", v)
	}
	if err := th.SetProperty(o, "size", "abc"); err != nil {
		t.Fatal(err)
	}
	if v, _ := th.GetProperty(o, "size"); v != int32(30) {
		t.Errorf("getSize after setSize(String): %#v", v)
	}
	if v, _ := th.GetProperty(o, "empty"); v != false {
		t.Errorf("isEmpty after set: %v", v)
	}
}

func TestStaticProperty(t *testing.T) {
	rt := testutils.NewRuntime()
	c := rt.DefineClass("Config", nil)
	var level int32
	rt.Declare(
		dyncall.StaticFunc(c, "getLevel", func() int32 { return level }),
		dyncall.StaticFunc(c, "setLevel", func(n int32) { level = n }),
	)
	th := rt.NewThread()
	if err := th.SetProperty(c, "level", int8(7)); err != nil {
		t.Fatal(err)
	}
	if v, err := th.GetProperty(c, "level"); err != nil || v != int32(7) {
		t.Errorf("static property: %v, %v", v, err)
	}
}

func TestMapProperties(t *testing.T) {
	th := testutils.Thread()
	m := map[string]interface{}{"a": int32(1)}
	if v, err := th.GetProperty(m, "a"); err != nil || v != int32(1) {
		t.Errorf("map get: %v, %v", v, err)
	}
	if v, err := th.GetProperty(m, "b"); err != nil || v != nil {
		t.Errorf("missing map key: %v, %v", v, err)
	}
	if err := th.SetProperty(m, "b", "x"); err != nil || m["b"] != "x" {
		t.Errorf("map set: %v, %v", m, err)
	}
}

func TestHostFields(t *testing.T) {
	rt := testutils.NewRuntime()
	pc := rt.DefineClass("HostPoint", nil)
	rt.Bind(reflect.TypeOf((*hostPoint)(nil)), pc)
	th := rt.NewThread()
	p := &hostPoint{X: 1, Label: "origin"}
	if v, err := th.GetProperty(p, "x"); err != nil || v != int32(1) {
		t.Errorf("get x: %v, %v", v, err)
	}
	if v, err := th.GetProperty(p, "label"); err != nil || v != "origin" {
		t.Errorf("get label: %v, %v", v, err)
	}
	if err := th.SetProperty(p, "y", int64(5)); err != nil {
		t.Fatal(err)
	}
	if p.Y != 5 {
		t.Errorf("y not set: %+v", p)
	}
	if err := th.SetProperty(p, "label", dyncall.NewGString("moved")); err != nil || p.Label != "moved" {
		t.Errorf("label not set: %+v, %v", p, err)
	}
	var mpe *dyncall.MissingPropertyError
	if _, err := th.GetProperty(p, "hidden"); !errors.As(err, &mpe) {
		t.Errorf("unexported field visible: %v", err)
	}
	if err := th.SetProperty(*p, "x", int32(2)); !errors.As(err, &mpe) {
		t.Errorf("set field of unaddressable struct: %v", err)
	}
}

func TestPropertyMissing(t *testing.T) {
	rt := testutils.NewRuntime()
	c := rt.DefineClass("Expando", nil)
	c.DefineProperty("real", dyncall.StringClass)
	store := map[string]interface{}{}
	rt.Declare(
		dyncall.Func(c, "propertyMissing", func(self *dyncall.Instance, name string) interface{} {
			return store[name]
		}),
		dyncall.Func(c, "propertyMissing", func(self *dyncall.Instance, name string, v interface{}) {
			store[name] = v
		}),
	)
	th := rt.NewThread()
	o := dyncall.NewInstance(c)
	if err := th.SetProperty(o, "virtual", int32(9)); err != nil {
		t.Fatal(err)
	}
	if store["virtual"] != int32(9) {
		t.Errorf("propertyMissing setter not called: %v", store)
	}
	if v, err := th.GetProperty(o, "virtual"); err != nil || v != int32(9) {
		t.Errorf("propertyMissing getter: %v, %v", v, err)
	}
	if err := th.SetProperty(o, "real", "r"); err != nil {
		t.Fatal(err)
	}
	if _, ok := store["real"]; ok {
		t.Error("declared property went to propertyMissing")
	}
}

func TestNullProperty(t *testing.T) {
	th := testutils.Thread()
	_, err := th.GetProperty(nil, "x")
	var nre *dyncall.NullReceiverError
	if !errors.As(err, &nre) || !nre.Property {
		t.Errorf("expected null receiver, got %v", err)
	}
	if err := th.SetProperty(nil, "x", int32(1)); !errors.As(err, &nre) {
		t.Errorf("expected null receiver, got %v", err)
	}
}
