package main

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"reflect"
	"regexp"
	"testing"

	"github.com/zephyrtronium/dyncall"
	"github.com/zephyrtronium/dyncall/model"
)

const shapes = `package shapes

type Shape interface{ Area() float64 }

type Named interface {
	Shape
	Name() string
}

type Base struct{ ID int }

func (b *Base) Describe(prefix string, rest ...interface{}) string { return prefix }

type Square struct {
	*Base
	Side   float64
	Tags   []string
	Meta   map[string]interface{}
	Items  []interface{}
	hidden int
}

func NewSquare(side float64) *Square { return &Square{Side: side} }

func (s Square) Area() float64                   { return s.Side * s.Side }
func (s *Square) Name() string                   { return "square" }
func (s *Square) Scale(by int32) (*Square, error) { return s, nil }
func (s *Square) unexported()                    {}

type Celsius float64

type point struct{}
`

func check(t *testing.T, src string) *types.Scope {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "shapes.go", src, 0)
	if err != nil {
		t.Fatal(err)
	}
	pkg, err := new(types.Config).Check("shapes", fset, []*ast.File{f}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return pkg.Scope()
}

func TestDescribe(t *testing.T) {
	m := describe([]*types.Scope{check(t, shapes)}, regexp.MustCompile("."), regexp.MustCompile("$^"))
	want := &model.Model{
		Classes: []model.Class{
			{Name: "Base", Properties: map[string]string{"ID": "int"}},
			{Name: "Shape", Interface: true},
			{Name: "Named", Interface: true, Interfaces: []string{"Shape"}},
			{
				Name:       "Square",
				Super:      "Base",
				Interfaces: []string{"Named", "Shape"},
				Properties: map[string]string{"side": "double", "tags": "String[]", "meta": "Map", "items": "List"},
			},
		},
		Methods: []model.Method{
			{Owner: "Base", Name: "describe", Params: []string{"String", "Object..."}, Return: "String"},
			{Owner: "Shape", Name: "area", Return: "double"},
			{Owner: "Named", Name: "name", Return: "String"},
			{Owner: "Square", Params: []string{"double"}, Constructor: true},
			{Owner: "Square", Name: "area", Return: "double"},
			{Owner: "Square", Name: "name", Return: "String"},
			{Owner: "Square", Name: "scale", Params: []string{"int"}, Return: "Square"},
		},
	}
	if !reflect.DeepEqual(m.Classes, want.Classes) {
		t.Errorf("wrong classes:\nwant %+v\nhave %+v", want.Classes, m.Classes)
	}
	if !reflect.DeepEqual(m.Methods, want.Methods) {
		t.Errorf("wrong methods:\nwant %+v\nhave %+v", want.Methods, m.Methods)
	}
}

func TestDescribeFilter(t *testing.T) {
	m := describe([]*types.Scope{check(t, shapes)}, regexp.MustCompile("^S"), regexp.MustCompile("^Shape$"))
	if len(m.Classes) != 1 || m.Classes[0].Name != "Square" {
		t.Fatalf("wrong classes %+v", m.Classes)
	}
	c := m.Classes[0]
	if c.Super != "" || len(c.Interfaces) != 0 {
		t.Errorf("filtered classes referenced: %+v", c)
	}
	for _, meth := range m.Methods {
		if meth.Name == "scale" && meth.Return != "Square" {
			t.Errorf("scale returns %s", meth.Return)
		}
	}
}

// TestDescribeInstall tests that a described model installs and dispatches.
func TestDescribeInstall(t *testing.T) {
	m := describe([]*types.Scope{check(t, shapes)}, regexp.MustCompile("."), regexp.MustCompile("$^"))
	rt := dyncall.NewRuntime()
	if _, err := m.Install(rt); err != nil {
		t.Fatal(err)
	}
	th := rt.NewThread()
	sq, err := th.Construct("Square", 2.0)
	if err != nil {
		t.Fatal(err)
	}
	r, err := th.Invoke(sq, "describe", "x")
	if err != nil {
		t.Fatal(err)
	}
	if r != "Base.describe(String, Object...)" {
		t.Errorf("describe selected %v", r)
	}
	named, _ := rt.ClassNamed("Named")
	if !rt.ClassOf(sq).IsKindOf(named) {
		t.Errorf("%v is not Named", rt.ClassOf(sq))
	}
}

func TestPropertyName(t *testing.T) {
	cases := map[string]string{
		"Size": "size",
		"ID":   "ID",
		"URL":  "URL",
		"X":    "x",
		"Ünit": "ünit",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			if have := propertyName(in); have != want {
				t.Errorf("want %s, have %s", want, have)
			}
		})
	}
}
