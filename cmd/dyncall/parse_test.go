package main

import (
	"fmt"
	"strings"
	"testing"
)

// String renders a node in the syntax it was parsed from, with literals
// annotated by their Go types.
func (n *node) String() string {
	switch n.Kind {
	case literalNode:
		if n.Value == nil {
			return "null"
		}
		return fmt.Sprintf("%T(%v)", n.Value, n.Value)
	case classNode:
		return n.Name
	case listNode:
		return "[" + nodeList(n.Args) + "]"
	case newNode:
		return "new " + n.Name + "(" + nodeList(n.Args) + ")"
	case callNode:
		return n.Recv.String() + "." + n.Name + "(" + nodeList(n.Args) + ")"
	case propNode:
		return n.Recv.String() + "." + n.Name
	case spreadNode:
		return "*" + n.Args[0].String()
	}
	panic("invalid nodeKind")
}

func nodeList(nodes []*node) string {
	s := make([]string, len(nodes))
	for i, n := range nodes {
		s[i] = n.String()
	}
	return strings.Join(s, ", ")
}

func TestParse(t *testing.T) {
	cases := map[string]struct {
		src  string
		want string
	}{
		"int":          {"1", "int32(1)"},
		"negative":     {"-3", "int32(-3)"},
		"decimal":      {"1.5", "decimal.Decimal(1.5)"},
		"string":       {`"hi"`, "string(hi)"},
		"single-quote": {`'a"b'`, `string(a"b)`},
		"escape":       {`"a\tb"`, "string(a\tb)"},
		"null":         {"null", "null"},
		"true":         {"true", "bool(true)"},
		"false":        {"false", "bool(false)"},
		"class":        {"Foo", "Foo"},
		"prop":         {"Foo.bar", "Foo.bar"},
		"static":       {"Foo.bar()", "Foo.bar()"},
		"number-call":  {"1.plus(2)", "int32(1).plus(int32(2))"},
		"paren":        {"(1).plus(2)", "int32(1).plus(int32(2))"},
		"empty-list":   {"[]", "[]"},
		"list":         {`[1, "a", null]`, "[int32(1), string(a), null]"},
		"new":          {"new Foo()", "new Foo()"},
		"chain":        {`new Foo(1, "a").bar(*[2L], null).baz`, "new Foo(int32(1), string(a)).bar(*[int64(2)], null).baz"},
		"spread":       {"f.g(*xs, 1)", "f.g(*xs, int32(1))"},
		"space":        {" Foo . bar ( 1 , 2 ) ", "Foo.bar(int32(1), int32(2))"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			n, err := parse(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if have := n.String(); have != c.want {
				t.Errorf("%q parsed wrong: want %s, have %s", c.src, c.want, have)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"new-number":    "new 1",
		"new-no-args":   "new Foo",
		"dot-paren":     "Foo.(",
		"unclosed-list": "[1, 2",
		"unclosed-call": "Foo.bar(",
		"trailing":      "1 2",
		"close":         ")",
		"mismatch":      "[1)",
		"bad-exponent":  "1e",
		"bad-string":    `"abc`,
		"bad-char":      "a.b(#)",
		"int-range":     "99999999999i",
		"trailing-dot":  "Foo.",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			n, err := parse(src)
			if err == nil {
				t.Errorf("%q parsed without error as %v", src, n)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	cases := map[string]string{
		"1":                   "int32 1",
		"-2":                  "int32 -2",
		"2147483648":          "int64 2147483648",
		"9223372036854775808": "*big.Int 9223372036854775808",
		"7i":                  "int32 7",
		"7L":                  "int64 7",
		"7G":                  "*big.Int 7",
		"1.5f":                "float32 1.5",
		"1.5d":                "float64 1.5",
		"2d":                  "float64 2",
		"1.5":                 "decimal.Decimal 1.5",
		"1e3":                 "decimal.Decimal 1000",
	}
	for src, want := range cases {
		t.Run(src, func(t *testing.T) {
			v, err := parseNumber(src)
			if err != nil {
				t.Fatal(err)
			}
			if have := fmt.Sprintf("%T %v", v, v); have != want {
				t.Errorf("want %s, have %s", want, have)
			}
		})
	}
}
