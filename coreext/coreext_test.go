package coreext_test

import (
	"testing"

	"github.com/zephyrtronium/dyncall"
	_ "github.com/zephyrtronium/dyncall/coreext" // side effects
	"github.com/zephyrtronium/dyncall/testutils"
)

func TestRegister(t *testing.T) {
	rt := testutils.Runtime()
	testutils.CheckMethods(t, rt, dyncall.StringClass, []string{"capitalize", "equals", "plus", "size", "toString"})
	testutils.CheckMethods(t, rt, dyncall.IntegerClass, []string{"compareTo", "getClass", "plus"})
	testutils.CheckMethods(t, rt, dyncall.ArrayListClass, []string{"join", "plus", "respondsTo"})
}

// TestPlusOverloads tests that plus resolves by receiver and argument across
// the extension packages.
func TestPlusOverloads(t *testing.T) {
	th := testutils.Thread()
	cases := map[string]struct {
		recv, arg interface{}
		want      interface{}
	}{
		"string-int":  {"a", int32(1), "a1"},
		"int-string":  {int32(1), "a", "1a"},
		"int-int":     {int32(1), int32(1), int32(2)},
		"gstr-double": {dyncall.NewGString("n=", int32(1)), 0.5, "n=10.5"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			r, err := th.Invoke(c.recv, "plus", c.arg)
			if err != nil {
				t.Fatal(err)
			}
			if r != c.want {
				t.Errorf("want %#v, have %#v", c.want, r)
			}
		})
	}
}
