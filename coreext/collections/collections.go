// Package collections declares the default methods of Map and List.
package collections

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/zephyrtronium/dyncall"
	"github.com/zephyrtronium/dyncall/internal"
)

func init() {
	internal.Register(initCollections)
}

func initCollections(rt *dyncall.Runtime) {
	m, l := dyncall.MapClass, dyncall.ListClass
	rt.Declare(
		dyncall.Func(m, "size", mapSize),
		dyncall.Func(m, "isEmpty", mapIsEmpty),
		dyncall.Func(m, "get", mapGet),
		dyncall.Func(m, "getAt", mapGet),
		dyncall.Func(m, "put", mapPut),
		dyncall.Func(m, "putAt", mapPut),
		dyncall.Func(m, "containsKey", containsKey),
		dyncall.Func(m, "keySet", keySet),
		dyncall.Func(l, "size", listSize),
		dyncall.Func(l, "isEmpty", listIsEmpty),
		dyncall.Func(l, "get", listGet),
		dyncall.Func(l, "getAt", listGetAt),
		dyncall.Func(l, "contains", listContains),
		dyncall.Func(l, "plus", listPlus),
		dyncall.Func(l, "plus", listConcat),
		dyncall.Func(l, "join", join),
	)
}

// IndexError is the failure of indexing a list out of its range.
type IndexError struct {
	Index, Len int
}

func (err *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range for length %d", err.Index, err.Len)
}

// mapSize is a Map method.
func mapSize(self map[string]interface{}) int32 {
	return int32(len(self))
}

// mapIsEmpty is a Map method.
func mapIsEmpty(self map[string]interface{}) bool {
	return len(self) == 0
}

// mapGet is a Map method.
//
// get returns the value at a key, or null if there is none. getAt is a
// synonym.
func mapGet(self map[string]interface{}, key string) interface{} {
	return self[key]
}

// mapPut is a Map method.
//
// put sets the value at a key and returns the previous value. putAt is a
// synonym.
func mapPut(self map[string]interface{}, key string, v interface{}) interface{} {
	old := self[key]
	self[key] = v
	return old
}

// containsKey is a Map method.
func containsKey(self map[string]interface{}, key string) bool {
	_, ok := self[key]
	return ok
}

// keySet is a Map method.
//
// keySet returns a list of the map's keys in sorted order.
func keySet(self map[string]interface{}) []interface{} {
	keys := make([]string, 0, len(self))
	for k := range self {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	r := make([]interface{}, len(keys))
	for i, k := range keys {
		r[i] = k
	}
	return r
}

// listSize is a List method.
func listSize(self []interface{}) int32 {
	return int32(len(self))
}

// listIsEmpty is a List method.
func listIsEmpty(self []interface{}) bool {
	return len(self) == 0
}

// listGet is a List method.
//
// get returns the element at an index.
func listGet(self []interface{}, i int32) (interface{}, error) {
	if i < 0 || int(i) >= len(self) {
		return nil, &IndexError{Index: int(i), Len: len(self)}
	}
	return self[i], nil
}

// listGetAt is a List method.
//
// getAt is like get, but negative indices count from the end.
func listGetAt(self []interface{}, i int32) (interface{}, error) {
	k := int(i)
	if k < 0 {
		k += len(self)
	}
	if k < 0 || k >= len(self) {
		return nil, &IndexError{Index: int(i), Len: len(self)}
	}
	return self[k], nil
}

// listContains is a List method.
func listContains(self []interface{}, v interface{}) bool {
	for _, x := range self {
		if reflect.DeepEqual(x, v) {
			return true
		}
	}
	return false
}

// listPlus is a List method.
//
// plus returns a new list with the argument appended.
func listPlus(self []interface{}, v interface{}) []interface{} {
	r := make([]interface{}, len(self), len(self)+1)
	copy(r, self)
	return append(r, v)
}

// listConcat is a List method.
//
// plus with a List argument returns a new list with the argument's elements
// appended.
func listConcat(self, other []interface{}) []interface{} {
	r := make([]interface{}, 0, len(self)+len(other))
	r = append(r, self...)
	return append(r, other...)
}

// join is a List method.
//
// join returns the string forms of the elements separated by the argument.
func join(self []interface{}, sep string) string {
	s := make([]string, len(self))
	for i, v := range self {
		s[i] = dyncall.Text(v)
	}
	return strings.Join(s, sep)
}
