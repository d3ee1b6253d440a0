package internal

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultRenderLimit is the default length beyond which argument values are
// cut in error messages and traces.
const DefaultRenderLimit = 12

// NullReceiverError is returned when a method or property is requested from a
// null receiver.
type NullReceiverError struct {
	// Name is the method or property name.
	Name string
	// Property is true for property access.
	Property bool
}

func (err *NullReceiverError) Error() string {
	if err.Property {
		return fmt.Sprintf("cannot get property '%s' on null object", err.Name)
	}
	return fmt.Sprintf("cannot invoke method %s() on null object", err.Name)
}

// MissingMethodError is returned when no method is applicable to a call.
type MissingMethodError struct {
	// Name is the method name.
	Name string
	// Class is the receiver's class, or the class named in a static call.
	Class *Class
	// Args are the call's actual arguments after spread flattening.
	Args []interface{}
	// Static is true for static calls and constructor calls.
	Static bool
	// Suggestions are descriptors of similar methods.
	Suggestions []string

	limit int
}

func (err *MissingMethodError) Error() string {
	var b strings.Builder
	b.WriteString("no signature of method: ")
	if err.Static {
		b.WriteString("static ")
	}
	fmt.Fprintf(&b, "%v.%s() is applicable for argument types: (%s) values: [%s]",
		err.Class, err.Name, renderClasses(err.Args), renderValues(err.Args, err.limit))
	if len(err.Suggestions) > 0 {
		b.WriteString("\npossible solutions: ")
		b.WriteString(strings.Join(err.Suggestions, ", "))
	}
	return b.String()
}

// matches returns whether err reports a miss of name on class.
func (err *MissingMethodError) matches(name string, class *Class) bool {
	return err.Name == name && err.Class == class
}

// MissingPropertyError is returned when a property cannot be read or written.
type MissingPropertyError struct {
	Name  string
	Class *Class
}

func (err *MissingPropertyError) Error() string {
	return fmt.Sprintf("no such property: %s for class: %v", err.Name, err.Class)
}

// TypeCoercionError is returned when a value cannot be converted to a
// parameter's class.
type TypeCoercionError struct {
	// Value is the value that could not be converted.
	Value interface{}
	// To is the class it could not be converted to.
	To *Class
	// Reason optionally explains the failure.
	Reason string
	// Method and Index identify the parameter, if known.
	Method *Method
	Index  int
}

func (err *TypeCoercionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cannot cast %s (%v) to %v", Render(err.Value, DefaultRenderLimit), ClassOf(err.Value), err.To)
	if err.Reason != "" {
		b.WriteString(": ")
		b.WriteString(err.Reason)
	}
	if err.Method != nil {
		fmt.Fprintf(&b, " (argument %d of %v)", err.Index, err.Method)
	}
	return b.String()
}

// InvocationError wraps a failure raised by a method's body.
type InvocationError struct {
	Method   *Method
	Receiver interface{}
	// Args are the coerced arguments the method was called with.
	Args []interface{}
	Err  error

	limit int
}

func (err *InvocationError) Error() string {
	return fmt.Sprintf("%v failed on %s with [%s]: %v", err.Method, Render(err.Receiver, err.limit), renderValues(err.Args, err.limit), err.Err)
}

func (err *InvocationError) Unwrap() error {
	return err.Err
}

func renderClasses(args []interface{}) string {
	s := make([]string, len(args))
	for i, a := range args {
		s[i] = ClassOf(a).String()
	}
	return strings.Join(s, ", ")
}

func renderValues(args []interface{}, limit int) string {
	s := make([]string, len(args))
	for i, a := range args {
		s[i] = Render(a, limit)
	}
	return strings.Join(s, ", ")
}

// maxSuggestions is the number of similar methods a MissingMethodError lists.
const maxSuggestions = 5

// suggest returns descriptors of methods among cands whose names are equal or
// close to name. Same-name methods come first.
func suggest(name string, cands []*Method) []string {
	type ranked struct {
		desc string
		d    int
	}
	var r []ranked
	seen := make(map[string]bool)
	for _, m := range cands {
		d := levenshtein(strings.ToLower(name), strings.ToLower(m.Name))
		if d > 2 {
			continue
		}
		desc := m.Descriptor()
		if seen[desc] {
			continue
		}
		seen[desc] = true
		r = append(r, ranked{desc, d})
	}
	sort.SliceStable(r, func(i, j int) bool { return r[i].d < r[j].d })
	if len(r) > maxSuggestions {
		r = r[:maxSuggestions]
	}
	s := make([]string, len(r))
	for i, x := range r {
		s[i] = x.desc
	}
	return s
}

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
