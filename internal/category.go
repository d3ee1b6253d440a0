package internal

import (
	"sort"
	"sync/atomic"
)

// Category is a named set of static methods that become instance methods of
// their first parameter's class while the category is in use on a Thread.
type Category struct {
	Name    string
	Methods []*Method
}

// NewCategory creates a category. Each method's first parameter selects the
// class it attaches to and receives the receiver; a method whose first
// parameter class is nil attaches to Object. Methods without parameters are
// ignored.
func NewCategory(name string, methods ...*Method) *Category {
	return &Category{Name: name, Methods: methods}
}

// frame is one level of a Thread's overlay stack. Frames are immutable once
// pushed, and a frame's identity determines the whole stack beneath it.
type frame struct {
	parent *frame
	id     uint64
	att    []attachment
}

// attachment is the set of category methods attached to one class in a
// frame.
type attachment struct {
	class  *Class
	byName map[string][]*Method
}

// baseFrame is the baseline frame at the bottom of every overlay stack.
var baseFrame = &frame{}

// framecounter is the global counter for frame IDs. All accesses must be
// atomic.
var framecounter uint64

func newFrame(parent *frame, cats []*Category) *frame {
	f := &frame{parent: parent, id: atomic.AddUint64(&framecounter, 1)}
	for _, cat := range cats {
		for _, m := range cat.Methods {
			if len(m.Params) == 0 {
				continue
			}
			f.attach(attached(m))
		}
	}
	return f
}

// attached reinterprets a static category method as an instance method of
// its first parameter's class.
func attached(m *Method) *Method {
	self := m.Params[0]
	target := Box(self)
	if target == nil {
		target = ObjectClass
	}
	fn := m.Fn
	return &Method{
		Name:   m.Name,
		Owner:  target,
		Params: m.Params[1:],
		Return: m.Return,
		Origin: CategoryMethod,
		Fn: func(th *Thread, recv interface{}, args []interface{}) (interface{}, error) {
			if v, err := Coerce(recv, self); err == nil {
				recv = v
			}
			all := make([]interface{}, 0, len(args)+1)
			all = append(all, recv)
			all = append(all, args...)
			return fn(th, nil, all)
		},
	}
}

func (f *frame) attach(m *Method) {
	for i := range f.att {
		if f.att[i].class == m.Owner {
			f.att[i].byName[m.Name] = append(f.att[i].byName[m.Name], m)
			return
		}
	}
	f.att = append(f.att, attachment{class: m.Owner, byName: map[string][]*Method{m.Name: {m}}})
}

// candidates returns the frame's methods named name that apply to receivers
// of class c, those attached to more specific classes first.
func (f *frame) candidates(c *Class, name string) []*Method {
	var atts []attachment
	for _, a := range f.att {
		if len(a.byName[name]) > 0 && c.IsKindOf(a.class) {
			atts = append(atts, a)
		}
	}
	if len(atts) == 0 {
		return nil
	}
	sort.SliceStable(atts, func(i, j int) bool {
		return specificity(c, atts[i].class) < specificity(c, atts[j].class)
	})
	var r []*Method
	for _, a := range atts {
		r = append(r, a.byName[name]...)
	}
	return r
}

// specificity ranks how closely kind describes c, which must be a kind of
// it. Superclasses rank by distance, then interfaces, then Object.
func specificity(c, kind *Class) int {
	if kind == ObjectClass {
		return 1 << 20
	}
	n := 0
	for k := c; k != nil; k = k.super {
		if k == kind {
			return n
		}
		n++
	}
	return 1<<10 + c.InterfaceDistance(kind)
}

// Enter pushes a frame attaching the methods of the given categories.
func (th *Thread) Enter(cats ...*Category) {
	th.top = newFrame(th.top, cats)
}

// Exit pops the innermost frame. The baseline frame is never popped; Exit
// returns false if only it remains.
func (th *Thread) Exit() bool {
	if th.top.parent == nil {
		return false
	}
	th.top = th.top.parent
	return true
}

// Depth returns the number of frames pushed above the baseline.
func (th *Thread) Depth() int {
	n := 0
	for f := th.top; f.parent != nil; f = f.parent {
		n++
	}
	return n
}

// Use runs body with the given categories in use. The frame is popped when
// body returns, including when it panics.
func (th *Thread) Use(body func(th *Thread) (interface{}, error), cats ...*Category) (interface{}, error) {
	th.Enter(cats...)
	top := th.top
	defer func() {
		// Restore the stack as it was before Enter even if body left frames
		// of its own.
		th.top = top.parent
	}()
	return body(th)
}

// overlay returns the category methods named name that apply to receivers of
// class c, innermost frame first.
func (th *Thread) overlay(c *Class, name string) []*Method {
	var r []*Method
	for f := th.top; f.parent != nil; f = f.parent {
		r = append(r, f.candidates(c, name)...)
	}
	return r
}

// CandidatesFor returns the methods named name that may be called on a
// receiver of class c: registry methods first, then category methods from the
// innermost frame outward.
func (th *Thread) CandidatesFor(c *Class, name string) []*Method {
	native := th.rt.Registry.Methods(c, name)
	if th.top.parent == nil {
		return native
	}
	ov := th.overlay(c, name)
	if len(ov) == 0 {
		return native
	}
	r := make([]*Method, 0, len(native)+len(ov))
	r = append(r, native...)
	return append(r, ov...)
}
