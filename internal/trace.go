package internal

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Event describes one dispatch.
type Event struct {
	// Receiver is the receiver of the call, or nil for static calls.
	Receiver interface{}
	// Class is the class the call was resolved against.
	Class *Class
	// Name is the method name.
	Name string
	// Args are the actual arguments after spread flattening.
	Args []interface{}
	// Method is the selected method, or nil if none was applicable.
	Method *Method
	// Cached is true if the method came from a call site cache.
	Cached bool

	limit int
}

func (ev Event) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v.%s(%s)", ev.Class, ev.Name, renderValues(ev.Args, ev.limit))
	if ev.Method == nil {
		b.WriteString(" -> no applicable method")
	} else {
		fmt.Fprintf(&b, " -> %v", ev.Method)
		if ev.Method.Origin != Native {
			fmt.Fprintf(&b, " [%v]", ev.Method.Origin)
		}
	}
	if ev.Cached {
		b.WriteString(" (cached)")
	}
	return b.String()
}

// Tracer receives dispatch events. Trace is called synchronously on the
// dispatching goroutine and must be safe for concurrent use.
type Tracer interface {
	Trace(ev Event)
}

// TracerFunc adapts a function to a Tracer.
type TracerFunc func(ev Event)

// Trace calls f(ev).
func (f TracerFunc) Trace(ev Event) {
	f(ev)
}

// traceCall sends an event to the tracer if tracing is enabled.
func (th *Thread) traceCall(recv interface{}, c *Class, name string, args []interface{}, m *Method, cached bool) {
	if atomic.LoadUint32(&th.trace) != 0 && th.rt.tracer != nil {
		th.traceSlow(recv, c, name, args, m, cached)
	}
}

// traceSlow is an outlined path of traceCall.
func (th *Thread) traceSlow(recv interface{}, c *Class, name string, args []interface{}, m *Method, cached bool) {
	th.rt.tracer.Trace(Event{
		Receiver: recv,
		Class:    c,
		Name:     name,
		Args:     args,
		Method:   m,
		Cached:   cached,
		limit:    th.rt.opts.RenderLimit,
	})
}
