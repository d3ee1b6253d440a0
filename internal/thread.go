package internal

import (
	"sync/atomic"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Thread is the dispatch context of one logical thread of control. It holds
// the stack of category frames in use. A Thread must not be used by more than
// one goroutine at a time; use Fork to obtain a Thread for a new goroutine.
type Thread struct {
	rt  *Runtime
	top *frame

	// trace is an atomic flag controlling whether dispatch events are sent
	// to the runtime's Tracer.
	trace uint32

	// upper capitalizes property names for accessors. Casers are not safe for
	// concurrent use, so each Thread has its own.
	upper cases.Caser
	hasUp bool
}

// Runtime returns the runtime the thread belongs to.
func (th *Thread) Runtime() *Runtime {
	return th.rt
}

// Fork creates a Thread for another goroutine. The new Thread shares the
// runtime but has no categories in use and does not trace.
func (th *Thread) Fork() *Thread {
	return &Thread{rt: th.rt, top: baseFrame}
}

// SetTrace enables or disables tracing for the thread. It is safe to call
// from any goroutine.
func (th *Thread) SetTrace(on bool) {
	var v uint32
	if on {
		v = 1
	}
	atomic.StoreUint32(&th.trace, v)
}

// capitalize upper-cases the first letter of a property name.
func (th *Thread) capitalize(name string) string {
	if name == "" {
		return name
	}
	if !th.hasUp {
		th.upper = cases.Upper(language.Und)
		th.hasUp = true
	}
	r := []rune(name)
	return th.upper.String(string(r[0])) + string(r[1:])
}
