package internal

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CallSite is a dispatch point for one method name that remembers which
// method it selected for recent receiver and argument classes. A CallSite is
// safe for concurrent use by multiple Threads.
//
// Selections are only cached while the calling Thread has no categories in
// use, and they are discarded whenever the registry changes.
type CallSite struct {
	// Name is the method name the site calls.
	Name string

	rt    *Runtime
	cache *lru.Cache[siteKey, *Method]
}

// siteKey identifies the inputs of one selection.
type siteKey struct {
	recv uintptr
	gen  uint64
	args string
}

// NewCallSite creates a call site for name.
func NewCallSite(rt *Runtime, name string) *CallSite {
	cache, err := lru.New[siteKey, *Method](rt.opts.CallSiteCacheSize)
	if err != nil {
		// Only possible with a non-positive size, which options prevent.
		panic(err)
	}
	return &CallSite{Name: name, rt: rt, cache: cache}
}

// Invoke calls the site's method on receiver, like th.Invoke.
func (s *CallSite) Invoke(th *Thread, receiver interface{}, args ...interface{}) (interface{}, error) {
	if receiver == nil {
		return nil, &NullReceiverError{Name: s.Name}
	}
	args = Flatten(args)
	if th.top.parent != nil {
		return th.Invoke(receiver, s.Name, args...)
	}
	switch receiver.(type) {
	case Invoker, *Class:
		return th.Invoke(receiver, s.Name, args...)
	}
	c := th.rt.ClassOf(receiver)
	classes := th.rt.classesOf(args)
	key := siteKey{recv: c.id, gen: th.rt.Registry.Generation(), args: tupleKey(classes)}
	if m, ok := s.cache.Get(key); ok {
		th.traceCall(receiver, c, s.Name, args, m, true)
		return th.Call(m, receiver, args)
	}
	m, ok := SelectBest(th.CandidatesFor(c, s.Name), classes)
	if !ok {
		return th.invoke(receiver, c, s.Name, args)
	}
	s.cache.Add(key, m)
	th.traceCall(receiver, c, s.Name, args, m, false)
	return th.Call(m, receiver, args)
}

// Len returns the number of cached selections.
func (s *CallSite) Len() int {
	return s.cache.Len()
}

// tupleKey encodes a tuple of argument classes.
func tupleKey(classes []*Class) string {
	var b strings.Builder
	for i, c := range classes {
		if i > 0 {
			b.WriteByte(',')
		}
		if c == nil {
			b.WriteByte('_')
			continue
		}
		b.WriteString(strconv.FormatUint(uint64(c.id), 36))
	}
	return b.String()
}
