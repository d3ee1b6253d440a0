package internal_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/zephyrtronium/dyncall"
	"github.com/zephyrtronium/dyncall/testutils"
)

// recorder is a Tracer that keeps every event.
type recorder struct {
	mu     sync.Mutex
	events []dyncall.Event
}

func (r *recorder) Trace(ev dyncall.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) last() dyncall.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func TestCallSiteCache(t *testing.T) {
	rec := &recorder{}
	rt := testutils.NewRuntime(dyncall.WithTracer(rec), dyncall.WithCallSiteCache(2))
	c := rt.DefineClass("Cached", nil)
	rt.Declare(
		testutils.Echo(c, "f", dyncall.ObjectClass),
		testutils.Echo(c, "f", dyncall.IntPrim),
	)
	th := rt.NewThread()
	th.SetTrace(true)
	site := dyncall.NewCallSite(rt, "f")
	obj := dyncall.NewInstance(c)

	r, err := site.Invoke(th, obj, "s")
	if err != nil || r != "Cached.f(Object)" {
		t.Fatalf("first call: %v, %v", r, err)
	}
	if rec.last().Cached {
		t.Error("first call reported as cached")
	}
	r, err = site.Invoke(th, obj, "t")
	if err != nil || r != "Cached.f(Object)" {
		t.Fatalf("second call: %v, %v", r, err)
	}
	if !rec.last().Cached {
		t.Error("second call not cached")
	}
	r, err = site.Invoke(th, obj, int32(1))
	if err != nil || r != "Cached.f(int)" {
		t.Fatalf("int call: %v, %v", r, err)
	}
	if site.Len() != 2 {
		t.Errorf("want 2 entries, have %d", site.Len())
	}
	site.Invoke(th, obj, 1.5)
	site.Invoke(th, obj, true)
	if site.Len() != 2 {
		t.Errorf("cache exceeded its size: %d", site.Len())
	}
}

// TestCallSiteInvalidation tests that declaring a method invalidates cached
// selections.
func TestCallSiteInvalidation(t *testing.T) {
	rt := testutils.NewRuntime()
	c := rt.DefineClass("Invalidated", nil)
	rt.Declare(testutils.Echo(c, "f", dyncall.ObjectClass))
	th := rt.NewThread()
	site := dyncall.NewCallSite(rt, "f")
	obj := dyncall.NewInstance(c)
	if r, _ := site.Invoke(th, obj, "s"); r != "Invalidated.f(Object)" {
		t.Fatalf("first call selected %v", r)
	}
	rt.Declare(testutils.Echo(c, "f", dyncall.StringClass))
	if r, _ := site.Invoke(th, obj, "s"); r != "Invalidated.f(String)" {
		t.Errorf("stale selection %v", r)
	}
}

// TestCallSiteCategories tests that selections made with categories in use
// are never cached.
func TestCallSiteCategories(t *testing.T) {
	rt := testutils.NewRuntime()
	c := rt.DefineClass("Categorized", nil)
	rt.Declare(testutils.Echo(c, "f", dyncall.ObjectClass))
	oc := dyncall.NewClass("Specific", nil)
	cat := dyncall.NewCategory("Specific", testutils.EchoStatic(oc, "f", c, dyncall.StringClass))
	th := rt.NewThread()
	site := dyncall.NewCallSite(rt, "f")
	obj := dyncall.NewInstance(c)
	r, err := th.Use(func(th *dyncall.Thread) (interface{}, error) {
		return site.Invoke(th, obj, "s")
	}, cat)
	if err != nil || r != "static Specific.f(Categorized, String)" {
		t.Fatalf("category call: %v, %v", r, err)
	}
	if site.Len() != 0 {
		t.Errorf("category selection cached")
	}
	if r, _ := site.Invoke(th, obj, "s"); r != "Categorized.f(Object)" {
		t.Errorf("category method leaked: %v", r)
	}
}

func TestCallSiteMissing(t *testing.T) {
	rt := testutils.NewRuntime()
	th := rt.NewThread()
	site := dyncall.NewCallSite(rt, "greet")
	_, err := site.Invoke(th, dyncall.NewInstance(testutils.Base), int32(1))
	testutils.CheckMissing(t, err, "greet")
	if site.Len() != 0 {
		t.Error("miss was cached")
	}
	_, err = site.Invoke(th, nil, "x")
	if err == nil {
		t.Error("null receiver succeeded")
	}
}

func TestTraceEvent(t *testing.T) {
	rec := &recorder{}
	rt := testutils.NewRuntime(dyncall.WithTracer(rec), dyncall.WithRenderLimit(8))
	th := rt.NewThread()
	th.Invoke(dyncall.NewInstance(testutils.Base), "greet", "x")
	if len(rec.events) != 0 {
		t.Fatalf("traced with tracing off: %v", rec.events)
	}
	th.SetTrace(true)
	th.Invoke(dyncall.NewInstance(testutils.Derived), "greet", "a long argument")
	ev := rec.last()
	if ev.Method == nil || ev.Method.Owner != testutils.Base {
		t.Errorf("wrong method traced: %v", ev.Method)
	}
	s := ev.String()
	for _, want := range []string{"Derived.greet(", "'a long..'", "-> Base.greet(String)"} {
		if !strings.Contains(s, want) {
			t.Errorf("event %q does not contain %q", s, want)
		}
	}
	th.Invoke(dyncall.NewInstance(testutils.Base), "greet", int32(1))
	if ev := rec.last(); ev.Method != nil || !strings.Contains(ev.String(), "no applicable method") {
		t.Errorf("miss traced as %v", ev)
	}
}
