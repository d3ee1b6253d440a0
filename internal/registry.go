package internal

/*
This file contains the method registry. Lookup by name happens on every
dispatch, so the registry keeps a per-class index of every method reachable
from that class, built the first time the class is queried. Readers never
take a lock on the hot path: indexes are published through a sync.Map and
stamped with the registry generation they were built from. Declaring or
forgetting methods bumps the generation, which makes every published index
stale; the next lookup for a class rebuilds its index.

Concurrent lookups of the same stale class share one build through
singleflight. A lookup that joins a build begun before its own generation
waits for a newer one, so a lookup after Declare returns always sees the
declared methods. If builds for the same class race anyway, the first index
published for a generation wins and later ones are discarded.
*/

import (
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/zephyrtronium/contains"
	"golang.org/x/sync/singleflight"
)

// Registry holds the methods declared on classes.
type Registry struct {
	// mu guards declared.
	mu sync.RWMutex
	// declared maps classes to their own methods by name, in declaration
	// order.
	declared map[*Class]map[string][]*Method

	// index maps classes to their *methodIndex.
	index sync.Map
	// builds collapses concurrent index builds for the same class.
	builds singleflight.Group
	// gen is the registry generation. All accesses must be atomic.
	gen uint64
}

// methodIndex is the set of methods reachable from a class, by name.
type methodIndex struct {
	gen    uint64
	byName map[string][]*Method
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{declared: make(map[*Class]map[string][]*Method)}
}

// Declare adds methods to the classes that own them. Methods are looked up in
// the order they are declared.
func (r *Registry) Declare(methods ...*Method) {
	r.mu.Lock()
	for _, m := range methods {
		if m.Owner == nil {
			m.Owner = ObjectClass
		}
		names := r.declared[m.Owner]
		if names == nil {
			names = make(map[string][]*Method)
			r.declared[m.Owner] = names
		}
		names[m.Name] = append(names[m.Name], m)
	}
	atomic.AddUint64(&r.gen, 1)
	r.mu.Unlock()
}

// Forget removes all methods declared on c and evicts its index.
func (r *Registry) Forget(c *Class) {
	r.mu.Lock()
	delete(r.declared, c)
	atomic.AddUint64(&r.gen, 1)
	r.mu.Unlock()
	r.index.Delete(c)
}

// Generation returns the registry generation, which changes whenever methods
// are declared or forgotten.
func (r *Registry) Generation() uint64 {
	return atomic.LoadUint64(&r.gen)
}

// Methods returns the methods named name that are reachable from c: those
// declared on c, then on each superclass, then on implemented interfaces,
// then on Object. A method with the same signature as one already collected
// is shadowed. The result must not be modified.
func (r *Registry) Methods(c *Class, name string) []*Method {
	return r.indexOf(c).byName[name]
}

// Constructors returns the constructors declared on c itself.
func (r *Registry) Constructors(c *Class) []*Method {
	r.mu.RLock()
	ms := r.declared[c][ConstructorName]
	r.mu.RUnlock()
	return ms
}

// Names returns the sorted names of all methods reachable from c.
func (r *Registry) Names(c *Class) []string {
	idx := r.indexOf(c)
	names := make([]string, 0, len(idx.byName))
	for name := range idx.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every method reachable from c, in index order by name.
func (r *Registry) All(c *Class) []*Method {
	idx := r.indexOf(c)
	var ms []*Method
	for _, name := range r.Names(c) {
		ms = append(ms, idx.byName[name]...)
	}
	return ms
}

// indexOf returns a current index for c, building it if needed.
func (r *Registry) indexOf(c *Class) *methodIndex {
	gen := atomic.LoadUint64(&r.gen)
	if v, ok := r.index.Load(c); ok {
		if idx := v.(*methodIndex); idx.gen == gen {
			return idx
		}
	}
	key := strconv.FormatUint(uint64(c.id), 36)
	for {
		// A shared build may have started before the generation we loaded.
		v, _, _ := r.builds.Do(key, func() (interface{}, error) {
			return r.publish(c, r.build(c)), nil
		})
		if idx := v.(*methodIndex); idx.gen >= gen {
			return idx
		}
	}
}

// publish stores idx as the index of c unless an index of the same or a newer
// generation is already present, in which case that one is returned.
func (r *Registry) publish(c *Class, idx *methodIndex) *methodIndex {
	for {
		v, loaded := r.index.LoadOrStore(c, idx)
		if !loaded {
			return idx
		}
		old := v.(*methodIndex)
		if old.gen >= idx.gen {
			return old
		}
		if r.index.CompareAndSwap(c, old, idx) {
			return idx
		}
	}
}

// build collects the index for c.
func (r *Registry) build(c *Class) *methodIndex {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx := &methodIndex{
		gen:    atomic.LoadUint64(&r.gen),
		byName: make(map[string][]*Method),
	}
	set := contains.Set{}
	var ifaces []*Class
	for k := c; k != nil && k != ObjectClass; k = k.super {
		set.Add(k.id)
		r.collect(idx, k, k == c)
		ifaces = append(ifaces, k.ifaces...)
	}
	for len(ifaces) > 0 {
		i := ifaces[0]
		ifaces = ifaces[1:]
		if !set.Add(i.id) {
			continue
		}
		r.collect(idx, i, false)
		ifaces = append(ifaces, i.ifaces...)
	}
	r.collect(idx, ObjectClass, c == ObjectClass)
	return idx
}

// collect adds the methods declared on k to idx. Constructors are collected
// only from the indexed class itself.
func (r *Registry) collect(idx *methodIndex, k *Class, own bool) {
	for name, ms := range r.declared[k] {
		if name == ConstructorName && !own {
			continue
		}
	next:
		for _, m := range ms {
			for _, p := range idx.byName[name] {
				if p.Owner != k && p.SameSignature(m) {
					continue next
				}
			}
			idx.byName[name] = append(idx.byName[name], m)
		}
	}
}
