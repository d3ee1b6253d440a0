package main

import (
	"fmt"

	"github.com/zephyrtronium/dyncall"
)

// eval evaluates an expression on a thread.
func eval(th *dyncall.Thread, n *node) (interface{}, error) {
	switch n.Kind {
	case literalNode:
		return n.Value, nil
	case classNode:
		c, ok := th.Runtime().ClassNamed(n.Name)
		if !ok {
			return nil, &dyncall.UnknownClassError{Name: n.Name}
		}
		return c, nil
	case listNode:
		args, err := evalArgs(th, n.Args)
		if err != nil {
			return nil, err
		}
		return dyncall.Flatten(args), nil
	case newNode:
		args, err := evalArgs(th, n.Args)
		if err != nil {
			return nil, err
		}
		return th.Construct(n.Name, args...)
	case callNode:
		recv, args, err := evalCall(th, n)
		if err != nil {
			return nil, err
		}
		return th.Invoke(recv, n.Name, args...)
	case propNode:
		recv, err := eval(th, n.Recv)
		if err != nil {
			return nil, err
		}
		return th.GetProperty(recv, n.Name)
	case spreadNode:
		v, err := eval(th, n.Args[0])
		if err != nil {
			return nil, err
		}
		return dyncall.SpreadOf(v), nil
	}
	panic(fmt.Errorf("dyncall: unknown node kind %d", n.Kind))
}

func evalArgs(th *dyncall.Thread, nodes []*node) ([]interface{}, error) {
	args := make([]interface{}, len(nodes))
	for i, a := range nodes {
		v, err := eval(th, a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func evalCall(th *dyncall.Thread, n *node) (interface{}, []interface{}, error) {
	recv, err := eval(th, n.Recv)
	if err != nil {
		return nil, nil, err
	}
	args, err := evalArgs(th, n.Args)
	if err != nil {
		return nil, nil, err
	}
	return recv, args, nil
}

// candidate is one method considered for a call.
type candidate struct {
	Method     *dyncall.Method
	Applicable bool
	Distance   int64
	Selected   bool
}

// explanation describes how a call is resolved.
type explanation struct {
	// Class is the class whose methods are searched.
	Class *dyncall.Class
	Name  string
	// Args are the flattened argument values.
	Args       []interface{}
	Candidates []candidate
}

// explain evaluates the receiver and arguments of the outermost call or
// construction in n and ranks the candidates for it without calling any.
func explain(th *dyncall.Thread, n *node) (*explanation, error) {
	rt := th.Runtime()
	// Static methods of a class receiver are preferred over all others.
	var statics, cands []*dyncall.Method
	ex := &explanation{Name: n.Name}
	switch n.Kind {
	case callNode:
		recv, args, err := evalCall(th, n)
		if err != nil {
			return nil, err
		}
		if recv == nil {
			return nil, &dyncall.NullReceiverError{Name: n.Name}
		}
		ex.Args = dyncall.Flatten(args)
		ex.Class = rt.ClassOf(recv)
		if cls, ok := recv.(*dyncall.Class); ok {
			for _, m := range th.CandidatesFor(cls, n.Name) {
				if m.Static {
					statics = append(statics, m)
				}
			}
		}
		cands = append(cands, th.CandidatesFor(ex.Class, n.Name)...)
	case newNode:
		args, err := evalArgs(th, n.Args)
		if err != nil {
			return nil, err
		}
		c, ok := rt.ClassNamed(n.Name)
		if !ok {
			return nil, &dyncall.UnknownClassError{Name: n.Name}
		}
		ex.Args = dyncall.Flatten(args)
		ex.Class = c
		ex.Name = dyncall.ConstructorName
		cands = rt.Registry.Constructors(c)
	default:
		return nil, fmt.Errorf("dyncall: only calls and constructions can be explained")
	}
	classes := make([]*dyncall.Class, len(ex.Args))
	for i, a := range ex.Args {
		classes[i] = rt.ClassOf(a)
	}
	best, ok := dyncall.SelectBest(statics, classes)
	if !ok {
		best, _ = dyncall.SelectBest(cands, classes)
	}
	for _, m := range append(statics, cands...) {
		c := candidate{Method: m, Applicable: dyncall.Applicable(m, classes), Selected: m == best}
		if c.Applicable {
			c.Distance = dyncall.Distance(m, classes)
		}
		ex.Candidates = append(ex.Candidates, c)
	}
	return ex, nil
}
