package internal

import "github.com/zephyrtronium/contains"

// Distances are composed of tiers, each shifted so that a worse tier always
// outweighs any sum of better ones.
const (
	interfaceShift = 0
	primitiveShift = 21
	objectShift    = 23
	varargsShift   = 44
)

// primitiveDistance ranks conversions among primitives, their boxes, Number,
// and Object. It is indexed [argument][parameter] by Class.rank.
var primitiveDistance = [20][20]int64{
	//             0   1   2   3   4   5   6   7   8   9  10  11  12  13  14  15  16  17  18  19
	/*boolean*/ {0, 1, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 2},
	/*Boolean*/ {1, 0, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 2},
	/*byte*/ {18, 19, 0, 1, 2, 3, 16, 17, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	/*Byte*/ {18, 19, 1, 0, 2, 3, 16, 17, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	/*short*/ {18, 19, 14, 15, 0, 1, 16, 17, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13},
	/*Short*/ {18, 19, 14, 15, 1, 0, 16, 17, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13},
	/*char*/ {18, 19, 16, 17, 14, 15, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13},
	/*Character*/ {18, 19, 16, 17, 14, 15, 1, 0, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13},
	/*int*/ {18, 19, 14, 15, 12, 13, 16, 17, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	/*Integer*/ {18, 19, 14, 15, 12, 13, 16, 17, 1, 0, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	/*long*/ {18, 19, 14, 15, 12, 13, 16, 17, 10, 11, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	/*Long*/ {18, 19, 14, 15, 12, 13, 16, 17, 10, 11, 1, 0, 2, 3, 4, 5, 6, 7, 8, 9},
	/*BigInteger*/ {18, 19, 9, 10, 7, 8, 16, 17, 5, 6, 3, 4, 0, 14, 15, 12, 13, 11, 1, 2},
	/*float*/ {18, 19, 14, 15, 12, 13, 16, 17, 10, 11, 8, 9, 7, 0, 1, 2, 3, 4, 5, 6},
	/*Float*/ {18, 19, 14, 15, 12, 13, 16, 17, 10, 11, 8, 9, 7, 1, 0, 2, 3, 4, 5, 6},
	/*double*/ {18, 19, 14, 15, 12, 13, 16, 17, 10, 11, 8, 9, 7, 5, 6, 0, 1, 2, 3, 4},
	/*Double*/ {18, 19, 14, 15, 12, 13, 16, 17, 10, 11, 8, 9, 7, 5, 6, 1, 0, 2, 3, 4},
	/*BigDecimal*/ {18, 19, 14, 15, 12, 13, 16, 17, 10, 11, 8, 9, 7, 5, 6, 3, 4, 0, 1, 2},
	/*Number*/ {18, 19, 14, 15, 12, 13, 16, 17, 10, 11, 8, 9, 7, 5, 6, 3, 4, 2, 0, 1},
	/*Object*/ {18, 19, 14, 15, 12, 13, 16, 17, 10, 11, 8, 9, 7, 5, 6, 3, 4, 2, 1, 0},
}

// Assignable reports whether an argument of class from may be passed for a
// parameter of class to. A nil from is null, which is assignable to any
// non-primitive class.
func Assignable(to, from *Class) bool {
	if from == nil {
		return !to.IsPrimitive()
	}
	if to == from || to == ObjectClass {
		return true
	}
	if to.num != NotNumeric {
		return numAssignable(to, from)
	}
	if to == StringClass && from == GStringClass {
		return true
	}
	if to.IsArray() && from.IsArray() {
		return Assignable(to.elem, from.elem)
	}
	return Box(from).IsKindOf(to)
}

// numAssignable reports assignability to a primitive or boxed class.
func numAssignable(to, from *Class) bool {
	switch {
	case from.num == to.num:
		return true
	case to.num == BoolNum, to.num == CharNum:
		return false
	case to.IsPrimitive():
		return from.num.Numeric()
	}
	return widens(from.num, to.num)
}

// widens reports whether a boxed numeric parameter of kind to accepts an
// argument of a different numeric kind.
func widens(from, to NumKind) bool {
	if !from.Numeric() {
		return false
	}
	switch to {
	case ShortNum:
		return from == ByteNum
	case IntNum:
		return from == ByteNum || from == ShortNum
	case LongNum, BigIntNum:
		return from.Integral() && from < to
	case FloatNum:
		return from.Integral() && from != BigIntNum
	case DoubleNum, DecimalNum:
		return true
	}
	return false
}

// paramDistance scores passing an argument of class arg for a parameter of
// class param. The parameter must be assignable from the argument.
func paramDistance(arg, param *Class) int64 {
	if arg == param {
		return 0
	}
	if arg == nil {
		return nullDistance(param)
	}
	if param.IsInterface() {
		if d := arg.InterfaceDistance(param); d >= 0 {
			return int64(d) << interfaceShift
		}
	}
	if arg.rank >= 0 && param.rank >= 0 {
		return primitiveDistance[arg.rank][param.rank] << primitiveShift
	}
	d := int64(len(primitiveDistance) + 1)
	if arg.IsArray() && !param.IsArray() {
		d += 4
	}
	for c := arg; c != nil && c != param; c = c.super {
		if c == GStringClass && param == StringClass {
			d += 2
			break
		}
		d += 3
	}
	return d << objectShift
}

// maxNullDistance is the distance of null to Object. Null is closer to
// classes with more ancestors.
const maxNullDistance = 64

func nullDistance(param *Class) int64 {
	n := ancestors(param)
	if n >= maxNullDistance {
		n = maxNullDistance - 1
	}
	return int64(maxNullDistance - n)
}

// ancestors counts the distinct superclasses and interfaces of c, excluding
// Object.
func ancestors(c *Class) int {
	if c == ObjectClass {
		return 0
	}
	n := 1
	set := contains.Set{}
	set.Add(c.id)
	set.Add(ObjectClass.id)
	stack := []*Class{c}
	for len(stack) > 0 {
		k := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if k.super != nil && set.Add(k.super.id) {
			n++
			stack = append(stack, k.super)
		}
		for _, i := range k.ifaces {
			if set.Add(i.id) {
				n++
				stack = append(stack, i)
			}
		}
	}
	return n
}

// Applicable reports whether the method accepts arguments of the given
// classes. A nil class is a null argument.
func Applicable(m *Method, args []*Class) bool {
	n, k := len(m.Params), len(args)
	if m.IsVarargs() && k >= n-1 {
		for i := 0; i < n-1; i++ {
			if !Assignable(m.Params[i], args[i]) {
				return false
			}
		}
		if k == n-1 {
			return true
		}
		last := m.Params[n-1]
		if k == n && Assignable(last, args[n-1]) {
			return true
		}
		for i := n - 1; i < k; i++ {
			if !Assignable(last.elem, args[i]) {
				return false
			}
		}
		return true
	}
	if k == n {
		for i, p := range m.Params {
			if !Assignable(p, args[i]) {
				return false
			}
		}
		return true
	}
	return k == 0 && n == 1 && !m.Params[0].IsPrimitive()
}

// Distance scores an applicable method against argument classes. Lower is
// more specific.
func Distance(m *Method, args []*Class) int64 {
	n := len(m.Params)
	if n == 0 {
		return 0
	}
	var d int64
	last := n - 1
	for i := 0; i < last && i < len(args); i++ {
		d += paramDistance(args[i], m.Params[i])
	}
	switch {
	case len(args) == n:
		base := m.Params[last]
		if !Assignable(base, args[last]) {
			base = base.elem
			d += 2 << varargsShift
		}
		d += paramDistance(args[last], base)
	case len(args) > n:
		d += int64(2+len(args)-n) << varargsShift
		elem := m.Params[last].elem
		for i := last; i < len(args); i++ {
			d += paramDistance(args[i], elem)
		}
	default:
		d += 1 << varargsShift
	}
	return d
}

// SelectBest returns the applicable candidate with the least distance. Among
// equally distant candidates, the first in cands wins. The result is false if
// no candidate is applicable.
func SelectBest(cands []*Method, args []*Class) (*Method, bool) {
	var best *Method
	var bd int64
	for _, m := range cands {
		if !Applicable(m, args) {
			continue
		}
		if d := Distance(m, args); best == nil || d < bd {
			best, bd = m, d
		}
	}
	return best, best != nil
}

// FitArgs arranges args to match the method's parameter list, collecting
// trailing arguments into the variadic array, and coerces each to its
// parameter class. The method must be applicable to the arguments.
func FitArgs(m *Method, args []interface{}) ([]interface{}, error) {
	n, k := len(m.Params), len(args)
	var fit []interface{}
	switch {
	case m.IsVarargs() && k >= n-1:
		last := m.Params[n-1]
		fit = make([]interface{}, n)
		copy(fit, args[:n-1])
		if k == n && (args[k-1] == nil || Assignable(last, ClassOf(args[k-1]))) {
			fit[n-1] = args[k-1]
			break
		}
		tail := make([]interface{}, k-n+1)
		for i, a := range args[n-1:] {
			v, err := Coerce(a, last.elem)
			if err != nil {
				return nil, fitError(err, m, n-1)
			}
			tail[i] = v
		}
		fit[n-1] = NewArray(last.elem, tail...)
	case k == 0 && n == 1:
		fit = []interface{}{nil}
	default:
		fit = make([]interface{}, k)
		copy(fit, args)
	}
	for i, a := range fit {
		if i >= n {
			break
		}
		v, err := Coerce(a, m.Params[i])
		if err != nil {
			return nil, fitError(err, m, i)
		}
		fit[i] = v
	}
	return fit, nil
}

// fitError identifies the parameter in a coercion failure.
func fitError(err error, m *Method, i int) error {
	if te, ok := err.(*TypeCoercionError); ok {
		cp := *te
		cp.Method, cp.Index = m, i
		return &cp
	}
	return err
}
