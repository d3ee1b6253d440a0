/*
Package dyncall implements late-bound method dispatch over a class-based host
object model, in the manner of dynamic JVM languages.

Given a receiver, a method name, and call-site arguments, dispatch finds every
method of that name reachable from the receiver's class, selects the most
specific one applicable to the arguments' classes, coerces the arguments to
its parameter classes, and calls it. Selection follows the usual rules for
overloads: exact matches beat boxing, boxing beats numeric widening, interfaces
beat superclass walks, and variadic candidates rank below fixed-arity ones.

To start, create a Runtime with NewRuntime and obtain a Thread for each
goroutine that dispatches:

	rt := dyncall.NewRuntime()
	greeter := rt.DefineClass("Greeter", nil)
	rt.Declare(dyncall.Func(greeter, "greet", func(self *dyncall.Instance, name string) string {
		return "hello, " + name
	}))
	th := rt.NewThread()
	obj, _ := th.Construct("Greeter")
	r, err := th.Invoke(obj, "greet", "world")

Values

Go values stand in for host values: bool, int8, int16, Char, int32 (and int),
int64, *big.Int, float32, float64, decimal.Decimal, and string are the boxed
Boolean, Byte, Short, Character, Integer, Long, BigInteger, Float, Double,
BigDecimal, and String. *GString is an interpolated string, *Array is an array
with a declared element class, map[string]interface{} is a LinkedHashMap, and
[]interface{} is an ArrayList. A nil interface is null. Generic objects of
runtime-defined classes are *Instance values; host Go types can be given a
class with Runtime.Bind or by implementing Object.

Categories

A Category is a set of static methods whose first parameter names the class
they attach to. Thread.Use runs a function with categories in use: within it,
and only on that Thread, the category methods are candidates for dispatch as
if they were instance methods of the attached classes. Categories nest, and
the frame is removed when the function returns, however it returns.

Failures

Dispatch failures are reported with *NullReceiverError, *MissingMethodError,
*MissingPropertyError, *TypeCoercionError, and *InvocationError. Use errors.As
to examine them. A method that fails through a *CallError, which Func-built
methods use, has the wrapped error reported directly instead.
*/
package dyncall
