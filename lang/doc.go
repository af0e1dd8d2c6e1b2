// Package lang implements a small embeddable expression language.
//
// An expression is evaluated directly from its source text against a set of
// named bindings supplied by the host. There is no separate parse or compile
// phase: the evaluator splits the text at the loosest top-level operator and
// recurses into each operand, so a partially valid expression fails only when
// evaluation reaches the invalid part.
//
// # Values
//
// Every result is a [Value] of one [Kind]: null, bool, number (integer or
// float), string, sequence, mapping, callable, or handle. Mappings keep the
// insertion order of their keys. Callables and handles are supplied by the
// host; a handle exposes properties and methods through [PropertyReader],
// [MethodCaller], and [DynamicCaller].
//
// # Operators
//
// From loosest to tightest binding:
//
//	?:          a ?: b returns a if truthy, else b
//	? :         cond ? then : else (the else branch is optional)
//	||  &&      short-circuit logic, result is a bool
//	=== !==     identity: same kind and value
//	==  !=      equality after conversion
//	>= <= > <   every operand after the first is ordered against the first
//	~           string concatenation
//	+ -         addition and subtraction
//	%           remainder, left associative
//	**          exponentiation, right associative
//	* /         multiplication and division
//	! - +       unary prefixes
//
// Parentheses group. A binary operator chain such as a - b - c evaluates left
// to right.
//
// # Literals
//
//	null true false          case-insensitive
//	42 -7 3.14 1e3 .5        numbers
//	"a\n" 'it\'s' `x`        strings, using JSON escapes
//	[1, 2, ...xs]            sequences, with spread
//	[k: v] {k: v, n: 1}      mappings; sequence keys are expressions
//
// # Access and calls
//
//	cfg.host                 member by literal name
//	list[0] cfg["host"]      member by evaluated key
//	f(1, 2, name: "x")       call with positional and named arguments
//	obj.method(x)            handle method call
//
// # Example
//
//	ev := lang.New(lang.WithBindings(lang.MappingOf(
//		lang.Pair{Key: "port", Value: lang.Int(8080)},
//	)))
//
//	v, err := ev.Evaluate(ctx, `"localhost:" ~ (port + 1)`)
//	// v.String() == "localhost:8081"
//
// # Errors
//
// Every evaluation error is an [*Error] that matches one of the package's
// sentinel errors with [errors.Is]. Errors returned by host callables are
// passed through unmodified.
package lang
