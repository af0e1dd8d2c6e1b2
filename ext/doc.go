// Package ext provides optional function libraries for [lang] evaluators.
//
// Each library is a [lang.Mapping] of bindings that a host merges into an
// evaluator's environment:
//
//	ev := lang.New(lang.WithBindings(vars))
//	ext.Bind(ev)
//
// [Arrays] and [Files] mirror familiar container and filesystem functions.
// [System] describes the host. [Variables] and [Expr] act on the bindings of
// a [Store], usually the evaluator itself.
//
// Argument errors wrap [lang.ErrArgument]. A callback error is returned
// unchanged.
package ext
