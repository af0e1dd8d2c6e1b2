package lang

import (
	"log/slog"
	"unicode"
)

// Env is an ordered set of named bindings that an expression is evaluated
// against.
//
// An Env is never modified after construction. [Env.Overlay] returns a new
// Env, which is how per-call bindings are layered over the base set.
type Env struct {
	vars *Mapping
}

// NewEnv returns an environment holding a copy of bindings.
func NewEnv(bindings *Mapping) Env {
	return Env{vars: bindings.Clone()}
}

// Overlay returns a copy of e with each entry of extra bound over it.
func (e Env) Overlay(extra ...*Mapping) Env {
	return Env{vars: e.vars.Clone().Merge(extra...)}
}

// Len returns the number of bindings in e.
func (e Env) Len() int { return e.vars.Len() }

// Names returns the names bound in e in order.
func (e Env) Names() []string { return e.vars.Keys() }

// Lookup returns the value bound to name.
//
// A missing name is an [ErrUndefinedVariable] error, or [ErrSyntax] if name
// could never be bound from an expression because it is not an identifier.
func (e Env) Lookup(name string) (Value, error) {
	if v, ok := e.vars.Get(name); ok {
		return v, nil
	}

	if !isIdentifier(name) {
		return Null(), ErrSyntax.Detail("unexpected `" + name + "`")
	}

	return Null(), ErrUndefinedVariable.Detail("`" + name + "`").
		With(slog.String("name", name))
}

// isIdentifier reports whether s is a name that can be written as a bare
// identifier: a letter, '_', or '$' followed by letters, digits, '_', or '$'.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}

	return true
}
