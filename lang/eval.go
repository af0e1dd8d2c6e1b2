package lang

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/smpl/log"
)

// DefaultMaxDepth is the default maximum recursion depth of one evaluation.
// Users may modify this before calling [New] to change the default.
var DefaultMaxDepth = 256

// Evaluator evaluates expressions against a base set of bindings.
//
// The base bindings are copied at the start of every evaluation, so an
// Evaluator may be shared by concurrent callers. The host mutation methods
// [Evaluator.Set] and [Evaluator.Unset] take effect for evaluations that
// start after they return.
type Evaluator struct {
	logger   log.Logger
	base     *Mapping
	mu       sync.RWMutex
	maxDepth int
}

// Option configures an [Evaluator].
type Option func(*Evaluator)

// WithBindings binds each entry of m in the base environment.
func WithBindings(m *Mapping) Option {
	return func(e *Evaluator) {
		e.base.Merge(m)
	}
}

// WithBinding binds name to v in the base environment.
func WithBinding(name string, v Value) Option {
	return func(e *Evaluator) {
		e.base.Set(name, v)
	}
}

// WithMaxDepth sets the maximum recursion depth of one evaluation.
func WithMaxDepth(depth int) Option {
	return func(e *Evaluator) {
		e.maxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// New returns an Evaluator configured by opts.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		base:     NewMapping(),
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Evaluate evaluates expr against the base bindings.
func (e *Evaluator) Evaluate(ctx context.Context, expr string) (Value, error) {
	return e.EvaluateWith(ctx, expr, nil)
}

// EvaluateWith evaluates expr against the base bindings overlaid with extra.
// The base bindings are not modified.
func (e *Evaluator) EvaluateWith(
	ctx context.Context,
	expr string,
	extra *Mapping,
) (Value, error) {
	e.mu.RLock()
	env := Env{vars: e.base.Clone().Merge(extra)}
	e.mu.RUnlock()

	ec := &evalContext{
		ctx:      ctx,
		env:      env,
		logger:   e.logger,
		maxDepth: e.maxDepth,
	}

	e.logger.TraceContext(ctx, "evaluate start",
		slog.String("expr", expr),
		slog.Int("bindings", env.Len()),
	)

	v, err := ec.evaluate(expr, 0)
	if err != nil {
		e.logger.TraceContext(ctx, "evaluate failed",
			slog.String("expr", expr),
			slog.Any("error", err),
		)

		return Null(), err
	}

	e.logger.TraceContext(ctx, "evaluate complete",
		slog.String("expr", expr),
		slog.String("kind", v.Kind().String()),
	)

	return v, nil
}

// Set binds name to v in the base environment.
func (e *Evaluator) Set(name string, v Value) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.base.Set(name, v)
}

// Unset removes name from the base environment and reports whether it was
// bound.
func (e *Evaluator) Unset(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.base.Delete(name)
}

// Lookup returns the value bound to name in the base environment.
func (e *Evaluator) Lookup(name string) (Value, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.base.Get(name)
}

// Bindings returns a copy of the base environment.
func (e *Evaluator) Bindings() *Mapping {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.base.Clone()
}

// evalContext holds the state of one evaluation.
type evalContext struct {
	ctx      context.Context
	env      Env
	logger   log.Logger
	maxDepth int
}

// cascade lists the binary operators from loosest to tightest binding.
// The first operator found at the top level of an expression splits it.
var cascade = [...]string{
	"?:", "?", "||", "&&",
	"===", "!==", "==", "!=",
	">=", "<=", ">", "<",
	"~", "+", "-", "%", "**", "*", "/",
}

// evaluate evaluates text, recursing into each sub-expression.
func (c *evalContext) evaluate(text string, depth int) (Value, error) {
	if depth > c.maxDepth {
		return Null(), ErrMaxDepthExceeded.With(slog.Int("max", c.maxDepth))
	}

	if err := c.ctx.Err(); err != nil {
		return Null(), err
	}

	text = strings.TrimSpace(text)

	c.logger.TraceContext(c.ctx, "evaluate",
		slog.String("text", text),
		slog.Int("depth", depth),
	)

	if text == "" {
		return Null(), nil
	}

	if v, ok := parseNumber(text); ok {
		return v, nil
	}

	switch strings.ToLower(text) {
	case "null":
		return Null(), nil
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	}

	for _, op := range cascade {
		if !strings.Contains(text, op) {
			continue
		}

		mode := scanDrop
		if op == "-" || op == "+" {
			mode = scanUnary
		}

		segs, err := scan(text, op, mode)
		if err != nil {
			return Null(), WrapError(err).With(slog.String("text", text))
		}

		if len(segs) > 1 {
			return c.operate(op, segs, depth+1)
		}
	}

	return c.term(text, depth+1)
}

// operate combines the segments of text split at op.
func (c *evalContext) operate(op string, segs []string, depth int) (Value, error) {
	if op != "?" {
		for _, s := range segs {
			if s == "" {
				return Null(), ErrSyntax.Detail("missing operand for `" + op + "`")
			}
		}
	}

	switch op {
	case "?:":
		for i, s := range segs {
			v, err := c.evaluate(s, depth)
			if err != nil || v.Truthy() || i == len(segs)-1 {
				return v, err
			}
		}

	case "?":
		return c.ternary(segs, depth)

	case "||", "&&":
		want := op == "||"

		for _, s := range segs {
			v, err := c.evaluate(s, depth)
			if err != nil {
				return Null(), err
			}

			if v.Truthy() == want {
				return Bool(want), nil
			}
		}

		return Bool(!want), nil

	case "===", "!==", "==", "!=":
		return c.equality(op, segs, depth)

	case ">=", "<=", ">", "<":
		return c.comparison(op, segs, depth)

	case "~":
		var sb strings.Builder

		for _, s := range segs {
			v, err := c.evaluate(s, depth)
			if err != nil {
				return Null(), err
			}

			sb.WriteString(v.String())
		}

		return String(sb.String()), nil

	case "+":
		return c.fold(Int(0), segs, depth, add)

	case "*":
		return c.fold(Int(1), segs, depth, multiply)

	case "-", "/":
		fn := subtract
		if op == "/" {
			fn = divide
		}

		first, err := c.evaluate(segs[0], depth)
		if err != nil {
			return Null(), err
		}

		return c.fold(first, segs[1:], depth, fn)

	case "%":
		// ((a % b) % c): the joined prefix recurses back into this operator.
		last := len(segs) - 1

		left, err := c.evaluate(strings.Join(segs[:last], op), depth)
		if err != nil {
			return Null(), err
		}

		right, err := c.evaluate(segs[last], depth)
		if err != nil {
			return Null(), err
		}

		return modulo(left, right)

	case "**":
		// a ** (b ** c): the joined suffix recurses back into this operator.
		base, err := c.evaluate(segs[0], depth)
		if err != nil {
			return Null(), err
		}

		exp, err := c.evaluate(strings.Join(segs[1:], op), depth)
		if err != nil {
			return Null(), err
		}

		return power(base, exp)
	}

	return Null(), nil
}

// ternary evaluates "cond ? then : else" and "cond ? then".
func (c *evalContext) ternary(segs []string, depth int) (Value, error) {
	if len(segs) > 2 {
		return Null(), ErrSyntax.Detail("unexpected `?`")
	}

	branches, err := scan(segs[1], ":", scanDrop)
	if err != nil {
		return Null(), err
	}

	if len(branches) > 2 {
		return Null(), ErrSyntax.Detail("unexpected `:`")
	}

	if segs[0] == "" || slices.Contains(branches, "") {
		return Null(), ErrSyntax.Detail("missing operand for `?`")
	}

	cond, err := c.evaluate(segs[0], depth)
	if err != nil {
		return Null(), err
	}

	switch {
	case cond.Truthy():
		return c.evaluate(branches[0], depth)
	case len(branches) == 2:
		return c.evaluate(branches[1], depth)
	default:
		return Null(), nil
	}
}

// equality compares every operand after the first against the first.
func (c *evalContext) equality(op string, segs []string, depth int) (Value, error) {
	equal := looseEqual
	if len(op) == 3 {
		equal = strictEqual
	}

	negated := op[0] == '!'

	first, err := c.evaluate(segs[0], depth)
	if err != nil {
		return Null(), err
	}

	for _, s := range segs[1:] {
		v, err := c.evaluate(s, depth)
		if err != nil {
			return Null(), err
		}

		if equal(first, v) == negated {
			return Bool(false), nil
		}
	}

	return Bool(true), nil
}

// comparison orders every operand after the first against the first.
func (c *evalContext) comparison(op string, segs []string, depth int) (Value, error) {
	// fails reports whether an operand ordered against the first by cmp
	// breaks the relation.
	var fails func(cmp int) bool

	switch op {
	case ">=":
		fails = func(cmp int) bool { return cmp > 0 }
	case "<=":
		fails = func(cmp int) bool { return cmp < 0 }
	case ">":
		fails = func(cmp int) bool { return cmp >= 0 }
	default:
		fails = func(cmp int) bool { return cmp <= 0 }
	}

	first, err := c.evaluate(segs[0], depth)
	if err != nil {
		return Null(), err
	}

	for _, s := range segs[1:] {
		v, err := c.evaluate(s, depth)
		if err != nil {
			return Null(), err
		}

		cmp, err := compare(v, first)
		if err != nil {
			return Null(), err
		}

		if fails(cmp) {
			return Bool(false), nil
		}
	}

	return Bool(true), nil
}

// fold applies fn to acc and each evaluated segment in order.
func (c *evalContext) fold(
	acc Value,
	segs []string,
	depth int,
	fn arith,
) (Value, error) {
	for _, s := range segs {
		v, err := c.evaluate(s, depth)
		if err != nil {
			return Null(), err
		}

		acc, err = fn(acc, v)
		if err != nil {
			return Null(), err
		}
	}

	return acc, nil
}

// term evaluates text that contains no top-level binary operator.
func (c *evalContext) term(text string, depth int) (Value, error) {
	if len(text) == 1 && strings.ContainsAny(text, "!-+") {
		return Null(), ErrSyntax.Detail("unexpected `" + text + "`")
	}

	switch text[0] {
	case '\'', '`':
		return quoted(text)

	case '"':
		return decodeString(text)

	case '!':
		v, err := c.evaluate(text[1:], depth)
		if err != nil {
			return Null(), err
		}

		return Bool(!v.Truthy()), nil

	case '-', '+':
		v, err := c.evaluate(text[1:], depth)
		if err != nil {
			return Null(), err
		}

		if text[0] == '-' {
			return negate(v)
		}

		return toNumber(v, "+")
	}

	switch {
	case enclosed(text, '(', ')'):
		return c.evaluate(text[1:len(text)-1], depth)

	case enclosed(text, '[', ']'):
		return c.sequence(text[1:len(text)-1], depth)

	case enclosed(text, '{', '}'):
		return c.mapping(text[1:len(text)-1], depth)

	case strings.HasSuffix(text, ")"):
		return c.call(text, depth)

	case strings.HasSuffix(text, "]"):
		return c.index(text, depth)

	case isDigit(text[0]) || (text[0] == '.' && len(text) > 1 && isDigit(text[1])):
		return Null(), ErrNumber.Detail("`" + text + "` is not a number").
			With(slog.String("text", text))
	}

	segs, err := scan(text, ".", scanDrop)
	if err != nil {
		return Null(), err
	}

	if len(segs) > 1 {
		return c.member(segs, depth)
	}

	return c.env.Lookup(text)
}

// call applies the callable before the last top-level "(" to the argument
// list inside it.
func (c *evalContext) call(text string, depth int) (Value, error) {
	segs, err := scan(text, "(", scanKeep)
	if err != nil {
		return Null(), err
	}

	last := len(segs) - 1
	if last < 1 || segs[last] == "" || segs[last][0] != '(' {
		return Null(), ErrSyntax.Detail("unexpected `)`")
	}

	params := segs[last][1 : len(segs[last])-1]
	source := strings.Join(segs[:last], "")

	if source == "" {
		return Null(), ErrSyntax.Detail("expected callable before `(`")
	}

	callee, err := c.evaluate(source, depth)
	if err != nil {
		return Null(), err
	}

	fn, ok := callee.AsCallable()
	if !ok {
		return Null(), ErrNotCallable.Detail("`"+source+"` is not callable").
			With(slog.String("callee", source), slog.String("kind", callee.Kind().String()))
	}

	args, err := c.arguments(params, depth)
	if err != nil {
		return Null(), err
	}

	c.logger.TraceContext(c.ctx, "call",
		slog.String("callee", source),
		slog.Int("args", args.Len()),
		slog.Int("named", args.Named.Len()),
	)

	// Host errors are returned unmodified.
	return fn.Call(c.ctx, args)
}

// index resolves the bracketed key after the last top-level "[".
func (c *evalContext) index(text string, depth int) (Value, error) {
	segs, err := scan(text, "[", scanKeep)
	if err != nil {
		return Null(), err
	}

	last := len(segs) - 1
	if last < 1 || segs[last] == "" || segs[last][0] != '[' {
		return Null(), ErrSyntax.Detail("unexpected `]`")
	}

	inner := segs[last][1 : len(segs[last])-1]
	source := strings.Join(segs[:last], "")

	if source == "" {
		return Null(), ErrSyntax.Detail("expected receiver before `[`")
	}

	receiver, err := c.evaluate(source, depth)
	if err != nil {
		return Null(), err
	}

	key, err := c.evaluate(inner, depth)
	if err != nil {
		return Null(), err
	}

	return resolve(receiver, key, source)
}

// member resolves the literal name after the last top-level ".".
func (c *evalContext) member(segs []string, depth int) (Value, error) {
	last := len(segs) - 1
	name := segs[last]
	source := strings.Join(segs[:last], ".")

	if name == "" || source == "" {
		return Null(), ErrSyntax.Detail("unexpected `.`")
	}

	receiver, err := c.evaluate(source, depth)
	if err != nil {
		return Null(), err
	}

	return resolve(receiver, String(name), source)
}

func isDigit(b byte) bool { return '0' <= b && b <= '9' }
