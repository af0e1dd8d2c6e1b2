package lang

import (
	"context"
	"log/slog"
)

// Args holds the arguments of a call in source order.
//
// Positional arguments, including the elements of any spread container, are
// in Values. Arguments written as "name: expr" are in Named.
type Args struct {
	Values []Value
	Named  *Mapping
}

// ArgsOf returns positional arguments.
func ArgsOf(vs ...Value) Args { return Args{Values: vs} }

// Len returns the number of positional arguments.
func (a Args) Len() int { return len(a.Values) }

// At returns the positional argument at index i, or null if there is none.
func (a Args) At(i int) Value {
	if i < 0 || i >= len(a.Values) {
		return Null()
	}

	return a.Values[i]
}

// Lookup returns the argument named name, or else the positional argument at
// index i.
func (a Args) Lookup(i int, name string) (Value, bool) {
	if v, ok := a.Named.Get(name); ok {
		return v, true
	}

	if i < 0 || i >= len(a.Values) {
		return Null(), false
	}

	return a.Values[i], true
}

// Callable is an invocable value.
type Callable interface {
	Call(ctx context.Context, args Args) (Value, error)
}

// Func adapts an ordinary function to [Callable].
type Func func(ctx context.Context, args Args) (Value, error)

// Call implements [Callable].
func (f Func) Call(ctx context.Context, args Args) (Value, error) {
	return f(ctx, args)
}

// Handle is an opaque host object. The evaluator accesses a handle only
// through the optional capabilities [PropertyReader], [MethodCaller], and
// [DynamicCaller].
type Handle interface {
	TypeName() string
}

// PropertyReader is a [Handle] with named properties.
type PropertyReader interface {
	Property(name string) (Value, bool)
}

// MethodCaller is a [Handle] with named methods.
type MethodCaller interface {
	HasMethod(name string) bool
	CallMethod(ctx context.Context, name string, args Args) (Value, error)
}

// DynamicCaller is a [Handle] that accepts any method name. It is consulted
// only after properties and methods.
type DynamicCaller interface {
	CallDynamic(ctx context.Context, name string, args Args) (Value, error)
}

// BoundMethod is a method of a [Handle] that has not been invoked yet.
type BoundMethod struct {
	Receiver Handle
	Name     string
	Dynamic  bool
}

// Call implements [Callable].
func (m BoundMethod) Call(ctx context.Context, args Args) (Value, error) {
	if mc, ok := m.Receiver.(MethodCaller); ok && !m.Dynamic {
		return mc.CallMethod(ctx, m.Name, args)
	}

	if dc, ok := m.Receiver.(DynamicCaller); ok {
		return dc.CallDynamic(ctx, m.Name, args)
	}

	return Null(), ErrNotCallable.Detail(m.Receiver.TypeName() + "." + m.Name).
		With(slog.String("method", m.Name))
}

// Object is a [Handle] assembled from property values and method functions.
// It lets a host expose a structured object without writing an adapter type.
type Object struct {
	name    string
	props   *Mapping
	methods map[string]Func
}

// NewObject returns an empty object whose type name is name.
func NewObject(name string) *Object {
	return &Object{
		name:    name,
		props:   NewMapping(),
		methods: make(map[string]Func),
	}
}

// WithProperty binds a property and returns o.
func (o *Object) WithProperty(name string, v Value) *Object {
	o.props.Set(name, v)

	return o
}

// WithMethod binds a method and returns o.
func (o *Object) WithMethod(name string, fn Func) *Object {
	o.methods[name] = fn

	return o
}

// TypeName implements [Handle].
func (o *Object) TypeName() string { return o.name }

// Property implements [PropertyReader].
func (o *Object) Property(name string) (Value, bool) { return o.props.Get(name) }

// HasMethod implements [MethodCaller].
func (o *Object) HasMethod(name string) bool {
	_, ok := o.methods[name]

	return ok
}

// CallMethod implements [MethodCaller].
func (o *Object) CallMethod(
	ctx context.Context,
	name string,
	args Args,
) (Value, error) {
	fn, ok := o.methods[name]
	if !ok {
		return Null(), ErrMemberNotFound.Detail(o.name + "." + name)
	}

	return fn(ctx, args)
}

// Properties returns the property names of o in order.
func (o *Object) Properties() []string { return o.props.Keys() }

// Methods returns the method names of o.
func (o *Object) Methods() []string { return sortedKeys(o.methods) }
