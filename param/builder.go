package param

import "fmt"

// ParamBuilder provides a fluent, type-safe surface over a declared
// parameter. Constructors register the parameter immediately;
// declaration mistakes are recorded on the scope and surface through
// Err and the next Parse.
type ParamBuilder[T any] struct {
	param *Param
	scope *Params
}

func newBuilder[T any](p *Params, typeRef, name, desc string) *ParamBuilder[T] {
	par, err := NewParam(typeRef, name)
	if err != nil {
		p.fail(err)
		return &ParamBuilder[T]{scope: p}
	}
	par.Desc = desc
	if err := p.register(par, false); err != nil {
		p.fail(err)
		return &ParamBuilder[T]{scope: p}
	}
	return &ParamBuilder[T]{param: par, scope: p}
}

// Typed parameter constructors.

// StrParam declares a string parameter.
func (p *Params) StrParam(name, desc string) *ParamBuilder[string] {
	return newBuilder[string](p, string(TypeStr), name, desc)
}

// IntParam declares an integer parameter.
func (p *Params) IntParam(name, desc string) *ParamBuilder[int] {
	return newBuilder[int](p, string(TypeInt), name, desc)
}

// FloatParam declares a float parameter.
func (p *Params) FloatParam(name, desc string) *ParamBuilder[float64] {
	return newBuilder[float64](p, string(TypeFloat), name, desc)
}

// BoolParam declares a flag parameter. A bare hit settles to true.
func (p *Params) BoolParam(name, desc string) *ParamBuilder[bool] {
	return newBuilder[bool](p, string(TypeBool), name, desc)
}

// CountParam declares a count parameter. The canonical name must be a
// single character so repetitions like -vvv can match; add long forms
// with Aliases.
func (p *Params) CountParam(name, desc string) *ParamBuilder[int] {
	return newBuilder[int](p, string(TypeCount), name, desc)
}

// PathParam declares a path parameter.
func (p *Params) PathParam(name, desc string) *ParamBuilder[string] {
	return newBuilder[string](p, string(TypePath), name, desc)
}

// AutoParam declares a parameter whose values coerce by literal shape:
// bool words, then int, then float, then JSON, falling back to string.
func (p *Params) AutoParam(name, desc string) *ParamBuilder[any] {
	return newBuilder[any](p, string(TypeAuto), name, desc)
}

// PyParam declares a parameter that evaluates Python-style literal
// expressions like (1, 'a') or {'x': 1}.
func (p *Params) PyParam(name, desc string) *ParamBuilder[any] {
	return newBuilder[any](p, string(TypePy), name, desc)
}

// JSONParam declares a parameter that decodes its value as JSON.
func (p *Params) JSONParam(name, desc string) *ParamBuilder[any] {
	return newBuilder[any](p, string(TypeJSON), name, desc)
}

// ChoiceParam declares a string parameter restricted to choices.
func (p *Params) ChoiceParam(name, desc string, choices ...string) *ParamBuilder[string] {
	par, err := NewParam(string(TypeStr), name)
	if err != nil {
		p.fail(err)
		return &ParamBuilder[string]{scope: p}
	}
	par.Type = TypeChoice
	par.Desc = desc
	for _, c := range choices {
		par.Choices = append(par.Choices, StrValue(c))
	}
	if err := par.validate(); err != nil {
		p.fail(err)
		return &ParamBuilder[string]{scope: p}
	}
	if err := p.register(par, false); err != nil {
		p.fail(err)
		return &ParamBuilder[string]{scope: p}
	}
	return &ParamBuilder[string]{param: par, scope: p}
}

// ListParam declares a list parameter with auto-coerced elements. Use
// Subtype to pin the element type.
func (p *Params) ListParam(name, desc string) *ParamBuilder[[]any] {
	return newBuilder[[]any](p, string(TypeList), name, desc)
}

// StringsParam declares a list of strings.
func (p *Params) StringsParam(name, desc string) *ParamBuilder[[]string] {
	return newBuilder[[]string](p, "list:str", name, desc)
}

// IntsParam declares a list of integers.
func (p *Params) IntsParam(name, desc string) *ParamBuilder[[]int] {
	return newBuilder[[]int](p, "list:int", name, desc)
}

// NamespaceParam declares a namespace parameter grouping dotted
// children, as in --config.ncores.
func (p *Params) NamespaceParam(name, desc string) *ParamBuilder[any] {
	return newBuilder[any](p, string(TypeNamespace), name, desc)
}

// PositionalParam declares the positional parameter, a list of
// auto-coerced values collected from the trailing bare tokens.
func (p *Params) PositionalParam(desc string) *ParamBuilder[[]any] {
	return newBuilder[[]any](p, "", Positional, desc)
}

// Chainable modifiers. Each returns the receiver; a builder whose
// declaration failed ignores them.

// Default sets the declaration default.
func (b *ParamBuilder[T]) Default(value T) *ParamBuilder[T] {
	if b.param == nil {
		return b
	}
	v := FromAny(value)
	switch {
	case b.param.isCount() && !v.Equal(IntValue(0)):
		b.scope.fail(errorf(ErrorDeclaration, b.param.Name(),
			"a count parameter defaults to 0"))
	case b.param.Type == TypeChoice && !b.param.isChoice(v):
		b.scope.fail(errorf(ErrorDeclaration, b.param.Name(),
			"default %s is not a declared choice", v))
	default:
		b.param.setDefault(v)
	}
	return b
}

// Required marks the parameter required: no command-line value, no
// environment value, parse error.
func (b *ParamBuilder[T]) Required() *ParamBuilder[T] {
	if b.param != nil {
		b.param.Required = true
	}
	return b
}

// Aliases registers extra names. Dotted parameters take aliases under
// the same namespace path only.
func (b *ParamBuilder[T]) Aliases(names ...string) *ParamBuilder[T] {
	if b.param == nil {
		return b
	}
	for _, name := range names {
		if _, taken := b.scope.commands[name]; taken {
			b.scope.fail(errorf(ErrorDuplicateName, b.param.Name(),
				"name %q is already a command", name))
			return b
		}
	}
	if err := b.scope.store.AddAliases(b.param, names...); err != nil {
		b.scope.fail(err)
		return b
	}
	b.param.Names = append(b.param.Names, names...)
	return b
}

// Frozen pins the declared type: inline overrides like -a:int fail.
func (b *ParamBuilder[T]) Frozen() *ParamBuilder[T] {
	if b.param != nil {
		b.param.TypeFrozen = true
	}
	return b
}

// Max bounds a count parameter.
func (b *ParamBuilder[T]) Max(n int) *ParamBuilder[T] {
	if b.param == nil {
		return b
	}
	if !b.param.isCount() {
		b.scope.fail(errorf(ErrorDeclaration, b.param.Name(),
			"max applies to count parameters"))
		return b
	}
	if n < 0 {
		b.scope.fail(errorf(ErrorDeclaration, b.param.Name(), "negative count maximum"))
		return b
	}
	b.param.Max = n
	return b
}

// Choices appends allowed values to a choice parameter.
func (b *ParamBuilder[T]) Choices(values ...string) *ParamBuilder[T] {
	if b.param == nil {
		return b
	}
	if b.param.Type != TypeChoice {
		b.scope.fail(errorf(ErrorDeclaration, b.param.Name(),
			"choices apply to choice parameters"))
		return b
	}
	for _, c := range values {
		b.param.Choices = append(b.param.Choices, StrValue(c))
	}
	return b
}

// Subtype pins the element type of a list parameter.
func (b *ParamBuilder[T]) Subtype(ref string) *ParamBuilder[T] {
	if b.param == nil {
		return b
	}
	if !b.param.isList() {
		b.scope.fail(errorf(ErrorDeclaration, b.param.Name(),
			"subtype applies to list parameters"))
		return b
	}
	tag, ok := LookupType(ref)
	if !ok {
		b.scope.fail(errorf(ErrorDeclaration, b.param.Name(), "unknown type %q", ref))
		return b
	}
	b.param.Subtype = tag
	return b
}

// Callback installs a finalize-time callback.
func (b *ParamBuilder[T]) Callback(cb Callback) *ParamBuilder[T] {
	if b.param != nil {
		b.param.Callback = cb
	}
	return b
}

// Validate installs a typed validation function, run at finalize with
// the coerced value.
func (b *ParamBuilder[T]) Validate(fn func(T) error) *ParamBuilder[T] {
	if b.param == nil {
		return b
	}
	b.param.Callback = func(v Value, _ *Namespace) (Value, error) {
		typed, ok := valueTo[T](v)
		if !ok {
			return v, fmt.Errorf("unexpected value %s", v)
		}
		if err := fn(typed); err != nil {
			return v, err
		}
		return v, nil
	}
	return b
}

// FromEnv lists environment variables consulted, in order, when no
// command-line value arrives.
func (b *ParamBuilder[T]) FromEnv(envVars ...string) *ParamBuilder[T] {
	if b.param != nil {
		b.param.EnvVars = append(b.param.EnvVars, envVars...)
	}
	return b
}

// Hidden keeps the parameter out of help pages.
func (b *ParamBuilder[T]) Hidden() *ParamBuilder[T] {
	if b.param != nil {
		b.param.Hidden = true
	}
	return b
}

// Desc replaces the description.
func (b *ParamBuilder[T]) Desc(desc string) *ParamBuilder[T] {
	if b.param != nil {
		b.param.Desc = desc
	}
	return b
}

// Param exposes the underlying declaration.
func (b *ParamBuilder[T]) Param() *Param {
	return b.param
}

// Back returns the declaring scope for continued chaining.
func (b *ParamBuilder[T]) Back() *Params {
	return b.scope
}

// valueTo converts a finalized Value to the builder's Go type. Ints
// widen to float64; list values convert element-wise. A nil value
// settles as the target's zero so validators still run for parameters
// that were never provided.
func valueTo[T any](v Value) (T, bool) {
	var zero T
	raw := v.Interface()
	if typed, ok := raw.(T); ok {
		return typed, true
	}
	if raw == nil {
		return zero, true
	}
	switch any(zero).(type) {
	case float64:
		if f, ok := v.Float(); ok {
			if typed, ok := any(f).(T); ok {
				return typed, true
			}
		}
	case []string:
		if items, ok := toStrings(v); ok {
			if typed, ok := any(items).(T); ok {
				return typed, true
			}
		}
	case []int:
		if items, ok := toInts(v); ok {
			if typed, ok := any(items).(T); ok {
				return typed, true
			}
		}
	}
	return zero, false
}

func toStrings(v Value) ([]string, bool) {
	items, ok := v.List()
	if !ok {
		return nil, false
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.Str()
		if !ok {
			return nil, false
		}
		out[i] = s
	}
	return out, true
}

func toInts(v Value) ([]int, bool) {
	items, ok := v.List()
	if !ok {
		return nil, false
	}
	out := make([]int, len(items))
	for i, item := range items {
		n, ok := item.Int()
		if !ok {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}
