package param

import (
	"sort"
	"strings"
)

// Positional is the reserved name under which positional values are
// declared and reported.
const Positional = "_"

// Param is one declared parameter. Instances are immutable during a parse
// pass; all accumulation lives in the per-parse match state.
type Param struct {
	Names      []string // insertion order; the first name is canonical
	Type       TypeTag
	Subtype    TypeTag // list element type; TypeNone means auto
	Desc       string
	Default    Value
	HasDefault bool
	Required   bool
	TypeFrozen bool
	Choices    []Value // choice type only
	Max        int     // count upper bound; 0 means unbounded
	Callback   Callback
	EnvVars    []string
	Hidden     bool

	children *Store // namespace type only
	isHelp   bool   // installed for the configured help keys
}

// NewParam builds a parameter from a type reference string ("int", "l:i",
// "list:int", "") and its names. An empty reference means auto, except for
// the reserved positional name, which defaults to a list of auto values.
func NewParam(typeRef string, names ...string) (*Param, error) {
	if len(names) == 0 {
		return nil, errorf(ErrorDeclaration, "", "a parameter needs at least one name")
	}
	p := &Param{Names: names}

	switch typeRef {
	case "positional":
		p.Type = TypeList
		p.Subtype = TypeAuto
	case "":
		if p.Name() == Positional {
			p.Type = TypeList
			p.Subtype = TypeAuto
		} else {
			p.Type = TypeAuto
		}
	default:
		tag, sub, ok := ParseTypeRef(typeRef)
		if !ok {
			return nil, errorf(ErrorDeclaration, names[0], "unknown type %q", typeRef)
		}
		p.Type = tag
		p.Subtype = sub
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Name returns the canonical (first declared) name.
func (p *Param) Name() string {
	return p.Names[0]
}

// HasAlias reports whether name is one of the parameter's names.
func (p *Param) HasAlias(name string) bool {
	for _, n := range p.Names {
		if n == name {
			return true
		}
	}
	return false
}

// aliasesByLength returns the names sorted by length, then lexically, the
// order help output uses.
func (p *Param) aliasesByLength() []string {
	names := make([]string, len(p.Names))
	copy(names, p.Names)
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) < len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}

// Kind predicates used by the matcher.

func (p *Param) isNamespace() bool { return p.Type == TypeNamespace }
func (p *Param) isList() bool      { return p.Type == TypeList }
func (p *Param) isBool() bool      { return p.Type == TypeBool }
func (p *Param) isCount() bool     { return p.Type == TypeCount }

// isScalar reports whether the parameter takes exactly one value token.
func (p *Param) isScalar() bool {
	switch p.Type {
	case TypeNamespace, TypeList, TypeBool, TypeCount:
		return false
	default:
		return true
	}
}

func (p *Param) isPositional() bool { return p.Name() == Positional }

// Children returns the child store of a namespace parameter, creating it
// on first use.
func (p *Param) Children() *Store {
	if p.children == nil {
		p.children = NewStore()
	}
	return p.children
}

// setDefault normalizes and stores a declaration default. List defaults
// accept a scalar and wrap it; path defaults accept a plain string.
func (p *Param) setDefault(v Value) {
	if p.isList() {
		if _, ok := v.List(); !ok {
			v = ListValue(v)
		}
	}
	if p.Type == TypePath {
		if s, ok := v.Str(); ok {
			v = PathValue(s)
		}
	}
	p.Default = v
	p.HasDefault = true
}

// validate enforces the declaration invariants.
func (p *Param) validate() error {
	for _, name := range p.Names {
		if name == "" {
			return errorf(ErrorDeclaration, p.Name(), "empty parameter name")
		}
		if strings.ContainsAny(name, " \t=:,") {
			return errorf(ErrorDeclaration, p.Name(), "invalid characters in name %q", name)
		}
	}

	switch p.Type {
	case TypeReset, TypeNone:
		return errorf(ErrorDeclaration, p.Name(), "type %q is not declarable", string(p.Type))
	case TypeCount:
		if !p.hasShortAlias() {
			return errorf(ErrorDeclaration, p.Name(), "a count parameter needs a single-character alias")
		}
		if p.HasDefault && !p.Default.Equal(IntValue(0)) {
			return errorf(ErrorDeclaration, p.Name(), "a count parameter defaults to 0")
		}
		if p.Max < 0 {
			return errorf(ErrorDeclaration, p.Name(), "negative count maximum")
		}
		p.setDefault(IntValue(0))
	case TypeChoice:
		if len(p.Choices) == 0 {
			return errorf(ErrorDeclaration, p.Name(), "a choice parameter needs choices")
		}
		if p.HasDefault && !p.isChoice(p.Default) {
			return errorf(ErrorDeclaration, p.Name(), "default %s is not a declared choice", p.Default)
		}
	}

	if p.isPositional() && len(p.Names) != 1 {
		return errorf(ErrorDeclaration, p.Name(), "the positional parameter takes no aliases")
	}
	return nil
}

func (p *Param) hasShortAlias() bool {
	for _, name := range p.Names {
		if len(name) == 1 {
			return true
		}
	}
	return false
}

// shortAlias returns the first single-character alias, for count
// repetition matching.
func (p *Param) shortAlias() string {
	for _, name := range p.Names {
		if len(name) == 1 {
			return name
		}
	}
	return ""
}

// isChoice reports membership of v in the declared choices, comparing
// numerics across int and float.
func (p *Param) isChoice(v Value) bool {
	for _, c := range p.Choices {
		if v.Equal(c) {
			return true
		}
	}
	return false
}
