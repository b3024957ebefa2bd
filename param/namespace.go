package param

import (
	"strings"

	json "github.com/goccy/go-json"
)

// CommandKey is the reserved discriminator key: when a sub-command is
// dispatched, the parent namespace records the chosen canonical name under
// it.
const CommandKey = "__command__"

// Namespace is the parse result tree: an insertion-ordered mapping from
// parameter name to Value, with nested namespaces for namespace parameters
// and dispatched commands.
type Namespace struct {
	keys     []string
	values   map[string]Value
	aliases  map[string]string // alias -> canonical entry name
	warnings []Warning
}

// NewNamespace returns an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{values: make(map[string]Value)}
}

// Set stores a value. First insertion fixes the display position;
// overwrites keep it.
func (n *Namespace) Set(name string, v Value) {
	if _, exists := n.values[name]; !exists {
		n.keys = append(n.keys, name)
	}
	n.values[name] = v
}

// Get looks up a value. Parameter aliases resolve to their canonical
// entry, and dot-qualified names route through nested namespaces, so
// Get("config.ncores") reaches into the "config" subtree.
func (n *Namespace) Get(name string) (Value, bool) {
	if v, ok := n.values[name]; ok {
		return v, true
	}
	if canonical, ok := n.aliases[name]; ok {
		if v, ok := n.values[canonical]; ok {
			return v, true
		}
	}
	if idx := strings.IndexByte(name, '.'); idx != -1 {
		head, rest := name[:idx], name[idx+1:]
		if canonical, ok := n.aliases[head]; ok {
			head = canonical
		}
		if v, ok := n.values[head]; ok {
			if sub, ok := v.Namespace(); ok {
				return sub.Get(rest)
			}
		}
	}
	return Value{}, false
}

// linkAlias records an alternate name for an existing entry so lookups by
// any declared alias succeed. Keys, Interface, and JSON output stay
// canonical.
func (n *Namespace) linkAlias(alias, canonical string) {
	if alias == canonical {
		return
	}
	if n.aliases == nil {
		n.aliases = make(map[string]string)
	}
	n.aliases[alias] = canonical
}

// merge folds src into n key by key. Entries that are namespaces on
// both sides merge recursively; anything else is overwritten by src.
func (n *Namespace) merge(src *Namespace) {
	for _, key := range src.keys {
		v := src.values[key]
		if sub, ok := v.Namespace(); ok {
			if prev, exists := n.values[key]; exists {
				if prevNS, wasNS := prev.Namespace(); wasNS {
					prevNS.merge(sub)
					continue
				}
			}
		}
		n.Set(key, v)
	}
	for alias, canonical := range src.aliases {
		n.linkAlias(alias, canonical)
	}
}

// Has reports whether name resolves to a value.
func (n *Namespace) Has(name string) bool {
	_, ok := n.Get(name)
	return ok
}

// Len returns the number of entries.
func (n *Namespace) Len() int {
	return len(n.keys)
}

// Keys returns the entry names in insertion order.
func (n *Namespace) Keys() []string {
	keys := make([]string, len(n.keys))
	copy(keys, n.keys)
	return keys
}

// Command returns the canonical name of the dispatched sub-command, or ""
// when no command was chosen.
func (n *Namespace) Command() string {
	if v, ok := n.values[CommandKey]; ok {
		if s, ok := v.Str(); ok {
			return s
		}
	}
	return ""
}

// Warnings returns the non-fatal diagnostics collected during the parse.
func (n *Namespace) Warnings() []Warning {
	return n.warnings
}

func (n *Namespace) addWarning(w Warning) {
	n.warnings = append(n.warnings, w)
}

// Typed accessors (safe access plus Must variants with fallback).

// Int retrieves an int value.
func (n *Namespace) Int(name string) (int, bool) {
	if v, ok := n.Get(name); ok {
		return v.Int()
	}
	return 0, false
}

// MustInt retrieves an int value with a default fallback.
func (n *Namespace) MustInt(name string, defaultValue int) int {
	if v, ok := n.Int(name); ok {
		return v
	}
	return defaultValue
}

// Float retrieves a float value; int entries convert losslessly.
func (n *Namespace) Float(name string) (float64, bool) {
	if v, ok := n.Get(name); ok {
		return v.Float()
	}
	return 0, false
}

// MustFloat retrieves a float value with a default fallback.
func (n *Namespace) MustFloat(name string, defaultValue float64) float64 {
	if v, ok := n.Float(name); ok {
		return v
	}
	return defaultValue
}

// Str retrieves a string or path value.
func (n *Namespace) Str(name string) (string, bool) {
	if v, ok := n.Get(name); ok {
		return v.Str()
	}
	return "", false
}

// MustStr retrieves a string value with a default fallback.
func (n *Namespace) MustStr(name, defaultValue string) string {
	if v, ok := n.Str(name); ok {
		return v
	}
	return defaultValue
}

// Bool retrieves a bool value.
func (n *Namespace) Bool(name string) (bool, bool) {
	if v, ok := n.Get(name); ok {
		return v.Bool()
	}
	return false, false
}

// MustBool retrieves a bool value with a default fallback.
func (n *Namespace) MustBool(name string, defaultValue bool) bool {
	if v, ok := n.Bool(name); ok {
		return v
	}
	return defaultValue
}

// Path retrieves a path value.
func (n *Namespace) Path(name string) (string, bool) {
	if v, ok := n.Get(name); ok {
		return v.Path()
	}
	return "", false
}

// List retrieves a list value.
func (n *Namespace) List(name string) ([]Value, bool) {
	if v, ok := n.Get(name); ok {
		return v.List()
	}
	return nil, false
}

// Strings retrieves a list whose elements are all strings.
func (n *Namespace) Strings(name string) ([]string, bool) {
	items, ok := n.List(name)
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

// Ints retrieves a list whose elements are all ints.
func (n *Namespace) Ints(name string) ([]int, bool) {
	items, ok := n.List(name)
	if !ok {
		return nil, false
	}
	out := make([]int, len(items))
	for i, item := range items {
		v, ok := item.Int()
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// Map retrieves a map value.
func (n *Namespace) Map(name string) (map[string]Value, bool) {
	if v, ok := n.Get(name); ok {
		return v.Map()
	}
	return nil, false
}

// Sub retrieves a nested namespace (a namespace parameter's children or a
// dispatched command's result).
func (n *Namespace) Sub(name string) (*Namespace, bool) {
	if v, ok := n.Get(name); ok {
		return v.Namespace()
	}
	return nil, false
}

// Interface unwraps the tree into plain map[string]any.
func (n *Namespace) Interface() map[string]any {
	m := make(map[string]any, len(n.keys))
	for _, k := range n.keys {
		m[k] = n.values[k].Interface()
	}
	return m
}

// String renders the namespace in insertion order.
func (n *Namespace) String() string {
	var sb strings.Builder
	sb.WriteString("Namespace(")
	for i, k := range n.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(n.values[k].String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// MarshalJSON encodes the unwrapped tree.
func (n *Namespace) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Interface())
}
