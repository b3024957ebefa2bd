package param

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Kind identifies the payload carried by a Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindStr
	KindPath
	KindList
	KindMap
	KindNamespace
)

// String returns the kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindStr:
		return "str"
	case KindPath:
		return "path"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindNamespace:
		return "namespace"
	default:
		return "unknown"
	}
}

// Value is the tagged variant every parsed parameter resolves to. The zero
// Value is the nil value.
type Value struct {
	kind Kind
	b    bool
	i    int
	f    float64
	s    string // shared by Str and Path
	list []Value
	m    map[string]Value
	ns   *Namespace
}

// Constructors

// NilValue returns the nil value.
func NilValue() Value { return Value{kind: KindNil} }

// BoolValue wraps a bool.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// IntValue wraps an int.
func IntValue(i int) Value { return Value{kind: KindInt, i: i} }

// FloatValue wraps a float64.
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// StrValue wraps a string.
func StrValue(s string) Value { return Value{kind: KindStr, s: s} }

// PathValue wraps a filesystem path. No existence check is performed.
func PathValue(p string) Value { return Value{kind: KindPath, s: p} }

// ListValue wraps a list of values.
func ListValue(items ...Value) Value {
	return Value{kind: KindList, list: items}
}

// MapValue wraps a string-keyed map of values.
func MapValue(m map[string]Value) Value {
	if m == nil {
		m = make(map[string]Value)
	}
	return Value{kind: KindMap, m: m}
}

// NamespaceValue wraps a result namespace.
func NamespaceValue(ns *Namespace) Value { return Value{kind: KindNamespace, ns: ns} }

// FromAny wraps an arbitrary Go value. Unrecognized types fall back to their
// fmt.Sprint rendering as a string value.
func FromAny(v any) Value {
	switch val := v.(type) {
	case nil:
		return NilValue()
	case Value:
		return val
	case bool:
		return BoolValue(val)
	case int:
		return IntValue(val)
	case int8:
		return IntValue(int(val))
	case int16:
		return IntValue(int(val))
	case int32:
		return IntValue(int(val))
	case int64:
		return IntValue(int(val))
	case uint:
		return IntValue(int(val))
	case uint8:
		return IntValue(int(val))
	case uint16:
		return IntValue(int(val))
	case uint32:
		return IntValue(int(val))
	case uint64:
		return IntValue(int(val))
	case float32:
		return FloatValue(float64(val))
	case float64:
		return FloatValue(val)
	case string:
		return StrValue(val)
	case []Value:
		return ListValue(val...)
	case []any:
		items := make([]Value, len(val))
		for i, item := range val {
			items[i] = FromAny(item)
		}
		return ListValue(items...)
	case []string:
		items := make([]Value, len(val))
		for i, item := range val {
			items[i] = StrValue(item)
		}
		return ListValue(items...)
	case []int:
		items := make([]Value, len(val))
		for i, item := range val {
			items[i] = IntValue(item)
		}
		return ListValue(items...)
	case []float64:
		items := make([]Value, len(val))
		for i, item := range val {
			items[i] = FloatValue(item)
		}
		return ListValue(items...)
	case map[string]Value:
		return MapValue(val)
	case map[string]any:
		m := make(map[string]Value, len(val))
		for k, item := range val {
			m[k] = FromAny(item)
		}
		return MapValue(m)
	case *Namespace:
		return NamespaceValue(val)
	default:
		return StrValue(fmt.Sprint(v))
	}
}

// Accessors

// Kind returns the value's kind tag.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether the value is the nil value.
func (v Value) IsNil() bool { return v.kind == KindNil }

// Bool returns the bool payload (safe access).
func (v Value) Bool() (bool, bool) {
	if v.kind == KindBool {
		return v.b, true
	}
	return false, false
}

// Int returns the int payload (safe access).
func (v Value) Int() (int, bool) {
	if v.kind == KindInt {
		return v.i, true
	}
	return 0, false
}

// Float returns the float payload. Int values convert losslessly.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// Str returns the string payload of a str or path value.
func (v Value) Str() (string, bool) {
	if v.kind == KindStr || v.kind == KindPath {
		return v.s, true
	}
	return "", false
}

// Path returns the path payload (safe access).
func (v Value) Path() (string, bool) {
	if v.kind == KindPath {
		return v.s, true
	}
	return "", false
}

// List returns the list payload (safe access).
func (v Value) List() ([]Value, bool) {
	if v.kind == KindList {
		return v.list, true
	}
	return nil, false
}

// Map returns the map payload (safe access).
func (v Value) Map() (map[string]Value, bool) {
	if v.kind == KindMap {
		return v.m, true
	}
	return nil, false
}

// Namespace returns the namespace payload (safe access).
func (v Value) Namespace() (*Namespace, bool) {
	if v.kind == KindNamespace {
		return v.ns, true
	}
	return nil, false
}

// Interface unwraps the value into plain Go types: nil, bool, int, float64,
// string, []any, map[string]any. Namespaces unwrap recursively.
func (v Value) Interface() any {
	switch v.kind {
	case KindNil:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindStr, KindPath:
		return v.s
	case KindList:
		items := make([]any, len(v.list))
		for i, item := range v.list {
			items[i] = item.Interface()
		}
		return items
	case KindMap:
		m := make(map[string]any, len(v.m))
		for k, item := range v.m {
			m[k] = item.Interface()
		}
		return m
	case KindNamespace:
		return v.ns.Interface()
	default:
		return nil
	}
}

// Equal reports value equality. Int and float payloads compare numerically,
// so IntValue(2) equals FloatValue(2.0); everything else requires matching
// kinds.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		// Cross-kind numeric comparison only
		vf, vok := v.numeric()
		of, ook := o.numeric()
		return vok && ook && vf == of
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindStr, KindPath:
		return v.s == o.s
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(o.m) {
			return false
		}
		for k, item := range v.m {
			other, ok := o.m[k]
			if !ok || !item.Equal(other) {
				return false
			}
		}
		return true
	case KindNamespace:
		return v.ns == o.ns
	default:
		return false
	}
}

func (v Value) numeric() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// String renders the value for help text and diagnostics. Scalar renderings
// round-trip through Coerce for their own type tag.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.Itoa(v.i)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindStr, KindPath:
		return v.s
	case KindList:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(item.String())
		}
		sb.WriteByte(']')
		return sb.String()
	case KindMap:
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var sb strings.Builder
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k)
			sb.WriteString(": ")
			sb.WriteString(v.m[k].String())
		}
		sb.WriteByte('}')
		return sb.String()
	case KindNamespace:
		return v.ns.String()
	default:
		return ""
	}
}

// MarshalJSON encodes the unwrapped value, so namespaces and lists dump as
// ordinary JSON objects and arrays.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}
