package param

import (
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/dzonerzy/go-param/internal/pylit"
)

// TypeTag identifies a parameter type in declarations and inline overrides.
type TypeTag string

const (
	TypeAuto      TypeTag = "auto"
	TypeInt       TypeTag = "int"
	TypeFloat     TypeTag = "float"
	TypeStr       TypeTag = "str"
	TypeBool      TypeTag = "bool"
	TypeCount     TypeTag = "count"
	TypePath      TypeTag = "path"
	TypePy        TypeTag = "py"
	TypeJSON      TypeTag = "json"
	TypeChoice    TypeTag = "choice"
	TypeList      TypeTag = "list"
	TypeNamespace TypeTag = "ns"
	TypeReset     TypeTag = "reset"

	// TypeNone marks an absent type reference (no inline override).
	TypeNone TypeTag = ""
)

// typeAliases maps every accepted spelling to its canonical tag. Immutable
// after init.
var typeAliases = map[string]TypeTag{
	"auto":      TypeAuto,
	"int":       TypeInt,
	"i":         TypeInt,
	"float":     TypeFloat,
	"f":         TypeFloat,
	"str":       TypeStr,
	"s":         TypeStr,
	"bool":      TypeBool,
	"b":         TypeBool,
	"flag":      TypeBool,
	"count":     TypeCount,
	"path":      TypePath,
	"p":         TypePath,
	"file":      TypePath,
	"py":        TypePy,
	"json":      TypeJSON,
	"j":         TypeJSON,
	"choice":    TypeChoice,
	"c":         TypeChoice,
	"list":      TypeList,
	"l":         TypeList,
	"a":         TypeList,
	"array":     TypeList,
	"ns":        TypeNamespace,
	"namespace": TypeNamespace,
	"reset":     TypeReset,
	"r":         TypeReset,
}

// LookupType resolves a type name or alias to its canonical tag.
func LookupType(name string) (TypeTag, bool) {
	tag, ok := typeAliases[name]
	return tag, ok
}

// ParseTypeRef resolves a type reference of the form "type" or
// "type:subtype" (e.g. "int", "l:i", "list:int"). The empty reference
// resolves to (TypeNone, TypeNone, true).
func ParseTypeRef(ref string) (TypeTag, TypeTag, bool) {
	if ref == "" {
		return TypeNone, TypeNone, true
	}
	main := ref
	sub := ""
	if idx := strings.IndexByte(ref, ':'); idx != -1 {
		main = ref[:idx]
		sub = ref[idx+1:]
	}
	mainTag, ok := LookupType(main)
	if !ok {
		return TypeNone, TypeNone, false
	}
	if sub == "" {
		return mainTag, TypeNone, true
	}
	subTag, ok := LookupType(sub)
	if !ok || mainTag != TypeList {
		// Only lists take a subtype
		return TypeNone, TypeNone, false
	}
	return mainTag, subTag, true
}

// renderTypeRef renders a tag pair back to its declaration form.
func renderTypeRef(tag, sub TypeTag) string {
	if tag == TypeList && sub != TypeNone && sub != TypeAuto {
		return string(tag) + ":" + string(sub)
	}
	return string(tag)
}

// Fixed literal sets shared by the bool type and the auto cascade.
var (
	trueLiterals  = []string{"true", "True", "TRUE", "1"}
	falseLiterals = []string{"false", "False", "FALSE", "0"}
)

func inLiterals(s string, set []string) bool {
	for _, lit := range set {
		if s == lit {
			return true
		}
	}
	return false
}

// Coerce converts raw text into a typed Value according to tag. For list
// tags the subtype (default auto) coerces the single element; accumulation
// is the matcher's concern.
func Coerce(tag, sub TypeTag, raw string) (Value, error) {
	switch tag {
	case TypeAuto, TypeNone:
		return coerceAuto(raw), nil
	case TypeInt:
		return coerceInt(raw)
	case TypeFloat:
		return coerceFloat(raw)
	case TypeStr:
		return StrValue(raw), nil
	case TypeBool:
		return coerceBool(raw)
	case TypeCount:
		if !allDigits(raw) {
			return NilValue(), coercionError("", raw, "count takes a non-negative integer")
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return NilValue(), coercionError("", raw, "count takes a non-negative integer")
		}
		return IntValue(n), nil
	case TypePath:
		return PathValue(raw), nil
	case TypePy:
		v, err := pylit.Eval(raw)
		if err != nil {
			return NilValue(), coercionError("", raw, "not a python literal")
		}
		return FromAny(v), nil
	case TypeJSON:
		return coerceJSON(raw)
	case TypeChoice:
		// Membership is checked at finalize where choices live
		return coerceAuto(raw), nil
	case TypeList:
		elem := sub
		if elem == TypeNone {
			elem = TypeAuto
		}
		return Coerce(elem, TypeNone, raw)
	default:
		return NilValue(), coercionError("", raw, "type "+string(tag)+" takes no value")
	}
}

// coerceAuto applies the inference cascade: nil literal, integer, float,
// bool literal, structural literal, then plain string. A malformed
// structural literal falls back to the raw string; explicit py/json tags
// are the strict path.
func coerceAuto(raw string) Value {
	if raw == "none" || raw == "None" {
		return NilValue()
	}
	if isIntLiteral(raw) {
		if v, err := coerceInt(raw); err == nil {
			return v
		}
	}
	if isFloatLiteral(raw) {
		if v, err := coerceFloat(raw); err == nil {
			return v
		}
	}
	if inLiterals(raw, trueLiterals) {
		return BoolValue(true)
	}
	if inLiterals(raw, falseLiterals) {
		return BoolValue(false)
	}
	if len(raw) > 0 && (raw[0] == '{' || raw[0] == '[' || raw[0] == '(') {
		if v, err := pylit.Eval(raw); err == nil {
			return FromAny(v)
		}
	}
	return StrValue(raw)
}

func coerceInt(raw string) (Value, error) {
	if !isIntLiteral(raw) {
		return NilValue(), coercionError("", raw, "not an integer")
	}
	n, err := strconv.Atoi(strings.ReplaceAll(raw, "_", ""))
	if err != nil {
		return NilValue(), coercionError("", raw, "not an integer")
	}
	return IntValue(n), nil
}

func coerceFloat(raw string) (Value, error) {
	cleaned := strings.ReplaceAll(raw, "_", "")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return NilValue(), coercionError("", raw, "not a float")
	}
	return FloatValue(f), nil
}

func coerceBool(raw string) (Value, error) {
	if inLiterals(raw, trueLiterals) {
		return BoolValue(true), nil
	}
	if inLiterals(raw, falseLiterals) {
		return BoolValue(false), nil
	}
	return NilValue(), coercionError("", raw, "not a boolean literal")
}

func coerceJSON(raw string) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return NilValue(), coercionError("", raw, "malformed json")
	}
	if dec.More() {
		// Trailing tokens after the first document
		return NilValue(), coercionError("", raw, "malformed json")
	}
	return FromAny(convertJSONNumbers(v)), nil
}

// convertJSONNumbers rewrites json.Number payloads into int where the text
// is integral, float otherwise.
func convertJSONNumbers(v any) any {
	switch val := v.(type) {
	case json.Number:
		if n, err := strconv.Atoi(val.String()); err == nil {
			return n
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case []any:
		for i, item := range val {
			val[i] = convertJSONNumbers(item)
		}
		return val
	case map[string]any:
		for k, item := range val {
			val[k] = convertJSONNumbers(item)
		}
		return val
	default:
		return v
	}
}

// scanDigitRun consumes a run of digits with underscores between them,
// returning the new offset and the digit count. An underscore that does
// not sit between two digits fails the run.
func scanDigitRun(s string, i int) (int, int, bool) {
	digits := 0
	prevDigit := false
	for i < len(s) {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			digits++
			prevDigit = true
		case s[i] == '_':
			if !prevDigit {
				return i, digits, false
			}
			prevDigit = false
		default:
			return i, digits, prevDigit || digits == 0
		}
		i++
	}
	return i, digits, prevDigit || digits == 0
}

// isIntLiteral accepts an optional sign followed by digits, with
// underscores allowed between digits.
func isIntLiteral(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	j, digits, ok := scanDigitRun(s, i)
	return ok && digits > 0 && j == len(s)
}

// isFloatLiteral accepts decimal forms with an optional fraction and
// exponent: 1.5, .5, 1., 1e-3, 1.5E+2. Plain integers also pass; the auto
// cascade checks the int form first so they never reach here.
func isFloatLiteral(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	i, digits, ok := scanDigitRun(s, i)
	if !ok {
		return false
	}
	if i < len(s) && s[i] == '.' {
		var more int
		i, more, ok = scanDigitRun(s, i+1)
		if !ok {
			return false
		}
		digits += more
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		var expDigits int
		i, expDigits, ok = scanDigitRun(s, i)
		if !ok || expDigits == 0 {
			return false
		}
	}
	return i == len(s)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// zeroValue returns the value an unset, defaultless parameter finalizes to.
func zeroValue(tag TypeTag) Value {
	switch tag {
	case TypeInt, TypeCount:
		return IntValue(0)
	case TypeFloat:
		return FloatValue(0)
	case TypeStr:
		return StrValue("")
	case TypeBool:
		return BoolValue(false)
	case TypePath:
		return PathValue("")
	case TypeList:
		return ListValue()
	default:
		return NilValue()
	}
}

// InferType maps a Go value onto declaration tags, for FromMap and
// arbitrary-mode defaults. Uniform element types specialize the list
// subtype; nested maps declare namespaces.
func InferType(v any) (TypeTag, TypeTag) {
	switch val := v.(type) {
	case nil:
		return TypeAuto, TypeNone
	case Value:
		return inferValueType(val)
	case bool:
		return TypeBool, TypeNone
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeInt, TypeNone
	case float32, float64:
		return TypeFloat, TypeNone
	case string:
		return TypeStr, TypeNone
	case []string:
		return TypeList, TypeStr
	case []int:
		return TypeList, TypeInt
	case []float64:
		return TypeList, TypeFloat
	case []any:
		return TypeList, inferElemType(val)
	case map[string]any:
		return TypeNamespace, TypeNone
	default:
		return TypeAuto, TypeNone
	}
}

func inferValueType(v Value) (TypeTag, TypeTag) {
	switch v.Kind() {
	case KindBool:
		return TypeBool, TypeNone
	case KindInt:
		return TypeInt, TypeNone
	case KindFloat:
		return TypeFloat, TypeNone
	case KindStr:
		return TypeStr, TypeNone
	case KindPath:
		return TypePath, TypeNone
	case KindList:
		return TypeList, TypeNone
	case KindMap:
		return TypeJSON, TypeNone
	case KindNamespace:
		return TypeNamespace, TypeNone
	default:
		return TypeAuto, TypeNone
	}
}

func inferElemType(items []any) TypeTag {
	if len(items) == 0 {
		return TypeNone
	}
	elem, _ := InferType(items[0])
	if elem == TypeList || elem == TypeNamespace {
		return TypeNone
	}
	for _, item := range items[1:] {
		tag, _ := InferType(item)
		if tag != elem {
			return TypeNone
		}
	}
	return elem
}
