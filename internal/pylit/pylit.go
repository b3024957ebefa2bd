// Package pylit evaluates Python-style literal expressions: numbers, strings
// in either quote style, booleans, None, and arbitrarily nested tuples,
// lists, sets and dicts. It is the safe counterpart of Python's
// ast.literal_eval: no names other than True/False/None resolve, and nothing
// is ever executed.
package pylit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var litLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `'(?:\\.|[^'\\])*'|"(?:\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `[-+]?(?:0[xX][0-9a-fA-F_]+|0[oO][0-7_]+|0[bB][01_]+|(?:\d[\d_]*\.[\d_]*|\.\d[\d_]*|\d[\d_]*)(?:[eE][-+]?\d[\d_]*)?)`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[\[\](){},:]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// node is the grammar root: exactly one literal form.
type node struct {
	Str    *string `parser:"  @String"`
	Num    *string `parser:"| @Number"`
	Ident  *string `parser:"| @Ident"`
	List   *seq    `parser:"| \"[\" @@ \"]\""`
	Tuple  *seq    `parser:"| \"(\" @@ \")\""`
	Braces *braces `parser:"| \"{\" @@ \"}\""`
}

// seq is a comma-separated item list with an optional trailing comma.
type seq struct {
	Items []*node `parser:"( @@ ( \",\" @@ )* \",\"? )?"`
}

// braces holds dict or set entries; which one it is gets decided during
// evaluation from the presence of ":" values.
type braces struct {
	Entries []*entry `parser:"( @@ ( \",\" @@ )* \",\"? )?"`
}

type entry struct {
	Key *node `parser:"@@"`
	Val *node `parser:"( \":\" @@ )?"`
}

var litParser = participle.MustBuild[node](
	participle.Lexer(litLexer),
	participle.Elide("Whitespace"),
)

// Eval parses src as a single Python literal and returns its Go value:
// nil, bool, int, float64, string, []any (lists, tuples and sets) or
// map[string]any (dicts; non-string keys are rendered to strings).
func Eval(src string) (any, error) {
	n, err := litParser.ParseString("", strings.TrimSpace(src))
	if err != nil {
		return nil, fmt.Errorf("invalid literal %q: %w", src, err)
	}
	return evalNode(n)
}

func evalNode(n *node) (any, error) {
	switch {
	case n.Str != nil:
		return unquote(*n.Str)
	case n.Num != nil:
		return evalNumber(*n.Num)
	case n.Ident != nil:
		switch *n.Ident {
		case "True":
			return true, nil
		case "False":
			return false, nil
		case "None":
			return nil, nil
		}
		return nil, fmt.Errorf("name %q is not a literal", *n.Ident)
	case n.List != nil:
		return evalSeq(n.List)
	case n.Tuple != nil:
		return evalSeq(n.Tuple)
	case n.Braces != nil:
		return evalBraces(n.Braces)
	}
	return nil, fmt.Errorf("empty literal")
}

func evalSeq(s *seq) (any, error) {
	items := make([]any, 0, len(s.Items))
	for _, it := range s.Items {
		v, err := evalNode(it)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

func evalBraces(b *braces) (any, error) {
	if len(b.Entries) == 0 {
		// {} is a dict in Python, never an empty set
		return map[string]any{}, nil
	}
	isDict := b.Entries[0].Val != nil
	if isDict {
		m := make(map[string]any, len(b.Entries))
		for _, e := range b.Entries {
			if e.Val == nil {
				return nil, fmt.Errorf("mixed dict and set entries")
			}
			k, err := evalNode(e.Key)
			if err != nil {
				return nil, err
			}
			v, err := evalNode(e.Val)
			if err != nil {
				return nil, err
			}
			m[keyString(k)] = v
		}
		return m, nil
	}
	items := make([]any, 0, len(b.Entries))
	for _, e := range b.Entries {
		if e.Val != nil {
			return nil, fmt.Errorf("mixed dict and set entries")
		}
		v, err := evalNode(e.Key)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

func evalNumber(s string) (any, error) {
	body := strings.TrimLeft(s, "+-")
	if len(body) > 1 && body[0] == '0' && strings.ContainsRune("xXoObB", rune(body[1])) {
		// prefixed integer forms; base 0 also accepts digit separators
		i, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", s)
		}
		return int(i), nil
	}
	if !underscoresBetweenDigits(s) {
		return nil, fmt.Errorf("bad number %q", s)
	}
	if !strings.ContainsAny(body, ".eE") {
		if i, err := strconv.ParseInt(strings.ReplaceAll(s, "_", ""), 10, 64); err == nil {
			return int(i), nil
		}
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
	if err != nil {
		return nil, fmt.Errorf("bad number %q", s)
	}
	return f, nil
}

// underscoresBetweenDigits enforces Python's placement rule for digit
// group separators in decimal forms.
func underscoresBetweenDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			continue
		}
		if i == 0 || i == len(s)-1 {
			return false
		}
		if s[i-1] < '0' || s[i-1] > '9' || s[i+1] < '0' || s[i+1] > '9' {
			return false
		}
	}
	return true
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", k)
}

// unquote strips the surrounding quotes and resolves Python escape
// sequences. Unknown escapes keep the backslash, as Python does.
func unquote(s string) (string, error) {
	if len(s) < 2 {
		return "", fmt.Errorf("bad string literal %q", s)
	}
	body := s[1 : len(s)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}

	var sb strings.Builder
	sb.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i == len(body)-1 {
			sb.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case '\\', '\'', '"':
			sb.WriteByte(body[i])
		case 'x':
			if i+2 >= len(body) {
				return "", fmt.Errorf("truncated \\x escape in %q", s)
			}
			n, err := strconv.ParseUint(body[i+1:i+3], 16, 8)
			if err != nil {
				return "", fmt.Errorf("bad \\x escape in %q", s)
			}
			sb.WriteByte(byte(n))
			i += 2
		case 'u', 'U':
			width := 4
			if body[i] == 'U' {
				width = 8
			}
			if i+width >= len(body) {
				return "", fmt.Errorf("truncated \\%c escape in %q", body[i], s)
			}
			n, err := strconv.ParseUint(body[i+1:i+1+width], 16, 32)
			if err != nil {
				return "", fmt.Errorf("bad \\%c escape in %q", body[i], s)
			}
			sb.WriteRune(rune(n))
			i += width
		default:
			// Python keeps unrecognized escapes verbatim
			sb.WriteByte('\\')
			sb.WriteByte(body[i])
		}
	}
	return sb.String(), nil
}
