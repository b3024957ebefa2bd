package param

import "strings"

// terminator ends parameter matching: everything after it is captured as
// positional values.
const terminator = "--"

// token is one argv item classified as a parameter reference. The name
// side may still fail resolution; classification is purely syntactic.
type token struct {
	raw     string
	prefix  string // the prefix present on the item
	name    string // may be dot-qualified
	typeRef string // inline type override, "" when absent
	value   string // attached value after '='
	hasEq   bool
	reset   bool
}

// scanArg classifies one argv item under the prefix policy. ok=false
// means the item is a plain value.
//
// Under the auto policy a single dash accepts any name ("-a", "-a.bc",
// "-vvv" for later attached-value splitting) while a double dash needs
// at least two characters on the name side, so "--a" stays a value but
// "--x:reset" still refers to x.
func scanArg(raw, prefix string) (token, bool) {
	var side, used string
	switch prefix {
	case "auto":
		switch {
		case strings.HasPrefix(raw, "--"):
			side, used = raw[2:], "--"
		case strings.HasPrefix(raw, "-"):
			side, used = raw[1:], "-"
		default:
			return token{}, false
		}
	case "":
		side, used = raw, ""
	default:
		if !strings.HasPrefix(raw, prefix) {
			return token{}, false
		}
		side, used = raw[len(prefix):], prefix
	}

	tok, ok := splitNameSide(side)
	if !ok {
		return token{}, false
	}
	if prefix == "auto" && used == "--" &&
		len(tok.name) < 2 && tok.typeRef == "" && !tok.reset {
		return token{}, false
	}
	tok.raw = raw
	tok.prefix = used
	return tok, true
}

// splitNameSide parses name[:type][=value] with the '=' cut first so
// attached values may contain colons.
func splitNameSide(side string) (token, bool) {
	var tok token
	if eq := strings.IndexByte(side, '='); eq != -1 {
		tok.value = side[eq+1:]
		tok.hasEq = true
		side = side[:eq]
	}
	if colon := strings.IndexByte(side, ':'); colon != -1 {
		ref := side[colon+1:]
		side = side[:colon]
		ref, tok.reset = splitReset(ref)
		if ref != "" && !validTypeRef(ref) {
			return token{}, false
		}
		if ref == "" && !tok.reset {
			return token{}, false
		}
		tok.typeRef = ref
	}
	if !validName(side) {
		return token{}, false
	}
	tok.name = side
	return tok, true
}

// splitReset strips a trailing reset marker from a type reference:
// "reset", "r", "list:reset", "list:str:r".
func splitReset(ref string) (string, bool) {
	switch {
	case ref == "r" || ref == "reset":
		return "", true
	case strings.HasSuffix(ref, ":r"):
		return ref[:len(ref)-2], true
	case strings.HasSuffix(ref, ":reset"):
		return ref[:len(ref)-6], true
	}
	return ref, false
}

// validName accepts a leading letter or '@' followed by letters, digits,
// '_', '-', and '.'. Digit-leading rests keep negative numbers ("-1",
// "-1.5e3") classified as values.
func validName(name string) bool {
	if name == "" {
		return false
	}
	if !isLetter(name[0]) && name[0] != '@' {
		return false
	}
	for i := 1; i < len(name); i++ {
		c := name[i]
		if !isLetter(c) && !isDigit(c) && c != '_' && c != '-' && c != '.' {
			return false
		}
	}
	return true
}

func validTypeRef(ref string) bool {
	for i := 0; i < len(ref); i++ {
		c := ref[i]
		if !isLetter(c) && !isDigit(c) && c != '_' && c != ':' {
			return false
		}
	}
	return ref != ""
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// argLike reports whether a later argv item would be taken as a
// parameter reference, which blocks the start of positional capture so
// stray values ahead of named arguments warn instead of silently joining
// the positional list.
func argLike(raw, prefix string) bool {
	switch prefix {
	case "auto":
		if !strings.HasPrefix(raw, "-") {
			return false
		}
		return len(raw) <= 2 || (strings.HasPrefix(raw, "--") && len(raw) > 3)
	case "":
		return false
	default:
		return strings.HasPrefix(raw, prefix)
	}
}
