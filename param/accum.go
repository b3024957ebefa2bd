package param

import (
	"fmt"
	"strconv"
	"strings"
)

// accum is the per-parameter accumulation state for one parse pass.
// Values arrive as raw strings grouped into runs, one run per hit
// segment; coercion happens once at finalize. Inline type overrides land
// here so declarations stay untouched across parses.
type accum struct {
	param *Param
	typ   TypeTag // effective type after any inline override
	sub   TypeTag

	runs   [][]string
	hit    bool // matched, no value pushed yet in this segment
	seen   bool // matched at least once during the parse
	seeded bool // list default still counts as the leading run
}

func newAccum(p *Param) *accum {
	a := &accum{param: p, typ: p.Type, sub: p.Subtype}
	if p.Type == TypeList && p.HasDefault {
		a.seeded = true
	}
	return a
}

// Effective-type predicates. An override changes how the remainder of
// the parse treats the parameter, not just the final coercion.

func (a *accum) isList() bool      { return a.typ == TypeList }
func (a *accum) isBool() bool      { return a.typ == TypeBool }
func (a *accum) isCount() bool     { return a.typ == TypeCount }
func (a *accum) isNamespace() bool { return a.typ == TypeNamespace }

// openHit starts a new hit segment, applying an inline type override and
// reset marker first. A frozen declaration rejects the override.
func (a *accum) openHit(tag, sub TypeTag, hasOverride, reset bool, warn func(Warning)) error {
	if hasOverride {
		if a.param.TypeFrozen {
			return errorf(ErrorFrozenType, a.param.Name(),
				"type of argument %q is not overwritable", a.param.Name())
		}
		if tag != a.typ || sub != a.sub {
			warn(Warning{Kind: WarnTypeChange, Message: fmt.Sprintf(
				"type changed from %q to %q for argument %q",
				renderTypeRef(a.typ, a.sub), renderTypeRef(tag, sub), a.param.Name())})
			a.typ, a.sub = tag, sub
		}
	}
	if reset {
		if a.isList() {
			a.runs = nil
			a.seeded = false
		} else {
			warn(Warning{Kind: WarnTypeChange, Message: fmt.Sprintf(
				"reset ignored for non-list argument %q", a.param.Name())})
		}
	}
	a.hit = true
	a.seen = true
	return nil
}

// wants reports whether a bare value token belongs to this parameter.
// Lists consume greedily, booleans and counts only take a literal they
// understand, scalars take exactly one value, namespaces take none.
func (a *accum) wants(text string) bool {
	switch {
	case a.isNamespace():
		return false
	case a.isList():
		return true
	case a.isBool():
		return a.hit && isBoolLiteral(text)
	case a.isCount():
		return a.hit && allDigits(text)
	default:
		return a.hit || len(a.runs) == 0
	}
}

// push appends a raw value to the current run. Re-hitting a non-list
// parameter that already holds values discards them with a warning: the
// last segment wins.
func (a *accum) push(text string, warn func(Warning)) {
	if !a.isList() && a.hit && a.hasValues() {
		warn(Warning{Kind: WarnOverwrite, Message: fmt.Sprintf(
			"previous value of argument %q is overwritten with %q", a.param.Name(), text)})
		a.runs = nil
	}
	if a.hit || len(a.runs) == 0 {
		a.runs = append(a.runs, nil)
	}
	last := len(a.runs) - 1
	a.runs[last] = append(a.runs[last], text)
	a.hit = false
}

func (a *accum) hasValues() bool {
	for _, run := range a.runs {
		if len(run) > 0 {
			return true
		}
	}
	return false
}

func (a *accum) lastRun() []string {
	if len(a.runs) == 0 {
		return nil
	}
	return a.runs[len(a.runs)-1]
}

// closeSegment ends the current hit segment when another parameter
// opens, a command dispatches, or input runs out. A bool hit settles to
// true, a count hit to one increment, and a valueless scalar hit warns.
func (a *accum) closeSegment(warn func(Warning)) {
	if !a.hit {
		return
	}
	switch {
	case a.isBool():
		a.push("true", warn)
	case a.isCount():
		a.push("", warn)
	default:
		a.hit = false
		warn(Warning{Kind: WarnNoValue, Message: fmt.Sprintf(
			"no value provided for argument %q", a.param.Name())})
	}
}

// finalize coerces the accumulated runs into the parameter's value.
// provided=false means nothing usable arrived and the default path
// applies.
func (a *accum) finalize() (Value, bool, error) {
	switch {
	case a.isNamespace():
		return Value{}, false, nil
	case a.isList():
		return a.finalizeList()
	case a.isCount():
		return a.finalizeCount()
	default:
		run := a.lastRun()
		if len(run) == 0 {
			return Value{}, false, nil
		}
		v, err := Coerce(a.typ, a.sub, run[0])
		if err != nil {
			return Value{}, false, withParam(err, a.param.Name())
		}
		if a.typ == TypeChoice && len(a.param.Choices) > 0 && !a.param.isChoice(v) {
			return Value{}, false, errorf(ErrorInvalidChoice, a.param.Name(),
				"%s is not one of %s", v, renderChoices(a.param.Choices))
		}
		return v, true, nil
	}
}

// finalizeList flattens the seed and all runs, coercing each element via
// the subtype. A list-of-lists subtype keeps each run as one inner list
// of uncoerced strings.
func (a *accum) finalizeList() (Value, bool, error) {
	var items []Value
	if a.seeded {
		if seed, ok := a.param.Default.List(); ok {
			items = append(items, seed...)
		}
	}
	if a.sub == TypeList {
		for _, run := range a.runs {
			inner := make([]Value, len(run))
			for i, text := range run {
				inner[i] = StrValue(text)
			}
			items = append(items, ListValue(inner...))
		}
		return ListValue(items...), true, nil
	}
	for _, run := range a.runs {
		for _, text := range run {
			v, err := Coerce(a.sub, TypeNone, text)
			if err != nil {
				return Value{}, false, withParam(err, a.param.Name())
			}
			items = append(items, v)
		}
	}
	return ListValue(items...), true, nil
}

// finalizeCount reads the last segment: an empty marker is one bare hit,
// digits are an explicit total, and a repetition of the short alias
// counts itself plus the repeats.
func (a *accum) finalizeCount() (Value, bool, error) {
	run := a.lastRun()
	n := 1
	if len(run) > 0 && run[0] != "" {
		text := run[0]
		short := a.param.shortAlias()
		switch {
		case allDigits(text):
			parsed, err := strconv.Atoi(text)
			if err != nil {
				return Value{}, false, withParam(coercionError("", text, "not a count"), a.param.Name())
			}
			n = parsed
		case short != "" && text == strings.Repeat(short, len(text)):
			n = len(text) + 1
		default:
			return Value{}, false, errorf(ErrorCoercion, a.param.Name(),
				"expects repeated short names or an integer, got %q", text)
		}
	} else if len(run) == 0 {
		return Value{}, false, nil
	}
	if a.param.Max > 0 && n > a.param.Max {
		return Value{}, false, errorf(ErrorCountOverflow, a.param.Name(),
			"%d is greater than the max of %d", n, a.param.Max)
	}
	return IntValue(n), true, nil
}

func isBoolLiteral(s string) bool {
	return inLiterals(s, trueLiterals) || inLiterals(s, falseLiterals)
}

func renderChoices(choices []Value) string {
	parts := make([]string, len(choices))
	for i, c := range choices {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
