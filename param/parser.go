package param

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/dzonerzy/go-param/internal/fuzzy"
	"github.com/dzonerzy/go-param/internal/pool"
)

// suggestDistance caps the edit distance for did-you-mean hints on
// unknown arguments and values.
const suggestDistance = 2

// matcher drives one parse pass over a scope. All mutable matching
// state lives here, keyed off the immutable declarations, so a Params
// can run parse after parse without carrying anything over.
type matcher struct {
	scope *Params
	ns    *Namespace

	state  map[*Param]*accum
	extras *Store // parameters defined on the fly, gone when the parse ends
	open   *accum

	errs *multierror.Error

	args       []string
	end        int // index of the terminator, or len(args)
	terminated bool
}

func newMatcher(p *Params) *matcher {
	return &matcher{
		scope: p,
		ns:    NewNamespace(),
		state: make(map[*Param]*accum),
	}
}

// run matches args left to right, then settles every declaration into
// the result namespace. Errors are collected along the way rather than
// raised, so one pass reports everything wrong with the input at once.
func (m *matcher) run(args []string) (*Namespace, error) {
	m.prepare(args)
	m.scope.logger.Debug("parsing arguments", "prog", m.scope.prog, "args", args)

	for i := 0; i < len(args); i++ {
		raw := args[i]

		if m.terminated {
			if !m.capturePositional(raw, i, true) {
				m.warnUnknownValue(raw)
			}
			continue
		}
		if raw == terminator && m.terminatorActive() {
			m.closeOpen()
			m.terminated = true
			continue
		}

		if tok, ok := scanArg(raw, m.scope.prefix); ok {
			p, attached, hasAttached := m.matchParam(tok)
			if p != nil || m.paramLike(tok) {
				if m.paramToken(tok, p, attached, hasAttached) {
					m.scope.writeHelp()
					return m.ns, ErrHelpShown
				}
				continue
			}
		}

		if m.open != nil {
			// Started positionals swallow everything up to the next
			// parameter token, command names included.
			if m.open.param.isPositional() {
				m.open.push(raw, m.warn)
				continue
			}
			if m.open.wants(raw) {
				m.scope.logger.Debug("consumed value",
					"param", m.open.param.Name(), "value", raw)
				m.open.push(raw, m.warn)
				continue
			}
		}

		if cmd := m.scope.lookupCommand(raw); cmd != nil {
			if err := m.dispatch(cmd, args[i+1:]); err != nil {
				return m.ns, err
			}
			break
		}

		if m.capturePositional(raw, i, false) {
			continue
		}
		m.closeOpen()
		if m.scope.arbitrary {
			if err := m.dispatch(m.autoCommand(raw), args[i+1:]); err != nil {
				return m.ns, err
			}
			break
		}
		m.warnUnknownValue(raw)
	}

	return m.finish()
}

func (m *matcher) prepare(args []string) {
	m.args = args
	m.end = len(args)
	if m.terminatorActive() {
		for i, arg := range args {
			if arg == terminator {
				m.end = i
				break
			}
		}
	}
}

// terminatorActive reports whether "--" ends parameter matching under
// the configured prefix. A prefix that cannot produce the token (like
// "+") leaves it alone.
func (m *matcher) terminatorActive() bool {
	return m.scope.prefix == "auto" || strings.HasPrefix(m.scope.prefix, "-")
}

// matchParam resolves a scanned token to a declaration. An exact alias
// match always wins; only then is the name tried as an alias with an
// attached value glued on, as in -i5 or -vvv, preferring the longest
// registered alias prefix.
func (m *matcher) matchParam(tok token) (*Param, string, bool) {
	if p := m.resolve(tok.name); p != nil {
		return p, tok.value, tok.hasEq
	}
	if !tok.hasEq && tok.typeRef == "" && !tok.reset && m.attachSplitAllowed(tok) {
		if p, rest := m.resolveAttached(tok.name); p != nil {
			m.scope.logger.Debug("split attached value", "param", p.Name(), "value", rest)
			return p, rest, true
		}
	}
	return nil, tok.value, tok.hasEq
}

// attachSplitAllowed limits value splitting to prefixes where the glued
// form is unambiguous: the single-dash form under auto, or a literal
// prefix no longer than one character.
func (m *matcher) attachSplitAllowed(tok token) bool {
	if m.scope.prefix == "auto" {
		return tok.prefix == "-"
	}
	return len(m.scope.prefix) <= 1
}

// paramLike reports whether an unresolved scanned token stays on the
// parameter path. Prefixed tokens always do; in attached-only mode a
// bare word without "=" falls through as a value so commands and
// positionals keep working.
func (m *matcher) paramLike(tok token) bool {
	if m.scope.prefix != "" {
		return true
	}
	return tok.hasEq
}

// paramToken handles a token recognized as a parameter reference and
// reports whether a help key was hit. An unknown reference warns and is
// skipped without closing the parameter currently accumulating, so its
// later values still land.
func (m *matcher) paramToken(tok token, p *Param, attached string, hasAttached bool) bool {
	if p == nil && m.scope.arbitrary {
		created, err := m.defineArbitrary(tok)
		if err != nil {
			m.collect(err)
			return false
		}
		p = created
	}
	if p == nil {
		m.warnUnknownArgument(tok)
		return false
	}
	if p.isHelp {
		return true
	}

	tag, sub := TypeNone, TypeNone
	hasOverride := false
	if tok.typeRef != "" {
		t, s, ok := ParseTypeRef(tok.typeRef)
		if !ok {
			m.collect(errorf(ErrorDeclaration, p.Name(),
				"unknown type %q in %q", tok.typeRef, tok.raw))
			return false
		}
		tag, sub, hasOverride = t, s, true
	}

	m.closeOpen()
	a := m.accumFor(p)
	if err := a.openHit(tag, sub, hasOverride, tok.reset, m.warn); err != nil {
		m.collect(err)
		return false
	}
	m.open = a
	m.scope.logger.Debug("hit parameter",
		"param", p.Name(), "type", renderTypeRef(a.typ, a.sub))

	if a.isNamespace() {
		if hasAttached {
			a.hit = false
			m.warn(Warning{Kind: WarnNoValue, Message: fmt.Sprintf(
				"namespace argument %q takes no value, ignored %q", p.Name(), attached)})
		}
		return false
	}
	if hasAttached {
		a.push(attached, m.warn)
	}
	return false
}

// defineArbitrary declares an unknown parameter on the fly. It lives in
// the extras store, which only this parse sees; the declarations the
// caller made stay untouched. Finalize merges extras namespaces into
// declared ones key by key.
func (m *matcher) defineArbitrary(tok token) (*Param, error) {
	if head, ok := splitHead(tok.name); ok {
		if hp := m.resolve(head); hp != nil && !hp.isNamespace() {
			return nil, errorf(ErrorDeclaration, tok.name,
				"name %q is already declared and not a namespace", head)
		}
	}
	p, err := NewParam(tok.typeRef, tok.name)
	if err != nil {
		return nil, err
	}
	if err := m.extrasStore().Add(p, false); err != nil {
		return nil, err
	}
	m.scope.logger.Debug("defined parameter on the fly",
		"param", tok.name, "type", renderTypeRef(p.Type, p.Subtype))
	return p, nil
}

// autoCommand wraps a stray token as a transient sub-command, so
// arbitrary mode can parse things like "prog anything -x 1" into a
// nested result. Nothing is registered on the scope.
func (m *matcher) autoCommand(name string) *Command {
	child := NewWithOptions("", Options{
		Prog:      m.scope.prog + " " + name,
		Prefix:    m.scope.prefix,
		NoPrefix:  m.scope.prefix == "",
		Arbitrary: true,
		Strict:    m.scope.strict,
		HelpKeys:  m.scope.helpKeys,
	})
	child.out = m.scope.out
	child.logger = m.scope.logger
	return &Command{Params: child, names: []string{name}, parent: m.scope}
}

// capturePositional starts or extends positional capture. Capture does
// not start while a parameter-looking token is still ahead of the
// terminator; such values cannot belong to the trailing positional
// cluster.
func (m *matcher) capturePositional(raw string, i int, force bool) bool {
	if !force && m.paramAhead(i) {
		return false
	}
	pp := m.resolve(Positional)
	if pp == nil && m.scope.arbitrary {
		created, err := NewParam("", Positional)
		if err == nil && m.extrasStore().Add(created, false) == nil {
			pp = created
		}
	}
	if pp == nil {
		return false
	}

	a := m.accumFor(pp)
	if m.open != a {
		m.closeOpen()
		if err := a.openHit(TypeNone, TypeNone, false, false, m.warn); err != nil {
			m.collect(err)
			return true
		}
		m.open = a
	}
	m.scope.logger.Debug("hit positional", "value", raw)
	a.push(raw, m.warn)
	return true
}

// paramAhead reports whether any token after position i, before the
// terminator, would be taken as a parameter reference.
func (m *matcher) paramAhead(i int) bool {
	for j := i + 1; j < m.end; j++ {
		if m.argLike(m.args[j]) {
			return true
		}
	}
	return false
}

func (m *matcher) argLike(raw string) bool {
	if m.scope.prefix == "" {
		tok, ok := scanArg(raw, "")
		return ok && (tok.hasEq || m.resolve(tok.name) != nil)
	}
	return argLike(raw, m.scope.prefix)
}

// dispatch closes matching and hands the remaining args to the
// sub-command's own parse. The child result nests under the command's
// canonical name, and the parent records which command ran.
func (m *matcher) dispatch(cmd *Command, rest []string) error {
	m.closeOpen()
	m.scope.logger.Debug("hit command", "command", cmd.Name(), "rest", rest)

	child, err := cmd.Parse(rest)
	if child != nil {
		m.ns.Set(cmd.Name(), NamespaceValue(child))
		for _, alias := range cmd.Names() {
			m.ns.linkAlias(alias, cmd.Name())
		}
	}
	m.ns.Set(CommandKey, StrValue(cmd.Name()))

	if err != nil && !errors.Is(err, ErrHelpShown) {
		m.collect(err)
		return nil
	}
	return err
}

// resolve looks a name up in the declarations, then in the parse-local
// extras.
func (m *matcher) resolve(name string) *Param {
	if p := m.scope.store.Resolve(name); p != nil {
		return p
	}
	if m.extras != nil {
		return m.extras.Resolve(name)
	}
	return nil
}

func (m *matcher) resolveAttached(name string) (*Param, string) {
	p, rest := m.scope.store.ResolveAttached(name)
	if m.extras != nil {
		if ep, erest := m.extras.ResolveAttached(name); ep != nil &&
			(p == nil || len(erest) < len(rest)) {
			return ep, erest
		}
	}
	return p, rest
}

func (m *matcher) extrasStore() *Store {
	if m.extras == nil {
		m.extras = NewStore()
	}
	return m.extras
}

func (m *matcher) accumFor(p *Param) *accum {
	a := m.state[p]
	if a == nil {
		a = newAccum(p)
		m.state[p] = a
	}
	return a
}

func (m *matcher) closeOpen() {
	if m.open != nil {
		m.open.closeSegment(m.warn)
		m.open = nil
	}
}

// finish settles every declaration into the result: accumulated values
// first, then environment variables, then defaults. Missing required
// parameters collect errors instead of stopping the pass.
func (m *matcher) finish() (*Namespace, error) {
	m.closeOpen()
	m.finalizeInto(m.ns, m.scope.store)
	if m.extras != nil {
		m.finalizeInto(m.ns, m.extras)
	}
	if m.scope.strict {
		for _, w := range m.ns.Warnings() {
			m.collect(w.asError())
		}
	}
	return m.ns, m.errs.ErrorOrNil()
}

// finalizeInto resolves each declaration in s into ns, recursing into
// namespace parameters, then runs callbacks in declaration order with a
// snapshot of the sibling values as parsed.
func (m *matcher) finalizeInto(ns *Namespace, s *Store) {
	params := s.Params()
	values := make(map[*Param]Value, len(params))

	hasCallback := false
	for _, p := range params {
		if p.isHelp {
			continue
		}
		if p.Callback != nil {
			hasCallback = true
		}
		if p.isNamespace() {
			child := NewNamespace()
			m.finalizeInto(child, p.Children())
			values[p] = NamespaceValue(child)
			continue
		}
		v, ok, err := m.resolveValue(p)
		if err != nil {
			m.collect(err)
			continue
		}
		if ok {
			values[p] = v
		}
	}

	if hasCallback {
		snapshot := NewNamespace()
		for _, p := range params {
			if v, ok := values[p]; ok {
				key := lastSegment(p.Name())
				snapshot.Set(key, v)
				for _, alias := range p.Names {
					snapshot.linkAlias(lastSegment(alias), key)
				}
			}
		}
		for _, p := range params {
			if p.Callback == nil {
				continue
			}
			v, ok := values[p]
			if !ok {
				continue
			}
			out, err := p.Callback(v, snapshot)
			if err != nil {
				m.collect(errorf(ErrorCallback, p.Name(), "%s", err))
				delete(values, p)
				continue
			}
			values[p] = out
		}
	}

	for _, p := range params {
		v, ok := values[p]
		if !ok {
			continue
		}
		key := lastSegment(p.Name())
		if sub, isNS := v.Namespace(); isNS {
			if prev, exists := ns.Get(key); exists {
				if prevNS, wasNS := prev.Namespace(); wasNS {
					prevNS.merge(sub)
					continue
				}
			}
		}
		ns.Set(key, v)
		for _, alias := range p.Names {
			ns.linkAlias(lastSegment(alias), key)
		}
	}
}

// resolveValue settles one parameter. Command-line values win over
// environment variables, which win over the declared default; a
// required parameter with none of those is an error, default or not.
func (m *matcher) resolveValue(p *Param) (Value, bool, error) {
	if a := m.state[p]; a != nil {
		v, ok, err := a.finalize()
		if err != nil {
			return Value{}, false, err
		}
		if ok {
			if p.Required {
				if items, isList := v.List(); isList && len(items) == 0 {
					return Value{}, false, errorf(ErrorMissingRequired, p.Name(),
						"argument is required")
				}
			}
			return v, true, nil
		}
	}

	for _, env := range p.EnvVars {
		raw, found := os.LookupEnv(env)
		if !found {
			continue
		}
		v, err := Coerce(p.Type, p.Subtype, raw)
		if err != nil {
			return Value{}, false, withParam(err, p.Name())
		}
		if p.Type == TypeChoice && len(p.Choices) > 0 && !p.isChoice(v) {
			return Value{}, false, errorf(ErrorInvalidChoice, p.Name(),
				"%s is not one of %s", v, renderChoices(p.Choices))
		}
		if p.isList() {
			if _, isList := v.List(); !isList {
				v = ListValue(v)
			}
		}
		m.scope.logger.Debug("value from environment", "param", p.Name(), "env", env)
		return v, true, nil
	}

	if p.Required {
		return Value{}, false, errorf(ErrorMissingRequired, p.Name(), "argument is required")
	}
	if p.HasDefault {
		return p.Default, true, nil
	}
	return zeroValue(p.Type), true, nil
}

func (m *matcher) collect(err error) {
	m.scope.logger.Error("parse error", "err", err)
	m.errs = appendError(m.errs, err)
}

func (m *matcher) warn(w Warning) {
	if w.Suggestion != "" {
		m.scope.logger.Warn(w.Message, "suggestion", w.Suggestion)
	} else {
		m.scope.logger.Warn(w.Message)
	}
	m.ns.addWarning(w)
}

func (m *matcher) warnUnknownArgument(tok token) {
	w := Warning{Kind: ErrorUnrecognizedArgument, Message: fmt.Sprintf(
		"unknown argument %q, skipped", tok.raw)}
	cands := pool.GetStringSlice()
	*cands = m.scope.store.appendAliases(*cands, "")
	if m.extras != nil {
		*cands = m.extras.appendAliases(*cands, "")
	}
	for name := range m.scope.commands {
		*cands = append(*cands, name)
	}
	if best := fuzzy.BestParam(tok.name, *cands, suggestDistance); best != "" {
		w.Suggestion = m.scope.displayName(best)
	}
	pool.PutStringSlice(cands)
	m.warn(w)
}

func (m *matcher) warnUnknownValue(raw string) {
	w := Warning{Kind: ErrorUnrecognizedArgument, Message: fmt.Sprintf(
		"unknown value %q, skipped", raw)}
	if len(m.scope.commands) > 0 {
		cands := pool.GetStringSlice()
		for name := range m.scope.commands {
			*cands = append(*cands, name)
		}
		w.Suggestion = fuzzy.BestCommand(raw, *cands, suggestDistance)
		pool.PutStringSlice(cands)
	}
	m.warn(w)
}

// displayName renders a parameter name the way it is typed on the
// command line under the configured prefix policy.
func (p *Params) displayName(name string) string {
	switch p.prefix {
	case "auto":
		if len(name) > 1 {
			return "--" + name
		}
		return "-" + name
	case "":
		return name
	default:
		return p.prefix + name
	}
}
