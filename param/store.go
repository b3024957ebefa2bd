package param

import (
	"strings"

	"github.com/dzonerzy/go-param/internal/intern"
)

// Store is an insertion-ordered set of parameter declarations with O(1)
// alias lookup. Dot-qualified names route into the child store of a
// namespace parameter; missing intermediate namespaces are created on the
// way down.
type Store struct {
	order   []*Param
	byAlias map[string]*Param
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{byAlias: make(map[string]*Param)}
}

// Add registers a parameter under all of its names. A name already taken
// fails with a duplicate-name error unless force is set, in which case the
// previous occupant is removed entirely.
func (s *Store) Add(p *Param, force bool) error {
	return s.add(p, p.Names, force)
}

func (s *Store) add(p *Param, aliases []string, force bool) error {
	if len(aliases) == 0 {
		return errorf(ErrorDeclaration, p.Name(), "a parameter needs at least one name")
	}

	if head, ok := splitHead(aliases[0]); ok {
		// Dotted declaration: every alias must sit under the same head
		rests := make([]string, len(aliases))
		for i, alias := range aliases {
			h, dotted := splitHead(alias)
			if !dotted || h != head {
				return errorf(ErrorDeclaration, p.Name(),
					"aliases of %q must share the namespace %q", aliases[0], head)
			}
			rests[i] = alias[len(head)+1:]
		}
		nsp, err := s.ensureNamespace(head)
		if err != nil {
			return err
		}
		return nsp.Children().add(p, rests, force)
	}

	for _, alias := range aliases {
		if _, dotted := splitHead(alias); dotted {
			return errorf(ErrorDeclaration, p.Name(),
				"aliases of %q must share the namespace of %q", alias, aliases[0])
		}
		if prev := s.byAlias[alias]; prev != nil && prev != p {
			if !force {
				return errorf(ErrorDuplicateName, p.Name(), "name %q is already declared", alias)
			}
			s.remove(prev)
		}
	}

	if !s.contains(p) {
		s.order = append(s.order, p)
	}
	for _, alias := range aliases {
		s.byAlias[intern.Get(alias)] = p
	}
	return nil
}

// AddAliases registers extra names for an already-stored parameter.
// Every new alias must live under the same namespace path as the first
// declared name: aliasing "config.ncores" as "run.ncores" would tear the
// parameter across two result subtrees.
func (s *Store) AddAliases(p *Param, aliases ...string) error {
	parent := parentPath(p.Name())
	target := s
	if parent != "" {
		for _, seg := range strings.Split(parent, ".") {
			hp := target.byAlias[seg]
			if hp == nil || !hp.isNamespace() {
				return errorf(ErrorDeclaration, p.Name(), "namespace %q is not declared", parent)
			}
			target = hp.Children()
		}
	}
	for _, alias := range aliases {
		if alias == "" || strings.ContainsAny(alias, " \t=:,") {
			return errorf(ErrorDeclaration, p.Name(), "invalid characters in name %q", alias)
		}
		if parentPath(alias) != parent {
			return errorf(ErrorDeclaration, p.Name(),
				"alias %q must live under the same namespace as %q", alias, p.Name())
		}
		last := lastSegment(alias)
		if prev := target.byAlias[last]; prev != nil && prev != p {
			return errorf(ErrorDuplicateName, p.Name(), "name %q is already declared", alias)
		}
	}
	for _, alias := range aliases {
		target.byAlias[intern.Get(lastSegment(alias))] = p
	}
	return nil
}

func (s *Store) contains(p *Param) bool {
	for _, q := range s.order {
		if q == p {
			return true
		}
	}
	return false
}

// ensureNamespace returns the namespace parameter registered under head,
// creating it when absent. A non-namespace occupant is a duplicate-name
// error.
func (s *Store) ensureNamespace(head string) (*Param, error) {
	if p := s.byAlias[head]; p != nil {
		if !p.isNamespace() {
			return nil, errorf(ErrorDuplicateName, head,
				"name %q is already declared and is not a namespace", head)
		}
		return p, nil
	}
	nsp, err := NewParam(string(TypeNamespace), head)
	if err != nil {
		return nil, err
	}
	if err := s.add(nsp, nsp.Names, false); err != nil {
		return nil, err
	}
	return nsp, nil
}

// remove drops a parameter and all of its alias registrations.
func (s *Store) remove(p *Param) {
	for alias, q := range s.byAlias {
		if q == p {
			delete(s.byAlias, alias)
		}
	}
	for i, q := range s.order {
		if q == p {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Resolve looks a name up by exact alias first; a dot-qualified miss
// routes through the namespace parameter named by the head segment.
func (s *Store) Resolve(name string) *Param {
	if p := s.byAlias[name]; p != nil {
		return p
	}
	if head, ok := splitHead(name); ok {
		if hp := s.byAlias[head]; hp != nil && hp.isNamespace() {
			return hp.Children().Resolve(name[len(head)+1:])
		}
	}
	return nil
}

// ResolveAttached finds the registered alias that is the longest proper
// prefix of name and returns the parameter with the unmatched remainder
// (the attached value). Exact matches are the caller's concern: Resolve
// runs first.
func (s *Store) ResolveAttached(name string) (*Param, string) {
	var best *Param
	bestLen := 0
	for alias, p := range s.byAlias {
		if len(alias) < len(name) && len(alias) > bestLen && strings.HasPrefix(name, alias) {
			best, bestLen = p, len(alias)
		}
	}
	if head, ok := splitHead(name); ok {
		if hp := s.byAlias[head]; hp != nil && hp.isNamespace() {
			if p, rest := hp.Children().ResolveAttached(name[len(head)+1:]); p != nil {
				if consumed := len(name) - len(rest); consumed > bestLen {
					return p, rest
				}
			}
		}
	}
	if best == nil {
		return nil, ""
	}
	return best, name[bestLen:]
}

// Params returns the declarations in insertion order.
func (s *Store) Params() []*Param {
	return s.order
}

// Len returns the number of declared parameters.
func (s *Store) Len() int {
	return len(s.order)
}

// Aliases returns every registered name, with dotted children flattened
// under their namespace path. Used for fuzzy suggestions.
func (s *Store) Aliases() []string {
	return s.appendAliases(nil, "")
}

func (s *Store) appendAliases(out []string, prefix string) []string {
	for _, p := range s.order {
		for alias, q := range s.byAlias {
			if q == p {
				out = append(out, prefix+alias)
			}
		}
		if p.isNamespace() && p.children != nil {
			for aliasKey, q := range s.byAlias {
				if q == p {
					out = p.children.appendAliases(out, prefix+aliasKey+".")
				}
			}
		}
	}
	return out
}

// splitHead returns the first dot-separated segment of a dotted name.
func splitHead(name string) (string, bool) {
	if idx := strings.IndexByte(name, '.'); idx > 0 && idx < len(name)-1 {
		return name[:idx], true
	}
	return "", false
}

// parentPath returns everything before the final dot, or "" for a plain
// name.
func parentPath(name string) string {
	if idx := strings.LastIndexByte(name, '.'); idx > 0 {
		return name[:idx]
	}
	return ""
}

// lastSegment returns the part after the final dot.
func lastSegment(name string) string {
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
