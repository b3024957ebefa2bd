package param

import (
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// FromMap declares parameters from a map of names to default values.
// The parameter type is inferred from each value (see InferType); a key
// may pin it explicitly with an inline reference, as in "ncores:int".
// Nested maps declare namespaces with their children underneath; nil
// values declare auto parameters with no default. Keys process in
// sorted order so declaration order, and with it the help page, stays
// deterministic.
//
//	p.FromMap(map[string]any{
//	    "ncores":      4,
//	    "infile:path": "",
//	    "config":      map[string]any{"depth": 3},
//	})
func (p *Params) FromMap(defs map[string]any) error {
	var errs *multierror.Error
	p.fromMap("", defs, &errs)
	return errs.ErrorOrNil()
}

func (p *Params) fromMap(prefix string, defs map[string]any, errs **multierror.Error) {
	keys := make([]string, 0, len(defs))
	for k := range defs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := defs[key]
		name, typeRef, pinned := strings.Cut(key, ":")
		full := name
		if prefix != "" {
			full = prefix + "." + name
		}

		if sub, ok := value.(map[string]any); ok && nsCompatible(typeRef, pinned) {
			if _, err := p.AddParam(string(TypeNamespace), full); err != nil {
				*errs = multierror.Append(*errs, err)
				continue
			}
			p.fromMap(full, sub, errs)
			continue
		}

		if !pinned {
			tag, sub := InferType(value)
			typeRef = renderTypeRef(tag, sub)
		}
		par, err := NewParam(typeRef, full)
		if err != nil {
			*errs = multierror.Append(*errs, err)
			continue
		}
		if value != nil {
			par.setDefault(FromAny(value))
		}
		if err := p.register(par, false); err != nil {
			*errs = multierror.Append(*errs, err)
		}
	}
}

// nsCompatible reports whether a key's type pin still allows a nested
// map to declare a namespace.
func nsCompatible(typeRef string, pinned bool) bool {
	if !pinned {
		return true
	}
	tag, ok := LookupType(typeRef)
	return ok && tag == TypeNamespace
}
