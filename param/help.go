package param

import (
	"fmt"
	"strings"

	"github.com/dzonerzy/go-param/internal/pool"
)

// helpEntry is one left-column/description pair in an option or command
// section.
type helpEntry struct {
	left string
	desc string
}

// helpSection is a titled block of aligned entries.
type helpSection struct {
	title   string
	entries []helpEntry
}

// Help renders the help page for this scope: description, usage, the
// option groups, and the command list.
func (p *Params) Help() string {
	p.installHelp()
	buf := pool.GetBuffer(1024)
	page := p.appendHelp((*buf)[:0])
	s := string(page)
	*buf = page
	pool.PutBuffer(buf)
	return s
}

// writeHelp writes the help page to the configured output.
func (p *Params) writeHelp() {
	p.installHelp()
	buf := pool.GetBuffer(1024)
	*buf = p.appendHelp((*buf)[:0])
	p.out.Write(*buf) //nolint:errcheck // nothing sensible to do about a failed help write
	pool.PutBuffer(buf)
}

func (p *Params) appendHelp(buf []byte) []byte {
	if p.desc != "" {
		buf = append(buf, "DESCRIPTION:\n"...)
		for _, line := range strings.Split(p.desc, "\n") {
			buf = fmt.Appendf(buf, "  %s\n", line)
		}
		buf = append(buf, '\n')
	}

	buf = append(buf, "USAGE:\n"...)
	buf = fmt.Appendf(buf, "  %s\n", p.usageLine())

	for _, section := range p.helpSections() {
		if len(section.entries) == 0 {
			continue
		}
		buf = fmt.Appendf(buf, "\n%s:\n", section.title)
		width := 0
		for _, e := range section.entries {
			if len(e.left) > width {
				width = len(e.left)
			}
		}
		for _, e := range section.entries {
			if e.desc == "" {
				buf = fmt.Appendf(buf, "  %s\n", e.left)
				continue
			}
			buf = fmt.Appendf(buf, "  %-*s  %s\n", width, e.left, e.desc)
		}
	}

	if len(p.cmdOrder) > 0 {
		buf = fmt.Appendf(buf,
			"\nUse \"%s help COMMAND\" for more information about a command.\n", p.prog)
	}
	return buf
}

// usageLine returns the explicit usage, or builds one from the required
// parameters, the presence of optional ones, and the command list.
func (p *Params) usageLine() string {
	if p.usage != "" {
		return strings.ReplaceAll(p.usage, "{prog}", p.prog)
	}

	parts := []string{p.prog}
	hasOptional := false
	for _, par := range p.store.Params() {
		if par.Hidden {
			continue
		}
		if par.isNamespace() {
			parts = p.appendRequiredUsage(parts, par, "")
			hasOptional = true
			continue
		}
		if !par.Required {
			hasOptional = true
			continue
		}
		if par.isPositional() {
			parts = append(parts, "POSITIONAL")
		} else if par.isBool() || par.isCount() {
			parts = append(parts, p.displayName(longestAlias(par)))
		} else {
			parts = append(parts, p.displayName(longestAlias(par))+" "+typeLabel(par))
		}
	}
	if hasOptional {
		parts = append(parts, "[OPTIONS]")
	}
	if len(p.cmdOrder) > 0 {
		parts = append(parts, "COMMAND [OPTIONS]")
	}
	return strings.Join(parts, " ")
}

// appendRequiredUsage adds the required descendants of a namespace
// parameter to the usage line under their dotted paths.
func (p *Params) appendRequiredUsage(parts []string, nsp *Param, parent string) []string {
	path := parent + longestAlias(nsp) + "."
	for _, child := range nsp.Children().Params() {
		if child.Hidden {
			continue
		}
		if child.isNamespace() {
			parts = p.appendRequiredUsage(parts, child, path)
			continue
		}
		if child.Required {
			name := p.displayName(path + lastSegment(longestAlias(child)))
			parts = append(parts, name+" "+typeLabel(child))
		}
	}
	return parts
}

// helpSections builds the option groups in page order: required, then
// optional, then one group per namespace parameter, then commands.
func (p *Params) helpSections() []helpSection {
	var required, optional []helpEntry
	var nsSections []helpSection

	for _, par := range p.store.Params() {
		if par.Hidden {
			continue
		}
		if par.isNamespace() {
			nsSections = append(nsSections, p.namespaceSections(par, "")...)
		}
		entry := helpEntry{left: p.optionLeft(par, ""), desc: p.optionDesc(par)}
		if p.paramRequired(par) {
			required = append(required, entry)
		} else {
			optional = append(optional, entry)
		}
	}

	sections := []helpSection{
		{title: "REQUIRED OPTIONS", entries: required},
		{title: "OPTIONAL OPTIONS", entries: optional},
	}
	sections = append(sections, nsSections...)

	if len(p.cmdOrder) > 0 {
		var cmds []helpEntry
		for _, cmd := range p.cmdOrder {
			cmds = append(cmds, helpEntry{
				left: strings.Join(sortByLength(cmd.Names()), ", "),
				desc: cmd.desc,
			})
		}
		sections = append(sections, helpSection{title: "COMMANDS", entries: cmds})
	}
	return sections
}

// namespaceSections renders one group per namespace level, titled after
// the namespace parameter's longest alias.
func (p *Params) namespaceSections(nsp *Param, parent string) []helpSection {
	path := parent + longestAlias(nsp)
	title := "OPTIONAL OPTIONS UNDER " + p.displayName(path)
	if p.paramRequired(nsp) {
		title = "REQUIRED OPTIONS UNDER " + p.displayName(path)
	}

	var entries []helpEntry
	var nested []helpSection
	for _, child := range nsp.Children().Params() {
		if child.Hidden {
			continue
		}
		if child.isNamespace() {
			nested = append(nested, p.namespaceSections(child, path+".")...)
		}
		entries = append(entries, helpEntry{
			left: p.optionLeft(child, path+"."),
			desc: p.optionDesc(child),
		})
	}

	sections := []helpSection{{title: title, entries: entries}}
	return append(sections, nested...)
}

// paramRequired reports whether the parameter belongs in a required
// group. A namespace is required when any descendant is.
func (p *Params) paramRequired(par *Param) bool {
	if !par.isNamespace() {
		return par.Required
	}
	for _, child := range par.Children().Params() {
		if p.paramRequired(child) {
			return true
		}
	}
	return false
}

// optionLeft renders the left column: every alias under the given
// namespace path, shortest first, plus the type label. The help
// parameter and positionals render without one.
func (p *Params) optionLeft(par *Param, path string) string {
	if par.isPositional() {
		return "POSITIONAL " + typeLabel(par)
	}
	names := make([]string, 0, len(par.Names))
	for _, alias := range par.aliasesByLength() {
		names = append(names, p.displayName(path+lastSegment(alias)))
	}
	left := strings.Join(names, ", ")
	if par.isHelp {
		return left
	}
	return left + " " + typeLabel(par)
}

// typeLabel renders the type in the help page: square brackets for
// flag-like parameters that take no free value, angle brackets for the
// rest. A frozen type shows uppercase.
func typeLabel(par *Param) string {
	ref := renderTypeRef(par.Type, par.Subtype)
	if par.TypeFrozen {
		ref = strings.ToUpper(ref)
	}
	if par.isBool() || par.isCount() || par.isNamespace() {
		return "[" + ref + "]"
	}
	return "<" + ref + ">"
}

// optionDesc appends the default to the description unless the
// parameter is required or the description already names one.
func (p *Params) optionDesc(par *Param) string {
	desc := par.Desc
	switch {
	case par.isNamespace():
		if desc == "" {
			return "Works as a namespace for other arguments."
		}
		return desc
	case par.isHelp, par.Required:
		return desc
	case strings.Contains(desc, "Default:"), strings.Contains(desc, "DEFAULT:"):
		return desc
	}
	def := zeroValue(par.Type)
	if par.HasDefault {
		def = par.Default
	}
	if len(par.Choices) > 0 {
		if desc != "" && !strings.HasSuffix(desc, " ") {
			desc += " "
		}
		desc += "One of " + renderChoices(par.Choices) + "."
	}
	if desc != "" && !strings.HasSuffix(desc, " ") {
		desc += " "
	}
	return desc + "Default: " + def.String()
}

func longestAlias(par *Param) string {
	names := par.aliasesByLength()
	return names[len(names)-1]
}

func sortByLength(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if len(out[j]) < len(out[i]) ||
				(len(out[j]) == len(out[i]) && out[j] < out[i]) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}
