package param

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// ErrHelpShown is returned by Parse when a help key or the help command
// short-circuited the parse. The help page has already been written to
// the configured output when this comes back.
var ErrHelpShown = errors.New("help shown")

var defaultHelpKeys = []string{"h", "help", "H"}

// Options configures a parameter set at construction. The zero value
// means: program name from os.Args, auto prefix, default help keys, no
// arbitrary mode, warnings stay warnings.
type Options struct {
	Prog       string
	Usage      string
	Prefix     string // literal prefix; empty means auto
	NoPrefix   bool   // attached-only mode: every token is a name candidate
	Arbitrary  bool   // define unknown parameters on the fly
	Strict     bool   // promote warnings to errors
	HelpOnVoid bool   // show help when no arguments are given
	HelpKeys   []string
}

// Params declares parameters and sub-commands for one scope and parses
// argument lists against them. A Params is reusable across parses;
// declarations may be changed between parses but never during one.
type Params struct {
	desc       string
	prog       string
	usage      string
	prefix     string
	arbitrary  bool
	strict     bool
	helpOnVoid bool
	helpKeys   []string

	store    *Store
	commands map[string]*Command
	cmdOrder []*Command

	helpParam   *Param
	helpCommand *Command

	out    io.Writer
	logger *log.Logger
	err    error
}

// New returns a parameter set with default options.
func New(desc string) *Params {
	return NewWithOptions(desc, Options{})
}

// NewWithOptions returns a parameter set configured up front.
func NewWithOptions(desc string, opts Options) *Params {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "auto"
	}
	if opts.NoPrefix {
		prefix = ""
	}
	prog := opts.Prog
	if prog == "" && len(os.Args) > 0 {
		prog = filepath.Base(os.Args[0])
	}
	helpKeys := opts.HelpKeys
	if helpKeys == nil {
		helpKeys = defaultHelpKeys
	}
	return &Params{
		desc:       desc,
		prog:       prog,
		usage:      opts.Usage,
		prefix:     prefix,
		arbitrary:  opts.Arbitrary,
		strict:     opts.Strict,
		helpOnVoid: opts.HelpOnVoid,
		helpKeys:   helpKeys,
		store:      NewStore(),
		commands:   make(map[string]*Command),
		out:        os.Stdout,
		logger:     log.New(io.Discard),
	}
}

// Fluent configuration. Each setter returns the receiver so declaration
// reads as one chain.

// Prog sets the program name shown in usage lines.
func (p *Params) Prog(prog string) *Params {
	p.prog = prog
	return p
}

// Usage sets an explicit usage line, overriding the generated one.
func (p *Params) Usage(usage string) *Params {
	p.usage = usage
	return p
}

// Prefix sets a literal parameter prefix such as "-" or "+". The default
// "auto" policy takes "-" for short names and "--" for long ones.
func (p *Params) Prefix(prefix string) *Params {
	p.prefix = prefix
	return p
}

// NoPrefix switches to attached-only mode: every token is a name
// candidate and values arrive via "name=value".
func (p *Params) NoPrefix() *Params {
	p.prefix = ""
	return p
}

// Arbitrary toggles on-the-fly definition of unknown parameters.
func (p *Params) Arbitrary(arbitrary bool) *Params {
	p.arbitrary = arbitrary
	return p
}

// Strict promotes collected warnings to parse errors.
func (p *Params) Strict(strict bool) *Params {
	p.strict = strict
	return p
}

// HelpOnVoid shows the help page when Parse receives no arguments.
func (p *Params) HelpOnVoid(helpOnVoid bool) *Params {
	p.helpOnVoid = helpOnVoid
	return p
}

// HelpKeys replaces the default help aliases (h, help, H). An empty call
// disables the help parameter entirely.
func (p *Params) HelpKeys(keys ...string) *Params {
	p.helpKeys = keys
	p.helpParam = nil
	return p
}

// SetOutput redirects help and MustParse error output. Defaults to
// standard output.
func (p *Params) SetOutput(w io.Writer) *Params {
	p.out = w
	return p
}

// SetLogger installs a trace logger. The default logger discards
// everything.
func (p *Params) SetLogger(logger *log.Logger) *Params {
	p.logger = logger
	return p
}

// Err returns the first declaration error recorded by the builder
// surface, if any. Parse fails fast on it.
func (p *Params) Err() error {
	return p.err
}

func (p *Params) fail(err error) {
	if p.err == nil && err != nil {
		p.err = err
	}
}

// AddParam declares a parameter from a type reference string ("int",
// "list:str", "ns", ...) and registers it under all names. Names sharing
// a dot-qualified path group under their namespace parameter.
func (p *Params) AddParam(typeRef string, names ...string) (*Param, error) {
	par, err := NewParam(typeRef, names...)
	if err != nil {
		return nil, err
	}
	if err := p.register(par, false); err != nil {
		return nil, err
	}
	return par, nil
}

// register enforces name uniqueness across the union of sibling
// parameters and commands, then stores the parameter.
func (p *Params) register(par *Param, force bool) error {
	for _, name := range par.Names {
		if _, taken := p.commands[name]; taken && !force {
			return errorf(ErrorDuplicateName, par.Name(),
				"name %q is already a command", name)
		}
	}
	return p.store.Add(par, force)
}

// Params returns the declared parameters in insertion order.
func (p *Params) Params() []*Param {
	return p.store.Params()
}

// Commands returns the declared sub-commands in insertion order.
func (p *Params) Commands() []*Command {
	return p.cmdOrder
}

// Parse matches args against the declarations and returns the result
// tree. A nil args parses os.Args[1:]. All parameter errors are
// collected and surface together; ErrHelpShown reports that a help key
// ended the parse after the help page was written.
func (p *Params) Parse(args []string) (*Namespace, error) {
	if p.err != nil {
		return nil, p.err
	}
	if args == nil {
		args = os.Args[1:]
	}
	if len(args) == 0 && p.helpOnVoid {
		p.installHelp()
		p.writeHelp()
		return nil, ErrHelpShown
	}
	return p.parseScope(args)
}

// parseScope runs one matching pass over this scope. Sub-command
// dispatch re-enters it on the child.
func (p *Params) parseScope(args []string) (*Namespace, error) {
	p.installHelp()

	m := newMatcher(p)
	ns, err := m.run(args)
	if errors.Is(err, ErrHelpShown) {
		// The matcher that hit the help key already wrote the page.
		return ns, ErrHelpShown
	}

	if p.helpCommand != nil && ns != nil && ns.Command() == p.helpCommand.Name() {
		p.runHelpCommand(ns)
		return ns, ErrHelpShown
	}
	return ns, err
}

// MustParse is the CLI entry convenience: it writes the collected errors
// and exits non-zero on failure, and exits zero after showing help. The
// core Parse never prints or exits.
func (p *Params) MustParse(args []string) *Namespace {
	ns, err := p.Parse(args)
	switch {
	case errors.Is(err, ErrHelpShown):
		os.Exit(0)
	case err != nil:
		fmt.Fprintln(p.out, err.Error())
		os.Exit(2)
	}
	return ns
}

// installHelp registers the help parameter and, when sub-commands exist,
// the help command. Both are forced so callers can reuse the names.
func (p *Params) installHelp() {
	if p.helpParam == nil && len(p.helpKeys) > 0 {
		hp, err := NewParam(string(TypeBool), p.helpKeys...)
		if err == nil {
			hp.Desc = "Print help information for this command"
			hp.isHelp = true
			if p.register(hp, true) == nil {
				p.helpParam = hp
			}
		} else {
			p.fail(err)
		}
	}
	if p.helpCommand == nil && len(p.cmdOrder) > 0 {
		if _, taken := p.commands["help"]; taken {
			// A declared command owns the name; leave it alone.
			return
		}
		hc, err := p.addCommand(true, "Print help of sub-commands", "help")
		if err == nil {
			if pos, perr := hc.AddParam(string(TypeStr), Positional); perr == nil {
				pos.Desc = "Command name to print help for"
				pos.setDefault(StrValue(""))
			}
			p.helpCommand = hc
		}
	}
}

// runHelpCommand resolves "help [command]" and writes the target's page.
func (p *Params) runHelpCommand(ns *Namespace) {
	sub, ok := ns.Sub(p.helpCommand.Name())
	if !ok {
		p.writeHelp()
		return
	}
	name, _ := sub.Str(Positional)
	if name == "" {
		p.writeHelp()
		return
	}
	if cmd := p.lookupCommand(name); cmd != nil && cmd != p.helpCommand {
		cmd.installHelp()
		cmd.writeHelp()
		return
	}
	p.logger.Warn("unknown command for help", "command", name)
	p.writeHelp()
}

func (p *Params) lookupCommand(name string) *Command {
	return p.commands[name]
}
