package param

// Command is a named sub-scope with its own parameters, sub-commands,
// and help page. It embeds Params, so the whole declaration surface is
// available on it; prefix, mode flags, help keys, output, and logger are
// inherited from the parent at creation.
type Command struct {
	*Params
	names  []string
	parent *Params
}

// Name returns the canonical (first declared) command name.
func (c *Command) Name() string {
	return c.names[0]
}

// Names returns all aliases in declaration order.
func (c *Command) Names() []string {
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}

// HasAlias reports whether name refers to this command.
func (c *Command) HasAlias(name string) bool {
	for _, n := range c.names {
		if n == name {
			return true
		}
	}
	return false
}

// AddCommand declares a sub-command. Command names share one scope with
// parameter names: a collision is a duplicate-name error, since the
// result tree cannot hold a value and a sub-tree under the same key.
func (p *Params) AddCommand(desc string, names ...string) (*Command, error) {
	return p.addCommand(false, desc, names...)
}

func (p *Params) addCommand(force bool, desc string, names ...string) (*Command, error) {
	if len(names) == 0 {
		return nil, errorf(ErrorDeclaration, "", "a command needs at least one name")
	}
	for _, name := range names {
		if name == "" {
			return nil, errorf(ErrorDeclaration, names[0], "empty command name")
		}
		if !force {
			if _, taken := p.commands[name]; taken {
				return nil, errorf(ErrorDuplicateName, names[0],
					"command %q has already been added", name)
			}
			if p.store.Resolve(name) != nil {
				return nil, errorf(ErrorDuplicateName, names[0],
					"name %q is already a parameter", name)
			}
		}
	}

	prog := p.prog
	if p.store.Len() > 0 {
		prog += " [OPTIONS]"
	}
	child := NewWithOptions(desc, Options{
		Prog:       prog + " " + names[0],
		Prefix:     p.prefix,
		NoPrefix:   p.prefix == "",
		Arbitrary:  p.arbitrary,
		Strict:     p.strict,
		HelpOnVoid: p.helpOnVoid,
		HelpKeys:   p.helpKeys,
	})
	child.out = p.out
	child.logger = p.logger

	cmd := &Command{Params: child, names: names, parent: p}
	if force {
		for _, name := range names {
			if prev, taken := p.commands[name]; taken {
				p.removeCommand(prev)
			}
		}
	}
	for _, name := range names {
		p.commands[name] = cmd
	}
	p.cmdOrder = append(p.cmdOrder, cmd)
	return cmd, nil
}

// removeCommand drops a command and all of its alias registrations.
func (p *Params) removeCommand(cmd *Command) {
	for name, c := range p.commands {
		if c == cmd {
			delete(p.commands, name)
		}
	}
	for i, c := range p.cmdOrder {
		if c == cmd {
			p.cmdOrder = append(p.cmdOrder[:i], p.cmdOrder[i+1:]...)
			break
		}
	}
}
