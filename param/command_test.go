package param

import (
	"errors"
	"testing"
)

// TestAddCommandProg tests the derived usage program string
func TestAddCommandProg(t *testing.T) {
	p := NewWithOptions("Test program", Options{Prog: "app"})
	cmd, err := p.AddCommand("Show the tree", "show")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cmd.prog != "app show" {
		t.Errorf("Expected prog %q, got %q", "app show", cmd.prog)
	}

	// With parameters declared, the parent slot shows in the usage path.
	p = NewWithOptions("Test program", Options{Prog: "app"})
	p.IntParam("i", "An integer")
	cmd, err = p.AddCommand("Show the tree", "show")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cmd.prog != "app [OPTIONS] show" {
		t.Errorf("Expected prog %q, got %q", "app [OPTIONS] show", cmd.prog)
	}
}

// TestAddCommandInherits tests option inheritance from the parent scope
func TestAddCommandInherits(t *testing.T) {
	p := NewWithOptions("Test program", Options{
		Prefix:    "+",
		Arbitrary: true,
		Strict:    true,
		HelpKeys:  []string{"assist"},
	})
	cmd, err := p.AddCommand("Show the tree", "show")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cmd.prefix != "+" || !cmd.arbitrary || !cmd.strict {
		t.Errorf("Expected the child to inherit the parent's modes, got prefix=%q arbitrary=%v strict=%v",
			cmd.prefix, cmd.arbitrary, cmd.strict)
	}
	if len(cmd.helpKeys) != 1 || cmd.helpKeys[0] != "assist" {
		t.Errorf("Expected the child to inherit help keys, got %v", cmd.helpKeys)
	}
}

// TestAddCommandValidation tests name checks at declaration
func TestAddCommandValidation(t *testing.T) {
	p := New("Test program")
	if _, err := p.AddCommand("No names"); err == nil {
		t.Error("Expected an error for a nameless command")
	}
	if _, err := p.AddCommand("Empty name", ""); err == nil {
		t.Error("Expected an error for an empty name")
	}

	if _, err := p.AddCommand("Show the tree", "show", "s"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	_, err := p.AddCommand("Duplicate", "s")
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Kind != ErrorDuplicateName {
		t.Fatalf("Expected a duplicate-name error, got %v", err)
	}
}

// TestCommandNames tests the name accessors
func TestCommandNames(t *testing.T) {
	p := New("Test program")
	cmd, err := p.AddCommand("Show the tree", "show", "s")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cmd.Name() != "show" {
		t.Errorf("Expected the canonical name show, got %q", cmd.Name())
	}
	names := cmd.Names()
	if len(names) != 2 || names[1] != "s" {
		t.Errorf("Unexpected names: %v", names)
	}
	if !cmd.HasAlias("s") || cmd.HasAlias("x") {
		t.Error("Unexpected alias membership")
	}
}

// TestCommandNesting tests recursive dispatch through two levels
func TestCommandNesting(t *testing.T) {
	p := New("Test program")
	db, err := p.AddCommand("Database operations", "db")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	migrate, err := db.AddCommand("Run migrations", "migrate")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	migrate.IntParam("steps", "Migration steps").Default(1)

	ns, err := p.Parse([]string{"db", "migrate", "-steps", "2"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ns.Command() != "db" {
		t.Errorf("Expected command=db at the root, got %q", ns.Command())
	}
	sub, ok := ns.Sub("db")
	if !ok {
		t.Fatal("Expected a nested db namespace")
	}
	if sub.Command() != "migrate" {
		t.Errorf("Expected command=migrate inside db, got %q", sub.Command())
	}
	inner, ok := sub.Sub("migrate")
	if !ok {
		t.Fatal("Expected a nested migrate namespace")
	}
	if got, _ := inner.Int("steps"); got != 2 {
		t.Errorf("Expected steps=2, got %d", got)
	}
}

// TestCommandParamsAreScoped tests that child declarations stay off the parent
func TestCommandParamsAreScoped(t *testing.T) {
	p := New("Test program")
	cmd, err := p.AddCommand("Show the tree", "show")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	cmd.IntParam("depth", "Maximum depth").Default(2)

	ns, err := p.Parse([]string{"-depth", "3"})
	if err != nil {
		t.Fatalf("Expected warnings only, got %v", err)
	}
	if ns.Has("depth") {
		t.Error("Expected the child's parameter to stay off the root result")
	}
	if len(ns.Warnings()) == 0 {
		t.Error("Expected an unknown-argument warning at the root")
	}
}
