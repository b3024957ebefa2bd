package param

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestNewParamTypes tests type reference handling at declaration
func TestNewParamTypes(t *testing.T) {
	p := mustParam(t, "list:int", "nums")
	if p.Type != TypeList || p.Subtype != TypeInt {
		t.Errorf("Expected list:int, got %q:%q", p.Type, p.Subtype)
	}

	p = mustParam(t, "", "anything")
	if p.Type != TypeAuto {
		t.Errorf("Expected an empty reference to mean auto, got %q", p.Type)
	}

	p = mustParam(t, "", Positional)
	if p.Type != TypeList || p.Subtype != TypeAuto {
		t.Errorf("Expected the positional to default to a list of auto, got %q:%q", p.Type, p.Subtype)
	}

	if _, err := NewParam("bogus", "x"); err == nil {
		t.Error("Expected an unknown type to fail")
	}
	if _, err := NewParam("int"); err == nil {
		t.Error("Expected a nameless declaration to fail")
	}
}

// TestNewParamValidation tests the declaration invariants
func TestNewParamValidation(t *testing.T) {
	if _, err := NewParam("reset", "x"); err == nil {
		t.Error("Expected reset to not be declarable")
	}
	if _, err := NewParam("int", "bad name"); err == nil {
		t.Error("Expected invalid name characters to fail")
	}

	// A count parameter needs a single-character alias for -vvv matching
	if _, err := NewParam("count", "verbose"); err == nil {
		t.Error("Expected a count without a short alias to fail")
	}
	p, err := NewParam("count", "v", "verbose")
	if err != nil {
		t.Fatalf("NewParam failed: %v", err)
	}
	if !p.HasDefault || !p.Default.Equal(IntValue(0)) {
		t.Error("Expected a count to default to 0")
	}

	if _, err := NewParam("", Positional, "alias"); err == nil {
		t.Error("Expected the positional to take no aliases")
	}
}

// TestParamChoiceValidation tests choice declaration rules
func TestParamChoiceValidation(t *testing.T) {
	p := mustParam(t, "str", "size")
	p.Type = TypeChoice
	if err := p.validate(); err == nil {
		t.Error("Expected a choice without choices to fail")
	}

	p.Choices = []Value{StrValue("s"), StrValue("m")}
	if err := p.validate(); err != nil {
		t.Errorf("Expected a valid choice declaration, got %v", err)
	}

	p.setDefault(StrValue("x"))
	err := p.validate()
	if err == nil {
		t.Fatal("Expected an out-of-set default to fail")
	}
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Kind != ErrorDeclaration {
		t.Errorf("Expected a declaration error, got %v", err)
	}
}

// TestSetDefaultNormalization tests list wrapping and path promotion
func TestSetDefaultNormalization(t *testing.T) {
	p := mustParam(t, "list:int", "nums")
	p.setDefault(IntValue(1))
	if !p.Default.Equal(ListValue(IntValue(1))) {
		t.Errorf("Expected a scalar default to wrap into a list, got %s", p.Default)
	}

	p = mustParam(t, "path", "out")
	p.setDefault(StrValue("/tmp/x"))
	if p.Default.Kind() != KindPath {
		t.Errorf("Expected a string default to promote to a path, got %s", p.Default.Kind())
	}
}

// TestAliasOrdering tests the help-page alias sort
func TestAliasOrdering(t *testing.T) {
	p := mustParam(t, "int", "ncores", "n", "cores")
	got := p.aliasesByLength()
	want := []string{"n", "cores", "ncores"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("aliasesByLength mismatch (-want +got):\n%s", diff)
	}
	if p.Name() != "ncores" {
		t.Errorf("Expected the first declared name to stay canonical, got %q", p.Name())
	}
	if !p.HasAlias("n") || p.HasAlias("x") {
		t.Error("HasAlias misreported")
	}
}
