package param

import (
	"errors"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustParam(t *testing.T, typeRef string, names ...string) *Param {
	t.Helper()
	p, err := NewParam(typeRef, names...)
	if err != nil {
		t.Fatalf("NewParam(%q, %v) failed: %v", typeRef, names, err)
	}
	return p
}

// TestStoreAddResolve tests registration and alias lookup
func TestStoreAddResolve(t *testing.T) {
	s := NewStore()
	p := mustParam(t, "int", "ncores", "n")
	if err := s.Add(p, false); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if got := s.Resolve("ncores"); got != p {
		t.Error("Expected resolution by canonical name")
	}
	if got := s.Resolve("n"); got != p {
		t.Error("Expected resolution by alias")
	}
	if got := s.Resolve("cores"); got != nil {
		t.Errorf("Expected a miss for an unknown name, got %v", got)
	}
	if s.Len() != 1 {
		t.Errorf("Expected Len()=1, got %d", s.Len())
	}
}

// TestStoreDuplicate tests duplicate rejection and forced replacement
func TestStoreDuplicate(t *testing.T) {
	s := NewStore()
	first := mustParam(t, "int", "x")
	second := mustParam(t, "str", "x", "ex")

	if err := s.Add(first, false); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	err := s.Add(second, false)
	if err == nil {
		t.Fatal("Expected a duplicate-name error")
	}
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Kind != ErrorDuplicateName {
		t.Errorf("Expected kind %q, got %v", ErrorDuplicateName, err)
	}

	if err := s.Add(second, true); err != nil {
		t.Fatalf("Forced Add failed: %v", err)
	}
	if got := s.Resolve("x"); got != second {
		t.Error("Expected the forced parameter to replace the previous one")
	}
	if s.Len() != 1 {
		t.Errorf("Expected the previous occupant to be removed, Len()=%d", s.Len())
	}
}

// TestStoreDottedDeclaration tests namespace auto-creation on the way down
func TestStoreDottedDeclaration(t *testing.T) {
	s := NewStore()
	leaf := mustParam(t, "int", "config.depth.max")
	if err := s.Add(leaf, false); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	config := s.Resolve("config")
	if config == nil || !config.isNamespace() {
		t.Fatal("Expected an auto-created namespace parameter for config")
	}
	depth := s.Resolve("config.depth")
	if depth == nil || !depth.isNamespace() {
		t.Fatal("Expected an auto-created namespace parameter for config.depth")
	}
	if got := s.Resolve("config.depth.max"); got != leaf {
		t.Error("Expected the dotted leaf to resolve")
	}
}

// TestStoreDottedConflict tests rejection when the head is not a namespace
func TestStoreDottedConflict(t *testing.T) {
	s := NewStore()
	if err := s.Add(mustParam(t, "int", "x"), false); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	err := s.Add(mustParam(t, "int", "x.y"), false)
	if err == nil {
		t.Fatal("Expected an error routing under a non-namespace head")
	}
}

// TestStoreDottedAliasScope tests that aliases of a dotted name share its head
func TestStoreDottedAliasScope(t *testing.T) {
	s := NewStore()
	err := s.Add(mustParam(t, "int", "config.ncores", "run.ncores"), false)
	if err == nil {
		t.Fatal("Expected an error for aliases under different namespaces")
	}

	p := mustParam(t, "int", "config.ncores", "config.n")
	if err := s.Add(p, false); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if got := s.Resolve("config.n"); got != p {
		t.Error("Expected resolution by the dotted alias")
	}
}

// TestStoreAddAliases tests post-registration aliasing
func TestStoreAddAliases(t *testing.T) {
	s := NewStore()
	p := mustParam(t, "int", "ncores")
	if err := s.Add(p, false); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := s.AddAliases(p, "n", "cores"); err != nil {
		t.Fatalf("AddAliases failed: %v", err)
	}
	if got := s.Resolve("cores"); got != p {
		t.Error("Expected resolution by the added alias")
	}

	other := mustParam(t, "int", "jobs")
	if err := s.Add(other, false); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := s.AddAliases(other, "n"); err == nil {
		t.Error("Expected a duplicate error for a taken alias")
	}
	if err := s.AddAliases(other, "j:int"); err == nil {
		t.Error("Expected an error for invalid characters in an alias")
	}

	nested := mustParam(t, "int", "config.depth")
	if err := s.Add(nested, false); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := s.AddAliases(nested, "config.d"); err != nil {
		t.Fatalf("AddAliases under the same namespace failed: %v", err)
	}
	if err := s.AddAliases(nested, "other.d"); err == nil {
		t.Error("Expected an error for an alias under a different namespace")
	}
}

// TestStoreResolveAttached tests longest-prefix alias splitting
func TestStoreResolveAttached(t *testing.T) {
	s := NewStore()
	short := mustParam(t, "int", "i")
	long := mustParam(t, "int", "in")
	if err := s.Add(short, false); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := s.Add(long, false); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	p, rest := s.ResolveAttached("int5")
	if p != long || rest != "t5" {
		t.Errorf("Expected the longer alias to win: got %v rest %q", p, rest)
	}

	p, rest = s.ResolveAttached("i5")
	if p != short || rest != "5" {
		t.Errorf("Expected i5 to split as i+5: got %v rest %q", p, rest)
	}

	// An exact alias is not an attached form
	if p, _ := s.ResolveAttached("i"); p != nil {
		t.Error("Expected no attached match for an exact alias")
	}

	if p, _ := s.ResolveAttached("x5"); p != nil {
		t.Error("Expected no match for an unknown prefix")
	}
}

// TestStoreResolveAttachedDotted tests attached splitting through namespaces
func TestStoreResolveAttachedDotted(t *testing.T) {
	s := NewStore()
	leaf := mustParam(t, "int", "config.ncores")
	if err := s.Add(leaf, false); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	p, rest := s.ResolveAttached("config.ncores4")
	if p != leaf || rest != "4" {
		t.Errorf("Expected config.ncores4 to split, got %v rest %q", p, rest)
	}
}

// TestStoreAliases tests the flattened alias listing
func TestStoreAliases(t *testing.T) {
	s := NewStore()
	if err := s.Add(mustParam(t, "int", "ncores", "n"), false); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := s.Add(mustParam(t, "int", "config.depth"), false); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got := s.Aliases()
	sort.Strings(got)
	want := []string{"config", "config.depth", "n", "ncores"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Aliases mismatch (-want +got):\n%s", diff)
	}
}

// TestSegmentHelpers tests dotted-name splitting
func TestSegmentHelpers(t *testing.T) {
	if head, ok := splitHead("a.b.c"); !ok || head != "a" {
		t.Errorf("splitHead(a.b.c) = %q, %v", head, ok)
	}
	if _, ok := splitHead("plain"); ok {
		t.Error("Expected no head for a plain name")
	}
	if _, ok := splitHead(".x"); ok {
		t.Error("Expected no head for a leading dot")
	}
	if got := parentPath("a.b.c"); got != "a.b" {
		t.Errorf("parentPath(a.b.c) = %q", got)
	}
	if got := parentPath("plain"); got != "" {
		t.Errorf("parentPath(plain) = %q", got)
	}
	if got := lastSegment("a.b.c"); got != "c" {
		t.Errorf("lastSegment(a.b.c) = %q", got)
	}
	if got := lastSegment("plain"); got != "plain" {
		t.Errorf("lastSegment(plain) = %q", got)
	}
}
