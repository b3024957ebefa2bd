package param

import "testing"

// TestScanArgAuto tests token classification under the auto prefix
func TestScanArgAuto(t *testing.T) {
	tests := []struct {
		raw     string
		ok      bool
		prefix  string
		name    string
		typeRef string
		value   string
		hasEq   bool
		reset   bool
	}{
		{raw: "--ncores", ok: true, prefix: "--", name: "ncores"},
		{raw: "-v", ok: true, prefix: "-", name: "v"},
		{raw: "-vvv", ok: true, prefix: "-", name: "vvv"},
		{raw: "-a.b", ok: true, prefix: "-", name: "a.b"},
		{raw: "--config.ncores", ok: true, prefix: "--", name: "config.ncores"},
		{raw: "-i:int", ok: true, prefix: "-", name: "i", typeRef: "int"},
		{raw: "-i:int=5", ok: true, prefix: "-", name: "i", typeRef: "int", value: "5", hasEq: true},
		{raw: "--int=a:b", ok: true, prefix: "--", name: "int", value: "a:b", hasEq: true},
		{raw: "-l:list:str", ok: true, prefix: "-", name: "l", typeRef: "list:str"},
		{raw: "-l:r", ok: true, prefix: "-", name: "l", reset: true},
		{raw: "-l:reset", ok: true, prefix: "-", name: "l", reset: true},
		{raw: "-l:list:r", ok: true, prefix: "-", name: "l", typeRef: "list", reset: true},
		{raw: "-l:list:str:reset", ok: true, prefix: "-", name: "l", typeRef: "list:str", reset: true},
		{raw: "--x:reset", ok: true, prefix: "--", name: "x", reset: true},
		{raw: "--x:int", ok: true, prefix: "--", name: "x", typeRef: "int"},
		{raw: "-@file", ok: true, prefix: "-", name: "@file"},
		// Syntactically valid type references pass; whether the type
		// exists is checked at match time.
		{raw: "-x:bogus", ok: true, prefix: "-", name: "x", typeRef: "bogus"},
		{raw: "--a", ok: false}, // double dash needs a long name side
		{raw: "--a=5", ok: false},
		{raw: "-1", ok: false}, // negative number stays a value
		{raw: "-1.5", ok: false},
		{raw: "--", ok: false},
		{raw: "-", ok: false},
		{raw: "plain", ok: false},
		{raw: "-x:", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			tok, ok := scanArg(tt.raw, "auto")
			if ok != tt.ok {
				t.Fatalf("scanArg(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if !ok {
				return
			}
			if tok.prefix != tt.prefix || tok.name != tt.name || tok.typeRef != tt.typeRef ||
				tok.value != tt.value || tok.hasEq != tt.hasEq || tok.reset != tt.reset {
				t.Errorf("scanArg(%q) = %+v, want prefix=%q name=%q type=%q value=%q hasEq=%v reset=%v",
					tt.raw, tok, tt.prefix, tt.name, tt.typeRef, tt.value, tt.hasEq, tt.reset)
			}
		})
	}
}

// TestScanArgLiteralPrefix tests a fixed prefix like "+"
func TestScanArgLiteralPrefix(t *testing.T) {
	tok, ok := scanArg("+mode=fast", "+")
	if !ok || tok.name != "mode" || tok.value != "fast" || !tok.hasEq {
		t.Errorf("Expected +mode=fast to scan, got %+v (ok=%v)", tok, ok)
	}
	if _, ok := scanArg("-mode", "+"); ok {
		t.Error("Expected -mode to stay a value under the + prefix")
	}
	if _, ok := scanArg("mode", "+"); ok {
		t.Error("Expected a bare word to stay a value under the + prefix")
	}
}

// TestScanArgNoPrefix tests attached-only mode
func TestScanArgNoPrefix(t *testing.T) {
	tok, ok := scanArg("ncores=4", "")
	if !ok || tok.name != "ncores" || tok.value != "4" {
		t.Errorf("Expected ncores=4 to scan, got %+v (ok=%v)", tok, ok)
	}
	tok, ok = scanArg("verbose", "")
	if !ok || tok.name != "verbose" || tok.hasEq {
		t.Errorf("Expected a bare word to scan as a name, got %+v (ok=%v)", tok, ok)
	}
	if _, ok := scanArg("42", ""); ok {
		t.Error("Expected a number to stay a value")
	}
}

// TestValidName tests the name character rules
func TestValidName(t *testing.T) {
	valid := []string{"a", "ncores", "a_b", "a-b", "a.b.c", "@file", "v2"}
	invalid := []string{"", "9x", "a b", "-a", ".a"}
	for _, s := range valid {
		if !validName(s) {
			t.Errorf("Expected %q to be a valid name", s)
		}
	}
	for _, s := range invalid {
		if validName(s) {
			t.Errorf("Expected %q to be rejected", s)
		}
	}
}

// TestArgLike tests the positional-start lookahead classification
func TestArgLike(t *testing.T) {
	tests := []struct {
		raw    string
		prefix string
		want   bool
	}{
		{"-a", "auto", true},
		{"-1", "auto", true}, // conservative: still blocks positional start
		{"--ab", "auto", true},
		{"--a", "auto", false},
		{"-ab", "auto", false},
		{"value", "auto", false},
		{"+x", "+", true},
		{"x", "+", false},
		{"anything", "", false},
	}
	for _, tt := range tests {
		if got := argLike(tt.raw, tt.prefix); got != tt.want {
			t.Errorf("argLike(%q, %q) = %v, want %v", tt.raw, tt.prefix, got, tt.want)
		}
	}
}
