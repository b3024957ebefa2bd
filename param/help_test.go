package param

import (
	"strings"
	"testing"
)

// TestHelpPageLayout tests the overall page structure
func TestHelpPageLayout(t *testing.T) {
	p := NewWithOptions("A test program", Options{Prog: "app"})
	p.IntParam("ncores", "Number of cores").Required()
	p.StrParam("outdir", "Output directory").Aliases("o").Default("out")

	page := p.Help()

	if !strings.HasPrefix(page, "DESCRIPTION:\n  A test program\n") {
		t.Errorf("Expected the page to open with the description, got:\n%s", page)
	}
	wants := []string{
		"USAGE:\n  app --ncores <int> [OPTIONS]\n",
		"REQUIRED OPTIONS:\n  --ncores <int>  Number of cores\n",
		"OPTIONAL OPTIONS:\n",
		"  -o, --outdir <str>  Output directory Default: out\n",
		"  -H, -h, --help",
		"Print help information for this command",
	}
	for _, want := range wants {
		if !strings.Contains(page, want) {
			t.Errorf("Expected the page to contain %q, got:\n%s", want, page)
		}
	}
}

// TestHelpCustomUsage tests the usage template override
func TestHelpCustomUsage(t *testing.T) {
	p := NewWithOptions("Test program", Options{Prog: "app"}).
		Usage("{prog} [OPTIONS] FILE...")
	p.IntParam("ncores", "Number of cores")

	page := p.Help()
	if !strings.Contains(page, "USAGE:\n  app [OPTIONS] FILE...\n") {
		t.Errorf("Expected the templated usage line, got:\n%s", page)
	}
}

// TestHelpNamespaceSections tests per-namespace option groups
func TestHelpNamespaceSections(t *testing.T) {
	p := NewWithOptions("Test program", Options{Prog: "app"})
	p.NamespaceParam("config", "").
		Back().
		IntParam("config.ncores", "Number of cores").Default(1)

	page := p.Help()
	wants := []string{
		"--config [ns]",
		"Works as a namespace for other arguments.",
		"OPTIONAL OPTIONS UNDER --config:\n" +
			"  --config.ncores <int>  Number of cores Default: 1\n",
	}
	for _, want := range wants {
		if !strings.Contains(page, want) {
			t.Errorf("Expected the page to contain %q, got:\n%s", want, page)
		}
	}
}

// TestHelpRequiredNamespace tests that a required child promotes the group
func TestHelpRequiredNamespace(t *testing.T) {
	p := NewWithOptions("Test program", Options{Prog: "app"})
	p.NamespaceParam("config", "").
		Back().
		IntParam("config.ncores", "Number of cores").Required()

	page := p.Help()
	wants := []string{
		"USAGE:\n  app --config.ncores <int> [OPTIONS]\n",
		"REQUIRED OPTIONS UNDER --config:",
	}
	for _, want := range wants {
		if !strings.Contains(page, want) {
			t.Errorf("Expected the page to contain %q, got:\n%s", want, page)
		}
	}
	if !strings.Contains(page, "REQUIRED OPTIONS:\n  --config [ns]") {
		t.Errorf("Expected the namespace in the required group, got:\n%s", page)
	}
}

// TestHelpCommandsSection tests the command list and footer
func TestHelpCommandsSection(t *testing.T) {
	p := NewWithOptions("Test program", Options{Prog: "app"})
	if _, err := p.AddCommand("Show the tree", "show", "s"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	page := p.Help()
	wants := []string{
		"USAGE:\n  app [OPTIONS] COMMAND [OPTIONS]\n",
		"COMMANDS:\n  s, show  Show the tree\n",
		"Print help of sub-commands",
		"Use \"app help COMMAND\" for more information about a command.\n",
	}
	for _, want := range wants {
		if !strings.Contains(page, want) {
			t.Errorf("Expected the page to contain %q, got:\n%s", want, page)
		}
	}
}

// TestHelpTypeLabels tests bracket style, frozen case, and choice lists
func TestHelpTypeLabels(t *testing.T) {
	p := New("Test program")
	p.BoolParam("force", "Overwrite outputs")
	p.CountParam("v", "Verbosity").Aliases("verbose")
	p.IntParam("depth", "Tree depth").Frozen().Default(2)
	p.ListParam("items", "Items to process").Subtype("int")
	p.ChoiceParam("mode", "Run mode.", "fast", "slow").Default("fast")

	page := p.Help()
	wants := []string{
		"--force [bool]",
		"Overwrite outputs Default: false",
		"-v, --verbose [count]",
		"--depth <INT>",
		"Tree depth Default: 2",
		"--items <list:int>",
		"--mode <choice>",
		"Run mode. One of [fast, slow]. Default: fast",
	}
	for _, want := range wants {
		if !strings.Contains(page, want) {
			t.Errorf("Expected the page to contain %q, got:\n%s", want, page)
		}
	}
}

// TestHelpDescOwnsDefault tests that a description naming a default wins
func TestHelpDescOwnsDefault(t *testing.T) {
	p := New("Test program")
	p.IntParam("depth", "Tree depth. Default: unlimited")

	page := p.Help()
	if !strings.Contains(page, "Tree depth. Default: unlimited\n") {
		t.Errorf("Expected the description untouched, got:\n%s", page)
	}
	if strings.Contains(page, "Default: unlimited Default:") {
		t.Errorf("Expected no second default, got:\n%s", page)
	}
}

// TestHelpPositional tests the positional row and usage slot
func TestHelpPositional(t *testing.T) {
	p := NewWithOptions("Test program", Options{Prog: "app"})
	p.PositionalParam("Input files").Required()

	page := p.Help()
	wants := []string{
		"USAGE:\n  app POSITIONAL [OPTIONS]\n",
		"REQUIRED OPTIONS:\n  POSITIONAL <list>  Input files\n",
	}
	for _, want := range wants {
		if !strings.Contains(page, want) {
			t.Errorf("Expected the page to contain %q, got:\n%s", want, page)
		}
	}
}

// TestHelpHidesHidden tests that hidden parameters stay off the page
func TestHelpHidesHidden(t *testing.T) {
	p := New("Test program")
	p.IntParam("ncores", "Number of cores")
	p.StrParam("secret", "Internal switch").Hidden()

	page := p.Help()
	if strings.Contains(page, "secret") {
		t.Errorf("Expected hidden parameters off the page, got:\n%s", page)
	}
	if !strings.Contains(page, "--ncores") {
		t.Errorf("Expected visible parameters on the page, got:\n%s", page)
	}
}

// TestHelpLiteralPrefix tests name rendering under a literal prefix
func TestHelpLiteralPrefix(t *testing.T) {
	p := NewWithOptions("Test program", Options{Prog: "app", Prefix: "+"})
	p.IntParam("ncores", "Number of cores").Required()

	page := p.Help()
	if !strings.Contains(page, "USAGE:\n  app +ncores <int> [OPTIONS]\n") {
		t.Errorf("Expected the literal prefix in the usage line, got:\n%s", page)
	}
	if !strings.Contains(page, "+ncores <int>") {
		t.Errorf("Expected the literal prefix on the option row, got:\n%s", page)
	}
}
