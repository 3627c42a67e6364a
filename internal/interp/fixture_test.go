package interp

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/cwbudde/go-rexx/internal/lexer"
	"github.com/cwbudde/go-rexx/internal/parser"
	"github.com/gkampitakis/go-snaps/snaps"
)

// TestRexxFixtures runs every .rexx script under testdata/fixtures and
// snapshots its output, exit code and error state. The snapshot suite
// gives broad end-to-end coverage of the engine with real programs.
func TestRexxFixtures(t *testing.T) {
	root := filepath.Join("testdata", "fixtures")
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("fixtures directory missing: %v", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".rexx") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		t.Run(strings.TrimSuffix(name, ".rexx"), func(t *testing.T) {
			content, err := os.ReadFile(filepath.Join(root, name))
			if err != nil {
				t.Fatal(err)
			}
			snaps.MatchSnapshot(t, runFixture(t, string(content)))
		})
	}
}

// runFixture executes a fixture and renders its observable outcome.
func runFixture(t *testing.T, source string) string {
	t.Helper()

	var buf bytes.Buffer
	eng := New(&buf)

	// Fixtures exercising ADDRESS dispatch get a deterministic target.
	err := eng.RegisterAddressTarget("mock", func(cmd string, _ *HandlerContext) (any, error) {
		return map[string]any{"success": true, "result": cmd}, nil
	}, []string{"ping"}, TargetMetadata{}, "")
	if err != nil {
		t.Fatal(err)
	}

	p := parser.New(lexer.New(source), source)
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		return fmt.Sprintf("PARSE ERRORS:\n%s", strings.Join(p.Errors(), "\n"))
	}

	result, rerr := eng.Run(prog)

	var sb strings.Builder
	sb.WriteString("OUTPUT:\n")
	sb.WriteString(buf.String())
	if rerr != nil {
		fmt.Fprintf(&sb, "UNHANDLED: %v\n", rerr)
		return sb.String()
	}
	fmt.Fprintf(&sb, "EXIT: %d\n", result.ExitCode)
	if result.ErrorMessage != "" {
		fmt.Fprintf(&sb, "TERMINATED: %s\n", result.ErrorMessage)
	}
	return sb.String()
}
