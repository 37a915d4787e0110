package gen_test

import (
	"os/exec"
	"path/filepath"
	"testing"
)

// TestExamples checks that the committed outputs under examples/ match
// what the command generates, then runs the example tests.
func TestExamples(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the go command")
	}

	repoRoot, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		t.Fatalf("repo root: %v", err)
	}

	check := exec.CommandContext(t.Context(), "go", "run", "./cmd/validgen", "-check", "./examples/...")
	check.Dir = repoRoot

	if b, err := check.CombinedOutput(); err != nil {
		t.Fatalf("examples are out of date: %v\n%s", err, b)
	}

	test := exec.CommandContext(t.Context(), "go", "test", "-count=1", "./examples/...")
	test.Dir = repoRoot

	if b, err := test.CombinedOutput(); err != nil {
		t.Fatalf("example tests failed: %v\n%s", err, b)
	}
}
