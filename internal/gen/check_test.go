package gen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckFiles(t *testing.T) {
	dir := t.TempDir()

	same := filepath.Join(dir, "same_validgen.go")
	changed := filepath.Join(dir, "changed_validgen.go")
	missing := filepath.Join(dir, "missing_validgen.go")
	stale := filepath.Join(dir, "stale_validgen.go")

	require.NoError(t, os.WriteFile(same, []byte("package x\n"), 0o644))
	require.NoError(t, os.WriteFile(changed, []byte("package x\n\nvar a = 1\n"), 0o644))

	drifts, err := CheckFiles([]GeneratedFile{
		{Path: same, Content: []byte("package x\n")},
		{Path: changed, Content: []byte("package x\n\nvar a = 2\n")},
		{Path: missing, Content: []byte("package x\n")},
	}, []string{stale})
	require.NoError(t, err)
	require.Len(t, drifts, 3)

	assert.Equal(t, changed, drifts[0].Path)
	assert.Equal(t, DriftChanged, drifts[0].Kind)
	assert.Equal(t, " package x\n \n-var a = 1\n+var a = 2\n", FormatDiff(drifts[0].Diff, 3, nil))

	assert.Equal(t, missing, drifts[1].Path)
	assert.Equal(t, DriftMissing, drifts[1].Kind)
	assert.Equal(t, "+package x\n", FormatDiff(drifts[1].Diff, 3, nil))

	assert.Equal(t, stale, drifts[2].Path)
	assert.Equal(t, DriftStale, drifts[2].Kind)
	assert.Empty(t, drifts[2].Diff)

	// Nothing was written.
	assert.NoFileExists(t, missing)
}

func TestFormatDiff_Context(t *testing.T) {
	var from, to []string
	for i := range 20 {
		line := strings.Repeat("x", i+1)
		from = append(from, line)

		if i == 10 {
			line = "changed"
		}

		to = append(to, line)
	}

	diffs := LineDiff(strings.Join(from, "\n")+"\n", strings.Join(to, "\n")+"\n")

	got := FormatDiff(diffs, 1, nil)
	assert.Equal(t, "...\n "+strings.Repeat("x", 10)+"\n-"+strings.Repeat("x", 11)+
		"\n+changed\n "+strings.Repeat("x", 12)+"\n...\n", got)

	painted := FormatDiff(diffs, 0, func(op diffmatchpatch.Operation, line string) string {
		return op.String() + ":" + line
	})
	assert.Equal(t, "...\nDelete:-"+strings.Repeat("x", 11)+"\nInsert:+changed\n...\n", painted)
}

func TestFormatDiff_Equal(t *testing.T) {
	assert.Equal(t, "...\n", FormatDiff(LineDiff("a\nb\n", "a\nb\n"), 3, nil))
}

func TestDriftKind_String(t *testing.T) {
	assert.Equal(t, "changed", DriftChanged.String())
	assert.Equal(t, "missing", DriftMissing.String())
	assert.Equal(t, "stale", DriftStale.String())
	assert.Equal(t, "DriftKind(7)", DriftKind(7).String())
}
