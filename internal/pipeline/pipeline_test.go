package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"validgen/internal/gen"
	"validgen/internal/schema"
)

const accountSource = `package tmp

import (
	"errors"
	"strings"
)

func positive(v int) (int, error) {
	if v <= 0 {
		return v, errors.New("not positive")
	}

	return v, nil
}

var _ = strings.TrimSpace

//validgen:validated
type Account struct {
	id   int ` + "`json:\"id\"`" + ` //validgen:validator positive
	name string
}
`

const plainSource = `package tmp

type Plain struct{ n int }
`

func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	files["go.mod"] = "module example.com/tmp\n\ngo 1.24\n"

	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	return dir
}

func newRunner(dir string, mode Mode) *Runner {
	return New(Options{
		Dir:       dir,
		Mode:      mode,
		Preflight: true,
		Schema:    schema.DefaultOptions(),
		Generator: gen.DefaultGeneratorConfig(),
	}, nil)
}

func bases(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}

	return out
}

func TestRun_Write(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"account.go": accountSource,
		"plain.go":   plainSource,
	})

	res, err := newRunner(dir, ModeWrite).Run(t.Context())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Packages)
	require.Len(t, res.Schemas, 1)
	assert.Equal(t, "Account", res.Schemas[0].Name)
	require.Len(t, res.Files, 1)
	assert.Equal(t, []string{"account_validgen.go"}, bases(res.Written))
	assert.Empty(t, res.Diagnostics.Errors)

	content, err := os.ReadFile(filepath.Join(dir, "account_validgen.go"))
	require.NoError(t, err)

	out := string(content)
	assert.True(t, gen.IsGenerated(content))
	assert.Contains(t, out, "package tmp")
	assert.Contains(t, out, "type UnvalidatedAccount struct")
	assert.Contains(t, out, "Id   int `json:\"id\"`")
	assert.Contains(t, out, "func (raw UnvalidatedAccount) Validate() (Account, []error)")
	assert.Contains(t, out, "var idValidator func(int) (int, error) = positive")
	assert.NotContains(t, out, `"strings"`)
	assert.NotContains(t, out, `"errors"`)

	statuses := res.Statuses(ModeWrite)
	require.Len(t, statuses, 1)
	assert.Equal(t, "written", statuses[0].Status)

	// Unchanged output is not rewritten.
	res, err = newRunner(dir, ModeWrite).Run(t.Context())
	require.NoError(t, err)
	assert.Empty(t, res.Written)
	assert.Equal(t, "unchanged", res.Statuses(ModeWrite)[0].Status)
}

func TestRun_Check(t *testing.T) {
	dir := writeModule(t, map[string]string{"account.go": accountSource})

	res, err := newRunner(dir, ModeCheck).Run(t.Context())
	require.ErrorIs(t, err, ErrDrift)
	require.Len(t, res.Drifts, 1)
	assert.Equal(t, gen.DriftMissing, res.Drifts[0].Kind)
	assert.Equal(t, "missing", res.Statuses(ModeCheck)[0].Status)

	_, err = os.Stat(filepath.Join(dir, "account_validgen.go"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = newRunner(dir, ModeWrite).Run(t.Context())
	require.NoError(t, err)

	res, err = newRunner(dir, ModeCheck).Run(t.Context())
	require.NoError(t, err)
	assert.Empty(t, res.Drifts)

	edited := filepath.Join(dir, "account_validgen.go")
	content, err := os.ReadFile(edited)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(edited, append(content, []byte("\n// edited\n")...), 0o644))

	res, err = newRunner(dir, ModeCheck).Run(t.Context())
	require.ErrorIs(t, err, ErrDrift)
	require.Len(t, res.Drifts, 1)
	assert.Equal(t, gen.DriftChanged, res.Drifts[0].Kind)
	assert.Contains(t, gen.FormatDiff(res.Drifts[0].Diff, 1, nil), "-// edited")
}

func TestRun_StaleOutputs(t *testing.T) {
	stale := gen.Header + "\n\npackage tmp\n\ntype UnvalidatedGone struct{}\n"
	dir := writeModule(t, map[string]string{
		"plain.go":          plainSource,
		"gone_validgen.go":  stale,
		"notes_validgen.go": "package tmp\n\n// Written by hand.\n",
	})

	res, err := newRunner(dir, ModeCheck).Run(t.Context())
	require.ErrorIs(t, err, ErrDrift)
	require.Len(t, res.Drifts, 1)
	assert.Equal(t, gen.DriftStale, res.Drifts[0].Kind)
	assert.Equal(t, "gone_validgen.go", filepath.Base(res.Drifts[0].Path))

	res, err = newRunner(dir, ModeWrite).Run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"gone_validgen.go"}, bases(res.Removed))
	require.Len(t, res.Diagnostics.Infos, 1)
	assert.Equal(t, "REMOVED", res.Diagnostics.Infos[0].Code)

	_, err = os.Stat(filepath.Join(dir, "gone_validgen.go"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = os.Stat(filepath.Join(dir, "notes_validgen.go"))
	require.NoError(t, err)
}

func TestRun_BuildConstraints(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"plain.go":  plainSource,
		"tagged.go": "//go:build integration\n\n" + accountSource,
	})

	r := New(Options{
		Dir:        dir,
		Mode:       ModeWrite,
		Preflight:  true,
		BuildFlags: []string{"-tags=integration"},
		Schema:     schema.DefaultOptions(),
		Generator:  gen.DefaultGeneratorConfig(),
	}, nil)

	res, err := r.Run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"tagged_validgen.go"}, bases(res.Written))

	content, err := os.ReadFile(filepath.Join(dir, "tagged_validgen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), gen.Header+"\n\n//go:build integration\n\npackage tmp\n")

	// Without the tag the source is not analysed and its output stays.
	res, err = newRunner(dir, ModeWrite).Run(t.Context())
	require.NoError(t, err)
	assert.Empty(t, res.Removed)
	assert.FileExists(t, filepath.Join(dir, "tagged_validgen.go"))

	res, err = newRunner(dir, ModeCheck).Run(t.Context())
	require.NoError(t, err)
	assert.Empty(t, res.Drifts)
}

func TestRun_ErrorsAbortAllWrites(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"account.go": accountSource,
		"bad.go": `package tmp

//validgen:validated
type Bad struct {
	a int
	string
}
`,
	})

	res, err := newRunner(dir, ModeWrite).Run(t.Context())
	require.ErrorIs(t, err, ErrFailed)
	require.NotNil(t, res)
	assert.Empty(t, res.Written)
	require.Len(t, res.Diagnostics.Errors, 1)
	assert.Equal(t, string(schema.CodeAnonymousField), res.Diagnostics.Errors[0].Code)
	assert.Equal(t, "Bad", res.Diagnostics.Errors[0].Schema)

	_, err = os.Stat(filepath.Join(dir, "account_validgen.go"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_CodeUsingRawType(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"account.go": accountSource,
		"use.go": `package tmp

func newAccount(id int) (Account, []error) {
	return UnvalidatedAccount{Id: id, Name: "x"}.Validate()
}
`,
	})

	// The first run sees no raw type at all, the second hides the output
	// of the first.
	for range 2 {
		res, err := newRunner(dir, ModeWrite).Run(t.Context())
		require.NoError(t, err)
		assert.Len(t, res.Files, 1)
		assert.Empty(t, res.Diagnostics.Errors)
	}

	res, err := newRunner(dir, ModeCheck).Run(t.Context())
	require.NoError(t, err)
	assert.Empty(t, res.Drifts)
}

func TestRun_FailureEqualToZeroValue(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"a.go": `package tmp

type NotPositive struct{}

func positive(v int) bool { return v > 0 }

//validgen:validated
//validgen:error NotPositive
type A struct {
	n int //validgen:validator positive, NotPositive{}
}
`,
	})

	res, err := newRunner(dir, ModeWrite).Run(t.Context())
	require.ErrorIs(t, err, ErrFailed)
	require.Len(t, res.Diagnostics.Errors, 1)
	assert.Equal(t, string(schema.CodeAmbiguousFailure), res.Diagnostics.Errors[0].Code)
	assert.NoFileExists(t, filepath.Join(dir, "a_validgen.go"))
}

func TestRun_Preflight(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"a.go": `package tmp

func wrong(v string) (string, error) { return v, nil }

//validgen:validated
type A struct {
	n int //validgen:validator wrong
}
`,
	})

	res, err := newRunner(dir, ModeDryRun).Run(t.Context())
	require.ErrorIs(t, err, ErrFailed)
	require.Len(t, res.Diagnostics.Errors, 1)
	assert.Equal(t, string(schema.CodeSignatureMismatch), res.Diagnostics.Errors[0].Code)
	assert.Equal(t, "n", res.Diagnostics.Errors[0].Field)

	// Without the preflight the mismatch is left to the compiler.
	var buf bytes.Buffer

	r := New(Options{Dir: dir, Mode: ModeDryRun, Stdout: &buf}, nil)
	res, err = r.Run(t.Context())
	require.NoError(t, err)
	assert.Len(t, res.Files, 1)
	assert.Contains(t, buf.String(), "var nValidator func(int) (int, error) = wrong")
}

func TestRun_DryRun(t *testing.T) {
	dir := writeModule(t, map[string]string{"account.go": accountSource})

	var buf bytes.Buffer

	r := New(Options{Dir: dir, Mode: ModeDryRun, Preflight: true, Stdout: &buf}, nil)
	res, err := r.Run(t.Context())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "// ---- "+res.Files[0].Path+" ----\n"+gen.Header)
	assert.Equal(t, "generated", res.Statuses(ModeDryRun)[0].Status)

	_, err = os.Stat(filepath.Join(dir, "account_validgen.go"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_NoTypes(t *testing.T) {
	dir := writeModule(t, map[string]string{"account.go": accountSource})

	r := New(Options{Dir: dir, Mode: ModeCheck, NoTypes: true, Preflight: true}, nil)
	res, err := r.Run(t.Context())
	require.ErrorIs(t, err, ErrDrift)
	assert.Len(t, res.Files, 1)
	// Without types the error type cannot be refined.
	assert.Equal(t, schema.ErrorCheckNil, res.Schemas[0].ErrorCheck)
}

func TestRun_CustomNames(t *testing.T) {
	dir := writeModule(t, map[string]string{"account.go": accountSource})

	var buf bytes.Buffer

	r := New(Options{
		Dir:       dir,
		Mode:      ModeDryRun,
		Stdout:    &buf,
		Schema:    schema.Options{RawPrefix: "Raw"},
		Generator: gen.GeneratorConfig{Suffix: "_check.go", MethodName: "Check", ReceiverName: "in"},
	}, nil)

	res, err := r.Run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "account_check.go", filepath.Base(res.Files[0].Path))
	assert.Contains(t, buf.String(), "func (in RawAccount) Check() (Account, []error)")
}

func TestRun_LoadError(t *testing.T) {
	dir := writeModule(t, map[string]string{"a.go": "package tmp\n\nfunc broken( {\n"})

	res, err := newRunner(dir, ModeWrite).Run(t.Context())
	require.Error(t, err)
	assert.Nil(t, res)
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "write", ModeWrite.String())
	assert.Equal(t, "check", ModeCheck.String())
	assert.Equal(t, "dry-run", ModeDryRun.String())
	assert.Equal(t, "Mode(9)", Mode(9).String())
}
