package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"validgen/internal/gen"
	"validgen/internal/schema"
)

func TestParse_Empty(t *testing.T) {
	f, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), f)
	assert.True(t, f.PreflightEnabled())
	assert.Equal(t, schema.DefaultOptions(), f.SchemaOptions())
	assert.Equal(t, gen.DefaultGeneratorConfig(), f.GeneratorConfig())
	assert.Nil(t, f.BuildFlags())
}

func TestParse_AllKeys(t *testing.T) {
	f, err := Parse([]byte(`
version: "1"
raw_prefix: Raw
method: Check
receiver: in
suffix: _gen.go
default_error: "*Problem"
strict: true
preflight: false
comments: false
build_tags: [integration, linux]
`))
	require.NoError(t, err)

	assert.Equal(t, schema.Options{RawPrefix: "Raw", DefaultErrorType: "*Problem", Strict: true}, f.SchemaOptions())
	assert.False(t, f.PreflightEnabled())
	assert.Equal(t, []string{"-tags=integration,linux"}, f.BuildFlags())

	cfg := f.GeneratorConfig()
	assert.Equal(t, "_gen.go", cfg.Suffix)
	assert.Equal(t, "Check", cfg.MethodName)
	assert.Equal(t, "in", cfg.ReceiverName)
	assert.False(t, cfg.GenerateComments)
}

func TestParse_UnknownKeys(t *testing.T) {
	_, err := Parse([]byte("raw_prefx: Raw\nmethods: Check\nbogus: 1\n"))
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, `line 1: unknown key "raw_prefx"; did you mean "raw_prefix"?`)
	assert.Contains(t, msg, `line 2: unknown key "methods"; did you mean "method"?`)
	assert.Contains(t, msg, `line 3: unknown key "bogus"`)
	assert.NotContains(t, msg, `"bogus"; did you mean`)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"not a mapping", "- a\n- b\n", "must be a mapping"},
		{"bad yaml", "method: [\n", "failed to parse config YAML"},
		{"wrong type", "strict: maybe\n", "failed to parse config YAML"},
		{"version", "version: \"2\"\n", `unsupported version "2"`},
		{"prefix", "raw_prefix: 1Raw\n", `raw_prefix "1Raw"`},
		{"unexported method", "method: validate\n", `method "validate" must be an exported identifier`},
		{"receiver", "receiver: _\n", `receiver "_"`},
		{"suffix without go", "suffix: _gen.txt\n", `suffix "_gen.txt"`},
		{"bare suffix", "suffix: .go\n", `suffix ".go"`},
		{"test suffix", "suffix: _validgen_test.go\n", `suffix "_validgen_test.go"`},
		{"suffix with dir", "suffix: gen/x.go\n", `suffix "gen/x.go"`},
		{"error type", "default_error: \"func(\"\n", "default_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")

	f, err := LoadOptional(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), f)

	require.NoError(t, os.WriteFile(path, []byte("method: Bogus\nmethod_x: 1\n"), 0o644))

	_, err = LoadOptional(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestWriteFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	off := false
	want := Default()
	want.RawPrefix = "Input"
	want.Comments = &off
	want.BuildTags = []string{"e2e"}

	require.NoError(t, WriteFile(want, path))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
