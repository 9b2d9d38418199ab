package commands

import (
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupCompileFlags(t *testing.T) {
	fs, flags := SetupCompileFlags()

	t.Run("default values", func(t *testing.T) {
		assert.Equal(t, FormatText, flags.Format)
		assert.Equal(t, "native", flags.Backend)
		assert.False(t, flags.SuffixMatching)
		assert.False(t, flags.Quiet)
		assert.False(t, flags.Verbose)
	})

	t.Run("parse flags", func(t *testing.T) {
		args := []string{"--backend", "jsonschema", "--suffix", "-q", "-v", "--format", "json", "api.yaml"}
		require.NoError(t, fs.Parse(args))
		assert.Equal(t, "jsonschema", flags.Backend)
		assert.True(t, flags.SuffixMatching)
		assert.True(t, flags.Quiet)
		assert.True(t, flags.Verbose)
		assert.Equal(t, "json", flags.Format)
		assert.Equal(t, "api.yaml", fs.Arg(0))
	})
}

func TestHandleCompile_Errors(t *testing.T) {
	captureOutput(t)

	assert.Error(t, HandleCompile([]string{}))
	assert.NoError(t, HandleCompile([]string{"--help"}))
	assert.Error(t, HandleCompile([]string{"--format", "xml", petstorePath}))
	assert.Error(t, HandleCompile([]string{"testdata/missing.yaml"}))
	assert.Error(t, HandleCompile([]string{"--bogus", petstorePath}))
}

func TestHandleCompile_Text(t *testing.T) {
	stdout, stderr := captureOutput(t)

	require.NoError(t, HandleCompile([]string{petstorePath}))

	out := stdout.String()
	assert.Contains(t, out, "/pets  ^/api/pets$")
	assert.Contains(t, out, "/pets/{petId}  ^/api/pets/([^/]+)$")
	assert.Contains(t, out, "GET     listPets")
	assert.Contains(t, out, "query:tags array (pipes)")
	assert.Contains(t, out, "body:pet required")
	assert.Contains(t, out, "path:petId integer required")

	assert.Contains(t, stderr.String(), "Swagger 2.0 Compiler")
	assert.Contains(t, stderr.String(), "Base Path: /api")
	assert.Contains(t, stderr.String(), "✓ Compiled 2 path template(s)")
}

func TestHandleCompile_Quiet(t *testing.T) {
	stdout, stderr := captureOutput(t)

	require.NoError(t, HandleCompile([]string{"-q", petstorePath}))
	assert.NotEmpty(t, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestHandleCompile_JSON(t *testing.T) {
	stdout, _ := captureOutput(t)

	require.NoError(t, HandleCompile([]string{"--format", "json", "--backend", "jsonschema", petstorePath}))

	var report CompileReport
	require.NoError(t, gojson.Unmarshal(stdout.Bytes(), &report))
	assert.Equal(t, "Petstore", report.Title)
	assert.Equal(t, "/api", report.BasePath)
	assert.Equal(t, "jsonschema", report.Backend)
	assert.Equal(t, 2, report.Stats.PathCount)
	assert.Equal(t, 4, report.Stats.OperationCount)
	require.Len(t, report.Paths, 2)
	assert.Equal(t, []string{"petId"}, report.Paths[1].Params)
}

func TestHandleCompile_Suffix(t *testing.T) {
	stdout, _ := captureOutput(t)

	require.NoError(t, HandleCompile([]string{"--suffix", "--format", "yaml", petstorePath}))
	assert.Contains(t, stdout.String(), "regex: /api/pets$")
}

func TestDescribeParameter(t *testing.T) {
	tests := []struct {
		param ParameterReport
		want  string
	}{
		{ParameterReport{Name: "id", In: "path", Type: "integer", Required: true}, "path:id integer required"},
		{ParameterReport{Name: "ids", In: "query", Type: "array", CollectionFormat: "csv"}, "query:ids array (csv)"},
		{ParameterReport{Name: "pet", In: "body"}, "body:pet"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, describeParameter(tt.param))
		})
	}
}

func TestWriteWarnings_Verbatim(t *testing.T) {
	_, stderr := captureOutput(t)

	writeWarnings([]string{"path /files/{name} uses 100%d literal", "plain"})

	assert.Equal(t, "warning: path /files/{name} uses 100%d literal\nwarning: plain\n", stderr.String())
}
