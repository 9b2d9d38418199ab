package mcpserver

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalSwagger is a small Swagger 2.0 document used across the package tests.
const minimalSwagger = `swagger: "2.0"
info:
  title: Test API
  version: "1.0.0"
basePath: /v1
paths:
  /users:
    get:
      parameters:
        - name: limit
          in: query
          type: integer
          maximum: 50
      responses:
        "200":
          description: OK
  /users/{id}:
    get:
      parameters:
        - name: id
          in: path
          required: true
          type: integer
      responses:
        "200":
          description: OK
          schema:
            type: object
            required: [id]
            properties:
              id:
                type: integer
`

func defaultSettings() compileSettings {
	return settingsFrom("", nil)
}

func TestSpecInput_ResolveFile(t *testing.T) {
	specCache.reset()
	input := specInput{File: "testdata/petstore.yaml"}
	spec, err := input.resolve(defaultSettings())
	require.NoError(t, err)
	require.NotNil(t, spec.Dispatcher)
	assert.Equal(t, "/api", spec.Dispatcher.BasePath())
	assert.Len(t, spec.Dispatcher.Paths(), 2)
}

func TestSpecInput_ResolveContent(t *testing.T) {
	specCache.reset()
	spec, err := specInput{Content: minimalSwagger}.resolve(defaultSettings())
	require.NoError(t, err)
	assert.Equal(t, "Test API", spec.Result.Document.Title())
	assert.Equal(t, "content", spec.Result.SourcePath)
}

func TestSpecInput_ResolveErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   specInput
		wantErr string
	}{
		{"none provided", specInput{}, "exactly one of file or content must be provided"},
		{"both provided", specInput{File: "a.yaml", Content: "b"}, "exactly one of file or content must be provided"},
		{"file not found", specInput{File: "/nonexistent/path.yaml"}, ""},
		{"openapi 3 rejected", specInput{Content: "openapi: 3.0.0\ninfo: {title: x, version: '1'}\npaths: {}\n"}, ""},
		{"bad template", specInput{Content: "swagger: '2.0'\ninfo: {title: x, version: '1'}\npaths:\n  /a/{:\n    get:\n      responses: {200: {description: ok}}\n"}, "invalid path template"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			specCache.reset()
			_, err := tt.input.resolve(defaultSettings())
			require.Error(t, err)
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
			assert.Zero(t, specCache.size(), "failures are not cached")
		})
	}
}

func TestSpecInput_UnknownBackend(t *testing.T) {
	specCache.reset()
	_, err := specInput{Content: minimalSwagger}.resolve(compileSettings{Backend: "xml"})
	assert.Error(t, err)
}

func TestSettingsFrom(t *testing.T) {
	on := true
	s := settingsFrom("jsonschema", &on)
	assert.Equal(t, "jsonschema", s.Backend)
	assert.True(t, s.SuffixMatching)

	s = settingsFrom("", nil)
	assert.Equal(t, cfg.Backend, s.Backend)
	assert.Equal(t, cfg.SuffixMatching, s.SuffixMatching)
}

func TestSpecCache_HitOnSameFile(t *testing.T) {
	specCache.reset()
	input := specInput{File: "testdata/petstore.yaml"}

	spec1, err := input.resolve(defaultSettings())
	require.NoError(t, err)
	assert.Equal(t, 1, specCache.size())

	spec2, err := input.resolve(defaultSettings())
	require.NoError(t, err)
	assert.Same(t, spec1, spec2, "expected same pointer from cache hit")
}

func TestSpecCache_MissOnModifiedFile(t *testing.T) {
	specCache.reset()

	dir := t.TempDir()
	path := filepath.Join(dir, "swagger.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalSwagger), 0o644))

	input := specInput{File: path}
	spec1, err := input.resolve(defaultSettings())
	require.NoError(t, err)
	assert.Equal(t, "Test API", spec1.Result.Document.Title())

	modified := []byte(`swagger: "2.0"
info:
  title: Test API v2
  version: "2.0"
paths: {}
`)
	require.NoError(t, os.WriteFile(path, modified, 0o644))
	// Ensure mtime differs from the first write on coarse-grained filesystems.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	spec2, err := input.resolve(defaultSettings())
	require.NoError(t, err)
	assert.NotSame(t, spec1, spec2)
	assert.Equal(t, "Test API v2", spec2.Result.Document.Title())
}

func TestSpecCache_ContentHash(t *testing.T) {
	specCache.reset()
	input := specInput{Content: minimalSwagger}

	spec1, err := input.resolve(defaultSettings())
	require.NoError(t, err)
	spec2, err := input.resolve(defaultSettings())
	require.NoError(t, err)
	assert.Same(t, spec1, spec2)
}

func TestSpecCache_KeyedBySettings(t *testing.T) {
	specCache.reset()
	input := specInput{Content: minimalSwagger}

	native, err := input.resolve(compileSettings{Backend: "native"})
	require.NoError(t, err)
	js, err := input.resolve(compileSettings{Backend: "jsonschema"})
	require.NoError(t, err)
	suffix, err := input.resolve(compileSettings{Backend: "native", SuffixMatching: true})
	require.NoError(t, err)

	assert.NotSame(t, native, js)
	assert.NotSame(t, native, suffix)
	assert.Equal(t, "native", native.Dispatcher.Backend())
	assert.Equal(t, "jsonschema", js.Dispatcher.Backend())
	assert.Equal(t, 3, specCache.size())
}

func TestSpecCache_LRUEviction(t *testing.T) {
	specCache.reset()
	settings := defaultSettings()

	var firstKey string
	for i := range specCache.maxSize + 1 {
		content := fmt.Sprintf("swagger: \"2.0\"\ninfo:\n  title: Spec %d\n  version: \"1.0\"\npaths: {}\n", i)
		if i == 0 {
			firstKey = makeCacheKey(specInput{Content: content}, settings)
		}
		_, err := specInput{Content: content}.resolve(settings)
		require.NoError(t, err)
	}

	assert.Equal(t, specCache.maxSize, specCache.size())
	assert.Nil(t, specCache.get(firstKey), "expected oldest entry to be evicted")
}

func TestSpecCache_Expiry(t *testing.T) {
	specCache.reset()
	specCache.putWithTTL("k", &compiledSpec{}, -time.Second)
	assert.Nil(t, specCache.get("k"))

	specCache.putWithTTL("a", &compiledSpec{}, -time.Second)
	specCache.putWithTTL("b", &compiledSpec{}, time.Hour)
	specCache.sweep()
	assert.Equal(t, 1, specCache.size())
	assert.NotNil(t, specCache.get("b"))
}

func TestMakeCacheKey(t *testing.T) {
	settings := compileSettings{Backend: "native"}
	assert.Empty(t, makeCacheKey(specInput{}, settings))
	assert.Empty(t, makeCacheKey(specInput{File: "/nonexistent/x.yaml"}, settings))

	key := makeCacheKey(specInput{Content: "x"}, settings)
	assert.Contains(t, key, "content:")
	assert.Contains(t, key, "backend=native")
	assert.NotEqual(t, key, makeCacheKey(specInput{Content: "x"}, compileSettings{Backend: "jsonschema"}))
}
