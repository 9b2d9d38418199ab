package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasmatch/document"
)

func TestNewSimpleDocument(t *testing.T) {
	doc := NewSimpleDocument()
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, "Test API", doc.Title())
	assert.Equal(t, "/v1", doc.BasePath)
	assert.NotNil(t, doc.Paths)
	assert.Empty(t, doc.Paths)
}

func TestNewPetstoreDocument(t *testing.T) {
	doc := NewPetstoreDocument()
	stats := document.GetDocumentStats(doc)
	assert.Equal(t, 2, stats.PathCount)
	assert.Equal(t, 4, stats.OperationCount)
	assert.Equal(t, 5, stats.ParameterCount)
	assert.Equal(t, 5, stats.ResponseCount)

	item := doc.Paths["/pets/{petId}"]
	require.NotNil(t, item)
	assert.Equal(t, []string{"delete", "get"}, item.OperationMethods())
}

// TestWriteTempYAML verifies that a written document parses back.
func TestWriteTempYAML(t *testing.T) {
	path := WriteTempYAML(t, NewPetstoreDocument())

	assert.FileExists(t, path)
	assert.Equal(t, ".yaml", filepath.Ext(path))
	assert.True(t, filepath.IsAbs(path))

	result, err := document.ParseWithOptions(document.WithFilePath(path))
	require.NoError(t, err)
	assert.Equal(t, "Test API", result.Document.Title())
	assert.Equal(t, 4, result.Stats.OperationCount)
}

// TestWriteTempJSON verifies that JSON output is indented and parses back.
func TestWriteTempJSON(t *testing.T) {
	path := WriteTempJSON(t, NewSimpleDocument())

	assert.Equal(t, ".json", filepath.Ext(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n")

	result, err := document.ParseWithOptions(document.WithFilePath(path))
	require.NoError(t, err)
	assert.Equal(t, document.SourceFormatJSON, result.SourceFormat)
	assert.Equal(t, "/v1", result.Document.BasePath)
}
