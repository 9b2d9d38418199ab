package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleMCP_Args(t *testing.T) {
	_, stderr := captureOutput(t)

	assert.NoError(t, HandleMCP([]string{"--help"}))
	assert.Contains(t, stderr.String(), "OASMATCH_SCHEMA_BACKEND")

	assert.Error(t, HandleMCP([]string{"extra"}))
	assert.Error(t, HandleMCP([]string{"--port", "8080"}))
}
