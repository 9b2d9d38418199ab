package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileTool_Content(t *testing.T) {
	input := compileInput{Spec: specInput{Content: minimalSwagger}}
	result, output, err := handleCompile(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, "Test API", output.Title)
	assert.Equal(t, "1.0.0", output.Version)
	assert.Equal(t, "/v1", output.BasePath)
	assert.Equal(t, 2, output.PathCount)
	assert.Equal(t, 2, output.OperationCount)
	assert.Equal(t, 2, output.ParameterCount)
	assert.Equal(t, 2, output.ResponseCount)
	require.Len(t, output.Paths, 2)
	assert.Equal(t, 2, output.Returned)

	byTemplate := map[string]pathSummary{}
	for _, p := range output.Paths {
		byTemplate[p.Template] = p
	}
	item := byTemplate["/users/{id}"]
	assert.Equal(t, `^/v1/users/([^/]+)$`, item.Regex)
	assert.Equal(t, []string{"id"}, item.Params)
	require.Len(t, item.Operations, 1)
	assert.Equal(t, "get", item.Operations[0].Method)
	assert.Equal(t, []string{"200"}, item.Operations[0].Responses)
	require.Len(t, item.Operations[0].Parameters, 1)
	assert.Equal(t, parameterSummary{Name: "id", In: "path", Type: "integer", Required: true}, item.Operations[0].Parameters[0])

	list := byTemplate["/users"]
	require.Len(t, list.Operations, 1)
	assert.True(t, list.Operations[0].Parameters[0].Coerced, "query parameters are coerced")
}

func TestCompileTool_File(t *testing.T) {
	input := compileInput{Spec: specInput{File: "testdata/petstore.yaml"}, Backend: "jsonschema"}
	_, output, err := handleCompile(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	assert.Equal(t, "Petstore", output.Title)
	assert.Equal(t, "jsonschema", output.Backend)
	assert.Equal(t, 4, output.OperationCount)

	var tags *parameterSummary
	for _, p := range output.Paths {
		for _, op := range p.Operations {
			for i, param := range op.Parameters {
				if param.Name == "tags" {
					tags = &op.Parameters[i]
				}
			}
		}
	}
	require.NotNil(t, tags)
	assert.Equal(t, "pipes", tags.CollectionFormat)
}

func TestCompileTool_SuffixMatching(t *testing.T) {
	on := true
	input := compileInput{Spec: specInput{Content: minimalSwagger}, SuffixMatching: &on}
	_, output, err := handleCompile(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	regexes := make([]string, 0, len(output.Paths))
	for _, p := range output.Paths {
		assert.False(t, strings.HasPrefix(p.Regex, "^"), p.Regex)
		regexes = append(regexes, p.Regex)
	}
	assert.Contains(t, regexes, "/v1/users/([^/]+)$")
}

func TestCompileTool_Pagination(t *testing.T) {
	input := compileInput{Spec: specInput{Content: minimalSwagger}, Offset: 1, Limit: 1}
	_, output, err := handleCompile(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.Equal(t, 2, output.PathCount)
	assert.Equal(t, 1, output.Returned)
	require.Len(t, output.Paths, 1)
}

func TestCompileTool_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input compileInput
	}{
		{"no spec", compileInput{}},
		{"unknown backend", compileInput{Spec: specInput{Content: minimalSwagger}, Backend: "xml"}},
		{"not swagger", compileInput{Spec: specInput{Content: "not: [valid"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, err := handleCompile(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err, "tool errors are reported in the result")
			require.NotNil(t, result)
			assert.True(t, result.IsError)
		})
	}
}
