package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasmatch/compiler"
)

type matchInput struct {
	Spec           specInput `json:"spec"                      jsonschema:"The Swagger 2.0 document to match against"`
	Path           string    `json:"path"                      jsonschema:"Request path including the base path, e.g. /api/pets/42. A query string is ignored."`
	Method         string    `json:"method,omitempty"          jsonschema:"Optional HTTP method; reports whether the matched template declares it"`
	SuffixMatching *bool     `json:"suffix_matching,omitempty" jsonschema:"Let templates match after any path prefix instead of only at the start"`
}

type matchOutput struct {
	Outcome    string            `json:"outcome"`
	Template   string            `json:"template,omitempty"`
	Params     map[string]string `json:"params,omitempty"`
	Methods    []string          `json:"methods,omitempty"`
	Declared   *bool             `json:"method_declared,omitempty"`
	Candidates []string          `json:"candidates,omitempty"`
}

func handleMatch(_ context.Context, _ *mcp.CallToolRequest, input matchInput) (*mcp.CallToolResult, matchOutput, error) {
	if input.Path == "" {
		return errResult(fmt.Errorf("path is required")), matchOutput{}, nil
	}
	spec, err := input.Spec.resolve(settingsFrom("", input.SuffixMatching))
	if err != nil {
		return errResult(err), matchOutput{}, nil
	}

	path, _, _ := strings.Cut(input.Path, "?")
	m := spec.Dispatcher.Resolve(path)
	output := matchOutput{Outcome: m.Outcome.String(), Candidates: m.Candidates}
	if m.Outcome != compiler.Matched {
		return nil, output, nil
	}

	output.Template = m.Path.Name
	output.Params = m.Path.Extract(path)
	output.Methods = m.Path.Methods()
	if input.Method != "" {
		_, ok := m.Path.Operation(input.Method)
		output.Declared = &ok
	}
	return nil, output, nil
}
