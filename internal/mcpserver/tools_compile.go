package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasmatch/compiler"
)

type compileInput struct {
	Spec           specInput `json:"spec"                      jsonschema:"The Swagger 2.0 document to compile"`
	Backend        string    `json:"backend,omitempty"         jsonschema:"Schema validator backend: native or jsonschema"`
	SuffixMatching *bool     `json:"suffix_matching,omitempty" jsonschema:"Let templates match after any path prefix instead of only at the start"`
	Offset         int       `json:"offset,omitempty"          jsonschema:"Skip the first N path templates (for pagination)"`
	Limit          int       `json:"limit,omitempty"           jsonschema:"Maximum number of path templates to return (default 100)"`
}

type parameterSummary struct {
	Name             string `json:"name"`
	In               string `json:"in"`
	Type             string `json:"type,omitempty"`
	Required         bool   `json:"required,omitempty"`
	Coerced          bool   `json:"coerced,omitempty"`
	CollectionFormat string `json:"collection_format,omitempty"`
}

type operationSummary struct {
	Method      string             `json:"method"`
	OperationID string             `json:"operation_id,omitempty"`
	Parameters  []parameterSummary `json:"parameters,omitempty"`
	Responses   []string           `json:"responses,omitempty"`
}

type pathSummary struct {
	Template   string             `json:"template"`
	Regex      string             `json:"regex"`
	Params     []string           `json:"params,omitempty"`
	Operations []operationSummary `json:"operations,omitempty"`
}

type compileOutput struct {
	Title          string        `json:"title,omitempty"`
	Version        string        `json:"version,omitempty"`
	BasePath       string        `json:"base_path,omitempty"`
	Backend        string        `json:"backend"`
	PathCount      int           `json:"path_count"`
	OperationCount int           `json:"operation_count"`
	ParameterCount int           `json:"parameter_count"`
	ResponseCount  int           `json:"response_count"`
	Returned       int           `json:"returned"`
	Paths          []pathSummary `json:"paths,omitempty"`
	Warnings       []string      `json:"warnings,omitempty"`
}

func handleCompile(_ context.Context, _ *mcp.CallToolRequest, input compileInput) (*mcp.CallToolResult, compileOutput, error) {
	spec, err := input.Spec.resolve(settingsFrom(input.Backend, input.SuffixMatching))
	if err != nil {
		return errResult(err), compileOutput{}, nil
	}

	d := spec.Dispatcher
	doc := d.Document()
	output := compileOutput{
		Title:    doc.Title(),
		BasePath: d.BasePath(),
		Backend:  d.Backend(),
		Warnings: spec.Result.Warnings,
	}
	if doc.Info != nil {
		output.Version = doc.Info.Version
	}

	paths := d.Paths()
	output.PathCount = len(paths)
	summaries := makeSlice[pathSummary](len(paths))
	for _, cp := range paths {
		summary := pathSummary{
			Template: cp.Name,
			Regex:    cp.Regex.String(),
			Params:   cp.ParamNames(),
		}
		for _, method := range cp.Methods() {
			op := cp.Operations[method]
			output.OperationCount++
			output.ParameterCount += len(op.Parameters)
			output.ResponseCount += len(op.Responses)
			summary.Operations = append(summary.Operations, summarizeOperation(op))
		}
		summaries = append(summaries, summary)
	}

	output.Paths = paginate(summaries, input.Offset, input.Limit)
	output.Returned = len(output.Paths)
	return nil, output, nil
}

func summarizeOperation(op *compiler.CompiledOperation) operationSummary {
	summary := operationSummary{
		Method:     op.Method,
		Parameters: makeSlice[parameterSummary](len(op.Parameters)),
		Responses:  op.ResponseCodes(),
	}
	if op.Operation != nil {
		summary.OperationID = op.Operation.OperationID
	}
	for _, p := range op.Parameters {
		ps := parameterSummary{
			Name:     p.Param.Name,
			In:       p.Param.In,
			Type:     p.Param.Type,
			Required: p.Param.Required,
			Coerced:  p.Coerces(),
		}
		if p.Param.Type == "array" {
			ps.CollectionFormat = p.Format.String()
		}
		summary.Parameters = append(summary.Parameters, ps)
	}
	return summary
}
