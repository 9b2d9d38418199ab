package mcpserver

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasmatch/middleware"
)

type responseInput struct {
	Status      int    `json:"status"                 jsonschema:"Response status code"`
	Body        string `json:"body,omitempty"         jsonschema:"Response body"`
	ContentType string `json:"content_type,omitempty" jsonschema:"Response Content-Type (default application/json)"`
}

type checkInput struct {
	Spec           specInput           `json:"spec"                      jsonschema:"The Swagger 2.0 document to check against"`
	Method         string              `json:"method,omitempty"          jsonschema:"HTTP method (default GET)"`
	Path           string              `json:"path"                      jsonschema:"Request path including the base path; may carry a query string"`
	Query          map[string][]string `json:"query,omitempty"           jsonschema:"Query parameters, added to any query string in path"`
	Headers        map[string]string   `json:"headers,omitempty"         jsonschema:"Request headers"`
	Body           string              `json:"body,omitempty"            jsonschema:"Request body"`
	ContentType    string              `json:"content_type,omitempty"    jsonschema:"Request Content-Type (default application/json when a body is given)"`
	Response       *responseInput      `json:"response,omitempty"        jsonschema:"Optional response to validate against the matched operation"`
	SuffixMatching *bool               `json:"suffix_matching,omitempty" jsonschema:"Let templates match after any path prefix instead of only at the start"`
}

type checkOutput struct {
	Valid            bool                 `json:"valid"`
	Status           int                  `json:"status,omitempty"`
	Match            string               `json:"match"`
	Template         string               `json:"template,omitempty"`
	Method           string               `json:"method,omitempty"`
	PathParams       map[string]string    `json:"path_params,omitempty"`
	Problems         []middleware.Problem `json:"problems,omitempty"`
	ResponseValid    *bool                `json:"response_valid,omitempty"`
	ResponseProblems []middleware.Problem `json:"response_problems,omitempty"`
}

func handleCheck(ctx context.Context, _ *mcp.CallToolRequest, input checkInput) (*mcp.CallToolResult, checkOutput, error) {
	spec, err := input.Spec.resolve(settingsFrom("", input.SuffixMatching))
	if err != nil {
		return errResult(err), checkOutput{}, nil
	}

	req, err := input.request(ctx)
	if err != nil {
		return errResult(err), checkOutput{}, nil
	}

	guard := middleware.New(spec.Dispatcher, middleware.WithMaxBodySize(cfg.MaxBodySize))
	result := guard.Check(req)
	output := checkOutput{
		Valid:      result.Valid(),
		Status:     result.Status,
		Match:      result.Match,
		Template:   result.Template,
		Method:     result.Method,
		PathParams: result.PathParams,
		Problems:   result.Problems,
	}

	if input.Response != nil && result.Template != "" && result.Method != "" {
		header := http.Header{}
		header.Set("Content-Type", orDefault(input.Response.ContentType, "application/json"))
		problems := guard.CheckResponse(req, input.Response.Status, header, []byte(input.Response.Body))
		valid := len(problems) == 0
		output.ResponseValid = &valid
		output.ResponseProblems = problems
	}
	return nil, output, nil
}

// request builds the HTTP request described by the input.
func (in checkInput) request(ctx context.Context) (*http.Request, error) {
	if in.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	u, err := url.Parse(in.Path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	if len(in.Query) > 0 {
		q := u.Query()
		for name, values := range in.Query {
			for _, v := range values {
				q.Add(name, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	method := strings.ToUpper(orDefault(in.Method, http.MethodGet))
	req, err := http.NewRequestWithContext(ctx, method, u.String(), strings.NewReader(in.Body))
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	for name, v := range in.Headers {
		req.Header.Set(name, v)
	}
	switch {
	case in.ContentType != "":
		req.Header.Set("Content-Type", in.ContentType)
	case in.Body != "" && req.Header.Get("Content-Type") == "":
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
