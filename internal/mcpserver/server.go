// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes oasmatch compilation and request checking as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasmatch"
)

const serverInstructions = `oasmatch MCP server: compiles Swagger 2.0 documents into path matchers and parameter validators, then matches and checks requests against them.

Tools:
- compile: load a document and list its compiled templates, patterns and validated parameters
- match: find the template a concrete request path addresses
- check: validate a whole request (method, path, query, headers, body) and optionally a response

Configuration: defaults are set with OASMATCH_* environment variables in your MCP client config.

Key settings:
- OASMATCH_SCHEMA_BACKEND (default: native) - schema validator backend, native or jsonschema
- OASMATCH_SUFFIX_MATCHING (default: false) - let templates match anywhere after the start of the path
- OASMATCH_CACHE_ENABLED (default: true) - disable caching of compiled documents
- OASMATCH_CACHE_FILE_TTL (default: 15m) - cache TTL for file inputs
- OASMATCH_LIST_LIMIT (default: 100) - default page size for compile

Caching: compiled documents are cached per session. File entries use path+mtime as key, so edits are picked up. Inline content is keyed by its SHA-256 hash.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		specCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasmatch", Version: oasmatch.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "compile",
		Description: "Compile a Swagger 2.0 document. Returns the base path, the schema backend, entity counts and, per path template, its anchored regular expression and the validated parameters and responses of each operation. Use offset/limit to page through templates. The backend and suffix matching defaults come from OASMATCH_SCHEMA_BACKEND and OASMATCH_SUFFIX_MATCHING.",
	}, handleCompile)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "match",
		Description: "Match a concrete request path (base path included, e.g. /api/pets/42) against the compiled templates of a Swagger 2.0 document. Returns the outcome (matched, none or ambiguous), the matched template, its extracted path parameters and declared methods, or the competing templates when ambiguous.",
	}, handleMatch)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check",
		Description: "Check an HTTP request against a Swagger 2.0 document: route it, then validate every query, header, path, formData and body parameter. Returns the HTTP status the request would be rejected with (0 when accepted) and each problem with its location. Optionally also validates a response status and body for the matched operation.",
	}, handleCheck)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ListLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ListLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
