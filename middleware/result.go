package middleware

import (
	"context"
	"net/http"

	gojson "github.com/goccy/go-json"
)

// Locations reported in problems, besides the parameter locations.
const (
	LocationRoute    = "route"
	LocationBody     = "body"
	LocationResponse = "response"
)

// Problem is one validation failure.
type Problem struct {
	// Location is the parameter location ("query", "header", "path",
	// "body", "formData"), "route" or "response".
	Location string `json:"location"`
	// Name is the parameter name, empty for routing and response problems.
	Name string `json:"name,omitempty"`
	// Path locates the failing value inside the parameter, "$" for the root.
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// Result is the outcome of checking a request.
type Result struct {
	// Status is 0 for an accepted request, otherwise the HTTP status the
	// request is rejected with (404, 405, 400 or 413).
	Status int `json:"status,omitempty"`

	// Match is "matched", "none" or "ambiguous".
	Match string `json:"match"`

	// Template and Method identify the matched operation.
	Template string `json:"template,omitempty"`
	Method   string `json:"method,omitempty"`

	// PathParams holds the raw path segment values.
	PathParams map[string]string `json:"pathParams,omitempty"`

	Problems []Problem `json:"problems,omitempty"`
}

// Valid reports whether the request was accepted.
func (r *Result) Valid() bool {
	return r.Status == 0
}

func (r *Result) add(p Problem) {
	r.Problems = append(r.Problems, p)
}

type resultKey struct{}

func contextWithResult(ctx context.Context, result *Result) context.Context {
	return context.WithValue(ctx, resultKey{}, result)
}

// FromContext returns the Result stored by Guard.Handler for an accepted
// request, or nil.
func FromContext(ctx context.Context) *Result {
	if result, ok := ctx.Value(resultKey{}).(*Result); ok {
		return result
	}
	return nil
}

// WriteResult writes result as a JSON problem document with its status.
// Encoding errors are dropped: the status line has already been sent.
func WriteResult(w http.ResponseWriter, _ *http.Request, result *Result) {
	status := result.Status
	if status == 0 {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]any{
		"error":    http.StatusText(status),
		"match":    result.Match,
		"template": result.Template,
		"problems": result.Problems,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = gojson.NewEncoder(w).Encode(body) //nolint:errcheck // cannot recover after headers are written
}
