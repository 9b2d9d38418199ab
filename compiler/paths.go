package compiler

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/erraggy/oasmatch/document"
)

// CompiledPath is a path template prepared for matching.
type CompiledPath struct {
	// Name is the original template, e.g. "/users/{id}".
	Name string

	// Path is the document's PathItem for the template. It is shared, not
	// copied.
	Path *document.PathItem

	// Regex matches concrete request paths, base path included.
	Regex *regexp.Regexp

	// Expected holds the template's non-empty "/"-separated tokens in order,
	// e.g. ["users", "{id}"].
	Expected []string

	// Operations holds the compiled validators keyed by lowercase method.
	Operations map[string]*CompiledOperation

	// paramNames are the template parameter names in capture-group order
	paramNames []string
}

// CompilePath builds the matcher for one template under basePath. A trailing
// "/" on basePath is dropped. Unless suffix is set the pattern is anchored at
// both ends.
func CompilePath(basePath, template string, suffix bool) (*CompiledPath, error) {
	if template == "" {
		return nil, fmt.Errorf("path template cannot be empty")
	}

	var regexBuf strings.Builder
	if !suffix {
		regexBuf.WriteString("^")
	}
	regexBuf.WriteString(regexp.QuoteMeta(strings.TrimSuffix(basePath, "/")))

	paramNames := []string{}
	i := 0
	for i < len(template) {
		switch template[i] {
		case '{':
			end := strings.IndexByte(template[i:], '}')
			if end == -1 {
				return nil, fmt.Errorf("unclosed path parameter at position %d in template %q", i, template)
			}
			name := template[i+1 : i+end]
			if name == "" {
				return nil, fmt.Errorf("empty path parameter at position %d in template %q", i, template)
			}
			for _, existing := range paramNames {
				if existing == name {
					return nil, fmt.Errorf("duplicate path parameter %q in template %q", name, template)
				}
			}
			paramNames = append(paramNames, name)

			// one or more characters of a single segment
			regexBuf.WriteString("([^/]+)")
			i += end + 1
		case '}':
			return nil, fmt.Errorf("unexpected '}' at position %d in template %q", i, template)
		default:
			regexBuf.WriteString(regexp.QuoteMeta(template[i : i+1]))
			i++
		}
	}
	regexBuf.WriteString("$")

	regex, err := regexp.Compile(regexBuf.String())
	if err != nil {
		return nil, fmt.Errorf("failed to compile path pattern for template %q: %w", template, err)
	}

	return &CompiledPath{
		Name:       template,
		Regex:      regex,
		Expected:   expectedTokens(template),
		paramNames: paramNames,
	}, nil
}

func expectedTokens(template string) []string {
	var out []string
	for _, tok := range strings.Split(template, "/") {
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// Matches reports whether the concrete path matches the template.
func (cp *CompiledPath) Matches(path string) bool {
	return cp.Regex.MatchString(path)
}

// Extract returns the path parameter values of path keyed by name, or nil
// when path does not match.
func (cp *CompiledPath) Extract(path string) map[string]string {
	matches := cp.Regex.FindStringSubmatch(path)
	if matches == nil || len(matches) != len(cp.paramNames)+1 {
		return nil
	}
	params := make(map[string]string, len(cp.paramNames))
	for i, name := range cp.paramNames {
		params[name] = matches[i+1]
	}
	return params
}

// ParamNames returns the template parameter names in order of appearance.
func (cp *CompiledPath) ParamNames() []string {
	return slices.Clone(cp.paramNames)
}

// Operation returns the compiled operation for method, case-insensitively.
func (cp *CompiledPath) Operation(method string) (*CompiledOperation, bool) {
	op, ok := cp.Operations[strings.ToLower(method)]
	return op, ok
}

// Methods returns the compiled operation methods, sorted.
func (cp *CompiledPath) Methods() []string {
	methods := make([]string, 0, len(cp.Operations))
	for m := range cp.Operations {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}
