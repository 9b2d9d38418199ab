package document

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"
)

// Paths holds the relative paths to the individual endpoints
type Paths map[string]*PathItem

// Templates returns the path templates in sorted order.
func (p Paths) Templates() []string {
	out := make([]string, 0, len(p))
	for k := range p {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// PathItem describes the operations available on a single path
type PathItem struct {
	Ref        string         `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Get        *Operation     `yaml:"get,omitempty" json:"get,omitempty"`
	Put        *Operation     `yaml:"put,omitempty" json:"put,omitempty"`
	Post       *Operation     `yaml:"post,omitempty" json:"post,omitempty"`
	Delete     *Operation     `yaml:"delete,omitempty" json:"delete,omitempty"`
	Options    *Operation     `yaml:"options,omitempty" json:"options,omitempty"`
	Head       *Operation     `yaml:"head,omitempty" json:"head,omitempty"`
	Patch      *Operation     `yaml:"patch,omitempty" json:"patch,omitempty"`
	Parameters []*Parameter   `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Extra      map[string]any `yaml:",inline" json:"-"`
}

// Operations returns the declared operations keyed by lowercase method.
func (p *PathItem) Operations() map[string]*Operation {
	ops := make(map[string]*Operation, 7)
	if p == nil {
		return ops
	}
	for method, op := range map[string]*Operation{
		"get":     p.Get,
		"put":     p.Put,
		"post":    p.Post,
		"delete":  p.Delete,
		"options": p.Options,
		"head":    p.Head,
		"patch":   p.Patch,
	} {
		if op != nil {
			ops[method] = op
		}
	}
	return ops
}

// OperationMethods returns the lowercase methods that carry an operation, sorted.
func (p *PathItem) OperationMethods() []string {
	ops := p.Operations()
	methods := make([]string, 0, len(ops))
	for m := range ops {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}

// Operation describes a single API operation on a path
type Operation struct {
	Tags        []string       `yaml:"tags,omitempty" json:"tags,omitempty"`
	Summary     string         `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	OperationID string         `yaml:"operationId,omitempty" json:"operationId,omitempty"`
	Consumes    []string       `yaml:"consumes,omitempty" json:"consumes,omitempty"`
	Produces    []string       `yaml:"produces,omitempty" json:"produces,omitempty"`
	Parameters  []*Parameter   `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Responses   *Responses     `yaml:"responses,omitempty" json:"responses,omitempty"`
	Deprecated  bool           `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	Extra       map[string]any `yaml:",inline" json:"-"`
}

// Responses is a container for the expected responses of an operation
type Responses struct {
	Default *Response            `yaml:"-" json:"-"`
	Codes   map[string]*Response `yaml:"-" json:"-"`
}

// All returns every declared response keyed by status code or "default".
func (r *Responses) All() map[string]*Response {
	out := make(map[string]*Response)
	if r == nil {
		return out
	}
	for code, resp := range r.Codes {
		out[code] = resp
	}
	if r.Default != nil {
		out["default"] = r.Default
	}
	return out
}

// UnmarshalYAML splits the "default" response from the status code entries
// and rejects keys that are neither.
func (r *Responses) UnmarshalYAML(unmarshal func(any) error) error {
	var raw map[string]any
	if err := unmarshal(&raw); err != nil {
		return err
	}

	r.Codes = make(map[string]*Response)
	for key, val := range raw {
		if strings.HasPrefix(key, "x-") {
			continue
		}
		if key != "default" && !validStatusCode(key) {
			return fmt.Errorf("invalid status code '%s' in responses: must be a 3-digit HTTP status code or \"default\"", key)
		}
		data, err := yaml.Marshal(val)
		if err != nil {
			return fmt.Errorf("failed to marshal response %s: %w", key, err)
		}
		var resp Response
		if err := yaml.Unmarshal(data, &resp); err != nil {
			return fmt.Errorf("failed to unmarshal response %s: %w", key, err)
		}
		if key == "default" {
			r.Default = &resp
		} else {
			r.Codes[key] = &resp
		}
	}
	return nil
}

// MarshalYAML flattens Responses back into a single mapping.
func (r Responses) MarshalYAML() (any, error) {
	return r.All(), nil
}

// MarshalJSON flattens Responses back into a single object.
func (r Responses) MarshalJSON() ([]byte, error) {
	return marshalJSON(r.All())
}

func validStatusCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	n, err := strconv.Atoi(code)
	return err == nil && n >= 100 && n <= 599
}

// Response describes a single response from an API operation
type Response struct {
	Ref         string             `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Description string             `yaml:"description,omitempty" json:"description,omitempty"`
	Schema      *Schema            `yaml:"schema,omitempty" json:"schema,omitempty"`
	Headers     map[string]*Header `yaml:"headers,omitempty" json:"headers,omitempty"`
	Examples    map[string]any     `yaml:"examples,omitempty" json:"examples,omitempty"`
	Extra       map[string]any     `yaml:",inline" json:"-"`
}

// Header describes a response header (OAS 2.0 inline type fields)
type Header struct {
	Description      string `yaml:"description,omitempty" json:"description,omitempty"`
	Type             string `yaml:"type,omitempty" json:"type,omitempty"`
	Format           string `yaml:"format,omitempty" json:"format,omitempty"`
	Items            *Items `yaml:"items,omitempty" json:"items,omitempty"`
	CollectionFormat string `yaml:"collectionFormat,omitempty" json:"collectionFormat,omitempty"`
}
