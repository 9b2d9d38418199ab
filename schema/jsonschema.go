package schema

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	gojson "github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/erraggy/oasmatch/document"
	"github.com/erraggy/oasmatch/value"
)

// JSONSchemaGenerator renders fragments as draft-4 JSON Schema documents and
// validates with github.com/santhosh-tekuri/jsonschema/v5.
type JSONSchemaGenerator struct {
	seq atomic.Uint64
}

// NewJSONSchemaGenerator returns the jsonschema backend.
func NewJSONSchemaGenerator() *JSONSchemaGenerator {
	return &JSONSchemaGenerator{}
}

// Name implements Generator.
func (*JSONSchemaGenerator) Name() string { return BackendJSONSchema }

// Generate implements Generator.
func (g *JSONSchemaGenerator) Generate(s *document.Schema) (Predicate, error) {
	c, err := g.Compile(s)
	if err != nil {
		return nil, err
	}
	return predicateOf(c), nil
}

// Compile implements Generator.
func (g *JSONSchemaGenerator) Compile(s *document.Schema) (Compiled, error) {
	rendered, err := Render(s)
	if err != nil {
		return nil, err
	}
	data, err := gojson.Marshal(rendered)
	if err != nil {
		return nil, fmt.Errorf("schema: failed to encode fragment: %w", err)
	}

	url := fmt.Sprintf("mem://oasmatch/fragment-%d.json", g.seq.Add(1))
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft4
	if err := c.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("schema: failed to load fragment: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("schema: failed to compile fragment: %w", err)
	}
	return &jsonSchemaCompiled{schema: compiled}, nil
}

type jsonSchemaCompiled struct {
	schema *jsonschema.Schema
}

// Violations implements Compiled.
func (c *jsonSchemaCompiled) Violations(v value.Value) []Violation {
	err := c.schema.Validate(v.Any())
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return []Violation{{Path: "$", Message: err.Error()}}
	}
	var out []Violation
	collectLeaves(verr, &out)
	return out
}

func collectLeaves(e *jsonschema.ValidationError, out *[]Violation) {
	if len(e.Causes) == 0 {
		*out = append(*out, Violation{Path: pointerToPath(e.InstanceLocation), Message: e.Message})
		return
	}
	for _, cause := range e.Causes {
		collectLeaves(cause, out)
	}
}

// pointerToPath converts a JSON pointer ("/items/0/name") to the "$.items[0].name"
// notation used by the native backend.
func pointerToPath(ptr string) string {
	if ptr == "" || ptr == "/" {
		return "$"
	}
	var buf bytes.Buffer
	buf.WriteString("$")
	start := 1
	for i := 1; i <= len(ptr); i++ {
		if i < len(ptr) && ptr[i] != '/' {
			continue
		}
		tok := unescapePointer(ptr[start:i])
		if isIndex(tok) {
			buf.WriteString("[" + tok + "]")
		} else {
			buf.WriteString("." + tok)
		}
		start = i + 1
	}
	return buf.String()
}

func unescapePointer(tok string) string {
	var buf bytes.Buffer
	for i := 0; i < len(tok); i++ {
		if tok[i] == '~' && i+1 < len(tok) {
			switch tok[i+1] {
			case '1':
				buf.WriteByte('/')
				i++
				continue
			case '0':
				buf.WriteByte('~')
				i++
				continue
			}
		}
		buf.WriteByte(tok[i])
	}
	return buf.String()
}

func isIndex(tok string) bool {
	if tok == "" {
		return false
	}
	for i := 0; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return false
		}
	}
	return true
}

// Render converts s into a draft-4 JSON Schema document. x-nullable becomes a
// ["T", "null"] type union. OAS-only keys (discriminator, readOnly, example,
// the file type and extensions) are dropped, and so is format: draft-4
// validators assert formats, while oasmatch only reports them as warnings.
func Render(s *document.Schema) (map[string]any, error) {
	if s == nil {
		return map[string]any{}, nil
	}
	if s.Ref != "" {
		return nil, fmt.Errorf("schema: unresolved reference %q", s.Ref)
	}

	out := map[string]any{}
	switch {
	case s.Type == "" || s.Type == "file":
	case s.Nullable:
		out["type"] = []any{s.Type, "null"}
	default:
		out["type"] = s.Type
	}
	if len(s.Enum) > 0 {
		enum := make([]any, 0, len(s.Enum)+1)
		for _, e := range s.Enum {
			enum = append(enum, value.FromAny(e).Any())
		}
		if s.Nullable {
			enum = append(enum, nil)
		}
		out["enum"] = enum
	}
	if s.MultipleOf != nil {
		out["multipleOf"] = *s.MultipleOf
	}
	if s.Maximum != nil {
		out["maximum"] = *s.Maximum
		if s.ExclusiveMaximum {
			out["exclusiveMaximum"] = true
		}
	}
	if s.Minimum != nil {
		out["minimum"] = *s.Minimum
		if s.ExclusiveMinimum {
			out["exclusiveMinimum"] = true
		}
	}
	setInt(out, "maxLength", s.MaxLength)
	setInt(out, "minLength", s.MinLength)
	if s.Pattern != "" {
		out["pattern"] = s.Pattern
	}
	setInt(out, "maxItems", s.MaxItems)
	setInt(out, "minItems", s.MinItems)
	if s.UniqueItems {
		out["uniqueItems"] = true
	}
	setInt(out, "maxProperties", s.MaxProperties)
	setInt(out, "minProperties", s.MinProperties)

	if s.Items != nil {
		items, err := Render(s.Items)
		if err != nil {
			return nil, err
		}
		out["items"] = items
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			r, err := Render(prop)
			if err != nil {
				return nil, err
			}
			props[name] = r
		}
		out["properties"] = props
	}
	if len(s.Required) > 0 {
		req := append([]string(nil), s.Required...)
		sort.Strings(req)
		out["required"] = req
	}
	if ap := s.AdditionalProperties; ap != nil {
		if ap.Schema != nil {
			r, err := Render(ap.Schema)
			if err != nil {
				return nil, err
			}
			out["additionalProperties"] = r
		} else {
			out["additionalProperties"] = ap.Allowed
		}
	}
	for key, list := range map[string][]*document.Schema{"allOf": s.AllOf, "anyOf": s.AnyOf, "oneOf": s.OneOf} {
		if len(list) == 0 {
			continue
		}
		rendered := make([]any, len(list))
		for i, sub := range list {
			r, err := Render(sub)
			if err != nil {
				return nil, err
			}
			rendered[i] = r
		}
		out[key] = rendered
	}
	return out, nil
}

func setInt(out map[string]any, key string, v *int) {
	if v != nil {
		out[key] = *v
	}
}
