package schema

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/erraggy/oasmatch/document"
	"github.com/erraggy/oasmatch/value"
)

// NativeGenerator validates the OAS 2.0 JSON Schema subset directly over
// value.Value trees.
type NativeGenerator struct{}

// NewGenerator returns the native generator.
func NewGenerator() *NativeGenerator {
	return &NativeGenerator{}
}

// Name implements Generator.
func (*NativeGenerator) Name() string { return BackendNative }

// Generate implements Generator.
func (g *NativeGenerator) Generate(s *document.Schema) (Predicate, error) {
	c, err := g.Compile(s)
	if err != nil {
		return nil, err
	}
	return predicateOf(c), nil
}

// Compile implements Generator. A nil schema accepts every value.
func (g *NativeGenerator) Compile(s *document.Schema) (Compiled, error) {
	n, err := compileNode(s, "$")
	if err != nil {
		return nil, err
	}
	return n, nil
}

// node is a schema with its regular expressions and enum values prepared.
type node struct {
	s          *document.Schema
	pattern    *regexp.Regexp
	enum       []value.Value
	items      *node
	properties map[string]*node
	additional *node
	allOf      []*node
	anyOf      []*node
	oneOf      []*node
}

func compileNode(s *document.Schema, loc string) (*node, error) {
	if s == nil {
		return &node{s: &document.Schema{}}, nil
	}
	if s.Ref != "" {
		return nil, fmt.Errorf("schema at %s: unresolved reference %q", loc, s.Ref)
	}

	n := &node{s: s}
	var err error
	if s.Pattern != "" {
		if n.pattern, err = regexp.Compile(s.Pattern); err != nil {
			return nil, fmt.Errorf("schema at %s: invalid pattern %q: %w", loc, s.Pattern, err)
		}
	}
	for _, e := range s.Enum {
		n.enum = append(n.enum, value.FromAny(e))
	}
	if s.Items != nil {
		if n.items, err = compileNode(s.Items, loc+".items"); err != nil {
			return nil, err
		}
	}
	if len(s.Properties) > 0 {
		n.properties = make(map[string]*node, len(s.Properties))
		for name, prop := range s.Properties {
			if n.properties[name], err = compileNode(prop, loc+".properties."+name); err != nil {
				return nil, err
			}
		}
	}
	if ap := s.AdditionalProperties; ap != nil && ap.Schema != nil {
		if n.additional, err = compileNode(ap.Schema, loc+".additionalProperties"); err != nil {
			return nil, err
		}
	}
	if n.allOf, err = compileList(s.AllOf, loc+".allOf"); err != nil {
		return nil, err
	}
	if n.anyOf, err = compileList(s.AnyOf, loc+".anyOf"); err != nil {
		return nil, err
	}
	if n.oneOf, err = compileList(s.OneOf, loc+".oneOf"); err != nil {
		return nil, err
	}
	return n, nil
}

func compileList(list []*document.Schema, loc string) ([]*node, error) {
	if len(list) == 0 {
		return nil, nil
	}
	out := make([]*node, len(list))
	for i, s := range list {
		n, err := compileNode(s, fmt.Sprintf("%s[%d]", loc, i))
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// Violations implements Compiled.
func (n *node) Violations(v value.Value) []Violation {
	var out []Violation
	n.validate(v, "$", &out)
	return out
}

func (n *node) fail(out *[]Violation, path, format string, args ...any) {
	*out = append(*out, Violation{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (n *node) validate(v value.Value, path string, out *[]Violation) {
	s := n.s

	if v.IsAbsent() || v.IsNull() {
		if s.Nullable {
			return
		}
		if s.Type != "" && s.Type != "null" && s.Type != "file" {
			n.fail(out, path, "value cannot be null")
			return
		}
		v = value.Null()
	}

	if !n.typeMatches(v) {
		if s.Type == "integer" && v.Kind() == value.KindNumber {
			n.fail(out, path, "value must be an integer, got %s", v)
		} else {
			n.fail(out, path, "expected type %s but got %s", s.Type, v.Kind())
		}
		return
	}

	switch v.Kind() {
	case value.KindString:
		str, _ := v.AsString()
		n.validateString(str, path, out)
	case value.KindNumber:
		num, _ := v.AsNumber()
		n.validateNumber(num, path, out)
	case value.KindArray:
		n.validateArray(v.Items(), path, out)
	case value.KindObject:
		n.validateObject(v, path, out)
	}

	if len(n.enum) > 0 {
		n.validateEnum(v, path, out)
	}
	n.validateComposition(v, path, out)
}

func (n *node) typeMatches(v value.Value) bool {
	switch n.s.Type {
	case "":
		return true
	case "file":
		return true
	case "integer":
		return v.IsInteger()
	case "number":
		return v.Kind() == value.KindNumber
	case "string":
		return v.Kind() == value.KindString
	case "boolean":
		return v.Kind() == value.KindBool
	case "array":
		return v.Kind() == value.KindArray
	case "object":
		return v.Kind() == value.KindObject
	case "null":
		return v.Kind() == value.KindNull
	}
	// unknown types are not enforced
	return true
}

func (n *node) validateString(str, path string, out *[]Violation) {
	s := n.s
	length := utf8.RuneCountInString(str)
	if s.MinLength != nil && length < *s.MinLength {
		n.fail(out, path, "string length %d is less than minimum %d", length, *s.MinLength)
	}
	if s.MaxLength != nil && length > *s.MaxLength {
		n.fail(out, path, "string length %d exceeds maximum %d", length, *s.MaxLength)
	}
	if n.pattern != nil && !n.pattern.MatchString(str) {
		n.fail(out, path, "string does not match pattern %q", s.Pattern)
	}
	if s.Format != "" {
		if msg := checkFormat(s.Format, str); msg != "" {
			*out = append(*out, Violation{Path: path, Message: msg, Warning: true})
		}
	}
}

func (n *node) validateNumber(num float64, path string, out *[]Violation) {
	s := n.s
	if s.Minimum != nil {
		if s.ExclusiveMinimum && num <= *s.Minimum {
			n.fail(out, path, "value %v must be greater than %v", num, *s.Minimum)
		} else if !s.ExclusiveMinimum && num < *s.Minimum {
			n.fail(out, path, "value %v is less than minimum %v", num, *s.Minimum)
		}
	}
	if s.Maximum != nil {
		if s.ExclusiveMaximum && num >= *s.Maximum {
			n.fail(out, path, "value %v must be less than %v", num, *s.Maximum)
		} else if !s.ExclusiveMaximum && num > *s.Maximum {
			n.fail(out, path, "value %v exceeds maximum %v", num, *s.Maximum)
		}
	}
	if s.MultipleOf != nil && *s.MultipleOf > 0 {
		q := num / *s.MultipleOf
		if math.Abs(q-math.Round(q)) > 1e-9 {
			n.fail(out, path, "value %v is not a multiple of %v", num, *s.MultipleOf)
		}
	}
}

func (n *node) validateArray(items []value.Value, path string, out *[]Violation) {
	s := n.s
	if s.MinItems != nil && len(items) < *s.MinItems {
		n.fail(out, path, "array has %d items, minimum is %d", len(items), *s.MinItems)
	}
	if s.MaxItems != nil && len(items) > *s.MaxItems {
		n.fail(out, path, "array has %d items, maximum is %d", len(items), *s.MaxItems)
	}
	if s.UniqueItems && hasDuplicates(items) {
		n.fail(out, path, "array items must be unique")
	}
	if n.items != nil {
		for i, item := range items {
			n.items.validate(item, fmt.Sprintf("%s[%d]", path, i), out)
		}
	}
}

func (n *node) validateObject(obj value.Value, path string, out *[]Violation) {
	s := n.s
	fields := obj.Fields()
	for _, req := range s.Required {
		if _, ok := fields[req]; !ok {
			n.fail(out, path+"."+req, "required property %q is missing", req)
		}
	}
	if s.MinProperties != nil && len(fields) < *s.MinProperties {
		n.fail(out, path, "object has %d properties, minimum is %d", len(fields), *s.MinProperties)
	}
	if s.MaxProperties != nil && len(fields) > *s.MaxProperties {
		n.fail(out, path, "object has %d properties, maximum is %d", len(fields), *s.MaxProperties)
	}

	// sorted for stable violation order
	for _, name := range obj.Keys() {
		field := fields[name]
		if prop, ok := n.properties[name]; ok {
			prop.validate(field, path+"."+name, out)
			continue
		}
		switch {
		case n.additional != nil:
			n.additional.validate(field, path+"."+name, out)
		case s.AdditionalProperties != nil && !s.AdditionalProperties.Allowed:
			n.fail(out, path+"."+name, "additional property %q is not allowed", name)
		}
	}
}

func (n *node) validateEnum(v value.Value, path string, out *[]Violation) {
	for _, allowed := range n.enum {
		if allowed.Equal(v) {
			return
		}
	}
	n.fail(out, path, "value %s is not one of the allowed values", v)
}

func (n *node) validateComposition(v value.Value, path string, out *[]Violation) {
	for i, sub := range n.allOf {
		var subOut []Violation
		sub.validate(v, path, &subOut)
		if !Valid(subOut) {
			n.fail(out, path, "allOf[%d] validation failed", i)
		}
		*out = append(*out, subOut...)
	}

	if len(n.anyOf) > 0 {
		matched := false
		for _, sub := range n.anyOf {
			var subOut []Violation
			sub.validate(v, path, &subOut)
			if Valid(subOut) {
				matched = true
				break
			}
		}
		if !matched {
			n.fail(out, path, "value does not match any of the anyOf schemas")
		}
	}

	if len(n.oneOf) > 0 {
		count := 0
		for _, sub := range n.oneOf {
			var subOut []Violation
			sub.validate(v, path, &subOut)
			if Valid(subOut) {
				count++
			}
		}
		switch {
		case count == 0:
			n.fail(out, path, "value does not match any of the oneOf schemas")
		case count > 1:
			n.fail(out, path, "value matches %d oneOf schemas, expected exactly 1", count)
		}
	}
}

func hasDuplicates(items []value.Value) bool {
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if items[i].Equal(items[j]) {
				return true
			}
		}
	}
	return false
}

// Describe returns a short summary of s such as "{type=array}".
func Describe(s *document.Schema) string {
	if s == nil {
		return "{}"
	}
	var parts []string
	if s.Type != "" {
		parts = append(parts, "type="+s.Type)
	}
	if s.Format != "" {
		parts = append(parts, "format="+s.Format)
	}
	if len(s.Properties) > 0 {
		names := make([]string, 0, len(s.Properties))
		for k := range s.Properties {
			names = append(names, k)
		}
		sort.Strings(names)
		parts = append(parts, "properties="+strings.Join(names, ","))
	}
	if s.Nullable {
		parts = append(parts, "nullable")
	}
	return "{" + strings.Join(parts, " ") + "}"
}
