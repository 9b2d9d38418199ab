package document

import (
	"fmt"

	gojson "github.com/goccy/go-json"
)

// Schema is the OAS 2.0 subset of JSON Schema used by definitions, body
// parameters and responses.
type Schema struct {
	Ref         string `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Type        string `yaml:"type,omitempty" json:"type,omitempty"`
	Format      string `yaml:"format,omitempty" json:"format,omitempty"`
	Default     any    `yaml:"default,omitempty" json:"default,omitempty"`
	Enum        []any  `yaml:"enum,omitempty" json:"enum,omitempty"`
	Example     any    `yaml:"example,omitempty" json:"example,omitempty"`

	// Numeric
	MultipleOf       *float64 `yaml:"multipleOf,omitempty" json:"multipleOf,omitempty"`
	Maximum          *float64 `yaml:"maximum,omitempty" json:"maximum,omitempty"`
	ExclusiveMaximum bool     `yaml:"exclusiveMaximum,omitempty" json:"exclusiveMaximum,omitempty"`
	Minimum          *float64 `yaml:"minimum,omitempty" json:"minimum,omitempty"`
	ExclusiveMinimum bool     `yaml:"exclusiveMinimum,omitempty" json:"exclusiveMinimum,omitempty"`

	// String
	MaxLength *int   `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	MinLength *int   `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	Pattern   string `yaml:"pattern,omitempty" json:"pattern,omitempty"`

	// Array
	Items       *Schema `yaml:"items,omitempty" json:"items,omitempty"`
	MaxItems    *int    `yaml:"maxItems,omitempty" json:"maxItems,omitempty"`
	MinItems    *int    `yaml:"minItems,omitempty" json:"minItems,omitempty"`
	UniqueItems bool    `yaml:"uniqueItems,omitempty" json:"uniqueItems,omitempty"`

	// Object
	Properties           map[string]*Schema `yaml:"properties,omitempty" json:"properties,omitempty"`
	Required             []string           `yaml:"required,omitempty" json:"required,omitempty"`
	AdditionalProperties *SchemaOrBool      `yaml:"additionalProperties,omitempty" json:"additionalProperties,omitempty"`
	MaxProperties        *int               `yaml:"maxProperties,omitempty" json:"maxProperties,omitempty"`
	MinProperties        *int               `yaml:"minProperties,omitempty" json:"minProperties,omitempty"`
	Discriminator        string             `yaml:"discriminator,omitempty" json:"discriminator,omitempty"`
	ReadOnly             bool               `yaml:"readOnly,omitempty" json:"readOnly,omitempty"`

	// Composition
	AllOf []*Schema `yaml:"allOf,omitempty" json:"allOf,omitempty"`
	AnyOf []*Schema `yaml:"anyOf,omitempty" json:"anyOf,omitempty"`
	OneOf []*Schema `yaml:"oneOf,omitempty" json:"oneOf,omitempty"`

	// Nullable is the x-nullable vendor extension.
	Nullable bool `yaml:"x-nullable,omitempty" json:"x-nullable,omitempty"`

	Extra map[string]any `yaml:",inline" json:"-"`
}

// SchemaOrBool holds an additionalProperties value, which is either a
// boolean or a schema.
type SchemaOrBool struct {
	Allowed bool
	Schema  *Schema
}

// UnmarshalYAML accepts either a boolean or a schema mapping.
func (s *SchemaOrBool) UnmarshalYAML(unmarshal func(any) error) error {
	var b bool
	if err := unmarshal(&b); err == nil {
		s.Allowed = b
		s.Schema = nil
		return nil
	}
	var sch Schema
	if err := unmarshal(&sch); err != nil {
		return fmt.Errorf("additionalProperties must be a boolean or a schema: %w", err)
	}
	s.Allowed = true
	s.Schema = &sch
	return nil
}

// MarshalYAML emits the schema when present, the boolean otherwise.
func (s SchemaOrBool) MarshalYAML() (any, error) {
	if s.Schema != nil {
		return s.Schema, nil
	}
	return s.Allowed, nil
}

// MarshalJSON emits the schema when present, the boolean otherwise.
func (s SchemaOrBool) MarshalJSON() ([]byte, error) {
	if s.Schema != nil {
		return marshalJSON(s.Schema)
	}
	return marshalJSON(s.Allowed)
}

func marshalJSON(v any) ([]byte, error) {
	return gojson.Marshal(v)
}
