package document

// Parameter locations.
const (
	InQuery    = "query"
	InHeader   = "header"
	InPath     = "path"
	InBody     = "body"
	InFormData = "formData"
)

// Parameter describes a single operation parameter.
//
// Body parameters carry their type in Schema; every other location uses the
// inline OAS 2.0 type fields.
type Parameter struct {
	Ref         string  `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Name        string  `yaml:"name,omitempty" json:"name,omitempty"`
	In          string  `yaml:"in,omitempty" json:"in,omitempty"` // "query", "header", "path", "formData", "body"
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool    `yaml:"required,omitempty" json:"required,omitempty"`
	Schema      *Schema `yaml:"schema,omitempty" json:"schema,omitempty"` // body only

	Type             string   `yaml:"type,omitempty" json:"type,omitempty"`
	Format           string   `yaml:"format,omitempty" json:"format,omitempty"`
	AllowEmptyValue  bool     `yaml:"allowEmptyValue,omitempty" json:"allowEmptyValue,omitempty"`
	Items            *Items   `yaml:"items,omitempty" json:"items,omitempty"`
	CollectionFormat string   `yaml:"collectionFormat,omitempty" json:"collectionFormat,omitempty"`
	Default          any      `yaml:"default,omitempty" json:"default,omitempty"`
	Maximum          *float64 `yaml:"maximum,omitempty" json:"maximum,omitempty"`
	ExclusiveMaximum bool     `yaml:"exclusiveMaximum,omitempty" json:"exclusiveMaximum,omitempty"`
	Minimum          *float64 `yaml:"minimum,omitempty" json:"minimum,omitempty"`
	ExclusiveMinimum bool     `yaml:"exclusiveMinimum,omitempty" json:"exclusiveMinimum,omitempty"`
	MaxLength        *int     `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	MinLength        *int     `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	Pattern          string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	MaxItems         *int     `yaml:"maxItems,omitempty" json:"maxItems,omitempty"`
	MinItems         *int     `yaml:"minItems,omitempty" json:"minItems,omitempty"`
	UniqueItems      bool     `yaml:"uniqueItems,omitempty" json:"uniqueItems,omitempty"`
	Enum             []any    `yaml:"enum,omitempty" json:"enum,omitempty"`
	MultipleOf       *float64 `yaml:"multipleOf,omitempty" json:"multipleOf,omitempty"`

	Extra map[string]any `yaml:",inline" json:"-"`
}

// Items describes the element type of an array parameter (OAS 2.0)
type Items struct {
	Type             string         `yaml:"type" json:"type"`
	Format           string         `yaml:"format,omitempty" json:"format,omitempty"`
	Items            *Items         `yaml:"items,omitempty" json:"items,omitempty"`
	CollectionFormat string         `yaml:"collectionFormat,omitempty" json:"collectionFormat,omitempty"`
	Default          any            `yaml:"default,omitempty" json:"default,omitempty"`
	Maximum          *float64       `yaml:"maximum,omitempty" json:"maximum,omitempty"`
	ExclusiveMaximum bool           `yaml:"exclusiveMaximum,omitempty" json:"exclusiveMaximum,omitempty"`
	Minimum          *float64       `yaml:"minimum,omitempty" json:"minimum,omitempty"`
	ExclusiveMinimum bool           `yaml:"exclusiveMinimum,omitempty" json:"exclusiveMinimum,omitempty"`
	MaxLength        *int           `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	MinLength        *int           `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	Pattern          string         `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	MaxItems         *int           `yaml:"maxItems,omitempty" json:"maxItems,omitempty"`
	MinItems         *int           `yaml:"minItems,omitempty" json:"minItems,omitempty"`
	UniqueItems      bool           `yaml:"uniqueItems,omitempty" json:"uniqueItems,omitempty"`
	Enum             []any          `yaml:"enum,omitempty" json:"enum,omitempty"`
	MultipleOf       *float64       `yaml:"multipleOf,omitempty" json:"multipleOf,omitempty"`
	Extra            map[string]any `yaml:",inline" json:"-"`
}

// Key returns "in.name", the identity of a parameter within an operation.
func (p *Parameter) Key() string {
	return p.In + "." + p.Name
}

// Collection returns the declared collection format, "" when none is set.
func (p *Parameter) Collection() string {
	return p.CollectionFormat
}

// Fragment returns the schema the parameter's values are validated against:
// the nested Schema when present, otherwise a Schema synthesized from the
// inline type fields.
func (p *Parameter) Fragment() *Schema {
	if p.Schema != nil {
		return p.Schema
	}
	return &Schema{
		Type:             p.Type,
		Format:           p.Format,
		Items:            p.Items.Schema(),
		Enum:             p.Enum,
		Default:          p.Default,
		Maximum:          p.Maximum,
		ExclusiveMaximum: p.ExclusiveMaximum,
		Minimum:          p.Minimum,
		ExclusiveMinimum: p.ExclusiveMinimum,
		MaxLength:        p.MaxLength,
		MinLength:        p.MinLength,
		Pattern:          p.Pattern,
		MaxItems:         p.MaxItems,
		MinItems:         p.MinItems,
		UniqueItems:      p.UniqueItems,
		MultipleOf:       p.MultipleOf,
	}
}

// Schema converts an Items object into the equivalent Schema. A nil Items
// yields nil.
func (it *Items) Schema() *Schema {
	if it == nil {
		return nil
	}
	return &Schema{
		Type:             it.Type,
		Format:           it.Format,
		Items:            it.Items.Schema(),
		Enum:             it.Enum,
		Default:          it.Default,
		Maximum:          it.Maximum,
		ExclusiveMaximum: it.ExclusiveMaximum,
		Minimum:          it.Minimum,
		ExclusiveMinimum: it.ExclusiveMinimum,
		MaxLength:        it.MaxLength,
		MinLength:        it.MinLength,
		Pattern:          it.Pattern,
		MaxItems:         it.MaxItems,
		MinItems:         it.MinItems,
		UniqueItems:      it.UniqueItems,
		MultipleOf:       it.MultipleOf,
	}
}
