package schema

import (
	"fmt"
	"strings"

	"github.com/erraggy/oasmatch/document"
	"github.com/erraggy/oasmatch/oaserrors"
	"github.com/erraggy/oasmatch/value"
)

// Predicate reports whether a value is valid.
type Predicate func(value.Value) bool

// Violation describes one way a value failed a schema.
type Violation struct {
	// Path locates the offending value, "$" for the root.
	Path string `json:"path"`
	// Message is a human-readable description.
	Message string `json:"message"`
	// Warning marks advisory findings (format checks) that do not fail
	// validation.
	Warning bool `json:"warning,omitempty"`
}

func (v Violation) String() string {
	if v.Warning {
		return fmt.Sprintf("%s: %s (warning)", v.Path, v.Message)
	}
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Compiled is a schema prepared for repeated validation.
type Compiled interface {
	// Violations returns every violation of v, warnings included.
	Violations(v value.Value) []Violation
}

// Generator builds validators from schema fragments.
type Generator interface {
	// Name identifies the backend ("native" or "jsonschema").
	Name() string
	// Compile prepares s for validation.
	Compile(s *document.Schema) (Compiled, error)
	// Generate returns a predicate that accepts the values s accepts.
	Generate(s *document.Schema) (Predicate, error)
}

// Backend names accepted by New.
const (
	BackendNative     = "native"
	BackendJSONSchema = "jsonschema"
)

// New returns the generator registered under name. An empty name selects
// the native backend.
func New(name string) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendNative:
		return NewGenerator(), nil
	case BackendJSONSchema, "json-schema":
		return NewJSONSchemaGenerator(), nil
	default:
		return nil, &oaserrors.ConfigError{
			Option:  "backend",
			Value:   name,
			Message: "unknown schema backend (want native or jsonschema)",
		}
	}
}

// Valid reports whether violations contains no errors; warnings are ignored.
func Valid(violations []Violation) bool {
	for _, v := range violations {
		if !v.Warning {
			return false
		}
	}
	return true
}

// Validate checks v against s with the native backend and returns every
// violation. A schema that cannot be compiled is reported as a single
// violation at the root.
func Validate(s *document.Schema, v value.Value) []Violation {
	c, err := NewGenerator().Compile(s)
	if err != nil {
		return []Violation{{Path: "$", Message: err.Error()}}
	}
	return c.Violations(v)
}

func predicateOf(c Compiled) Predicate {
	return func(v value.Value) bool {
		return Valid(c.Violations(v))
	}
}
