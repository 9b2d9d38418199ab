package compiler

import (
	"github.com/erraggy/oasmatch/document"
	"github.com/erraggy/oasmatch/oaserrors"
	"github.com/erraggy/oasmatch/schema"
)

// Option is a functional option for configuring compilation.
type Option func(*config) error

type config struct {
	generator      schema.Generator
	logger         document.Logger
	suffixMatching bool
}

func defaultConfig() *config {
	return &config{
		generator: schema.NewGenerator(),
		logger:    document.NopLogger{},
	}
}

// WithGenerator sets the schema validator generator. Default is the native
// backend.
func WithGenerator(g schema.Generator) Option {
	return func(c *config) error {
		if g == nil {
			return &oaserrors.ConfigError{Option: "WithGenerator", Message: "generator cannot be nil"}
		}
		c.generator = g
		return nil
	}
}

// WithBackend selects a schema generator by name, see schema.New.
func WithBackend(name string) Option {
	return func(c *config) error {
		g, err := schema.New(name)
		if err != nil {
			return err
		}
		c.generator = g
		return nil
	}
}

// WithLogger sets the logger used during compilation.
func WithLogger(l document.Logger) Option {
	return func(c *config) error {
		c.logger = document.OrNop(l)
		return nil
	}
}

// WithSuffixMatching drops the leading anchor from path patterns so that a
// pattern also matches when the request path carries an extra prefix
// (e.g. a gateway mount point). Default is false: patterns match the whole
// path.
func WithSuffixMatching(enabled bool) Option {
	return func(c *config) error {
		c.suffixMatching = enabled
		return nil
	}
}
