package document

import (
	"fmt"
	"io"

	"github.com/erraggy/oasmatch/oaserrors"
)

// Option is a function that configures a parse operation
type Option func(*parseConfig) error

type parseConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	reader   io.Reader
	bytes    []byte

	resolveRefs        bool
	logger             Logger
	maxRefDepth        int
	maxCachedDocuments int
	maxFileSize        int64
	sourceName         *string
}

// ParseWithOptions parses a Swagger 2.0 document using functional options.
//
// Example:
//
//	result, err := document.ParseWithOptions(
//	    document.WithFilePath("swagger.yaml"),
//	    document.WithResolveRefs(true),
//	)
func ParseWithOptions(opts ...Option) (*ParseResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("document: invalid options: %w", err)
	}

	p := &Parser{
		ResolveRefs:        cfg.resolveRefs,
		Logger:             cfg.logger,
		MaxRefDepth:        cfg.maxRefDepth,
		MaxCachedDocuments: cfg.maxCachedDocuments,
		MaxFileSize:        cfg.maxFileSize,
	}

	var result *ParseResult
	switch {
	case cfg.filePath != nil:
		result, err = p.Parse(*cfg.filePath)
	case cfg.reader != nil:
		result, err = p.ParseReader(cfg.reader)
	default:
		result, err = p.ParseBytes(cfg.bytes)
	}
	if err != nil {
		return nil, err
	}
	if cfg.sourceName != nil {
		result.SourcePath = *cfg.sourceName
	}
	return result, nil
}

func applyOptions(opts ...Option) (*parseConfig, error) {
	cfg := &parseConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	sources := 0
	for _, set := range []bool{cfg.filePath != nil, cfg.reader != nil, cfg.bytes != nil} {
		if set {
			sources++
		}
	}
	switch sources {
	case 0:
		return nil, &oaserrors.ConfigError{Option: "source", Message: "must specify an input source (use WithFilePath, WithReader, or WithBytes)"}
	case 1:
		return cfg, nil
	default:
		return nil, &oaserrors.ConfigError{Option: "source", Message: "must specify exactly one input source"}
	}
}

// WithFilePath specifies a file path as the input source
func WithFilePath(path string) Option {
	return func(cfg *parseConfig) error {
		if path == "" {
			return &oaserrors.ConfigError{Option: "file", Message: "path cannot be empty"}
		}
		cfg.filePath = &path
		return nil
	}
}

// WithReader specifies an io.Reader as the input source
func WithReader(r io.Reader) Option {
	return func(cfg *parseConfig) error {
		if r == nil {
			return &oaserrors.ConfigError{Option: "reader", Message: "reader cannot be nil"}
		}
		cfg.reader = r
		return nil
	}
}

// WithBytes specifies a byte slice as the input source
func WithBytes(data []byte) Option {
	return func(cfg *parseConfig) error {
		if data == nil {
			return &oaserrors.ConfigError{Option: "bytes", Message: "bytes cannot be nil"}
		}
		cfg.bytes = data
		return nil
	}
}

// WithResolveRefs enables or disables reference resolution ($ref)
// Default: false
func WithResolveRefs(enabled bool) Option {
	return func(cfg *parseConfig) error {
		cfg.resolveRefs = enabled
		return nil
	}
}

// WithLogger sets a structured logger for debug output during parsing.
func WithLogger(l Logger) Option {
	return func(cfg *parseConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithMaxRefDepth sets the maximum depth for resolving nested $ref pointers.
// A value of 0 means use the default (100).
func WithMaxRefDepth(depth int) Option {
	return func(cfg *parseConfig) error {
		if depth < 0 {
			return &oaserrors.ConfigError{Option: "maxRefDepth", Value: depth, Message: "cannot be negative"}
		}
		cfg.maxRefDepth = depth
		return nil
	}
}

// WithMaxCachedDocuments sets the maximum number of external documents
// loaded during reference resolution. A value of 0 means use the default (100).
func WithMaxCachedDocuments(count int) Option {
	return func(cfg *parseConfig) error {
		if count < 0 {
			return &oaserrors.ConfigError{Option: "maxCachedDocuments", Value: count, Message: "cannot be negative"}
		}
		cfg.maxCachedDocuments = count
		return nil
	}
}

// WithMaxFileSize sets the maximum size in bytes of any file read.
// A value of 0 means use the default (10MB).
func WithMaxFileSize(size int64) Option {
	return func(cfg *parseConfig) error {
		if size < 0 {
			return &oaserrors.ConfigError{Option: "maxFileSize", Value: size, Message: "cannot be negative"}
		}
		cfg.maxFileSize = size
		return nil
	}
}

// WithSourceName overrides ParseResult.SourcePath, which otherwise is the
// file path or ParseBytes/ParseReader with the detected extension.
func WithSourceName(name string) Option {
	return func(cfg *parseConfig) error {
		if name == "" {
			return &oaserrors.ConfigError{Option: "sourceName", Message: "cannot be empty"}
		}
		cfg.sourceName = &name
		return nil
	}
}
