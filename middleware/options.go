package middleware

import (
	"net/http"

	"github.com/erraggy/oasmatch/document"
)

// DefaultMaxBodySize is the largest request or response body read for
// validation.
const DefaultMaxBodySize int64 = 10 << 20

// Option configures a Guard.
type Option func(*config)

type config struct {
	validateResponses bool
	strictResponses   bool
	maxBodySize       int64
	logger            document.Logger
	onFailure         FailureHandler
}

// FailureHandler writes the response for a rejected request. The default
// handler writes the Result as JSON.
type FailureHandler func(w http.ResponseWriter, r *http.Request, result *Result)

func defaultConfig() *config {
	return &config{
		maxBodySize: DefaultMaxBodySize,
		logger:      document.NopLogger{},
		onFailure:   WriteResult,
	}
}

// WithResponseValidation buffers responses and validates their bodies
// against the matched operation. Failures are logged.
func WithResponseValidation(enabled bool) Option {
	return func(c *config) {
		c.validateResponses = enabled
	}
}

// WithStrictResponses replaces responses that fail validation with a 500.
// It implies WithResponseValidation(true).
func WithStrictResponses(strict bool) Option {
	return func(c *config) {
		c.strictResponses = strict
		if strict {
			c.validateResponses = true
		}
	}
}

// WithMaxBodySize limits how many bytes of a body are read. Non-positive
// values restore the default.
func WithMaxBodySize(n int64) Option {
	return func(c *config) {
		if n <= 0 {
			n = DefaultMaxBodySize
		}
		c.maxBodySize = n
	}
}

// WithLogger sets the logger.
func WithLogger(l document.Logger) Option {
	return func(c *config) {
		c.logger = document.OrNop(l)
	}
}

// WithFailureHandler overrides how rejected requests are answered.
func WithFailureHandler(h FailureHandler) Option {
	return func(c *config) {
		if h != nil {
			c.onFailure = h
		}
	}
}
