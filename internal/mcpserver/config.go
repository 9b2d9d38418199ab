package mcpserver

import (
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/erraggy/oasmatch/schema"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from OASMATCH_* environment variables.
type serverConfig struct {
	// Cache settings.
	CacheEnabled       bool          `env:"OASMATCH_CACHE_ENABLED"        envDefault:"true"`
	CacheMaxSize       int           `env:"OASMATCH_CACHE_MAX_SIZE"       envDefault:"10"`
	CacheFileTTL       time.Duration `env:"OASMATCH_CACHE_FILE_TTL"       envDefault:"15m"`
	CacheContentTTL    time.Duration `env:"OASMATCH_CACHE_CONTENT_TTL"    envDefault:"15m"`
	CacheSweepInterval time.Duration `env:"OASMATCH_CACHE_SWEEP_INTERVAL" envDefault:"60s"`

	// Input limits.
	MaxInlineSize int64 `env:"OASMATCH_MAX_INLINE_SIZE" envDefault:"10485760"`
	MaxBodySize   int64 `env:"OASMATCH_MAX_BODY_SIZE"   envDefault:"1048576"`

	// Listing defaults for the compile tool.
	ListLimit int `env:"OASMATCH_LIST_LIMIT" envDefault:"100"`
	MaxLimit  int `env:"OASMATCH_MAX_LIMIT"  envDefault:"1000"`

	// Compiler defaults, overridable per call.
	SuffixMatching bool   `env:"OASMATCH_SUFFIX_MATCHING" envDefault:"false"`
	Backend        string `env:"OASMATCH_SCHEMA_BACKEND"  envDefault:"native"`
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// defaultConfig returns the tag defaults, ignoring the environment.
func defaultConfig() *serverConfig {
	c := &serverConfig{}
	if err := env.ParseWithOptions(c, env.Options{Environment: map[string]string{}}); err != nil {
		panic("mcpserver: invalid config defaults: " + err.Error())
	}
	return c
}

// loadConfig reads configuration from OASMATCH_* environment variables.
func loadConfig() *serverConfig {
	return loadConfigFrom(env.ToMap(os.Environ()))
}

// loadConfigFrom reads configuration from environ. A value that does not
// parse, or is out of range, falls back to its default; the other values
// are kept.
func loadConfigFrom(environ map[string]string) *serverConfig {
	def := defaultConfig()
	params, err := env.GetFieldParams(&serverConfig{})
	if err != nil {
		panic("mcpserver: invalid config tags: " + err.Error())
	}

	valid := make(map[string]string, len(params))
	for _, p := range params {
		v, ok := environ[p.Key]
		if !ok {
			continue
		}
		if err := env.ParseWithOptions(&serverConfig{}, env.Options{Environment: map[string]string{p.Key: v}}); err != nil {
			slog.Warn("invalid env var, using default", "key", p.Key, "value", v, "default", p.DefaultValue) //nolint:gosec // G706: values are structured log fields, not format strings
			continue
		}
		valid[p.Key] = v
	}

	c := &serverConfig{}
	if err := env.ParseWithOptions(c, env.Options{Environment: valid}); err != nil {
		slog.Warn("invalid OASMATCH_* environment, using defaults", "error", err)
		return def
	}

	positiveInt(&c.CacheMaxSize, def.CacheMaxSize, "OASMATCH_CACHE_MAX_SIZE")
	positiveInt(&c.ListLimit, def.ListLimit, "OASMATCH_LIST_LIMIT")
	positiveInt(&c.MaxLimit, def.MaxLimit, "OASMATCH_MAX_LIMIT")
	positiveInt64(&c.MaxInlineSize, def.MaxInlineSize, "OASMATCH_MAX_INLINE_SIZE")
	positiveInt64(&c.MaxBodySize, def.MaxBodySize, "OASMATCH_MAX_BODY_SIZE")
	positiveDuration(&c.CacheFileTTL, def.CacheFileTTL, "OASMATCH_CACHE_FILE_TTL")
	positiveDuration(&c.CacheContentTTL, def.CacheContentTTL, "OASMATCH_CACHE_CONTENT_TTL")
	positiveDuration(&c.CacheSweepInterval, def.CacheSweepInterval, "OASMATCH_CACHE_SWEEP_INTERVAL")

	if _, err := schema.New(c.Backend); err != nil {
		slog.Warn("unknown schema backend, using default", "key", "OASMATCH_SCHEMA_BACKEND", "value", c.Backend, "default", def.Backend) //nolint:gosec // G706: values are structured log fields, not format strings
		c.Backend = def.Backend
	}
	return c
}

func positiveInt(v *int, fallback int, key string) {
	if *v <= 0 {
		slog.Warn("non-positive env var, using default", "key", key, "value", *v, "default", fallback)
		*v = fallback
	}
}

func positiveInt64(v *int64, fallback int64, key string) {
	if *v <= 0 {
		slog.Warn("non-positive env var, using default", "key", key, "value", *v, "default", fallback)
		*v = fallback
	}
}

func positiveDuration(v *time.Duration, fallback time.Duration, key string) {
	if *v <= 0 {
		slog.Warn("non-positive env var, using default", "key", key, "value", *v, "default", fallback)
		*v = fallback
	}
}
