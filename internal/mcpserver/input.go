package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erraggy/oasmatch/compiler"
	"github.com/erraggy/oasmatch/document"
)

// specInput represents the two ways a Swagger 2.0 document can be provided
// to a tool. Exactly one of File or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a Swagger 2.0 file on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline Swagger 2.0 document content (JSON or YAML)"`
}

// compileSettings are the compiler options a tool call may override.
type compileSettings struct {
	Backend        string
	SuffixMatching bool
}

// settingsFrom applies per-call overrides on top of the server defaults.
func settingsFrom(backend string, suffix *bool) compileSettings {
	s := compileSettings{Backend: cfg.Backend, SuffixMatching: cfg.SuffixMatching}
	if backend != "" {
		s.Backend = backend
	}
	if suffix != nil {
		s.SuffixMatching = *suffix
	}
	return s
}

func (s compileSettings) key() string {
	return fmt.Sprintf("backend=%s:suffix=%t", s.Backend, s.SuffixMatching)
}

// compiledSpec is a loaded document together with its dispatcher.
type compiledSpec struct {
	Result     *document.ParseResult
	Dispatcher *compiler.Dispatcher
}

// cacheEntry holds a cached compile result with LRU ordering and TTL expiry.
type cacheEntry struct {
	spec      *compiledSpec
	insertAt  time.Time
	expiresAt time.Time
}

// specCacheStore provides a session-scoped cache for compiled documents.
// File inputs are keyed by (absolutePath, modTime). Content inputs are keyed
// by a SHA-256 hash. Both keys include the compile settings.
// Entries have per-type TTLs and a background sweeper removes expired entries.
type specCacheStore struct {
	mu             sync.Mutex
	entries        map[string]*cacheEntry
	maxSize        int
	sweeperStarted atomic.Bool
}

var specCache = &specCacheStore{
	entries: make(map[string]*cacheEntry),
	maxSize: cfg.CacheMaxSize,
}

// get returns a cached result or nil. Expired entries are lazily removed.
func (c *specCacheStore) get(key string) *compiledSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
			delete(c.entries, key)
			return nil
		}
		// Touch entry for LRU.
		e.insertAt = time.Now()
		return e.spec
	}
	return nil
}

// putWithTTL stores a result with a specific TTL, evicting the least recently
// used entry if at capacity.
func (c *specCacheStore) putWithTTL(key string, spec *compiledSpec, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := &cacheEntry{spec: spec, insertAt: now, expiresAt: now.Add(ttl)}

	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry
		return
	}

	if len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldestTime time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.insertAt.Before(oldestTime) {
				oldestKey = k
				oldestTime = e.insertAt
			}
		}
		if oldestKey != "" {
			delete(c.entries, oldestKey)
		}
	}

	c.entries[key] = entry
}

// sweep removes all expired entries from the cache.
func (c *specCacheStore) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// startSweeper launches a background goroutine that periodically removes
// expired entries. Only the first call spawns a sweeper. It stops when ctx
// is cancelled.
func (c *specCacheStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	if !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// reset clears all cached entries. Used in tests.
func (c *specCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// size returns the number of cached entries.
func (c *specCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// makeCacheKey creates a cache key for the given spec input, or "" when the
// input cannot be cached.
func makeCacheKey(s specInput, settings compileSettings) string {
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("file:%s:%d:%s", absPath, info.ModTime().UnixNano(), settings.key())
	case s.Content != "":
		h := sha256.Sum256([]byte(s.Content))
		return fmt.Sprintf("content:%s:%s", hex.EncodeToString(h[:]), settings.key())
	default:
		return ""
	}
}

// resolve loads and compiles the document, using the cache when enabled.
func (s specInput) resolve(settings compileSettings) (*compiledSpec, error) {
	if (s.File == "") == (s.Content == "") {
		return nil, fmt.Errorf("exactly one of file or content must be provided")
	}

	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set OASMATCH_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}

	var key string
	ttl := cfg.CacheContentTTL
	if cfg.CacheEnabled {
		key = makeCacheKey(s, settings)
		if s.File != "" {
			ttl = cfg.CacheFileTTL
		}
	}

	if key != "" {
		if cached := specCache.get(key); cached != nil {
			return cached, nil
		}
	}

	logger := document.NewSlogAdapter(slog.Default())
	opts := []document.Option{
		document.WithResolveRefs(true),
		document.WithLogger(logger),
	}
	if s.File != "" {
		opts = append(opts, document.WithFilePath(s.File))
	} else {
		opts = append(opts, document.WithBytes([]byte(s.Content)), document.WithSourceName("content"))
	}

	result, err := document.ParseWithOptions(opts...)
	if err != nil {
		return nil, err
	}

	d, err := compiler.CompileWithOptions(result.Document,
		compiler.WithBackend(settings.Backend),
		compiler.WithSuffixMatching(settings.SuffixMatching),
		compiler.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	spec := &compiledSpec{Result: result, Dispatcher: d}
	if key != "" {
		specCache.putWithTTL(key, spec, ttl)
	}
	return spec, nil
}
