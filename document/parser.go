package document

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasmatch/oaserrors"
)

// Parser loads Swagger 2.0 documents.
type Parser struct {
	// ResolveRefs replaces every $ref with its target before decoding.
	ResolveRefs bool
	// Logger receives debug output. Nil means no logging.
	Logger Logger
	// MaxRefDepth bounds nested $ref resolution (0 = MaxRefDepth).
	MaxRefDepth int
	// MaxCachedDocuments bounds external documents loaded (0 = MaxCachedDocuments).
	MaxCachedDocuments int
	// MaxFileSize bounds the size of every file read (0 = MaxFileSize).
	MaxFileSize int64
}

// New creates a Parser with default settings.
func New() *Parser {
	return &Parser{}
}

func (p *Parser) log() Logger {
	return OrNop(p.Logger)
}

func (p *Parser) maxFileSize() int64 {
	if p.MaxFileSize > 0 {
		return p.MaxFileSize
	}
	return MaxFileSize
}

// SourceFormat represents the format of the source document
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
)

// ParseResult contains a parsed document and metadata about the load.
//
// Callers should treat the Document as read-only once it has been handed to
// a compiler: compiled dispatchers share its PathItems.
type ParseResult struct {
	Document     *Document
	SourcePath   string
	SourceFormat SourceFormat
	// Warnings are non-fatal findings such as $ref nodes left unresolved.
	Warnings []string
	// ResolvedRefs counts the $ref nodes replaced during loading.
	ResolvedRefs int
	LoadTime     time.Duration
	SourceSize   int64
	Stats        DocumentStats
}

// Parse reads and parses the document at specPath.
func (p *Parser) Parse(specPath string) (*ParseResult, error) {
	loadStart := time.Now()
	info, err := os.Stat(specPath)
	if err != nil {
		return nil, &oaserrors.ParseError{Path: specPath, Message: "failed to read file", Cause: err}
	}
	if info.Size() > p.maxFileSize() {
		return nil, &oaserrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        p.maxFileSize(),
			Actual:       info.Size(),
			Message:      specPath,
		}
	}
	data, err := os.ReadFile(specPath)
	if err != nil {
		return nil, &oaserrors.ParseError{Path: specPath, Message: "failed to read file", Cause: err}
	}
	loadTime := time.Since(loadStart)

	res, err := p.parseBytesWithBaseDir(data, filepath.Dir(specPath), specPath)
	if err != nil {
		return nil, err
	}
	res.LoadTime = loadTime
	if strings.EqualFold(filepath.Ext(specPath), ".json") {
		res.SourceFormat = SourceFormatJSON
	}
	return res, nil
}

// ParseReader parses a document read from r.
// SourcePath is set to ParseReader.yaml or ParseReader.json.
func (p *Parser) ParseReader(r io.Reader) (*ParseResult, error) {
	loadStart := time.Now()
	data, err := io.ReadAll(io.LimitReader(r, p.maxFileSize()+1))
	loadTime := time.Since(loadStart)
	if err != nil {
		return nil, &oaserrors.ParseError{Message: "failed to read data", Cause: err}
	}
	if int64(len(data)) > p.maxFileSize() {
		return nil, &oaserrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        p.maxFileSize(),
			Actual:       int64(len(data)),
			Message:      "reader input too large",
		}
	}
	res, err := p.parseBytesWithBaseDir(data, ".", "ParseReader")
	if err != nil {
		return nil, err
	}
	res.LoadTime = loadTime
	res.SourcePath = "ParseReader." + string(res.SourceFormat)
	return res, nil
}

// ParseBytes parses a document held in memory. File references resolve
// against the working directory.
// SourcePath is set to ParseBytes.yaml or ParseBytes.json.
func (p *Parser) ParseBytes(data []byte) (*ParseResult, error) {
	if int64(len(data)) > p.maxFileSize() {
		return nil, &oaserrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        p.maxFileSize(),
			Actual:       int64(len(data)),
			Message:      "input too large",
		}
	}
	res, err := p.parseBytesWithBaseDir(data, ".", "ParseBytes")
	if err != nil {
		return nil, err
	}
	res.SourcePath = "ParseBytes." + string(res.SourceFormat)
	return res, nil
}

func (p *Parser) parseBytesWithBaseDir(data []byte, baseDir, source string) (*ParseResult, error) {
	log := p.log().With("source", source)
	result := &ParseResult{
		SourcePath:   source,
		SourceFormat: detectFormatFromContent(data),
		SourceSize:   int64(len(data)),
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &oaserrors.ParseError{Path: source, Message: "failed to parse YAML/JSON", Cause: err}
	}
	if raw == nil {
		return nil, &oaserrors.ParseError{Path: source, Message: "empty document"}
	}
	if err := checkVersion(raw); err != nil {
		return nil, &oaserrors.ParseError{Path: source, Message: err.Error()}
	}

	var doc *Document
	if p.ResolveRefs {
		resolver := NewRefResolver(baseDir)
		resolver.MaxRefDepth = p.MaxRefDepth
		resolver.MaxCachedDocuments = p.MaxCachedDocuments
		resolver.MaxFileSize = p.MaxFileSize
		resolver.Logger = log

		var err error
		doc, err = resolver.decodeResolved(raw)
		if err != nil {
			return nil, err
		}
		result.ResolvedRefs = resolver.Resolved()
		log.Debug("references resolved", "count", result.ResolvedRefs)
	} else {
		doc = &Document{}
		if err := yaml.Unmarshal(data, doc); err != nil {
			return nil, &oaserrors.ParseError{Path: source, Message: "failed to decode document", Cause: err}
		}
		if n := countRefs(raw); n > 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("document contains %d unresolved $ref node(s); parse with reference resolution before compiling", n))
		}
	}

	result.Document = doc
	result.Stats = GetDocumentStats(doc)
	log.Debug("document parsed",
		"paths", result.Stats.PathCount,
		"operations", result.Stats.OperationCount)
	return result, nil
}

// checkVersion accepts only Swagger 2.0 documents.
func checkVersion(raw map[string]any) error {
	v, ok := raw["swagger"]
	if !ok {
		if _, isOAS3 := raw["openapi"]; isOAS3 {
			return fmt.Errorf("unsupported document: only Swagger 2.0 is supported (found openapi %v)", raw["openapi"])
		}
		return fmt.Errorf("missing swagger version field")
	}
	switch ver := v.(type) {
	case string:
		if ver == "2.0" {
			return nil
		}
	case float64:
		if ver == 2 {
			return nil
		}
	case int:
		if ver == 2 {
			return nil
		}
	}
	return fmt.Errorf("unsupported swagger version %v: only 2.0 is supported", v)
}

func countRefs(v any) int {
	n := 0
	switch t := v.(type) {
	case map[string]any:
		if _, ok := t["$ref"].(string); ok {
			n++
		}
		for _, val := range t {
			n += countRefs(val)
		}
	case map[any]any:
		if _, ok := t["$ref"].(string); ok {
			n++
		}
		for _, val := range t {
			n += countRefs(val)
		}
	case []any:
		for _, item := range t {
			n += countRefs(item)
		}
	}
	return n
}

func detectFormatFromContent(data []byte) SourceFormat {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return SourceFormatJSON
	}
	return SourceFormatYAML
}
