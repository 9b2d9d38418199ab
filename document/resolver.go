package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasmatch/oaserrors"
)

const (
	// MaxRefDepth is the maximum depth allowed for nested $ref resolution
	MaxRefDepth = 100

	// MaxCachedDocuments is the maximum number of external documents to cache
	MaxCachedDocuments = 100

	// MaxFileSize is the maximum size (in bytes) allowed for a document file
	MaxFileSize = 10 * 1024 * 1024 // 10MB
)

// RefResolver replaces $ref nodes with their targets in a raw document tree.
//
// A RefResolver is not safe for concurrent use.
type RefResolver struct {
	// MaxRefDepth overrides MaxRefDepth when positive.
	MaxRefDepth int
	// MaxCachedDocuments overrides MaxCachedDocuments when positive.
	MaxCachedDocuments int
	// MaxFileSize overrides MaxFileSize when positive.
	MaxFileSize int64
	// Logger receives debug output; nil means no logging.
	Logger Logger

	baseDir string
	// resolving holds the refs on the current resolution stack, keyed by
	// the document they were resolved in.
	resolving map[string]bool
	documents map[string]map[string]any
	resolved  int
}

// NewRefResolver creates a resolver for local and file references.
// Relative file references resolve against baseDir and may not leave it.
func NewRefResolver(baseDir string) *RefResolver {
	if baseDir == "" {
		baseDir = "."
	}
	return &RefResolver{
		baseDir:   baseDir,
		resolving: make(map[string]bool),
		documents: make(map[string]map[string]any),
	}
}

func (r *RefResolver) log() Logger { return OrNop(r.Logger) }

func (r *RefResolver) maxDepth() int {
	if r.MaxRefDepth > 0 {
		return r.MaxRefDepth
	}
	return MaxRefDepth
}

func (r *RefResolver) maxDocs() int {
	if r.MaxCachedDocuments > 0 {
		return r.MaxCachedDocuments
	}
	return MaxCachedDocuments
}

func (r *RefResolver) maxFileSize() int64 {
	if r.MaxFileSize > 0 {
		return r.MaxFileSize
	}
	return MaxFileSize
}

// Resolved returns how many $ref nodes have been replaced so far.
func (r *RefResolver) Resolved() int { return r.resolved }

// ResolveLocal resolves a JSON pointer reference (#/path/to/node) within doc.
func (r *RefResolver) ResolveLocal(doc map[string]any, ref string) (any, error) {
	ref = strings.TrimPrefix(ref, "#")
	if ref == "" || ref == "/" {
		return doc, nil
	}

	parts := strings.Split(strings.TrimPrefix(ref, "/"), "/")
	current := any(doc)
	for i, part := range parts {
		part = unescapeJSONPointer(part)

		switch v := current.(type) {
		case map[string]any:
			next, ok := v[part]
			if !ok {
				return nil, &oaserrors.ReferenceError{
					Ref:     "#/" + strings.Join(parts[:i+1], "/"),
					RefType: "local",
					Message: fmt.Sprintf("missing key: %s", part),
				}
			}
			current = next

		case []any:
			index, err := strconv.Atoi(part)
			if err != nil || index < 0 {
				return nil, &oaserrors.ReferenceError{
					Ref:     "#/" + strings.Join(parts[:i+1], "/"),
					RefType: "local",
					Message: fmt.Sprintf("invalid array index '%s'", part),
				}
			}
			if index >= len(v) {
				return nil, &oaserrors.ReferenceError{
					Ref:     "#/" + strings.Join(parts[:i+1], "/"),
					RefType: "local",
					Message: fmt.Sprintf("array index %d out of bounds (length %d)", index, len(v)),
				}
			}
			current = v[index]

		default:
			return nil, &oaserrors.ReferenceError{
				Ref:     "#/" + strings.Join(parts[:i+1], "/"),
				RefType: "local",
				Message: fmt.Sprintf("cannot traverse into %T", v),
			}
		}
	}
	return current, nil
}

// ResolveExternal resolves a file reference (common.yaml#/definitions/Error).
// It returns the target node and the document it was found in.
func (r *RefResolver) ResolveExternal(ref string) (any, map[string]any, error) {
	filePart, internal, _ := strings.Cut(ref, "#")

	doc, err := r.loadExternal(ref, filePart)
	if err != nil {
		return nil, nil, err
	}
	if internal == "" {
		return doc, doc, nil
	}
	target, err := r.ResolveLocal(doc, "#"+internal)
	if err != nil {
		return nil, nil, err
	}
	return target, doc, nil
}

func (r *RefResolver) loadExternal(ref, filePart string) (map[string]any, error) {
	filePath := filePart
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Clean(filepath.Join(r.baseDir, filePath))
	}

	absBase, err := filepath.Abs(r.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file path: %w", err)
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, &oaserrors.ReferenceError{
			Ref:             ref,
			RefType:         "file",
			IsPathTraversal: true,
		}
	}

	if doc, ok := r.documents[absPath]; ok {
		return doc, nil
	}
	if len(r.documents) >= r.maxDocs() {
		return nil, &oaserrors.ResourceLimitError{
			ResourceType: "cached_documents",
			Limit:        int64(r.maxDocs()),
			Actual:       int64(len(r.documents)),
			Message:      "too many external references",
		}
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, &oaserrors.ReferenceError{Ref: ref, RefType: "file", Message: "failed to read file", Cause: err}
	}
	if int64(len(data)) > r.maxFileSize() {
		return nil, &oaserrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        r.maxFileSize(),
			Actual:       int64(len(data)),
			Message:      absPath,
		}
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &oaserrors.ReferenceError{Ref: ref, RefType: "file", Message: "failed to parse file", Cause: err}
	}
	doc, _ := normalizeYAML(raw).(map[string]any)
	if doc == nil {
		doc = map[string]any{}
	}
	r.documents[absPath] = doc
	r.log().Debug("loaded external document", "path", absPath, "bytes", len(data))
	return doc, nil
}

// ResolveAllRefs walks doc and replaces every $ref node with a deep copy of
// its target. Cyclic references fail with a ReferenceError.
func (r *RefResolver) ResolveAllRefs(doc map[string]any) error {
	return r.resolveRefsRecursive(doc, "", doc, 0)
}

// resolveRefsRecursive walks current, resolving local refs against root.
// docID names root ("" for the main document) so cycle tracking does not
// confuse equal pointers in different files.
func (r *RefResolver) resolveRefsRecursive(root map[string]any, docID string, current any, depth int) error {
	if depth > r.maxDepth() {
		return &oaserrors.ResourceLimitError{
			ResourceType: "ref_depth",
			Limit:        int64(r.maxDepth()),
			Actual:       int64(depth),
			Message:      "structure too deeply nested",
		}
	}

	switch v := current.(type) {
	case map[string]any:
		ref, ok := v["$ref"].(string)
		if !ok {
			for _, val := range v {
				if err := r.resolveRefsRecursive(root, docID, val, depth+1); err != nil {
					return err
				}
			}
			return nil
		}

		external := !strings.HasPrefix(ref, "#")
		key := docID + ref
		if external {
			key = ref
		}
		if ref == "#" || ref == "#/" || r.resolving[key] {
			return &oaserrors.ReferenceError{
				Ref:        ref,
				RefType:    refType(ref),
				IsCircular: true,
			}
		}
		r.resolving[key] = true
		defer delete(r.resolving, key)

		var (
			target    any
			targetDoc = root
			targetID  = docID
			err       error
		)
		if external {
			filePart, _, _ := strings.Cut(ref, "#")
			target, targetDoc, err = r.ResolveExternal(ref)
			targetID = filePart + "#"
		} else {
			target, err = r.ResolveLocal(root, ref)
		}
		if err != nil {
			return err
		}

		targetMap, ok := target.(map[string]any)
		if !ok {
			return &oaserrors.ReferenceError{
				Ref:     ref,
				RefType: refType(ref),
				Message: fmt.Sprintf("target is not an object (got %T)", target),
			}
		}

		// Copy before clearing v: the target may contain v itself.
		replacement := deepCopy(targetMap).(map[string]any)
		for k := range v {
			delete(v, k)
		}
		for k, val := range replacement {
			v[k] = val
		}
		r.resolved++
		r.log().Debug("resolved reference", "ref", ref, "depth", depth)

		return r.resolveRefsRecursive(targetDoc, targetID, v, depth+1)

	case []any:
		for _, item := range v {
			if err := r.resolveRefsRecursive(root, docID, item, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// Dereference returns an equivalent copy of doc with every $ref replaced by
// its target. doc itself is not modified.
func (r *RefResolver) Dereference(doc *Document) (*Document, error) {
	if doc == nil {
		return nil, &oaserrors.ParseError{Message: "nil document"}
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, &oaserrors.ParseError{Message: "failed to encode document", Cause: err}
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &oaserrors.ParseError{Message: "failed to re-read document", Cause: err}
	}
	return r.decodeResolved(raw)
}

// decodeResolved resolves raw in place and decodes it into a Document.
func (r *RefResolver) decodeResolved(raw map[string]any) (*Document, error) {
	root, _ := normalizeYAML(raw).(map[string]any)
	if root == nil {
		root = map[string]any{}
	}
	if err := r.ResolveAllRefs(root); err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(root)
	if err != nil {
		return nil, &oaserrors.ParseError{Message: "failed to encode resolved document", Cause: err}
	}
	var out Document
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, &oaserrors.ParseError{Message: "failed to decode resolved document", Cause: err}
	}
	return &out, nil
}

// Dereference inlines every $ref of doc, resolving file references against
// the working directory.
func Dereference(doc *Document) (*Document, error) {
	return NewRefResolver(".").Dereference(doc)
}

func refType(ref string) string {
	if strings.HasPrefix(ref, "#") {
		return "local"
	}
	return "file"
}

func unescapeJSONPointer(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}

// normalizeYAML converts map[any]any nodes (produced for mappings with
// non-string keys such as unquoted status codes) into map[string]any.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalizeYAML(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = normalizeYAML(item)
		}
		return t
	}
	return v
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = deepCopy(item)
		}
		return out
	}
	return v
}
