package compiler

import (
	"strings"

	"github.com/erraggy/oasmatch/document"
	"github.com/erraggy/oasmatch/oaserrors"
)

// Compile builds a Dispatcher for doc with the default options.
func Compile(doc *document.Document) (*Dispatcher, error) {
	return CompileWithOptions(doc)
}

// CompileWithOptions builds a Dispatcher for doc. The document must already
// be dereferenced: a $ref left on a path item, parameter or response is a
// compile error. doc is not modified, but the dispatcher shares its path
// items, so doc must not be mutated afterwards.
func CompileWithOptions(doc *document.Document, opts ...Option) (*Dispatcher, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if doc == nil {
		return nil, &oaserrors.CompileError{Message: "document is nil"}
	}

	log := cfg.logger.With("backend", cfg.generator.Name())
	d := &Dispatcher{
		doc:      doc,
		basePath: strings.TrimSuffix(doc.BasePath, "/"),
		backend:  cfg.generator.Name(),
	}

	operations := 0
	seen := make(map[string]string)
	for _, template := range doc.Paths.Templates() {
		item := doc.Paths[template]
		if item == nil {
			item = &document.PathItem{}
		}
		if item.Ref != "" {
			return nil, &oaserrors.CompileError{
				Path:    template,
				Message: "unresolved path item reference " + item.Ref,
			}
		}

		cp, err := CompilePath(doc.BasePath, template, cfg.suffixMatching)
		if err != nil {
			return nil, &oaserrors.CompileError{
				Path:    template,
				Message: "invalid path template",
				Cause:   err,
			}
		}
		cp.Path = item
		if cp.Operations, err = cfg.attachValidators(template, item); err != nil {
			return nil, err
		}

		if other, ok := seen[shape(template)]; ok {
			log.Warn("path templates overlap, requests will not match either",
				"path", template,
				"other", other,
			)
		} else {
			seen[shape(template)] = template
		}

		log.Debug("compiled path",
			"path", template,
			"regex", cp.Regex.String(),
			"methods", len(cp.Operations),
		)
		operations += len(cp.Operations)
		d.paths = append(d.paths, cp)
	}

	log.Info("compiled document",
		"title", doc.Title(),
		"basePath", d.basePath,
		"paths", len(d.paths),
		"operations", operations,
	)
	return d, nil
}

// shape replaces every parameter name of template with "{}", so templates
// that differ only in parameter names compare equal.
func shape(template string) string {
	var b strings.Builder
	depth := 0
	for _, r := range template {
		switch {
		case r == '{':
			depth++
			b.WriteString("{}")
		case r == '}':
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
