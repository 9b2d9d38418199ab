package compiler

import (
	"github.com/erraggy/oasmatch/document"
)

// Outcome classifies the result of matching a request path.
type Outcome int

const (
	// NoMatch means no compiled path matched.
	NoMatch Outcome = iota
	// Matched means exactly one compiled path matched.
	Matched
	// Ambiguous means more than one compiled path matched.
	Ambiguous
)

// String returns "none", "matched" or "ambiguous".
func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case Ambiguous:
		return "ambiguous"
	}
	return "none"
}

// Match is the detailed result of Resolve.
type Match struct {
	Outcome Outcome

	// Path is set when Outcome is Matched.
	Path *CompiledPath

	// Candidates lists the templates that matched, in sorted order. It is
	// only populated for Ambiguous results.
	Candidates []string
}

// Dispatcher maps request paths to compiled paths. It is immutable after
// Compile returns and safe for concurrent use.
type Dispatcher struct {
	doc      *document.Document
	basePath string
	paths    []*CompiledPath
	backend  string
}

// Resolve tests path against every compiled path.
func (d *Dispatcher) Resolve(path string) Match {
	var found *CompiledPath
	var candidates []string
	for _, cp := range d.paths {
		if !cp.Matches(path) {
			continue
		}
		if found == nil {
			found = cp
		}
		candidates = append(candidates, cp.Name)
	}
	switch len(candidates) {
	case 0:
		return Match{Outcome: NoMatch}
	case 1:
		return Match{Outcome: Matched, Path: found}
	}
	return Match{Outcome: Ambiguous, Candidates: candidates}
}

// Dispatch returns the single compiled path matching path. Both an absent
// and an ambiguous match report false; use Resolve to tell them apart.
func (d *Dispatcher) Dispatch(path string) (*CompiledPath, bool) {
	m := d.Resolve(path)
	if m.Outcome != Matched {
		return nil, false
	}
	return m.Path, true
}

// Paths returns the compiled paths sorted by template.
func (d *Dispatcher) Paths() []*CompiledPath {
	out := make([]*CompiledPath, len(d.paths))
	copy(out, d.paths)
	return out
}

// BasePath returns the document's base path as compiled.
func (d *Dispatcher) BasePath() string {
	return d.basePath
}

// Document returns the document the dispatcher was compiled from.
func (d *Dispatcher) Document() *document.Document {
	return d.doc
}

// Backend returns the name of the schema generator used for validators.
func (d *Dispatcher) Backend() string {
	return d.backend
}
