package compiler

import (
	"fmt"
	"sort"

	"github.com/erraggy/oasmatch/document"
	"github.com/erraggy/oasmatch/oaserrors"
	"github.com/erraggy/oasmatch/schema"
	"github.com/erraggy/oasmatch/value"
)

// CompiledParameter pairs a parameter with its validator.
type CompiledParameter struct {
	// Param is the document's parameter, shared.
	Param *document.Parameter

	// Validator checks a value delivered for the parameter. For query and
	// header parameters it coerces strings to the declared type first.
	Validator Validator

	// Format is the parsed collectionFormat (CSV when none is declared).
	Format CollectionFormat

	fragment *document.Schema
	compiled schema.Compiled
	coerce   bool
}

// Validate runs the parameter's validator.
func (p *CompiledParameter) Validate(v value.Value) bool {
	return p.Validator(v)
}

// Explain returns the violations behind a failed Validate, after the same
// presence check and coercion.
func (p *CompiledParameter) Explain(v value.Value) []schema.Violation {
	if v.IsAbsent() {
		if p.Param.Required {
			return []schema.Violation{{Path: "$", Message: "required parameter is missing"}}
		}
		return nil
	}
	if p.coerce {
		v = Coerce(p.fragment, p.Format, v)
	}
	return p.compiled.Violations(v)
}

// Fragment returns the schema the parameter is validated against.
func (p *CompiledParameter) Fragment() *document.Schema {
	return p.fragment
}

// Coerces reports whether values are coerced from strings before validation.
func (p *CompiledParameter) Coerces() bool {
	return p.coerce
}

// CompiledResponse pairs a response with its validator.
type CompiledResponse struct {
	// Code is the status code or "default".
	Code string

	// Response is the document's response, shared.
	Response *document.Response

	// Validator checks a decoded response body. Responses without a schema
	// only accept an absent, null or empty-string body.
	Validator Validator

	compiled schema.Compiled
}

// Validate runs the response's validator.
func (r *CompiledResponse) Validate(v value.Value) bool {
	return r.Validator(v)
}

// Explain returns the violations behind a failed Validate.
func (r *CompiledResponse) Explain(v value.Value) []schema.Violation {
	if r.compiled == nil {
		if isEmptyBody(v) {
			return nil
		}
		return []schema.Violation{{Path: "$", Message: "response declares no body"}}
	}
	return r.compiled.Violations(v)
}

// CompiledOperation holds the validators of one operation.
type CompiledOperation struct {
	// Method is the lowercase HTTP method.
	Method string

	// Operation is the document's operation, shared.
	Operation *document.Operation

	// Parameters are the effective parameters: path-level ones first, with
	// operation-level parameters overriding on (in, name).
	Parameters []*CompiledParameter

	// Responses are keyed by status code or "default".
	Responses map[string]*CompiledResponse
}

// Parameter looks up a parameter by location and name.
func (op *CompiledOperation) Parameter(in, name string) (*CompiledParameter, bool) {
	for _, p := range op.Parameters {
		if p.Param.In == in && p.Param.Name == name {
			return p, true
		}
	}
	return nil, false
}

// ParametersIn returns the parameters declared in location in, in order.
func (op *CompiledOperation) ParametersIn(in string) []*CompiledParameter {
	var out []*CompiledParameter
	for _, p := range op.Parameters {
		if p.Param.In == in {
			out = append(out, p)
		}
	}
	return out
}

// Response returns the response for code, falling back to "default".
func (op *CompiledOperation) Response(code string) (*CompiledResponse, bool) {
	if r, ok := op.Responses[code]; ok {
		return r, true
	}
	r, ok := op.Responses["default"]
	return r, ok
}

// ResponseCodes returns the declared response codes, sorted.
func (op *CompiledOperation) ResponseCodes() []string {
	codes := make([]string, 0, len(op.Responses))
	for c := range op.Responses {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// attachValidators compiles every operation of item. The document is only
// read; validators live in the returned structures.
func (c *config) attachValidators(template string, item *document.PathItem) (map[string]*CompiledOperation, error) {
	ops := make(map[string]*CompiledOperation)
	declared := item.Operations()
	for _, method := range item.OperationMethods() {
		op := declared[method]
		compiled := &CompiledOperation{
			Method:    method,
			Operation: op,
			Responses: make(map[string]*CompiledResponse),
		}

		for _, p := range effectiveParameters(item, op) {
			cp, err := c.compileParameter(p)
			if err != nil {
				return nil, &oaserrors.CompileError{
					Path:     template,
					Method:   method,
					Location: "parameter " + p.Key(),
					Message:  "cannot build validator",
					Cause:    err,
				}
			}
			compiled.Parameters = append(compiled.Parameters, cp)
		}

		for code, resp := range op.Responses.All() {
			cr, err := c.compileResponse(code, resp)
			if err != nil {
				return nil, &oaserrors.CompileError{
					Path:     template,
					Method:   method,
					Location: "response " + code,
					Message:  "cannot build validator",
					Cause:    err,
				}
			}
			compiled.Responses[code] = cr
		}

		c.logger.Debug("compiled operation",
			"path", template,
			"method", method,
			"parameters", len(compiled.Parameters),
			"responses", len(compiled.Responses),
		)
		ops[method] = compiled
	}
	return ops, nil
}

// effectiveParameters merges path-level and operation-level parameters.
func effectiveParameters(item *document.PathItem, op *document.Operation) []*document.Parameter {
	out := make([]*document.Parameter, 0, len(item.Parameters)+len(op.Parameters))
	index := make(map[string]int)
	for _, list := range [][]*document.Parameter{item.Parameters, op.Parameters} {
		for _, p := range list {
			if p == nil {
				continue
			}
			if i, ok := index[p.Key()]; ok {
				out[i] = p
				continue
			}
			index[p.Key()] = len(out)
			out = append(out, p)
		}
	}
	return out
}

func (c *config) compileParameter(p *document.Parameter) (*CompiledParameter, error) {
	if p.Ref != "" {
		return nil, errUnresolved(p.Ref)
	}
	frag := p.Fragment()
	compiled, err := c.generator.Compile(frag)
	if err != nil {
		return nil, err
	}
	pred := validOf(compiled)

	format, known := ParseCollectionFormat(p.Collection())
	if !known {
		c.logger.Warn("unknown collectionFormat, treating as multi",
			"parameter", p.Key(),
			"collectionFormat", p.Collection(),
		)
	}

	cp := &CompiledParameter{
		Param:    p,
		Format:   format,
		fragment: frag,
		compiled: compiled,
	}
	switch p.In {
	case document.InQuery, document.InHeader:
		cp.coerce = true
		cp.Validator = CoercionValidator(frag, format, p.Required, pred)
	default:
		cp.Validator = presence(p.Required, pred)
	}
	return cp, nil
}

func (c *config) compileResponse(code string, r *document.Response) (*CompiledResponse, error) {
	cr := &CompiledResponse{Code: code, Response: r}
	if r == nil || r.Schema == nil {
		if r != nil && r.Ref != "" {
			return nil, errUnresolved(r.Ref)
		}
		cr.Validator = isEmptyBody
		return cr, nil
	}
	compiled, err := c.generator.Compile(r.Schema)
	if err != nil {
		return nil, err
	}
	cr.compiled = compiled
	cr.Validator = Validator(validOf(compiled))
	return cr, nil
}

func validOf(c schema.Compiled) schema.Predicate {
	return func(v value.Value) bool {
		return schema.Valid(c.Violations(v))
	}
}

// isEmptyBody accepts the bodies allowed for a response without a schema.
func isEmptyBody(v value.Value) bool {
	switch v.Kind() {
	case value.KindAbsent, value.KindNull:
		return true
	case value.KindString:
		s, _ := v.AsString()
		return s == ""
	}
	return false
}

func errUnresolved(ref string) error {
	return fmt.Errorf("unresolved reference %q", ref)
}
