package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/erraggy/oasmatch/compiler"
	"github.com/erraggy/oasmatch/document"
	"github.com/erraggy/oasmatch/value"
)

// MatchHeader carries the routing outcome ("none" or "ambiguous") on 404
// responses.
const MatchHeader = "X-Match"

// Guard validates HTTP traffic with the validators of a compiled document.
// It is safe for concurrent use.
type Guard struct {
	d   *compiler.Dispatcher
	cfg *config
}

// New returns a Guard for d. It panics if d is nil.
func New(d *compiler.Dispatcher, opts ...Option) *Guard {
	if d == nil {
		panic("middleware: nil dispatcher")
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Guard{d: d, cfg: cfg}
}

// Handler wraps next. Requests that do not route to an operation, or whose
// parameters fail validation, are answered by the failure handler and never
// reach next. Accepted requests carry their Result in the context.
func (g *Guard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result, op := g.check(r)
		if result.Match != compiler.Matched.String() {
			w.Header().Set(MatchHeader, result.Match)
		}
		if !result.Valid() {
			g.cfg.logger.Debug("request rejected",
				"method", r.Method,
				"path", r.URL.Path,
				"status", result.Status,
				"problems", len(result.Problems),
			)
			g.cfg.onFailure(w, r, result)
			return
		}

		r = r.WithContext(contextWithResult(r.Context(), result))
		if !g.cfg.validateResponses {
			next.ServeHTTP(w, r)
			return
		}

		rec := newRecorder()
		next.ServeHTTP(rec, r)
		problems := g.checkResponse(op, rec.status, rec.header, rec.body.Bytes())
		if len(problems) > 0 {
			g.cfg.logger.Warn("response failed validation",
				"method", r.Method,
				"template", result.Template,
				"status", rec.status,
				"problems", len(problems),
			)
			if g.cfg.strictResponses {
				writeJSON(w, http.StatusInternalServerError, map[string]any{
					"error":    "response failed validation",
					"template": result.Template,
					"problems": problems,
				})
				return
			}
		}
		rec.flush(w)
	})
}

// Check routes r and validates its parameters without serving it. The
// request body, if read, is restored.
func (g *Guard) Check(r *http.Request) *Result {
	result, _ := g.check(r)
	return result
}

// CheckResponse validates a response for the operation r routes to.
func (g *Guard) CheckResponse(r *http.Request, status int, header http.Header, body []byte) []Problem {
	m := g.d.Resolve(r.URL.EscapedPath())
	if m.Outcome != compiler.Matched {
		return []Problem{{Location: LocationRoute, Message: fmt.Sprintf("no unique path matches %q", r.URL.Path)}}
	}
	op, ok := m.Path.Operation(r.Method)
	if !ok {
		return []Problem{{Location: LocationRoute, Message: fmt.Sprintf("method %s is not declared for %s", r.Method, m.Path.Name)}}
	}
	return g.checkResponse(op, status, header, body)
}

func (g *Guard) check(r *http.Request) (*Result, *compiler.CompiledOperation) {
	result := &Result{}
	m := g.d.Resolve(r.URL.EscapedPath())
	result.Match = m.Outcome.String()

	switch m.Outcome {
	case compiler.NoMatch:
		result.Status = http.StatusNotFound
		result.add(Problem{Location: LocationRoute, Message: fmt.Sprintf("no path matches %q", r.URL.Path)})
		return result, nil
	case compiler.Ambiguous:
		result.Status = http.StatusNotFound
		result.add(Problem{
			Location: LocationRoute,
			Message:  fmt.Sprintf("path %q matches %s", r.URL.Path, strings.Join(m.Candidates, ", ")),
		})
		return result, nil
	}

	cp := m.Path
	result.Template = cp.Name
	op, ok := cp.Operation(r.Method)
	if !ok {
		result.Status = http.StatusMethodNotAllowed
		result.add(Problem{Location: LocationRoute, Message: fmt.Sprintf("method %s is not declared for %s", r.Method, cp.Name)})
		return result, nil
	}
	result.Method = op.Method
	result.PathParams = cp.Extract(r.URL.EscapedPath())

	g.checkParameters(r, op, result)
	if len(result.Problems) > 0 && result.Status == 0 {
		result.Status = http.StatusBadRequest
	}
	return result, op
}

// request lazily reads the parts of r the parameters need.
type request struct {
	r       *http.Request
	max     int64
	query   url.Values
	form    url.Values
	body    []byte
	readErr error
	read    bool
}

func (req *request) rawBody() ([]byte, error) {
	if req.read {
		return req.body, req.readErr
	}
	req.read = true
	if req.r.Body == nil || req.r.Body == http.NoBody {
		return nil, nil
	}
	req.body, req.readErr = io.ReadAll(http.MaxBytesReader(nil, req.r.Body, req.max))
	req.r.Body = io.NopCloser(bytes.NewReader(req.body))
	return req.body, req.readErr
}

func (req *request) formValues() (url.Values, error) {
	if req.form != nil {
		return req.form, nil
	}
	data, err := req.rawBody()
	if err != nil {
		return nil, err
	}
	mediaType, _, _ := mime.ParseMediaType(req.r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := req.r.ParseMultipartForm(req.max); err != nil {
			return nil, err
		}
		req.r.Body = io.NopCloser(bytes.NewReader(data))
		req.form = url.Values{}
		for k, vs := range req.r.MultipartForm.Value {
			req.form[k] = vs
		}
		for k, files := range req.r.MultipartForm.File {
			for _, f := range files {
				req.form.Add(k, f.Filename)
			}
		}
		return req.form, nil
	}
	if req.form, err = url.ParseQuery(string(data)); err != nil {
		return nil, err
	}
	return req.form, nil
}

func (g *Guard) checkParameters(r *http.Request, op *compiler.CompiledOperation, result *Result) {
	req := &request{r: r, max: g.cfg.maxBodySize, query: r.URL.Query()}

	for _, p := range op.Parameters {
		name := p.Param.Name
		var v value.Value

		switch p.Param.In {
		case document.InQuery:
			v = fromValues(req.query[name], p.Format)
		case document.InHeader:
			if values := r.Header.Values(name); len(values) > 0 {
				v = value.String(strings.Join(values, ","))
			}
		case document.InPath:
			if raw, ok := result.PathParams[name]; ok {
				seg, err := url.PathUnescape(raw)
				if err != nil {
					seg = raw
				}
				v = compiler.Coerce(p.Fragment(), p.Format, value.String(seg))
			}
		case document.InFormData:
			form, err := req.formValues()
			if err != nil {
				g.bodyProblem(result, err)
				continue
			}
			v = compiler.Coerce(p.Fragment(), p.Format, fromValues(form[name], p.Format))
		case document.InBody:
			data, err := req.rawBody()
			if err != nil {
				g.bodyProblem(result, err)
				continue
			}
			if v, err = decodeBody(r.Header, data); err != nil {
				result.add(Problem{Location: document.InBody, Name: name, Path: "$", Message: err.Error()})
				continue
			}
		}

		if p.Validate(v) {
			continue
		}
		violations := p.Explain(v)
		if len(violations) == 0 {
			result.add(Problem{Location: p.Param.In, Name: name, Path: "$", Message: "value is invalid"})
		}
		for _, viol := range violations {
			if viol.Warning {
				continue
			}
			result.add(Problem{Location: p.Param.In, Name: name, Path: viol.Path, Message: viol.Message})
		}
	}
}

func (g *Guard) bodyProblem(result *Result, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		result.Status = http.StatusRequestEntityTooLarge
		result.add(Problem{Location: LocationBody, Message: fmt.Sprintf("body exceeds %d bytes", tooLarge.Limit)})
		return
	}
	result.add(Problem{Location: LocationBody, Message: "cannot read body: " + err.Error()})
}

func (g *Guard) checkResponse(op *compiler.CompiledOperation, status int, header http.Header, body []byte) []Problem {
	code := strconv.Itoa(status)
	cr, ok := op.Response(code)
	if !ok {
		return []Problem{{Location: LocationResponse, Message: fmt.Sprintf("status %s is not declared", code)}}
	}
	if int64(len(body)) > g.cfg.maxBodySize {
		g.cfg.logger.Debug("response body too large to validate", "status", code, "size", len(body))
		return nil
	}
	v, err := decodeBody(header, body)
	if err != nil {
		return []Problem{{Location: LocationResponse, Path: "$", Message: err.Error()}}
	}
	if cr.Validate(v) {
		return nil
	}
	var problems []Problem
	for _, viol := range cr.Explain(v) {
		if !viol.Warning {
			problems = append(problems, Problem{Location: LocationResponse, Path: viol.Path, Message: viol.Message})
		}
	}
	if len(problems) == 0 {
		problems = append(problems, Problem{Location: LocationResponse, Path: "$", Message: "body is invalid"})
	}
	return problems
}

// fromValues converts the occurrences of a query or form field. One
// occurrence is a string; repeated occurrences, or any occurrence of a multi
// parameter, form an array.
func fromValues(values []string, f compiler.CollectionFormat) value.Value {
	switch {
	case len(values) == 0:
		return value.Absent()
	case len(values) == 1 && f != compiler.Multi:
		return value.String(values[0])
	}
	return value.Strings(values...)
}

// decodeBody decodes JSON bodies. An empty body is absent; bodies with a
// non-JSON content type are passed through as strings.
func decodeBody(header http.Header, data []byte) (value.Value, error) {
	if len(data) == 0 {
		return value.Absent(), nil
	}
	ct := header.Get("Content-Type")
	if ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err == nil && mediaType != "application/json" && !strings.HasSuffix(mediaType, "+json") {
			return value.String(string(data)), nil
		}
	}
	v, err := value.Decode(data)
	if err != nil {
		return value.Value{}, fmt.Errorf("invalid JSON body: %w", err)
	}
	return v, nil
}
