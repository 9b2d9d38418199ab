package commands

import (
	"bytes"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/erraggy/oasmatch/compiler"
	"github.com/erraggy/oasmatch/document"
	"github.com/erraggy/oasmatch/internal/cliutil"
	"github.com/erraggy/oasmatch/middleware"
)

// stringList collects a repeatable flag.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ", ")
}

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// CheckFlags contains flags for the check command
type CheckFlags struct {
	CompileFlags
	Method      string
	Params      stringList
	Body        string
	ContentType string
	Response    string
	Format      string
}

// SetupCheckFlags creates and configures a FlagSet for the check command.
func SetupCheckFlags() (*flag.FlagSet, *CheckFlags) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(Stderr)
	flags := &CheckFlags{}

	flags.register(fs)
	fs.StringVar(&flags.Method, "method", http.MethodGet, "HTTP method")
	fs.StringVar(&flags.Method, "X", http.MethodGet, "HTTP method")
	fs.Var(&flags.Params, "param", "request parameter as in:name=value, in is query, header or formData (repeatable)")
	fs.Var(&flags.Params, "p", "request parameter as in:name=value (repeatable)")
	fs.StringVar(&flags.Body, "body", "", "request body, or @file to read it from a file")
	fs.StringVar(&flags.ContentType, "content-type", "", "request Content-Type (default application/json with --body)")
	fs.StringVar(&flags.Response, "response", "", "also validate a response given as status=body or status=@file")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: oasmatch check [flags] <file|-> <path>\n\n")
		cliutil.Writef(fs.Output(), "Route a request and validate its parameters against a Swagger 2.0 document.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  oasmatch check swagger.yaml '/api/pets?limit=20'\n")
		cliutil.Writef(fs.Output(), "  oasmatch check -p query:limit=20 -p header:X-Trace=beef swagger.yaml /api/pets\n")
		cliutil.Writef(fs.Output(), "  oasmatch check -X POST --body @pet.json swagger.yaml /api/pets\n")
		cliutil.Writef(fs.Output(), "  oasmatch check --response '200={\"id\":1,\"name\":\"rex\"}' swagger.yaml /api/pets/1\n")
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    Request (and response, if given) valid\n")
		cliutil.Writef(fs.Output(), "  1    Request or response invalid, or the document failed to compile\n")
	}

	return fs, flags
}

// CheckReport is the structured output of the check command.
type CheckReport struct {
	Request          *middleware.Result   `json:"request" yaml:"request"`
	ResponseStatus   int                  `json:"responseStatus,omitempty" yaml:"responseStatus,omitempty"`
	ResponseProblems []middleware.Problem `json:"responseProblems,omitempty" yaml:"responseProblems,omitempty"`
	Valid            bool                 `json:"valid" yaml:"valid"`
}

// HandleCheck executes the check command
func HandleCheck(args []string) error {
	fs, flags := SetupCheckFlags()
	if ok, err := parseArgs(fs, args); !ok {
		return err
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("check command requires a file path and a request path")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	req, err := BuildRequest(flags.Method, fs.Arg(1), flags.Params, flags.Body, flags.ContentType)
	if err != nil {
		return err
	}
	var status int
	var responseBody []byte
	if flags.Response != "" {
		if status, responseBody, err = parseResponseFlag(flags.Response); err != nil {
			return err
		}
	}

	_, d, err := LoadAndCompile(fs.Arg(0), &flags.CompileFlags)
	if err != nil {
		return err
	}

	guard := middleware.New(d, middleware.WithLogger(NewLogger(flags.Verbose)))
	report := &CheckReport{Request: guard.Check(req)}
	report.Valid = report.Request.Valid()
	if flags.Response != "" && report.Request.Match == compiler.Matched.String() && report.Request.Method != "" {
		header := http.Header{}
		header.Set("Content-Type", "application/json")
		report.ResponseStatus = status
		report.ResponseProblems = guard.CheckResponse(req, status, header, responseBody)
		report.Valid = report.Valid && len(report.ResponseProblems) == 0
	}

	if flags.Format != FormatText {
		if err := OutputStructured(report, flags.Format); err != nil {
			return err
		}
	} else {
		writeCheckText(report, req)
	}

	if !report.Valid {
		return ErrFailed
	}
	return nil
}

// BuildRequest assembles the request described on the command line. Query
// parameters may also be given in rawPath. formData parameters become an
// urlencoded body when no body is given.
func BuildRequest(method, rawPath string, params []string, body, contentType string) (*http.Request, error) {
	u, err := url.Parse(rawPath)
	if err != nil {
		return nil, fmt.Errorf("invalid request path %q: %w", rawPath, err)
	}

	query := u.Query()
	header := http.Header{}
	form := url.Values{}
	for _, p := range params {
		in, rest, ok := strings.Cut(p, ":")
		name, val, hasValue := strings.Cut(rest, "=")
		if !ok || !hasValue || name == "" {
			return nil, fmt.Errorf("invalid --param %q: expected in:name=value", p)
		}
		switch in {
		case document.InQuery:
			query.Add(name, val)
		case document.InHeader:
			header.Add(name, val)
		case document.InFormData:
			form.Add(name, val)
		default:
			return nil, fmt.Errorf("invalid --param %q: location must be query, header or formData", p)
		}
	}
	u.RawQuery = query.Encode()

	data, err := readArg(body)
	if err != nil {
		return nil, err
	}
	switch {
	case len(form) > 0 && len(data) > 0:
		return nil, fmt.Errorf("formData parameters and --body are mutually exclusive")
	case len(form) > 0:
		data = []byte(form.Encode())
		if contentType == "" {
			contentType = "application/x-www-form-urlencoded"
		}
	case len(data) > 0 && contentType == "":
		contentType = "application/json"
	}

	req, err := http.NewRequest(strings.ToUpper(method), u.String(), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	req.Header = header
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// parseResponseFlag splits status=body.
func parseResponseFlag(v string) (int, []byte, error) {
	code, body, _ := strings.Cut(v, "=")
	status, err := strconv.Atoi(code)
	if err != nil || status < 100 || status > 599 {
		return 0, nil, fmt.Errorf("invalid --response %q: expected status=body", v)
	}
	data, err := readArg(body)
	if err != nil {
		return 0, nil, err
	}
	return status, data, nil
}

// readArg returns the argument, or the contents of the file it names when
// prefixed with '@'.
func readArg(v string) ([]byte, error) {
	if name, ok := strings.CutPrefix(v, "@"); ok {
		data, err := os.ReadFile(name) //nolint:gosec // G304 - reading user-named files is the point of a CLI
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		return data, nil
	}
	return []byte(v), nil
}

func writeCheckText(report *CheckReport, req *http.Request) {
	result := report.Request
	target := fmt.Sprintf("%s %s", cliutil.Method(req.Method), req.URL.Path)
	if result.Valid() {
		cliutil.Writef(Stdout, "%s\n", cliutil.OK("%s -> %s", target, result.Template))
	} else {
		cliutil.Writef(Stdout, "%s\n", cliutil.Fail("%s rejected with %d %s", target, result.Status, http.StatusText(result.Status)))
	}
	writeProblems(result.Problems)

	if report.ResponseStatus == 0 {
		return
	}
	if len(report.ResponseProblems) == 0 {
		cliutil.Writef(Stdout, "%s\n", cliutil.OK("response %d valid", report.ResponseStatus))
		return
	}
	cliutil.Writef(Stdout, "%s\n", cliutil.Fail("response %d invalid", report.ResponseStatus))
	writeProblems(report.ResponseProblems)
}

func writeProblems(problems []middleware.Problem) {
	for _, p := range problems {
		where := p.Location
		if p.Name != "" {
			where += ":" + p.Name
		}
		if p.Path != "" && p.Path != "$" {
			where += " " + p.Path
		}
		cliutil.Writef(Stdout, "  %s: %s\n", where, p.Message)
	}
}
