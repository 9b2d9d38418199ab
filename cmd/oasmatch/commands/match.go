package commands

import (
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/erraggy/oasmatch/compiler"
	"github.com/erraggy/oasmatch/internal/cliutil"
)

// MatchFlags contains flags for the match command
type MatchFlags struct {
	CompileFlags
	Method string
	Format string
}

// SetupMatchFlags creates and configures a FlagSet for the match command.
func SetupMatchFlags() (*flag.FlagSet, *MatchFlags) {
	fs := flag.NewFlagSet("match", flag.ContinueOnError)
	fs.SetOutput(Stderr)
	flags := &MatchFlags{}

	flags.register(fs)
	fs.StringVar(&flags.Method, "method", "", "also require the matched template to declare this HTTP method")
	fs.StringVar(&flags.Method, "X", "", "also require the matched template to declare this HTTP method")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: oasmatch match [flags] <file|-> <path>\n\n")
		cliutil.Writef(fs.Output(), "Find the path template a request path addresses. The path includes the base path.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  oasmatch match swagger.yaml /api/pets/42\n")
		cliutil.Writef(fs.Output(), "  oasmatch match -X delete swagger.yaml /api/pets/42\n")
		cliutil.Writef(fs.Output(), "  oasmatch match --suffix swagger.yaml /gateway/api/pets\n")
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    Exactly one template matched (and declares the method, if given)\n")
		cliutil.Writef(fs.Output(), "  1    No template or several templates matched, or the method is not declared\n")
	}

	return fs, flags
}

// MatchReport is the structured output of the match command.
type MatchReport struct {
	Path       string            `json:"path" yaml:"path"`
	Outcome    string            `json:"outcome" yaml:"outcome"`
	Template   string            `json:"template,omitempty" yaml:"template,omitempty"`
	Params     map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Methods    []string          `json:"methods,omitempty" yaml:"methods,omitempty"`
	Declared   *bool             `json:"methodDeclared,omitempty" yaml:"methodDeclared,omitempty"`
	Candidates []string          `json:"candidates,omitempty" yaml:"candidates,omitempty"`
}

// OK reports whether the match succeeded.
func (r *MatchReport) OK() bool {
	return r.Outcome == compiler.Matched.String() && (r.Declared == nil || *r.Declared)
}

// BuildMatchReport resolves path against d.
func BuildMatchReport(d *compiler.Dispatcher, path, method string) *MatchReport {
	path, _, _ = strings.Cut(path, "?")
	m := d.Resolve(path)
	report := &MatchReport{Path: path, Outcome: m.Outcome.String(), Candidates: m.Candidates}
	if m.Outcome != compiler.Matched {
		return report
	}
	report.Template = m.Path.Name
	report.Params = m.Path.Extract(path)
	report.Methods = m.Path.Methods()
	if method != "" {
		_, ok := m.Path.Operation(method)
		report.Declared = &ok
	}
	return report
}

// HandleMatch executes the match command
func HandleMatch(args []string) error {
	fs, flags := SetupMatchFlags()
	if ok, err := parseArgs(fs, args); !ok {
		return err
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("match command requires a file path and a request path")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	_, d, err := LoadAndCompile(fs.Arg(0), &flags.CompileFlags)
	if err != nil {
		return err
	}

	report := BuildMatchReport(d, fs.Arg(1), flags.Method)
	if flags.Format != FormatText {
		if err := OutputStructured(report, flags.Format); err != nil {
			return err
		}
	} else {
		writeMatchText(report, flags.Method)
	}

	if !report.OK() {
		return ErrFailed
	}
	return nil
}

func writeMatchText(report *MatchReport, method string) {
	switch report.Outcome {
	case compiler.NoMatch.String():
		cliutil.Writef(Stdout, "%s\n", cliutil.Fail("no template matches %s", report.Path))
		return
	case compiler.Ambiguous.String():
		cliutil.Writef(Stdout, "%s\n", cliutil.Fail("%s is ambiguous", report.Path))
		for _, c := range report.Candidates {
			cliutil.Writef(Stdout, "  %s\n", c)
		}
		return
	}

	cliutil.Writef(Stdout, "%s\n", cliutil.OK("%s", report.Template))
	names := make([]string, 0, len(report.Params))
	for name := range report.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cliutil.Writef(Stdout, "  %s = %s\n", name, report.Params[name])
	}
	cliutil.Writef(Stdout, "  methods: %s\n", cliutil.MethodList(report.Methods))
	if report.Declared != nil && !*report.Declared {
		cliutil.Writef(Stdout, "%s\n", cliutil.Fail("method %s is not declared for %s", strings.ToUpper(method), report.Template))
	}
}
