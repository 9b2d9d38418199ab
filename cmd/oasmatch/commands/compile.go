package commands

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/erraggy/oasmatch"
	"github.com/erraggy/oasmatch/compiler"
	"github.com/erraggy/oasmatch/document"
	"github.com/erraggy/oasmatch/internal/cliutil"
)

// CompileCommandFlags contains flags for the compile command
type CompileCommandFlags struct {
	CompileFlags
	Format string
	Quiet  bool
}

// SetupCompileFlags creates and configures a FlagSet for the compile command.
func SetupCompileFlags() (*flag.FlagSet, *CompileCommandFlags) {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	fs.SetOutput(Stderr)
	flags := &CompileCommandFlags{}

	flags.register(fs)
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only print the compiled templates")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only print the compiled templates")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: oasmatch compile [flags] <file|->\n\n")
		cliutil.Writef(fs.Output(), "Compile a Swagger 2.0 document and list its path patterns and validated parameters.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  oasmatch compile swagger.yaml\n")
		cliutil.Writef(fs.Output(), "  oasmatch compile --backend jsonschema --format json swagger.yaml\n")
		cliutil.Writef(fs.Output(), "  cat swagger.json | oasmatch compile -q -\n")
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    Document compiled\n")
		cliutil.Writef(fs.Output(), "  1    Document could not be loaded or compiled\n")
	}

	return fs, flags
}

// ParameterReport describes one compiled parameter.
type ParameterReport struct {
	Name             string `json:"name" yaml:"name"`
	In               string `json:"in" yaml:"in"`
	Type             string `json:"type,omitempty" yaml:"type,omitempty"`
	Required         bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Coerced          bool   `json:"coerced,omitempty" yaml:"coerced,omitempty"`
	CollectionFormat string `json:"collectionFormat,omitempty" yaml:"collectionFormat,omitempty"`
}

// OperationReport describes one compiled operation.
type OperationReport struct {
	Method      string            `json:"method" yaml:"method"`
	OperationID string            `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Parameters  []ParameterReport `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Responses   []string          `json:"responses,omitempty" yaml:"responses,omitempty"`
}

// PathReport describes one compiled path template.
type PathReport struct {
	Template   string            `json:"template" yaml:"template"`
	Regex      string            `json:"regex" yaml:"regex"`
	Params     []string          `json:"params,omitempty" yaml:"params,omitempty"`
	Operations []OperationReport `json:"operations,omitempty" yaml:"operations,omitempty"`
}

// CompileReport is the structured output of the compile command.
type CompileReport struct {
	Title    string                 `json:"title,omitempty" yaml:"title,omitempty"`
	Version  string                 `json:"version,omitempty" yaml:"version,omitempty"`
	BasePath string                 `json:"basePath,omitempty" yaml:"basePath,omitempty"`
	Backend  string                 `json:"backend" yaml:"backend"`
	Stats    document.DocumentStats `json:"stats" yaml:"stats"`
	Paths    []PathReport           `json:"paths" yaml:"paths"`
	Warnings []string               `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// BuildCompileReport summarizes a compiled document.
func BuildCompileReport(result *document.ParseResult, d *compiler.Dispatcher) *CompileReport {
	doc := d.Document()
	report := &CompileReport{
		Title:    doc.Title(),
		BasePath: d.BasePath(),
		Backend:  d.Backend(),
		Stats:    result.Stats,
		Warnings: result.Warnings,
	}
	if doc.Info != nil {
		report.Version = doc.Info.Version
	}
	for _, cp := range d.Paths() {
		pr := PathReport{Template: cp.Name, Regex: cp.Regex.String(), Params: cp.ParamNames()}
		for _, method := range cp.Methods() {
			pr.Operations = append(pr.Operations, operationReport(cp.Operations[method]))
		}
		report.Paths = append(report.Paths, pr)
	}
	return report
}

func operationReport(op *compiler.CompiledOperation) OperationReport {
	or := OperationReport{Method: op.Method, Responses: op.ResponseCodes()}
	if op.Operation != nil {
		or.OperationID = op.Operation.OperationID
	}
	for _, p := range op.Parameters {
		pr := ParameterReport{
			Name:     p.Param.Name,
			In:       p.Param.In,
			Type:     p.Param.Type,
			Required: p.Param.Required,
			Coerced:  p.Coerces(),
		}
		if p.Param.Type == "array" {
			pr.CollectionFormat = p.Format.String()
		}
		or.Parameters = append(or.Parameters, pr)
	}
	return or
}

// HandleCompile executes the compile command
func HandleCompile(args []string) error {
	fs, flags := SetupCompileFlags()
	if ok, err := parseArgs(fs, args); !ok {
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("compile command requires exactly one file path or '-' for stdin")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	specPath := fs.Arg(0)
	startTime := time.Now()
	result, d, err := LoadAndCompile(specPath, &flags.CompileFlags)
	if err != nil {
		return err
	}
	totalTime := time.Since(startTime)

	report := BuildCompileReport(result, d)
	if flags.Format != FormatText {
		return OutputStructured(report, flags.Format)
	}

	if !flags.Quiet {
		cliutil.Banner(Stderr, "Swagger 2.0 Compiler")
		cliutil.Writef(Stderr, "oasmatch version: %s\n", oasmatch.Version())
		cliutil.Writef(Stderr, "Specification: %s\n", FormatSpecPath(specPath))
		cliutil.Writef(Stderr, "Title: %s\n", report.Title)
		cliutil.Writef(Stderr, "Base Path: %s\n", orNone(report.BasePath))
		cliutil.Writef(Stderr, "Backend: %s\n", report.Backend)
		cliutil.Writef(Stderr, "Paths: %d\n", report.Stats.PathCount)
		cliutil.Writef(Stderr, "Operations: %d\n", report.Stats.OperationCount)
		cliutil.Writef(Stderr, "Parameters: %d\n", report.Stats.ParameterCount)
		cliutil.Writef(Stderr, "Responses: %d\n", report.Stats.ResponseCount)
		cliutil.Writef(Stderr, "Load Time: %v\n", result.LoadTime)
		cliutil.Writef(Stderr, "Total Time: %v\n\n", totalTime)
		writeWarnings(report.Warnings)
	}

	writeCompileText(report)

	if !flags.Quiet {
		cliutil.Writef(Stderr, "\n%s\n", cliutil.OK("Compiled %d path template(s)", len(report.Paths)))
	}
	return nil
}

func writeWarnings(warnings []string) {
	for _, w := range warnings {
		cliutil.Writef(Stderr, "%s\n", cliutil.Warn("warning: %s", w))
	}
}

func writeCompileText(report *CompileReport) {
	for _, p := range report.Paths {
		cliutil.Writef(Stdout, "%s  %s\n", p.Template, cliutil.Dim(p.Regex))
		for _, op := range p.Operations {
			line := cliutil.Method(op.Method)
			if op.OperationID != "" {
				line += " " + op.OperationID
			}
			cliutil.Writef(Stdout, "  %s\n", line)
			for _, param := range op.Parameters {
				cliutil.Writef(Stdout, "      %s\n", describeParameter(param))
			}
			if len(op.Responses) > 0 {
				cliutil.Writef(Stdout, "      responses: %s\n", strings.Join(op.Responses, ", "))
			}
		}
	}
}

func describeParameter(p ParameterReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%s", p.In, p.Name)
	if p.Type != "" {
		b.WriteString(" " + p.Type)
	}
	if p.CollectionFormat != "" {
		b.WriteString(" (" + p.CollectionFormat + ")")
	}
	if p.Required {
		b.WriteString(" required")
	}
	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
