// Package commands provides CLI command handlers for oasmatch.
package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	gojson "github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasmatch/compiler"
	"github.com/erraggy/oasmatch/document"
	"github.com/erraggy/oasmatch/internal/cliutil"
	"github.com/erraggy/oasmatch/schema"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// ErrFailed reports that a command ran but its verdict is negative: a path
// did not match or a request failed validation. The details have already
// been printed, so main only sets the exit status.
var ErrFailed = errors.New("commands: check failed")

// Stdout and Stderr are the command output streams. Tests replace them.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
	Stdin  io.Reader = os.Stdin
)

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured writes data in the specified format (json or yaml) to Stdout.
func OutputStructured(data any, format string) error {
	var out []byte
	var err error

	switch format {
	case FormatJSON:
		out, err = gojson.MarshalIndent(data, "", "  ")
	case FormatYAML:
		out, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}
	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	cliutil.Writef(Stdout, "%s\n", strings.TrimRight(string(out), "\n"))
	return nil
}

// FormatSpecPath returns a display-friendly path for the specification.
func FormatSpecPath(specPath string) string {
	if specPath == StdinFilePath {
		return "<stdin>"
	}
	return specPath
}

// CompileFlags are the flags shared by every command that compiles a document.
type CompileFlags struct {
	Backend        string
	SuffixMatching bool
	Verbose        bool
	NoColor        bool
}

func (f *CompileFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.Backend, "backend", schema.BackendNative, "schema validator backend: native or jsonschema")
	fs.BoolVar(&f.SuffixMatching, "suffix", false, "let templates match after any path prefix")
	fs.BoolVar(&f.Verbose, "verbose", false, "log compilation details to stderr")
	fs.BoolVar(&f.Verbose, "v", false, "log compilation details to stderr")
	fs.BoolVar(&f.NoColor, "no-color", false, "disable colored output")
}

// NewLogger returns a logger writing text records to Stderr. Only warnings
// and errors are shown unless verbose is set.
func NewLogger(verbose bool) document.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(Stderr, &slog.HandlerOptions{Level: level})
	return document.NewSlogAdapter(slog.New(handler))
}

// LoadAndCompile parses the document at specPath (or stdin for "-") with
// references resolved and compiles it.
func LoadAndCompile(specPath string, flags *CompileFlags) (*document.ParseResult, *compiler.Dispatcher, error) {
	if flags.NoColor {
		cliutil.DisableColor()
	}
	logger := NewLogger(flags.Verbose)

	opts := []document.Option{
		document.WithResolveRefs(true),
		document.WithLogger(logger),
	}
	if specPath == StdinFilePath {
		opts = append(opts, document.WithReader(Stdin))
	} else {
		opts = append(opts, document.WithFilePath(specPath))
	}
	result, err := document.ParseWithOptions(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s: %w", FormatSpecPath(specPath), err)
	}

	d, err := compiler.CompileWithOptions(result.Document,
		compiler.WithBackend(flags.Backend),
		compiler.WithSuffixMatching(flags.SuffixMatching),
		compiler.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("compiling %s: %w", FormatSpecPath(specPath), err)
	}
	return result, d, nil
}

// parseArgs parses args, treating --help as success. ok is false when the
// command should return immediately with err.
func parseArgs(fs *flag.FlagSet, args []string) (ok bool, err error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
