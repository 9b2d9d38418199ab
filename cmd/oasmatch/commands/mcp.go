package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/oasmatch/internal/cliutil"
	"github.com/erraggy/oasmatch/internal/mcpserver"
)

// SetupMCPFlags creates the FlagSet for the mcp command. It takes no flags;
// the server is configured with OASMATCH_* environment variables.
func SetupMCPFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.SetOutput(Stderr)
	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: oasmatch mcp\n\n")
		cliutil.Writef(fs.Output(), "Serve the compile, match and check tools over the Model Context Protocol on stdio.\n\n")
		cliutil.Writef(fs.Output(), "Environment:\n")
		cliutil.Writef(fs.Output(), "  OASMATCH_SCHEMA_BACKEND    native (default) or jsonschema\n")
		cliutil.Writef(fs.Output(), "  OASMATCH_SUFFIX_MATCHING   let templates match after any path prefix\n")
		cliutil.Writef(fs.Output(), "  OASMATCH_CACHE_ENABLED     cache compiled documents (default true)\n")
		cliutil.Writef(fs.Output(), "  OASMATCH_CACHE_MAX_SIZE    compiled documents kept per session (default 10)\n")
	}
	return fs
}

// HandleMCP executes the mcp command
func HandleMCP(args []string) error {
	fs := SetupMCPFlags()
	if ok, err := parseArgs(fs, args); !ok {
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("mcp command takes no arguments")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}
