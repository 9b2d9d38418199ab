package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/erraggy/oasmatch"
	"github.com/erraggy/oasmatch/cmd/oasmatch/commands"
)

// commandNames lists the subcommands, for suggestions on typos.
var commandNames = []string{"compile", "match", "check", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	var err error

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("oasmatch %s\n", oasmatch.Version())
		fmt.Println(oasmatch.BuildInfo())
		return
	case "help", "-h", "--help":
		printUsage()
		return
	case "compile":
		err = commands.HandleCompile(os.Args[2:])
	case "match":
		err = commands.HandleMatch(os.Args[2:])
	case "check":
		err = commands.HandleCheck(os.Args[2:])
	case "mcp":
		err = commands.HandleMCP(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if s := suggestCommand(command); s != "" {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", s)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		if !errors.Is(err, commands.ErrFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// suggestCommand returns the command closest to input within edit distance
// 2, or "".
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := levenshtein(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func printUsage() {
	fmt.Println(`oasmatch - Swagger 2.0 request matcher and validator

Usage:
  oasmatch <command> [options]

Commands:
  compile     Compile a document and list its path patterns and parameters
  match       Find the path template a request path addresses
  check       Validate a request (and optionally a response) against a document
  mcp         Serve compile, match and check over MCP on stdio
  version     Show version information
  help        Show this help message

Examples:
  oasmatch compile swagger.yaml
  oasmatch match swagger.yaml /api/pets/42
  oasmatch check -p query:limit=20 swagger.yaml /api/pets
  oasmatch check -X POST --body @pet.json swagger.yaml /api/pets

Run 'oasmatch <command> --help' for more information on a command.`)
}
