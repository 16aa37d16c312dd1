package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/erraggy/oasgen/cmd/oasgen/commands"
	"github.com/erraggy/oasgen/internal/cliutil"
)

// commandNames lists the commands offered as typo suggestions.
var commandNames = []string{"docs", "validate", "inspect", "convert", "mcp", "version", "help"}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	os.Exit(run(context.Background(), os.Args[1], os.Args[2:]))
}

// run dispatches a command and returns the process exit code.
func run(ctx context.Context, command string, args []string) int {
	var err error
	switch command {
	case "version", "-v", "--version":
		err = commands.HandleVersion(args)
	case "help", "-h", "--help":
		printUsage()
	case "docs":
		err = commands.HandleDocs(ctx, args)
	case "validate":
		err = commands.HandleValidate(ctx, args)
	case "inspect":
		err = commands.HandleInspect(ctx, args)
	case "convert":
		err = commands.HandleConvert(args)
	case "mcp":
		err = commands.HandleMCP(ctx, args)
	default:
		_, _ = fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if s := suggestCommand(command); s != "" {
			_, _ = fmt.Fprintf(os.Stderr, "Did you mean: %s?\n", s)
		}
		_, _ = fmt.Fprintln(os.Stderr)
		printUsage()
		return 1
	}

	if err != nil {
		if !errors.Is(err, commands.ErrValidationFailed) {
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// suggestCommand returns the closest known command within an edit distance
// of two, or "" when nothing is close enough.
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
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func printUsage() {
	cliutil.Writef(os.Stderr, `oasgen - OpenAPI 3.0 documents from Go handlers

Usage:
  oasgen <command> [options]

Commands:
  docs        Harvest Go doc comments into a description manifest
  validate    Validate a written OpenAPI document
  inspect     Summarize a document and list its operations
  convert     Convert a document between JSON and YAML
  mcp         Serve document tools over the Model Context Protocol (stdio)
  version     Show version information
  help        Show this help message

Examples:
  oasgen docs -o docs.json ./...
  OASGEN_WRITE_SPEC=true go run ./cmd/server && oasgen validate openapi.json
  oasgen inspect --format json openapi.yaml
  oasgen convert -o openapi.json openapi.yaml

Run 'oasgen <command> --help' for more information on a command.
`)
}
