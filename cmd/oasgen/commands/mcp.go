package commands

import (
	"context"
	"errors"
	"flag"
	"os/signal"
	"syscall"

	"github.com/erraggy/oasgen/internal/cliutil"
	"github.com/erraggy/oasgen/internal/mcpserver"
)

// runMCPServer is replaced in tests.
var runMCPServer = mcpserver.Run

// SetupMCPFlags creates and configures a FlagSet for the mcp command.
func SetupMCPFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: oasgen mcp\n\n")
		cliutil.Writef(fs.Output(), "Serve OpenAPI document tools over the Model Context Protocol on stdio.\n\n")
		cliutil.Writef(fs.Output(), "Tools: validate, inspect, list_operations, list_schemas, convert\n\n")
		cliutil.Writef(fs.Output(), "Environment:\n")
		cliutil.Writef(fs.Output(), "  OASGEN_CACHE_ENABLED         cache loaded documents (default true)\n")
		cliutil.Writef(fs.Output(), "  OASGEN_CACHE_MAX_SIZE        maximum cached documents (default 10)\n")
		cliutil.Writef(fs.Output(), "  OASGEN_LIST_LIMIT            default page size for list tools (default 100)\n")
		cliutil.Writef(fs.Output(), "  OASGEN_MAX_INLINE_SIZE       maximum inline or fetched document size in bytes\n")
		cliutil.Writef(fs.Output(), "  OASGEN_ALLOW_PRIVATE_IPS     allow fetching documents from private addresses\n")
	}
	return fs
}

// HandleMCP executes the mcp command. It blocks until the client disconnects
// or the process receives an interrupt.
func HandleMCP(ctx context.Context, args []string) error {
	fs := SetupMCPFlags()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runMCPServer(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
