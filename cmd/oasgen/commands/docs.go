package commands

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"time"

	"github.com/erraggy/oasgen/docs"
	"github.com/erraggy/oasgen/internal/cliutil"
)

// DocsFlags contains flags for the docs command
type DocsFlags struct {
	Output     string
	Dir        string
	Markdown   bool
	Unexported bool
	Verbose    bool
}

// SetupDocsFlags creates and configures a FlagSet for the docs command.
// Returns the FlagSet and a DocsFlags struct with bound flag variables.
func SetupDocsFlags() (*flag.FlagSet, *DocsFlags) {
	fs := flag.NewFlagSet("docs", flag.ContinueOnError)
	flags := &DocsFlags{}

	fs.StringVar(&flags.Output, "o", StdinFilePath, "manifest output file, '-' for stdout")
	fs.StringVar(&flags.Output, "output", StdinFilePath, "manifest output file, '-' for stdout")
	fs.StringVar(&flags.Dir, "dir", "", "directory the package patterns are resolved in")
	fs.BoolVar(&flags.Markdown, "markdown", false, "render doc comments as CommonMark instead of plain text")
	fs.BoolVar(&flags.Unexported, "unexported", false, "include unexported types and functions")
	fs.BoolVar(&flags.Verbose, "v", false, "log progress to stderr")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: oasgen docs [flags] [packages]\n\n")
		cliutil.Writef(fs.Output(), "Harvest Go doc comments into a manifest used for schema and operation descriptions.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  oasgen docs -o docs.json ./...\n")
		cliutil.Writef(fs.Output(), "  oasgen docs -markdown ./api\n")
		cliutil.Writef(fs.Output(), "\nEmbed the manifest and pass it to builder.WithDescriber and builder.WithOperationDocs.\n")
	}

	return fs, flags
}

// HandleDocs executes the docs command
func HandleDocs(ctx context.Context, args []string) error {
	fs, flags := SetupDocsFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if err := ValidateOutputPath(flags.Output, nil); err != nil {
		return err
	}

	logger := slog.New(slog.DiscardHandler)
	if flags.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	patterns := fs.Args()
	start := time.Now()
	logger.Debug("loading packages", "patterns", patterns, "dir", flags.Dir)

	manifest, err := docs.Load(ctx, docs.LoadOptions{
		Dir:        flags.Dir,
		Markdown:   flags.Markdown,
		Unexported: flags.Unexported,
	}, patterns...)
	if err != nil {
		return err
	}
	logger.Info("harvested doc comments", "entries", manifest.Len(), "elapsed", time.Since(start))

	if flags.Output == StdinFilePath {
		return manifest.Write(stdout)
	}
	if err := manifest.WriteFile(flags.Output); err != nil {
		return err
	}
	logger.Info("wrote manifest", "path", flags.Output)
	return nil
}
