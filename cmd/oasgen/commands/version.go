package commands

import (
	"errors"
	"flag"

	"github.com/erraggy/oasgen"
	"github.com/erraggy/oasgen/internal/cliutil"
)

// HandleVersion prints the version, or the full build details with -v.
func HandleVersion(args []string) error {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "print commit, build time and Go version")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if *verbose {
		cliutil.Writef(stdout, "%s", oasgen.BuildInfo())
		return nil
	}
	cliutil.Writef(stdout, "oasgen v%s\n", oasgen.Version())
	return nil
}
