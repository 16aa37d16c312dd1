package commands

import (
	"errors"
	"flag"
	"fmt"

	"github.com/erraggy/oasgen/internal/cliutil"
	"github.com/erraggy/oasgen/oas"
)

// ConvertFlags contains flags for the convert command
type ConvertFlags struct {
	Format string
	Output string
	Quiet  bool
}

// SetupConvertFlags creates and configures a FlagSet for the convert command.
// Returns the FlagSet and a ConvertFlags struct with bound flag variables.
func SetupConvertFlags() (*flag.FlagSet, *ConvertFlags) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	flags := &ConvertFlags{}

	fs.StringVar(&flags.Format, "f", "", "target format: json or yaml (default: opposite of the source)")
	fs.StringVar(&flags.Format, "format", "", "target format: json or yaml (default: opposite of the source)")
	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output the document, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output the document, no diagnostic messages")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: oasgen convert [flags] <file|->\n\n")
		cliutil.Writef(fs.Output(), "Convert an OpenAPI document between JSON and YAML, keeping key order.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  oasgen convert openapi.yaml -o openapi.json\n")
		cliutil.Writef(fs.Output(), "  oasgen convert -f yaml openapi.json\n")
		cliutil.Writef(fs.Output(), "  cat openapi.json | oasgen convert -q -f yaml - > openapi.yaml\n")
	}

	return fs, flags
}

// HandleConvert executes the convert command
func HandleConvert(args []string) error {
	fs, flags := SetupConvertFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("convert command requires exactly one file path or '-' for stdin")
	}
	specPath := fs.Arg(0)

	if err := ValidateOutputPath(flags.Output, []string{specPath}); err != nil {
		return err
	}

	data, source, err := readSource(specPath)
	if err != nil {
		return err
	}

	target, err := targetFormat(flags.Format, flags.Output, source)
	if err != nil {
		return err
	}

	converted, err := oas.ConvertFormat(data, target)
	if err != nil {
		return fmt.Errorf("converting %s: %w", FormatSpecPath(specPath), err)
	}
	if err := cliutil.WriteOutput(stdout, flags.Output, converted); err != nil {
		return err
	}

	if !flags.Quiet {
		cliutil.Writef(stderr, "Converted %s from %s to %s\n", FormatSpecPath(specPath), source, target)
	}
	return nil
}

// targetFormat picks the explicit format, else the output file's extension,
// else the opposite of the source format.
func targetFormat(explicit, output string, source oas.Format) (oas.Format, error) {
	switch {
	case explicit != "":
		return cliutil.ParseFormat(explicit)
	case output != "" && output != StdinFilePath:
		return oas.FormatFromPath(output), nil
	case source == oas.FormatJSON:
		return oas.FormatYAML, nil
	default:
		return oas.FormatJSON, nil
	}
}
