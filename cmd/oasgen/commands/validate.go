package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/erraggy/oasgen/internal/cliutil"
)

// ValidateFlags contains flags for the validate command
type ValidateFlags struct {
	NoExamples bool
	Quiet      bool
	Format     string
}

// ValidateResult is the structured output of the validate command.
type ValidateResult struct {
	Specification string   `json:"specification" yaml:"specification"`
	Version       string   `json:"version"       yaml:"version"`
	Valid         bool     `json:"valid"         yaml:"valid"`
	ErrorCount    int      `json:"error_count"   yaml:"error_count"`
	Errors        []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// SetupValidateFlags creates and configures a FlagSet for the validate command.
// Returns the FlagSet and a ValidateFlags struct with bound flag variables.
func SetupValidateFlags() (*flag.FlagSet, *ValidateFlags) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	flags := &ValidateFlags{}

	fs.BoolVar(&flags.NoExamples, "no-examples", false, "skip validating examples against their schemas")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output validation result, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output validation result, no diagnostic messages")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: oasgen validate [flags] <file|->\n\n")
		cliutil.Writef(fs.Output(), "Validate an OpenAPI 3.0 document, such as one written with OASGEN_WRITE_SPEC=true.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  oasgen validate openapi.yaml\n")
		cliutil.Writef(fs.Output(), "  oasgen validate --format json openapi.json | jq '.valid'\n")
		cliutil.Writef(fs.Output(), "  cat openapi.yaml | oasgen validate -q -\n")
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    Validation successful\n")
		cliutil.Writef(fs.Output(), "  1    Validation failed with errors\n")
	}

	return fs, flags
}

// HandleValidate executes the validate command
func HandleValidate(ctx context.Context, args []string) error {
	fs, flags := SetupValidateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("validate command requires exactly one file path or '-' for stdin")
	}
	specPath := fs.Arg(0)

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	startTime := time.Now()
	doc, _, err := loadDocument(ctx, specPath)
	if err != nil {
		return err
	}

	var opts []openapi3.ValidationOption
	if flags.NoExamples {
		opts = append(opts, openapi3.DisableExamplesValidation())
	}
	result := ValidateResult{
		Specification: FormatSpecPath(specPath),
		Version:       doc.OpenAPI,
	}
	result.Errors = splitErrors(doc.Validate(ctx, opts...))
	result.ErrorCount = len(result.Errors)
	result.Valid = result.ErrorCount == 0

	if flags.Format != FormatText {
		if err := OutputStructured(result, flags.Format); err != nil {
			return err
		}
	} else if !flags.Quiet {
		cliutil.Writef(stderr, "OpenAPI Document Validator\n")
		cliutil.Writef(stderr, "==========================\n\n")
		OutputSpecHeader(specPath, result.Version)
		cliutil.Writef(stderr, "Total Time: %v\n\n", time.Since(startTime))
		if len(result.Errors) > 0 {
			cliutil.Writef(stderr, "Errors (%d):\n", result.ErrorCount)
			for _, e := range result.Errors {
				cliutil.Writef(stderr, "  %s\n", e)
			}
			cliutil.Writef(stderr, "\n")
		}
		if result.Valid {
			cliutil.Writef(stderr, "✓ Validation passed\n")
		} else {
			cliutil.Writef(stderr, "✗ Validation failed: %d error(s)\n", result.ErrorCount)
		}
	}

	if !result.Valid {
		return ErrValidationFailed
	}
	return nil
}

// splitErrors flattens a kin-openapi validation error into messages.
func splitErrors(err error) []string {
	if err == nil {
		return nil
	}
	var multi openapi3.MultiError
	if !errors.As(err, &multi) {
		return []string{err.Error()}
	}
	var msgs []string
	for _, e := range multi {
		msgs = append(msgs, splitErrors(e)...)
	}
	return msgs
}
